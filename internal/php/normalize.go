// Package php provides PHP type analysis for the typehints LSP.
package php

import (
	"regexp"
	"strings"
)

// refinedIntAliases are docblock-only int subtypes (PHPStan/Psalm) that
// have no native PHP representation.
var refinedIntAliases = map[string]bool{
	"positive-int":     true,
	"negative-int":     true,
	"non-positive-int": true,
	"non-negative-int": true,
}

// refinedStringAliases are docblock-only string subtypes.
var refinedStringAliases = map[string]bool{
	"non-empty-string": true,
	"literal-string":   true,
	"class-string":     true,
	"callable-string":  true,
	"numeric-string":   true,
	"truthy-string":    true,
	"non-falsy-string": true,
}

var (
	callableSignatureRe = regexp.MustCompile(`^(?i)(callable|closure)\s*\(`)
	genericTypeRe       = regexp.MustCompile(`^([A-Za-z_\\][A-Za-z0-9_\\]*)<.+>$`)
)

// NormalizeType reduces a docblock/hover type expression to a type that is
// valid in a PHP declaration. Unknown tokens are returned unchanged, so the
// function is total over all strings and idempotent on its own output.
func NormalizeType(raw string) string {
	typeName := strings.TrimSpace(raw)
	if typeName == "" {
		return typeName
	}

	switch typeName {
	case "void", "never", "mixed", "null":
		return typeName
	}

	// Nullable shorthand (?T) becomes an explicit union with null.
	if strings.HasPrefix(typeName, "?") {
		return normalizeSingleType(strings.TrimSpace(typeName[1:])) + "|null"
	}

	if parts := splitTopLevelUnion(typeName); len(parts) > 1 {
		seen := make(map[string]bool, len(parts))
		normalized := make([]string, 0, len(parts))
		for _, part := range parts {
			member := normalizeSingleType(strings.TrimSpace(part))
			if !seen[member] {
				seen[member] = true
				normalized = append(normalized, member)
			}
		}
		return strings.Join(normalized, "|")
	}

	return normalizeSingleType(typeName)
}

// splitTopLevelUnion splits a type expression on every | that is not nested
// inside <>, () or {}. Empty segments from malformed input (e.g. "a||b") are
// dropped.
func splitTopLevelUnion(typeName string) []string {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(typeName); i++ {
		switch typeName[i] {
		case '<', '(', '{':
			depth++
		case '>', ')', '}':
			depth--
		case '|':
			if depth == 0 {
				if segment := strings.TrimSpace(typeName[start:i]); segment != "" {
					parts = append(parts, segment)
				}
				start = i + 1
			}
		}
	}

	if segment := strings.TrimSpace(typeName[start:]); segment != "" {
		parts = append(parts, segment)
	}

	return parts
}

// normalizeSingleType applies the rewrite rules for a type expression that
// contains no top-level union. The first matching rule wins; a type that
// matches no rule is returned as-is.
func normalizeSingleType(typeName string) string {
	if typeName == "$this" {
		return "static"
	}

	if strings.HasSuffix(typeName, "[]") {
		return "array"
	}

	lower := strings.ToLower(typeName)

	switch {
	case strings.HasPrefix(lower, "array<") && strings.HasSuffix(lower, ">"):
		return "array"
	case strings.HasPrefix(lower, "list<") && strings.HasSuffix(lower, ">"):
		return "array"
	case strings.HasPrefix(lower, "non-empty-array"):
		return "array"
	case strings.HasPrefix(lower, "array{") && strings.HasSuffix(lower, "}"):
		// Array shapes may nest unions, optional keys and further arrays
		// inside the braces; the contents are irrelevant here.
		return "array"
	}

	// callable(int): string / Closure(User): bool collapse to the bare
	// keyword, preserving the case the author wrote.
	if match := callableSignatureRe.FindStringSubmatch(typeName); match != nil {
		return match[1]
	}

	if refinedIntAliases[lower] {
		return "int"
	}

	if refinedStringAliases[lower] {
		return "string"
	}

	if strings.HasPrefix(lower, "class-string<") && strings.HasSuffix(lower, ">") {
		return "string"
	}

	// Generic application (Collection<User>) strips to the bare name.
	if match := genericTypeRe.FindStringSubmatch(typeName); match != nil {
		return match[1]
	}

	return typeName
}
