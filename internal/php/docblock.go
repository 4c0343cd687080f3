package php

import (
	"regexp"
	"strings"
)

var (
	// Rendered hover signatures, e.g. "function getUsers(array $f): User[]"
	// or the arrow-fn form "fn(int $x): string".
	functionSignatureRe = regexp.MustCompile(`function\s*(?:[A-Za-z_][A-Za-z0-9_]*)?\s*\([^)]*\)\s*:\s*([^\s{]+)`)
	arrowFnSignatureRe  = regexp.MustCompile(`\bfn\s*\([^)]*\)\s*:\s*([^\s{]+)`)

	// Bare closure signatures like "\Closure(int $x): string". Only consulted
	// when the text carries no @return tag, otherwise this pattern would steal
	// the return portion of "@return callable(int): string".
	callableSignatureHoverRe = regexp.MustCompile(`\\?(?:Closure|callable)\s*\([^)]*\)\s*:\s*([^\s{]+)`)

	returnTagBacktickRe = regexp.MustCompile("@(?:psalm-|phpstan-)?return\\s+`([^`\r\n]+)`")
	returnTagRe         = regexp.MustCompile(`(?m)@(?:psalm-|phpstan-)?return\s+([^\r\n]+?)(?:\s*\*+/)?\s*$`)
	returnTagPresentRe  = regexp.MustCompile(`@(?:psalm-|phpstan-)?return\b`)
)

// ExtractDeclaredType searches a docblock or hover markdown blob for the
// return type it declares. The boolean is false when no pattern captures a
// usable type. The result still needs to go through NormalizeType before it
// can be displayed.
func ExtractDeclaredType(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	patterns := []*regexp.Regexp{functionSignatureRe, arrowFnSignatureRe}
	if !returnTagPresentRe.MatchString(text) {
		patterns = append(patterns, callableSignatureHoverRe)
	}
	patterns = append(patterns, returnTagBacktickRe, returnTagRe)

	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if captured := match[1]; isCleanCapture(captured) {
			return cleanupTypeText(captured), true
		}
	}

	return "", false
}

// isCleanCapture rejects captures that ran into markdown code fences or
// comment-close syntax, which happens when a pattern matches across lines of
// a rendered hover.
func isCleanCapture(captured string) bool {
	return !strings.Contains(captured, "```") && !strings.Contains(captured, "*")
}

func cleanupTypeText(captured string) string {
	cleaned := strings.TrimSpace(captured)
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimPrefix(cleaned, "\\")
	return strings.TrimSpace(cleaned)
}
