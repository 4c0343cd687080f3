package php

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// HasDeclaredReturnType reports whether a function-like node already carries
// a native return type declaration. Such functions need no hint.
func HasDeclaredReturnType(node *tree_sitter.Node) bool {
	return node != nil && node.ChildByFieldName("return_type") != nil
}

// DeclaredReturnType returns the text of a native return type declaration.
func DeclaredReturnType(node *tree_sitter.Node, content []byte) string {
	returnType := node.ChildByFieldName("return_type")
	if returnType == nil {
		return ""
	}
	return string(returnType.Utf8Text(content))
}

// DocCommentFor returns the docblock immediately preceding a function-like
// declaration, or the empty string when there is none.
func DocCommentFor(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}

	prev := node.PrevNamedSibling()
	if prev == nil || prev.Kind() != "comment" {
		return ""
	}

	text := string(prev.Utf8Text(content))
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return text
}

// ResolveReturnType determines the displayable return type for a
// function-like node: a docblock annotation wins, the body inference is the
// fallback. Both paths produce an already normalized type.
func ResolveReturnType(node *tree_sitter.Node, content []byte) (string, bool) {
	if docText := DocCommentFor(node, content); docText != "" {
		if raw, ok := ExtractDeclaredType(docText); ok {
			if normalized := NormalizeType(raw); normalized != "" {
				return normalized, true
			}
		}
	}

	return InferReturnType(node, content)
}
