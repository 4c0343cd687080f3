package php

import (
	"testing"

	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/stretchr/testify/assert"
)

// parseFirstFunction parses a PHP snippet and returns the first
// function-like node of the given kind.
func parseFirstFunction(t *testing.T, source string, kind string) (*tree_sitter.Node, []byte) {
	t.Helper()

	parser := tree_sitter.NewParser()
	require.NoError(t, parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())))
	t.Cleanup(parser.Close)

	content := []byte(source)
	tree := parser.Parse(content, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)

	node := findFirstKind(tree.RootNode(), kind)
	require.NotNil(t, node, "expected a %s node in:\n%s", kind, source)
	return node, content
}

func findFirstKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			if found := findFirstKind(child, kind); found != nil {
				return found
			}
		}
	}
	return nil
}

func TestInferReturnType(t *testing.T) {
	testCases := []struct {
		name     string
		source   string
		expected string
		found    bool
	}{
		{
			name:     "integer literal",
			source:   `<?php function f() { return 1; }`,
			expected: "int",
			found:    true,
		},
		{
			name:     "float literal",
			source:   `<?php function f() { return 1.5; }`,
			expected: "float",
			found:    true,
		},
		{
			name:     "string literal",
			source:   `<?php function f() { return 'hello'; }`,
			expected: "string",
			found:    true,
		},
		{
			name:     "interpolated string",
			source:   `<?php function f() { return "hello $name"; }`,
			expected: "string",
			found:    true,
		},
		{
			name:     "boolean literal",
			source:   `<?php function f() { return true; }`,
			expected: "bool",
			found:    true,
		},
		{
			name:     "array literal",
			source:   `<?php function f() { return [1, 2, 3]; }`,
			expected: "array",
			found:    true,
		},
		{
			name:     "null literal",
			source:   `<?php function f() { return null; }`,
			expected: "null",
			found:    true,
		},
		{
			name:     "no return statement",
			source:   `<?php function f() { $a = 1; }`,
			expected: "void",
			found:    true,
		},
		{
			name:     "empty body",
			source:   `<?php function f() { }`,
			expected: "void",
			found:    true,
		},
		{
			name:   "bare return only",
			source: `<?php function f($x) { if ($x) { return; } $x++; }`,
			found:  false,
		},
		{
			name:     "string or null paths",
			source:   `<?php function f($x) { if ($x) { return 'yes'; } return null; }`,
			expected: "string|null",
			found:    true,
		},
		{
			name:     "null first then string",
			source:   `<?php function f($x) { if ($x) { return null; } return 'yes'; }`,
			expected: "null|string",
			found:    true,
		},
		{
			name:     "scalar union in first-encountered order",
			source:   `<?php function f($x) { if ($x > 1) { return 1; } if ($x > 2) { return 'a'; } return false; }`,
			expected: "int|string|bool",
			found:    true,
		},
		{
			name:     "duplicate candidates collapse",
			source:   `<?php function f($x) { if ($x) { return 1; } return 2; }`,
			expected: "int",
			found:    true,
		},
		{
			name:   "variable return is unresolvable",
			source: `<?php function f($x) { return $x; }`,
			found:  false,
		},
		{
			name:   "unresolvable branch poisons resolvable one",
			source: `<?php function f($x) { if ($x) { return $x; } return 1; }`,
			found:  false,
		},
		{
			name:   "function call is unresolvable",
			source: `<?php function f() { return strlen('a'); }`,
			found:  false,
		},
		{
			name:     "object instantiation",
			source:   `<?php function f() { return new UserRepository(); }`,
			expected: "UserRepository",
			found:    true,
		},
		{
			name:   "dynamic instantiation is unresolvable",
			source: `<?php function f($class) { return new $class(); }`,
			found:  false,
		},
		{
			name:   "two different object types withhold result",
			source: `<?php function f($x) { if ($x) { return new Foo(); } return new Bar(); }`,
			found:  false,
		},
		{
			name:     "comparison operator",
			source:   `<?php function f($a, $b) { return $a === $b; }`,
			expected: "bool",
			found:    true,
		},
		{
			name:     "instanceof check",
			source:   `<?php function f($a) { return $a instanceof Countable; }`,
			expected: "bool",
			found:    true,
		},
		{
			name:     "logical negation",
			source:   `<?php function f($a) { return !$a; }`,
			expected: "bool",
			found:    true,
		},
		{
			name:     "string concatenation",
			source:   `<?php function f($a) { return $a . 'suffix'; }`,
			expected: "string",
			found:    true,
		},
		{
			name:     "integer arithmetic",
			source:   `<?php function f($a) { return $a + 1; }`,
			expected: "int",
			found:    true,
		},
		{
			name:     "float dominates int",
			source:   `<?php function f() { return 1 * 2.5; }`,
			expected: "float",
			found:    true,
		},
		{
			name:   "arithmetic on two unknowns is unresolvable",
			source: `<?php function f($a, $b) { return $a - $b; }`,
			found:  false,
		},
		{
			name:     "ternary with identical branches",
			source:   `<?php function f($x) { return $x ? 'a' : 'b'; }`,
			expected: "string",
			found:    true,
		},
		{
			name:     "ternary with two resolvable branches",
			source:   `<?php function f($x) { return $x ? 1 : 'a'; }`,
			expected: "int|string",
			found:    true,
		},
		{
			name:   "ternary with unresolvable branch",
			source: `<?php function f($x, $y) { return $x ? $y : 1; }`,
			found:  false,
		},
		{
			name:     "closure returns do not leak into outer scope",
			source:   `<?php function f() { $g = function () { return 1; }; }`,
			expected: "void",
			found:    true,
		},
		{
			name:     "arrow function returns do not leak into outer scope",
			source:   `<?php function f() { $g = fn () => 'x'; return true; }`,
			expected: "bool",
			found:    true,
		},
		{
			name:     "returns inside loops and switches are collected",
			source:   `<?php function f($x) { foreach ($x as $v) { if ($v) { return 1; } } switch ($x) { case 1: return 2; } return 3; }`,
			expected: "int",
			found:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node, content := parseFirstFunction(t, tc.source, "function_definition")

			actual, found := InferReturnType(node, content)
			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, tc.expected, actual)
			}
		})
	}
}

func TestInferReturnTypeForMethods(t *testing.T) {
	t.Run("returning the receiver infers static", func(t *testing.T) {
		source := `<?php class Builder { public function add($item) { $this->items[] = $item; return $this; } }`
		node, content := parseFirstFunction(t, source, "method_declaration")

		actual, found := InferReturnType(node, content)
		assert.True(t, found)
		assert.Equal(t, "static", actual)
	})

	t.Run("method returning property is unresolvable", func(t *testing.T) {
		source := `<?php class Builder { public function items() { return $this->items; } }`
		node, content := parseFirstFunction(t, source, "method_declaration")

		_, found := InferReturnType(node, content)
		assert.False(t, found)
	})
}

func TestInferReturnTypeForArrowFunctions(t *testing.T) {
	testCases := []struct {
		name     string
		source   string
		expected string
		found    bool
	}{
		{
			name:     "array body",
			source:   `<?php $f = fn () => [1, 2];`,
			expected: "array",
			found:    true,
		},
		{
			name:     "string body",
			source:   `<?php $f = fn ($x) => 'value';`,
			expected: "string",
			found:    true,
		},
		{
			name:   "parameter body is unresolvable",
			source: `<?php $f = fn ($x) => $x;`,
			found:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			node, content := parseFirstFunction(t, tc.source, "arrow_function")

			actual, found := InferReturnType(node, content)
			assert.Equal(t, tc.found, found)
			if tc.found {
				assert.Equal(t, tc.expected, actual)
			}
		})
	}
}
