package php

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input stays empty",
			input:    "",
			expected: "",
		},
		{
			name:     "plain scalar passes through",
			input:    "int",
			expected: "int",
		},
		{
			name:     "void passes through",
			input:    "void",
			expected: "void",
		},
		{
			name:     "never passes through",
			input:    "never",
			expected: "never",
		},
		{
			name:     "class name passes through",
			input:    "User",
			expected: "User",
		},
		{
			name:     "namespaced class passes through",
			input:    "App\\Entity\\User",
			expected: "App\\Entity\\User",
		},
		{
			name:     "nullable scalar",
			input:    "?string",
			expected: "string|null",
		},
		{
			name:     "nullable class",
			input:    "?User",
			expected: "User|null",
		},
		{
			name:     "nullable array shorthand",
			input:    "?string[]",
			expected: "array|null",
		},
		{
			name:     "typed array collapses",
			input:    "string[]",
			expected: "array",
		},
		{
			name:     "generic array collapses",
			input:    "array<int, string>",
			expected: "array",
		},
		{
			name:     "mixed case generic array collapses",
			input:    "Array<Int, String>",
			expected: "array",
		},
		{
			name:     "list collapses",
			input:    "list<User>",
			expected: "array",
		},
		{
			name:     "non-empty-array collapses",
			input:    "non-empty-array<int, User>",
			expected: "array",
		},
		{
			name:     "bare non-empty-array collapses",
			input:    "non-empty-array",
			expected: "array",
		},
		{
			name:     "array shape collapses",
			input:    "array{id: int, name?: string|null}",
			expected: "array",
		},
		{
			name:     "nested array shape collapses",
			input:    "array{items: array<int, User>, total: int}",
			expected: "array",
		},
		{
			name:     "generic class strips parameters",
			input:    "Collection<User>",
			expected: "Collection",
		},
		{
			name:     "namespaced generic class strips parameters",
			input:    "Illuminate\\Support\\Collection<User>",
			expected: "Illuminate\\Support\\Collection",
		},
		{
			name:     "nested generic strips to bare name",
			input:    "Collection<array<int, User>>",
			expected: "Collection",
		},
		{
			name:     "callable signature collapses",
			input:    "callable(int): string",
			expected: "callable",
		},
		{
			name:     "callable with variadic params collapses",
			input:    "callable(int, string...): void",
			expected: "callable",
		},
		{
			name:     "closure signature collapses preserving case",
			input:    "Closure(User): string",
			expected: "Closure",
		},
		{
			name:     "positive-int collapses",
			input:    "positive-int",
			expected: "int",
		},
		{
			name:     "non-negative-int collapses",
			input:    "non-negative-int",
			expected: "int",
		},
		{
			name:     "class-string collapses",
			input:    "class-string",
			expected: "string",
		},
		{
			name:     "generic class-string collapses",
			input:    "class-string<User>",
			expected: "string",
		},
		{
			name:     "non-empty-string collapses",
			input:    "non-empty-string",
			expected: "string",
		},
		{
			name:     "numeric-string collapses",
			input:    "numeric-string",
			expected: "string",
		},
		{
			name:     "this alias becomes static",
			input:    "$this",
			expected: "static",
		},
		{
			name:     "union dedupes after collapsing",
			input:    "string[]|int[]",
			expected: "array",
		},
		{
			name:     "union preserves first-occurrence order",
			input:    "User|string[]|null",
			expected: "User|array|null",
		},
		{
			name:     "union members normalize independently",
			input:    "positive-int|class-string<User>",
			expected: "int|string",
		},
		{
			name:     "doubled separators recover",
			input:    "string||int",
			expected: "string|int",
		},
		{
			name:     "union inside generic is not split",
			input:    "array<int, string|null>",
			expected: "array",
		},
		{
			name:     "intersection group stays intact",
			input:    "(Countable&Iterator)|null",
			expected: "(Countable&Iterator)|null",
		},
		{
			name:     "bare intersection passes through",
			input:    "Countable&Iterator",
			expected: "Countable&Iterator",
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  string | int  ",
			expected: "string|int",
		},
		{
			name:     "unknown token passes through",
			input:    "some-unknown-thing",
			expected: "some-unknown-thing",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeType(tc.input))
		})
	}
}

func TestNormalizeTypeIsIdempotent(t *testing.T) {
	inputs := []string{
		"?User",
		"string[]|int[]",
		"User|string[]|null",
		"Collection<User>",
		"callable(int): string",
		"(Countable&Iterator)|null",
		"positive-int|negative-int",
		"array{id: int}",
		"$this",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := NormalizeType(input)
			assert.Equal(t, once, NormalizeType(once))
		})
	}
}
