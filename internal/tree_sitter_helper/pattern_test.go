package treesitterhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

func parsePHP(t *testing.T, source string) (*tree_sitter.Node, []byte) {
	t.Helper()

	parser := tree_sitter.NewParser()
	require.NoError(t, parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())))
	t.Cleanup(parser.Close)

	content := []byte(source)
	tree := parser.Parse(content, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)

	return tree.RootNode(), content
}

func findNodeWithText(root *tree_sitter.Node, content []byte, kind, text string) *tree_sitter.Node {
	if root.Kind() == kind && string(root.Utf8Text(content)) == text {
		return root
	}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		if child := root.NamedChild(i); child != nil {
			if found := findNodeWithText(child, content, kind, text); found != nil {
				return found
			}
		}
	}
	return nil
}

func TestPatternCombinators(t *testing.T) {
	root, content := parsePHP(t, `<?php function getUser() { return 1; }`)

	nameNode := findNodeWithText(root, content, "name", "getUser")
	require.NotNil(t, nameNode)

	assert.True(t, NodeKind("name").Matches(nameNode, content))
	assert.False(t, NodeKind("variable_name").Matches(nameNode, content))
	assert.True(t, AnyNodeKind("comment", "name").Matches(nameNode, content))
	assert.True(t, NodeText("getUser").Matches(nameNode, content))
	assert.True(t, And(NodeKind("name"), NodeText("getUser")).Matches(nameNode, content))
	assert.False(t, And(NodeKind("name"), NodeText("other")).Matches(nameNode, content))
	assert.True(t, Or(NodeKind("comment"), NodeKind("name")).Matches(nameNode, content))
	assert.True(t, Ancestor(NodeKind("function_definition"), 1).Matches(nameNode, content))

	functionNode := nameNode.Parent()
	require.NotNil(t, functionNode)
	assert.True(t, HasChild(NodeText("getUser")).Matches(functionNode, content))
}

func TestIsPHPFunctionNameReference(t *testing.T) {
	root, content := parsePHP(t, `<?php $user->getName(); strlen('a'); function declared() {}`)

	methodName := findNodeWithText(root, content, "name", "getName")
	require.NotNil(t, methodName)
	assert.True(t, IsPHPFunctionNameReference(methodName, content))

	functionName := findNodeWithText(root, content, "name", "strlen")
	require.NotNil(t, functionName)
	assert.True(t, IsPHPFunctionNameReference(functionName, content))

	declarationName := findNodeWithText(root, content, "name", "declared")
	require.NotNil(t, declarationName)
	assert.False(t, IsPHPFunctionNameReference(declarationName, content))
	assert.True(t, IsPHPFunctionNameDeclaration(declarationName, content))
}
