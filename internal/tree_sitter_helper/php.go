package treesitterhelper

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// GetFirstNodeOfKind returns the first direct child with the given kind.
func GetFirstNodeOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// FindDirectChildOfKind returns the first named direct child with the given
// kind. Unlike a recursive search this never picks up a matching node from a
// nested declaration.
func FindDirectChildOfKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// EnclosingOfKind walks up the tree to the nearest ancestor (or the node
// itself) whose kind is one of the given kinds.
func EnclosingOfKind(node *tree_sitter.Node, kinds ...string) *tree_sitter.Node {
	for current := node; current != nil; current = current.Parent() {
		for _, kind := range kinds {
			if current.Kind() == kind {
				return current
			}
		}
	}
	return nil
}

// IsPHPFunctionNameReference reports whether node is the name inside a
// function or method call expression.
var phpCallNamePattern = And(
	NodeKind("name"),
	Ancestor(AnyNodeKind(
		"function_call_expression",
		"member_call_expression",
		"scoped_call_expression",
		"nullsafe_member_call_expression",
	), 2),
)

func IsPHPFunctionNameReference(node *tree_sitter.Node, content []byte) bool {
	return phpCallNamePattern.Matches(node, content)
}

// IsPHPFunctionNameDeclaration reports whether node is the name of a
// function or method declaration.
var phpDeclarationNamePattern = And(
	NodeKind("name"),
	Ancestor(AnyNodeKind("function_definition", "method_declaration"), 1),
)

func IsPHPFunctionNameDeclaration(node *tree_sitter.Node, content []byte) bool {
	return phpDeclarationNamePattern.Matches(node, content)
}
