package php

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// functionLikeKinds are the node kinds that open a new function scope.
// Return statements below one of these belong to that scope, not to the
// function being analyzed. Both spellings of the anonymous function kind are
// listed because the PHP grammar renamed the node between versions.
var functionLikeKinds = map[string]bool{
	"function_definition":                    true,
	"method_declaration":                     true,
	"anonymous_function":                     true,
	"anonymous_function_creation_expression": true,
	"arrow_function":                         true,
}

// scalarCandidates is the closed set of types that may be joined into a
// union when a function returns more than two distinct types. Heterogeneous
// sets involving object types withhold a result instead of guessing.
var scalarCandidates = map[string]bool{
	"int":    true,
	"float":  true,
	"string": true,
	"bool":   true,
	"array":  true,
	"null":   true,
	"void":   true,
}

// comparison, logical and instance-check operators all produce bool.
var boolOperators = map[string]bool{
	"==": true, "===": true, "!=": true, "!==": true, "<>": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "and": true, "or": true, "xor": true,
	"instanceof": true,
}

// returnCandidates accumulates the distinct return types seen while walking
// one function body.
type returnCandidates struct {
	types           []string
	seen            map[string]bool
	hasReturn       bool
	hasUnresolvable bool
}

func (c *returnCandidates) add(typeName string) {
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	if !c.seen[typeName] {
		c.seen[typeName] = true
		c.types = append(c.types, typeName)
	}
}

// IsFunctionLike reports whether node declares a function, method, closure
// or arrow function.
func IsFunctionLike(node *tree_sitter.Node) bool {
	return node != nil && functionLikeKinds[node.Kind()]
}

// InferReturnType determines the return type of a function-like node purely
// from its body. The boolean is false when no safe answer exists; a wrong
// hint is worse than no hint, so anything ambiguous withholds the result.
func InferReturnType(node *tree_sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}

	// Arrow functions have a single expression body whose type is the answer.
	if node.Kind() == "arrow_function" {
		body := node.ChildByFieldName("body")
		if body == nil {
			return "", false
		}
		return typeOfExpression(body, content)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		// Abstract or interface method, nothing to analyze.
		return "", false
	}

	candidates := &returnCandidates{}
	collectReturnTypes(body, content, candidates)

	return reduceCandidates(candidates)
}

// collectReturnTypes walks a statement tree gathering return expression
// types. Nested function-like nodes are opaque: their returns belong to
// their own scope.
func collectReturnTypes(node *tree_sitter.Node, content []byte, candidates *returnCandidates) {
	if functionLikeKinds[node.Kind()] {
		return
	}

	if node.Kind() == "return_statement" {
		candidates.hasReturn = true

		if expr := returnedExpression(node); expr != nil {
			if typeName, ok := typeOfExpression(expr, content); ok {
				candidates.add(typeName)
			} else {
				candidates.hasUnresolvable = true
			}
		}
		return
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			collectReturnTypes(child, content, candidates)
		}
	}
}

// returnedExpression returns the expression of a return statement, or nil
// for a bare "return;".
func returnedExpression(node *tree_sitter.Node) *tree_sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

func reduceCandidates(candidates *returnCandidates) (string, bool) {
	if candidates.hasUnresolvable {
		return "", false
	}

	if !candidates.hasReturn {
		return "void", true
	}

	// Only bare "return;" statements were found.
	if len(candidates.types) == 0 {
		return "", false
	}

	if len(candidates.types) == 1 {
		return candidates.types[0], true
	}

	if len(candidates.types) == 2 {
		if candidates.types[0] == "null" {
			return candidates.types[1] + "|null", true
		}
		if candidates.types[1] == "null" {
			return candidates.types[0] + "|null", true
		}
	}

	for _, typeName := range candidates.types {
		if !scalarCandidates[typeName] {
			return "", false
		}
	}

	return strings.Join(candidates.types, "|"), true
}

// typeOfExpression resolves the type of a single expression by local
// syntactic inspection. Everything that would require external type
// information (calls, property reads, plain variables) is unresolvable.
func typeOfExpression(node *tree_sitter.Node, content []byte) (string, bool) {
	switch node.Kind() {
	case "array_creation_expression":
		return "array", true

	case "string", "encapsed_string", "heredoc", "nowdoc":
		return "string", true

	case "integer":
		return "int", true

	case "float":
		return "float", true

	case "boolean":
		return "bool", true

	case "null":
		return "null", true

	case "object_creation_expression":
		return typeOfInstantiation(node, content)

	case "variable_name":
		if string(node.Utf8Text(content)) == "$this" {
			return "static", true
		}
		return "", false

	case "binary_expression":
		return typeOfBinaryExpression(node, content)

	case "concatenation":
		// Older grammar revisions expose "." as a dedicated node kind.
		return "string", true

	case "unary_op_expression":
		if operator := operatorText(node, content); operator == "!" {
			return "bool", true
		}
		return "", false

	case "conditional_expression":
		return typeOfConditional(node, content)

	case "parenthesized_expression":
		if inner := node.NamedChild(0); inner != nil {
			return typeOfExpression(inner, content)
		}
		return "", false
	}

	return "", false
}

// typeOfInstantiation types "new Foo(...)" as Foo. Dynamic class
// expressions (new $class, new ($factory)()) stay unresolved.
func typeOfInstantiation(node *tree_sitter.Node, content []byte) (string, bool) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "name", "qualified_name":
			return string(child.Utf8Text(content)), true
		case "variable_name", "parenthesized_expression", "member_access_expression":
			return "", false
		}
	}
	return "", false
}

func typeOfBinaryExpression(node *tree_sitter.Node, content []byte) (string, bool) {
	operator := operatorText(node, content)

	if boolOperators[operator] {
		return "bool", true
	}

	if operator == "." {
		return "string", true
	}

	switch operator {
	case "+", "-", "*", "/":
		left, leftOK := childExpressionType(node, "left", content)
		right, rightOK := childExpressionType(node, "right", content)

		// Float dominates int, never the other way around.
		if (leftOK && left == "float") || (rightOK && right == "float") {
			return "float", true
		}
		if (leftOK && left == "int") || (rightOK && right == "int") {
			return "int", true
		}
		return "", false
	}

	return "", false
}

func typeOfConditional(node *tree_sitter.Node, content []byte) (string, bool) {
	thenBranch := node.ChildByFieldName("body")
	elseBranch := node.ChildByFieldName("alternative")
	if thenBranch == nil || elseBranch == nil {
		return "", false
	}

	thenType, thenOK := typeOfExpression(thenBranch, content)
	elseType, elseOK := typeOfExpression(elseBranch, content)
	if !thenOK || !elseOK {
		return "", false
	}

	if thenType == elseType {
		return thenType, true
	}
	return thenType + "|" + elseType, true
}

func childExpressionType(node *tree_sitter.Node, field string, content []byte) (string, bool) {
	child := node.ChildByFieldName(field)
	if child == nil {
		return "", false
	}
	return typeOfExpression(child, content)
}

func operatorText(node *tree_sitter.Node, content []byte) string {
	if operator := node.ChildByFieldName("operator"); operator != nil {
		return string(operator.Utf8Text(content))
	}
	// Unary expressions carry the operator as a leading anonymous token.
	if child := node.Child(0); child != nil && !child.IsNamed() {
		return string(child.Utf8Text(content))
	}
	return ""
}
