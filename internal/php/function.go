package php

import (
	treesitterhelper "github.com/vix-4800/php-typehints-vsc/internal/tree_sitter_helper"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// PHPFunction is one indexed function or method declaration.
type PHPFunction struct {
	Name       string
	FQN        string
	Path       string
	Line       int
	ReturnType string
}

// GetFunctionsOfFile extracts every top-level function and class method
// declared in a parsed PHP file, together with its resolved return type.
func GetFunctionsOfFile(path string, root *tree_sitter.Node, fileContent []byte) []PHPFunction {
	var functions []PHPFunction

	cursor := root.Walk()
	defer cursor.Close()

	currentNamespace := ""

	if !cursor.GotoFirstChild() {
		return functions
	}

	for {
		node := cursor.Node()

		switch node.Kind() {
		case "namespace_definition":
			if nameNode := node.NamedChild(0); nameNode != nil {
				currentNamespace = string(nameNode.Utf8Text(fileContent))
			}

		case "function_definition":
			if fn, ok := functionAt(node, path, currentNamespace, "", fileContent); ok {
				functions = append(functions, fn)
			}

		case "class_declaration", "interface_declaration", "trait_declaration", "enum_declaration":
			classNameNode := treesitterhelper.GetFirstNodeOfKind(node, "name")
			if classNameNode == nil {
				break
			}

			className := string(classNameNode.Utf8Text(fileContent))
			if currentNamespace != "" {
				className = currentNamespace + "\\" + className
			}

			functions = append(functions, methodsOfClass(node, path, className, fileContent)...)
		}

		if !cursor.GotoNextSibling() {
			break
		}
	}

	return functions
}

func methodsOfClass(classNode *tree_sitter.Node, path, className string, fileContent []byte) []PHPFunction {
	bodyNode := treesitterhelper.GetFirstNodeOfKind(classNode, "declaration_list")
	if bodyNode == nil {
		bodyNode = treesitterhelper.GetFirstNodeOfKind(classNode, "enum_declaration_list")
	}
	if bodyNode == nil {
		return nil
	}

	var methods []PHPFunction
	for i := uint(0); i < bodyNode.NamedChildCount(); i++ {
		child := bodyNode.NamedChild(i)
		if child == nil || child.Kind() != "method_declaration" {
			continue
		}

		if fn, ok := functionAt(child, path, "", className, fileContent); ok {
			methods = append(methods, fn)
		}
	}

	return methods
}

// functionAt builds the index record for one declaration. The return type is
// the declared one when present, otherwise the docblock/inference result; a
// function whose type cannot be resolved is still indexed with an empty type
// so hover can at least point at the declaration.
func functionAt(node *tree_sitter.Node, path, namespace, className string, fileContent []byte) (PHPFunction, bool) {
	nameNode := treesitterhelper.FindDirectChildOfKind(node, "name")
	if nameNode == nil {
		return PHPFunction{}, false
	}

	name := string(nameNode.Utf8Text(fileContent))

	fqn := name
	if className != "" {
		fqn = className + "::" + name
	} else if namespace != "" {
		fqn = namespace + "\\" + name
	}

	returnType := DeclaredReturnType(node, fileContent)
	if returnType == "" {
		returnType, _ = ResolveReturnType(node, fileContent)
	} else {
		returnType = NormalizeType(returnType)
	}

	return PHPFunction{
		Name:       name,
		FQN:        fqn,
		Path:       path,
		Line:       int(nameNode.Range().StartPoint.Row) + 1,
		ReturnType: returnType,
	}, true
}
