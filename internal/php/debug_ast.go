package php

import (
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

// DebugAST parses a PHP file and prints its node structure together with the
// return type resolved for every function-like declaration.
func DebugAST(filePath string) {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())); err != nil {
		fmt.Printf("Error setting language: %v\n", err)
		return
	}
	defer parser.Close()

	tree := parser.Parse(fileContent, nil)
	defer tree.Close()
	rootNode := tree.RootNode()

	printNodeStructure(rootNode, fileContent, 0)

	fmt.Println()
	for _, fn := range GetFunctionsOfFile(filePath, rootNode, fileContent) {
		returnType := fn.ReturnType
		if returnType == "" {
			returnType = "(unresolved)"
		}
		fmt.Printf("line %d: %s -> %s\n", fn.Line, fn.FQN, returnType)
	}
}

// printNodeStructure recursively prints the node structure
func printNodeStructure(node *tree_sitter.Node, fileContent []byte, depth int) {
	if node == nil {
		return
	}

	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	nodeText := ""
	if node.NamedChildCount() == 0 {
		nodeText = string(node.Utf8Text(fileContent))
	}

	fmt.Printf("%sNode: %s, Text: %s\n", indent, node.Kind(), nodeText)

	if IsFunctionLike(node) {
		if inferred, ok := InferReturnType(node, fileContent); ok {
			fmt.Printf("%s  INFERRED RETURN TYPE: %s\n", indent, inferred)
		}
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		printNodeStructure(node.NamedChild(i), fileContent, depth+1)
	}
}
