package indexer

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
)

var scannedFileTypes = []string{
	".php",
}

// CreateTreesitterParsers builds one parser per supported file extension.
// Parsers are not safe for concurrent use, so every worker creates its own
// set.
func CreateTreesitterParsers() map[string]*tree_sitter.Parser {
	parsers := make(map[string]*tree_sitter.Parser)

	phpParser := tree_sitter.NewParser()
	if err := phpParser.SetLanguage(tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP())); err != nil {
		panic(err)
	}
	parsers[".php"] = phpParser

	return parsers
}

// CloseTreesitterParsers frees the parsers created by CreateTreesitterParsers.
func CloseTreesitterParsers(parsers map[string]*tree_sitter.Parser) {
	for _, parser := range parsers {
		parser.Close()
	}
}
