package php

import (
	"path/filepath"

	"github.com/vix-4800/php-typehints-vsc/internal/indexer"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// FunctionIndex stores every function and method declaration of the
// workspace, keyed by short name, so hover can resolve symbols that are
// declared in files the editor never opened.
type FunctionIndex struct {
	data *indexer.DataIndexer[PHPFunction]
}

func NewFunctionIndex(configDir string) (*FunctionIndex, error) {
	data, err := indexer.NewDataIndexer[PHPFunction](filepath.Join(configDir, "functions.db"))
	if err != nil {
		return nil, err
	}

	return &FunctionIndex{data: data}, nil
}

func (idx *FunctionIndex) ID() string {
	return "php.functions"
}

// Index extracts the declarations of one parsed file and replaces its
// previous records.
func (idx *FunctionIndex) Index(path string, root *tree_sitter.Node, fileContent []byte) error {
	if err := idx.data.DeleteByFilePaths([]string{path}); err != nil {
		return err
	}

	functions := GetFunctionsOfFile(path, root, fileContent)
	if len(functions) == 0 {
		return nil
	}

	items := make(map[string][]PHPFunction, len(functions))
	for _, fn := range functions {
		items[fn.Name] = append(items[fn.Name], fn)
	}

	return idx.data.BatchSave(path, items)
}

func (idx *FunctionIndex) RemovedFiles(paths []string) error {
	return idx.data.DeleteByFilePaths(paths)
}

// GetFunctionsByName returns every indexed declaration with the given short
// name, regardless of namespace or class.
func (idx *FunctionIndex) GetFunctionsByName(name string) ([]PHPFunction, error) {
	return idx.data.GetValues(name)
}

func (idx *FunctionIndex) Clear() error {
	return idx.data.Clear()
}

func (idx *FunctionIndex) Close() error {
	return idx.data.Close()
}
