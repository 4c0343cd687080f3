// Package indexer scans the workspace and feeds parsed PHP files to the
// registered indexers.
package indexer

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// Indexer consumes parsed files and maintains a queryable store.
type Indexer interface {
	ID() string
	Index(path string, root *tree_sitter.Node, fileContent []byte) error
	RemovedFiles(paths []string) error
	Clear() error
	Close() error
}
