package lsp

import (
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/vix-4800/php-typehints-vsc/internal/indexer"
)

// TextDocument represents a document open in the editor
type TextDocument struct {
	URI     string
	Text    []byte
	Version int
	Tree    *tree_sitter.Tree
}

// DocumentManager tracks open documents and keeps a parsed tree per document.
type DocumentManager struct {
	documents map[string]*TextDocument
	mu        sync.RWMutex
	parsers   map[string]*tree_sitter.Parser
}

// NewDocumentManager creates a new document manager
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*TextDocument),
		parsers:   indexer.CreateTreesitterParsers(),
	}
}

// OpenDocument adds or replaces a document and parses it.
func (m *DocumentManager) OpenDocument(uri string, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setDocumentLocked(uri, text, version)
}

// UpdateDocument replaces the content of a document. Unknown documents are
// opened instead, clients are not required to send didOpen first.
func (m *DocumentManager) UpdateDocument(uri string, text string, version int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setDocumentLocked(uri, text, version)
}

func (m *DocumentManager) setDocumentLocked(uri string, text string, version int) {
	if old, ok := m.documents[uri]; ok && old.Tree != nil {
		old.Tree.Close()
	}

	doc := &TextDocument{
		URI:     uri,
		Text:    []byte(text),
		Version: version,
	}

	if parser, ok := m.parsers[strings.ToLower(filepath.Ext(uri))]; ok {
		doc.Tree = parser.Parse(doc.Text, nil)
	}

	m.documents[uri] = doc
}

// CloseDocument removes a document
func (m *DocumentManager) CloseDocument(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, ok := m.documents[uri]; ok && doc.Tree != nil {
		doc.Tree.Close()
	}

	delete(m.documents, uri)
}

// GetDocument returns a document by URI
func (m *DocumentManager) GetDocument(uri string) (*TextDocument, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[uri]
	return doc, ok
}

// GetNodeAtPosition returns the named node under the cursor.
func (m *DocumentManager) GetNodeAtPosition(uri string, line int, character int) (*tree_sitter.Node, *TextDocument, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[uri]
	if !ok || doc.Tree == nil {
		return nil, nil, false
	}

	pos := tree_sitter.Point{
		Row:    uint(line),
		Column: uint(character),
	}

	node := doc.Tree.RootNode().NamedDescendantForPointRange(pos, pos)

	return node, doc, true
}

// Close closes the document manager and frees resources
func (m *DocumentManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.documents {
		if doc.Tree != nil {
			doc.Tree.Close()
			doc.Tree = nil
		}
	}

	indexer.CloseTreesitterParsers(m.parsers)
}
