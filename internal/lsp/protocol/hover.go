package protocol

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// HoverParams represents the parameters for a hover request
type HoverParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`

	// Custom fields for internal use (not part of LSP spec)
	// These fields are used to pass document content to hover providers
	DocumentContent []byte            `json:"-"`
	Node            *tree_sitter.Node `json:"-"`
}

// Hover represents the result of a hover request
type Hover struct {
	// The hover's content
	Contents MarkupContent `json:"contents"`

	// An optional range inside the text document that is used to
	// visualize the hover, e.g. by changing the background color
	Range *Range `json:"range,omitempty"`
}
