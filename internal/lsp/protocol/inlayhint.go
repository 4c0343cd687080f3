package protocol

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

// InlayHintParams represents the parameters for a textDocument/inlayHint request
type InlayHintParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`

	// Custom fields for internal use (not part of LSP spec)
	// These fields are used to pass the parsed document to hint providers
	DocumentContent []byte            `json:"-"`
	Root            *tree_sitter.Node `json:"-"`
}

// InlayHintKind represents the kind of an inlay hint
type InlayHintKind int

const (
	// InlayHintType is a hint for a type annotation
	InlayHintType InlayHintKind = 1
	// InlayHintParameter is a hint for a parameter name
	InlayHintParameter InlayHintKind = 2
)

// InlayHint represents an inlay hint rendered inline in the editor
type InlayHint struct {
	Position     Position      `json:"position"`
	Label        string        `json:"label"`
	Kind         InlayHintKind `json:"kind,omitempty"`
	PaddingLeft  bool          `json:"paddingLeft,omitempty"`
	PaddingRight bool          `json:"paddingRight,omitempty"`
	Tooltip      string        `json:"tooltip,omitempty"`
}
