// Package hints renders inferred return types as inlay hints after the
// parameter list of PHP functions that have no declared return type.
package hints

import (
	"context"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/vix-4800/php-typehints-vsc/internal/lsp/protocol"
	"github.com/vix-4800/php-typehints-vsc/internal/php"
)

// ReturnHintProvider produces ": T" hints for function-like declarations.
type ReturnHintProvider struct{}

func NewReturnHintProvider() *ReturnHintProvider {
	return &ReturnHintProvider{}
}

func (p *ReturnHintProvider) GetInlayHints(ctx context.Context, params *protocol.InlayHintParams) []protocol.InlayHint {
	if params.Root == nil {
		return nil
	}

	var hints []protocol.InlayHint
	p.collect(params.Root, params.DocumentContent, &hints)

	return hints
}

func (p *ReturnHintProvider) collect(node *tree_sitter.Node, content []byte, hints *[]protocol.InlayHint) {
	if php.IsFunctionLike(node) {
		if hint, ok := hintForFunction(node, content); ok {
			*hints = append(*hints, hint)
		}
	}

	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child != nil {
			p.collect(child, content, hints)
		}
	}
}

func hintForFunction(node *tree_sitter.Node, content []byte) (protocol.InlayHint, bool) {
	if php.HasDeclaredReturnType(node) {
		return protocol.InlayHint{}, false
	}

	resolved, ok := php.ResolveReturnType(node, content)
	if !ok {
		return protocol.InlayHint{}, false
	}

	anchor := hintAnchor(node)
	if anchor == nil {
		return protocol.InlayHint{}, false
	}

	end := anchor.EndPosition()

	return protocol.InlayHint{
		Position: protocol.Position{
			Line:      int(end.Row),
			Character: int(end.Column),
		},
		Label:       ": " + resolved,
		Kind:        protocol.InlayHintType,
		PaddingLeft: false,
	}, true
}

// hintAnchor is the node the hint attaches after: the closing parenthesis of
// the parameter list when there is one, the whole declaration otherwise.
func hintAnchor(node *tree_sitter.Node) *tree_sitter.Node {
	if params := node.ChildByFieldName("parameters"); params != nil {
		return params
	}
	return node
}
