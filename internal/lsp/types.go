package lsp

import (
	"context"

	"github.com/vix-4800/php-typehints-vsc/internal/lsp/protocol"
)

// InlayHintProvider is an interface for providing inlay hints
type InlayHintProvider interface {
	// GetInlayHints returns inlay hints for the given document range
	GetInlayHints(ctx context.Context, params *protocol.InlayHintParams) []protocol.InlayHint
}

// HoverProvider is an interface for providing hover information
type HoverProvider interface {
	// GetHover returns hover content for the given position, or nil when the
	// provider has nothing to show there
	GetHover(ctx context.Context, params *protocol.HoverParams) *protocol.Hover
}
