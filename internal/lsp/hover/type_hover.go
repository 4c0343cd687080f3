// Package hover shows resolved return types when the cursor is on a
// function name.
package hover

import (
	"context"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/vix-4800/php-typehints-vsc/internal/lsp/protocol"
	"github.com/vix-4800/php-typehints-vsc/internal/php"
	treesitterhelper "github.com/vix-4800/php-typehints-vsc/internal/tree_sitter_helper"
)

// TypeHoverProvider resolves the type of the function under the cursor. A
// declaration is resolved from the document itself, a call is looked up in
// the function index.
type TypeHoverProvider struct {
	index *php.FunctionIndex
}

func NewTypeHoverProvider(index *php.FunctionIndex) *TypeHoverProvider {
	return &TypeHoverProvider{index: index}
}

func (p *TypeHoverProvider) GetHover(ctx context.Context, params *protocol.HoverParams) *protocol.Hover {
	node := params.Node
	if node == nil || node.Kind() != "name" {
		return nil
	}

	content := params.DocumentContent
	name := string(node.Utf8Text(content))

	switch {
	case treesitterhelper.IsPHPFunctionNameDeclaration(node, content):
		return p.hoverForDeclaration(node, name, content)

	case treesitterhelper.IsPHPFunctionNameReference(node, content):
		return p.hoverForReference(node, name)
	}

	return nil
}

func (p *TypeHoverProvider) hoverForDeclaration(node *tree_sitter.Node, name string, content []byte) *protocol.Hover {
	fn := node.Parent()
	if fn == nil || !php.IsFunctionLike(fn) {
		return nil
	}

	returnType := php.DeclaredReturnType(fn, content)
	if returnType != "" {
		returnType = php.NormalizeType(returnType)
	} else {
		var ok bool
		returnType, ok = php.ResolveReturnType(fn, content)
		if !ok {
			return nil
		}
	}

	return hoverFor(node, []string{signatureLine(name, returnType)})
}

func (p *TypeHoverProvider) hoverForReference(node *tree_sitter.Node, name string) *protocol.Hover {
	if p.index == nil {
		return nil
	}

	functions, err := p.index.GetFunctionsByName(name)
	if err != nil || len(functions) == 0 {
		return nil
	}

	lines := make([]string, 0, len(functions))
	for _, fn := range functions {
		if fn.ReturnType == "" {
			continue
		}
		lines = append(lines, signatureLine(fn.FQN, fn.ReturnType))
	}
	if len(lines) == 0 {
		return nil
	}

	return hoverFor(node, lines)
}

func signatureLine(name, returnType string) string {
	return fmt.Sprintf("function %s(): %s", name, returnType)
}

func hoverFor(node *tree_sitter.Node, lines []string) *protocol.Hover {
	r := node.Range()

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: "```php\n" + strings.Join(lines, "\n") + "\n```",
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: int(r.StartPoint.Row), Character: int(r.StartPoint.Column)},
			End:   protocol.Position{Line: int(r.EndPoint.Row), Character: int(r.EndPoint.Column)},
		},
	}
}
