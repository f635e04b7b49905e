//go:build !cgo

package treesitter

import (
	"context"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/source"
)

// Available reports whether the tree-sitter provider is compiled in.
const Available = false

// Parse always fails: the grammar is a C library and needs cgo.
func Parse(_ context.Context, _ *source.File, _ diag.Reporter) (*ast.Tree, error) {
	return nil, ErrUnavailable
}
