package driver

import (
	"context"
	"fmt"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/parser"
	"encrude/internal/source"
	"encrude/internal/treesitter"
)

// Provider names the component that turns a document into an ast.Tree.
type Provider string

const (
	ProviderNative     Provider = "native"
	ProviderTreeSitter Provider = "treesitter"
)

// ParseProvider accepts "native" (also "") and "treesitter".
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case "", ProviderNative:
		return ProviderNative, nil
	case ProviderTreeSitter:
		return ProviderTreeSitter, nil
	}
	return "", fmt.Errorf("unknown provider %q (expected native|treesitter)", s)
}

// parseWith builds the tree of one file. Syntax problems go to rep;
// the error is reserved for provider failures.
func parseWith(ctx context.Context, p Provider, file *source.File, rep diag.Reporter, maxErrors uint) (*ast.Tree, error) {
	switch p {
	case ProviderTreeSitter:
		tree, err := treesitter.Parse(ctx, file, rep)
		if err != nil {
			return nil, fmt.Errorf("treesitter %s: %w", file.Path, err)
		}
		return tree, nil
	default:
		res := parser.ParseFile(ctx, file, parser.Options{Reporter: rep, MaxErrors: maxErrors})
		return res.Tree, nil
	}
}
