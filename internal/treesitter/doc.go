// Package treesitter is the alternative syntax provider backed by the
// tree-sitter C# grammar. It produces the same ast.Tree shapes as the native
// parser, so the analyzer can cross-check both front ends.
package treesitter

import "errors"

// ErrUnavailable is returned by Parse in builds without cgo.
var ErrUnavailable = errors.New("treesitter: provider requires cgo")
