package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"encrude/internal/ast"
	"encrude/internal/source"
)

// CheckTreeInvariants runs structural checks on a parsed tree:
// 1) the root is a compilation unit of sf
// 2) every child points back to its parent
// 3) token ranges of present nodes are ordered and nested in the parent
// 4) spans stay within file content bounds
func CheckTreeInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if tree.File != sf {
		return fmt.Errorf("tree belongs to %q, not %q", tree.File.Path, sf.Path)
	}
	if k := tree.Kind(tree.Root); k != ast.KindCompilationUnit {
		return fmt.Errorf("root is %s", k)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var walkErr error
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if walkErr != nil {
			return false
		}
		walkErr = checkNode(tree, id, sf.ID, lenContent)
		return walkErr == nil
	})
	return walkErr
}

func checkNode(tree *ast.Tree, id ast.NodeID, file source.FileID, lenContent uint32) error {
	n := tree.Node(id)
	if n.Span.End < n.Span.Start || n.Span.End > lenContent {
		return fmt.Errorf("%s: span %v out of bounds", n.Kind, n.Span)
	}
	if n.First.IsValid() {
		if n.Span.File != file {
			return fmt.Errorf("%s: span file mismatch: got=%d want=%d", n.Kind, n.Span.File, file)
		}
		if n.Last < n.First {
			return fmt.Errorf("%s: token range [%d,%d] reversed", n.Kind, n.First, n.Last)
		}
	}
	prev := ast.NoTokenID
	for _, c := range n.Children {
		child := tree.Node(c)
		if child.Parent != id {
			return fmt.Errorf("%s: child %s has parent %d, want %d", n.Kind, child.Kind, child.Parent, id)
		}
		if !child.First.IsValid() {
			continue
		}
		if n.First.IsValid() && (child.First < n.First || child.Last > n.Last) {
			return fmt.Errorf("%s [%d,%d]: child %s [%d,%d] outside", n.Kind, n.First, n.Last, child.Kind, child.First, child.Last)
		}
		if child.First < prev {
			return fmt.Errorf("%s: child %s starts at %d before sibling at %d", n.Kind, child.Kind, child.First, prev)
		}
		prev = child.First
	}
	return nil
}
