package match

import (
	"encrude/internal/ast"
)

// EditKind classifies one difference between the two trees.
type EditKind uint8

const (
	EditInsert EditKind = iota + 1
	EditDelete
	EditUpdate
	EditMove
	EditReorder
)

func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "Insert"
	case EditDelete:
		return "Delete"
	case EditUpdate:
		return "Update"
	case EditMove:
		return "Move"
	case EditReorder:
		return "Reorder"
	default:
		return "EditKind(?)"
	}
}

// Edit is one entry of the edit script. Insert has no Before node, Delete has no After node.
type Edit struct {
	Kind   EditKind
	Before ast.NodeID
	After  ast.NodeID
}

// Edits derives the edit script from the match:
//   - Delete/Insert for the outermost unmatched nodes;
//   - Update for pairs whose own tokens differ;
//   - Move for pairs whose parents are not paired with each other;
//   - Reorder for siblings that left the longest increasing run of their parent.
func (m *Match) Edits() []Edit {
	var out []Edit
	m.Before.Walk(m.Before.Root, func(b ast.NodeID) bool {
		a, ok := m.Partner(b)
		if !ok {
			out = append(out, Edit{Kind: EditDelete, Before: b})
			return false
		}
		if !ownTokensEqual(m.Before, b, m.After, a) {
			out = append(out, Edit{Kind: EditUpdate, Before: b, After: a})
		}
		if bp := m.Before.Parent(b); bp.IsValid() {
			if pp, ok := m.Partner(bp); !ok || pp != m.After.Parent(a) {
				out = append(out, Edit{Kind: EditMove, Before: b, After: a})
			}
		}
		for _, c := range m.reordered(b, a) {
			ca, _ := m.Partner(c)
			out = append(out, Edit{Kind: EditReorder, Before: c, After: ca})
		}
		return true
	})
	m.After.Walk(m.After.Root, func(a ast.NodeID) bool {
		if _, ok := m.Reverse(a); !ok {
			out = append(out, Edit{Kind: EditInsert, After: a})
			return false
		}
		return true
	})
	return out
}

// reordered returns the children of b that stayed under a but fell out of
// the longest increasing subsequence of their new positions.
func (m *Match) reordered(b, a ast.NodeID) []ast.NodeID {
	pos := make(map[ast.NodeID]int)
	for i, c := range m.After.Children(a) {
		pos[c] = i
	}
	var kids []ast.NodeID
	var seq []int
	for _, c := range m.Before.Children(b) {
		ca, ok := m.Partner(c)
		if !ok {
			continue
		}
		if i, ok := pos[ca]; ok {
			kids = append(kids, c)
			seq = append(seq, i)
		}
	}
	if len(seq) < 2 {
		return nil
	}
	keep := lis(seq)
	var out []ast.NodeID
	for i, c := range kids {
		if !keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// lis marks the members of one longest strictly increasing subsequence.
func lis(seq []int) []bool {
	n := len(seq)
	length := make([]int, n)
	prev := make([]int, n)
	best := 0
	for i := range seq {
		length[i], prev[i] = 1, -1
		for j := 0; j < i; j++ {
			if seq[j] < seq[i] && length[j]+1 > length[i] {
				length[i], prev[i] = length[j]+1, j
			}
		}
		if length[i] > length[best] {
			best = i
		}
	}
	keep := make([]bool, n)
	for i := best; i >= 0; i = prev[i] {
		keep[i] = true
	}
	return keep
}

// ownTokensEqual compares the tokens of two nodes that are not covered by children.
func ownTokensEqual(a *ast.Tree, an ast.NodeID, b *ast.Tree, bn ast.NodeID) bool {
	ta, tb := ownTokens(a, an), ownTokens(b, bn)
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

func ownTokens(t *ast.Tree, id ast.NodeID) []string {
	n := t.Node(id)
	if n == nil || !n.First.IsValid() {
		return nil
	}
	var out []string
	tok := n.First
	for _, c := range n.Children {
		cn := t.Node(c)
		if !cn.First.IsValid() {
			continue
		}
		for ; tok < cn.First; tok++ {
			out = append(out, t.Token(tok).Text)
		}
		if cn.Last >= tok {
			tok = cn.Last + 1
		}
	}
	for ; tok <= n.Last; tok++ {
		out = append(out, t.Token(tok).Text)
	}
	return out
}
