package ast

import "strings"

// Dump renders the subtree as an s-expression of kinds, for tests and --tracked output.
// Leaf nodes carry their source text: (Name "x").
func (t *Tree) Dump(id NodeID) string {
	var sb strings.Builder
	t.dump(&sb, id)
	return sb.String()
}

func (t *Tree) dump(sb *strings.Builder, id NodeID) {
	n := t.Node(id)
	if n == nil {
		sb.WriteString("()")
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())
	if len(n.Children) == 0 && n.First.IsValid() {
		sb.WriteString(` "`)
		sb.WriteString(t.RangeText(n.Tokens()))
		sb.WriteByte('"')
	}
	for _, c := range n.Children {
		sb.WriteByte(' ')
		t.dump(sb, c)
	}
	sb.WriteByte(')')
}
