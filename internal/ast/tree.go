package ast

import (
	"hash/fnv"

	"encrude/internal/source"
	"encrude/internal/token"
)

// Tree owns the nodes and tokens of one parsed document version.
// Ids are only meaningful inside the tree that produced them.
type Tree struct {
	File   *source.File
	Nodes  *Arena[Node]
	Tokens *Arena[token.Token]
	Root   NodeID
}

// Node returns the node for id, or nil for NoNodeID.
func (t *Tree) Node(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Token returns the token for id. An invalid id yields the zero token.
func (t *Tree) Token(id TokenID) token.Token {
	if tok := t.Tokens.Get(uint32(id)); tok != nil {
		return *tok
	}
	return token.Token{}
}

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Node(id); n != nil {
		return n.Span
	}
	return source.Span{}
}

// Len is the number of nodes in the tree.
func (t *Tree) Len() int {
	return int(t.Nodes.Len())
}

// Ancestors returns the proper ancestors of id, innermost first.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		out = append(out, p)
	}
	return out
}

// IsAncestor reports whether anc is id or one of its ancestors.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the children of the visited node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !id.IsValid() {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// Preorder lists the subtree of id in pre-order.
func (t *Tree) Preorder(id NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(n NodeID) bool {
		out = append(out, n)
		return true
	})
	return out
}

// FirstChild returns the first direct child of the given kind.
func (t *Tree) FirstChild(id NodeID, kind Kind) NodeID {
	for _, c := range t.Children(id) {
		if t.Kind(c) == kind {
			return c
		}
	}
	return NoNodeID
}

// ChildrenOf returns the direct children of the given kind.
func (t *Tree) ChildrenOf(id NodeID, kind Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.Kind(c) == kind {
			out = append(out, c)
		}
	}
	return out
}

// Nearest returns the closest node (id itself included) for which pred holds.
func (t *Tree) Nearest(id NodeID, pred func(Kind) bool) NodeID {
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		if pred(t.Kind(cur)) {
			return cur
		}
	}
	return NoNodeID
}

// EnclosingMember returns the member declaration containing id (id included).
func (t *Tree) EnclosingMember(id NodeID) NodeID {
	return t.Nearest(id, Kind.IsMember)
}

// EnclosingType returns the innermost type declaration containing id (id included).
func (t *Tree) EnclosingType(id NodeID) NodeID {
	return t.Nearest(id, Kind.IsTypeContainer)
}

// Text returns the source text of the node.
func (t *Tree) Text(id NodeID) string {
	return t.File.Text(t.Span(id))
}

// SpanOf returns the source span covered by a token range.
func (t *Tree) SpanOf(r TokenRange) source.Span {
	if r.Empty() {
		return source.Span{}
	}
	first, last := t.Token(r.First), t.Token(r.Last)
	return source.Span{File: first.Span.File, Start: first.Span.Start, End: last.Span.End}
}

// TokenTexts returns the significant token texts of a range.
func (t *Tree) TokenTexts(r TokenRange) []string {
	if r.Empty() {
		return nil
	}
	out := make([]string, 0, int(r.Last-r.First)+1)
	for id := r.First; id <= r.Last; id++ {
		out = append(out, t.Token(id).Text)
	}
	return out
}

// RangeText joins the token texts of a range with single spaces.
func (t *Tree) RangeText(r TokenRange) string {
	texts := t.TokenTexts(r)
	n := 0
	for _, s := range texts {
		n += len(s) + 1
	}
	buf := make([]byte, 0, n)
	for i, s := range texts {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s...)
	}
	return string(buf)
}

// Hash is a fingerprint of the node kind and its token texts; trivia does not take part.
func (t *Tree) Hash(id NodeID) uint64 {
	n := t.Node(id)
	if n == nil {
		return 0
	}
	if n.hash != 0 {
		return n.hash
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(n.Kind)})
	for tok := n.First; tok.IsValid() && tok <= n.Last; tok++ {
		_, _ = h.Write([]byte(t.Token(tok).Text))
		_, _ = h.Write([]byte{0})
	}
	n.hash = h.Sum64() | 1
	return n.hash
}

// RangeEqual reports whether two token ranges spell the same token texts.
func RangeEqual(a *Tree, ra TokenRange, b *Tree, rb TokenRange) bool {
	if ra.Empty() || rb.Empty() {
		return ra.Empty() && rb.Empty()
	}
	if ra.Last-ra.First != rb.Last-rb.First {
		return false
	}
	for i := TokenID(0); ra.First+i <= ra.Last; i++ {
		if a.Token(ra.First+i).Text != b.Token(rb.First+i).Text {
			return false
		}
	}
	return true
}

// Equivalent reports whether two nodes have the same kind and the same
// significant tokens.
func Equivalent(a *Tree, an NodeID, b *Tree, bn NodeID) bool {
	na, nb := a.Node(an), b.Node(bn)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	if na.Kind != nb.Kind || a.Hash(an) != b.Hash(bn) {
		return false
	}
	return RangeEqual(a, na.Tokens(), b, nb.Tokens())
}
