package ast

import (
	"encrude/internal/source"
	"encrude/internal/token"
)

// Hints preallocate arena storage.
type Hints struct{ Nodes uint }

// Builder assembles a Tree bottom-up: children are created first and then
// adopted by their parent through New.
type Builder struct {
	tree *Tree
}

// NewBuilder loads toks (EOF included) into the token arena; token i gets TokenID(i+1).
func NewBuilder(file *source.File, toks []token.Token, hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = uint(len(toks))/2 + 16
	}
	tokens := NewArena[token.Token](uint(len(toks)))
	for _, t := range toks {
		tokens.Allocate(t)
	}
	return &Builder{tree: &Tree{
		File:   file,
		Nodes:  NewArena[Node](hints.Nodes),
		Tokens: tokens,
	}}
}

// Tree exposes the tree under construction; queries work on finished subtrees.
func (b *Builder) Tree() *Tree { return b.tree }

func (b *Builder) Node(id NodeID) *Node { return b.tree.Node(id) }

func (b *Builder) Token(id TokenID) token.Token { return b.tree.Token(id) }

// New allocates a node covering tokens [first, last] and adopts children.
// When first is invalid the span is taken from the children.
func (b *Builder) New(kind Kind, first, last TokenID, children ...NodeID) NodeID {
	n := Node{Kind: kind, First: first, Last: last}
	if len(children) > 0 {
		n.Children = make([]NodeID, 0, len(children))
		for _, c := range children {
			if c.IsValid() {
				n.Children = append(n.Children, c)
			}
		}
	}
	if !first.IsValid() && len(n.Children) > 0 {
		n.First = b.Node(n.Children[0]).First
		n.Last = b.Node(n.Children[len(n.Children)-1]).Last
	}
	if n.First.IsValid() {
		n.Span = b.tree.SpanOf(TokenRange{First: n.First, Last: n.Last})
	}
	id := NodeID(b.tree.Nodes.Allocate(n))
	for _, c := range n.Children {
		b.Node(c).Parent = id
	}
	return id
}

// Missing allocates an empty node positioned at the start of token at.
func (b *Builder) Missing(kind Kind, at TokenID) NodeID {
	sp := b.Token(at).Span
	sp.End = sp.Start
	return NodeID(b.tree.Nodes.Allocate(Node{Kind: kind, Span: sp, Flags: FlagMissing}))
}

// Adopt appends child to parent and extends the parent's token range.
func (b *Builder) Adopt(parent, child NodeID) {
	if !child.IsValid() {
		return
	}
	p := b.Node(parent)
	p.Children = append(p.Children, child)
	b.Node(child).Parent = parent
	c := b.Node(child)
	if !p.First.IsValid() || (c.First.IsValid() && c.First < p.First) {
		p.First = c.First
	}
	if c.Last > p.Last {
		p.Last = c.Last
	}
	if p.First.IsValid() {
		p.Span = b.tree.SpanOf(p.Tokens())
	}
}

// Finish fixes the root and returns the tree. The builder must not be used afterwards.
func (b *Builder) Finish(root NodeID) *Tree {
	b.tree.Root = root
	t := b.tree
	b.tree = nil
	return t
}
