package match

import (
	"encrude/internal/ast"
	"encrude/internal/source"
)

// Part selects which piece of a node an active statement covers.
type Part uint8

const (
	// PartWhole: the node itself ("F();", "a = 1", "base(1)").
	PartWhole Part = iota
	// PartTyped: type plus first declarator ("int a = 1").
	PartTyped
	// PartHead: statement header ("while (x)", "lock (o)", "public C()").
	PartHead
	// PartOpen and PartClose: the braces of a block.
	PartOpen
	PartClose
)

func (p Part) String() string {
	switch p {
	case PartWhole:
		return "whole"
	case PartTyped:
		return "typed"
	case PartHead:
		return "head"
	case PartOpen:
		return "open"
	case PartClose:
		return "close"
	default:
		return "part(?)"
	}
}

// Site is the location of an active statement inside one tree.
type Site struct {
	Node ast.NodeID
	Part Part
}

// Valid reports whether the site points at a node.
func (s Site) Valid() bool { return s.Node.IsValid() }

// Range returns the tokens covered by the site.
func (s Site) Range(t *ast.Tree) ast.TokenRange {
	n := t.Node(s.Node)
	if n == nil {
		return ast.TokenRange{}
	}
	switch s.Part {
	case PartTyped:
		if r, ok := t.TypedRange(s.Node); ok {
			return r
		}
	case PartHead:
		if !n.Head.Empty() {
			return n.Head
		}
	case PartOpen:
		if tok, ok := t.OpenBrace(s.Node); ok {
			return ast.TokenRange{First: tok, Last: tok}
		}
	case PartClose:
		if tok, ok := t.CloseBrace(s.Node); ok {
			return ast.TokenRange{First: tok, Last: tok}
		}
	}
	return n.Tokens()
}

// Span returns the source span of the site.
func (s Site) Span(t *ast.Tree) source.Span {
	r := s.Range(t)
	if r.Empty() {
		return t.Span(s.Node)
	}
	return t.SpanOf(r)
}

// WholeCapable reports whether an active statement may cover a node of kind k entirely.
func WholeCapable(k ast.Kind) bool {
	switch k {
	case ast.KindVariableDeclarator, ast.KindFieldDecl, ast.KindCatchFilter,
		ast.KindConstructorInitializer, ast.KindOrdering, ast.KindForEachVariable:
		return true
	case ast.KindBlock, ast.KindLocalFunctionStmt:
		return false
	}
	return k.IsStatement() || k.IsExpression() || k.IsQueryClause()
}

// headCapable: узлы, чей заголовок сам по себе бывает активным оператором.
func headCapable(k ast.Kind) bool {
	return k.HasHead() && (k.IsStatement() || k == ast.KindConstructorDecl)
}

// Locate resolves an active-statement span to a site: exact matches against
// whole spans, typed declarator spans, headers and braces win, deepest first.
// Otherwise the deepest active-capable node containing the span is used.
func Locate(t *ast.Tree, sp source.Span) (Site, bool) {
	var (
		exact      Site
		exactDepth = -1
		near       Site
		nearDepth  = -1
	)
	same := func(a source.Span) bool { return a.Start == sp.Start && a.End == sp.End && !a.Empty() }

	var visit func(id ast.NodeID, depth int)
	visit = func(id ast.NodeID, depth int) {
		n := t.Node(id)
		if n == nil || n.Has(ast.FlagMissing) {
			return
		}
		try := func(s Site, d int) {
			if d > exactDepth {
				exact, exactDepth = s, d
			}
		}
		if WholeCapable(n.Kind) && same(n.Span) {
			try(Site{Node: id, Part: PartWhole}, depth)
		}
		if n.Kind == ast.KindVariableDecl {
			if first := t.FirstChild(id, ast.KindVariableDeclarator); first.IsValid() {
				if r, ok := t.TypedRange(first); ok && same(t.SpanOf(r)) {
					try(Site{Node: first, Part: PartTyped}, depth+1)
				}
			}
		}
		if headCapable(n.Kind) {
			if hs, ok := t.HeadSpan(id); ok && same(hs) {
				try(Site{Node: id, Part: PartHead}, depth)
			}
		}
		if n.Kind == ast.KindBlock {
			if tok, ok := t.OpenBrace(id); ok && same(t.TokenSpan(tok)) {
				try(Site{Node: id, Part: PartOpen}, depth)
			}
			if tok, ok := t.CloseBrace(id); ok && same(t.TokenSpan(tok)) {
				try(Site{Node: id, Part: PartClose}, depth)
			}
		}
		if depth > nearDepth {
			switch {
			case headCapable(n.Kind) && inHead(t, id, sp):
				near, nearDepth = Site{Node: id, Part: PartHead}, depth
			case WholeCapable(n.Kind):
				near, nearDepth = Site{Node: id, Part: PartWhole}, depth
			}
		}
		for _, c := range n.Children {
			if t.Span(c).Contains(sp) {
				visit(c, depth+1)
			}
		}
	}
	if root := t.Root; root.IsValid() && t.Span(root).Contains(sp) {
		visit(root, 0)
	}
	if exactDepth >= 0 {
		return exact, true
	}
	if nearDepth >= 0 {
		return near, true
	}
	return Site{}, false
}

func inHead(t *ast.Tree, id ast.NodeID, sp source.Span) bool {
	hs, ok := t.HeadSpan(id)
	return ok && hs.Contains(sp)
}
