package match

import (
	"encrude/internal/ast"
	"encrude/internal/source"
	"encrude/internal/token"
)

// Tracking is where an active statement ended up in the new tree.
type Tracking struct {
	Before Site
	// After is the mapped site. It is valid when the statement survived or was relocated.
	After Site
	// Anchor is the span diagnostics about the statement point at.
	Anchor source.Span
	// Ancestor is the after node the statement resolved to.
	Ancestor ast.NodeID

	// Deleted: the statement has no counterpart and resolved to a surviving ancestor.
	Deleted bool
	// Relocated: a field or property initializer moved onto another initializer.
	Relocated bool
	// MemberDeleted: the enclosing member (or type) did not survive.
	MemberDeleted bool
	// RemovedClosure is the innermost unmatched closure crossed on the way up (before tree).
	RemovedClosure ast.NodeID
}

// Survived reports whether the statement maps onto its own counterpart in the new tree.
func (tr Tracking) Survived() bool {
	return !tr.Deleted && !tr.Relocated && tr.After.Valid()
}

// Track maps an active-statement site through the match.
func Track(m *Match, s Site) Tracking {
	tr := Tracking{Before: s}
	bt, at := m.Before, m.After

	if init := initializerRoot(bt, s.Node); init.IsValid() {
		if a, ok := m.Partner(init); !ok || !executable(at, a) {
			return m.relocate(tr, init)
		}
	}

	if a, ok := m.Partner(s.Node); ok && executable(at, a) {
		tr.After = mapPart(at, s, a)
		tr.Anchor = tr.After.Span(at)
		tr.Ancestor = tr.After.Node
		return tr
	}

	// base(...)/this(...) пропал: исполнение переходит на заголовок конструктора
	if bt.Kind(s.Node) == ast.KindConstructorInitializer {
		if ctor, ok := m.Partner(bt.Parent(s.Node)); ok {
			tr.After = Site{Node: ctor, Part: PartHead}
			if init := at.FirstChild(ctor, ast.KindConstructorInitializer); init.IsValid() {
				tr.After = Site{Node: init, Part: PartWhole}
			}
			tr.Anchor = tr.After.Span(at)
			tr.Ancestor = tr.After.Node
			return tr
		}
	}
	return m.ascend(tr, s.Node)
}

// ascend resolves a lost site to its nearest surviving anchor-capable ancestor.
func (m *Match) ascend(tr Tracking, from ast.NodeID) Tracking {
	bt, at := m.Before, m.After
	tr.Deleted = true
	tr.After = Site{}
	child := from
	for cur := from; cur.IsValid(); child, cur = cur, bt.Parent(cur) {
		k := bt.Kind(cur)
		matched := m.Matched(cur)
		if cur != from && !matched && !tr.RemovedClosure.IsValid() &&
			bt.IsClosureNode(cur) && bt.ClosureBodyContains(cur, child) {
			tr.RemovedClosure = cur
		}
		if k.IsMember() && !matched {
			tr.MemberDeleted = true
		}
		if cur == from || !matched || !anchorCapable(bt, cur) {
			continue
		}
		a, _ := m.Partner(cur)
		if !executable(at, a) {
			continue
		}
		if k.IsTypeContainer() || k == ast.KindNamespaceDecl || k == ast.KindCompilationUnit {
			tr.MemberDeleted = true
		}
		tr.Ancestor = a
		tr.Anchor = at.Anchor(a)
		return tr
	}
	return tr
}

// relocate moves a lost field/property initializer onto the next surviving
// initializer of the same static-ness in the type. Initializers run as one unit
// of the constructor, so the move itself is not an edit of the statement.
func (m *Match) relocate(tr Tracking, init ast.NodeID) Tracking {
	bt, at := m.Before, m.After
	member := bt.EnclosingMember(init)
	am, ok := m.Partner(member)
	if !ok {
		return m.ascend(tr, init)
	}
	static := bt.Node(init).Has(ast.FlagStatic)
	pos := at.Span(am).Start

	var next, last ast.NodeID
	for _, cand := range initializers(at, at.Parent(am)) {
		if at.Node(cand).Has(ast.FlagStatic) != static || !executable(at, cand) {
			continue
		}
		if at.Span(cand).Start >= pos && !next.IsValid() {
			next = cand
		}
		last = cand
	}
	target := next
	if !target.IsValid() {
		target = last
	}
	if target.IsValid() {
		tr.After = Site{Node: target, Part: PartWhole}
		if _, ok := at.TypedRange(target); ok {
			tr.After.Part = PartTyped
		}
	} else {
		tr.After = Site{Node: am, Part: PartWhole}
	}
	tr.Relocated = true
	tr.Anchor = tr.After.Span(at)
	tr.Ancestor = tr.After.Node
	return tr
}

// initializerRoot returns the field declarator or property initializer that
// holds id, or NoNodeID when id is not part of a member initializer.
func initializerRoot(t *ast.Tree, id ast.NodeID) ast.NodeID {
	if t.Kind(id) == ast.KindFieldDecl {
		if vd := t.FirstChild(id, ast.KindVariableDecl); vd.IsValid() {
			return t.FirstChild(vd, ast.KindVariableDeclarator)
		}
		return ast.NoNodeID
	}
	for cur := id; cur.IsValid(); cur = t.Parent(cur) {
		k := t.Kind(cur)
		switch {
		case k == ast.KindVariableDeclarator:
			if t.Kind(t.Parent(t.Parent(cur))) == ast.KindFieldDecl {
				return cur
			}
			return ast.NoNodeID
		case k == ast.KindEqualsValue && t.Kind(t.Parent(cur)) == ast.KindPropertyDecl:
			return cur
		case k.IsMember() || k.IsTypeContainer() || t.IsClosureNode(cur):
			return ast.NoNodeID
		}
	}
	return ast.NoNodeID
}

// initializers lists member initializers of a type in document order.
func initializers(t *ast.Tree, typ ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for _, member := range t.Children(typ) {
		switch t.Kind(member) {
		case ast.KindFieldDecl:
			if vd := t.FirstChild(member, ast.KindVariableDecl); vd.IsValid() {
				out = append(out, t.ChildrenOf(vd, ast.KindVariableDeclarator)...)
			}
		case ast.KindPropertyDecl:
			if ev := t.FirstChild(member, ast.KindEqualsValue); ev.IsValid() {
				out = append(out, ev)
			}
		}
	}
	return out
}

// executable reports whether the node still carries code in the new tree:
// declarators need an initializer and must not be constant.
func executable(t *ast.Tree, id ast.NodeID) bool {
	switch t.Kind(id) {
	case ast.KindVariableDeclarator:
		if !t.FirstChild(id, ast.KindEqualsValue).IsValid() {
			return false
		}
		owner := t.Parent(t.Parent(id))
		if k := t.Kind(owner); k == ast.KindFieldDecl || k == ast.KindLocalDeclStmt {
			return !t.Node(owner).Mods.Has(ast.ModConst)
		}
		return true
	case ast.KindLocalDeclStmt:
		if t.Node(id).Mods.Has(ast.ModConst) {
			return false
		}
		if vd := t.FirstChild(id, ast.KindVariableDecl); vd.IsValid() {
			for _, d := range t.ChildrenOf(vd, ast.KindVariableDeclarator) {
				if executable(t, d) {
					return true
				}
			}
		}
		return t.Node(id).Has(ast.FlagUsingDecl)
	}
	return true
}

// anchorCapable reports whether a surviving node can carry the diagnostics
// of a statement deleted below it.
func anchorCapable(t *ast.Tree, id ast.NodeID) bool {
	k := t.Kind(id)
	switch k {
	case ast.KindVariableDeclarator, ast.KindLambda, ast.KindAnonymousMethod,
		ast.KindCatchClause, ast.KindCatchFilter, ast.KindFinallyClause, ast.KindElseClause,
		ast.KindSwitchSection, ast.KindConstructorInitializer, ast.KindAccessor,
		ast.KindNamespaceDecl, ast.KindCompilationUnit:
		return true
	case ast.KindEqualsValue:
		// только инициализатор свойства; у объявлений якорь это декларатор
		return t.Kind(t.Parent(id)) == ast.KindPropertyDecl
	}
	return k.IsStatement() || k.IsQueryClause() || k.IsMember() || k.IsTypeContainer()
}

// mapPart carries the site part over to the partner node.
func mapPart(t *ast.Tree, s Site, a ast.NodeID) Site {
	out := Site{Node: a, Part: PartWhole}
	switch s.Part {
	case PartTyped:
		if _, ok := t.TypedRange(a); ok {
			out.Part = PartTyped
		}
	case PartHead:
		if t.Kind(a) == ast.KindConstructorDecl {
			if init := t.FirstChild(a, ast.KindConstructorInitializer); init.IsValid() {
				return Site{Node: init, Part: PartWhole}
			}
		}
		if !t.Node(a).Head.Empty() {
			out.Part = PartHead
		}
	case PartOpen:
		if _, ok := t.OpenBrace(a); ok {
			out.Part = PartOpen
		}
	case PartClose:
		if _, ok := t.CloseBrace(a); ok {
			out.Part = PartClose
		}
	}
	return out
}

// SiteTokens returns the token texts of a site with nested closure bodies
// left out: edits inside a lambda do not change the statement that creates it.
func SiteTokens(t *ast.Tree, s Site) []string {
	r := s.Range(t)
	if r.Empty() {
		return nil
	}
	var skip []ast.TokenRange
	t.Walk(s.Node, func(id ast.NodeID) bool {
		if id == s.Node || !t.IsClosureNode(id) {
			return true
		}
		for _, c := range t.Children(id) {
			if t.ClosureBodyContains(id, c) {
				skip = append(skip, t.Node(c).Tokens())
			}
		}
		return false
	})
	out := make([]string, 0, int(r.Last-r.First)+1)
	for tok := r.First; tok <= r.Last; tok++ {
		skipped := false
		for _, sr := range skip {
			if sr.Contains(tok) {
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}
		if tt := t.Token(tok); tt.Kind != token.EOF {
			out = append(out, tt.Text)
		}
	}
	return out
}

// SiteChanged reports whether the tokens of a tracked site differ between the trees.
func SiteChanged(m *Match, tr Tracking) bool {
	if !tr.After.Valid() {
		return false
	}
	a, b := SiteTokens(m.Before, tr.Before), SiteTokens(m.After, tr.After)
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
