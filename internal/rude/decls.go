package rude

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/match"
)

// declarations reports edits of the declarations themselves: deleted types
// and members, reordered fields, changed modifiers, parameters and accessors.
func (a *analyzer) declarations() {
	a.container(a.m.Before.Root)
	for _, e := range a.m.Edits() {
		if e.Kind == match.EditReorder && a.m.Before.Kind(e.Before) == ast.KindFieldDecl {
			at := a.m.After
			diag.ReportRude(a.decl, diag.RudeMove, at.SpanWithoutSemicolon(e.After), at.DeclKindName(e.After)).Emit()
		}
	}
}

func (a *analyzer) container(b ast.NodeID) {
	bt := a.m.Before
	for _, c := range bt.Children(b) {
		k := bt.Kind(c)
		switch {
		case k == ast.KindNamespaceDecl:
			a.container(c)
		case k.IsType() || k.IsMember():
			am, ok := a.m.Partner(c)
			switch {
			case !ok:
				a.deletedDecl(c)
			case k.IsTypeContainer():
				a.container(c)
			case k.IsMember():
				a.member(c, am)
			}
		}
	}
}

// deletedDecl points at the surviving enclosing type, or nowhere.
func (a *analyzer) deletedDecl(b ast.NodeID) {
	bt, at := a.m.Before, a.m.After
	arg := bt.DeclKindName(b)
	if typ := bt.EnclosingType(bt.Parent(b)); typ.IsValid() {
		if ta, ok := a.m.Partner(typ); ok {
			diag.ReportRude(a.decl, diag.RudeDelete, at.Anchor(ta), arg).Emit()
			return
		}
	}
	diag.ReportDetached(a.decl, diag.RudeDelete, arg).Emit()
}

func (a *analyzer) member(b, am ast.NodeID) {
	bt, at := a.m.Before, a.m.After
	if bt.Kind(b) == ast.KindFieldDecl && bt.Node(b).Mods != at.Node(am).Mods {
		diag.ReportRude(a.decl, diag.RudeModifiersUpdate, at.SpanWithoutSemicolon(am), at.DeclKindName(am)).Emit()
	}
	if pl := bt.FirstChild(b, ast.KindParameterList); pl.IsValid() {
		for _, p := range bt.ChildrenOf(pl, ast.KindParameter) {
			if ap, ok := a.m.Partner(p); ok {
				a.parameter(p, ap)
			}
		}
	}
	if al := bt.FirstChild(b, ast.KindAccessorList); al.IsValid() {
		for _, acc := range bt.ChildrenOf(al, ast.KindAccessor) {
			aa, ok := a.m.Partner(acc)
			if !ok {
				continue
			}
			had, has := bt.Node(acc).Has(ast.FlagHasBody), at.Node(aa).Has(ast.FlagHasBody)
			switch {
			case !had && has:
				diag.ReportRude(a.decl, diag.RudeMethodBodyAdd, at.Anchor(aa), at.DeclKindName(aa)).Emit()
			case had && !has:
				diag.ReportRude(a.decl, diag.RudeMethodBodyDelete, at.Anchor(aa), at.DeclKindName(aa)).Emit()
			}
		}
	}
}

func (a *analyzer) parameter(b, ap ast.NodeID) {
	bt, at := a.m.Before, a.m.After
	sp, arg := at.Span(ap), at.DeclKindName(ap)
	if bt.Token(bt.Node(b).Name).Text != at.Token(at.Node(ap).Name).Text {
		diag.ReportRude(a.decl, diag.RudeRenamed, sp, arg).Emit()
	}
	if !ast.Equivalent(bt, bt.FirstChild(b, ast.KindTypeRef), at, at.FirstChild(ap, ast.KindTypeRef)) {
		diag.ReportRude(a.decl, diag.RudeTypeUpdate, sp, arg).Emit()
	}
	if !ast.Equivalent(bt, bt.FirstChild(b, ast.KindEqualsValue), at, at.FirstChild(ap, ast.KindEqualsValue)) {
		diag.ReportRude(a.decl, diag.RudeInitializerUpdate, sp, arg).Emit()
	}
}
