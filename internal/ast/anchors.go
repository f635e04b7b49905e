package ast

import (
	"encrude/internal/source"
	"encrude/internal/token"
)

// HeadSpan returns the span of the node header, if the node has one.
func (t *Tree) HeadSpan(id NodeID) (source.Span, bool) {
	n := t.Node(id)
	if n == nil || n.Head.Empty() {
		return source.Span{}, false
	}
	return t.SpanOf(n.Head), true
}

// InHead reports whether tok belongs to the header of id.
func (t *Tree) InHead(id NodeID, tok TokenID) bool {
	n := t.Node(id)
	return n != nil && n.Head.Contains(tok)
}

// TypedRange is the "type + first declarator" range of a variable declarator:
// for "int a = 1, b = 2" the first declarator yields "int a = 1".
// Only the first declarator of a declaration has a typed range.
func (t *Tree) TypedRange(decl NodeID) (TokenRange, bool) {
	if t.Kind(decl) != KindVariableDeclarator {
		return TokenRange{}, false
	}
	vd := t.Parent(decl)
	if t.Kind(vd) != KindVariableDecl {
		return TokenRange{}, false
	}
	if first := t.FirstChild(vd, KindVariableDeclarator); first != decl {
		return TokenRange{}, false
	}
	return TokenRange{First: t.Node(vd).First, Last: t.Node(decl).Last}, true
}

// OpenBrace returns the "{" token of a block.
func (t *Tree) OpenBrace(id NodeID) (TokenID, bool) {
	n := t.Node(id)
	if n == nil || n.Kind != KindBlock || t.Token(n.First).Kind != token.LBrace {
		return NoTokenID, false
	}
	return n.First, true
}

// CloseBrace returns the "}" token of a block.
func (t *Tree) CloseBrace(id NodeID) (TokenID, bool) {
	n := t.Node(id)
	if n == nil || n.Kind != KindBlock || t.Token(n.Last).Kind != token.RBrace {
		return NoTokenID, false
	}
	return n.Last, true
}

// TokenSpan returns the span of a single token.
func (t *Tree) TokenSpan(id TokenID) source.Span {
	return t.Token(id).Span
}

// FindToken returns the first token of kind k inside the node.
func (t *Tree) FindToken(id NodeID, k token.Kind) (TokenID, bool) {
	n := t.Node(id)
	if n == nil || !n.First.IsValid() {
		return NoTokenID, false
	}
	for tok := n.First; tok <= n.Last; tok++ {
		if t.Token(tok).Kind == k {
			return tok, true
		}
	}
	return NoTokenID, false
}

// Anchor is the span a diagnostic about the node points at:
// headers for compound statements, keywords for try/catch/finally/do,
// the opening brace for blocks, the parameter list for lambdas.
func (t *Tree) Anchor(id NodeID) source.Span {
	n := t.Node(id)
	if n == nil {
		return source.Span{}
	}
	if n.Kind == KindDoStmt {
		// у do заголовок: хвост "while (c);", а якорь: само "do"
		return t.TokenSpan(n.First)
	}
	if !n.Head.Empty() {
		return t.SpanOf(n.Head)
	}
	switch n.Kind {
	case KindBlock:
		if tok, ok := t.OpenBrace(id); ok {
			return t.TokenSpan(tok)
		}
	case KindTryStmt, KindFinallyClause, KindCheckedStmt, KindUnsafeStmt,
		KindAnonymousMethod, KindQuery, KindElseClause:
		return t.TokenSpan(n.First)
	case KindSwitchSection:
		// секцию представляет последняя метка: ближайшая к операторам
		if labels := t.ChildrenOf(id, KindCaseLabel); len(labels) > 0 {
			return t.Span(labels[len(labels)-1])
		}
	case KindLabeledStmt:
		if n.Name.IsValid() {
			return t.TokenSpan(n.Name)
		}
	case KindLambda:
		if pl := t.FirstChild(id, KindParameterList); pl.IsValid() {
			return t.Span(pl)
		}
	case KindAccessor:
		if n.Name.IsValid() {
			return t.TokenSpan(n.Name)
		}
	case KindFieldDecl:
		return t.SpanWithoutSemicolon(id)
	}
	return n.Span
}

// SpanWithoutSemicolon drops a trailing ";" from the node span.
func (t *Tree) SpanWithoutSemicolon(id NodeID) source.Span {
	n := t.Node(id)
	if n == nil {
		return source.Span{}
	}
	if n.Last > n.First && t.Token(n.Last).Kind == token.Semicolon {
		return t.SpanOf(TokenRange{First: n.First, Last: n.Last - 1})
	}
	return n.Span
}

// IsAutoProperty reports whether a property has only body-less accessors.
func (t *Tree) IsAutoProperty(id NodeID) bool {
	n := t.Node(id)
	if n == nil || n.Kind != KindPropertyDecl || n.Mods.Has(ModAbstract|ModExtern) {
		return false
	}
	list := t.FirstChild(id, KindAccessorList)
	if !list.IsValid() {
		return false
	}
	for _, acc := range t.ChildrenOf(list, KindAccessor) {
		if t.Node(acc).Has(FlagHasBody) {
			return false
		}
	}
	return true
}

// DeclKindName is the user-facing name of a declaration kind, as used in
// diagnostic arguments ("method", "field", "auto-property", "class"...).
func (t *Tree) DeclKindName(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindTypeDecl:
		switch n.Op {
		case token.KwStruct:
			return "struct"
		case token.KwInterface:
			return "interface"
		case token.Ident:
			return "record"
		default:
			return "class"
		}
	case KindEnumDecl:
		return "enum"
	case KindEnumMember:
		return "enum value"
	case KindDelegateDecl:
		return "delegate"
	case KindFieldDecl:
		if n.Mods.Has(ModEvent) {
			return "event"
		}
		return "field"
	case KindPropertyDecl:
		if t.IsAutoProperty(id) {
			return "auto-property"
		}
		return "property"
	case KindIndexerDecl:
		return "indexer"
	case KindEventDecl:
		return "event"
	case KindMethodDecl:
		return "method"
	case KindConstructorDecl:
		if n.Mods.Has(ModStatic) {
			return "static constructor"
		}
		return "constructor"
	case KindDestructorDecl:
		return "destructor"
	case KindOperatorDecl:
		return "operator"
	case KindAccessor:
		owner := "property"
		if p := t.Parent(t.Parent(id)); t.Kind(p) == KindIndexerDecl {
			owner = "indexer"
		} else if t.Kind(p) == KindEventDecl {
			owner = "event"
		}
		switch t.Token(n.Name).Text {
		case "get":
			return owner + " getter"
		case "set", "init":
			return owner + " setter"
		case "add":
			return "event adder"
		case "remove":
			return "event remover"
		}
		return owner + " accessor"
	case KindParameter:
		return "parameter"
	case KindLocalFunctionStmt:
		return "local function"
	case KindNamespaceDecl:
		return "namespace"
	case KindUsingDirective:
		return "using directive"
	}
	return n.Kind.String()
}

// IsClosureNode reports whether id gets lowered into its own function body.
// The first from clause of a query evaluates its source in the enclosing body.
func (t *Tree) IsClosureNode(id NodeID) bool {
	k := t.Kind(id)
	if !k.IsClosure() {
		return false
	}
	if k == KindFromClause {
		q := t.Parent(id)
		return t.Kind(q) != KindQuery || t.Children(q)[0] != id
	}
	return true
}

// ClosureBodyContains reports whether child, a direct child of closure, is part
// of the lowered body rather than of the signature or the outer evaluation.
func (t *Tree) ClosureBodyContains(closure, child NodeID) bool {
	if !t.IsClosureNode(closure) || t.Parent(child) != closure {
		return false
	}
	kids := t.Children(closure)
	switch t.Kind(closure) {
	case KindLambda, KindAnonymousMethod, KindLocalFunctionStmt:
		return kids[len(kids)-1] == child && t.Kind(child) != KindParameterList
	case KindJoinClause:
		// join x in src on k1 equals k2: в лямбды уходят только ключи
		for _, c := range kids {
			if t.Kind(c) != KindTypeRef {
				return c != child && t.Kind(child) != KindTypeRef
			}
		}
		return false
	case KindFromClause:
		return t.Kind(child) != KindTypeRef
	}
	return true
}
