package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

// memberHeader is what precedes every member: attributes and modifiers.
type memberHeader struct {
	attrs []ast.NodeID
	mods  ast.Modifiers
	first ast.TokenID // первый токен члена (атрибуты включительно)
	head  ast.TokenID // первый токен после атрибутов
}

func (p *Parser) parseAttributes() []ast.NodeID {
	var out []ast.NodeID
	for p.at(token.LBracket) {
		first := p.cur()
		p.skipBalanced()
		out = append(out, p.b.New(ast.KindAttributeList, first, p.prev()))
	}
	return out
}

// isModifierToken reports whether the token at offset n acts as a member modifier.
// "async" and "partial" are modifiers only when a declaration continues after them.
func (p *Parser) isModifierAt(n int) bool {
	t := p.peekAt(n)
	m, ok := ast.ModifierOf(t)
	if !ok {
		return false
	}
	switch m {
	case ast.ModRef, ast.ModOut, ast.ModIn, ast.ModParams, ast.ModThis:
		return false
	case ast.ModAsync, ast.ModPartial:
		next := p.peekAt(n + 1)
		return next.Kind == token.Ident || next.IsKeyword() || next.Kind == token.LParen && m == ast.ModAsync
	}
	return true
}

func (p *Parser) parseMemberHeader() memberHeader {
	h := memberHeader{first: p.cur()}
	h.attrs = p.parseAttributes()
	h.head = p.cur()
	for p.isModifierAt(0) {
		m, _ := ast.ModifierOf(p.advance())
		h.mods |= m
	}
	return h
}

func (p *Parser) atTypeKeyword() bool {
	switch p.peek().Kind {
	case token.KwClass, token.KwStruct, token.KwInterface, token.KwEnum:
		return true
	case token.KwDelegate:
		return !p.peekIs(1, token.LParen) && !p.peekIs(1, token.LBrace)
	case token.Ident:
		if p.atWord("record") {
			next := p.peekAt(1).Kind
			return next == token.Ident || next == token.KwClass || next == token.KwStruct
		}
	}
	return false
}

// parseMember parses one namespace or type member.
// Returns NoNodeID when nothing sensible could be parsed; the caller resyncs.
func (p *Parser) parseMember() ast.NodeID {
	if p.at(token.KwNamespace) {
		return p.parseNamespace()
	}
	h := p.parseMemberHeader()
	switch {
	case p.at(token.KwEnum):
		return p.parseEnum(h)
	case p.at(token.KwDelegate) && p.atTypeKeyword():
		return p.parseDelegate(h)
	case p.atTypeKeyword():
		return p.parseTypeDecl(h)
	case p.at(token.Tilde):
		return p.parseDestructor(h)
	case p.at(token.Ident) && p.peekIs(1, token.LParen):
		return p.parseConstructor(h)
	case p.at(token.KwImplicit) || p.at(token.KwExplicit):
		return p.parseConversionOperator(h)
	}

	if p.scanType(p.pos) < 0 {
		if len(h.attrs) > 0 || h.mods != 0 {
			p.err(diag.SynExpectMember, "expected member declaration, got \""+p.peek().Text+"\"")
			p.resyncMember()
		}
		return ast.NoNodeID
	}
	typ := p.parseType()
	switch {
	case p.at(token.KwOperator):
		return p.parseOperator(h, typ)
	case p.at(token.KwThis) && p.peekIs(1, token.LBracket):
		return p.parseIndexer(h, typ)
	case !p.at(token.Ident):
		p.err(diag.SynExpectIdentifier, "expected member name, got \""+p.peek().Text+"\"")
		p.resyncMember()
		return ast.NoNodeID
	}

	// I.M: явная реализация интерфейса
	name := p.advanceID()
	for p.at(token.Dot) && p.peekIs(1, token.Ident) {
		p.advance()
		name = p.advanceID()
	}
	switch {
	case h.mods.Has(ast.ModEvent) && p.at(token.LBrace):
		return p.parseEvent(h, typ, name)
	case p.at(token.LParen) || p.at(token.Lt):
		return p.parseMethod(h, typ, name)
	case p.at(token.LBrace) || p.at(token.FatArrow):
		return p.parseProperty(h, typ, name)
	}
	return p.parseField(h, typ, name)
}

// resyncMember skips to the end of a broken member: past ';' or a balanced body.
func (p *Parser) resyncMember() {
	p.resyncUntil(token.Semicolon, token.LBrace, token.RBrace)
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.at(token.LBrace):
		p.skipBalanced()
	}
}

// namespace A.B { ... }  или  namespace A.B;
func (p *Parser) parseNamespace() ast.NodeID {
	first := p.advanceID()
	if p.scanQualifiedName(p.pos) < 0 {
		p.err(diag.SynExpectIdentifier, "expected namespace name")
	}
	for p.at(token.Ident) || p.at(token.Dot) {
		p.advance()
	}
	head := ast.TokenRange{First: first, Last: p.prev()}
	var children []ast.NodeID
	op := p.peek().Kind
	switch {
	case p.eat(token.Semicolon):
		children = p.parseNamespaceBody(token.EOF)
	case p.eat(token.LBrace):
		children = p.parseNamespaceBody(token.RBrace)
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close namespace")
	default:
		p.err(diag.SynUnexpectedToken, "expected '{' or ';' after namespace name")
	}
	id := p.b.New(ast.KindNamespaceDecl, first, p.prev(), children...)
	n := p.b.Node(id)
	n.Head = head
	n.Op = op
	return id
}

func (p *Parser) parseNamespaceBody(end token.Kind) []ast.NodeID {
	var children []ast.NodeID
	for !p.at(end) && !p.at(token.EOF) {
		start := p.pos
		if p.at(token.KwUsing) {
			children = append(children, p.parseUsingDirective())
			continue
		}
		if id := p.parseMember(); id.IsValid() {
			children = append(children, id)
		}
		if p.pos == start {
			p.err(diag.SynExpectMember, "unexpected \""+p.peek().Text+"\" in namespace")
			p.advance()
		}
	}
	return children
}

// class C<T> : B where T : new() { members }
func (p *Parser) parseTypeDecl(h memberHeader) ast.NodeID {
	kwID := p.cur()
	op := p.advance().Kind
	if op == token.Ident { // record [class|struct]
		if p.at(token.KwClass) || p.at(token.KwStruct) {
			p.advance()
		}
	}
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected type name")
	}
	head := ast.TokenRange{First: kwID, Last: p.prev()}
	p.parseTypeArgsOpt()

	children := append([]ast.NodeID(nil), h.attrs...)
	if p.at(token.LParen) {
		children = append(children, p.parseParameterList(token.LParen, token.RParen))
	}
	if p.eat(token.Colon) {
		for !p.at(token.EOF) && !p.at(token.LBrace) && !p.at(token.Semicolon) && !p.atWord("where") {
			if p.at(token.LParen) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
	}
	p.skipConstraints()

	if p.eat(token.LBrace) {
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			start := p.pos
			if id := p.parseMember(); id.IsValid() {
				children = append(children, id)
			}
			if p.pos == start {
				p.err(diag.SynExpectMember, "expected member declaration, got \""+p.peek().Text+"\"")
				p.resyncMember()
				if p.pos == start {
					p.advance()
				}
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close type declaration")
		p.eat(token.Semicolon)
	} else {
		p.expect(token.Semicolon, diag.SynExpectBody, "expected '{' or ';' after type declaration")
	}

	id := p.b.New(ast.KindTypeDecl, h.first, p.prev(), children...)
	n := p.b.Node(id)
	n.Head = head
	n.Name = name
	n.Op = op
	n.Mods = h.mods
	return id
}

// enum E : int { A, B = 2 }
func (p *Parser) parseEnum(h memberHeader) ast.NodeID {
	kwID := p.advanceID()
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected enum name")
	}
	head := ast.TokenRange{First: kwID, Last: p.prev()}
	if p.eat(token.Colon) {
		p.parseType()
	}
	children := append([]ast.NodeID(nil), h.attrs...)
	if p.expect(token.LBrace, diag.SynExpectBody, "expected '{' after enum name") {
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			first := p.cur()
			attrs := p.parseAttributes()
			if !p.at(token.Ident) {
				p.err(diag.SynExpectIdentifier, "expected enum member name")
				p.resyncUntil(token.Comma, token.RBrace)
				p.eat(token.Comma)
				continue
			}
			mname := p.advanceID()
			kids := attrs
			if p.at(token.Assign) {
				kids = append(kids, p.parseEqualsValue())
			}
			m := p.b.New(ast.KindEnumMember, first, p.prev(), kids...)
			p.b.Node(m).Name = mname
			children = append(children, m)
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close enum")
	}
	p.eat(token.Semicolon)
	id := p.b.New(ast.KindEnumDecl, h.first, p.prev(), children...)
	n := p.b.Node(id)
	n.Head = head
	n.Name = name
	n.Mods = h.mods
	return id
}

// delegate int D<T>(int a);
func (p *Parser) parseDelegate(h memberHeader) ast.NodeID {
	kwID := p.advanceID()
	typ := p.parseType()
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected delegate name")
	}
	head := ast.TokenRange{First: kwID, Last: p.prev()}
	p.parseTypeArgsOpt()
	children := append(append([]ast.NodeID(nil), h.attrs...), typ)
	if p.at(token.LParen) {
		children = append(children, p.parseParameterList(token.LParen, token.RParen))
	} else {
		p.err(diag.SynUnexpectedToken, "expected '(' after delegate name")
	}
	p.skipConstraints()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after delegate declaration")
	id := p.b.New(ast.KindDelegateDecl, h.first, p.prev(), children...)
	n := p.b.Node(id)
	n.Head = head
	n.Name = name
	n.Mods = h.mods
	return id
}

// parseParameterList reads (int a, ref string b = "x") or [int i].
func (p *Parser) parseParameterList(open, closeKind token.Kind) ast.NodeID {
	first := p.cur()
	p.expect(open, diag.SynUnexpectedToken, "expected '"+open.String()+"'")
	var params []ast.NodeID
	for !p.at(closeKind) && !p.at(token.EOF) {
		start := p.pos
		params = append(params, p.parseParameter())
		if p.pos == start {
			p.err(diag.SynUnexpectedToken, "unexpected \""+p.peek().Text+"\" in parameter list")
			p.resyncUntil(token.Comma, closeKind)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(closeKind, diag.SynUnclosedParen, "expected '"+closeKind.String()+"' to close parameter list")
	id := p.b.New(ast.KindParameterList, first, p.prev(), params...)
	p.b.Node(id).Op = open
	return id
}

func (p *Parser) parseParameter() ast.NodeID {
	first := p.cur()
	children := p.parseAttributes()
	var mods ast.Modifiers
	for {
		m, ok := ast.ModifierOf(p.peek())
		if !ok || (m != ast.ModRef && m != ast.ModOut && m != ast.ModIn && m != ast.ModParams &&
			m != ast.ModThis && m != ast.ModReadonly) {
			break
		}
		mods |= m
		p.advance()
	}
	// (a, b) => ... : параметр без типа
	if p.at(token.Ident) && (p.peekIs(1, token.Comma) || p.peekIs(1, token.RParen)) {
		name := p.advanceID()
		id := p.b.New(ast.KindParameter, first, p.prev(), children...)
		n := p.b.Node(id)
		n.Name = name
		n.Mods = mods
		return id
	}
	children = append(children, p.parseType())
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected parameter name")
	}
	if p.at(token.Assign) {
		children = append(children, p.parseEqualsValue())
	}
	id := p.b.New(ast.KindParameter, first, p.prev(), children...)
	n := p.b.Node(id)
	n.Name = name
	n.Mods = mods
	return id
}

// parseEqualsValue reads "= expr" or "= { ... }".
func (p *Parser) parseEqualsValue() ast.NodeID {
	first := p.advanceID() // =
	var value ast.NodeID
	if p.at(token.LBrace) {
		value = p.parseInitializer()
	} else {
		value = p.parseExpr()
	}
	return p.b.New(ast.KindEqualsValue, first, p.prev(), value)
}
