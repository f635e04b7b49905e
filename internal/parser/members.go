package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

// finishMember sets the common fields of a member node.
func (p *Parser) finishMember(id ast.NodeID, h memberHeader, name ast.TokenID, head ast.TokenRange) ast.NodeID {
	n := p.b.Node(id)
	n.Mods = h.mods
	n.Name = name
	n.Head = head
	return id
}

// int a = 1, b;  const int c = 2;  event Action E;
// Имя первого декларатора уже съедено.
func (p *Parser) parseField(h memberHeader, typ ast.NodeID, name ast.TokenID) ast.NodeID {
	decl := p.parseVariableDeclFrom(typ, name)
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after field declaration")
	children := append(append([]ast.NodeID(nil), h.attrs...), decl)
	id := p.b.New(ast.KindFieldDecl, h.first, p.prev(), children...)
	if h.mods.Has(ast.ModStatic | ast.ModConst) {
		p.markStatic(decl)
	}
	return p.finishMember(id, h, name, ast.TokenRange{})
}

// markStatic flags declarators of static members, so initializer relocation
// keeps static and instance initializers apart.
func (p *Parser) markStatic(decl ast.NodeID) {
	for _, c := range p.b.Node(decl).Children {
		if n := p.b.Node(c); n.Kind == ast.KindVariableDeclarator {
			n.Flags |= ast.FlagStatic
		}
	}
}

// parseVariableDecl reads "T a = 1, b" from the type on.
func (p *Parser) parseVariableDecl() ast.NodeID {
	typ := p.parseType()
	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected variable name, got \""+p.peek().Text+"\"")
		return p.b.New(ast.KindVariableDecl, ast.NoTokenID, ast.NoTokenID, typ)
	}
	return p.parseVariableDeclFrom(typ, p.advanceID())
}

// parseVariableDeclFrom builds a VariableDecl whose type and first name are already consumed.
func (p *Parser) parseVariableDeclFrom(typ ast.NodeID, name ast.TokenID) ast.NodeID {
	children := []ast.NodeID{typ, p.parseDeclaratorRest(name)}
	for p.eat(token.Comma) {
		if !p.at(token.Ident) {
			p.err(diag.SynExpectIdentifier, "expected variable name after ','")
			break
		}
		children = append(children, p.parseDeclaratorRest(p.advanceID()))
	}
	return p.b.New(ast.KindVariableDecl, ast.NoTokenID, ast.NoTokenID, children...)
}

func (p *Parser) parseDeclaratorRest(name ast.TokenID) ast.NodeID {
	var children []ast.NodeID
	if p.at(token.LBracket) { // fixed-буфер: fixed int buf[16];
		children = append(children, p.parseArgumentList(token.LBracket, token.RBracket))
	}
	if p.at(token.Assign) {
		children = append(children, p.parseEqualsValue())
	}
	id := p.b.New(ast.KindVariableDeclarator, name, p.prev(), children...)
	p.b.Node(id).Name = name
	return id
}

// int P { get; set; } = 1;  int Q => 1;
func (p *Parser) parseProperty(h memberHeader, typ ast.NodeID, name ast.TokenID) ast.NodeID {
	head := ast.TokenRange{First: h.head, Last: name}
	children := append(append([]ast.NodeID(nil), h.attrs...), typ)
	if p.at(token.FatArrow) {
		children = append(children, p.parseArrowBody())
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression-bodied property")
	} else {
		children = append(children, p.parseAccessorList())
		if p.at(token.Assign) {
			init := p.parseEqualsValue()
			if h.mods.Has(ast.ModStatic) {
				p.b.Node(init).Flags |= ast.FlagStatic
			}
			children = append(children, init)
			p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after property initializer")
		}
	}
	id := p.b.New(ast.KindPropertyDecl, h.first, p.prev(), children...)
	if p.b.Node(children[len(children)-1]).Kind == ast.KindArrowBody {
		p.b.Node(id).Flags |= ast.FlagExprBody
	}
	return p.finishMember(id, h, name, head)
}

// event Action E { add { } remove { } }
func (p *Parser) parseEvent(h memberHeader, typ ast.NodeID, name ast.TokenID) ast.NodeID {
	head := ast.TokenRange{First: h.head, Last: name}
	children := append(append([]ast.NodeID(nil), h.attrs...), typ, p.parseAccessorList())
	id := p.b.New(ast.KindEventDecl, h.first, p.prev(), children...)
	return p.finishMember(id, h, name, head)
}

// int this[int i] { get => a[i]; }
func (p *Parser) parseIndexer(h memberHeader, typ ast.NodeID) ast.NodeID {
	name := p.advanceID() // this
	params := p.parseParameterList(token.LBracket, token.RBracket)
	head := ast.TokenRange{First: h.head, Last: p.prev()}
	children := append(append([]ast.NodeID(nil), h.attrs...), typ, params)
	flags := ast.Flags(0)
	if p.at(token.FatArrow) {
		children = append(children, p.parseArrowBody())
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression-bodied indexer")
		flags |= ast.FlagExprBody
	} else {
		children = append(children, p.parseAccessorList())
	}
	id := p.b.New(ast.KindIndexerDecl, h.first, p.prev(), children...)
	p.b.Node(id).Flags |= flags
	return p.finishMember(id, h, name, head)
}

// { get; private set; }  { get { return x; } set => x = value; }
func (p *Parser) parseAccessorList() ast.NodeID {
	first := p.cur()
	if !p.expect(token.LBrace, diag.SynExpectBody, "expected '{' or '=>' after property name") {
		return p.b.Missing(ast.KindAccessorList, p.cur())
	}
	var accessors []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		afirst := p.cur()
		attrs := p.parseAttributes()
		var mods ast.Modifiers
		for p.isModifierAt(0) {
			m, _ := ast.ModifierOf(p.advance())
			mods |= m
		}
		if !p.at(token.Ident) {
			p.err(diag.SynExpectMember, "expected accessor, got \""+p.peek().Text+"\"")
			p.resyncUntil(token.Semicolon, token.RBrace)
			p.eat(token.Semicolon)
			continue
		}
		kw := p.advanceID()
		children := attrs
		var flags ast.Flags
		switch {
		case p.at(token.LBrace):
			children = append(children, p.parseBlock())
			flags |= ast.FlagHasBody
		case p.at(token.FatArrow):
			children = append(children, p.parseArrowBody())
			p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after accessor body")
			flags |= ast.FlagHasBody | ast.FlagExprBody
		default:
			p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' or accessor body")
		}
		acc := p.b.New(ast.KindAccessor, afirst, p.prev(), children...)
		n := p.b.Node(acc)
		n.Name = kw
		n.Mods = mods
		n.Flags |= flags
		accessors = append(accessors, acc)
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close accessor list")
	return p.b.New(ast.KindAccessorList, first, p.prev(), accessors...)
}

// parseArrowBody reads "=> expr" without the trailing ';'.
func (p *Parser) parseArrowBody() ast.NodeID {
	first := p.advanceID() // =>
	expr := p.parseExpr()
	return p.b.New(ast.KindArrowBody, first, p.prev(), expr)
}

// parseBody reads a member body: block, "=> expr;" or ";".
func (p *Parser) parseBody() (ast.NodeID, ast.Flags) {
	switch {
	case p.at(token.LBrace):
		return p.parseBlock(), ast.FlagHasBody
	case p.at(token.FatArrow):
		body := p.parseArrowBody()
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression body")
		return body, ast.FlagHasBody | ast.FlagExprBody
	case p.eat(token.Semicolon):
		return ast.NoNodeID, 0
	default:
		p.err(diag.SynExpectBody, "expected method body, got \""+p.peek().Text+"\"")
		p.resyncMember()
		return ast.NoNodeID, 0
	}
}

// void M<T>(int a) where T : class { }
func (p *Parser) parseMethod(h memberHeader, typ ast.NodeID, name ast.TokenID) ast.NodeID {
	p.parseTypeArgsOpt()
	params := p.parseParameterList(token.LParen, token.RParen)
	head := ast.TokenRange{First: h.head, Last: p.prev()}
	p.skipConstraints()
	body, flags := p.parseBody()
	children := append(append([]ast.NodeID(nil), h.attrs...), typ, params, body)
	id := p.b.New(ast.KindMethodDecl, h.first, p.prev(), children...)
	p.b.Node(id).Flags |= flags
	return p.finishMember(id, h, name, head)
}

// public C(int a) : base(a) { }
func (p *Parser) parseConstructor(h memberHeader) ast.NodeID {
	name := p.advanceID()
	params := p.parseParameterList(token.LParen, token.RParen)
	head := ast.TokenRange{First: h.head, Last: p.prev()}
	children := append(append([]ast.NodeID(nil), h.attrs...), params)
	if p.eat(token.Colon) {
		if p.at(token.KwBase) || p.at(token.KwThis) {
			first := p.cur()
			op := p.advance().Kind
			args := p.parseArgumentList(token.LParen, token.RParen)
			init := p.b.New(ast.KindConstructorInitializer, first, p.prev(), args)
			p.b.Node(init).Op = op
			children = append(children, init)
		} else {
			p.err(diag.SynUnexpectedToken, "expected 'base' or 'this' in constructor initializer")
		}
	}
	body, flags := p.parseBody()
	children = append(children, body)
	id := p.b.New(ast.KindConstructorDecl, h.first, p.prev(), children...)
	p.b.Node(id).Flags |= flags
	return p.finishMember(id, h, name, head)
}

// ~C() { }
func (p *Parser) parseDestructor(h memberHeader) ast.NodeID {
	p.advance() // ~
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected destructor name")
	}
	params := p.parseParameterList(token.LParen, token.RParen)
	head := ast.TokenRange{First: h.head, Last: p.prev()}
	body, flags := p.parseBody()
	children := append(append([]ast.NodeID(nil), h.attrs...), params, body)
	id := p.b.New(ast.KindDestructorDecl, h.first, p.prev(), children...)
	p.b.Node(id).Flags |= flags
	return p.finishMember(id, h, name, head)
}

// public static C operator +(C a, C b) => ...;
func (p *Parser) parseOperator(h memberHeader, typ ast.NodeID) ast.NodeID {
	p.advance() // operator
	name := p.cur()
	for !p.at(token.LParen) && !p.at(token.EOF) && !p.at(token.LBrace) {
		p.advance()
	}
	params := p.parseParameterList(token.LParen, token.RParen)
	head := ast.TokenRange{First: h.head, Last: p.prev()}
	body, flags := p.parseBody()
	children := append(append([]ast.NodeID(nil), h.attrs...), typ, params, body)
	id := p.b.New(ast.KindOperatorDecl, h.first, p.prev(), children...)
	p.b.Node(id).Flags |= flags
	return p.finishMember(id, h, name, head)
}

// public static implicit operator int(C c) => ...;
func (p *Parser) parseConversionOperator(h memberHeader) ast.NodeID {
	p.advance() // implicit | explicit
	if !p.expect(token.KwOperator, diag.SynUnexpectedToken, "expected 'operator'") {
		p.resyncMember()
		return ast.NoNodeID
	}
	name := p.cur()
	typ := p.parseType()
	params := p.parseParameterList(token.LParen, token.RParen)
	head := ast.TokenRange{First: h.head, Last: p.prev()}
	body, flags := p.parseBody()
	children := append(append([]ast.NodeID(nil), h.attrs...), typ, params, body)
	id := p.b.New(ast.KindOperatorDecl, h.first, p.prev(), children...)
	p.b.Node(id).Flags |= flags
	return p.finishMember(id, h, name, head)
}
