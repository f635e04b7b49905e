package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

func (p *Parser) parsePrimary() ast.NodeID {
	first := p.cur()
	t := p.peek()
	switch {
	case t.IsLiteral() || t.Kind == token.KwTrue || t.Kind == token.KwFalse || t.Kind == token.KwNull:
		p.advance()
		return p.b.New(ast.KindLiteral, first, first)
	case t.Kind == token.Ident:
		if p.atQuery() {
			return p.parseQuery()
		}
		if p.peekIs(1, token.ColonColon) {
			// global::X
			p.advance()
			p.advance()
		}
		return p.parseSimpleNameAt(first)
	case isPredefinedType(t.Kind):
		p.advance()
		return p.b.New(ast.KindPredefinedType, first, first)
	}
	switch t.Kind {
	case token.KwThis:
		p.advance()
		return p.b.New(ast.KindThis, first, first)
	case token.KwBase:
		p.advance()
		return p.b.New(ast.KindBase, first, first)
	case token.LParen:
		return p.parseParenOrTuple()
	case token.KwNew:
		return p.parseNew()
	case token.KwStackalloc:
		p.advance()
		return p.parseArrayCreationRest(first)
	case token.KwDelegate:
		return p.parseAnonymousMethod(first, 0)
	case token.KwTypeof, token.KwSizeof:
		kind := ast.KindTypeOf
		if t.Kind == token.KwSizeof {
			kind = ast.KindSizeOf
		}
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+t.Text)
		typ := p.parseType()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return p.b.New(kind, first, p.prev(), typ)
	case token.KwDefault:
		p.advance()
		var typ ast.NodeID
		if p.eat(token.LParen) {
			typ = p.parseType()
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		}
		return p.b.New(ast.KindDefault, first, p.prev(), typ)
	case token.KwChecked, token.KwUnchecked:
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+t.Text)
		inner := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		id := p.b.New(ast.KindCheckedExpr, first, p.prev(), inner)
		p.b.Node(id).Op = t.Kind
		return id
	}
	p.err(diag.SynExpectExpression, "expected expression, got \""+t.Text+"\"")
	return p.b.Missing(ast.KindLiteral, first)
}

// (a) или кортеж (a, b)
func (p *Parser) parseParenOrTuple() ast.NodeID {
	first := p.advanceID()
	elems := []ast.NodeID{p.parseExpr()}
	for p.eat(token.Comma) {
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return p.b.New(ast.KindParen, first, p.prev(), elems...)
}

// parseNew reads object, array and anonymous-object creation.
func (p *Parser) parseNew() ast.NodeID {
	first := p.advanceID()
	switch p.peek().Kind {
	case token.LBrace:
		elems := p.parseInitializerElems()
		return p.b.New(ast.KindAnonymousObject, first, p.prev(), elems...)
	case token.LBracket:
		// new[] { ... }
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			p.advance()
		}
		p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'")
		var init ast.NodeID
		if p.at(token.LBrace) {
			init = p.parseInitializer()
		}
		return p.b.New(ast.KindArrayCreation, first, p.prev(), init)
	case token.LParen:
		// new(): целевой тип
		args := p.parseArgumentList(token.LParen, token.RParen)
		var init ast.NodeID
		if p.at(token.LBrace) {
			init = p.parseInitializer()
		}
		return p.b.New(ast.KindObjectCreation, first, p.prev(), args, init)
	}
	if end := p.scanType(p.pos); end >= 0 && p.tokAt(end).Kind == token.LBracket {
		return p.parseArrayCreationRest(first)
	}
	typ := p.parseType()
	if p.b.Node(typ).Has(ast.FlagMissing) {
		return p.b.New(ast.KindObjectCreation, first, p.prev(), typ)
	}
	var args, init ast.NodeID
	if p.at(token.LParen) {
		args = p.parseArgumentList(token.LParen, token.RParen)
	}
	if p.at(token.LBrace) {
		init = p.parseInitializer()
	}
	if !args.IsValid() && !init.IsValid() {
		p.err(diag.SynUnexpectedToken, "expected '(' or '{' after type in object creation")
	}
	return p.b.New(ast.KindObjectCreation, first, p.prev(), typ, args, init)
}

// parseArrayCreationRest reads "T[n][] { ... }" after new/stackalloc.
func (p *Parser) parseArrayCreationRest(first ast.TokenID) ast.NodeID {
	typ := p.parseType()
	children := []ast.NodeID{typ}
	if p.at(token.LBracket) {
		children = append(children, p.parseArgumentList(token.LBracket, token.RBracket))
		// дополнительные ранги [] [,]
		for p.at(token.LBracket) {
			p.skipBalanced()
		}
	}
	if p.at(token.LBrace) {
		children = append(children, p.parseInitializer())
	}
	return p.b.New(ast.KindArrayCreation, first, p.prev(), children...)
}

// delegate (int a) { ... }; first and mods cover an already consumed async/static prefix.
func (p *Parser) parseAnonymousMethod(first ast.TokenID, mods ast.Modifiers) ast.NodeID {
	p.expect(token.KwDelegate, diag.SynUnexpectedToken, "expected 'delegate'")
	var params ast.NodeID
	if p.at(token.LParen) {
		params = p.parseParameterList(token.LParen, token.RParen)
	}
	body := p.parseBlock()
	id := p.b.New(ast.KindAnonymousMethod, first, p.prev(), params, body)
	p.b.Node(id).Mods = mods
	return id
}

// atLambda: [async] [static] x => ... | [async] [static] (...) => ...
// Также ловит async delegate.
func (p *Parser) atLambda() bool {
	i := p.pos
	for {
		t := p.tokAt(i)
		if t.Kind == token.KwStatic || t.IsContextual("async") && p.tokAt(i+1).Kind != token.FatArrow {
			i++
			continue
		}
		break
	}
	t := p.tokAt(i)
	switch t.Kind {
	case token.Ident:
		return p.tokAt(i+1).Kind == token.FatArrow
	case token.LParen:
		closeIdx := p.matchingClose(i)
		return closeIdx >= 0 && p.tokAt(closeIdx+1).Kind == token.FatArrow
	case token.KwDelegate:
		return i > p.pos
	}
	return false
}

// parseLambda reads "x => e", "(a, b) => { }" and their async/static forms.
func (p *Parser) parseLambda() ast.NodeID {
	first := p.cur()
	var mods ast.Modifiers
	for {
		if p.at(token.KwStatic) {
			mods |= ast.ModStatic
		} else if p.atWord("async") && !p.peekIs(1, token.FatArrow) {
			mods |= ast.ModAsync
		} else {
			break
		}
		p.advance()
	}
	if p.at(token.KwDelegate) {
		return p.parseAnonymousMethod(first, mods)
	}
	var params ast.NodeID
	if p.at(token.LParen) {
		params = p.parseParameterList(token.LParen, token.RParen)
	} else {
		pfirst := p.advanceID()
		param := p.b.New(ast.KindParameter, pfirst, pfirst)
		p.b.Node(param).Name = pfirst
		params = p.b.New(ast.KindParameterList, pfirst, pfirst, param)
	}
	p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>'")
	var body ast.NodeID
	var flags ast.Flags
	if p.at(token.LBrace) {
		body = p.parseBlock()
		flags |= ast.FlagHasBody
	} else {
		body = p.parseExpr()
		flags |= ast.FlagExprBody
	}
	id := p.b.New(ast.KindLambda, first, p.prev(), params, body)
	n := p.b.Node(id)
	n.Mods = mods
	n.Flags |= flags
	return id
}
