package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

// parseParenExpr reads "( expr )" of a statement header.
func (p *Parser) parseParenExpr(what string) ast.NodeID {
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '"+what+"'")
	expr := p.parseExpr()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after "+what+" condition")
	return expr
}

func (p *Parser) withHead(id ast.NodeID, first, last ast.TokenID) ast.NodeID {
	p.b.Node(id).Head = ast.TokenRange{First: first, Last: last}
	return id
}

// if (c) s else s
func (p *Parser) parseIf() ast.NodeID {
	first := p.advanceID()
	cond := p.parseParenExpr("if")
	headEnd := p.prev()
	then := p.parseEmbedded()
	var elseClause ast.NodeID
	if p.at(token.KwElse) {
		efirst := p.advanceID()
		body := p.parseEmbedded()
		elseClause = p.b.New(ast.KindElseClause, efirst, p.prev(), body)
	}
	id := p.b.New(ast.KindIfStmt, first, p.prev(), cond, then, elseClause)
	return p.withHead(id, first, headEnd)
}

// while (c) s
func (p *Parser) parseWhile() ast.NodeID {
	first := p.advanceID()
	cond := p.parseParenExpr("while")
	headEnd := p.prev()
	body := p.parseEmbedded()
	id := p.b.New(ast.KindWhileStmt, first, p.prev(), cond, body)
	return p.withHead(id, first, headEnd)
}

// do s while (c);  Head: хвост "while (c);"
func (p *Parser) parseDo() ast.NodeID {
	first := p.advanceID()
	body := p.parseEmbedded()
	tail := p.cur()
	if !p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body") {
		id := p.b.New(ast.KindDoStmt, first, p.prev(), body)
		return id
	}
	cond := p.parseParenExpr("while")
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after do-while")
	id := p.b.New(ast.KindDoStmt, first, p.prev(), body, cond)
	return p.withHead(id, tail, p.prev())
}

// for (init; cond; incr) s
func (p *Parser) parseFor() ast.NodeID {
	first := p.advanceID()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'")
	var parts []ast.NodeID
	if !p.at(token.Semicolon) {
		if p.atForDecl() {
			parts = append(parts, p.parseVariableDecl())
		} else {
			parts = append(parts, p.parseExprList(token.Semicolon)...)
		}
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for header")
	if !p.at(token.Semicolon) {
		parts = append(parts, p.parseExpr())
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for header")
	if !p.at(token.RParen) {
		parts = append(parts, p.parseExprList(token.RParen)...)
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close for header")
	headEnd := p.prev()
	body := p.parseEmbedded()
	id := p.b.New(ast.KindForStmt, first, p.prev(), append(parts, body)...)
	return p.withHead(id, first, headEnd)
}

func (p *Parser) atForDecl() bool {
	return p.atDeclFollowedBy(token.Assign, token.Semicolon, token.Comma)
}

// atDeclFollowedBy reports whether "Type name" starts here and name is followed by one of next.
func (p *Parser) atDeclFollowedBy(next ...token.Kind) bool {
	end := p.scanType(p.pos)
	if end < 0 || p.tokAt(end).Kind != token.Ident {
		return false
	}
	k := p.tokAt(end + 1).Kind
	for _, n := range next {
		if k == n {
			return true
		}
	}
	return false
}

func (p *Parser) parseExprList(end token.Kind) []ast.NodeID {
	var out []ast.NodeID
	for {
		out = append(out, p.parseExpr())
		if !p.eat(token.Comma) || p.at(end) {
			return out
		}
	}
}

// foreach (T x in e) s
func (p *Parser) parseForEach() ast.NodeID {
	first := p.advanceID()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'foreach'")
	vfirst := p.cur()
	typ := p.parseType()
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected iteration variable name")
	}
	variable := p.b.New(ast.KindForEachVariable, vfirst, p.prev(), typ)
	p.b.Node(variable).Name = name
	p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in foreach header")
	coll := p.parseExpr()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close foreach header")
	headEnd := p.prev()
	body := p.parseEmbedded()
	id := p.b.New(ast.KindForEachStmt, first, p.prev(), variable, coll, body)
	return p.withHead(id, first, headEnd)
}

// switch (e) { case 1: ... default: ... }
func (p *Parser) parseSwitch() ast.NodeID {
	first := p.advanceID()
	sel := p.parseParenExpr("switch")
	headEnd := p.prev()
	children := []ast.NodeID{sel}
	if p.expect(token.LBrace, diag.SynExpectBody, "expected '{' after switch header") {
		for !p.at(token.RBrace) && !p.at(token.EOF) {
			if !p.at(token.KwCase) && !p.at(token.KwDefault) {
				p.err(diag.SynUnexpectedToken, "expected 'case' or 'default'")
				p.resyncUntil(token.KwCase, token.KwDefault)
				continue
			}
			children = append(children, p.parseSwitchSection())
		}
		p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close switch")
	}
	id := p.b.New(ast.KindSwitchStmt, first, p.prev(), children...)
	return p.withHead(id, first, headEnd)
}

func (p *Parser) parseSwitchSection() ast.NodeID {
	var children []ast.NodeID
	for p.at(token.KwCase) || p.at(token.KwDefault) && p.peekIs(1, token.Colon) {
		lfirst := p.cur()
		var value ast.NodeID
		if p.eat(token.KwCase) {
			value = p.parseExpr()
			if p.eatWord("when") {
				p.parseExpr()
			}
		} else {
			p.advance() // default
		}
		p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case label")
		children = append(children, p.b.New(ast.KindCaseLabel, lfirst, p.prev(), value))
	}
	for !p.at(token.KwCase) && !(p.at(token.KwDefault) && p.peekIs(1, token.Colon)) &&
		!p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.pos
		if s := p.parseStatement(); s.IsValid() {
			children = append(children, s)
		}
		if p.pos == start {
			p.advance()
		}
	}
	return p.b.New(ast.KindSwitchSection, ast.NoTokenID, ast.NoTokenID, children...)
}

// try { } catch (E e) when (f) { } finally { }
func (p *Parser) parseTry() ast.NodeID {
	first := p.advanceID()
	children := []ast.NodeID{p.parseBlock()}
	for p.at(token.KwCatch) {
		children = append(children, p.parseCatch())
	}
	if p.at(token.KwFinally) {
		ffirst := p.advanceID()
		body := p.parseBlock()
		children = append(children, p.b.New(ast.KindFinallyClause, ffirst, p.prev(), body))
	}
	if len(children) == 1 {
		p.err(diag.SynUnexpectedToken, "expected 'catch' or 'finally' after try block")
	}
	return p.b.New(ast.KindTryStmt, first, p.prev(), children...)
}

func (p *Parser) parseCatch() ast.NodeID {
	first := p.advanceID()
	var children []ast.NodeID
	if p.at(token.LParen) {
		dfirst := p.advanceID()
		typ := p.parseType()
		var name ast.TokenID
		if p.at(token.Ident) {
			name = p.advanceID()
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after catch declaration")
		decl := p.b.New(ast.KindCatchDeclaration, dfirst, p.prev(), typ)
		p.b.Node(decl).Name = name
		children = append(children, decl)
	}
	// старый синтаксис фильтра "if (...)" тоже принимаем
	if p.atWord("when") || p.at(token.KwIf) {
		ffirst := p.advanceID()
		cond := p.parseParenExpr("when")
		children = append(children, p.b.New(ast.KindCatchFilter, ffirst, p.prev(), cond))
	}
	children = append(children, p.parseBlock())
	id := p.b.New(ast.KindCatchClause, first, p.prev(), children...)
	return p.withHead(id, first, first)
}

// lock (o) s
func (p *Parser) parseLock() ast.NodeID {
	first := p.advanceID()
	target := p.parseParenExpr("lock")
	headEnd := p.prev()
	body := p.parseEmbedded()
	id := p.b.New(ast.KindLockStmt, first, p.prev(), target, body)
	return p.withHead(id, first, headEnd)
}

// using (var r = Open()) s  /  using (r) s
func (p *Parser) parseUsing() ast.NodeID {
	first := p.advanceID()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'using'")
	var resource ast.NodeID
	// using (C x) без инициализатора синтаксически допустим, ошибку даёт компилятор
	if p.atDeclFollowedBy(token.Assign, token.Comma, token.RParen) {
		resource = p.parseVariableDecl()
	} else {
		resource = p.parseExpr()
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close using header")
	headEnd := p.prev()
	body := p.parseEmbedded()
	id := p.b.New(ast.KindUsingStmt, first, p.prev(), resource, body)
	return p.withHead(id, first, headEnd)
}

// fixed (int* p = &x) s
func (p *Parser) parseFixed() ast.NodeID {
	first := p.advanceID()
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'fixed'")
	decl := p.parseVariableDecl()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close fixed header")
	headEnd := p.prev()
	body := p.parseEmbedded()
	id := p.b.New(ast.KindFixedStmt, first, p.prev(), decl, body)
	return p.withHead(id, first, headEnd)
}

// checked { }  unchecked { }
func (p *Parser) parseChecked() ast.NodeID {
	first := p.cur()
	op := p.advance().Kind
	body := p.parseBlock()
	id := p.b.New(ast.KindCheckedStmt, first, p.prev(), body)
	p.b.Node(id).Op = op
	return id
}
