package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

// parseBlock reads "{ statements }".
func (p *Parser) parseBlock() ast.NodeID {
	first := p.cur()
	if !p.expect(token.LBrace, diag.SynExpectBody, "expected '{'") {
		return p.b.Missing(ast.KindBlock, p.cur())
	}
	var stmts []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.pos
		if s := p.parseStatement(); s.IsValid() {
			stmts = append(stmts, s)
		}
		if p.pos == start {
			p.err(diag.SynUnexpectedToken, "unexpected \""+p.peek().Text+"\" in block")
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	return p.b.New(ast.KindBlock, first, p.prev(), stmts...)
}

// parseEmbedded reads the body of if/while/for/...: a statement, never a declaration.
func (p *Parser) parseEmbedded() ast.NodeID {
	if p.at(token.EOF) || p.at(token.RBrace) {
		p.err(diag.SynExpectExpression, "expected statement")
		return p.b.Missing(ast.KindEmptyStmt, p.cur())
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.NodeID {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		first := p.advanceID()
		return p.b.New(ast.KindEmptyStmt, first, first)
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForEach()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwTry:
		return p.parseTry()
	case token.KwLock:
		return p.parseLock()
	case token.KwFixed:
		return p.parseFixed()
	case token.KwUsing:
		if p.peekIs(1, token.LParen) {
			return p.parseUsing()
		}
		return p.parseLocalDecl()
	case token.KwChecked, token.KwUnchecked:
		if p.peekIs(1, token.LBrace) {
			return p.parseChecked()
		}
	case token.KwUnsafe:
		if p.peekIs(1, token.LBrace) {
			first := p.cur()
			p.advance()
			body := p.parseBlock()
			return p.b.New(ast.KindUnsafeStmt, first, p.prev(), body)
		}
	case token.KwConst:
		return p.parseLocalDecl()
	case token.KwReturn:
		return p.parseSimple(ast.KindReturnStmt, true)
	case token.KwThrow:
		return p.parseSimple(ast.KindThrowStmt, true)
	case token.KwBreak:
		return p.parseSimple(ast.KindBreakStmt, false)
	case token.KwContinue:
		return p.parseSimple(ast.KindContinueStmt, false)
	case token.KwGoto:
		return p.parseGoto()
	case token.Ident:
		switch {
		case p.atWord("yield") && p.peekIs(1, token.KwReturn):
			first := p.advanceID()
			p.advance()
			expr := p.parseExpr()
			p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after yield return")
			return p.b.New(ast.KindYieldReturnStmt, first, p.prev(), expr)
		case p.atWord("yield") && p.peekIs(1, token.KwBreak):
			first := p.advanceID()
			p.advance()
			p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after yield break")
			return p.b.New(ast.KindYieldBreakStmt, first, p.prev())
		case p.peekIs(1, token.Colon):
			first := p.advanceID()
			p.advance() // :
			body := p.parseStatement()
			id := p.b.New(ast.KindLabeledStmt, first, p.prev(), body)
			p.b.Node(id).Name = first
			return id
		}
	}
	if p.atLocalFunction() {
		return p.parseLocalFunction()
	}
	if p.atLocalDecl() {
		return p.parseLocalDecl()
	}
	first := p.cur()
	expr := p.parseExpr()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	return p.b.New(ast.KindExprStmt, first, p.prev(), expr)
}

// parseSimple reads return/throw/break/continue with an optional expression.
func (p *Parser) parseSimple(kind ast.Kind, withExpr bool) ast.NodeID {
	first := p.advanceID()
	var expr ast.NodeID
	if withExpr && !p.at(token.Semicolon) {
		expr = p.parseExpr()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'")
	return p.b.New(kind, first, p.prev(), expr)
}

// goto L; goto case 1; goto default;
func (p *Parser) parseGoto() ast.NodeID {
	first := p.advanceID()
	var expr ast.NodeID
	switch {
	case p.eat(token.KwCase):
		expr = p.parseExpr()
	case p.eat(token.KwDefault):
	case p.at(token.Ident):
		p.advance()
	default:
		p.err(diag.SynExpectIdentifier, "expected label after 'goto'")
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after goto")
	return p.b.New(ast.KindGotoStmt, first, p.prev(), expr)
}

// atLocalDecl: тип, за которым идёт имя и '=', ';', ',' или '['.
func (p *Parser) atLocalDecl() bool {
	i := p.pos
	if p.tokAt(i).IsContextual("scoped") {
		i++
	}
	end := p.scanType(i)
	if end < 0 || p.tokAt(end).Kind != token.Ident {
		return false
	}
	if end == i+1 && p.tokAt(i).IsContextual("await") {
		return false
	}
	switch p.tokAt(end + 1).Kind {
	case token.Assign, token.Semicolon, token.Comma, token.LBracket:
		return true
	}
	return false
}

// atLocalFunction: [static|async|unsafe] тип имя [<T>] ( ... ) { | =>
func (p *Parser) atLocalFunction() bool {
	i := p.pos
	for {
		t := p.tokAt(i)
		if t.Kind == token.KwStatic || t.Kind == token.KwUnsafe || t.Kind == token.KwExtern ||
			t.IsContextual("async") && p.tokAt(i+1).Kind != token.FatArrow && p.tokAt(i+1).Kind != token.LParen {
			i++
			continue
		}
		break
	}
	end := p.scanType(i)
	if end < 0 || p.tokAt(end).Kind != token.Ident {
		return false
	}
	j := end + 1
	if p.tokAt(j).Kind == token.Lt {
		if j = p.scanTypeArgs(j); j < 0 {
			return false
		}
	}
	if p.tokAt(j).Kind != token.LParen {
		return false
	}
	closeIdx := p.matchingClose(j)
	if closeIdx < 0 {
		return false
	}
	next := p.tokAt(closeIdx + 1)
	return next.Kind == token.LBrace || next.Kind == token.FatArrow || next.IsContextual("where")
}

// int a = 1, b;  const int c = 1;  using var r = Open();
func (p *Parser) parseLocalDecl() ast.NodeID {
	first := p.cur()
	var mods ast.Modifiers
	var flags ast.Flags
	if p.eat(token.KwUsing) {
		flags |= ast.FlagUsingDecl
	}
	if p.eat(token.KwConst) {
		mods |= ast.ModConst
	}
	p.eatWord("scoped")
	decl := p.parseVariableDecl()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after local declaration")
	id := p.b.New(ast.KindLocalDeclStmt, first, p.prev(), decl)
	n := p.b.Node(id)
	n.Mods = mods
	n.Flags |= flags
	return id
}

// static int Local(int x) => x + 1;
func (p *Parser) parseLocalFunction() ast.NodeID {
	first := p.cur()
	var mods ast.Modifiers
	for {
		m, ok := ast.ModifierOf(p.peek())
		if !ok || (m != ast.ModStatic && m != ast.ModAsync && m != ast.ModUnsafe && m != ast.ModExtern) {
			break
		}
		mods |= m
		p.advance()
	}
	typ := p.parseType()
	name := p.advanceID()
	p.parseTypeArgsOpt()
	params := p.parseParameterList(token.LParen, token.RParen)
	head := ast.TokenRange{First: first, Last: p.prev()}
	p.skipConstraints()
	body, flags := p.parseBody()
	id := p.b.New(ast.KindLocalFunctionStmt, first, p.prev(), typ, params, body)
	n := p.b.Node(id)
	n.Mods = mods
	n.Name = name
	n.Head = head
	n.Flags |= flags
	return id
}
