package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

// Приоритеты бинарных операторов, от слабого к сильному.
const (
	precNone = iota
	precCoalesce
	precOrOr
	precAndAnd
	precOr
	precXor
	precAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precRange
)

// parseExpr is the entry point for any expression, assignment and lambdas included.
func (p *Parser) parseExpr() ast.NodeID {
	if p.atLambda() {
		return p.parseLambda()
	}
	left := p.parseConditional()
	if p.peek().IsAssignOp() {
		op := p.advance().Kind
		var right ast.NodeID
		if p.at(token.LBrace) {
			right = p.parseInitializer()
		} else {
			right = p.parseExpr()
		}
		id := p.b.New(ast.KindAssignment, ast.NoTokenID, ast.NoTokenID, left, right)
		p.b.Node(id).Op = op
		return id
	}
	return left
}

// c ? a : b
func (p *Parser) parseConditional() ast.NodeID {
	cond := p.parseBinary(precCoalesce)
	if !p.at(token.Question) {
		return cond
	}
	p.advance()
	then := p.parseExpr()
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	els := p.parseExpr()
	return p.b.New(ast.KindConditional, ast.NoTokenID, ast.NoTokenID, cond, then, els)
}

// binaryPrec returns the precedence of the operator at the cursor and how many tokens it spans.
func (p *Parser) binaryPrec() (prec, width int) {
	switch p.peek().Kind {
	case token.QuestionQuestion:
		return precCoalesce, 1
	case token.OrOr:
		return precOrOr, 1
	case token.AndAnd:
		return precAndAnd, 1
	case token.Pipe:
		return precOr, 1
	case token.Caret:
		return precXor, 1
	case token.Amp:
		return precAnd, 1
	case token.EqEq, token.BangEq:
		return precEquality, 1
	case token.Lt, token.LtEq, token.GtEq, token.KwIs, token.KwAs:
		return precRelational, 1
	case token.Gt:
		// ">>" лексер отдаёт как два соседних '>'
		if next := p.peekAt(1); next.Kind == token.Gt && next.Span.Start == p.peek().Span.End {
			return precShift, 2
		}
		return precRelational, 1
	case token.Shl:
		return precShift, 1
	case token.Plus, token.Minus:
		return precAdditive, 1
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative, 1
	case token.DotDot:
		return precRange, 1
	}
	return precNone, 0
}

func (p *Parser) parseBinary(minPrec int) ast.NodeID {
	left := p.parseUnary()
	for {
		prec, width := p.binaryPrec()
		if prec == precNone || prec < minPrec {
			return left
		}
		op := p.peek().Kind
		for range width {
			p.advance()
		}
		switch op {
		case token.KwIs:
			left = p.b.New(ast.KindIs, ast.NoTokenID, ast.NoTokenID, left, p.parsePattern())
			continue
		case token.KwAs:
			left = p.b.New(ast.KindAs, ast.NoTokenID, ast.NoTokenID, left, p.parseType())
			continue
		}
		var right ast.NodeID
		if prec == precCoalesce {
			right = p.parseBinary(prec) // правоассоциативный
		} else if op == token.DotDot && !p.atOperandStart(0) {
			right = ast.NoNodeID // a..
		} else {
			right = p.parseBinary(prec + 1)
		}
		id := p.b.New(ast.KindBinary, ast.NoTokenID, ast.NoTokenID, left, right)
		p.b.Node(id).Op = op
		left = id
	}
}

// parsePattern reads the right side of "is": a type with an optional designation,
// "not"/"null" patterns or a constant expression.
func (p *Parser) parsePattern() ast.NodeID {
	first := p.cur()
	if p.atWord("not") {
		p.advance()
		inner := p.parsePattern()
		id := p.b.New(ast.KindUnary, first, p.prev(), inner)
		p.b.Node(id).Op = token.Bang
		return id
	}
	if end := p.scanType(p.pos); end >= 0 && !p.at(token.KwNull) {
		next := p.tokAt(end).Kind
		if next == token.Ident || !isBinaryContinuation(next) {
			typ := p.parseType()
			if p.at(token.Ident) && !p.atWord("and") && !p.atWord("or") {
				p.advance()
				return p.b.New(ast.KindDeclarationExpr, first, p.prev(), typ)
			}
			return typ
		}
	}
	return p.parseBinary(precShift)
}

func isBinaryContinuation(k token.Kind) bool {
	switch k {
	case token.Dot, token.LParen, token.LBracket, token.Plus, token.Minus, token.Star, token.Slash:
		return true
	}
	return false
}

func (p *Parser) parseUnary() ast.NodeID {
	first := p.cur()
	switch p.peek().Kind {
	case token.Plus, token.Minus, token.Bang, token.Tilde, token.PlusPlus, token.MinusMinus,
		token.Amp, token.Star, token.Caret:
		op := p.advance().Kind
		operand := p.parseUnary()
		id := p.b.New(ast.KindUnary, first, p.prev(), operand)
		p.b.Node(id).Op = op
		return id
	case token.KwThrow:
		p.advance()
		expr := p.parseExpr()
		return p.b.New(ast.KindThrowExpr, first, p.prev(), expr)
	case token.LParen:
		if p.atCast() {
			p.advance()
			typ := p.parseType()
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after cast type")
			operand := p.parseUnary()
			return p.b.New(ast.KindCast, first, p.prev(), typ, operand)
		}
	case token.Ident:
		if p.atAwait() {
			p.advance()
			operand := p.parseUnary()
			return p.b.New(ast.KindAwait, first, p.prev(), operand)
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// atAwait: await: контекстное слово, "await" может быть и обычным именем.
func (p *Parser) atAwait() bool {
	if !p.atWord("await") {
		return false
	}
	switch p.peekAt(1).Kind {
	case token.LParen:
		return p.awaitBeforeParen()
	case token.Minus, token.Plus:
		return false
	}
	return p.atOperandStart(1)
}

// awaitBeforeParen: "await (x)": это await, если дальше не '=>' и нет вызова метода await(...).
func (p *Parser) awaitBeforeParen() bool {
	closeIdx := p.matchingClose(p.pos + 1)
	if closeIdx < 0 {
		return false
	}
	switch p.tokAt(closeIdx + 1).Kind {
	case token.Semicolon, token.RParen, token.Comma, token.Dot:
		return true
	}
	return false
}

// atOperandStart reports whether the token at offset n can begin a unary operand.
func (p *Parser) atOperandStart(n int) bool {
	t := p.peekAt(n)
	switch t.Kind {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwThis, token.KwBase, token.KwNew,
		token.KwTypeof, token.KwDefault, token.KwSizeof, token.KwChecked, token.KwUnchecked,
		token.KwDelegate, token.LParen, token.Bang, token.Tilde, token.Minus, token.Plus,
		token.PlusPlus, token.MinusMinus, token.KwStackalloc:
		return true
	}
	return isPredefinedType(t.Kind)
}

// atCast: (T)x. Для встроенных типов: всегда приведение,
// для прочих: только если за ')' идёт что-то, что не может продолжить выражение.
func (p *Parser) atCast() bool {
	end := p.scanType(p.pos + 1)
	if end < 0 || p.tokAt(end).Kind != token.RParen {
		return false
	}
	if isPredefinedType(p.tokAt(p.pos + 1).Kind) {
		return true
	}
	next := p.tokAt(end + 1)
	switch next.Kind {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwThis, token.KwBase, token.KwNew,
		token.KwTypeof, token.KwDefault, token.KwSizeof, token.KwChecked, token.KwUnchecked,
		token.LParen, token.Bang, token.Tilde:
		return !next.IsContextual("is") && !next.IsContextual("as")
	}
	return isPredefinedType(next.Kind)
}

func (p *Parser) parsePostfix(left ast.NodeID) ast.NodeID {
	for {
		switch p.peek().Kind {
		case token.Dot, token.QuestionDot, token.Arrow:
			op := p.advance().Kind
			name := p.parseSimpleName()
			id := p.b.New(ast.KindMemberAccess, ast.NoTokenID, ast.NoTokenID, left, name)
			p.b.Node(id).Op = op
			left = id
		case token.LParen:
			args := p.parseArgumentList(token.LParen, token.RParen)
			left = p.b.New(ast.KindInvocation, ast.NoTokenID, ast.NoTokenID, left, args)
		case token.LBracket:
			args := p.parseArgumentList(token.LBracket, token.RBracket)
			left = p.b.New(ast.KindElementAccess, ast.NoTokenID, ast.NoTokenID, left, args)
		case token.PlusPlus, token.MinusMinus:
			op := p.advance().Kind
			id := p.b.New(ast.KindPostfix, p.b.Node(left).First, p.prev(), left)
			p.b.Node(id).Op = op
			left = id
		case token.Bang:
			// x!: подавление null-предупреждения
			switch p.peekAt(1).Kind {
			case token.Dot, token.QuestionDot, token.RParen, token.Semicolon, token.Comma, token.LBracket, token.RBracket:
			default:
				return left
			}
			p.advance()
			id := p.b.New(ast.KindPostfix, p.b.Node(left).First, p.prev(), left)
			p.b.Node(id).Op = token.Bang
			left = id
		default:
			return left
		}
	}
}

// parseSimpleName reads an identifier with optional generic arguments.
func (p *Parser) parseSimpleName() ast.NodeID {
	return p.parseSimpleNameAt(p.cur())
}

func (p *Parser) parseSimpleNameAt(first ast.TokenID) ast.NodeID {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
		return p.b.Missing(ast.KindName, p.cur())
	}
	p.advance()
	if p.at(token.Lt) {
		if end := p.scanTypeArgs(p.pos); end >= 0 && typeArgFollower(p.tokAt(end).Kind) {
			for p.pos < end {
				p.advance()
			}
		}
	}
	return p.b.New(ast.KindName, first, p.prev())
}

// typeArgFollower: токены, после которых "<...>" считается списком аргументов типа, а не сравнением.
func typeArgFollower(k token.Kind) bool {
	switch k {
	case token.LParen, token.RParen, token.RBracket, token.RBrace, token.Colon, token.Semicolon,
		token.Comma, token.Dot, token.QuestionDot, token.Question, token.EqEq, token.BangEq,
		token.Pipe, token.Caret, token.AndAnd, token.OrOr, token.Amp, token.LBracket, token.EOF:
		return true
	}
	return false
}

// parseArgumentList reads (a, ref b, name: c, out var d) or [i, j].
func (p *Parser) parseArgumentList(open, closeKind token.Kind) ast.NodeID {
	first := p.cur()
	p.expect(open, diag.SynUnexpectedToken, "expected '"+open.String()+"'")
	var args []ast.NodeID
	for !p.at(closeKind) && !p.at(token.EOF) {
		start := p.pos
		args = append(args, p.parseArgument())
		if p.pos == start {
			p.resyncUntil(token.Comma, closeKind)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(closeKind, diag.SynUnclosedParen, "expected '"+closeKind.String()+"' to close argument list")
	id := p.b.New(ast.KindArgumentList, first, p.prev(), args...)
	p.b.Node(id).Op = open
	return id
}

func (p *Parser) parseArgument() ast.NodeID {
	first := p.cur()
	var name ast.TokenID
	if p.at(token.Ident) && p.peekIs(1, token.Colon) {
		name = p.advanceID()
		p.advance()
	}
	var mods ast.Modifiers
	switch p.peek().Kind {
	case token.KwRef:
		mods = ast.ModRef
	case token.KwOut:
		mods = ast.ModOut
	case token.KwIn:
		mods = ast.ModIn
	}
	if mods != 0 {
		p.advance()
	}
	var value ast.NodeID
	if mods == ast.ModOut {
		// out var x / out int x
		if end := p.scanType(p.pos); end >= 0 && p.tokAt(end).Kind == token.Ident {
			dfirst := p.cur()
			typ := p.parseType()
			dname := p.advanceID()
			value = p.b.New(ast.KindDeclarationExpr, dfirst, p.prev(), typ)
			p.b.Node(value).Name = dname
		}
	}
	if !value.IsValid() {
		value = p.parseExpr()
	}
	id := p.b.New(ast.KindArgument, first, p.prev(), value)
	n := p.b.Node(id)
	n.Name = name
	n.Mods = mods
	return id
}

// parseInitializer reads { a, b } / { X = 1 } / { { k, v } }.
func (p *Parser) parseInitializer() ast.NodeID {
	first := p.cur()
	elems := p.parseInitializerElems()
	return p.b.New(ast.KindInitializer, first, p.prev(), elems...)
}

// parseInitializerElems consumes "{ ... }" and returns its elements.
func (p *Parser) parseInitializerElems() []ast.NodeID {
	p.advance() // {
	var elems []ast.NodeID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		start := p.pos
		if p.at(token.LBrace) {
			elems = append(elems, p.parseInitializer())
		} else {
			elems = append(elems, p.parseExpr())
		}
		if p.pos == start {
			p.resyncUntil(token.Comma, token.RBrace)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close initializer")
	return elems
}
