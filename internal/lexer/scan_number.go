package lexer

import (
	"encrude/internal/diag"
	"encrude/internal/token"
)

// scanNumber читает числовой литерал:
// 0x1F, 0b1010, 1_000, 1.5, .5, 1e-3, 10UL, 2f, 3.0m.
// "1..2" и "1.Foo" не забирают точку.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B') {
		lx.cursor.BumpN(2)
		digits := 0
		for {
			b := lx.cursor.Peek()
			if b == '_' || ((b1 == 'x' || b1 == 'X') && isHex(b)) || ((b1 == 'b' || b1 == 'B') && (b == '0' || b == '1')) {
				lx.cursor.Bump()
				digits++
				continue
			}
			break
		}
		lx.consumeIntSuffix()
		sp := lx.cursor.SpanFrom(start)
		if digits == 0 {
			lx.errLex(diag.LexBadNumber, sp, "missing digits after base prefix")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
	}

	lx.consumeDecDigits()
	if lx.isNumberAfterDot() {
		kind = token.RealLit
		lx.cursor.Bump() // .
		lx.consumeDecDigits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.RealLit
			lx.consumeDecDigits()
		} else {
			lx.cursor.Reset(mark)
		}
	}
	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		lx.cursor.Bump()
		kind = token.RealLit
	default:
		if kind == token.IntLit {
			lx.consumeIntSuffix()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid numeric suffix")
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) consumeDecDigits() {
	for {
		b := lx.cursor.Peek()
		if !isDec(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}

// u, l, ul, lu в любом регистре
func (lx *Lexer) consumeIntSuffix() {
	for range 2 {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
