package lexer

import (
	"golang.org/x/text/unicode/norm"

	"encrude/internal/diag"
	"encrude/internal/token"
)

// scanIdentOrKeyword читает идентификатор. Текст приводится к NFC,
// чтобы два написания одного имени сравнивались как равные.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	nonASCII := lx.consumeIdentRunes()
	sp := lx.cursor.SpanFrom(start)
	if sp.Empty() {
		// не буква: неизвестный символ
		lx.bumpRune()
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	text := lx.text(sp)
	if nonASCII {
		text = norm.NFC.String(text)
	} else if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

// consumeIdentRunes reads [start, continue*] and reports whether any rune was non-ASCII.
func (lx *Lexer) consumeIdentRunes() (nonASCII bool) {
	first := true
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if first && !isIdentStartByte(b) || !first && !isIdentContinueByte(b) {
				return nonASCII
			}
			lx.cursor.Bump()
			first = false
			continue
		}
		r, _ := lx.peekRune()
		if first && !isIdentStartRune(r) || !first && !isIdentContinueRune(r) {
			return nonASCII
		}
		nonASCII = true
		lx.bumpRune()
		first = false
	}
	return nonASCII
}

// scanPrefixed handles '@' and '$' prefixes: verbatim identifiers and the
// verbatim / interpolated string forms.
func (lx *Lexer) scanPrefixed() token.Token {
	start := lx.cursor.Mark()
	verbatim, interpolated := false, false
	for i := 0; i < 2; i++ {
		switch lx.cursor.Peek() {
		case '@':
			if verbatim {
				break
			}
			verbatim = true
			lx.cursor.Bump()
			continue
		case '$':
			if interpolated {
				break
			}
			interpolated = true
			// $$"""...""" raw interpolated
			for lx.cursor.PeekAt(1) == '$' {
				lx.cursor.Bump()
			}
			lx.cursor.Bump()
			continue
		}
		break
	}

	if lx.cursor.Peek() == '"' {
		return lx.scanStringBody(start, verbatim, interpolated)
	}

	if verbatim && !interpolated {
		identStart := lx.cursor.Mark()
		lx.consumeIdentRunes()
		id := lx.cursor.SpanFrom(identStart)
		if !id.Empty() {
			// @class: идентификатор class; Text без префикса
			return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(start), Text: norm.NFC.String(lx.text(id))}
		}
	}

	lx.cursor.Reset(start)
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unexpected '"+lx.text(sp)+"'")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
