package lexer

import (
	"encrude/internal/diag"
	"encrude/internal/token"
)

func (lx *Lexer) scanString() token.Token {
	return lx.scanStringBody(lx.cursor.Mark(), false, false)
}

// scanStringBody reads a string literal whose prefix (@, $) has already been
// consumed from start. The cursor is at the opening quote.
func (lx *Lexer) scanStringBody(start Mark, verbatim, interpolated bool) token.Token {
	var ok bool
	switch {
	case lx.atRawQuotes():
		ok = lx.consumeRaw(interpolated)
	case verbatim:
		ok = lx.consumeVerbatim(interpolated)
	default:
		ok = lx.consumeRegular(interpolated)
	}
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	}
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) atRawQuotes() bool {
	return lx.cursor.Peek() == '"' && lx.cursor.PeekAt(1) == '"' && lx.cursor.PeekAt(2) == '"'
}

// "..." с escape-последовательностями; перевод строки обрывает литерал.
func (lx *Lexer) consumeRegular(interpolated bool) bool {
	lx.cursor.Bump() // "
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '"':
			lx.cursor.Bump()
			return true
		case '\\':
			lx.cursor.BumpN(2)
		case '\n':
			return false
		case '{':
			if !interpolated {
				lx.cursor.Bump()
			} else if !lx.skipHole() {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// @"...": "" экранирует кавычку, переводы строк разрешены.
func (lx *Lexer) consumeVerbatim(interpolated bool) bool {
	lx.cursor.Bump() // "
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '"':
			if lx.cursor.PeekAt(1) == '"' {
				lx.cursor.BumpN(2)
				continue
			}
			lx.cursor.Bump()
			return true
		case '{':
			if !interpolated {
				lx.cursor.Bump()
			} else if !lx.skipHole() {
				return false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

// """...""": закрывается той же длиной серии кавычек.
func (lx *Lexer) consumeRaw(interpolated bool) bool {
	n := uint32(0)
	for lx.cursor.Peek() == '"' {
		lx.cursor.Bump()
		n++
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '"' {
			run := uint32(0)
			for lx.cursor.PeekAt(run) == '"' {
				run++
			}
			lx.cursor.BumpN(run)
			if run >= n {
				return true
			}
			continue
		}
		if interpolated && lx.cursor.Peek() == '{' {
			if !lx.skipHole() {
				return false
			}
			continue
		}
		lx.cursor.Bump()
	}
	return false
}

// skipHole consumes an interpolation hole "{...}" or an escaped "{{".
// Nested braces and string or char literals inside the hole are skipped.
func (lx *Lexer) skipHole() bool {
	if lx.cursor.PeekAt(1) == '{' {
		lx.cursor.BumpN(2)
		return true
	}
	lx.cursor.Bump() // {
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch lx.cursor.Peek() {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			depth--
			lx.cursor.Bump()
		case '"':
			lx.scanString()
		case '@', '$':
			if next := lx.cursor.PeekAt(1); next == '"' || next == '@' || next == '$' {
				lx.scanPrefixed()
			} else {
				lx.cursor.Bump()
			}
		case '\'':
			lx.scanChar()
		default:
			lx.cursor.Bump()
		}
	}
	return depth == 0
}

// 'a', '\n', 'A'
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '
	closed := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		if b == '\\' {
			lx.cursor.BumpN(2)
			continue
		}
		lx.cursor.Bump()
		if b == '\'' {
			closed = true
			break
		}
	}
	sp := lx.cursor.SpanFrom(start)
	if !closed {
		lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
	}
	return token.Token{Kind: token.CharLit, Span: sp, Text: lx.text(sp)}
}
