package parser

import (
	"slices"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/source"
	"encrude/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekAt смотрит на n токенов вперёд; за концом потока всегда EOF.
func (p *Parser) peekAt(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) tokAt(i int) token.Token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) peekIs(n int, k token.Kind) bool {
	return p.peekAt(n).Kind == k
}

// atWord: контекстное ключевое слово (yield, await, where...)
func (p *Parser) atWord(word string) bool {
	return p.peek().IsContextual(word)
}

// cur is the id of the next token to be consumed.
func (p *Parser) cur() ast.TokenID {
	return ast.TokenID(p.pos + 1)
}

// prev is the id of the last consumed token.
func (p *Parser) prev() ast.TokenID {
	return ast.TokenID(p.pos)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// advanceID consumes a token and returns its id.
func (p *Parser) advanceID() ast.TokenID {
	id := p.cur()
	p.advance()
	return id
}

// eat consumes the token if it has kind k.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// eatWord consumes a contextual keyword.
func (p *Parser) eatWord(word string) bool {
	if p.atWord(word) {
		p.advance()
		return true
	}
	return false
}

// getDiagnosticSpan: возвращает лучший span для диагностики.
// На EOF указываем на позицию сразу после последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Если нет: репортим и ничего не съедаем.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	p.err(code, msg)
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.errors++
	if p.opts.Reporter == nil || (p.opts.MaxErrors != 0 && p.errors > p.opts.MaxErrors) {
		return
	}
	diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
}

// resyncUntil прокручивает токены до одного из stop (не съедая его) с учётом вложенности скобок.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if depth == 0 && slices.Contains(stop, k) {
			return
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// skipBalanced consumes tokens from an opening bracket through its partner.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		p.advance()
		if depth <= 0 {
			return
		}
	}
}

// matchingClose returns the index of the bracket closing the one at i, or -1.
func (p *Parser) matchingClose(i int) int {
	depth := 0
	for ; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
			if depth == 0 {
				return i
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}

// isStatementStartKeyword: стартеры операторов для восстановления.
func isStatementStartKeyword(k token.Kind) bool {
	switch k {
	case token.KwIf, token.KwWhile, token.KwDo, token.KwFor, token.KwForeach, token.KwSwitch,
		token.KwTry, token.KwLock, token.KwUsing, token.KwFixed, token.KwReturn, token.KwThrow,
		token.KwBreak, token.KwContinue, token.KwGoto, token.KwChecked, token.KwUnchecked,
		token.KwUnsafe, token.KwConst:
		return true
	default:
		return false
	}
}
