package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

func isPredefinedType(k token.Kind) bool {
	switch k {
	case token.KwBool, token.KwByte, token.KwChar, token.KwDecimal, token.KwDouble, token.KwFloat,
		token.KwInt, token.KwLong, token.KwObject, token.KwSbyte, token.KwShort, token.KwString,
		token.KwUint, token.KwUlong, token.KwUshort, token.KwVoid:
		return true
	default:
		return false
	}
}

// scanType пытается прочитать тип начиная с токена i, ничего не создавая.
// Возвращает индекс первого токена после типа или -1.
func (p *Parser) scanType(i int) int {
	t := p.tokAt(i)
	switch {
	case t.Kind == token.LParen:
		// кортеж (int a, string b)
		j := i + 1
		n := 0
		for {
			j = p.scanType(j)
			if j < 0 {
				return -1
			}
			if p.tokAt(j).Kind == token.Ident {
				j++
			}
			n++
			if p.tokAt(j).Kind == token.Comma {
				j++
				continue
			}
			break
		}
		if n < 2 || p.tokAt(j).Kind != token.RParen {
			return -1
		}
		i = j + 1
	case isPredefinedType(t.Kind):
		i++
	case t.Kind == token.Ident:
		i = p.scanQualifiedName(i)
		if i < 0 {
			return -1
		}
	default:
		return -1
	}
	return p.scanTypeSuffix(i)
}

// scanQualifiedName читает A.B<C>.D и global::A.
func (p *Parser) scanQualifiedName(i int) int {
	if p.tokAt(i).Kind != token.Ident {
		return -1
	}
	i++
	if p.tokAt(i).Kind == token.ColonColon && p.tokAt(i+1).Kind == token.Ident {
		i += 2
	}
	for {
		if p.tokAt(i).Kind == token.Lt {
			j := p.scanTypeArgs(i)
			if j < 0 {
				return -1
			}
			i = j
		}
		if p.tokAt(i).Kind == token.Dot && p.tokAt(i+1).Kind == token.Ident {
			i += 2
			continue
		}
		return i
	}
}

// scanTypeArgs читает <T, U> или <,> начиная с '<'.
func (p *Parser) scanTypeArgs(i int) int {
	i++ // <
	for {
		if p.tokAt(i).Kind == token.Comma {
			i++
			continue
		}
		if p.tokAt(i).Kind == token.Gt {
			return i + 1
		}
		j := p.scanType(i)
		if j < 0 {
			return -1
		}
		i = j
		switch p.tokAt(i).Kind {
		case token.Comma:
			i++
		case token.Gt:
			return i + 1
		default:
			return -1
		}
	}
}

func (p *Parser) scanTypeSuffix(i int) int {
	for {
		switch p.tokAt(i).Kind {
		case token.Question, token.Star:
			i++
		case token.LBracket:
			j := i + 1
			for p.tokAt(j).Kind == token.Comma {
				j++
			}
			if p.tokAt(j).Kind != token.RBracket {
				return i
			}
			i = j + 1
		default:
			return i
		}
	}
}

// parseType reads a type into a TypeRef leaf node.
func (p *Parser) parseType() ast.NodeID {
	end := p.scanType(p.pos)
	if end < 0 {
		p.err(diag.SynExpectType, "expected type, got \""+p.peek().Text+"\"")
		return p.b.Missing(ast.KindTypeRef, p.cur())
	}
	first := p.cur()
	for p.pos < end {
		p.advance()
	}
	return p.b.New(ast.KindTypeRef, first, p.prev())
}

// parseTypeArgsOpt consumes generic parameters or arguments after a name: <T, U>.
func (p *Parser) parseTypeArgsOpt() {
	if !p.at(token.Lt) {
		return
	}
	if end := p.scanTypeArgs(p.pos); end >= 0 {
		for p.pos < end {
			p.advance()
		}
		return
	}
	// <in T, out U> в объявлениях
	for !p.at(token.EOF) && !p.at(token.Gt) && !p.at(token.LParen) && !p.at(token.LBrace) {
		p.advance()
	}
	p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>'")
}

// skipConstraints consumes "where T : class, new()" clauses.
func (p *Parser) skipConstraints() {
	for p.atWord("where") && p.peekIs(1, token.Ident) && p.peekIs(2, token.Colon) {
		p.advance()
		for !p.at(token.EOF) && !p.at(token.LBrace) && !p.at(token.Semicolon) && !p.at(token.FatArrow) {
			if p.atWord("where") && p.peekIs(1, token.Ident) && p.peekIs(2, token.Colon) {
				break
			}
			if p.at(token.LParen) {
				p.skipBalanced()
				continue
			}
			p.advance()
		}
	}
}
