package parser

import (
	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/token"
)

// atQuery: from x in ... / from T x in ...
func (p *Parser) atQuery() bool {
	if !p.atWord("from") {
		return false
	}
	if p.peekIs(1, token.Ident) && p.peekIs(2, token.KwIn) {
		return true
	}
	end := p.scanType(p.pos + 1)
	return end >= 0 && p.tokAt(end).Kind == token.Ident && p.tokAt(end+1).Kind == token.KwIn
}

// parseQuery reads a query expression. Clauses after "into" stay flat siblings
// of the QueryContinuation.
func (p *Parser) parseQuery() ast.NodeID {
	first := p.cur()
	clauses := []ast.NodeID{p.parseRangeClause(ast.KindFromClause)}
	for {
		c, ok := p.parseQueryClause()
		if !ok {
			break
		}
		clauses = append(clauses, c)
		kind := p.b.Node(c).Kind
		if kind != ast.KindSelectClause && kind != ast.KindGroupClause {
			continue
		}
		if !p.atWord("into") || !p.peekIs(1, token.Ident) {
			break
		}
		cfirst := p.advanceID()
		name := p.advanceID()
		cont := p.b.New(ast.KindQueryContinuation, cfirst, name)
		p.b.Node(cont).Name = name
		clauses = append(clauses, cont)
	}
	last := p.b.Node(clauses[len(clauses)-1]).Kind
	if last != ast.KindSelectClause && last != ast.KindGroupClause {
		p.err(diag.SynBadQuery, "query body must end with 'select' or 'group'")
	}
	return p.b.New(ast.KindQuery, first, p.prev(), clauses...)
}

func (p *Parser) parseQueryClause() (ast.NodeID, bool) {
	first := p.cur()
	switch {
	case p.atWord("from"):
		return p.parseRangeClause(ast.KindFromClause), true
	case p.atWord("join"):
		return p.parseRangeClause(ast.KindJoinClause), true
	case p.atWord("let"):
		p.advance()
		name := p.advanceID()
		p.expect(token.Assign, diag.SynBadQuery, "expected '=' in let clause")
		value := p.parseExpr()
		id := p.b.New(ast.KindLetClause, first, p.prev(), value)
		p.b.Node(id).Name = name
		return id, true
	case p.atWord("where"):
		p.advance()
		cond := p.parseExpr()
		return p.b.New(ast.KindWhereClause, first, p.prev(), cond), true
	case p.atWord("orderby"):
		p.advance()
		var orderings []ast.NodeID
		for {
			ofirst := p.cur()
			key := p.parseExpr()
			if !p.eatWord("ascending") {
				p.eatWord("descending")
			}
			orderings = append(orderings, p.b.New(ast.KindOrdering, ofirst, p.prev(), key))
			if !p.eat(token.Comma) {
				break
			}
		}
		return p.b.New(ast.KindOrderByClause, first, p.prev(), orderings...), true
	case p.atWord("select"):
		p.advance()
		value := p.parseExpr()
		return p.b.New(ast.KindSelectClause, first, p.prev(), value), true
	case p.atWord("group"):
		p.advance()
		value := p.parseExpr()
		if !p.eatWord("by") {
			p.err(diag.SynBadQuery, "expected 'by' in group clause")
		}
		key := p.parseExpr()
		return p.b.New(ast.KindGroupClause, first, p.prev(), value, key), true
	}
	return ast.NoNodeID, false
}

// parseRangeClause reads "from [T] x in e" and
// "join [T] x in e on k1 equals k2 [into g]".
func (p *Parser) parseRangeClause(kind ast.Kind) ast.NodeID {
	first := p.advanceID() // from | join
	var typ ast.NodeID
	if !(p.at(token.Ident) && p.peekIs(1, token.KwIn)) {
		typ = p.parseType()
	}
	var name ast.TokenID
	if p.at(token.Ident) {
		name = p.advanceID()
	} else {
		p.err(diag.SynExpectIdentifier, "expected range variable name")
	}
	p.expect(token.KwIn, diag.SynBadQuery, "expected 'in' in query clause")
	source := p.parseExpr()
	children := []ast.NodeID{typ, source}
	if kind == ast.KindJoinClause {
		if !p.eatWord("on") {
			p.err(diag.SynBadQuery, "expected 'on' in join clause")
		}
		children = append(children, p.parseExpr())
		if !p.eatWord("equals") {
			p.err(diag.SynBadQuery, "expected 'equals' in join clause")
		}
		children = append(children, p.parseExpr())
		if p.atWord("into") && p.peekIs(1, token.Ident) {
			p.advance()
			p.advance()
		}
	}
	id := p.b.New(kind, first, p.prev(), children...)
	p.b.Node(id).Name = name
	return id
}
