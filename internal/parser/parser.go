package parser

import (
	"context"
	"fmt"

	"encrude/internal/ast"
	"encrude/internal/diag"
	"encrude/internal/lexer"
	"encrude/internal/source"
	"encrude/internal/token"
	"encrude/internal/trace"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
	// KeepDirectives передаётся лексеру.
	KeepDirectives bool
}

type Result struct {
	Tree   *ast.Tree
	Errors uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	toks     []token.Token // поток токенов, последний всегда EOF
	pos      int
	b        *ast.Builder
	opts     Options
	errors   uint
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile lexes and parses one C# document into an ast.Tree.
// Syntax errors are reported through opts.Reporter; the returned tree is
// always usable, with FlagMissing nodes where recovery kicked in.
func ParseFile(ctx context.Context, file *source.File, opts Options) Result {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID).
		WithExtra("file", file.Path)

	toks := lexer.Tokenize(file, lexer.Options{Reporter: opts.Reporter, KeepDirectives: opts.KeepDirectives})
	p := Parser{
		toks: toks,
		b:    ast.NewBuilder(file, toks, ast.Hints{}),
		opts: opts,
	}
	root := p.parseCompilationUnit()
	tree := p.b.Finish(root)

	span.End(fmt.Sprintf("tokens=%d nodes=%d errors=%d", len(toks), tree.Len(), p.errors))
	return Result{Tree: tree, Errors: p.errors}
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (p *Parser) Enough() bool {
	if p.opts.MaxErrors == 0 {
		return false
	}
	return p.errors >= p.opts.MaxErrors
}

// parseCompilationUnit: основной цикл верхнего уровня: using-директивы, затем члены.
func (p *Parser) parseCompilationUnit() ast.NodeID {
	var children []ast.NodeID
	for !p.at(token.EOF) {
		start := p.pos
		if p.at(token.KwUsing) && !p.peekIs(1, token.LParen) {
			children = append(children, p.parseUsingDirective())
			continue
		}
		if id := p.parseMember(); id.IsValid() {
			children = append(children, id)
		}
		if p.pos == start {
			p.err(diag.SynUnexpectedTopLevel, "unexpected \""+p.peek().Text+"\" at top level")
			p.advance()
		}
	}
	if len(children) == 0 {
		return p.b.Missing(ast.KindCompilationUnit, p.cur())
	}
	return p.b.New(ast.KindCompilationUnit, 1, p.prev(), children...)
}

// using System; using static X.Y; using A = B.C;
func (p *Parser) parseUsingDirective() ast.NodeID {
	first := p.advanceID()
	for !p.at(token.Semicolon) && !p.at(token.EOF) && !p.at(token.LBrace) && !p.at(token.RBrace) {
		p.advance()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using directive")
	return p.b.New(ast.KindUsingDirective, first, p.prev())
}
