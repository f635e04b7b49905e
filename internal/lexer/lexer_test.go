package lexer

import (
	"testing"

	"encrude/internal/diag"
	"encrude/internal/source"
	"encrude/internal/token"
)

func lexString(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cs", []byte(src))
	bag := diag.NewBag(0)
	toks := Tokenize(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}, KeepDirectives: true})
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "class header",
			src:  "public class C { }",
			want: []token.Kind{token.KwPublic, token.KwClass, token.Ident, token.LBrace, token.RBrace, token.EOF},
		},
		{
			name: "contextual keywords stay identifiers",
			src:  "yield return await x;",
			want: []token.Kind{token.Ident, token.KwReturn, token.Ident, token.Ident, token.Semicolon, token.EOF},
		},
		{
			name: "lambda and null coalescing",
			src:  "a => b ?? c ??= d",
			want: []token.Kind{token.Ident, token.FatArrow, token.Ident, token.QuestionQuestion, token.Ident, token.QuestionQuestionAssign, token.Ident, token.EOF},
		},
		{
			name: "nested generic closes with separate Gt",
			src:  "List<List<int>> x",
			want: []token.Kind{token.Ident, token.Lt, token.Ident, token.Lt, token.KwInt, token.Gt, token.Gt, token.Ident, token.EOF},
		},
		{
			name: "numbers",
			src:  "1 0x1F 1.5 .5 1e3 10UL 2f 3m 1_000",
			want: []token.Kind{token.IntLit, token.IntLit, token.RealLit, token.RealLit, token.RealLit, token.IntLit, token.RealLit, token.RealLit, token.IntLit, token.EOF},
		},
		{
			name: "member access on int",
			src:  "1.ToString()",
			want: []token.Kind{token.IntLit, token.Dot, token.Ident, token.LParen, token.RParen, token.EOF},
		},
		{
			name: "range",
			src:  "1..2",
			want: []token.Kind{token.IntLit, token.DotDot, token.IntLit, token.EOF},
		},
		{
			name: "conditional with real",
			src:  "a?.5:1",
			want: []token.Kind{token.Ident, token.Question, token.RealLit, token.Colon, token.IntLit, token.EOF},
		},
		{
			name: "strings and chars",
			src:  `"a\"b" @"c""d" $"x{y}z" $@"p{q}" 'a' '\n'`,
			want: []token.Kind{token.StringLit, token.StringLit, token.StringLit, token.StringLit, token.CharLit, token.CharLit, token.EOF},
		},
		{
			name: "interpolation with nested string",
			src:  `$"a{f("}")}b" ;`,
			want: []token.Kind{token.StringLit, token.Semicolon, token.EOF},
		},
		{
			name: "raw string",
			src:  `"""a "quoted" b""" x`,
			want: []token.Kind{token.StringLit, token.Ident, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexString(t, tt.src)
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %s, want %s (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestVerbatimIdentifier(t *testing.T) {
	toks, _ := lexString(t, "@class x")
	if toks[0].Kind != token.Ident || toks[0].Text != "class" {
		t.Fatalf("got %s %q, want Ident \"class\"", toks[0].Kind, toks[0].Text)
	}
	if toks[0].Span.Start != 0 || toks[0].Span.End != 6 {
		t.Fatalf("span %v must cover the @ prefix", toks[0].Span)
	}
}

func TestIdentifierNFC(t *testing.T) {
	// "é" как e + combining acute и как готовый символ
	decomposed, _ := lexString(t, "cafe\u0301")
	composed, _ := lexString(t, "caf\u00e9")
	if decomposed[0].Text != composed[0].Text {
		t.Fatalf("NFC mismatch: %q vs %q", decomposed[0].Text, composed[0].Text)
	}
}

func TestTrivia(t *testing.T) {
	src := "// c\n#region R\n/// doc\n/* b */ x"
	toks, bag := lexString(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Kind != token.Ident {
		t.Fatalf("first token %s, want Ident", toks[0].Kind)
	}
	var got []token.TriviaKind
	for _, tr := range toks[0].Leading {
		got = append(got, tr.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline,
		token.TriviaDirective, token.TriviaNewline,
		token.TriviaDocLine, token.TriviaNewline,
		token.TriviaBlockComment, token.TriviaSpace,
	}
	if len(got) != len(want) {
		t.Fatalf("trivia %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trivia %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHashNotAtLineStartIsUnknown(t *testing.T) {
	_, bag := lexString(t, "x #y")
	if bag.Len() == 0 {
		t.Fatalf("expected a diagnostic for '#' in the middle of a line")
	}
	if bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("code %s, want LexUnknownChar", bag.Items()[0].Code.ID())
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{src: `"abc`, code: diag.LexUnterminatedString},
		{src: "\"a\nb\"", code: diag.LexUnterminatedString},
		{src: "/* open", code: diag.LexUnterminatedBlockComment},
		{src: "'a", code: diag.LexUnterminatedChar},
		{src: "0x", code: diag.LexBadNumber},
		{src: "12abc", code: diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, bag := lexString(t, tt.src)
			if bag.Len() == 0 {
				t.Fatalf("expected %s", tt.code.ID())
			}
			if bag.Items()[0].Code != tt.code {
				t.Fatalf("got %s, want %s", bag.Items()[0].Code.ID(), tt.code.ID())
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.cs", []byte("a b"))
	lx := New(fs.Get(id), Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("second Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("Next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("want EOF, got %s", n.Kind)
	}
}
