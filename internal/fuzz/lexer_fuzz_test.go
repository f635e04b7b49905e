package fuzztests

import (
	"testing"
	"unicode/utf8"

	"encrude/internal/diag"
	"encrude/internal/lexer"
	"encrude/internal/markup"
	"encrude/internal/source"
	"encrude/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCaseSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cs", input))

		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}
		var prev uint32
		for _, tok := range toks {
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %v has span %v after offset %d", tok.Kind, tok.Span, prev)
			}
			prev = tok.Span.End
		}
	})
}

func FuzzMarkup(f *testing.F) {
	addCaseSeeds(f)
	f.Add([]byte("<AS:1>x</AS:1><ER:1.0>y</ER:1.0>"))
	f.Add([]byte("<AS:0><AS:1>x</AS:1></AS:0>"))
	f.Fuzz(func(t *testing.T, input []byte) {
		if !utf8.Valid(input) {
			return
		}
		clean, marks, err := markup.Parse(string(clampInput(input)))
		if err != nil {
			return
		}
		for _, m := range marks {
			if m.Start < 0 || m.End < m.Start || m.End > len(clean) {
				t.Fatalf("mark %d [%d,%d) outside clean text of %d bytes", m.ID, m.Start, m.End, len(clean))
			}
		}
	})
}
