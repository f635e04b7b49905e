package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"encrude/internal/source"
	"encrude/internal/token"
)

// TokenJSON is one lexed token in the JSON dump.
type TokenJSON struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Line    uint32   `json:"line"`
	Col     uint32   `json:"col"`
	Leading []string `json:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]string, len(tok.Leading))
	for i, tr := range tok.Leading {
		out[i] = tr.Kind.String()
	}
	return out
}

// Tokens dumps a token stream up to EOF, one token per line or as a JSON array.
func Tokens(w io.Writer, tokens []token.Token, fs *source.FileSet, asJSON bool) error {
	if asJSON {
		out := make([]TokenJSON, 0, len(tokens))
		for _, tok := range tokens {
			pos, _ := fs.Resolve(tok.Span)
			out = append(out, TokenJSON{Kind: tok.Kind.String(), Text: tok.Text, Line: pos.Line, Col: pos.Col, Leading: leadingKinds(tok)})
			if tok.Kind == token.EOF {
				break
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for i, tok := range tokens {
		pos, _ := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%4d %4d:%-3d %-16s", i+1, pos.Line, pos.Col, tok.Kind.String())
		if tok.Text != "" {
			line += " " + fmt.Sprintf("%q", tok.Text)
		}
		if lead := leadingKinds(tok); lead != nil {
			line += " [" + strings.Join(lead, " ") + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}
