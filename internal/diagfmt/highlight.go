package diagfmt

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fatih/color"
)

var (
	hlKeyword = color.New(color.FgMagenta, color.Bold)
	hlComment = color.New(color.FgHiBlack)
	hlString  = color.New(color.FgGreen)
	hlNumber  = color.New(color.FgYellow)
	hlType    = color.New(color.FgCyan)
)

// Highlight colors one line of C# source (no trailing newline).
// Unknown input comes back unchanged.
func Highlight(line string) string {
	lexer := lexers.Get("csharp")
	if lexer == nil || line == "" {
		return line
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, line)
	if err != nil {
		return line
	}
	var b strings.Builder
	for tok := it(); tok != chroma.EOF; tok = it() {
		// лексер дописывает перевод строки в конец
		v := strings.TrimSuffix(tok.Value, "\n")
		if v == "" {
			continue
		}
		c := tokenColor(tok.Type)
		if c == nil {
			b.WriteString(v)
			continue
		}
		c.EnableColor()
		b.WriteString(c.Sprint(v))
	}
	return b.String()
}

func tokenColor(tt chroma.TokenType) *color.Color {
	switch {
	case tt.InCategory(chroma.Keyword):
		if tt == chroma.KeywordType {
			return hlType
		}
		return hlKeyword
	case tt.InCategory(chroma.Comment):
		return hlComment
	case tt.InSubCategory(chroma.LiteralString):
		return hlString
	case tt.InSubCategory(chroma.LiteralNumber):
		return hlNumber
	case tt == chroma.NameClass:
		return hlType
	}
	return nil
}
