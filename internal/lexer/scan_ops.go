package lexer

import (
	"encrude/internal/diag"
	"encrude/internal/token"
)

type opEntry struct {
	text string
	kind token.Kind
}

// Жадный матчинг: длинные операторы идут раньше коротких.
// ">>" не склеивается, чтобы List<List<int>> разбирался без расщепления токенов.
var operators = []opEntry{
	{"??=", token.QuestionQuestionAssign},
	{"<<=", token.ShlAssign},
	{">>=", token.ShrAssign},
	{"=>", token.FatArrow},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"??", token.QuestionQuestion},
	{"?.", token.QuestionDot},
	{"::", token.ColonColon},
	{"..", token.DotDot},
	{"->", token.Arrow},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"%", token.Percent},
	{"=", token.Assign},
	{"!", token.Bang},
	{"<", token.Lt},
	{">", token.Gt},
	{"&", token.Amp},
	{"|", token.Pipe},
	{"^", token.Caret},
	{"~", token.Tilde},
	{"?", token.Question},
	{":", token.Colon},
	{";", token.Semicolon},
	{",", token.Comma},
	{".", token.Dot},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range operators {
		if !lx.hasPrefix(op.text) {
			continue
		}
		// a?.5: это условный оператор и число, а не ?.
		if op.kind == token.QuestionDot && isDec(lx.cursor.PeekAt(2)) {
			continue
		}
		lx.cursor.BumpN(uint32(len(op.text)))
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: op.kind, Span: sp, Text: op.text}
	}

	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) hasPrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		//nolint:gosec // len(s) <= 3
		if lx.cursor.PeekAt(uint32(i)) != s[i] {
			return false
		}
	}
	return true
}
