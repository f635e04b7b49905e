package token

import (
	"encrude/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, character, string, boolean or null literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, CharLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsContextual reports whether the token is the identifier spelled word.
// Contextual keywords like "yield", "await" or "where" are matched this way.
func (t Token) IsContextual(word string) bool {
	return t.Kind == Ident && t.Text == word
}

// IsAssignOp reports whether the token is a simple or compound assignment operator.
func (t Token) IsAssignOp() bool {
	switch t.Kind {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign, AmpAssign,
		PipeAssign, CaretAssign, ShlAssign, ShrAssign, QuestionQuestionAssign:
		return true
	default:
		return false
	}
}
