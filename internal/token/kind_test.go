package token_test

import (
	"testing"

	"encrude/internal/source"
	"encrude/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.IntLit, token.RealLit, token.CharLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNull,
	}
	for _, k := range lits {
		if !tok(k, "").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k, "").IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestKeywordLookup(t *testing.T) {
	tests := []struct {
		text string
		want token.Kind
		ok   bool
	}{
		{"lock", token.KwLock, true},
		{"foreach", token.KwForeach, true},
		{"unchecked", token.KwUnchecked, true},
		{"yield", token.Invalid, false},
		{"await", token.Invalid, false},
		{"Lock", token.Invalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := token.LookupKeyword(tt.text)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("LookupKeyword(%q) = %v,%v want %v,%v", tt.text, got, ok, tt.want, tt.ok)
			}
			if ok && got.String() != tt.text {
				t.Fatalf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if token.FatArrow.String() != "=>" {
		t.Fatalf("FatArrow.String() = %q", token.FatArrow.String())
	}
	if token.Ident.String() != "Ident" {
		t.Fatalf("Ident.String() = %q", token.Ident.String())
	}
	if token.Ident.IsKeyword() || !token.KwWhile.IsKeyword() {
		t.Fatal("IsKeyword boundaries are wrong")
	}
}

func TestContextual(t *testing.T) {
	if !tok(token.Ident, "yield").IsContextual("yield") {
		t.Fatal("yield identifier should match contextual keyword")
	}
	if tok(token.Ident, "yields").IsContextual("yield") {
		t.Fatal("different spelling must not match")
	}
	if !tok(token.ShrAssign, ">>=").IsAssignOp() || tok(token.EqEq, "==").IsAssignOp() {
		t.Fatal("IsAssignOp classification is wrong")
	}
}
