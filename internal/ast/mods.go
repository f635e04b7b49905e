package ast

import (
	"strings"

	"encrude/internal/token"
)

// Modifiers is a bit set of declaration modifiers.
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModStatic
	ModReadonly
	ModConst
	ModVirtual
	ModOverride
	ModAbstract
	ModSealed
	ModExtern
	ModUnsafe
	ModAsync
	ModNew
	ModVolatile
	ModPartial
	ModEvent
	ModRef
	ModOut
	ModIn
	ModParams
	ModThis
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModPrivate, "private"},
	{ModProtected, "protected"},
	{ModInternal, "internal"},
	{ModStatic, "static"},
	{ModReadonly, "readonly"},
	{ModConst, "const"},
	{ModVirtual, "virtual"},
	{ModOverride, "override"},
	{ModAbstract, "abstract"},
	{ModSealed, "sealed"},
	{ModExtern, "extern"},
	{ModUnsafe, "unsafe"},
	{ModAsync, "async"},
	{ModNew, "new"},
	{ModVolatile, "volatile"},
	{ModPartial, "partial"},
	{ModEvent, "event"},
	{ModRef, "ref"},
	{ModOut, "out"},
	{ModIn, "in"},
	{ModParams, "params"},
	{ModThis, "this"},
}

// ModifierOf maps a modifier token to its bit. Contextual modifiers
// ("async", "partial") are recognised by identifier text.
func ModifierOf(t token.Token) (Modifiers, bool) {
	switch t.Kind {
	case token.KwPublic:
		return ModPublic, true
	case token.KwPrivate:
		return ModPrivate, true
	case token.KwProtected:
		return ModProtected, true
	case token.KwInternal:
		return ModInternal, true
	case token.KwStatic:
		return ModStatic, true
	case token.KwReadonly:
		return ModReadonly, true
	case token.KwConst:
		return ModConst, true
	case token.KwVirtual:
		return ModVirtual, true
	case token.KwOverride:
		return ModOverride, true
	case token.KwAbstract:
		return ModAbstract, true
	case token.KwSealed:
		return ModSealed, true
	case token.KwExtern:
		return ModExtern, true
	case token.KwUnsafe:
		return ModUnsafe, true
	case token.KwNew:
		return ModNew, true
	case token.KwVolatile:
		return ModVolatile, true
	case token.KwEvent:
		return ModEvent, true
	case token.KwRef:
		return ModRef, true
	case token.KwOut:
		return ModOut, true
	case token.KwIn:
		return ModIn, true
	case token.KwParams:
		return ModParams, true
	case token.KwThis:
		return ModThis, true
	case token.Ident:
		switch t.Text {
		case "async":
			return ModAsync, true
		case "partial":
			return ModPartial, true
		}
	}
	return 0, false
}

func (m Modifiers) Has(x Modifiers) bool { return m&x != 0 }

func (m Modifiers) String() string {
	if m == 0 {
		return ""
	}
	var parts []string
	for _, e := range modifierNames {
		if m&e.mod != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, " ")
}
