package token

var keywords = map[string]Kind{
	"abstract":   KwAbstract,
	"as":         KwAs,
	"base":       KwBase,
	"bool":       KwBool,
	"break":      KwBreak,
	"byte":       KwByte,
	"case":       KwCase,
	"catch":      KwCatch,
	"char":       KwChar,
	"checked":    KwChecked,
	"class":      KwClass,
	"const":      KwConst,
	"continue":   KwContinue,
	"decimal":    KwDecimal,
	"default":    KwDefault,
	"delegate":   KwDelegate,
	"do":         KwDo,
	"double":     KwDouble,
	"else":       KwElse,
	"enum":       KwEnum,
	"event":      KwEvent,
	"explicit":   KwExplicit,
	"extern":     KwExtern,
	"false":      KwFalse,
	"finally":    KwFinally,
	"fixed":      KwFixed,
	"float":      KwFloat,
	"for":        KwFor,
	"foreach":    KwForeach,
	"goto":       KwGoto,
	"if":         KwIf,
	"implicit":   KwImplicit,
	"in":         KwIn,
	"int":        KwInt,
	"interface":  KwInterface,
	"internal":   KwInternal,
	"is":         KwIs,
	"lock":       KwLock,
	"long":       KwLong,
	"namespace":  KwNamespace,
	"new":        KwNew,
	"null":       KwNull,
	"object":     KwObject,
	"operator":   KwOperator,
	"out":        KwOut,
	"override":   KwOverride,
	"params":     KwParams,
	"private":    KwPrivate,
	"protected":  KwProtected,
	"public":     KwPublic,
	"readonly":   KwReadonly,
	"ref":        KwRef,
	"return":     KwReturn,
	"sbyte":      KwSbyte,
	"sealed":     KwSealed,
	"short":      KwShort,
	"sizeof":     KwSizeof,
	"stackalloc": KwStackalloc,
	"static":     KwStatic,
	"string":     KwString,
	"struct":     KwStruct,
	"switch":     KwSwitch,
	"this":       KwThis,
	"throw":      KwThrow,
	"true":       KwTrue,
	"try":        KwTry,
	"typeof":     KwTypeof,
	"uint":       KwUint,
	"ulong":      KwUlong,
	"unchecked":  KwUnchecked,
	"unsafe":     KwUnsafe,
	"ushort":     KwUshort,
	"using":      KwUsing,
	"virtual":    KwVirtual,
	"void":       KwVoid,
	"volatile":   KwVolatile,
	"while":      KwWhile,
}

var keywordText = func() map[Kind]string {
	out := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		out[k] = text
	}
	return out
}()

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Контекстные ключевые слова (var, yield, await, from, where...) остаются идентификаторами.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsPredefinedType reports whether k names a built-in type (int, string, object...).
func (k Kind) IsPredefinedType() bool {
	switch k {
	case KwBool, KwByte, KwChar, KwDecimal, KwDouble, KwFloat, KwInt, KwLong, KwObject,
		KwSbyte, KwShort, KwString, KwUint, KwUlong, KwUshort, KwVoid:
		return true
	default:
		return false
	}
}

// IsModifier reports whether k may appear in a member modifier list.
func (k Kind) IsModifier() bool {
	switch k {
	case KwAbstract, KwConst, KwExtern, KwInternal, KwNew, KwOverride, KwPrivate, KwProtected,
		KwPublic, KwReadonly, KwSealed, KwStatic, KwUnsafe, KwVirtual, KwVolatile:
		return true
	default:
		return false
	}
}
