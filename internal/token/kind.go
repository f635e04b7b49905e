package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, contextual keywords included.
	Ident

	kwFirst
	KwAbstract   // abstract
	KwAs         // as
	KwBase       // base
	KwBool       // bool
	KwBreak      // break
	KwByte       // byte
	KwCase       // case
	KwCatch      // catch
	KwChar       // char
	KwChecked    // checked
	KwClass      // class
	KwConst      // const
	KwContinue   // continue
	KwDecimal    // decimal
	KwDefault    // default
	KwDelegate   // delegate
	KwDo         // do
	KwDouble     // double
	KwElse       // else
	KwEnum       // enum
	KwEvent      // event
	KwExplicit   // explicit
	KwExtern     // extern
	KwFalse      // false
	KwFinally    // finally
	KwFixed      // fixed
	KwFloat      // float
	KwFor        // for
	KwForeach    // foreach
	KwGoto       // goto
	KwIf         // if
	KwImplicit   // implicit
	KwIn         // in
	KwInt        // int
	KwInterface  // interface
	KwInternal   // internal
	KwIs         // is
	KwLock       // lock
	KwLong       // long
	KwNamespace  // namespace
	KwNew        // new
	KwNull       // null
	KwObject     // object
	KwOperator   // operator
	KwOut        // out
	KwOverride   // override
	KwParams     // params
	KwPrivate    // private
	KwProtected  // protected
	KwPublic     // public
	KwReadonly   // readonly
	KwRef        // ref
	KwReturn     // return
	KwSbyte      // sbyte
	KwSealed     // sealed
	KwShort      // short
	KwSizeof     // sizeof
	KwStackalloc // stackalloc
	KwStatic     // static
	KwString     // string
	KwStruct     // struct
	KwSwitch     // switch
	KwThis       // this
	KwThrow      // throw
	KwTrue       // true
	KwTry        // try
	KwTypeof     // typeof
	KwUint       // uint
	KwUlong      // ulong
	KwUnchecked  // unchecked
	KwUnsafe     // unsafe
	KwUshort     // ushort
	KwUsing      // using
	KwVirtual    // virtual
	KwVoid       // void
	KwVolatile   // volatile
	KwWhile      // while
	kwLast

	IntLit    // 1, 0x1F, 10UL
	RealLit   // 1.5, 1e3, 2f, 3m
	CharLit   // 'a'
	StringLit // "a", @"a", $"a{b}"

	Plus                   // +
	Minus                  // -
	Star                   // *
	Slash                  // /
	Percent                // %
	Assign                 // =
	PlusAssign             // +=
	MinusAssign            // -=
	StarAssign             // *=
	SlashAssign            // /=
	PercentAssign          // %=
	AmpAssign              // &=
	PipeAssign             // |=
	CaretAssign            // ^=
	ShlAssign              // <<=
	ShrAssign              // >>=
	QuestionQuestionAssign // ??=
	EqEq                   // ==
	Bang                   // !
	BangEq                 // !=
	Lt                     // <
	LtEq                   // <=
	Gt                     // > (">>" is two adjacent Gt tokens)
	GtEq                   // >=
	Shl                    // <<
	Amp                    // &
	Pipe                   // |
	Caret                  // ^
	Tilde                  // ~
	AndAnd                 // &&
	OrOr                   // ||
	PlusPlus               // ++
	MinusMinus             // --
	Question               // ?
	QuestionQuestion       // ??
	QuestionDot            // ?.
	Colon                  // :
	ColonColon             // ::
	Semicolon              // ;
	Comma                  // ,
	Dot                    // .
	DotDot                 // ..
	Arrow                  // ->
	FatArrow               // =>
	LParen                 // (
	RParen                 // )
	LBrace                 // {
	RBrace                 // }
	LBracket               // [
	RBracket               // ]
)

var kindNames = map[Kind]string{
	Invalid:                "Invalid",
	EOF:                    "EOF",
	Ident:                  "Ident",
	IntLit:                 "IntLit",
	RealLit:                "RealLit",
	CharLit:                "CharLit",
	StringLit:              "StringLit",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	Slash:                  "/",
	Percent:                "%",
	Assign:                 "=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	ShlAssign:              "<<=",
	ShrAssign:              ">>=",
	QuestionQuestionAssign: "??=",
	EqEq:                   "==",
	Bang:                   "!",
	BangEq:                 "!=",
	Lt:                     "<",
	LtEq:                   "<=",
	Gt:                     ">",
	GtEq:                   ">=",
	Shl:                    "<<",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Tilde:                  "~",
	AndAnd:                 "&&",
	OrOr:                   "||",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Question:               "?",
	QuestionQuestion:       "??",
	QuestionDot:            "?.",
	Colon:                  ":",
	ColonColon:             "::",
	Semicolon:              ";",
	Comma:                  ",",
	Dot:                    ".",
	DotDot:                 "..",
	Arrow:                  "->",
	FatArrow:               "=>",
	LParen:                 "(",
	RParen:                 ")",
	LBrace:                 "{",
	RBrace:                 "}",
	LBracket:               "[",
	RBracket:               "]",
}

// String returns the punctuation text, the keyword spelling or the kind name.
func (k Kind) String() string {
	if k.IsKeyword() {
		if s, ok := keywordText[k]; ok {
			return s
		}
	}
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved C# keyword.
func (k Kind) IsKeyword() bool {
	return k > kwFirst && k < kwLast
}
