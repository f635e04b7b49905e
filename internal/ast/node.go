package ast

import (
	"encrude/internal/source"
	"encrude/internal/token"
)

// Flags уточняют форму узла там, где одного Kind мало.
type Flags uint8

const (
	// FlagExprBody: тело задано через "=>".
	FlagExprBody Flags = 1 << iota
	// FlagHasBody: у аксессора или метода есть блок или стрелочное тело.
	FlagHasBody
	// FlagUsingDecl: локальное объявление "using var x = ...;".
	FlagUsingDecl
	// FlagMissing: узел создан восстановлением после синтаксической ошибки.
	FlagMissing
	// FlagStatic: для инициализаторов полей, принадлежащих static-члену.
	FlagStatic
)

// Node is a single syntax node. Children are stored in source order.
type Node struct {
	Kind  Kind
	Span  source.Span
	First TokenID
	Last  TokenID
	// Head is the header of a statement or declaration:
	// "while (x)", "lock (o)", "public C()", "class C".
	Head TokenRange
	// Name is the declared identifier, or the accessor keyword.
	Name TokenID
	// Op is the operator or distinguishing keyword: the binary operator,
	// "class"/"struct", "checked"/"unchecked", "base"/"this".
	Op       token.Kind
	Mods     Modifiers
	Flags    Flags
	Parent   NodeID
	Children []NodeID

	hash uint64
}

func (n *Node) Has(f Flags) bool { return n.Flags&f != 0 }

// Tokens returns the node's token range.
func (n *Node) Tokens() TokenRange { return TokenRange{First: n.First, Last: n.Last} }
