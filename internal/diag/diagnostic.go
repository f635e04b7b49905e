package diag

import (
	"encrude/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Category orders diagnostics that share a primary start offset.
type Category uint8

const (
	CatTool Category = iota
	CatDeletion
	CatProtection
	CatDeclarationKind
	CatClosure
	CatLambdaForm
	CatUpdate
	CatModifier
)

func (c Category) String() string {
	switch c {
	case CatTool:
		return "tool"
	case CatDeletion:
		return "deletion"
	case CatProtection:
		return "protection"
	case CatDeclarationKind:
		return "declaration-kind"
	case CatClosure:
		return "closure"
	case CatLambdaForm:
		return "lambda-form"
	case CatUpdate:
		return "update"
	case CatModifier:
		return "modifier"
	}
	return "unknown"
}

// DefaultCategory returns the ordering category a code belongs to unless the emitter overrides it.
func (c Code) DefaultCategory() Category {
	switch c {
	case RudeActiveStatementDeleted, RudeDelete:
		return CatDeletion
	case RudeInsertAroundActiveStatement, RudeDeleteAroundActiveStatement, RudeUpdateAroundActiveStatement:
		return CatProtection
	case RudeActiveStatementLambdaRemoved:
		return CatClosure
	case RudeLambdaExpression, RudeAnonMethod, RudeQueryExpression:
		return CatLambdaForm
	case RudeActiveStatementUpdate:
		return CatUpdate
	case RudeMove, RudeModifiersUpdate, RudeRenamed, RudeInitializerUpdate, RudeTypeUpdate,
		RudeMethodBodyAdd, RudeMethodBodyDelete:
		return CatModifier
	default:
		return CatTool
	}
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Detached: у диагностики нет span (удалён весь тип/документ).
	Detached bool
	// Arg is the descriptive argument: "try block", "lambda", "field"...
	Arg      string
	Category Category
	Notes    []Note
}

// HasPrimary reports whether the diagnostic points at a span in the after document.
func (d Diagnostic) HasPrimary() bool {
	return !d.Detached
}
