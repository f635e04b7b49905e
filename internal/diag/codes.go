package diag

import (
	"fmt"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression   Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynExpectMember       Code = 2009
	SynBadQuery           Code = 2010
	SynUnexpectedTopLevel Code = 2011
	SynExpectBody         Code = 2012

	// Ввод: файлы, патчи, разметка активных инструкций
	IOLoadFileError Code = 4001
	IOPatchError    Code = 4002
	IOMarkupError   Code = 4003
	IOProviderError Code = 4004

	// Rude edits
	RudeActiveStatementUpdate        Code = 5001
	RudeActiveStatementLambdaRemoved Code = 5002
	RudeActiveStatementDeleted       Code = 5003
	RudeInsertAroundActiveStatement  Code = 5004
	RudeDeleteAroundActiveStatement  Code = 5005
	RudeUpdateAroundActiveStatement  Code = 5006
	RudeDelete                       Code = 5007
	RudeMove                         Code = 5008
	RudeModifiersUpdate              Code = 5009
	RudeRenamed                      Code = 5010
	RudeInitializerUpdate            Code = 5011
	RudeTypeUpdate                   Code = 5012
	RudeMethodBodyAdd                Code = 5013
	RudeMethodBodyDelete             Code = 5014
	RudeLambdaExpression             Code = 5015
	RudeAnonMethod                   Code = 5016
	RudeQueryExpression              Code = 5017
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                      "Unknown error",
		LexInfo:                          "Lexical information",
		LexUnknownChar:                   "Unknown character",
		LexUnterminatedString:            "Unterminated string literal",
		LexUnterminatedBlockComment:      "Unterminated block comment",
		LexBadNumber:                     "Bad number literal",
		LexUnterminatedChar:              "Unterminated character literal",
		SynInfo:                          "Syntax information",
		SynUnexpectedToken:               "Unexpected token",
		SynExpectSemicolon:               "Expect semicolon",
		SynExpectIdentifier:              "Expect identifier",
		SynExpectType:                    "Expect type",
		SynExpectExpression:              "Expect expression",
		SynUnclosedParen:                 "Unclosed parenthesis",
		SynUnclosedBrace:                 "Unclosed brace",
		SynUnclosedBracket:               "Unclosed bracket",
		SynExpectMember:                  "Expect member declaration",
		SynBadQuery:                      "Malformed query expression",
		SynUnexpectedTopLevel:            "Unexpected top-level construct",
		SynExpectBody:                    "Expect body",
		IOLoadFileError:                  "Failed to load file",
		IOPatchError:                     "Failed to apply patch",
		IOMarkupError:                    "Malformed active statement markup",
		IOProviderError:                  "Tree provider failure",
		RudeActiveStatementUpdate:        "Active statement updated",
		RudeActiveStatementLambdaRemoved: "Lambda containing an active statement removed",
		RudeActiveStatementDeleted:       "Active statement deleted",
		RudeInsertAroundActiveStatement:  "Construct inserted around an active statement",
		RudeDeleteAroundActiveStatement:  "Construct deleted around an active statement",
		RudeUpdateAroundActiveStatement:  "Construct updated around an active statement",
		RudeDelete:                       "Declaration deleted",
		RudeMove:                         "Declaration moved",
		RudeModifiersUpdate:              "Modifiers updated",
		RudeRenamed:                      "Declaration renamed",
		RudeInitializerUpdate:            "Initializer updated",
		RudeTypeUpdate:                   "Type updated",
		RudeMethodBodyAdd:                "Method body added",
		RudeMethodBodyDelete:             "Method body deleted",
		RudeLambdaExpression:             "Member containing a lambda modified",
		RudeAnonMethod:                   "Member containing an anonymous method modified",
		RudeQueryExpression:              "Member containing a query expression modified",
	}

	// шаблоны сообщений rude edits; %s - описательный аргумент ("try block", "field"...)
	codeTemplate = map[Code]string{
		RudeActiveStatementUpdate:        "Updating an active statement will prevent the debug session from continuing.",
		RudeActiveStatementLambdaRemoved: "Removing %s that contains an active statement will prevent the debug session from continuing.",
		RudeActiveStatementDeleted:       "An active statement has been removed from its original method. You must revert your changes to continue or restart the debugging session.",
		RudeInsertAroundActiveStatement:  "Adding a %s around an active statement will prevent the debug session from continuing.",
		RudeDeleteAroundActiveStatement:  "Deleting a %s around an active statement will prevent the debug session from continuing.",
		RudeUpdateAroundActiveStatement:  "Updating a %s around an active statement will prevent the debug session from continuing.",
		RudeDelete:                       "Deleting %s will prevent the debug session from continuing.",
		RudeMove:                         "Moving %s will prevent the debug session from continuing.",
		RudeModifiersUpdate:              "Updating the modifiers of %s will prevent the debug session from continuing.",
		RudeRenamed:                      "Renaming %s will prevent the debug session from continuing.",
		RudeInitializerUpdate:            "Updating the initializer of %s will prevent the debug session from continuing.",
		RudeTypeUpdate:                   "Updating the type of %s will prevent the debug session from continuing.",
		RudeMethodBodyAdd:                "Adding a body to %s will prevent the debug session from continuing.",
		RudeMethodBodyDelete:             "Removing the body of %s will prevent the debug session from continuing.",
		RudeLambdaExpression:             "Modifying %s which contains a lambda expression will prevent the debug session from continuing.",
		RudeAnonMethod:                   "Modifying %s which contains an anonymous method will prevent the debug session from continuing.",
		RudeQueryExpression:              "Modifying %s which contains a query expression will prevent the debug session from continuing.",
	}

	codeNames = map[Code]string{
		RudeActiveStatementUpdate:        "ActiveStatementUpdate",
		RudeActiveStatementLambdaRemoved: "ActiveStatementLambdaRemoved",
		RudeActiveStatementDeleted:       "ActiveStatementDeleted",
		RudeInsertAroundActiveStatement:  "InsertAroundActiveStatement",
		RudeDeleteAroundActiveStatement:  "DeleteAroundActiveStatement",
		RudeUpdateAroundActiveStatement:  "UpdateAroundActiveStatement",
		RudeDelete:                       "Delete",
		RudeMove:                         "Move",
		RudeModifiersUpdate:              "ModifiersUpdate",
		RudeRenamed:                      "Renamed",
		RudeInitializerUpdate:            "InitializerUpdate",
		RudeTypeUpdate:                   "TypeUpdate",
		RudeMethodBodyAdd:                "MethodBodyAdd",
		RudeMethodBodyDelete:             "MethodBodyDelete",
		RudeLambdaExpression:             "LambdaExpression",
		RudeAnonMethod:                   "AnonMethod",
		RudeQueryExpression:              "QueryExpression",
	}

	codeByName = func() map[string]Code {
		out := make(map[string]Code, len(codeNames))
		for c, n := range codeNames {
			out[strings.ToLower(n)] = c
		}
		return out
	}()
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("ENC%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Name returns the rude-edit kind name ("ActiveStatementUpdate") or the ID for other codes.
func (c Code) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return c.ID()
}

// IsRude reports whether c belongs to the rude-edit taxonomy.
func (c Code) IsRude() bool {
	return c >= 5000 && c < 6000
}

// Format renders the user-facing message for c with the descriptive argument.
func (c Code) Format(arg string) string {
	tmpl, ok := codeTemplate[c]
	if !ok {
		return c.Title()
	}
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, arg)
}

// ParseCode resolves a rude-edit kind name (case-insensitive) or a code ID such as "ENC5001".
func ParseCode(s string) (Code, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := codeByName[key]; ok {
		return c, true
	}
	for c := range codeDescription {
		if strings.EqualFold(c.ID(), key) {
			return c, true
		}
	}
	return UnknownCode, false
}
