package ast

// Kind is the closed set of syntax node kinds understood by the analyzer.
type Kind uint8

const (
	KindInvalid Kind = iota

	// объявления
	KindCompilationUnit
	KindUsingDirective
	KindNamespaceDecl
	KindTypeDecl // class, struct, interface, record; Op хранит ключевое слово
	KindEnumDecl
	KindEnumMember
	KindDelegateDecl
	KindFieldDecl // в том числе event-поля
	KindVariableDecl
	KindVariableDeclarator
	KindPropertyDecl
	KindIndexerDecl
	KindEventDecl
	KindAccessorList
	KindAccessor
	KindMethodDecl
	KindConstructorDecl
	KindConstructorInitializer
	KindDestructorDecl
	KindOperatorDecl
	KindParameterList
	KindParameter
	KindTypeRef
	KindAttributeList
	KindArrowBody
	KindEqualsValue

	// операторы
	KindBlock
	KindLocalDeclStmt
	KindLocalFunctionStmt
	KindExprStmt
	KindEmptyStmt
	KindIfStmt
	KindElseClause
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindForEachStmt
	KindForEachVariable
	KindSwitchStmt
	KindSwitchSection
	KindCaseLabel
	KindReturnStmt
	KindYieldReturnStmt
	KindYieldBreakStmt
	KindBreakStmt
	KindContinueStmt
	KindGotoStmt
	KindThrowStmt
	KindLabeledStmt
	KindTryStmt
	KindCatchClause
	KindCatchDeclaration
	KindCatchFilter
	KindFinallyClause
	KindLockStmt
	KindUsingStmt
	KindFixedStmt
	KindCheckedStmt // Op: checked или unchecked
	KindUnsafeStmt

	// выражения
	KindLiteral
	KindName
	KindMemberAccess
	KindInvocation
	KindElementAccess
	KindArgumentList
	KindArgument
	KindUnary
	KindPostfix
	KindBinary
	KindAssignment
	KindConditional
	KindCast
	KindParen
	KindLambda
	KindAnonymousMethod
	KindObjectCreation
	KindArrayCreation
	KindAnonymousObject
	KindInitializer
	KindAwait
	KindTypeOf
	KindDefault
	KindSizeOf
	KindCheckedExpr
	KindIs
	KindAs
	KindThis
	KindBase
	KindThrowExpr
	KindDeclarationExpr
	KindPredefinedType

	// query
	KindQuery
	KindFromClause
	KindLetClause
	KindWhereClause
	KindJoinClause
	KindOrderByClause
	KindOrdering
	KindSelectClause
	KindGroupClause
	KindQueryContinuation

	kindCount
)

var kindNames = [...]string{
	KindInvalid:                "Invalid",
	KindCompilationUnit:        "CompilationUnit",
	KindUsingDirective:         "UsingDirective",
	KindNamespaceDecl:          "NamespaceDecl",
	KindTypeDecl:               "TypeDecl",
	KindEnumDecl:               "EnumDecl",
	KindEnumMember:             "EnumMember",
	KindDelegateDecl:           "DelegateDecl",
	KindFieldDecl:              "FieldDecl",
	KindVariableDecl:           "VariableDecl",
	KindVariableDeclarator:     "VariableDeclarator",
	KindPropertyDecl:           "PropertyDecl",
	KindIndexerDecl:            "IndexerDecl",
	KindEventDecl:              "EventDecl",
	KindAccessorList:           "AccessorList",
	KindAccessor:               "Accessor",
	KindMethodDecl:             "MethodDecl",
	KindConstructorDecl:        "ConstructorDecl",
	KindConstructorInitializer: "ConstructorInitializer",
	KindDestructorDecl:         "DestructorDecl",
	KindOperatorDecl:           "OperatorDecl",
	KindParameterList:          "ParameterList",
	KindParameter:              "Parameter",
	KindTypeRef:                "TypeRef",
	KindAttributeList:          "AttributeList",
	KindArrowBody:              "ArrowBody",
	KindEqualsValue:            "EqualsValue",
	KindBlock:                  "Block",
	KindLocalDeclStmt:          "LocalDeclStmt",
	KindLocalFunctionStmt:      "LocalFunctionStmt",
	KindExprStmt:               "ExprStmt",
	KindEmptyStmt:              "EmptyStmt",
	KindIfStmt:                 "IfStmt",
	KindElseClause:             "ElseClause",
	KindWhileStmt:              "WhileStmt",
	KindDoStmt:                 "DoStmt",
	KindForStmt:                "ForStmt",
	KindForEachStmt:            "ForEachStmt",
	KindForEachVariable:        "ForEachVariable",
	KindSwitchStmt:             "SwitchStmt",
	KindSwitchSection:          "SwitchSection",
	KindCaseLabel:              "CaseLabel",
	KindReturnStmt:             "ReturnStmt",
	KindYieldReturnStmt:        "YieldReturnStmt",
	KindYieldBreakStmt:         "YieldBreakStmt",
	KindBreakStmt:              "BreakStmt",
	KindContinueStmt:           "ContinueStmt",
	KindGotoStmt:               "GotoStmt",
	KindThrowStmt:              "ThrowStmt",
	KindLabeledStmt:            "LabeledStmt",
	KindTryStmt:                "TryStmt",
	KindCatchClause:            "CatchClause",
	KindCatchDeclaration:       "CatchDeclaration",
	KindCatchFilter:            "CatchFilter",
	KindFinallyClause:          "FinallyClause",
	KindLockStmt:               "LockStmt",
	KindUsingStmt:              "UsingStmt",
	KindFixedStmt:              "FixedStmt",
	KindCheckedStmt:            "CheckedStmt",
	KindUnsafeStmt:             "UnsafeStmt",
	KindLiteral:                "Literal",
	KindName:                   "Name",
	KindMemberAccess:           "MemberAccess",
	KindInvocation:             "Invocation",
	KindElementAccess:          "ElementAccess",
	KindArgumentList:           "ArgumentList",
	KindArgument:               "Argument",
	KindUnary:                  "Unary",
	KindPostfix:                "Postfix",
	KindBinary:                 "Binary",
	KindAssignment:             "Assignment",
	KindConditional:            "Conditional",
	KindCast:                   "Cast",
	KindParen:                  "Paren",
	KindLambda:                 "Lambda",
	KindAnonymousMethod:        "AnonymousMethod",
	KindObjectCreation:         "ObjectCreation",
	KindArrayCreation:          "ArrayCreation",
	KindAnonymousObject:        "AnonymousObject",
	KindInitializer:            "Initializer",
	KindAwait:                  "Await",
	KindTypeOf:                 "TypeOf",
	KindDefault:                "Default",
	KindSizeOf:                 "SizeOf",
	KindCheckedExpr:            "CheckedExpr",
	KindIs:                     "Is",
	KindAs:                     "As",
	KindThis:                   "This",
	KindBase:                   "Base",
	KindThrowExpr:              "ThrowExpr",
	KindDeclarationExpr:        "DeclarationExpr",
	KindPredefinedType:         "PredefinedType",
	KindQuery:                  "Query",
	KindFromClause:             "FromClause",
	KindLetClause:              "LetClause",
	KindWhereClause:            "WhereClause",
	KindJoinClause:             "JoinClause",
	KindOrderByClause:          "OrderByClause",
	KindOrdering:               "Ordering",
	KindSelectClause:           "SelectClause",
	KindGroupClause:            "GroupClause",
	KindQueryContinuation:      "QueryContinuation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// KindByName returns the kind with the given String() name.
func KindByName(name string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsStatement reports whether k is a statement kind.
func (k Kind) IsStatement() bool {
	return k >= KindBlock && k <= KindUnsafeStmt &&
		k != KindElseClause && k != KindForEachVariable && k != KindSwitchSection &&
		k != KindCaseLabel && k != KindCatchClause && k != KindCatchDeclaration &&
		k != KindCatchFilter && k != KindFinallyClause
}

// IsExpression reports whether k is an expression kind, query clauses excluded.
func (k Kind) IsExpression() bool {
	return k >= KindLiteral && k <= KindQuery && k != KindArgumentList && k != KindArgument
}

// IsQueryClause reports whether k is a clause of a query expression.
func (k Kind) IsQueryClause() bool {
	return k >= KindFromClause && k <= KindQueryContinuation && k != KindOrdering
}

// IsMember reports whether k declares a type member with its own executable code.
func (k Kind) IsMember() bool {
	switch k {
	case KindFieldDecl, KindPropertyDecl, KindIndexerDecl, KindEventDecl, KindMethodDecl,
		KindConstructorDecl, KindDestructorDecl, KindOperatorDecl, KindDelegateDecl, KindEnumMember:
		return true
	default:
		return false
	}
}

// IsType reports whether k declares a type.
func (k Kind) IsType() bool {
	return k == KindTypeDecl || k == KindEnumDecl || k == KindDelegateDecl
}

// IsTypeContainer reports whether k can own members.
func (k Kind) IsTypeContainer() bool {
	return k == KindTypeDecl || k == KindEnumDecl
}

// IsClosure reports whether k introduces a nested function body:
// lambdas, anonymous methods, local functions and the lambda-lowered query clauses.
func (k Kind) IsClosure() bool {
	switch k {
	case KindLambda, KindAnonymousMethod, KindLocalFunctionStmt,
		KindFromClause, KindLetClause, KindWhereClause, KindJoinClause,
		KindOrderByClause, KindSelectClause, KindGroupClause:
		return true
	default:
		return false
	}
}

// IsWrapper reports whether k is one of the statements that hold a resource
// for the duration of their body.
func (k Kind) IsWrapper() bool {
	switch k {
	case KindLockStmt, KindUsingStmt, KindFixedStmt, KindForEachStmt:
		return true
	default:
		return false
	}
}

// IsLoop reports whether k is a loop statement.
func (k Kind) IsLoop() bool {
	switch k {
	case KindWhileStmt, KindDoStmt, KindForStmt, KindForEachStmt:
		return true
	default:
		return false
	}
}

// HasHead reports whether nodes of kind k carry a header token range.
func (k Kind) HasHead() bool {
	switch k {
	case KindTypeDecl, KindEnumDecl, KindNamespaceDecl, KindMethodDecl, KindConstructorDecl,
		KindDestructorDecl, KindOperatorDecl, KindLocalFunctionStmt, KindPropertyDecl, KindIndexerDecl,
		KindEventDecl, KindIfStmt, KindWhileStmt, KindDoStmt, KindForStmt, KindForEachStmt,
		KindSwitchStmt, KindLockStmt, KindUsingStmt, KindFixedStmt, KindCatchClause:
		return true
	default:
		return false
	}
}
