//go:build cgo

package treesitter

import "encrude/internal/ast"

// leaves become nodes without children.
var leaves = map[string]ast.Kind{
	"using_directive":                ast.KindUsingDirective,
	"identifier":                     ast.KindName,
	"generic_name":                   ast.KindName,
	"qualified_name":                 ast.KindName,
	"alias_qualified_name":           ast.KindName,
	"predefined_type":                ast.KindPredefinedType,
	"this_expression":                ast.KindThis,
	"this":                           ast.KindThis,
	"base_expression":                ast.KindBase,
	"base":                           ast.KindBase,
	"integer_literal":                ast.KindLiteral,
	"real_literal":                   ast.KindLiteral,
	"boolean_literal":                ast.KindLiteral,
	"null_literal":                   ast.KindLiteral,
	"character_literal":              ast.KindLiteral,
	"string_literal":                 ast.KindLiteral,
	"verbatim_string_literal":        ast.KindLiteral,
	"raw_string_literal":             ast.KindLiteral,
	"interpolated_string_expression": ast.KindLiteral,
	"array_type":                     ast.KindTypeRef,
	"nullable_type":                  ast.KindTypeRef,
	"pointer_type":                   ast.KindTypeRef,
	"tuple_type":                     ast.KindTypeRef,
	"ref_type":                       ast.KindTypeRef,
	"scoped_type":                    ast.KindTypeRef,
	"function_pointer_type":          ast.KindTypeRef,
	"implicit_type":                  ast.KindTypeRef,
}

// plain nodes keep their converted children as is.
var plain = map[string]ast.Kind{
	"block":                                ast.KindBlock,
	"expression_statement":                 ast.KindExprStmt,
	"empty_statement":                      ast.KindEmptyStmt,
	"return_statement":                     ast.KindReturnStmt,
	"throw_statement":                      ast.KindThrowStmt,
	"break_statement":                      ast.KindBreakStmt,
	"continue_statement":                   ast.KindContinueStmt,
	"while_statement":                      ast.KindWhileStmt,
	"for_statement":                        ast.KindForStmt,
	"switch_statement":                     ast.KindSwitchStmt,
	"lock_statement":                       ast.KindLockStmt,
	"using_statement":                      ast.KindUsingStmt,
	"fixed_statement":                      ast.KindFixedStmt,
	"unsafe_statement":                     ast.KindUnsafeStmt,
	"try_statement":                        ast.KindTryStmt,
	"finally_clause":                       ast.KindFinallyClause,
	"catch_filter_clause":                  ast.KindCatchFilter,
	"accessor_list":                        ast.KindAccessorList,
	"arrow_expression_clause":              ast.KindArrowBody,
	"equals_value_clause":                  ast.KindEqualsValue,
	"invocation_expression":                ast.KindInvocation,
	"element_access_expression":            ast.KindElementAccess,
	"conditional_expression":               ast.KindConditional,
	"parenthesized_expression":             ast.KindParen,
	"tuple_expression":                     ast.KindParen,
	"cast_expression":                      ast.KindCast,
	"object_creation_expression":           ast.KindObjectCreation,
	"implicit_object_creation_expression":  ast.KindObjectCreation,
	"array_creation_expression":            ast.KindArrayCreation,
	"implicit_array_creation_expression":   ast.KindArrayCreation,
	"anonymous_object_creation_expression": ast.KindAnonymousObject,
	"initializer_expression":               ast.KindInitializer,
	"await_expression":                     ast.KindAwait,
	"typeof_expression":                    ast.KindTypeOf,
	"default_expression":                   ast.KindDefault,
	"sizeof_expression":                    ast.KindSizeOf,
	"is_expression":                        ast.KindIs,
	"is_pattern_expression":                ast.KindIs,
	"as_expression":                        ast.KindAs,
	"throw_expression":                     ast.KindThrowExpr,
	"query_expression":                     ast.KindQuery,
	"select_clause":                        ast.KindSelectClause,
	"where_clause":                         ast.KindWhereClause,
	"join_clause":                          ast.KindJoinClause,
	"group_clause":                         ast.KindGroupClause,
	"ordering":                             ast.KindOrdering,
}

// ignored nodes carry nothing the analyzer compares.
var ignored = map[string]bool{
	"attribute_list":                    true, // собираются заголовком объявления
	"modifier":                          true,
	"parameter_modifier":                true,
	"type_parameter_list":               true,
	"type_parameter_constraints_clause": true,
	"base_list":                         true,
	"explicit_interface_specifier":      true,
	"name_colon":                        true,
	"when_clause":                       true,
	"extern_alias_directive":            true,
	"global_attribute":                  true,
	"comment":                           true,
}
