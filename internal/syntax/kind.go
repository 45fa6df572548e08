package syntax

// Kind names a syntax-tree node the way the underlying grammar names it.
// These strings are taken verbatim from the grammar node kinds named in
// the original implementation's parser (module_declaration,
// value_declaration, function_declaration_left, union_variant, ...) so a
// reader can match them 1:1 against the grammar.
type Kind string

const (
	KindFile Kind = "file"

	// Module-level structure.
	KindModuleDeclaration Kind = "module_declaration"
	KindExposingList      Kind = "exposing_list"
	KindExposedValue      Kind = "exposed_value"
	KindExposedType       Kind = "exposed_type"
	KindDoubleDot         Kind = "double_dot"
	KindImportClause      Kind = "import_clause"
	KindAsClause          Kind = "as_clause"

	// Top-level declarations.
	KindValueDeclaration         Kind = "value_declaration"
	KindFunctionDeclarationLeft  Kind = "function_declaration_left"
	KindTypeAliasDeclaration     Kind = "type_alias_declaration"
	KindTypeDeclaration          Kind = "type_declaration"
	KindUnionVariant             Kind = "union_variant"
	KindPortAnnotation           Kind = "port_annotation"
	KindInfixDeclaration         Kind = "infix_declaration"
	KindTypeAnnotation           Kind = "type_annotation"

	// Types.
	KindTypeRef      Kind = "type_ref"
	KindTypeVariable Kind = "type_variable"
	KindRecordType   Kind = "record_type"
	KindFieldType    Kind = "field_type"
	KindTupleType    Kind = "tuple_type"
	KindFunctionType Kind = "function_type_expr"
	KindUnitExprType Kind = "unit_expr"

	// Patterns.
	KindLowerPattern        Kind = "lower_pattern"
	KindTuplePattern        Kind = "tuple_pattern"
	KindRecordPattern       Kind = "record_pattern"
	KindRecordPatternField  Kind = "lower_pattern" // field bindings reuse lower_pattern, tagged by parent
	KindUnionPattern        Kind = "union_pattern"
	KindListPattern         Kind = "list_pattern"
	KindWildcardPattern     Kind = "anything_pattern"

	// Expressions.
	KindValueExpr                 Kind = "value_expr"
	KindFunctionCallExpr          Kind = "function_call_expr"
	KindFieldAccessExpr           Kind = "field_access_expr"
	KindFieldAccessorFunctionExpr Kind = "field_accessor_function_expr"
	KindRecordExpr                Kind = "record_expr"
	KindRecordBaseIdentifier      Kind = "record_base_identifier"
	KindFieldExpr                 Kind = "field"
	KindIfElseExpr                Kind = "if_else_expr"
	KindCaseOfExpr                Kind = "case_of_expr"
	KindCaseOfBranch              Kind = "case_of_branch"
	KindLetInExpr                 Kind = "let_in_expr"
	KindAnonymousFunctionExpr     Kind = "anonymous_function_expr"
	KindListExpr                  Kind = "list_expr"
	KindTupleExpr                 Kind = "tuple_expr"
	KindBinOpExpr                 Kind = "bin_op_expr"
	KindNegateExpr                Kind = "negate_expr"
	KindUnitExpr                  Kind = "unit_expr"
	KindOperatorIdentifier        Kind = "operator_identifier"

	// Literals and identifiers.
	KindNumberLiteral Kind = "number_literal_expr"
	KindStringLiteral Kind = "string_literal_expr"
	KindCharLiteral   Kind = "char_literal_expr"
	KindLowerCaseIdentifier Kind = "lower_case_identifier"
	KindUpperCaseIdentifier Kind = "upper_case_identifier"
	KindComment             Kind = "line_comment"
)
