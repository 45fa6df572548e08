// Package binder implements the per-file name-and-scope binder (spec
// §4.D): it walks a parsed file pushing containers for each scoping
// construct, binds every declaration and pattern into those containers,
// and resolves the module's `exposing` surface. Grounded on the
// teacher's checker.Scope (internal/checker/scope.go), generalized from a
// single parent-chain namespace into the spec's richer container stack
// plus per-container bound-symbol kinds.
package binder

import "github.com/elmlsp/elmlsp/internal/syntax"

// SymbolKind classifies how a name was introduced (spec §3 data model).
type SymbolKind int

const (
	KindFunction SymbolKind = iota
	KindFunctionParameter
	KindCasePattern
	KindLambdaParameter
	KindType
	KindTypeAlias
	KindUnionConstructor
	KindTypeVariable
	KindPort
	KindOperator
	KindImport
	KindFieldType
	KindRecordPatternField
)

func (k SymbolKind) String() string {
	switch k {
	case KindFunction:
		return "Function"
	case KindFunctionParameter:
		return "FunctionParameter"
	case KindCasePattern:
		return "CasePattern"
	case KindLambdaParameter:
		return "LambdaParameter"
	case KindType:
		return "Type"
	case KindTypeAlias:
		return "TypeAlias"
	case KindUnionConstructor:
		return "UnionConstructor"
	case KindTypeVariable:
		return "TypeVariable"
	case KindPort:
		return "Port"
	case KindOperator:
		return "Operator"
	case KindImport:
		return "Import"
	case KindFieldType:
		return "FieldType"
	case KindRecordPatternField:
		return "RecordPatternField"
	default:
		return "Unknown"
	}
}

// IsLowercase reports whether this kind's names are conventionally
// lower-case identifiers (used by the reference finder's "unknown kind"
// fallback dispatch, spec §4.I).
func (k SymbolKind) IsLowercase() bool {
	switch k {
	case KindFunction, KindFunctionParameter, KindCasePattern, KindLambdaParameter,
		KindPort, KindTypeVariable, KindRecordPatternField:
		return true
	default:
		return false
	}
}

// BoundSymbol is a name introduced by some syntactic form within a
// container (spec §3).
type BoundSymbol struct {
	Name           string
	DefiningNodeID syntax.NodeID
	Kind           SymbolKind
	// Constructors lists the union-variant names for a Type symbol, or is
	// nil for every other kind.
	Constructors []string
}
