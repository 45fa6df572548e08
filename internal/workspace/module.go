// Package workspace implements the incremental, concurrency-safe
// workspace index (spec §4.G/§5): per-file binding + inference results,
// a global symbol table keyed by bare and qualified name, a reference
// index, and an external-package symbol table for dependencies outside
// the workspace's own source directories. Grounded on the teacher's
// top-level Checker orchestration (internal/checker/checker.go) for the
// per-file pipeline shape, generalized from a single-pass compile to an
// incrementally-updatable index guarded by one RWMutex.
package workspace

import (
	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// Module is one indexed file's full analysis result.
type Module struct {
	URI  string
	Tree syntax.Tree
	File *binder.File

	// ExpressionTypes is the fully-substituted per-expression inferred
	// type cache produced by internal/infer for this file.
	ExpressionTypes map[syntax.NodeID]typesys.Type

	// FieldReferences is the per-file field_name -> use-sites table (spec
	// §4.E's InferenceResult.field_references), covering record-literal
	// field names, `.field` accesses and `.field` accessor functions —
	// the data the field reference finder (§4.I) and remove-field (§4.K)
	// both walk.
	FieldReferences map[string][]typesys.FieldRef

	// NodeIndex maps every node id in this file's tree back to the node
	// itself, so a stored (URI, NodeID) reference can recover its syntax
	// position (e.g. a field name's parent field_access_expr) without
	// re-walking the whole tree.
	NodeIndex map[syntax.NodeID]syntax.Node

	// Declarations maps each top-level value declaration's name to its
	// inferred or annotated type.
	Declarations map[string]typesys.Type

	// InferenceErrors accumulates every diagnostic produced while
	// inferring this file, independent of parse errors (out of scope,
	// spec §1: the tree is assumed already parsed).
	InferenceErrors []error
}

// SymbolEntry is one row of the global symbol table: a definition plus
// the module and qualified key it is reachable under.
type SymbolEntry struct {
	Module string
	Name   string
	// Qualified is "Module.Name", the fully-qualified lookup key.
	Qualified string
	NodeID    syntax.NodeID
	Symbol    *binder.BoundSymbol
}
