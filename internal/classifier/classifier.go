// Package classifier implements the (uri, position) -> DefinitionSymbol
// query (spec §4.H): given a cursor position, find the smallest
// containing node and walk outward until an ancestor is itself a bound
// symbol's defining node. Grounded on the teacher's FindEnclosingNode
// walk (cmd/lsp-server/find_node.go), generalized from "innermost AST
// node" to "innermost *bound* node" by consulting the binder's
// ByNodeID/ContainerOf maps instead of re-deriving scope from the tree.
package classifier

import (
	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/syntax"
)

// Kind reuses the binder's symbol-kind vocabulary: the classifier's
// table (spec §4.H) names exactly the kinds the binder already tags each
// BoundSymbol with.
type Kind = binder.SymbolKind

// DefinitionSymbol is what a classify query returns (spec §3).
type DefinitionSymbol struct {
	Name string
	Kind Kind
	URI  string
	// NodeID is the defining node's id, the key idx.ReferencesTo and
	// idx.NodeAt expect.
	NodeID syntax.NodeID
	// Range is the defining node's full span.
	Range syntax.Range
	// TypeContext is the enclosing type/alias name, set only for
	// UnionConstructor and FieldType kinds.
	TypeContext string
	ModuleName  string
	// ScopeRange bounds where references to this symbol may live; non-nil
	// only for local bindings (spec §3: "scope_range is Some only for
	// local bindings").
	ScopeRange *syntax.Range
}

// Classify resolves (file, pos) to the DefinitionSymbol at that position,
// per the ancestor-walk table in spec §4.H. Returns false if pos lies
// outside the tree or matches no bindable form at all (e.g. hovering over
// a comment or punctuation).
func Classify(tree syntax.Tree, file *binder.File, pos syntax.Point) (*DefinitionSymbol, bool) {
	smallest := syntax.FindSmallest(tree.Root, pos)
	if smallest == nil {
		return nil, false
	}
	for _, anc := range syntax.Ancestors(smallest) {
		sym, ok := file.ByNodeID[anc.ID()]
		if !ok {
			continue
		}
		ds := &DefinitionSymbol{
			Name:       sym.Name,
			Kind:       sym.Kind,
			URI:        file.URI,
			NodeID:     anc.ID(),
			Range:      anc.Range(),
			ModuleName: file.ModuleName,
		}
		if isLocalKind(sym.Kind) {
			if container, ok := file.ContainerOf[anc.ID()]; ok && container.ScopeNode != nil {
				r := container.ScopeNode.Range()
				ds.ScopeRange = &r
			}
		}
		switch sym.Kind {
		case binder.KindUnionConstructor:
			ds.TypeContext = enclosingTypeName(file, anc)
		case binder.KindFieldType:
			ds.TypeContext = enclosingAliasName(file, anc)
		}
		return ds, true
	}
	return nil, false
}

// isLocalKind reports whether a kind carries a scope_range (spec §4.H's
// last four table rows, plus RecordPatternField which the binder
// classifies identically regardless of which container holds it).
func isLocalKind(k Kind) bool {
	switch k {
	case binder.KindFunctionParameter, binder.KindCasePattern,
		binder.KindLambdaParameter, binder.KindRecordPatternField:
		return true
	default:
		return false
	}
}

// enclosingTypeName finds the name of the type_declaration that owns a
// union_variant node (the variant's defining node).
func enclosingTypeName(file *binder.File, variantNode syntax.Node) string {
	decl := syntax.FindAncestor(variantNode, func(n syntax.Node) bool {
		return n.Kind() == syntax.KindTypeDeclaration
	})
	if decl == nil {
		return ""
	}
	if sym, ok := file.ByNodeID[decl.ID()]; ok {
		return sym.Name
	}
	return ""
}

// enclosingAliasName finds the name of the type_alias_declaration (or
// type_declaration, for a union's own field-type-shaped variants, which
// this grammar does not have, but kept symmetric) that owns a field_type
// node.
func enclosingAliasName(file *binder.File, fieldNode syntax.Node) string {
	decl := syntax.FindAncestor(fieldNode, func(n syntax.Node) bool {
		return n.Kind() == syntax.KindTypeAliasDeclaration || n.Kind() == syntax.KindTypeDeclaration
	})
	if decl == nil {
		return ""
	}
	if sym, ok := file.ByNodeID[decl.ID()]; ok {
		return sym.Name
	}
	return ""
}
