package refactor

import (
	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/classifier"
	"github.com/elmlsp/elmlsp/internal/lspcore"
	"github.com/elmlsp/elmlsp/internal/refs"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/workspace"
)

// Rename computes the edit set for renaming the symbol at (uri, pos) to
// newName (spec §4.J): classify, forbid renaming a protected ecosystem
// type, compute the typed reference set, and emit one edit per reference
// (plus the definition) replacing the name span with newName.
func Rename(idx *workspace.Index, uri string, pos syntax.Point, newName string) (EditSet, error) {
	def, err := classifyAt(idx, uri, pos)
	if err != nil {
		return nil, err
	}

	if (def.Kind == binder.KindType || def.Kind == binder.KindTypeAlias) && IsProtectedType(idx.Manifest(), def.Name) {
		return nil, lspcore.Preconditionf("cannot rename protected type %q", def.Name)
	}

	references := refs.Find(idx, def)

	es := EditSet{}
	for _, ref := range references {
		r := nameRangeOf(idx, ref.URI, ref.NodeID, ref.Range)
		es.Add(ref.URI, Edit{Range: r, NewText: newName})
	}
	es.SortAll()
	return es, nil
}

// PrepareRename returns the range that should be highlighted for renaming
// the symbol at (uri, pos), without computing the full reference set.
func PrepareRename(idx *workspace.Index, uri string, pos syntax.Point) (syntax.Range, error) {
	def, err := classifyAt(idx, uri, pos)
	if err != nil {
		return syntax.Range{}, err
	}
	return nameRangeOf(idx, def.URI, def.NodeID, def.Range), nil
}

// classifyAt resolves (uri, pos) to its DefinitionSymbol, whether pos
// sits on the definition itself or on a use-site reference to it
// (workspace.Index.ClassifyAt handles both), since rename is invoked
// from either in a real editor.
func classifyAt(idx *workspace.Index, uri string, pos syntax.Point) (*classifier.DefinitionSymbol, error) {
	if _, ok := idx.Module(uri); !ok {
		return nil, lspcore.InvalidInputf("unknown document %q", uri)
	}
	_, def, ok := idx.ClassifyAt(uri, pos)
	if !ok {
		return nil, lspcore.Preconditionf("no renameable symbol at %s:%s", uri, pos)
	}
	return def, nil
}

// nameRangeOf narrows a defining node's full span down to just its name
// child, if it has one (function_declaration_left, type_alias_declaration,
// type_declaration, union_variant, port_annotation all carry a "name"
// field). A node without a name child (a lower_pattern leaf, a value_expr
// use-site) yields its own full range, qualifier included; fallback is
// returned only when the node cannot be found in the index.
func nameRangeOf(idx *workspace.Index, uri string, nodeID syntax.NodeID, fallback syntax.Range) syntax.Range {
	node, ok := idx.NodeAt(uri, nodeID)
	if !ok {
		return fallback
	}
	if nameChild := node.ChildByField("name"); nameChild != nil {
		return nameChild.Range()
	}
	return node.Range()
}
