package workspace

import (
	"github.com/elmlsp/elmlsp/internal/classifier"
	"github.com/elmlsp/elmlsp/internal/resolver"
	"github.com/elmlsp/elmlsp/internal/syntax"
)

// ClassifyAt resolves (uri, pos) to the DefinitionSymbol it names (spec
// §4.H), covering both halves of the real editor use case: a position
// over a definition's own node classifies directly, and a position over
// a use-site reference (a bare/qualified identifier, a union-constructor
// pattern name, a `.field` access, or a record-literal field name) is
// first resolved to its definition via internal/resolver and then
// classified there, so hover, go-to-definition, find-references and
// rename all work the way an editor actually invokes them: from wherever
// the cursor happens to be, not only from the declaration site.
func (idx *Index) ClassifyAt(uri string, pos syntax.Point) (*Module, *classifier.DefinitionSymbol, bool) {
	mod, ok := idx.Module(uri)
	if !ok {
		return nil, nil, false
	}
	if def, ok := classifier.Classify(mod.Tree, mod.File, pos); ok {
		return mod, def, true
	}
	return idx.classifyUseSiteAt(mod, pos)
}

func (idx *Index) classifyUseSiteAt(mod *Module, pos syntax.Point) (*Module, *classifier.DefinitionSymbol, bool) {
	node := syntax.FindSmallest(mod.Tree.Root, pos)
	if node == nil {
		return nil, nil, false
	}

	var resolved *resolver.Definition
	parent := node.Parent()
	switch {
	case node.Kind() == syntax.KindValueExpr || node.Kind() == syntax.KindTypeRef:
		if name := node.Text(""); name != "" {
			resolved, _ = resolver.ResolveName(mod.File, idx, node, name)
		}
	case parent != nil && parent.Kind() == syntax.KindUnionPattern && sameNode(parent.ChildByField("name"), node):
		if name := node.Text(""); name != "" {
			resolved, _ = resolver.ResolveName(mod.File, idx, node, name)
		}
	case parent != nil && parent.Kind() == syntax.KindFieldAccessExpr && sameNode(parent.ChildByField("field"), node):
		if target := parent.ChildByField("target"); target != nil {
			if t, ok := mod.ExpressionTypes[target.ID()]; ok {
				resolved, _ = resolver.ResolveFieldByType(mod.File, idx, t, node.Text(""))
			}
		}
	case parent != nil && parent.Kind() == syntax.KindFieldExpr && sameNode(parent.ChildByField("name"), node):
		if recordExpr := parent.Parent(); recordExpr != nil {
			if t, ok := mod.ExpressionTypes[recordExpr.ID()]; ok {
				resolved, _ = resolver.ResolveFieldByType(mod.File, idx, t, node.Text(""))
			}
		}
	case parent != nil && parent.Kind() == syntax.KindRecordPattern && node.Kind() == syntax.KindLowerPattern:
		if t, ok := mod.ExpressionTypes[parent.ID()]; ok {
			resolved, _ = resolver.ResolveFieldByType(mod.File, idx, t, node.Text(""))
		}
	}
	if resolved == nil {
		return nil, nil, false
	}

	ownerMod, ok := idx.Module(resolved.URI)
	if !ok {
		return nil, nil, false
	}
	defNode, ok := idx.NodeAt(resolved.URI, resolved.NodeID)
	if !ok {
		return nil, nil, false
	}
	def, ok := classifier.Classify(ownerMod.Tree, ownerMod.File, defNode.Range().Start)
	if !ok {
		return nil, nil, false
	}
	return ownerMod, def, true
}

func sameNode(a, b syntax.Node) bool {
	return a != nil && b != nil && a.ID() == b.ID()
}
