package workspace

import (
	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/resolver"
	"github.com/elmlsp/elmlsp/internal/syntax"
)

// rebuildReferences re-walks every currently-indexed module and
// repopulates idx.references from scratch (spec §4.G step 8: "walk the
// whole tree classifying every reference... keyed by resolved name").
// Caller must NOT hold idx.mu; this takes its own write lock, matching
// the "no partial-reindex state observable to readers" requirement of
// spec §5 since the whole table is replaced atomically.
func (idx *Index) rebuildReferences() {
	idx.mu.RLock()
	snapshot := make(map[string]*Module, len(idx.modules))
	for k, v := range idx.modules {
		snapshot[k] = v
	}
	idx.mu.RUnlock()

	fp := snapshotProvider{modules: snapshot}
	fresh := map[defKey][]Reference{}
	for _, mod := range snapshot {
		collectModuleReferences(mod, fp, fresh)
	}

	idx.mu.Lock()
	idx.references = fresh
	idx.mu.Unlock()
}

// snapshotProvider answers FileByModule from a fixed snapshot of modules
// taken before the lock was released, so the reference walk never calls
// back into idx's own (non-reentrant) RWMutex.
type snapshotProvider struct {
	modules map[string]*Module
}

func (s snapshotProvider) FileByModule(name string) (*binder.File, bool) {
	for _, m := range s.modules {
		if m.File.ModuleName == name {
			return m.File, true
		}
	}
	return nil, false
}

// collectModuleReferences walks mod's tree for every use-site kind the
// spec's reference finder cares about and resolves each one, appending a
// Reference keyed by the resolved definition's (URI, NodeID).
func collectModuleReferences(mod *Module, fp resolver.FileProvider, out map[defKey][]Reference) {
	syntax.Walk(mod.Tree.Root, func(n syntax.Node) bool {
		switch n.Kind() {
		case syntax.KindValueExpr, syntax.KindTypeRef:
			resolveIdentUse(mod, fp, n, out)
		case syntax.KindUnionPattern:
			if nameNode := n.ChildByField("name"); nameNode != nil {
				resolveIdentUse(mod, fp, nameNode, out)
			}
		case syntax.KindFieldAccessExpr:
			resolveFieldAccessUse(mod, fp, n, out)
		case syntax.KindFieldExpr:
			resolveRecordLiteralFieldUse(mod, fp, n, out)
		case syntax.KindRecordPattern:
			resolveRecordPatternFieldUse(mod, fp, n, out)
		}
		return true
	})
}

func resolveIdentUse(mod *Module, fp resolver.FileProvider, nameNode syntax.Node, out map[defKey][]Reference) {
	name := nameNode.Text("")
	if name == "" {
		return
	}
	def, ok := resolver.ResolveName(mod.File, fp, nameNode, name)
	if !ok {
		return
	}
	kind := binder.SymbolKind(-1)
	hasKind := false
	if def.Symbol != nil {
		kind = def.Symbol.Kind
		hasKind = true
	}
	ref := Reference{URI: mod.URI, Range: nameNode.Range(), NodeID: nameNode.ID()}
	if hasKind {
		ref.Kind = kind
	}
	key := defKey{URI: def.URI, NodeID: def.NodeID}
	out[key] = append(out[key], ref)
}

func resolveFieldAccessUse(mod *Module, fp resolver.FileProvider, accessNode syntax.Node, out map[defKey][]Reference) {
	target := accessNode.ChildByField("target")
	fieldNode := accessNode.ChildByField("field")
	if target == nil || fieldNode == nil {
		return
	}
	targetType, ok := mod.ExpressionTypes[target.ID()]
	if !ok {
		return
	}
	def, ok := resolver.ResolveFieldByType(mod.File, fp, targetType, fieldNode.Text(""))
	if !ok {
		return
	}
	key := defKey{URI: def.URI, NodeID: def.NodeID}
	out[key] = append(out[key], Reference{URI: mod.URI, Kind: binder.KindFieldType, Range: fieldNode.Range(), NodeID: fieldNode.ID()})
}

func resolveRecordLiteralFieldUse(mod *Module, fp resolver.FileProvider, fieldNode syntax.Node, out map[defKey][]Reference) {
	nameNode := fieldNode.ChildByField("name")
	if nameNode == nil {
		return
	}
	recordExpr := fieldNode.Parent()
	if recordExpr == nil {
		return
	}
	recordType, ok := mod.ExpressionTypes[recordExpr.ID()]
	if !ok {
		return
	}
	def, ok := resolver.ResolveFieldByType(mod.File, fp, recordType, nameNode.Text(""))
	if !ok {
		return
	}
	key := defKey{URI: def.URI, NodeID: def.NodeID}
	out[key] = append(out[key], Reference{URI: mod.URI, Kind: binder.KindFieldType, Range: nameNode.Range(), NodeID: nameNode.ID()})
}

// resolveRecordPatternFieldUse resolves each { name } field bound by a
// destructuring record_pattern against the pattern's own cached type
// (recorded by infer.bindPatternTypes), the same way resolveFieldAccessUse
// resolves a field_access_expr's field against its target's type.
func resolveRecordPatternFieldUse(mod *Module, fp resolver.FileProvider, patternNode syntax.Node, out map[defKey][]Reference) {
	patternType, ok := mod.ExpressionTypes[patternNode.ID()]
	if !ok {
		return
	}
	for _, nameNode := range patternNode.Children() {
		if nameNode.Kind() != syntax.KindLowerPattern {
			continue
		}
		def, ok := resolver.ResolveFieldByType(mod.File, fp, patternType, nameNode.Text(""))
		if !ok {
			continue
		}
		key := defKey{URI: def.URI, NodeID: def.NodeID}
		out[key] = append(out[key], Reference{URI: mod.URI, Kind: binder.KindFieldType, Range: nameNode.Range(), NodeID: nameNode.ID()})
	}
}
