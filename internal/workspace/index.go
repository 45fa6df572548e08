package workspace

import (
	"sync"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/infer"
	"github.com/elmlsp/elmlsp/internal/manifest"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// Index is the whole-workspace analysis state: every indexed file's
// Module, a global symbol table, a reference table, and the external
// (dependency) package symbol table. A single sync.RWMutex guards all of
// it, matching the teacher's preference for one coarse lock over a
// package-level cache (internal/checker's single-threaded Checker,
// generalized here to support the LSP server's concurrent request
// handlers).
type Index struct {
	mu sync.RWMutex

	manifest *manifest.Manifest

	modules map[string]*Module // keyed by URI

	// symbols indexes every exposed top-level BoundSymbol twice: once
	// under its bare name (last writer wins — used only as a same-module
	// shorthand) and once under "Module.Name" (always unambiguous).
	symbols map[string]*SymbolEntry

	// references maps a defining (URI, NodeID) key to every use-site that
	// resolved to it, populated by rebuildReferences (references.go)
	// during indexing.
	references map[defKey][]Reference

	// externalSymbols indexes symbols belonging to packages outside this
	// workspace's own source directories (resolved via internal/manifest),
	// read-only once loaded.
	externalSymbols map[string]*SymbolEntry

	// externalFiles holds the bound (but uninferred) File for each
	// dependency module, keyed by module name, so a qualified reference
	// into a dependency (e.g. "D.string" after "import Json.Decode as D")
	// resolves through the same FileByModule path local modules use.
	externalFiles map[string]*binder.File
}

type defKey struct {
	URI    string
	NodeID syntax.NodeID
}

// Reference is one use-site of a defined symbol.
type Reference struct {
	URI    string
	Kind   binder.SymbolKind
	Range  syntax.Range
	NodeID syntax.NodeID
}

func NewIndex() *Index {
	return &Index{
		modules:         map[string]*Module{},
		symbols:         map[string]*SymbolEntry{},
		references:      map[defKey][]Reference{},
		externalSymbols: map[string]*SymbolEntry{},
		externalFiles:   map[string]*binder.File{},
	}
}

// Initialize loads the workspace manifest rooted at dir. Source-directory
// discovery and dependency resolution happen lazily as files are indexed,
// matching the spec's incremental-indexing model (spec §4.G).
func (idx *Index) Initialize(dir string) error {
	m, err := manifest.Load(dir)
	if err != nil {
		return err
	}
	idx.mu.Lock()
	idx.manifest = m
	idx.mu.Unlock()
	return nil
}

// Manifest returns the loaded project manifest, or nil if Initialize has
// not run or found none.
func (idx *Index) Manifest() *manifest.Manifest {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.manifest
}

// IndexFile binds and infers tree, replacing any prior state for the same
// URI, and repopulates the global symbol table for that file.
func (idx *Index) IndexFile(tree syntax.Tree) *Module {
	file := binder.Bind(tree)

	annotationsByName := collectAnnotations(tree.Root)
	scope, decls := infer.InferFile(tree.Root, file.ModuleName, idx, annotationsByName)

	declTypes := map[string]typesys.Type{}
	var errs []error
	for _, d := range decls {
		declTypes[d.Name] = d.Type
		errs = append(errs, d.Errors...)
	}

	mod := &Module{
		URI:             tree.Source.Path,
		Tree:            tree,
		File:            file,
		ExpressionTypes: scope.ExpressionTypes,
		FieldReferences: scope.FieldReferences,
		NodeIndex:       indexNodes(tree.Root),
		Declarations:    declTypes,
		InferenceErrors: errs,
	}

	idx.mu.Lock()
	idx.invalidateLocked(tree.Source.Path)
	idx.modules[tree.Source.Path] = mod
	idx.repopulateSymbolsLocked(mod)
	idx.mu.Unlock()

	// Cross-file references can only resolve once every module they point
	// at is indexed, so the reference walk runs as its own pass over
	// every currently-indexed module rather than only the one just
	// (re)indexed (spec §4.G step 8 generalized to incremental indexing:
	// re-running it for all modules is cheap relative to re-parsing, and
	// keeps `references` correct when module B is indexed before the A
	// that imports it).
	idx.rebuildReferences()

	return mod
}

// indexNodes walks n's whole subtree building a NodeID -> Node map.
func indexNodes(root syntax.Node) map[syntax.NodeID]syntax.Node {
	out := map[syntax.NodeID]syntax.Node{}
	syntax.Walk(root, func(n syntax.Node) bool {
		out[n.ID()] = n
		return true
	})
	return out
}

// UpdateFile re-indexes a file already in the workspace, atomically
// replacing its old symbol/reference contributions (spec §5: "invalidate
// then repopulate, never a partial state visible to readers").
func (idx *Index) UpdateFile(tree syntax.Tree) *Module {
	return idx.IndexFile(tree)
}

// RemoveFile drops uri's module and every symbol/reference it contributed.
func (idx *Index) RemoveFile(uri string) {
	idx.mu.Lock()
	idx.invalidateLocked(uri)
	delete(idx.modules, uri)
	idx.mu.Unlock()
	idx.rebuildReferences()
}

// NotifyFileRenamed moves a module's entry from oldURI to newURI without
// re-running the binder/inferencer, since the parsed tree and all symbol
// identities are unaffected by a rename (spec §4.G).
func (idx *Index) NotifyFileRenamed(oldURI, newURI string) {
	idx.mu.Lock()
	mod, ok := idx.modules[oldURI]
	if !ok {
		idx.mu.Unlock()
		return
	}
	idx.invalidateLocked(oldURI)
	mod.URI = newURI
	mod.Tree.Source.Path = newURI
	idx.modules[newURI] = mod
	idx.repopulateSymbolsLocked(mod)
	idx.mu.Unlock()
	idx.rebuildReferences()
}

// invalidateLocked removes every symbol/reference entry contributed by
// uri's previously-indexed module, if any. Caller must hold mu.
func (idx *Index) invalidateLocked(uri string) {
	existing, ok := idx.modules[uri]
	if !ok {
		return
	}
	moduleName := existing.File.ModuleName
	for key, sym := range idx.symbols {
		if sym.Module == moduleName {
			delete(idx.symbols, key)
		}
	}
	for key := range idx.references {
		if key.URI == uri {
			delete(idx.references, key)
		}
	}
}

func (idx *Index) repopulateSymbolsLocked(mod *Module) {
	for name, sym := range mod.File.Exposing {
		entry := &SymbolEntry{
			Module:    mod.File.ModuleName,
			Name:      name,
			Qualified: mod.File.ModuleName + "." + name,
			NodeID:    sym.DefiningNodeID,
			Symbol:    sym,
		}
		idx.symbols[entry.Qualified] = entry
		idx.symbols[name] = entry
	}
}

// Module returns the indexed module for uri.
func (idx *Index) Module(uri string) (*Module, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	m, ok := idx.modules[uri]
	return m, ok
}

// FileByModule returns the binder.File for the module named name,
// satisfying resolver.FileProvider. Workspace modules take precedence;
// a dependency module indexed via IndexExternalFile is consulted only
// when no workspace module owns that name.
func (idx *Index) FileByModule(name string) (*binder.File, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, m := range idx.modules {
		if m.File.ModuleName == name {
			return m.File, true
		}
	}
	if f, ok := idx.externalFiles[name]; ok {
		return f, true
	}
	return nil, false
}

// ModuleByName returns the indexed Module whose binder.File.ModuleName
// matches name, used by the refactor engine to go from a module name in
// an import graph back to its URI, Tree and File.
func (idx *Index) ModuleByName(name string) (*Module, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, m := range idx.modules {
		if m.File.ModuleName == name {
			return m, true
		}
	}
	return nil, false
}

// ResolveTypeRef satisfies infer.AnnotationContext: it looks up a bare
// type name's owning module by consulting the referencing file's imports.
func (idx *Index) ResolveTypeRef(referencingModule, name string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, m := range idx.modules {
		if m.File.ModuleName != referencingModule {
			continue
		}
		for _, imp := range m.File.Imports {
			if imp.Exposing.Has(name) || (imp.Exposing != nil && imp.Exposing.All) {
				return imp.ModuleName, true
			}
		}
		return referencingModule, false
	}
	return referencingModule, false
}

// ReferencesTo returns every recorded use-site of (defURI, defNodeID).
func (idx *Index) ReferencesTo(defURI string, defNodeID syntax.NodeID) []Reference {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]Reference(nil), idx.references[defKey{URI: defURI, NodeID: defNodeID}]...)
}

// AllModules returns a snapshot slice of every indexed module.
func (idx *Index) AllModules() []*Module {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]*Module, 0, len(idx.modules))
	for _, m := range idx.modules {
		out = append(out, m)
	}
	return out
}

// NodeAt recovers the syntax.Node for a stored (URI, NodeID) reference.
func (idx *Index) NodeAt(uri string, id syntax.NodeID) (syntax.Node, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	mod, ok := idx.modules[uri]
	if !ok {
		return nil, false
	}
	n, ok := mod.NodeIndex[id]
	return n, ok
}

// IndexExternalFile binds tree and records its exposed top-level symbols
// into the external-package table only (spec §4.G step 10: "adds symbols
// only" — no inference is run and no references are collected, since a
// dependency's own use-sites are never reported to this workspace's
// callers). Re-running it for the same URI replaces that file's prior
// contribution.
func (idx *Index) IndexExternalFile(tree syntax.Tree) {
	file := binder.Bind(tree)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for key, sym := range idx.externalSymbols {
		if sym.Module == file.ModuleName {
			delete(idx.externalSymbols, key)
		}
	}
	idx.externalFiles[file.ModuleName] = file
	for name, sym := range file.Exposing {
		entry := &SymbolEntry{
			Module:    file.ModuleName,
			Name:      name,
			Qualified: file.ModuleName + "." + name,
			NodeID:    sym.DefiningNodeID,
			Symbol:    sym,
		}
		idx.externalSymbols[entry.Qualified] = entry
		idx.externalSymbols[name] = entry
	}
}

// ExternalSymbol looks up a dependency-provided symbol by bare or
// qualified name in the external-package table only; the workspace's
// own symbol table is not consulted.
func (idx *Index) ExternalSymbol(name string) (*SymbolEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	s, ok := idx.externalSymbols[name]
	return s, ok
}

// collectAnnotations pairs each top-level value_declaration with its
// preceding type_annotation sibling by name (spec §4.E), the same
// name-matching approach the original grammar's own type-checker uses
// rather than relying on a fixed annotation/declaration adjacency since
// Elm tolerates blank lines and comments between the two.
func collectAnnotations(root syntax.Node) map[string]syntax.Node {
	out := map[string]syntax.Node{}
	for _, c := range root.Children() {
		if c.Kind() != syntax.KindTypeAnnotation {
			continue
		}
		nameNode := c.ChildByField("name")
		typeNode := c.ChildByField("typeExpr")
		if nameNode == nil || typeNode == nil {
			continue
		}
		out[nameNode.Text("")] = typeNode
	}
	return out
}
