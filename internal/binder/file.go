package binder

import (
	"github.com/elmlsp/elmlsp/internal/set"
	"github.com/elmlsp/elmlsp/internal/syntax"
)

// ExposingEntry is one entry of an explicit exposing list. AllConstructors
// is true for the "T(..)" form (spec §3: Exposing.Explicit entries may be
// bare names or "T(..)").
type ExposingEntry struct {
	Name            string
	AllConstructors bool
}

// Exposing is a module's or import's declared public surface.
type Exposing struct {
	All     bool
	Entries []ExposingEntry
}

func (e *Exposing) Has(name string) bool {
	if e == nil {
		return false
	}
	if e.All {
		return true
	}
	for _, entry := range e.Entries {
		if entry.Name == name {
			return true
		}
	}
	return false
}

// ExposesConstructorsOf reports whether the exposing list names typeName
// with the "(..)" suffix.
func (e *Exposing) ExposesConstructorsOf(typeName string) bool {
	if e == nil {
		return false
	}
	if e.All {
		return true
	}
	for _, entry := range e.Entries {
		if entry.Name == typeName && entry.AllConstructors {
			return true
		}
	}
	return false
}

// ImportClause is a raw `import` statement as written in a file.
type ImportClause struct {
	ModuleName string
	Alias      string // "" if no `as` clause
	Exposing   *Exposing
	Node       syntax.Node
}

// EffectiveName returns the alias if present, else the module name — the
// name local references of the form "X.y" must start with.
func (ic ImportClause) EffectiveName() string {
	if ic.Alias != "" {
		return ic.Alias
	}
	return ic.ModuleName
}

// DefaultImportNodeID is the sentinel node id the spec's default
// (pseudo) imports are bound to (spec §4.D). Grounded on the teacher's
// use of a reserved sentinel span id (DEFAULT_SPAN.SourceID == -1 in
// internal/checker/error.go).
const DefaultImportNodeID syntax.NodeID = -1

// DefaultImportModules is the fixed list of pseudo-imports inserted into
// every file's root container (spec §4.D).
var DefaultImportModules = []string{
	"Basics", "List", "Maybe", "Result", "String", "Char", "Tuple",
	"Debug", "Platform", "Cmd", "Sub",
}

// File is the result of binding one parsed file: its container stack,
// the non-shadowable top-level name set, the resolved exposing map, and
// the raw imports/module-exposing data workspace.Module reuses rather
// than re-walking the tree.
type File struct {
	URI        string
	ModuleName string

	Root *Container

	Imports []ImportClause

	// ModuleExposing is the module declaration's own exposing clause
	// (spec §4.D: "after binding the whole file, walk the module
	// declaration's exposing list").
	ModuleExposing *Exposing

	// NonShadowable holds every top-level name (spec §3).
	NonShadowable set.Set[string]

	// Exposing is the module's public surface: the subset of top-level
	// BoundSymbols that ModuleExposing selects.
	Exposing map[string]*BoundSymbol

	// ByNodeID indexes every bound symbol by its defining node, for
	// O(1) classifier lookups.
	ByNodeID map[syntax.NodeID]*BoundSymbol

	// ContainerOf maps a defining node id to the container that owns it,
	// so the classifier can recover scope_range for local bindings.
	ContainerOf map[syntax.NodeID]*Container

	// TypeContainers maps a type_declaration/type_alias_declaration node
	// id to the container holding its own type variables and, for a type
	// alias, its field_type bindings — used by the resolver to look up a
	// field definition by name once it has identified the owning alias
	// (spec §4.F).
	TypeContainers map[syntax.NodeID]*Container
}
