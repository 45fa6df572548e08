// Package infer implements the lightweight HM-style type inferencer (spec
// §4.E): annotation parsing, expression-type inference with unification,
// and per-expression type caching for later resolver/classifier use.
// Grounded on the teacher's checker.Checker/Scope (internal/checker), with
// the namespace layering collapsed to a flat binding map since the spec's
// scope structure is already fully resolved by the binder.
package infer

import (
	"github.com/elmlsp/elmlsp/internal/subst"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// Scope is one inference frame: a chain of binding maps plus the shared
// substitution table and expression-type cache threaded through the whole
// inference pass (spec §4.E, grounded on checker.Scope's Parent chain).
type Scope struct {
	Parent   *Scope
	bindings map[string]typesys.Type

	// Subst and ExpressionTypes are shared by reference across every
	// scope in one file's inference pass.
	Subst           *subst.Table
	ExpressionTypes map[syntax.NodeID]typesys.Type
	FieldReferences map[string][]typesys.FieldRef
}

// NewRootScope creates the top-level scope for inferring one file.
func NewRootScope() *Scope {
	return &Scope{
		bindings:        map[string]typesys.Type{},
		Subst:           subst.NewTable(),
		ExpressionTypes: map[syntax.NodeID]typesys.Type{},
		FieldReferences: map[string][]typesys.FieldRef{},
	}
}

// Child returns a new scope nested under s, sharing its substitution
// table and expression-type cache.
func (s *Scope) Child() *Scope {
	return &Scope{
		Parent:          s,
		bindings:        map[string]typesys.Type{},
		Subst:           s.Subst,
		ExpressionTypes: s.ExpressionTypes,
		FieldReferences: s.FieldReferences,
	}
}

// Bind introduces name with type t in this scope only.
func (s *Scope) Bind(name string, t typesys.Type) {
	s.bindings[name] = t
}

// Lookup walks the scope chain for name.
func (s *Scope) Lookup(name string) (typesys.Type, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if t, ok := cur.bindings[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Record caches the inferred type of node as given, without applying the
// substitution; Finalize applies Subst to every cached type once
// inference completes.
func (s *Scope) Record(node syntax.Node, t typesys.Type) {
	s.ExpressionTypes[node.ID()] = t
}

// Finalize re-applies the accumulated substitution to every cached
// expression type, in place.
func (s *Scope) Finalize() {
	for id, t := range s.ExpressionTypes {
		s.ExpressionTypes[id] = s.Subst.Apply(t)
	}
}
