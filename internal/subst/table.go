// Package subst implements the substitution table (spec §3/§4.C): a
// disjoint-set mapping from type-variable id to type, with cycle-safe
// resolution and alias-preserving structural application. Grounded on
// original_source/src/disjoint_set.rs (DisjointSet::set/get/apply).
package subst

import "github.com/elmlsp/elmlsp/internal/typesys"

// Table maps type-variable ids to the type they were unified with. No
// occurs-check is performed when setting a substitution (spec §4.C:
// "caller ensures occurs-safety is fine for this language"); cycles are
// tolerated and resolved as "stops here".
type Table struct {
	m map[int]typesys.Type
}

func NewTable() *Table {
	return &Table{m: map[int]typesys.Type{}}
}

// Set records var_id -> t unconditionally.
func (t *Table) Set(varID int, ty typesys.Type) {
	t.m[varID] = ty
}

// Contains reports whether varID has a recorded substitution.
func (t *Table) Contains(varID int) bool {
	_, ok := t.m[varID]
	return ok
}

// Resolve follows the substitution chain starting from ty, stopping at
// the first concrete type or at the point a cycle is detected (in which
// case the original ty is returned unchanged, per spec §9's design
// note). Non-variable types are returned as-is.
func (t *Table) Resolve(ty typesys.Type) typesys.Type {
	v, ok := ty.(*typesys.VarType)
	if !ok {
		return ty
	}

	currentID := v.ID
	visited := map[int]bool{currentID: true}

	for {
		next, ok := t.m[currentID]
		if !ok {
			break
		}
		nv, isVar := next.(*typesys.VarType)
		if !isVar {
			return next
		}
		if visited[nv.ID] {
			// Cycle detected: stop here, per spec §9.
			return ty
		}
		visited[nv.ID] = true
		currentID = nv.ID
	}

	if final, ok := t.m[currentID]; ok {
		return final
	}
	if currentID == v.ID {
		return ty
	}
	return typesys.NewVarType(currentID)
}

// Apply recursively substitutes every type variable within ty, preserving
// Alias metadata on every variant it rewrites (spec §4.C).
func (t *Table) Apply(ty typesys.Type) typesys.Type {
	return ty.Accept(&applyVisitor{table: t})
}

type applyVisitor struct {
	table *Table
}

func (a *applyVisitor) EnterType(ty typesys.Type) typesys.Type {
	v, ok := ty.(*typesys.VarType)
	if !ok {
		return nil
	}
	resolved := a.table.Resolve(v)
	if rv, ok := resolved.(*typesys.VarType); ok && rv.ID == v.ID {
		// Not substituted.
		return nil
	}
	// Recursively apply: the substitution itself may reference further
	// variables.
	return a.table.Apply(resolved)
}

func (a *applyVisitor) ExitType(ty typesys.Type) typesys.Type { return nil }

// Len reports the number of recorded substitutions (diagnostic use only).
func (t *Table) Len() int { return len(t.m) }
