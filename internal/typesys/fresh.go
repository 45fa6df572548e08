package typesys

import "sync/atomic"

// varCounter is the monotonic, process-wide type-variable id source
// required by spec §3 ("every Var.id is unique across a process").
var varCounter int64

// FreshVarGen allocates unbound type variables. One generator is created
// per Checker/inference run in the teacher's style, but the counter
// itself is process-global so ids never collide across concurrent
// inference runs (e.g. one per file during a parallel-free but
// interleaved incremental reindex).
type FreshVarGen struct{}

func NewFreshVarGen() *FreshVarGen { return &FreshVarGen{} }

// Fresh allocates a new unbound type variable.
func (g *FreshVarGen) Fresh() *VarType {
	id := atomic.AddInt64(&varCounter, 1)
	return NewVarType(int(id))
}

// Rigid allocates a rigid type variable for the given annotation name
// (spec §4.B: rigid_var). Rigid variables never receive a substitution.
func (g *FreshVarGen) Rigid(name string) *VarType {
	id := atomic.AddInt64(&varCounter, 1)
	return NewRigidVarType(int(id), name)
}

// ResetForTests rewinds the counter. Exists solely so table-driven tests
// that assert on concrete var ids (t1, t2, ...) are deterministic; never
// called from production code paths.
func ResetForTests() {
	atomic.StoreInt64(&varCounter, 0)
}
