package subst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmlsp/elmlsp/internal/subst"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

func TestResolveFollowsChainToConcreteType(t *testing.T) {
	tbl := subst.NewTable()
	tbl.Set(1, typesys.NewVarType(2))
	tbl.Set(2, typesys.IntType())

	resolved := tbl.Resolve(typesys.NewVarType(1))
	assert.Equal(t, "Int", resolved.String())
}

func TestResolveLeavesUnboundVarUnchanged(t *testing.T) {
	tbl := subst.NewTable()
	v := typesys.NewVarType(7)

	resolved := tbl.Resolve(v)
	vr, ok := resolved.(*typesys.VarType)
	require.True(t, ok)
	assert.Equal(t, 7, vr.ID)
}

func TestResolveNonVariableIsReturnedAsIs(t *testing.T) {
	tbl := subst.NewTable()
	assert.Equal(t, typesys.BoolType(), tbl.Resolve(typesys.BoolType()))
}

func TestResolveCycleStopsAndReturnsStartingType(t *testing.T) {
	tbl := subst.NewTable()
	// 1 -> 2 -> 1: a cycle. Resolve must not infinite-loop.
	tbl.Set(1, typesys.NewVarType(2))
	tbl.Set(2, typesys.NewVarType(1))

	start := typesys.NewVarType(1)
	resolved := tbl.Resolve(start)
	assert.Equal(t, start, resolved)
}

func TestApplyRecursesThroughFunctionAndPreservesAlias(t *testing.T) {
	tbl := subst.NewTable()
	tbl.Set(1, typesys.IntType())

	alias := &typesys.TypeAlias{Module: "M", Name: "Fn"}
	fn := &typesys.FuncType{Params: []typesys.Type{typesys.NewVarType(1)}, Ret: typesys.BoolType(), Alias: alias}

	applied := tbl.Apply(fn).(*typesys.FuncType)
	assert.Equal(t, "Int", applied.Params[0].String())
	assert.Same(t, alias, applied.Alias)
}

func TestApplyOverUnsubstitutedVarIsNoop(t *testing.T) {
	tbl := subst.NewTable()
	v := typesys.NewVarType(3)
	applied := tbl.Apply(v)
	assert.Equal(t, v, applied)
}

func TestContainsAndLen(t *testing.T) {
	tbl := subst.NewTable()
	assert.False(t, tbl.Contains(1))
	tbl.Set(1, typesys.IntType())
	assert.True(t, tbl.Contains(1))
	assert.Equal(t, 1, tbl.Len())
}
