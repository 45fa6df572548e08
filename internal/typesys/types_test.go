package typesys_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmlsp/elmlsp/internal/typesys"
)

func TestBuiltinConstructors(t *testing.T) {
	assert.Equal(t, "Int", typesys.IntType().String())
	assert.Equal(t, "List Int", typesys.ListType(typesys.IntType()).String())
	assert.Equal(t, "Maybe String", typesys.MaybeType(typesys.StringType()).String())
}

func TestFieldsPreservesDeclarationOrder(t *testing.T) {
	f := typesys.NewFields()
	f.Set("name", typesys.StringType())
	f.Set("age", typesys.IntType())
	f.Set("name", typesys.StringType()) // overwrite keeps position

	require.Equal(t, []string{"name", "age"}, f.Names())
	assert.Equal(t, 2, f.Len())

	ty, ok := f.Get("age")
	require.True(t, ok)
	assert.Equal(t, typesys.IntType(), ty)
}

func TestFreezeRecordPreservesFieldsAndAlias(t *testing.T) {
	mr := typesys.NewMutableRecordType()
	mr.Fields.Set("x", typesys.IntType())
	alias := &typesys.TypeAlias{Module: "M", Name: "Point", IsRecordAlias: true}

	rec := typesys.FreezeRecord(mr, alias)

	require.Equal(t, []string{"x"}, rec.Fields.Names())
	assert.Same(t, alias, rec.Alias)

	// Mutating the original mutable record's fields after freezing must
	// not affect the frozen copy (Fields.Copy is a real copy).
	mr.Fields.Set("y", typesys.IntType())
	assert.Equal(t, []string{"x"}, rec.Fields.Names())
}

func TestCopyIsDeepEnoughForIndependentMutation(t *testing.T) {
	orig := typesys.NewFuncType([]typesys.Type{typesys.IntType()}, typesys.BoolType())
	cp := orig.Copy().(*typesys.FuncType)
	cp.Params[0] = typesys.StringType()

	assert.Equal(t, "Int", orig.Params[0].String())
	assert.Equal(t, "String", cp.Params[0].String())
}

// TestRecordType_DeepEquality compares two independently built RecordType
// values field-by-field, including the ordered-map internals Fields hides
// behind unexported slices. cmp.Diff (with AllowUnexported, since Fields
// has no exported accessors a generic comparer could walk) gives a
// readable field-path diff on mismatch, unlike assert.Equal's opaque
// reflect.DeepEqual failure message.
func TestRecordType_DeepEquality(t *testing.T) {
	alias := &typesys.TypeAlias{Module: "M", Name: "Point", IsRecordAlias: true}

	build := func() *typesys.RecordType {
		f := typesys.NewFields()
		f.Set("x", typesys.IntType())
		f.Set("y", typesys.IntType())
		r := typesys.NewRecordType(f)
		r.Alias = alias
		return r
	}

	a, b := build(), build()
	diff := cmp.Diff(a, b, cmp.AllowUnexported(typesys.Fields{}))
	assert.Empty(t, diff, "expected identical record types, got diff:\n%s", diff)

	b.Fields.Set("y", typesys.StringType())
	diff = cmp.Diff(a, b, cmp.AllowUnexported(typesys.Fields{}))
	assert.NotEmpty(t, diff, "expected a diff after changing field y's type")
}

func TestPruneFollowsInstanceChain(t *testing.T) {
	v1 := typesys.NewVarType(1)
	v2 := typesys.NewVarType(2)
	v1.Instance = v2
	v2.Instance = typesys.IntType()

	resolved := typesys.Prune(v1)
	assert.Equal(t, "Int", resolved.String())
}
