package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/syntax/builder"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// buildPersonModuleWithPattern builds:
//
//	module M exposing (..)
//	type alias Person = { name : String }
//	greet { name } = name
//
// and returns the record_pattern node ("{ name }") plus the field_type
// node its one field should resolve to, the same low-level shape
// resolver_test.go's TestResolveFieldByType_FindsFieldTypeNodeViaAlias
// uses: the alias link is built by hand rather than run through the full
// annotation/inference pipeline, which is exercised separately.
func buildPersonModuleWithPattern(b *builder.B) (root, recordPattern, fieldType *builder.Built) {
	moduleName := b.N(syntax.KindUpperCaseIdentifier, 1, 8, 1, 9, "M")
	moduleDecl := b.N(syntax.KindModuleDeclaration, 1, 1, 1, 9, "", moduleName.Field("name"))

	fieldName := b.N(syntax.KindLowerCaseIdentifier, 2, 1, 2, 5, "name")
	fieldType = b.N(syntax.KindFieldType, 2, 1, 2, 16, "", fieldName.Field("name"))
	recordType := b.N(syntax.KindRecordType, 2, 1, 2, 18, "", fieldType)
	aliasName := b.N(syntax.KindUpperCaseIdentifier, 2, 12, 2, 18, "Person")
	typeAlias := b.N(syntax.KindTypeAliasDeclaration, 2, 1, 2, 18, "",
		aliasName.Field("name"), recordType.Field("typeExpr"))

	patternFieldName := b.N(syntax.KindLowerPattern, 3, 8, 3, 12, "name")
	recordPattern = b.N(syntax.KindRecordPattern, 3, 6, 3, 14, "", patternFieldName)
	recordPattern.Field("param")
	fnName := b.N(syntax.KindLowerCaseIdentifier, 3, 1, 3, 6, "greet")
	left := b.N(syntax.KindFunctionDeclarationLeft, 3, 1, 3, 14, "", fnName.Field("name"), recordPattern)
	body := b.N(syntax.KindValueExpr, 3, 17, 3, 21, "name")
	decl := b.N(syntax.KindValueDeclaration, 3, 1, 3, 21, "", left.Field("functionDeclarationLeft"), body.Field("body"))

	root = b.N(syntax.KindFile, 1, 1, 3, 21, "", moduleDecl, typeAlias, decl)
	return root, recordPattern, fieldType
}

func TestCollectModuleReferences_RecordPatternFieldResolvesToAliasField(t *testing.T) {
	b := builder.New()
	root, recordPattern, fieldType := buildPersonModuleWithPattern(b)
	tree := builder.Tree(root, "M.elm", "")
	file := binder.Bind(tree)

	alias := &typesys.TypeAlias{Module: "M", Name: "Person", NodeID: int(root.Node().ID())}
	rec := typesys.NewRecordType(typesys.NewFields())
	rec.Fields.Set("name", typesys.StringType())
	rec.Alias = alias
	// findFieldTypeNode keys off the alias's own declaring node, not the
	// file root; reuse the real type_alias_declaration node id instead.
	for id := range file.TypeContainers {
		alias.NodeID = int(id)
	}

	mod := &Module{
		URI:             "M.elm",
		Tree:            tree,
		File:            file,
		ExpressionTypes: map[syntax.NodeID]typesys.Type{recordPattern.Node().ID(): rec},
	}

	fp := snapshotProvider{modules: map[string]*Module{"M": mod}}
	out := map[defKey][]Reference{}
	collectModuleReferences(mod, fp, out)

	key := defKey{URI: "M.elm", NodeID: fieldType.Node().ID()}
	refs, ok := out[key]
	require.True(t, ok, "record-pattern field use must resolve against the alias's field_type declaration")
	require.Len(t, refs, 1)
	assert.Equal(t, binder.KindFieldType, refs[0].Kind)
	assert.Equal(t, "M.elm", refs[0].URI)
}
