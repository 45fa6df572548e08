package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/resolver"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/syntax/builder"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

type fakeProvider struct {
	byModule map[string]*binder.File
}

func (p fakeProvider) FileByModule(module string) (*binder.File, bool) {
	f, ok := p.byModule[module]
	return f, ok
}

// buildHelperModule builds:
//
//	module Helper exposing (add)
//	add a b = a + b
func buildHelperModule(b *builder.B) *builder.Built {
	name := b.N(syntax.KindUpperCaseIdentifier, 1, 8, 1, 14, "Helper")
	exposedAdd := b.N(syntax.KindExposedValue, 1, 25, 1, 28, "add")
	exposing := b.N(syntax.KindExposingList, 1, 24, 1, 29, "", exposedAdd)
	moduleDecl := b.N(syntax.KindModuleDeclaration, 1, 1, 1, 29, "", name.Field("name"), exposing.Field("exposing"))

	fnName := b.N(syntax.KindLowerCaseIdentifier, 2, 1, 2, 4, "add")
	paramA := b.N(syntax.KindLowerPattern, 2, 5, 2, 6, "a")
	paramA.Field("param")
	paramB := b.N(syntax.KindLowerPattern, 2, 7, 2, 8, "b")
	paramB.Field("param")
	left := b.N(syntax.KindFunctionDeclarationLeft, 2, 1, 2, 8, "", fnName.Field("name"), paramA, paramB)
	body := b.N(syntax.KindValueExpr, 2, 11, 2, 16, "a + b")
	decl := b.N(syntax.KindValueDeclaration, 2, 1, 2, 16, "", left.Field("functionDeclarationLeft"), body.Field("body"))

	return b.N(syntax.KindFile, 1, 1, 2, 16, "", moduleDecl, decl)
}

// buildAppModule builds:
//
//	module App exposing (..)
//	import Helper
//	use = Helper.add
func buildAppModule(b *builder.B) (*builder.Built, *builder.Built) {
	name := b.N(syntax.KindUpperCaseIdentifier, 1, 8, 1, 11, "App")
	dots := b.N(syntax.KindDoubleDot, 1, 22, 1, 24, "")
	exposing := b.N(syntax.KindExposingList, 1, 21, 1, 25, "", dots)
	moduleDecl := b.N(syntax.KindModuleDeclaration, 1, 1, 1, 25, "", name.Field("name"), exposing.Field("exposing"))

	importName := b.N(syntax.KindUpperCaseIdentifier, 3, 8, 3, 14, "Helper")
	importClause := b.N(syntax.KindImportClause, 3, 1, 3, 14, "", importName.Field("name"))

	useTarget := b.N(syntax.KindValueExpr, 5, 7, 5, 13, "Helper")
	callee := b.N(syntax.KindFieldAccessExpr, 5, 7, 5, 17, "", useTarget.Field("target"))
	fnName := b.N(syntax.KindLowerCaseIdentifier, 5, 1, 5, 4, "use")
	left := b.N(syntax.KindFunctionDeclarationLeft, 5, 1, 5, 4, "", fnName.Field("name"))
	decl := b.N(syntax.KindValueDeclaration, 5, 1, 5, 17, "", left.Field("functionDeclarationLeft"), callee.Field("body"))

	root := b.N(syntax.KindFile, 1, 1, 5, 17, "", moduleDecl, importClause, decl)
	return root, callee
}

func TestResolveName_CrossFileQualifiedImport(t *testing.T) {
	hb := builder.New()
	helperRoot := buildHelperModule(hb)
	helperTree := builder.Tree(helperRoot, "Helper.elm", "")
	helperFile := binder.Bind(helperTree)

	ab := builder.New()
	appRoot, callee := buildAppModule(ab)
	appTree := builder.Tree(appRoot, "App.elm", "")
	appFile := binder.Bind(appTree)

	fp := fakeProvider{byModule: map[string]*binder.File{"Helper": helperFile}}

	def, ok := resolver.ResolveName(appFile, fp, callee.Node(), "Helper.add")
	require.True(t, ok)
	assert.Equal(t, "Helper.elm", def.URI)
	assert.Equal(t, binder.KindFunction, def.Symbol.Kind)
}

func TestResolveName_LocalBindingTakesPriority(t *testing.T) {
	b := builder.New()
	root := buildHelperModule(b)
	tree := builder.Tree(root, "Helper.elm", "")
	file := binder.Bind(tree)
	fp := fakeProvider{byModule: map[string]*binder.File{}}

	// "add" resolves locally without needing the provider at all.
	def, ok := resolver.ResolveName(file, fp, tree.Root, "add")
	require.True(t, ok)
	assert.Equal(t, "Helper.elm", def.URI)
}

func TestResolveFieldByType_RefusesAliasLessRecord(t *testing.T) {
	rec := typesys.NewRecordType(typesys.NewFields())
	rec.Fields.Set("name", typesys.StringType())

	_, ok := resolver.ResolveFieldByType(&binder.File{}, fakeProvider{}, rec, "name")
	assert.False(t, ok, "structural records without an alias must not resolve (spec open question)")
}

// buildNestedScopeModule builds:
//
//	module M exposing (..)
//	f x =
//	    let
//	        y = x
//	    in
//	    y
//
// and returns the file's root along with the value_expr reference nodes
// for "x" (inside y's body) and "y" (the let's own body), so a resolver
// test can confirm both reach up through the let-bound container to the
// right definition instead of falling back to the file root.
func buildNestedScopeModule(b *builder.B) (root *builder.Built, xRef, yRef *builder.Built) {
	moduleName := b.N(syntax.KindUpperCaseIdentifier, 1, 8, 1, 9, "M")
	dots := b.N(syntax.KindDoubleDot, 1, 19, 1, 21, "")
	exposing := b.N(syntax.KindExposingList, 1, 18, 1, 22, "", dots)
	moduleDecl := b.N(syntax.KindModuleDeclaration, 1, 1, 1, 22, "", moduleName.Field("name"), exposing.Field("exposing"))

	fnName := b.N(syntax.KindLowerCaseIdentifier, 2, 1, 2, 2, "f")
	param := b.N(syntax.KindLowerPattern, 2, 3, 2, 4, "x")
	param.Field("param")
	fnLeft := b.N(syntax.KindFunctionDeclarationLeft, 2, 1, 2, 4, "", fnName.Field("name"), param)

	letName := b.N(syntax.KindLowerCaseIdentifier, 4, 9, 4, 10, "y")
	letLeft := b.N(syntax.KindFunctionDeclarationLeft, 4, 9, 4, 10, "", letName.Field("name"))
	xRef = b.N(syntax.KindValueExpr, 4, 13, 4, 14, "x")
	letBinding := b.N(syntax.KindValueDeclaration, 4, 9, 4, 14, "",
		letLeft.Field("functionDeclarationLeft"), xRef.Field("body"))

	yRef = b.N(syntax.KindValueExpr, 6, 5, 6, 6, "y")
	letIn := b.N(syntax.KindLetInExpr, 3, 5, 6, 6, "", letBinding, yRef.Field("body"))

	fnDecl := b.N(syntax.KindValueDeclaration, 2, 1, 6, 6, "",
		fnLeft.Field("functionDeclarationLeft"), letIn.Field("body"))

	root = b.N(syntax.KindFile, 1, 1, 6, 6, "", moduleDecl, fnDecl)
	return root, xRef, yRef
}

func TestResolveName_NestedLetScopeFindsEnclosingParameter(t *testing.T) {
	b := builder.New()
	root, xRef, _ := buildNestedScopeModule(b)
	tree := builder.Tree(root, "M.elm", "")
	file := binder.Bind(tree)
	fp := fakeProvider{byModule: map[string]*binder.File{}}

	def, ok := resolver.ResolveName(file, fp, xRef.Node(), "x")
	require.True(t, ok, "the let-bound definition of y must still see f's parameter x")
	assert.Equal(t, binder.KindFunctionParameter, def.Symbol.Kind)
}

func TestResolveName_LetBodyFindsLetBoundName(t *testing.T) {
	b := builder.New()
	root, _, yRef := buildNestedScopeModule(b)
	tree := builder.Tree(root, "M.elm", "")
	file := binder.Bind(tree)
	fp := fakeProvider{byModule: map[string]*binder.File{}}

	def, ok := resolver.ResolveName(file, fp, yRef.Node(), "y")
	require.True(t, ok)
	assert.Equal(t, binder.KindFunction, def.Symbol.Kind)
}

func TestResolveFieldByType_FindsFieldTypeNodeViaAlias(t *testing.T) {
	b := builder.New()
	moduleName := b.N(syntax.KindUpperCaseIdentifier, 1, 8, 1, 9, "M")
	moduleDecl := b.N(syntax.KindModuleDeclaration, 1, 1, 1, 9, "", moduleName.Field("name"))
	fieldName := b.N(syntax.KindLowerCaseIdentifier, 2, 1, 2, 5, "name")
	fieldType := b.N(syntax.KindFieldType, 2, 1, 2, 10, "", fieldName.Field("name"))
	recordType := b.N(syntax.KindRecordType, 2, 1, 2, 12, "", fieldType)
	aliasName := b.N(syntax.KindUpperCaseIdentifier, 2, 1, 2, 6, "Person")
	typeAlias := b.N(syntax.KindTypeAliasDeclaration, 2, 1, 2, 12, "",
		aliasName.Field("name"), recordType.Field("typeExpr"))
	root := b.N(syntax.KindFile, 1, 1, 2, 12, "", moduleDecl, typeAlias)
	tree := builder.Tree(root, "M.elm", "")
	file := binder.Bind(tree)

	alias := &typesys.TypeAlias{Module: "M", Name: "Person", NodeID: int(typeAlias.Node().ID())}
	rec := typesys.NewRecordType(typesys.NewFields())
	rec.Alias = alias

	def, ok := resolver.ResolveFieldByType(file, fakeProvider{}, rec, "name")
	require.True(t, ok)
	assert.Equal(t, "M.elm", def.URI)
	assert.Equal(t, fieldType.Node().ID(), def.NodeID)
}
