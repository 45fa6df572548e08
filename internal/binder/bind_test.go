package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmlsp/elmlsp/internal/binder"
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/syntax/builder"
)

// buildSimpleFile constructs:
//
//	module M exposing (greet)
//
//	type alias Person = { name : String }
//
//	greet person =
//	    let
//	        label = person.name
//	    in
//	    label
func buildSimpleFile(b *builder.B) *builder.Built {
	moduleName := b.N(syntax.KindUpperCaseIdentifier, 1, 8, 1, 9, "M")
	exposedGreet := b.N(syntax.KindExposedValue, 1, 19, 1, 24, "greet")
	exposing := b.N(syntax.KindExposingList, 1, 18, 1, 25, "", exposedGreet)
	moduleDecl := b.N(syntax.KindModuleDeclaration, 1, 1, 1, 25, "",
		moduleName.Field("name"), exposing.Field("exposing"))

	fieldName := b.N(syntax.KindLowerCaseIdentifier, 3, 21, 3, 25, "name")
	fieldType := b.N(syntax.KindFieldType, 3, 21, 3, 34, "", fieldName.Field("name"))
	recordType := b.N(syntax.KindRecordType, 3, 19, 3, 36, "", fieldType)
	aliasName := b.N(syntax.KindUpperCaseIdentifier, 3, 12, 3, 18, "Person")
	typeAlias := b.N(syntax.KindTypeAliasDeclaration, 3, 1, 3, 36, "",
		aliasName.Field("name"), recordType.Field("typeExpr"))

	fnName := b.N(syntax.KindLowerCaseIdentifier, 5, 1, 5, 6, "greet")
	param := b.N(syntax.KindLowerPattern, 5, 7, 5, 13, "person")
	param.Field("param")
	fnLeft := b.N(syntax.KindFunctionDeclarationLeft, 5, 1, 5, 13, "",
		fnName.Field("name"), param)

	letName := b.N(syntax.KindLowerCaseIdentifier, 7, 9, 7, 14, "label")
	letParamLeft := b.N(syntax.KindFunctionDeclarationLeft, 7, 9, 7, 14, "", letName.Field("name"))
	personRef := b.N(syntax.KindValueExpr, 7, 17, 7, 23, "person")
	personField := b.N(syntax.KindLowerCaseIdentifier, 7, 24, 7, 28, "name")
	fieldAccess := b.N(syntax.KindFieldAccessExpr, 7, 17, 7, 28, "",
		personRef.Field("target"), personField.Field("field"))
	letBinding := b.N(syntax.KindValueDeclaration, 7, 9, 7, 28, "",
		letParamLeft.Field("functionDeclarationLeft"), fieldAccess.Field("body"))

	letBody := b.N(syntax.KindValueExpr, 9, 5, 9, 10, "label")
	letIn := b.N(syntax.KindLetInExpr, 6, 5, 9, 10, "", letBinding, letBody.Field("body"))

	fnDecl := b.N(syntax.KindValueDeclaration, 5, 1, 9, 10, "",
		fnLeft.Field("functionDeclarationLeft"), letIn.Field("body"))

	return b.N(syntax.KindFile, 1, 1, 9, 10, "", moduleDecl, typeAlias, fnDecl)
}

func TestBind_TopLevelAndExposing(t *testing.T) {
	b := builder.New()
	root := buildSimpleFile(b)
	tree := builder.Tree(root, "M.elm", "")

	f := binder.Bind(tree)

	require.Equal(t, "M", f.ModuleName)

	greet, ok := f.Root.Local("greet")
	require.True(t, ok)
	assert.Equal(t, binder.KindFunction, greet.Kind)
	assert.True(t, f.NonShadowable.Contains("greet"))

	personAlias, ok := f.Root.Local("Person")
	require.True(t, ok)
	assert.Equal(t, binder.KindTypeAlias, personAlias.Kind)
	assert.Equal(t, []string{"Person"}, personAlias.Constructors)

	exposedGreet, ok := f.Exposing["greet"]
	require.True(t, ok)
	assert.Equal(t, greet.DefiningNodeID, exposedGreet.DefiningNodeID)

	_, personExposed := f.Exposing["Person"]
	assert.False(t, personExposed, "Person was not named in the exposing list")
}

func TestBind_DefaultImportsArePresent(t *testing.T) {
	b := builder.New()
	root := buildSimpleFile(b)
	tree := builder.Tree(root, "M.elm", "")

	f := binder.Bind(tree)

	for _, mod := range binder.DefaultImportModules {
		sym, ok := f.Root.Local(mod)
		require.True(t, ok, "default import %s should be bound", mod)
		assert.Equal(t, binder.DefaultImportNodeID, sym.DefiningNodeID)
	}
}

func TestBind_LetBindingIsFunctionAndParamNotTopLevel(t *testing.T) {
	b := builder.New()
	root := buildSimpleFile(b)
	tree := builder.Tree(root, "M.elm", "")

	f := binder.Bind(tree)

	personSym, ok := f.Root.Local("greet")
	require.True(t, ok)
	_ = personSym

	// The "person" parameter is bound to greet's own value-decl container,
	// not shadowable at top level.
	assert.False(t, f.NonShadowable.Contains("person"))

	labelSym := f.ByNodeID[findLabelNodeID(t, f)]
	require.NotNil(t, labelSym)
	assert.Equal(t, binder.KindFunction, labelSym.Kind)
}

func findLabelNodeID(t *testing.T, f *binder.File) syntax.NodeID {
	t.Helper()
	for id, sym := range f.ByNodeID {
		if sym.Name == "label" {
			return id
		}
	}
	t.Fatal("label symbol not bound")
	return 0
}

func TestIsOperatorToken(t *testing.T) {
	assert.True(t, binder.IsOperatorToken("++"))
	assert.True(t, binder.IsOperatorToken("<|"))
	assert.False(t, binder.IsOperatorToken("add"))
	assert.False(t, binder.IsOperatorToken(""))
}
