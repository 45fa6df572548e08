package infer

import (
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// DeclarationType is the inferred (or annotation-given) type of one
// top-level or let-bound value declaration, plus the diagnostics produced
// while inferring its body.
type DeclarationType struct {
	Name   string
	Type   typesys.Type
	Errors []error
}

// InferFile infers every top-level value_declaration in a file in
// declaration order, threading a shared root scope so later declarations
// can reference earlier ones and forward references get an
// InProgressBindingType placeholder (spec §4.E: "recursive and
// mutually-recursive top-level bindings are supported without a separate
// dependency-ordering pass").
func InferFile(root syntax.Node, module string, ctx AnnotationContext, annotationsByName map[string]syntax.Node) (*Scope, []*DeclarationType) {
	scope := NewRootScope()
	gen := typesys.NewFreshVarGen()

	var decls []syntax.Node
	for _, c := range root.Children() {
		if c.Kind() == syntax.KindValueDeclaration {
			decls = append(decls, c)
		}
	}

	names := make([]string, len(decls))
	for i, decl := range decls {
		left := decl.ChildByField("functionDeclarationLeft")
		if left == nil {
			continue
		}
		nameNode := left.ChildByField("name")
		if nameNode == nil {
			continue
		}
		name := nameNode.Text("")
		names[i] = name
		if ann, ok := annotationsByName[name]; ok {
			scope.Bind(name, ParseAnnotation(ann, module, ctx, gen))
		} else {
			scope.Bind(name, typesys.NewInProgressBindingType())
		}
	}

	results := make([]*DeclarationType, 0, len(decls))
	for i, decl := range decls {
		name := names[i]
		dt := inferTopLevelDecl(scope, module, ctx, gen, decl, name, annotationsByName)
		if dt != nil {
			results = append(results, dt)
		}
	}

	scope.Finalize()
	return scope, results
}

func inferTopLevelDecl(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, decl syntax.Node, name string, annotationsByName map[string]syntax.Node) *DeclarationType {
	left := decl.ChildByField("functionDeclarationLeft")
	body := decl.ChildByField("body")
	if left == nil {
		return nil
	}

	declScope := scope.Child()
	var paramTypes []typesys.Type

	annotated, hasAnnotation := annotationsByName[name]
	var annotatedFunc *typesys.FuncType
	if hasAnnotation {
		if ft, ok := ParseAnnotation(annotated, module, ctx, gen).(*typesys.FuncType); ok {
			annotatedFunc = ft
		}
	}

	paramIdx := 0
	for _, p := range left.Children() {
		if p.FieldName() != "param" {
			continue
		}
		var pv typesys.Type = gen.Fresh()
		if annotatedFunc != nil && paramIdx < len(annotatedFunc.Params) {
			pv = annotatedFunc.Params[paramIdx]
		}
		bindPatternTypes(declScope, gen, p, pv)
		paramTypes = append(paramTypes, pv)
		paramIdx++
	}

	bodyType, errs := InferExpr(declScope, module, ctx, gen, body)

	if annotatedFunc != nil {
		errs = append(errs, Unify(scope.Subst, bodyType, annotatedFunc.Ret)...)
	}

	var fnType typesys.Type = bodyType
	if len(paramTypes) > 0 {
		fnType = typesys.NewFuncType(paramTypes, bodyType)
	}
	fnType = scope.Subst.Apply(fnType)

	if name != "" {
		scope.Bind(name, fnType)
	}

	return &DeclarationType{Name: name, Type: fnType, Errors: errs}
}
