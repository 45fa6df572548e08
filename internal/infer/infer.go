package infer

import (
	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// InferExpr infers the type of expr within scope, recording the result
// (and every sub-expression's result) in scope.ExpressionTypes. Grounded
// on the teacher's Checker.inferExpr (internal/checker/infer_expr.go)
// dispatch-by-node-kind shape, adapted to this language's expression
// grammar (spec §4.E).
func InferExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	if expr == nil {
		return typesys.NewUnknownType(), nil
	}

	var result typesys.Type
	var errs []error

	switch expr.Kind() {
	case syntax.KindNumberLiteral:
		if isFloatLiteral(expr.Text("")) {
			result = typesys.FloatType()
		} else {
			result = typesys.NumberType()
		}

	case syntax.KindStringLiteral:
		result = typesys.StringType()

	case syntax.KindCharLiteral:
		result = typesys.CharType()

	case syntax.KindUnitExpr:
		result = typesys.NewUnitType()

	case syntax.KindValueExpr:
		result, errs = inferValueExpr(scope, expr)

	case syntax.KindListExpr:
		result, errs = inferListExpr(scope, module, ctx, gen, expr)

	case syntax.KindTupleExpr:
		result, errs = inferTupleExpr(scope, module, ctx, gen, expr)

	case syntax.KindRecordExpr:
		result, errs = inferRecordExpr(scope, module, ctx, gen, expr)

	case syntax.KindFieldAccessExpr:
		result, errs = inferFieldAccessExpr(scope, module, ctx, gen, expr)

	case syntax.KindFieldAccessorFunctionExpr:
		result, errs = inferFieldAccessorExpr(scope, gen, expr)

	case syntax.KindFunctionCallExpr:
		result, errs = inferFunctionCallExpr(scope, module, ctx, gen, expr)

	case syntax.KindIfElseExpr:
		result, errs = inferIfElseExpr(scope, module, ctx, gen, expr)

	case syntax.KindCaseOfExpr:
		result, errs = inferCaseOfExpr(scope, module, ctx, gen, expr)

	case syntax.KindLetInExpr:
		result, errs = inferLetInExpr(scope, module, ctx, gen, expr)

	case syntax.KindAnonymousFunctionExpr:
		result, errs = inferLambdaExpr(scope, module, ctx, gen, expr)

	case syntax.KindBinOpExpr:
		result, errs = inferBinOpExpr(scope, module, ctx, gen, expr)

	case syntax.KindNegateExpr:
		if operand := firstChild(expr); operand != nil {
			result, errs = InferExpr(scope, module, ctx, gen, operand)
		} else {
			result = typesys.NewUnknownType()
		}

	default:
		result = typesys.NewUnknownType()
	}

	if result == nil {
		result = typesys.NewUnknownType()
	}
	scope.Record(expr, result)
	return result, errs
}

func firstChild(n syntax.Node) syntax.Node {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func inferValueExpr(scope *Scope, expr syntax.Node) (typesys.Type, []error) {
	name := expr.Text("")
	bare := name
	if idx := lastDot(name); idx >= 0 {
		bare = name[idx+1:]
	}
	if t, ok := scope.Lookup(bare); ok {
		return t, nil
	}
	if t, ok := scope.Lookup(name); ok {
		return t, nil
	}
	return typesys.NewUnknownType(), []error{&UnboundNameError{Name: name, NodeID: int(expr.ID())}}
}

func inferListExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	elemType := typesys.Type(gen.Fresh())
	var errs []error
	first := true
	for _, c := range expr.Children() {
		t, es := InferExpr(scope, module, ctx, gen, c)
		errs = append(errs, es...)
		if first {
			elemType = t
			first = false
			continue
		}
		errs = append(errs, Unify(scope.Subst, elemType, t)...)
	}
	return typesys.ListType(scope.Subst.Apply(elemType)), errs
}

func inferTupleExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	var elems []typesys.Type
	var errs []error
	for _, c := range expr.Children() {
		if c.FieldName() != "elem" {
			continue
		}
		t, es := InferExpr(scope, module, ctx, gen, c)
		elems = append(elems, t)
		errs = append(errs, es...)
	}
	return typesys.NewTupleType(elems...), errs
}

func inferRecordExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	var errs []error
	fields := typesys.NewFields()
	fieldRefs := map[string][]typesys.FieldRef{}

	var baseType typesys.Type
	if base := expr.ChildByField("base"); base != nil {
		bt, es := InferExpr(scope, module, ctx, gen, base)
		errs = append(errs, es...)
		baseType = bt
		if br, ok := typesys.Prune(bt).(*typesys.RecordType); ok {
			br.Fields.Each(func(name string, t typesys.Type) { fields.Set(name, t) })
		}
	}

	for _, fld := range syntax.ChildrenOfKind(expr, syntax.KindFieldExpr) {
		nameNode := fld.ChildByField("name")
		valueNode := fld.ChildByField("value")
		if nameNode == nil {
			continue
		}
		name := nameNode.Text("")
		t, es := InferExpr(scope, module, ctx, gen, valueNode)
		errs = append(errs, es...)
		fields.Set(name, t)
		fieldRefs[name] = append(fieldRefs[name], typesys.FieldRef{URI: module, NodeID: int(nameNode.ID())})
		scope.FieldReferences[name] = append(scope.FieldReferences[name], typesys.FieldRef{URI: module, NodeID: int(nameNode.ID())})
	}

	rt := typesys.NewRecordType(fields)
	rt.BaseType = baseType
	rt.FieldRefs = fieldRefs
	return rt, errs
}

func inferFieldAccessExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	target := expr.ChildByField("target")
	fieldNode := expr.ChildByField("field")
	if target == nil || fieldNode == nil {
		return typesys.NewUnknownType(), nil
	}

	targetType, errs := InferExpr(scope, module, ctx, gen, target)
	field := fieldNode.Text("")
	scope.FieldReferences[field] = append(scope.FieldReferences[field], typesys.FieldRef{URI: module, NodeID: int(fieldNode.ID())})

	resolved := scope.Subst.Resolve(targetType)
	switch r := resolved.(type) {
	case *typesys.RecordType:
		if t, ok := r.Fields.Get(field); ok {
			return t, errs
		}
		errs = append(errs, &MissingFieldError{Field: field, Record: r})
		return typesys.NewUnknownType(), errs
	case *typesys.MutableRecordType:
		if t, ok := r.Fields.Get(field); ok {
			return t, errs
		}
		fresh := typesys.Type(gen.Fresh())
		r.Fields.Set(field, fresh)
		return fresh, errs
	case *typesys.VarType:
		mr := typesys.NewMutableRecordType()
		fresh := typesys.Type(gen.Fresh())
		mr.Fields.Set(field, fresh)
		errs = append(errs, Unify(scope.Subst, r, mr)...)
		return fresh, errs
	default:
		return typesys.NewUnknownType(), errs
	}
}

func inferFieldAccessorExpr(scope *Scope, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	fieldNode := expr.ChildByField("field")
	if fieldNode == nil {
		return typesys.NewUnknownType(), nil
	}
	field := fieldNode.Text("")
	scope.FieldReferences[field] = append(scope.FieldReferences[field], typesys.FieldRef{NodeID: int(fieldNode.ID())})
	recordVar := gen.Fresh()
	mr := typesys.NewMutableRecordType()
	fieldVar := gen.Fresh()
	mr.Fields.Set(field, fieldVar)
	_ = Unify(scope.Subst, recordVar, mr)
	return typesys.NewFuncType([]typesys.Type{recordVar}, fieldVar), nil
}

func inferFunctionCallExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	calleeNode := expr.ChildByField("callee")
	if calleeNode == nil {
		return typesys.NewUnknownType(), nil
	}
	calleeType, errs := InferExpr(scope, module, ctx, gen, calleeNode)

	var argTypes []typesys.Type
	for _, c := range expr.Children() {
		if c.FieldName() != "arg" {
			continue
		}
		t, es := InferExpr(scope, module, ctx, gen, c)
		errs = append(errs, es...)
		argTypes = append(argTypes, t)
	}

	retVar := typesys.Type(gen.Fresh())
	expected := typesys.NewFuncType(argTypes, retVar)
	errs = append(errs, Unify(scope.Subst, calleeType, expected)...)
	return scope.Subst.Apply(retVar), errs
}

func inferIfElseExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	var errs []error
	if cond := expr.ChildByField("cond"); cond != nil {
		ct, es := InferExpr(scope, module, ctx, gen, cond)
		errs = append(errs, es...)
		errs = append(errs, Unify(scope.Subst, ct, typesys.BoolType())...)
	}
	thenNode := expr.ChildByField("then")
	elseNode := expr.ChildByField("else")
	thenType, es := InferExpr(scope, module, ctx, gen, thenNode)
	errs = append(errs, es...)
	elseType, es := InferExpr(scope, module, ctx, gen, elseNode)
	errs = append(errs, es...)
	errs = append(errs, Unify(scope.Subst, thenType, elseType)...)
	return scope.Subst.Apply(thenType), errs
}

func inferCaseOfExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	scrutineeNode := expr.ChildByField("expr")
	var errs []error
	var scrutineeType typesys.Type = typesys.NewUnknownType()
	if scrutineeNode != nil {
		scrutineeType, errs = InferExpr(scope, module, ctx, gen, scrutineeNode)
	}

	resultVar := typesys.Type(gen.Fresh())
	first := true
	for _, branch := range syntax.ChildrenOfKind(expr, syntax.KindCaseOfBranch) {
		branchScope := scope.Child()
		if pattern := branch.ChildByField("pattern"); pattern != nil {
			bindPatternTypes(branchScope, gen, pattern, scrutineeType)
		}
		body := branch.ChildByField("body")
		bt, es := InferExpr(branchScope, module, ctx, gen, body)
		errs = append(errs, es...)
		if first {
			errs = append(errs, Unify(scope.Subst, resultVar, bt)...)
			first = false
		} else {
			errs = append(errs, Unify(scope.Subst, resultVar, bt)...)
		}
	}
	return scope.Subst.Apply(resultVar), errs
}

// bindPatternTypes binds the names introduced by a case pattern to
// sub-parts of scrutineeType, descending through tuple/union/record
// pattern structure (spec §4.E). Unknown structure degrades to fresh
// variables rather than failing, matching the binder's own leniency.
func bindPatternTypes(scope *Scope, gen *typesys.FreshVarGen, pattern syntax.Node, scrutineeType typesys.Type) {
	switch pattern.Kind() {
	case syntax.KindLowerPattern:
		name := pattern.Text("")
		if name != "" && name != "_" {
			scope.Bind(name, scrutineeType)
		}
	case syntax.KindTuplePattern:
		tup, ok := typesys.Prune(scrutineeType).(*typesys.TupleType)
		elems := pattern.Children()
		for i, c := range elems {
			var elemType typesys.Type = gen.Fresh()
			if ok && i < len(tup.Elems) {
				elemType = tup.Elems[i]
			}
			bindPatternTypes(scope, gen, c, elemType)
		}
	case syntax.KindUnionPattern:
		for _, c := range pattern.Children() {
			if c.FieldName() == "arg" {
				bindPatternTypes(scope, gen, c, gen.Fresh())
			}
		}
	case syntax.KindRecordPattern:
		// Cache the pattern's own record type so later passes (reference
		// collection for the remove-field refactor, spec §4.K) can resolve
		// each destructured field the same way a field_access_expr's target
		// is resolved, via ExpressionTypes rather than re-deriving it.
		scope.Record(pattern, scrutineeType)
		rec, ok := typesys.Prune(scrutineeType).(*typesys.RecordType)
		for _, c := range pattern.Children() {
			if c.Kind() != syntax.KindLowerPattern {
				continue
			}
			name := c.Text("")
			var ft typesys.Type = gen.Fresh()
			if ok {
				if t, found := rec.Fields.Get(name); found {
					ft = t
				}
			}
			scope.Bind(name, ft)
		}
	case syntax.KindListPattern:
		elem := gen.Fresh()
		if lt, ok := typesys.Prune(scrutineeType).(*typesys.UnionType); ok && lt.Name == "List" && len(lt.Params) == 1 {
			for _, c := range pattern.Children() {
				bindPatternTypes(scope, gen, c, lt.Params[0])
			}
			return
		}
		for _, c := range pattern.Children() {
			bindPatternTypes(scope, gen, c, elem)
		}
	}
}

func inferLetInExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	letScope := scope.Child()
	var errs []error

	var decls []syntax.Node
	for _, c := range expr.Children() {
		if c.Kind() == syntax.KindValueDeclaration {
			decls = append(decls, c)
			left := c.ChildByField("functionDeclarationLeft")
			if left != nil {
				if nameNode := left.ChildByField("name"); nameNode != nil {
					letScope.Bind(nameNode.Text(""), typesys.NewInProgressBindingType())
				}
			}
		}
	}

	for _, decl := range decls {
		left := decl.ChildByField("functionDeclarationLeft")
		body := decl.ChildByField("body")
		declScope := letScope.Child()
		var paramTypes []typesys.Type
		if left != nil {
			for _, p := range left.Children() {
				if p.FieldName() != "param" {
					continue
				}
				pv := gen.Fresh()
				bindPatternTypes(declScope, gen, p, pv)
				paramTypes = append(paramTypes, pv)
			}
		}
		bodyType, es := InferExpr(declScope, module, ctx, gen, body)
		errs = append(errs, es...)
		var fnType typesys.Type = bodyType
		if len(paramTypes) > 0 {
			fnType = typesys.NewFuncType(paramTypes, bodyType)
		}
		if left != nil {
			if nameNode := left.ChildByField("name"); nameNode != nil {
				letScope.Bind(nameNode.Text(""), fnType)
			}
		}
	}

	body := expr.ChildByField("body")
	result, es := InferExpr(letScope, module, ctx, gen, body)
	errs = append(errs, es...)
	return result, errs
}

func inferLambdaExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	lambdaScope := scope.Child()
	var paramTypes []typesys.Type
	for _, p := range expr.Children() {
		if p.FieldName() != "param" {
			continue
		}
		pv := gen.Fresh()
		bindPatternTypes(lambdaScope, gen, p, pv)
		paramTypes = append(paramTypes, pv)
	}
	body := expr.ChildByField("body")
	bodyType, errs := InferExpr(lambdaScope, module, ctx, gen, body)
	return typesys.NewFuncType(paramTypes, bodyType), errs
}

func inferBinOpExpr(scope *Scope, module string, ctx AnnotationContext, gen *typesys.FreshVarGen, expr syntax.Node) (typesys.Type, []error) {
	var left, right syntax.Node
	for _, c := range expr.Children() {
		switch c.FieldName() {
		case "left":
			left = c
		case "right":
			right = c
		}
	}
	var errs []error
	lt, es := InferExpr(scope, module, ctx, gen, left)
	errs = append(errs, es...)
	rt, es := InferExpr(scope, module, ctx, gen, right)
	errs = append(errs, es...)

	op := ""
	if opNode := expr.ChildByField("operator"); opNode != nil {
		op = opNode.Text("")
	}
	switch op {
	case "==", "/=", "<", ">", "<=", ">=":
		errs = append(errs, Unify(scope.Subst, lt, rt)...)
		return typesys.BoolType(), errs
	case "&&", "||":
		errs = append(errs, Unify(scope.Subst, lt, typesys.BoolType())...)
		errs = append(errs, Unify(scope.Subst, rt, typesys.BoolType())...)
		return typesys.BoolType(), errs
	case "++":
		errs = append(errs, Unify(scope.Subst, lt, rt)...)
		return scope.Subst.Apply(lt), errs
	case "::":
		listType := typesys.ListType(lt)
		errs = append(errs, Unify(scope.Subst, rt, listType)...)
		return scope.Subst.Apply(rt), errs
	default:
		// Arithmetic operators: both operands and the result share one
		// numeric type (spec §4.E).
		errs = append(errs, Unify(scope.Subst, lt, rt)...)
		return scope.Subst.Apply(lt), errs
	}
}
