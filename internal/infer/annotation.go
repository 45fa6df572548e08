package infer

import (
	"strconv"

	"github.com/elmlsp/elmlsp/internal/syntax"
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// AnnotationContext resolves a bare type name written in an annotation to
// the UnionType/RecordType it denotes, consulting the binder's exposed
// names and the workspace's cross-file symbol table. The infer package
// depends only on this narrow interface so it never imports workspace
// directly (spec §4.E/§4.F boundary).
type AnnotationContext interface {
	// ResolveTypeRef returns the canonical (module, name) for a bare or
	// qualified type name as written at referencingModule.
	ResolveTypeRef(referencingModule, name string) (module string, found bool)
}

// rigidVars accumulates the type-variable names bound by one annotation's
// own `type_variable` children, so repeated mentions resolve to the same
// VarType instance (spec §4.E: "each distinct lowercase name in one
// annotation becomes one rigid type variable, shared across every mention
// within that annotation").
type rigidVars struct {
	gen  *typesys.FreshVarGen
	vars map[string]*typesys.VarType
}

func newRigidVars(gen *typesys.FreshVarGen) *rigidVars {
	return &rigidVars{gen: gen, vars: map[string]*typesys.VarType{}}
}

func (r *rigidVars) get(name string) *typesys.VarType {
	if v, ok := r.vars[name]; ok {
		return v
	}
	v := r.gen.Rigid(name)
	r.vars[name] = v
	return v
}

// ParseAnnotation converts a type-expression node into a typesys.Type
// (spec §4.E annotation table). module is the name of the file the
// annotation appears in, used to resolve bare type_ref names.
func ParseAnnotation(n syntax.Node, module string, ctx AnnotationContext, gen *typesys.FreshVarGen) typesys.Type {
	return parseAnnotation(n, module, ctx, newRigidVars(gen))
}

func parseAnnotation(n syntax.Node, module string, ctx AnnotationContext, rv *rigidVars) typesys.Type {
	if n == nil {
		return typesys.NewUnknownType()
	}

	switch n.Kind() {
	case syntax.KindTypeVariable:
		return rv.get(n.Text(""))

	case syntax.KindUnitExprType:
		return typesys.NewUnitType()

	case syntax.KindTupleType:
		var elems []typesys.Type
		for _, c := range n.Children() {
			if c.FieldName() == "elem" {
				elems = append(elems, parseAnnotation(c, module, ctx, rv))
			}
		}
		if len(elems) == 0 {
			return typesys.NewUnitType()
		}
		return typesys.NewTupleType(elems...)

	case syntax.KindRecordType:
		fields := typesys.NewFields()
		for _, ft := range syntax.ChildrenOfKind(n, syntax.KindFieldType) {
			nameNode := ft.ChildByField("name")
			typeNode := ft.ChildByField("typeExpr")
			if nameNode == nil {
				continue
			}
			fields.Set(nameNode.Text(""), parseAnnotation(typeNode, module, ctx, rv))
		}
		return typesys.NewRecordType(fields)

	case syntax.KindFunctionType:
		var params []typesys.Type
		var ret typesys.Type
		children := n.Children()
		for i, c := range children {
			if c.FieldName() != "operand" {
				continue
			}
			t := parseAnnotation(c, module, ctx, rv)
			if i == len(children)-1 {
				ret = t
			} else {
				params = append(params, t)
			}
		}
		if ret == nil {
			ret = typesys.NewUnitType()
		}
		return typesys.NewFuncType(params, ret)

	case syntax.KindTypeRef:
		return resolveTypeRef(n, module, ctx, rv)

	default:
		return typesys.NewUnknownType()
	}
}

func resolveTypeRef(n syntax.Node, module string, ctx AnnotationContext, rv *rigidVars) typesys.Type {
	name := n.Text("")
	// Qualified references ("Module.Type") carry their own module prefix
	// in Text; bare ones are resolved against the importing file's scope.
	refModule := module
	bare := name
	if idx := lastDot(name); idx >= 0 {
		refModule = name[:idx]
		bare = name[idx+1:]
	}

	var params []typesys.Type
	for _, c := range n.Children() {
		if c.FieldName() == "arg" {
			params = append(params, parseAnnotation(c, module, ctx, rv))
		}
	}

	switch bare {
	case "Int":
		return typesys.IntType()
	case "Float":
		return typesys.FloatType()
	case "Bool":
		return typesys.BoolType()
	case "String":
		return typesys.StringType()
	case "Char":
		return typesys.CharType()
	case "List":
		if len(params) == 1 {
			return typesys.ListType(params[0])
		}
	case "Maybe":
		if len(params) == 1 {
			return typesys.MaybeType(params[0])
		}
	}

	resolvedModule := refModule
	if ctx != nil {
		if m, ok := ctx.ResolveTypeRef(module, bare); ok {
			resolvedModule = m
		}
	}
	return &typesys.UnionType{Module: resolvedModule, Name: bare, Params: params}
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// isFloatLiteral is used by literal inference to decide whether a
// number_literal_expr token contains a decimal point or an exponent
// marker (e/E) (-> Float) or not (-> the polymorphic Number type, spec
// §4.E).
func isFloatLiteral(text string) bool {
	for _, r := range text {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}

func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
