package infer

import (
	"github.com/elmlsp/elmlsp/internal/typesys"
)

// Unify reconciles t1 and t2, recording any new substitutions in
// sub. Grounded on the teacher's Checker.Unify (internal/checker/unify.go):
// prune both sides first, dispatch on the pruned shapes, and bind any
// flexible type variable encountered along the way. Rigid variables (bound
// by an enclosing type-alias parameter or annotation) never get bound by
// unification; two different rigid variables unify only with themselves.
func Unify(sub Subster, t1, t2 typesys.Type) []error {
	t1 = sub.Resolve(t1)
	t2 = sub.Resolve(t2)

	// | VarType, VarType (same id) -> ...
	if v1, ok := t1.(*typesys.VarType); ok {
		if v2, ok := t2.(*typesys.VarType); ok && v1.ID == v2.ID {
			return nil
		}
	}

	// | VarType (flexible), _ -> ...
	if v1, ok := t1.(*typesys.VarType); ok && !v1.Rigid {
		return bind(sub, v1, t2)
	}
	// | _, VarType (flexible) -> ...
	if v2, ok := t2.(*typesys.VarType); ok && !v2.Rigid {
		return bind(sub, v2, t1)
	}
	// | VarType (rigid), VarType (rigid) -> only unify with themselves
	if v1, ok := t1.(*typesys.VarType); ok {
		if v2, ok := t2.(*typesys.VarType); ok {
			if v1.ID == v2.ID {
				return nil
			}
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
	}

	// | UnknownType, _ / _, UnknownType -> always compatible (spec §9:
	// used as the "could not infer" placeholder, must not cascade errors).
	if _, ok := t1.(*typesys.UnknownType); ok {
		return nil
	}
	if _, ok := t2.(*typesys.UnknownType); ok {
		return nil
	}

	// | InProgressBindingType, _ -> a recursive-reference placeholder
	// unifies with anything (its real type will be substituted once the
	// declaration finishes inferring).
	if _, ok := t1.(*typesys.InProgressBindingType); ok {
		return nil
	}
	if _, ok := t2.(*typesys.InProgressBindingType); ok {
		return nil
	}

	switch a := t1.(type) {
	case *typesys.UnitType:
		if _, ok := t2.(*typesys.UnitType); ok {
			return nil
		}
		return []error{&CannotUnifyError{T1: t1, T2: t2}}

	case *typesys.UnionType:
		b, ok := t2.(*typesys.UnionType)
		if !ok {
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
		if a.Module != b.Module || a.Name != b.Name {
			// Number is the polymorphic numeric literal type: it unifies
			// with either Int or Float (spec §4.E).
			if a.Name == "number" && (b.Name == "Int" || b.Name == "Float") {
				return nil
			}
			if b.Name == "number" && (a.Name == "Int" || a.Name == "Float") {
				return nil
			}
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
		if len(a.Params) != len(b.Params) {
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
		var errs []error
		for i := range a.Params {
			errs = append(errs, Unify(sub, a.Params[i], b.Params[i])...)
		}
		return errs

	case *typesys.FuncType:
		b, ok := t2.(*typesys.FuncType)
		if !ok {
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
		if len(a.Params) != len(b.Params) {
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
		var errs []error
		for i := range a.Params {
			errs = append(errs, Unify(sub, a.Params[i], b.Params[i])...)
		}
		errs = append(errs, Unify(sub, a.Ret, b.Ret)...)
		return errs

	case *typesys.TupleType:
		b, ok := t2.(*typesys.TupleType)
		if !ok || len(a.Elems) != len(b.Elems) {
			return []error{&CannotUnifyError{T1: t1, T2: t2}}
		}
		var errs []error
		for i := range a.Elems {
			errs = append(errs, Unify(sub, a.Elems[i], b.Elems[i])...)
		}
		return errs

	case *typesys.RecordType:
		return unifyRecordLike(sub, a.Fields, t2)

	case *typesys.MutableRecordType:
		// An open row against a closed record: every field of the row must
		// exist in the record; the record may have more.
		if b, ok := t2.(*typesys.RecordType); ok {
			var errs []error
			for _, name := range a.Fields.Names() {
				at, _ := a.Fields.Get(name)
				bt, ok := b.Fields.Get(name)
				if !ok {
					errs = append(errs, &MissingFieldError{Field: name, Record: t2})
					continue
				}
				errs = append(errs, Unify(sub, at, bt)...)
			}
			return errs
		}
		return unifyRecordLike(sub, a.Fields, t2)
	}

	return []error{&CannotUnifyError{T1: t1, T2: t2}}
}

// unifyRecordLike unifies a's fields against t2, which may be a closed
// RecordType (exact field-set match) or an open MutableRecordType (each
// of a's fields is unified with t2's field of the same name when t2 has
// one, and otherwise added to t2, since t2 is still growing; t2's extra
// fields are left as they are). Grounded on the teacher's row-typing-free RecordType
// handling, adapted for this language's `{ r | field = ... }` updates.
func unifyRecordLike(sub Subster, aFields *typesys.Fields, t2 typesys.Type) []error {
	switch b := t2.(type) {
	case *typesys.RecordType:
		if aFields.Len() != b.Fields.Len() {
			return []error{&CannotUnifyError{T1: typesys.NewRecordType(aFields), T2: t2}}
		}
		var errs []error
		for _, name := range aFields.Names() {
			at, _ := aFields.Get(name)
			bt, ok := b.Fields.Get(name)
			if !ok {
				errs = append(errs, &MissingFieldError{Field: name, Record: t2})
				continue
			}
			errs = append(errs, Unify(sub, at, bt)...)
		}
		return errs
	case *typesys.MutableRecordType:
		var errs []error
		for _, name := range aFields.Names() {
			at, _ := aFields.Get(name)
			if bt, ok := b.Fields.Get(name); ok {
				errs = append(errs, Unify(sub, at, bt)...)
			} else {
				b.Fields.Set(name, at)
			}
		}
		return errs
	}
	return []error{&CannotUnifyError{T1: typesys.NewRecordType(aFields), T2: t2}}
}

// Subster is the narrow interface unify needs from subst.Table, kept
// separate so tests can substitute a fake.
type Subster interface {
	Set(varID int, ty typesys.Type)
	Resolve(ty typesys.Type) typesys.Type
}

// bind records v -> t after an occurs check, unless v already resolves
// to t (a no-op) or v occurs free within t (a recursive type, spec §9:
// rejected rather than producing an infinite type).
func bind(sub Subster, v *typesys.VarType, t typesys.Type) []error {
	if tv, ok := t.(*typesys.VarType); ok && tv.ID == v.ID {
		return nil
	}
	if occursIn(v.ID, t) {
		return []error{&RecursiveUnificationError{T1: v, T2: t}}
	}
	sub.Set(v.ID, t)
	return nil
}

func occursIn(varID int, t typesys.Type) bool {
	found := false
	t.Accept(occursVisitorFunc(func(ty typesys.Type) {
		if v, ok := ty.(*typesys.VarType); ok && v.ID == varID {
			found = true
		}
	}))
	return found
}

type occursVisitorFunc func(typesys.Type)

func (f occursVisitorFunc) EnterType(t typesys.Type) typesys.Type {
	f(t)
	return nil
}
func (f occursVisitorFunc) ExitType(t typesys.Type) typesys.Type { return nil }
