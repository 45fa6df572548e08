// Package typesys implements the core's tagged-variant type model
// (spec §3/§4.B): a closed sum type for inferred types, a fresh
// type-variable generator, and the "alias" metadata that lets the
// resolver trace a record field back to the type alias that owns it.
package typesys

import (
	"fmt"
	"sort"
	"strings"
)

//sumtype:decl
type Type interface {
	isType()
	Accept(v Visitor) Type
	String() string
	Copy() Type
}

func (*VarType) isType()            {}
func (*FuncType) isType()           {}
func (*TupleType) isType()          {}
func (*UnionType) isType()          {}
func (*RecordType) isType()         {}
func (*MutableRecordType) isType()  {}
func (*UnitType) isType()           {}
func (*InProgressBindingType) isType() {}
func (*UnknownType) isType()        {}

// TypeAlias is metadata only (spec §3 invariants): it never affects
// structural equality of the type it decorates, but the resolver (4.F)
// consults it to find "the owning type alias" for a record.
type TypeAlias struct {
	Module string
	Name   string
	// NodeID identifies the type_alias_declaration/type_declaration node
	// that introduced this alias, within Module's file.
	NodeID int
	// IsRecordAlias is true when the aliased expression is itself a
	// record type (vs. a plain sum type / other alias).
	IsRecordAlias bool
}

// Prune follows a chain of substituted VarType instances down to the
// first concrete type (or unbound variable) it resolves to. This is a
// cheap local alternative to asking the substitution table, used when a
// caller already has the Type value in hand (no table lookup needed).
func Prune(t Type) Type {
	if v, ok := t.(*VarType); ok && v.Instance != nil {
		resolved := Prune(v.Instance)
		v.Instance = resolved
		return resolved
	}
	return t
}

// --- VarType ---

type VarType struct {
	ID    int
	Name  string // original annotation name, set for rigid vars
	Rigid bool   // true for vars introduced by a user type annotation
	// Instance is set by Prune/unification shortcuts; the substitution
	// table (internal/subst) is the authoritative source of truth during
	// inference, this is a local cache some call sites use directly.
	Instance Type
	Alias    *TypeAlias
}

func NewVarType(id int) *VarType { return &VarType{ID: id} }

func NewRigidVarType(id int, name string) *VarType {
	return &VarType{ID: id, Name: name, Rigid: true}
}

func (t *VarType) String() string {
	if t.Instance != nil {
		return Prune(t).String()
	}
	if t.Rigid {
		return t.Name
	}
	return fmt.Sprintf("t%d", t.ID)
}
func (t *VarType) Copy() Type {
	cp := *t
	return &cp
}

// --- FuncType ---

type FuncType struct {
	Params []Type
	Ret    Type
	Alias  *TypeAlias
}

func NewFuncType(params []Type, ret Type) *FuncType {
	return &FuncType{Params: params, Ret: ret}
}

func (t *FuncType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + t.Ret.String()
}
func (t *FuncType) Copy() Type {
	params := make([]Type, len(t.Params))
	copy(params, t.Params)
	cp := *t
	cp.Params = params
	return &cp
}

// --- TupleType ---

type TupleType struct {
	Elems []Type
	Alias *TypeAlias
}

func NewTupleType(elems ...Type) *TupleType { return &TupleType{Elems: elems} }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TupleType) Copy() Type {
	elems := make([]Type, len(t.Elems))
	copy(elems, t.Elems)
	cp := *t
	cp.Elems = elems
	return &cp
}

// --- UnionType ---

// UnionType covers both nominal sum-type names and type-alias references
// (spec §9 design note: keeping them in the same variant simplifies
// unification; disambiguation happens at use-sites by consulting the
// target declaration's node kind).
type UnionType struct {
	Module string
	Name   string
	Params []Type
	Alias  *TypeAlias
}

func NewUnionType(module, name string, params ...Type) *UnionType {
	return &UnionType{Module: module, Name: name, Params: params}
}

// Builtins, encoded as canonical (module, name) pairs per spec §4.B.
func IntType() *UnionType    { return NewUnionType("Basics", "Int") }
func FloatType() *UnionType  { return NewUnionType("Basics", "Float") }
func BoolType() *UnionType   { return NewUnionType("Basics", "Bool") }
func StringType() *UnionType { return NewUnionType("String", "String") }
func CharType() *UnionType   { return NewUnionType("Char", "Char") }
func ListType(elem Type) *UnionType { return NewUnionType("List", "List", elem) }
func MaybeType(elem Type) *UnionType { return NewUnionType("Maybe", "Maybe", elem) }
// NumberType is the polymorphic literal type used for number literals
// lacking a decimal point (spec §4.E); it unifies with both Int and Float.
func NumberType() *UnionType { return NewUnionType("Basics", "number") }

func (t *UnionType) String() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return t.Name + " " + strings.Join(parts, " ")
}
func (t *UnionType) Copy() Type {
	params := make([]Type, len(t.Params))
	copy(params, t.Params)
	cp := *t
	cp.Params = params
	return &cp
}

// --- RecordType (closed) and MutableRecordType (open row) ---

// FieldRef records one syntactic mention of a record field, keyed later
// by field name in the per-file field_references table (spec §4.E).
type FieldRef struct {
	URI    string
	NodeID int
}

// Fields is an ordered name->type map: Elm record field order is
// significant for edit bookkeeping (remove-field punctuation rules), so
// this is not a plain Go map.
type Fields struct {
	names []string
	index map[string]int
	types []Type
}

func NewFields() *Fields {
	return &Fields{index: map[string]int{}}
}

func (f *Fields) Set(name string, t Type) {
	if i, ok := f.index[name]; ok {
		f.types[i] = t
		return
	}
	f.index[name] = len(f.names)
	f.names = append(f.names, name)
	f.types = append(f.types, t)
}

func (f *Fields) Get(name string) (Type, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.types[i], true
}

func (f *Fields) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f *Fields) Len() int { return len(f.names) }

func (f *Fields) Copy() *Fields {
	cp := NewFields()
	for i, n := range f.names {
		cp.Set(n, f.types[i])
	}
	return cp
}

// Each calls fn for every field in declaration order.
func (f *Fields) Each(fn func(name string, t Type)) {
	for i, n := range f.names {
		fn(n, f.types[i])
	}
}

type RecordType struct {
	Fields    *Fields
	BaseType  Type // optional: set for `{ r | ... }` record-update results
	Alias     *TypeAlias
	FieldRefs map[string][]FieldRef
}

func NewRecordType(fields *Fields) *RecordType {
	return &RecordType{Fields: fields, FieldRefs: map[string][]FieldRef{}}
}

func (t *RecordType) String() string {
	names := t.Fields.Names()
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		ty, _ := t.Fields.Get(n)
		parts = append(parts, n+" : "+ty.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (t *RecordType) Copy() Type {
	cp := *t
	cp.Fields = t.Fields.Copy()
	return &cp
}

// MutableRecordType represents an open row during inference: a record
// known to have at least the listed fields, possibly more (spec
// glossary: "open row"). It is demoted to RecordType by FreezeRecord once
// inference for its scope completes.
type MutableRecordType struct {
	Fields    *Fields
	BaseType  Type
	FieldRefs map[string][]FieldRef
}

func NewMutableRecordType() *MutableRecordType {
	return &MutableRecordType{Fields: NewFields(), FieldRefs: map[string][]FieldRef{}}
}

func (t *MutableRecordType) String() string {
	names := t.Fields.Names()
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		ty, _ := t.Fields.Get(n)
		parts = append(parts, n+" : "+ty.String())
	}
	return "{" + strings.Join(parts, ", ") + ", ...}"
}
func (t *MutableRecordType) Copy() Type {
	cp := *t
	cp.Fields = t.Fields.Copy()
	return &cp
}

// FreezeRecord demotes a MutableRecordType to a closed RecordType once its
// containing inference (typically one value_declaration body) completes
// (spec §4.B).
func FreezeRecord(mr *MutableRecordType, alias *TypeAlias) *RecordType {
	return &RecordType{
		Fields:    mr.Fields.Copy(),
		BaseType:  mr.BaseType,
		Alias:     alias,
		FieldRefs: mr.FieldRefs,
	}
}

// --- Unit, InProgressBinding, Unknown ---

type UnitType struct {
	Alias *TypeAlias
}

func NewUnitType() *UnitType { return &UnitType{} }
func (t *UnitType) String() string { return "()" }
func (t *UnitType) Copy() Type     { cp := *t; return &cp }

// InProgressBindingType marks a let-binding whose own body is still being
// inferred (guards against infinite recursion when a binding refers to
// itself before its type is known).
type InProgressBindingType struct{}

func NewInProgressBindingType() *InProgressBindingType { return &InProgressBindingType{} }
func (t *InProgressBindingType) String() string         { return "<in progress>" }
func (t *InProgressBindingType) Copy() Type             { return &InProgressBindingType{} }

type UnknownType struct{}

func NewUnknownType() *UnknownType { return &UnknownType{} }
func (t *UnknownType) String() string { return "?" }
func (t *UnknownType) Copy() Type     { return &UnknownType{} }
