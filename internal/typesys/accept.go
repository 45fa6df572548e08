package typesys

// Accept implementations. Each rebuilds its children first (so a visitor
// sees fully-substituted subtrees on ExitType), preserving the Alias
// field across rewrites per spec §9 ("alias is the right source of truth
// for which alias owns this field" — it must survive substitution).

func (t *VarType) Accept(v Visitor) Type {
	pruned := Prune(t)
	if pruned != t {
		return pruned.Accept(v)
	}
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	if r := v.ExitType(cur); r != nil {
		return r
	}
	return cur
}

func (t *FuncType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	ft, ok := cur.(*FuncType)
	if !ok {
		// EnterType replaced this with a concrete non-func type; don't
		// recurse into params/ret that no longer apply.
		if r := v.ExitType(cur); r != nil {
			return r
		}
		return cur
	}
	newParams := make([]Type, len(ft.Params))
	for i, p := range ft.Params {
		newParams[i] = p.Accept(v)
	}
	newRet := ft.Ret.Accept(v)
	result := &FuncType{Params: newParams, Ret: newRet, Alias: ft.Alias}
	if r := v.ExitType(result); r != nil {
		return r
	}
	return result
}

func (t *TupleType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	tt, ok := cur.(*TupleType)
	if !ok {
		if r := v.ExitType(cur); r != nil {
			return r
		}
		return cur
	}
	newElems := make([]Type, len(tt.Elems))
	for i, e := range tt.Elems {
		newElems[i] = e.Accept(v)
	}
	result := &TupleType{Elems: newElems, Alias: tt.Alias}
	if r := v.ExitType(result); r != nil {
		return r
	}
	return result
}

func (t *UnionType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	ut, ok := cur.(*UnionType)
	if !ok {
		if r := v.ExitType(cur); r != nil {
			return r
		}
		return cur
	}
	newParams := make([]Type, len(ut.Params))
	for i, p := range ut.Params {
		newParams[i] = p.Accept(v)
	}
	result := &UnionType{Module: ut.Module, Name: ut.Name, Params: newParams, Alias: ut.Alias}
	if r := v.ExitType(result); r != nil {
		return r
	}
	return result
}

func (t *RecordType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	rt, ok := cur.(*RecordType)
	if !ok {
		if r := v.ExitType(cur); r != nil {
			return r
		}
		return cur
	}
	newFields := NewFields()
	rt.Fields.Each(func(name string, ft Type) {
		newFields.Set(name, ft.Accept(v))
	})
	var newBase Type
	if rt.BaseType != nil {
		newBase = rt.BaseType.Accept(v)
	}
	result := &RecordType{Fields: newFields, BaseType: newBase, Alias: rt.Alias, FieldRefs: rt.FieldRefs}
	if r := v.ExitType(result); r != nil {
		return r
	}
	return result
}

func (t *MutableRecordType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	mr, ok := cur.(*MutableRecordType)
	if !ok {
		if r := v.ExitType(cur); r != nil {
			return r
		}
		return cur
	}
	newFields := NewFields()
	mr.Fields.Each(func(name string, ft Type) {
		newFields.Set(name, ft.Accept(v))
	})
	var newBase Type
	if mr.BaseType != nil {
		newBase = mr.BaseType.Accept(v)
	}
	result := &MutableRecordType{Fields: newFields, BaseType: newBase, FieldRefs: mr.FieldRefs}
	if r := v.ExitType(result); r != nil {
		return r
	}
	return result
}

func (t *UnitType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	if r := v.ExitType(cur); r != nil {
		return r
	}
	return cur
}

func (t *InProgressBindingType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	if r := v.ExitType(cur); r != nil {
		return r
	}
	return cur
}

func (t *UnknownType) Accept(v Visitor) Type {
	var cur Type = t
	if r := v.EnterType(cur); r != nil {
		cur = r
	}
	if r := v.ExitType(cur); r != nil {
		return r
	}
	return cur
}
