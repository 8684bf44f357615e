package cc11

// lowerInitList lowers init into stores through addr, per spec.md
// §4.4.2's "init-list" rule: scalars store directly; a struct or
// array brace list first stores zeroinitializer over the whole
// object, then descends field-by-field (structs) or element-by-element
// (arrays) via getelementptr, so omitted trailing elements read as
// zero. This path is only used at function scope, where the frame is
// not pre-zeroed the way a global is.
func (fg *funcGen) lowerInitList(addr IRExpr, typ IRType, astType Type, init Expr) {
	list, isList := init.(*InitListExpr)
	if !isList {
		v := fg.lowerExpr(init)
		v = fg.convertTo(v, typ, init.Base().Type, astType)
		fg.emit(&IRStoreStmt{Typ: typ, Val: v, Ptr: addr})
		return
	}
	switch at := ResolveTypedefs(astType).(type) {
	case *StructType:
		if !at.IsUnion {
			fg.emit(&IRStoreStmt{Typ: typ, Val: zeroInitializer(typ), Ptr: addr})
		}
		fg.lowerStructInitList(addr, typ, at, list)
	case *ArrType:
		fg.emit(&IRStoreStmt{Typ: typ, Val: zeroInitializer(typ), Ptr: addr})
		fg.lowerArrayInitList(addr, typ, at, list)
	default:
		if len(list.Items) == 1 {
			fg.lowerInitList(addr, typ, astType, initItemExpr(list.Items[0]))
		}
	}
}

func (fg *funcGen) lowerStructInitList(addr IRExpr, typ IRType, st *StructType, list *InitListExpr) {
	if st.IsUnion {
		fg.lowerUnionInitList(addr, st, list)
		return
	}
	idx := 0
	for _, item := range list.Items {
		if len(item.Designators) > 0 && item.Designators[0].Field != "" {
			idx = fieldIndex(st, item.Designators[0].Field)
		}
		if idx >= len(st.Fields) {
			break
		}
		f := st.Fields[idx]
		fieldIR := fg.g.lowerType(f.Type)
		fieldAddr := &IRGetElementPtr{Base: addr, BaseTyp: typ, Idxs: []IRExpr{zeroIdx(), intIdx(idx)}, Typ: &IRPtrType{Base: fieldIR}}
		fg.lowerInitList(fieldAddr, fieldIR, f.Type, initItemExpr(item))
		idx++
	}
}

// lowerUnionInitList writes only the designated (or first) member,
// through a bitcast pointer to that member's type rather than a
// getelementptr-by-field-index — idStructType (irgen.go) lowers a
// union to a single byte-array slot, so every member lives at offset
// 0, and lowerMemberAddr (irgen_expr.go) already reads members the
// same way. Untouched bytes keep the alloca's existing content: unlike
// a struct or array, a union gets no zeroinitializer store first.
func (fg *funcGen) lowerUnionInitList(addr IRExpr, st *StructType, list *InitListExpr) {
	if len(list.Items) == 0 {
		return
	}
	idx := 0
	if len(list.Items[0].Designators) > 0 && list.Items[0].Designators[0].Field != "" {
		idx = fieldIndex(st, list.Items[0].Designators[0].Field)
	}
	if idx >= len(st.Fields) {
		return
	}
	f := st.Fields[idx]
	fieldIR := fg.g.lowerType(f.Type)
	fieldAddr := &IRConvert{Kind: "bitcast", Src: addr, Dst: &IRPtrType{Base: fieldIR}}
	fg.lowerInitList(fieldAddr, fieldIR, f.Type, initItemExpr(list.Items[0]))
}

func (fg *funcGen) lowerArrayInitList(addr IRExpr, typ IRType, at *ArrType, list *InitListExpr) {
	elemIR := fg.g.lowerType(at.Base)
	idx := int64(0)
	for _, item := range list.Items {
		if len(item.Designators) > 0 && item.Designators[0].Field == "" {
			v, _ := foldConstExpr(item.Designators[0].Index)
			idx = v
		}
		elemAddr := &IRGetElementPtr{Base: addr, BaseTyp: typ, Idxs: []IRExpr{zeroIdx(), intIdx(int(idx))}, Typ: &IRPtrType{Base: elemIR}}
		fg.lowerInitList(elemAddr, elemIR, at.Base, initItemExpr(item))
		idx++
	}
}

// lowerConstInit builds a compile-time IRExpr initializer for a global
// variable, recursively folding nested brace lists into IRConstStruct
// /IRConstArr constants. String literals and scalar constant
// expressions are the only leaves; anything not foldable becomes a
// best-effort zero (the checker rejects non-constant global
// initializers before lowering ever sees one in practice).
func (g *IRGen) lowerConstInit(init Expr, astType Type) IRExpr {
	if list, ok := init.(*InitListExpr); ok {
		return g.lowerConstInitList(list, astType)
	}
	if sl, ok := init.(*StringLitExpr); ok {
		gv := g.internString(*sl.Value)
		return gv.Init
	}
	if v, ok := foldConstExpr(init); ok {
		return &IRConst{Kind: IRConstInt, Typ: g.lowerType(astType), IntVal: v}
	}
	if fl, ok := init.(*FloatLitExpr); ok {
		return &IRConst{Kind: IRConstFloat, Typ: g.lowerType(astType), FltVal: fl.Value}
	}
	return zeroInitializer(g.lowerType(astType))
}

func (g *IRGen) lowerConstInitList(list *InitListExpr, astType Type) IRExpr {
	typ := g.lowerType(astType)
	switch at := ResolveTypedefs(astType).(type) {
	case *StructType:
		if at.IsUnion {
			return g.lowerConstUnionInit(at, list, typ)
		}
		members := make([]IRExpr, len(at.Fields))
		idx := 0
		for _, item := range list.Items {
			if len(item.Designators) > 0 && item.Designators[0].Field != "" {
				idx = fieldIndex(at, item.Designators[0].Field)
			}
			if idx >= len(at.Fields) {
				break
			}
			members[idx] = g.lowerConstInit(initItemExpr(item), at.Fields[idx].Type)
			idx++
		}
		for i, f := range at.Fields {
			if members[i] == nil {
				members[i] = zeroInitializer(g.lowerType(f.Type))
			}
		}
		return &IRConst{Kind: IRConstStruct, Typ: typ, Members: members}
	case *ArrType:
		n := at.ResolvedNElems
		if n == 0 {
			n = int64(len(list.Items))
		}
		members := make([]IRExpr, n)
		idx := int64(0)
		for _, item := range list.Items {
			if len(item.Designators) > 0 && item.Designators[0].Field == "" {
				v, _ := foldConstExpr(item.Designators[0].Index)
				idx = v
			}
			if idx < n {
				members[idx] = g.lowerConstInit(initItemExpr(item), at.Base)
			}
			idx++
		}
		elemIR := g.lowerType(at.Base)
		for i := range members {
			if members[i] == nil {
				members[i] = zeroInitializer(elemIR)
			}
		}
		return &IRConst{Kind: IRConstArr, Typ: typ, Members: members}
	default:
		if len(list.Items) == 1 {
			return g.lowerConstInit(initItemExpr(list.Items[0]), astType)
		}
		return zeroInitializer(typ)
	}
}

// lowerConstUnionInit builds a union's global-constant initializer per
// spec.md §4.4.2's explicit union rule: "the target field is written
// and the tail is padded with undef bytes to match the union's total
// size." idStructType (irgen.go) lowers every union to a single
// byte-array slot, so the printed literal here — the designated (or
// first) member's value followed by an undef byte array covering the
// rest of the union's size — is what fills that slot; printConst
// (irprint.go) renders struct-kind constants member-by-member without
// cross-checking them against the named type's own field list, so
// this two-(or one-)member literal prints correctly regardless of the
// named type's single-field shape.
func (g *IRGen) lowerConstUnionInit(st *StructType, list *InitListExpr, typ IRType) IRExpr {
	ComputeLayout(st)
	if len(list.Items) == 0 {
		return zeroInitializer(typ)
	}
	idx := 0
	if len(list.Items[0].Designators) > 0 && list.Items[0].Designators[0].Field != "" {
		idx = fieldIndex(st, list.Items[0].Designators[0].Field)
	}
	if idx >= len(st.Fields) {
		return zeroInitializer(typ)
	}
	f := st.Fields[idx]
	val := g.lowerConstInit(initItemExpr(list.Items[0]), f.Type)
	pad := st.ComputedSize - SizeOf(f.Type)
	if pad <= 0 {
		return &IRConst{Kind: IRConstStruct, Typ: typ, Members: []IRExpr{val}}
	}
	padding := &IRConst{Kind: IRConstUndef, Typ: &IRArrType{NElems: pad, Elem: &IRIntType{Width: 8}}}
	return &IRConst{Kind: IRConstStruct, Typ: typ, Members: []IRExpr{val, padding}}
}
