package cc11

// lowerExpr lowers e for its value, per spec.md §4.4.2's expression
// rules. lowerLValue (below) computes an address instead, used by
// assignment targets and unary "&".
func (fg *funcGen) lowerExpr(e Expr) IRExpr {
	switch x := e.(type) {
	case *IntLitExpr:
		return &IRConst{Kind: IRConstInt, Typ: fg.g.lowerType(x.Type), IntVal: int64(x.Value)}
	case *FloatLitExpr:
		return &IRConst{Kind: IRConstFloat, Typ: fg.g.lowerType(x.Type), FltVal: x.Value}
	case *CharLitExpr:
		return &IRConst{Kind: IRConstInt, Typ: &IRIntType{Width: 32}, IntVal: x.Value}
	case *StringLitExpr:
		gv := fg.g.internString(*x.Value)
		return &IRGetElementPtr{
			Base: &IRVar{Name: gv.Name, Typ: gv.Typ}, BaseTyp: gv.Typ,
			Idxs: []IRExpr{zeroIdx(), zeroIdx()},
			Typ:  &IRPtrType{Base: &IRIntType{Width: 8}},
		}
	case *ParenExpr:
		return fg.lowerExpr(x.X)
	case *IdentExpr:
		return fg.lowerIdentValue(x)
	case *UnaryExpr:
		return fg.lowerUnary(x)
	case *PostfixExpr:
		return fg.lowerPostfix(x)
	case *SizeofExpr:
		return fg.constI64(constExprSize(x))
	case *AlignofExpr:
		return fg.constI64(constExprAlign(x))
	case *OffsetofExpr:
		v, _ := offsetofValue(x)
		return fg.constI64(v)
	case *CastExpr:
		return fg.lowerCast(x)
	case *BinaryExpr:
		return fg.lowerBinary(x)
	case *CondExpr:
		return fg.lowerCondExpr(x)
	case *AssignExpr:
		return fg.lowerAssign(x)
	case *CommaExpr:
		fg.lowerExpr(x.L)
		return fg.lowerExpr(x.R)
	case *CallExpr:
		return fg.lowerCall(x)
	case *MemberExpr:
		addr, elem := fg.lowerMemberAddr(x)
		return fg.emitAssign(&IRLoad{Ptr: addr, Typ: elem})
	case *IndexExpr:
		addr, elem := fg.lowerIndexAddr(x)
		return fg.emitAssign(&IRLoad{Ptr: addr, Typ: elem})
	case *CompoundLiteralExpr:
		return fg.lowerCompoundLiteral(x)
	case *GenericExpr:
		return fg.lowerExpr(x.Resolved)
	default:
		return &IRConst{Kind: IRConstZero, Typ: &IRIntType{Width: 32}}
	}
}

func zeroIdx() IRExpr { return &IRConst{Kind: IRConstInt, Typ: &IRIntType{Width: 32}} }

func (fg *funcGen) constI64(v int64) IRExpr {
	return &IRConst{Kind: IRConstInt, Typ: &IRIntType{Width: 64}, IntVal: v}
}

func constExprSize(x *SizeofExpr) int64 {
	if x.TypeArg != nil {
		return SizeOf(x.TypeArg)
	}
	if x.X != nil && x.X.Base().Type != nil {
		return SizeOf(x.X.Base().Type)
	}
	return 0
}

func constExprAlign(x *AlignofExpr) int64 {
	if x.TypeArg != nil {
		return AlignOf(x.TypeArg)
	}
	return 0
}

func (fg *funcGen) lowerIdentValue(x *IdentExpr) IRExpr {
	if loc, ok := fg.locals[x.Name]; ok {
		return fg.emitAssign(&IRLoad{Ptr: loc.addr, Typ: loc.elem})
	}
	if x.Decl != nil && x.Decl.Kind == EntryEnumConst {
		return &IRConst{Kind: IRConstInt, Typ: &IRIntType{Width: 32}, IntVal: x.Decl.Value}
	}
	// Global variable or function reference.
	typ := fg.g.lowerType(x.Type)
	if _, isFn := ResolveTypedefs(x.Type).(*FuncType); isFn {
		return &IRVar{Name: x.Name, Typ: typ}
	}
	gv := &IRVar{Name: x.Name, Typ: typ}
	return fg.emitAssign(&IRLoad{Ptr: gv, Typ: typ})
}

// lowerLValue computes the address of an lvalue expression, for
// assignment destinations, "&", "++/--" and member/index access.
func (fg *funcGen) lowerLValue(e Expr) (addr IRExpr, elem IRType) {
	switch x := e.(type) {
	case *IdentExpr:
		if loc, ok := fg.locals[x.Name]; ok {
			return loc.addr, loc.elem
		}
		typ := fg.g.lowerType(x.Type)
		return &IRVar{Name: x.Name, Typ: typ}, typ
	case *ParenExpr:
		return fg.lowerLValue(x.X)
	case *UnaryExpr:
		if x.Op == UnDeref {
			p := fg.lowerExpr(x.X)
			return p, fg.g.lowerType(x.Type)
		}
	case *MemberExpr:
		return fg.lowerMemberAddr(x)
	case *IndexExpr:
		return fg.lowerIndexAddr(x)
	}
	// Fallback: shouldn't happen once the checker has run; materialize
	// a scratch slot so lowering can proceed without a nil pointer.
	typ := fg.g.lowerType(e.Base().Type)
	slot := fg.newTemp()
	fg.emitPrefix(&IRAssignStmt{Dest: slot, Src: &IRAlloca{Elem: typ, Align: 1}})
	return &IRVar{Name: slot, Local: true, Typ: &IRPtrType{Base: typ}}, typ
}

func (fg *funcGen) lowerMemberAddr(x *MemberExpr) (addr IRExpr, elem IRType) {
	var base IRExpr
	var baseTyp IRType
	if x.Arrow {
		base = fg.lowerExpr(x.X)
		baseTyp = fg.g.lowerType(derefType(x.X.Base().Type))
	} else {
		base, baseTyp = fg.lowerLValue(x.X)
	}
	st := structTypeOf(x.X.Base().Type, x.Arrow)
	fi := fieldIndex(st, x.Field)
	elem = fg.g.lowerType(st.Fields[fi].Type)
	if st.IsUnion {
		return &IRConvert{Kind: "bitcast", Src: base, Dst: &IRPtrType{Base: elem}}, elem
	}
	gep := &IRGetElementPtr{Base: base, BaseTyp: baseTyp, Idxs: []IRExpr{zeroIdx(), intIdx(fi)}, Typ: &IRPtrType{Base: elem}}
	return gep, elem
}

func intIdx(i int) IRExpr { return &IRConst{Kind: IRConstInt, Typ: &IRIntType{Width: 32}, IntVal: int64(i)} }

func derefType(t Type) Type {
	switch tt := ResolveTypedefs(t).(type) {
	case *PtrType:
		return tt.Base
	case *ArrType:
		return tt.Base
	default:
		return t
	}
}

func structTypeOf(t Type, arrow bool) *StructType {
	r := t
	if arrow {
		r = derefType(t)
	}
	if st, ok := ResolveTypedefs(r).(*StructType); ok {
		return st
	}
	return &StructType{}
}

func (fg *funcGen) lowerIndexAddr(x *IndexExpr) (addr IRExpr, elem IRType) {
	idx := fg.lowerExpr(x.Index)
	switch bt := ResolveTypedefs(x.X.Base().Type).(type) {
	case *ArrType:
		base, baseTyp := fg.lowerLValue(x.X)
		elem = fg.g.lowerType(bt.Base)
		return &IRGetElementPtr{Base: base, BaseTyp: baseTyp, Idxs: []IRExpr{zeroIdx(), idx}, Typ: &IRPtrType{Base: elem}}, elem
	case *PtrType:
		base := fg.lowerExpr(x.X)
		elem = fg.g.lowerType(bt.Base)
		return &IRGetElementPtr{Base: base, BaseTyp: elem, Idxs: []IRExpr{idx}, Typ: &IRPtrType{Base: elem}}, elem
	default:
		elem = fg.g.lowerType(x.Type)
		return fg.lowerExpr(x.X), elem
	}
}

func (fg *funcGen) lowerUnary(x *UnaryExpr) IRExpr {
	switch x.Op {
	case UnAddr:
		addr, elem := fg.lowerLValue(x.X)
		_ = elem
		return addr
	case UnDeref:
		p := fg.lowerExpr(x.X)
		return fg.emitAssign(&IRLoad{Ptr: p, Typ: fg.g.lowerType(x.Type)})
	case UnPlus:
		return fg.lowerExpr(x.X)
	case UnMinus:
		v := fg.lowerExpr(x.X)
		op := "sub"
		if isIRFloat(v.Type()) {
			op = "fsub"
		}
		return fg.emitAssign(&IRBinOp{Op: op, L: zeroOf(v.Type()), R: v, Typ: v.Type()})
	case UnBitNot:
		v := fg.lowerExpr(x.X)
		return fg.emitAssign(&IRBinOp{Op: "xor", L: v, R: allOnesOf(v.Type()), Typ: v.Type()})
	case UnNot:
		v := fg.lowerExpr(x.X)
		var cmp IRExpr
		if isIRFloat(v.Type()) {
			cmp = &IRFCmp{Cond: "oeq", L: v, R: zeroOf(v.Type())}
		} else {
			cmp = &IRICmp{Cond: "eq", L: v, R: zeroOf(v.Type())}
		}
		bit := fg.emitAssign(cmp)
		return fg.emitAssign(&IRConvert{Kind: "zext", Src: bit, Dst: &IRIntType{Width: 32}})
	case UnPreInc, UnPreDec:
		addr, elem := fg.lowerLValue(x.X)
		cur := fg.emitAssign(&IRLoad{Ptr: addr, Typ: elem})
		nv := fg.incDec(cur, elem, x.Op == UnPreInc)
		fg.emit(&IRStoreStmt{Typ: elem, Val: nv, Ptr: addr})
		return nv
	default:
		return fg.lowerExpr(x.X)
	}
}

func (fg *funcGen) incDec(cur IRExpr, elem IRType, inc bool) IRExpr {
	if pt, ok := elem.(*IRPtrType); ok {
		delta := int64(1)
		if !inc {
			delta = -1
		}
		return fg.emitAssign(&IRGetElementPtr{Base: cur, BaseTyp: pt.Base, Idxs: []IRExpr{fg.constI64(delta)}, Typ: elem})
	}
	op := "add"
	if isIRFloat(elem) {
		op = "fadd"
	}
	one := oneOf(elem)
	if !inc {
		if isIRFloat(elem) {
			op = "fsub"
		} else {
			op = "sub"
		}
	}
	return fg.emitAssign(&IRBinOp{Op: op, L: cur, R: one, Typ: elem})
}

func (fg *funcGen) lowerPostfix(x *PostfixExpr) IRExpr {
	addr, elem := fg.lowerLValue(x.X)
	old := fg.emitAssign(&IRLoad{Ptr: addr, Typ: elem})
	nv := fg.incDec(old, elem, x.Op == PostInc)
	fg.emit(&IRStoreStmt{Typ: elem, Val: nv, Ptr: addr})
	return old
}

func isIRFloat(t IRType) bool { _, ok := t.(*IRFloatType); return ok }
func isIRPtr(t IRType) bool   { _, ok := t.(*IRPtrType); return ok }

func zeroOf(t IRType) IRExpr {
	if isIRFloat(t) {
		return &IRConst{Kind: IRConstFloat, Typ: t}
	}
	return &IRConst{Kind: IRConstInt, Typ: t}
}

func oneOf(t IRType) IRExpr {
	if isIRFloat(t) {
		return &IRConst{Kind: IRConstFloat, Typ: t, FltVal: 1}
	}
	return &IRConst{Kind: IRConstInt, Typ: t, IntVal: 1}
}

func allOnesOf(t IRType) IRExpr {
	return &IRConst{Kind: IRConstInt, Typ: t, IntVal: -1}
}

func isUnsignedAST(t Type) bool {
	if bt, ok := ResolveTypedefs(t).(*BasicType); ok {
		return bt.Unsigned
	}
	return false
}

func (fg *funcGen) lowerBinary(x *BinaryExpr) IRExpr {
	if x.Op == BinLogAnd || x.Op == BinLogOr {
		return fg.lowerShortCircuit(x)
	}
	l := fg.lowerExpr(x.L)
	r := fg.lowerExpr(x.R)
	unsigned := isUnsignedAST(x.L.Base().Type) || isUnsignedAST(x.R.Base().Type)
	flt := isIRFloat(l.Type()) || isIRFloat(r.Type())
	lp, lIsPtr := l.Type().(*IRPtrType)
	_, rIsPtr := r.Type().(*IRPtrType)

	switch x.Op {
	case BinAdd:
		if lIsPtr {
			return fg.emitAssign(&IRGetElementPtr{Base: l, BaseTyp: lp.Base, Idxs: []IRExpr{r}, Typ: l.Type()})
		}
		if rIsPtr {
			rp := r.Type().(*IRPtrType)
			return fg.emitAssign(&IRGetElementPtr{Base: r, BaseTyp: rp.Base, Idxs: []IRExpr{l}, Typ: r.Type()})
		}
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fadd", "add"), L: l, R: r, Typ: l.Type()})
	case BinSub:
		if lIsPtr && rIsPtr {
			return fg.emitAssign(&IRConvert{Kind: "ptrtoint", Src: l, Dst: &IRIntType{Width: 64}})
		}
		if lIsPtr {
			neg := fg.emitAssign(&IRBinOp{Op: "sub", L: zeroOf(r.Type()), R: r, Typ: r.Type()})
			return fg.emitAssign(&IRGetElementPtr{Base: l, BaseTyp: lp.Base, Idxs: []IRExpr{neg}, Typ: l.Type()})
		}
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fsub", "sub"), L: l, R: r, Typ: l.Type()})
	case BinMul:
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fmul", "mul"), L: l, R: r, Typ: l.Type()})
	case BinDiv:
		op := "sdiv"
		if flt {
			op = "fdiv"
		} else if unsigned {
			op = "udiv"
		}
		return fg.emitAssign(&IRBinOp{Op: op, L: l, R: r, Typ: l.Type()})
	case BinMod:
		op := "srem"
		if flt {
			op = "frem"
		} else if unsigned {
			op = "urem"
		}
		return fg.emitAssign(&IRBinOp{Op: op, L: l, R: r, Typ: l.Type()})
	case BinBitAnd:
		return fg.emitAssign(&IRBinOp{Op: "and", L: l, R: r, Typ: l.Type()})
	case BinBitOr:
		return fg.emitAssign(&IRBinOp{Op: "or", L: l, R: r, Typ: l.Type()})
	case BinBitXor:
		return fg.emitAssign(&IRBinOp{Op: "xor", L: l, R: r, Typ: l.Type()})
	case BinShl:
		return fg.emitAssign(&IRBinOp{Op: "shl", L: l, R: r, Typ: l.Type()})
	case BinShr:
		op := "ashr"
		if unsigned {
			op = "lshr"
		}
		return fg.emitAssign(&IRBinOp{Op: op, L: l, R: r, Typ: l.Type()})
	case BinEq, BinNe, BinLt, BinGt, BinLe, BinGe:
		return fg.lowerCompare(x.Op, l, r, flt, unsigned)
	default:
		return fg.emitAssign(&IRBinOp{Op: "add", L: l, R: r, Typ: l.Type()})
	}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func (fg *funcGen) lowerCompare(op BinOp, l, r IRExpr, flt, unsigned bool) IRExpr {
	var bit IRExpr
	if flt {
		bit = fg.emitAssign(&IRFCmp{Cond: fcmpCond(op), L: l, R: r})
	} else {
		bit = fg.emitAssign(&IRICmp{Cond: icmpCond(op, unsigned), L: l, R: r})
	}
	return fg.emitAssign(&IRConvert{Kind: "zext", Src: bit, Dst: &IRIntType{Width: 32}})
}

func icmpCond(op BinOp, unsigned bool) string {
	switch op {
	case BinEq:
		return "eq"
	case BinNe:
		return "ne"
	case BinLt:
		return pick(unsigned, "ult", "slt")
	case BinGt:
		return pick(unsigned, "ugt", "sgt")
	case BinLe:
		return pick(unsigned, "ule", "sle")
	default:
		return pick(unsigned, "uge", "sge")
	}
}

func fcmpCond(op BinOp) string {
	switch op {
	case BinEq:
		return "oeq"
	case BinNe:
		return "une"
	case BinLt:
		return "olt"
	case BinGt:
		return "ogt"
	case BinLe:
		return "ole"
	default:
		return "oge"
	}
}

// lowerShortCircuit lowers "&&"/"||" to a branch plus a join-point φ,
// per spec.md §8's worked example 6 and §4.4.2's "Expressions" bullet.
func (fg *funcGen) lowerShortCircuit(x *BinaryExpr) IRExpr {
	l := fg.lowerExpr(x.L)
	lBit := fg.boolify(l)
	rhsLbl := fg.newLabel()
	joinLbl := fg.newLabel()
	startLbl := "entry." + itoa(fg.labelN)
	_ = startLbl
	if x.Op == BinLogAnd {
		fg.emit(&IRBrStmt{Cond: lBit, Then: rhsLbl, Else: joinLbl})
	} else {
		fg.emit(&IRBrStmt{Cond: lBit, Then: joinLbl, Else: rhsLbl})
	}
	fromShort := currentBlockLabel(fg)
	fg.emit(&IRLabelStmt{Name: rhsLbl})
	r := fg.lowerExpr(x.R)
	rBit := fg.boolify(r)
	fg.emit(&IRBrStmt{Then: joinLbl})
	fg.emit(&IRLabelStmt{Name: joinLbl})
	shortVal := &IRConst{Kind: IRConstInt, Typ: &IRIntType{Width: 1}, IntVal: boolToIRConst(x.Op == BinLogOr)}
	phi := fg.emitAssign(&IRPhi{Typ: &IRIntType{Width: 1}, Arms: []IRPhiArm{
		{Value: shortVal, Label: fromShort},
		{Value: rBit, Label: rhsLbl},
	}})
	return fg.emitAssign(&IRConvert{Kind: "zext", Src: phi, Dst: &IRIntType{Width: 32}})
}

func boolToIRConst(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// currentBlockLabel names the block the short-circuit branch came
// from. Blocks before the first explicit label are the function's
// entry block.
func currentBlockLabel(fg *funcGen) string {
	for i := len(fg.body) - 1; i >= 0; i-- {
		if l, ok := fg.body[i].(*IRLabelStmt); ok {
			return l.Name
		}
	}
	return "entry"
}

func (fg *funcGen) boolify(v IRExpr) IRExpr {
	if it, ok := v.Type().(*IRIntType); ok && it.Width == 1 {
		return v
	}
	if isIRFloat(v.Type()) {
		return fg.emitAssign(&IRFCmp{Cond: "one", L: v, R: zeroOf(v.Type())})
	}
	return fg.emitAssign(&IRICmp{Cond: "ne", L: v, R: zeroOf(v.Type())})
}

func (fg *funcGen) lowerCondExpr(x *CondExpr) IRExpr {
	cond := fg.boolify(fg.lowerExpr(x.Cond))
	thenLbl, elseLbl, joinLbl := fg.newLabel(), fg.newLabel(), fg.newLabel()
	fg.emit(&IRBrStmt{Cond: cond, Then: thenLbl, Else: elseLbl})
	fg.emit(&IRLabelStmt{Name: thenLbl})
	tv := fg.lowerExpr(x.Then)
	fg.emit(&IRBrStmt{Then: joinLbl})
	thenEnd := currentBlockLabel(fg)
	fg.emit(&IRLabelStmt{Name: elseLbl})
	ev := fg.lowerExpr(x.Else)
	fg.emit(&IRBrStmt{Then: joinLbl})
	elseEnd := currentBlockLabel(fg)
	fg.emit(&IRLabelStmt{Name: joinLbl})
	typ := fg.g.lowerType(x.Type)
	return fg.emitAssign(&IRPhi{Typ: typ, Arms: []IRPhiArm{{Value: tv, Label: thenEnd}, {Value: ev, Label: elseEnd}}})
}

func (fg *funcGen) lowerAssign(x *AssignExpr) IRExpr {
	addr, elem := fg.lowerLValue(x.LHS)
	if x.Op == AssignPlain {
		v := fg.convertTo(fg.lowerExpr(x.RHS), elem, x.RHS.Base().Type, x.LHS.Base().Type)
		fg.emit(&IRStoreStmt{Typ: elem, Val: v, Ptr: addr})
		return v
	}
	cur := fg.emitAssign(&IRLoad{Ptr: addr, Typ: elem})
	rhs := fg.lowerExpr(x.RHS)
	res := fg.applyCompoundOp(x.Op, cur, rhs, elem, x.LHS.Base().Type)
	fg.emit(&IRStoreStmt{Typ: elem, Val: res, Ptr: addr})
	return res
}

func (fg *funcGen) applyCompoundOp(op AssignOp, l, r IRExpr, elem IRType, lt Type) IRExpr {
	flt := isIRFloat(elem)
	unsigned := isUnsignedAST(lt)
	switch op {
	case AssignAdd:
		if pt, ok := elem.(*IRPtrType); ok {
			return fg.emitAssign(&IRGetElementPtr{Base: l, BaseTyp: pt.Base, Idxs: []IRExpr{r}, Typ: elem})
		}
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fadd", "add"), L: l, R: r, Typ: elem})
	case AssignSub:
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fsub", "sub"), L: l, R: r, Typ: elem})
	case AssignMul:
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fmul", "mul"), L: l, R: r, Typ: elem})
	case AssignDiv:
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "fdiv", pick(unsigned, "udiv", "sdiv")), L: l, R: r, Typ: elem})
	case AssignMod:
		return fg.emitAssign(&IRBinOp{Op: pick(flt, "frem", pick(unsigned, "urem", "srem")), L: l, R: r, Typ: elem})
	case AssignAnd:
		return fg.emitAssign(&IRBinOp{Op: "and", L: l, R: r, Typ: elem})
	case AssignOr:
		return fg.emitAssign(&IRBinOp{Op: "or", L: l, R: r, Typ: elem})
	case AssignXor:
		return fg.emitAssign(&IRBinOp{Op: "xor", L: l, R: r, Typ: elem})
	case AssignShl:
		return fg.emitAssign(&IRBinOp{Op: "shl", L: l, R: r, Typ: elem})
	case AssignShr:
		return fg.emitAssign(&IRBinOp{Op: pick(unsigned, "lshr", "ashr"), L: l, R: r, Typ: elem})
	default:
		return r
	}
}

// convertTo emits the conversion instruction dictated by fromT/toT's
// AST kinds (spec.md §4.4.2's "cast" rule, reused for ordinary
// assignment-induced conversions).
func (fg *funcGen) convertTo(v IRExpr, dstIR IRType, fromT, toT Type) IRExpr {
	if fromT == nil || toT == nil || TypesEqual(fromT, toT) {
		return v
	}
	fromB, fok := ResolveTypedefs(fromT).(*BasicType)
	toB, tok := ResolveTypedefs(toT).(*BasicType)
	if !fok || !tok {
		if _, isPtr := ResolveTypedefs(toT).(*PtrType); isPtr {
			if _, fromPtr := ResolveTypedefs(fromT).(*PtrType); fromPtr {
				return fg.emitAssign(&IRConvert{Kind: "bitcast", Src: v, Dst: dstIR})
			}
		}
		return v
	}
	fromFlt, toFlt := isFloatKind(fromB.Kind), isFloatKind(toB.Kind)
	fromSz, toSz := basicSize(fromB), basicSize(toB)
	switch {
	case fromFlt && toFlt:
		if toSz > fromSz {
			return fg.emitAssign(&IRConvert{Kind: "fpext", Src: v, Dst: dstIR})
		} else if toSz < fromSz {
			return fg.emitAssign(&IRConvert{Kind: "fptrunc", Src: v, Dst: dstIR})
		}
		return v
	case fromFlt && !toFlt:
		if toB.Unsigned {
			return fg.emitAssign(&IRConvert{Kind: "fptoui", Src: v, Dst: dstIR})
		}
		return fg.emitAssign(&IRConvert{Kind: "fptosi", Src: v, Dst: dstIR})
	case !fromFlt && toFlt:
		if fromB.Unsigned {
			return fg.emitAssign(&IRConvert{Kind: "uitofp", Src: v, Dst: dstIR})
		}
		return fg.emitAssign(&IRConvert{Kind: "sitofp", Src: v, Dst: dstIR})
	default:
		if toSz > fromSz {
			if fromB.Unsigned {
				return fg.emitAssign(&IRConvert{Kind: "zext", Src: v, Dst: dstIR})
			}
			return fg.emitAssign(&IRConvert{Kind: "sext", Src: v, Dst: dstIR})
		} else if toSz < fromSz {
			return fg.emitAssign(&IRConvert{Kind: "trunc", Src: v, Dst: dstIR})
		}
		return v
	}
}

func isFloatKind(k BasicKind) bool {
	return k == KFloat || k == KDouble || k == KLongDouble
}

func (fg *funcGen) lowerCast(x *CastExpr) IRExpr {
	v := fg.lowerExpr(x.X)
	dstIR := fg.g.lowerType(x.TypeArg)
	if _, isPtr := ResolveTypedefs(x.TypeArg).(*PtrType); isPtr {
		if _, fromInt := ResolveTypedefs(x.X.Base().Type).(*BasicType); fromInt {
			return fg.emitAssign(&IRConvert{Kind: "inttoptr", Src: v, Dst: dstIR})
		}
		return fg.emitAssign(&IRConvert{Kind: "bitcast", Src: v, Dst: dstIR})
	}
	if _, toInt := ResolveTypedefs(x.TypeArg).(*BasicType); toInt {
		if _, fromPtr := ResolveTypedefs(x.X.Base().Type).(*PtrType); fromPtr {
			return fg.emitAssign(&IRConvert{Kind: "ptrtoint", Src: v, Dst: dstIR})
		}
	}
	return fg.convertTo(v, dstIR, x.X.Base().Type, x.TypeArg)
}

func (fg *funcGen) lowerCall(x *CallExpr) IRExpr {
	fn := fg.lowerExpr(x.Fn)
	ft := funcTypeOf(x.Fn.Base().Type)
	sig := fg.g.lowerFuncType(ft)
	args := make([]IRExpr, len(x.Args))
	for i, a := range x.Args {
		av := fg.lowerExpr(a)
		if i < len(ft.Params) {
			av = fg.convertTo(av, fg.g.lowerType(ft.Params[i]), a.Base().Type, ft.Params[i])
		}
		args[i] = av
	}
	call := &IRCall{Sig: sig, Fn: fn, Args: args}
	if IsVoid(ft.Ret) {
		fg.emit(&IRAssignStmt{Dest: fg.newTemp(), Src: call})
		return &IRConst{Kind: IRConstZero, Typ: &IRVoidType{}}
	}
	return fg.emitAssign(call)
}

func (fg *funcGen) lowerCompoundLiteral(x *CompoundLiteralExpr) IRExpr {
	typ := fg.g.lowerType(x.TypeArg)
	slot := fg.newTemp()
	fg.emitPrefix(&IRAssignStmt{Dest: slot, Src: &IRAlloca{Elem: typ, Align: AlignOf(x.TypeArg)}})
	addr := &IRVar{Name: slot, Local: true, Typ: &IRPtrType{Base: typ}}
	fg.lowerInitList(addr, typ, x.TypeArg, x.List)
	return addr
}
