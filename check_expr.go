package cc11

// TypesEqual implements spec.md §4.4.1's type-equality rule: strip
// typedefs/parens/insignificant modifiers, then compare structurally
// for function and array types and nominally (same pointer) for
// struct/union/enum.
func TypesEqual(a, b Type) bool {
	a, b = ResolveTypedefs(a), ResolveTypedefs(b)
	switch at := a.(type) {
	case *BasicType:
		bt, ok := b.(*BasicType)
		return ok && at.Kind == bt.Kind && at.Unsigned == bt.Unsigned
	case *PtrType:
		bt, ok := b.(*PtrType)
		return ok && TypesEqual(at.Base, bt.Base)
	case *ArrType:
		bt, ok := b.(*ArrType)
		if !ok || !TypesEqual(at.Base, bt.Base) {
			return false
		}
		if at.HasLen && bt.HasLen {
			return at.ResolvedNElems == bt.ResolvedNElems
		}
		return true
	case *FuncType:
		bt, ok := b.(*FuncType)
		if !ok || len(at.Params) != len(bt.Params) || at.Varargs != bt.Varargs {
			return false
		}
		if !TypesEqual(at.Ret, bt.Ret) {
			return false
		}
		for i := range at.Params {
			if !TypesEqual(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return true
	case *StructType:
		bt, ok := b.(*StructType)
		return ok && at == bt
	case *EnumType:
		bt, ok := b.(*EnumType)
		return ok && at == bt
	default:
		return false
	}
}

// isConstQualified reports whether t itself (through ParenType/
// TypedefRefType wrappers, but not recursing into a pointee) carries
// the ModConst flag, without discarding it the way ResolveTypedefs/
// StripQualifiers do — Assignable's pointer branch needs the
// qualifier bit still attached to compare the two sides before it
// recurses into their (qualifier-stripped) bases.
func isConstQualified(t Type) bool {
	for {
		switch tt := t.(type) {
		case *ParenType:
			t = tt.Base
		case *TypedefRefType:
			t = tt.Underlying
		case *ModifierType:
			if tt.Flags.Has(ModConst) {
				return true
			}
			t = tt.Base
		default:
			return false
		}
	}
}

// pointerAssignable implements spec.md §4.4.1's pointer-to-pointer
// assignability rule: pointee types must be assignable through
// Assignable (or either side void), and const-qualification may only be ADDED by the
// assignment, never silently discarded — assigning a const-qualified
// pointee into a non-const target is rejected even when the
// unqualified pointee types are otherwise compatible, while the
// reverse (adding const) is allowed to fall through to the recursive
// pointee check.
func pointerAssignable(toPtrT, fromPtrT *PtrType) bool {
	if isConstQualified(fromPtrT.Base) && !isConstQualified(toPtrT.Base) {
		return false
	}
	if IsVoid(toPtrT.Base) || IsVoid(fromPtrT.Base) {
		return true
	}
	return Assignable(toPtrT.Base, fromPtrT.Base)
}

// Assignable implements spec.md §4.4.1's "to <- from" assignability
// table.
func Assignable(to, from Type) bool {
	if to == nil || from == nil {
		return true
	}
	toR, fromR := ResolveTypedefs(to), ResolveTypedefs(from)

	// Pointer-to-pointer assignability is checked before the general
	// TypesEqual fast path below: TypesEqual strips qualifiers off
	// both pointees before comparing, so it would report two pointers
	// equal regardless of a const difference on the pointee and mask
	// the asymmetric rule entirely.
	if toPtrT, ok := toR.(*PtrType); ok {
		if fromPtrT, ok2 := fromR.(*PtrType); ok2 {
			return pointerAssignable(toPtrT, fromPtrT)
		}
	}

	if TypesEqual(to, from) {
		return true
	}

	toNumeric := isNumeric(toR)
	fromNumeric := isNumeric(fromR)
	_, fromPtr := fromR.(*PtrType)
	_, toPtr := toR.(*PtrType)

	if toNumeric && (fromNumeric || fromPtr) {
		return true
	}
	if toPtr && fromNumeric {
		return true
	}
	if toPtrT, ok := toR.(*PtrType); ok {
		if fromArr, ok2 := fromR.(*ArrType); ok2 {
			return TypesEqual(toPtrT.Base, fromArr.Base)
		}
		if fromFn, ok2 := fromR.(*FuncType); ok2 {
			if toFn, ok3 := toPtrT.Base.(*FuncType); ok3 {
				return TypesEqual(toFn, fromFn)
			}
		}
	}
	if toArr, ok := toR.(*ArrType); ok {
		if fromArr, ok2 := fromR.(*ArrType); ok2 {
			if !TypesEqual(toArr.Base, fromArr.Base) {
				return false
			}
			if toArr.HasLen && fromArr.HasLen {
				return toArr.ResolvedNElems == fromArr.ResolvedNElems
			}
			return true
		}
	}
	return false
}

func isNumeric(t Type) bool {
	switch tt := t.(type) {
	case *BasicType:
		return tt.Kind != KVoid
	case *EnumType:
		return true
	default:
		return false
	}
}

// usualArithmeticConversion implements the (simplified, no _Complex)
// C11 6.3.1.8 ladder: long double > double > float > widest-rank
// integer, with unsigned-wins-at-equal-rank.
func usualArithmeticConversion(a, b Type) Type {
	ar, br := ResolveTypedefs(a), ResolveTypedefs(b)
	ab, aok := ar.(*BasicType)
	bb, bok := br.(*BasicType)
	if !aok {
		if e, ok := ar.(*EnumType); ok {
			ab, aok = IntType, true
			_ = e
		}
	}
	if !bok {
		if e, ok := br.(*EnumType); ok {
			bb, bok = IntType, true
			_ = e
		}
	}
	if !aok || !bok {
		return IntType
	}
	if ab.Kind == KLongDouble || bb.Kind == KLongDouble {
		return LongDoubleType
	}
	if ab.Kind == KDouble || bb.Kind == KDouble {
		return DoubleType
	}
	if ab.Kind == KFloat || bb.Kind == KFloat {
		return FloatType
	}
	if ab.Kind < KInt {
		ab = IntType
	}
	if bb.Kind < KInt {
		bb = IntType
	}
	rank := func(k BasicKind) int {
		switch k {
		case KBool, KChar, KShort:
			return int(KInt) // promoted
		default:
			return int(k)
		}
	}
	ra, rb := rank(ab.Kind), rank(bb.Kind)
	var winner *BasicType
	if ra == rb {
		winner = &BasicType{Kind: BasicKind(ra), Unsigned: ab.Unsigned || bb.Unsigned}
	} else if ra > rb {
		winner = &BasicType{Kind: BasicKind(ra), Unsigned: ab.Unsigned}
	} else {
		winner = &BasicType{Kind: BasicKind(rb), Unsigned: bb.Unsigned}
	}
	if winner.Kind < KInt {
		winner.Kind = KInt
	}
	for _, s := range []*BasicType{IntType, UIntType, LongType, ULongType, LongLongType, ULongLongType} {
		if s.Kind == winner.Kind && s.Unsigned == winner.Unsigned {
			return s
		}
	}
	return winner
}

// checkExpr type-checks e in ctx, annotating its ExprBase in place
// and returning e for call-site convenience.
func (c *Checker) checkExpr(e Expr, ctx *checkCtx) Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *IntLitExpr:
		x.Type = intLitType(x)
	case *FloatLitExpr:
		if x.Suffix.Float {
			x.Type = FloatType
		} else if x.Suffix.LongDouble {
			x.Type = LongDoubleType
		} else {
			x.Type = DoubleType
		}
	case *StringLitExpr:
		elem := Type(CharType)
		if x.Wide {
			elem = IntType
		}
		x.Type = &ArrType{Base: elem, HasLen: true, ResolvedNElems: int64(len(*x.Value)) + 1}
		x.LValue = true
	case *CharLitExpr:
		x.Type = IntType
	case *IdentExpr:
		c.resolveIdent(x)
	case *ParenExpr:
		c.checkExpr(x.X, ctx)
		x.Type = x.X.Base().Type
		x.LValue = x.X.Base().LValue
	case *UnaryExpr:
		c.checkUnary(x, ctx)
	case *PostfixExpr:
		c.checkExpr(x.X, ctx)
		if !x.X.Base().LValue {
			c.diags.Errorf(x.Mark, "expression is not assignable")
		}
		x.Type = x.X.Base().Type
	case *SizeofExpr:
		if x.TypeArg == nil {
			c.checkExpr(x.X, ctx)
		}
		x.Type = SizeType
	case *AlignofExpr:
		x.Type = SizeType
	case *OffsetofExpr:
		c.checkOffsetof(x)
	case *CastExpr:
		c.checkExpr(x.X, ctx)
		x.Type = x.TypeArg
	case *BinaryExpr:
		c.checkBinary(x, ctx)
	case *CondExpr:
		c.checkExpr(x.Cond, ctx)
		c.checkExpr(x.Then, ctx)
		c.checkExpr(x.Else, ctx)
		tt, et := x.Then.Base().Type, x.Else.Base().Type
		if isNumeric(tt) && isNumeric(et) {
			x.Type = usualArithmeticConversion(tt, et)
		} else {
			x.Type = tt
		}
	case *AssignExpr:
		c.checkExpr(x.LHS, ctx)
		c.checkExpr(x.RHS, ctx)
		if !x.LHS.Base().LValue {
			c.diags.Errorf(x.Mark, "expression is not assignable")
		} else if !Assignable(x.LHS.Base().Type, x.RHS.Base().Type) {
			c.diags.Errorf(x.Mark, "incompatible types assigning to '%T'", x.LHS.Base().Type)
		}
		x.Type = x.LHS.Base().Type
	case *CommaExpr:
		c.checkExpr(x.L, ctx)
		c.checkExpr(x.R, ctx)
		x.Type = x.R.Base().Type
	case *CallExpr:
		c.checkCall(x, ctx)
	case *MemberExpr:
		c.checkMember(x, ctx)
	case *IndexExpr:
		c.checkExpr(x.X, ctx)
		c.checkExpr(x.Index, ctx)
		base := ResolveTypedefs(x.X.Base().Type)
		switch bt := base.(type) {
		case *PtrType:
			x.Type = bt.Base
		case *ArrType:
			x.Type = bt.Base
		default:
			c.diags.Errorf(x.Mark, "subscripted value is not an array or pointer")
		}
		x.LValue = true
	case *CompoundLiteralExpr:
		c.checkInitializer(x.List, x.TypeArg)
		x.Type = x.TypeArg
		x.LValue = true
	case *InitListExpr:
		for _, item := range x.Items {
			if item.Value != nil {
				c.checkExpr(item.Value, ctx)
			}
			if item.List != nil {
				c.checkExpr(item.List, ctx)
			}
		}
	case *GenericExpr:
		c.checkGeneric(x, ctx)
	}
	return e
}

func intLitType(x *IntLitExpr) Type {
	if x.Suffix.LongLong {
		if x.Suffix.Unsigned {
			return ULongLongType
		}
		return LongLongType
	}
	if x.Suffix.Long {
		if x.Suffix.Unsigned {
			return ULongType
		}
		return LongType
	}
	if x.Suffix.Unsigned {
		if x.Value > 0xFFFFFFFF {
			return ULongType
		}
		return UIntType
	}
	if x.Value > 0x7FFFFFFF {
		if x.Value > 0x7FFFFFFFFFFFFFFF {
			return ULongType
		}
		return LongType
	}
	return IntType
}

func (c *Checker) resolveIdent(x *IdentExpr) {
	e, ok := c.typetab.Lookup(x.Name)
	if !ok {
		c.diags.Errorf(x.Mark, "use of undeclared identifier '%s'", x.Name)
		x.Type = IntType
		return
	}
	x.Decl = e
	x.Type = e.Type
	x.LValue = e.Kind == EntryVariable
}

func (c *Checker) checkUnary(x *UnaryExpr, ctx *checkCtx) {
	c.checkExpr(x.X, ctx)
	xt := x.X.Base().Type
	switch x.Op {
	case UnAddr:
		if !x.X.Base().LValue {
			c.diags.Errorf(x.Mark, "cannot take the address of an rvalue")
		}
		x.Type = &PtrType{Base: xt}
	case UnDeref:
		if pt, ok := ResolveTypedefs(xt).(*PtrType); ok {
			x.Type = pt.Base
		} else if at, ok := ResolveTypedefs(xt).(*ArrType); ok {
			x.Type = at.Base
		} else {
			c.diags.Errorf(x.Mark, "indirection requires pointer operand")
			x.Type = IntType
		}
		x.LValue = true
	case UnPreInc, UnPreDec:
		if !x.X.Base().LValue {
			c.diags.Errorf(x.Mark, "expression is not assignable")
		}
		x.Type = xt
		x.LValue = true
	case UnNot:
		x.Type = IntType
	default:
		x.Type = xt
	}
}

func (c *Checker) checkBinary(x *BinaryExpr, ctx *checkCtx) {
	c.checkExpr(x.L, ctx)
	c.checkExpr(x.R, ctx)
	lt, rt := x.L.Base().Type, x.R.Base().Type
	switch x.Op {
	case BinLogAnd, BinLogOr, BinEq, BinNe, BinLt, BinGt, BinLe, BinGe:
		x.Type = IntType
	case BinAdd, BinSub:
		_, lptr := ResolveTypedefs(lt).(*PtrType)
		_, rptr := ResolveTypedefs(rt).(*PtrType)
		switch {
		case lptr && rptr && x.Op == BinSub:
			x.Type = PtrDiffType
		case lptr:
			x.Type = lt
		case rptr:
			x.Type = rt
		default:
			x.Type = usualArithmeticConversion(lt, rt)
		}
	default:
		x.Type = usualArithmeticConversion(lt, rt)
	}
}

func (c *Checker) checkCall(x *CallExpr, ctx *checkCtx) {
	c.checkExpr(x.Fn, ctx)
	for _, a := range x.Args {
		c.checkExpr(a, ctx)
	}
	ft := funcTypeOf(x.Fn.Base().Type)
	if ft == nil {
		c.diags.Errorf(x.Mark, "called object is not a function or function pointer")
		x.Type = IntType
		return
	}
	if !ft.Varargs && len(x.Args) != len(ft.Params) {
		c.diags.Warnf(x.Mark, "too %s arguments to function call", tooWhat(len(x.Args), len(ft.Params)))
	}
	x.Type = ft.Ret
}

func tooWhat(got, want int) string {
	if got < want {
		return "few"
	}
	return "many"
}

func funcTypeOf(t Type) *FuncType {
	r := ResolveTypedefs(t)
	if ft, ok := r.(*FuncType); ok {
		return ft
	}
	if pt, ok := r.(*PtrType); ok {
		if ft, ok2 := ResolveTypedefs(pt.Base).(*FuncType); ok2 {
			return ft
		}
	}
	return nil
}

func (c *Checker) checkMember(x *MemberExpr, ctx *checkCtx) {
	c.checkExpr(x.X, ctx)
	base := ResolveTypedefs(x.X.Base().Type)
	if x.Arrow {
		pt, ok := base.(*PtrType)
		if !ok {
			c.diags.Errorf(x.Mark, "member reference type is not a pointer")
			x.Type = IntType
			return
		}
		base = ResolveTypedefs(pt.Base)
	}
	st, ok := base.(*StructType)
	if !ok {
		c.diags.Errorf(x.Mark, "member reference base type is not a struct or union")
		x.Type = IntType
		return
	}
	for _, f := range st.Fields {
		if f.Name == x.Field {
			x.Type = f.Type
			x.LValue = true
			return
		}
	}
	c.diags.Errorf(x.Mark, "no member named '%s' in '%s'", x.Field, st.Tag)
	x.Type = IntType
}

// checkOffsetof type-checks every "[index]" designator's expression
// and resolves the cumulative offset via offsetofValue, surfacing a
// precise diagnostic for each of offsetofValue's failure modes
// (spec.md §9: bit-field designators are rejected outright).
func (c *Checker) checkOffsetof(x *OffsetofExpr) {
	x.Type = SizeType
	for _, d := range x.Designators {
		if d.Index != nil {
			c.checkExpr(d.Index, &checkCtx{})
		}
	}
	_, lerr := offsetofValue(x)
	switch lerr {
	case offsetofOK:
	case offsetofBadBase:
		c.diags.Errorf(x.Mark, "offsetof designator applied to a non-struct/union type")
	case offsetofNoMember:
		c.diags.Errorf(x.Mark, "no member found in offsetof designator")
	case offsetofBitField:
		c.diags.Errorf(x.Mark, "cannot compute offset of a bit-field member")
	case offsetofBadIndex:
		c.diags.Errorf(x.Mark, "offsetof array designator requires a constant index into an array type")
	}
}

func (c *Checker) checkGeneric(x *GenericExpr, ctx *checkCtx) {
	c.checkExpr(x.Ctrl, ctx)
	ctrlType := x.Ctrl.Base().Type
	var def Expr
	for _, a := range x.Assocs {
		c.checkExpr(a.Value, ctx)
		if a.TypeArg == nil {
			def = a.Value
			continue
		}
		if TypesEqual(a.TypeArg, ctrlType) {
			x.Resolved = a.Value
		}
	}
	if x.Resolved == nil {
		x.Resolved = def
	}
	if x.Resolved == nil {
		c.diags.Errorf(x.Mark, "_Generic selector of type '%T' not compatible with any association", ctrlType)
		x.Type = IntType
		return
	}
	x.Type = x.Resolved.Base().Type
}
