package cc11

// foldConstExpr evaluates the integer-constant subset of the
// expression grammar. The parser calls it eagerly for enumerator
// values, bit-field widths and _Alignas operands; the checker calls it
// for case labels, _Static_assert conditions and array designators.
// It understands integer/char literals, enum-constant references, the
// arithmetic/bitwise/logical/comparison operators, the ternary
// operator, casts (folded as their operand), sizeof, _Alignof and
// offsetof — the same surface original_source/src/typecheck/
// const_eval.c folds before full semantic analysis runs. Floating
// constants do not fold. check_const.go's EvalConstExpr is this same
// function with floating operands rejected up front.
func foldConstExpr(e Expr) (int64, bool) {
	switch x := e.(type) {
	case *IntLitExpr:
		return int64(x.Value), true
	case *CharLitExpr:
		return x.Value, true
	case *ParenExpr:
		return foldConstExpr(x.X)
	case *IdentExpr:
		if x.Decl != nil && x.Decl.Kind == EntryEnumConst {
			return x.Decl.Value, true
		}
		return 0, false
	case *UnaryExpr:
		v, ok := foldConstExpr(x.X)
		if !ok {
			return 0, false
		}
		switch x.Op {
		case UnPlus:
			return v, true
		case UnMinus:
			return -v, true
		case UnNot:
			if v == 0 {
				return 1, true
			}
			return 0, true
		case UnBitNot:
			return ^v, true
		default:
			return 0, false
		}
	case *BinaryExpr:
		l, lok := foldConstExpr(x.L)
		if !lok {
			return 0, false
		}
		if x.Op == BinLogAnd {
			if l == 0 {
				return 0, true
			}
			r, ok := foldConstExpr(x.R)
			if !ok {
				return 0, false
			}
			if r != 0 {
				return 1, true
			}
			return 0, true
		}
		if x.Op == BinLogOr {
			if l != 0 {
				return 1, true
			}
			r, ok := foldConstExpr(x.R)
			if !ok {
				return 0, false
			}
			if r != 0 {
				return 1, true
			}
			return 0, true
		}
		r, rok := foldConstExpr(x.R)
		if !rok {
			return 0, false
		}
		switch x.Op {
		case BinMul:
			return l * r, true
		case BinDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case BinMod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		case BinAdd:
			return l + r, true
		case BinSub:
			return l - r, true
		case BinShl:
			return l << uint(r), true
		case BinShr:
			return l >> uint(r), true
		case BinLt:
			return boolToInt64(l < r), true
		case BinGt:
			return boolToInt64(l > r), true
		case BinLe:
			return boolToInt64(l <= r), true
		case BinGe:
			return boolToInt64(l >= r), true
		case BinEq:
			return boolToInt64(l == r), true
		case BinNe:
			return boolToInt64(l != r), true
		case BinBitAnd:
			return l & r, true
		case BinBitXor:
			return l ^ r, true
		case BinBitOr:
			return l | r, true
		}
		return 0, false
	case *CondExpr:
		c, ok := foldConstExpr(x.Cond)
		if !ok {
			return 0, false
		}
		if c != 0 {
			return foldConstExpr(x.Then)
		}
		return foldConstExpr(x.Else)
	case *CastExpr:
		return foldConstExpr(x.X)
	case *SizeofExpr:
		if x.TypeArg != nil {
			return SizeOf(x.TypeArg), true
		}
		if x.X != nil && x.X.Base().Type != nil {
			return SizeOf(x.X.Base().Type), true
		}
		return 0, false
	case *AlignofExpr:
		if x.TypeArg != nil {
			return AlignOf(x.TypeArg), true
		}
		return 0, false
	case *OffsetofExpr:
		v, lerr := offsetofValue(x)
		return v, lerr == offsetofOK
	default:
		return 0, false
	}
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
