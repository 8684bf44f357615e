package cc11

// Data-layout constants for the single target this front end lowers
// to: LP64 (8-byte pointers/longs, 4-byte ints), matching the
// "target datalayout" string irprint.go emits.
const (
	ptrSize  = 8
	ptrAlign = 8
)

// SizeOf computes a type's size in bytes, per C11 6.5.3.4 and the
// struct/union/array layout rules of spec.md §4.4.1's sibling
// invariants. Struct/union sizes are resolved lazily the first time
// they are asked for and then cached on the type itself.
func SizeOf(t Type) int64 {
	switch tt := ResolveTypedefs(t).(type) {
	case *BasicType:
		return basicSize(tt)
	case *PtrType:
		return ptrSize
	case *EnumType:
		return SizeOf(tt.Underlying)
	case *ArrType:
		if !tt.HasLen {
			return 0
		}
		return tt.ResolvedNElems * SizeOf(tt.Base)
	case *StructType:
		ComputeLayout(tt)
		return tt.ComputedSize
	default:
		return 0
	}
}

// AlignOf computes a type's alignment requirement.
func AlignOf(t Type) int64 {
	switch tt := ResolveTypedefs(t).(type) {
	case *BasicType:
		return basicSize(tt)
	case *PtrType:
		return ptrAlign
	case *EnumType:
		return AlignOf(tt.Underlying)
	case *ArrType:
		return AlignOf(tt.Base)
	case *StructType:
		ComputeLayout(tt)
		return tt.ComputedAlign
	default:
		return 1
	}
}

func basicSize(b *BasicType) int64 {
	switch b.Kind {
	case KVoid:
		return 0
	case KBool, KChar:
		return 1
	case KShort:
		return 2
	case KInt, KFloat:
		return 4
	case KLong, KLongLong, KDouble, KVaList:
		return 8
	case KLongDouble:
		return 16
	default:
		return 4
	}
}

func alignUp(off, align int64) int64 {
	if align <= 1 {
		return off
	}
	rem := off % align
	if rem == 0 {
		return off
	}
	return off + (align - rem)
}

// ComputeLayout assigns each field of st a byte offset (and, for
// bit-fields, a bit offset within its storage unit) and fills in
// st.ComputedSize/ComputedAlign, following the ordinary C struct
// layout algorithm: fields in declaration order, each aligned to its
// own natural alignment, with the whole type padded up to its
// alignment at the end. Union members all start at offset 0 and the
// union's size is its largest member's size rounded up to its largest
// member alignment. Idempotent: a type
// already laid out (ComputedAlign != 0) returns immediately.
func ComputeLayout(st *StructType) {
	if st.ComputedAlign != 0 || !st.Defined {
		return
	}
	if st.IsUnion {
		var maxSize, maxAlign int64 = 0, 1
		for i := range st.Fields {
			f := &st.Fields[i]
			sz, al := SizeOf(f.Type), AlignOf(f.Type)
			f.Offset = 0
			if sz > maxSize {
				maxSize = sz
			}
			if al > maxAlign {
				maxAlign = al
			}
		}
		st.ComputedSize = alignUp(maxSize, maxAlign)
		st.ComputedAlign = maxAlign
		return
	}

	var offset, maxAlign int64 = 0, 1
	var bitCursor int64 // bits consumed in the current storage unit
	var bitUnitOffset int64
	inBitfieldRun := false
	for i := range st.Fields {
		f := &st.Fields[i]
		if f.BitWidth >= 0 {
			unitSize := SizeOf(f.Type)
			if unitSize == 0 {
				unitSize = 4
			}
			unitBits := unitSize * 8
			if !inBitfieldRun || bitCursor+int64(f.BitWidth) > unitBits {
				offset = alignUp(offset, unitSize)
				bitUnitOffset = offset
				offset += unitSize
				bitCursor = 0
				inBitfieldRun = true
			}
			f.Offset = bitUnitOffset
			f.BitOffset = int(bitCursor)
			bitCursor += int64(f.BitWidth)
			if unitSize > maxAlign {
				maxAlign = unitSize
			}
			continue
		}
		inBitfieldRun = false
		al := AlignOf(f.Type)
		if al > maxAlign {
			maxAlign = al
		}
		offset = alignUp(offset, al)
		f.Offset = offset
		if arr, ok := ResolveTypedefs(f.Type).(*ArrType); ok && !arr.HasLen && i == len(st.Fields)-1 {
			// Flexible array member: contributes no size.
			continue
		}
		offset += SizeOf(f.Type)
	}
	st.ComputedSize = alignUp(offset, maxAlign)
	st.ComputedAlign = maxAlign
}

// offsetofLayoutError distinguishes why offsetofValue could not
// resolve a designator chain, so the checker can report a precise
// diagnostic instead of a generic failure.
type offsetofLayoutError int

const (
	offsetofOK offsetofLayoutError = iota
	offsetofBadBase
	offsetofNoMember
	offsetofBitField
	offsetofBadIndex
)

// offsetofValue walks an OffsetofExpr's designator list against its
// base type's layout (computing that layout on demand) and returns
// the cumulative byte offset, per spec.md §4.4.2 ("offsetof: fold to
// an i64 constant"). Per spec.md §9's resolved Open Question, a
// bit-field designator is rejected rather than given ad hoc value
// semantics.
func offsetofValue(x *OffsetofExpr) (int64, offsetofLayoutError) {
	cur := ResolveTypedefs(x.TypeArg)
	var total int64
	for _, d := range x.Designators {
		if d.Index == nil {
			st, ok := cur.(*StructType)
			if !ok {
				return 0, offsetofBadBase
			}
			ComputeLayout(st)
			found := false
			for i := range st.Fields {
				f := &st.Fields[i]
				if f.Name == d.Field {
					if f.BitWidth >= 0 {
						return 0, offsetofBitField
					}
					total += f.Offset
					cur = ResolveTypedefs(f.Type)
					found = true
					break
				}
			}
			if !found {
				return 0, offsetofNoMember
			}
			continue
		}
		arr, ok := cur.(*ArrType)
		if !ok {
			return 0, offsetofBadIndex
		}
		idx, ok2 := foldConstExpr(d.Index)
		if !ok2 {
			return 0, offsetofBadIndex
		}
		total += idx * SizeOf(arr.Base)
		cur = ResolveTypedefs(arr.Base)
	}
	return total, offsetofOK
}
