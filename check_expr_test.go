package cc11

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypesEqualBasic(t *testing.T) {
	assert.True(t, TypesEqual(IntType, IntType))
	assert.False(t, TypesEqual(IntType, UIntType))
	assert.False(t, TypesEqual(IntType, LongType))
}

func TestTypesEqualThroughTypedef(t *testing.T) {
	td := &TypedefRefType{Name: "myint", Underlying: IntType}
	assert.True(t, TypesEqual(td, IntType))
}

func TestTypesEqualPointers(t *testing.T) {
	a := &PtrType{Base: IntType}
	b := &PtrType{Base: IntType}
	c := &PtrType{Base: CharType}
	assert.True(t, TypesEqual(a, b))
	assert.False(t, TypesEqual(a, c))
}

func TestTypesEqualArraysIgnoreLengthMismatchWhenOneUnsized(t *testing.T) {
	sized := &ArrType{Base: IntType, HasLen: true, ResolvedNElems: 4}
	unsized := &ArrType{Base: IntType}
	assert.True(t, TypesEqual(sized, unsized))

	other := &ArrType{Base: IntType, HasLen: true, ResolvedNElems: 8}
	assert.False(t, TypesEqual(sized, other))
}

func TestTypesEqualStructIsNominal(t *testing.T) {
	a := &StructType{Tag: "s", Defined: true, Fields: []Field{field("x", IntType)}}
	b := &StructType{Tag: "s", Defined: true, Fields: []Field{field("x", IntType)}}
	assert.True(t, TypesEqual(a, a))
	assert.False(t, TypesEqual(a, b), "structurally identical but distinct struct types are not equal")
}

func TestTypesEqualFuncType(t *testing.T) {
	f1 := &FuncType{Ret: IntType, Params: []Type{IntType, CharType}}
	f2 := &FuncType{Ret: IntType, Params: []Type{IntType, CharType}}
	f3 := &FuncType{Ret: IntType, Params: []Type{IntType}}
	assert.True(t, TypesEqual(f1, f2))
	assert.False(t, TypesEqual(f1, f3))
}

func TestAssignableNumericWidening(t *testing.T) {
	assert.True(t, Assignable(DoubleType, IntType))
	assert.True(t, Assignable(IntType, CharType))
	assert.True(t, Assignable(IntType, DoubleType), "narrowing is allowed by assignability, only warned elsewhere")
}

func TestAssignableNilIsPermissive(t *testing.T) {
	assert.True(t, Assignable(nil, IntType))
	assert.True(t, Assignable(IntType, nil))
}

func TestAssignablePointerToVoidEitherDirection(t *testing.T) {
	voidPtr := &PtrType{Base: VoidType}
	intPtr := &PtrType{Base: IntType}
	assert.True(t, Assignable(voidPtr, intPtr))
	assert.True(t, Assignable(intPtr, voidPtr))
}

func TestAssignablePointerMismatch(t *testing.T) {
	intPtr := &PtrType{Base: IntType}
	charPtr := &PtrType{Base: CharType}
	assert.True(t, Assignable(intPtr, charPtr), "int* <- char* is accepted: the pointee char is assignable to int")
}

func TestAssignablePointerFromZeroConstant(t *testing.T) {
	intPtr := &PtrType{Base: IntType}
	assert.True(t, Assignable(intPtr, IntType))
}

func TestAssignableArrayDecaysToPointer(t *testing.T) {
	intPtr := &PtrType{Base: IntType}
	arr := &ArrType{Base: IntType, HasLen: true, ResolvedNElems: 4}
	assert.True(t, Assignable(intPtr, arr))
}

func TestUsualArithmeticConversionFloatWins(t *testing.T) {
	got := usualArithmeticConversion(IntType, DoubleType)
	assert.Same(t, DoubleType, got)
}

func TestUsualArithmeticConversionUnsignedWinsAtEqualRank(t *testing.T) {
	got := usualArithmeticConversion(IntType, UIntType)
	bt, ok := got.(*BasicType)
	if assert.True(t, ok) {
		assert.Equal(t, KInt, bt.Kind)
		assert.True(t, bt.Unsigned)
	}
}

func TestUsualArithmeticConversionPromotesSubInt(t *testing.T) {
	got := usualArithmeticConversion(CharType, ShortType)
	bt, ok := got.(*BasicType)
	if assert.True(t, ok) {
		assert.Equal(t, KInt, bt.Kind)
		assert.False(t, bt.Unsigned)
	}
}

func TestUsualArithmeticConversionWiderRankWins(t *testing.T) {
	got := usualArithmeticConversion(IntType, LongType)
	bt, ok := got.(*BasicType)
	if assert.True(t, ok) {
		assert.Equal(t, KLong, bt.Kind)
	}
}

func constPtr(base Type) *PtrType {
	return &PtrType{Base: &ModifierType{Base: base, Flags: ModConst}}
}

func TestAssignableAddingConstIsAllowed(t *testing.T) {
	plain := &PtrType{Base: IntType}
	cst := constPtr(IntType)
	assert.True(t, Assignable(cst, plain), "int* -> const int* adds a qualifier, always allowed")
}

func TestAssignableDiscardingConstIsRejected(t *testing.T) {
	plain := &PtrType{Base: IntType}
	cst := constPtr(IntType)
	assert.False(t, Assignable(plain, cst), "const int* -> int* silently discards the qualifier and must be rejected")
}

func TestAssignableConstPointerSameQualificationIsAllowed(t *testing.T) {
	a := constPtr(IntType)
	b := constPtr(IntType)
	assert.True(t, Assignable(a, b))
}

func TestAssignableDiscardingConstThroughVoidPointerIsRejected(t *testing.T) {
	plainVoid := &PtrType{Base: VoidType}
	cstInt := constPtr(IntType)
	assert.False(t, Assignable(plainVoid, cstInt), "assigning const int* into void* still discards the qualifier")
}

func TestAssignableAddingConstThroughVoidPointerIsAllowed(t *testing.T) {
	cstVoid := constPtr(VoidType)
	plainInt := &PtrType{Base: IntType}
	assert.True(t, Assignable(cstVoid, plainInt))
}
