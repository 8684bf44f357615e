package cc11

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func field(name string, t Type) Field {
	return Field{Name: name, Type: t, BitWidth: -1}
}

func TestSizeOfBasicTypes(t *testing.T) {
	assert.Equal(t, int64(1), SizeOf(CharType))
	assert.Equal(t, int64(2), SizeOf(ShortType))
	assert.Equal(t, int64(4), SizeOf(IntType))
	assert.Equal(t, int64(8), SizeOf(LongType))
	assert.Equal(t, int64(8), SizeOf(DoubleType))
	assert.Equal(t, int64(4), SizeOf(FloatType))
	assert.Equal(t, int64(8), SizeOf(&PtrType{Base: IntType}))
}

func TestStructLayoutSimple(t *testing.T) {
	st := &StructType{
		Tag:     "point",
		Defined: true,
		Fields: []Field{
			field("x", IntType),
			field("y", IntType),
		},
	}
	ComputeLayout(st)
	assert.Equal(t, int64(0), st.Fields[0].Offset)
	assert.Equal(t, int64(4), st.Fields[1].Offset)
	assert.Equal(t, int64(8), st.ComputedSize)
	assert.Equal(t, int64(4), st.ComputedAlign)
}

func TestStructLayoutPaddingForAlignment(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			field("a", CharType),
			field("b", LongType),
		},
	}
	ComputeLayout(st)
	assert.Equal(t, int64(0), st.Fields[0].Offset)
	assert.Equal(t, int64(8), st.Fields[1].Offset, "long must land on an 8-byte boundary")
	assert.Equal(t, int64(16), st.ComputedSize, "trailing padding so size is a multiple of alignment")
	assert.Equal(t, int64(8), st.ComputedAlign)
}

func TestUnionLayoutTakesMaxSizeAndAlign(t *testing.T) {
	st := &StructType{
		Tag:     "u",
		IsUnion: true,
		Defined: true,
		Fields: []Field{
			field("c", CharType),
			field("l", LongType),
		},
	}
	ComputeLayout(st)
	for _, f := range st.Fields {
		assert.Equal(t, int64(0), f.Offset)
	}
	assert.Equal(t, int64(8), st.ComputedSize)
	assert.Equal(t, int64(8), st.ComputedAlign)
}

func TestStructLayoutIsIdempotent(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields:  []Field{field("a", IntType)},
	}
	ComputeLayout(st)
	firstSize := st.ComputedSize
	st.Fields = append(st.Fields, field("b", LongType))
	ComputeLayout(st)
	assert.Equal(t, firstSize, st.ComputedSize, "already-laid-out struct must not recompute")
}

func TestOffsetofPlusSizeNeverExceedsStructSize(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			field("a", CharType),
			field("b", IntType),
			field("c", ShortType),
		},
	}
	ComputeLayout(st)
	for _, f := range st.Fields {
		assert.LessOrEqual(t, f.Offset+SizeOf(f.Type), st.ComputedSize)
	}
	assert.Equal(t, int64(0), st.ComputedSize%st.ComputedAlign)
}

func TestFlexibleArrayMemberContributesNoSize(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			field("n", IntType),
			field("data", &ArrType{Base: IntType, HasLen: false}),
		},
	}
	ComputeLayout(st)
	assert.Equal(t, int64(4), st.ComputedSize)
}

func TestBitfieldPacking(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			{Name: "a", Type: IntType, BitWidth: 3},
			{Name: "b", Type: IntType, BitWidth: 5},
		},
	}
	ComputeLayout(st)
	assert.Equal(t, st.Fields[0].Offset, st.Fields[1].Offset, "both bit-fields share one storage unit")
	assert.Equal(t, 0, st.Fields[0].BitOffset)
	assert.Equal(t, 3, st.Fields[1].BitOffset)
}

func TestOffsetofResolvesFieldOffset(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			field("a", CharType),
			field("b", LongType),
		},
	}
	off := &OffsetofExpr{TypeArg: st, Designators: []OffsetofDesignator{{Field: "b"}}}
	v, lerr := offsetofValue(off)
	assert.Equal(t, offsetofOK, lerr)
	assert.Equal(t, int64(8), v)
}

func TestOffsetofRejectsBitfieldMember(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			{Name: "a", Type: IntType, BitWidth: 3},
		},
	}
	off := &OffsetofExpr{TypeArg: st, Designators: []OffsetofDesignator{{Field: "a"}}}
	_, lerr := offsetofValue(off)
	assert.Equal(t, offsetofBitField, lerr)
}

func TestOffsetofWalksArrayDesignator(t *testing.T) {
	st := &StructType{
		Tag:     "s",
		Defined: true,
		Fields: []Field{
			field("n", IntType),
			field("data", &ArrType{Base: IntType, HasLen: true, ResolvedNElems: 4}),
		},
	}
	idx := &IntLitExpr{Value: 2}
	off := &OffsetofExpr{TypeArg: st, Designators: []OffsetofDesignator{
		{Field: "data"},
		{Index: idx},
	}}
	v, lerr := offsetofValue(off)
	assert.Equal(t, offsetofOK, lerr)
	assert.Equal(t, int64(4+2*4), v)
}
