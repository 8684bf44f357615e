package cc11

// Type is the closed sum type over every C11 type form spec.md §3
// lists. Every concrete variant below implements it; callers match
// exhaustively with a type switch (spec.md §9).
type Type interface {
	isType()
}

// BasicKind enumerates the scalar kinds that exist as process-wide
// singletons (spec.md §3: "Primitive types are process-wide
// singletons referenced by pointer/handle").
type BasicKind int

const (
	KVoid BasicKind = iota
	KBool
	KChar
	KShort
	KInt
	KLong
	KLongLong
	KFloat
	KDouble
	KLongDouble
	KVaList
)

func (k BasicKind) String() string {
	return [...]string{
		"void", "_Bool", "char", "short", "int", "long", "long long",
		"float", "double", "long double", "va_list",
	}[k]
}

// BasicType is a scalar type. Unsigned is meaningless for non-integer
// kinds and ignored there.
type BasicType struct {
	Kind     BasicKind
	Unsigned bool
}

func (*BasicType) isType() {}

// The fixed set of basic-type singletons the checker and parser refer
// to by pointer; never allocate a second BasicType for the same
// (Kind, Unsigned) pair. SCharType is the one exception: it repeats
// CharType's pair so that "signed char" has a pointer of its own.
var (
	VoidType       = &BasicType{Kind: KVoid}
	BoolType       = &BasicType{Kind: KBool}
	CharType       = &BasicType{Kind: KChar}
	SCharType      = &BasicType{Kind: KChar, Unsigned: false}
	UCharType      = &BasicType{Kind: KChar, Unsigned: true}
	ShortType      = &BasicType{Kind: KShort}
	UShortType     = &BasicType{Kind: KShort, Unsigned: true}
	IntType        = &BasicType{Kind: KInt}
	UIntType       = &BasicType{Kind: KInt, Unsigned: true}
	LongType       = &BasicType{Kind: KLong}
	ULongType      = &BasicType{Kind: KLong, Unsigned: true}
	LongLongType   = &BasicType{Kind: KLongLong}
	ULongLongType  = &BasicType{Kind: KLongLong, Unsigned: true}
	FloatType      = &BasicType{Kind: KFloat}
	DoubleType     = &BasicType{Kind: KDouble}
	LongDoubleType = &BasicType{Kind: KLongDouble}
	VaListType     = &BasicType{Kind: KVaList}

	// SizeType is the result type of sizeof and pointer-difference,
	// unsigned long on this target's data layout.
	SizeType = ULongType
	// PtrDiffType is the signed counterpart used by pointer subtraction.
	PtrDiffType = LongType
)

func (b *BasicType) IsInteger() bool {
	switch b.Kind {
	case KBool, KChar, KShort, KInt, KLong, KLongLong:
		return true
	default:
		return false
	}
}

func (b *BasicType) IsFloat() bool {
	switch b.Kind {
	case KFloat, KDouble, KLongDouble:
		return true
	default:
		return false
	}
}

// Field is one member of a struct or union.
type Field struct {
	Name     string
	Type     Type
	BitWidth int   // -1 when not a bit-field
	Offset   int64 // byte offset, computed by layout.go
	BitOffset int  // bit offset within the storage unit, for bit-fields
}

// StructType models both struct and union (IsUnion distinguishes).
// Owned by the translation unit's derived-type arena once its fields
// are resolved (spec.md §3's "Invariants").
type StructType struct {
	Tag            string
	IsUnion        bool
	Fields         []Field
	Defined        bool
	ComputedSize   int64
	ComputedAlign  int64
	Anonymous      bool
}

func (*StructType) isType() {}

// EnumConst is one declared value of an enum type.
type EnumConst struct {
	Name  string
	Value int64
}

// EnumType always has an underlying integer type (int, absent a
// smaller-fit choice in this implementation — spec.md leaves the
// underlying-type-selection rule unspecified, so the simplest
// standards-conforming choice, "int", is used uniformly).
type EnumType struct {
	Tag        string
	Underlying Type
	Constants  []EnumConst
	Defined    bool
}

func (*EnumType) isType() {}

// TypedefRefType names a typedef; Underlying is the type it was
// defined to mean. Kept distinct from Underlying itself (rather than
// resolved away at parse time) so diagnostics and pretty-printing can
// still show the typedef name the user wrote.
type TypedefRefType struct {
	Name       string
	Underlying Type
}

func (*TypedefRefType) isType() {}

// ModFlags is the bitset of declaration-specifier modifiers spec.md
// §3 lists under the `type` variant's "modifier" case.
type ModFlags uint32

const (
	ModSigned ModFlags = 1 << iota
	ModUnsigned
	ModConst
	ModVolatile
	ModRestrict
	ModAuto
	ModRegister
	ModStatic
	ModExtern
	ModTypedef
	ModInline
	ModNoreturn
	ModAlignas
)

func (f ModFlags) Has(m ModFlags) bool { return f&m != 0 }

// ModifierType wraps Base with storage-class/qualifier flags. Several
// ModifierType nodes may stack (e.g. "const volatile int"); the
// checker strips them for equality per spec.md §4.4.1.
type ModifierType struct {
	Base       Type
	Flags      ModFlags
	AlignValue int64 // meaningful only when Flags.Has(ModAlignas)
}

func (*ModifierType) isType() {}

// ParenType preserves an explicit parenthesization in a declarator
// (e.g. "int (*p)[3]" vs "int *p[3]"); transparent to type equality.
type ParenType struct {
	Base Type
}

func (*ParenType) isType() {}

// FuncType models a function type. ParamNames tracks K&R-style
// identifier-list parameters (OldStyleKR) where Params carries no
// type information until a following K&R parameter-declaration list
// supplies it.
type FuncType struct {
	Ret        Type
	Params     []Type
	ParamNames []string
	Varargs    bool
	OldStyleKR bool
}

func (*FuncType) isType() {}

// ArrType models an array type. LenExpr is the unevaluated bound
// expression as written (nil for `[]`); ResolvedNElems is filled once
// the checker constant-folds LenExpr (or infers it from a string
// literal/ initializer list).
type ArrType struct {
	Base           Type
	LenExpr        Expr
	HasLen         bool
	ResolvedNElems int64
	IsStaticBound  bool // "static N" inside the brackets (parameter decl only)
}

func (*ArrType) isType() {}

// PtrType models a pointer type; ModFlags carries qualifiers written
// on the pointer itself (e.g. "int *const p").
type PtrType struct {
	Base  Type
	Flags ModFlags
}

func (*PtrType) isType() {}

// StaticAssertType carries a `_Static_assert(cond, "msg")` that
// appeared where a declaration was expected; it is checked like any
// other declaration but produces no storage.
type StaticAssertType struct {
	Cond Expr
	Msg  string
}

func (*StaticAssertType) isType() {}

// StripQualifiers walks through ParenType and ModifierType wrappers,
// returning the first non-qualifier type beneath them. Used
// pervasively by the checker for type-equality/assignability (spec.md
// §4.4.1: "strips typedefs, parens, and insignificant modifier
// bits").
func StripQualifiers(t Type) Type {
	for {
		switch tt := t.(type) {
		case *ParenType:
			t = tt.Base
		case *ModifierType:
			t = tt.Base
		default:
			return t
		}
	}
}

// ResolveTypedefs walks through TypedefRefType (and qualifiers) down
// to the first type that isn't a typedef alias.
func ResolveTypedefs(t Type) Type {
	for {
		t = StripQualifiers(t)
		if td, ok := t.(*TypedefRefType); ok {
			t = td.Underlying
			continue
		}
		return t
	}
}

// IsVoid reports whether t (after stripping qualifiers/typedefs) is void.
func IsVoid(t Type) bool {
	b, ok := ResolveTypedefs(t).(*BasicType)
	return ok && b.Kind == KVoid
}

// IsScalar reports whether t is an arithmetic type or a pointer.
func IsScalar(t Type) bool {
	switch ResolveTypedefs(t).(type) {
	case *BasicType:
		b := ResolveTypedefs(t).(*BasicType)
		return b.Kind != KVoid
	case *PtrType:
		return true
	case *EnumType:
		return true
	default:
		return false
	}
}
