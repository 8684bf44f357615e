package cc11

// Expr is the closed sum type over C11 expression forms (spec.md §3's
// "expr" variant). Every concrete node embeds ExprBase, which carries
// the slots the checker fills in during a second pass: the resolved
// Type, whether the expression denotes an lvalue, and — for constant
// expressions — the folded value.
type Expr interface {
	isExpr()
	Base() *ExprBase
}

// ExprBase holds the fields common to every expression node. Type and
// LValue are nil/false until check.go's expression pass visits the
// node; source-producing code (parser.go) never populates them.
type ExprBase struct {
	Mark   *fmark
	Type   Type
	LValue bool

	// Const and ConstOK are not set by any pass: constant values are
	// recomputed on demand with foldConstExpr (const_fold.go). ConstOK
	// would distinguish "folded to the zero value" from "not constant".
	Const   int64
	ConstOK bool
}

func (b *ExprBase) Base() *ExprBase { return b }

// IntLitExpr is an integer constant.
type IntLitExpr struct {
	ExprBase
	Value  uint64
	Suffix IntSuffix
}

func (*IntLitExpr) isExpr() {}

// FloatLitExpr is a floating constant.
type FloatLitExpr struct {
	ExprBase
	Value  float64
	Suffix FloatSuffix
}

func (*FloatLitExpr) isExpr() {}

// StringLitExpr is a (possibly wide) string literal; adjacent string
// literals are concatenated by the preprocessor before this node is built,
// per C11 6.4.5.
type StringLitExpr struct {
	ExprBase
	Value *string
	Wide  bool
}

func (*StringLitExpr) isExpr() {}

// CharLitExpr is a character constant.
type CharLitExpr struct {
	ExprBase
	Value int64
	Wide  bool
}

func (*CharLitExpr) isExpr() {}

// IdentExpr references a declared name; Decl is filled in by the
// checker once it resolves the identifier against the type table.
type IdentExpr struct {
	ExprBase
	Name string
	Decl *TypeTabEntry
}

func (*IdentExpr) isExpr() {}

// ParenExpr preserves explicit parenthesization so diagnostics and
// the IR lowering's side-effect-ordering logic can see it; it is
// otherwise transparent.
type ParenExpr struct {
	ExprBase
	X Expr
}

func (*ParenExpr) isExpr() {}

// UnOp enumerates unary/prefix operator spellings.
type UnOp int

const (
	UnPlus UnOp = iota
	UnMinus
	UnNot    // !
	UnBitNot // ~
	UnAddr   // &
	UnDeref  // *
	UnPreInc
	UnPreDec
)

// UnaryExpr is a prefix unary operator application.
type UnaryExpr struct {
	ExprBase
	Op UnOp
	X  Expr
}

func (*UnaryExpr) isExpr() {}

// PostOp enumerates postfix operator spellings.
type PostOp int

const (
	PostInc PostOp = iota
	PostDec
)

// PostfixExpr is a postfix ++/--.
type PostfixExpr struct {
	ExprBase
	Op PostOp
	X  Expr
}

func (*PostfixExpr) isExpr() {}

// SizeofExpr implements both "sizeof expr" and "sizeof(type-name)";
// exactly one of X/TypeArg is set.
type SizeofExpr struct {
	ExprBase
	X       Expr
	TypeArg Type
}

func (*SizeofExpr) isExpr() {}

// AlignofExpr implements "_Alignof(type-name)".
type AlignofExpr struct {
	ExprBase
	TypeArg Type
}

func (*AlignofExpr) isExpr() {}

// OffsetofDesignator is one step of __builtin_offsetof's designator
// list: either a ".field" step (Field set) or a "[index]" step (Index
// set), matching the designator grammar spec.md §3 gives initializers.
type OffsetofDesignator struct {
	Field string
	Index Expr
}

// OffsetofExpr implements "__builtin_offsetof(type, designator...)" as
// its own node per spec.md §3's expr grammar, rather than desugaring
// to address-of-member-of-null: a dedicated node lets the checker
// reject bit-field designators (spec.md §9) and lets both the checker
// and IR lowering fold it straight to an i64 constant (spec.md
// §4.4.2), instead of synthesizing a null pointer and relying on
// getelementptr-on-null to constant-fold downstream.
type OffsetofExpr struct {
	ExprBase
	TypeArg     Type
	Designators []OffsetofDesignator
}

func (*OffsetofExpr) isExpr() {}

// CastExpr is an explicit "(type-name) expr" cast.
type CastExpr struct {
	ExprBase
	TypeArg Type
	X       Expr
}

func (*CastExpr) isExpr() {}

// BinOp enumerates binary operator spellings, ordered by the
// precedence climb in parser_expr.go (spec.md's 17-level table).
type BinOp int

const (
	BinMul BinOp = iota
	BinDiv
	BinMod
	BinAdd
	BinSub
	BinShl
	BinShr
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinBitAnd
	BinBitXor
	BinBitOr
	BinLogAnd
	BinLogOr
)

// BinaryExpr is a binary operator application. LogAnd/LogOr are the
// two operators irgen_expr.go lowers with short-circuit control flow
// and a φ-node merging the two branch results (spec.md §8's
// short-circuit scenario).
type BinaryExpr struct {
	ExprBase
	Op   BinOp
	L, R Expr
}

func (*BinaryExpr) isExpr() {}

// CondExpr is the ternary "a ? b : c" operator.
type CondExpr struct {
	ExprBase
	Cond, Then, Else Expr
}

func (*CondExpr) isExpr() {}

// AssignOp enumerates simple and compound assignment spellings.
type AssignOp int

const (
	AssignPlain AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignMod
	AssignShl
	AssignShr
	AssignAnd
	AssignXor
	AssignOr
)

// AssignExpr is a simple or compound assignment.
type AssignExpr struct {
	ExprBase
	Op       AssignOp
	LHS, RHS Expr
}

func (*AssignExpr) isExpr() {}

// CommaExpr is the sequencing "a, b" operator.
type CommaExpr struct {
	ExprBase
	L, R Expr
}

func (*CommaExpr) isExpr() {}

// CallExpr is a function call; Fn is usually an IdentExpr but may be
// any expression of function-pointer type.
type CallExpr struct {
	ExprBase
	Fn   Expr
	Args []Expr
}

func (*CallExpr) isExpr() {}

// MemberExpr is "x.field" (Arrow == false) or "x->field" (Arrow == true).
type MemberExpr struct {
	ExprBase
	X     Expr
	Field string
	Arrow bool
}

func (*MemberExpr) isExpr() {}

// IndexExpr is "x[i]", lowered by irgen as pointer arithmetic plus a
// dereference (C11 6.5.2.1p2: "a[i]" is "*(a+i)").
type IndexExpr struct {
	ExprBase
	X, Index Expr
}

func (*IndexExpr) isExpr() {}

// InitItem is one element of a braced initializer list, carrying the
// optional designators that preceded it (spec.md's designated
// initializer scenario).
type InitItem struct {
	Designators []Designator
	Value       Expr       // set when the item is a scalar/sub-expression
	List        *InitListExpr // set when the item is itself a nested brace list
}

// Designator is one ".field" or "[const-expr]" component of a
// designated initializer, in source order.
type Designator struct {
	Field string // "" when this is an index designator
	Index Expr   // nil when this is a field designator
}

// InitListExpr is a brace-enclosed initializer list, used both as a
// standalone initializer and as the braced part of a compound
// literal.
type InitListExpr struct {
	ExprBase
	Items []InitItem
}

func (*InitListExpr) isExpr() {}

// CompoundLiteralExpr is "(type-name){ initializer-list }" (C11 6.5.2.5).
type CompoundLiteralExpr struct {
	ExprBase
	TypeArg Type
	List    *InitListExpr
}

func (*CompoundLiteralExpr) isExpr() {}

// GenericAssoc is one "type-name: expr" or "default: expr" association
// inside a _Generic selection.
type GenericAssoc struct {
	TypeArg Type // nil for the "default" association
	Value   Expr
}

// GenericExpr is a C11 "_Generic(ctrl, assoc-list)" selection; the
// checker resolves it to the single matching association's Value and
// records the choice in Resolved (spec.md leaves the exact diagnostic
// wording for "no matching association" unspecified — check_expr.go
// reports it as an ordinary error).
type GenericExpr struct {
	ExprBase
	Ctrl     Expr
	Assocs   []GenericAssoc
	Resolved Expr
}

func (*GenericExpr) isExpr() {}
