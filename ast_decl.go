package cc11

// Decl is the closed sum type over top-level and block-scope
// declaration forms (spec.md §3's "decl" variant).
type Decl interface {
	isDecl()
	DeclMark() *fmark
}

// DeclBase carries the source mark every declaration node has.
type DeclBase struct {
	Mark *fmark
}

func (b *DeclBase) DeclMark() *fmark { return b.Mark }

// VarDecl is an object declaration, at file scope or block scope,
// with an optional initializer. Init is either a scalar Expr or an
// *InitListExpr wrapped as Expr (InitListExpr implements Expr).
type VarDecl struct {
	DeclBase
	Name    string
	Type    Type
	Init    Expr
	Storage ModFlags
}

func (*VarDecl) isDecl() {}

// FuncDecl is a function prototype (Body == nil) or definition
// (Body != nil). KRParams holds the parameter-declaration list that
// follows an old-style K&R parameter-name list, matched up against
// Type.(*FuncType).ParamNames by name in check.go.
type FuncDecl struct {
	DeclBase
	Name     string
	Type     *FuncType
	KRParams []*VarDecl
	Body     *CompoundStmt
	Storage  ModFlags
}

func (*FuncDecl) isDecl() {}

// TypedefDecl is "typedef <type> Name;".
type TypedefDecl struct {
	DeclBase
	Name string
	Type Type
}

func (*TypedefDecl) isDecl() {}

// TagDecl is a standalone "struct/union/enum Tag { ... };" with no
// declarator — its only effect is registering the tag.
type TagDecl struct {
	DeclBase
	Type Type // *StructType or *EnumType
}

func (*TagDecl) isDecl() {}

// StaticAssertDecl is a file- or block-scope "_Static_assert(cond, "msg");".
type StaticAssertDecl struct {
	DeclBase
	Cond Expr
	Msg  string
}

func (*StaticAssertDecl) isDecl() {}

// EmptyDecl is a stray top-level ";", legal but pointless.
type EmptyDecl struct {
	DeclBase
}

func (*EmptyDecl) isDecl() {}

// TranslationUnit is the root AST node: the full sequence of external
// declarations in one preprocessed source file (spec.md §3's
// top-level "translation-unit" container).
type TranslationUnit struct {
	Decls []Decl
}
