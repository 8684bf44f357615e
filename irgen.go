package cc11

// IRGen lowers a checked TranslationUnit into an IRModule, per spec.md
// §4.4.2's translate(checked-translation-unit) -> ir-translation-unit
// contract. Type lowering and string interning are shared across the
// whole module; each function gets its own funcGen with private
// temp/label counters, mirroring the teacher's per-emitter local state
// in gen_go.go's goCodeEmitter (indentLevel, output) generalized to a
// compiler backend's fresh-name allocator instead of an indentation
// counter.
type IRGen struct {
	diags       *DiagLogger
	mod         *IRModule
	idStructs   map[*StructType]*IRIdStructType
	anonStructN int
	strPool     map[string]*IRGlobal
	anonGlobalN int
	declaredFns map[string]bool
}

// NewIRGen creates a lowering pass reporting internal-invariant
// failures (spec.md §7: "IR-lowering error ... fatal, indicates
// checker bug") through diags.
func NewIRGen(diags *DiagLogger) *IRGen {
	return &IRGen{
		diags:       diags,
		idStructs:   map[*StructType]*IRIdStructType{},
		strPool:     map[string]*IRGlobal{},
		declaredFns: map[string]bool{},
	}
}

// Translate is spec.md's named "translate" operation.
func (g *IRGen) Translate(tu *TranslationUnit, moduleName string) *IRModule {
	g.mod = &IRModule{Name: moduleName}
	for _, d := range tu.Decls {
		g.lowerExternalDecl(d)
	}
	return g.mod
}

func (g *IRGen) lowerExternalDecl(d Decl) {
	switch dd := d.(type) {
	case *FuncDecl:
		g.lowerFuncDecl(dd)
	case *VarDecl:
		g.lowerGlobalVar(dd)
	case *TagDecl:
		if st, ok := dd.Type.(*StructType); ok && st.Defined {
			g.idStructType(st)
		}
	}
}

func (g *IRGen) lowerGlobalVar(d *VarDecl) {
	typ := g.lowerType(d.Type)
	linkage := LinkDefault
	if d.Storage.Has(ModStatic) {
		linkage = LinkInternal
	}
	gv := &IRGlobal{Name: d.Name, Typ: typ, Linkage: linkage, Align: AlignOf(d.Type)}
	if d.Storage.Has(ModExtern) && d.Init == nil {
		gv.Linkage = LinkExternal
	} else if d.Init != nil {
		gv.Init = g.lowerConstInit(d.Init, d.Type)
	} else {
		gv.Init = zeroInitializer(typ)
	}
	g.mod.Globals = append(g.mod.Globals, gv)
}

func (g *IRGen) lowerFuncDecl(d *FuncDecl) {
	sig := g.lowerFuncType(d.Type)
	if d.Body == nil {
		if !g.declaredFns[d.Name] {
			g.mod.FuncDecls = append(g.mod.FuncDecls, &IRFuncDecl{Name: d.Name, Sig: sig})
			g.declaredFns[d.Name] = true
		}
		return
	}
	fg := &funcGen{g: g, retType: d.Type.Ret, locals: map[string]*irLocal{}}
	fn := &IRFunction{Name: d.Name, Sig: sig, ParamNames: d.Type.ParamNames, Linkage: LinkDefault}
	if d.Storage.Has(ModStatic) {
		fn.Linkage = LinkInternal
	}
	for i, pname := range d.Type.ParamNames {
		if pname == "" || i >= len(d.Type.Params) {
			continue
		}
		ptyp := g.lowerType(d.Type.Params[i])
		slot := fg.newTemp()
		fg.emitPrefix(&IRAssignStmt{Dest: slot, Src: &IRAlloca{Elem: ptyp, Align: AlignOf(d.Type.Params[i])}})
		pv := &IRVar{Name: slot, Local: true, Typ: &IRPtrType{Base: ptyp}}
		fg.emitPrefix(&IRStoreStmt{Typ: ptyp, Val: &IRVar{Name: paramRegName(i), Local: true, Typ: ptyp}, Ptr: pv})
		fg.locals[pname] = &irLocal{addr: pv, elem: ptyp}
	}
	fg.lowerCompoundStmt(d.Body)
	if !fg.terminated {
		if IsVoid(d.Type.Ret) {
			fg.emit(&IRRetStmt{})
		} else {
			fg.emit(&IRRetStmt{Value: zeroInitializer(sig.Ret)})
		}
	}
	fn.Prefix = fg.prefix
	fn.Body = fg.body
	g.mod.Functions = append(g.mod.Functions, fn)
}

func paramRegName(i int) string { return "arg" + itoa(i) }

// lowerType maps an AST type onto its IR representation, identifying
// struct/union types at module scope the first time each is seen.
func (g *IRGen) lowerType(t Type) IRType {
	switch tt := ResolveTypedefs(t).(type) {
	case *BasicType:
		return g.lowerBasic(tt)
	case *PtrType:
		base := tt.Base
		if _, ok := ResolveTypedefs(base).(*FuncType); ok {
			return &IRPtrType{Base: g.lowerType(base)}
		}
		if IsVoid(base) {
			return &IRPtrType{Base: &IRIntType{Width: 8}}
		}
		return &IRPtrType{Base: g.lowerType(base)}
	case *ArrType:
		n := tt.ResolvedNElems
		if !tt.HasLen {
			n = 0
		}
		return &IRArrType{NElems: n, Elem: g.lowerType(tt.Base)}
	case *StructType:
		return g.idStructType(tt)
	case *EnumType:
		return g.lowerType(tt.Underlying)
	case *FuncType:
		return g.lowerFuncType(tt)
	default:
		return &IRIntType{Width: 32}
	}
}

func (g *IRGen) lowerBasic(b *BasicType) IRType {
	switch b.Kind {
	case KVoid:
		return &IRVoidType{}
	case KBool:
		return &IRIntType{Width: 1}
	case KChar:
		return &IRIntType{Width: 8}
	case KShort:
		return &IRIntType{Width: 16}
	case KInt:
		return &IRIntType{Width: 32}
	case KLong, KLongLong:
		return &IRIntType{Width: 64}
	case KFloat:
		return &IRFloatType{Kind: IRFloat32}
	case KDouble:
		return &IRFloatType{Kind: IRFloat64}
	case KLongDouble:
		return &IRFloatType{Kind: IRFloat80}
	case KVaList:
		return g.vaListType()
	default:
		return &IRIntType{Width: 32}
	}
}

// vaListType lowers va_list to its x86-64 SysV ABI shape: an array of
// one {i32,i32,i8*,i8*} struct, per spec.md §4.4.2's "Variadic
// handling".
func (g *IRGen) vaListType() IRType {
	st := &IRStructType{Fields: []IRType{
		&IRIntType{Width: 32}, &IRIntType{Width: 32},
		&IRPtrType{Base: &IRIntType{Width: 8}}, &IRPtrType{Base: &IRIntType{Width: 8}},
	}}
	return &IRArrType{NElems: 1, Elem: st}
}

func (g *IRGen) lowerFuncType(ft *FuncType) *IRFuncType {
	out := &IRFuncType{Ret: g.lowerType(ft.Ret), Varargs: ft.Varargs}
	for _, p := range ft.Params {
		out.Params = append(out.Params, g.lowerType(p))
	}
	return out
}

func (g *IRGen) idStructType(st *StructType) *IRIdStructType {
	if id, ok := g.idStructs[st]; ok {
		return id
	}
	name := st.Tag
	if name == "" {
		name = "anon." + itoa(g.anonStructN)
		g.anonStructN++
	}
	id := &IRIdStructType{Name: name}
	g.idStructs[st] = id
	if st.IsUnion {
		// A union's members all overlap at offset 0 (spec.md §4.4.2:
		// "for unions, bitcast the pointer to the target field's
		// type"), so the identified struct is a single byte-array
		// slot sized/aligned by ComputeLayout's max-member rule
		// (layout.go) rather than one IR field per member — one IR
		// field per member would place each at increasing offsets and
		// make the IR size the sum, not the max, of member sizes.
		ComputeLayout(st)
		size := st.ComputedSize
		if size == 0 {
			size = 1
		}
		id.Def = &IRStructType{Fields: []IRType{&IRArrType{NElems: size, Elem: &IRIntType{Width: 8}}}}
		g.mod.IdStructs = append(g.mod.IdStructs, id)
		return id
	}
	fields := make([]IRType, len(st.Fields))
	for i, f := range st.Fields {
		fields[i] = g.lowerType(f.Type)
	}
	id.Def = &IRStructType{Fields: fields}
	g.mod.IdStructs = append(g.mod.IdStructs, id)
	return id
}

// internString deduplicates string literals to one private unnamed
// global per distinct contents, per spec.md §3's invariant.
func (g *IRGen) internString(s string) *IRGlobal {
	if gv, ok := g.strPool[s]; ok {
		return gv
	}
	name := "str." + itoa(g.anonGlobalN)
	g.anonGlobalN++
	gv := &IRGlobal{
		Name:        name,
		Typ:         &IRArrType{NElems: int64(len(s)) + 1, Elem: &IRIntType{Width: 8}},
		Init:        &IRConst{Kind: IRConstStr, StrVal: s},
		Linkage:     LinkPrivate,
		Constant:    true,
		UnnamedAddr: true,
		Align:       1,
	}
	g.strPool[s] = gv
	g.mod.Globals = append(g.mod.Globals, gv)
	return gv
}

func zeroInitializer(t IRType) IRExpr {
	return &IRConst{Kind: IRConstZero, Typ: t}
}

// irLocal tracks a function-local variable's stack slot.
type irLocal struct {
	addr *IRVar
	elem IRType
}

// funcGen is the per-function lowering context: fresh temp/label
// allocator, the function's accumulating prefix (allocas) and body
// instruction lists, and the innermost loop/switch's jump targets.
type funcGen struct {
	g          *IRGen
	tempN      int
	labelN     int
	locals     map[string]*irLocal
	prefix     []IRStmt
	body       []IRStmt
	retType    Type
	breakLbl   string
	contLbl    string
	terminated bool
}

func (fg *funcGen) newTemp() string {
	n := fg.tempN
	fg.tempN++
	return itoa(n)
}

func (fg *funcGen) newLabel() string {
	n := fg.labelN
	fg.labelN++
	return "L" + itoa(n)
}

func (fg *funcGen) emitPrefix(s IRStmt) { fg.prefix = append(fg.prefix, s) }

func (fg *funcGen) emit(s IRStmt) {
	fg.body = append(fg.body, s)
	switch s.(type) {
	case *IRRetStmt, *IRBrStmt, *IRSwitchStmt:
		fg.terminated = true
	case *IRLabelStmt:
		fg.terminated = false
	}
}

// emitAssign allocates a fresh temp bound to e and returns a reference
// to it; used whenever an instruction result needs a name to be
// referenced by a later instruction.
func (fg *funcGen) emitAssign(e IRExpr) *IRVar {
	name := fg.newTemp()
	fg.emit(&IRAssignStmt{Dest: name, Src: e})
	return &IRVar{Name: name, Local: true, Typ: e.Type()}
}
