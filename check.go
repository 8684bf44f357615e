package cc11

// Checker implements spec.md §4.4.1: a single pass over the AST the
// parser built, annotating every expression with its resolved type
// and resolving goto labels, switch case lists and enumeration
// constant values. It shares the parser's typetab (file-scope entries
// are still live in it; block scopes were popped as the parser left
// them, so the checker re-enters and re-populates them in lockstep
// with the AST it walks — the same discipline the parser used, now
// replayed rather than shared in real time).
type Checker struct {
	typetab *TypeTab
	diags   *DiagLogger
}

// NewChecker builds a checker sharing tt (as left by the parser, at
// file scope) and diags with the rest of the pipeline.
func NewChecker(tt *TypeTab, diags *DiagLogger) *Checker {
	return &Checker{typetab: tt, diags: diags}
}

// checkCtx threads the ambient state spec.md's description of the
// original implementation carries on a context value rather than the
// checker itself: the current function's return type (for "return"
// statements), and the innermost enclosing loop/switch (for
// break/continue/case legality). Grounded on
// original_source/src/typecheck/typecheck_priv.h's field layout.
type checkCtx struct {
	retType    Type
	inLoop     bool
	inSwitch   *switchInfo
	funcName   string
}

// switchInfo collects the case/default labels seen inside one switch
// statement, and detects duplicate case values (C11 6.8.4.2p3).
type switchInfo struct {
	seen       map[int64]bool
	hasDefault bool
	tagType    Type
}

// Check implements the top-level typecheck(translation-unit) -> bool
// contract: it visits every external declaration, returning false iff
// at least one error-level diagnostic was logged while doing so.
func (c *Checker) Check(tu *TranslationUnit) bool {
	for _, d := range tu.Decls {
		c.checkExternalDecl(d)
	}
	return !c.diags.HadError()
}

func (c *Checker) checkExternalDecl(d Decl) {
	switch dd := d.(type) {
	case *FuncDecl:
		c.checkFuncDecl(dd)
	case *VarDecl:
		c.checkGlobalVarDecl(dd)
	case *TypedefDecl, *TagDecl, *EmptyDecl:
		// Fully resolved by the parser already; nothing further to
		// annotate.
	case *StaticAssertDecl:
		c.checkStaticAssert(dd)
	}
}

func (c *Checker) checkGlobalVarDecl(d *VarDecl) {
	if d.Init == nil {
		return
	}
	c.checkInitializer(d.Init, d.Type)
}

func (c *Checker) checkStaticAssert(d *StaticAssertDecl) {
	v, ok := foldConstExpr(c.checkExpr(d.Cond, nil))
	if !ok {
		c.diags.Errorf(d.Mark, "static assertion expression is not an integer constant expression")
		return
	}
	if v == 0 {
		if d.Msg != "" {
			c.diags.Errorf(d.Mark, "static assertion failed: %s", d.Msg)
		} else {
			c.diags.Errorf(d.Mark, "static assertion failed")
		}
	}
}

func (c *Checker) checkFuncDecl(d *FuncDecl) {
	if d.Body == nil {
		return
	}
	ctx := &checkCtx{retType: d.Type.Ret, funcName: d.Name}
	c.typetab.Push()
	for i, pname := range d.Type.ParamNames {
		if pname == "" || i >= len(d.Type.Params) {
			continue
		}
		c.typetab.Declare(pname, &TypeTabEntry{Kind: EntryVariable, Type: d.Type.Params[i], Defined: true})
	}
	labels := map[string]bool{}
	gotos := map[string]*fmark{}
	collectLabelsStmt(d.Body, labels)
	c.checkCompoundStmtNoScope(d.Body, ctx, gotos)
	for name, mark := range gotos {
		if !labels[name] {
			c.diags.Errorf(mark, "use of undeclared label '%s'", name)
		}
	}
	c.typetab.Pop()
}

// collectLabelsStmt walks the whole function body (ignoring scope)
// recording every LabelStmt name, so a forward "goto" can be resolved
// without a second statement-ordering pass.
func collectLabelsStmt(s Stmt, labels map[string]bool) {
	switch ss := s.(type) {
	case *LabelStmt:
		labels[ss.Label] = true
		collectLabelsStmt(ss.Body, labels)
	case *CompoundStmt:
		for _, item := range ss.Items {
			if item.Stmt != nil {
				collectLabelsStmt(item.Stmt, labels)
			}
		}
	case *IfStmt:
		collectLabelsStmt(ss.Then, labels)
		if ss.Else != nil {
			collectLabelsStmt(ss.Else, labels)
		}
	case *WhileStmt:
		collectLabelsStmt(ss.Body, labels)
	case *DoWhileStmt:
		collectLabelsStmt(ss.Body, labels)
	case *ForStmt:
		collectLabelsStmt(ss.Body, labels)
	case *SwitchStmt:
		collectLabelsStmt(ss.Body, labels)
	case *CaseStmt:
		collectLabelsStmt(ss.Body, labels)
	case *DefaultStmt:
		collectLabelsStmt(ss.Body, labels)
	}
}
