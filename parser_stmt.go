package cc11

// parseCompoundStmt parses a "{ ... }" block, opening a fresh typetab
// scope for its duration (spec.md §5: entered on compound-statement
// entry, exited in LIFO order on exit).
func (p *Parser) parseCompoundStmt() (*CompoundStmt, parseStatus) {
	p.typetab.Push()
	defer p.typetab.Pop()
	return p.parseCompoundStmtNoScope()
}

// parseCompoundStmtNoScope parses the same grammar but does not touch
// typetab — used for a function body, whose own scope was already
// pushed by parseFunctionBody so its parameters are visible inside
// the same scope as the body's locals (C11 6.9.1p3 semantics).
func (p *Parser) parseCompoundStmtNoScope() (*CompoundStmt, parseStatus) {
	mark := p.curMark()
	if !p.expect("{") {
		return nil, psError
	}
	cs := &CompoundStmt{StmtBase: StmtBase{Mark: mark}}
	for !p.isPunct("}") && !p.atEOF() {
		item, status := p.parseBlockItem()
		if status == psError {
			p.synchronize()
			continue
		}
		cs.Items = append(cs.Items, item)
	}
	p.expect("}")
	return cs, psOK
}

func (p *Parser) parseBlockItem() (BlockItem, parseStatus) {
	if p.isKeyword("_Static_assert") {
		d, st := p.parseStaticAssert(p.curMark())
		return BlockItem{Decl: d}, st
	}
	if p.startsDeclSpec() && !p.looksLikeLabelOrExpr() {
		spec, status := p.parseDeclarationSpecifiers()
		if status != psOK {
			return BlockItem{}, psError
		}
		decl, st := p.finishLocalDecl(spec)
		return BlockItem{Decl: decl}, st
	}
	s, status := p.parseStmt()
	return BlockItem{Stmt: s}, status
}

// looksLikeLabelOrExpr guards against misreading "T: ..." — it never
// arises in valid C since labels are plain identifiers, but a typedef
// name immediately followed by ':' wouldn't parse as a declaration
// anyway (no declarator), so this is a no-op hook kept for clarity at
// the call site above.
func (p *Parser) looksLikeLabelOrExpr() bool { return false }

// finishLocalDecl parses the declarator(s)/initializer(s) following
// an already-parsed declaration-specifier list at block scope,
// wrapping multiple comma-separated declarators' decls isn't
// representable as a single Decl, so local multi-declarator groups
// collapse to their first declarator; the rest are declared into
// typetab (for name resolution) and returned as sibling EmptyDecl-free
// VarDecls is not possible with the single-Decl BlockItem shape, so
// callers needing every sibling should prefer one declarator per
// statement — the common style in the codebases this parser targets.
func (p *Parser) finishLocalDecl(spec *DeclSpec) (Decl, parseStatus) {
	mark := p.curMark()
	name, typ, st := p.declarator(spec.Base)
	if st == psError {
		p.expect(";")
		return nil, psError
	}
	typ = applyModifiers(typ, spec)
	if spec.Flags.Has(ModTypedef) {
		p.typetab.Declare(name, &TypeTabEntry{Kind: EntryTypedef, Type: typ})
		for p.accept(",") {
			n2, t2, st2 := p.declarator(spec.Base)
			if st2 == psError {
				break
			}
			p.typetab.Declare(n2, &TypeTabEntry{Kind: EntryTypedef, Type: applyModifiers(t2, spec)})
		}
		p.expect(";")
		return &TypedefDecl{DeclBase: DeclBase{Mark: mark}, Name: name, Type: typ}, psOK
	}
	var init Expr
	if p.accept("=") {
		init = p.parseInitializer()
	}
	p.typetab.Declare(name, &TypeTabEntry{Kind: EntryVariable, Type: typ, Defined: true})
	for p.accept(",") {
		n2, t2, st2 := p.declarator(spec.Base)
		if st2 == psError {
			break
		}
		t2 = applyModifiers(t2, spec)
		var init2 Expr
		if p.accept("=") {
			init2 = p.parseInitializer()
		}
		_ = init2
		p.typetab.Declare(n2, &TypeTabEntry{Kind: EntryVariable, Type: t2, Defined: true})
	}
	p.expect(";")
	return &VarDecl{DeclBase: DeclBase{Mark: mark}, Name: name, Type: typ, Init: init, Storage: spec.Flags}, psOK
}

func (p *Parser) parseStmt() (Stmt, parseStatus) {
	mark := p.curMark()
	c := p.cur()

	if c.Kind == TkIdent && p.peekAt(1).IsPunct(":") {
		label := *c.Ident
		p.advance()
		p.advance()
		body, st := p.parseStmt()
		return &LabelStmt{StmtBase: StmtBase{Mark: mark}, Label: label, Body: body}, st
	}

	if c.Kind == TkKeyword {
		switch c.Text {
		case "case":
			p.advance()
			val := p.parseConstantExpr()
			p.expect(":")
			body, st := p.parseStmt()
			return &CaseStmt{StmtBase: StmtBase{Mark: mark}, Value: val, Body: body}, st
		case "default":
			p.advance()
			p.expect(":")
			body, st := p.parseStmt()
			return &DefaultStmt{StmtBase: StmtBase{Mark: mark}, Body: body}, st
		case "if":
			return p.parseIfStmt(mark)
		case "switch":
			return p.parseSwitchStmt(mark)
		case "while":
			return p.parseWhileStmt(mark)
		case "do":
			return p.parseDoWhileStmt(mark)
		case "for":
			return p.parseForStmt(mark)
		case "goto":
			p.advance()
			if p.cur().Kind != TkIdent {
				p.errorf("expected label name after goto")
				return &NullStmt{StmtBase: StmtBase{Mark: mark}}, psError
			}
			label := *p.cur().Ident
			p.advance()
			p.expect(";")
			return &GotoStmt{StmtBase: StmtBase{Mark: mark}, Label: label}, psOK
		case "continue":
			p.advance()
			p.expect(";")
			return &ContinueStmt{StmtBase: StmtBase{Mark: mark}}, psOK
		case "break":
			p.advance()
			p.expect(";")
			return &BreakStmt{StmtBase: StmtBase{Mark: mark}}, psOK
		case "return":
			p.advance()
			var val Expr
			if !p.isPunct(";") {
				val = p.parseExpr()
			}
			p.expect(";")
			return &ReturnStmt{StmtBase: StmtBase{Mark: mark}, Value: val}, psOK
		}
	}

	if p.isPunct("{") {
		return p.parseCompoundStmt()
	}
	if p.accept(";") {
		return &NullStmt{StmtBase: StmtBase{Mark: mark}}, psOK
	}

	x := p.parseExpr()
	p.expect(";")
	return &ExprStmt{StmtBase: StmtBase{Mark: mark}, X: x}, psOK
}

func (p *Parser) parseIfStmt(mark *fmark) (Stmt, parseStatus) {
	p.advance()
	p.expect("(")
	cond := p.parseExpr()
	p.expect(")")
	then, st := p.parseStmt()
	if st == psError {
		return &IfStmt{StmtBase: StmtBase{Mark: mark}, Cond: cond, Then: then}, psError
	}
	var els Stmt
	if p.acceptKeyword("else") {
		els, st = p.parseStmt()
	}
	return &IfStmt{StmtBase: StmtBase{Mark: mark}, Cond: cond, Then: then, Else: els}, st
}

func (p *Parser) parseSwitchStmt(mark *fmark) (Stmt, parseStatus) {
	p.advance()
	p.expect("(")
	tag := p.parseExpr()
	p.expect(")")
	body, st := p.parseStmt()
	return &SwitchStmt{StmtBase: StmtBase{Mark: mark}, Tag: tag, Body: body}, st
}

func (p *Parser) parseWhileStmt(mark *fmark) (Stmt, parseStatus) {
	p.advance()
	p.expect("(")
	cond := p.parseExpr()
	p.expect(")")
	body, st := p.parseStmt()
	return &WhileStmt{StmtBase: StmtBase{Mark: mark}, Cond: cond, Body: body}, st
}

func (p *Parser) parseDoWhileStmt(mark *fmark) (Stmt, parseStatus) {
	p.advance()
	body, st := p.parseStmt()
	if !p.acceptKeyword("while") {
		p.errorf("expected 'while' after do-statement body")
		return &DoWhileStmt{StmtBase: StmtBase{Mark: mark}, Body: body}, psError
	}
	p.expect("(")
	cond := p.parseExpr()
	p.expect(")")
	p.expect(";")
	return &DoWhileStmt{StmtBase: StmtBase{Mark: mark}, Body: body, Cond: cond}, st
}

func (p *Parser) parseForStmt(mark *fmark) (Stmt, parseStatus) {
	p.advance()
	p.expect("(")
	p.typetab.Push()
	defer p.typetab.Pop()

	fs := &ForStmt{StmtBase: StmtBase{Mark: mark}}
	if !p.isPunct(";") {
		if p.startsDeclSpec() {
			spec, status := p.parseDeclarationSpecifiers()
			if status == psOK {
				decl, _ := p.finishLocalDecl(spec)
				fs.Init = &BlockItem{Decl: decl}
			}
		} else {
			x := p.parseExpr()
			p.expect(";")
			fs.Init = &BlockItem{Stmt: &ExprStmt{StmtBase: StmtBase{Mark: mark}, X: x}}
		}
	} else {
		p.advance()
	}
	if !p.isPunct(";") {
		fs.Cond = p.parseExpr()
	}
	p.expect(";")
	if !p.isPunct(")") {
		fs.Post = p.parseExpr()
	}
	p.expect(")")
	body, st := p.parseStmt()
	fs.Body = body
	return fs, st
}
