package cc11

// lowerCompoundStmt lowers a "{ ... }" block: local declarations
// allocate their stack slots in the function prologue (spec.md
// §4.4.2's "Function prologue"), then statements lower in order.
func (fg *funcGen) lowerCompoundStmt(s *CompoundStmt) {
	for _, item := range s.Items {
		if item.Decl != nil {
			fg.lowerLocalDecl(item.Decl)
		}
		if item.Stmt != nil {
			fg.lowerStmt(item.Stmt)
		}
	}
}

func (fg *funcGen) lowerLocalDecl(d Decl) {
	vd, ok := d.(*VarDecl)
	if !ok {
		return
	}
	typ := fg.g.lowerType(vd.Type)
	slot := fg.newTemp()
	fg.emitPrefix(&IRAssignStmt{Dest: slot, Src: &IRAlloca{Elem: typ, Align: AlignOf(vd.Type)}})
	addr := &IRVar{Name: slot, Local: true, Typ: &IRPtrType{Base: typ}}
	fg.locals[vd.Name] = &irLocal{addr: addr, elem: typ}
	if vd.Init != nil {
		fg.lowerInitList(addr, typ, vd.Type, vd.Init)
	}
}

func (fg *funcGen) lowerStmt(s Stmt) {
	switch ss := s.(type) {
	case *CompoundStmt:
		fg.lowerCompoundStmt(ss)
	case *ExprStmt:
		fg.lowerExpr(ss.X)
	case *NullStmt:
	case *IfStmt:
		fg.lowerIf(ss)
	case *SwitchStmt:
		fg.lowerSwitch(ss)
	case *CaseStmt:
		fg.lowerStmt(ss.Body)
	case *DefaultStmt:
		fg.lowerStmt(ss.Body)
	case *WhileStmt:
		fg.lowerWhile(ss)
	case *DoWhileStmt:
		fg.lowerDoWhile(ss)
	case *ForStmt:
		fg.lowerFor(ss)
	case *GotoStmt:
		fg.emit(&IRBrStmt{Then: gotoLabelName(ss.Label)})
	case *LabelStmt:
		fg.emit(&IRLabelStmt{Name: gotoLabelName(ss.Label)})
		fg.lowerStmt(ss.Body)
	case *ContinueStmt:
		fg.emit(&IRBrStmt{Then: fg.contLbl})
	case *BreakStmt:
		fg.emit(&IRBrStmt{Then: fg.breakLbl})
	case *ReturnStmt:
		fg.lowerReturn(ss)
	}
}

func gotoLabelName(name string) string { return "lbl." + name }

func (fg *funcGen) lowerIf(s *IfStmt) {
	cond := fg.boolify(fg.lowerExpr(s.Cond))
	thenLbl := fg.newLabel()
	var elseLbl string
	endLbl := fg.newLabel()
	if s.Else != nil {
		elseLbl = fg.newLabel()
	} else {
		elseLbl = endLbl
	}
	fg.emit(&IRBrStmt{Cond: cond, Then: thenLbl, Else: elseLbl})
	fg.emit(&IRLabelStmt{Name: thenLbl})
	fg.lowerStmt(s.Then)
	if !fg.terminated {
		fg.emit(&IRBrStmt{Then: endLbl})
	}
	if s.Else != nil {
		fg.emit(&IRLabelStmt{Name: elseLbl})
		fg.lowerStmt(s.Else)
		if !fg.terminated {
			fg.emit(&IRBrStmt{Then: endLbl})
		}
	}
	fg.emit(&IRLabelStmt{Name: endLbl})
}

func (fg *funcGen) lowerWhile(s *WhileStmt) {
	condLbl, bodyLbl, endLbl := fg.newLabel(), fg.newLabel(), fg.newLabel()
	savedBreak, savedCont := fg.breakLbl, fg.contLbl
	fg.breakLbl, fg.contLbl = endLbl, condLbl

	fg.emit(&IRBrStmt{Then: condLbl})
	fg.emit(&IRLabelStmt{Name: condLbl})
	cond := fg.boolify(fg.lowerExpr(s.Cond))
	fg.emit(&IRBrStmt{Cond: cond, Then: bodyLbl, Else: endLbl})
	fg.emit(&IRLabelStmt{Name: bodyLbl})
	fg.lowerStmt(s.Body)
	if !fg.terminated {
		fg.emit(&IRBrStmt{Then: condLbl})
	}
	fg.emit(&IRLabelStmt{Name: endLbl})

	fg.breakLbl, fg.contLbl = savedBreak, savedCont
}

func (fg *funcGen) lowerDoWhile(s *DoWhileStmt) {
	bodyLbl, condLbl, endLbl := fg.newLabel(), fg.newLabel(), fg.newLabel()
	savedBreak, savedCont := fg.breakLbl, fg.contLbl
	fg.breakLbl, fg.contLbl = endLbl, condLbl

	fg.emit(&IRBrStmt{Then: bodyLbl})
	fg.emit(&IRLabelStmt{Name: bodyLbl})
	fg.lowerStmt(s.Body)
	if !fg.terminated {
		fg.emit(&IRBrStmt{Then: condLbl})
	}
	fg.emit(&IRLabelStmt{Name: condLbl})
	cond := fg.boolify(fg.lowerExpr(s.Cond))
	fg.emit(&IRBrStmt{Cond: cond, Then: bodyLbl, Else: endLbl})
	fg.emit(&IRLabelStmt{Name: endLbl})

	fg.breakLbl, fg.contLbl = savedBreak, savedCont
}

func (fg *funcGen) lowerFor(s *ForStmt) {
	if s.Init != nil {
		if s.Init.Decl != nil {
			fg.lowerLocalDecl(s.Init.Decl)
		} else if s.Init.Stmt != nil {
			fg.lowerStmt(s.Init.Stmt)
		}
	}
	condLbl, bodyLbl, stepLbl, endLbl := fg.newLabel(), fg.newLabel(), fg.newLabel(), fg.newLabel()
	savedBreak, savedCont := fg.breakLbl, fg.contLbl
	fg.breakLbl, fg.contLbl = endLbl, stepLbl

	fg.emit(&IRBrStmt{Then: condLbl})
	fg.emit(&IRLabelStmt{Name: condLbl})
	if s.Cond != nil {
		cond := fg.boolify(fg.lowerExpr(s.Cond))
		fg.emit(&IRBrStmt{Cond: cond, Then: bodyLbl, Else: endLbl})
	} else {
		fg.emit(&IRBrStmt{Then: bodyLbl})
	}
	fg.emit(&IRLabelStmt{Name: bodyLbl})
	fg.lowerStmt(s.Body)
	if !fg.terminated {
		fg.emit(&IRBrStmt{Then: stepLbl})
	}
	fg.emit(&IRLabelStmt{Name: stepLbl})
	if s.Post != nil {
		fg.lowerExpr(s.Post)
	}
	fg.emit(&IRBrStmt{Then: condLbl})
	fg.emit(&IRLabelStmt{Name: endLbl})

	fg.breakLbl, fg.contLbl = savedBreak, savedCont
}

// lowerSwitch collects the same case-value table the checker already
// validated for duplicates, and emits a single IR switch dispatching
// to one label per case plus the default (or the end label, if the
// switch has none) — spec.md §4.4.2's "switch" bullet.
func (fg *funcGen) lowerSwitch(s *SwitchStmt) {
	tag := fg.lowerExpr(s.Tag)
	tag64 := fg.convertTo(tag, &IRIntType{Width: 64}, s.Tag.Base().Type, LongType)
	endLbl := fg.newLabel()
	savedBreak := fg.breakLbl
	fg.breakLbl = endLbl

	var cases []IRSwitchCase
	defaultLbl := endLbl
	labelForCase := map[Stmt]string{}
	var collect func(Stmt)
	collect = func(st Stmt) {
		switch cs := st.(type) {
		case *CaseStmt:
			lbl := fg.newLabel()
			labelForCase[cs] = lbl
			v, _ := foldConstExpr(cs.Value)
			cases = append(cases, IRSwitchCase{Value: v, Label: lbl})
			collect(cs.Body)
		case *DefaultStmt:
			lbl := fg.newLabel()
			labelForCase[cs] = lbl
			defaultLbl = lbl
			collect(cs.Body)
		case *CompoundStmt:
			for _, item := range cs.Items {
				if item.Stmt != nil {
					collect(item.Stmt)
				}
			}
		}
	}
	collect(s.Body)

	fg.emit(&IRSwitchStmt{Tag: tag64, Default: defaultLbl, Cases: cases})
	fg.lowerSwitchBody(s.Body, labelForCase)
	if !fg.terminated {
		fg.emit(&IRBrStmt{Then: endLbl})
	}
	fg.emit(&IRLabelStmt{Name: endLbl})

	fg.breakLbl = savedBreak
}

func (fg *funcGen) lowerSwitchBody(s Stmt, labels map[Stmt]string) {
	switch ss := s.(type) {
	case *CompoundStmt:
		for _, item := range ss.Items {
			if item.Decl != nil {
				fg.lowerLocalDecl(item.Decl)
			}
			if item.Stmt != nil {
				fg.lowerSwitchBody(item.Stmt, labels)
			}
		}
	case *CaseStmt:
		fg.emit(&IRLabelStmt{Name: labels[ss]})
		fg.lowerSwitchBody(ss.Body, labels)
	case *DefaultStmt:
		fg.emit(&IRLabelStmt{Name: labels[ss]})
		fg.lowerSwitchBody(ss.Body, labels)
	default:
		fg.lowerStmt(s)
	}
}

func (fg *funcGen) lowerReturn(s *ReturnStmt) {
	if s.Value == nil {
		fg.emit(&IRRetStmt{})
		return
	}
	v := fg.lowerExpr(s.Value)
	v = fg.convertTo(v, fg.g.lowerType(fg.retType), s.Value.Base().Type, fg.retType)
	fg.emit(&IRRetStmt{Value: v})
}
