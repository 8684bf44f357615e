package cc11

// checkCompoundStmt checks a nested "{ ... }" block, pushing a fresh
// typetab scope for its duration — the replay, at check time, of the
// same scope discipline the parser applied as it first read the
// block (spec.md §5).
func (c *Checker) checkCompoundStmt(s *CompoundStmt, ctx *checkCtx, gotos map[string]*fmark) {
	c.typetab.Push()
	c.checkCompoundStmtNoScope(s, ctx, gotos)
	c.typetab.Pop()
}

func (c *Checker) checkCompoundStmtNoScope(s *CompoundStmt, ctx *checkCtx, gotos map[string]*fmark) {
	for _, item := range s.Items {
		if item.Decl != nil {
			c.checkLocalDecl(item.Decl)
		}
		if item.Stmt != nil {
			c.checkStmt(item.Stmt, ctx, gotos)
		}
	}
}

func (c *Checker) checkLocalDecl(d Decl) {
	switch dd := d.(type) {
	case *VarDecl:
		c.typetab.Declare(dd.Name, &TypeTabEntry{Kind: EntryVariable, Type: dd.Type, Defined: true})
		if dd.Init != nil {
			c.checkInitializer(dd.Init, dd.Type)
		}
	case *TypedefDecl:
		c.typetab.Declare(dd.Name, &TypeTabEntry{Kind: EntryTypedef, Type: dd.Type})
	case *StaticAssertDecl:
		c.checkStaticAssert(dd)
	}
}

func (c *Checker) checkStmt(s Stmt, ctx *checkCtx, gotos map[string]*fmark) {
	switch ss := s.(type) {
	case *CompoundStmt:
		c.checkCompoundStmt(ss, ctx, gotos)
	case *ExprStmt:
		c.checkExpr(ss.X, ctx)
	case *NullStmt:
	case *IfStmt:
		c.checkExpr(ss.Cond, ctx)
		c.checkStmt(ss.Then, ctx, gotos)
		if ss.Else != nil {
			c.checkStmt(ss.Else, ctx, gotos)
		}
	case *SwitchStmt:
		tag := c.checkExpr(ss.Tag, ctx)
		inner := *ctx
		inner.inSwitch = &switchInfo{seen: map[int64]bool{}, tagType: tag.Base().Type}
		c.checkStmt(ss.Body, &inner, gotos)
	case *CaseStmt:
		if ctx.inSwitch == nil {
			c.diags.Errorf(ss.Mark, "'case' statement not in switch statement")
		} else {
			v, ok := foldConstExpr(c.checkExpr(ss.Value, ctx))
			if !ok {
				c.diags.Errorf(ss.Mark, "case label does not reduce to an integer constant")
			} else if ctx.inSwitch.seen[v] {
				c.diags.Errorf(ss.Mark, "duplicate case value '%d'", v)
			} else {
				ctx.inSwitch.seen[v] = true
			}
		}
		c.checkStmt(ss.Body, ctx, gotos)
	case *DefaultStmt:
		if ctx.inSwitch == nil {
			c.diags.Errorf(ss.Mark, "'default' statement not in switch statement")
		} else if ctx.inSwitch.hasDefault {
			c.diags.Errorf(ss.Mark, "multiple default labels in one switch")
		} else {
			ctx.inSwitch.hasDefault = true
		}
		c.checkStmt(ss.Body, ctx, gotos)
	case *WhileStmt:
		c.checkExpr(ss.Cond, ctx)
		inner := *ctx
		inner.inLoop = true
		c.checkStmt(ss.Body, &inner, gotos)
	case *DoWhileStmt:
		inner := *ctx
		inner.inLoop = true
		c.checkStmt(ss.Body, &inner, gotos)
		c.checkExpr(ss.Cond, ctx)
	case *ForStmt:
		c.typetab.Push()
		if ss.Init != nil {
			if ss.Init.Decl != nil {
				c.checkLocalDecl(ss.Init.Decl)
			} else if ss.Init.Stmt != nil {
				c.checkStmt(ss.Init.Stmt, ctx, gotos)
			}
		}
		if ss.Cond != nil {
			c.checkExpr(ss.Cond, ctx)
		}
		if ss.Post != nil {
			c.checkExpr(ss.Post, ctx)
		}
		inner := *ctx
		inner.inLoop = true
		c.checkStmt(ss.Body, &inner, gotos)
		c.typetab.Pop()
	case *GotoStmt:
		gotos[ss.Label] = ss.Mark
	case *LabelStmt:
		c.checkStmt(ss.Body, ctx, gotos)
	case *ContinueStmt:
		if !ctx.inLoop {
			c.diags.Errorf(ss.Mark, "'continue' statement not in a loop")
		}
	case *BreakStmt:
		if !ctx.inLoop && ctx.inSwitch == nil {
			c.diags.Errorf(ss.Mark, "'break' statement not in a loop or switch")
		}
	case *ReturnStmt:
		if ss.Value != nil {
			vt := c.checkExpr(ss.Value, ctx)
			if ctx.retType != nil && !IsVoid(ctx.retType) {
				if !Assignable(ctx.retType, vt.Base().Type) {
					c.diags.Errorf(ss.Mark, "returning incompatible type from function '%s'", ctx.funcName)
				}
			}
		} else if ctx.retType != nil && !IsVoid(ctx.retType) {
			c.diags.Warnf(ss.Mark, "non-void function '%s' should return a value", ctx.funcName)
		}
	}
}
