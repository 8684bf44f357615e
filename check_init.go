package cc11

// checkInitializer validates init (a scalar expression, a
// CompoundLiteralExpr, or an InitListExpr) against declType, per C11
// 6.7.9. Scalars go through ordinary assignability; brace lists
// recurse field-by-field into struct/union types, element-by-element
// into array types; for any other type a brace list is accepted only
// when it holds a single undesignated element, and rejected otherwise.
func (c *Checker) checkInitializer(init Expr, declType Type) {
	if init == nil {
		return
	}
	list, isList := init.(*InitListExpr)
	if !isList {
		e := c.checkExpr(init, nil)
		if !Assignable(declType, e.Base().Type) {
			c.diags.Errorf(e.Base().Mark, "initializing '%T' with incompatible type", declType)
		}
		return
	}
	switch dt := ResolveTypedefs(declType).(type) {
	case *StructType:
		c.checkStructInitList(list, dt)
	case *ArrType:
		c.checkArrayInitList(list, dt)
	default:
		// Scalar wrapped in braces, e.g. "int x = {5};" — legal, the
		// single element must itself be assignable.
		if len(list.Items) == 1 && len(list.Items[0].Designators) == 0 {
			c.checkInitializer(initItemExpr(list.Items[0]), declType)
			return
		}
		c.diags.Errorf(list.Mark, "too many braces around scalar initializer")
	}
}

func initItemExpr(item InitItem) Expr {
	if item.List != nil {
		return item.List
	}
	return item.Value
}

func (c *Checker) checkStructInitList(list *InitListExpr, st *StructType) {
	idx := 0
	for _, item := range list.Items {
		if len(item.Designators) > 0 {
			d := item.Designators[0]
			if d.Field == "" {
				c.diags.Errorf(list.Mark, "array designator used on struct/union initializer")
				continue
			}
			fi := fieldIndex(st, d.Field)
			if fi < 0 {
				c.diags.Errorf(list.Mark, "field designator '%s' does not refer to a member of '%s'", d.Field, st.Tag)
				continue
			}
			idx = fi
		}
		if idx >= len(st.Fields) {
			c.diags.Errorf(list.Mark, "excess elements in struct initializer")
			break
		}
		c.checkInitializer(initItemExpr(item), st.Fields[idx].Type)
		idx++
		if st.IsUnion {
			// Only the first initialized member of a union is legal
			// to target; stop after it.
			break
		}
	}
}

func fieldIndex(st *StructType, name string) int {
	for i, f := range st.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (c *Checker) checkArrayInitList(list *InitListExpr, at *ArrType) {
	maxIdx := int64(-1)
	idx := int64(0)
	for _, item := range list.Items {
		if len(item.Designators) > 0 {
			d := item.Designators[0]
			if d.Field != "" {
				c.diags.Errorf(list.Mark, "field designator used on array initializer")
				continue
			}
			v, ok := foldConstExpr(c.checkExpr(d.Index, nil))
			if !ok {
				c.diags.Errorf(list.Mark, "array designator index is not an integer constant expression")
				continue
			}
			idx = v
		}
		if at.HasLen && idx >= at.ResolvedNElems {
			c.diags.Errorf(list.Mark, "excess elements in array initializer")
		} else if idx > maxIdx {
			maxIdx = idx
		}
		c.checkInitializer(initItemExpr(item), at.Base)
		idx++
	}
	if !at.HasLen {
		at.HasLen = true
		at.ResolvedNElems = maxIdx + 1
	}
}
