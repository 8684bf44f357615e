package cc11

// parseInitializer implements C11 6.7.9's initializer production: a
// single assignment-expression, or a braced initializer list.
func (p *Parser) parseInitializer() Expr {
	if p.isPunct("{") {
		return p.parseInitializerList()
	}
	return p.parseAssignExpr()
}

// parseInitializerList parses "{ designation? initializer (','
// designation? initializer)* [','] }", supporting both ".field ="
// and "[index] =" designators per spec.md §4.3 ("designated
// initializers").
func (p *Parser) parseInitializerList() *InitListExpr {
	mark := p.curMark()
	p.expect("{")
	list := &InitListExpr{ExprBase: ExprBase{Mark: mark}}
	for !p.isPunct("}") && !p.atEOF() {
		var item InitItem
		for p.isPunct(".") || p.isPunct("[") {
			if p.accept(".") {
				if p.cur().Kind != TkIdent {
					p.errorf("expected field designator name")
					break
				}
				item.Designators = append(item.Designators, Designator{Field: *p.cur().Ident})
				p.advance()
				continue
			}
			p.advance() // '['
			idx := p.parseConstantExpr()
			p.expect("]")
			item.Designators = append(item.Designators, Designator{Index: idx})
		}
		if len(item.Designators) > 0 {
			p.expect("=")
		}
		if p.isPunct("{") {
			item.List = p.parseInitializerList()
		} else {
			item.Value = p.parseAssignExpr()
		}
		list.Items = append(list.Items, item)
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	return list
}
