package cc11

// evalPPExpr implements the #if/#elif evaluation recipe of spec.md
// §4.1: expand macros (honoring "defined X"/"defined(X)", which must
// not expand X), replace every remaining identifier with 0, then
// parse the result as a constant expression and evaluate it.
func (p *Preprocessor) evalPPExpr(line []Token) int64 {
	expanded := p.expandPPLine(line)
	folded := make([]Token, 0, len(expanded))
	for _, t := range expanded {
		if t.Kind == TkIdent {
			folded = append(folded, Token{
				Kind: TkIntConst, Mark: t.Mark, IntVal: 0, Hideset: emptyHideset,
			})
			continue
		}
		folded = append(folded, t)
	}
	if len(folded) == 0 {
		p.diags.Errorf(lineMark(line), "#if with no expression")
		return 0
	}
	val, err := evalConstTokens(folded, p.diags)
	if err != nil {
		p.diags.Errorf(lineMark(line), "invalid #if expression: %v", err)
		return 0
	}
	return val
}

func lineMark(line []Token) *fmark {
	if len(line) > 0 {
		return line[0].Mark
	}
	return &fmark{}
}

// expandPPLine walks line handling "defined X"/"defined(X)" inline
// (without expanding X, per spec.md §4.1) and macro-expanding
// everything else via the normal recursive expansion machinery.
func (p *Preprocessor) expandPPLine(line []Token) []Token {
	var out []Token
	i := 0
	for i < len(line) {
		t := line[i]
		if t.Kind == TkIdent && *t.Ident == "defined" {
			j := i + 1
			paren := false
			if j < len(line) && line[j].IsPunct("(") {
				paren = true
				j++
			}
			if j < len(line) && line[j].Kind == TkIdent {
				name := *line[j].Ident
				val := int64(0)
				if p.macros.IsDefined(name) {
					val = 1
				}
				out = append(out, Token{Kind: TkIntConst, Mark: t.Mark, IntVal: val, Hideset: emptyHideset})
				j++
				if paren {
					if j < len(line) && line[j].IsPunct(")") {
						j++
					} else {
						p.diags.Errorf(t.Mark, "missing ')' after \"defined\"")
					}
				}
				i = j
				continue
			}
			p.diags.Errorf(t.Mark, "operator \"defined\" requires an identifier")
			i++
			continue
		}
		// Collect the run of tokens up to the next "defined" and
		// expand it as a unit, so a function-like macro invocation
		// spanning multiple tokens (e.g. "FOO(1,2)") still sees its
		// argument list.
		start := i
		for i < len(line) && !(line[i].Kind == TkIdent && *line[i].Ident == "defined") {
			i++
		}
		out = append(out, p.preprocessTokens(line[start:i])...)
	}
	return out
}
