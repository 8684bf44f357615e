package cc11

import "strings"

// expandIdent implements spec.md §4.1's macro-expansion algorithm for
// the identifier at toks[i]. It returns the index to resume scanning
// toks from; the expansion result (possibly recursively expanded
// further) is appended directly to p.out.
func (p *Preprocessor) expandIdent(toks []Token, i int) int {
	t := toks[i]
	name := *t.Ident

	if t.Hideset.Contains(name) {
		p.emit(t)
		return i + 1
	}

	def, ok := p.macros.Lookup(name)
	if !ok {
		p.emit(t)
		return i + 1
	}

	switch def.Kind {
	case MacroSpecial:
		p.emit(p.expandSpecial(name, t.Mark))
		return i + 1

	case MacroObjectLike:
		h := t.Hideset.Add(p.hideCache, name)
		body := p.substitute(def, nil, h, t.Mark)
		p.reenter(body)
		return i + 1

	case MacroFunctionLike:
		j := skipWhitespace(toks, i+1)
		if j >= len(toks) || !toks[j].IsPunct("(") {
			p.emit(t)
			return i + 1
		}
		args, rparen, next := parseArgs(toks, j)
		if rparen < 0 {
			p.diags.Errorf(t.Mark, "unterminated argument list invoking macro %q", name)
			return next
		}
		if err := checkArity(def, args); err != "" {
			p.diags.Errorf(t.Mark, "%s", err)
			return next
		}
		bindings := bindParams(def, args)
		h := t.Hideset.Intersect(p.hideCache, toks[rparen].Hideset).Add(p.hideCache, name)
		body := p.substitute(def, bindings, h, t.Mark)
		p.reenter(body)
		return next
	}
	p.emit(t)
	return i + 1
}

func skipWhitespace(toks []Token, i int) int {
	for i < len(toks) && (toks[i].Kind == TkWhitespace || toks[i].Kind == TkNewline) {
		i++
	}
	return i
}

// parseArgs parses the parenthesized, comma-separated argument list
// starting at toks[lparen] (which must be "("). Only nested
// parentheses protect a comma; brackets and braces do not. A
// string/char literal is a single token, so a comma inside one never
// splits arguments.
func parseArgs(toks []Token, lparen int) (args [][]Token, rparen int, next int) {
	depth := 0
	i := lparen
	var cur []Token
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.IsPunct("(") :
			depth++
			if depth > 1 {
				cur = append(cur, t)
			}
		case t.IsPunct(")"):
			depth--
			if depth == 0 {
				if len(cur) > 0 || len(args) > 0 {
					args = append(args, cur)
				}
				return args, i, i + 1
			}
			cur = append(cur, t)
		case t.IsPunct(",") && depth == 1:
			args = append(args, cur)
			cur = nil
		case t.Kind == TkWhitespace || t.Kind == TkNewline:
			if depth > 1 || (depth == 1 && len(cur) > 0) {
				cur = append(cur, t)
			}
		default:
			cur = append(cur, t)
		}
		i++
	}
	return args, -1, i
}

func checkArity(def *MacroDef, args [][]Token) string {
	n := len(args)
	// `M()` with zero declared params is zero arguments, not one
	// empty argument; with one declared (non-variadic) param it is
	// one empty argument (spec.md §8 boundary behaviour).
	if n == 0 && len(def.Params) == 1 && !def.Variadic {
		return ""
	}
	if def.Variadic {
		if n < len(def.Params) {
			return "macro \"" + def.Name + "\" requires at least " + itoa(len(def.Params)) + " arguments"
		}
		return ""
	}
	if n != len(def.Params) {
		return "macro \"" + def.Name + "\" passed " + itoa(n) + " arguments, but takes " + itoa(len(def.Params))
	}
	return ""
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// bindParams maps each declared parameter name to its raw argument
// token sequence; the variadic tail parameter (__VA_ARGS__) absorbs
// every argument past the last named one, comma-joined.
func bindParams(def *MacroDef, args [][]Token) map[string][]Token {
	b := make(map[string][]Token, len(def.Params)+1)
	fixed := len(def.Params)
	for idx, pname := range def.Params {
		if idx < len(args) {
			b[pname] = args[idx]
		} else {
			b[pname] = nil
		}
	}
	if def.Variadic {
		var tail []Token
		for idx := fixed; idx < len(args); idx++ {
			if idx > fixed {
				tail = append(tail, NewPunct(TkPunct, ",", nil))
			}
			tail = append(tail, args[idx]...)
		}
		b["__VA_ARGS__"] = tail
	}
	return b
}

// substitute implements spec.md §4.1's substitute algorithm over
// def's replacement list, given the parameter bindings (nil for an
// object-like macro) and the hideset to union into every emitted
// token.
func (p *Preprocessor) substitute(def *MacroDef, bindings map[string][]Token, h *Hideset, useMark *fmark) []Token {
	var out []Token
	body := def.Body
	for i := 0; i < len(body); i++ {
		t := body[i]

		if t.Kind == TkHash && bindings != nil {
			j := skipWhitespace(body, i+1)
			if j < len(body) && body[j].Kind == TkIdent {
				if arg, ok := bindings[*body[j].Ident]; ok {
					out = append(out, p.stringize(arg, useMark))
					i = j
					continue
				}
			}
		}

		if t.Kind == TkHashHash {
			j := skipWhitespace(body, i+1)
			// ## with an empty-argument left operand and a parameter
			// right operand: GNU/C99 rule — drop the ## and just
			// emit the (empty) parameter, i.e. nothing extra, OR if
			// left-tail popped was itself empty from a param, this
			// is handled by the empty-arg branch below; here we
			// handle the common "glue two tokens" case.
			if j < len(body) {
				rightIsParam := body[j].Kind == TkIdent && bindings != nil
				var rightToks []Token
				if rightIsParam {
					if arg, ok := bindings[*body[j].Ident]; ok {
						rightToks = arg
					} else {
						rightIsParam = false
					}
				}
				if !rightIsParam {
					rightToks = []Token{body[j]}
				}
				out = pasteOnto(p, out, rightToks, useMark)
				i = j
				continue
			}
			continue
		}

		if t.Kind == TkIdent && bindings != nil {
			if arg, ok := bindings[*t.Ident]; ok {
				// "A parameter immediately followed by ## with
				// empty argument": peek ahead past whitespace.
				j := skipWhitespace(body, i+1)
				followedByPaste := j < len(body) && body[j].Kind == TkHashHash
				if len(arg) == 0 && followedByPaste {
					k := skipWhitespace(body, j+1)
					if k < len(body) && body[k].Kind == TkIdent {
						if arg2, ok2 := bindings[*body[k].Ident]; ok2 {
							out = append(out, arg2...)
							i = k
							continue
						}
					}
					// else: drop the ## entirely, emit nothing for
					// this empty parameter.
					i = j
					continue
				}
				if followedByPaste {
					// glued on the next iteration by the ## handler
					// above; append raw (unexpanded) argument tokens.
					out = append(out, arg...)
					continue
				}
				expanded := p.preprocessTokens(arg)
				out = append(out, expanded...)
				continue
			}
		}

		out = append(out, t)
	}
	unionInPlace(p.hideCache, out, h)
	return out
}

// pasteOnto implements "glue": pop trailing whitespace is moot here
// since substitute never appends whitespace tokens; it concatenates
// the textual form of the last token in left with the first token of
// right, re-lexes the concatenation as a single token (error if it
// yields more than one), and returns left with that token replacing
// its tail, followed by any remaining tokens of right.
func pasteOnto(p *Preprocessor, left []Token, right []Token, useMark *fmark) []Token {
	if len(right) == 0 {
		return left
	}
	if len(left) == 0 {
		return right
	}
	a := left[len(left)-1]
	b := right[0]
	glued := tokenText(a) + tokenText(b)
	lx := NewLexer([]byte(glued), "<paste>", p.marks, p.intern, nil)
	toks := lx.Lex()
	var real []Token
	for _, t := range toks {
		if t.Kind != TkEOF {
			real = append(real, t)
		}
	}
	if len(real) != 1 {
		p.diags.Errorf(useMark, "pasting %q and %q does not give a valid preprocessing token", tokenText(a), tokenText(b))
		out := append(append([]Token{}, left...), right...)
		return out
	}
	glue := real[0]
	glue.Mark = a.Mark
	out := append(append([]Token{}, left[:len(left)-1]...), glue)
	out = append(out, right[1:]...)
	return out
}

func tokenText(t Token) string {
	switch t.Kind {
	case TkIdent:
		return *t.Ident
	case TkIntConst:
		return t.Text
	case TkFloatConst:
		return t.Text
	case TkStringConst:
		return "\"" + *t.Str + "\""
	case TkCharConst:
		return "'" + *t.Str + "'"
	default:
		return t.Text
	}
}

// stringize implements the "#" operator: collapse internal whitespace
// runs to one space, escape backslashes and quotes in string/char
// literal contents, and produce a single string-literal token.
func (p *Preprocessor) stringize(arg []Token, useMark *fmark) Token {
	var sb strings.Builder
	prevWasWS := true
	for _, t := range arg {
		if t.Kind == TkWhitespace || t.Kind == TkNewline {
			if !prevWasWS && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			prevWasWS = true
			continue
		}
		text := tokenText(t)
		if t.Kind == TkStringConst || t.Kind == TkCharConst {
			text = escapeForStringize(text)
		}
		sb.WriteString(text)
		prevWasWS = false
	}
	s := strings.TrimSpace(sb.String())
	return Token{Kind: TkStringConst, Mark: useMark, Str: p.intern.Intern(s), Hideset: emptyHideset}
}

func escapeForStringize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '\\' || r == '"' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// preprocessTokens recursively macro-expands an isolated token slice
// (a macro argument, or an #if line) to completion, returning the
// expanded sequence without touching p.out. Used for "a parameter not
// followed by ##" (re-expansion in context) and #if line expansion.
func (p *Preprocessor) preprocessTokens(in []Token) []Token {
	p.expansionDepth++
	defer func() { p.expansionDepth-- }()
	if p.expansionDepth > maxExpansionDepth {
		return in
	}
	savedOut := p.out
	p.out = nil
	i := 0
	for i < len(in) {
		t := in[i]
		switch t.Kind {
		case TkWhitespace, TkNewline:
			i++
		case TkIdent:
			i = p.expandIdent(in, i)
		default:
			p.emit(t)
			i++
		}
	}
	result := p.out
	p.out = savedOut
	return result
}

// reenter feeds an expansion result back through the full PP loop
// (directives included is never reachable here since expansion
// results are pure token lists) so that any macro names it contains
// are in turn expanded, per spec.md §4.1 ("recursively preprocess the
// result onto the output").
func (p *Preprocessor) reenter(body []Token) {
	i := 0
	for i < len(body) {
		t := body[i]
		switch t.Kind {
		case TkWhitespace, TkNewline:
			i++
		case TkIdent:
			i = p.expandIdent(body, i)
		default:
			p.emit(t)
			i++
		}
	}
}
