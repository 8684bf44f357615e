package cc11

import "time"

// predefinedObjectMacros lists the fixed object-like macros defined
// at preprocessor init, per spec.md §4.1's "Predefined macros"
// paragraph. Values are stored as replacement source text;
// definePredefined lexes each value string into tokens through
// defineFromText.
var predefinedObjectMacros = []struct {
	Name  string
	Value string
}{
	{"__STDC__", "1"},
	{"__STDC_VERSION__", "201112L"},
	{"__STDC_HOSTED__", "1"},
	{"__x86_64__", "1"},
	{"__linux__", "1"},
	{"__LP64__", "1"},
	{"__STDC_NO_ATOMICS__", "1"},
	{"__STDC_NO_THREADS__", "1"},
	{"__STDC_UTF_16__", "1"},
	{"__STDC_UTF_32__", "1"},
	{"NULL", "((void*)0)"},
}

// compatibilityShims are object/function-like macros that paper over
// compiler-specific spellings the original source used so headers
// written against a real compiler still preprocess.
var compatibilityShims = []struct {
	Name   string
	Params []string
	Body   string
}{
	{"__alignof__", []string{"x"}, "_Alignof(x)"},
	{"__FUNCTION__", nil, "__func__"},
	{"__inline", nil, "inline"},
	{"__inline__", nil, "inline"},
	{"__restrict", nil, "restrict"},
	{"__restrict__", nil, "restrict"},
	{"__const", nil, "const"},
	{"__volatile__", nil, "volatile"},
	{"_Noreturn", nil, ""},
}

// __attribute__ is defined as a variadic function-like macro whose
// body is empty, so `__attribute__((...))` disappears during
// expansion regardless of its argument shape.
const attributeMacroName = "__attribute__"

func (p *Preprocessor) definePredefined() {
	for _, m := range predefinedObjectMacros {
		p.defineFromText(m.Name, nil, m.Value)
	}
	for _, m := range compatibilityShims {
		p.defineFromText(m.Name, m.Params, m.Body)
	}
	p.macros.Define(&MacroDef{
		Name: attributeMacroName, Kind: MacroFunctionLike,
		Params: []string{"__args"}, Variadic: true, Body: nil,
	})
	for _, special := range []string{"__FILE__", "__LINE__", "__DATE__", "__TIME__"} {
		p.macros.Define(&MacroDef{Name: special, Kind: MacroSpecial})
	}
}

func (p *Preprocessor) defineFromText(name string, params []string, body string) {
	var toks []Token
	if body != "" {
		lx := NewLexer([]byte(body), "<builtin>", p.marks, p.intern, nil)
		for _, t := range lx.Lex() {
			if t.Kind == TkEOF || t.Kind == TkWhitespace {
				continue
			}
			toks = append(toks, t)
		}
	}
	kind := MacroObjectLike
	if params != nil {
		kind = MacroFunctionLike
	}
	p.macros.Define(&MacroDef{Name: name, Kind: kind, Params: params, Body: toks})
}

// expandSpecial synthesizes the value of one of the four special
// macros at the point of use, per spec.md §4.1.
func (p *Preprocessor) expandSpecial(name string, useMark *fmark) Token {
	switch name {
	case "__FILE__":
		return Token{Kind: TkStringConst, Mark: useMark, Str: p.intern.Intern(useMark.File), Hideset: emptyHideset}
	case "__LINE__":
		return Token{Kind: TkIntConst, Mark: useMark, IntVal: int64(useMark.Line), Hideset: emptyHideset}
	case "__DATE__":
		return Token{Kind: TkStringConst, Mark: useMark, Str: p.intern.Intern(p.clock().Format("Jan  2 2006")), Hideset: emptyHideset}
	case "__TIME__":
		return Token{Kind: TkStringConst, Mark: useMark, Str: p.intern.Intern(p.clock().Format("15:04:05")), Hideset: emptyHideset}
	default:
		return Token{Kind: TkErr, Mark: useMark, Text: "unknown special macro " + name, Hideset: emptyHideset}
	}
}

// clock returns the time used for __DATE__/__TIME__; overridable by
// tests via Preprocessor.Now so expansion is deterministic to verify.
func (p *Preprocessor) clock() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
