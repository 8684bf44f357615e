package cc11

// parseStatus is the three-way result spec.md §4.3's "Backtracking
// policy" names explicitly: a declaration-specifier/pointer/
// declarator/qualifier helper either matched (psOK), didn't start
// with a token its production recognizes (psBacktrack — the caller
// treats this as "nothing matched" and consumes no input), or hit a
// genuine syntax error that has already been diagnosed (psError).
// Grounded on the teacher's ParsingError/backtrackingError split in
// its base parser, generalized from two error values into this
// explicit three-way status.
type parseStatus int

const (
	psOK parseStatus = iota
	psBacktrack
	psError
)

// Parser implements spec.md §4.3: a single-token-lookahead recursive
// descent parser with an occasional multi-token probe into typetab to
// resolve the typedef-vs-identifier ambiguity. All state lives on the
// struct; nothing is global (spec.md §9).
type Parser struct {
	toks    []Token
	pos     int
	typetab *TypeTab
	diags   *DiagLogger
	marks   *markStore

	// anonTagSeq counts the calls to nextName.
	anonTagSeq int

	// The parser keeps no loop/switch nesting depth; the checker
	// tracks break/continue/case legality via checkCtx.
}

// NewParser builds a parser over toks (the preprocessor's fully
// expanded, whitespace-free output) sharing tt, diags and marks with
// the rest of the pipeline.
func NewParser(toks []Token, tt *TypeTab, diags *DiagLogger, marks *markStore) *Parser {
	return &Parser{toks: toks, typetab: tt, diags: diags, marks: marks}
}

var eofToken = Token{Kind: TkEOF, Text: ""}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return eofToken
	}
	return p.toks[p.pos]
}

func (p *Parser) curMark() *fmark {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Mark
	}
	if len(p.toks) > 0 {
		return p.toks[len(p.toks)-1].Mark
	}
	return &fmark{}
}

func (p *Parser) peekAt(off int) Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return eofToken
	}
	return p.toks[i]
}

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.toks)
}

func (p *Parser) isPunct(text string) bool {
	return p.cur().IsPunct(text)
}

func (p *Parser) isKeyword(kw string) bool {
	c := p.cur()
	return c.Kind == TkKeyword && c.Text == kw
}

// accept consumes and returns true if the current token is the given
// punctuator; otherwise it leaves position unchanged.
func (p *Parser) accept(text string) bool {
	if p.isPunct(text) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the given punctuator, logging a synchronized parse
// error if it is missing (spec.md §4.3 "Error recovery").
func (p *Parser) expect(text string) bool {
	if p.accept(text) {
		return true
	}
	p.errorf("expected '%s'", text)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.diags.Errorf(p.curMark(), format, args...)
}

// synchronize implements spec.md §4.3's recovery rule: consume tokens
// up to and including the next ';' or '}', or until a token that
// could start a top-level declaration-specifier (so the outer loop
// can try again without swallowing the next declaration).
func (p *Parser) synchronize() {
	for !p.atEOF() {
		if p.isPunct(";") {
			p.advance()
			return
		}
		if p.isPunct("}") {
			return
		}
		if p.startsDeclSpec() {
			return
		}
		p.advance()
	}
}

// Parse implements spec.md §4.3's top-level contract: consume the
// whole token stream and produce a translation unit, recovering from
// and continuing past individual declaration errors.
func (p *Parser) Parse() *TranslationUnit {
	tu := &TranslationUnit{}
	for !p.atEOF() {
		if p.accept(";") {
			continue
		}
		decls, status := p.parseExternalDecl()
		if status == psError {
			p.synchronize()
			continue
		}
		tu.Decls = append(tu.Decls, decls...)
	}
	return tu
}

func (p *Parser) nextName() string {
	p.anonTagSeq++
	return "<anon>"
}
