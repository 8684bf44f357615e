package cc11

import (
	"os"
	"path/filepath"
	"time"
)

// ifFrame tracks, for one level of #if/#ifdef/#ifndef nesting,
// whether any arm at this level has already been taken — once one
// has, later #elif/#else bodies at the same level stay inactive even
// if their own condition would otherwise be true (spec.md §4.1).
type ifFrame struct {
	taken        bool // some arm at this level has run
	wasIgnoring  bool // ignore flag value when this level was entered
	inElse       bool
}

// FileReader abstracts the file-mmap I/O helper spec.md §1 places out
// of scope for this core; it need only read a file's full contents.
type FileReader func(path string) ([]byte, error)

// Preprocessor implements spec.md §4.1: it walks a token stream,
// expanding macros with hideset-controlled recursion, dispatching
// directives, and tracking #if/#ifdef nesting. All mutable state is
// carried on the struct (never a package global) per spec.md §9.
type Preprocessor struct {
	macros    *MacroTable
	marks     *markStore
	intern    *StringInterner
	hideCache *hidesetCache
	diags     *DiagLogger

	includeDirs        []string
	builtinIncludeDirs []string
	readFile           FileReader

	ignore  bool
	ifStack []ifFrame

	out []Token

	curFile string
	curDir  string

	lastTopLevel *Token // for string-literal-adjacency concatenation

	Now func() time.Time // overridable clock, for deterministic tests

	expansionDepth int
}

const maxExpansionDepth = 4096

// NewPreprocessor builds a preprocessor with the predefined macro set
// already installed and ready to Process a file.
func NewPreprocessor(marks *markStore, intern *StringInterner, diags *DiagLogger, includeDirs []string) *Preprocessor {
	p := &Preprocessor{
		macros:    newMacroTable(),
		marks:     marks,
		intern:    intern,
		hideCache: newHidesetCache(),
		diags:     diags,
		includeDirs: includeDirs,
		builtinIncludeDirs: []string{
			".", "/usr/local/include", "lib/ccc/include", "/usr/include",
		},
		readFile: func(path string) ([]byte, error) { return os.ReadFile(path) },
	}
	p.definePredefined()
	return p
}

// Define installs a -D command-line macro, per spec.md §6. value may
// be empty, which defines the macro as "1".
func (p *Preprocessor) Define(nameEquals string) {
	name := nameEquals
	value := "1"
	for i, r := range nameEquals {
		if r == '=' {
			name = nameEquals[:i]
			value = nameEquals[i+1:]
			break
		}
	}
	p.defineFromText(name, nil, value)
}

// Undef implements -U.
func (p *Preprocessor) Undef(name string) {
	p.macros.Undef(name)
}

// Process implements the PP contract of spec.md §4.1: it reads path,
// lexes it, and returns the fully expanded, whitespace/newline
// filtered token stream with internal warning/error tokens surfaced
// to the diagnostic logger.
func (p *Preprocessor) Process(path string) ([]Token, error) {
	src, err := p.readFile(path)
	if err != nil {
		return nil, err
	}
	p.curFile = path
	p.curDir = filepath.Dir(path)
	toks := NewLexer(src, path, p.marks, p.intern, p.diags).Lex()
	p.run(toks)
	return p.out, nil
}

// run is the main loop described in spec.md §4.1: it walks toks,
// dispatching '#' directives, macro-expanding identifiers, and
// emitting everything else, honoring the ignore flag while inside a
// skipped conditional arm.
func (p *Preprocessor) run(toks []Token) {
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch {
		case t.Kind == TkEOF:
			i++
		case t.Kind == TkNewline:
			i++
		case t.Kind == TkWhitespace:
			i++
		case t.Kind == TkHashHash:
			if !p.ignore {
				p.diags.Errorf(t.Mark, "stray '##' in program")
			}
			i++
		case t.Kind == TkHash && p.atLineStart(toks, i):
			i = p.directive(toks, i+1)
		case t.Kind == TkIdent && !p.ignore:
			i = p.expandIdent(toks, i)
		case t.Kind == TkWarn:
			p.diags.Warnf(t.Mark, "%s", t.Text)
			i++
		case t.Kind == TkErr:
			p.diags.Errorf(t.Mark, "%s", t.Text)
			i++
		default:
			if !p.ignore {
				p.emit(t)
			}
			i++
		}
	}
}

// atLineStart reports whether toks[i] (a '#') is the first non-
// whitespace token on its logical line.
func (p *Preprocessor) atLineStart(toks []Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch toks[j].Kind {
		case TkWhitespace:
			continue
		case TkNewline:
			return true
		default:
			return false
		}
	}
	return true
}

// emit appends a fully expanded token to the output, applying
// string-literal-adjacency concatenation (spec.md §4.1 rule 4).
func (p *Preprocessor) emit(t Token) {
	if t.Kind == TkStringConst && len(p.out) > 0 {
		last := &p.out[len(p.out)-1]
		if last.Kind == TkStringConst {
			merged := *last.Str + *t.Str
			last.Str = p.intern.Intern(merged)
			last.IsWide = last.IsWide || t.IsWide
			return
		}
	}
	p.out = append(p.out, t)
}

// emitAll appends every token in toks to the output via emit, so
// adjacency concatenation still applies across a run produced by
// macro expansion.
func (p *Preprocessor) emitAll(toks []Token) {
	for _, t := range toks {
		p.emit(t)
	}
}

// scanLine collects the tokens from toks[i:] up to (not including)
// the next unescaped newline, skipping whitespace.
func scanLine(toks []Token, i int) (line []Token, next int) {
	for i < len(toks) && toks[i].Kind != TkNewline && toks[i].Kind != TkEOF {
		if toks[i].Kind != TkWhitespace {
			line = append(line, toks[i])
		}
		i++
	}
	if i < len(toks) && toks[i].Kind == TkNewline {
		i++
	}
	return line, i
}
