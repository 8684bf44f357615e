package cc11

import (
	"os"
	"path/filepath"
	"strings"
)

// CompileOptions is the external driver's parsed CLI surface
// (spec.md §6): include search paths, predefined/undefined macros,
// and an output path. The manager reads it; it never constructs it.
type CompileOptions struct {
	IncludeDirs []string
	Defines     []string // "name" or "name=value"
	Undefines   []string
	Output      string
	Source      string
}

// Manager owns the process-wide append-only stores (source marks,
// interned strings) and creates the per-compilation pipeline stages
// in order; no explicit teardown step runs afterwards (spec.md §3's
// "Ownership & lifecycle").
type Manager struct {
	marks  *markStore
	intern *StringInterner
	diags  *DiagLogger
}

// NewManager creates a manager reporting diagnostics through diags.
func NewManager(diags *DiagLogger) *Manager {
	return &Manager{
		marks:  newMarkStore(),
		intern: NewStringInterner(),
		diags:  diags,
	}
}

// CompileResult bundles every artifact a caller (the CLI, a batch
// project run, or a test) might want after one source file has gone
// through the whole pipeline.
type CompileResult struct {
	Tokens []Token
	AST    *TranslationUnit
	Module *IRModule
	IR     string
	OK     bool
}

// CompileFile drives one source file through PP -> lex -> parse ->
// typecheck -> translate -> print, stopping early (OK=false) the
// moment any stage has logged an error, mirroring spec.md §7's
// fail-fast diagnostic discipline.
func (m *Manager) CompileFile(opts CompileOptions) *CompileResult {
	pp := NewPreprocessor(m.marks, m.intern, m.diags, opts.IncludeDirs)
	for _, d := range opts.Defines {
		pp.Define(d)
	}
	for _, u := range opts.Undefines {
		pp.Undef(u)
	}

	toks, err := pp.Process(opts.Source)
	if err != nil {
		m.diags.Errorf(m.marks.New(opts.Source, 0, 0), "%v", err)
		return &CompileResult{OK: false}
	}
	res := &CompileResult{Tokens: toks}
	if m.diags.HadError() {
		return res
	}

	tt := NewTypeTab()
	p := NewParser(toks, tt, m.diags, m.marks)
	tu := p.Parse()
	res.AST = tu
	if m.diags.HadError() {
		return res
	}

	checker := NewChecker(tt, m.diags)
	if !checker.Check(tu) {
		return res
	}

	gen := NewIRGen(m.diags)
	moduleName := strings.TrimSuffix(filepath.Base(opts.Source), filepath.Ext(opts.Source))
	mod := gen.Translate(tu, moduleName)
	res.Module = mod
	if m.diags.HadError() {
		return res
	}

	res.IR = PrintModule(mod)
	res.OK = true
	if opts.Output != "" {
		if werr := os.WriteFile(opts.Output, []byte(res.IR), 0o644); werr != nil {
			m.diags.Errorf(m.marks.New(opts.Output, 0, 0), "writing %s: %v", opts.Output, werr)
			res.OK = false
		}
	}
	return res
}
