package cc11

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ppProcess(t *testing.T, src string) ([]Token, *DiagLogger) {
	t.Helper()
	diags := NewDiagLogger(io.Discard, "ERROR", false)
	pp := NewPreprocessor(newMarkStore(), NewStringInterner(), diags, nil)
	pp.readFile = func(string) ([]byte, error) { return []byte(src), nil }
	toks, err := pp.Process("test.c")
	require.NoError(t, err)
	return toks, diags
}

func tokenTexts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, tk := range toks {
		out[i] = tk.String()
	}
	return out
}

func TestPPObjectLikeMacroExpansion(t *testing.T) {
	toks, diags := ppProcess(t, "#define N 42\nint x = N;")
	require.False(t, diags.HadError())
	found := false
	for _, tk := range toks {
		if tk.Kind == TkIntConst && tk.IntVal == 42 {
			found = true
		}
	}
	assert.True(t, found, "N must expand to the literal 42")
}

func TestPPSelfReferentialMacroBlocksRecursion(t *testing.T) {
	toks, diags := ppProcess(t, "#define X X\nX")
	require.False(t, diags.HadError())
	require.Len(t, toks, 1)
	assert.True(t, toks[0].IsIdent("X"), "a self-referential macro must expand to itself exactly once")
}

func TestPPFunctionLikeMacroWithCommaInParens(t *testing.T) {
	toks, diags := ppProcess(t, "#define PAIR(a, b) a + b\nPAIR((1,2), 3)")
	require.False(t, diags.HadError())
	assert.Equal(t, []string{"(", "1", ",", "2", ")", "+", "3"}, tokenTexts(toks))
}

func TestPPTokenPasteProducesSingleToken(t *testing.T) {
	toks, diags := ppProcess(t, "#define CAT(a, b) a ## b\nCAT(12, 34)")
	require.False(t, diags.HadError())
	require.Len(t, toks, 1)
	assert.Equal(t, TkIntConst, toks[0].Kind)
	assert.Equal(t, int64(1234), toks[0].IntVal)
}

func TestPPStringizeCollapsesWhitespace(t *testing.T) {
	toks, diags := ppProcess(t, "#define STR(x) #x\nSTR(  a   b  )")
	require.False(t, diags.HadError())
	require.Len(t, toks, 1)
	require.Equal(t, TkStringConst, toks[0].Kind)
	assert.Equal(t, "a b", *toks[0].Str)
}

func TestPPIfDefElseEndif(t *testing.T) {
	src := "#define FOO\n#ifdef FOO\nint yes;\n#else\nint no;\n#endif\n"
	toks, diags := ppProcess(t, src)
	require.False(t, diags.HadError())
	names := map[string]bool{}
	for _, tk := range toks {
		if tk.Kind == TkIdent {
			names[*tk.Ident] = true
		}
	}
	assert.True(t, names["yes"])
	assert.False(t, names["no"])
}

func TestPPIfUndefinedTakesElseBranch(t *testing.T) {
	src := "#ifdef NOPE\nint a;\n#else\nint b;\n#endif\n"
	toks, diags := ppProcess(t, src)
	require.False(t, diags.HadError())
	names := map[string]bool{}
	for _, tk := range toks {
		if tk.Kind == TkIdent {
			names[*tk.Ident] = true
		}
	}
	assert.False(t, names["a"])
	assert.True(t, names["b"])
}

func TestPPIfExpressionArithmetic(t *testing.T) {
	src := "#if 1 + 1 == 2\nint yes;\n#endif\n"
	toks, diags := ppProcess(t, src)
	require.False(t, diags.HadError())
	found := false
	for _, tk := range toks {
		if tk.IsIdent("yes") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPPUndef(t *testing.T) {
	toks, diags := ppProcess(t, "#define M 1\n#undef M\nM")
	require.False(t, diags.HadError())
	require.Len(t, toks, 1)
	assert.True(t, toks[0].IsIdent("M"), "undefined macro name passes through untouched")
}

func TestPPCommandLineDefine(t *testing.T) {
	diags := NewDiagLogger(io.Discard, "ERROR", false)
	pp := NewPreprocessor(newMarkStore(), NewStringInterner(), diags, nil)
	pp.Define("FOO=7")
	pp.readFile = func(string) ([]byte, error) { return []byte("FOO"), nil }
	toks, err := pp.Process("test.c")
	require.NoError(t, err)
	require.False(t, diags.HadError())
	require.Len(t, toks, 1)
	assert.Equal(t, int64(7), toks[0].IntVal)
}

func TestPPStringLiteralAdjacencyConcatenation(t *testing.T) {
	toks, diags := ppProcess(t, `"foo" "bar"`)
	require.False(t, diags.HadError())
	require.Len(t, toks, 1)
	assert.Equal(t, "foobar", *toks[0].Str)
}
