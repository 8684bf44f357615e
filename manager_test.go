package cc11

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileSource(t *testing.T, src string) (*CompileResult, *DiagLogger) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.c")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	diags := NewDiagLogger(io.Discard, "ERROR", false)
	mgr := NewManager(diags)
	res := mgr.CompileFile(CompileOptions{Source: path})
	return res, diags
}

func TestManagerCompilesMinimalFunction(t *testing.T) {
	res, diags := compileSource(t, "int main(void) { return 0; }")
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "define i32 @main()")
	assert.Contains(t, res.IR, "ret i32 0")
}

func TestManagerTokenPasteInSource(t *testing.T) {
	src := "#define CAT(a, b) a ## b\nint main(void) { return CAT(1, 2); }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "ret i32 12")
}

func TestManagerTypedefDisambiguation(t *testing.T) {
	src := "typedef int myint;\nint main(void) { myint x = 5; return x; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
}

func TestManagerDesignatedStructInitializer(t *testing.T) {
	src := "struct point { int x; int y; };\n" +
		"struct point p = { .y = 2, .x = 1 };\n" +
		"int main(void) { return p.x; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "@p")
}

func TestManagerShortCircuitAndLowersToPhi(t *testing.T) {
	src := "int f(int a, int b) { return a && b; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "phi i1")
}

func TestManagerUndeclaredIdentifierIsError(t *testing.T) {
	res, diags := compileSource(t, "int main(void) { return undeclared_thing; }")
	assert.True(t, diags.HadError())
	assert.False(t, res.OK)
}

func TestManagerStringizeMacroInSource(t *testing.T) {
	src := "#define STR(x) #x\n" +
		"const char *s = STR(hello world);\n" +
		"int main(void) { return 0; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, `"hello world`)
}

func TestManagerUnknownSourceFileIsError(t *testing.T) {
	diags := NewDiagLogger(io.Discard, "ERROR", false)
	mgr := NewManager(diags)
	res := mgr.CompileFile(CompileOptions{Source: "/nonexistent/path/does-not-exist.c"})
	assert.False(t, res.OK)
	assert.True(t, diags.HadError())
}

func TestManagerUnionMemberAccessReadsThroughBitcast(t *testing.T) {
	src := "union u { int i; float f; };\n" +
		"int main(void) { union u x; x.i = 5; return x.i; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "%u = type { [4 x i8] }")
	assert.Contains(t, res.IR, "bitcast")
}

func TestManagerUnionDesignatedInitializerTargetsNonFirstMember(t *testing.T) {
	src := "union u { int i; double d; };\n" +
		"int main(void) { union u x = { .d = 1.5 }; return 0; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "%u = type { [8 x i8] }")
	assert.Contains(t, res.IR, "bitcast")
	assert.Contains(t, res.IR, "store double")
}

func TestManagerGlobalUnionInitPadsTailWithUndef(t *testing.T) {
	src := "union u { char c; int i; };\n" +
		"union u g = { .c = 'a' };\n" +
		"int main(void) { return 0; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "@g")
	assert.Contains(t, res.IR, "undef")
}

func TestManagerGlobalUnionInitFirstMemberFillsWholeUnion(t *testing.T) {
	src := "union u { int i; float f; };\n" +
		"union u g = { .i = 7 };\n" +
		"int main(void) { return 0; }"
	res, diags := compileSource(t, src)
	require.False(t, diags.HadError())
	require.True(t, res.OK)
	assert.Contains(t, res.IR, "@g")
	assert.NotContains(t, res.IR, "undef", "a 4-byte member filling a 4-byte union leaves no tail to pad")
}

func TestManagerWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.c")
	outPath := filepath.Join(dir, "out.ll")
	require.NoError(t, os.WriteFile(inPath, []byte("int main(void) { return 0; }"), 0o644))

	diags := NewDiagLogger(io.Discard, "ERROR", false)
	mgr := NewManager(diags)
	res := mgr.CompileFile(CompileOptions{Source: inPath, Output: outPath})
	require.True(t, res.OK)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, res.IR, string(written))
}
