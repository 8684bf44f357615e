package cc11

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	diags := NewDiagLogger(io.Discard, "ERROR", false)
	l := NewLexer([]byte(src), "t.c", newMarkStore(), NewStringInterner(), diags)
	return l.Lex()
}

func significant(toks []Token) []Token {
	var out []Token
	for _, tk := range toks {
		if tk.Kind == TkWhitespace || tk.Kind == TkNewline {
			continue
		}
		out = append(out, tk)
	}
	return out
}

func TestLexIdentAndKeyword(t *testing.T) {
	toks := significant(lexAll(t, "int foo"))
	require.Len(t, toks, 3)
	assert.Equal(t, TkKeyword, toks[0].Kind)
	assert.Equal(t, "int", toks[0].Text)
	assert.Equal(t, TkIdent, toks[1].Kind)
	assert.Equal(t, "foo", *toks[1].Ident)
	assert.Equal(t, TkEOF, toks[2].Kind)
}

func TestLexIntLiteralSuffixes(t *testing.T) {
	toks := significant(lexAll(t, "123UL"))
	require.GreaterOrEqual(t, len(toks), 1)
	tok := toks[0]
	assert.Equal(t, TkIntConst, tok.Kind)
	assert.Equal(t, int64(123), tok.IntVal)
	assert.True(t, tok.IntSuffix.Unsigned)
	assert.True(t, tok.IntSuffix.Long)
}

func TestLexHexAndOctalIntLiterals(t *testing.T) {
	toks := significant(lexAll(t, "0x1F 017"))
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, int64(31), toks[0].IntVal)
	assert.Equal(t, int64(15), toks[1].IntVal)
}

func TestLexFloatLiteralWithExponent(t *testing.T) {
	toks := significant(lexAll(t, "1.5e2f"))
	tok := toks[0]
	assert.Equal(t, TkFloatConst, tok.Kind)
	assert.InDelta(t, 150.0, tok.FloatVal, 0.0001)
	assert.True(t, tok.FloatSuf.Float)
}

func TestLexHexFloatRequiresExponent(t *testing.T) {
	toks := significant(lexAll(t, "0x1.8"))
	assert.Equal(t, TkErr, toks[0].Kind)
}

func TestLexHexFloatWithExponent(t *testing.T) {
	toks := significant(lexAll(t, "0x1.8p3"))
	assert.Equal(t, TkFloatConst, toks[0].Kind)
}

func TestLexStringLiteralWithEscapes(t *testing.T) {
	toks := significant(lexAll(t, `"a\nb"`))
	tok := toks[0]
	require.Equal(t, TkStringConst, tok.Kind)
	assert.Equal(t, "a\nb", *tok.Str)
}

func TestLexWideStringLiteral(t *testing.T) {
	toks := significant(lexAll(t, `L"wide"`))
	tok := toks[0]
	require.Equal(t, TkStringConst, tok.Kind)
	assert.True(t, tok.IsWide)
}

func TestLexCharLiteral(t *testing.T) {
	toks := significant(lexAll(t, `'a'`))
	tok := toks[0]
	require.Equal(t, TkCharConst, tok.Kind)
	assert.Equal(t, "a", *tok.Str)
}

func TestLexEmptyCharLiteralIsError(t *testing.T) {
	toks := significant(lexAll(t, `''`))
	assert.Equal(t, TkErr, toks[0].Kind)
}

func TestLexTrigraphs(t *testing.T) {
	toks := significant(lexAll(t, "??="))
	assert.True(t, toks[0].IsPunct("#"))
}

func TestLexDigraphsMapToCanonicalPunctuator(t *testing.T) {
	toks := significant(lexAll(t, "<: :>"))
	assert.True(t, toks[0].IsPunct("["))
	assert.True(t, toks[1].IsPunct("]"))
}

func TestLexPunctuatorLongestMatch(t *testing.T) {
	toks := significant(lexAll(t, "<<="))
	require.Len(t, toks, 2)
	assert.True(t, toks[0].IsPunct("<<="))
}

func TestLexLineContinuationSpliced(t *testing.T) {
	toks := significant(lexAll(t, "fo\\\no"))
	require.Len(t, toks, 2)
	assert.Equal(t, "foo", *toks[0].Ident)
}

func TestLexLineCommentBecomesWhitespace(t *testing.T) {
	toks := lexAll(t, "a // comment\nb")
	var kinds []TokenKind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Contains(t, kinds, TkWhitespace)
}

func TestLexBlockCommentUnterminatedIsError(t *testing.T) {
	toks := significant(lexAll(t, "/* never closed"))
	assert.Equal(t, TkErr, toks[0].Kind)
}

func TestLexStrayCharacterIsError(t *testing.T) {
	toks := significant(lexAll(t, "`"))
	assert.Equal(t, TkErr, toks[0].Kind)
}
