package cc11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkStoreAppendOnly(t *testing.T) {
	s := newMarkStore()
	require.Equal(t, 0, s.Len())
	m1 := s.New("a.c", 1, 1)
	require.Equal(t, 1, s.Len())
	m2 := s.New("a.c", 2, 5)
	require.Equal(t, 2, s.Len())
	assert.NotSame(t, m1, m2)
	assert.Equal(t, "a.c:1:1", m1.String())
	assert.Equal(t, "a.c:2:5", m2.String())
}

func TestMarkRootFollowsPrevChain(t *testing.T) {
	s := newMarkStore()
	original := s.New("a.c", 3, 1)
	expanded := s.Expanded("a.c", 3, 1, original)
	reexpanded := s.Expanded("a.c", 3, 1, expanded)
	assert.Same(t, original, reexpanded.Root())
	assert.Same(t, original, expanded.Root())
	assert.Same(t, original, original.Root())
}

func TestMarkStringNoFile(t *testing.T) {
	m := fmark{Line: 4, Column: 2}
	assert.Equal(t, "4:2", m.String())
}

func TestLineIndexLineCol(t *testing.T) {
	input := []byte("abc\ndef\nghi")
	li := newLineIndex(input)

	line, col := li.LineCol(0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = li.LineCol(4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)

	line, col = li.LineCol(9)
	assert.Equal(t, 3, line)
	assert.Equal(t, 2, col)
}

func TestLineIndexClampsOutOfRangeCursor(t *testing.T) {
	input := []byte("abc\ndef")
	li := newLineIndex(input)

	line, col := li.LineCol(-5)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, _ = li.LineCol(1000)
	assert.Equal(t, 2, line)
}
