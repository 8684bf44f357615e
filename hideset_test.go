package cc11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHidesetEmptyShared(t *testing.T) {
	cache := newHidesetCache()
	a := emptyHideset.Add(cache, "FOO")
	b := emptyHideset.Add(cache, "FOO")
	assert.Same(t, a, b, "structurally equal hidesets must hash-cons to the same pointer")
	assert.True(t, a.Contains("FOO"))
	assert.False(t, emptyHideset.Contains("FOO"), "Add must not mutate the receiver")
}

func TestHidesetAddNeverMutatesReceiver(t *testing.T) {
	cache := newHidesetCache()
	base := emptyHideset.Add(cache, "A")
	extended := base.Add(cache, "B")
	assert.True(t, extended.Contains("A"))
	assert.True(t, extended.Contains("B"))
	assert.False(t, base.Contains("B"), "base must be unchanged after deriving extended")
}

func TestHidesetUnion(t *testing.T) {
	cache := newHidesetCache()
	a := emptyHideset.Add(cache, "A")
	b := emptyHideset.Add(cache, "B")
	u := a.Union(cache, b)
	assert.True(t, u.Contains("A"))
	assert.True(t, u.Contains("B"))
	assert.False(t, a.Contains("B"))
	assert.False(t, b.Contains("A"))
}

func TestHidesetIntersect(t *testing.T) {
	cache := newHidesetCache()
	ab := emptyHideset.Add(cache, "A").Add(cache, "B")
	bc := emptyHideset.Add(cache, "B").Add(cache, "C")
	i := ab.Intersect(cache, bc)
	assert.True(t, i.Contains("B"))
	assert.False(t, i.Contains("A"))
	assert.False(t, i.Contains("C"))
}

func TestHidesetCopyIsIdentity(t *testing.T) {
	cache := newHidesetCache()
	a := emptyHideset.Add(cache, "A")
	require.Same(t, a, a.Copy())
}

func TestUnionInPlaceMutatesOnlyExplicitly(t *testing.T) {
	cache := newHidesetCache()
	toks := []Token{
		{Kind: TkIdent, Hideset: emptyHideset},
		{Kind: TkIdent, Hideset: emptyHideset},
	}
	h := emptyHideset.Add(cache, "X")
	unionInPlace(cache, toks, h)
	for _, tok := range toks {
		assert.True(t, tok.Hideset.Contains("X"))
	}
}
