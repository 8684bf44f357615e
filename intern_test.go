package cc11

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternerPointerEquality(t *testing.T) {
	in := NewStringInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	assert.Same(t, a, b)
	assert.Equal(t, "foo", *a)
}

func TestInternerDistinctStrings(t *testing.T) {
	in := NewStringInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, in.Len())
}

func TestInternerLookupMissing(t *testing.T) {
	in := NewStringInterner()
	assert.Nil(t, in.Lookup("never-seen"))
	in.Intern("seen")
	assert.NotNil(t, in.Lookup("seen"))
}
