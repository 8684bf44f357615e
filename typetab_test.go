package cc11

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeTabDeclareAndLookup(t *testing.T) {
	tt := NewTypeTab()
	assert.Equal(t, 1, tt.Depth())

	tt.Declare("x", &TypeTabEntry{Kind: EntryVariable, Type: IntType})
	e, ok := tt.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, EntryVariable, e.Kind)

	_, ok = tt.Lookup("missing")
	assert.False(t, ok)
}

func TestTypeTabScopeShadowing(t *testing.T) {
	tt := NewTypeTab()
	tt.Declare("x", &TypeTabEntry{Kind: EntryVariable, Type: IntType})

	tt.Push()
	assert.Equal(t, 2, tt.Depth())
	tt.Declare("x", &TypeTabEntry{Kind: EntryVariable, Type: DoubleType})

	e, ok := tt.Lookup("x")
	assert.True(t, ok)
	assert.Same(t, DoubleType, e.Type)

	tt.Pop()
	assert.Equal(t, 1, tt.Depth())
	e, ok = tt.Lookup("x")
	assert.True(t, ok)
	assert.Same(t, IntType, e.Type)
}

func TestTypeTabLookupLocalOnlyInnermost(t *testing.T) {
	tt := NewTypeTab()
	tt.Declare("outer", &TypeTabEntry{Kind: EntryVariable, Type: IntType})
	tt.Push()
	_, ok := tt.LookupLocal("outer")
	assert.False(t, ok, "LookupLocal must not see an outer scope's bindings")

	_, ok = tt.Lookup("outer")
	assert.True(t, ok, "Lookup must still see enclosing scopes")
}

func TestTypeTabIsTypedefName(t *testing.T) {
	tt := NewTypeTab()
	tt.Declare("myint", &TypeTabEntry{Kind: EntryTypedef, Type: IntType})
	tt.Declare("myvar", &TypeTabEntry{Kind: EntryVariable, Type: IntType})

	assert.True(t, tt.IsTypedefName("myint"))
	assert.False(t, tt.IsTypedefName("myvar"))
	assert.False(t, tt.IsTypedefName("nope"))
}

func TestTypeTabTagsAreSeparateNamespace(t *testing.T) {
	tt := NewTypeTab()
	st := &StructType{Tag: "point"}
	tt.DeclareTag("point", &TypeTabEntry{Kind: EntryTag, Type: st})

	_, ok := tt.Lookup("point")
	assert.False(t, ok, "tags live in a separate namespace from ordinary names")

	e, ok := tt.LookupTag("point")
	assert.True(t, ok)
	assert.Same(t, st, e.Type)
}

func TestTypeTabPopOnEmptyIsNoop(t *testing.T) {
	tt := &TypeTab{}
	assert.NotPanics(t, func() { tt.Pop() })
	assert.Equal(t, 0, tt.Depth())
}
