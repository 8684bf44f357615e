package cc11

// Hideset is the value-semantic set of macro names that must not be
// re-expanded at a given token's position. Hidesets are hash-consed:
// every combination of names ever built is stored once in a shared
// table, so equal hidesets share the same *hideset pointer and
// equality is a pointer comparison. Operations never mutate their
// receiver or argument, except unionInPlace, which exists only to
// make the tail of substitute (spec.md §4.1) cheap.
type Hideset struct {
	names map[string]struct{}
}

// emptyHideset is shared by every token that starts life outside any
// macro expansion.
var emptyHideset = &Hideset{names: map[string]struct{}{}}

// hidesetCache hash-conses hidesets so structurally equal sets share
// one allocation. Keyed by a sorted, comma-joined name list.
type hidesetCache struct {
	byKey map[string]*Hideset
}

func newHidesetCache() *hidesetCache {
	c := &hidesetCache{byKey: map[string]*Hideset{}}
	c.byKey[""] = emptyHideset
	return c
}

func (c *hidesetCache) intern(names map[string]struct{}) *Hideset {
	key := hidesetKey(names)
	if h, ok := c.byKey[key]; ok {
		return h
	}
	h := &Hideset{names: names}
	c.byKey[key] = h
	return h
}

func hidesetKey(names map[string]struct{}) string {
	if len(names) == 0 {
		return ""
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	// simple insertion sort: hidesets rarely hold more than a
	// handful of names, so an O(n^2) sort avoids pulling in sort
	// for a hot path called once per emitted token.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	key := ""
	for i, n := range sorted {
		if i > 0 {
			key += ","
		}
		key += n
	}
	return key
}

// Contains reports whether name is in the set.
func (h *Hideset) Contains(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.names[name]
	return ok
}

// Add returns a new hideset equal to h plus name.
func (h *Hideset) Add(cache *hidesetCache, name string) *Hideset {
	if h.Contains(name) {
		return h
	}
	next := make(map[string]struct{}, len(h.names)+1)
	for n := range h.names {
		next[n] = struct{}{}
	}
	next[name] = struct{}{}
	return cache.intern(next)
}

// Union returns a new hideset containing every name in h or o.
func (h *Hideset) Union(cache *hidesetCache, o *Hideset) *Hideset {
	if h == emptyHideset {
		return o
	}
	if o == emptyHideset {
		return h
	}
	next := make(map[string]struct{}, len(h.names)+len(o.names))
	for n := range h.names {
		next[n] = struct{}{}
	}
	for n := range o.names {
		next[n] = struct{}{}
	}
	return cache.intern(next)
}

// Intersect returns a new hideset containing names present in both h
// and o — used for the "(H ∩ R) ∪ {T}" rule when closing a
// function-like macro invocation (spec.md §4.1).
func (h *Hideset) Intersect(cache *hidesetCache, o *Hideset) *Hideset {
	next := make(map[string]struct{})
	for n := range h.names {
		if o.Contains(n) {
			next[n] = struct{}{}
		}
	}
	return cache.intern(next)
}

// Copy returns h unchanged: because hidesets are immutable, a copy is
// the same value. Kept as a named operation so callers that mean
// "I want my own copy to mutate" are forced through unionInPlace
// instead of accidentally aliasing state they think is private.
func (h *Hideset) Copy() *Hideset {
	return h
}

// unionInPlace is the single explicitly mutating hideset operation
// spec.md §3 allows: used at the tail of substitute to union the
// passed-in hideset into every emitted token's hideset in place,
// rather than reallocating a new token slice.
func unionInPlace(cache *hidesetCache, toks []Token, h *Hideset) {
	for i := range toks {
		toks[i].Hideset = toks[i].Hideset.Union(cache, h)
	}
}
