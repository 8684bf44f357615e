package cc11

// StringInterner is the process-wide, write-mostly store of
// identifier spellings and string-literal contents. Every identifier
// token and string-literal token carries a *string returned from
// here, so two tokens name the same identifier iff their pointers are
// equal — the pointer-equality guarantee spec.md §3 asks for.
type StringInterner struct {
	table map[string]*string
}

// NewStringInterner creates an empty interner.
func NewStringInterner() *StringInterner {
	return &StringInterner{table: make(map[string]*string, 1024)}
}

// Intern returns the canonical *string for s, allocating one the
// first time s is seen.
func (in *StringInterner) Intern(s string) *string {
	if p, ok := in.table[s]; ok {
		return p
	}
	cp := s
	in.table[s] = &cp
	return &cp
}

// Lookup returns the canonical pointer for s without interning it, or
// nil if s has never been interned.
func (in *StringInterner) Lookup(s string) *string {
	return in.table[s]
}

// Len reports how many distinct strings have been interned.
func (in *StringInterner) Len() int {
	return len(in.table)
}
