package cc11

import "fmt"

// fmark records where a token, AST node or diagnostic came from: a
// file, a 1-based line/column, and — when the text was produced by
// macro expansion — the mark of the point in the replacement list
// that produced it. Chasing `Prev` walks the expansion history back
// to the original source location.
type fmark struct {
	File   string
	Line   int
	Column int
	Prev   *fmark
}

func (m fmark) String() string {
	if m.File == "" {
		return fmt.Sprintf("%d:%d", m.Line, m.Column)
	}
	return fmt.Sprintf("%s:%d:%d", m.File, m.Line, m.Column)
}

// Root returns the original, non-macro-expanded mark by following the
// Prev chain to its end.
func (m *fmark) Root() *fmark {
	cur := m
	for cur.Prev != nil {
		cur = cur.Prev
	}
	return cur
}

// markStore is the append-only owner of every fmark handed out during
// a run. Pointers into it stay valid for the process lifetime, which
// is what lets tokens, AST nodes and diagnostics hold onto a *fmark
// long after the file that produced it has been lexed.
type markStore struct {
	marks []*fmark
}

func newMarkStore() *markStore {
	return &markStore{marks: make([]*fmark, 0, 4096)}
}

// New allocates and owns a fresh mark.
func (s *markStore) New(file string, line, col int) *fmark {
	m := &fmark{File: file, Line: line, Column: col}
	s.marks = append(s.marks, m)
	return m
}

// Expanded allocates a mark that records it was produced while
// expanding the macro whose use-site is described by prev.
func (s *markStore) Expanded(file string, line, col int, prev *fmark) *fmark {
	m := &fmark{File: file, Line: line, Column: col, Prev: prev}
	s.marks = append(s.marks, m)
	return m
}

// Len reports how many marks have been allocated so far; used only by
// tests to assert the store is append-only (never shrinks).
func (s *markStore) Len() int {
	return len(s.marks)
}

// lineIndex supports fast cursor -> line/column conversion over a
// single file's contents, used by the lexer while scanning.
type lineIndex struct {
	input     []byte
	lineStart []int
}

func newLineIndex(input []byte) *lineIndex {
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			lineStart = append(lineStart, i+1)
		}
	}
	return &lineIndex{input: input, lineStart: lineStart}
}

// LineCol returns the 1-based line and column for a byte cursor.
func (li *lineIndex) LineCol(cursor int) (line, col int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}
	lo, hi := 0, len(li.lineStart)
	for lo < hi {
		mid := (lo + hi) / 2
		if li.lineStart[mid] > cursor {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	lineIdx := lo - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	return lineIdx + 1, cursor - li.lineStart[lineIdx] + 1
}
