package cc11

import "fmt"

// TokenKind tags the closed set of C11 preprocessing/lexical token
// kinds, plus the two internal sentinel kinds (TkWarn/TkErr) the
// lexer and preprocessor use to surface a diagnostic inline in the
// token stream instead of threading an error return through every
// caller.
type TokenKind int

const (
	TkEOF TokenKind = iota
	TkIdent
	TkKeyword
	TkIntConst
	TkFloatConst
	TkStringConst
	TkCharConst
	TkPunct
	TkHash     // '#'
	TkHashHash // '##'
	TkWhitespace
	TkNewline
	TkWarn
	TkErr
)

func (k TokenKind) String() string {
	switch k {
	case TkEOF:
		return "eof"
	case TkIdent:
		return "ident"
	case TkKeyword:
		return "keyword"
	case TkIntConst:
		return "int-const"
	case TkFloatConst:
		return "float-const"
	case TkStringConst:
		return "string-const"
	case TkCharConst:
		return "char-const"
	case TkPunct:
		return "punct"
	case TkHash:
		return "#"
	case TkHashHash:
		return "##"
	case TkWhitespace:
		return "ws"
	case TkNewline:
		return "newline"
	case TkWarn:
		return "warn"
	case TkErr:
		return "err"
	default:
		return "?"
	}
}

// IntSuffix records which U/L/LL suffix flags an integer literal
// carried, independent of case or order (spec.md §4.2).
type IntSuffix struct {
	Unsigned bool
	Long     bool
	LongLong bool
}

// FloatSuffix records the F/L suffix an floating literal carried.
type FloatSuffix struct {
	Float      bool // 'f'/'F' suffix
	LongDouble bool // 'l'/'L' suffix
}

// Token is the tagged variant over every C11 lexeme. Identifier and
// string/char payloads are interned *string pointers (see intern.go)
// so identifier/string equality is pointer equality. Hideset is
// value-semantic (see hideset.go); Mark is owned by the markStore and
// outlives the token.
type Token struct {
	Kind TokenKind
	Mark *fmark

	// Text is the punctuator/keyword spelling, or the diagnostic
	// string for TkWarn/TkErr.
	Text string

	// Ident is set for TkIdent: the interned spelling.
	Ident *string

	// Str is set for TkStringConst/TkCharConst: the interned,
	// already-unescaped contents.
	Str *string

	IntVal     int64
	IntSuffix  IntSuffix
	FloatVal   float64
	FloatSuf   FloatSuffix
	IsWide     bool // L"..." / L'...'

	Hideset *Hideset
}

// NewPunct builds a punctuator/keyword/hash token sharing the empty
// hideset — the common case for tokens freshly lexed from a file
// rather than produced by macro substitution.
func NewPunct(kind TokenKind, text string, m *fmark) Token {
	return Token{Kind: kind, Text: text, Mark: m, Hideset: emptyHideset}
}

func (t Token) String() string {
	switch t.Kind {
	case TkIdent:
		return *t.Ident
	case TkIntConst:
		return fmt.Sprintf("%d", t.IntVal)
	case TkFloatConst:
		return fmt.Sprintf("%g", t.FloatVal)
	case TkStringConst:
		return fmt.Sprintf("%q", *t.Str)
	case TkCharConst:
		return fmt.Sprintf("'%s'", *t.Str)
	default:
		return t.Text
	}
}

// IsIdent reports whether the token is an identifier spelled name.
// Keywords are lexed as TkKeyword, not TkIdent, so this never matches
// a keyword — callers that need "identifier-or-keyword-spelled-name"
// (macro names may shadow keywords is not legal C, so this is rarely
// needed) should check both kinds explicitly.
func (t Token) IsIdent(name string) bool {
	return t.Kind == TkIdent && *t.Ident == name
}

// IsPunct reports whether the token is the punctuator spelled text.
func (t Token) IsPunct(text string) bool {
	return (t.Kind == TkPunct || t.Kind == TkHash || t.Kind == TkHashHash) && t.Text == text
}
