// Package token defines the tokens produced when lexing Chaos source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number, counted in characters
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n single-byte characters on
// the same line. Used for computing End positions from a start position.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ASSIGN    Type = "="
	BANG      Type = "!"
	EOF       Type = "EOF"
	FALSE     Type = "FALSE"
	FLOAT     Type = "FLOAT"
	IDENT     Type = "IDENT"
	ILLEGAL   Type = "ILLEGAL"
	INT       Type = "INT"
	LPAREN    Type = "("
	MINUS     Type = "-"
	NEWLINE   Type = "EOL"
	PLUS      Type = "+"
	PRINT     Type = "PRINT"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	STRING    Type = "STRING"
	TILDE     Type = "~"
	TRUE      Type = "TRUE"
	TYPE      Type = "TYPE"
)

// Reserved keywords. The value type keywords all lex as TYPE, with the
// keyword itself as the literal.
var keywords = map[string]Type{
	"bool":   TYPE,
	"false":  FALSE,
	"float":  TYPE,
	"int":    TYPE,
	"print":  PRINT,
	"str":    TYPE,
	"string": TYPE,
	"true":   TRUE,
}

// LookupIdentifier returns the token type for an identifier or keyword.
func LookupIdentifier(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
