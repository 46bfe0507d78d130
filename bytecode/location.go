package bytecode

import "fmt"

// SourceLocation is the source position a code word was emitted for.
// The filename and source text are stored once on the Program.
type SourceLocation struct {
	Line   int `cbor:"1,keyasint"` // 1-based line number
	Column int `cbor:"2,keyasint"` // 1-based column number
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}
