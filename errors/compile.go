package errors

import (
	"fmt"
	"strings"
)

// CompileError is a lowering failure tied to a location in the source.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
	Err         error
}

// NewCompileError returns a CompileError wrapping the sentinel err. The code
// is derived from the sentinel.
func NewCompileError(err error, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    CodeOf(err),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithLocation sets the location fields and returns the error.
func (e *CompileError) WithLocation(loc SourceLocation) *CompileError {
	e.Filename = loc.Filename
	e.Line = loc.Line
	e.Column = loc.Column
	e.SourceLine = loc.Source
	return e
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Location returns where the error occurred.
func (e *CompileError) Location() SourceLocation {
	return SourceLocation{
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Source:   e.SourceLine,
	}
}

// FriendlyErrorMessage returns the uncolored, formatted rendering.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      "compile error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}
