package errors

import (
	"fmt"
	"strings"
)

// RuntimeError is a failure raised while the virtual machine executes a
// program. IC is the offset of the instruction that failed.
type RuntimeError struct {
	Code     ErrorCode
	Message  string
	IC       int64
	Opcode   string
	Filename string
	Line     int
	Err      error
}

// NewRuntimeError returns a RuntimeError wrapping err. When err is one of the
// package sentinels the code is derived from it.
func NewRuntimeError(err error, ic int64, format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    CodeOf(err),
		Message: fmt.Sprintf(format, args...),
		IC:      ic,
		Err:     err,
	}
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString("runtime error: ")
	b.WriteString(e.Message)
	fmt.Fprintf(&b, " (ic %d", e.IC)
	if e.Opcode != "" {
		fmt.Fprintf(&b, ", %s", e.Opcode)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ", line %d", e.Line)
	}
	b.WriteString(")")
	return b.String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

func (e *RuntimeError) ToFormatted() *FormattedError {
	note := fmt.Sprintf("raised at instruction offset %d", e.IC)
	if e.Opcode != "" {
		note = fmt.Sprintf("raised by %s at instruction offset %d", e.Opcode, e.IC)
	}
	return &FormattedError{
		Code:     e.Code,
		Kind:     "runtime error",
		Message:  e.Message,
		Filename: e.Filename,
		Line:     e.Line,
		Note:     note,
	}
}
