// Package errors defines the failure taxonomy shared by the compiler and the
// virtual machine, along with source-aware error types and a formatter.
package errors

import (
	goerrors "errors"
	"fmt"
)

// Sentinel errors. Every CompileError and RuntimeError wraps exactly one of
// these, so callers can branch with Is regardless of the message.
var (
	ErrUnsupportedConstruct = goerrors.New("unsupported construct")
	ErrUndefinedSymbol      = goerrors.New("undefined symbol")
	ErrStreamOverflow       = goerrors.New("instruction stream overflow")
	ErrTypeMismatch         = goerrors.New("type mismatch")

	ErrInvalidOpcode     = goerrors.New("invalid opcode")
	ErrInvalidRegister   = goerrors.New("invalid register")
	ErrDivisionByZero    = goerrors.New("division by zero")
	ErrAddressOutOfRange = goerrors.New("heap address out of bounds")
	ErrStackOverflow     = goerrors.New("stack overflow")
	ErrStackUnderflow    = goerrors.New("stack underflow")
	ErrProgramCounter    = goerrors.New("program counter out of bounds")
	ErrInvalidOperation  = goerrors.New("invalid operation")
)

var sentinelCodes = map[error]ErrorCode{
	ErrUnsupportedConstruct: E2011,
	ErrUndefinedSymbol:      E2001,
	ErrStreamOverflow:       E2012,
	ErrTypeMismatch:         E2013,
	ErrInvalidOpcode:        E3011,
	ErrInvalidRegister:      E3012,
	ErrDivisionByZero:       E3002,
	ErrAddressOutOfRange:    E3003,
	ErrStackOverflow:        E3006,
	ErrStackUnderflow:       E3013,
	ErrProgramCounter:       E3014,
	ErrInvalidOperation:     E3007,
}

// CodeOf returns the error code of the first sentinel found in err's chain,
// or an empty code when there is none.
func CodeOf(err error) ErrorCode {
	for sentinel, code := range sentinelCodes {
		if goerrors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return goerrors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return goerrors.New(text)
}

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be rendered by the
// Formatter, with colors and source context.
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}
