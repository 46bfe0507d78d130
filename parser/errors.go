package parser

import (
	"fmt"

	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended. If `Cause` is set, `Message` will be ignored.
type ErrorOpts struct {
	ErrType       string
	Code          errors.ErrorCode
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// ParserError describes one problem found in the input.
type ParserError struct {
	errType       string
	code          errors.ErrorCode
	message       string
	cause         error
	file          string
	startPosition token.Position
	endPosition   token.Position
	sourceCode    string
}

// NewParserError returns a new ParserError populated with the given data.
func NewParserError(opts ErrorOpts) *ParserError {
	if opts.ErrType == "" {
		opts.ErrType = "parse error"
	}
	return &ParserError{
		errType:       opts.ErrType,
		code:          opts.Code,
		message:       opts.Message,
		cause:         opts.Cause,
		file:          opts.File,
		startPosition: opts.StartPosition,
		endPosition:   opts.EndPosition,
		sourceCode:    opts.SourceCode,
	}
}

// NewSyntaxError returns a ParserError of type "syntax error".
func NewSyntaxError(opts ErrorOpts) *ParserError {
	opts.ErrType = "syntax error"
	return NewParserError(opts)
}

func (e *ParserError) Error() string {
	msg := e.Message()
	if e.errType != "" {
		msg = fmt.Sprintf("%s: %s", e.errType, msg)
	}
	return msg
}

func (e *ParserError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the parser error to a FormattedError for display.
func (e *ParserError) ToFormatted() *errors.FormattedError {
	start := e.startPosition
	end := e.endPosition
	fe := &errors.FormattedError{
		Code:     e.code,
		Kind:     e.errType,
		Message:  e.Message(),
		Filename: e.file,
		Line:     start.LineNumber(),
		Column:   start.ColumnNumber(),
	}
	if end.Line == start.Line && end.Column > start.Column+1 {
		fe.EndColumn = end.Column
	}
	if e.sourceCode != "" {
		fe.SourceLines = []errors.SourceLineEntry{
			{Number: start.LineNumber(), Text: e.sourceCode, IsMain: true},
		}
	}
	return fe
}

func (e *ParserError) Type() string { return e.errType }

func (e *ParserError) Code() errors.ErrorCode { return e.code }

// Message returns the error message, which is the cause's text when a cause
// is set.
func (e *ParserError) Message() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

func (e *ParserError) Cause() error { return e.cause }

func (e *ParserError) File() string { return e.file }

func (e *ParserError) StartPosition() token.Position { return e.startPosition }

func (e *ParserError) EndPosition() token.Position { return e.endPosition }

func (e *ParserError) SourceCode() string { return e.sourceCode }

func (e *ParserError) Unwrap() error { return e.cause }

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.NEWLINE:
		return "newline"
	case token.TYPE:
		return "type keyword"
	default:
		return string(t)
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.NEWLINE:
		return "newline"
	case token.STRING:
		return fmt.Sprintf("string %q", t.Literal)
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return fmt.Sprintf("%q", t.Literal)
	}
}

// Errors wraps multiple parser errors for multi-error reporting.
type Errors struct {
	errs []*ParserError
}

// NewErrors creates an Errors from a slice of ParserError.
func NewErrors(errs []*ParserError) *Errors {
	if len(errs) == 0 {
		return nil
	}
	return &Errors{errs: errs}
}

// Error returns the first error message and how many more there are.
func (e *Errors) Error() string {
	switch len(e.errs) {
	case 0:
		return ""
	case 1:
		return e.errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.errs[0].Error(), len(e.errs)-1)
}

// Errors returns the underlying slice of parser errors.
func (e *Errors) Errors() []*ParserError {
	return e.errs
}

func (e *Errors) Count() int {
	return len(e.errs)
}

// First returns the first error, or nil if empty.
func (e *Errors) First() *ParserError {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[0]
}

// FriendlyErrorMessage returns a formatted message showing all errors.
func (e *Errors) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).FormatMultiple(e.ToFormattedMultiple())
}

// ToFormattedMultiple converts all errors to FormattedError for display.
func (e *Errors) ToFormattedMultiple() []*errors.FormattedError {
	formatted := make([]*errors.FormattedError, 0, len(e.errs))
	for _, err := range e.errs {
		formatted = append(formatted, err.ToFormatted())
	}
	return formatted
}

// Unwrap returns the underlying errors for use with errors.Is/As.
func (e *Errors) Unwrap() []error {
	result := make([]error, len(e.errs))
	for i, err := range e.errs {
		result[i] = err
	}
	return result
}
