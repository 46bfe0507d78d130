package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/wonton/color"
)

// Formatter renders errors in a compact, Rust-like layout:
//
//	compile error[E2001]: undefined variable "cout"
//	  --> main.kaos:2:7
//	   |
//	 2 | print cout
//	   |       ^^^^
//	   |
//	   = hint: Did you mean 'count'?
type Formatter struct {
	UseColor bool
}

func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError     = color.Red
	colorErrorBold = color.BrightRed
	colorCode      = color.BrightBlack
	colorLocation  = color.Cyan
	colorGutter    = color.BrightBlack
	colorSource    = color.White
	colorCaret     = color.BrightRed
	colorHint      = color.BrightYellow
	colorNote      = color.BrightBlue
)

// FormattedError is an error prepared for display.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "syntax error", "compile error", ...
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
}

// SourceLineEntry is one numbered line of source shown under an error.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool
}

func (f *Formatter) paint(c color.Color, s string) string {
	if f.UseColor {
		return c.Apply(s)
	}
	return s
}

func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error, showing prefix (such as "1/5") in
// brackets when the error has no code.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder
	width := max(2, len(strconv.Itoa(err.Line)))
	gutter := strings.Repeat(" ", width)

	label := err.Kind
	if label == "" {
		label = "error"
	}
	b.WriteString(f.paint(colorErrorBold, label))
	switch {
	case err.Code != "":
		b.WriteString(f.paint(colorCode, "["+string(err.Code)+"]"))
	case prefix != "":
		b.WriteString(f.paint(colorCode, "["+prefix+"]"))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if loc := locationText(err); loc != "" {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorLocation, "-->"))
		b.WriteString(" ")
		b.WriteString(f.paint(colorLocation, loc))
		b.WriteString("\n")
	}

	if len(err.SourceLines) > 0 {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " |\n"))
		for _, line := range err.SourceLines {
			b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d | ", width, line.Number)))
			b.WriteString(f.paint(colorSource, line.Text))
			b.WriteString("\n")
			if !line.IsMain || err.Column <= 0 {
				continue
			}
			span := 1
			if err.EndColumn > err.Column {
				span = err.EndColumn - err.Column + 1
			}
			b.WriteString(gutter)
			b.WriteString(f.paint(colorGutter, " | "))
			b.WriteString(strings.Repeat(" ", err.Column-1))
			b.WriteString(f.paint(colorCaret, strings.Repeat("^", span)))
			b.WriteString("\n")
		}
	}

	if err.Hint != "" {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " |\n"))
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		b.WriteString(gutter)
		b.WriteString(f.paint(colorGutter, " = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	return b.String()
}

func locationText(err *FormattedError) string {
	switch {
	case err.Filename != "" && err.Line > 0:
		return fmt.Sprintf("%s:%d:%d", err.Filename, err.Line, err.Column)
	case err.Filename != "":
		return err.Filename
	case err.Line > 0:
		return fmt.Sprintf("%d:%d", err.Line, err.Column)
	default:
		return ""
	}
}

// FormatMultiple formats several errors, numbering them and closing with a
// summary line.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorBold, fmt.Sprintf("found %d errors", len(errs))))
	b.WriteString("\n")
	return b.String()
}

// MultiFormattableError is implemented by errors that aggregate several
// formattable errors, such as the parser's error list.
type MultiFormattableError interface {
	error
	ToFormattedMultiple() []*FormattedError
}

// Format renders err for display. Formattable errors get the full source
// excerpt treatment, anything else falls back to its Error text.
func Format(err error, useColor bool) string {
	var multi MultiFormattableError
	if As(err, &multi) {
		return NewFormatter(useColor).FormatMultiple(multi.ToFormattedMultiple())
	}
	var fe FormattableError
	if As(err, &fe) {
		return NewFormatter(useColor).Format(fe.ToFormatted())
	}
	return err.Error()
}
