package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		name     string
		loc      SourceLocation
		expected string
	}{
		{"with filename", SourceLocation{Filename: "main.kaos", Line: 10, Column: 5}, "main.kaos:10:5"},
		{"without filename", SourceLocation{Line: 10, Column: 5}, "10:5"},
		{"zero location", SourceLocation{}, "0:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.loc.String(), tt.expected)
		})
	}
	assert.True(t, SourceLocation{}.IsZero())
	assert.False(t, SourceLocation{Line: 1}.IsZero())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, E2001.Description(), "undefined variable")
	assert.Equal(t, E3011.Description(), "invalid opcode")
	assert.Equal(t, ErrorCode("E9999").Description(), "unknown error")
	assert.Equal(t, E1001.Category(), "parse")
	assert.Equal(t, E2012.Category(), "compile")
	assert.Equal(t, E3002.Category(), "runtime")
	assert.Equal(t, ErrorCode("X").Category(), "unknown")
	assert.Equal(t, E2011.String(), "E2011")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeOf(ErrUnsupportedConstruct), E2011)
	assert.Equal(t, CodeOf(ErrUndefinedSymbol), E2001)
	assert.Equal(t, CodeOf(ErrStreamOverflow), E2012)
	assert.Equal(t, CodeOf(ErrInvalidOpcode), E3011)
	assert.Equal(t, CodeOf(fmt.Errorf("heap full: %w", ErrStreamOverflow)), E2012)
	assert.Equal(t, CodeOf(New("plain")), ErrorCode(""))
}

func TestCompileError(t *testing.T) {
	err := NewCompileError(ErrUndefinedSymbol, "undefined variable %q", "cout").
		WithLocation(SourceLocation{Filename: "main.kaos", Line: 2, Column: 7, Source: "print cout"})
	err.Suggestions = SuggestSimilar("cout", []string{"count", "x"})

	assert.Equal(t, err.Code, E2001)
	assert.True(t, Is(err, ErrUndefinedSymbol))
	assert.False(t, Is(err, ErrStreamOverflow))
	assert.Equal(t, err.Error(),
		"compile error: undefined variable \"cout\"\n\nlocation: main.kaos:2:7 (line 2, column 7)")
	assert.Equal(t, err.Location().Source, "print cout")

	msg := err.FriendlyErrorMessage()
	assert.Contains(t, msg, "compile error[E2001]: undefined variable \"cout\"")
	assert.Contains(t, msg, "--> main.kaos:2:7")
	assert.Contains(t, msg, " 2 | print cout")
	assert.Contains(t, msg, "hint: Did you mean 'count'?")
}

func TestCompileErrorWithoutLocation(t *testing.T) {
	err := NewCompileError(ErrUnsupportedConstruct, "unsupported statement")
	assert.Equal(t, err.Error(), "compile error: unsupported statement")
	assert.False(t, strings.Contains(err.FriendlyErrorMessage(), "-->"))
}

func TestRuntimeError(t *testing.T) {
	err := NewRuntimeError(ErrDivisionByZero, 12, "division by zero")
	err.Opcode = "DIV"
	assert.Equal(t, err.Code, E3002)
	assert.Equal(t, err.Error(), "runtime error: division by zero (ic 12, DIV)")
	assert.True(t, Is(err, ErrDivisionByZero))

	var rt *RuntimeError
	assert.True(t, As(fmt.Errorf("run: %w", err), &rt))
	assert.Equal(t, rt.IC, int64(12))

	msg := err.FriendlyErrorMessage()
	assert.Contains(t, msg, "runtime error[E3002]: division by zero")
	assert.Contains(t, msg, "note: raised by DIV at instruction offset 12")

	err.Line = 3
	assert.Equal(t, err.Error(), "runtime error: division by zero (ic 12, DIV, line 3)")
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"count", "counter", "total", "x"}

	tests := []struct {
		name      string
		target    string
		wantFirst string
		wantNone  bool
	}{
		{"close match", "cout", "count", false},
		{"exact match excluded", "count", "counter", false},
		{"case insensitive", "COUNTERS", "counter", false},
		{"no close matches", "zzzzzz", "", true},
		{"empty target", "", "", true},
		{"short names are strict", "y", "x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := SuggestSimilar(tt.target, candidates)
			if tt.wantNone {
				assert.Len(t, suggestions, 0)
				return
			}
			assert.True(t, len(suggestions) > 0)
			assert.Equal(t, suggestions[0].Value, tt.wantFirst)
		})
	}

	many := SuggestSimilar("foo", []string{"foo1", "foo2", "foo3", "foo4", "foo1"})
	assert.Len(t, many, MaxSuggestions)
	assert.Equal(t, many[0].Value, "foo1")
}

func TestFormatSuggestions(t *testing.T) {
	assert.Equal(t, FormatSuggestions(nil), "")
	assert.Equal(t, FormatSuggestions([]Suggestion{{Value: "x"}}), "Did you mean 'x'?")
	assert.Equal(t,
		FormatSuggestions([]Suggestion{{Value: "x"}, {Value: "y"}}),
		"Did you mean one of: 'x', 'y'?")
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "abcd", 1},
		{"kitten", "sitting", 3},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, editDistance(tt.a, tt.b), tt.expected)
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter(false)
	err := &FormattedError{
		Code:      E2011,
		Kind:      "compile error",
		Message:   "operator ~ is not defined for float",
		Filename:  "main.kaos",
		Line:      4,
		Column:    11,
		EndColumn: 14,
		SourceLines: []SourceLineEntry{
			{Number: 4, Text: "float y = ~1.5", IsMain: true},
		},
		Note: "~ applies to int values only",
	}
	result := f.Format(err)
	lines := strings.Split(result, "\n")
	assert.Equal(t, lines[0], "compile error[E2011]: operator ~ is not defined for float")
	assert.Equal(t, lines[1], "  --> main.kaos:4:11")
	assert.Equal(t, lines[3], " 4 | float y = ~1.5")
	assert.Equal(t, lines[4], "   |           ^^^^")
	assert.Contains(t, result, "note: ~ applies to int values only")
}

func TestFormatter_FormatLargeLineNumber(t *testing.T) {
	f := NewFormatter(false)
	result := f.Format(&FormattedError{
		Message:     "bad",
		Line:        1234,
		Column:      1,
		SourceLines: []SourceLineEntry{{Number: 1234, Text: "x", IsMain: true}},
	})
	assert.Contains(t, result, "error: bad")
	assert.Contains(t, result, "1234 | x")
	assert.Contains(t, result, "     | ^")
}

func TestFormatter_FormatMultiple(t *testing.T) {
	f := NewFormatter(false)
	assert.Equal(t, f.FormatMultiple(nil), "")

	single := f.FormatMultiple([]*FormattedError{{Message: "only"}})
	assert.False(t, strings.Contains(single, "[1/1]"))

	result := f.FormatMultiple([]*FormattedError{
		{Message: "first error"},
		{Message: "second error"},
	})
	assert.Contains(t, result, "error[1/2]: first error")
	assert.Contains(t, result, "error[2/2]: second error")
	assert.Contains(t, result, "found 2 errors")
}

func TestFormatter_FormatWithColor(t *testing.T) {
	f := NewFormatter(true)
	result := f.Format(&FormattedError{Code: E2001, Message: "test error"})
	assert.Contains(t, result, "test error")
	assert.Contains(t, result, "E2001")
}

func TestFormatFallsBackToPlainMessage(t *testing.T) {
	assert.Equal(t, Format(New("boom"), false), "boom")
	wrapped := fmt.Errorf("compiling: %w", NewCompileError(ErrStreamOverflow, "heap exhausted"))
	assert.Contains(t, Format(wrapped, false), "compile error[E2012]: heap exhausted")
}
