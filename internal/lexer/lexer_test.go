package lexer

import (
	"errors"
	"testing"

	"github.com/chaos-lang/chaos/internal/token"
	"github.com/deepnoodle-ai/wonton/assert"
)

type expectedToken struct {
	expectedType    token.Type
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		assert.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestDeclarationTokens(t *testing.T) {
	checkTokens(t, "int x = -5\nprint x;", []expectedToken{
		{token.TYPE, "int"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.MINUS, "-"},
		{token.INT, "5"},
		{token.NEWLINE, "\n"},
		{token.PRINT, "print"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
		{token.EOF, ""},
	})
}

func TestOperatorsAndLiterals(t *testing.T) {
	checkTokens(t, `+-!~() true false 3.14 1e3 2.5E-2 1_000 "hi" 'there' str string bool float`, []expectedToken{
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.BANG, "!"},
		{token.TILDE, "~"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.TRUE, "true"},
		{token.FALSE, "false"},
		{token.FLOAT, "3.14"},
		{token.FLOAT, "1e3"},
		{token.FLOAT, "2.5E-2"},
		{token.INT, "1_000"},
		{token.STRING, "hi"},
		{token.STRING, "there"},
		{token.TYPE, "str"},
		{token.TYPE, "string"},
		{token.TYPE, "bool"},
		{token.TYPE, "float"},
		{token.EOF, ""},
	})
}

func TestComments(t *testing.T) {
	checkTokens(t, "# heading\nprint 1 // trailing\r\n", []expectedToken{
		{token.NEWLINE, "\n"},
		{token.PRINT, "print"},
		{token.INT, "1"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestStringEscapes(t *testing.T) {
	checkTokens(t, `"a\nb\t\"c\"\\" 'd\'e' "héllo"`, []expectedToken{
		{token.STRING, "a\nb\t\"c\"\\"},
		{token.STRING, "d'e"},
		{token.STRING, "héllo"},
		{token.EOF, ""},
	})
}

func TestUnicodeIdentifiers(t *testing.T) {
	checkTokens(t, "int größe = 1", []expectedToken{
		{token.TYPE, "int"},
		{token.IDENT, "größe"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
	})
}

func TestPositions(t *testing.T) {
	l := New("int x = 1\n  print größe x")
	l.SetFilename("main.kaos")
	var toks []token.Token
	for {
		tok, err := l.Next()
		assert.Nil(t, err)
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	assert.Equal(t, toks[1].StartPosition.Column, 4)
	assert.Equal(t, toks[1].StartPosition.File, "main.kaos")

	pr := toks[5]
	assert.Equal(t, pr.Type, token.PRINT)
	assert.Equal(t, pr.StartPosition.Line, 1)
	assert.Equal(t, pr.StartPosition.Column, 2)
	assert.Equal(t, pr.StartPosition.LineStart, 10)
	assert.Equal(t, pr.EndPosition.Column, 7)

	// Columns count characters, not bytes.
	x := toks[7]
	assert.Equal(t, x.Literal, "x")
	assert.Equal(t, x.StartPosition.Column, 14)
	assert.Equal(t, l.GetLineText(x), "  print größe x")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input    string
		sentinel error
	}{
		{`"abc`, ErrUnterminatedString},
		{"\"abc\ndef\"", ErrUnterminatedString},
		{`"a\qb"`, ErrInvalidEscape},
		{"12abc", ErrInvalidNumber},
		{"1e+", ErrInvalidNumber},
		{"@", ErrUnexpectedChar},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok, err := New(tt.input).Next()
			assert.NotNil(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Equal(t, tok.Type, token.ILLEGAL)
		})
	}
}

func TestPeriodWithoutDigitsEndsNumber(t *testing.T) {
	l := New("5.")
	tok, err := l.Next()
	assert.Nil(t, err)
	assert.Equal(t, tok.Type, token.INT)
	assert.Equal(t, tok.Literal, "5")
	_, err = l.Next()
	assert.NotNil(t, err)
}
