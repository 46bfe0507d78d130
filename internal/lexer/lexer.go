// Package lexer converts Chaos source code into tokens.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chaos-lang/chaos/internal/token"
)

// Errors returned by Next, wrapped with details about the offending input.
var (
	ErrUnexpectedChar     = errors.New("unexpected character")
	ErrInvalidNumber      = errors.New("invalid number literal")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrInvalidEscape      = errors.New("invalid escape sequence")
)

// Lexer holds our object-state.
type Lexer struct {
	input     string
	filename  string
	ch        rune // current character
	pos       int  // byte offset of ch
	next      int  // byte offset of the character after ch
	line      int
	lineStart int
	column    int // character column of ch
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input, column: -1}
	l.readChar()
	return l
}

// SetFilename sets the filename recorded in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

func (l *Lexer) Filename() string {
	return l.filename
}

// Input returns the complete source text being lexed.
func (l *Lexer) Input() string {
	return l.input
}

// Next returns the next token. At the end of input it keeps returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	l.skipSpaceAndComments()
	start := l.position()

	switch ch := l.ch; {
	case ch == 0 && l.pos >= len(l.input):
		return l.token(token.EOF, "", start), nil
	case ch == '\n':
		l.readChar()
		return l.token(token.NEWLINE, "\n", start), nil
	case ch == '=':
		return l.single(token.ASSIGN, start), nil
	case ch == '+':
		return l.single(token.PLUS, start), nil
	case ch == '-':
		return l.single(token.MINUS, start), nil
	case ch == '!':
		return l.single(token.BANG, start), nil
	case ch == '~':
		return l.single(token.TILDE, start), nil
	case ch == '(':
		return l.single(token.LPAREN, start), nil
	case ch == ')':
		return l.single(token.RPAREN, start), nil
	case ch == ';':
		return l.single(token.SEMICOLON, start), nil
	case ch == '"' || ch == '\'':
		return l.readString(start)
	case isDigit(ch):
		return l.readNumber(start)
	case isIdentStart(ch):
		ident := l.readIdentifier()
		return l.token(token.LookupIdentifier(ident), ident, start), nil
	default:
		l.readChar()
		tok := l.token(token.ILLEGAL, string(ch), start)
		return tok, fmt.Errorf("%w %q", ErrUnexpectedChar, ch)
	}
}

// GetLineText returns the full line of source text containing tok.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	rest := l.input[start:]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, "\r")
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.lineStart = l.next
		l.column = -1
	}
	l.pos = l.next
	l.column++
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.column,
		File:      l.filename,
	}
}

func (l *Lexer) token(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) single(typ token.Type, start token.Position) token.Token {
	literal := string(l.ch)
	l.readChar()
	return l.token(typ, literal, start)
}

// skipSpaceAndComments skips blanks and comments, stopping at newlines since
// they terminate statements. Comments start with "//" or "#" and run to the
// end of the line.
func (l *Lexer) skipSpaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '#' || (l.ch == '/' && l.peekChar() == '/'):
			for l.ch != '\n' && l.pos < len(l.input) {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads an integer or a float. A float has a fractional part, an
// exponent, or both: 3.14, 1e3, 2.5E-2.
func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.pos
	typ := token.INT
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		typ = token.FLOAT
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			tok := l.token(token.ILLEGAL, l.input[begin:l.pos], start)
			return tok, fmt.Errorf("%w %q", ErrInvalidNumber, tok.Literal)
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if isIdentStart(l.ch) {
		for isIdentStart(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		tok := l.token(token.ILLEGAL, l.input[begin:l.pos], start)
		return tok, fmt.Errorf("%w %q", ErrInvalidNumber, tok.Literal)
	}
	return l.token(typ, l.input[begin:l.pos], start), nil
}

// readString reads a string delimited by the current quote character. The
// literal of the returned token is the unescaped text.
func (l *Lexer) readString(start token.Position) (token.Token, error) {
	quote := l.ch
	l.readChar()
	var b strings.Builder
	for {
		switch {
		case l.ch == quote:
			l.readChar()
			return l.token(token.STRING, b.String(), start), nil
		case l.ch == '\n' || (l.ch == 0 && l.pos >= len(l.input)):
			return l.token(token.ILLEGAL, b.String(), start),
				ErrUnterminatedString
		case l.ch == '\\':
			l.readChar()
			r, ok := unescape(l.ch, quote)
			if !ok {
				return l.token(token.ILLEGAL, b.String(), start),
					fmt.Errorf("%w \\%c", ErrInvalidEscape, l.ch)
			}
			b.WriteRune(r)
			l.readChar()
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func unescape(ch, quote rune) (rune, bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case quote:
		return quote, true
	default:
		return 0, false
	}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
