// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
//
// Statements are collected in source order. Statements end at a newline, a
// semicolon or the end of the input.
package parser

import (
	"context"
	"fmt"

	"github.com/chaos-lang/chaos/ast"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/internal/lexer"
	"github.com/chaos-lang/chaos/internal/token"
)

type prefixParseFn func() ast.Expr

// statementTerminators defines tokens that can end a statement.
var statementTerminators = map[token.Type]bool{
	token.SEMICOLON: true,
	token.NEWLINE:   true,
	token.EOF:       true,
}

// Parse the provided input as Chaos source code and return a program holding
// a single file. This is shorthand for creating a Lexer and Parser and then
// calling Parse.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	file, err := ParseFile(ctx, input, options...)
	if file == nil {
		return nil, err
	}
	return &ast.Program{Files: []*ast.File{file}}, err
}

// ParseFile parses input as one source file.
func ParseFile(ctx context.Context, input string, options ...Option) (*ast.File, error) {
	p := New(lexer.New(input), options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name recorded in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// source is the full input, kept on the resulting file
	source string

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// parsing errors collected during parsing
	errors []*ParserError

	// stmtErrorCount tracks error count at start of current statement.
	stmtErrorCount int

	prefixParseFns map[token.Type]prefixParseFn

	filename string
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" {
		l.SetFilename(p.filename)
	}
	p.source = l.Input()

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.FLOAT, p.parseFloat)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.PLUS, p.parsePrefixExpr)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TILDE, p.parsePrefixExpr)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	return p
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// nextToken moves to the next token from the lexer. Lexer failures are
// recorded as syntax errors.
func (p *Parser) nextToken() {
	var err error
	p.curToken = p.peekToken
	p.peekToken, err = p.l.Next()
	if err == nil {
		return
	}
	p.addError(NewSyntaxError(ErrorOpts{
		Code:          lexerErrorCode(err),
		Cause:         err,
		File:          p.l.Filename(),
		StartPosition: p.peekToken.StartPosition,
		EndPosition:   p.peekToken.EndPosition,
		SourceCode:    p.l.GetLineText(p.peekToken),
	}))
}

func lexerErrorCode(err error) errors.ErrorCode {
	switch {
	case errors.Is(err, lexer.ErrUnterminatedString):
		return errors.E1002
	case errors.Is(err, lexer.ErrInvalidEscape):
		return errors.E1010
	case errors.Is(err, lexer.ErrInvalidNumber):
		return errors.E1008
	default:
		return errors.E1003
	}
}

// Parse the program that is provided via the lexer. If there are errors the
// returned file holds only the statements that parsed successfully.
func (p *Parser) Parse(ctx context.Context) (*ast.File, error) {
	p.ctx = ctx
	file := &ast.File{Name: p.filename, Source: p.source}
	for !p.curTokenIs(token.EOF) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(p.errors) >= MaxErrors {
			break
		}
		if statementTerminators[p.curToken.Type] {
			p.nextToken()
			continue
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil && !p.hadNewError() {
			file.Stmts = append(file.Stmts, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	if len(p.errors) > 0 {
		return file, NewErrors(p.errors)
	}
	return file, nil
}

func (p *Parser) addError(err *ParserError) {
	p.errors = append(p.errors, err)
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached.
func (p *Parser) synchronize() {
	for !statementTerminators[p.curToken.Type] {
		p.nextToken()
	}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token has the expected type and records
// an error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	code := errors.E1001
	if t == token.IDENT {
		code = errors.E1006
	}
	p.peekError(context, code, t, p.peekToken)
	return false
}

// peekError records that got was found where expected was required.
func (p *Parser) peekError(context string, code errors.ErrorCode, expected token.Type, got token.Token) {
	p.tokenError(code, got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

func (p *Parser) tokenError(code errors.ErrorCode, t token.Token, format string, args ...any) {
	p.addError(NewParserError(ErrorOpts{
		Code:          code,
		Message:       fmt.Sprintf(format, args...),
		File:          p.l.Filename(),
		StartPosition: t.StartPosition,
		EndPosition:   t.EndPosition,
		SourceCode:    p.l.GetLineText(t),
	}))
}
