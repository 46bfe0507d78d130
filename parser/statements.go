package parser

import (
	"github.com/chaos-lang/chaos/ast"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/internal/token"
	"github.com/chaos-lang/chaos/object"
)

func (p *Parser) parseStatement() ast.Stmt {
	var stmt ast.Stmt
	switch p.curToken.Type {
	case token.TYPE:
		stmt = p.parseVar()
	case token.PRINT:
		stmt = p.parsePrint()
	case token.ILLEGAL:
		// Already reported by the lexer.
		return nil
	default:
		p.tokenError(errors.E1003, p.curToken,
			"invalid syntax (unexpected %s at start of statement)", tokenDescription(p.curToken))
		return nil
	}
	if stmt == nil {
		return nil
	}
	if !statementTerminators[p.peekToken.Type] {
		p.tokenError(errors.E1001, p.peekToken,
			"unexpected %s after statement (expected newline or ';')", tokenDescription(p.peekToken))
		p.nextToken()
		return nil
	}
	return stmt
}

// parseVar parses a typed declaration: TYPE IDENT "=" expr.
func (p *Parser) parseVar() ast.Stmt {
	typeTok := p.curToken
	if _, ok := object.ParseType(typeTok.Literal); !ok {
		p.tokenError(errors.E1003, typeTok, "unknown type %q", typeTok.Literal)
		return nil
	}
	if !p.expectPeek("declaration", token.IDENT) {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("declaration", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.Var{
		TypePos: typeTok.StartPosition,
		Type:    typeTok.Literal,
		Name:    name,
		Value:   value,
	}
}

// parsePrint parses "print" expr.
func (p *Parser) parsePrint() ast.Stmt {
	printTok := p.curToken
	p.nextToken()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	return &ast.Print{PrintPos: printTok.StartPosition, Value: value}
}
