package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/chaos-lang/chaos/ast"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/internal/token"
)

// parseExpression parses the expression starting at the current token and
// leaves the current token on its last token.
func (p *Parser) parseExpression() ast.Expr {
	if p.depth >= p.maxDepth {
		p.tokenError(errors.E1009, p.curToken,
			"maximum nesting depth of %d exceeded", p.maxDepth)
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()

	if p.curTokenIs(token.ILLEGAL) {
		return nil
	}
	fn, ok := p.prefixParseFns[p.curToken.Type]
	if !ok {
		if statementTerminators[p.curToken.Type] {
			p.tokenError(errors.E1004, p.curToken,
				"missing expression (unexpected %s)", tokenDescription(p.curToken))
		} else {
			p.tokenError(errors.E1003, p.curToken,
				"invalid syntax (unexpected %s)", tokenDescription(p.curToken))
		}
		return nil
	}
	return fn()
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curToken
	p.nextToken()
	if opTok.Literal == "-" && p.curTokenIs(token.INT) {
		if x := p.parseMinInt(opTok); x != nil {
			return x
		}
	}
	operand := p.parseExpression()
	if operand == nil {
		return nil
	}
	return &ast.Prefix{OpPos: opTok.StartPosition, Op: opTok.Literal, X: operand}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.curToken.Literal,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseInt(strings.ReplaceAll(tok.Literal, "_", ""), 10, 64)
	if err != nil {
		p.tokenError(errors.E1008, tok, "invalid integer literal %q (out of range)", tok.Literal)
		return nil
	}
	return &ast.Int{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

// parseMinInt handles -9223372036854775808, whose magnitude does not fit in
// an int64 on its own. It returns nil for every other literal, which is then
// parsed as a negated positive literal.
func (p *Parser) parseMinInt(opTok token.Token) ast.Expr {
	digits := strings.ReplaceAll(p.curToken.Literal, "_", "")
	if _, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return nil
	}
	value, err := strconv.ParseInt("-"+digits, 10, 64)
	if err != nil {
		return nil
	}
	return &ast.Int{
		ValuePos: opTok.StartPosition,
		Literal:  "-" + p.curToken.Literal,
		Value:    value,
	}
}

func (p *Parser) parseFloat() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
	if err != nil || math.IsInf(value, 0) {
		p.tokenError(errors.E1008, tok, "invalid float literal %q", tok.Literal)
		return nil
	}
	return &ast.Float{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{
		ValuePos: p.curToken.StartPosition,
		EndPos:   p.curToken.EndPosition,
		Value:    p.curToken.Literal,
	}
}
