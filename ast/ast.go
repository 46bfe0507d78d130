// Package ast defines the abstract syntax tree representation of Chaos code.
package ast

import (
	"strings"

	"github.com/chaos-lang/chaos/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program is the root of a compilation unit: one statement list per source
// file, in the order the files were given.
type Program struct {
	Files []*File
}

func (p *Program) Pos() token.Position {
	if len(p.Files) == 0 {
		return token.NoPos
	}
	return p.Files[0].Pos()
}

func (p *Program) End() token.Position {
	if len(p.Files) == 0 {
		return token.NoPos
	}
	return p.Files[len(p.Files)-1].End()
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "\n")
}

// File holds the statements of one source file in source order.
type File struct {
	Name   string
	Source string
	Stmts  []Stmt
}

func (f *File) Pos() token.Position {
	if len(f.Stmts) == 0 {
		return token.Position{File: f.Name}
	}
	return f.Stmts[0].Pos()
}

func (f *File) End() token.Position {
	if len(f.Stmts) == 0 {
		return token.Position{File: f.Name}
	}
	return f.Stmts[len(f.Stmts)-1].End()
}

func (f *File) String() string {
	lines := make([]string, 0, len(f.Stmts))
	for _, s := range f.Stmts {
		lines = append(lines, s.String())
	}
	return strings.Join(lines, "\n")
}

// BadExpr represents an expression containing syntax errors.
type BadExpr struct {
	From token.Position // start of bad expression
	To   token.Position // end of bad expression
}

func (x *BadExpr) exprNode() {}

func (x *BadExpr) Pos() token.Position { return x.From }
func (x *BadExpr) End() token.Position { return x.To }
func (x *BadExpr) String() string      { return "<bad expression>" }

// BadStmt represents a statement containing syntax errors.
type BadStmt struct {
	From token.Position // start of bad statement
	To   token.Position // end of bad statement
}

func (x *BadStmt) stmtNode() {}

func (x *BadStmt) Pos() token.Position { return x.From }
func (x *BadStmt) End() token.Position { return x.To }
func (x *BadStmt) String() string      { return "<bad statement>" }
