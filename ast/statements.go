package ast

import (
	"github.com/chaos-lang/chaos/internal/token"
)

// Var is a statement that declares a typed variable: "int x = 5".
type Var struct {
	TypePos token.Position // position of the type keyword
	Type    string         // the type keyword as written, e.g. "int"
	Name    *Ident         // the variable being declared
	Value   Expr           // the initial value
}

func (s *Var) stmtNode() {}

func (s *Var) Pos() token.Position { return s.TypePos }
func (s *Var) End() token.Position { return s.Value.End() }

func (s *Var) String() string {
	return s.Type + " " + s.Name.String() + " = " + s.Value.String()
}

// Print is a statement that writes the value of an expression followed by a
// newline: "print x".
type Print struct {
	PrintPos token.Position // position of "print" keyword
	Value    Expr           // the value to print
}

func (s *Print) stmtNode() {}

func (s *Print) Pos() token.Position { return s.PrintPos }
func (s *Print) End() token.Position { return s.Value.End() }

func (s *Print) String() string { return "print " + s.Value.String() }
