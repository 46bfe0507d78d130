package ast

import (
	"github.com/chaos-lang/chaos/internal/token"
)

// Ident is an expression node that refers to a declared variable.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// The operators are "+", "-", "!" and "~".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	return "(" + x.Op + x.X.String() + ")"
}
