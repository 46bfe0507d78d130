package ast

import "iter"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var out []Node
	switch n := node.(type) {
	case *Program:
		for _, f := range n.Files {
			out = append(out, f)
		}
	case *File:
		for _, s := range n.Stmts {
			out = append(out, s)
		}
	case *Var:
		if n.Name != nil {
			out = append(out, n.Name)
		}
		if n.Value != nil {
			out = append(out, n.Value)
		}
	case *Print:
		if n.Value != nil {
			out = append(out, n.Value)
		}
	case *Prefix:
		if n.X != nil {
			out = append(out, n.X)
		}
	}
	return out
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns false, the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the AST rooted at node
// in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
