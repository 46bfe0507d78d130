package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"

	"github.com/chaos-lang/chaos/ast"
	"github.com/chaos-lang/chaos/parser"
)

func astHandler(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}
	in, err := readInput(ctx)
	if err != nil {
		return err
	}
	var opts []parser.Option
	if in.name != "" {
		opts = append(opts, parser.WithFilename(in.name))
	}
	program, err := parser.Parse(ctx.Context(), string(in.data), opts...)
	if err != nil {
		return formatError(err)
	}
	printAST(stdout, program)
	return nil
}

// treePrinter writes one line per node, indented by depth.
type treePrinter struct {
	w     io.Writer
	depth int
}

func (p treePrinter) Visit(node ast.Node) ast.Visitor {
	if node == nil {
		return nil
	}
	line := strings.Repeat("  ", p.depth) + color.Colorize(color.Cyan, nodeName(node))
	if detail := nodeDetail(node); detail != "" {
		line += " " + color.Colorize(color.Yellow, detail)
	}
	fmt.Fprintln(p.w, line)
	return treePrinter{w: p.w, depth: p.depth + 1}
}

func printAST(w io.Writer, program *ast.Program) {
	ast.Walk(treePrinter{w: w}, program)
}

func nodeName(node ast.Node) string {
	return reflect.TypeOf(node).Elem().Name()
}

func nodeDetail(node ast.Node) string {
	switch n := node.(type) {
	case *ast.File:
		return n.Name
	case *ast.Var:
		return n.Type
	case *ast.Prefix:
		return n.Op
	case *ast.Ident:
		return fmt.Sprintf("%q", n.Name)
	case *ast.Int:
		return n.Literal
	case *ast.Float:
		return n.Literal
	case *ast.Bool:
		return n.Literal
	case *ast.String:
		return n.String()
	default:
		return ""
	}
}
