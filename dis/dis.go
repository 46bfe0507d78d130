// Package dis supports analysis of Chaos programs by disassembling their
// instruction stream. It works with the opcodes defined in the `op` package
// and the decoder in the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/internal/table"
	"github.com/chaos-lang/chaos/object"
	"github.com/chaos-lang/chaos/op"
	"github.com/deepnoodle-ai/wonton/color"
)

// AnnotationKind says what an instruction's annotation describes.
type AnnotationKind string

const (
	NoAnnotation   AnnotationKind = ""
	TypeAnnotation AnnotationKind = "type"
	CharAnnotation AnnotationKind = "char"
	SlotAnnotation AnnotationKind = "slot"
	HeapAnnotation AnnotationKind = "heap"
)

// Instruction represents a single decoded instruction and its operands.
type Instruction struct {
	Offset     int              `json:"offset"`
	Name       string           `json:"opcode"`
	Opcode     op.Code          `json:"code"`
	Operands   []int64          `json:"operands,omitempty"`
	Kinds      []op.OperandKind `json:"-"`
	Annotation string           `json:"info,omitempty"`
	Kind       AnnotationKind   `json:"kind,omitempty"`
}

// Disassemble returns a parsed representation of the program's code region.
// Decoding stops at the first malformed instruction, in which case the
// instructions read so far are returned along with the error.
func Disassemble(program *bytecode.Program) ([]Instruction, error) {
	decoded, err := program.Instructions()
	instructions := make([]Instruction, 0, len(decoded))
	for i, d := range decoded {
		info := op.GetInfo(d.Opcode)
		instr := Instruction{
			Offset:   d.Offset,
			Name:     info.Name,
			Opcode:   d.Opcode,
			Operands: append([]int64(nil), d.Operands()...),
			Kinds:    info.Operands,
		}
		var next *bytecode.Instruction
		if i+1 < len(decoded) {
			next = &decoded[i+1]
		}
		instr.Annotation, instr.Kind = annotate(program, d, next)
		instructions = append(instructions, instr)
	}
	return instructions, err
}

func annotate(program *bytecode.Program, instr bytecode.Instruction, next *bytecode.Instruction) (string, AnnotationKind) {
	switch instr.Opcode {
	case op.LoadImm:
		reg, value := instr.Args[0], instr.Args[1]
		if next != nil && next.Opcode == op.Push && next.Args[0] == reg {
			return strconv.QuoteRune(rune(value)), CharAnnotation
		}
		if op.Register(reg) == op.R0 && object.Type(value).Valid() {
			return object.Type(value).String(), TypeAnnotation
		}
	case op.LoadAddr:
		return addressName(program, instr.Args[1])
	case op.StoreAddr:
		return addressName(program, instr.Args[0])
	}
	return "", NoAnnotation
}

// addressName names a heap address by the symbol whose slot holds it, with
// the word offset inside the slot when it is not the first word.
func addressName(program *bytecode.Program, addr int64) (string, AnnotationKind) {
	if sym, ok := program.SymbolForAddr(addr); ok {
		if addr == sym.Addr {
			return sym.Name, SlotAnnotation
		}
		return fmt.Sprintf("%s+%d", sym.Name, addr-sym.Addr), SlotAnnotation
	}
	return fmt.Sprintf("heap+%d", addr-bytecode.HeapBase), HeapAnnotation
}

// bold applies bold formatting if colors are enabled.
func bold(s string) string {
	if !color.Enabled {
		return s
	}
	return color.ApplyBold(s)
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		values = append(values, bold(instr.Name))
		values = append(values, formatOperands(instr.Operands, instr.Kinds))
		switch instr.Kind {
		case TypeAnnotation:
			values = append(values, color.Colorize(color.Magenta, instr.Annotation))
		case CharAnnotation:
			values = append(values, color.Colorize(color.Green, instr.Annotation))
		case SlotAnnotation:
			values = append(values, color.Colorize(color.BrightCyan, instr.Annotation))
		case HeapAnnotation:
			values = append(values, color.Colorize(color.Yellow, instr.Annotation))
		default:
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// formatOperands writes register operands by name and everything else as a
// decimal word.
func formatOperands(operands []int64, kinds []op.OperandKind) string {
	var sb strings.Builder
	for i, operand := range operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i < len(kinds) && kinds[i] == op.Reg {
			sb.WriteString(op.Register(operand).String())
			continue
		}
		sb.WriteString(strconv.FormatInt(operand, 10))
	}
	return sb.String()
}
