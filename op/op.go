// Package op defines the opcodes and registers used by the Chaos compiler and
// virtual machine.
//
// An instruction is stored as a run of 64-bit words: the opcode word followed
// by its operand words. The number and kind of operands is fixed per opcode
// and is described by the Info table.
package op

import "fmt"

// Code is an integer opcode that indicates an operation to execute.
type Code int64

const (
	Invalid Code = 0

	// Execution
	Nop  Code = 1
	Halt Code = 2

	// Load and store
	LoadImm   Code = 10 // LII reg, imm
	LoadAddr  Code = 11 // LDI reg, addr
	StoreAddr Code = 12 // STI addr, reg
	Move      Code = 13 // MOV dst, src

	// Auxiliary stack
	Push Code = 20
	Pop  Code = 21

	// Output
	Print Code = 30

	// Arithmetic, dst = dst <op> src
	Add Code = 40
	Sub Code = 41
	Mul Code = 42
	Div Code = 43
	Mod Code = 44

	// Logical and bitwise
	LogicalNot Code = 50
	BitwiseNot Code = 51
)

// OperandKind describes how an operand word is interpreted.
type OperandKind uint8

const (
	// Reg operands name one of the registers R0-R15.
	Reg OperandKind = iota + 1
	// Imm operands are raw 64-bit immediates.
	Imm
	// Addr operands are absolute heap addresses.
	Addr
)

func (k OperandKind) String() string {
	switch k {
	case Reg:
		return "reg"
	case Imm:
		return "imm"
	case Addr:
		return "addr"
	default:
		return "?"
	}
}

// MaxOperands is the largest operand count of any opcode.
const MaxOperands = 2

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
	Operands     []OperandKind
}

// IsValid reports whether the info describes a known opcode.
func (i Info) IsValid() bool {
	return i.Name != ""
}

var (
	infos   = map[Code]Info{}
	byNames = map[string]Code{}
)

func init() {
	type opInfo struct {
		op       Code
		name     string
		operands []OperandKind
	}
	ops := []opInfo{
		{Add, "ADD", []OperandKind{Reg, Reg}},
		{BitwiseNot, "BNOT", []OperandKind{Reg}},
		{Div, "DIV", []OperandKind{Reg, Reg}},
		{Halt, "HLT", nil},
		{LoadAddr, "LDI", []OperandKind{Reg, Addr}},
		{LoadImm, "LII", []OperandKind{Reg, Imm}},
		{LogicalNot, "LNOT", []OperandKind{Reg}},
		{Mod, "MOD", []OperandKind{Reg, Reg}},
		{Move, "MOV", []OperandKind{Reg, Reg}},
		{Mul, "MUL", []OperandKind{Reg, Reg}},
		{Nop, "NOP", nil},
		{Pop, "POP", []OperandKind{Reg}},
		{Print, "PRNT", nil},
		{Push, "PUSH", []OperandKind{Reg}},
		{StoreAddr, "STI", []OperandKind{Addr, Reg}},
		{Sub, "SUB", []OperandKind{Reg, Reg}},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			OperandCount: len(o.operands),
			Operands:     o.operands,
		}
		byNames[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode. The returned Info is
// the zero value for unknown opcodes.
func GetInfo(code Code) Info {
	return infos[code]
}

// Lookup returns the opcode with the given mnemonic, e.g. "LII".
func Lookup(name string) (Code, bool) {
	code, ok := byNames[name]
	return code, ok
}

func (c Code) String() string {
	if info, ok := infos[c]; ok {
		return info.Name
	}
	return fmt.Sprintf("OP(%d)", int64(c))
}
