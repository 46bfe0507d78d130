package bytecode

import (
	"fmt"

	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/op"
)

// Instruction is one decoded instruction: the opcode and its operand words.
type Instruction struct {
	Offset  int
	Opcode  op.Code
	Args    [op.MaxOperands]int64
	NumArgs int
}

// Operands returns the operand words of the instruction.
func (i Instruction) Operands() []int64 {
	return i.Args[:i.NumArgs]
}

// Width returns the number of words the instruction occupies.
func (i Instruction) Width() int {
	return 1 + i.NumArgs
}

func (i Instruction) String() string {
	s := i.Opcode.String()
	for n, arg := range i.Args[:i.NumArgs] {
		if n == 0 {
			s += " "
		} else {
			s += ", "
		}
		s += fmt.Sprint(arg)
	}
	return s
}

// Decode reads the instruction that starts at offset in words. It fails on an
// unknown opcode and on operands that run past the end of words.
func Decode(words []int64, offset int) (Instruction, error) {
	if offset < 0 || offset >= len(words) {
		return Instruction{}, fmt.Errorf("%w: offset %d outside code of %d words",
			errors.ErrProgramCounter, offset, len(words))
	}
	code := op.Code(words[offset])
	info := op.GetInfo(code)
	if !info.IsValid() {
		return Instruction{}, fmt.Errorf("%w %d at offset %d",
			errors.ErrInvalidOpcode, words[offset], offset)
	}
	if offset+info.OperandCount >= len(words) {
		return Instruction{}, fmt.Errorf("%w: %s at offset %d is missing operands",
			errors.ErrProgramCounter, info.Name, offset)
	}
	instr := Instruction{Offset: offset, Opcode: code, NumArgs: info.OperandCount}
	copy(instr.Args[:], words[offset+1:offset+1+info.OperandCount])
	return instr, nil
}

// Decode reads the instruction at offset in the program's code region.
func (p *Program) Decode(offset int) (Instruction, error) {
	return Decode(p.words, offset)
}

// Instructions decodes the whole code region in order. It stops at the first
// word that cannot be decoded and returns the instructions read so far along
// with the error.
func (p *Program) Instructions() ([]Instruction, error) {
	var out []Instruction
	for offset := 0; offset < len(p.words); {
		instr, err := p.Decode(offset)
		if err != nil {
			return out, err
		}
		out = append(out, instr)
		offset += instr.Width()
	}
	return out, nil
}
