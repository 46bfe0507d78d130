package vm

import (
	"fmt"

	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/op"
	"github.com/hashicorp/go-multierror"
)

// Verify statically decodes the whole code region and reports every defect
// found, rather than only the first one the machine would trip over:
// unknown opcodes, register operands outside R0-R15, address operands
// outside the heap, truncated instructions and a missing final HLT.
//
// Unknown opcodes are skipped one word at a time, so a single bad word can
// desynchronize decoding of the words that follow it.
func Verify(program *bytecode.Program) error {
	var result *multierror.Error
	words := program.Words()
	capacity := int64(program.Capacity())
	var last bytecode.Instruction
	decoded := false

	for offset := 0; offset < len(words); {
		instr, err := bytecode.Decode(words, offset)
		if err != nil {
			result = multierror.Append(result, err)
			if errors.Is(err, errors.ErrInvalidOpcode) {
				offset++
				continue
			}
			break
		}
		info := op.GetInfo(instr.Opcode)
		for i, kind := range info.Operands {
			arg := instr.Args[i]
			switch kind {
			case op.Reg:
				if !op.Register(arg).Valid() {
					result = multierror.Append(result, fmt.Errorf("%w %d in %s at offset %d",
						errors.ErrInvalidRegister, arg, info.Name, offset))
				}
			case op.Addr:
				if arg < bytecode.HeapBase || arg >= capacity {
					result = multierror.Append(result, fmt.Errorf("%w: %d in %s at offset %d",
						errors.ErrAddressOutOfRange, arg, info.Name, offset))
				}
			}
		}
		last = instr
		decoded = true
		offset += instr.Width()
	}
	if !decoded || last.Opcode != op.Halt {
		result = multierror.Append(result, fmt.Errorf("%w: program does not end with HLT",
			errors.ErrProgramCounter))
	}
	return result.ErrorOrNil()
}
