package vm

import (
	"context"

	"github.com/chaos-lang/chaos/bytecode"
)

// Run the given program in a new Virtual Machine. The machine is returned
// even on error so callers can inspect the state it stopped in.
func Run(ctx context.Context, program *bytecode.Program, options ...Option) (*VirtualMachine, error) {
	machine := New(program, options...)
	if err := machine.Run(ctx); err != nil {
		return machine, err
	}
	return machine, nil
}
