package op

import "fmt"

// Register identifies one of the fixed general purpose registers.
type Register int64

// NumRegisters is the size of the register file.
const NumRegisters = 16

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// Valid reports whether r names a register in the register file.
func (r Register) Valid() bool {
	return r >= R0 && r < NumRegisters
}

func (r Register) String() string {
	if !r.Valid() {
		return fmt.Sprintf("R?(%d)", int64(r))
	}
	return fmt.Sprintf("R%d", int64(r))
}
