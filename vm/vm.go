// Package vm provides a VirtualMachine that executes compiled Chaos programs.
//
// The machine has sixteen 64-bit registers, a heap addressed from
// bytecode.HeapBase and an auxiliary stack used to move string characters
// around. Each cycle fetches the instruction at the instruction counter (IC),
// advances the counter past it and executes it, until HLT.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/object"
	"github.com/chaos-lang/chaos/op"
	"github.com/rs/zerolog"
)

const (
	// MaxStackDepth is the default limit of the auxiliary stack, in words.
	MaxStackDepth = bytecode.MaxAddress * 256

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

type VirtualMachine struct {
	ic        int64 // instruction counter
	instr     bytecode.Instruction
	program   *bytecode.Program
	registers [op.NumRegisters]int64
	heap      []int64 // grown on first store; unwritten words read as zero
	stack     []int64
	halted    bool
	steps     int64
	running   bool
	runMutex  sync.Mutex

	out                  io.Writer
	logger               zerolog.Logger
	observer             Observer
	contextCheckInterval int
	maxStackDepth        int
}

// New creates a new Virtual Machine for the given program.
func New(program *bytecode.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		program:              program,
		out:                  os.Stdout,
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
		maxStackDepth:        MaxStackDepth,
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// reset clears the machine state so the program runs from the start.
func (vm *VirtualMachine) reset() {
	vm.ic = 0
	vm.instr = bytecode.Instruction{}
	vm.registers = [op.NumRegisters]int64{}
	vm.heap = nil
	vm.stack = vm.stack[:0]
	vm.halted = false
	vm.steps = 0
}

// Run executes the program from offset zero until HLT. Each call starts from
// a clean machine; the state left by the last run stays available for
// inspection until the next one.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.program == nil {
		return fmt.Errorf("no program to run")
	}
	// Set up some guarantees:
	// 1. It is an error to call Run on a VM that is already running
	// 2. The running flag will always be set to false when Run returns
	// 3. Any panics are translated to errors and the VM is stopped
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()
	vm.reset()
	if err := ctx.Err(); err != nil {
		return vm.canceled(err)
	}
	return vm.eval(ctx)
}

// eval is the fetch/execute loop.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	// Instruction counter for deterministic context checking
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	steps := newStepper(vm.observer)

	for !vm.halted {
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return vm.canceled(ctx.Err())
				default:
				}
			}
		}

		if err := vm.fetch(); err != nil {
			return err
		}
		instr := vm.instr

		if steps != nil {
			loc := vm.program.LocationAt(instr.Offset)
			if steps.wants(loc) {
				event := StepEvent{
					IC:         vm.ic,
					Opcode:     instr.Opcode,
					OpcodeName: instr.Opcode.String(),
					Operands:   instr.Operands(),
					Location:   loc,
					StackDepth: len(vm.stack),
				}
				if !steps.observer.OnStep(event) {
					return fmt.Errorf("execution halted by observer")
				}
			}
		}
		vm.logger.Trace().
			Int64("ic", vm.ic).
			Stringer("op", instr.Opcode).
			Ints64("args", instr.Operands()).
			Msg("step")

		// Advance the counter before executing, as the original offset is
		// only needed for error reporting.
		ic := vm.ic
		vm.ic += int64(instr.Width())
		if err := vm.execute(ic, instr); err != nil {
			return err
		}
		vm.steps++
	}
	return nil
}

// fetch decodes the instruction at the instruction counter into vm.instr.
func (vm *VirtualMachine) fetch() error {
	vm.instr = bytecode.Instruction{}
	if vm.ic < 0 || vm.ic >= int64(vm.program.Size()) {
		return vm.runtimeError(vm.ic, errors.ErrProgramCounter,
			"program counter %d is outside the code (%d words); missing HLT?",
			vm.ic, vm.program.Size())
	}
	instr, err := vm.program.Decode(int(vm.ic))
	if err != nil {
		return vm.runtimeError(vm.ic, err, "%s", err.Error())
	}
	vm.instr = instr
	return nil
}

func (vm *VirtualMachine) execute(ic int64, instr bytecode.Instruction) error {
	args := instr.Args
	switch instr.Opcode {
	case op.Nop:
	case op.Halt:
		vm.halted = true
	case op.LoadImm:
		r, err := vm.register(ic, args[0])
		if err != nil {
			return err
		}
		vm.registers[r] = args[1]
	case op.LoadAddr:
		r, err := vm.register(ic, args[0])
		if err != nil {
			return err
		}
		value, err := vm.load(ic, args[1])
		if err != nil {
			return err
		}
		vm.registers[r] = value
	case op.StoreAddr:
		r, err := vm.register(ic, args[1])
		if err != nil {
			return err
		}
		return vm.store(ic, args[0], vm.registers[r])
	case op.Move:
		dst, src, err := vm.registerPair(ic, args)
		if err != nil {
			return err
		}
		vm.registers[dst] = vm.registers[src]
	case op.Push:
		r, err := vm.register(ic, args[0])
		if err != nil {
			return err
		}
		return vm.push(ic, vm.registers[r])
	case op.Pop:
		r, err := vm.register(ic, args[0])
		if err != nil {
			return err
		}
		value, err := vm.pop(ic)
		if err != nil {
			return err
		}
		vm.registers[r] = value
	case op.Print:
		return vm.print(ic)
	case op.Add, op.Sub, op.Mul, op.Div, op.Mod:
		dst, src, err := vm.registerPair(ic, args)
		if err != nil {
			return err
		}
		result, err := vm.arithmetic(ic, instr.Opcode, vm.registers[dst], vm.registers[src])
		if err != nil {
			return err
		}
		vm.registers[dst] = result
	case op.LogicalNot:
		r, err := vm.register(ic, args[0])
		if err != nil {
			return err
		}
		if vm.registers[r] == 0 {
			vm.registers[r] = 1
		} else {
			vm.registers[r] = 0
		}
	case op.BitwiseNot:
		r, err := vm.register(ic, args[0])
		if err != nil {
			return err
		}
		vm.registers[r] = ^vm.registers[r]
	default:
		return vm.runtimeError(ic, errors.ErrInvalidOpcode,
			"invalid opcode %d", int64(instr.Opcode))
	}
	return nil
}

func (vm *VirtualMachine) arithmetic(ic int64, opcode op.Code, a, b int64) (int64, error) {
	switch opcode {
	case op.Add:
		return a + b, nil
	case op.Sub:
		return a - b, nil
	case op.Mul:
		return a * b, nil
	case op.Div:
		if b == 0 {
			return 0, vm.runtimeError(ic, errors.ErrDivisionByZero, "division by zero")
		}
		return a / b, nil
	case op.Mod:
		if b == 0 {
			return 0, vm.runtimeError(ic, errors.ErrDivisionByZero, "modulo by zero")
		}
		return a % b, nil
	}
	return 0, vm.runtimeError(ic, errors.ErrInvalidOperation,
		"%s is not an arithmetic operation", opcode)
}

func (vm *VirtualMachine) register(ic, operand int64) (op.Register, error) {
	r := op.Register(operand)
	if !r.Valid() {
		return 0, vm.runtimeError(ic, errors.ErrInvalidRegister,
			"invalid register %d", operand)
	}
	return r, nil
}

func (vm *VirtualMachine) registerPair(ic int64, args [op.MaxOperands]int64) (op.Register, op.Register, error) {
	dst, err := vm.register(ic, args[0])
	if err != nil {
		return 0, 0, err
	}
	src, err := vm.register(ic, args[1])
	if err != nil {
		return 0, 0, err
	}
	return dst, src, nil
}

// heapIndex converts a heap address to an index into vm.heap.
func (vm *VirtualMachine) heapIndex(ic, addr int64) (int, error) {
	if addr < bytecode.HeapBase || addr >= int64(vm.program.Capacity()) {
		return 0, vm.runtimeError(ic, errors.ErrAddressOutOfRange,
			"heap address %d out of bounds [%d, %d)",
			addr, bytecode.HeapBase, vm.program.Capacity())
	}
	return int(addr - bytecode.HeapBase), nil
}

func (vm *VirtualMachine) load(ic, addr int64) (int64, error) {
	idx, err := vm.heapIndex(ic, addr)
	if err != nil {
		return 0, err
	}
	if idx >= len(vm.heap) {
		return 0, nil
	}
	return vm.heap[idx], nil
}

func (vm *VirtualMachine) store(ic, addr, value int64) error {
	idx, err := vm.heapIndex(ic, addr)
	if err != nil {
		return err
	}
	if idx >= len(vm.heap) {
		grown := make([]int64, idx+1, max(idx+1, 2*len(vm.heap)))
		copy(grown, vm.heap)
		vm.heap = grown
	}
	vm.heap[idx] = value
	return nil
}

func (vm *VirtualMachine) push(ic, value int64) error {
	if len(vm.stack) >= vm.maxStackDepth {
		return vm.runtimeError(ic, errors.ErrStackOverflow,
			"auxiliary stack overflow (%d words)", vm.maxStackDepth)
	}
	vm.stack = append(vm.stack, value)
	return nil
}

func (vm *VirtualMachine) pop(ic int64) (int64, error) {
	n := len(vm.stack)
	if n == 0 {
		return 0, vm.runtimeError(ic, errors.ErrStackUnderflow, "pop from empty stack")
	}
	value := vm.stack[n-1]
	vm.stack = vm.stack[:n-1]
	return value, nil
}

// print writes the value described by the registers, followed by a newline.
func (vm *VirtualMachine) print(ic int64) error {
	text, err := vm.render(ic)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(vm.out, text+"\n"); err != nil {
		return vm.runtimeError(ic, err, "write failed: %s", err)
	}
	return nil
}

// render returns the text of the value whose type tag is in R0. String
// characters are popped off the auxiliary stack.
func (vm *VirtualMachine) render(ic int64) (string, error) {
	r1 := vm.registers[op.R1]
	switch tag := object.Type(vm.registers[op.R0]); tag {
	case object.Bool:
		return object.NewBool(r1 != 0).String(), nil
	case object.Int:
		return object.NewInt(r1).String(), nil
	case object.Float:
		return object.FormatFixed(r1, vm.registers[op.R2]), nil
	case object.String:
		if r1 < 0 || r1 > int64(len(vm.stack)) {
			return "", vm.runtimeError(ic, errors.ErrStackUnderflow,
				"string of length %d but only %d words on the stack", r1, len(vm.stack))
		}
		chars := make([]int64, r1)
		for i := range chars {
			chars[i], _ = vm.pop(ic)
		}
		s, err := object.DecodeString(chars)
		if err != nil {
			return "", vm.runtimeError(ic, errors.ErrInvalidOperation, "%s", err)
		}
		return s, nil
	default:
		return "", vm.runtimeError(ic, errors.ErrInvalidOperation,
			"cannot print value with type tag %d", int64(tag))
	}
}

// runtimeError creates a RuntimeError for the instruction at ic.
func (vm *VirtualMachine) runtimeError(ic int64, err error, format string, args ...any) error {
	e := errors.NewRuntimeError(err, ic, format, args...)
	if vm.instr.Opcode != op.Invalid {
		e.Opcode = vm.instr.Opcode.String()
	}
	e.Filename = vm.program.Filename()
	e.Line = vm.program.LocationAt(int(ic)).Line
	vm.logger.Debug().Err(e).Msg("runtime error")
	return e
}

func (vm *VirtualMachine) canceled(err error) error {
	e := errors.NewRuntimeError(err, vm.ic, "execution canceled")
	e.Code = errors.E3015
	return e
}

// Program returns the program the machine executes.
func (vm *VirtualMachine) Program() *bytecode.Program {
	return vm.program
}

// IC returns the instruction counter.
func (vm *VirtualMachine) IC() int64 {
	return vm.ic
}

// Instruction returns the last instruction fetched.
func (vm *VirtualMachine) Instruction() bytecode.Instruction {
	return vm.instr
}

// Register returns the value of register r, or zero for an invalid register.
func (vm *VirtualMachine) Register(r op.Register) int64 {
	if !r.Valid() {
		return 0
	}
	return vm.registers[r]
}

// HeapAt returns the heap word at addr.
func (vm *VirtualMachine) HeapAt(addr int64) (int64, error) {
	idx, err := vm.heapIndex(vm.ic, addr)
	if err != nil {
		return 0, err
	}
	if idx >= len(vm.heap) {
		return 0, nil
	}
	return vm.heap[idx], nil
}

// StackDepth returns the number of words on the auxiliary stack.
func (vm *VirtualMachine) StackDepth() int {
	return len(vm.stack)
}

// Stack returns a copy of the auxiliary stack, bottom first.
func (vm *VirtualMachine) Stack() []int64 {
	result := make([]int64, len(vm.stack))
	copy(result, vm.stack)
	return result
}

// Halted reports whether the last run reached HLT.
func (vm *VirtualMachine) Halted() bool {
	return vm.halted
}

// Steps returns the number of instructions executed by the last run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}
