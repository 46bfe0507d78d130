package vm

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/compiler"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/op"
	"github.com/chaos-lang/chaos/parser"
	"github.com/stretchr/testify/require"
)

// runSource compiles and runs source code, returning what it printed.
func runSource(t *testing.T, source string, options ...Option) (string, *VirtualMachine, error) {
	t.Helper()
	ctx := context.Background()
	ast, err := parser.Parse(ctx, source)
	require.Nil(t, err)
	program, err := compiler.Compile(ast)
	require.Nil(t, err)
	var out bytes.Buffer
	machine, err := Run(ctx, program, append([]Option{WithOutput(&out)}, options...)...)
	return out.String(), machine, err
}

// assemble builds a program from raw instructions.
func assemble(t *testing.T, instructions ...[]int64) *bytecode.Program {
	t.Helper()
	p := bytecode.New()
	for _, instr := range instructions {
		require.Nil(t, p.Append(instr...))
	}
	return p
}

func ins(opcode op.Code, operands ...int64) []int64 {
	return append([]int64{int64(opcode)}, operands...)
}

func TestPrintValues(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print true", "true\n"},
		{"print false", "false\n"},
		{"print 42", "42\n"},
		{"print -7", "-7\n"},
		{"print 3.14", "3.14\n"},
		{"print 5.0", "5.0\n"},
		{"print -2.5", "-2.5\n"},
		{"print -0.5", "-0.5\n"},
		{"print 0.1", "0.1\n"},
		{"print 'hello'", "hello\n"},
		{`print "héllo wörld"`, "héllo wörld\n"},
		{`print ""`, "\n"},
		{"print !true", "false\n"},
		{"print !!true", "true\n"},
		{"print !0", "1\n"},
		{"print !5", "0\n"},
		{"print ~7", "-8\n"},
		{"print +3", "3\n"},
		{"print -(-3)", "3\n"},
		{"print 9223372036854775807", "9223372036854775807\n"},
		{"print -9223372036854775808", "-9223372036854775808\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, machine, err := runSource(t, tt.input)
			require.Nil(t, err)
			require.Equal(t, tt.expected, out)
			require.True(t, machine.Halted())
			require.Equal(t, 0, machine.StackDepth())
		})
	}
}

func TestDeclareAndPrint(t *testing.T) {
	out, machine, err := runSource(t, "int x = 5\nprint x")
	require.Nil(t, err)
	require.Equal(t, "5\n", out)

	tag, err := machine.HeapAt(bytecode.HeapBase)
	require.Nil(t, err)
	require.Equal(t, int64(2), tag)
	value, err := machine.HeapAt(bytecode.HeapBase + 1)
	require.Nil(t, err)
	require.Equal(t, int64(5), value)

	require.Equal(t, int64(2), machine.Register(op.R0))
	require.Equal(t, int64(5), machine.Register(op.R1))
	require.Equal(t, int64(machine.Program().Size()), machine.IC())
	require.Equal(t, int64(8), machine.Steps())
	require.Equal(t, op.Halt, machine.Instruction().Opcode)
}

func TestVariables(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"bool b = false\nprint b", "false\n"},
		{"float f = -1.25\nprint f", "-1.25\n"},
		{"float f = 1234.5\nfloat g = -f\nprint g\nprint f", "-1234.5\n1234.5\n"},
		{"str s = \"abc\"\nstr t = s\nprint t\nprint s", "abc\nabc\n"},
		{"int x = 1\nint x = 2\nprint x", "2\n"},
		{"int a = 10; int b = ~a; print b; print a", "-11\n10\n"},
		{"string s = 'multi\\tline\\n'\nprint s", "multi\tline\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, machine, err := runSource(t, tt.input)
			require.Nil(t, err)
			require.Equal(t, tt.expected, out)
			require.Equal(t, 0, machine.StackDepth())
		})
	}
}

func TestArithmetic(t *testing.T) {
	p := assemble(t,
		ins(op.LoadImm, 1, 7),
		ins(op.LoadImm, 2, 3),
		ins(op.Move, 4, 1), ins(op.Add, 4, 2),
		ins(op.Move, 5, 1), ins(op.Sub, 5, 2),
		ins(op.Move, 6, 1), ins(op.Mul, 6, 2),
		ins(op.Move, 7, 1), ins(op.Div, 7, 2),
		ins(op.Move, 8, 1), ins(op.Mod, 8, 2),
		ins(op.LoadImm, 9, 0), ins(op.LogicalNot, 9),
		ins(op.LoadImm, 10, 0), ins(op.BitwiseNot, 10),
		ins(op.Nop),
		ins(op.Halt),
	)
	machine, err := Run(context.Background(), p)
	require.Nil(t, err)
	expected := map[op.Register]int64{
		op.R4: 10, op.R5: 4, op.R6: 21, op.R7: 2, op.R8: 1, op.R9: 1, op.R10: -1,
	}
	for r, want := range expected {
		require.Equal(t, want, machine.Register(r), r.String())
	}
	require.Equal(t, int64(0), machine.Register(op.Register(99)))
}

func TestStackAndHeap(t *testing.T) {
	addr := int64(bytecode.HeapBase + 100)
	p := assemble(t,
		ins(op.LoadImm, 0, 11),
		ins(op.Push, 0),
		ins(op.LoadImm, 0, 22),
		ins(op.Push, 0),
		ins(op.Pop, 1),
		ins(op.StoreAddr, addr, 1),
		ins(op.LoadAddr, 2, addr),
		ins(op.LoadAddr, 3, addr+1),
		ins(op.Halt),
	)
	machine, err := Run(context.Background(), p)
	require.Nil(t, err)
	require.Equal(t, []int64{11}, machine.Stack())
	require.Equal(t, int64(22), machine.Register(op.R2))
	// Unwritten heap words read as zero
	require.Equal(t, int64(0), machine.Register(op.R3))

	_, err = machine.HeapAt(5)
	require.True(t, errors.Is(err, errors.ErrAddressOutOfRange))
	value, err := machine.HeapAt(bytecode.HeapBase + 5000)
	require.Nil(t, err)
	require.Equal(t, int64(0), value)
}

func TestRuntimeErrors(t *testing.T) {
	capacity := int64(bytecode.DefaultCapacity)
	tests := []struct {
		name     string
		program  [][]int64
		sentinel error
		code     errors.ErrorCode
		ic       int64
	}{
		{"missing halt", [][]int64{ins(op.LoadImm, 0, 1)}, errors.ErrProgramCounter, errors.E3014, 3},
		{"empty program", nil, errors.ErrProgramCounter, errors.E3014, 0},
		{"invalid opcode", [][]int64{ins(op.Nop), {99}}, errors.ErrInvalidOpcode, errors.E3011, 1},
		{"truncated operands", [][]int64{{int64(op.LoadImm), 0}}, errors.ErrProgramCounter, errors.E3014, 0},
		{"invalid register", [][]int64{ins(op.LoadImm, 16, 1), ins(op.Halt)}, errors.ErrInvalidRegister, errors.E3012, 0},
		{"negative register", [][]int64{ins(op.Push, -1), ins(op.Halt)}, errors.ErrInvalidRegister, errors.E3012, 0},
		{"load below heap", [][]int64{ins(op.LoadAddr, 0, 5), ins(op.Halt)}, errors.ErrAddressOutOfRange, errors.E3003, 0},
		{"store past capacity", [][]int64{ins(op.StoreAddr, capacity, 0), ins(op.Halt)}, errors.ErrAddressOutOfRange, errors.E3003, 0},
		{"division by zero", [][]int64{ins(op.LoadImm, 1, 4), ins(op.Div, 1, 2), ins(op.Halt)}, errors.ErrDivisionByZero, errors.E3002, 3},
		{"modulo by zero", [][]int64{ins(op.Mod, 1, 2), ins(op.Halt)}, errors.ErrDivisionByZero, errors.E3002, 0},
		{"pop empty stack", [][]int64{ins(op.Pop, 0), ins(op.Halt)}, errors.ErrStackUnderflow, errors.E3013, 0},
		{"print unknown tag", [][]int64{ins(op.LoadImm, 0, 9), ins(op.Print), ins(op.Halt)}, errors.ErrInvalidOperation, errors.E3007, 3},
		{"print short string", [][]int64{ins(op.LoadImm, 0, 4), ins(op.LoadImm, 1, 3), ins(op.Print), ins(op.Halt)}, errors.ErrStackUnderflow, errors.E3013, 6},
		{"print invalid character", [][]int64{
			ins(op.LoadImm, 0, 0x110000), ins(op.Push, 0),
			ins(op.LoadImm, 0, 4), ins(op.LoadImm, 1, 1),
			ins(op.Print), ins(op.Halt),
		}, errors.ErrInvalidOperation, errors.E3007, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := assemble(t, tt.program...)
			var out bytes.Buffer
			_, err := Run(context.Background(), p, WithOutput(&out))
			require.NotNil(t, err)
			require.True(t, errors.Is(err, tt.sentinel), err.Error())
			var runtimeErr *errors.RuntimeError
			require.True(t, errors.As(err, &runtimeErr))
			require.Equal(t, tt.code, runtimeErr.Code)
			require.Equal(t, tt.ic, runtimeErr.IC)
			require.Empty(t, out.String())
		})
	}
}

func TestRuntimeErrorMessage(t *testing.T) {
	p := assemble(t, ins(op.LoadImm, 1, 4), ins(op.Div, 1, 2), ins(op.Halt))
	_, err := Run(context.Background(), p)
	require.Equal(t, "runtime error: division by zero (ic 3, DIV)", err.Error())
}

func TestStackOverflow(t *testing.T) {
	p := assemble(t, ins(op.Push, 0), ins(op.Push, 0), ins(op.Push, 0), ins(op.Halt))
	machine, err := Run(context.Background(), p, WithMaxStackDepth(2))
	require.True(t, errors.Is(err, errors.ErrStackOverflow))
	require.Equal(t, 2, machine.StackDepth())
}

func TestRunResetsState(t *testing.T) {
	ast, err := parser.Parse(context.Background(), "str s = 'ab'\nprint s")
	require.Nil(t, err)
	program, err := compiler.Compile(ast)
	require.Nil(t, err)

	var out bytes.Buffer
	machine := New(program, WithOutput(&out))
	require.Nil(t, machine.Run(context.Background()))
	require.Nil(t, machine.Run(context.Background()))
	require.Equal(t, "ab\nab\n", out.String())
	require.Equal(t, 0, machine.StackDepth())
}

func TestRunWithoutProgram(t *testing.T) {
	err := New(nil).Run(context.Background())
	require.NotNil(t, err)
}

func TestContextCanceledBeforeRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := assemble(t, ins(op.Halt))
	machine, err := Run(ctx, p)
	require.True(t, errors.Is(err, context.Canceled))
	var runtimeErr *errors.RuntimeError
	require.True(t, errors.As(err, &runtimeErr))
	require.Equal(t, errors.E3015, runtimeErr.Code)
	require.Equal(t, int64(0), machine.Steps())
}

// cancelingObserver cancels a context once a number of steps have run.
type cancelingObserver struct {
	NoOpObserver
	cancel context.CancelFunc
	after  int
	seen   int
}

func (o *cancelingObserver) OnStep(StepEvent) bool {
	o.seen++
	if o.seen == o.after {
		o.cancel()
	}
	return true
}

func TestContextCanceledDuringRun(t *testing.T) {
	var instructions [][]int64
	for range 2000 {
		instructions = append(instructions, ins(op.Nop))
	}
	instructions = append(instructions, ins(op.Halt))
	p := assemble(t, instructions...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	observer := &cancelingObserver{cancel: cancel, after: 50}
	machine, err := Run(ctx, p, WithObserver(observer), WithContextCheckInterval(10))
	require.True(t, errors.Is(err, context.Canceled))
	require.False(t, machine.Halted())
	require.Less(t, machine.Steps(), int64(100))
}

func TestOutputWriteFailure(t *testing.T) {
	_, _, err := runSource(t, "print 1", WithOutput(failingWriter{}))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "write failed")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}
