package chaos

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"

	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/config"
	"github.com/chaos-lang/chaos/dis"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/op"
	"github.com/chaos-lang/chaos/vm"
)

func TestBasicUsage(t *testing.T) {
	out, err := Eval(context.Background(), "int x = 5\nprint x")
	assert.Nil(t, err)
	assert.Equal(t, out, "5\n")
}

func TestEvalAllTypes(t *testing.T) {
	source := `
bool ok = true
int n = -42
float pi = 3.14
str s = "héllo"
print ok
print n
print pi
print s
print ~n
`
	out, err := Eval(context.Background(), source)
	assert.Nil(t, err)
	assert.Equal(t, out, "true\n-42\n3.14\nhéllo\n41\n")
}

func TestEvalWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	out, err := Eval(context.Background(), "print 1; print 2", WithOutput(&buf))
	assert.Nil(t, err)
	assert.Equal(t, out, "1\n2\n")
	assert.Equal(t, buf.String(), "1\n2\n")
}

func TestCompileThenRun(t *testing.T) {
	ctx := context.Background()
	program, err := Compile(ctx, `str greeting = "hi"`+"\nprint greeting")
	assert.Nil(t, err)

	for i := 0; i < 2; i++ {
		var buf bytes.Buffer
		assert.Nil(t, Run(ctx, program, WithOutput(&buf)))
		assert.Equal(t, buf.String(), "hi\n")
	}
}

func TestCompileError(t *testing.T) {
	_, err := Eval(context.Background(), "print y", WithFilename("main.kaos"))
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.ErrUndefinedSymbol))
	assert.Contains(t, err.Error(), "main.kaos:1:7")
}

func TestParseError(t *testing.T) {
	_, err := Compile(context.Background(), "int = 5")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestReversedStatements(t *testing.T) {
	out, err := Eval(context.Background(), "print 1\nprint 2", WithReversedStatements())
	assert.Nil(t, err)
	assert.Equal(t, out, "2\n1\n")
}

func TestConfig(t *testing.T) {
	cfg, err := config.Parse("[compiler]\nreverse_statements = true\n")
	assert.Nil(t, err)
	out, err := Eval(context.Background(), "print 1\nprint 2", WithConfig(cfg))
	assert.Nil(t, err)
	assert.Equal(t, out, "2\n1\n")

	out, err = Eval(context.Background(), "print 1\nprint 2", WithConfig(nil))
	assert.Nil(t, err)
	assert.Equal(t, out, "1\n2\n")
}

func TestCompileFiles(t *testing.T) {
	program, err := CompileFiles(context.Background(), []File{
		{Name: "a.kaos", Source: "int x = 7"},
		{Name: "b.kaos", Source: "print x"},
	})
	assert.Nil(t, err)
	var buf bytes.Buffer
	assert.Nil(t, Run(context.Background(), program, WithOutput(&buf)))
	assert.Equal(t, buf.String(), "7\n")

	_, err = CompileFiles(context.Background(), []File{
		{Name: "a.kaos", Source: "print x"},
		{Name: "b.kaos", Source: "int x = 7"},
	})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "a.kaos:1:7")
}

func TestVerifyBeforeRun(t *testing.T) {
	p := bytecode.New()
	assert.Nil(t, p.Append(int64(op.LoadImm), 99, 1))
	assert.Nil(t, p.Append(int64(op.Halt)))

	err := Run(context.Background(), p, WithVerify())
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRegister))
}

type countingObserver struct {
	steps int
}

func (o *countingObserver) Config() vm.ObserverConfig {
	return vm.ObserverConfig{StepMode: vm.StepAll}
}

func (o *countingObserver) OnStep(vm.StepEvent) bool {
	o.steps++
	return true
}

func TestWithObserver(t *testing.T) {
	obs := &countingObserver{}
	_, err := Eval(context.Background(), "print 1", WithObserver(obs))
	assert.Nil(t, err)
	// LII, LII, PRNT, HLT
	assert.Equal(t, obs.steps, 4)
}

func TestRuntimeError(t *testing.T) {
	p := bytecode.New()
	assert.Nil(t, p.Append(int64(op.LoadImm), int64(op.R1), 1))
	assert.Nil(t, p.Append(int64(op.Div), int64(op.R1), int64(op.R2)))
	assert.Nil(t, p.Append(int64(op.Halt)))

	err := Run(context.Background(), p, WithOutput(&bytes.Buffer{}))
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, errors.ErrDivisionByZero))
}

func TestProgramDisassemble(t *testing.T) {
	program, err := Compile(context.Background(), "int x = 1")
	assert.Nil(t, err)

	instructions, err := dis.Disassemble(program)
	assert.Nil(t, err)

	var buf bytes.Buffer
	dis.Print(instructions, &buf)
	disasm := buf.String()
	assert.True(t, strings.Contains(disasm, "STI"), "expected disassembly to contain STI")
	assert.Equal(t, program.Stats().InstructionCount, 5)
}

func TestStringsRoundTripAsWritten(t *testing.T) {
	out, err := Eval(context.Background(), "print \"e\u0301\"")
	assert.Nil(t, err)
	assert.Equal(t, out, "e\u0301\n")

	out, err = Eval(context.Background(), "print \"e\u0301\"", WithNormalizedStrings())
	assert.Nil(t, err)
	assert.Equal(t, out, "\u00e9\n")
}
