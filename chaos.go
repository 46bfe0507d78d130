// Package chaos compiles and runs programs written in the Chaos language.
//
// Source text is parsed into an AST, lowered to a stream of 64-bit words and
// executed by a register virtual machine:
//
//	program, err := chaos.Compile(ctx, "int x = 5\nprint x")
//	if err != nil {
//		return err
//	}
//	err = chaos.Run(ctx, program, chaos.WithOutput(os.Stdout))
package chaos

import (
	"bytes"
	"context"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/chaos-lang/chaos/ast"
	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/compiler"
	"github.com/chaos-lang/chaos/config"
	"github.com/chaos-lang/chaos/parser"
	"github.com/chaos-lang/chaos/vm"
)

// Option configures a Chaos compilation or execution.
type Option func(*options)

type options struct {
	filename      string
	output        io.Writer
	observer      vm.Observer
	logger        zerolog.Logger
	reversed      bool
	normalize     bool
	checkInterval int
	verify        bool
}

func collectOptions(opts ...Option) *options {
	o := &options{
		logger:        zerolog.Nop(),
		checkInterval: vm.DefaultContextCheckInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) compilerOpts() []compiler.Option {
	opts := []compiler.Option{compiler.WithLogger(o.logger)}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	if o.reversed {
		opts = append(opts, compiler.WithReversedStatements())
	}
	if o.normalize {
		opts = append(opts, compiler.WithNormalizedStrings())
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{
		vm.WithLogger(o.logger),
		vm.WithContextCheckInterval(o.checkInterval),
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithOutput sets the writer that print statements write to. Run defaults to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger passed to the compiler and the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReversedStatements compiles statements last to first.
func WithReversedStatements() Option {
	return func(o *options) {
		o.reversed = true
	}
}

// WithNormalizedStrings converts string literals to Unicode normalization
// form C, so composed characters take one heap word.
func WithNormalizedStrings() Option {
	return func(o *options) {
		o.normalize = true
	}
}

// WithContextCheckInterval sets how many instructions the VM runs between
// context checks.
func WithContextCheckInterval(interval int) Option {
	return func(o *options) {
		o.checkInterval = interval
	}
}

// WithVerify makes Run check the whole instruction stream with vm.Verify
// before executing it. Useful for programs read from disk.
func WithVerify() Option {
	return func(o *options) {
		o.verify = true
	}
}

// WithConfig applies the compiler and VM settings of a loaded configuration.
// Options given after it override its values.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.reversed = cfg.Compiler.ReverseStatements
		o.normalize = cfg.Compiler.NormalizeStrings
		o.checkInterval = cfg.VM.ContextCheckInterval
	}
}

// File is one named source file of a multi-file program.
type File struct {
	Name   string
	Source string
}

// Compile parses and compiles source code into a program.
func Compile(ctx context.Context, source string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	tree, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(tree, o.compilerOpts()...)
}

// CompileFiles parses each file and compiles them in order into a single
// program. Declarations in earlier files are visible to later ones.
func CompileFiles(ctx context.Context, files []File, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	tree := &ast.Program{}
	for _, f := range files {
		file, err := parser.ParseFile(ctx, f.Source, parser.WithFilename(f.Name))
		if err != nil {
			return nil, err
		}
		tree.Files = append(tree.Files, file)
	}
	return compiler.Compile(tree, o.compilerOpts()...)
}

// Run executes a compiled program. Each call uses a fresh virtual machine.
func Run(ctx context.Context, program *bytecode.Program, opts ...Option) error {
	o := collectOptions(opts...)
	if o.verify {
		if err := vm.Verify(program); err != nil {
			return err
		}
	}
	_, err := vm.Run(ctx, program, o.vmOpts()...)
	return err
}

// Eval compiles and runs source code and returns everything it printed. When
// WithOutput is given the output is written there as well.
func Eval(ctx context.Context, source string, opts ...Option) (string, error) {
	program, err := Compile(ctx, source, opts...)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	o := collectOptions(opts...)
	var out io.Writer = &buf
	if o.output != nil {
		out = io.MultiWriter(&buf, o.output)
	}
	err = Run(ctx, program, append(slices.Clone(opts), WithOutput(out))...)
	return buf.String(), err
}
