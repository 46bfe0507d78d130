// Package compiler lowers a Chaos abstract syntax tree (AST) into a flat
// stream of 64-bit words that the virtual machine executes.
//
// # Shapes
//
// Every expression leaves its result in registers, and compiling it yields
// the value's type tag, which tells the caller where the result lives:
//
//   - bool and int: R0 holds the tag, R1 the value
//   - float: R0 holds the tag, R1 the integer part, R2 the scaled fraction
//   - str: R0 holds the tag, R1 the length, and the characters sit on the
//     auxiliary stack with the first character on top
//
// R3 is scratch space for operators.
//
// # Heap Slots
//
// A declaration copies the registers into a slot bump-allocated from the
// program's heap: the tag, then the payload words, then one word per
// character for strings. Slots are never reclaimed. Redeclaring a name
// allocates a new slot and rebinds the name to it.
package compiler

import (
	"strings"

	"github.com/chaos-lang/chaos/ast"
	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/object"
	"github.com/chaos-lang/chaos/op"
	"github.com/rs/zerolog"
)

// Compiler is used to compile Chaos AST into a bytecode.Program.
type Compiler struct {
	// The program being compiled into
	program *bytecode.Program

	symbols *SymbolTable

	// The file whose statements are being compiled
	file *ast.File

	// Set on a compilation error that happens while emitting
	failure error

	filename string
	source   string
	reversed bool
	nfc      bool
	logger   zerolog.Logger

	// Current AST node being compiled (used for source map tracking)
	currentNode ast.Node
}

// Compile compiles the given program and returns the instruction stream.
// This is shorthand for creating a Compiler and calling its Compile method.
func Compile(program *ast.Program, options ...Option) (*bytecode.Program, error) {
	return New(options...).Compile(program)
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{logger: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	if c.symbols == nil {
		c.symbols = NewSymbolTable()
	}
	return c
}

// SymbolTable returns the table the compiler declares variables into.
func (c *Compiler) SymbolTable() *SymbolTable {
	return c.symbols
}

// Compile compiles every statement of every file, in order, and terminates
// the stream with HLT. Each call starts from an empty symbol table, since
// symbol addresses belong to the program being built. On failure no program
// is returned and the table is left empty.
func (c *Compiler) Compile(program *ast.Program) (*bytecode.Program, error) {
	c.symbols.Reset()
	result, err := c.compile(program)
	if err != nil {
		c.symbols.Reset()
		c.program = nil
		return nil, err
	}
	return result, nil
}

func (c *Compiler) compile(program *ast.Program) (*bytecode.Program, error) {
	if program == nil {
		return nil, errors.NewCompileError(errors.ErrUnsupportedConstruct, "nothing to compile")
	}
	c.program = bytecode.New()
	c.failure = nil
	c.currentNode = nil
	c.program.SetSource(c.unitFilename(program), c.unitSource(program))

	for _, file := range program.Files {
		if err := c.compileFile(file); err != nil {
			return nil, err
		}
	}
	c.file = nil
	c.currentNode = nil
	c.emit(op.Halt)
	if c.failure != nil {
		return nil, c.failure
	}
	c.logger.Debug().
		Str("unit", c.program.ID()).
		Int("words", c.program.Size()).
		Int("heap_words", c.program.HeapUsed()).
		Int("symbols", c.program.SymbolCount()).
		Msg("compiled program")
	return c.program, nil
}

func (c *Compiler) unitFilename(program *ast.Program) string {
	if c.filename != "" {
		return c.filename
	}
	if len(program.Files) > 0 {
		return program.Files[0].Name
	}
	return ""
}

func (c *Compiler) unitSource(program *ast.Program) string {
	if c.source != "" {
		return c.source
	}
	if len(program.Files) > 0 {
		return program.Files[0].Source
	}
	return ""
}

func (c *Compiler) compileFile(file *ast.File) error {
	if file == nil {
		return nil
	}
	c.file = file
	count := len(file.Stmts)
	for i := range count {
		stmt := file.Stmts[i]
		if c.reversed {
			stmt = file.Stmts[count-1-i]
		}
		if err := c.compileStatement(stmt); err != nil {
			return err
		}
		// Emit failures are recorded rather than returned
		if c.failure != nil {
			return c.failure
		}
	}
	return nil
}

func (c *Compiler) compileStatement(node ast.Stmt) error {
	c.currentNode = node
	switch node := node.(type) {
	case *ast.Print:
		return c.compilePrint(node)
	case *ast.Var:
		return c.compileVar(node)
	case *ast.BadStmt:
		return c.errorAt(node, errors.ErrUnsupportedConstruct, "syntax error in statement")
	case nil:
		return errors.NewCompileError(errors.ErrUnsupportedConstruct, "missing statement")
	default:
		return c.errorAt(node, errors.ErrUnsupportedConstruct,
			"unsupported statement type %T", node)
	}
}

// compileExpr emits the code that loads the value of node into registers
// and returns the value, which is known at compile time. The value's type is
// the shape of the result.
func (c *Compiler) compileExpr(node ast.Expr) (object.Value, error) {
	c.currentNode = node
	switch node := node.(type) {
	case *ast.Bool:
		return c.compileBool(node), nil
	case *ast.Int:
		return c.compileInt(node), nil
	case *ast.Float:
		return c.compileFloat(node)
	case *ast.String:
		return c.compileString(node), nil
	case *ast.Ident:
		return c.compileIdent(node)
	case *ast.Prefix:
		return c.compilePrefix(node)
	case *ast.BadExpr:
		return object.Value{}, c.errorAt(node, errors.ErrUnsupportedConstruct,
			"syntax error in expression")
	case nil:
		return object.Value{}, errors.NewCompileError(errors.ErrUnsupportedConstruct,
			"missing expression")
	default:
		return object.Value{}, c.errorAt(node, errors.ErrUnsupportedConstruct,
			"unsupported expression type %T", node)
	}
}

func (c *Compiler) compilePrint(node *ast.Print) error {
	if _, err := c.compileExpr(node.Value); err != nil {
		return err
	}
	c.currentNode = node
	c.emit(op.Print)
	return nil
}

func (c *Compiler) compileVar(node *ast.Var) error {
	name := node.Name.Name
	declared, ok := object.ParseType(node.Type)
	if !ok {
		return c.errorAt(node, errors.ErrUnsupportedConstruct, "unknown type %q", node.Type)
	}
	value, err := c.compileExpr(node.Value)
	if err != nil {
		return err
	}
	c.currentNode = node
	if value.Type != declared {
		return c.errorAt(node.Value, errors.ErrTypeMismatch,
			"cannot use %s value as %s in declaration of %q", value.Type, declared, name)
	}
	width := value.Width()
	addr, err := c.program.Alloc(width)
	if err != nil {
		return c.errorAt(node, err, "cannot allocate %d heap words for %q", width, name)
	}
	sym := c.symbols.Declare(name, declared, value)
	c.symbols.Bind(sym, addr)
	c.program.AddSymbol(bytecode.SymbolInfo{
		Name: name,
		Type: declared,
		Addr: addr,
		Len:  value.Len(),
	})

	c.emitStore(addr, op.R0)
	c.emitStore(addr+1, op.R1)
	switch declared {
	case object.Float:
		c.emitStore(addr+2, op.R2)
	case object.String:
		// The first character is on top of the stack
		for i := range value.Len() {
			c.emitReg(op.Pop, op.R0)
			c.emitStore(addr+object.HeaderWords+int64(i), op.R0)
		}
	}
	c.logger.Debug().
		Str("name", name).
		Stringer("type", declared).
		Int64("addr", addr).
		Int("width", width).
		Msg("allocated symbol")
	return nil
}

func (c *Compiler) compileBool(node *ast.Bool) object.Value {
	c.emitLoadImm(op.R0, int64(object.Bool))
	c.emitLoadImm(op.R1, boolWord(node.Value))
	return object.NewBool(node.Value)
}

func (c *Compiler) compileInt(node *ast.Int) object.Value {
	c.emitLoadImm(op.R0, int64(object.Int))
	c.emitLoadImm(op.R1, node.Value)
	return object.NewInt(node.Value)
}

func (c *Compiler) compileFloat(node *ast.Float) (object.Value, error) {
	ipart, frac, err := object.SplitFloat(node.Value)
	if err != nil {
		return object.Value{}, c.errorAt(node, errors.ErrUnsupportedConstruct,
			"float literal %s cannot be represented (%s)", node.Literal, err)
	}
	c.emitLoadImm(op.R0, int64(object.Float))
	c.emitLoadImm(op.R1, ipart)
	c.emitLoadImm(op.R2, frac)
	return object.NewFloat(node.Value), nil
}

func (c *Compiler) compileString(node *ast.String) object.Value {
	text := node.Value
	if c.nfc {
		text = object.Normalize(text)
	}
	value := object.NewString(text)
	chars := object.EncodeString(value.Str)
	// Push in reverse so the first character ends up on top
	for i := len(chars) - 1; i >= 0; i-- {
		c.emitLoadImm(op.R0, chars[i])
		c.emitReg(op.Push, op.R0)
	}
	c.emitLoadImm(op.R0, int64(object.String))
	c.emitLoadImm(op.R1, int64(len(chars)))
	return value
}

func (c *Compiler) compileIdent(node *ast.Ident) (object.Value, error) {
	sym, ok := c.symbols.Lookup(node.Name)
	if !ok || !sym.IsBound() {
		return object.Value{}, c.undefinedSymbolError(node)
	}
	addr := sym.Addr()
	c.emitLoad(op.R0, addr)
	c.emitLoad(op.R1, addr+1)
	switch sym.Type() {
	case object.Float:
		c.emitLoad(op.R2, addr+2)
	case object.String:
		first := addr + object.HeaderWords
		for a := first + int64(sym.Len()) - 1; a >= first; a-- {
			c.emitLoad(op.R2, a)
			c.emitReg(op.Push, op.R2)
		}
	}
	return sym.Value(), nil
}

// prefixOperandTypes lists the value types each prefix operator accepts.
var prefixOperandTypes = map[string][]object.Type{
	"+": {object.Int, object.Float},
	"-": {object.Int, object.Float},
	"!": {object.Bool, object.Int},
	"~": {object.Int},
}

func (c *Compiler) compilePrefix(node *ast.Prefix) (object.Value, error) {
	allowed, ok := prefixOperandTypes[node.Op]
	if !ok {
		return object.Value{}, c.errorAt(node, errors.ErrUnsupportedConstruct,
			"unknown operator %q", node.Op)
	}
	value, err := c.compileExpr(node.X)
	if err != nil {
		return object.Value{}, err
	}
	c.currentNode = node
	if !containsType(allowed, value.Type) {
		return object.Value{}, c.errorAt(node, errors.ErrUnsupportedConstruct,
			"operator %q is not defined for %s values", node.Op, value.Type)
	}
	switch node.Op {
	case "+":
		c.emitLoadImm(op.R3, 1)
		c.emitRegs(op.Mul, op.R1, op.R3)
	case "-":
		c.emitLoadImm(op.R3, -1)
		c.emitRegs(op.Mul, op.R1, op.R3)
		if value.Type == object.Float {
			c.emitRegs(op.Mul, op.R2, op.R3)
		}
	case "!":
		c.emitReg(op.LogicalNot, op.R1)
	case "~":
		c.emitReg(op.BitwiseNot, op.R1)
	}
	return foldPrefix(node.Op, value), nil
}

// foldPrefix applies a prefix operator to a compile-time value, matching
// what the emitted instructions do at run time.
func foldPrefix(operator string, v object.Value) object.Value {
	switch operator {
	case "-":
		switch v.Type {
		case object.Int:
			return object.NewInt(-v.Int)
		case object.Float:
			return object.NewFloat(-v.Float)
		}
	case "!":
		switch v.Type {
		case object.Bool:
			return object.NewBool(!v.Bool)
		case object.Int:
			return object.NewInt(boolWord(v.Int == 0))
		}
	case "~":
		return object.NewInt(^v.Int)
	}
	return v
}

func containsType(types []object.Type, t object.Type) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// emit appends one instruction to the program and returns its offset. A
// stream overflow is recorded in c.failure.
func (c *Compiler) emit(opcode op.Code, operands ...int64) int {
	inst := makeInstruction(opcode, operands...)
	pos := c.program.Size()
	if err := c.program.Emit(c.getCurrentLocation(), inst...); err != nil && c.failure == nil {
		c.failure = c.errorAt(c.currentNode, err,
			"program exceeds %d code words", bytecode.HeapBase)
	}
	return pos
}

func (c *Compiler) emitLoadImm(r op.Register, imm int64) {
	c.emit(op.LoadImm, int64(r), imm)
}

func (c *Compiler) emitLoad(r op.Register, addr int64) {
	c.emit(op.LoadAddr, int64(r), addr)
}

func (c *Compiler) emitStore(addr int64, r op.Register) {
	c.emit(op.StoreAddr, addr, int64(r))
}

func (c *Compiler) emitReg(opcode op.Code, r op.Register) {
	c.emit(opcode, int64(r))
}

func (c *Compiler) emitRegs(opcode op.Code, dst, src op.Register) {
	c.emit(opcode, int64(dst), int64(src))
}

// getCurrentLocation returns the source location of the current AST node
// being compiled.
func (c *Compiler) getCurrentLocation() bytecode.SourceLocation {
	if c.currentNode == nil {
		return bytecode.SourceLocation{}
	}
	pos := c.currentNode.Pos()
	return bytecode.SourceLocation{
		Line:   pos.LineNumber(),
		Column: pos.ColumnNumber(),
	}
}

func makeInstruction(opcode op.Code, operands ...int64) []int64 {
	opInfo := op.GetInfo(opcode)
	if len(operands) != opInfo.OperandCount {
		panic("compile error: wrong operand count")
	}
	instruction := make([]int64, 1+opInfo.OperandCount)
	instruction[0] = int64(opcode)
	copy(instruction[1:], operands)
	return instruction
}

// errorAt creates a CompileError wrapping err and located at node.
func (c *Compiler) errorAt(node ast.Node, err error, format string, args ...any) *errors.CompileError {
	e := errors.NewCompileError(err, format, args...)
	e.Filename = c.currentFilename()
	if node == nil {
		return e
	}
	pos := node.Pos()
	end := node.End()
	e.Line = pos.LineNumber()
	e.Column = pos.ColumnNumber()
	// EndColumn is the 1-based column of the last character and is only
	// meaningful if the end is on the same line
	if end.Line == pos.Line && end.Column > pos.Column+1 {
		e.EndColumn = end.Column
	}
	e.SourceLine = c.getSourceLine(pos.Line)
	return e
}

// undefinedSymbolError creates an error for undefined variables with
// "Did you mean?" suggestions.
func (c *Compiler) undefinedSymbolError(node *ast.Ident) error {
	e := c.errorAt(node, errors.ErrUndefinedSymbol, "undefined variable %q", node.Name)
	e.Suggestions = errors.SuggestSimilar(node.Name, c.symbols.Names())
	return e
}

func (c *Compiler) currentFilename() string {
	if c.file != nil && c.file.Name != "" {
		return c.file.Name
	}
	if c.filename != "" {
		return c.filename
	}
	return "unknown"
}

// getSourceLine retrieves a specific line from the source code.
// lineNum is 0-indexed.
func (c *Compiler) getSourceLine(lineNum int) string {
	source := ""
	if c.file != nil {
		source = c.file.Source
	}
	if source == "" {
		source = c.source
	}
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 0 || lineNum >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[lineNum], "\r")
}

