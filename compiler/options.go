package compiler

import "github.com/rs/zerolog"

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the filename used in errors when a file in the program
// does not carry its own name.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithSource sets the source text used for error excerpts and recorded on the
// compiled program. By default the source of the first file is used.
func WithSource(source string) Option {
	return func(c *Compiler) {
		c.source = source
	}
}

// WithSymbols makes the compiler declare variables into the given table, so
// the caller can inspect the symbols after compiling. The table is reset at
// the start of every compilation.
func WithSymbols(symbols *SymbolTable) Option {
	return func(c *Compiler) {
		c.symbols = symbols
	}
}

// WithReversedStatements compiles the statements of each file last to first.
// This suits trees built by parsers that prepend statements as they go.
func WithReversedStatements() Option {
	return func(c *Compiler) {
		c.reversed = true
	}
}

// WithNormalizedStrings converts string literals to Unicode normalization
// form C before encoding them. Without it every code point is kept as written.
func WithNormalizedStrings() Option {
	return func(c *Compiler) {
		c.nfc = true
	}
}

// WithLogger sets the logger that receives allocation and summary events at
// debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}
