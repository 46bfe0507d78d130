package errors

// ErrorCode identifies a class of failure. Codes are grouped by the stage of
// the pipeline that raises them:
//   - E1xxx: Parse errors
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1006 ErrorCode = "E1006" // Expected identifier
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Invalid escape sequence

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Undefined variable
	E2011 ErrorCode = "E2011" // Unsupported construct
	E2012 ErrorCode = "E2012" // Instruction stream overflow
	E2013 ErrorCode = "E2013" // Declared type does not match value

	// Runtime errors (E3xxx)
	E3002 ErrorCode = "E3002" // Division by zero
	E3003 ErrorCode = "E3003" // Heap address out of bounds
	E3006 ErrorCode = "E3006" // Stack overflow
	E3007 ErrorCode = "E3007" // Invalid operation
	E3011 ErrorCode = "E3011" // Invalid opcode
	E3012 ErrorCode = "E3012" // Invalid register
	E3013 ErrorCode = "E3013" // Stack underflow
	E3014 ErrorCode = "E3014" // Program counter out of bounds
	E3015 ErrorCode = "E3015" // Execution canceled
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1006: "expected identifier",
	E1008: "invalid number literal",
	E1009: "maximum nesting depth exceeded",
	E1010: "invalid escape sequence",

	E2001: "undefined variable",
	E2011: "unsupported construct",
	E2012: "instruction stream overflow",
	E2013: "type mismatch",

	E3002: "division by zero",
	E3003: "heap address out of bounds",
	E3006: "stack overflow",
	E3007: "invalid operation",
	E3011: "invalid opcode",
	E3012: "invalid register",
	E3013: "stack underflow",
	E3014: "program counter out of bounds",
	E3015: "execution canceled",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

func (c ErrorCode) String() string {
	return string(c)
}

// Category returns "parse", "compile" or "runtime" based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
