package bytecode

// Stats contains size statistics about a compiled program.
type Stats struct {
	// WordCount is the number of code words, opcodes and operands together.
	WordCount int

	// InstructionCount is the number of decodable instructions.
	InstructionCount int

	// HeapWords is the number of heap words allocated for declared values.
	HeapWords int

	// SymbolCount is the number of declarations recorded on the program.
	SymbolCount int

	// SourceBytes is the size of the source code in bytes.
	SourceBytes int
}
