// Package bytecode provides the instruction stream produced by the Chaos
// compiler and consumed by the virtual machine.
//
// A [Program] is a flat array of 64-bit words with a split address space.
// Code occupies addresses [0, HeapBase) and grows through [Program.Append].
// Heap slots start at HeapBase and are handed out by [Program.Alloc], a bump
// allocator whose cursor only ever moves forward:
//
//	0            size           HeapBase         heap          capacity
//	| code words |  (unused)    | slot | slot ... |  (unused)  |
//
// Each instruction is an opcode word followed by a fixed number of operand
// words. [Decode] turns the words at an offset back into an [Instruction],
// and is shared by the VM, the verifier and the disassembler.
//
// # Persistence
//
// Programs can be saved in two forms:
//
//   - The raw format written by [Program.WriteTo]: little-endian int64 word
//     count, the code-to-heap boundary marker, then the code words.
//   - An image ([MarshalImage]) encoded as canonical CBOR, which also carries
//     the unit ID, source locations and a snapshot of the symbol table.
//
// Example:
//
//	prog := bytecode.New()
//	if err := prog.Append(int64(op.LoadImm), int64(op.R0), 2); err != nil {
//	    return err
//	}
//	addr, err := prog.Alloc(2)
package bytecode
