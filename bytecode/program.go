package bytecode

import (
	"fmt"
	"strings"

	"github.com/chaos-lang/chaos/errors"
	"github.com/chaos-lang/chaos/object"
	"github.com/gofrs/uuid"
)

const (
	// MaxAddress is the largest address of the 16-bit code range.
	MaxAddress = 65535

	// DefaultCapacity is the total number of addressable words.
	DefaultCapacity = MaxAddress * 32

	// HeapBase is the first heap address. Code words live below it.
	HeapBase = MaxAddress * 2
)

// SymbolInfo records where a declared name was placed on the heap. It is
// kept on the Program for disassembly and for images.
type SymbolInfo struct {
	Name string      `cbor:"1,keyasint"`
	Type object.Type `cbor:"2,keyasint"`
	Addr int64       `cbor:"3,keyasint"`
	Len  int         `cbor:"4,keyasint,omitempty"`
}

// Width returns the number of heap words of the symbol's slot.
func (s SymbolInfo) Width() int {
	return object.SlotWidth(s.Type, s.Len)
}

// Contains reports whether addr falls inside the symbol's slot.
func (s SymbolInfo) Contains(addr int64) bool {
	return addr >= s.Addr && addr < s.Addr+int64(s.Width())
}

// Program is the instruction stream of one compilation unit. Code words are
// appended monotonically and heap slots are bump allocated; neither region
// ever shrinks except through Reset and Pop.
type Program struct {
	id        string
	filename  string
	source    string
	words     []int64
	locations []SourceLocation
	capacity  int
	heap      int64
	symbols   []SymbolInfo
}

// New returns an empty program with the default capacity and the heap cursor
// at HeapBase. Each program gets a unique unit ID.
func New() *Program {
	return &Program{
		id:       newUnitID(),
		capacity: DefaultCapacity,
		heap:     HeapBase,
	}
}

func newUnitID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}

// ID returns the unit ID assigned when the program was created.
func (p *Program) ID() string {
	return p.id
}

// SetSource records the filename and source text the program was compiled
// from. Both are optional and only used for diagnostics.
func (p *Program) SetSource(filename, source string) {
	p.filename = filename
	p.source = source
}

func (p *Program) Filename() string {
	return p.filename
}

func (p *Program) Source() string {
	return p.source
}

// Append writes words to the end of the code region. Either all words are
// written or, when they would reach HeapBase, none are and an error wrapping
// errors.ErrStreamOverflow is returned.
func (p *Program) Append(words ...int64) error {
	return p.Emit(SourceLocation{}, words...)
}

// Emit is Append with a source location recorded for each word.
func (p *Program) Emit(loc SourceLocation, words ...int64) error {
	if len(p.words)+len(words) > HeapBase {
		return fmt.Errorf("%w: code would grow past %d words",
			errors.ErrStreamOverflow, HeapBase)
	}
	p.words = append(p.words, words...)
	for range words {
		p.locations = append(p.locations, loc)
	}
	return nil
}

// Alloc reserves n heap words and returns the address of the first one.
func (p *Program) Alloc(n int) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("invalid allocation size %d", n)
	}
	if p.heap+int64(n) > int64(p.capacity) {
		return 0, fmt.Errorf("%w: heap cannot hold %d more words (%d in use)",
			errors.ErrStreamOverflow, n, p.HeapUsed())
	}
	addr := p.heap
	p.heap += int64(n)
	return addr, nil
}

// Pop removes and returns the last code word.
func (p *Program) Pop() (int64, bool) {
	if len(p.words) == 0 {
		return 0, false
	}
	last := len(p.words) - 1
	w := p.words[last]
	p.words = p.words[:last]
	p.locations = p.locations[:last]
	return w, true
}

// Reset discards all code, heap allocations and symbols. The unit ID and
// source are kept.
func (p *Program) Reset() {
	p.words = nil
	p.locations = nil
	p.heap = HeapBase
	p.symbols = nil
}

// Size returns the number of code words, which is also the offset the next
// appended word will be written at.
func (p *Program) Size() int {
	return len(p.words)
}

// Capacity returns the total number of addressable words.
func (p *Program) Capacity() int {
	return p.capacity
}

// Heap returns the heap cursor: the address of the next free heap word.
func (p *Program) Heap() int64 {
	return p.heap
}

// HeapUsed returns the number of heap words allocated so far.
func (p *Program) HeapUsed() int {
	return int(p.heap - HeapBase)
}

// WordAt returns the code word at the given offset.
func (p *Program) WordAt(offset int) int64 {
	return p.words[offset]
}

// Words returns a copy of the code words.
func (p *Program) Words() []int64 {
	return copyWords(p.words)
}

// LocationAt returns the source location of the word at offset, or the zero
// location if none was recorded.
func (p *Program) LocationAt(offset int) SourceLocation {
	if offset < 0 || offset >= len(p.locations) {
		return SourceLocation{}
	}
	return p.locations[offset]
}

// GetSourceLine returns the source text of the given 1-based line.
func (p *Program) GetSourceLine(line int) string {
	if line < 1 || p.source == "" {
		return ""
	}
	lines := strings.Split(p.source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// AddSymbol records a declared symbol's slot.
func (p *Program) AddSymbol(sym SymbolInfo) {
	p.symbols = append(p.symbols, sym)
}

func (p *Program) SymbolCount() int {
	return len(p.symbols)
}

func (p *Program) SymbolAt(index int) SymbolInfo {
	return p.symbols[index]
}

// SymbolForAddr returns the most recently declared symbol whose slot holds
// addr.
func (p *Program) SymbolForAddr(addr int64) (SymbolInfo, bool) {
	for i := len(p.symbols) - 1; i >= 0; i-- {
		if p.symbols[i].Contains(addr) {
			return p.symbols[i], true
		}
	}
	return SymbolInfo{}, false
}

// Stats returns size statistics for the program.
func (p *Program) Stats() Stats {
	count := 0
	for offset := 0; offset < len(p.words); {
		instr, err := p.Decode(offset)
		if err != nil {
			break
		}
		count++
		offset += instr.Width()
	}
	return Stats{
		WordCount:        len(p.words),
		InstructionCount: count,
		HeapWords:        p.HeapUsed(),
		SymbolCount:      len(p.symbols),
		SourceBytes:      len(p.source),
	}
}
