package compiler

import (
	"github.com/chaos-lang/chaos/object"
)

// Symbol is a declared variable: its declared type, the value it was
// initialized with and the heap slot it was placed in.
type Symbol struct {
	name  string
	typ   object.Type
	value object.Value
	index int
	addr  int64
	bound bool
}

// Name returns the symbol's name.
func (s *Symbol) Name() string {
	return s.name
}

// Type returns the symbol's declared type.
func (s *Symbol) Type() object.Type {
	return s.typ
}

// Value returns the value the symbol was initialized with, as far as it is
// known at compile time.
func (s *Symbol) Value() object.Value {
	return s.value
}

// Index returns the symbol's position in declaration order.
func (s *Symbol) Index() int {
	return s.index
}

// Addr returns the heap address of the symbol's slot. It is only meaningful
// once the symbol is bound.
func (s *Symbol) Addr() int64 {
	return s.addr
}

func (s *Symbol) IsBound() bool {
	return s.bound
}

// Len returns the number of characters of a string symbol.
func (s *Symbol) Len() int {
	return s.value.Len()
}

// Width returns the number of heap words of the symbol's slot.
func (s *Symbol) Width() int {
	return object.SlotWidth(s.typ, s.Len())
}

// SymbolTable tracks the variables declared in a program. There is a single
// flat global scope. Declaring a name that already exists rebinds the name to
// the new symbol; the old symbol and its heap slot are kept.
type SymbolTable struct {
	symbolsByName map[string]*Symbol
	symbols       []*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbolsByName: map[string]*Symbol{}}
}

// Declare adds a new symbol. The symbol has no address until it is passed
// to Bind.
func (t *SymbolTable) Declare(name string, typ object.Type, value object.Value) *Symbol {
	s := &Symbol{
		name:  name,
		typ:   typ,
		value: value,
		index: len(t.symbols),
	}
	t.symbols = append(t.symbols, s)
	t.symbolsByName[name] = s
	return s
}

// Reset removes every symbol from the table.
func (t *SymbolTable) Reset() {
	clear(t.symbolsByName)
	t.symbols = nil
}

// Bind assigns the heap address of the symbol's slot.
func (t *SymbolTable) Bind(s *Symbol, addr int64) {
	s.addr = addr
	s.bound = true
}

// Lookup returns the symbol currently bound to name.
func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.symbolsByName[name]
	return s, ok
}

// IsDefined returns true if name has been declared.
func (t *SymbolTable) IsDefined(name string) bool {
	_, ok := t.symbolsByName[name]
	return ok
}

// Names returns each declared name once, in the order the names were first
// declared. This is useful for generating "Did you mean?" suggestions.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.symbolsByName))
	seen := make(map[string]bool, len(t.symbolsByName))
	for _, s := range t.symbols {
		if seen[s.name] {
			continue
		}
		seen[s.name] = true
		names = append(names, s.name)
	}
	return names
}

// Symbols returns every declared symbol in declaration order, including
// symbols whose name has since been redeclared.
func (t *SymbolTable) Symbols() []*Symbol {
	result := make([]*Symbol, len(t.symbols))
	copy(result, t.symbols)
	return result
}

// Count returns the number of symbols declared in this table.
func (t *SymbolTable) Count() int {
	return len(t.symbols)
}

// Symbol returns the Symbol declared at the specified index.
func (t *SymbolTable) Symbol(index int) *Symbol {
	return t.symbols[index]
}
