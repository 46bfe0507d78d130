package object

import (
	"strconv"
	"unicode/utf8"
)

// Value is a tagged union over the four value kinds. Only the field that
// matches Type is meaningful.
type Value struct {
	Type  Type
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func NewBool(b bool) Value {
	return Value{Type: Bool, Bool: b}
}

func NewInt(i int64) Value {
	return Value{Type: Int, Int: i}
}

func NewFloat(f float64) Value {
	return Value{Type: Float, Float: f}
}

// NewString returns a string value holding s unchanged.
func NewString(s string) Value {
	return Value{Type: String, Str: s}
}

// Len returns the number of characters in a string value and zero for every
// other kind.
func (v Value) Len() int {
	if v.Type != String {
		return 0
	}
	return utf8.RuneCountInString(v.Str)
}

// Width returns the number of heap words the value occupies.
func (v Value) Width() int {
	return SlotWidth(v.Type, v.Len())
}

// String returns the canonical text form of the value, which is also what
// the PRNT instruction writes.
func (v Value) String() string {
	switch v.Type {
	case Bool:
		return strconv.FormatBool(v.Bool)
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		ipart, frac, err := SplitFloat(v.Float)
		if err != nil {
			return strconv.FormatFloat(v.Float, 'g', -1, 64)
		}
		return FormatFixed(ipart, frac)
	case String:
		return v.Str
	default:
		return "<invalid>"
	}
}

// Equals reports whether two values have the same type and payload.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case Bool:
		return v.Bool == other.Bool
	case Int:
		return v.Int == other.Int
	case Float:
		return v.Float == other.Float
	case String:
		return v.Str == other.Str
	default:
		return true
	}
}
