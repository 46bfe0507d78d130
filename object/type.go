// Package object defines the value model shared by the Chaos compiler and
// virtual machine.
//
// A value is carried through the machine as a type tag word followed by one
// or more payload words. The type tag doubles as the compiler's shape tag: it
// tells the caller which registers hold an expression's result.
package object

import "fmt"

// Type is the tag identifying the kind of a value.
type Type int64

const (
	Invalid Type = 0
	Bool    Type = 1
	Int     Type = 2
	Float   Type = 3
	String  Type = 4
)

// Valid reports whether t is one of the four value kinds.
func (t Type) Valid() bool {
	return t >= Bool && t <= String
}

// String returns the keyword used to declare a value of this type.
func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "str"
	default:
		return fmt.Sprintf("type(%d)", int64(t))
	}
}

// ParseType returns the Type for a declaration keyword such as "int".
func ParseType(keyword string) (Type, bool) {
	switch keyword {
	case "bool":
		return Bool, true
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "str", "string":
		return String, true
	default:
		return Invalid, false
	}
}

// HeaderWords is the number of fixed words at the start of every slot:
// the type tag plus the first payload word.
const HeaderWords = 2

// SlotWidth returns the number of heap words a value of type t occupies.
// The length argument is only used for strings, where it is the number of
// characters.
func SlotWidth(t Type, length int) int {
	switch t {
	case Bool, Int:
		return 2
	case Float:
		return 3
	case String:
		return HeaderWords + length
	default:
		return 0
	}
}
