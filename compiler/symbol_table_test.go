package compiler

import (
	"testing"

	"github.com/chaos-lang/chaos/object"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestTable(t *testing.T) {
	table := NewSymbolTable()
	assert.Equal(t, table.Count(), 0)

	a := table.Declare("a", object.Int, object.NewInt(1))
	assert.Equal(t, a.Index(), 0)
	assert.Equal(t, a.Name(), "a")
	assert.Equal(t, a.Type(), object.Int)
	assert.False(t, a.IsBound())

	table.Bind(a, 131070)
	assert.True(t, a.IsBound())
	assert.Equal(t, a.Addr(), int64(131070))
	assert.Equal(t, a.Width(), 2)

	s := table.Declare("s", object.String, object.NewString("abc"))
	assert.Equal(t, s.Index(), 1)
	assert.Equal(t, s.Len(), 3)
	assert.Equal(t, s.Width(), 5)

	assert.Equal(t, table.Count(), 2)
	assert.True(t, table.IsDefined("a"))
	assert.True(t, table.IsDefined("s"))
	assert.False(t, table.IsDefined("b"))

	found, ok := table.Lookup("s")
	assert.True(t, ok)
	assert.Equal(t, found, s)
	_, ok = table.Lookup("b")
	assert.False(t, ok)
}

func TestRedeclareRebinds(t *testing.T) {
	table := NewSymbolTable()
	first := table.Declare("x", object.Int, object.NewInt(1))
	table.Declare("y", object.Bool, object.NewBool(true))
	second := table.Declare("x", object.Float, object.NewFloat(2))

	current, ok := table.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, current, second)
	assert.Equal(t, table.Symbol(0), first)
	assert.Equal(t, table.Count(), 3)
	assert.Equal(t, table.Names(), []string{"x", "y"})

	symbols := table.Symbols()
	assert.Equal(t, len(symbols), 3)
	// The returned slice is a copy
	symbols[0] = nil
	assert.Equal(t, table.Symbol(0), first)
}

func TestReset(t *testing.T) {
	table := NewSymbolTable()
	table.Declare("x", object.Int, object.NewInt(1))
	table.Reset()
	assert.Equal(t, table.Count(), 0)
	assert.False(t, table.IsDefined("x"))
	assert.Equal(t, len(table.Names()), 0)

	x := table.Declare("x", object.Bool, object.NewBool(true))
	assert.Equal(t, x.Index(), 0)
}
