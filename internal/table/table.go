// Package table renders aligned text tables for terminal output.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripAnsi removes terminal color escapes from s.
func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// visibleWidth is the number of characters s occupies on screen.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// Table collects a header and rows and writes them with box borders.
type Table struct {
	w               io.Writer
	header          []string
	rows            [][]string
	alignments      []Alignment
	headerAlignment []Alignment
}

func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithColumnAlignment(alignments []Alignment) *Table {
	t.alignments = alignments
	return t
}

func (t *Table) WithHeaderAlignment(alignments []Alignment) *Table {
	t.headerAlignment = alignments
	return t
}

func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = rows
	return t
}

func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

func (t *Table) columnCount() int {
	n := len(t.header)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func (t *Table) widths(n int) []int {
	widths := make([]int, n)
	measure := func(row []string) {
		for i, cell := range row {
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

// Render writes the table. Nothing is written when the table has no columns.
func (t *Table) Render() {
	n := t.columnCount()
	if n == 0 {
		return
	}
	widths := t.widths(n)
	var b strings.Builder
	border := separator(widths)
	b.WriteString(border)
	if len(t.header) > 0 {
		writeRow(&b, t.header, widths, t.headerAlignment)
		b.WriteString(border)
	}
	for _, row := range t.rows {
		writeRow(&b, row, widths, t.alignments)
	}
	if len(t.rows) > 0 {
		b.WriteString(border)
	}
	fmt.Fprint(t.w, b.String())
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func writeRow(b *strings.Builder, row []string, widths []int, alignments []Alignment) {
	b.WriteByte('|')
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		align := AlignLeft
		if i < len(alignments) {
			align = alignments[i]
		}
		b.WriteByte(' ')
		b.WriteString(pad(cell, w, align))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
}

func pad(s string, width int, align Alignment) string {
	gap := width - visibleWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
