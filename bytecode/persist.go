package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// WriteTo writes the program in the raw format: the word count and the
// code-to-heap boundary marker as little-endian int64 values, followed by the
// code words. Heap contents are not written; a loaded program starts with an
// empty heap.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	header := [2]int64{int64(len(p.words)), HeapBase}
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return 0, err
	}
	if err := binary.Write(bw, binary.LittleEndian, p.words); err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return int64(8 * (len(header) + len(p.words))), nil
}

// ReadProgram reads a program in the raw format written by WriteTo.
func ReadProgram(r io.Reader) (*Program, error) {
	var header [2]int64
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading program header: %w", err)
	}
	count, boundary := header[0], header[1]
	if boundary != HeapBase {
		return nil, fmt.Errorf("unsupported heap boundary %d (expected %d)", boundary, HeapBase)
	}
	if count < 0 || count > HeapBase {
		return nil, fmt.Errorf("invalid word count %d", count)
	}
	words := make([]int64, count)
	if err := binary.Read(r, binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("reading %d program words: %w", count, err)
	}
	p := New()
	p.words = words
	p.locations = make([]SourceLocation, count)
	return p, nil
}
