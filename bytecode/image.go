package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const (
	imageFormat  = "chaos-image"
	imageVersion = 1
)

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

// image is the serialized form of a Program.
type image struct {
	Format    string           `cbor:"1,keyasint"`
	Version   int              `cbor:"2,keyasint"`
	ID        string           `cbor:"3,keyasint"`
	Filename  string           `cbor:"4,keyasint,omitempty"`
	Source    string           `cbor:"5,keyasint,omitempty"`
	Words     []int64          `cbor:"6,keyasint"`
	Heap      int64            `cbor:"7,keyasint"`
	Locations []SourceLocation `cbor:"8,keyasint,omitempty"`
	Symbols   []SymbolInfo     `cbor:"9,keyasint,omitempty"`
}

// MarshalImage serializes the program, including its symbol table snapshot
// and source locations, to canonical CBOR.
func MarshalImage(p *Program) ([]byte, error) {
	return imageEncMode.Marshal(image{
		Format:    imageFormat,
		Version:   imageVersion,
		ID:        p.id,
		Filename:  p.filename,
		Source:    p.source,
		Words:     p.words,
		Heap:      p.heap,
		Locations: p.locations,
		Symbols:   p.symbols,
	})
}

// UnmarshalImage restores a program serialized by MarshalImage.
func UnmarshalImage(data []byte) (*Program, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal image: %w", err)
	}
	if img.Format != imageFormat {
		return nil, fmt.Errorf("bytecode: not a program image (format %q)", img.Format)
	}
	if img.Version != imageVersion {
		return nil, fmt.Errorf("bytecode: unsupported image version %d", img.Version)
	}
	if len(img.Words) > HeapBase {
		return nil, fmt.Errorf("bytecode: image has %d code words, limit is %d", len(img.Words), HeapBase)
	}
	if img.Heap < HeapBase || img.Heap > DefaultCapacity {
		return nil, fmt.Errorf("bytecode: image heap cursor %d out of range", img.Heap)
	}
	locations := img.Locations
	if len(locations) != len(img.Words) {
		locations = make([]SourceLocation, len(img.Words))
	}
	return &Program{
		id:        img.ID,
		filename:  img.Filename,
		source:    img.Source,
		words:     copyWords(img.Words),
		locations: copyLocations(locations),
		capacity:  DefaultCapacity,
		heap:      img.Heap,
		symbols:   copySymbols(img.Symbols),
	}, nil
}
