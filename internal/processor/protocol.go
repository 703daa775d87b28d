// Package processor implements the pluggable chunk/palette/row processor
// protocol: an extension point that can widen the destination pixel format
// and rewrite palette or row bytes in response to auxiliary chunks.
package processor

import (
	"encoding/binary"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
	"github.com/gopng/decode/internal/scratch"
	"github.com/gopng/decode/internal/source"
)

// Processor is the minimum every processor implements: the chunk tag it
// wants to be offered. The three hooks below are each optional — a
// processor implements whichever of ChunkProcessor, PaletteProcessor, and
// RowProcessor apply to it, and the dispatcher type-asserts for each.
type Processor interface {
	ID() chunk.Tag
}

// ChunkProcessor is offered a chunk whose type matches ID(). It may read
// the chunk's payload and trailing CRC (ChunkContext.ReadPayload) or skip
// it (ChunkContext.Skip), and may return a wider pixel format.
type ChunkProcessor interface {
	Processor
	ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error)
}

// PaletteProcessor runs exactly once, after PLTE's entries have been
// copied into the destination palette (widened to RGBA32), before any row
// hook runs.
type PaletteProcessor interface {
	Processor
	ProcessPalette(ctx *PaletteContext) error
}

// RowProcessor runs once per fully-spread destination row.
type RowProcessor interface {
	Processor
	ProcessRow(ctx *RowContext) (pixfmt.Tag, error)
}

// ChunkContext is passed to ProcessChunk.
type ChunkContext struct {
	Source        source.Source
	Scratch       scratch.Allocator
	Header        chunk.IHDR
	Tag           chunk.Tag
	Length        uint32
	CurrentFormat pixfmt.Tag

	// PaletteEntries is the number of entries the PLTE chunk collected so
	// far actually carries (0 if none has been seen yet), not the maximum
	// 2^bit_depth a palette could hold. Chunks whose validity is bounded
	// by "the palette" (tRNS on indexed images) must check against this,
	// per spec.md §3/§4.6.
	PaletteEntries int
}

// ReadPayload borrows the chunk's payload and verifies its trailing CRC,
// returning the payload bytes (valid only until the next Source call).
func (c *ChunkContext) ReadPayload() ([]byte, error) {
	data, err := c.Source.Borrow(int(c.Length))
	if err != nil {
		return nil, err
	}
	crcCalc := chunk.NewCRC()
	crcCalc.Write([]byte(c.Tag.String()))
	crcCalc.Write(data)
	if err := chunk.VerifyTrailer(c.Source, crcCalc.Sum32()); err != nil {
		return nil, err
	}
	return data, nil
}

// Skip advances past the chunk's payload and CRC without reading either.
func (c *ChunkContext) Skip() error {
	return c.Source.SeekBy(int64(c.Length) + int64(chunk.CRCSize))
}

// PaletteContext is passed to ProcessPalette.
type PaletteContext struct {
	Header  chunk.IHDR
	Palette []pixfmt.RGBA32
}

// RowContext is passed to ProcessRow.
type RowContext struct {
	Header  chunk.IHDR
	Format  pixfmt.Tag
	Palette []pixfmt.RGBA32
	Width   int

	// Row is the destination row's bytes at Format's pixel stride.
	// Processors rewrite it in place.
	Row []byte

	// Endian is the byte order of any 16-bit samples currently in Row.
	// For the non-interlaced path the single spread into the final row
	// already normalized to native order, so this is
	// binary.NativeEndian. For Adam7, row processors run on the pass
	// row before the second spread does that normalization, so this is
	// binary.BigEndian (the wire order) until the pass row is scattered
	// into the final image.
	Endian binary.ByteOrder
}
