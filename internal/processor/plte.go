package processor

import (
	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

// Plte is the built-in palette-expansion processor for the PLTE chunk. It
// widens an indexed destination format to RGBA32 and, per row, expands each
// index byte into the four RGBA bytes it names.
//
// The chunk hook is offered the PLTE tag only as a widening announcement —
// the orchestrator parses and verifies PLTE's own payload directly (its
// layout, packed RGB triples with an implied entry count, is fixed and not
// an extension point), and calls ProcessChunk afterward with the payload
// already consumed. Plte never reads or skips here.
type Plte struct{}

// NewPlte constructs a fresh PLTE processor.
func NewPlte() *Plte { return &Plte{} }

func (p *Plte) ID() chunk.Tag { return chunk.TagPLTE }

func (p *Plte) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	if ctx.CurrentFormat.IsIndexed() {
		return pixfmt.RGBA32, nil
	}
	return ctx.CurrentFormat, nil
}

func (p *Plte) ProcessRow(ctx *RowContext) (pixfmt.Tag, error) {
	if ctx.Header.ColorType != chunk.ColorIndexed || ctx.Format != pixfmt.RGBA32 || len(ctx.Palette) == 0 {
		return ctx.Format, nil
	}
	row := ctx.Row
	stride := pixfmt.RGBA32.Stride()
	for off := 0; off+stride <= len(row); off += stride {
		idx := int(row[off])
		if idx >= len(ctx.Palette) {
			idx = len(ctx.Palette) - 1
		}
		entry := ctx.Palette[idx]
		row[off] = entry.R
		row[off+1] = entry.G
		row[off+2] = entry.B
		row[off+3] = entry.A
	}
	return ctx.Format, nil
}
