package processor

import (
	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

// Gama records the gAMA chunk's image gamma, expressed as an integer
// scaled by 100000 per the wire format (a value of 45455 means gamma
// 1/2.2). It performs no format widening and applies no sample
// correction — gamma-aware output is left to the caller.
type Gama struct {
	Value uint32
	seen  bool
}

// NewGama constructs a fresh gAMA processor.
func NewGama() *Gama { return &Gama{} }

func (g *Gama) ID() chunk.Tag { return chunk.TagGAMA }

func (g *Gama) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	if g.seen || ctx.Length != 4 {
		return ctx.CurrentFormat, ctx.Skip()
	}
	data, err := ctx.ReadPayload()
	if err != nil {
		return ctx.CurrentFormat, err
	}
	g.Value = uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	g.seen = true
	return ctx.CurrentFormat, nil
}
