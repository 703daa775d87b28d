package processor

import (
	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

// PhysUnit is pHYs's unit specifier.
type PhysUnit uint8

const (
	PhysUnitUnknown PhysUnit = 0
	PhysUnitMeter   PhysUnit = 1
)

// Phys records the pHYs chunk's pixel density.
type Phys struct {
	PixelsPerUnitX uint32
	PixelsPerUnitY uint32
	Unit           PhysUnit
	seen           bool
}

// NewPhys constructs a fresh pHYs processor.
func NewPhys() *Phys { return &Phys{} }

func (p *Phys) ID() chunk.Tag { return chunk.TagPHYS }

func (p *Phys) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	if p.seen || ctx.Length != 9 {
		return ctx.CurrentFormat, ctx.Skip()
	}
	data, err := ctx.ReadPayload()
	if err != nil {
		return ctx.CurrentFormat, err
	}
	p.PixelsPerUnitX = uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	p.PixelsPerUnitY = uint32(data[4])<<24 | uint32(data[5])<<16 | uint32(data[6])<<8 | uint32(data[7])
	p.Unit = PhysUnit(data[8])
	p.seen = true
	return ctx.CurrentFormat, nil
}
