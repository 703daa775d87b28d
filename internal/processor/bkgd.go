package processor

import (
	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

// Bkgd records the bKGD chunk's default background color. Its shape
// depends on the image's color type, so only the fields matching that
// color type are meaningful:
//   - indexed: PaletteIndex
//   - grayscale / grayscale-alpha: Gray
//   - RGB / RGBA: Red, Green, Blue
type Bkgd struct {
	PaletteIndex uint8
	Gray         uint16
	Red          uint16
	Green        uint16
	Blue         uint16
	seen         bool
}

// NewBkgd constructs a fresh bKGD processor.
func NewBkgd() *Bkgd { return &Bkgd{} }

func (b *Bkgd) ID() chunk.Tag { return chunk.TagBKGD }

func (b *Bkgd) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	if b.seen {
		return ctx.CurrentFormat, ctx.Skip()
	}

	switch ctx.Header.ColorType {
	case chunk.ColorIndexed:
		if ctx.Length != 1 {
			return ctx.CurrentFormat, ctx.Skip()
		}
		data, err := ctx.ReadPayload()
		if err != nil {
			return ctx.CurrentFormat, err
		}
		b.PaletteIndex = data[0]

	case chunk.ColorGrayscale, chunk.ColorGrayscaleAlpha:
		if ctx.Length != 2 {
			return ctx.CurrentFormat, ctx.Skip()
		}
		data, err := ctx.ReadPayload()
		if err != nil {
			return ctx.CurrentFormat, err
		}
		b.Gray = uint16(data[0])<<8 | uint16(data[1])

	case chunk.ColorRGB, chunk.ColorRGBA:
		if ctx.Length != 6 {
			return ctx.CurrentFormat, ctx.Skip()
		}
		data, err := ctx.ReadPayload()
		if err != nil {
			return ctx.CurrentFormat, err
		}
		b.Red = uint16(data[0])<<8 | uint16(data[1])
		b.Green = uint16(data[2])<<8 | uint16(data[3])
		b.Blue = uint16(data[4])<<8 | uint16(data[5])

	default:
		return ctx.CurrentFormat, ctx.Skip()
	}

	b.seen = true
	return ctx.CurrentFormat, nil
}
