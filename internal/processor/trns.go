package processor

import (
	"encoding/binary"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

type trnsKind int

const (
	trnsNone trnsKind = iota
	trnsGray
	trnsRGB
	trnsIndexed
)

// Trns is the built-in transparency processor for the tRNS chunk. It
// widens grayscale/RGB destination formats to carry an alpha channel, and
// for indexed images fills the destination palette's alpha from the
// chunk's per-entry alpha table.
type Trns struct {
	kind    trnsKind
	gray    uint16
	rgb     [3]uint16
	palette []byte // per-palette-entry alpha, indexed case only
	seen    bool
}

// NewTrns constructs a fresh tRNS processor.
func NewTrns() *Trns { return &Trns{} }

func (t *Trns) ID() chunk.Tag { return chunk.TagTRNS }

func (t *Trns) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	if t.seen {
		// A structurally-impossible second tRNS; ignore it rather than
		// error, matching PNG's tolerance for chunks it doesn't expect.
		if err := ctx.Skip(); err != nil {
			return ctx.CurrentFormat, err
		}
		return ctx.CurrentFormat, nil
	}

	switch ctx.Header.ColorType {
	case chunk.ColorGrayscale:
		if ctx.Length != 2 {
			return ctx.CurrentFormat, ctx.Skip()
		}
		data, err := ctx.ReadPayload()
		if err != nil {
			return ctx.CurrentFormat, err
		}
		t.kind = trnsGray
		t.gray = binary.BigEndian.Uint16(data)
		t.seen = true
		if ctx.Header.BitDepth == 16 {
			return pixfmt.GrayAlpha16, nil
		}
		return pixfmt.GrayAlpha8, nil

	case chunk.ColorIndexed:
		if int(ctx.Length) > ctx.PaletteEntries {
			return ctx.CurrentFormat, ctx.Skip()
		}
		data, err := ctx.ReadPayload()
		if err != nil {
			return ctx.CurrentFormat, err
		}
		buf, err := ctx.Scratch.Alloc(len(data))
		if err != nil {
			return ctx.CurrentFormat, err
		}
		copy(buf, data)
		t.kind = trnsIndexed
		t.palette = buf
		t.seen = true
		return ctx.CurrentFormat, nil

	case chunk.ColorRGB:
		if ctx.Length != 6 {
			return ctx.CurrentFormat, ctx.Skip()
		}
		data, err := ctx.ReadPayload()
		if err != nil {
			return ctx.CurrentFormat, err
		}
		t.kind = trnsRGB
		t.rgb[0] = binary.BigEndian.Uint16(data[0:2])
		t.rgb[1] = binary.BigEndian.Uint16(data[2:4])
		t.rgb[2] = binary.BigEndian.Uint16(data[4:6])
		t.seen = true
		if ctx.Header.BitDepth == 16 {
			return pixfmt.RGBA64, nil
		}
		return pixfmt.RGBA32, nil

	default:
		// tRNS is prohibited for grayscale-alpha and RGBA (both already
		// carry a full alpha channel); skip rather than error.
		return ctx.CurrentFormat, ctx.Skip()
	}
}

func (t *Trns) ProcessPalette(ctx *PaletteContext) error {
	if t.kind != trnsIndexed {
		return nil
	}
	for i, a := range t.palette {
		if i >= len(ctx.Palette) {
			break
		}
		ctx.Palette[i].A = a
	}
	return nil
}

func (t *Trns) ProcessRow(ctx *RowContext) (pixfmt.Tag, error) {
	switch t.kind {
	case trnsGray:
		spreadGrayAlpha(ctx, t.gray)
	case trnsRGB:
		spreadRGBAlpha(ctx, t.rgb)
	case trnsIndexed, trnsNone:
		// No-op: indexed transparency is handled entirely via the
		// palette hook.
	}
	return ctx.Format, nil
}

func spreadGrayAlpha(ctx *RowContext, key uint16) {
	row := ctx.Row
	if ctx.Format == pixfmt.GrayAlpha16 {
		stride := pixfmt.GrayAlpha16.Stride()
		for off := 0; off+stride <= len(row); off += stride {
			sample := ctx.Endian.Uint16(row[off:])
			if sample == key {
				row[off+2], row[off+3] = 0, 0
			} else {
				row[off+2], row[off+3] = 0xFF, 0xFF
			}
		}
		return
	}
	stride := pixfmt.GrayAlpha8.Stride()
	for off := 0; off+stride <= len(row); off += stride {
		if uint16(row[off]) == key {
			row[off+1] = 0
		} else {
			row[off+1] = 0xFF
		}
	}
}

func spreadRGBAlpha(ctx *RowContext, key [3]uint16) {
	row := ctx.Row
	if ctx.Format == pixfmt.RGBA64 {
		stride := pixfmt.RGBA64.Stride()
		for off := 0; off+stride <= len(row); off += stride {
			r := ctx.Endian.Uint16(row[off:])
			g := ctx.Endian.Uint16(row[off+2:])
			b := ctx.Endian.Uint16(row[off+4:])
			if r == key[0] && g == key[1] && b == key[2] {
				row[off+6], row[off+7] = 0, 0
			} else {
				row[off+6], row[off+7] = 0xFF, 0xFF
			}
		}
		return
	}
	stride := pixfmt.RGBA32.Stride()
	for off := 0; off+stride <= len(row); off += stride {
		if uint16(row[off]) == key[0] && uint16(row[off+1]) == key[1] && uint16(row[off+2]) == key[2] {
			row[off+3] = 0
		} else {
			row[off+3] = 0xFF
		}
	}
}
