package pixfmt

import "github.com/pkg/errors"

// RGBA32 is a palette entry: four 8-bit channels regardless of the
// source PLTE's 3-byte triples (widened when tRNS supplies alpha).
type RGBA32 struct {
	R, G, B, A uint8
}

// Storage is the tagged-union pixel container: a row-major pixel array for
// direct-color formats, or a palette plus a row-major index array for
// indexed ones. Format is the discriminant.
type Storage struct {
	Format     Tag
	PixelCount int

	// Pix holds the raw pixel bytes (for indexed formats, the raw index
	// bytes) in row-major order, PixelCount*Format.Stride() bytes long.
	Pix []byte

	// Palette is non-nil only when Format.IsIndexed(); it holds
	// 2^bitDepth RGBA32 entries.
	Palette []RGBA32
}

// New allocates a Storage for format holding pixelCount pixels. paletteSize
// is ignored for non-indexed formats; for indexed formats it is the
// palette entry count (2^bit_depth per spec.md §4.2).
func New(format Tag, pixelCount, paletteSize int) (*Storage, error) {
	if pixelCount < 0 {
		return nil, errors.Errorf("pixfmt: negative pixel count %d", pixelCount)
	}
	s := &Storage{
		Format:     format,
		PixelCount: pixelCount,
		Pix:        make([]byte, pixelCount*format.Stride()),
	}
	if format.IsIndexed() {
		if paletteSize < 0 {
			return nil, errors.Errorf("pixfmt: negative palette size %d", paletteSize)
		}
		s.Palette = make([]RGBA32, paletteSize)
	}
	return s, nil
}

// PixelsAsBytes reinterprets the backing pixel array as raw bytes. For
// indexed formats this is the index array, not expanded colors.
func (s *Storage) PixelsAsBytes() []byte { return s.Pix }

// PaletteSlice yields the palette for indexed formats, or nil otherwise.
func (s *Storage) PaletteSlice() []RGBA32 {
	if !s.Format.IsIndexed() {
		return nil
	}
	return s.Palette
}

// Len returns the pixel count.
func (s *Storage) Len() int { return s.PixelCount }

// RowStride is the byte length of one image row at this format's stride.
func (s *Storage) RowStride(width int) int { return width * s.Format.Stride() }
