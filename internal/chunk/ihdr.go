package chunk

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ColorType is the PNG color-type byte: a sum of palette-used (1),
// color-used (2), and alpha-used (4).
type ColorType uint8

const (
	ColorGrayscale      ColorType = 0
	ColorRGB            ColorType = 2
	ColorIndexed        ColorType = 3
	ColorGrayscaleAlpha ColorType = 4
	ColorRGBA           ColorType = 6
)

// Channels reports the sample count per pixel for the color type, ignoring
// bit depth (e.g. RGB is always 3 channels whether 8 or 16 bit).
func (c ColorType) Channels() int {
	switch c {
	case ColorGrayscale:
		return 1
	case ColorRGB:
		return 3
	case ColorIndexed:
		return 1
	case ColorGrayscaleAlpha:
		return 2
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

func (c ColorType) valid() bool {
	switch c {
	case ColorGrayscale, ColorRGB, ColorIndexed, ColorGrayscaleAlpha, ColorRGBA:
		return true
	default:
		return false
	}
}

// allowedBitDepths maps a color type to the bit depths PNG permits for it.
var allowedBitDepths = map[ColorType][]uint8{
	ColorGrayscale:      {1, 2, 4, 8, 16},
	ColorRGB:            {8, 16},
	ColorIndexed:        {1, 2, 4, 8},
	ColorGrayscaleAlpha: {8, 16},
	ColorRGBA:           {8, 16},
}

// InterlaceMethod is IHDR's transmission-order byte.
type InterlaceMethod uint8

const (
	InterlaceNone  InterlaceMethod = 0
	InterlaceAdam7 InterlaceMethod = 1
)

// IHDR is the 13-byte image header record, decoded to native types.
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   InterlaceMethod
}

// Size is the fixed, on-the-wire byte length of an IHDR payload.
const Size = 13

// ParseIHDR decodes a 13-byte IHDR payload. It does not validate the
// result; call Validate for that.
func ParseIHDR(data []byte) (IHDR, error) {
	if len(data) != Size {
		return IHDR{}, errors.Errorf("chunk: IHDR payload must be %d bytes, got %d", Size, len(data))
	}
	return IHDR{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         ColorType(data[9]),
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		InterlaceMethod:   InterlaceMethod(data[12]),
	}, nil
}

// Validate enforces the structural constraints spec.md §3 places on IHDR:
// dimension bounds, the color-type/bit-depth table, and the fixed
// compression/filter/interlace method values.
func (h IHDR) Validate() error {
	if h.Width == 0 || h.Width > (1<<31)-1 {
		return errors.Errorf("chunk: invalid width %d", h.Width)
	}
	if h.Height == 0 || h.Height > (1<<31)-1 {
		return errors.Errorf("chunk: invalid height %d", h.Height)
	}
	if !h.ColorType.valid() {
		return errors.Errorf("chunk: invalid color type %d", h.ColorType)
	}
	depths := allowedBitDepths[h.ColorType]
	ok := false
	for _, d := range depths {
		if d == h.BitDepth {
			ok = true
			break
		}
	}
	if !ok {
		return errors.Errorf("chunk: bit depth %d not allowed for color type %d", h.BitDepth, h.ColorType)
	}
	if h.CompressionMethod != 0 {
		return errors.Errorf("chunk: unsupported compression method %d", h.CompressionMethod)
	}
	if h.FilterMethod != 0 {
		return errors.Errorf("chunk: unsupported filter method %d", h.FilterMethod)
	}
	if h.InterlaceMethod != InterlaceNone && h.InterlaceMethod != InterlaceAdam7 {
		return errors.Errorf("chunk: unsupported interlace method %d", h.InterlaceMethod)
	}
	return nil
}

// LineBytes is ceil(width * bit_depth * channels / 8), the sample-byte
// count of one filtered scanline, excluding the filter-selector byte.
func (h IHDR) LineBytes() int {
	return lineBytes(int(h.Width), int(h.BitDepth), h.ColorType.Channels())
}

func lineBytes(width, bitDepth, channels int) int {
	bits := width * bitDepth * channels
	return (bits + 7) / 8
}

// FilterStride is ceil(bit_depth/8) * channels, clamped to a minimum of 1:
// the byte offset between same-channel samples of adjacent pixels in the
// filtered row.
func (h IHDR) FilterStride() int {
	s := ((int(h.BitDepth) + 7) / 8) * h.ColorType.Channels()
	if s < 1 {
		s = 1
	}
	return s
}

// Signature is the 8-byte PNG file signature.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
