package png

import "github.com/gopng/decode/internal/chunk"

// HeaderData is the pure-prefix result of LoadHeader: everything IHDR
// carries, with the always-zero compression/filter method bytes omitted
// since they carry no information.
type HeaderData struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType chunk.ColorType
	Interlace chunk.InterlaceMethod
}

func toHeaderData(h chunk.IHDR) HeaderData {
	return HeaderData{
		Width:     h.Width,
		Height:    h.Height,
		BitDepth:  h.BitDepth,
		ColorType: h.ColorType,
		Interlace: h.InterlaceMethod,
	}
}

func (h HeaderData) toIHDR() chunk.IHDR {
	return chunk.IHDR{
		Width:           h.Width,
		Height:          h.Height,
		BitDepth:        h.BitDepth,
		ColorType:       h.ColorType,
		InterlaceMethod: h.Interlace,
	}
}
