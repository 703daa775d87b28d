// Package row implements the per-scanline reconstruction pipeline: filter
// reversal, bit-depth/channel spreading into the destination pixel stride,
// and Adam7 deinterlacing.
package row

import "github.com/pkg/errors"

// Filter selector values, as they appear in the leading byte of a filtered
// scanline.
const (
	FilterNone    = 0
	FilterSub     = 1
	FilterUp      = 2
	FilterAverage = 3
	FilterPaeth   = 4
)

// BufferLen is the byte length a row buffer must have to hold one
// physical (filtered) row at the given filter stride and line length: a
// (filterStride-1)-byte zero prefix, the filter-selector byte, then the
// line's sample bytes.
func BufferLen(lineBytes, filterStride int) int { return lineBytes + filterStride }

// WireOffset and WireLen describe where to Read a row's wire bytes
// (filter-selector byte + samples) into a buffer sized by BufferLen: the
// leading filterStride-1 bytes are left as the permanent zero prefix.
func WireOffset(filterStride int) int       { return filterStride - 1 }
func WireLen(lineBytes, filterStride int) int { return 1 + lineBytes }

// Defilter reverses scanline filtering in place on cur, referencing prev
// (the already-reconstructed prior row, or an all-zero buffer for the
// first row of an image or Adam7 pass). Both buffers must be BufferLen
// bytes long with their leading filterStride-1 bytes zeroed, and the
// filter-selector byte at index filterStride-1 freshly read from the wire.
//
// After Defilter returns, the selector byte has been cleared to zero, so
// that once the two row buffers are swapped, cur (now playing prev for the
// next row) presents a clean zero reference at that index too.
func Defilter(cur, prev []byte, filterStride int) error {
	sel := cur[filterStride-1]
	cur[filterStride-1] = 0
	if sel > FilterPaeth {
		return errors.Errorf("row: invalid filter selector %d", sel)
	}

	switch sel {
	case FilterNone:
		// no-op
	case FilterSub:
		for x := filterStride; x < len(cur); x++ {
			cur[x] += cur[x-filterStride]
		}
	case FilterUp:
		for x := filterStride; x < len(cur); x++ {
			cur[x] += prev[x]
		}
	case FilterAverage:
		for x := filterStride; x < len(cur); x++ {
			a := int(cur[x-filterStride])
			b := int(prev[x])
			cur[x] += uint8((a + b) / 2)
		}
	case FilterPaeth:
		for x := filterStride; x < len(cur); x++ {
			a := cur[x-filterStride]
			b := prev[x]
			c := prev[x-filterStride]
			cur[x] += paeth(a, b, c)
		}
	}
	return nil
}

// paeth is the Paeth predictor, per spec.md §4.5: pa=|b-c|, pb=|a-c|,
// pc=|pa+pb|; pick a if pa<=pb and pa<=pc, else b if pb<=pc, else c.
func paeth(a, b, c uint8) uint8 {
	pa := abs(int(b) - int(c))
	pb := abs(int(a) - int(c))
	pc := abs(pa + pb)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
