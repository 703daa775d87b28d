package png_test

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	png "github.com/gopng/decode"
)

// writeChunk appends one length-prefixed, CRC-trailed PNG chunk to buf.
func writeChunk(buf *bytes.Buffer, tag string, payload []byte) {
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(payload)))
	buf.Write(lenField[:])
	buf.WriteString(tag)
	buf.Write(payload)

	h := crc32.NewIEEE()
	h.Write([]byte(tag))
	h.Write(payload)
	var crcField [4]byte
	binary.BigEndian.PutUint32(crcField[:], h.Sum32())
	buf.Write(crcField[:])
}

// zlibCompress wraps raw in a zlib stream, the format IDAT payloads carry.
func zlibCompress(t *testing.T, raw []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// buildIHDRPayload packs IHDR's 13-byte record.
func buildIHDRPayload(width, height uint32, bitDepth, colorType, interlace byte) []byte {
	p := make([]byte, 13)
	binary.BigEndian.PutUint32(p[0:4], width)
	binary.BigEndian.PutUint32(p[4:8], height)
	p[8] = bitDepth
	p[9] = colorType
	p[10] = 0 // compression method
	p[11] = 0 // filter method
	p[12] = interlace
	return p
}

// buildPNG assembles signature + IHDR + IDAT(s) + trailing chunks + IEND.
func buildPNG(t *testing.T, width, height uint32, bitDepth, colorType, interlace byte, raw []byte, extra ...func(*bytes.Buffer)) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writeChunk(&buf, "IHDR", buildIHDRPayload(width, height, bitDepth, colorType, interlace))
	for _, f := range extra {
		f(&buf)
	}
	writeChunk(&buf, "IDAT", zlibCompress(t, raw))
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

// S1 — header accept: an interlaced 255x117 RGBA8 IHDR, its CRC computed
// over the type tag and payload.
func TestLoadHeaderAccept(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	buf.Write([]byte{0x00, 0x00, 0x00, 0x0D})
	buf.WriteString("IHDR")
	buf.Write([]byte{0x00, 0x00, 0x00, 0xFF, 0x00, 0x00, 0x00, 0x75, 0x08, 0x06, 0x00, 0x00, 0x01})
	buf.Write([]byte{0xF6, 0x24, 0x07, 0xE2})

	r := png.FromMemory(buf.Bytes())
	hdr, err := r.LoadHeader()
	require.NoError(t, err)
	assert.EqualValues(t, 255, hdr.Width)
	assert.EqualValues(t, 117, hdr.Height)
	assert.EqualValues(t, 8, hdr.BitDepth)
	assert.EqualValues(t, 6, hdr.ColorType)
	assert.EqualValues(t, 1, hdr.Interlace)
}

// S2 — header reject: a bad signature fails closed.
func TestLoadHeaderRejectBadSignature(t *testing.T) {
	r := png.FromMemory([]byte("asdsdasdasdsads"))
	_, err := r.LoadHeader()
	require.Error(t, err)
}

// S6 — 1x1 RGBA end-to-end: a minimal valid PNG decodes to the exact
// pixel bytes it was built from.
func TestDecode1x1RGBA(t *testing.T) {
	row := []byte{0x00, 0x11, 0x22, 0x33, 0x44} // filter None + one RGBA8 pixel
	data := buildPNG(t, 1, 1, 8, 6, 0, row)

	r := png.FromMemory(data)
	storage, _, err := r.Load(png.WithDefaults())
	require.NoError(t, err)
	assert.Equal(t, "rgba32", storage.Format.String())
	assert.Equal(t, 1, storage.Len())
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, storage.PixelsAsBytes())
}

// S7 — tRNS on grayscale-8: a 2x1 grayscale image with a tRNS key color
// decodes, via the default processor chain, to grayscale+alpha with the
// matching pixel's alpha zeroed and the other's at full opacity.
func TestDecodeGrayscaleTrns(t *testing.T) {
	row := []byte{0x00, 0x10, 0x20} // filter None + two grayscale8 samples
	data := buildPNG(t, 2, 1, 8, 0, 0, row, func(buf *bytes.Buffer) {
		writeChunk(buf, "tRNS", []byte{0x00, 0x10})
	})

	r := png.FromMemory(data)
	storage, _, err := r.Load(png.WithDefaults())
	require.NoError(t, err)
	assert.Equal(t, "grayscale8Alpha", storage.Format.String())
	assert.Equal(t, []byte{0x10, 0x00, 0x20, 0xFF}, storage.PixelsAsBytes())
}

// Invariant 1 — decode is deterministic for a fixed valid input.
func TestDecodeIsDeterministic(t *testing.T) {
	row := []byte{0x00, 0x11, 0x22, 0x33, 0x44}
	data := buildPNG(t, 1, 1, 8, 6, 0, row)

	r1 := png.FromMemory(data)
	s1, _, err := r1.Load(png.WithDefaults())
	require.NoError(t, err)

	r2 := png.FromMemory(data)
	s2, _, err := r2.Load(png.WithDefaults())
	require.NoError(t, err)

	assert.Equal(t, s1.PixelsAsBytes(), s2.PixelsAsBytes())
}

// Invariant 5 — tampering with a chunk's CRC yields InvalidData, not a
// silently accepted (and wrongly interpreted) stream.
func TestTamperedCRCIsRejected(t *testing.T) {
	row := []byte{0x00, 0x11, 0x22, 0x33, 0x44}
	data := buildPNG(t, 1, 1, 8, 6, 0, row)

	tampered := append([]byte(nil), data...)
	tampered[len(tampered)-1] ^= 0xFF // flip the last byte of IEND's trailing CRC

	r := png.FromMemory(tampered)
	_, _, err := r.Load(png.WithDefaults())
	require.Error(t, err)
}

// Invariant 3 — every index in an indexed image's output is within the
// palette's bounds.
func TestIndexedPaletteBounds(t *testing.T) {
	row := []byte{0x00, 0x00, 0x01} // filter None + two 8bpp indices (0, 1)
	palette := []byte{0xFF, 0x00, 0x00, 0x00, 0xFF, 0x00} // two RGB triples
	data := buildPNG(t, 2, 1, 8, 3, 0, row, func(buf *bytes.Buffer) {
		writeChunk(buf, "PLTE", palette)
	})

	r := png.FromMemory(data)
	storage, _, err := r.Load(png.WithDefaults())
	require.NoError(t, err)
	// Defaults install the PLTE-expansion processor, so the destination
	// widens to rgba32 and every expanded pixel must come from the
	// two-entry palette supplied.
	assert.Equal(t, "rgba32", storage.Format.String())
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}, storage.PixelsAsBytes())
}
