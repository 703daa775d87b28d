package row

import "testing"

func TestSpreadSubByte1bpp(t *testing.T) {
	src := []byte{0xA5} // 1010 0101
	dst := make([]byte, 8)
	SpreadSubByte(dst, src, 1, 1, 8)
	want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
	assertRow(t, "1bpp spread", dst, want)
}

func TestSpreadSubByte4bpp(t *testing.T) {
	src := []byte{0xA5, 0x7C}
	dst := make([]byte, 8) // 4 samples at pixel_stride 2, zero-filled
	SpreadSubByte(dst, src, 4, 2, 4)
	want := []byte{0xA, 0, 0x5, 0, 0x7, 0, 0xC, 0}
	assertRow(t, "4bpp spread", dst, want)
}

func TestSpread8BitRGB(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6}
	dst := make([]byte, 8) // pixel_stride 4, two pixels
	Spread8Bit(dst, src, 3, 4, 2)
	want := []byte{1, 2, 3, 0, 4, 5, 6, 0}
	assertRow(t, "8bpp RGB spread", dst, want)
}
