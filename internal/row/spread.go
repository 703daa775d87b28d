package row

import "encoding/binary"

// SpreadSubByte expands a 1/2/4-bit-per-sample packed source row into one
// destination byte per sample, high-bit-first, stepping the destination by
// pixelStride bytes between samples and leaving the rest of each
// destination pixel slot untouched (callers pre-zero the destination).
func SpreadSubByte(dst, src []byte, bitDepth, pixelStride, sampleCount int) {
	samplesPerByte := 8 / bitDepth
	mask := byte(1<<uint(bitDepth)) - 1
	for i := 0; i < sampleCount; i++ {
		byteIdx := i / samplesPerByte
		slot := i % samplesPerByte
		shift := uint(8 - bitDepth*(slot+1))
		dst[i*pixelStride] = (src[byteIdx] >> shift) & mask
	}
}

// Spread8Bit copies channels contiguous bytes per pixel from a tightly
// packed 8-bit-per-sample source row into the destination at pixelStride.
func Spread8Bit(dst, src []byte, channels, pixelStride, pixelCount int) {
	for p := 0; p < pixelCount; p++ {
		copy(dst[p*pixelStride:p*pixelStride+channels], src[p*channels:p*channels+channels])
	}
}

// Spread16Bit copies channels big-endian 16-bit samples per pixel from src
// into dst at pixelStride, each destination channel occupying 2 bytes. If
// swap is true, samples are converted to native byte order as they're
// written (the non-interlaced path); if false, they are kept big-endian,
// deferring the swap to a later second spread (the Adam7 path, so that
// row processors see consistent pre-swap bytes).
func Spread16Bit(dst, src []byte, channels, pixelStride int, swap bool, pixelCount int) {
	for p := 0; p < pixelCount; p++ {
		srcOff := p * channels * 2
		dstOff := p * pixelStride
		for ch := 0; ch < channels; ch++ {
			v := binary.BigEndian.Uint16(src[srcOff+ch*2:])
			if swap {
				binary.NativeEndian.PutUint16(dst[dstOff+ch*2:], v)
			} else {
				binary.BigEndian.PutUint16(dst[dstOff+ch*2:], v)
			}
		}
	}
}

// SwapToNative16 converts every 2-byte sample in buf from big-endian (the
// wire order an Adam7 pass row keeps until it's scattered) to native
// order, in place. Every byte of buf must belong to a 16-bit sample —
// callers only use this on already-resolved 16-bit pixel formats, where
// that holds for the whole row.
func SwapToNative16(buf []byte) {
	for off := 0; off+2 <= len(buf); off += 2 {
		v := binary.BigEndian.Uint16(buf[off:])
		binary.NativeEndian.PutUint16(buf[off:], v)
	}
}
