package row

import (
	"encoding/binary"
	"testing"
)

// Pins the Adam7 16-bit endianness rule: the intermediate pass row keeps
// wire (big-endian) byte order through the first spread, and only reaches
// native order once SwapToNative16 runs ahead of scatter into the final
// image. The non-interlaced path instead normalizes in a single spread
// (swap=true).
func TestSpread16BitDeferredSwap(t *testing.T) {
	src := []byte{0x12, 0x34, 0xAB, 0xCD} // two big-endian 16-bit samples

	deferred := make([]byte, 4)
	Spread16Bit(deferred, src, 2, 4, false, 1)
	if deferred[0] != 0x12 || deferred[1] != 0x34 || deferred[2] != 0xAB || deferred[3] != 0xCD {
		t.Fatalf("deferred spread must keep wire order, got % x", deferred)
	}

	immediate := make([]byte, 4)
	Spread16Bit(immediate, src, 2, 4, true, 1)
	wantFirst := make([]byte, 2)
	binary.NativeEndian.PutUint16(wantFirst, 0x1234)
	if immediate[0] != wantFirst[0] || immediate[1] != wantFirst[1] {
		t.Fatalf("immediate spread must normalize to native order, got % x want % x", immediate[:2], wantFirst)
	}

	SwapToNative16(deferred)
	assertRow(t, "deferred-then-swap vs immediate", deferred, immediate)
}
