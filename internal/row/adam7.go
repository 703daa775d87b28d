package row

// Adam7Pass describes one of the seven interlace passes' origin and
// stride, per spec.md §4.5.
type Adam7Pass struct {
	StartX, StartY int
	XInc, YInc     int
}

// Adam7Passes is the standard seven-pass table.
var Adam7Passes = [7]Adam7Pass{
	{StartX: 0, StartY: 0, XInc: 8, YInc: 8},
	{StartX: 4, StartY: 0, XInc: 8, YInc: 8},
	{StartX: 0, StartY: 4, XInc: 4, YInc: 8},
	{StartX: 2, StartY: 0, XInc: 4, YInc: 4},
	{StartX: 0, StartY: 2, XInc: 2, YInc: 4},
	{StartX: 1, StartY: 0, XInc: 2, YInc: 2},
	{StartX: 0, StartY: 1, XInc: 1, YInc: 2},
}

// ceilDiv computes ceil(a/b) for non-negative a and positive b.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Dimensions returns the pass's pixel width and height for a full image of
// size (width, height). Either may be zero, meaning the pass is skipped.
func (p Adam7Pass) Dimensions(width, height int) (passWidth, passHeight int) {
	passWidth = ceilDiv(width-p.StartX, p.XInc)
	passHeight = ceilDiv(height-p.StartY, p.YInc)
	return
}

// ScatterRow copies one fully-spread pass row into the final image buffer.
// passRow holds passWidth pixels at pixelStride bytes each; result is the
// full image's pixel buffer, resultStride its row byte stride. rowIndex is
// the 0-based row number within the pass.
func ScatterRow(result []byte, resultStride int, passRow []byte, pixelStride int, pass Adam7Pass, rowIndex, passWidth int) {
	y := pass.StartY + rowIndex*pass.YInc
	destRowOff := y*resultStride + pass.StartX*pixelStride
	step := pass.XInc * pixelStride
	for x := 0; x < passWidth; x++ {
		srcOff := x * pixelStride
		dstOff := destRowOff + x*step
		copy(result[dstOff:dstOff+pixelStride], passRow[srcOff:srcOff+pixelStride])
	}
}
