// Package png implements a streaming, chunk-driven PNG decoder: signature
// and IHDR validation, CRC-checked chunk dispatch, IDAT inflate driving,
// per-row defilter/spread, optional Adam7 deinterlace, and a pluggable
// processor protocol that lets auxiliary chunks widen the destination
// pixel format and rewrite palette/row bytes.
package png

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/idat"
	"github.com/gopng/decode/internal/pixfmt"
	"github.com/gopng/decode/internal/processor"
	"github.com/gopng/decode/internal/row"
	"github.com/gopng/decode/internal/scratch"
	"github.com/gopng/decode/internal/source"
)

// Reader drives the PNG chunk state machine over a byte source. A Reader
// is single-use: call LoadHeader and/or Load/LoadWithHeader once per
// stream.
type Reader struct {
	src  source.Source
	ihdr chunk.IHDR
}

// FromFile constructs a Reader over a seekable file handle, using a
// ring-buffered refill window.
func FromFile(r io.ReadSeeker) *Reader {
	return &Reader{src: source.NewFileDefault(r)}
}

// FromMemory constructs a Reader over an in-memory buffer. buf is
// retained, not copied; Borrow returns zero-copy slices into it.
func FromMemory(buf []byte) *Reader {
	return &Reader{src: source.NewMemory(buf)}
}

// LoadHeader reads and validates the signature and IHDR chunk. On
// success it has consumed exactly signature + IHDR chunk header + IHDR
// payload + IHDR CRC bytes from the source, and nothing more — a pure
// prefix read, safe to call before deciding whether to go on to Load.
func (r *Reader) LoadHeader() (HeaderData, error) {
	sig, err := r.src.Borrow(len(chunk.Signature))
	if err != nil {
		return HeaderData{}, classify(err)
	}
	if !bytes.Equal(sig, chunk.Signature[:]) {
		return HeaderData{}, classify(errors.New("bad PNG signature"))
	}

	hdr, err := chunk.ReadHeader(r.src)
	if err != nil {
		return HeaderData{}, classify(err)
	}
	if hdr.Type != chunk.TagIHDR {
		return HeaderData{}, classify(errors.New("first chunk is not IHDR"))
	}
	if hdr.Length != chunk.Size {
		return HeaderData{}, classify(errors.Errorf("IHDR length must be %d, got %d", chunk.Size, hdr.Length))
	}

	payload, err := readPayload(r.src, hdr.Length, chunk.TagIHDR)
	if err != nil {
		return HeaderData{}, classify(err)
	}
	ihdr, err := chunk.ParseIHDR(payload)
	if err != nil {
		return HeaderData{}, classify(err)
	}
	if err := ihdr.Validate(); err != nil {
		return HeaderData{}, classify(err)
	}

	r.ihdr = ihdr
	return toHeaderData(ihdr), nil
}

// Load reads the header and decodes the pixel data in one call.
func (r *Reader) Load(opts Options) (*pixfmt.Storage, Ancillary, error) {
	if _, err := r.LoadHeader(); err != nil {
		return nil, Ancillary{}, err
	}
	return r.decodeBody(opts)
}

// LoadWithHeader decodes pixel data using a header already obtained from
// LoadHeader on this same Reader, without re-reading it. The source must
// still be positioned just past the IHDR chunk's CRC.
func (r *Reader) LoadWithHeader(hdr HeaderData, opts Options) (*pixfmt.Storage, Ancillary, error) {
	r.ihdr = hdr.toIHDR()
	return r.decodeBody(opts)
}

// readPayload borrows a chunk's payload and verifies its trailing CRC.
func readPayload(src source.Source, length uint32, tag chunk.Tag) ([]byte, error) {
	data, err := src.Borrow(int(length))
	if err != nil {
		return nil, err
	}
	c := chunk.NewCRC()
	c.Write([]byte(tag.String()))
	c.Write(data)
	if err := chunk.VerifyTrailer(src, c.Sum32()); err != nil {
		return nil, err
	}
	return data, nil
}

// baseFormat maps an IHDR's (color type, bit depth) to the pixel format
// tag its raw samples spread into, before any processor widens it.
func baseFormat(h chunk.IHDR) pixfmt.Tag {
	switch h.ColorType {
	case chunk.ColorIndexed:
		switch h.BitDepth {
		case 1:
			return pixfmt.Index1
		case 2:
			return pixfmt.Index2
		case 4:
			return pixfmt.Index4
		default:
			return pixfmt.Index8
		}
	case chunk.ColorGrayscale:
		switch h.BitDepth {
		case 1:
			return pixfmt.Gray1
		case 2:
			return pixfmt.Gray2
		case 4:
			return pixfmt.Gray4
		case 16:
			return pixfmt.Gray16
		default:
			return pixfmt.Gray8
		}
	case chunk.ColorGrayscaleAlpha:
		if h.BitDepth == 16 {
			return pixfmt.GrayAlpha16
		}
		return pixfmt.GrayAlpha8
	case chunk.ColorRGB:
		if h.BitDepth == 16 {
			return pixfmt.RGB48
		}
		return pixfmt.RGB24
	default: // ColorRGBA
		if h.BitDepth == 16 {
			return pixfmt.RGBA64
		}
		return pixfmt.RGBA32
	}
}

// decodeBody runs the PreIDAT / Streaming / PostIDAT portion of the state
// machine, assuming r.ihdr has already been populated.
func (r *Reader) decodeBody(opts Options) (*pixfmt.Storage, Ancillary, error) {
	format := baseFormat(r.ihdr)

	var paletteRaw []byte
	paletteSeen := false
	var firstIDATLength uint32

preIDAT:
	for {
		hdr, err := chunk.ReadHeader(r.src)
		if err != nil {
			return nil, Ancillary{}, classify(err)
		}
		switch hdr.Type {
		case chunk.TagIHDR:
			return nil, Ancillary{}, classify(errors.New("duplicate IHDR"))
		case chunk.TagIEND:
			return nil, Ancillary{}, classify(errors.New("IEND before any IDAT"))
		case chunk.TagIDAT:
			firstIDATLength = hdr.Length
			break preIDAT
		case chunk.TagPLTE:
			raw, newFormat, err := r.handlePlte(hdr, opts, format, paletteSeen)
			if err != nil {
				return nil, Ancillary{}, classify(err)
			}
			paletteRaw = raw
			paletteSeen = true
			format = newFormat
		default:
			newFormat, err := r.dispatchAncillary(hdr.Type, hdr.Length, opts.Processors, opts.Scratch, format, len(paletteRaw)/3)
			if err != nil {
				return nil, Ancillary{}, classify(err)
			}
			format = newFormat
		}
	}

	if r.ihdr.ColorType == chunk.ColorIndexed && !paletteSeen {
		return nil, Ancillary{}, classify(errors.New("indexed image missing required PLTE"))
	}

	finalPalette, err := r.buildPalette(paletteRaw, opts.Processors)
	if err != nil {
		return nil, Ancillary{}, classify(err)
	}

	storage, err := r.runStreaming(format, finalPalette, firstIDATLength, opts)
	if err != nil {
		return nil, Ancillary{}, classify(err)
	}

	if err := r.runPostIDAT(opts.Processors, opts.Scratch, format, len(finalPalette)); err != nil {
		return nil, Ancillary{}, classify(err)
	}

	return storage, collectAncillary(r.ihdr.ColorType, opts.Processors), nil
}

// handlePlte validates and reads a PLTE chunk's payload, scratch-copies
// it, and offers the widening announcement to every matching
// ChunkProcessor (PLTE is critical: all matching processors run).
func (r *Reader) handlePlte(hdr chunk.Header, opts Options, format pixfmt.Tag, alreadySeen bool) ([]byte, pixfmt.Tag, error) {
	if alreadySeen {
		return nil, format, errors.New("duplicate PLTE")
	}
	if r.ihdr.ColorType == chunk.ColorGrayscale || r.ihdr.ColorType == chunk.ColorGrayscaleAlpha {
		return nil, format, errors.New("PLTE not allowed for a grayscale color type")
	}
	if hdr.Length%3 != 0 {
		return nil, format, errors.Errorf("PLTE length %d is not a multiple of 3", hdr.Length)
	}
	maxEntries := 256
	if r.ihdr.ColorType == chunk.ColorIndexed {
		maxEntries = 1 << r.ihdr.BitDepth
	}
	if int(hdr.Length)/3 > maxEntries {
		return nil, format, errors.Errorf("PLTE has more entries than bit depth %d allows", r.ihdr.BitDepth)
	}

	payload, err := readPayload(r.src, hdr.Length, chunk.TagPLTE)
	if err != nil {
		return nil, format, err
	}
	buf, err := opts.Scratch.Alloc(len(payload))
	if err != nil {
		return nil, format, err
	}
	copy(buf, payload)

	for _, p := range opts.Processors {
		if p.ID() != chunk.TagPLTE {
			continue
		}
		cp, ok := p.(processor.ChunkProcessor)
		if !ok {
			continue
		}
		ctx := &processor.ChunkContext{
			Source:        r.src,
			Scratch:       opts.Scratch,
			Header:        r.ihdr,
			Tag:           chunk.TagPLTE,
			Length:        0,
			CurrentFormat: format,
		}
		newFormat, err := cp.ProcessChunk(ctx)
		if err != nil {
			return nil, format, err
		}
		format = newFormat
	}
	return buf, format, nil
}

// dispatchAncillary offers a non-PLTE chunk to the first matching
// ChunkProcessor, or skips it if none matched. A tRNS chunk is always
// refused once Streaming has begun (see runPostIDAT), so this is only
// ever called for tRNS during PreIDAT, matching spec's "ignore a tRNS
// that appears after IDAT has begun" rule. paletteEntries is the actual
// entry count of whatever PLTE has been collected so far (0 if none),
// for processors (tRNS) whose chunk validity is bounded by the real
// palette rather than the bit depth's maximum.
func (r *Reader) dispatchAncillary(tag chunk.Tag, length uint32, procs []processor.Processor, sc scratch.Allocator, format pixfmt.Tag, paletteEntries int) (pixfmt.Tag, error) {
	for _, p := range procs {
		if p.ID() != tag {
			continue
		}
		cp, ok := p.(processor.ChunkProcessor)
		if !ok {
			continue
		}
		ctx := &processor.ChunkContext{
			Source:         r.src,
			Scratch:        sc,
			Header:         r.ihdr,
			Tag:            tag,
			Length:         length,
			CurrentFormat:  format,
			PaletteEntries: paletteEntries,
		}
		return cp.ProcessChunk(ctx)
	}
	if err := r.src.SeekBy(int64(length) + int64(chunk.CRCSize)); err != nil {
		return format, err
	}
	return format, nil
}

// buildPalette expands a collected PLTE's raw RGB triples into the
// working RGBA32 palette and runs each PaletteProcessor's hook once, in
// processor order.
func (r *Reader) buildPalette(paletteRaw []byte, procs []processor.Processor) ([]pixfmt.RGBA32, error) {
	if paletteRaw == nil {
		return nil, nil
	}
	n := len(paletteRaw) / 3
	palette := make([]pixfmt.RGBA32, n)
	for i := 0; i < n; i++ {
		palette[i] = pixfmt.RGBA32{R: paletteRaw[i*3], G: paletteRaw[i*3+1], B: paletteRaw[i*3+2], A: 0xFF}
	}
	for _, p := range procs {
		pp, ok := p.(processor.PaletteProcessor)
		if !ok {
			continue
		}
		if err := pp.ProcessPalette(&processor.PaletteContext{Header: r.ihdr, Palette: palette}); err != nil {
			return nil, err
		}
	}
	return palette, nil
}

// runStreaming allocates the destination storage and drives the IDAT
// sub-stream, inflate, and row pipeline to fill it.
func (r *Reader) runStreaming(format pixfmt.Tag, palette []pixfmt.RGBA32, firstIDATLength uint32, opts Options) (*pixfmt.Storage, error) {
	pixelCount := int(r.ihdr.Width) * int(r.ihdr.Height)
	paletteSize := 0
	if format.IsIndexed() {
		paletteSize = 1 << r.ihdr.BitDepth
	}
	storage, err := pixfmt.New(format, pixelCount, paletteSize)
	if err != nil {
		return nil, err
	}
	if format.IsIndexed() {
		copy(storage.Palette, palette)
	}

	stream := idat.New(r.src, firstIDATLength)
	inflater, err := idat.NewInflater(stream)
	if err != nil {
		return nil, err
	}
	defer inflater.Close()

	pixelStride := format.Stride()
	destRowStride := storage.RowStride(int(r.ihdr.Width))
	pix := storage.PixelsAsBytes()

	if r.ihdr.InterlaceMethod == chunk.InterlaceNone {
		if err := r.decodeFlat(inflater, pix, destRowStride, pixelStride, format, palette, opts.Processors); err != nil {
			return nil, err
		}
	} else {
		if err := r.decodeAdam7(inflater, pix, destRowStride, pixelStride, format, palette, opts.Processors); err != nil {
			return nil, err
		}
	}

	var discard [64]byte
	if _, err := inflater.Read(discard[:]); err != nil && err != io.EOF {
		return nil, err
	}
	if err := stream.Finish(); err != nil {
		return nil, err
	}

	return storage, nil
}

// decodeFlat runs the sequential (non-interlaced) per-row loop, spreading
// each row directly into the final image buffer at native endianness.
func (r *Reader) decodeFlat(src io.Reader, pix []byte, destRowStride, pixelStride int, format pixfmt.Tag, palette []pixfmt.RGBA32, procs []processor.Processor) error {
	lineBytes := r.ihdr.LineBytes()
	filterStride := r.ihdr.FilterStride()
	bufLen := row.BufferLen(lineBytes, filterStride)
	prev := make([]byte, bufLen)
	cur := make([]byte, bufLen)
	width := int(r.ihdr.Width)

	for y := 0; y < int(r.ihdr.Height); y++ {
		if err := readWireRow(src, cur, lineBytes, filterStride); err != nil {
			return err
		}
		if err := row.Defilter(cur, prev, filterStride); err != nil {
			return err
		}
		destRow := pix[y*destRowStride : y*destRowStride+destRowStride]
		spreadRow(destRow, cur[filterStride:], r.ihdr, pixelStride, width, true)
		if err := runRowProcessors(procs, destRow, format, palette, r.ihdr, width, binary.NativeEndian); err != nil {
			return err
		}
		prev, cur = cur, prev
	}
	return nil
}

// decodeAdam7 runs the seven-pass interlaced loop: each pass's rows are
// defiltered and spread into an intermediate pass row (big-endian 16-bit
// samples, matching spec.md's deferred-swap rule), row-processed, then
// endian-normalized and scattered into the final image.
func (r *Reader) decodeAdam7(src io.Reader, pix []byte, destRowStride, pixelStride int, format pixfmt.Tag, palette []pixfmt.RGBA32, procs []processor.Processor) error {
	filterStride := r.ihdr.FilterStride()
	width, height := int(r.ihdr.Width), int(r.ihdr.Height)
	channels := r.ihdr.ColorType.Channels()

	for _, pass := range row.Adam7Passes {
		passWidth, passHeight := pass.Dimensions(width, height)
		if passWidth == 0 || passHeight == 0 {
			continue
		}
		passLineBytes := (passWidth*int(r.ihdr.BitDepth)*channels + 7) / 8
		bufLen := row.BufferLen(passLineBytes, filterStride)
		prev := make([]byte, bufLen)
		cur := make([]byte, bufLen)
		passRow := make([]byte, passWidth*pixelStride)

		for ry := 0; ry < passHeight; ry++ {
			if err := readWireRow(src, cur, passLineBytes, filterStride); err != nil {
				return err
			}
			if err := row.Defilter(cur, prev, filterStride); err != nil {
				return err
			}
			for i := range passRow {
				passRow[i] = 0
			}
			spreadRow(passRow, cur[filterStride:], r.ihdr, pixelStride, passWidth, false)
			if err := runRowProcessors(procs, passRow, format, palette, r.ihdr, passWidth, binary.BigEndian); err != nil {
				return err
			}
			if format.Is16Bit() {
				row.SwapToNative16(passRow)
			}
			row.ScatterRow(pix, destRowStride, passRow, pixelStride, pass, ry, passWidth)
			prev, cur = cur, prev
		}
	}
	return nil
}

// spreadRow dispatches to the bit-depth-appropriate row-spread routine.
// swap controls 16-bit endian normalization: true for the direct-to-
// final-image non-interlaced path, false for the Adam7 intermediate pass
// row (the swap there happens later, during scatter).
func spreadRow(dst, src []byte, h chunk.IHDR, pixelStride, width int, swap bool) {
	channels := h.ColorType.Channels()
	switch {
	case h.BitDepth < 8:
		row.SpreadSubByte(dst, src, int(h.BitDepth), pixelStride, width)
	case h.BitDepth == 8:
		row.Spread8Bit(dst, src, channels, pixelStride, width)
	default:
		row.Spread16Bit(dst, src, channels, pixelStride, swap, width)
	}
}

// readWireRow reads one physical row's filter-selector byte plus sample
// bytes into buf, leaving buf's zero prefix (indices [0, filterStride-2])
// untouched.
func readWireRow(src io.Reader, buf []byte, lineBytes, filterStride int) error {
	off := row.WireOffset(filterStride)
	n := row.WireLen(lineBytes, filterStride)
	if _, err := io.ReadFull(src, buf[off:off+n]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.WithStack(ErrEndOfStream)
		}
		return errors.WithStack(err)
	}
	return nil
}

// runRowProcessors offers a fully-spread row to every RowProcessor in
// sequence. Each sees the same, already-final pixel format (the format
// resolved during PreIDAT chunk dispatch); its returned format is
// informational only, since the destination storage's layout is fixed
// once Streaming begins — widening happens exclusively via process_chunk.
func runRowProcessors(procs []processor.Processor, rowBuf []byte, format pixfmt.Tag, palette []pixfmt.RGBA32, h chunk.IHDR, width int, endian binary.ByteOrder) error {
	ctx := &processor.RowContext{
		Header:  h,
		Format:  format,
		Palette: palette,
		Width:   width,
		Row:     rowBuf,
		Endian:  endian,
	}
	for _, p := range procs {
		rp, ok := p.(processor.RowProcessor)
		if !ok {
			continue
		}
		if _, err := rp.ProcessRow(ctx); err != nil {
			return err
		}
	}
	return nil
}

// runPostIDAT reads whatever chunks follow the IDAT run (ordinarily just
// IEND), offering ancillaries to processors except tRNS, which spec.md §9
// says must be ignored once Streaming has begun.
func (r *Reader) runPostIDAT(procs []processor.Processor, sc scratch.Allocator, format pixfmt.Tag, paletteEntries int) error {
	for {
		hdr, err := chunk.ReadHeader(r.src)
		if err != nil {
			return err
		}
		if hdr.Type == chunk.TagIEND {
			return r.finishIEND(hdr)
		}
		if hdr.Type == chunk.TagTRNS {
			if err := r.src.SeekBy(int64(hdr.Length) + int64(chunk.CRCSize)); err != nil {
				return err
			}
			continue
		}
		if _, err := r.dispatchAncillary(hdr.Type, hdr.Length, procs, sc, format, paletteEntries); err != nil {
			return err
		}
	}
}

// finishIEND verifies IEND's CRC (its payload is always empty) and
// returns.
func (r *Reader) finishIEND(hdr chunk.Header) error {
	if hdr.Length != 0 {
		return errors.Errorf("IEND payload must be empty, got %d bytes", hdr.Length)
	}
	c := chunk.NewCRC()
	c.Write([]byte(chunk.TagIEND.String()))
	return chunk.VerifyTrailer(r.src, c.Sum32())
}
