// Package idat implements the sub-stream that hides the boundary between
// consecutive IDAT chunks from the inflate engine, and wires the inflate
// driver around it.
package idat

import (
	"io"

	"github.com/pkg/errors"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/source"
)

// Stream presents one or more IDAT chunks as a single continuous
// io.Reader, validating each chunk's CRC as its boundary is crossed and
// leaving the underlying source positioned just after the run of IDAT
// chunks once it ends.
type Stream struct {
	src       source.Source
	remaining uint32
	crc       *chunk.CRC
	done      bool
}

// New constructs a Stream positioned at the start of the first IDAT
// chunk's payload; firstLength is that chunk's declared length, as read by
// the caller's chunk-header dispatch.
func New(src source.Source, firstLength uint32) *Stream {
	s := &Stream{src: src, remaining: firstLength, crc: chunk.NewCRC()}
	s.crc.Write([]byte(chunk.TagIDAT.String()))
	return s
}

// Read fills dst from the concatenated IDAT payloads. It returns io.EOF
// once the IDAT run ends (having rewound the source so the caller's main
// loop can dispatch whatever chunk follows); any other error is a genuine
// CRC mismatch or propagated end-of-stream/I-O failure.
func (s *Stream) Read(dst []byte) (int, error) {
	if s.done {
		return 0, io.EOF
	}
	total := 0
	for len(dst) > 0 {
		if s.remaining == 0 {
			if err := s.crossBoundary(); err != nil {
				return total, err
			}
			if s.done {
				if total == 0 {
					return 0, io.EOF
				}
				return total, nil
			}
			continue
		}
		want := len(dst)
		if uint32(want) > s.remaining {
			want = int(s.remaining)
		}
		n, err := s.src.Read(dst[:want])
		if n > 0 {
			s.crc.Write(dst[:n])
			s.remaining -= uint32(n)
			total += n
			dst = dst[n:]
		}
		if err != nil {
			return total, errors.WithStack(err)
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// Finish drains whatever bytes remain in the current IDAT chunk (keeping
// the running CRC correct) and crosses into whatever chunk follows,
// rewinding the source onto its header. Call it once the row pipeline has
// consumed exactly as many decompressed bytes as the image needs, since
// the inflate stream's logical end does not have to land exactly on an
// IDAT chunk boundary.
func (s *Stream) Finish() error {
	if s.done {
		return nil
	}
	var discard [256]byte
	for s.remaining > 0 {
		want := len(discard)
		if uint32(want) > s.remaining {
			want = int(s.remaining)
		}
		n, err := s.src.Read(discard[:want])
		if n > 0 {
			s.crc.Write(discard[:n])
			s.remaining -= uint32(n)
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			break
		}
	}
	return s.crossBoundary()
}

// crossBoundary verifies the CRC of the IDAT chunk just finished, then
// probes the next chunk header: another IDAT continues the stream,
// anything else ends it (after rewinding past the header just read).
func (s *Stream) crossBoundary() error {
	if err := chunk.VerifyTrailer(s.src, s.crc.Sum32()); err != nil {
		return err
	}
	hdr, err := chunk.ReadHeader(s.src)
	if err != nil {
		return err
	}
	if hdr.Type == chunk.TagIDAT {
		s.remaining = hdr.Length
		s.crc.Reset()
		s.crc.Write([]byte(chunk.TagIDAT.String()))
		return nil
	}
	if err := s.src.SeekBy(-int64(chunk.HeaderSize)); err != nil {
		return err
	}
	s.done = true
	return nil
}
