// Package source implements the byte-source reader abstraction: a small
// reading API that hides whether the underlying bytes come from a file or
// from an in-memory buffer.
package source

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrEndOfStream is returned when fewer bytes remain than were requested.
var ErrEndOfStream = errors.New("png: end of stream")

// Source is the minimal reading API the decoder needs from a byte source.
// Borrow returns a view into n contiguous bytes without copying when the
// underlying source can provide one; Read copies into a caller buffer.
type Source interface {
	// Borrow returns a slice of exactly n bytes. The slice is only valid
	// until the next call that advances the source. Fails with
	// ErrEndOfStream if fewer than n bytes remain.
	Borrow(n int) ([]byte, error)

	// Read copies up to len(dst) bytes into dst, returning the number of
	// bytes copied. It returns ErrEndOfStream only when zero bytes could
	// be copied because the source is exhausted.
	Read(dst []byte) (int, error)

	// ReadU32BE reads a single big-endian uint32.
	ReadU32BE() (uint32, error)

	// ReadU16BE reads a single big-endian uint16.
	ReadU16BE() (uint16, error)

	// SeekBy moves the read position by a signed byte delta relative to
	// the current position.
	SeekBy(delta int64) error
}

func readU32BE(s Source) (uint32, error) {
	b, err := s.Borrow(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func readU16BE(s Source) (uint16, error) {
	b, err := s.Borrow(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}
