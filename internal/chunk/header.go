package chunk

import (
	"github.com/pkg/errors"
	"github.com/snksoft/crc"

	"github.com/gopng/decode/internal/source"
)

// Header is a chunk's length-and-type prefix, as read off the wire before
// its payload.
type Header struct {
	Length uint32
	Type   Tag
}

// LengthFieldSize and TypeFieldSize are the byte widths of a chunk
// header's two fields; CRCSize is the byte width of its trailing CRC.
// HeaderSize is their sum, the byte footprint of length+type together
// (what SeekBy must rewind across to "unread" a chunk header). A chunk's
// total wire footprint is HeaderSize + Length + CRCSize.
const (
	LengthFieldSize = 4
	TypeFieldSize   = 4
	CRCSize         = 4
	HeaderSize      = LengthFieldSize + TypeFieldSize
)

// ReadHeader reads a chunk's length and type fields.
func ReadHeader(s source.Source) (Header, error) {
	length, err := s.ReadU32BE()
	if err != nil {
		return Header{}, errors.WithStack(err)
	}
	tb, err := s.Borrow(4)
	if err != nil {
		return Header{}, errors.WithStack(err)
	}
	return Header{Length: length, Type: TagFromBytes(tb)}, nil
}

// CRC computes a chunk's CRC-32 (the ISO-HDLC / "CRC-32" variant PNG
// specifies) incrementally over the type tag and payload.
type CRC struct {
	hash *crc.Hash
}

// NewCRC starts a running CRC seeded with nothing; call Write with the
// type tag first, then the payload, matching the wire order PNG covers.
func NewCRC() *CRC {
	return &CRC{hash: crc.NewHash(crc.CRC32)}
}

// Write feeds bytes into the running checksum.
func (c *CRC) Write(p []byte) { c.hash.Update(p) }

// Sum32 returns the checksum computed so far.
func (c *CRC) Sum32() uint32 { return c.hash.CRC32() }

// Reset clears the running checksum back to its initial state.
func (c *CRC) Reset() { c.hash.Reset() }

// VerifyTrailer reads the trailing 4-byte CRC and compares it against want.
func VerifyTrailer(s source.Source, want uint32) error {
	got, err := s.ReadU32BE()
	if err != nil {
		return errors.WithStack(err)
	}
	if got != want {
		return errors.Errorf("chunk: CRC mismatch: got %08x, want %08x", got, want)
	}
	return nil
}
