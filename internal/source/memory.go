package source

import "github.com/pkg/errors"

// Memory is a Source backed entirely by an in-memory buffer. Borrow always
// returns a zero-copy slice into that buffer; Memory never allocates.
type Memory struct {
	buf []byte
	pos int
}

// NewMemory wraps buf for reading. buf is retained, not copied.
func NewMemory(buf []byte) *Memory {
	return &Memory{buf: buf}
}

func (m *Memory) Borrow(n int) ([]byte, error) {
	if n < 0 || m.pos+n > len(m.buf) {
		return nil, errors.WithStack(ErrEndOfStream)
	}
	b := m.buf[m.pos : m.pos+n]
	m.pos += n
	return b, nil
}

func (m *Memory) Read(dst []byte) (int, error) {
	n := copy(dst, m.buf[m.pos:])
	m.pos += n
	if n == 0 && len(dst) > 0 {
		return 0, errors.WithStack(ErrEndOfStream)
	}
	return n, nil
}

func (m *Memory) ReadU32BE() (uint32, error) { return readU32BE(m) }
func (m *Memory) ReadU16BE() (uint16, error) { return readU16BE(m) }

func (m *Memory) SeekBy(delta int64) error {
	np := int64(m.pos) + delta
	if np < 0 || np > int64(len(m.buf)) {
		return errors.WithStack(ErrEndOfStream)
	}
	m.pos = int(np)
	return nil
}

// Len reports the number of unread bytes.
func (m *Memory) Len() int { return len(m.buf) - m.pos }
