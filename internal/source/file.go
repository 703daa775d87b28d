package source

import (
	"io"

	"github.com/pkg/errors"
)

// defaultBufferShift picks a ~16 KiB refill buffer, inside the 2^8..2^18
// range the design allows.
const defaultBufferShift = 14

// File is a Source backed by a seekable file handle with a small internal
// refill buffer, so that small reads (chunk headers, IHDR fields) don't
// each cost a syscall.
type File struct {
	r    io.ReadSeeker
	buf  []byte
	pos  int // read position within buf
	end  int // valid data extends to buf[:end]
	base int64
}

// NewFile wraps r with a refill buffer of 2^shift bytes. shift must be
// between 8 and 18; values outside that range are clamped.
func NewFile(r io.ReadSeeker, shift int) *File {
	if shift < 8 {
		shift = 8
	}
	if shift > 18 {
		shift = 18
	}
	return &File{r: r, buf: make([]byte, 1<<uint(shift))}
}

// NewFileDefault wraps r with the default ~16 KiB buffer.
func NewFileDefault(r io.ReadSeeker) *File {
	return NewFile(r, defaultBufferShift)
}

func (f *File) available() int { return f.end - f.pos }

// refill shifts unread bytes to the front of buf and tops it back up from
// the underlying reader.
func (f *File) refill() error {
	if f.pos > 0 {
		n := copy(f.buf, f.buf[f.pos:f.end])
		f.base += int64(f.pos)
		f.pos = 0
		f.end = n
	}
	for f.end < len(f.buf) {
		n, err := f.r.Read(f.buf[f.end:])
		f.end += n
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.WithStack(err)
		}
		if n == 0 {
			break
		}
	}
	return nil
}

func (f *File) Borrow(n int) ([]byte, error) {
	if n > len(f.buf) {
		return nil, errors.Errorf("png: borrow of %d bytes exceeds buffer capacity %d", n, len(f.buf))
	}
	if f.available() < n {
		if err := f.refill(); err != nil {
			return nil, err
		}
	}
	if f.available() < n {
		return nil, errors.WithStack(ErrEndOfStream)
	}
	b := f.buf[f.pos : f.pos+n]
	f.pos += n
	return b, nil
}

func (f *File) Read(dst []byte) (int, error) {
	if f.available() == 0 {
		if err := f.refill(); err != nil {
			return 0, err
		}
	}
	n := copy(dst, f.buf[f.pos:f.end])
	f.pos += n
	if n == 0 && len(dst) > 0 {
		return 0, errors.WithStack(ErrEndOfStream)
	}
	return n, nil
}

func (f *File) ReadU32BE() (uint32, error) { return readU32BE(f) }
func (f *File) ReadU16BE() (uint16, error) { return readU16BE(f) }

// SeekBy moves by delta bytes. A forward seek past the buffered window, or
// a backward seek before it, drops the window and performs a native seek.
func (f *File) SeekBy(delta int64) error {
	target := f.base + int64(f.pos) + delta
	windowStart := f.base
	windowEnd := f.base + int64(f.end)
	if target >= windowStart && target <= windowEnd {
		f.pos = int(target - f.base)
		return nil
	}
	if _, err := f.r.Seek(target, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	f.base = target
	f.pos = 0
	f.end = 0
	return nil
}
