package idat

import (
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Inflater drives decompression of the zlib-wrapped IDAT payload. It is a
// thin wrapper around klauspost/compress/zlib's reader (a drop-in,
// allocation-conscious replacement for compress/zlib), matching the
// external inflate-driver contract spec.md §4.4 describes: construct
// around the IDAT sub-stream, repeated Read calls return decompressed
// bytes, zero only at genuine end of stream, malformed data reports
// InvalidData.
type Inflater struct {
	r io.ReadCloser
}

// NewInflater wraps stream with a zlib reader.
func NewInflater(stream *Stream) (*Inflater, error) {
	r, err := zlib.NewReader(stream)
	if err != nil {
		return nil, errors.Wrap(err, "idat: malformed zlib stream")
	}
	return &Inflater{r: r}, nil
}

// Read returns up to len(dst) decompressed bytes.
func (i *Inflater) Read(dst []byte) (int, error) {
	n, err := i.r.Read(dst)
	if err != nil && err != io.EOF {
		return n, errors.Wrap(err, "idat: malformed compressed data")
	}
	return n, err
}

// Close releases the zlib reader's resources.
func (i *Inflater) Close() error { return i.r.Close() }
