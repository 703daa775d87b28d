package png

import (
	"github.com/pkg/errors"

	"github.com/gopng/decode/internal/source"
)

// ErrInvalidData is the sentinel every structural decode failure wraps:
// bad signature, chunk ordering violations, CRC mismatches, invalid filter
// selectors, malformed compressed data, and the like.
var ErrInvalidData = errors.New("png: invalid data")

// ErrEndOfStream is returned when the source is exhausted before a
// required record completes. It is never recovered from; a truncated
// stream is always fatal.
var ErrEndOfStream = source.ErrEndOfStream

// FormatError carries structural-error detail while still satisfying
// errors.Is(err, ErrInvalidData), the way fumin-png's FormatError does for
// its own "invalid format" cases.
type FormatError string

func (e FormatError) Error() string { return "png: " + string(e) }

// Is reports that every FormatError value is an ErrInvalidData.
func (e FormatError) Is(target error) bool { return target == ErrInvalidData }

// classify turns an internal package error into the decoder's two
// observable kinds: ErrEndOfStream propagates unchanged (truncation is
// never recoverable), everything else becomes a stack-annotated
// FormatError/ErrInvalidData.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEndOfStream) {
		return err
	}
	return errors.WithStack(FormatError(err.Error()))
}
