package png

import (
	"github.com/gopng/decode/internal/processor"
	"github.com/gopng/decode/internal/scratch"
)

// Options configures a decode: the scratch allocator used for bounded
// temporaries (the PLTE payload copy and the tRNS alpha table) and the
// ordered list of chunk/palette/row processors offered each matching
// chunk. The inflate reader's workspace and the Adam7 pass rows are
// allocated on the Go heap, not from Scratch.
type Options struct {
	Scratch    scratch.Allocator
	Processors []processor.Processor
}

// WithDefaults returns the library's shipped defaults: a fixed-size
// scratch arena (scratch.RequiredBytes, ~800 KiB) and the two-element
// processor list [Trns, Plte]. Callers wanting gAMA/pHYs/tIME/tEXt/bKGD
// surfaced append the corresponding New*Processor constructor's result
// (see processors.go) to Processors.
func WithDefaults() Options {
	return Options{
		Scratch: scratch.NewDefaultArena(),
		Processors: []processor.Processor{
			processor.NewTrns(),
			processor.NewPlte(),
		},
	}
}
