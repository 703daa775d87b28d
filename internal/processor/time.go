package processor

import (
	stdtime "time"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

// Time records the tIME chunk's last-modification timestamp, in UTC per
// the chunk's own definition.
type Time struct {
	Value stdtime.Time
	seen  bool
}

// NewTime constructs a fresh tIME processor.
func NewTime() *Time { return &Time{} }

func (t *Time) ID() chunk.Tag { return chunk.TagTIME }

func (t *Time) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	if t.seen || ctx.Length != 7 {
		return ctx.CurrentFormat, ctx.Skip()
	}
	data, err := ctx.ReadPayload()
	if err != nil {
		return ctx.CurrentFormat, err
	}
	year := int(data[0])<<8 | int(data[1])
	t.Value = stdtime.Date(year, stdtime.Month(data[2]), int(data[3]),
		int(data[4]), int(data[5]), int(data[6]), 0, stdtime.UTC)
	t.seen = true
	return ctx.CurrentFormat, nil
}
