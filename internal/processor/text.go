package processor

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/pixfmt"
)

// TextEntry is one keyword/text pair, decoded from either tEXt or zTXt.
type TextEntry struct {
	Keyword string
	Text    string
}

// Text is the built-in processor for the uncompressed tEXt chunk. Entries
// point at a shared slice so that Text and Ztxt instances registered
// together accumulate into one ordered list.
type Text struct {
	Entries *[]TextEntry
}

// NewText constructs a tEXt processor appending into entries.
func NewText(entries *[]TextEntry) *Text { return &Text{Entries: entries} }

func (t *Text) ID() chunk.Tag { return chunk.TagTEXT }

func (t *Text) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	data, err := ctx.ReadPayload()
	if err != nil {
		return ctx.CurrentFormat, err
	}
	sep := bytes.IndexByte(data, 0)
	if sep < 0 {
		return ctx.CurrentFormat, errors.New("processor: tEXt missing keyword separator")
	}
	*t.Entries = append(*t.Entries, TextEntry{
		Keyword: string(data[:sep]),
		Text:    string(data[sep+1:]),
	})
	return ctx.CurrentFormat, nil
}

// Ztxt is the built-in processor for the zlib-compressed zTXt chunk.
type Ztxt struct {
	Entries *[]TextEntry
}

// NewZtxt constructs a zTXt processor appending into entries.
func NewZtxt(entries *[]TextEntry) *Ztxt { return &Ztxt{Entries: entries} }

func (z *Ztxt) ID() chunk.Tag { return chunk.TagZTXT }

func (z *Ztxt) ProcessChunk(ctx *ChunkContext) (pixfmt.Tag, error) {
	data, err := ctx.ReadPayload()
	if err != nil {
		return ctx.CurrentFormat, err
	}
	sep := bytes.IndexByte(data, 0)
	if sep < 0 || sep+1 >= len(data) {
		return ctx.CurrentFormat, errors.New("processor: zTXt missing keyword separator")
	}
	keyword := string(data[:sep])
	compressionMethod := data[sep+1]
	if compressionMethod != 0 {
		return ctx.CurrentFormat, errors.Errorf("processor: zTXt unknown compression method %d", compressionMethod)
	}
	zr, err := zlib.NewReader(bytes.NewReader(data[sep+2:]))
	if err != nil {
		return ctx.CurrentFormat, errors.Wrap(err, "processor: malformed zTXt stream")
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		return ctx.CurrentFormat, errors.Wrap(err, "processor: malformed zTXt stream")
	}
	*z.Entries = append(*z.Entries, TextEntry{Keyword: keyword, Text: string(text)})
	return ctx.CurrentFormat, nil
}
