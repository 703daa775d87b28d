package png

import "github.com/gopng/decode/internal/processor"

// Processor is the type Options.Processors holds: a value offering any
// of the chunk/palette/row hooks the decoder dispatches, identified by
// the chunk tag it wants to be offered.
type Processor = processor.Processor

// TextEntry is one keyword/text pair, decoded from either tEXt or zTXt.
type TextEntry = processor.TextEntry

// NewTransparencyProcessor returns the built-in tRNS processor (already
// included by WithDefaults).
func NewTransparencyProcessor() Processor { return processor.NewTrns() }

// NewPaletteProcessor returns the built-in PLTE expansion processor
// (already included by WithDefaults).
func NewPaletteProcessor() Processor { return processor.NewPlte() }

// NewGammaProcessor surfaces a gAMA chunk's value via the decode's
// returned Ancillary.Gamma.
func NewGammaProcessor() Processor { return processor.NewGama() }

// NewPhysicalDimensionsProcessor surfaces a pHYs chunk via
// Ancillary.PixelsPerUnit.
func NewPhysicalDimensionsProcessor() Processor { return processor.NewPhys() }

// NewModTimeProcessor surfaces a tIME chunk via Ancillary.ModTime.
func NewModTimeProcessor() Processor { return processor.NewTime() }

// NewTextProcessor and NewCompressedTextProcessor surface tEXt/zTXt
// chunks via Ancillary.Text. Pass the same *[]TextEntry to both so that
// keyword/text pairs from either chunk type land in one ordered list.
func NewTextProcessor(entries *[]TextEntry) Processor { return processor.NewText(entries) }
func NewCompressedTextProcessor(entries *[]TextEntry) Processor { return processor.NewZtxt(entries) }

// NewBackgroundProcessor surfaces a bKGD chunk via Ancillary.Background.
func NewBackgroundProcessor() Processor { return processor.NewBkgd() }
