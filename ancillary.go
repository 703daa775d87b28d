package png

import (
	"time"

	"github.com/gopng/decode/internal/chunk"
	"github.com/gopng/decode/internal/processor"
)

// PhysData is pHYs's pixel-density record.
type PhysData struct {
	PixelsPerUnitX uint32
	PixelsPerUnitY uint32
	Unit           processor.PhysUnit
}

// BackgroundData is bKGD's default background color, in whichever fields
// the image's color type populates.
type BackgroundData struct {
	ColorType    chunk.ColorType
	PaletteIndex uint8
	Gray         uint16
	Red          uint16
	Green        uint16
	Blue         uint16
}

// Ancillary collects the output of any supplemented ancillary-chunk
// processors (gAMA/pHYs/tIME/tEXt/zTXt/bKGD) that were present in
// Options.Processors and matched a chunk in the stream. Fields are nil or
// empty when no such processor was installed or no matching chunk was
// present — none of this affects pixel contents.
type Ancillary struct {
	Gamma         *float64
	PixelsPerUnit *PhysData
	ModTime       *time.Time
	Text          []processor.TextEntry
	Background    *BackgroundData
}

// collectAncillary inspects the installed processors for the built-in
// ancillary kinds and copies out whatever they accumulated.
func collectAncillary(colorType chunk.ColorType, procs []processor.Processor) Ancillary {
	var a Ancillary
	copied := map[*[]processor.TextEntry]bool{}
	for _, p := range procs {
		switch v := p.(type) {
		case *processor.Gama:
			if v.Value != 0 {
				g := float64(v.Value) / 100000.0
				a.Gamma = &g
			}
		case *processor.Phys:
			if v.PixelsPerUnitX != 0 || v.PixelsPerUnitY != 0 {
				a.PixelsPerUnit = &PhysData{
					PixelsPerUnitX: v.PixelsPerUnitX,
					PixelsPerUnitY: v.PixelsPerUnitY,
					Unit:           v.Unit,
				}
			}
		case *processor.Time:
			if !v.Value.IsZero() {
				t := v.Value
				a.ModTime = &t
			}
		case *processor.Text:
			if !copied[v.Entries] {
				copied[v.Entries] = true
				a.Text = append(a.Text, *v.Entries...)
			}
		case *processor.Ztxt:
			// Text and Ztxt share the same *[]TextEntry when wired
			// together, so each distinct slice is copied only once; if
			// only Ztxt is installed this still surfaces its entries.
			if !copied[v.Entries] {
				copied[v.Entries] = true
				a.Text = append(a.Text, *v.Entries...)
			}
		case *processor.Bkgd:
			if v.PaletteIndex != 0 || v.Gray != 0 || v.Red != 0 || v.Green != 0 || v.Blue != 0 {
				a.Background = &BackgroundData{
					ColorType:    colorType,
					PaletteIndex: v.PaletteIndex,
					Gray:         v.Gray,
					Red:          v.Red,
					Green:        v.Green,
					Blue:         v.Blue,
				}
			}
		}
	}
	return a
}
