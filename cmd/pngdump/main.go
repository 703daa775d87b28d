// Command pngdump reports header fields, the ancillary chunks a PNG file
// carries, and (optionally) a pixel-stride summary. It is a thin external
// consumer of the decoder — no diagnostics of this kind are written by
// the library itself.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	png "github.com/gopng/decode"
)

var (
	headerOnly bool
	showStride bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pngdump [file]",
		Short: "Dump PNG header fields, ancillary chunks, and pixel layout",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "report only the IHDR fields")
	cmd.Flags().BoolVar(&showStride, "stride", false, "include the decoded row-stride summary")
	return cmd
}

func runDump(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := png.FromFile(f)
	hdr, err := r.LoadHeader()
	if err != nil {
		return err
	}
	fmt.Printf("width=%d height=%d bit_depth=%d color_type=%d interlace=%d\n",
		hdr.Width, hdr.Height, hdr.BitDepth, hdr.ColorType, hdr.Interlace)
	if headerOnly {
		return nil
	}

	var textEntries []png.TextEntry
	opts := png.WithDefaults()
	opts.Processors = append(opts.Processors,
		png.NewGammaProcessor(),
		png.NewPhysicalDimensionsProcessor(),
		png.NewModTimeProcessor(),
		png.NewTextProcessor(&textEntries),
		png.NewCompressedTextProcessor(&textEntries),
		png.NewBackgroundProcessor(),
	)

	storage, anc, err := r.LoadWithHeader(hdr, opts)
	if err != nil {
		return err
	}
	fmt.Printf("pixel_format=%s pixel_count=%d\n", storage.Format, storage.Len())
	if showStride {
		fmt.Printf("row_stride=%d\n", storage.RowStride(int(hdr.Width)))
	}
	if anc.Gamma != nil {
		fmt.Printf("gamma=%v\n", *anc.Gamma)
	}
	if anc.PixelsPerUnit != nil {
		fmt.Printf("pixels_per_unit=%d,%d unit=%d\n",
			anc.PixelsPerUnit.PixelsPerUnitX, anc.PixelsPerUnit.PixelsPerUnitY, anc.PixelsPerUnit.Unit)
	}
	if anc.ModTime != nil {
		fmt.Printf("mod_time=%s\n", anc.ModTime.Format("2006-01-02T15:04:05Z"))
	}
	for _, t := range anc.Text {
		fmt.Printf("text[%s]=%q\n", t.Keyword, t.Text)
	}
	if anc.Background != nil {
		fmt.Printf("background=%+v\n", *anc.Background)
	}
	return nil
}
