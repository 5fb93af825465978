// Package charts renders the correlation heatmap and per-column distribution
// plots as PNG files.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/KaramelBytes/autolysis/internal/utils"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Options controls figure geometry and curve resolution.
type Options struct {
	DPI           int
	HeatmapWidth  vg.Length
	HeatmapHeight vg.Length
	DistWidth     vg.Length
	DistHeight    vg.Length
	KDEGridSize   int
}

// DefaultOptions mirrors the 10x8 and 8x5 inch figures at 100 DPI.
func DefaultOptions() Options {
	return Options{
		DPI:           100,
		HeatmapWidth:  10 * vg.Inch,
		HeatmapHeight: 8 * vg.Inch,
		DistWidth:     8 * vg.Inch,
		DistHeight:    5 * vg.Inch,
		KDEGridSize:   200,
	}
}

var (
	barColor  = color.NRGBA{R: 31, G: 119, B: 180, A: 150}
	lineColor = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
)

// savePNG draws onto a w x h image canvas and atomically writes it to path.
// Panics raised by plotters while drawing are returned as errors.
func savePNG(path string, w, h vg.Length, dpi int, paint func(dc draw.Canvas)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw %s: %v", filepath.Base(path), r)
		}
	}()
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	paint(draw.New(img))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
