package charts

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg/draw"
)

// HeatmapFileName is the file written by Heatmap inside the output directory.
const HeatmapFileName = "correlation_heatmap.png"

// colorbarShare is the fraction of the figure width given to the colorbar.
const colorbarShare = 0.12

// Heatmap renders the pairwise correlation matrix of t's numeric columns as an
// annotated heatmap. With no numeric columns an empty titled figure is written.
func Heatmap(t *analysis.Table, dir string, opt Options) (string, error) {
	m := analysis.Correlate(t)
	main, bar, err := heatmapPlots(m)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, HeatmapFileName)
	err = savePNG(path, opt.HeatmapWidth, opt.HeatmapHeight, opt.DPI, func(dc draw.Canvas) {
		if bar == nil {
			main.Draw(dc)
			return
		}
		w := dc.Rectangle.Size().X
		bw := w * colorbarShare
		main.Draw(draw.Crop(dc, 0, -bw, 0, 0))
		bar.Draw(draw.Crop(dc, w-bw, 0, 0, 0))
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// corrGrid adapts a CorrMatrix to plotter.GridXYZ with the first column at
// the top-left, as correlation matrices are usually read.
type corrGrid struct {
	m *analysis.CorrMatrix
}

func (g corrGrid) Dims() (c, r int) { return g.m.Size(), g.m.Size() }
func (g corrGrid) Z(c, r int) float64 {
	return g.m.Values[g.m.Size()-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// Min and Max pin the palette to [-1, 1] so zero sits at the diverging midpoint.
func (g corrGrid) Min() float64 { return -1 }
func (g corrGrid) Max() float64 { return 1 }

func heatmapPlots(m *analysis.CorrMatrix) (*plot.Plot, *plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	n := m.Size()
	if n == 0 {
		p.HideAxes()
		return p, nil, nil
	}

	cm := divergingMap()
	hm := plotter.NewHeatMap(corrGrid{m: m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 230}

	xys := make(plotter.XYs, 0, n*n)
	labels := make([]string, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			labels = append(labels, annotation(m.Values[i][j]))
		}
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = text.XCenter
		lbl.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(hm, lbl)

	xt := make([]plot.Tick, n)
	yt := make([]plot.Tick, n)
	for i, name := range m.Columns {
		xt[i] = plot.Tick{Value: float64(i), Label: name}
		yt[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xt)
	p.Y.Tick.Marker = plot.ConstantTicks(yt)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	p.X.Padding = 0
	p.Y.Padding = 0

	bar := plot.New()
	bar.Title.Text = " "
	bar.HideX()
	bar.Y.Padding = 0
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: 255})
	return p, bar, nil
}

// divergingMap is a blue-white-red map spanning [-1, 1].
func divergingMap() palette.ColorMap {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm
}

func annotation(r float64) string {
	if math.IsNaN(r) {
		return "nan"
	}
	return fmt.Sprintf("%.2g", r)
}
