package charts

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DistributionFileName returns the image name for a column. Column names that
// differ only in characters replaced by utils.SafeFileName share a file name.
func DistributionFileName(column string) string {
	return utils.SafeFileName(column) + "_distribution.png"
}

// Distribution renders a histogram of c's present values with a kernel density
// curve scaled to counts. A column without values yields an empty titled frame.
func Distribution(c *analysis.Column, dir string, opt Options) (string, error) {
	if !c.IsNumeric() {
		return "", fmt.Errorf("column %q is not numeric", c.Name)
	}
	p, err := distributionPlot(c.Name, c.Values(), opt.KDEGridSize)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, DistributionFileName(c.Name))
	if err := savePNG(path, opt.DistWidth, opt.DistHeight, opt.DPI, p.Draw); err != nil {
		return "", err
	}
	return path, nil
}

func distributionPlot(name string, vals []float64, gridSize int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Distribution of " + name
	p.X.Label.Text = name
	p.Y.Label.Text = "Count"
	if len(vals) == 0 {
		return p, nil
	}

	bins, width := histogramBins(vals)
	h := &plotter.Histogram{Bins: bins, Width: width, FillColor: barColor}
	h.LineStyle = draw.LineStyle{Color: color.White, Width: vg.Points(0.5)}
	p.Add(h)

	if curve := kdeCurve(vals, width, gridSize); curve != nil {
		l, err := plotter.NewLine(curve)
		if err != nil {
			return nil, fmt.Errorf("kde line: %w", err)
		}
		l.Color = lineColor
		l.Width = vg.Points(2)
		p.Add(l)
	}
	return p, nil
}
