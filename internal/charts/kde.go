package charts

import (
	"math"
	"sort"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
)

// histogramBins splits vals into equal-width bins using numpy's "auto" rule:
// the narrower of the Sturges and Freedman-Diaconis widths. A constant sample
// gets one unit-wide bin centred on the value.
func histogramBins(vals []float64) ([]plotter.HistogramBin, float64) {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	nb := 1
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	} else {
		nb = autoBinCount(sorted)
	}
	width := (hi - lo) / float64(nb)

	bins := make([]plotter.HistogramBin, nb)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	bins[nb-1].Max = hi
	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= nb {
			idx = nb - 1
		} else if idx < 0 {
			idx = 0
		}
		bins[idx].Weight++
	}
	return bins, width
}

// maxHistogramBins bounds the bin count when a narrow IQR meets a far outlier.
const maxHistogramBins = 10000

func autoBinCount(sorted []float64) int {
	n := float64(len(sorted))
	span := sorted[len(sorted)-1] - sorted[0]
	w := span / (math.Log2(n) + 1)
	iqr := analysis.Quantile(sorted, 0.75) - analysis.Quantile(sorted, 0.25)
	if fd := 2 * iqr * math.Pow(n, -1.0/3); fd > 0 && fd < w {
		w = fd
	}
	nb := math.Ceil(span / w)
	switch {
	case math.IsNaN(nb) || nb < 1:
		return 1
	case nb > maxHistogramBins:
		return maxHistogramBins
	}
	return int(nb)
}

// kdeCurve evaluates a Gaussian kernel density estimate (Scott's bandwidth)
// on gridSize points across the data range, scaled by n*binWidth so it
// overlays a count histogram. It returns nil when no density is defined.
func kdeCurve(vals []float64, binWidth float64, gridSize int) plotter.XYs {
	n := len(vals)
	if n < 2 || gridSize < 2 {
		return nil
	}
	sd := stat.StdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	kernel := distuv.Normal{Mu: 0, Sigma: sd * math.Pow(float64(n), -0.2)}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	scale := binWidth
	xys := make(plotter.XYs, gridSize)
	for i := range xys {
		x := lo + (hi-lo)*float64(i)/float64(gridSize-1)
		var sum float64
		for _, v := range vals {
			sum += kernel.Prob(x - v)
		}
		xys[i].X = x
		xys[i].Y = sum * scale
	}
	return xys
}
