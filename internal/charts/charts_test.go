package charts

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTable(t *testing.T, lines ...string) *analysis.Table {
	t.Helper()
	p := filepath.Join(t.TempDir(), "happiness.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	tbl, err := analysis.LoadCSV(p, analysis.DefaultLoadOptions())
	require.NoError(t, err)
	return tbl
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestHeatmapWritesPNG(t *testing.T) {
	tbl := loadTable(t, "Country,Score,GDP", "A,7.5,1.2", "B,6.1,0.9", "C,5.0,0.4", "D,,0.7")
	dir := t.TempDir()

	path, err := Heatmap(tbl, dir, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, HeatmapFileName), path)
	w, h := decodeSize(t, path)
	assert.Equal(t, 1000, w)
	assert.Equal(t, 800, h)
}

func TestHeatmapDegenerateTables(t *testing.T) {
	cases := map[string]*analysis.Table{
		"no numeric":  loadTable(t, "name,city", "a,x", "b,y"),
		"one numeric": loadTable(t, "name,v", "a,1", "b,2"),
		"constant":    loadTable(t, "x,y", "1,5", "2,5", "3,5"),
	}
	for name, tbl := range cases {
		t.Run(name, func(t *testing.T) {
			path, err := Heatmap(tbl, t.TempDir(), DefaultOptions())
			require.NoError(t, err)
			w, h := decodeSize(t, path)
			assert.Equal(t, 1000, w)
			assert.Equal(t, 800, h)
		})
	}
}

func TestDistributionWritesPNG(t *testing.T) {
	tbl := loadTable(t, "Country,Life Ladder", "A,7.5", "B,6.1", "C,5.0", "D,", "E,4.2")
	col := tbl.Columns[1]
	dir := t.TempDir()

	path, err := Distribution(col, dir, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Life Ladder_distribution.png"), path)
	w, h := decodeSize(t, path)
	assert.Equal(t, 800, w)
	assert.Equal(t, 500, h)
}

func TestDistributionEdgeColumns(t *testing.T) {
	tbl := loadTable(t, "empty,single,flat,name", ",3,2,a", ",,2,b")
	for _, c := range tbl.Columns[:3] {
		path, err := Distribution(c, t.TempDir(), DefaultOptions())
		require.NoError(t, err, c.Name)
		assert.FileExists(t, path)
	}
	_, err := Distribution(tbl.Columns[3], t.TempDir(), DefaultOptions())
	assert.Error(t, err)
}

func TestRenderingIsDeterministic(t *testing.T) {
	tbl := loadTable(t, "a,b", "1,2", "2,1", "3,5", "4,3")
	d1, d2 := t.TempDir(), t.TempDir()
	p1, err := Heatmap(tbl, d1, DefaultOptions())
	require.NoError(t, err)
	p2, err := Heatmap(tbl, d2, DefaultOptions())
	require.NoError(t, err)
	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	assert.True(t, bytes.Equal(b1, b2))

	q1, err := Distribution(tbl.Columns[0], d1, DefaultOptions())
	require.NoError(t, err)
	q2, err := Distribution(tbl.Columns[0], d2, DefaultOptions())
	require.NoError(t, err)
	b1, _ = os.ReadFile(q1)
	b2, _ = os.ReadFile(q2)
	assert.True(t, bytes.Equal(b1, b2))
}

func TestDistributionFileName(t *testing.T) {
	assert.Equal(t, "Score_distribution.png", DistributionFileName("Score"))
	assert.Equal(t, "a_b_distribution.png", DistributionFileName("a/b"))
}

func TestHistogramBins(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bins, width := histogramBins(vals)
	require.Len(t, bins, 5)
	assert.InDelta(t, 1.8, width, 1e-12)
	assert.Equal(t, 1.0, bins[0].Min)
	assert.Equal(t, 10.0, bins[4].Max)
	var total float64
	for _, b := range bins {
		total += b.Weight
	}
	assert.Equal(t, 10.0, total)

	bins, width = histogramBins([]float64{3, 3, 3})
	require.Len(t, bins, 1)
	assert.Equal(t, 1.0, width)
	assert.Equal(t, 2.5, bins[0].Min)
	assert.Equal(t, 3.5, bins[0].Max)
	assert.Equal(t, 3.0, bins[0].Weight)
}

func TestHistogramBinsCappedForOutliers(t *testing.T) {
	vals := make([]float64, 0, 1001)
	for i := 0; i < 1000; i++ {
		vals = append(vals, float64(i)*1e-6)
	}
	vals = append(vals, 1e6)

	bins, width := histogramBins(vals)
	require.Len(t, bins, maxHistogramBins)
	assert.InDelta(t, 1e6/maxHistogramBins, width, 1e-6)
	var total float64
	for _, b := range bins {
		total += b.Weight
	}
	assert.Equal(t, 1001.0, total)
	assert.Equal(t, 1.0, bins[maxHistogramBins-1].Weight)
}

func TestDistributionWithFarOutlier(t *testing.T) {
	lines := []string{"Country,score"}
	for i := 0; i < 1000; i++ {
		lines = append(lines, fmt.Sprintf("c%d,%g", i, float64(i)*1e-6))
	}
	lines = append(lines, "big,1000000")
	tbl := loadTable(t, lines...)

	path, err := Distribution(tbl.Columns[1], t.TempDir(), DefaultOptions())
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestKDECurve(t *testing.T) {
	assert.Nil(t, kdeCurve([]float64{1}, 1, 200))
	assert.Nil(t, kdeCurve([]float64{2, 2, 2}, 1, 200))

	vals := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	xys := kdeCurve(vals, 1, 50)
	require.Len(t, xys, 50)
	assert.Equal(t, 1.0, xys[0].X)
	assert.InDelta(t, 5.0, xys[49].X, 1e-12)
	peak := 0
	for i, p := range xys {
		assert.False(t, math.IsNaN(p.Y))
		if p.Y > xys[peak].Y {
			peak = i
		}
	}
	assert.InDelta(t, 3.0, xys[peak].X, 0.1)
}
