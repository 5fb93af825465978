package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats holds descriptive statistics for one numeric column.
// Undefined values (empty column, single value std) are NaN.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Describe computes ColumnStats for every numeric column in table order.
func Describe(t *Table) []ColumnStats {
	cols := t.NumericColumns()
	out := make([]ColumnStats, 0, len(cols))
	for _, c := range cols {
		out = append(out, describeValues(c.Name, c.Values()))
	}
	return out
}

func describeValues(name string, vals []float64) ColumnStats {
	nan := math.NaN()
	s := ColumnStats{Name: name, Count: len(vals), Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	if len(vals) == 0 {
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.P25 = Quantile(sorted, 0.25)
	s.P50 = Quantile(sorted, 0.50)
	s.P75 = Quantile(sorted, 0.75)
	return s
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Size returns the number of columns (and rows) in the matrix.
func (m *CorrMatrix) Size() int { return len(m.Columns) }

// Correlate computes pairwise-complete Pearson correlations: for each pair only
// rows where both columns are present are used. Pairs with fewer than two such
// rows or zero variance are NaN.
func Correlate(t *Table) *CorrMatrix {
	cols := t.NumericColumns()
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := pearson(cols[a], cols[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func pearson(a, b *Column) float64 {
	var xs, ys []float64
	for i := range a.Nums {
		if i < len(b.Nums) && a.Valid[i] && b.Valid[i] {
			xs = append(xs, a.Nums[i])
			ys = append(ys, b.Nums[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Quantile interpolates linearly between closest ranks at q*(n-1).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
