package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// LoadOptions controls how a delimited file is parsed into a Table.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv paths and ',' otherwise.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// LocaleNumbers enables separator auto-detection and percent stripping.
	// Without it and without configured separators only plain numbers parse.
	LocaleNumbers bool
}

// DefaultLoadOptions returns the options used when nothing is configured.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{}
}

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Column is a named vector of cells with an inferred kind.
type Column struct {
	Name string
	Kind Kind
	// Integer is set for numeric columns whose cells are all present whole numbers.
	Integer bool
	// Nums holds parsed values for numeric columns; NaN where missing.
	Nums []float64
	// Texts holds the raw cell text as read.
	Texts []string
	Valid []bool
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.Valid) }

// NonNull counts present cells.
func (c *Column) NonNull() int {
	n := 0
	for _, ok := range c.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Missing counts missing cells.
func (c *Column) Missing() int { return c.Len() - c.NonNull() }

// IsNumeric reports whether the column takes part in statistics and plots.
func (c *Column) IsNumeric() bool { return c.Kind == KindNumeric }

// DType names the column type the way pandas reports it.
func (c *Column) DType() string {
	switch {
	case c.Kind != KindNumeric:
		return "object"
	case c.Integer:
		return "int64"
	default:
		return "float64"
	}
}

// Values returns the present numeric values in row order.
func (c *Column) Values() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Table is a loaded dataset. It is not modified after LoadCSV returns.
type Table struct {
	Name    string
	Rows    int
	Columns []*Column
}

// NumericColumns returns numeric columns in table order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// LoadError reports a file that could not be read into a Table.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadCSV parses a delimited file with a header row into a Table.
// Any failure yields a *LoadError and no table.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	t, err := loadCSV(path, opt)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

func loadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	r.Comma = delim
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no columns to parse from file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkUTF8(header, 1); err != nil {
		return nil, err
	}
	names := headerNames(header)
	ncol := len(names)

	cells := make([][]string, ncol)
	rows := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		rows++
		line, _ := r.FieldPos(0)
		if len(rec) > ncol {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", ncol, line, len(rec))
		}
		if err := checkUTF8(rec, line); err != nil {
			return nil, err
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = rec[j]
			}
			cells[j] = append(cells[j], v)
		}
	}

	t := &Table{Name: filepath.Base(path), Rows: rows, Columns: make([]*Column, ncol)}
	for j, name := range names {
		t.Columns[j] = buildColumn(name, cells[j], t.Rows, opt)
	}
	return t, nil
}

// buildColumn decides the column kind by predominant parsed type. Unparseable
// cells in a numeric column are treated as missing.
func buildColumn(name string, raw []string, rows int, opt LoadOptions) *Column {
	c := &Column{
		Name:  name,
		Texts: make([]string, rows),
		Valid: make([]bool, rows),
	}
	nums := make([]float64, rows)
	parsed := make([]bool, rows)
	var numCnt, txtCnt int
	allInt := true
	for i, s := range raw {
		c.Texts[i] = s
		v := strings.TrimSpace(s)
		if isNA(v) {
			allInt = false
			continue
		}
		if x, ok := parseNumeric(v, opt); ok {
			nums[i] = x
			parsed[i] = true
			numCnt++
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
			continue
		}
		txtCnt++
	}

	numeric := (numCnt > 0 && numCnt >= txtCnt) || (rows > 0 && numCnt == 0 && txtCnt == 0)
	if !numeric {
		c.Kind = KindText
		for i, s := range raw {
			c.Valid[i] = !isNA(strings.TrimSpace(s))
		}
		return c
	}

	c.Kind = KindNumeric
	c.Integer = rows > 0 && numCnt == rows && allInt
	for i := range nums {
		if parsed[i] {
			c.Valid[i] = true
		} else {
			nums[i] = math.NaN()
		}
	}
	c.Nums = nums
	return c
}

// naTokens are the cell values read as missing, besides the empty string.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

func isNA(v string) bool {
	if v == "" {
		return true
	}
	_, ok := naTokens[v]
	return ok
}

// headerNames cleans header cells: strips a BOM, names blank headers
// "Unnamed: i" and suffixes duplicates with ".1", ".2", ...
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if k, dup := seen[name]; dup {
			base := name
			for {
				k++
				name = fmt.Sprintf("%s.%d", base, k)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = k
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func checkUTF8(rec []string, line int) error {
	for _, s := range rec {
		if !utf8.ValidString(s) {
			return fmt.Errorf("invalid UTF-8 in line %d", line)
		}
	}
	return nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	if !opt.LocaleNumbers && opt.DecimalSeparator == 0 && opt.ThousandsSeparator == 0 {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
