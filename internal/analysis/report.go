package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/autolysis/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ReportFileName is the name of the Markdown report inside the output directory.
const ReportFileName = "README.md"

// Section headings, in the order they appear in the report.
const (
	HeadingOverview = "## Data Overview"
	HeadingInfo     = "### Data Info"
	HeadingStats    = "### Summary Statistics"
	HeadingMissing  = "### Missing Values"
)

// WriteReport renders the report for t and writes it to dir, replacing any
// previous report. It returns the written path.
func WriteReport(t *Table, dir string) (string, error) {
	path := filepath.Join(dir, ReportFileName)
	if err := utils.SafeWriteFile(path, []byte(RenderReport(t))); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// RenderReport builds the Markdown report: structural info, descriptive
// statistics for numeric columns and per-column missing counts.
func RenderReport(t *Table) string {
	var b strings.Builder
	b.WriteString(HeadingOverview + "\n")

	b.WriteString(HeadingInfo + "\n")
	writeInfo(&b, t)
	b.WriteString("\n")

	b.WriteString(HeadingStats + "\n")
	writeStats(&b, Describe(t))
	b.WriteString("\n")

	b.WriteString(HeadingMissing + "\n")
	writeMissing(&b, t)
	b.WriteString("\n")
	return b.String()
}

func writeInfo(b *strings.Builder, t *Table) {
	if t.Rows > 0 {
		b.WriteString(fmt.Sprintf("RangeIndex: %d entries, 0 to %d\n", t.Rows, t.Rows-1))
	} else {
		b.WriteString("RangeIndex: 0 entries\n")
	}
	b.WriteString(fmt.Sprintf("Data columns (total %d columns):\n\n", len(t.Columns)))
	if len(t.Columns) == 0 {
		return
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Column", "Non-Null Count", "Dtype"})
	tally := map[string]int{}
	for i, c := range t.Columns {
		tw.AppendRow(table.Row{i, c.Name, fmt.Sprintf("%d non-null", c.NonNull()), c.DType()})
		tally[c.DType()]++
	}
	b.WriteString(tw.RenderMarkdown())
	b.WriteString("\n\n")

	kinds := make([]string, 0, len(tally))
	for k := range tally {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s(%d)", k, tally[k])
	}
	b.WriteString("dtypes: " + strings.Join(parts, ", ") + "\n")
}

func writeStats(b *strings.Builder, stats []ColumnStats) {
	if len(stats) == 0 {
		b.WriteString("_No numeric columns._\n")
		return
	}
	header := table.Row{""}
	for _, s := range stats {
		header = append(header, s.Name)
	}
	tw := table.NewWriter()
	tw.AppendHeader(header)
	rows := []struct {
		label string
		get   func(ColumnStats) float64
	}{
		{"count", func(s ColumnStats) float64 { return float64(s.Count) }},
		{"mean", func(s ColumnStats) float64 { return s.Mean }},
		{"std", func(s ColumnStats) float64 { return s.Std }},
		{"min", func(s ColumnStats) float64 { return s.Min }},
		{"25%", func(s ColumnStats) float64 { return s.P25 }},
		{"50%", func(s ColumnStats) float64 { return s.P50 }},
		{"75%", func(s ColumnStats) float64 { return s.P75 }},
		{"max", func(s ColumnStats) float64 { return s.Max }},
	}
	for _, r := range rows {
		row := table.Row{r.label}
		for _, s := range stats {
			row = append(row, formatStat(r.get(s)))
		}
		tw.AppendRow(row)
	}
	b.WriteString(tw.RenderMarkdown())
	b.WriteString("\n")
}

func writeMissing(b *strings.Builder, t *Table) {
	if len(t.Columns) == 0 {
		b.WriteString("_No columns._\n")
		return
	}
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Column", "Missing"})
	for _, c := range t.Columns {
		tw.AppendRow(table.Row{c.Name, c.Missing()})
	}
	b.WriteString(tw.RenderMarkdown())
	b.WriteString("\n")
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}
