// Package pipeline sequences one analysis run: resolve the dataset, load it,
// then write the report and charts into the dataset's output directory.
package pipeline

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/charts"
	"github.com/KaramelBytes/autolysis/internal/dataset"
	"github.com/KaramelBytes/autolysis/internal/utils"
	"go.uber.org/zap"
)

// Options configures a run.
type Options struct {
	// OutputRoot is the parent of the per-dataset output directory.
	OutputRoot string
	Load       analysis.LoadOptions
	Charts     charts.Options
}

// DefaultOptions writes under the current directory with default parsing and figures.
func DefaultOptions() Options {
	return Options{
		OutputRoot: ".",
		Load:       analysis.DefaultLoadOptions(),
		Charts:     charts.DefaultOptions(),
	}
}

// Result lists what a successful run produced.
type Result struct {
	Dataset       dataset.Dataset
	OutputDir     string
	Table         *analysis.Table
	Report        string
	Heatmap       string
	Distributions []string
}

// Pipeline runs the analysis stages in order. Notices go to out and
// diagnostics to the logger.
type Pipeline struct {
	opt Options
	log *zap.Logger
	out io.Writer
}

// New returns a Pipeline. A nil logger or writer discards output.
func New(opt Options, log *zap.Logger, out io.Writer) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{opt: opt, log: log, out: out}
}

type stage struct {
	name string
	run  func(t *analysis.Table, dir string, res *Result) error
}

// Run analyzes the dataset at path. An unrecognized path fails before anything
// is created on disk. Any stage failure aborts the run.
func (p *Pipeline) Run(path string) (*Result, error) {
	ds, err := dataset.Resolve(path)
	if err != nil {
		return nil, err
	}
	dir := ds.OutputDir(p.opt.OutputRoot)
	log := p.log.With(zap.String("dataset", ds.String()), zap.String("dir", dir))
	log.Debug("dataset resolved", zap.String("path", path))

	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	t, err := analysis.LoadCSV(path, p.opt.Load)
	if err != nil {
		return nil, err
	}
	log.Debug("data loaded", zap.Int("rows", t.Rows), zap.Int("columns", len(t.Columns)),
		zap.Int("numeric", len(t.NumericColumns())))
	p.notice("✓ Data loaded successfully.")

	res := &Result{Dataset: ds, OutputDir: dir, Table: t}
	stages := []stage{
		{"report", p.report},
		{"heatmap", p.heatmap},
		{"distributions", p.distributions},
	}
	for _, s := range stages {
		if err := s.run(t, dir, res); err != nil {
			log.Debug("stage failed", zap.String("stage", s.name), zap.Error(err))
			return nil, &RenderError{Stage: s.name, Err: err}
		}
	}
	log.Debug("run complete", zap.Int("artifacts", 2+len(res.Distributions)))
	return res, nil
}

func (p *Pipeline) report(t *analysis.Table, dir string, res *Result) error {
	p.notice("🔎 Performing data analysis...")
	path, err := analysis.WriteReport(t, dir)
	if err != nil {
		return err
	}
	res.Report = path
	p.log.Debug("report written", zap.String("artifact", path))
	p.notice("✓ Analysis results saved to " + analysis.ReportFileName)
	return nil
}

func (p *Pipeline) heatmap(t *analysis.Table, dir string, res *Result) error {
	path, err := charts.Heatmap(t, dir, p.opt.Charts)
	if err != nil {
		return err
	}
	res.Heatmap = path
	p.log.Debug("heatmap written", zap.String("artifact", path))
	p.notice("✓ Correlation heatmap saved.")
	return nil
}

func (p *Pipeline) distributions(t *analysis.Table, dir string, res *Result) error {
	for _, c := range t.NumericColumns() {
		path, err := charts.Distribution(c, dir, p.opt.Charts)
		if err != nil {
			return fmt.Errorf("column %q: %w", c.Name, err)
		}
		res.Distributions = append(res.Distributions, path)
		p.log.Debug("distribution written", zap.String("column", c.Name), zap.String("artifact", path))
		p.notice(fmt.Sprintf("✓ Distribution plot for %s saved.", c.Name))
	}
	return nil
}

func (p *Pipeline) notice(msg string) {
	fmt.Fprintln(p.out, msg)
}
