package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/autolysis/internal/analysis"
	"github.com/KaramelBytes/autolysis/internal/charts"
	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
	"github.com/KaramelBytes/autolysis/internal/dataset"
	"github.com/KaramelBytes/autolysis/internal/logging"
	"github.com/KaramelBytes/autolysis/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "autolysis <dataset.csv>",
	Short: "Exploratory analysis of a CSV dataset",
	Long: `autolysis loads goodreads, happiness or media CSV data and writes a Markdown
summary, a correlation heatmap and per-column distribution plots into a
directory named after the dataset.

The names "config" and "help" are subcommands and are never read as a dataset
path; pass such a file with a directory prefix, e.g. ./config.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return &pipeline.UsageError{Got: len(args)}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		logger, err := newLogger(c)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		p := pipeline.New(pipelineOptions(c), logger, cmd.OutOrStdout())
		_, err = p.Run(args[0])
		return err
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.autolysis/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = cfgpkg.Default()
		return
	}
	cfg = c
}

func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

// printError maps a failed run to its user-facing message.
func printError(w io.Writer, err error) {
	var (
		usage   *pipeline.UsageError
		invalid *dataset.InvalidDatasetError
		load    *analysis.LoadError
	)
	switch {
	case errors.As(err, &usage):
		fmt.Fprintln(w, usage.Error())
	case errors.As(err, &invalid):
		fmt.Fprintln(w, invalid.Error())
	case errors.As(err, &load):
		fmt.Fprintln(w, "✗ Error loading data:", load.Err)
	default:
		fmt.Fprintln(w, "✗ Error:", err)
	}
}

func newLogger(c *cfgpkg.Global) (*zap.Logger, error) {
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	return logging.New(logging.Config{Level: level, Encoding: c.LogEncoding})
}

func pipelineOptions(c *cfgpkg.Global) pipeline.Options {
	return pipeline.Options{
		OutputRoot: c.OutputRoot,
		Load: analysis.LoadOptions{
			Delimiter:          c.DelimiterRune(),
			DecimalSeparator:   c.DecimalRune(),
			ThousandsSeparator: c.ThousandsRune(),
			LocaleNumbers:      c.LocaleNumbers,
		},
		Charts: charts.Options{
			DPI:           int(c.DPI),
			HeatmapWidth:  vg.Length(c.HeatmapWidthIn) * vg.Inch,
			HeatmapHeight: vg.Length(c.HeatmapHeightIn) * vg.Inch,
			DistWidth:     vg.Length(c.DistWidthIn) * vg.Inch,
			DistHeight:    vg.Length(c.DistHeightIn) * vg.Inch,
			KDEGridSize:   c.KDEGridSize,
		},
	}
}
