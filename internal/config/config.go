package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// OutputRoot is the directory under which dataset output directories are created.
	OutputRoot string `mapstructure:"output_root" yaml:"output_root"`

	// CSV parsing
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	// LocaleNumbers reads "1.234,5" and "7%" style cells as numbers.
	LocaleNumbers bool `mapstructure:"locale_numbers" yaml:"locale_numbers"`

	// Logging
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogEncoding string `mapstructure:"log_encoding" yaml:"log_encoding"`

	// Rendering
	DPI             float64 `mapstructure:"dpi" yaml:"dpi"`
	HeatmapWidthIn  float64 `mapstructure:"heatmap_width_in" yaml:"heatmap_width_in"`
	HeatmapHeightIn float64 `mapstructure:"heatmap_height_in" yaml:"heatmap_height_in"`
	DistWidthIn     float64 `mapstructure:"dist_width_in" yaml:"dist_width_in"`
	DistHeightIn    float64 `mapstructure:"dist_height_in" yaml:"dist_height_in"`
	KDEGridSize     int     `mapstructure:"kde_grid_size" yaml:"kde_grid_size"`
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Global {
	return &Global{
		OutputRoot:      ".",
		LogLevel:        "warn",
		LogEncoding:     "console",
		DPI:             100,
		HeatmapWidthIn:  10,
		HeatmapHeightIn: 8,
		DistWidthIn:     8,
		DistHeightIn:    5,
		KDEGridSize:     200,
	}
}

// DefaultPath returns ~/.autolysis/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".autolysis", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.autolysis/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file (cfgFile or ~/.autolysis/config.yaml) > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOLYSIS")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("output_root", d.OutputRoot)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("decimal_separator", d.DecimalSeparator)
	v.SetDefault("thousands_separator", d.ThousandsSeparator)
	v.SetDefault("locale_numbers", d.LocaleNumbers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_encoding", d.LogEncoding)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("heatmap_width_in", d.HeatmapWidthIn)
	v.SetDefault("heatmap_height_in", d.HeatmapHeightIn)
	v.SetDefault("dist_width_in", d.DistWidthIn)
	v.SetDefault("dist_height_in", d.DistHeightIn)
	v.SetDefault("kde_grid_size", d.KDEGridSize)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".autolysis"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			// optional read
			_ = v.ReadInConfig()
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values that would make rendering impossible.
func (c *Global) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("invalid dpi: %v", c.DPI)
	}
	for name, v := range map[string]float64{
		"heatmap_width_in":  c.HeatmapWidthIn,
		"heatmap_height_in": c.HeatmapHeightIn,
		"dist_width_in":     c.DistWidthIn,
		"dist_height_in":    c.DistHeightIn,
	} {
		if v <= 0 {
			return fmt.Errorf("invalid %s: %v", name, v)
		}
	}
	if c.KDEGridSize < 2 {
		return fmt.Errorf("invalid kde_grid_size: %d", c.KDEGridSize)
	}
	switch c.Delimiter {
	case "", ",", ";", "\t", "tab":
	default:
		return fmt.Errorf("unsupported delimiter: %s", c.Delimiter)
	}
	switch c.DecimalSeparator {
	case "", ".", ",", "dot", "comma":
	default:
		return fmt.Errorf("unsupported decimal_separator: %s (use '.'|'comma')", c.DecimalSeparator)
	}
	switch c.ThousandsSeparator {
	case "", ",", ".", " ", "space":
	default:
		return fmt.Errorf("unsupported thousands_separator: %s (use ','|'.'|'space')", c.ThousandsSeparator)
	}
	return nil
}

// DelimiterRune maps the configured delimiter to a rune; 0 means sniff.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case ",":
		return ','
	case ";":
		return ';'
	case "\t", "tab":
		return '\t'
	}
	return 0
}

// DecimalRune maps the configured decimal separator to a rune; 0 means auto-detect.
func (c *Global) DecimalRune() rune {
	switch c.DecimalSeparator {
	case ",", "comma":
		return ','
	case ".", "dot":
		return '.'
	}
	return 0
}

// ThousandsRune maps the configured thousands separator to a rune; 0 means auto-detect.
func (c *Global) ThousandsRune() rune {
	switch c.ThousandsSeparator {
	case ",":
		return ','
	case ".":
		return '.'
	case " ", "space":
		return ' '
	}
	return 0
}
