package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/autolysis/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set autolysis configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := effectiveConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "output_root: %s\n", c.OutputRoot)
		if c.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", c.Delimiter)
		}
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %q\n", c.DecimalSeparator)
		}
		if c.ThousandsSeparator != "" {
			fmt.Fprintf(out, "thousands_separator: %q\n", c.ThousandsSeparator)
		}
		fmt.Fprintf(out, "locale_numbers: %t\n", c.LocaleNumbers)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_encoding: %s\n", c.LogEncoding)
		fmt.Fprintf(out, "dpi: %g\n", c.DPI)
		fmt.Fprintf(out, "heatmap_width_in: %g\n", c.HeatmapWidthIn)
		fmt.Fprintf(out, "heatmap_height_in: %g\n", c.HeatmapHeightIn)
		fmt.Fprintf(out, "dist_width_in: %g\n", c.DistWidthIn)
		fmt.Fprintf(out, "dist_height_in: %g\n", c.DistHeightIn)
		fmt.Fprintf(out, "kde_grid_size: %d\n", c.KDEGridSize)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := *effectiveConfig()
		if err := setKey(&c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&c, cfgFile); err != nil {
			return err
		}
		cfg = &c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "output_root":
		c.OutputRoot = val
	case "delimiter":
		c.Delimiter = val
	case "decimal_separator":
		c.DecimalSeparator = val
	case "thousands_separator":
		c.ThousandsSeparator = val
	case "locale_numbers":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for locale_numbers: %w", err)
		}
		c.LocaleNumbers = b
	case "log_level":
		c.LogLevel = val
	case "log_encoding":
		c.LogEncoding = val
	case "dpi", "heatmap_width_in", "heatmap_height_in", "dist_width_in", "dist_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		switch key {
		case "dpi":
			c.DPI = f
		case "heatmap_width_in":
			c.HeatmapWidthIn = f
		case "heatmap_height_in":
			c.HeatmapHeightIn = f
		case "dist_width_in":
			c.DistWidthIn = f
		case "dist_height_in":
			c.DistHeightIn = f
		}
	case "kde_grid_size":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for kde_grid_size: %w", err)
		}
		c.KDEGridSize = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
