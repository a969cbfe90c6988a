package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabmap-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabmap configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		fmt.Printf("delimiter: %q\n", c.Delimiter)
		fmt.Printf("encoding: %s\n", c.Encoding)
		fmt.Printf("has_header: %t\n", c.HasHeader)
		fmt.Printf("start_row: %d\n", c.StartRow)
		if c.Sheet != "" {
			fmt.Printf("sheet: %s\n", c.Sheet)
		}
		fmt.Printf("grouping_mode: %s\n", c.GroupingMode)
		fmt.Printf("bins: %d\n", c.Bins)
		fmt.Printf("end_color: %s\n", c.EndColor)
		fmt.Printf("jenks_max_samples: %d\n", c.JenksMaxSamples)
		fmt.Printf("single_color: %s\n", c.SingleColor)
		fmt.Printf("opacity: %d\n", c.Opacity)
		fmt.Printf("output_format: %s\n", c.OutputFormat)
		fmt.Printf("sample_rows: %d\n", c.SampleRows)
		fmt.Printf("log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// edit a copy so a rejected value never reaches disk
		c := *settings()
		switch key {
		case "delimiter":
			c.Delimiter = val
		case "encoding":
			c.Encoding = strings.ToLower(val)
		case "has_header":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for has_header: %v", val)
			}
			c.HasHeader = b
		case "start_row":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for start_row: %w", err)
			}
			c.StartRow = i
		case "sheet":
			c.Sheet = val
		case "grouping_mode":
			c.GroupingMode = strings.ToLower(val)
		case "bins":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for bins: %w", err)
			}
			c.Bins = i
		case "end_color":
			c.EndColor = val
		case "jenks_max_samples":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for jenks_max_samples: %w", err)
			}
			c.JenksMaxSamples = i
		case "single_color":
			c.SingleColor = val
		case "opacity":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for opacity: %w", err)
			}
			c.Opacity = i
		case "output_format":
			c.OutputFormat = strings.ToLower(val)
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			c.SampleRows = i
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&c, cfgFile); err != nil {
			return err
		}
		cfg = &c
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
