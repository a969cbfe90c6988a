package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabmap-cli/internal/config"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Loading flags (override config if set)
	flagDelimiter string
	flagEncoding  string
	flagNoHeader  bool
	flagStartRow  int
	flagSheet     string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tabmap",
	Short: "tabmap: classify table rows into colored groups for mapping",
	Long: `tabmap loads CSV and XLSX tables, infers column types, groups rows by
natural-break ranges or unique values, filters them with a small expression
language and writes styled GeoJSON or a Markdown legend.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.tabmap/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ';' | ',' | 'tab' | any single character (overrides config)")
	f.StringVar(&flagEncoding, "encoding", "", "CSV encoding: utf-8 | cp1251 (overrides config)")
	f.BoolVar(&flagNoHeader, "no-header", false, "first row is data; columns are named 'Column 0', 'Column 1', ...")
	f.IntVar(&flagStartRow, "start-row", 0, "1-based row where the header (or data) starts (overrides config)")
	f.StringVar(&flagSheet, "sheet", "", "XLSX: sheet name (default first sheet)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: unknown log_level %q, using warn\n", cfg.LogLevel)
		level = slog.LevelWarn
	}
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// settings returns the effective configuration even when no initializer ran.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

// tableOptions merges config and loading flags.
func tableOptions(cmd *cobra.Command) (table.Options, error) {
	opt := settings().TableOptions()
	f := cmd.Flags()
	if f.Changed("delimiter") {
		d, err := table.ParseDelimiter(flagDelimiter)
		if err != nil {
			return opt, fmt.Errorf("invalid --delimiter: %w", err)
		}
		opt.Delimiter = d
	}
	if f.Changed("encoding") {
		opt.Encoding = strings.ToLower(strings.TrimSpace(flagEncoding))
	}
	if f.Changed("no-header") {
		opt.HasHeader = !flagNoHeader
	}
	if f.Changed("start-row") {
		if flagStartRow < 1 {
			return opt, fmt.Errorf("--start-row must be at least 1")
		}
		opt.StartRow = flagStartRow
	}
	if f.Changed("sheet") {
		opt.Sheet = flagSheet
	}
	return opt, nil
}
