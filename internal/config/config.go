package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabmap-cli/internal/classify"
	"github.com/KaramelBytes/tabmap-cli/internal/session"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

// Global configuration structure.
type Global struct {
	// Loading
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Encoding  string `mapstructure:"encoding" yaml:"encoding"`
	HasHeader bool   `mapstructure:"has_header" yaml:"has_header"`
	StartRow  int    `mapstructure:"start_row" yaml:"start_row"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`

	// Grouping
	GroupingMode    string `mapstructure:"grouping_mode" yaml:"grouping_mode"`
	Bins            int    `mapstructure:"bins" yaml:"bins"`
	EndColor        string `mapstructure:"end_color" yaml:"end_color"`
	JenksMaxSamples int    `mapstructure:"jenks_max_samples" yaml:"jenks_max_samples"`

	// Display
	SingleColor string `mapstructure:"single_color" yaml:"single_color"`
	Opacity     int    `mapstructure:"opacity" yaml:"opacity"`

	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	SampleRows   int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns ~/.tabmap.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabmap"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabmap/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
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
// Precedence: env (including a .env file in the working directory) > config
// file > defaults. Command flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	// a missing .env is fine; variables already set win
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("TABMAP")
	v.AutomaticEnv()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// only an explicitly named file has to exist
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
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

// Default returns the built-in configuration, ignoring files and env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	d := table.DefaultOptions()
	v.SetDefault("delimiter", string(d.Delimiter))
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("has_header", d.HasHeader)
	v.SetDefault("start_row", d.StartRow)
	v.SetDefault("sheet", "")
	g := session.DefaultGrouping()
	v.SetDefault("grouping_mode", g.Mode.String())
	v.SetDefault("bins", g.Bins)
	v.SetDefault("end_color", g.EndColor.Hex())
	v.SetDefault("jenks_max_samples", classify.DefaultMaxSamples)
	disp := session.DefaultDisplay()
	v.SetDefault("single_color", disp.SingleColor.Hex())
	v.SetDefault("opacity", disp.Opacity)
	v.SetDefault("output_format", "geojson")
	v.SetDefault("sample_rows", 5)
	v.SetDefault("log_level", "warn")
}

// Validate checks values that cannot be caught by unmarshalling.
func (c *Global) Validate() error {
	if _, err := table.ParseDelimiter(c.Delimiter); err != nil {
		return fmt.Errorf("delimiter: %w", err)
	}
	switch strings.ToLower(c.Encoding) {
	case "utf-8", "utf8", "cp1251", "windows-1251":
	default:
		return fmt.Errorf("encoding: unsupported %q (use utf-8 or cp1251)", c.Encoding)
	}
	if c.StartRow < 1 {
		return fmt.Errorf("start_row must be at least 1, got %d", c.StartRow)
	}
	if _, err := session.ParseMode(c.GroupingMode); err != nil {
		return err
	}
	if c.Bins < 1 {
		return fmt.Errorf("bins must be at least 1, got %d", c.Bins)
	}
	if _, err := classify.ParseHex(c.EndColor); err != nil {
		return fmt.Errorf("end_color: %w", err)
	}
	if _, err := classify.ParseHex(c.SingleColor); err != nil {
		return fmt.Errorf("single_color: %w", err)
	}
	if c.Opacity < 0 || c.Opacity > 100 {
		return fmt.Errorf("opacity must be between 0 and 100, got %d", c.Opacity)
	}
	switch c.OutputFormat {
	case "geojson", "markdown":
	default:
		return fmt.Errorf("output_format: unsupported %q (use geojson or markdown)", c.OutputFormat)
	}
	return nil
}

// TableOptions converts the loading keys to table options.
func (c *Global) TableOptions() table.Options {
	o := table.DefaultOptions()
	if d, err := table.ParseDelimiter(c.Delimiter); err == nil {
		o.Delimiter = d
	}
	o.Encoding = c.Encoding
	o.HasHeader = c.HasHeader
	o.StartRow = c.StartRow
	o.Sheet = c.Sheet
	return o
}
