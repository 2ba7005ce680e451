// Package config holds the tunables of the plotter: how logs are read, how large charts are
// drawn and how verbose logging is. Values come from built-in defaults optionally overlaid by a
// YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/iafilius/BMSLogPlotter/src/bmslog"
	"github.com/iafilius/BMSLogPlotter/src/plot"
)

// Config is the root of the YAML document.
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Chart  ChartConfig  `yaml:"chart"`
	Log    LogConfig    `yaml:"log"`
}

type ParserConfig struct {
	HeaderLines int `yaml:"header_lines"`
	// Delimiter is a single character, or "auto" to detect it from the header row.
	Delimiter         string   `yaml:"delimiter"`
	TimeLayouts       []string `yaml:"time_layouts"`
	SkipMalformedRows bool     `yaml:"skip_malformed_rows"`
}

type ChartConfig struct {
	Width       int `yaml:"width"`
	PanelHeight int `yaml:"panel_height"`
	MaxTicks    int `yaml:"max_ticks"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig matches a Battery Management Studio export and a 1000 px wide figure.
func DefaultConfig() *Config {
	po := plot.DefaultOptions()
	return &Config{
		Parser: ParserConfig{HeaderLines: bmslog.DefaultHeaderLines, Delimiter: ","},
		Chart:  ChartConfig{Width: po.Width, PanelHeight: po.PanelHeight, MaxTicks: po.MaxTicks},
		Log:    LogConfig{Level: "info"},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty path yields the
// defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must be .yaml or .yml, got %q", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	// Decoding over the defaults keeps absent keys and lets explicit zero values such as
	// header_lines: 0 take effect.
	file := *cfg
	file.Parser.TimeLayouts = append([]string(nil), cfg.Parser.TimeLayouts...)
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	*cfg = file
	return nil
}

// Validate rejects values the parser or renderer cannot work with.
func (c *Config) Validate() error {
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateChart(); err != nil {
		return err
	}
	if _, ok := bmslog.ParseLogLevel(c.Log.Level); !ok {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

func (c *Config) validateParser() error {
	if c.Parser.HeaderLines < 0 {
		return fmt.Errorf("header_lines must be non-negative")
	}
	if _, err := c.delimiter(); err != nil {
		return err
	}
	for _, l := range c.Parser.TimeLayouts {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("time_layouts must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateChart() error {
	if c.Chart.Width < 320 {
		return fmt.Errorf("chart width must be at least 320, got %d", c.Chart.Width)
	}
	if c.Chart.PanelHeight < 160 {
		return fmt.Errorf("chart panel_height must be at least 160, got %d", c.Chart.PanelHeight)
	}
	if c.Chart.MaxTicks < 2 || c.Chart.MaxTicks > plot.MaxTicks {
		return fmt.Errorf("chart max_ticks must be between 2 and %d, got %d", plot.MaxTicks, c.Chart.MaxTicks)
	}
	return nil
}

func (c *Config) delimiter() (rune, error) {
	d := c.Parser.Delimiter
	switch {
	case d == "" || strings.EqualFold(d, "auto"):
		return 0, nil
	case d == `\t` || strings.EqualFold(d, "tab"):
		return '\t', nil
	case utf8.RuneCountInString(d) == 1:
		r, _ := utf8.DecodeRuneInString(d)
		if r == '"' || r == '\n' || r == '\r' {
			return 0, fmt.Errorf("invalid delimiter %q", d)
		}
		return r, nil
	default:
		return 0, fmt.Errorf("delimiter must be a single character, \"tab\" or \"auto\", got %q", d)
	}
}

// ParserOptions converts the parser section for bmslog.
func (c *Config) ParserOptions() bmslog.Options {
	delim, _ := c.delimiter()
	return bmslog.Options{
		HeaderLines:       c.Parser.HeaderLines,
		Delimiter:         delim,
		TimeLayouts:       append([]string(nil), c.Parser.TimeLayouts...),
		SkipMalformedRows: c.Parser.SkipMalformedRows,
	}
}

// PlotOptions converts the chart section for plot.
func (c *Config) PlotOptions() plot.Options {
	return plot.Options{Width: c.Chart.Width, PanelHeight: c.Chart.PanelHeight, MaxTicks: c.Chart.MaxTicks}
}
