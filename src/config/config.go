// Package config loads the analyser's optional YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/HelderRocha/LEDs-analyser/src/reduce"
)

// ChartConfig sizes rendered charts in pixels.
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the top-level structure of analyser.yaml.
type Config struct {
	// DataDir is scanned for .csv acquisition files.
	DataDir string `yaml:"data_dir"`
	// DefaultStep and DefaultBinSize seed the step/n entry.
	DefaultStep    float64 `yaml:"default_step"`
	DefaultBinSize int     `yaml:"default_bin_size"`
	// OutlierRatio is the trim divisor; windows shorter than it pass
	// through untouched.
	OutlierRatio int         `yaml:"outlier_ratio"`
	Chart        ChartConfig `yaml:"chart"`
	LogLevel     string      `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir:        "data",
		DefaultStep:    1,
		DefaultBinSize: 1,
		OutlierRatio:   reduce.DefaultOutlierRatio,
		Chart:          ChartConfig{Width: 900, Height: 600},
		LogLevel:       "info",
	}
}

// Load reads and parses the YAML file at path. A missing file is not an
// error: defaults are returned so the analyser runs unconfigured.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.OutlierRatio <= 0 {
		cfg.OutlierRatio = reduce.DefaultOutlierRatio
	}
	if cfg.Chart.Width <= 0 || cfg.Chart.Height <= 0 {
		cfg.Chart = Default().Chart
	}
	return cfg, nil
}
