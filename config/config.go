// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML settings shared by the audstream command
// line tool. Missing keys keep their defaults; unknown keys are rejected.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/features"
)

// Config mirrors the configuration file.
type Config struct {
	BlockSize  int      `yaml:"block_size"`
	Overlap    int      `yaml:"overlap"`
	TargetRate int      `yaml:"target_rate"`
	Features   []string `yaml:"features"`
	MelBands   int      `yaml:"mel_bands"`
	Rolloff    float64  `yaml:"rolloff"`
	LogLevel   string   `yaml:"log_level"`
	Output     string   `yaml:"output"`
}

func Default() Config {
	opts := features.DefaultOptions()
	return Config{
		BlockSize:  4096,
		Overlap:    0,
		TargetRate: 0,
		Features:   []string{"rms", "zcr", "centroid"},
		MelBands:   opts.MelBands,
		Rolloff:    opts.Rolloff,
		LogLevel:   "info",
		Output:     "yaml",
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result error

	if c.BlockSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, c.BlockSize))
	} else if c.Overlap < 0 || c.Overlap >= c.BlockSize {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", ErrInvalidOverlap, c.Overlap))
	}
	if c.TargetRate < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", ErrInvalidTargetRate, c.TargetRate))
	}
	if _, err := features.ByName(c.FeatureOptions(), c.Features...); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.Level(); err != nil {
		result = multierror.Append(result, err)
	}
	switch strings.ToLower(c.Output) {
	case "yaml", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("%w: got %q", ErrInvalidOutput, c.Output))
	}

	return result
}

// Level parses LogLevel.
func (c Config) Level() (logger.Level, error) {
	var level logger.Level
	if err := level.Set(c.LogLevel); err != nil {
		return level, fmt.Errorf("%w %q: %w", ErrInvalidLogLevel, c.LogLevel, err)
	}
	return level, nil
}

func (c Config) FeatureOptions() features.Options {
	return features.Options{MelBands: c.MelBands, Rolloff: c.Rolloff}
}

func (c Config) ExtractOptions() audstream.ExtractOptions {
	return audstream.ExtractOptions{
		BlockSize:  c.BlockSize,
		Overlap:    c.Overlap,
		TargetRate: c.TargetRate,
	}
}
