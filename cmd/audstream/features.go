// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/config"
	"github.com/ik5/audstream/features"
	"github.com/ik5/audstream/stream"
)

// report is what the features command prints.
type report struct {
	File       string      `yaml:"file"`
	SampleRate int         `yaml:"sample_rate,omitempty"`
	BlockSize  int         `yaml:"block_size"`
	Overlap    int         `yaml:"overlap"`
	Columns    []string    `yaml:"columns"`
	Vectors    [][]float64 `yaml:"vectors"`
	Error      string      `yaml:"error,omitempty"`
}

func newFeaturesCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features <input>",
		Short: "Print one feature vector per block",
		Long: `Decode an audio file, split it into blocks of --block-size frames and
print one feature vector per block.

Available features: ` + strings.Join(features.Names(), ", ") + `

Example:
  audstream features --features rms,mel --mel-bands 20 --target-rate 16000 speech.flac`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyFeatureFlags(cmd.Flags(), &s.cfg)
			if err := s.cfg.Validate(); err != nil {
				return err
			}
			return runFeatures(cmd, s, args[0])
		},
	}

	flags := cmd.Flags()
	flags.Int("block-size", 0, "frames per block")
	flags.Int("overlap", 0, "frames shared by consecutive blocks")
	flags.Int("target-rate", 0, "resample to this rate before blocking (0 keeps the file rate)")
	flags.StringSlice("features", nil, "comma separated feature names")
	flags.Int("mel-bands", 0, "number of mel bands for the mel feature")
	flags.Float64("rolloff", 0, "energy fraction for the rolloff feature")
	flags.StringP("output", "o", "", "output format: yaml or json")

	return cmd
}

// applyFeatureFlags copies explicitly set flags over the configuration.
func applyFeatureFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("block-size") {
		cfg.BlockSize, _ = flags.GetInt("block-size")
	}
	if flags.Changed("overlap") {
		cfg.Overlap, _ = flags.GetInt("overlap")
	}
	if flags.Changed("target-rate") {
		cfg.TargetRate, _ = flags.GetInt("target-rate")
	}
	if flags.Changed("features") {
		cfg.Features, _ = flags.GetStringSlice("features")
	}
	if flags.Changed("mel-bands") {
		cfg.MelBands, _ = flags.GetInt("mel-bands")
	}
	if flags.Changed("rolloff") {
		cfg.Rolloff, _ = flags.GetFloat64("rolloff")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
}

func runFeatures(cmd *cobra.Command, s *settings, path string) error {
	ctx := cmd.Context()
	cfg := s.cfg

	extract, err := features.ByName(cfg.FeatureOptions(), cfg.Features...)
	if err != nil {
		return err
	}

	logger.Debugf(ctx, "extracting %v from %s", cfg.Features, path)
	seq, stats, runErr := audstream.ExtractFileStats(ctx, path, cfg.ExtractOptions(), extract)

	out := report{
		File:       path,
		SampleRate: stats.SampleRate,
		BlockSize:  cfg.BlockSize,
		Overlap:    cfg.Overlap,
		Columns:    features.Columns(cfg.FeatureOptions(), cfg.Features...),
		Vectors:    toRows(seq),
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}

	if err := writeReport(cmd.OutOrStdout(), out, cfg.Output); err != nil {
		return err
	}
	return runErr
}

func toRows(seq stream.Sequence) [][]float64 {
	rows := make([][]float64, len(seq))
	for i, v := range seq {
		rows[i] = v
	}
	return rows
}

func writeReport(w io.Writer, r report, format string) error {
	var opts []yaml.EncodeOption
	if strings.EqualFold(format, "json") {
		opts = append(opts, yaml.JSON())
	}

	data, err := yaml.MarshalWithOptions(r, opts...)
	if err != nil {
		return fmt.Errorf("encoding %s report: %w", format, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
