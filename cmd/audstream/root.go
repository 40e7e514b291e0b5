// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/cobra"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/config"
)

// settings is filled by the persistent pre-run of the root command.
type settings struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	s := &settings{}

	root := &cobra.Command{
		Use:           "audstream",
		Short:         "Blockwise audio feature extraction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			belt.Flush(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&s.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&s.logLevel, "log-level", "", "log level (trace, debug, info, warning, error), overrides the config file")

	root.AddCommand(
		newFeaturesCmd(s),
		newConvertCmd(s),
		newFormatsCmd(),
	)
	return root
}

// load reads the configuration and installs a logrus backed go-belt
// logger into the command context.
func (s *settings) load(cmd *cobra.Command) error {
	s.cfg = config.Default()
	if s.configPath != "" {
		cfg, err := config.Load(s.configPath)
		if err != nil {
			return err
		}
		s.cfg = cfg
	}
	if s.logLevel != "" {
		s.cfg.LogLevel = s.logLevel
	}

	level, err := s.cfg.Level()
	if err != nil {
		return err
	}

	l := logrus.Default().WithLevel(level)
	logger.Default = func() logger.Logger { return l }

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.CtxWithLogger(ctx, l))

	logger.Debugf(cmd.Context(), "configuration: %+v", s.cfg)
	return nil
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported input formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range audstream.Formats() {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}
