// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/wav"
)

type convertOptions struct {
	rate    int
	mono    bool
	subtype string
	bufSize int
}

func newConvertCmd(s *settings) *cobra.Command {
	opts := convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <input> <output.wav>",
		Short: "Decode, optionally resample and downmix, and write WAV",
		Long: `Convert any supported input to a WAV file.

Example:
  # telephone quality mono
  audstream convert --rate 8000 --mono --subtype PCM_16 talk.mp3 talk.wav`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.rate, "rate", 0, "output sample rate (0 keeps the input rate)")
	flags.BoolVar(&opts.mono, "mono", false, "average all channels into one")
	flags.StringVar(&opts.subtype, "subtype", wav.PCM16.String(), "sample encoding: PCM_U8, PCM_16, PCM_24 or PCM_32")
	flags.IntVar(&opts.bufSize, "buffer", 4096, "samples per read")

	return cmd
}

func runConvert(cmd *cobra.Command, opts convertOptions, inPath, outPath string) (err error) {
	ctx := cmd.Context()

	subtype, err := wav.ParseSubtype(opts.subtype)
	if err != nil {
		return err
	}

	src, err := audstream.Open(ctx, inPath)
	if err != nil {
		return err
	}

	var pipeline audio.Source = src
	defer func() {
		if cerr := pipeline.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	if opts.rate > 0 && opts.rate != src.SampleRate() {
		r, err := audio.NewResampler(pipeline, opts.rate)
		if err != nil {
			return err
		}
		pipeline = r
	}
	if opts.mono && pipeline.Channels() > 1 {
		pipeline = audio.NewMonoMixer(pipeline)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("closing %s: %w", outPath, cerr)).ErrorOrNil()
		}
	}()

	frames, err := wav.WriteSource(out, pipeline, subtype, opts.bufSize)
	if err != nil {
		return fmt.Errorf("converting %s: %w", inPath, err)
	}

	logger.Infof(ctx, "wrote %d frames at %d Hz, %d channels, %s to %s",
		frames, pipeline.SampleRate(), pipeline.Channels(), subtype, outPath)
	return nil
}
