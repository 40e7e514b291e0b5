// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/stream"
)

// ExtractOptions configures ExtractFile.
type ExtractOptions struct {
	// BlockSize is the number of frames per block.
	BlockSize int
	// Overlap is the number of frames shared by consecutive blocks.
	Overlap int
	// TargetRate resamples the decoded audio before blocking. Zero keeps
	// the file's own rate.
	TargetRate int
}

// ExtractFile opens path, optionally resamples it and aggregates one
// feature vector per block. The file is always closed; a close failure is
// reported alongside any aggregation error, and the vectors computed so far
// are returned in both cases.
func ExtractFile(ctx context.Context, path string, opts ExtractOptions, extract stream.Extractor) (stream.Sequence, error) {
	seq, _, err := ExtractFileStats(ctx, path, opts, extract)
	return seq, err
}

// ExtractFileStats is ExtractFile that also returns the run statistics,
// including the sample rate the blocks were extracted at.
func ExtractFileStats(
	ctx context.Context,
	path string,
	opts ExtractOptions,
	extract stream.Extractor,
) (seq stream.Sequence, stats stream.Stats, err error) {
	src, err := Open(ctx, path)
	if err != nil {
		return nil, stats, err
	}

	var in audio.Source = src
	defer func() {
		if cerr := in.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	if opts.TargetRate > 0 && opts.TargetRate != src.SampleRate() {
		r, err := audio.NewResampler(src, opts.TargetRate)
		if err != nil {
			return nil, stats, fmt.Errorf("resampling %s: %w", path, err)
		}
		logger.Debugf(ctx, "resampling %s from %d to %d Hz", path, src.SampleRate(), opts.TargetRate)
		in = r
	}

	agg := &stream.Aggregator{BlockSize: opts.BlockSize, Overlap: opts.Overlap, Extract: extract}
	seq, err = agg.Run(ctx, in)
	return seq, agg.Stats(), err
}
