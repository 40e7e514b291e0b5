// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"

	"github.com/ik5/audstream/audio"
)

// Vector is the feature vector computed for one block.
// It must not be modified once appended to a Sequence.
type Vector []float64

// Sequence holds one Vector per consumed block, in block arrival order.
type Sequence []Vector

// Extractor computes a feature vector from a mono frame.
// mono is reused for the next block: implementations must not retain it.
type Extractor func(mono []float32, sampleRate int) (Vector, error)

// BlockIterator is a single-pass cursor over blocks. Next returns io.EOF
// once the stream is exhausted. audio.BlockReader implements it.
type BlockIterator interface {
	Next() (audio.Block, error)
}

// Stats describes the last run of an Aggregator. SampleRate and Channels
// are the values the stream declared, the rate every block was extracted at.
type Stats struct {
	SampleRate   int
	Channels     int
	Blocks       int
	Frames       int
	PartialBlock bool
}

// Aggregator turns a block stream into a feature Sequence while holding a
// single block in memory. An Aggregator is not safe for concurrent use.
type Aggregator struct {
	// BlockSize is the number of frames per block.
	BlockSize int
	// Overlap is the number of frames consecutive blocks share. Zero means
	// disjoint blocks.
	Overlap int
	// Extract computes one Vector per block.
	Extract Extractor

	mono  []float32
	stats Stats
}

// New returns an Aggregator with disjoint blocks of blockSize frames.
func New(blockSize int, extract Extractor) *Aggregator {
	return &Aggregator{
		BlockSize: blockSize,
		Extract:   extract,
	}
}

// Run is a shorthand for New(blockSize, extract).Run(ctx, src).
func Run(ctx context.Context, src audio.Source, blockSize int, extract Extractor) (Sequence, error) {
	return New(blockSize, extract).Run(ctx, src)
}

// Stats returns the statistics of the last run.
func (a *Aggregator) Stats() Stats { return a.stats }

func (a *Aggregator) validate() error {
	if a.Extract == nil {
		return ErrNilExtractor
	}
	if a.BlockSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBlockSize, a.BlockSize)
	}
	if a.Overlap < 0 || a.Overlap >= a.BlockSize {
		return fmt.Errorf("%w: overlap %d, block size %d", ErrInvalidOverlap, a.Overlap, a.BlockSize)
	}
	return nil
}

// Run consumes src block by block until end of stream. The source is not
// closed; its owner does that.
//
// On failure the vectors computed so far are returned together with a
// *SourceReadError, *InvalidChannelShapeError, *ExtractorError or the
// context error.
func (a *Aggregator) Run(ctx context.Context, src audio.Source) (Sequence, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	br, err := audio.NewOverlappingBlockReader(src, a.BlockSize, a.Overlap)
	if err != nil {
		return nil, fmt.Errorf("creating block reader: %w", err)
	}

	return a.RunBlocks(ctx, br, src.SampleRate(), src.Channels())
}

// RunBlocks drives the aggregation loop over an arbitrary block cursor.
// sampleRate and channels are the values the stream declared up front.
func (a *Aggregator) RunBlocks(
	ctx context.Context,
	it BlockIterator,
	sampleRate int,
	channels int,
) (Sequence, error) {
	if it == nil {
		return nil, ErrNilSource
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	ctx = logger.CtxWithLogger(ctx, logger.FromCtx(ctx).WithField("run_id", uuid.NewString()))
	logger.Debugf(ctx, "aggregating blocks of %d frames (overlap %d) at %d Hz, %d channels",
		a.BlockSize, a.Overlap, sampleRate, channels)

	a.stats = Stats{SampleRate: sampleRate, Channels: channels}
	var seq Sequence

	for {
		if err := ctx.Err(); err != nil {
			return seq, fmt.Errorf("aggregation stopped after %d blocks: %w", len(seq), err)
		}

		block, err := it.Next()
		if errors.Is(err, io.EOF) {
			logger.Debugf(ctx, "end of stream: %d blocks, %d frames", a.stats.Blocks, a.stats.Frames)
			return seq, nil
		}
		if err != nil {
			logger.Debugf(ctx, "read failed at block %d: %v", len(seq), err)
			return seq, &SourceReadError{Block: len(seq), Err: err}
		}

		if block.Channels != channels || channels <= 0 || len(block.Data)%channels != 0 {
			return seq, &InvalidChannelShapeError{
				Block:   len(seq),
				Want:    channels,
				Got:     block.Channels,
				Samples: len(block.Data),
			}
		}

		frames := len(block.Data) / channels
		if cap(a.mono) < frames {
			a.mono = make([]float32, frames)
		}
		mono := a.mono[:frames]
		audio.Downmix(mono, block.Data, channels)

		vec, err := a.Extract(mono, sampleRate)
		if err != nil {
			return seq, &ExtractorError{Block: len(seq), Err: err}
		}
		seq = append(seq, vec)

		a.stats.Blocks++
		a.stats.Frames += frames
		a.stats.PartialBlock = frames < a.BlockSize
		logger.Tracef(ctx, "block %d: %d frames -> %d features", block.Index, frames, len(vec))
	}
}
