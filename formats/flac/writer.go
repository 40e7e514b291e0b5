// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ik5/audstream/utils"
)

// BlockSize is the number of frames per FLAC frame written by Write.
const BlockSize = 4096

// Write encodes interleaved samples as FLAC with verbatim subframes.
// bitDepth must be 8, 16 or 24. When w is an io.WriteSeeker the final
// sample count is patched into STREAMINFO.
func Write(w io.Writer, samples []float32, sampleRate, channels, bitDepth int) error {
	switch {
	case sampleRate <= 0:
		return fmt.Errorf("%w: got %d", ErrInvalidRate, sampleRate)
	case channels < 1 || channels > 8:
		return fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	case len(samples)%channels != 0:
		return fmt.Errorf("%w: %d samples, %d channels", ErrRaggedSamples, len(samples), channels)
	}
	switch bitDepth {
	case 8, 16, 24:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	total := len(samples) / channels
	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(total),
	}

	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return fmt.Errorf("creating flac encoder: %w", err)
	}

	subframes := make([]*frame.Subframe, channels)
	for ch := range subframes {
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   make([]int32, BlockSize),
		}
	}

	for num, start := 0, 0; start < total; num, start = num+1, start+BlockSize {
		size := min(BlockSize, total-start)
		for ch, sub := range subframes {
			sub.Samples = sub.Samples[:size]
			sub.NSamples = size
			for i := range size {
				sub.Samples[i] = int32(utils.Float32ToInt(samples[(start+i)*channels+ch], bitDepth))
			}
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(size),
				SampleRate:        uint32(sampleRate),
				Channels:          frame.Channels(channels - 1),
				BitsPerSample:     uint8(bitDepth),
				Num:               uint64(num),
			},
			Subframes: subframes,
		}
		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("writing flac frame %d: %w", num, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing flac: %w", err)
	}
	return nil
}
