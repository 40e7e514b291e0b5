// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audstream/utils"
)

// Writer encodes interleaved float32 samples as AIFF. The destination
// must be seekable since Close patches the chunk sizes.
type Writer struct {
	enc      *aiff.Encoder
	channels int
	bitDepth int
	buf      *goaudio.IntBuffer
	started  bool
}

func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	switch {
	case sampleRate <= 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRate, sampleRate)
	case channels <= 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &Writer{
		enc:      aiff.NewEncoder(w, sampleRate, bitDepth, channels),
		channels: channels,
		bitDepth: bitDepth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Write appends whole frames, clipping samples to [-1, 1].
func (w *Writer) Write(samples []float32) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrRaggedSamples, len(samples), w.channels)
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = utils.Float32ToInt(s, w.bitDepth)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("encoding aiff samples: %w", err)
	}
	w.started = true
	return nil
}

// Close finalizes the header. The underlying writer stays open.
func (w *Writer) Close() error {
	if !w.started {
		if err := w.Write(nil); err != nil {
			return err
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalizing aiff: %w", err)
	}
	return nil
}

// Write encodes interleaved samples as a complete AIFF file.
func Write(w io.WriteSeeker, samples []float32, sampleRate, channels, bitDepth int) error {
	aw, err := NewWriter(w, sampleRate, channels, bitDepth)
	if err != nil {
		return err
	}
	if err := aw.Write(samples); err != nil {
		return err
	}
	return aw.Close()
}
