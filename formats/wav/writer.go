// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"io"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

// maxEmptyReads bounds consecutive empty reads in WriteSource.
const maxEmptyReads = 100

// Subtype selects the sample encoding of a written file.
type Subtype int

const (
	PCM16 Subtype = iota
	PCMU8
	PCM24
	PCM32
)

var subtypeNames = map[Subtype]string{
	PCMU8: "PCM_U8",
	PCM16: "PCM_16",
	PCM24: "PCM_24",
	PCM32: "PCM_32",
}

func (s Subtype) String() string {
	if name, ok := subtypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Subtype(%d)", int(s))
}

// BitDepth returns the bits per sample of the subtype, 0 if unknown.
func (s Subtype) BitDepth() int {
	switch s {
	case PCMU8:
		return 8
	case PCM16:
		return 16
	case PCM24:
		return 24
	case PCM32:
		return 32
	}
	return 0
}

// ParseSubtype accepts the names returned by String, case-insensitively.
func ParseSubtype(name string) (Subtype, error) {
	for s, n := range subtypeNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSubtype, name)
}

// Writer encodes interleaved float32 samples into a WAV stream. Close
// seeks back to patch the chunk sizes, so w must be seekable.
type Writer struct {
	enc      *wav.Encoder
	channels int
	bitDepth int
	buf      *goaudio.IntBuffer
	frames   int
	started  bool
}

func NewWriter(w io.WriteSeeker, sampleRate, channels int, subtype Subtype) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRate, sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	depth := subtype.BitDepth()
	if depth == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSubtype, subtype)
	}

	return &Writer{
		enc:      wav.NewEncoder(w, sampleRate, depth, channels, formatPCM),
		channels: channels,
		bitDepth: depth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: depth,
		},
	}, nil
}

// Write appends whole frames. Samples outside [-1, 1] are clipped.
func (w *Writer) Write(samples []float32) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrRaggedSamples, len(samples), w.channels)
	}
	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]

	for i, s := range samples {
		v := utils.Float32ToInt(s, w.bitDepth)
		if w.bitDepth == 8 {
			v += 128
		}
		w.buf.Data[i] = v
	}

	// the first write also emits the header
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("encoding wav samples: %w", err)
	}
	w.started = true
	w.frames += len(samples) / w.channels

	return nil
}

// Frames returns how many frames were written so far.
func (w *Writer) Frames() int { return w.frames }

// Close writes the final chunk sizes. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if !w.started {
		if err := w.Write(nil); err != nil {
			return err
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}

// Write encodes interleaved samples as a complete WAV file.
func Write(w io.WriteSeeker, samples []float32, sampleRate, channels int, subtype Subtype) error {
	ww, err := NewWriter(w, sampleRate, channels, subtype)
	if err != nil {
		return err
	}
	if err := ww.Write(samples); err != nil {
		return err
	}
	return ww.Close()
}

// WriteSource streams src into a WAV file with the source's rate and
// channel count, holding one buffer of bufSize samples. It returns the
// number of frames written. src is not closed.
func WriteSource(w io.WriteSeeker, src audio.Source, subtype Subtype, bufSize int) (int, error) {
	ww, err := NewWriter(w, src.SampleRate(), src.Channels(), subtype)
	if err != nil {
		return 0, err
	}

	channels := src.Channels()
	bufSize = max(bufSize-bufSize%channels, channels)
	buf := make([]float32, bufSize)

	empty := 0
	for {
		n, err := src.ReadSamples(buf)
		n -= n % channels
		if n > 0 {
			empty = 0
			if werr := ww.Write(buf[:n]); werr != nil {
				return ww.Frames(), werr
			}
		} else if err == nil {
			empty++
			if empty >= maxEmptyReads {
				return ww.Frames(), io.ErrNoProgress
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ww.Frames(), fmt.Errorf("reading source: %w", err)
		}
	}

	return ww.Frames(), ww.Close()
}
