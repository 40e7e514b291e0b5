// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

// frameReader is the part of flac.Stream the source uses.
type frameReader interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	dec        frameReader
	sampleRate int
	channels   int
	bitDepth   int
	bufSize    int

	// current frame and the next unread sample index within it
	cur *frame.Frame
	pos int
	err error
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return s.bufSize }
func (s *source) Close() error    { return s.dec.Close() }

// ReadSamples interleaves the subframes of as many FLAC frames as fit in
// dst. A frame may be split across calls.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	n := 0
	for n < want {
		if s.cur == nil || s.pos >= int(s.cur.BlockSize) {
			if s.err != nil {
				break
			}
			s.cur, s.pos = nil, 0
			f, err := s.dec.ParseNext()
			if err != nil {
				if errors.Is(err, io.EOF) {
					s.err = io.EOF
				} else {
					s.err = fmt.Errorf("decoding flac frame: %w", err)
				}
				break
			}
			if len(f.Subframes) != s.channels {
				s.err = fmt.Errorf("%w: %d != %d", ErrChannelMismatch, len(f.Subframes), s.channels)
				break
			}
			s.cur = f
			continue
		}

		for s.pos < int(s.cur.BlockSize) && n < want {
			for _, sub := range s.cur.Subframes {
				dst[n] = utils.IntToFloat32(int(sub.Samples[s.pos]), s.bitDepth)
				n++
			}
			s.pos++
		}
	}

	if n > 0 && errors.Is(s.err, io.EOF) {
		return n, io.EOF
	}
	if n > 0 {
		return n, nil
	}
	return 0, s.err
}

// Decoder decodes FLAC streams with github.com/mewkiz/flac. Only the
// STREAMINFO block is interpreted, other metadata is skipped.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStream, err)
	}

	info := stream.Info
	switch info.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}
	if info.NChannels == 0 || info.SampleRate == 0 {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidStream, info.NChannels, info.SampleRate)
	}

	return &source{
		dec:        stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
		bufSize:    max(int(info.BlockSizeMax)*int(info.NChannels), 4096),
	}, nil
}
