// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resampler streams from src to a target sample rate. The conversion
// itself is done by github.com/tphakala/go-audio-resampling, one mono
// resampler per channel; this type only adapts it to the pull-based Source
// contract. Channel count is preserved.
//
// At end of stream the filter tail is flushed and the output is cut or
// zero padded to ceil(inFrames * dstRate / srcRate) frames.
type Resampler struct {
	src      Source
	srcRate  int
	dstRate  int
	channels int

	// one per channel, nil when source and target rates match
	rs []resampling.Resampler

	in      []float32
	planar  [][]float64
	pending [][]float64

	inFrames  int64
	outFrames int64
	eof       bool
}

// NewResampler wraps src so that it yields samples at dstRate.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 {
		return nil, fmt.Errorf("%w: target rate %d", ErrInvalidRate, dstRate)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: source rate %d", ErrInvalidRate, src.SampleRate())
	}

	channels := max(src.Channels(), 1)
	chunk := max(src.BufSize(), 1024)
	chunk -= chunk % channels

	r := &Resampler{
		src:      src,
		srcRate:  src.SampleRate(),
		dstRate:  dstRate,
		channels: channels,
	}

	if r.srcRate == dstRate {
		return r, nil
	}

	r.in = make([]float32, chunk)
	r.rs = make([]resampling.Resampler, channels)
	r.planar = make([][]float64, channels)
	r.pending = make([][]float64, channels)

	for c := range channels {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(r.srcRate),
			OutputRate: float64(dstRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("creating resampler %d->%d Hz: %w", r.srcRate, dstRate, err)
		}
		r.rs[c] = rs
		r.planar[c] = make([]float64, chunk/channels)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("closing resampled source: %w", err)
	}
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.rs == nil {
		return r.src.ReadSamples(dst)
	}

	want := len(dst) / r.channels

	empty := 0
	for r.buffered() < want && !r.eof {
		read, err := r.fill()
		if err != nil {
			return 0, err
		}
		if read > 0 || r.eof {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			if r.buffered() > 0 {
				break
			}
			return 0, io.ErrNoProgress
		}
	}

	frames := min(want, r.buffered())
	for c, q := range r.pending {
		for i := range frames {
			dst[i*r.channels+c] = float32(q[i])
		}
		r.pending[c] = q[:copy(q, q[frames:])]
	}
	r.outFrames += int64(frames)

	if r.eof && r.buffered() == 0 {
		return frames * r.channels, io.EOF
	}

	return frames * r.channels, nil
}

// buffered returns the number of whole frames ready in pending.
func (r *Resampler) buffered() int {
	n := len(r.pending[0])
	for _, q := range r.pending[1:] {
		n = min(n, len(q))
	}
	return n
}

// fill pulls one chunk from the source, splits it per channel and runs
// each channel through its resampler. It reports how many input frames it
// consumed.
func (r *Resampler) fill() (int, error) {
	n, err := r.src.ReadSamples(r.in)
	if errors.Is(err, io.EOF) {
		r.eof = true
	} else if err != nil {
		return 0, fmt.Errorf("reading resampler input: %w", err)
	}

	frames := n / r.channels
	if frames > 0 {
		for c := range r.channels {
			plane := r.planar[c][:frames]
			for i := range plane {
				plane[i] = float64(r.in[i*r.channels+c])
			}

			out, err := r.rs[c].Process(plane)
			if err != nil {
				return 0, fmt.Errorf("resampling channel %d: %w", c, err)
			}
			r.pending[c] = append(r.pending[c], out...)
		}
		r.inFrames += int64(frames)
	}

	if r.eof {
		if err := r.flush(); err != nil {
			return 0, err
		}
	}

	return frames, nil
}

// flush drains every channel's filter and aligns all channels to the
// expected output length.
func (r *Resampler) flush() error {
	for c, rs := range r.rs {
		tail, err := rs.Flush()
		if err != nil {
			return fmt.Errorf("flushing channel %d: %w", c, err)
		}
		r.pending[c] = append(r.pending[c], tail...)
	}

	total := (r.inFrames*int64(r.dstRate) + int64(r.srcRate) - 1) / int64(r.srcRate)
	left := int(max(total-r.outFrames, 0))
	for c, q := range r.pending {
		if len(q) >= left {
			r.pending[c] = q[:left]
			continue
		}
		r.pending[c] = append(q, make([]float64, left-len(q))...)
	}

	return nil
}
