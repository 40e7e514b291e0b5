// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrInjected is the read failure produced by FailingSource.
var ErrInjected = errors.New("audiotest: injected read failure")

// MockSource is a test helper that generates audio data for testing.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // Total samples to generate (per channel)
	generated    int // Samples generated so far (per channel)
	waveform     func(sample int, channel int) float32

	// Reads counts ReadSamples calls; Closed reports whether Close was called.
	Reads  int
	Closed bool
}

// NewMockSource creates a new mock audio source.
// totalSamples is the total number of samples per channel to generate.
// waveform is a function that generates sample values given sample index and channel.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return value
	})
}

// NewRampSource creates a mock source whose value is the frame index.
// Handy to check ordering and block boundaries.
func NewRampSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		return float32(sample)
	})
}

// NewFrameSource replays the given frames (one inner slice per frame).
func NewFrameSource(sampleRate int, frames [][]float32) *MockSource {
	channels := 1
	if len(frames) > 0 {
		channels = len(frames[0])
	}
	return NewMockSource(sampleRate, channels, len(frames), func(sample int, channel int) float32 {
		return frames[sample][channel]
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Generated returns how many frames were produced so far.
func (m *MockSource) Generated() int { return m.generated }

// Reset resets the generated sample counter to allow re-reading
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	m.Reads++
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	// Calculate how many frames we can write
	framesRequested := len(dst) / m.channels
	framesAvailable := m.totalSamples - m.generated
	framesToWrite := min(framesRequested, framesAvailable)

	for frame := range framesToWrite {
		sampleIndex := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(sampleIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalSamples {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}

// FailingSource wraps a MockSource and fails once FailAfterFrames frames
// have been delivered.
type FailingSource struct {
	*MockSource
	FailAfterFrames int
}

func NewFailingSource(src *MockSource, failAfterFrames int) *FailingSource {
	return &FailingSource{MockSource: src, FailAfterFrames: failAfterFrames}
}

func (f *FailingSource) ReadSamples(dst []float32) (int, error) {
	room := f.FailAfterFrames - f.generated
	if room <= 0 {
		return 0, ErrInjected
	}
	if limit := room * f.channels; len(dst) > limit {
		dst = dst[:limit]
	}
	return f.MockSource.ReadSamples(dst)
}

// ReshapingSource reports a different channel count once SwitchAfterFrames
// frames have been produced, emulating a decoder that changes layout
// mid-stream.
type ReshapingSource struct {
	*MockSource
	SwitchAfterFrames int
	NewChannels       int
}

func (r *ReshapingSource) Channels() int {
	if r.generated >= r.SwitchAfterFrames {
		return r.NewChannels
	}
	return r.channels
}

// StallingSource never produces data nor reports an error.
type StallingSource struct {
	Rate, Chans int
}

func (s *StallingSource) SampleRate() int                        { return s.Rate }
func (s *StallingSource) Channels() int                          { return s.Chans }
func (s *StallingSource) BufSize() int                           { return 4096 }
func (s *StallingSource) Close() error                           { return nil }
func (s *StallingSource) ReadSamples(dst []float32) (int, error) { return 0, nil }
