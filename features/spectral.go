// SPDX-License-Identifier: EPL-2.0

package features

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/ik5/audstream/stream"
)

// spectrum holds the magnitude spectrum of one frame, bins 0..N/2.
type spectrum struct {
	mag     []float64
	binHz   float64
	scratch []float64
}

// compute applies a Hann window to mono and stores the magnitudes of its
// real FFT.
func (s *spectrum) compute(mono []float32, sampleRate int) error {
	if len(mono) == 0 {
		return ErrEmptyFrame
	}
	if sampleRate <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRate, sampleRate)
	}

	if cap(s.scratch) < len(mono) {
		s.scratch = make([]float64, len(mono))
	}
	x := s.scratch[:len(mono)]
	for i, v := range mono {
		x[i] = float64(v)
	}
	if len(x) > 1 {
		window.Apply(x, window.Hann)
	}

	coeffs := fft.FFTReal(x)

	half := len(x)/2 + 1
	if cap(s.mag) < half {
		s.mag = make([]float64, half)
	}
	s.mag = s.mag[:half]
	for k := range s.mag {
		s.mag[k] = cmplx.Abs(coeffs[k])
	}
	s.binHz = float64(sampleRate) / float64(len(x))

	return nil
}

// SpectralCentroid returns the magnitude-weighted mean frequency of the
// frame in Hz. Silence has centroid 0.
func SpectralCentroid(mono []float32, sampleRate int) (stream.Vector, error) {
	var s spectrum
	if err := s.compute(mono, sampleRate); err != nil {
		return nil, err
	}

	return stream.Vector{s.centroid()}, nil
}

func (s *spectrum) centroid() float64 {
	weighted, total := 0.0, 0.0
	for k, m := range s.mag {
		weighted += float64(k) * s.binHz * m
		total += m
	}
	if total == 0 {
		return 0
	}

	return weighted / total
}

// rolloff returns the frequency below which pct of the spectral energy lies.
func (s *spectrum) rolloff(pct float64) float64 {
	total := 0.0
	for _, m := range s.mag {
		total += m * m
	}
	if total == 0 {
		return 0
	}

	threshold := pct * total
	acc := 0.0
	for k, m := range s.mag {
		acc += m * m
		if acc >= threshold {
			return float64(k) * s.binHz
		}
	}

	return float64(len(s.mag)-1) * s.binHz
}

// SpectralRolloff returns an extractor yielding the frequency in Hz below
// which pct of the frame's spectral energy is concentrated. pct is usually
// 0.85 or 0.95.
func SpectralRolloff(pct float64) (stream.Extractor, error) {
	if pct <= 0 || pct > 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidRolloff, pct)
	}

	var s spectrum
	return func(mono []float32, sampleRate int) (stream.Vector, error) {
		if err := s.compute(mono, sampleRate); err != nil {
			return nil, err
		}
		return stream.Vector{s.rolloff(pct)}, nil
	}, nil
}
