// SPDX-License-Identifier: EPL-2.0

package features

import (
	"fmt"
	"math"

	"github.com/brettbuddin/fourier"
	"github.com/mjibson/go-dsp/window"

	"github.com/ik5/audstream/stream"
)

// logFloor keeps silent bands away from -Inf.
const logFloor = 1e-10

func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// melFilterBank builds numMels triangular filters spread evenly on the mel
// scale between lowFreq and highFreq.
// Returns [numMels][fftSize/2+1].
func melFilterBank(numMels, fftSize, sampleRate int, lowFreq, highFreq float64) [][]float64 {
	halfFFT := fftSize/2 + 1
	lowMel := hzToMel(lowFreq)
	highMel := hzToMel(highFreq)

	step := (highMel - lowMel) / float64(numMels+1)
	bins := make([]int, numMels+2)
	for i := range bins {
		hz := melToHz(lowMel + float64(i)*step)
		bins[i] = min(int(math.Round(hz*float64(fftSize)/float64(sampleRate))), halfFFT-1)
	}

	// every filter spans at least one bin
	for i := 1; i < len(bins); i++ {
		if bins[i] <= bins[i-1] {
			bins[i] = bins[i-1] + 1
		}
	}

	bank := make([][]float64, numMels)
	for m := range bank {
		filter := make([]float64, halfFFT)
		left, center, right := bins[m], bins[m+1], bins[m+2]

		for k := left; k < center && k < halfFFT; k++ {
			filter[k] = float64(k-left) / float64(center-left)
		}
		for k := center; k <= right && k < halfFFT; k++ {
			filter[k] = float64(right-k) / float64(right-center)
		}
		bank[m] = filter
	}

	return bank
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// melExtractor caches the filterbank and FFT buffers for one block shape.
// A final partial block triggers a rebuild.
type melExtractor struct {
	bands int

	frames  int
	rate    int
	fftSize int
	win     []float64
	bank    [][]float64
	buf     []complex128
	power   []float64
}

// MelBands returns an extractor yielding n log mel band energies spanning
// 0 Hz to the Nyquist frequency. Blocks are zero-padded to a power of two.
func MelBands(n int) (stream.Extractor, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBands, n)
	}

	m := &melExtractor{bands: n}
	return m.extract, nil
}

func (m *melExtractor) prepare(frames, sampleRate int) {
	if frames == m.frames && sampleRate == m.rate {
		return
	}

	m.frames, m.rate = frames, sampleRate
	m.fftSize = max(nextPowerOfTwo(frames), 2)
	m.win = window.Hann(frames)
	if frames == 1 {
		m.win[0] = 1
	}
	m.bank = melFilterBank(m.bands, m.fftSize, sampleRate, 0, float64(sampleRate)/2)
	m.buf = make([]complex128, m.fftSize)
	m.power = make([]float64, m.fftSize/2+1)
}

func (m *melExtractor) extract(mono []float32, sampleRate int) (stream.Vector, error) {
	if len(mono) == 0 {
		return nil, ErrEmptyFrame
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRate, sampleRate)
	}

	m.prepare(len(mono), sampleRate)

	for i, s := range mono {
		m.buf[i] = complex(float64(s)*m.win[i], 0)
	}
	clear(m.buf[len(mono):])

	if err := fourier.Forward(m.buf); err != nil {
		return nil, fmt.Errorf("computing fft of %d points: %w", m.fftSize, err)
	}

	for k := range m.power {
		re, im := real(m.buf[k]), imag(m.buf[k])
		m.power[k] = re*re + im*im
	}

	vec := make(stream.Vector, m.bands)
	for b, filter := range m.bank {
		sum := 0.0
		for k, w := range filter {
			sum += w * m.power[k]
		}
		vec[b] = math.Log(max(sum, logFloor))
	}

	return vec, nil
}
