// SPDX-License-Identifier: EPL-2.0

package features

import (
	"math"

	"github.com/ik5/audstream/stream"
)

// RMS returns the root mean square level of the frame. An empty frame has
// level 0.
func RMS(mono []float32, sampleRate int) (stream.Vector, error) {
	if len(mono) == 0 {
		return stream.Vector{0}, nil
	}

	sum := 0.0
	for _, s := range mono {
		v := float64(s)
		sum += v * v
	}

	return stream.Vector{math.Sqrt(sum / float64(len(mono)))}, nil
}

// Peak returns the largest absolute sample value of the frame.
func Peak(mono []float32, sampleRate int) (stream.Vector, error) {
	peak := 0.0
	for _, s := range mono {
		peak = max(peak, math.Abs(float64(s)))
	}

	return stream.Vector{peak}, nil
}

// ZeroCrossingRate returns the fraction of adjacent sample pairs whose signs
// differ. Zero counts as positive.
func ZeroCrossingRate(mono []float32, sampleRate int) (stream.Vector, error) {
	if len(mono) < 2 {
		return stream.Vector{0}, nil
	}

	crossings := 0
	for i := 1; i < len(mono); i++ {
		if (mono[i-1] >= 0) != (mono[i] >= 0) {
			crossings++
		}
	}

	return stream.Vector{float64(crossings) / float64(len(mono)-1)}, nil
}
