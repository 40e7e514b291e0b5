// SPDX-License-Identifier: EPL-2.0

// Package features holds stream.Extractor implementations.
//
// Time-domain extractors (RMS, Peak, ZeroCrossingRate) are plain functions.
// Spectral ones use a Hann window with the real FFT of
// github.com/mjibson/go-dsp. MelBands computes a log mel filterbank on top
// of the radix-2 FFT of github.com/brettbuddin/fourier.
//
// Extractors built by a constructor keep scratch buffers between calls and
// must not be shared between concurrent runs.
package features
