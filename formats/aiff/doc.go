// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes and encodes uncompressed AIFF files through
// github.com/go-audio/aiff.
//
// Samples of 8, 16, 24 or 32 bits are accepted with any channel count and
// sample rate, and are delivered as float32 in [-1, 1]:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Input without Seek is buffered in memory, since the go-audio decoder
// jumps between chunks.
//
// Write and Writer produce AIFF files from float32 samples. Close patches
// the chunk sizes, so they need an io.WriteSeeker.
package aiff
