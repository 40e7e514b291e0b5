// SPDX-License-Identifier: EPL-2.0

// Package audstream turns audio files into sequences of per-block feature
// vectors without holding the whole signal in memory.
//
// The heavy lifting lives in subpackages:
//   - audio: the Source contract, block reader, mono mixer and resampler
//   - stream: the block aggregator that drives an Extractor over a Source
//   - features: ready-made extractors (RMS, zero crossing rate, spectral
//     centroid and rolloff, log mel bands)
//   - formats/...: WAV, AIFF, MP3, Ogg Vorbis and FLAC codecs
//
// This package wires them together for file based use:
//
//	extract, _ := features.ByName(features.DefaultOptions(), "rms", "centroid")
//	seq, err := audstream.ExtractFile(ctx, "speech.flac",
//	    audstream.ExtractOptions{BlockSize: 1024, TargetRate: 16000}, extract)
//
// Open and OpenReader decode a file or an arbitrary reader by format name
// using the codecs registered in NewRegistry. WriteFile encodes samples as
// WAV, AIFF or FLAC depending on the file extension. ResampleToMono16
// collects a whole source as mono 16-bit PCM.
//
// Logging goes through the go-belt logger carried by the context. Nothing
// is logged above Debug level.
package audstream
