// SPDX-License-Identifier: EPL-2.0

// Package stream aggregates per-block audio features over a stream that is
// never held in memory as a whole.
//
// An Aggregator reads one block at a time from an audio.Source, reduces it
// to mono by averaging channels, hands the mono frame to an Extractor and
// appends the returned Vector to a Sequence:
//
//	seq, err := stream.Run(ctx, src, 4096, features.RMS)
//
// A stream of N frames produces ceil(N/blockSize) vectors in block order.
// Only one block buffer and one mono buffer are alive at any time.
//
// # Errors
//
// The first failure ends the run. The vectors computed before it are
// returned along with one of:
//   - *SourceReadError when the source fails to deliver a block
//   - *InvalidChannelShapeError when a block does not match the declared layout
//   - *ExtractorError when the extractor fails
//   - the context error when ctx is done
//
// The source is never closed by the aggregator.
package stream
