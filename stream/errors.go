// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
)

var (
	ErrNilSource        = errors.New("source is nil")
	ErrNilExtractor     = errors.New("extractor is nil")
	ErrInvalidBlockSize = errors.New("block size must be positive")
	ErrInvalidOverlap   = errors.New("overlap must be in range [0, block size)")

	// ErrInvalidChannelShape is matched by every InvalidChannelShapeError.
	ErrInvalidChannelShape = errors.New("invalid channel shape")
)

// SourceReadError reports an I/O failure of the underlying source while
// reading block Block. Blocks before it were processed successfully.
type SourceReadError struct {
	Block int
	Err   error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("source read failed at block %d: %v", e.Block, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// InvalidChannelShapeError reports a block whose channel layout does not
// match the channel count the source declared when the run started.
type InvalidChannelShapeError struct {
	Block   int
	Want    int
	Got     int
	Samples int
}

func (e *InvalidChannelShapeError) Error() string {
	if e.Want == e.Got {
		return fmt.Sprintf("block %d: %d samples do not divide into %d channels", e.Block, e.Samples, e.Want)
	}
	return fmt.Sprintf("block %d: got %d channels, source declared %d", e.Block, e.Got, e.Want)
}

func (e *InvalidChannelShapeError) Unwrap() error { return ErrInvalidChannelShape }

// ExtractorError wraps a failure returned by the feature extractor.
type ExtractorError struct {
	Block int
	Err   error
}

func (e *ExtractorError) Error() string {
	return fmt.Sprintf("feature extraction failed at block %d: %v", e.Block, e.Err)
}

func (e *ExtractorError) Unwrap() error { return e.Err }
