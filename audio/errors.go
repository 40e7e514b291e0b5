// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize   = errors.New("dst size must be multiple of channels")
	ErrInvalidBlockSize = errors.New("block size must be positive")
	ErrInvalidOverlap   = errors.New("overlap must be in range [0, block size)")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrUnknownFormat    = errors.New("unknown audio format")
)

// UnknownFormatError is returned by Registry.Lookup when no decoder is
// registered for the requested format. It matches ErrUnknownFormat.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownFormat, e.Format)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
