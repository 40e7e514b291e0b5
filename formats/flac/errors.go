// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	ErrInvalidStream       = errors.New("not a FLAC stream")
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")
	ErrInvalidChannels     = errors.New("FLAC supports 1 to 8 channels")
	ErrInvalidRate         = errors.New("sample rate must be positive")
	ErrRaggedSamples       = errors.New("sample count is not a multiple of the channel count")
	ErrChannelMismatch     = errors.New("frame channel count differs from stream info")
)
