// SPDX-License-Identifier: EPL-2.0

package features

import "errors"

var (
	ErrEmptyFrame     = errors.New("frame is empty")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidBands   = errors.New("mel band count must be positive")
	ErrInvalidRolloff = errors.New("rolloff must be in range (0, 1]")
	ErrUnknownFeature = errors.New("unknown feature")
	ErrNoFeatures     = errors.New("no features selected")
)
