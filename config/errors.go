// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidBlockSize  = errors.New("block_size must be positive")
	ErrInvalidOverlap    = errors.New("overlap must be in range [0, block_size)")
	ErrInvalidTargetRate = errors.New("target_rate must not be negative")
	ErrInvalidLogLevel   = errors.New("unknown log_level")
	ErrInvalidOutput     = errors.New("output must be yaml or json")
)
