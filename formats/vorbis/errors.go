// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrInvalidStream is returned when the input has no Vorbis headers.
var ErrInvalidStream = errors.New("not an Ogg Vorbis stream")
