// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrInvalidStream is returned when go-mp3 cannot find a frame header.
var ErrInvalidStream = errors.New("not a decodable MP3 stream")
