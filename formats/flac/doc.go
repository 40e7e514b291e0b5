// SPDX-License-Identifier: EPL-2.0

// Package flac reads and writes FLAC streams with github.com/mewkiz/flac.
//
// The decoder parses one FLAC frame at a time and interleaves its
// subframes into the caller's buffer, so memory use is bounded by the
// stream's largest block. Write produces verbatim (uncompressed) frames
// of BlockSize samples per channel.
package flac
