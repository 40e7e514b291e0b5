// SPDX-License-Identifier: EPL-2.0

// Package vfile provides an in-memory file usable where decoders and
// encoders need seeking: go-audio decoders read through an io.ReadSeeker
// and the WAV encoder patches its header through an io.WriteSeeker.
package vfile

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidWhence  = errors.New("invalid whence")
	ErrNegativeOffset = errors.New("negative position")
)

// File is a growable byte slice with a cursor. It is not safe for
// concurrent use.
type File struct {
	data []byte
	pos  int64
}

// New returns a File positioned at the start of b. b is not copied.
func New(b []byte) *File {
	return &File{data: b}
}

// Bytes returns the whole content regardless of the cursor.
func (f *File) Bytes() []byte { return f.data }

// Len returns the size of the content.
func (f *File) Len() int { return len(f.data) }

func (f *File) Read(p []byte) (int, error) {
	if f.pos >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

// Write writes p at the cursor, overwriting and extending the content as
// needed. Writing past the end fills the gap with zeros.
func (f *File) Write(p []byte) (int, error) {
	end := f.pos + int64(len(p))
	if size := int64(len(f.data)); end > size {
		if end <= int64(cap(f.data)) {
			f.data = f.data[:end]
			if f.pos > size {
				clear(f.data[size:f.pos])
			}
		} else {
			grown := make([]byte, end, max(end, 2*int64(cap(f.data))))
			copy(grown, f.data)
			f.data = grown
		}
	}
	n := copy(f.data[f.pos:], p)
	f.pos += int64(n)
	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.pos + offset
	case io.SeekEnd:
		pos = int64(len(f.data)) + offset
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}

	if pos < 0 {
		return 0, ErrNegativeOffset
	}

	f.pos = pos
	return pos, nil
}

// ReadSeeker returns r itself when it can seek, otherwise it buffers the
// rest of r in memory.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return New(data), nil
}
