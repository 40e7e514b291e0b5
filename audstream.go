// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/datacounter"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/formats/flac"
	"github.com/ik5/audstream/formats/mp3"
	"github.com/ik5/audstream/formats/vorbis"
	"github.com/ik5/audstream/formats/wav"
)

var defaultRegistry = NewRegistry()

// NewRegistry returns a registry with every bundled decoder registered
// under its usual file extensions.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("flac", flac.Decoder{})
	return r
}

// Formats lists the format keys Open and OpenReader understand.
func Formats() []string { return defaultRegistry.Formats() }

// countingFile counts bytes read from f while keeping it seekable, so
// decoders that need Seek do not fall back to buffering the whole file.
type countingFile struct {
	*datacounter.ReaderCounter
	f *os.File
}

func (c countingFile) Seek(offset int64, whence int) (int64, error) {
	return c.f.Seek(offset, whence)
}

// fileSource owns the file behind a decoded source.
type fileSource struct {
	audio.Source
	ctx     context.Context
	path    string
	file    *os.File
	counter *datacounter.ReaderCounter
}

// Close closes the decoder and then the file, reporting both failures.
func (s *fileSource) Close() error {
	var result error
	if err := s.Source.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing decoder: %w", err))
	}
	if err := s.file.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing %s: %w", s.path, err))
	}
	logger.Debugf(s.ctx, "closed %s after reading %d bytes", s.path, s.counter.Count())
	return result
}

// Open decodes the file at path, choosing the codec from its extension.
// Closing the returned source closes the file.
func Open(ctx context.Context, path string) (audio.Source, error) {
	dec, format, err := defaultRegistry.Lookup(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}

	counter := datacounter.NewReaderCounter(f)
	src, err := dec.Decode(countingFile{ReaderCounter: counter, f: f})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decoding %s as %s: %w", path, format, err)
	}

	logger.Debugf(ctx, "opened %s: %s, %d Hz, %d channels", path, format, src.SampleRate(), src.Channels())

	return &fileSource{Source: src, ctx: ctx, path: path, file: f, counter: counter}, nil
}

// OpenReader decodes r as the named format ("wav", ".flac", "take.mp3"
// are all accepted). The caller keeps ownership of r. Non-seekable readers
// are buffered in memory by the codecs that need to seek.
func OpenReader(ctx context.Context, r io.Reader, format string) (audio.Source, error) {
	dec, key, err := defaultRegistry.Lookup(format)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s stream: %w", key, err)
	}

	logger.Debugf(ctx, "decoding %s stream: %d Hz, %d channels", key, src.SampleRate(), src.Channels())
	return src, nil
}
