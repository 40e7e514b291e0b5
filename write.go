// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/formats/flac"
	"github.com/ik5/audstream/formats/wav"
)

// WriteFile encodes interleaved samples into path. The container follows
// the extension (.wav, .wave, .aiff, .aif or .flac). subtype selects the
// sample encoding; AIFF and FLAC only use its bit depth, and FLAC rejects
// PCM_32.
func WriteFile(ctx context.Context, path string, samples []float32, sampleRate, channels int, subtype wav.Subtype) (err error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	var encode func(f *os.File) error
	switch ext {
	case "wav", "wave":
		encode = func(f *os.File) error { return wav.Write(f, samples, sampleRate, channels, subtype) }
	case "aiff", "aif":
		encode = func(f *os.File) error { return aiff.Write(f, samples, sampleRate, channels, subtype.BitDepth()) }
	case "flac":
		encode = func(f *os.File) error { return flac.Write(f, samples, sampleRate, channels, subtype.BitDepth()) }
	default:
		return &audio.UnknownFormatError{Format: ext}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		// the FLAC encoder may already have closed f
		if cerr := f.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			err = multierror.Append(err, fmt.Errorf("closing %s: %w", path, cerr)).ErrorOrNil()
		}
	}()

	if err := encode(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Debugf(ctx, "wrote %d frames to %s as %s", len(samples)/max(channels, 1), path, subtype)
	return nil
}
