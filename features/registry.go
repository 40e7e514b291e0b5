// SPDX-License-Identifier: EPL-2.0

package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ik5/audstream/stream"
)

// Options parametrizes the extractors that take arguments.
type Options struct {
	MelBands int
	Rolloff  float64
}

// DefaultOptions returns 40 mel bands and an 85% rolloff.
func DefaultOptions() Options {
	return Options{
		MelBands: 40,
		Rolloff:  0.85,
	}
}

type entry struct {
	build   func(Options) (stream.Extractor, error)
	columns func(Options) []string
}

func single(name string) func(Options) []string {
	return func(Options) []string { return []string{name} }
}

func plain(e stream.Extractor) func(Options) (stream.Extractor, error) {
	return func(Options) (stream.Extractor, error) { return e, nil }
}

var known = map[string]entry{
	"rms":      {build: plain(RMS), columns: single("rms")},
	"peak":     {build: plain(Peak), columns: single("peak")},
	"zcr":      {build: plain(ZeroCrossingRate), columns: single("zcr")},
	"centroid": {build: plain(SpectralCentroid), columns: single("centroid")},
	"rolloff": {
		build:   func(o Options) (stream.Extractor, error) { return SpectralRolloff(o.Rolloff) },
		columns: single("rolloff"),
	},
	"mel": {
		build:   func(o Options) (stream.Extractor, error) { return MelBands(o.MelBands) },
		columns: melColumns,
	},
}

func melColumns(o Options) []string {
	cols := make([]string, o.MelBands)
	for i := range cols {
		cols[i] = fmt.Sprintf("mel_%d", i)
	}
	return cols
}

// Names lists the feature names ByName understands.
func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ByName builds one extractor computing the named features in order and
// concatenating their outputs. Names are case-insensitive. All unknown or
// misconfigured names are reported together.
func ByName(opts Options, names ...string) (stream.Extractor, error) {
	if len(names) == 0 {
		return nil, ErrNoFeatures
	}

	var (
		extractors []stream.Extractor
		result     *multierror.Error
	)
	for _, name := range names {
		e, ok := known[strings.ToLower(name)]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("%w: %q", ErrUnknownFeature, name))
			continue
		}

		ex, err := e.build(opts)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("feature %q: %w", name, err))
			continue
		}
		extractors = append(extractors, ex)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return Combine(extractors...), nil
}

// Columns returns one label per value produced by ByName(opts, names...).
// Unknown names are skipped.
func Columns(opts Options, names ...string) []string {
	var cols []string
	for _, name := range names {
		if e, ok := known[strings.ToLower(name)]; ok {
			cols = append(cols, e.columns(opts)...)
		}
	}

	return cols
}

// Combine returns an extractor concatenating the vectors of extractors in
// order. The first failure stops the block.
func Combine(extractors ...stream.Extractor) stream.Extractor {
	if len(extractors) == 1 {
		return extractors[0]
	}

	return func(mono []float32, sampleRate int) (stream.Vector, error) {
		var out stream.Vector
		for i, e := range extractors {
			v, err := e(mono, sampleRate)
			if err != nil {
				return nil, fmt.Errorf("extractor %d: %w", i, err)
			}
			out = append(out, v...)
		}
		return out, nil
	}
}
