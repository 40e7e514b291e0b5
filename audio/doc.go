// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives the rest of audstream is
// built on.
//
//   - Source, the pull-based contract every decoder implements
//   - BlockReader, a single-pass cursor of fixed-size blocks
//   - Downmix and MonoMixer for channel averaging
//   - Resampler for sample rate conversion
//   - Registry for decoder lookup by format key
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples fills dst with interleaved float32 samples in [-1, 1] and
// returns the number of values written. io.EOF marks the end of the stream;
// it may be returned together with the last samples.
//
// # Blocks
//
// A BlockReader slices a Source into blocks of a fixed number of frames:
//
//	br, err := audio.NewBlockReader(src, 4096)
//	for {
//	    block, err := br.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    // block.Data is valid until the next call to Next
//	}
//
// Every block except the last one is full, so a stream of N frames yields
// ceil(N/blockSize) blocks. The reader reuses one buffer for the whole
// stream. NewOverlappingBlockReader makes consecutive blocks share frames.
//
// # Resampling
//
// The Resampler wraps github.com/tphakala/go-audio-resampling:
//
//	rs, err := audio.NewResampler(source, 16000)
//	buf := make([]float32, 4096)
//	n, err := rs.ReadSamples(buf)
//
// # Channel Mixing
//
// Downmix averages one interleaved buffer into a mono one. MonoMixer does
// the same as a Source:
//
//	mono := audio.NewMonoMixer(source)
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, format, err := registry.Lookup("speech.WAV")
//
// Keys are case-insensitive. Lookup returns an *UnknownFormatError for
// unregistered keys.
package audio
