// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF/WAVE files with integer PCM samples.
//
// Decoding is done with github.com/go-audio/wav. 8, 16, 24 and 32 bit
// samples are accepted, in plain or WAVE_FORMAT_EXTENSIBLE files, with any
// channel count. Unknown chunks before or after "fmt " are skipped. 8-bit
// data is unsigned, every other depth is signed little-endian, and all of
// them are scaled into [-1, 1]:
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Readers without Seek are buffered in memory first.
//
// # Writing
//
// Writer, Write and WriteSource encode float32 samples in one of the
// Subtype layouts (PCM_U8, PCM_16, PCM_24, PCM_32). They patch the chunk
// sizes on Close, so the destination must be an io.WriteSeeker such as an
// *os.File or a vfile.File:
//
//	out, _ := os.Create("out.wav")
//	frames, err := wav.WriteSource(out, src, wav.PCM16, 4096)
//
// WriteWAV16 writes a canonical 44 byte header followed by 16-bit samples
// and works on any io.Writer, including pipes and network connections.
package wav
