// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved stereo, so every source from this
// package reports two channels; mono files come out with both channels
// equal. Samples are scaled from int16 into [-1, 1].
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	mono := audio.NewMonoMixer(src)
//
// The decoder reads r sequentially. Seeking and length queries are not
// exposed.
package mp3
