// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/internal/vfile"
)

// Example encodes a short stereo clip, decodes it again and mixes it down.
func Example() {
	f := vfile.New(nil)
	if err := aiff.Write(f, []float32{0.5, 0.25, -0.5, -0.25}, 44100, 2, 16); err != nil {
		fmt.Println(err)
		return
	}

	src, err := aiff.Decoder{}.Decode(bytes.NewReader(f.Bytes()))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d Hz, %d channels\n", src.SampleRate(), src.Channels())

	mono := audio.NewMonoMixer(src)
	buf := make([]float32, 8)
	n, _ := mono.ReadSamples(buf)
	fmt.Printf("%.3f\n", buf[:n])
	// Output:
	// 44100 Hz, 2 channels
	// [0.375 -0.375]
}

func ExampleDecoder_Decode_invalid() {
	_, err := aiff.Decoder{}.Decode(bytes.NewReader([]byte("RIFF....WAVE")))
	fmt.Println(errors.Is(err, aiff.ErrNotAiffFile))
	// Output: true
}
