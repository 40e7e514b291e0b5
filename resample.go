// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

// ResampleToMono16 reads src to the end through a resampler and a mono
// mixer and returns the result as 16-bit PCM at targetRate. bufferSize is
// the number of samples pulled per read.
//
// src is not closed.
//
//	src, _ := wav.Decoder{}.Decode(file)
//	pcm16, rate, err := audstream.ResampleToMono16(src, 8000, 4096)
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	resampler, err := audio.NewResampler(src, targetRate)
	if err != nil {
		return nil, targetRate, err
	}
	mono := audio.NewMonoMixer(resampler)

	// start with two seconds and grow as needed
	pcm16 := make([]int16, 0, targetRate*2)
	buf := make([]float32, max(bufferSize, 1))

	empty := 0
	for {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			empty = 0
			for _, x := range buf[:n] {
				pcm16 = append(pcm16, utils.Float32ToInt16(x))
			}
		} else if err == nil {
			empty++
			if empty >= 100 {
				return pcm16, targetRate, io.ErrNoProgress
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("resampling to mono 16-bit: %w", err)
		}
	}

	return pcm16, targetRate, nil
}
