// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audstream/internal/audiotest"
)

func TestResampleToMono16_Basic(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(44100, 2, 44100, 440.0)

	pcm16, rate, err := ResampleToMono16(src, 8000, 4096)
	require.NoError(t, err)
	assert.Equal(t, 8000, rate)
	assert.Len(t, pcm16, 8000)
	assert.False(t, src.Closed)
}

func TestResampleToMono16_SameRate(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFrameSource(16000, [][]float32{{0.5, 0.5}, {-0.5, -0.5}, {0.5, 0}})

	pcm16, _, err := ResampleToMono16(src, 16000, 7)
	require.NoError(t, err)
	assert.Equal(t, []int16{16383, -16383, 8191}, pcm16)
}

func TestResampleToMono16_Constant(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(16000, 1, 16000, 0.5)

	pcm16, _, err := ResampleToMono16(src, 8000, 4096)
	require.NoError(t, err)
	require.NotEmpty(t, pcm16)

	// skip the filter's settling time at both ends
	mid := pcm16[len(pcm16)/4 : 3*len(pcm16)/4]
	for i, s := range mid {
		require.InDelta(t, 16384, s, 1000, "sample %d", i)
	}
}

func TestResampleToMono16_Silence(t *testing.T) {
	t.Parallel()

	pcm16, _, err := ResampleToMono16(audiotest.NewSilentSource(44100, 2, 44100), 8000, 4096)
	require.NoError(t, err)
	for i, s := range pcm16 {
		require.InDelta(t, 0, s, 100, "sample %d", i)
	}
}

func TestResampleToMono16_EmptySource(t *testing.T) {
	t.Parallel()

	pcm16, rate, err := ResampleToMono16(audiotest.NewSilentSource(44100, 2, 0), 8000, 4096)
	require.NoError(t, err)
	assert.Equal(t, 8000, rate)
	assert.Empty(t, pcm16)
}

func TestResampleToMono16_VariousRates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		srcRate int
		dstRate int
	}{
		{"44.1kHz to 8kHz", 44100, 8000},
		{"48kHz to 16kHz", 48000, 16000},
		{"8kHz to 16kHz", 8000, 16000},
		{"22.05kHz to 8kHz", 22050, 8000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.srcRate, 2, tt.srcRate, 440.0)

			pcm16, rate, err := ResampleToMono16(src, tt.dstRate, 4096)
			require.NoError(t, err)
			assert.Equal(t, tt.dstRate, rate)
			assert.Len(t, pcm16, tt.dstRate)
		})
	}
}

func TestResampleToMono16_StereoOddFrameCount(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(48000, 2, 4803, func(_ int, channel int) float32 {
		return []float32{0.75, -0.25}[channel]
	})

	pcm16, _, err := ResampleToMono16(src, 16000, 256)
	require.NoError(t, err)
	require.Len(t, pcm16, 1601)

	mid := pcm16[500:1100]
	for i, s := range mid {
		require.InDelta(t, 8192, s, 200, "sample %d", i)
	}
}

func TestResampleToMono16_Clamping(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 1, 99, func(sample int, channel int) float32 {
		return []float32{2, -2, 0}[sample%3]
	})

	pcm16, _, err := ResampleToMono16(src, 8000, 4096)
	require.NoError(t, err)
	require.Len(t, pcm16, 99)
	assert.Equal(t, []int16{32767, -32767, 0}, pcm16[:3])
}

func TestResampleToMono16_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := ResampleToMono16(audiotest.NewSilentSource(8000, 1, 10), 0, 4096)
	assert.Error(t, err)

	failing := audiotest.NewFailingSource(audiotest.NewSilentSource(8000, 1, 1000), 10)
	_, _, err = ResampleToMono16(failing, 8000, 4)
	assert.ErrorIs(t, err, audiotest.ErrInjected)

	_, _, err = ResampleToMono16(&audiotest.StallingSource{Rate: 8000, Chans: 1}, 8000, 4)
	assert.ErrorIs(t, err, io.ErrNoProgress)
}

func BenchmarkResampleToMono16(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := audiotest.NewSineSource(44100, 2, 44100, 440.0)
		_, _, _ = ResampleToMono16(src, 8000, 4096)
	}
}

func BenchmarkResampleToMono16_Upsample(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := audiotest.NewSineSource(8000, 2, 8000, 440.0)
		_, _, _ = ResampleToMono16(src, 44100, 4096)
	}
}
