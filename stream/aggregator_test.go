// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/internal/audiotest"
)

// indexExtractor returns the running block index, so the output reveals
// the order in which blocks reached the extractor.
func indexExtractor() Extractor {
	i := 0
	return func(mono []float32, sampleRate int) (Vector, error) {
		v := Vector{float64(i)}
		i++
		return v, nil
	}
}

func lengthExtractor(mono []float32, sampleRate int) (Vector, error) {
	return Vector{float64(len(mono))}, nil
}

func firstSampleExtractor(mono []float32, sampleRate int) (Vector, error) {
	return Vector{float64(mono[0])}, nil
}

func copyExtractor(mono []float32, sampleRate int) (Vector, error) {
	v := make(Vector, len(mono))
	for i, s := range mono {
		v[i] = float64(s)
	}
	return v, nil
}

func TestRun_VectorCountIsCeilOfFramesOverBlockSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frames    int
		blockSize int
		want      int
	}{
		{frames: 0, blockSize: 4, want: 0},
		{frames: 1, blockSize: 4, want: 1},
		{frames: 4, blockSize: 4, want: 1},
		{frames: 5, blockSize: 4, want: 2},
		{frames: 10, blockSize: 4, want: 3},
		{frames: 4096, blockSize: 1024, want: 4},
		{frames: 44100, blockSize: 2048, want: 22},
		{frames: 7, blockSize: 1, want: 7},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("N=%d,B=%d", tt.frames, tt.blockSize), func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(16000, 2, tt.frames, 440)
			seq, err := Run(context.Background(), src, tt.blockSize, lengthExtractor)
			require.NoError(t, err)
			require.Len(t, seq, tt.want)

			total := 0
			for _, v := range seq {
				total += int(v[0])
			}
			assert.Equal(t, tt.frames, total)
		})
	}
}

func TestRun_PreservesArrivalOrder(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 1, 1000)
	seq, err := Run(context.Background(), src, 100, indexExtractor())
	require.NoError(t, err)
	require.Len(t, seq, 10)

	for i, v := range seq {
		assert.Equal(t, Vector{float64(i)}, v)
	}

	src.Reset()
	seq, err = Run(context.Background(), src, 100, firstSampleExtractor)
	require.NoError(t, err)
	for i, v := range seq {
		assert.Equal(t, float64(i*100), v[0], "block %d", i)
	}
}

func TestRun_MonoIsChannelMean(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFrameSource(8000, [][]float32{{1, 3}, {2, 4}})
	seq, err := Run(context.Background(), src, 2, copyExtractor)
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, Vector{2, 3}, seq[0])
}

func TestRun_MonoInputIsIdentity(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFrameSource(8000, [][]float32{{0.25}, {-0.5}, {1}})
	seq, err := Run(context.Background(), src, 8, copyExtractor)
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.Equal(t, Vector{0.25, -0.5, 1}, seq[0])
}

func TestRun_ThreeChannelMean(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFrameSource(8000, [][]float32{{0.3, 0.6, 0.9}, {-1, 0, 1}})
	seq, err := Run(context.Background(), src, 2, copyExtractor)
	require.NoError(t, err)
	require.Len(t, seq, 1)
	assert.InDelta(t, 0.6, seq[0][0], 1e-6)
	assert.InDelta(t, 0.0, seq[0][1], 1e-6)
}

// recordingIterator remembers the backing arrays of every block it hands out.
type recordingIterator struct {
	inner   BlockIterator
	buffers map[*float32]struct{}
}

func (r *recordingIterator) Next() (audio.Block, error) {
	b, err := r.inner.Next()
	if err == nil && len(b.Data) > 0 {
		r.buffers[&b.Data[:cap(b.Data)][0]] = struct{}{}
	}
	return b, err
}

func TestRun_KeepsOneBlockBufferAlive(t *testing.T) {
	t.Parallel()

	const (
		blockSize = 16
		blocks    = 10000
	)

	src := audiotest.NewSineSource(16000, 2, blockSize*blocks, 440)
	br, err := audio.NewBlockReader(src, blockSize)
	require.NoError(t, err)

	it := &recordingIterator{inner: br, buffers: map[*float32]struct{}{}}
	monoBuffers := map[*float32]struct{}{}
	extract := func(mono []float32, sampleRate int) (Vector, error) {
		monoBuffers[&mono[:cap(mono)][0]] = struct{}{}
		return Vector{float64(len(mono))}, nil
	}

	agg := New(blockSize, extract)
	seq, err := agg.RunBlocks(context.Background(), it, src.SampleRate(), src.Channels())
	require.NoError(t, err)
	require.Len(t, seq, blocks)

	assert.Len(t, it.buffers, 1, "block buffers must be reused")
	assert.Len(t, monoBuffers, 1, "mono buffers must be reused")
	assert.Equal(t, Stats{Blocks: blocks, Frames: blockSize * blocks}, agg.Stats())
}

func TestRun_ReadFailureReturnsPartialSequence(t *testing.T) {
	t.Parallel()

	for _, k := range []int{0, 1, 3, 7} {
		t.Run(fmt.Sprintf("K=%d", k), func(t *testing.T) {
			t.Parallel()

			const blockSize = 32
			src := audiotest.NewFailingSource(audiotest.NewSineSource(8000, 2, 10000, 440), k*blockSize)

			seq, err := Run(context.Background(), src, blockSize, lengthExtractor)
			require.Error(t, err)
			assert.Len(t, seq, k)

			var readErr *SourceReadError
			require.ErrorAs(t, err, &readErr)
			assert.Equal(t, k, readErr.Block)
			assert.ErrorIs(t, err, audiotest.ErrInjected)
		})
	}
}

func TestRun_ReadFailureMidBlockDropsThatBlock(t *testing.T) {
	t.Parallel()

	src := audiotest.NewFailingSource(audiotest.NewSineSource(8000, 1, 1000, 440), 50)

	seq, err := Run(context.Background(), src, 20, lengthExtractor)
	assert.Len(t, seq, 2)

	var readErr *SourceReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, 2, readErr.Block)
}

func TestRun_ExhaustedSourceYieldsEmptySequence(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(8000, 2, 500, 440)

	seq, err := Run(context.Background(), src, 64, lengthExtractor)
	require.NoError(t, err)
	require.Len(t, seq, 8)

	seq, err = Run(context.Background(), src, 64, lengthExtractor)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestRun_ChannelCountChangeIsShapeError(t *testing.T) {
	t.Parallel()

	src := &audiotest.ReshapingSource{
		MockSource:        audiotest.NewSineSource(8000, 2, 1000, 440),
		SwitchAfterFrames: 200,
		NewChannels:       3,
	}

	seq, err := Run(context.Background(), src, 100, lengthExtractor)
	assert.Len(t, seq, 2)

	var shapeErr *InvalidChannelShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 2, shapeErr.Block)
	assert.Equal(t, 2, shapeErr.Want)
	assert.Equal(t, 3, shapeErr.Got)
	assert.ErrorIs(t, err, ErrInvalidChannelShape)
}

// sliceIterator replays prepared blocks.
type sliceIterator struct {
	blocks []audio.Block
}

func (s *sliceIterator) Next() (audio.Block, error) {
	if len(s.blocks) == 0 {
		return audio.Block{}, io.EOF
	}
	b := s.blocks[0]
	s.blocks = s.blocks[1:]
	return b, nil
}

func TestRunBlocks_RaggedBlockIsShapeError(t *testing.T) {
	t.Parallel()

	it := &sliceIterator{blocks: []audio.Block{
		{Index: 0, Channels: 2, Data: []float32{1, 1, 2, 2}},
		{Index: 1, Channels: 2, Data: []float32{1, 1, 2}},
		{Index: 2, Channels: 2, Data: []float32{1, 1}},
	}}

	seq, err := New(2, lengthExtractor).RunBlocks(context.Background(), it, 8000, 2)
	assert.Len(t, seq, 1)

	var shapeErr *InvalidChannelShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 1, shapeErr.Block)
	assert.Equal(t, 3, shapeErr.Samples)
	assert.Contains(t, shapeErr.Error(), "do not divide")
}

func TestRun_ExtractorErrorHaltsConsumption(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	calls := 0
	extract := func(mono []float32, sampleRate int) (Vector, error) {
		calls++
		if calls == 4 {
			return nil, errBoom
		}
		return Vector{1}, nil
	}

	src := audiotest.NewSineSource(8000, 1, 1000, 440)
	seq, err := Run(context.Background(), src, 10, extract)
	assert.Len(t, seq, 3)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 40, src.Generated())

	var extErr *ExtractorError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, 3, extErr.Block)
	assert.ErrorIs(t, err, errBoom)
}

func TestRun_CancellationIsCheckedPerBlock(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	extract := func(mono []float32, sampleRate int) (Vector, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return Vector{0}, nil
	}

	seq, err := Run(ctx, audiotest.NewSilentSource(8000, 1, 1000), 10, extract)
	assert.Len(t, seq, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_PassesDeclaredSampleRate(t *testing.T) {
	t.Parallel()

	var rates []int
	extract := func(mono []float32, sampleRate int) (Vector, error) {
		rates = append(rates, sampleRate)
		return Vector{}, nil
	}

	src := audiotest.NewSilentSource(22050, 2, 300)
	_, err := Run(context.Background(), src, 100, extract)
	require.NoError(t, err)
	assert.Equal(t, []int{22050, 22050, 22050}, rates)
	assert.Equal(t, 22050, src.SampleRate())
	assert.Equal(t, 2, src.Channels())
	assert.False(t, src.Closed, "Run must not close the source")
}

func TestRun_ResampledStereoReachesEndOfStream(t *testing.T) {
	t.Parallel()

	for _, frames := range []int{4800, 4803} {
		src := audiotest.NewMockSource(48000, 2, frames, func(_ int, channel int) float32 {
			return []float32{0.5, -0.5}[channel]
		})
		rs, err := audio.NewResampler(src, 16000)
		require.NoError(t, err)

		agg := New(256, lengthExtractor)
		seq, err := agg.Run(context.Background(), rs)
		require.NoError(t, err, "%d frames", frames)

		want := (frames + 2) / 3
		assert.Len(t, seq, (want+255)/256)
		assert.Equal(t, want, agg.Stats().Frames)
		assert.Equal(t, 16000, agg.Stats().SampleRate)
	}
}

func TestRun_StalledSourceIsReadError(t *testing.T) {
	t.Parallel()

	seq, err := Run(context.Background(), &audiotest.StallingSource{Rate: 8000, Chans: 1}, 10, lengthExtractor)
	assert.Empty(t, seq)

	var readErr *SourceReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, io.ErrNoProgress)
}

func TestRun_Overlap(t *testing.T) {
	t.Parallel()

	agg := &Aggregator{BlockSize: 4, Overlap: 2, Extract: copyExtractor}
	seq, err := agg.Run(context.Background(), audiotest.NewRampSource(8000, 1, 10))
	require.NoError(t, err)

	assert.Equal(t, Sequence{
		{0, 1, 2, 3},
		{2, 3, 4, 5},
		{4, 5, 6, 7},
		{6, 7, 8, 9},
	}, seq)
}

func TestRun_PartialBlockStats(t *testing.T) {
	t.Parallel()

	agg := New(4, lengthExtractor)
	seq, err := agg.Run(context.Background(), audiotest.NewSilentSource(8000, 2, 10))
	require.NoError(t, err)
	assert.Equal(t, Sequence{{4}, {4}, {2}}, seq)
	assert.Equal(t, Stats{SampleRate: 8000, Channels: 2, Blocks: 3, Frames: 10, PartialBlock: true}, agg.Stats())
}

func TestRun_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 10)

	tests := []struct {
		name string
		agg  *Aggregator
		src  audio.Source
		want error
	}{
		{name: "nil source", agg: New(4, lengthExtractor), src: nil, want: ErrNilSource},
		{name: "nil extractor", agg: New(4, nil), src: src, want: ErrNilExtractor},
		{name: "zero block size", agg: New(0, lengthExtractor), src: src, want: ErrInvalidBlockSize},
		{name: "negative block size", agg: New(-3, lengthExtractor), src: src, want: ErrInvalidBlockSize},
		{name: "overlap equals block", agg: &Aggregator{BlockSize: 4, Overlap: 4, Extract: lengthExtractor}, src: src, want: ErrInvalidOverlap},
		{name: "negative overlap", agg: &Aggregator{BlockSize: 4, Overlap: -1, Extract: lengthExtractor}, src: src, want: ErrInvalidOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := tt.agg.Run(context.Background(), tt.src)
			assert.Nil(t, seq)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func BenchmarkRun_StereoBlocks(b *testing.B) {
	src := audiotest.NewSineSource(44100, 2, 44100*10, 440)
	agg := New(2048, lengthExtractor)

	b.ReportAllocs()

	for b.Loop() {
		src.Reset()
		_, _ = agg.Run(context.Background(), src)
	}
}
