// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// maxEmptyReads bounds how many consecutive (0, nil) reads a BlockReader
// tolerates before giving up with io.ErrNoProgress.
const maxEmptyReads = 100

// Block is one chunk of interleaved samples read from a Source.
//
// Data is owned by the BlockReader that produced it and is only valid
// until the next call to Next.
type Block struct {
	Index    int
	Channels int
	Data     []float32
}

// Frames returns the number of complete frames (samples per channel) held by the block.
func (b Block) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// BlockReader is a single-pass cursor producing fixed-size blocks from a
// Source. It keeps exactly one sample buffer alive no matter how long the
// stream is.
type BlockReader struct {
	src       Source
	blockSize int // frames per block
	overlap   int // frames shared between consecutive blocks

	buf          []float32
	lastLen      int
	lastChannels int
	index        int

	eof bool
	err error
}

// NewBlockReader returns a cursor yielding blocks of blockSize frames.
// The last block may be shorter.
func NewBlockReader(src Source, blockSize int) (*BlockReader, error) {
	return NewOverlappingBlockReader(src, blockSize, 0)
}

// NewOverlappingBlockReader returns a cursor where every block after the
// first starts with the trailing overlap frames of the previous block, so
// each block advances the stream by blockSize-overlap frames.
func NewOverlappingBlockReader(src Source, blockSize, overlap int) (*BlockReader, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}
	if overlap < 0 || overlap >= blockSize {
		return nil, fmt.Errorf("%w: overlap %d, block size %d", ErrInvalidOverlap, overlap, blockSize)
	}

	channels := max(src.Channels(), 1)

	return &BlockReader{
		src:       src,
		blockSize: blockSize,
		overlap:   overlap,
		buf:       make([]float32, blockSize*channels),
	}, nil
}

// BlockSize returns the configured number of frames per block.
func (br *BlockReader) BlockSize() int { return br.blockSize }

// Next returns the next block. It returns io.EOF once the source is
// exhausted, and keeps returning the first non-EOF read error after one
// occurred.
func (br *BlockReader) Next() (Block, error) {
	if br.err != nil {
		return Block{}, br.err
	}
	if br.eof {
		return Block{}, io.EOF
	}

	channels := br.src.Channels()
	if channels <= 0 {
		// Let the consumer decide what a channel-less block means.
		return Block{Index: br.index, Channels: channels}, nil
	}

	want := br.blockSize * channels
	carry := br.carry(channels, want)
	buf := br.buf[:want]

	n := carry
	empty := 0
	for n < want {
		m, err := br.src.ReadSamples(buf[n:])
		n += m

		if errors.Is(err, io.EOF) {
			br.eof = true
			break
		}
		if err != nil {
			br.err = fmt.Errorf("reading block %d: %w", br.index, err)
			return Block{}, br.err
		}

		if m > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			br.err = fmt.Errorf("reading block %d: %w", br.index, io.ErrNoProgress)
			return Block{}, br.err
		}
	}

	if n == carry {
		br.eof = true
		return Block{}, io.EOF
	}

	br.lastLen = n
	br.lastChannels = channels

	b := Block{
		Index:    br.index,
		Channels: channels,
		Data:     buf[:n],
	}
	br.index++

	return b, nil
}

// carry moves the overlapping tail of the previous block to the front of
// the buffer, growing it when the channel layout needs more room, and
// returns how many samples were kept.
func (br *BlockReader) carry(channels, want int) int {
	keep := 0
	if br.overlap > 0 && br.index > 0 && channels == br.lastChannels {
		keep = min(br.overlap*channels, br.lastLen)
	}
	tail := br.buf[br.lastLen-keep : br.lastLen]

	if cap(br.buf) < want {
		grown := make([]float32, want)
		copy(grown, tail)
		br.buf = grown
		return keep
	}

	br.buf = br.buf[:cap(br.buf)]
	copy(br.buf, tail)

	return keep
}
