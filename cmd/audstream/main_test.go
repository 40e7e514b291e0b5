// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/formats/wav"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTone(t *testing.T, dir string, channels int) string {
	t.Helper()

	samples := make([]float32, 8000*channels)
	for i := range samples {
		samples[i] = 0.25
	}
	path := filepath.Join(dir, "tone.wav")
	require.NoError(t, audstream.WriteFile(context.Background(), path, samples, 8000, channels, wav.PCM16))
	return path
}

func TestFeaturesCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 2)

	out, err := execute(t, "features", "--block-size", "2000", "--features", "rms,peak", in)
	require.NoError(t, err)

	var r report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, []string{"rms", "peak"}, r.Columns)
	assert.Equal(t, 2000, r.BlockSize)
	assert.Equal(t, 8000, r.SampleRate)
	require.Len(t, r.Vectors, 4)
	assert.InDelta(t, 0.25, r.Vectors[0][0], 1e-3)
	assert.Empty(t, r.Error)
}

func TestFeaturesCommand_ConfigAndJSON(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 1)
	cfg := filepath.Join(dir, "audstream.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("block_size: 4000\nfeatures: [zcr]\noutput: json\n"), 0o600))

	out, err := execute(t, "--config", cfg, "features", in)
	require.NoError(t, err)
	assert.Contains(t, out, `"columns"`)

	var r report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, []string{"zcr"}, r.Columns)
	assert.Len(t, r.Vectors, 2)
}

func TestFeaturesCommand_ReportsResampledRate(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 2)

	out, err := execute(t, "features", "--target-rate", "16000", "--block-size", "4000", "--features", "rms", in)
	require.NoError(t, err)

	var r report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, 16000, r.SampleRate)
	assert.Len(t, r.Vectors, 4)
}

func TestFeaturesCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 1)

	_, err := execute(t, "features", "--features", "chroma", in)
	assert.Error(t, err)

	_, err = execute(t, "features", "--block-size", "0", in)
	assert.Error(t, err)

	_, err = execute(t, "--log-level", "loud", "features", in)
	assert.Error(t, err)

	_, err = execute(t, "features", filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 2)
	outPath := filepath.Join(dir, "out.wav")

	_, err := execute(t, "convert", "--mono", "--subtype", "PCM_24", in, outPath)
	require.NoError(t, err)

	src, err := audstream.Open(context.Background(), outPath)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, 1, src.Channels())
	assert.Equal(t, 8000, src.SampleRate())

	buf := make([]float32, 16)
	n, err := src.ReadSamples(buf)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.25, 0.25}, buf[:2], 1e-3)
	assert.Equal(t, 16, n)
}

func TestConvertCommand_Resample(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 1)
	outPath := filepath.Join(dir, "out.wav")

	_, err := execute(t, "convert", "--rate", "16000", in, outPath)
	require.NoError(t, err)

	src, err := audstream.Open(context.Background(), outPath)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, 16000, src.SampleRate())

	total := 0
	buf := make([]float32, 1024)
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, 16000, total)
}

func TestConvertCommand_BadSubtype(t *testing.T) {
	dir := t.TempDir()
	in := writeTone(t, dir, 1)

	_, err := execute(t, "convert", "--subtype", "FLOAT", in, filepath.Join(dir, "out.wav"))
	assert.ErrorIs(t, err, wav.ErrUnknownSubtype)
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)
	assert.Contains(t, out, "flac\n")
	assert.Contains(t, out, "wav\n")
}
