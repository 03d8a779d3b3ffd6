package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resampler "github.com/myriota/go-resampler"
)

func writeTestWAV(t *testing.T, path string, rate, bitDepth, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func readTestWAV(t *testing.T, path string) *audio.IntBuffer {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf
}

// iqTone returns n interleaved frames of a complex tone at the given level.
func iqTone(freq, rate float64, n int, level float64) []int {
	data := make([]int, 0, n*iqChannels)
	for k := range n {
		phase := 2 * math.Pi * freq * float64(k) / rate
		data = append(data, int(math.Round(level*math.Cos(phase))), int(math.Round(level*math.Sin(phase))))
	}
	return data
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := openWAVInput(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenWAVInput_RejectsMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	writeTestWAV(t, path, 8000, 16, 1, make([]int, 100))

	_, err := openWAVInput(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "I/Q input needs 2")
}

func TestOpenWAVInput_IQ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iq.wav")
	writeTestWAV(t, path, 8000, 16, 2, iqTone(100, 8000, 800, 1000))

	input, err := openWAVInput(path, true)
	require.NoError(t, err)
	defer func() { _ = input.Close() }()

	assert.Equal(t, 8000, input.rate)
	assert.Equal(t, 16, input.bitDepth)
	assert.Equal(t, 2, input.format.NumChannels)
}

func TestCreateWAVOutput_InvalidDirectory(t *testing.T) {
	_, err := createWAVOutput("/nonexistent/dir/output.wav", 48000, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestCreateWAVOutput_Success(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test_output.wav")

	writer, err := createWAVOutput(outputPath, 9600, 16)
	require.NoError(t, err)
	require.NoError(t, writer.WriteSamples(nil))
	require.NoError(t, writer.WriteSamples([]int{1, -1, 2, -2}))
	require.NoError(t, writer.Close())

	buf := readTestWAV(t, outputPath)
	assert.Equal(t, []int{1, -1, 2, -2}, buf.Data)
	assert.Equal(t, 9600, buf.Format.SampleRate)
	assert.Equal(t, 2, buf.Format.NumChannels)
}

func TestGetMaxValue(t *testing.T) {
	assert.InDelta(t, maxInt16, getMaxValue(16), 0)
	assert.InDelta(t, maxInt24, getMaxValue(24), 0)
	assert.InDelta(t, maxInt32, getMaxValue(32), 0)
	assert.Zero(t, getMaxValue(12))
}

func TestDecodeEncodeIQ(t *testing.T) {
	data := []int{32767, -32767, 0, 16384, 7}
	samples := decodeIQ(data, 1/maxInt16)
	require.Len(t, samples, 2)
	assert.InDelta(t, 1.0, real(samples[0]), 1e-12)
	assert.InDelta(t, -1.0, imag(samples[0]), 1e-12)

	out := encodeIQ(samples, nil, maxInt16)
	assert.Equal(t, data[:4], out)
}

func TestEncodeIQ_Clamps(t *testing.T) {
	out := encodeIQ([]complex128{complex(1.5, -1.5), complex(-0.49/maxInt16, 0.51/maxInt16)}, nil, maxInt16)
	assert.Equal(t, []int{32767, -32768, 0, 1}, out)
}

func TestDecodeEncodeIQ16(t *testing.T) {
	data := []int{32767, -32768, 5, -5}
	samples := decodeIQ16(data)
	assert.Equal(t, []resampler.Complex16{{Re: 32767, Im: -32768}, {Re: 5, Im: -5}}, samples)
	assert.Equal(t, data, encodeIQ16(samples, make([]int, 10)))
}

func TestProgressTracker(t *testing.T) {
	tracker := newProgressTracker(1000, true)
	tracker.reportIfNeeded(250)
	assert.Equal(t, 25, tracker.lastProgress)

	quiet := newProgressTracker(1000, false)
	quiet.reportIfNeeded(500)
	assert.Zero(t, quiet.lastProgress)

	empty := newProgressTracker(0, true)
	empty.reportIfNeeded(100)
	assert.Zero(t, empty.lastProgress)
}

func TestResampleWAV(t *testing.T) {
	tests := []struct {
		name string
		opts cliOptions
	}{
		{"float", cliOptions{window: defaultWindow}},
		{"int16_divide", cliOptions{window: defaultWindow, int16: true}},
		{"int16_shift", cliOptions{window: 16, int16: true, shift: true}},
	}

	const frames = 3000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			inputPath := filepath.Join(dir, "in.wav")
			outputPath := filepath.Join(dir, "out.wav")
			writeTestWAV(t, inputPath, 8000, 16, 2, iqTone(440, 8000, frames, 8000))

			stats, err := resampleWAV(inputPath, outputPath, 9600, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, int64(frames), stats.inputSamples)
			assert.Equal(t, int64(frames*6/5), stats.outputSamples)
			assert.Equal(t, resampler.Rational{P: 6, Q: 5}, stats.ratio)
			assert.Zero(t, stats.clipped)

			buf := readTestWAV(t, outputPath)
			assert.Equal(t, 9600, buf.Format.SampleRate)
			require.Len(t, buf.Data, frames*6/5*iqChannels)

			// Mid-stream magnitude stays near the input level (up to the
			// shift normalisation gain).
			i, q := float64(buf.Data[2000]), float64(buf.Data[2001])
			mag := math.Hypot(i, q)
			assert.Greater(t, mag, 7800.0)
			assert.Less(t, mag, 16100.0)
		})
	}
}

func TestResampleWAV_Int16NeedsSixteenBit(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "in24.wav")
	writeTestWAV(t, inputPath, 8000, 24, 2, iqTone(100, 8000, 100, 100000))

	_, err := resampleWAV(inputPath, filepath.Join(dir, "out.wav"), 9600, cliOptions{window: defaultWindow, int16: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16-bit")
}
