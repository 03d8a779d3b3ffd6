package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	resampler "github.com/myriota/go-resampler"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens a two-channel WAV file holding I on the left channel
// and Q on the right.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if format.NumChannels != iqChannels {
		_ = inputFile.Close()
		return nil, fmt.Errorf("%s has %d channels, I/Q input needs %d", path, format.NumChannels, iqChannels)
	}
	if getMaxValue(bitDepth) == 0 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("%s: unsupported bit depth %d", path, bitDepth)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d-bit I/Q", format.SampleRate, bitDepth)
	}

	// Duration is only used for progress reporting.
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         format.SampleRate,
		bitDepth:     bitDepth,
		totalSamples: int64(duration.Seconds() * float64(format.SampleRate)),
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates a two-channel PCM output file.
func createWAVOutput(path string, sampleRate, bitDepth int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, iqChannels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: iqChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved I/Q values.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalises the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalSamples int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalSamples int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalSamples: totalSamples,
		verbose:      verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentSamples int64) {
	if !p.verbose || p.totalSamples == 0 {
		return
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// getMaxValue returns the full-scale value for a PCM bit depth, or 0 when
// the depth is unsupported.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return 0
	}
}

// decodeIQ converts interleaved PCM pairs to complex samples scaled to
// [-1, 1].
func decodeIQ(data []int, invMaxVal float64) []complex128 {
	out := make([]complex128, len(data)/iqChannels)
	for i := range out {
		out[i] = complex(float64(data[2*i])*invMaxVal, float64(data[2*i+1])*invMaxVal)
	}
	return out
}

// encodeIQ converts complex samples back to interleaved PCM, clamping to
// full scale.
func encodeIQ(samples []complex128, dst []int, maxVal float64) []int {
	dst = dst[:0]
	for _, s := range samples {
		dst = append(dst, quantize(real(s), maxVal), quantize(imag(s), maxVal))
	}
	return dst
}

func quantize(x, maxVal float64) int {
	v := x * maxVal
	switch {
	case v > maxVal:
		v = maxVal
	case v < -maxVal-1:
		v = -maxVal - 1
	}
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// decodeIQ16 converts interleaved 16-bit PCM pairs to fixed point samples.
func decodeIQ16(data []int) []resampler.Complex16 {
	pairs := make([]int16, len(data))
	for i, v := range data {
		pairs[i] = int16(v)
	}
	return resampler.DeinterleaveIQ16(pairs)
}

// encodeIQ16 converts fixed point samples to interleaved PCM.
func encodeIQ16(samples []resampler.Complex16, dst []int) []int {
	dst = dst[:0]
	for _, v := range resampler.InterleaveIQ16(samples) {
		dst = append(dst, int(v))
	}
	return dst
}
