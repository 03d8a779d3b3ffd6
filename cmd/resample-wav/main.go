// Command resample-wav resamples I/Q recordings stored as two-channel WAV
// files, with I on the left channel and Q on the right.
//
// Usage:
//
//	resample-wav -rate 48 input.wav output.wav
//	resample-wav -rate 9.6 -window 16 input.wav output.wav
//	resample-wav -rate 8 -int16 -shift input.wav output.wav   # fixed point datapath
//
// The floating point datapath accepts 16, 24 and 32-bit input. The fixed
// point datapath needs 16-bit input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/go-audio/audio"
	"go.uber.org/zap"

	resampler "github.com/myriota/go-resampler"
	"github.com/myriota/go-resampler/internal/logging"
)

const (
	// Number of I/Q frames per chunk
	bufferSize = 65536

	// I on the left channel, Q on the right
	iqChannels = 2

	// WAV audio format tag for integer PCM
	wavFormatPCM = 1

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	kHzToHz          = 1000
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	defaultRateKHz  = 48.0
	defaultWindow   = 30.0
	minRequiredArgs = 2
	percentScale    = 100
)

func main() {
	if err := logging.InitFromEnv(); err != nil {
		log.Fatal(err)
	}
	defer logging.Sync()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

type cliOptions struct {
	rateKHz float64
	window  float64
	int16   bool
	shift   bool
	verbose bool
}

func run() error {
	var o cliOptions
	flag.Float64Var(&o.rateKHz, "rate", defaultRateKHz, "Target sample rate in kHz (e.g., 8, 9.6, 48)")
	flag.Float64Var(&o.window, "window", defaultWindow, "Kernel half-width; larger is slower but more accurate")
	flag.BoolVar(&o.int16, "int16", false, "Use the 16-bit fixed point datapath (16-bit input only)")
	flag.BoolVar(&o.shift, "shift", false, "Normalise with a shift instead of a division (with -int16)")
	flag.BoolVar(&o.verbose, "v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav        # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 8 -int16 in.wav out_8k.wav     # Fixed point to 8kHz\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	inputPath := args[0]
	outputPath := args[1]
	targetRate := int(o.rateKHz * kHzToHz)

	if o.verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Target rate: %d Hz", targetRate)
		log.Printf("Window: %g", o.window)
	}

	start := time.Now()
	stats, err := resampleWAV(inputPath, outputPath, targetRate, o)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (ratio %v, %d-bit, %s)\n",
		stats.inputRate, stats.outputRate, stats.ratio, stats.bitDepth, stats.datapath)
	fmt.Printf("  %d samples -> %d samples\n", stats.inputSamples, stats.outputSamples)
	if stats.clipped > 0 {
		fmt.Printf("  %d samples clipped\n", stats.clipped)
	}
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputSamples)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

type resampleStats struct {
	inputRate     int
	outputRate    int
	bitDepth      int
	ratio         resampler.Rational
	datapath      string
	inputSamples  int64
	outputSamples int64
	clipped       int64
}

type streamer[S any] interface {
	Process(input []S) ([]S, error)
	Flush() ([]S, error)
	Ratio() resampler.Rational
}

// iqPath binds a resampler to its PCM conversions.
type iqPath[S any] struct {
	name    string
	r       streamer[S]
	decode  func(data []int) []S
	encode  func(samples []S, dst []int) []int
	clipped func() int64
}

func resampleWAV(inputPath, outputPath string, targetRate int, o cliOptions) (*resampleStats, error) {
	input, err := openWAVInput(inputPath, o.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	cfg := resampler.Config{
		InputRate:  float64(input.rate),
		OutputRate: float64(targetRate),
		Window:     o.window,
	}
	logger := logging.Logger("resample-wav")

	if !o.int16 {
		r, err := resampler.New(cfg, resampler.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		maxVal := getMaxValue(input.bitDepth)
		return runPath(input, outputPath, targetRate, iqPath[complex128]{
			name:    "complex128",
			r:       r,
			decode:  func(data []int) []complex128 { return decodeIQ(data, 1/maxVal) },
			encode:  func(s []complex128, dst []int) []int { return encodeIQ(s, dst, maxVal) },
			clipped: func() int64 { return 0 },
		}, o.verbose)
	}

	if input.bitDepth != bitsPerSample16 {
		return nil, fmt.Errorf("-int16 needs 16-bit input, got %d-bit", input.bitDepth)
	}
	newFixed := resampler.NewFixed
	if o.shift {
		newFixed = resampler.NewFixedShift
	}
	r, err := newFixed(cfg, resampler.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	stats, err := runPath(input, outputPath, targetRate, iqPath[resampler.Complex16]{
		name:    "int16 " + r.Normalization().String(),
		r:       r,
		decode:  decodeIQ16,
		encode:  encodeIQ16,
		clipped: r.Clipped,
	}, o.verbose)
	if err == nil && stats.clipped > 0 {
		logger.Warn("outputs saturated", zap.Int64("clipped", stats.clipped))
	}
	return stats, err
}

func runPath[S any](input *wavInputInfo, outputPath string, targetRate int, p iqPath[S], verbose bool) (stats *resampleStats, err error) {
	output, err := createWAVOutput(outputPath, targetRate, input.bitDepth)
	if err != nil {
		return nil, err
	}
	// Close errors matter: the encoder patches the header on close.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: targetRate,
		bitDepth:   input.bitDepth,
		ratio:      p.r.Ratio(),
		datapath:   p.name,
	}
	progress := newProgressTracker(input.totalSamples, verbose)

	intBuffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize*iqChannels),
		Format: input.format,
	}
	var outBuf []int

	for {
		n, readErr := input.decoder.PCMBuffer(intBuffer)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", readErr)
		}
		if n == 0 {
			break
		}

		samples := p.decode(intBuffer.Data[:n])
		stats.inputSamples += int64(len(samples))

		ys, err := p.r.Process(samples)
		if err != nil {
			return nil, err
		}
		outBuf = p.encode(ys, outBuf)
		stats.outputSamples += int64(len(ys))
		if err := output.WriteSamples(outBuf); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}

		progress.reportIfNeeded(stats.inputSamples)
	}

	tail, err := p.r.Flush()
	if err != nil {
		return nil, err
	}
	outBuf = p.encode(tail, outBuf)
	stats.outputSamples += int64(len(tail))
	if err := output.WriteSamples(outBuf); err != nil {
		return nil, fmt.Errorf("failed to write flushed data: %w", err)
	}

	stats.clipped = p.clipped()
	return stats, nil
}
