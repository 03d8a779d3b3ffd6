// Command resample converts a stream of complex samples from one sample
// rate to another.
//
// Samples are read from stdin and written to stdout as little-endian
// interleaved I/Q pairs: float64 by default, int16 with -int16.
//
// Usage:
//
//	resample -input-rate 8000 -output-rate 9600 < in.iq > out.iq
//	resample -input-rate 9600 -output-rate 8000 -int16 -shift < in.iq16 > out.iq16
//	resample -input-rate 8000 -output-rate 9600 -taps coeffs > coeffs.v
//
// Set LOG_LEVEL=debug to print construction details on stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	resampler "github.com/myriota/go-resampler"
	"github.com/myriota/go-resampler/internal/logging"
)

var errUsage = errors.New("usage")

type options struct {
	inputRate  float64
	outputRate float64
	window     float64
	int16      bool
	shift      bool
	taps       string
	noFlush    bool
}

func main() {
	if err := logging.InitFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "resample: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		logging.Errorf("resample: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("resample", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.inputRate, "input-rate", 0, "Input sample rate in Hz (required)")
	fs.Float64Var(&o.outputRate, "output-rate", 0, "Output sample rate in Hz (required)")
	fs.Float64Var(&o.window, "window", defaultWindow, "Kernel half-width; larger is slower but more accurate")
	fs.BoolVar(&o.int16, "int16", false, "16-bit fixed point datapath, int16 input and output")
	fs.BoolVar(&o.shift, "shift", false, "Normalise with a shift instead of a division (only with -int16)")
	fs.StringVar(&o.taps, "taps", "", "Print the quantised filter taps as a Verilog initializer with this name")
	fs.BoolVar(&o.noFlush, "no-flush", false, "Stop at the last output computable from the input, without zero padding")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: resample -input-rate HZ -output-rate HZ [options] < in > out\n\n")
		fmt.Fprintf(stderr, "Resamples complex samples read from stdin and writes them to stdout.\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.inputRate == 0 || o.outputRate == 0 {
		fs.Usage()
		return o, fmt.Errorf("%w: -input-rate and -output-rate are required", errUsage)
	}
	if o.shift && !o.int16 && o.taps == "" {
		return o, fmt.Errorf("%w: -shift requires -int16", errUsage)
	}
	return o, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg := resampler.Config{
		InputRate:  o.inputRate,
		OutputRate: o.outputRate,
		Window:     o.window,
	}
	logger := logging.Logger("resample")

	if o.taps != "" {
		r, err := resampler.NewFixedShift(cfg, resampler.WithLogger(logger))
		if err != nil {
			return err
		}
		return writeTaps(stdout, o.taps, r.Taps())
	}

	var n int64
	if o.int16 {
		newFixed := resampler.NewFixed
		if o.shift {
			newFixed = resampler.NewFixedShift
		}
		r, err := newFixed(cfg, resampler.WithLogger(logger))
		if err != nil {
			return err
		}
		n, err = pipe(r, complex16Codec{}, stdin, stdout, !o.noFlush)
		if err != nil {
			return err
		}
		if c := r.Clipped(); c > 0 {
			logger.Warn("outputs saturated", zap.Int64("clipped", c))
		}
	} else {
		r, err := resampler.New(cfg, resampler.WithLogger(logger))
		if err != nil {
			return err
		}
		if n, err = pipe(r, complex128Codec{}, stdin, stdout, !o.noFlush); err != nil {
			return err
		}
	}

	logger.Debug("done", zap.Int64("outputs", n))
	return nil
}
