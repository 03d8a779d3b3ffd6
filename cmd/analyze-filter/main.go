// Command analyze-filter prints the design of the resampling filter for a
// pair of sample rates: the rational ratio, the tap grid, the polyphase
// gains, the fixed point quantisation and the kernel frequency response.
//
// Usage:
//
//	analyze-filter -input-rate 44100 -output-rate 48000 -window 30
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/myriota/go-resampler/internal/analysis"
	"github.com/myriota/go-resampler/internal/engine"
	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/rational"
)

const (
	defaultInputRate  = 8000.0
	defaultOutputRate = 9600.0
	defaultWindow     = 30.0

	// Response measurement points, in cycles per kernel unit
	passbandEdge = 0.4
	stopbandEdge = 0.6
	fftSize      = 1 << 16
)

func main() {
	inputRate := flag.Float64("input-rate", defaultInputRate, "Input sample rate in Hz")
	outputRate := flag.Float64("output-rate", defaultOutputRate, "Output sample rate in Hz")
	window := flag.Float64("window", defaultWindow, "Kernel half-width")
	flag.Parse()

	if err := analyze(os.Stdout, *inputRate, *outputRate, *window); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analyze(w io.Writer, inputRate, outputRate, window float64) error {
	if inputRate <= 0 || outputRate <= 0 {
		return fmt.Errorf("sample rates must be positive, got %v and %v", inputRate, outputRate)
	}

	r, err := rational.Approximate(outputRate/inputRate,
		rational.DefaultTolerance, rational.DefaultMaxDenominator, rational.DefaultDepth)
	if err != nil {
		return err
	}
	g, err := engine.NewGeometry(r, window)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== Resampling Geometry ===")
	fmt.Fprintf(w, "  Ratio:        %v (%.9f, requested %.9f)\n", r, g.Gamma, outputRate/inputRate)
	fmt.Fprintf(w, "  Kappa/Delta:  %.6f / %.6f\n", g.Kappa, g.Delta)
	fmt.Fprintf(w, "  Grid density: %d taps per unit\n", g.Xi)
	fmt.Fprintf(w, "  Grid range:   [%d, %d]\n", g.GMin, g.GMax)
	fmt.Fprintf(w, "  History:      %d samples\n", g.HistorySize)

	table, err := g.Design(filter.DefaultSincCutover)
	if err != nil {
		return err
	}
	bank, err := filter.NewBank(table.Values(), r.P)
	if err != nil {
		return err
	}

	dc := bank.DCGains()
	for i := range dc {
		dc[i] *= g.Kappa
	}
	fmt.Fprintln(w, "\n=== Polyphase Bank ===")
	fmt.Fprintf(w, "  Phases:         %d\n", bank.NumPhases())
	fmt.Fprintf(w, "  Taps per phase: %d (total %d)\n", bank.TapsPerPhase(), bank.TotalTaps())
	fmt.Fprintf(w, "  DC gain:        min %.6f, max %.6f\n", slices.Min(dc), slices.Max(dc))
	fmt.Fprintf(w, "  Worst |gain|:   %.6f\n", g.Kappa*bank.MaxAbsGain())

	fixed, err := engine.NewFixed(g, filter.DefaultSincCutover, engine.NormalizeShift)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n=== Fixed Point ===")
	fmt.Fprintf(w, "  Alpha: %d\n", fixed.Alpha())
	fmt.Fprintf(w, "  Beta:  %.6f (alpha*beta = %.1f of %d)\n", fixed.Beta(), float64(fixed.Alpha())*fixed.Beta(), 1<<16)
	fmt.Fprintf(w, "  Shift: %d (gain %.6f)\n", fixed.Shift(), float64(fixed.Alpha())/float64(int64(1)<<fixed.Shift()))
	fmt.Fprintf(w, "  Max accumulator: %d\n", fixed.MaxPhaseGain()<<15)

	resp, err := analysis.FrequencyResponse(table.Values(), table.Density(), fftSize)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n=== Kernel Response (cutoff at 0.5) ===")
	fmt.Fprintf(w, "  Passband ripple to %.2f: %.4f dB\n", passbandEdge, resp.PassbandRipple(passbandEdge))
	fmt.Fprintf(w, "  -3 dB point:             %.4f\n", resp.Cutoff(-3))
	fmt.Fprintf(w, "  -6 dB point:             %.4f\n", resp.Cutoff(-6))
	fmt.Fprintf(w, "  Stopband peak from %.2f: %.1f dB\n", stopbandEdge, resp.StopbandPeak(stopbandEdge))

	return nil
}
