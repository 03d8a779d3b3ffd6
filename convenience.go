package resampler

import (
	"fmt"
	"sync"

	"github.com/myriota/go-resampler/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000
)

// NewUpsampler creates a floating point resampler that rejects
// inputRate > outputRate.
func NewUpsampler(inputRate, outputRate, window float64, opts ...Option) (*Resampler, error) {
	return New(Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Window:     window,
		Mode:       ModeUpsample,
	}, opts...)
}

// NewDownsampler creates a floating point resampler that rejects
// inputRate <= outputRate.
func NewDownsampler(inputRate, outputRate, window float64, opts ...Option) (*Resampler, error) {
	return New(Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Window:     window,
		Mode:       ModeDownsample,
	}, opts...)
}

// ResampleIQ resamples a complete complex stream with the default window.
// The output has ceil(len(input)*p/q) samples.
func ResampleIQ(input []complex128, inputRate, outputRate float64) ([]complex128, error) {
	r, err := New(Config{InputRate: inputRate, OutputRate: outputRate})
	if err != nil {
		return nil, err
	}
	return processAll(r, input)
}

// ResampleIQ16 resamples a complete 16-bit complex stream with the fixed
// point datapath.
func ResampleIQ16(input []Complex16, inputRate, outputRate float64) ([]Complex16, error) {
	r, err := NewFixed(Config{InputRate: inputRate, OutputRate: outputRate})
	if err != nil {
		return nil, err
	}
	return processAll(r, input)
}

// ResampleIQBatch resamples independent complex streams that share the same
// rates. When parallel is true each stream runs on its own goroutine with
// its own resampler.
func ResampleIQBatch(inputs [][]complex128, inputRate, outputRate float64, parallel bool) ([][]complex128, error) {
	cfg := Config{InputRate: inputRate, OutputRate: outputRate}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	output := make([][]complex128, len(inputs))

	if !parallel || len(inputs) <= 1 {
		for i, in := range inputs {
			out, err := ResampleIQ(in, inputRate, outputRate)
			if err != nil {
				return nil, fmt.Errorf("stream %d: %w", i, err)
			}
			output[i] = out
		}
		return output, nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(inputs))

	for i := range inputs {
		wg.Add(1)
		go func(stream int) {
			defer wg.Done()

			out, err := ResampleIQ(inputs[stream], inputRate, outputRate)
			if err != nil {
				errChan <- fmt.Errorf("stream %d: %w", stream, err)
				return
			}
			output[stream] = out
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	return output, nil
}

type processor[S any] interface {
	Process(input []S) ([]S, error)
	Flush() ([]S, error)
}

func processAll[S any](r processor[S], input []S) ([]S, error) {
	out, err := r.Process(input)
	if err != nil {
		return nil, err
	}
	tail, err := r.Flush()
	if err != nil {
		return nil, err
	}
	return append(out, tail...), nil
}

// InterleaveIQ converts complex samples to interleaved I/Q pairs.
func InterleaveIQ(samples []complex128) []float64 {
	p := simdops.NewPlanar(len(samples))
	p.Load(samples, nil)
	out := make([]float64, len(samples)*iqComponents)
	p.Interleave(out)
	return out
}

// DeinterleaveIQ converts interleaved I/Q pairs to complex samples.
// A trailing unpaired value is ignored.
func DeinterleaveIQ(interleaved []float64) []complex128 {
	out := make([]complex128, len(interleaved)/iqComponents)
	for i := range out {
		out[i] = complex(interleaved[i*iqComponents], interleaved[i*iqComponents+1])
	}
	return out
}

// InterleaveIQ16 converts 16-bit complex samples to interleaved I/Q pairs.
func InterleaveIQ16(samples []Complex16) []int16 {
	out := make([]int16, len(samples)*iqComponents)
	for i, s := range samples {
		out[i*iqComponents] = s.Re
		out[i*iqComponents+1] = s.Im
	}
	return out
}

// DeinterleaveIQ16 converts interleaved 16-bit I/Q pairs to complex
// samples. A trailing unpaired value is ignored.
func DeinterleaveIQ16(interleaved []int16) []Complex16 {
	out := make([]Complex16, len(interleaved)/iqComponents)
	for i := range out {
		out[i] = Complex16{Re: interleaved[i*iqComponents], Im: interleaved[i*iqComponents+1]}
	}
	return out
}
