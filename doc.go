// Package resampler converts complex (I/Q) sample streams between two
// arbitrary sample rates.
//
// The requested ratio OutputRate/InputRate is replaced by a close fraction
// p/q found from its continued fraction. Output sample n is then an exact
// convolution of the input history with a Blackman-windowed sinc kernel
// tabulated on a grid of spacing 1/max(p, q), so no kernel is evaluated
// while streaming and every output is computed from integer index
// arithmetic only.
//
// # Datapaths
//
// Two engines share the same geometry:
//
//   - [Resampler] works on complex128 samples in floating point.
//   - [FixedResampler] works on 16-bit complex samples with 32-bit
//     accumulators. Its taps are scaled so that no accumulator can
//     overflow for any full-scale input. Normalisation is either a
//     division ([NewFixed]) or a rounding shift ([NewFixedShift]).
//
// # Quick Start
//
// One-shot conversion of a buffer:
//
//	out, err := resampler.ResampleIQ(iq, 8000, 9600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Streaming in chunks:
//
//	r, err := resampler.New(resampler.Config{InputRate: 44100, OutputRate: 48000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range chunks {
//	    out, err := r.Process(chunk)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    write(out)
//	}
//	tail, _ := r.Flush()
//
// Random access, where the caller pushes input and asks for any output
// between [Resampler.MinN] and [Resampler.MaxN]:
//
//	for _, x := range iq {
//	    r.Push(x)
//	    for ; n <= r.MaxN(); n++ {
//	        y, _ := r.At(n)
//	        write(y)
//	    }
//	}
//
// Process and Push must not be mixed on the same resampler.
//
// # Window
//
// Config.Window is the kernel half-width W in input samples, or in output
// samples when downsampling. The default of 30 gives a narrow transition
// band around the lower Nyquist rate and a stopband below -60 dB. Cost per
// output sample grows linearly with W.
//
// # Thread Safety
//
// A resampler holds per-stream state and is not safe for concurrent use.
// Independent resamplers share nothing and may run on separate goroutines;
// [ResampleIQBatch] does exactly that.
package resampler
