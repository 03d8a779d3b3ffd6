// Package analysis measures filter responses and complex spectra.
//
// It is used by the filter analysis tool and by quality tests. Nothing on
// the streaming path depends on it.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/mathutil"
)

// minMagnitude floors magnitudes before conversion to dB.
const minMagnitude = 1e-15

// ErrEmpty is returned when an analysis is requested on no data.
var ErrEmpty = errors.New("analysis: empty input")

// Response is the magnitude response of a tabulated kernel.
type Response struct {
	// Freq is the frequency of each bin in cycles per input sample, from 0
	// to density/2.
	Freq []float64

	// Mag is the magnitude of each bin normalised so that an ideal lowpass
	// kernel has unit passband gain.
	Mag []float64
}

// FrequencyResponse computes the magnitude response of taps tabulated at
// density points per input sample, using a real FFT of at least minSize
// points.
func FrequencyResponse(taps []float64, density int64, minSize int) (*Response, error) {
	if len(taps) == 0 {
		return nil, ErrEmpty
	}
	if density <= 0 {
		return nil, fmt.Errorf("analysis: density must be positive, got %d", density)
	}

	size := int(mathutil.NextPowerOfTwo(uint64(max(minSize, len(taps), 2))))
	padded := make([]float64, size)
	copy(padded, taps)

	fft := fourier.NewFFT(size)
	coeffs := fft.Coefficients(nil, padded)

	resp := &Response{
		Freq: make([]float64, len(coeffs)),
		Mag:  make([]float64, len(coeffs)),
	}
	for k, c := range coeffs {
		resp.Freq[k] = fft.Freq(k) * float64(density)
		resp.Mag[k] = cmplx.Abs(c)
	}
	f64.Scale(resp.Mag, resp.Mag, 1/float64(density))

	return resp, nil
}

// At returns the magnitude of the bin nearest to freq.
func (r *Response) At(freq float64) float64 {
	step := r.Freq[1] - r.Freq[0]
	k := int(math.Round(freq / step))
	k = min(max(k, 0), len(r.Mag)-1)
	return r.Mag[k]
}

// PassbandRipple returns the largest deviation from 0 dB over [0, edge].
func (r *Response) PassbandRipple(edge float64) float64 {
	var worst float64
	for k, f := range r.Freq {
		if f > edge {
			break
		}
		worst = max(worst, math.Abs(MagnitudeDB(r.Mag[k])))
	}
	return worst
}

// StopbandPeak returns the highest level in dB at or above edge.
func (r *Response) StopbandPeak(edge float64) float64 {
	peak := math.Inf(-1)
	for k, f := range r.Freq {
		if f >= edge {
			peak = max(peak, MagnitudeDB(r.Mag[k]))
		}
	}
	return peak
}

// Cutoff returns the first frequency at which the response falls below
// level dB.
func (r *Response) Cutoff(level float64) float64 {
	for k, m := range r.Mag {
		if MagnitudeDB(m) < level {
			return r.Freq[k]
		}
	}
	return r.Freq[len(r.Freq)-1]
}

// MagnitudeDB converts a linear magnitude to decibels.
func MagnitudeDB(mag float64) float64 {
	return 20 * math.Log10(max(mag, minMagnitude))
}

// PowerDB converts a linear power to decibels.
func PowerDB(power float64) float64 {
	return 10 * math.Log10(max(power, minMagnitude*minMagnitude))
}

// Spectrum returns the power spectrum of x after a periodic Blackman
// window. Bin k holds frequency k/len(x) cycles per sample, with negative
// frequencies in the upper half.
func Spectrum(x []complex128) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmpty
	}

	window := make([]complex128, n)
	half := float64(n) / 2
	for i := range window {
		window[i] = complex(filter.Blackman(float64(i)-half, half), 0)
	}
	windowed := make([]complex128, n)
	c128.Mul(windowed, x, window)

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	power := make([]float64, n)
	for k, c := range coeffs {
		power[k] = real(c)*real(c) + imag(c)*imag(c)
	}
	return power, nil
}

// PeakBin returns the index of the largest bin.
func PeakBin(power []float64) int {
	peak := 0
	for k, p := range power {
		if p > power[peak] {
			peak = k
		}
	}
	return peak
}

// ToneSNR returns the ratio in dB of the power within width bins of the
// spectral peak to the power in all other bins. The spectrum is treated as
// circular.
func ToneSNR(x []complex128, width int) (float64, error) {
	power, err := Spectrum(x)
	if err != nil {
		return 0, err
	}

	n := len(power)
	peak := PeakBin(power)
	var signal, noise float64
	for k, p := range power {
		d := mathutil.Abs(k - peak)
		if min(d, n-d) <= width {
			signal += p
		} else {
			noise += p
		}
	}
	if noise == 0 {
		return math.Inf(1), nil
	}
	return PowerDB(signal / noise), nil
}
