// Package filter provides the windowed-sinc interpolation kernel used for
// rational resampling.
//
// The kernel is h(t) = sinc(t) * blackman(t, W), an ideal lowpass truncated
// to |t| <= W input samples by a Blackman taper. It is tabulated once on the
// integer grid t = n/xi for n in [gmin, gmax] and never evaluated during
// streaming.
package filter

import (
	"math"
)

// DefaultSincCutover is the |t| below which Sinc switches to its Taylor
// expansion to avoid cancellation near zero.
const DefaultSincCutover = 5e-3

// Blackman window coefficients.
const (
	blackmanA0 = 0.42
	blackmanA1 = 0.5
	blackmanA2 = 0.08
)

// Taylor coefficients of sin(πt)/(πt) in the normalized variable.
const (
	taylorC2 = 1.0 / 6
	taylorC4 = 1.0 / 120
)

// Sinc returns sin(πt)/(πt) with Sinc(0) = 1.
func Sinc(t float64) float64 {
	return SincWithCutover(t, DefaultSincCutover)
}

// SincWithCutover is Sinc with an explicit Taylor-series cutover.
//
// For |t| < cutover it evaluates 1 - t²(1/6 - t²/120).
func SincWithCutover(t, cutover float64) float64 {
	if math.Abs(t) < cutover {
		return 1.0 - t*t*(taylorC2-taylorC4*t*t)
	}
	return math.Sin(math.Pi*t) / (math.Pi * t)
}

// Blackman returns the Blackman window of half-width W evaluated at t.
// It is zero outside [-W, W], one at the center and zero at ±W.
func Blackman(t, W float64) float64 {
	if t < -W || t > W {
		return 0
	}
	// a0 + a2 rounds to exactly 0.5, so summing in this order makes the
	// edge value a0 - a1 + a2 exactly zero.
	u := t / W
	return blackmanA0 + blackmanA2*math.Cos(2*math.Pi*u) + blackmanA1*math.Cos(math.Pi*u)
}

// Tap returns the interpolation kernel h(t) = Sinc(t) * Blackman(t, W).
func Tap(t, W float64) float64 {
	return TapWithCutover(t, W, DefaultSincCutover)
}

// TapWithCutover is Tap with an explicit Sinc cutover.
func TapWithCutover(t, W, cutover float64) float64 {
	return SincWithCutover(t, cutover) * Blackman(t, W)
}
