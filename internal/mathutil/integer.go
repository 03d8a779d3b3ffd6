// Package mathutil provides integer arithmetic helpers for rational resampling.
//
// The resampler indexes filter taps and history samples with exact integer
// arithmetic. Go's / and % truncate toward zero, so the helpers here provide
// the floor, ceiling and non-negative modulo forms the index math needs.
package mathutil

import (
	"golang.org/x/exp/constraints"
)

// Abs returns the absolute value of x.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// GCD returns the greatest common divisor of |a| and |b|.
// GCD(0, 0) is 0.
func GCD[T constraints.Signed](a, b T) T {
	a, b = Abs(a), Abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Mod returns x modulo y as the representative in [0, y).
//
// Unlike x % y this is never negative for y > 0.
func Mod[T constraints.Signed](x, y T) T {
	t := x % y
	if t < 0 {
		return t + y
	}
	return t
}

// FloorDiv returns floor(a / b) for b > 0.
func FloorDiv[T constraints.Signed](a, b T) T {
	d := a / b
	if a%b != 0 && a < 0 {
		d--
	}
	return d
}

// CeilDiv returns ceil(a / b) for b > 0.
func CeilDiv[T constraints.Signed](a, b T) T {
	d := a / b
	if a%b != 0 && a > 0 {
		d++
	}
	return d
}

// NextPowerOfTwo returns the smallest power of two greater than or equal to x.
// NextPowerOfTwo(0) is 1.
func NextPowerOfTwo[T constraints.Unsigned](x T) T {
	var p T = 1
	for p < x {
		p <<= 1
	}
	return p
}

// IsPowerOfTwo reports whether x is a power of two.
func IsPowerOfTwo[T constraints.Unsigned](x T) bool {
	return x != 0 && x&(x-1) == 0
}
