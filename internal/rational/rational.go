// Package rational implements reduced fractions and continued-fraction
// approximation of real numbers.
//
// The resampler never works with the requested rate ratio directly. It
// replaces it with a convergent p/q of the ratio's continued fraction, which
// bounds the size of the tabulated filter (the table grows with max(p, q))
// while keeping the ratio error below a tolerance.
package rational

import (
	"errors"
	"fmt"
	"math"

	"github.com/myriota/go-resampler/internal/mathutil"
)

// Default approximation parameters used by the resampler.
const (
	DefaultTolerance      = 1e-6
	DefaultMaxDenominator = 1000
	DefaultDepth          = 10
)

// maxCoefficient bounds continued-fraction coefficients. Remainders whose
// reciprocal exceeds 2^53 are below float64 resolution of the input.
const maxCoefficient = 1 << 53

var (
	// ErrZeroDenominator is returned when constructing a fraction with q == 0.
	ErrZeroDenominator = errors.New("rational: zero denominator")

	// ErrInvalidArgument indicates invalid approximation parameters.
	ErrInvalidArgument = errors.New("rational: invalid argument")
)

// Rational is a fraction P/Q in lowest terms with Q > 0.
type Rational struct {
	P int64 // numerator
	Q int64 // denominator
}

// New returns a/b reduced to lowest terms with a positive denominator.
func New(a, b int64) (Rational, error) {
	if b == 0 {
		return Rational{}, fmt.Errorf("%w: %d/0", ErrZeroDenominator, a)
	}
	return reduce(a, b), nil
}

// reduce assumes b != 0.
func reduce(a, b int64) Rational {
	d := mathutil.GCD(a, b)
	if b < 0 {
		return Rational{P: -a / d, Q: -b / d}
	}
	return Rational{P: a / d, Q: b / d}
}

// Float64 returns P/Q as a float64.
func (r Rational) Float64() float64 {
	return float64(r.P) / float64(r.Q)
}

// Add returns r + s in lowest terms.
func (r Rational) Add(s Rational) Rational {
	return reduce(r.P*s.Q+r.Q*s.P, r.Q*s.Q)
}

// Cmp returns 1 if r > s, -1 if r < s and 0 if they are equal.
func (r Rational) Cmp(s Rational) int {
	x := r.P * s.Q
	y := s.P * r.Q
	switch {
	case x > y:
		return 1
	case x < y:
		return -1
	default:
		return 0
	}
}

// String formats r as "P/Q".
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.P, r.Q)
}

// ContinuedFraction returns up to size coefficients of the continued
// fraction expansion of x.
//
// The expansion stops early when a remainder is exactly zero (x is a
// low-order rational) or when the next coefficient would exceed 2^53.
func ContinuedFraction(x float64, size int) []int64 {
	coeffs := make([]int64, 0, size)
	for range size {
		a := math.Floor(x)
		if math.Abs(a) > maxCoefficient {
			break
		}
		coeffs = append(coeffs, int64(a))

		rem := x - a
		if rem == 0 {
			break
		}
		x = 1 / rem
		if x > maxCoefficient {
			break
		}
	}
	return coeffs
}

// Convergents returns the successive convergents of the continued fraction
// expansion of x, at most size of them, each in lowest terms.
//
// Fewer than size convergents are returned when the expansion terminates
// early or when the next convergent would overflow int64.
func Convergents(x float64, size int) []Rational {
	coeffs := ContinuedFraction(x, size)
	out := make([]Rational, 0, len(coeffs))

	// h(-1)=1, h(-2)=0, k(-1)=0, k(-2)=1
	hn1, hn2 := int64(1), int64(0)
	kn1, kn2 := int64(0), int64(1)

	for _, a := range coeffs {
		hn, ok := mulAdd(a, hn1, hn2)
		if !ok {
			break
		}
		kn, ok := mulAdd(a, kn1, kn2)
		if !ok {
			break
		}
		out = append(out, reduce(hn, kn))
		hn1, hn2 = hn, hn1
		kn1, kn2 = kn, kn1
	}
	return out
}

// mulAdd returns a*x + y, reporting false on int64 overflow.
func mulAdd(a, x, y int64) (int64, bool) {
	if a != 0 && x != 0 {
		p := a * x
		if p/x != a {
			return 0, false
		}
		s := p + y
		if (y > 0 && s < p) || (y < 0 && s > p) {
			return 0, false
		}
		return s, true
	}
	return y, true
}

// Approximate finds a rational approximation p/q of x.
//
// Convergents are scanned from the coarsest. The first convergent with
// |x*q - p| < q*tol is returned. If a convergent's denominator exceeds qmax,
// the previous convergent is returned instead. If neither happens within k
// convergents the last one is returned.
func Approximate(x, tol float64, qmax int64, k int) (Rational, error) {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 0):
		return Rational{}, fmt.Errorf("%w: x must be finite, got %v", ErrInvalidArgument, x)
	case math.IsNaN(tol) || tol < 0:
		return Rational{}, fmt.Errorf("%w: tolerance must be non-negative, got %v", ErrInvalidArgument, tol)
	case qmax < 1:
		return Rational{}, fmt.Errorf("%w: denominator bound must be positive, got %d", ErrInvalidArgument, qmax)
	case k < 1:
		return Rational{}, fmt.Errorf("%w: depth must be positive, got %d", ErrInvalidArgument, k)
	}

	r := Convergents(x, k)
	if len(r) == 0 {
		return Rational{}, fmt.Errorf("%w: %v has no representable convergent", ErrInvalidArgument, x)
	}

	if withinTolerance(x, r[0], tol) {
		return r[0], nil
	}
	for i := 1; i < len(r); i++ {
		if r[i].Q > qmax {
			return r[i-1], nil
		}
		if withinTolerance(x, r[i], tol) {
			return r[i], nil
		}
	}
	return r[len(r)-1], nil
}

func withinTolerance(x float64, r Rational, tol float64) bool {
	q := float64(r.Q)
	return math.Abs(x*q-float64(r.P)) < math.Abs(q*tol)
}
