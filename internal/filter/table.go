package filter

import (
	"fmt"

	"github.com/tphakala/simd/f64"
)

// Table holds the interpolation kernel tabulated on the integer grid
// n in [Min, Max] at t = n/xi.
type Table struct {
	min  int64
	max  int64
	xi   int64
	w    float64
	taps []float64
}

// Design tabulates TapWithCutover(n/xi, W, cutover) for every integer n in
// [gmin, gmax].
func Design(xi, gmin, gmax int64, W, cutover float64) (*Table, error) {
	if xi <= 0 {
		return nil, fmt.Errorf("filter: grid density must be positive, got %d", xi)
	}
	if gmin > gmax {
		return nil, fmt.Errorf("filter: empty tap range [%d, %d]", gmin, gmax)
	}
	if W <= 0 {
		return nil, fmt.Errorf("filter: window half-width must be positive, got %v", W)
	}

	taps := make([]float64, gmax-gmin+1)
	for n := gmin; n <= gmax; n++ {
		t := float64(n) / float64(xi)
		taps[n-gmin] = TapWithCutover(t, W, cutover)
	}

	return &Table{
		min:  gmin,
		max:  gmax,
		xi:   xi,
		w:    W,
		taps: taps,
	}, nil
}

// At returns the tap for grid index n. Indices outside [Min, Max] lie
// beyond the window and return zero.
func (t *Table) At(n int64) float64 {
	if n < t.min || n > t.max {
		return 0
	}
	return t.taps[n-t.min]
}

// Min returns the smallest tabulated grid index.
func (t *Table) Min() int64 { return t.min }

// Max returns the largest tabulated grid index.
func (t *Table) Max() int64 { return t.max }

// Len returns the number of tabulated taps.
func (t *Table) Len() int { return len(t.taps) }

// Density returns the number of grid points per input sample.
func (t *Table) Density() int64 { return t.xi }

// Window returns the window half-width W.
func (t *Table) Window() float64 { return t.w }

// Values returns a copy of the taps ordered from Min to Max.
func (t *Table) Values() []float64 {
	out := make([]float64, len(t.taps))
	copy(out, t.taps)
	return out
}

// DCGain returns the sum of the taps divided by the grid density, which
// approximates the integral of the kernel (ideally 1).
func (t *Table) DCGain() float64 {
	return f64.Sum(t.taps) / float64(t.xi)
}
