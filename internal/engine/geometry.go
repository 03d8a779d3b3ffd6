package engine

import (
	"fmt"
	"math"

	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/mathutil"
	"github.com/myriota/go-resampler/internal/rational"
)

// Geometry holds the parameters derived from the rational ratio p/q and
// the window half-width W. It fixes the filter table, the history size and
// the input window of every output index.
type Geometry struct {
	Ratio rational.Rational
	W     float64

	Gamma float64 // p/q, output samples per input sample
	Kappa float64 // min(1, gamma), gain normalisation
	Delta float64 // max(1, gamma)

	Xi   int64 // max(p, q), tap grid density
	GMin int64 // ceil(-xi*W)
	GMax int64 // floor(xi*W)

	// HistorySize is ceil(2W/kappa + 1), the most inputs a single output
	// reads.
	HistorySize int
}

// NewGeometry derives the resampling geometry for ratio r and window W.
func NewGeometry(r rational.Rational, W float64) (Geometry, error) {
	if r.P <= 0 || r.Q <= 0 {
		return Geometry{}, fmt.Errorf("engine: ratio must be positive, got %v", r)
	}
	if W <= 0 || math.IsNaN(W) || math.IsInf(W, 0) {
		return Geometry{}, fmt.Errorf("engine: window half-width must be positive and finite, got %v", W)
	}

	gamma := float64(r.P) / float64(r.Q)
	kappa := min(1, gamma)
	xi := max(r.P, r.Q)

	return Geometry{
		Ratio:       r,
		W:           W,
		Gamma:       gamma,
		Kappa:       kappa,
		Delta:       max(1, gamma),
		Xi:          xi,
		GMin:        int64(math.Ceil(-float64(xi) * W)),
		GMax:        int64(math.Floor(float64(xi) * W)),
		HistorySize: int(math.Ceil(2*W/kappa + 1)),
	}, nil
}

// Bounds returns the input window [lo, hi] of output n and the polyphase
// phase of its taps.
//
// The window is every m with q*n - p*m in [GMin, GMax], which equals
// [ceil(n/gamma - W/kappa), floor(n/gamma + W/kappa)] evaluated exactly.
// The tap of input lo is table[phase + (hi-lo)*p] counted from GMin.
func (g Geometry) Bounds(n int64) (lo, hi, phase int64) {
	p, q := g.Ratio.P, g.Ratio.Q
	qn := q * n
	lo = mathutil.CeilDiv(qn-g.GMax, p)
	hi = mathutil.FloorDiv(qn-g.GMin, p)
	phase = mathutil.Mod(qn-g.GMin, p)
	return lo, hi, phase
}

// ValidRange returns the output indices computable from a history holding
// inputs [hmin, hmax].
//
// The range is the intersection of ceil(gamma*(hmin-1) + delta*W) ..
// floor(gamma*(hmax-1) - delta*W) with the exact range for which Bounds
// stays inside [hmin, hmax].
func (g Geometry) ValidRange(hmin, hmax int64) (minN, maxN int64) {
	p, q := g.Ratio.P, g.Ratio.Q

	minN = int64(math.Ceil(g.Gamma*float64(hmin-1) + g.Delta*g.W))
	maxN = int64(math.Floor(g.Gamma*float64(hmax-1) - g.Delta*g.W))

	exactMin := mathutil.CeilDiv(p*(hmin-1)+g.GMax+1, q)
	exactMax := mathutil.FloorDiv(p*(hmax+1)+g.GMin-1, q)

	return max(minN, exactMin), min(maxN, exactMax)
}

// OutputCount returns the number of outputs that correspond to n inputs,
// ceil(n*p/q).
func (g Geometry) OutputCount(n int64) int64 {
	return mathutil.CeilDiv(n*g.Ratio.P, g.Ratio.Q)
}

// Design tabulates the interpolation kernel on the grid of g.
func (g Geometry) Design(cutover float64) (*filter.Table, error) {
	return filter.Design(g.Xi, g.GMin, g.GMax, g.W, cutover)
}
