package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
	"golang.org/x/exp/constraints"
)

// Number is the element type of a polyphase bank.
type Number interface {
	constraints.Integer | constraints.Float
}

// Bank is a polyphase decomposition of a tap table with period p.
//
// Phase ρ holds the table entries at offsets ρ, ρ+p, ρ+2p, ... stored in
// reverse, so that for an output whose taps fall in phase ρ the i-th tap
// multiplies the i-th sample of the input window in ascending index order.
type Bank[T Number] struct {
	phases [][]T
	period int64
	total  int
}

// NewBank splits values (a table ordered by ascending grid index) into
// period phases.
func NewBank[T Number](values []T, period int64) (*Bank[T], error) {
	if period <= 0 {
		return nil, fmt.Errorf("filter: bank period must be positive, got %d", period)
	}

	n := int64(len(values))
	phases := make([][]T, period)
	for rho := range period {
		if rho >= n {
			continue
		}
		count := (n-1-rho)/period + 1
		taps := make([]T, count)
		for i := range count {
			taps[i] = values[rho+(count-1-i)*period]
		}
		phases[rho] = taps
	}

	return &Bank[T]{
		phases: phases,
		period: period,
		total:  len(values),
	}, nil
}

// Phase returns the taps of phase rho in input-window order.
// The returned slice must not be modified.
func (b *Bank[T]) Phase(rho int64) []T {
	return b.phases[rho]
}

// NumPhases returns the number of phases.
func (b *Bank[T]) NumPhases() int { return len(b.phases) }

// TotalTaps returns the length of the source table.
func (b *Bank[T]) TotalTaps() int { return b.total }

// TapsPerPhase returns the length of the longest phase.
func (b *Bank[T]) TapsPerPhase() int {
	longest := 0
	for _, p := range b.phases {
		longest = max(longest, len(p))
	}
	return longest
}

// AbsGains returns Σ|tap| for each phase.
func (b *Bank[T]) AbsGains() []float64 {
	gains := make([]float64, len(b.phases))
	scratch := make([]float64, b.TapsPerPhase())
	for rho, taps := range b.phases {
		abs := scratch[:len(taps)]
		for i, v := range taps {
			abs[i] = math.Abs(float64(v))
		}
		gains[rho] = f64.Sum(abs)
	}
	return gains
}

// MaxAbsGain returns the largest Σ|tap| over all phases, the worst-case
// gain of the bank for a full-scale input.
func (b *Bank[T]) MaxAbsGain() float64 {
	var worst float64
	for _, g := range b.AbsGains() {
		worst = max(worst, g)
	}
	return worst
}

// DCGains returns Σ tap for each phase.
func (b *Bank[T]) DCGains() []float64 {
	gains := make([]float64, len(b.phases))
	scratch := make([]float64, b.TapsPerPhase())
	for rho, taps := range b.phases {
		vals := scratch[:len(taps)]
		for i, v := range taps {
			vals[i] = float64(v)
		}
		gains[rho] = f64.Sum(vals)
	}
	return gains
}
