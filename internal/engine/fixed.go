package engine

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/tphakala/simd/f64"

	"github.com/myriota/go-resampler/internal/filter"
)

// Complex16 is a complex sample with 16-bit signed components.
type Complex16 struct {
	Re int16
	Im int16
}

// Complex32 is a complex accumulator with 32-bit signed components.
type Complex32 struct {
	Re int32
	Im int32
}

// Normalization selects how a fixed point accumulator is scaled back to
// the sample range.
type Normalization int

const (
	// NormalizeDivide divides by alpha.
	NormalizeDivide Normalization = iota

	// NormalizeShift replaces the division with a rounding right shift by
	// floor(log2(alpha)). The gain becomes alpha/2^s, which lies in [1, 2),
	// so inputs near full scale clip more often.
	NormalizeShift
)

// String returns the normalisation name.
func (n Normalization) String() string {
	switch n {
	case NormalizeDivide:
		return "divide"
	case NormalizeShift:
		return "shift"
	default:
		return fmt.Sprintf("Normalization(%d)", int(n))
	}
}

// Fixed is the 16-bit integer datapath.
//
// Taps are quantised as f = floor(kappa*alpha*tap) where alpha is the
// largest scale for which a full scale input cannot overflow the 32-bit
// accumulator of any phase.
type Fixed struct {
	bank    *filter.Bank[int32]
	taps    []int32
	alpha   int32
	beta    float64
	shift   uint
	norm    Normalization
	clipped int64
}

// FixedEngine is an Engine over Complex16 samples with access to the
// quantisation parameters.
type FixedEngine struct {
	*Engine[Complex16, Complex32]
	fixed *Fixed
}

// NewFixed designs and quantises the kernel for g and returns a fixed point
// engine.
func NewFixed(g Geometry, cutover float64, norm Normalization) (*FixedEngine, error) {
	strategy, err := NewFixedStrategy(g, cutover, norm)
	if err != nil {
		return nil, err
	}
	return &FixedEngine{
		Engine: New[Complex16, Complex32](g, Complex16{}, strategy),
		fixed:  strategy,
	}, nil
}

// NewFixedStrategy designs and quantises the kernel for g.
func NewFixedStrategy(g Geometry, cutover float64, norm Normalization) (*Fixed, error) {
	if norm != NormalizeDivide && norm != NormalizeShift {
		return nil, fmt.Errorf("engine: unknown normalisation %d", int(norm))
	}

	table, err := g.Design(cutover)
	if err != nil {
		return nil, fmt.Errorf("failed to design filter: %w", err)
	}
	values := table.Values()

	floatBank, err := filter.NewBank(values, g.Ratio.P)
	if err != nil {
		return nil, fmt.Errorf("failed to build polyphase bank: %w", err)
	}
	beta := g.Kappa * floatBank.MaxAbsGain()
	if beta <= 0 {
		return nil, fmt.Errorf("engine: filter has no gain (beta=%v)", beta)
	}

	scaled := make([]float64, len(values))
	taps := make([]int32, len(values))
	for alpha := min(int64(math.Floor(accumulatorScale/beta)), math.MaxInt32); alpha >= 1; alpha-- {
		f64.Scale(scaled, values, g.Kappa*float64(alpha))
		for i, v := range scaled {
			taps[i] = int32(math.Floor(v))
		}

		bank, err := filter.NewBank(taps, g.Ratio.P)
		if err != nil {
			return nil, fmt.Errorf("failed to build polyphase bank: %w", err)
		}
		if sampleFullScale*bank.MaxAbsGain() > math.MaxInt32 {
			continue
		}

		return &Fixed{
			bank:  bank,
			taps:  taps,
			alpha: int32(alpha),
			beta:  beta,
			shift: uint(bits.Len32(uint32(alpha)) - 1),
			norm:  norm,
		}, nil
	}

	return nil, fmt.Errorf("engine: no quantisation scale fits a 32-bit accumulator (beta=%v)", beta)
}

// Dot implements Strategy.
func (f *Fixed) Dot(phase int64, head, tail []Complex16) Complex32 {
	taps := f.bank.Phase(phase)
	var re, im int32
	for i, x := range head {
		re += int32(x.Re) * taps[i]
		im += int32(x.Im) * taps[i]
	}
	taps = taps[len(head):]
	for i, x := range tail {
		re += int32(x.Re) * taps[i]
		im += int32(x.Im) * taps[i]
	}
	return Complex32{Re: re, Im: im}
}

// Scale implements Strategy.
func (f *Fixed) Scale(acc Complex32) Complex32 {
	if f.norm == NormalizeShift {
		return Complex32{Re: f.shiftRound(acc.Re), Im: f.shiftRound(acc.Im)}
	}
	return Complex32{Re: acc.Re / f.alpha, Im: acc.Im / f.alpha}
}

func (f *Fixed) shiftRound(x int32) int32 {
	if x < 0 {
		return (x + 1<<f.shift) >> f.shift
	}
	return x >> f.shift
}

// Clip implements Strategy. Components outside the int16 range saturate.
func (f *Fixed) Clip(acc Complex32) Complex16 {
	re, reClipped := saturate16(acc.Re)
	im, imClipped := saturate16(acc.Im)
	if reClipped || imClipped {
		f.clipped++
	}
	return Complex16{Re: re, Im: im}
}

func saturate16(x int32) (int16, bool) {
	switch {
	case x > math.MaxInt16:
		return math.MaxInt16, true
	case x < math.MinInt16:
		return math.MinInt16, true
	default:
		return int16(x), false
	}
}

// At32 returns output n normalised but not clipped.
func (e *FixedEngine) At32(n int64) (Complex32, error) {
	return e.Accumulate(n)
}

// Reset clears the clip counter.
func (f *Fixed) Reset() { f.clipped = 0 }

// Taps returns a copy of the quantised taps ordered from GMin to GMax.
func (e *FixedEngine) Taps() []int32 {
	out := make([]int32, len(e.fixed.taps))
	copy(out, e.fixed.taps)
	return out
}

// Alpha returns the quantisation scale.
func (e *FixedEngine) Alpha() int32 { return e.fixed.alpha }

// Beta returns the worst-case phase gain of the unquantised filter,
// including the kappa normalisation.
func (e *FixedEngine) Beta() float64 { return e.fixed.beta }

// Shift returns floor(log2(alpha)).
func (e *FixedEngine) Shift() int { return int(e.fixed.shift) }

// Normalization returns the accumulator normalisation in use.
func (e *FixedEngine) Normalization() Normalization { return e.fixed.norm }

// Clipped returns the number of output samples saturated since
// construction or the last Reset.
func (e *FixedEngine) Clipped() int64 { return e.fixed.clipped }

// MaxPhaseGain returns the largest Σ|f| over all phases of the quantised
// taps.
func (e *FixedEngine) MaxPhaseGain() int64 {
	return int64(e.fixed.bank.MaxAbsGain())
}
