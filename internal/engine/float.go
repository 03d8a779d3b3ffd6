package engine

import (
	"fmt"

	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/simdops"
)

// Float is the complex128 datapath.
type Float struct {
	bank    *filter.Bank[float64]
	kappa   float64
	scratch *simdops.Planar
}

// NewFloat designs the kernel for g and returns a floating point engine.
func NewFloat(g Geometry, cutover float64) (*Engine[complex128, complex128], error) {
	strategy, err := NewFloatStrategy(g, cutover)
	if err != nil {
		return nil, err
	}
	return New[complex128, complex128](g, 0, strategy), nil
}

// NewFloatStrategy designs the kernel for g and splits it into phases.
func NewFloatStrategy(g Geometry, cutover float64) (*Float, error) {
	table, err := g.Design(cutover)
	if err != nil {
		return nil, fmt.Errorf("failed to design filter: %w", err)
	}
	bank, err := filter.NewBank(table.Values(), g.Ratio.P)
	if err != nil {
		return nil, fmt.Errorf("failed to build polyphase bank: %w", err)
	}
	return &Float{
		bank:    bank,
		kappa:   g.Kappa,
		scratch: simdops.NewPlanar(bank.TapsPerPhase()),
	}, nil
}

// Dot implements Strategy. The window is split into real and imaginary
// parts so that each is one vector dot product.
func (f *Float) Dot(phase int64, head, tail []complex128) complex128 {
	f.scratch.Load(head, tail)
	return f.scratch.Dot(f.bank.Phase(phase))
}

// Scale implements Strategy.
func (f *Float) Scale(acc complex128) complex128 {
	return complex(f.kappa*real(acc), f.kappa*imag(acc))
}

// Clip implements Strategy. Floating point output is never clipped.
func (f *Float) Clip(acc complex128) complex128 { return acc }
