// Package engine implements rational-ratio resampling of complex sample
// streams with a polyphase windowed-sinc filter.
//
// A single generic Engine owns the input history and the window
// arithmetic. The datapath is supplied by a Strategy: Float works in
// complex128, Fixed works on 16-bit integer I/Q with 32-bit accumulation.
package engine

import (
	"errors"
	"fmt"

	"github.com/myriota/go-resampler/internal/history"
)

// ErrOutOfRange is returned when an output index outside [MinN, MaxN] is
// requested.
var ErrOutOfRange = errors.New("engine: output index out of range")

// Strategy is the numeric datapath of an Engine.
//
// S is the sample type and A the accumulator type.
type Strategy[S, A any] interface {
	// Dot returns the weighted sum of the input window with the taps of
	// phase. The window is given as two runs in index order.
	Dot(phase int64, head, tail []S) A

	// Scale applies the gain normalisation to an accumulated sum.
	Scale(acc A) A

	// Clip converts a normalised sum back to the sample type.
	Clip(acc A) S
}

// Engine computes output samples of a resampled stream by random access.
//
// Inputs are pushed in order. Output n is available once
// MinN() <= n <= MaxN(). An Engine is not safe for concurrent use.
type Engine[S, A any] struct {
	geom     Geometry
	hist     *history.Buffer[S]
	strategy Strategy[S, A]
}

// New creates an engine with the given geometry and datapath. zero is the
// value of the implicit padding before the first input.
func New[S, A any](g Geometry, zero S, strategy Strategy[S, A]) *Engine[S, A] {
	return &Engine[S, A]{
		geom:     g,
		hist:     history.New(g.HistorySize, zero),
		strategy: strategy,
	}
}

// Push appends one input sample.
func (e *Engine[S, A]) Push(x S) { e.hist.Push(x) }

// Pushed returns the number of input samples pushed.
func (e *Engine[S, A]) Pushed() int64 { return e.hist.Pushed() }

// MinN returns the oldest output index computable from the current history.
func (e *Engine[S, A]) MinN() int64 {
	minN, _ := e.geom.ValidRange(e.hist.MinN(), e.hist.MaxN())
	return minN
}

// MaxN returns the newest output index computable from the current history.
func (e *Engine[S, A]) MaxN() int64 {
	_, maxN := e.geom.ValidRange(e.hist.MinN(), e.hist.MaxN())
	return maxN
}

// Accumulate returns output n after gain normalisation but before
// clipping.
func (e *Engine[S, A]) Accumulate(n int64) (A, error) {
	var zero A

	minN, maxN := e.geom.ValidRange(e.hist.MinN(), e.hist.MaxN())
	if n < minN || n > maxN {
		return zero, fmt.Errorf("%w: %d outside [%d, %d]", ErrOutOfRange, n, minN, maxN)
	}

	lo, hi, phase := e.geom.Bounds(n)
	head, tail, err := e.hist.Window(lo, hi)
	if err != nil {
		return zero, fmt.Errorf("%w: output %d: %w", ErrOutOfRange, n, err)
	}

	return e.strategy.Scale(e.strategy.Dot(phase, head, tail)), nil
}

// At returns output sample n.
func (e *Engine[S, A]) At(n int64) (S, error) {
	acc, err := e.Accumulate(n)
	if err != nil {
		var zero S
		return zero, err
	}
	return e.strategy.Clip(acc), nil
}

// Reset discards all pushed input. A strategy with a Reset method is reset
// too.
func (e *Engine[S, A]) Reset() {
	e.hist.Reset()
	if r, ok := e.strategy.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Geometry returns the resampling geometry.
func (e *Engine[S, A]) Geometry() Geometry { return e.geom }

// Capacity returns the number of input samples retained.
func (e *Engine[S, A]) Capacity() int { return e.hist.Capacity() }
