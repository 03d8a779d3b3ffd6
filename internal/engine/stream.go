package engine

import (
	"errors"
	"fmt"
)

// ErrFlushed is returned by Process after Flush until the stream is Reset.
var ErrFlushed = errors.New("engine: stream already flushed")

// Stream drives an Engine sequentially: every pushed input is followed by
// all outputs that became computable, in index order starting at 0.
type Stream[S, A any] struct {
	engine  *Engine[S, A]
	zero    S
	next    int64 // next output index
	inputs  int64 // real inputs pushed
	flushed bool
}

// NewStream wraps e. zero is pushed as padding by Flush.
func NewStream[S, A any](e *Engine[S, A], zero S) *Stream[S, A] {
	return &Stream[S, A]{engine: e, zero: zero}
}

// Process pushes input and returns the outputs it made available.
func (s *Stream[S, A]) Process(input []S) ([]S, error) {
	if s.flushed {
		return nil, ErrFlushed
	}

	out := make([]S, 0, s.estimate(len(input)))
	var err error
	for _, x := range input {
		s.engine.Push(x)
		s.inputs++
		if out, err = s.drain(out, -1); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Flush pads the input with zeros until every output covering the real
// input, ceil(N*p/q) in total, has been emitted.
func (s *Stream[S, A]) Flush() ([]S, error) {
	if s.flushed {
		return nil, nil
	}
	s.flushed = true

	target := s.engine.Geometry().OutputCount(s.inputs)
	out := make([]S, 0, max(target-s.next, 0))

	var err error
	for s.next < target {
		if out, err = s.drain(out, target); err != nil {
			return out, err
		}
		if s.next < target {
			s.engine.Push(s.zero)
		}
	}
	return out, nil
}

// drain appends outputs up to MaxN, and below limit when limit >= 0.
func (s *Stream[S, A]) drain(out []S, limit int64) ([]S, error) {
	maxN := s.engine.MaxN()
	if limit >= 0 {
		maxN = min(maxN, limit-1)
	}
	for ; s.next <= maxN; s.next++ {
		y, err := s.engine.At(s.next)
		if err != nil {
			return out, fmt.Errorf("output %d: %w", s.next, err)
		}
		out = append(out, y)
	}
	return out, nil
}

func (s *Stream[S, A]) estimate(n int) int {
	return int(s.engine.Geometry().OutputCount(int64(n))) + 1
}

// Reset restarts the stream at output index 0 with an empty history.
func (s *Stream[S, A]) Reset() {
	s.engine.Reset()
	s.next = 0
	s.inputs = 0
	s.flushed = false
}

// Next returns the index of the next output to be emitted.
func (s *Stream[S, A]) Next() int64 { return s.next }

// Inputs returns the number of real input samples consumed.
func (s *Stream[S, A]) Inputs() int64 { return s.inputs }
