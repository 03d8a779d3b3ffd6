// Package history implements the sliding window of past input samples the
// resampling engines read from.
package history

import (
	"errors"
	"fmt"

	"github.com/myriota/go-resampler/internal/mathutil"
)

// ErrOutOfRange is returned when an index outside [MinN, MaxN] is accessed.
var ErrOutOfRange = errors.New("history: index out of range")

// Buffer is a circular buffer indexed by absolute sample number.
//
// Sample n is the n-th value ever pushed (counting from zero). Only the
// most recent Capacity() samples are retained. The capacity is a power of
// two so the slot of sample n is n & mask, which is also valid for the
// negative indices in [MinN, 0): those slots still hold the initial value
// and behave as zero padding before the first sample.
//
// A Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	data   []T
	mask   int64
	pushed int64
	init   T
}

// New creates a buffer holding at least size samples, every slot set to
// init. The capacity is the smallest power of two greater than or equal to
// size+1.
func New[T any](size int, init T) *Buffer[T] {
	if size < 0 {
		size = 0
	}
	capacity := mathutil.NextPowerOfTwo(uint64(size) + 1)

	data := make([]T, capacity)
	for i := range data {
		data[i] = init
	}

	return &Buffer[T]{
		data: data,
		mask: int64(capacity) - 1,
		init: init,
	}
}

// Push appends x, overwriting the oldest sample once the buffer is full.
func (b *Buffer[T]) Push(x T) {
	b.data[b.pushed&b.mask] = x
	b.pushed++
}

// Pushed returns the total number of samples pushed since creation or the
// last Reset.
func (b *Buffer[T]) Pushed() int64 { return b.pushed }

// Capacity returns the number of retained samples.
func (b *Buffer[T]) Capacity() int { return len(b.data) }

// MaxN returns the newest valid index.
func (b *Buffer[T]) MaxN() int64 { return b.pushed - 1 }

// MinN returns the oldest valid index. It is negative until Capacity()
// samples have been pushed.
func (b *Buffer[T]) MinN() int64 { return b.pushed - int64(len(b.data)) }

// Contains reports whether n is in [MinN, MaxN].
func (b *Buffer[T]) Contains(n int64) bool {
	return n >= b.MinN() && n <= b.MaxN()
}

// Read returns sample n.
func (b *Buffer[T]) Read(n int64) (T, error) {
	if !b.Contains(n) {
		var zero T
		return zero, b.rangeError(n)
	}
	return b.data[n&b.mask], nil
}

// Set overwrites sample n, which must still be retained.
func (b *Buffer[T]) Set(n int64, v T) error {
	if !b.Contains(n) {
		return b.rangeError(n)
	}
	b.data[n&b.mask] = v
	return nil
}

// Window returns samples lo..hi (inclusive) in index order as at most two
// contiguous runs of the underlying storage. The slices alias the buffer
// and are only valid until the next Push. An empty range (hi == lo-1)
// returns two nil slices.
func (b *Buffer[T]) Window(lo, hi int64) (head, tail []T, err error) {
	if hi < lo {
		if hi == lo-1 {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: window [%d, %d] is inverted", ErrOutOfRange, lo, hi)
	}
	if !b.Contains(lo) {
		return nil, nil, b.rangeError(lo)
	}
	if !b.Contains(hi) {
		return nil, nil, b.rangeError(hi)
	}

	start := lo & b.mask
	end := hi & b.mask
	if start <= end {
		return b.data[start : end+1], nil, nil
	}
	return b.data[start:], b.data[:end+1], nil
}

// Reset discards all samples and restores the initial state.
func (b *Buffer[T]) Reset() {
	for i := range b.data {
		b.data[i] = b.init
	}
	b.pushed = 0
}

func (b *Buffer[T]) rangeError(n int64) error {
	return fmt.Errorf("%w: %d outside [%d, %d]", ErrOutOfRange, n, b.MinN(), b.MaxN())
}
