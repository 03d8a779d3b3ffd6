package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGCD(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{12, 18, 6},
		{-12, 18, 6},
		{12, -18, 6},
		{7, 5, 1},
		{0, 9, 9},
		{9, 0, 9},
		{0, 0, 0},
		{9600, 8000, 1600},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GCD(tt.a, tt.b), "GCD(%d, %d)", tt.a, tt.b)
	}
}

// TestMod verifies the result is always in [0, y).
func TestMod(t *testing.T) {
	assert.Equal(t, int64(2), Mod[int64](7, 5))
	assert.Equal(t, int64(3), Mod[int64](-7, 5))
	assert.Equal(t, int64(0), Mod[int64](-10, 5))
	assert.Equal(t, 4, Mod(-1, 5))
}

// TestFloorCeilDiv compares the integer forms against math.Floor/Ceil semantics.
func TestFloorCeilDiv(t *testing.T) {
	tests := []struct {
		a, b        int64
		floor, ceil int64
	}{
		{7, 2, 3, 4},
		{-7, 2, -4, -3},
		{6, 3, 2, 2},
		{-6, 3, -2, -2},
		{0, 5, 0, 0},
		{1, 5, 0, 1},
		{-1, 5, -1, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.floor, FloorDiv(tt.a, tt.b), "FloorDiv(%d, %d)", tt.a, tt.b)
		assert.Equal(t, tt.ceil, CeilDiv(tt.a, tt.b), "CeilDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{62, 64},
		{64, 64},
		{65, 128},
	}

	for _, tt := range tests {
		got := NextPowerOfTwo(tt.in)
		assert.Equal(t, tt.want, got, "NextPowerOfTwo(%d)", tt.in)
		assert.True(t, IsPowerOfTwo(got))
	}
	assert.False(t, IsPowerOfTwo[uint64](0))
	assert.False(t, IsPowerOfTwo[uint64](12))
}
