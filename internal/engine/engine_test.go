package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/rational"
	"github.com/myriota/go-resampler/internal/testutil"
)

const (
	testWindow  = 30.0
	identityTol = 1e-9
)

// testRatios covers upsampling, downsampling, identity and large
// denominators.
var testRatios = []struct {
	name   string
	in     float64
	out    float64
	wantPQ rational.Rational
}{
	{"8000_to_9600", 8000, 9600, rational.Rational{P: 6, Q: 5}},
	{"9600_to_8000", 9600, 8000, rational.Rational{P: 5, Q: 6}},
	{"44100_to_48000", 44100, 48000, rational.Rational{P: 160, Q: 147}},
	{"48000_to_44100", 48000, 44100, rational.Rational{P: 147, Q: 160}},
	{"identity", 1000, 1000, rational.Rational{P: 1, Q: 1}},
	{"1_to_3", 1, 3, rational.Rational{P: 3, Q: 1}},
	{"7_to_2", 7, 2, rational.Rational{P: 2, Q: 7}},
}

func testGeometry(t *testing.T, in, out, W float64) Geometry {
	t.Helper()
	r, err := rational.Approximate(out/in, rational.DefaultTolerance,
		rational.DefaultMaxDenominator, rational.DefaultDepth)
	require.NoError(t, err)
	g, err := NewGeometry(r, W)
	require.NoError(t, err)
	return g
}

func TestNewGeometry_Concrete(t *testing.T) {
	g := testGeometry(t, 8000, 9600, testWindow)

	assert.Equal(t, rational.Rational{P: 6, Q: 5}, g.Ratio)
	assert.Equal(t, 1.2, g.Gamma)
	assert.Equal(t, 1.0, g.Kappa)
	assert.Equal(t, 1.2, g.Delta)
	assert.Equal(t, int64(6), g.Xi)
	assert.Equal(t, int64(-180), g.GMin)
	assert.Equal(t, int64(180), g.GMax)
	assert.Equal(t, 61, g.HistorySize)

	e, err := NewFloat(g, filter.DefaultSincCutover)
	require.NoError(t, err)
	assert.Equal(t, 64, e.Capacity())
}

func TestNewGeometry_Downsample(t *testing.T) {
	g := testGeometry(t, 9600, 8000, testWindow)

	assert.Equal(t, rational.Rational{P: 5, Q: 6}, g.Ratio)
	assert.InDelta(t, 5.0/6.0, g.Kappa, 1e-15)
	assert.Equal(t, 1.0, g.Delta)
	assert.Equal(t, int64(6), g.Xi)

	e, err := NewFloat(g, filter.DefaultSincCutover)
	require.NoError(t, err)
	assert.Equal(t, 128, e.Capacity())
}

func TestNewGeometry_Invalid(t *testing.T) {
	_, err := NewGeometry(rational.Rational{P: 0, Q: 1}, testWindow)
	require.Error(t, err)
	_, err = NewGeometry(rational.Rational{P: 1, Q: 1}, 0)
	require.Error(t, err)
	_, err = NewGeometry(rational.Rational{P: -1, Q: 1}, testWindow)
	require.Error(t, err)
}

// TestGeometry_Bounds checks that [lo, hi] is exactly the set of inputs
// whose tap index falls inside the table, and that phase locates the tap
// of hi.
func TestGeometry_Bounds(t *testing.T) {
	for _, tt := range testRatios {
		t.Run(tt.name, func(t *testing.T) {
			g := testGeometry(t, tt.in, tt.out, 4)
			require.Equal(t, tt.wantPQ, g.Ratio)
			p, q := g.Ratio.P, g.Ratio.Q

			for n := int64(-50); n <= 200; n++ {
				lo, hi, phase := g.Bounds(n)
				require.LessOrEqual(t, lo, hi+1)

				for m := lo; m <= hi; m++ {
					k := q*n - p*m
					require.True(t, k >= g.GMin && k <= g.GMax, "n=%d m=%d k=%d", n, m, k)
				}
				assert.Greater(t, q*n-p*(lo-1), g.GMax, "n=%d lo-1 inside table", n)
				assert.Less(t, q*n-p*(hi+1), g.GMin, "n=%d hi+1 inside table", n)
				assert.Equal(t, q*n-p*hi-g.GMin, phase, "n=%d", n)
				assert.LessOrEqual(t, int(hi-lo+1), g.HistorySize)
			}
		})
	}
}

// TestEngine_WindowInsideHistory checks that every output in [MinN, MaxN]
// reads only retained history.
func TestEngine_WindowInsideHistory(t *testing.T) {
	for _, tt := range testRatios {
		t.Run(tt.name, func(t *testing.T) {
			g := testGeometry(t, tt.in, tt.out, 8)
			e, err := NewFloat(g, filter.DefaultSincCutover)
			require.NoError(t, err)

			for i := range 500 {
				e.Push(complex(float64(i), 0))

				hmin := e.Pushed() - int64(e.Capacity())
				hmax := e.Pushed() - 1
				for n := e.MinN(); n <= e.MaxN(); n++ {
					lo, hi, _ := g.Bounds(n)
					require.GreaterOrEqual(t, lo, hmin, "push %d output %d", i, n)
					require.LessOrEqual(t, hi, hmax, "push %d output %d", i, n)
					_, err := e.At(n)
					require.NoError(t, err)
				}
			}
		})
	}
}

// TestEngine_OutputsReachable checks that consecutive valid ranges leave no
// output index unreachable in a sequential drive.
func TestEngine_OutputsReachable(t *testing.T) {
	for _, tt := range testRatios {
		t.Run(tt.name, func(t *testing.T) {
			g := testGeometry(t, tt.in, tt.out, testWindow)
			e, err := NewFloat(g, filter.DefaultSincCutover)
			require.NoError(t, err)

			next := int64(0)
			for range 2000 {
				e.Push(1)
				if next <= e.MaxN() {
					require.LessOrEqual(t, e.MinN(), next)
				}
				next = max(next, e.MaxN()+1)
			}
			assert.Positive(t, next)
		})
	}
}

func TestEngine_OutOfRange(t *testing.T) {
	g := testGeometry(t, 8000, 9600, testWindow)
	e, err := NewFloat(g, filter.DefaultSincCutover)
	require.NoError(t, err)

	assert.Negative(t, e.MaxN())
	_, err = e.At(0)
	require.ErrorIs(t, err, ErrOutOfRange)

	for i := range 1000 {
		e.Push(complex(float64(i), 1))
	}

	_, err = e.At(e.MaxN() + 1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = e.At(e.MinN() - 1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = e.At(0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = e.At(e.MinN())
	require.NoError(t, err)
	_, err = e.At(e.MaxN())
	require.NoError(t, err)
}

// TestEngine_FirstOutput checks that output 0 is computable from the zero
// padding plus enough real input.
func TestEngine_FirstOutput(t *testing.T) {
	g := testGeometry(t, 8000, 9600, testWindow)
	e, err := NewFloat(g, filter.DefaultSincCutover)
	require.NoError(t, err)

	for e.MaxN() < 0 {
		e.Push(1)
	}
	assert.LessOrEqual(t, e.MinN(), int64(0))
	_, err = e.At(0)
	require.NoError(t, err)
}

// TestEngine_Identity checks that resampling by 1/1 reproduces the input.
func TestEngine_Identity(t *testing.T) {
	g := testGeometry(t, 1000, 1000, testWindow)
	e, err := NewFloat(g, filter.DefaultSincCutover)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	input := make([]complex128, 1000)
	for i := range input {
		input[i] = complex(rng.Float64()*2-1, rng.Float64()*2-1)
	}

	s := NewStream(e, 0)
	out, err := s.Process(input)
	require.NoError(t, err)
	tail, err := s.Flush()
	require.NoError(t, err)
	out = append(out, tail...)

	require.Len(t, out, len(input))
	for n := range input {
		testutil.AssertComplexInDelta(t, input[n], out[n], identityTol, "n=%d", n)
	}
}

// TestEngine_Tone resamples a complex tone and compares it with the same
// tone sampled at the output rate.
func TestEngine_Tone(t *testing.T) {
	const (
		inputLen = 4000
		toneHz   = 500.0
		margin   = 100
	)

	for _, tt := range testRatios {
		if tt.in < 8000 {
			continue
		}
		t.Run(tt.name, func(t *testing.T) {
			g := testGeometry(t, tt.in, tt.out, testWindow)
			e, err := NewFloat(g, filter.DefaultSincCutover)
			require.NoError(t, err)

			s := NewStream(e, 0)
			out, err := s.Process(testutil.ComplexTone(toneHz, tt.in, inputLen))
			require.NoError(t, err)
			tail, err := s.Flush()
			require.NoError(t, err)
			out = append(out, tail...)

			require.Len(t, out, int(g.OutputCount(inputLen)))
			want := testutil.ComplexTone(toneHz, tt.out, len(out))

			worst := testutil.MaxComplexError(want, out, margin, len(out)-margin)
			assert.Less(t, worst, testutil.ToneTolerance, "max error %e", worst)
		})
	}
}

func TestEngine_Reset(t *testing.T) {
	g := testGeometry(t, 9600, 8000, testWindow)
	e, err := NewFloat(g, filter.DefaultSincCutover)
	require.NoError(t, err)

	input := testutil.ComplexTone(300, 9600, 600)
	for _, x := range input {
		e.Push(x)
	}
	n := e.MaxN()
	before, err := e.At(n)
	require.NoError(t, err)

	e.Reset()
	assert.Equal(t, int64(0), e.Pushed())
	assert.Negative(t, e.MaxN())

	for _, x := range input {
		e.Push(x)
	}
	after, err := e.At(n)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
