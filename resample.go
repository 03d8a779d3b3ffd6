package resampler

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/myriota/go-resampler/internal/engine"
	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/rational"
	"github.com/myriota/go-resampler/internal/simdops"
)

// Rational is a reduced fraction P/Q with Q > 0.
type Rational = rational.Rational

// Complex16 is a complex sample with 16-bit signed components.
type Complex16 = engine.Complex16

// Complex32 is a complex value with 32-bit signed components.
type Complex32 = engine.Complex32

// Normalization selects how the fixed point datapath scales accumulators
// back to the 16-bit range.
type Normalization = engine.Normalization

const (
	// NormalizeDivide divides each accumulator by the quantisation scale.
	NormalizeDivide = engine.NormalizeDivide

	// NormalizeShift replaces the division with a rounding right shift.
	NormalizeShift = engine.NormalizeShift
)

// Mode restricts the direction of the rate change.
type Mode int

const (
	// ModeAuto accepts any ratio.
	ModeAuto Mode = iota

	// ModeUpsample requires InputRate <= OutputRate.
	ModeUpsample

	// ModeDownsample requires InputRate > OutputRate.
	ModeDownsample
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeUpsample:
		return "upsample"
	case ModeDownsample:
		return "downsample"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config holds resampling configuration.
type Config struct {
	// InputRate is the sample rate of the input stream in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	OutputRate float64

	// Window is the half-width W of the interpolation kernel in input
	// samples (in output samples when downsampling). Larger is slower but
	// more accurate. Zero selects DefaultWindow.
	Window float64

	// Mode restricts the direction of the rate change.
	Mode Mode

	// Approximation controls how OutputRate/InputRate is replaced by a
	// fraction p/q.
	Approximation Approximation

	// SincCutover is the |t| below which the sinc is evaluated by its
	// Taylor series. Zero selects the default of 5e-3.
	SincCutover float64
}

// Approximation controls the continued-fraction approximation of the rate
// ratio. Zero fields select the defaults.
type Approximation struct {
	// Tolerance is the accepted error |x*q - p| / q. Default 1e-6.
	Tolerance float64

	// MaxDenominator bounds q. Default 1000.
	MaxDenominator int64

	// Depth is the number of continued-fraction terms examined. Default 10.
	Depth int
}

// Common errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrDirection indicates that the rates contradict the requested Mode.
	ErrDirection = errors.New("sample rates do not match resampling direction")

	// ErrOutOfRange is returned when an output index is requested before
	// enough input has been pushed or after it has left the history.
	ErrOutOfRange = engine.ErrOutOfRange

	// ErrFlushed is returned by Process after Flush until Reset.
	ErrFlushed = engine.ErrFlushed
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !isPositiveFinite(c.InputRate) || !isPositiveFinite(c.OutputRate) {
		return fmt.Errorf("%w: sample rates must be positive and finite", ErrInvalidConfig)
	}

	ratio := c.OutputRate / c.InputRate
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: resampling ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	if c.Window != 0 && !isPositiveFinite(c.Window) {
		return fmt.Errorf("%w: window must be positive and finite, got %v", ErrInvalidConfig, c.Window)
	}

	if c.SincCutover < 0 || math.IsNaN(c.SincCutover) || math.IsInf(c.SincCutover, 0) {
		return fmt.Errorf("%w: sinc cutover must be non-negative and finite, got %v", ErrInvalidConfig, c.SincCutover)
	}

	if err := c.Approximation.Validate(); err != nil {
		return err
	}

	switch c.Mode {
	case ModeAuto:
	case ModeUpsample:
		if c.InputRate > c.OutputRate {
			return fmt.Errorf("%w: upsampler needs input rate <= output rate, got %v > %v",
				ErrDirection, c.InputRate, c.OutputRate)
		}
	case ModeDownsample:
		if c.InputRate <= c.OutputRate {
			return fmt.Errorf("%w: downsampler needs input rate > output rate, got %v <= %v",
				ErrDirection, c.InputRate, c.OutputRate)
		}
	default:
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidConfig, c.Mode)
	}

	return nil
}

// Validate checks if the approximation parameters are valid.
func (a *Approximation) Validate() error {
	if a.Tolerance < 0 || math.IsNaN(a.Tolerance) || math.IsInf(a.Tolerance, 0) {
		return fmt.Errorf("%w: approximation tolerance must be non-negative and finite", ErrInvalidConfig)
	}
	if a.MaxDenominator < 0 {
		return fmt.Errorf("%w: maximum denominator must not be negative", ErrInvalidConfig)
	}
	if a.Depth < 0 {
		return fmt.Errorf("%w: approximation depth must not be negative", ErrInvalidConfig)
	}
	return nil
}

// withDefaults returns a copy of c with zero fields filled in.
func (c Config) withDefaults() Config {
	if c.Window == 0 {
		c.Window = DefaultWindow
	}
	if c.SincCutover == 0 {
		c.SincCutover = filter.DefaultSincCutover
	}
	if c.Approximation.Tolerance == 0 {
		c.Approximation.Tolerance = rational.DefaultTolerance
	}
	if c.Approximation.MaxDenominator == 0 {
		c.Approximation.MaxDenominator = rational.DefaultMaxDenominator
	}
	if c.Approximation.Depth == 0 {
		c.Approximation.Depth = rational.DefaultDepth
	}
	return c
}

// geometry validates c, fills defaults and derives the resampling
// geometry. It runs before any filter design.
func (c Config) geometry() (Config, engine.Geometry, error) {
	if err := c.Validate(); err != nil {
		return c, engine.Geometry{}, err
	}
	c = c.withDefaults()

	a := c.Approximation
	r, err := rational.Approximate(c.OutputRate/c.InputRate, a.Tolerance, a.MaxDenominator, a.Depth)
	if err != nil {
		return c, engine.Geometry{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if r.P <= 0 {
		return c, engine.Geometry{}, fmt.Errorf("%w: ratio %v approximates to %v", ErrInvalidConfig,
			c.OutputRate/c.InputRate, r)
	}

	g, err := engine.NewGeometry(r, c.Window)
	if err != nil {
		return c, engine.Geometry{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c, g, nil
}

func isPositiveFinite(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

// Option configures a resampler.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for construction diagnostics. The
// default discards all output. Nothing is logged per sample.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Info returns information about the resampler implementation.
type Info struct {
	// Algorithm describes the resampling algorithm in use.
	Algorithm string

	// Ratio is the rational approximation p/q of OutputRate/InputRate.
	Ratio Rational

	// Window is the kernel half-width W.
	Window float64

	// FilterLength is the number of tabulated filter taps.
	FilterLength int

	// Phases is the number of polyphase filter phases (p).
	Phases int

	// TapsPerPhase is the longest phase length.
	TapsPerPhase int

	// HistoryCapacity is the number of input samples retained.
	HistoryCapacity int

	// Latency is the number of input samples that must follow a sample
	// before every output near it can be computed.
	Latency int

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// SIMDEnabled indicates if SIMD optimizations are active.
	SIMDEnabled bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

func newInfo(algorithm string, g engine.Geometry, capacity, sampleBytes, tapBytes int) Info {
	filterLength := int(g.GMax - g.GMin + 1)
	p := int(g.Ratio.P)
	simdType := simdops.Accelerated()

	return Info{
		Algorithm:       algorithm,
		Ratio:           g.Ratio,
		Window:          g.W,
		FilterLength:    filterLength,
		Phases:          p,
		TapsPerPhase:    (filterLength + p - 1) / p,
		HistoryCapacity: capacity,
		Latency:         int(math.Ceil(g.W / g.Kappa)),
		MemoryUsage:     int64(capacity*sampleBytes + filterLength*tapBytes),
		SIMDEnabled:     simdType != "",
		SIMDType:        simdType,
	}
}
