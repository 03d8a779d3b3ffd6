package resampler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/myriota/go-resampler/internal/engine"
)

// stream is the state shared by the floating and fixed point resamplers:
// the engine for random access and the sequential driver on top of it.
type stream[S, A any] struct {
	config Config
	geom   engine.Geometry
	engine *engine.Engine[S, A]
	driver *engine.Stream[S, A]
}

func newStream[S, A any](cfg Config, g engine.Geometry, e *engine.Engine[S, A], zero S) stream[S, A] {
	return stream[S, A]{
		config: cfg,
		geom:   g,
		engine: e,
		driver: engine.NewStream(e, zero),
	}
}

// Push appends one input sample for random access with At.
func (s *stream[S, A]) Push(x S) { s.engine.Push(x) }

// Pushed returns the number of input samples pushed.
func (s *stream[S, A]) Pushed() int64 { return s.engine.Pushed() }

// MinN returns the oldest output index that At can compute.
func (s *stream[S, A]) MinN() int64 { return s.engine.MinN() }

// MaxN returns the newest output index that At can compute.
func (s *stream[S, A]) MaxN() int64 { return s.engine.MaxN() }

// At returns output sample n. It fails with ErrOutOfRange unless
// MinN() <= n <= MaxN().
func (s *stream[S, A]) At(n int64) (S, error) { return s.engine.At(n) }

// Process resamples a chunk of input and returns every output it made
// available, continuing from the previous chunk. Do not mix Process with
// Push on the same resampler.
func (s *stream[S, A]) Process(input []S) ([]S, error) {
	return s.driver.Process(input)
}

// Flush returns the remaining outputs, so that the total output length is
// ceil(N*p/q) for N inputs. The input is padded with zeros.
func (s *stream[S, A]) Flush() ([]S, error) {
	return s.driver.Flush()
}

// Reset clears all internal state.
func (s *stream[S, A]) Reset() { s.driver.Reset() }

// Ratio returns the rational approximation p/q of the rate ratio.
func (s *stream[S, A]) Ratio() Rational { return s.geom.Ratio }

// Gamma returns p/q as a float64.
func (s *stream[S, A]) Gamma() float64 { return s.geom.Gamma }

// Config returns the configuration with defaults filled in.
func (s *stream[S, A]) Config() Config { return s.config }

// Resampler converts complex128 streams between sample rates.
//
// A Resampler is not safe for concurrent use. Independent resamplers may
// run on separate goroutines.
type Resampler struct {
	stream[complex128, complex128]
}

// New creates a floating point resampler.
func New(config Config, opts ...Option) (*Resampler, error) {
	o := buildOptions(opts)

	cfg, g, err := config.geometry()
	if err != nil {
		return nil, err
	}

	e, err := engine.NewFloat(g, cfg.SincCutover)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	logConstruction(o.logger, "float", cfg, g, e.Capacity())

	return &Resampler{stream: newStream(cfg, g, e, complex128(0))}, nil
}

// GetInfo returns information about the resampler.
func (r *Resampler) GetInfo() Info {
	return newInfo("polyphase windowed-sinc (complex128)", r.geom, r.engine.Capacity(),
		bytesPerComplex128, bytesPerFloat64)
}

// FixedResampler converts 16-bit complex streams between sample rates using
// only integer arithmetic per sample.
//
// Outputs outside the int16 range saturate silently; Clipped counts them.
type FixedResampler struct {
	stream[Complex16, Complex32]
	fixed *engine.FixedEngine
}

// NewFixed creates a fixed point resampler that normalises by division.
func NewFixed(config Config, opts ...Option) (*FixedResampler, error) {
	return newFixed(config, NormalizeDivide, opts)
}

// NewFixedShift creates a fixed point resampler that normalises by a
// rounding shift instead of a division. Its gain is Alpha()/2^Shift(),
// between 1 and 2, so loud inputs clip more often.
func NewFixedShift(config Config, opts ...Option) (*FixedResampler, error) {
	return newFixed(config, NormalizeShift, opts)
}

func newFixed(config Config, norm Normalization, opts []Option) (*FixedResampler, error) {
	o := buildOptions(opts)

	cfg, g, err := config.geometry()
	if err != nil {
		return nil, err
	}

	e, err := engine.NewFixed(g, cfg.SincCutover, norm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	logConstruction(o.logger, "fixed-"+norm.String(), cfg, g, e.Capacity())
	o.logger.Debug("quantised filter",
		zap.Int32("alpha", e.Alpha()),
		zap.Float64("beta", e.Beta()),
		zap.Int("shift", e.Shift()),
		zap.Int64("max_phase_gain", e.MaxPhaseGain()),
	)

	return &FixedResampler{
		stream: newStream(cfg, g, e.Engine, Complex16{}),
		fixed:  e,
	}, nil
}

// At32 returns output n normalised to the 16-bit scale but not clipped.
func (r *FixedResampler) At32(n int64) (Complex32, error) { return r.fixed.At32(n) }

// Taps returns a copy of the quantised filter taps, ordered by grid index
// from gmin to gmax.
func (r *FixedResampler) Taps() []int32 { return r.fixed.Taps() }

// Alpha returns the quantisation scale.
func (r *FixedResampler) Alpha() int32 { return r.fixed.Alpha() }

// Beta returns the worst-case gain of the unquantised filter over all
// phases.
func (r *FixedResampler) Beta() float64 { return r.fixed.Beta() }

// Shift returns floor(log2(Alpha())).
func (r *FixedResampler) Shift() int { return r.fixed.Shift() }

// Normalization returns the accumulator normalisation in use.
func (r *FixedResampler) Normalization() Normalization { return r.fixed.Normalization() }

// Clipped returns the number of saturated outputs since construction or
// the last Reset.
func (r *FixedResampler) Clipped() int64 { return r.fixed.Clipped() }

// GetInfo returns information about the resampler.
func (r *FixedResampler) GetInfo() Info {
	return newInfo("polyphase windowed-sinc (int16, "+r.Normalization().String()+")", r.geom,
		r.engine.Capacity(), bytesPerComplex16, bytesPerInt32)
}

func logConstruction(l *zap.Logger, datapath string, cfg Config, g engine.Geometry, capacity int) {
	l.Debug("created resampler",
		zap.String("datapath", datapath),
		zap.Float64("input_rate", cfg.InputRate),
		zap.Float64("output_rate", cfg.OutputRate),
		zap.Stringer("ratio", g.Ratio),
		zap.Float64("window", g.W),
		zap.Stringer("mode", cfg.Mode),
		zap.Int64("gmin", g.GMin),
		zap.Int64("gmax", g.GMax),
		zap.Int("history", capacity),
	)
}
