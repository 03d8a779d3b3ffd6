package engine

// Fixed point quantisation constants
const (
	// accumulatorScale bounds alpha*beta so that a full scale input
	// summed over any phase fits in an int32 accumulator.
	accumulatorScale = 1 << 16

	// sampleFullScale is the magnitude of the most negative int16 sample.
	sampleFullScale = 1 << 15
)
