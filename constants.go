package resampler

// DefaultWindow is the default kernel half-width W.
const DefaultWindow = 30.0

// Resampling ratio limits
const (
	minRatioFactor = 1.0 / 256.0 // Minimum resampling ratio (1/256)
	maxRatioFactor = 256.0       // Maximum resampling ratio (256x)
)

// Memory estimate constants
const (
	bytesPerFloat64    = 8
	bytesPerInt32      = 4
	bytesPerComplex128 = 16
	bytesPerComplex16  = 4
)

// iqComponents is the number of interleaved values per complex sample.
const iqComponents = 2
