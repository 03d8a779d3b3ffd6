package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myriota/go-resampler/internal/filter"
	"github.com/myriota/go-resampler/internal/testutil"
)

const (
	testWindow  = 30.0
	testDensity = 6
	fftSize     = 8192

	passbandEdge   = 0.4
	stopbandEdge   = 0.6
	maxRippleDB    = 0.02
	minStopbandDB  = -60.0
	pureToneSNRMin = 100.0
)

func designTestTable(t *testing.T) *filter.Table {
	t.Helper()
	gmax := int64(math.Floor(testDensity * testWindow))
	table, err := filter.Design(testDensity, -gmax, gmax, testWindow, filter.DefaultSincCutover)
	require.NoError(t, err)
	return table
}

func TestFrequencyResponse_Kernel(t *testing.T) {
	table := designTestTable(t)

	resp, err := FrequencyResponse(table.Values(), testDensity, fftSize)
	require.NoError(t, err)

	require.Len(t, resp.Freq, fftSize/2+1)
	assert.InDelta(t, 0.0, resp.Freq[0], 0)
	assert.InDelta(t, testDensity/2.0, resp.Freq[len(resp.Freq)-1], 1e-12)

	testutil.AssertRelativeError(t, 1.0, resp.At(0), 1e-3)
	assert.Less(t, resp.PassbandRipple(passbandEdge), maxRippleDB)
	assert.Less(t, resp.StopbandPeak(stopbandEdge), minStopbandDB)

	// The -6 dB point of a windowed sinc sits at the cutoff.
	testutil.AssertInRange(t, resp.Cutoff(-6.03), 0.48, 0.52)
}

func TestFrequencyResponse_Invalid(t *testing.T) {
	_, err := FrequencyResponse(nil, testDensity, fftSize)
	require.ErrorIs(t, err, ErrEmpty)
	_, err = FrequencyResponse([]float64{1}, 0, fftSize)
	require.Error(t, err)
}

func TestMagnitudeDB(t *testing.T) {
	assert.InDelta(t, 0.0, MagnitudeDB(1), testutil.DBTolerance)
	assert.InDelta(t, -20.0, MagnitudeDB(0.1), testutil.DBTolerance)
	assert.InDelta(t, -300.0, MagnitudeDB(0), testutil.DBTolerance)
	assert.InDelta(t, -10.0, PowerDB(0.1), testutil.DBTolerance)
}

func TestSpectrum_PeakBin(t *testing.T) {
	const n = 1024

	tests := []struct {
		name string
		bin  int
		want int
	}{
		{"positive", 37, 37},
		{"negative", -100, n - 100},
		{"dc", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := testutil.ComplexTone(float64(tt.bin), n, n)
			power, err := Spectrum(x)
			require.NoError(t, err)
			require.Len(t, power, n)
			assert.Equal(t, tt.want, PeakBin(power))
		})
	}
}

// TestToneSNR_PureTone checks that a bin-centred tone leaks only into the
// window's main lobe.
func TestToneSNR_PureTone(t *testing.T) {
	x := testutil.ComplexTone(200, 2048, 2048)

	snr, err := ToneSNR(x, 2)
	require.NoError(t, err)
	assert.Greater(t, snr, pureToneSNRMin)
}

func TestToneSNR_Noise(t *testing.T) {
	x := testutil.ComplexTone(200, 2048, 2048)
	// Interferer 40 dB below the tone.
	for i, v := range testutil.ComplexTone(611, 2048, 2048) {
		x[i] += 0.01 * v
	}

	snr, err := ToneSNR(x, 2)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, snr, 0.5)
}

func TestSpectrum_Empty(t *testing.T) {
	_, err := Spectrum(nil)
	require.ErrorIs(t, err, ErrEmpty)
	_, err = ToneSNR(nil, 2)
	require.ErrorIs(t, err, ErrEmpty)
}
