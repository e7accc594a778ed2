package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/config"
)

func defaultAnalyzerConfig() config.AnalyzerConfig {
	return config.AnalyzerConfig{
		Gain:        1.0,
		Smoothing:   0.0,
		BandWeights: config.BandWeights{Bass: 1, Mid: 1, High: 1},
		NoiseFloor:  0.0,
		PeakAttack:  1.0,
		PeakRelease: 0.02,
	}
}

func toneWindow(freqHz float64, amp float32) *audio.Window {
	w := &audio.Window{}
	for i := range w.Data {
		t := float64(i) / float64(audio.SampleRate)
		w.Data[i] = amp * float32(math.Sin(2*math.Pi*freqHz*t))
	}
	return w
}

func bandOfMax(bands []float64) int {
	best := 0
	for i, v := range bands {
		if v > bands[best] {
			best = i
		}
	}
	return best
}

// bandCenterHz mirrors the analyzer's log-spaced band mapping to find which
// band index a frequency should land in, for assertion purposes only.
func bandCenterHz(b int) float64 {
	ratio := (float64(b) + 0.5) / float64(NumBands)
	return minFreqHz * math.Pow(maxFreqHz/minFreqHz, ratio)
}

func TestProcessPeaksNearToneFrequency(t *testing.T) {
	a := NewAnalyzer(defaultAnalyzerConfig())
	win := toneWindow(1000, 0.8)

	var snap *Snapshot
	for i := 0; i < 5; i++ {
		snap = a.Process(win)
	}

	peakBand := bandOfMax(snap.Bands)
	require.InDelta(t, 1000, bandCenterHz(peakBand), 400, "energy should concentrate near the 1kHz tone's band")
}

func TestProcessSilenceYieldsNearZeroBands(t *testing.T) {
	a := NewAnalyzer(defaultAnalyzerConfig())
	silence := &audio.Window{}

	var snap *Snapshot
	for i := 0; i < 3; i++ {
		snap = a.Process(silence)
	}
	for _, v := range snap.Bands {
		require.LessOrEqual(t, v, 1.0)
		require.GreaterOrEqual(t, v, 0.0)
		require.InDelta(t, 0.0, v, 1e-9)
	}
}

func TestSetGainRejectsOutOfRange(t *testing.T) {
	a := NewAnalyzer(defaultAnalyzerConfig())
	require.Error(t, a.SetGain(0.01))
	require.Error(t, a.SetGain(10))
	require.NoError(t, a.SetGain(2.0))
}

func TestDecayMovesTowardZero(t *testing.T) {
	a := NewAnalyzer(defaultAnalyzerConfig())
	a.Process(toneWindow(1000, 0.8))
	before := append([]float64(nil), a.Latest().Bands...)

	after := a.Decay(0.5)
	for i := range after.Bands {
		require.LessOrEqual(t, after.Bands[i], before[i]+1e-9)
	}
}

func TestLatestNeverNil(t *testing.T) {
	a := NewAnalyzer(defaultAnalyzerConfig())
	require.NotNil(t, a.Latest())
}
