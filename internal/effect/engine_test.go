package effect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledviz/core/internal/spectrum"
)

func silentSnapshot() *spectrum.Snapshot {
	return &spectrum.Snapshot{Bands: make([]float64, spectrum.NumBands)}
}

func TestNewEngineDefaultsToSpectrumBars(t *testing.T) {
	e := NewEngine(8, 8)
	require.Equal(t, IDSpectrumBars, e.ActiveID())
}

func TestSetEffectImmediateSwitchWithZeroBlendTicks(t *testing.T) {
	e := NewEngine(8, 8)
	require.NoError(t, e.SetEffect(IDHeartbeat, 0))
	require.Equal(t, IDHeartbeat, e.ActiveID())
}

func TestSetEffectRejectsUnknownID(t *testing.T) {
	e := NewEngine(8, 8)
	require.Error(t, e.SetEffect(99, 10))
}

func TestSetEffectCrossfadeReachesTargetAtCompletion(t *testing.T) {
	e := NewEngine(8, 8)
	require.NoError(t, e.SetEffect(IDCircularWave, 4))
	require.Equal(t, IDCircularWave, e.ActiveID(), "ActiveID reports the pending target mid-blend")

	snap := silentSnapshot()
	for i := uint64(0); i < 4; i++ {
		e.Tick(snap, i, 1.0/60)
	}
	require.Equal(t, IDCircularWave, e.ActiveID())
}

func TestSetEffectRetargetsMidBlend(t *testing.T) {
	e := NewEngine(8, 8)
	snap := silentSnapshot()

	require.NoError(t, e.SetEffect(IDHeartbeat, 10))
	e.Tick(snap, 0, 1.0/60)
	e.Tick(snap, 1, 1.0/60)

	require.NoError(t, e.SetEffect(IDStarfall, 10))
	require.Equal(t, IDStarfall, e.ActiveID())

	for i := uint64(2); i < 13; i++ {
		e.Tick(snap, i, 1.0/60)
	}
	require.Equal(t, IDStarfall, e.ActiveID())
}

func TestSetBrightnessRejectsOutOfRange(t *testing.T) {
	e := NewEngine(4, 4)
	require.Error(t, e.SetBrightness(-0.1))
	require.Error(t, e.SetBrightness(1.1))
	require.NoError(t, e.SetBrightness(0.5))
}

func TestTickAppliesBrightnessScaling(t *testing.T) {
	e := NewEngine(4, 4)
	require.NoError(t, e.SetEffect(IDHeartbeat, 0))
	require.NoError(t, e.SetBrightness(0))

	snap := silentSnapshot()
	out := e.Tick(snap, 0, 1.0/60)
	for _, p := range out.Pix {
		require.Zero(t, p)
	}
}
