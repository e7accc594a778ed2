package effect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func bassSnapshot(bass float64) *spectrum.Snapshot {
	snap := &spectrum.Snapshot{Bands: make([]float64, spectrum.NumBands)}
	for i := range snap.Bands {
		snap.Bands[i] = bass
	}
	return snap
}

func TestFlamesZeroBassDecaysTowardBlack(t *testing.T) {
	e := &flames{}
	e.Init(4, 4)
	for i := range e.heat {
		e.heat[i] = 1.0
	}

	dst := pixel.New(4, 4)
	snap := bassSnapshot(0)

	lastSum := 1e9
	for i := 0; i < 50; i++ {
		e.Tick(dst, snap, palette.Rainbow, palette.CustomColor{}, uint64(i), 1.0/60)
		sum := 0.0
		for _, h := range e.heat {
			sum += h
		}
		require.LessOrEqual(t, sum, lastSum, "heat must never increase with zero bass")
		lastSum = sum
	}
	require.InDelta(t, 0, lastSum, 0.01)
}

func TestFlamesInjectsOnlyWithBass(t *testing.T) {
	e := &flames{}
	e.Init(4, 4)

	dst := pixel.New(4, 4)
	snap := bassSnapshot(0.9)
	e.Tick(dst, snap, palette.Rainbow, palette.CustomColor{}, 0, 1.0/60)

	sum := 0.0
	for _, h := range e.heat {
		sum += h
	}
	require.Greater(t, sum, 0.0, "bottom row should receive heat when bass is high")
}
