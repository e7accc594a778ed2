package palette

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModeRoundTrip(t *testing.T) {
	for _, name := range []string{"rainbow", "fire", "ocean", "sunset", "matrix", "custom"} {
		mode, ok := ParseMode(name)
		require.True(t, ok)
		require.Equal(t, name, mode.String())
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	_, ok := ParseMode("plaid")
	require.False(t, ok)
}

func TestEvalZeroIntensityIsRampStart(t *testing.T) {
	// Rainbow's value and the Fire/Matrix ramps start at black; the Ocean
	// ramp starts at navy and the Sunset ramp at purple.
	for _, mode := range []Mode{Rainbow, Fire, Matrix} {
		r, g, b := Eval(Params{Mode: mode, Intensity: 0, W: 10})
		require.Zero(t, r)
		require.Zero(t, g)
		require.Zero(t, b)
	}
	r, g, b := Eval(Params{Mode: Ocean, Intensity: 0, W: 10})
	require.Equal(t, [3]uint8{0x00, 0x00, 0x80}, [3]uint8{r, g, b})
	r, g, b = Eval(Params{Mode: Sunset, Intensity: 0, W: 10})
	require.Equal(t, [3]uint8{0x80, 0x00, 0x80}, [3]uint8{r, g, b})
}

func TestEvalCustomScalesByIntensity(t *testing.T) {
	custom := CustomColor{R: 1, G: 0.5, B: 0}
	r, g, b := Eval(Params{Mode: Custom, Intensity: 1, Custom: custom})
	require.Equal(t, uint8(255), r)
	require.InDelta(t, 128, int(g), 1)
	require.Zero(t, b)

	r, g, _ = Eval(Params{Mode: Custom, Intensity: 0, Custom: custom})
	require.Zero(t, r)
	require.Zero(t, g)
}

func TestEvalFireFullIntensityIsWhite(t *testing.T) {
	r, g, b := Eval(Params{Mode: Fire, Intensity: 1})
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(255), g)
	require.Equal(t, uint8(255), b)
}

func TestEvalClampsOutOfRangeIntensity(t *testing.T) {
	r1, g1, b1 := Eval(Params{Mode: Fire, Intensity: 5})
	r2, g2, b2 := Eval(Params{Mode: Fire, Intensity: 1})
	require.Equal(t, r2, r1)
	require.Equal(t, g2, g1)
	require.Equal(t, b2, b1)
}
