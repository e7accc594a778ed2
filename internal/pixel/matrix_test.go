package pixel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetAtRoundTrip(t *testing.T) {
	m := New(4, 3)
	m.Set(1, 2, 10, 20, 30)
	r, g, b := m.At(1, 2)
	require.Equal(t, uint8(10), r)
	require.Equal(t, uint8(20), g)
	require.Equal(t, uint8(30), b)
}

func TestSetOutOfBoundsIsNoop(t *testing.T) {
	m := New(2, 2)
	m.Set(-1, 0, 255, 255, 255)
	m.Set(2, 0, 255, 255, 255)
	for _, px := range m.Pix {
		require.Zero(t, px)
	}
}

func TestBlendEndpoints(t *testing.T) {
	a := New(2, 2)
	b := New(2, 2)
	for i := range a.Pix {
		a.Pix[i] = 0
		b.Pix[i] = 255
	}
	dst := New(2, 2)

	Blend(dst, a, b, 0)
	require.Equal(t, a.Pix, dst.Pix)

	Blend(dst, a, b, 1)
	require.Equal(t, b.Pix, dst.Pix)
}

func TestBlendMidpoint(t *testing.T) {
	a := New(1, 1)
	b := New(1, 1)
	a.Set(0, 0, 0, 0, 0)
	b.Set(0, 0, 200, 200, 200)
	dst := New(1, 1)

	Blend(dst, a, b, 0.5)
	r, _, _ := dst.At(0, 0)
	require.InDelta(t, 100, int(r), 1)
}

func TestScaleBrightnessRoundTrip(t *testing.T) {
	src := New(1, 1)
	src.Set(0, 0, 100, 200, 50)
	dst := New(1, 1)

	ScaleBrightness(dst, src, 0.5)
	r, g, b := dst.At(0, 0)
	require.InDelta(t, 50, int(r), 1)
	require.InDelta(t, 100, int(g), 1)
	require.InDelta(t, 25, int(b), 1)
}

func TestScaleBrightnessInPlace(t *testing.T) {
	m := New(2, 2)
	m.Set(0, 0, 80, 160, 240)
	m.Set(1, 1, 40, 80, 120)

	before := make([]uint8, len(m.Pix))
	copy(before, m.Pix)

	ScaleBrightness(m, m, 0.5)
	for i, p := range m.Pix {
		want := uint8(float64(before[i])*0.5 + 0.5)
		require.Equal(t, want, p, "index %d", i)
	}
}

func TestResizeProducesRequestedSize(t *testing.T) {
	src := New(4, 4)
	src.Set(0, 0, 255, 0, 0)
	src.Set(3, 3, 0, 255, 0)

	resized := src.Resize(8, 8)
	require.Equal(t, 8, resized.W)
	require.Equal(t, 8, resized.H)
	require.Len(t, resized.Pix, 8*8*3)
}
