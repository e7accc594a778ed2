package artnet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledviz/core/internal/config"
)

func TestNewUDPDispatcherRejectsEmptyControllerList(t *testing.T) {
	_, err := NewUDPDispatcher(nil)
	require.Error(t, err)
}

func TestTestPatternSolidFillsWhite(t *testing.T) {
	m := TestPattern("solid", 4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, g, b := m.At(x, y)
			require.Equal(t, uint8(255), r)
			require.Equal(t, uint8(255), g)
			require.Equal(t, uint8(255), b)
		}
	}
}

func TestTestPatternGradientMonotonic(t *testing.T) {
	m := TestPattern("gradient", 8, 1)
	prev := -1
	for x := 0; x < 8; x++ {
		r, _, _ := m.At(x, 0)
		require.GreaterOrEqual(t, int(r), prev)
		prev = int(r)
	}
}

func TestFakeDispatcherRecordsFrames(t *testing.T) {
	d := &FakeDispatcher{}
	require.NoError(t, d.Start(Simulator))

	frame := TestPattern("solid", 2, 2)
	require.NoError(t, d.SendFrame(frame))
	require.Len(t, d.Frames, 1)

	frame.Set(0, 0, 1, 2, 3)
	r, g, b := d.Frames[0].At(0, 0)
	require.Equal(t, uint8(255), r)
	require.Equal(t, uint8(255), g)
	require.Equal(t, uint8(255), b)
}

func TestUDPDispatcherSendFrameFailsWhenNotRunning(t *testing.T) {
	d, err := NewUDPDispatcher([]config.ControllerConfig{{ID: "a", IP: "127.0.0.1", UniverseBase: 0, Region: config.Region{W: 1, H: 1}}})
	require.NoError(t, err)
	require.Error(t, d.SendFrame(TestPattern("solid", 1, 1)))
}
