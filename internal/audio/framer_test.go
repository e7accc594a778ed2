package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramerEmitsNoWindowBeforeFirstFull(t *testing.T) {
	pool := NewPool(4)
	ring := NewRing()
	f := NewFramer(pool, ring)

	for i := 0; i < WindowSize-1; i++ {
		f.PushSample(float32(i))
	}
	require.Equal(t, 0, ring.Len())
}

func TestFramerWindowsOverlapByHalf(t *testing.T) {
	pool := NewPool(8)
	ring := NewRing()
	f := NewFramer(pool, ring)

	// Feed strictly increasing samples so each window's content is
	// positionally identifiable.
	for i := 0; i < WindowSize+HopSize; i++ {
		f.PushSample(float32(i))
	}

	require.Equal(t, 2, ring.Len())

	frame1, ok := ring.PopTimeout(0)
	require.True(t, ok)
	frame2, ok := ring.PopTimeout(0)
	require.True(t, ok)

	// frame1 covers samples [0, WindowSize), frame2 covers
	// [HopSize, HopSize+WindowSize): the last half of frame1 must equal the
	// first half of frame2, the 50%-overlap invariant.
	for i := 0; i < HopSize; i++ {
		require.Equal(t, frame1.Win.Data[HopSize+i], frame2.Win.Data[i])
	}
}

func TestFramerResetClearsHistory(t *testing.T) {
	pool := NewPool(4)
	ring := NewRing()
	f := NewFramer(pool, ring)

	for i := 0; i < WindowSize; i++ {
		f.PushSample(1)
	}
	f.Reset()
	require.Equal(t, 0, f.filled)
	require.Equal(t, 0, f.writePos)
	require.Equal(t, 0, f.sinceHop)
}
