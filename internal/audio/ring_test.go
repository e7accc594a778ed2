package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRingOverwritesOldestWhenFull(t *testing.T) {
	pool := NewPool(RingCapacity + 2)
	ring := NewRing()

	var evictedIdxs []int32
	for i := 0; i < RingCapacity+2; i++ {
		win, idx := pool.Get()
		require.NotNil(t, win)
		evicted, did := ring.Push(Frame{Win: win, Idx: idx})
		if did {
			evictedIdxs = append(evictedIdxs, evicted.Idx)
		}
	}

	require.Equal(t, RingCapacity, ring.Len())
	require.Len(t, evictedIdxs, 2)
	require.Equal(t, uint64(2), ring.DroppedCount())
}

func TestRingPopTimeoutReturnsFalseWhenEmpty(t *testing.T) {
	ring := NewRing()
	_, ok := ring.PopTimeout(5 * time.Millisecond)
	require.False(t, ok)
}

func TestRingPopReturnsFIFOOrder(t *testing.T) {
	pool := NewPool(4)
	ring := NewRing()

	w1, i1 := pool.Get()
	w1.Data[0] = 1
	ring.Push(Frame{Win: w1, Idx: i1})

	w2, i2 := pool.Get()
	w2.Data[0] = 2
	ring.Push(Frame{Win: w2, Idx: i2})

	f1, ok := ring.PopTimeout(time.Millisecond)
	require.True(t, ok)
	require.Equal(t, float32(1), f1.Win.Data[0])

	f2, ok := ring.PopTimeout(time.Millisecond)
	require.True(t, ok)
	require.Equal(t, float32(2), f2.Win.Data[0])
}
