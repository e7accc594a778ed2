package effect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParticleFreeListSpawnRespectsCapacity(t *testing.T) {
	pf := newParticleFreeList(3)
	require.True(t, pf.spawn(particle{life: 1}))
	require.True(t, pf.spawn(particle{life: 1}))
	require.True(t, pf.spawn(particle{life: 1}))
	require.False(t, pf.spawn(particle{life: 1}), "spawn beyond capacity must be dropped, not panic")
	require.Equal(t, 3, pf.liveCount())
}

func TestParticleFreeListKillRecyclesSlot(t *testing.T) {
	pf := newParticleFreeList(1)
	require.True(t, pf.spawn(particle{life: 1}))
	require.Equal(t, 1, pf.liveCount())

	pf.each(func(idx int, p *particle) { pf.kill(idx) })
	require.Equal(t, 0, pf.liveCount())

	require.True(t, pf.spawn(particle{life: 1}))
	require.Equal(t, 1, pf.liveCount())
}

func TestParticleFreeListResetClearsAll(t *testing.T) {
	pf := newParticleFreeList(4)
	pf.spawn(particle{life: 1})
	pf.spawn(particle{life: 1})
	pf.reset()
	require.Equal(t, 0, pf.liveCount())
}
