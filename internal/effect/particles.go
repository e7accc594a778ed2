package effect

// particle is one element of a fixed-capacity particle array.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // seconds remaining; <=0 means dead
	hue        float64
	alive      bool
}

// particleFreeList is a fixed-capacity particle array with a free-list of
// dead indices, per spec.md §9's "Particle system" design note: spawning
// reuses a slot if any is free, otherwise the spawn event is dropped. This
// is the single-threaded (render-loop-only) counterpart of audio.Pool's
// lock-free free-list — no concurrent access here, so a plain slice-backed
// stack suffices, grounded in the same idiom as audio.Pool/Ring.
type particleFreeList struct {
	items []particle
	free  []int32 // stack of free indices
}

func newParticleFreeList(capacity int) *particleFreeList {
	pf := &particleFreeList{
		items: make([]particle, capacity),
		free:  make([]int32, capacity),
	}
	for i := range pf.free {
		pf.free[i] = int32(capacity - 1 - i)
	}
	return pf
}

// spawn reuses a dead slot for a new particle, returning false if the pool
// is exhausted (the spawn event is dropped, per spec.md §9).
func (pf *particleFreeList) spawn(p particle) bool {
	if len(pf.free) == 0 {
		return false
	}
	idx := pf.free[len(pf.free)-1]
	pf.free = pf.free[:len(pf.free)-1]
	p.alive = true
	pf.items[idx] = p
	return true
}

// kill returns a slot to the free-list.
func (pf *particleFreeList) kill(idx int) {
	pf.items[idx].alive = false
	pf.free = append(pf.free, int32(idx))
}

// each calls fn for every live particle, passing its index so the caller
// can kill() it.
func (pf *particleFreeList) each(fn func(idx int, p *particle)) {
	for i := range pf.items {
		if pf.items[i].alive {
			fn(i, &pf.items[i])
		}
	}
}

func (pf *particleFreeList) liveCount() int {
	return len(pf.items) - len(pf.free)
}

func (pf *particleFreeList) reset() {
	for i := range pf.items {
		pf.items[i] = particle{}
	}
	pf.free = make([]int32, len(pf.items))
	for i := range pf.free {
		pf.free[i] = int32(len(pf.items) - 1 - i)
	}
}
