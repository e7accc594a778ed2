package audio

import "sync/atomic"

// WindowSize is N_FFT from spec.md §3: the fixed analysis window length.
const WindowSize = 2048

// Window is one fixed-length mono analysis window, preallocated and reused.
type Window struct {
	Data [WindowSize]float32
}

// Pool is a fixed-capacity set of preallocated Windows with a lock-free
// free-list of indices — the "preallocated pool" spec.md §4.1 requires the
// capture callback to draw from, extending the particle free-list idiom of
// spec.md §9 (itself grounded in the teacher's index-based ring buffer,
// internal/widget/ringbuffer.go) to analysis-window buffers instead of
// particles. Get/Put are a lock-free Treiber stack over indices: no
// allocation, no mutex, safe to call from the real-time capture callback.
type Pool struct {
	windows []Window
	next    []int32
	top     atomic.Int32
}

// NewPool preallocates capacity Windows and their free-list.
func NewPool(capacity int) *Pool {
	p := &Pool{
		windows: make([]Window, capacity),
		next:    make([]int32, capacity),
	}
	for i := 0; i < capacity; i++ {
		if i == capacity-1 {
			p.next[i] = -1
		} else {
			p.next[i] = int32(i + 1)
		}
	}
	p.top.Store(0)
	return p
}

// Get pops a free Window off the free-list, returning its pool index for a
// later Put. Returns (nil, -1) if the pool is exhausted.
func (p *Pool) Get() (*Window, int32) {
	for {
		head := p.top.Load()
		if head == -1 {
			return nil, -1
		}
		nextFree := p.next[head]
		if p.top.CompareAndSwap(head, nextFree) {
			return &p.windows[head], head
		}
	}
}

// Put returns a Window (by pool index) to the free-list.
func (p *Pool) Put(idx int32) {
	if idx < 0 {
		return
	}
	for {
		head := p.top.Load()
		p.next[idx] = head
		if p.top.CompareAndSwap(head, idx) {
			return
		}
	}
}
