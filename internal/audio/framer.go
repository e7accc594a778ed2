package audio

// Framer turns a stream of mono float32 samples into 50%-overlapping
// analysis windows, matching spec.md §3's "windows overlap by 50%...
// produced by the audio source" data model: every backend (LinuxCapture,
// WindowsCapture, Synthetic) downmixes its own raw format to mono samples
// and feeds them one at a time to a shared Framer, so the overlap/hop
// bookkeeping is written once instead of once per platform file.
//
// It keeps a WindowSize-length circular history buffer; once filled, every
// HopSize further samples it draws a fresh Window (oldest-to-newest order)
// from the Pool and pushes it to the Ring, exactly the "most recent N_FFT
// samples" framing spec.md §4.1 describes.
type Framer struct {
	pool *Pool
	ring *Ring

	history  []float32
	writePos int
	filled   int
	sinceHop int
}

// HopSize is the 50%-overlap hop length of spec.md §3/§4.1.
const HopSize = WindowSize / 2

// NewFramer builds a Framer drawing windows from pool and publishing into
// ring.
func NewFramer(pool *Pool, ring *Ring) *Framer {
	return &Framer{
		pool:    pool,
		ring:    ring,
		history: make([]float32, WindowSize),
	}
}

// PushSample appends one mono sample to the framer's history and, once a
// full hop has accumulated since the last emitted window, builds and
// enqueues the next overlapping window.
func (f *Framer) PushSample(s float32) {
	f.history[f.writePos] = s
	f.writePos = (f.writePos + 1) % WindowSize
	if f.filled < WindowSize {
		f.filled++
	}
	f.sinceHop++

	if f.filled < WindowSize || f.sinceHop < HopSize {
		return
	}
	f.sinceHop = 0

	win, idx := f.pool.Get()
	if win == nil {
		return
	}
	// f.writePos is the index of the oldest sample (the next slot to be
	// overwritten), so reading WindowSize samples starting there yields
	// the history oldest-to-newest.
	for i := 0; i < WindowSize; i++ {
		win.Data[i] = f.history[(f.writePos+i)%WindowSize]
	}
	if evicted, did := f.ring.Push(Frame{Win: win, Idx: idx}); did {
		f.pool.Put(evicted.Idx)
	}
}

// Reset clears the framer's accumulated history, used when a capture
// backend reopens after Close.
func (f *Framer) Reset() {
	for i := range f.history {
		f.history[i] = 0
	}
	f.writePos = 0
	f.filled = 0
	f.sinceHop = 0
}
