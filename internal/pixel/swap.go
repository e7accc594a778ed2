package pixel

import "sync/atomic"

// Swap is a single-writer/multi-reader "latest value" slot implemented as
// an atomic pointer swap over a value of type T, matching the
// double-buffer discipline mandated by spec.md §5 and §9 ("Shared ownership
// of spectra and frames... use two preallocated buffers per slot with an
// atomic index. Writer fills the inactive buffer then flips the index").
//
// This is one of the repository's constructs built on the standard
// library instead of a teacher/pack dependency (audio.Pool and audio.Ring
// are the others): the teacher protects its
// equivalent "latest frame" state with plain mutexes everywhere
// (compositor.bufferMu, AudioCaptureLinux.mu), and no lock-free
// single-writer/multi-reader slot library appears anywhere in the example
// pack. atomic.Pointer[T] is the idiomatic stdlib answer to exactly this
// shape and is preferred here over introducing a third-party atomics
// package purely to avoid touching "sync/atomic".
type Swap[T any] struct {
	p atomic.Pointer[T]
}

// NewSwap creates a Swap pre-loaded with initial.
func NewSwap[T any](initial *T) *Swap[T] {
	s := &Swap[T]{}
	s.p.Store(initial)
	return s
}

// Store publishes v as the new latest value. The caller must not mutate v
// after calling Store; v should be a buffer the writer no longer touches
// (the "inactive buffer" of the double-buffer discipline).
func (s *Swap[T]) Store(v *T) {
	s.p.Store(v)
}

// Load returns the most recently published value. Safe to call
// concurrently with Store from any number of goroutines; readers always see
// a fully-formed T, never a partial write, because the publication is a
// single pointer swap.
func (s *Swap[T]) Load() *T {
	return s.p.Load()
}
