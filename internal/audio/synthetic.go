package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Synthetic is the deterministic test-mode Source of spec.md §4.1's
// push_test_signal/"synthetic source" operation: instead of opening a real
// device it generates a sum of sine tones at a fixed sample rate and feeds
// them through the same Pool/Ring path a real backend would use, so the
// Spectrum Analyzer and everything downstream can be exercised without
// hardware. Grounded in the teacher's GetSharedAudioCaptureLinux test-mode
// fallback (audio_capture_linux.go), reworked into a pure generator.
type Synthetic struct {
	pool   *Pool
	ring   *Ring
	framer *Framer

	mu        sync.Mutex
	tones     []Tone
	capturing atomic.Bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
	phase     float64
}

// Tone is one sine component of the synthetic signal: frequency in Hz and
// linear amplitude in [0,1].
type Tone struct {
	FreqHz float64
	Amp    float64
}

// NewSynthetic builds a synthetic source with an initial tone set (e.g. a
// single 440Hz tone for the spec's canonical test scenario).
func NewSynthetic(poolCapacity int, tones ...Tone) *Synthetic {
	pool := NewPool(poolCapacity)
	ring := NewRing()
	return &Synthetic{
		pool:   pool,
		ring:   ring,
		framer: NewFramer(pool, ring),
		tones:  append([]Tone(nil), tones...),
	}
}

// SetTones atomically replaces the generated signal's tone set, backing
// push_test_signal.
func (s *Synthetic) SetTones(tones []Tone) {
	s.mu.Lock()
	s.tones = append([]Tone(nil), tones...)
	s.mu.Unlock()
}

func (s *Synthetic) EnumerateDevices() ([]string, error) {
	return []string{"synthetic"}, nil
}

// Open starts the generator goroutine. device is ignored; Synthetic has
// exactly one virtual device.
func (s *Synthetic) Open(device string) error {
	if s.capturing.Load() {
		return nil
	}
	s.framer.Reset()
	s.stopChan = make(chan struct{})
	s.capturing.Store(true)
	s.wg.Add(1)
	go s.generateLoop()
	return nil
}

func (s *Synthetic) Close() error {
	if !s.capturing.Load() {
		return nil
	}
	close(s.stopChan)
	s.wg.Wait()
	s.capturing.Store(false)
	return nil
}

func (s *Synthetic) IsCapturing() bool { return s.capturing.Load() }

func (s *Synthetic) DroppedCount() uint64 { return s.ring.DroppedCount() }

func (s *Synthetic) Ring() *Ring { return s.ring }

// generateLoop feeds the shared Framer one hop's worth of samples at a time
// at the real-time rate a live capture device would produce them (HopSize
// samples / SampleRate), so Synthetic produces the same 50%-overlapping
// windows a platform backend does.
func (s *Synthetic) generateLoop() {
	defer s.wg.Done()
	period := time.Duration(float64(HopSize) / float64(SampleRate) * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.fillHop()
		}
	}
}

func (s *Synthetic) fillHop() {
	s.mu.Lock()
	tones := s.tones
	s.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := 0; i < HopSize; i++ {
		t := s.phase + float64(i)*dt
		var v float64
		for _, tone := range tones {
			v += tone.Amp * math.Sin(2*math.Pi*tone.FreqHz*t)
		}
		s.framer.PushSample(float32(v))
	}
	s.phase += float64(HopSize) * dt
}
