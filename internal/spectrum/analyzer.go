// Package spectrum implements the Spectrum Analyzer component of spec.md
// §4.2: FFT-based extraction of a fixed 64-band perceptual spectrum from
// raw capture windows, with gain, perceptual band-weight tilt, noise-floor
// subtraction, slow-peak normalization, and exponential temporal smoothing.
// Grounded in the teacher's audio_visualizer_linux.go updateSpectrum/
// mapFrequenciesLogarithmic pipeline (Hann window -> FFT -> magnitude ->
// normalize -> log-spaced band mapping -> smoothing), restructured from a
// widget's per-frame render state into a standalone analyzer that publishes
// snapshots through a pixel.Swap-style slot instead of owning a renderer.
package spectrum

import (
	"math"
	"math/cmplx"
	"sync"
	"time"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/ledviz/core/internal/apperr"
	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pixel"
)

// NumBands is the fixed band count of spec.md §3.
const NumBands = 64

const (
	minFreqHz = 40.0
	maxFreqHz = 16000.0
)

// Snapshot is one published spectrum frame: NumBands magnitudes in [0,1]
// plus the tick it was computed at, matching spec.md §3's data model.
type Snapshot struct {
	Bands []float64
	Tick  uint64
}

func newSnapshot() *Snapshot {
	return &Snapshot{Bands: make([]float64, NumBands)}
}

// Analyzer consumes windows from an audio.Ring, computes a 64-band
// spectrum per window, and publishes the latest Snapshot for lock-free
// concurrent reads by the Effect Engine and Control Plane.
type Analyzer struct {
	mu      sync.Mutex
	gain    float64
	smooth  float64 // smoothing_factor in [0,1]; alpha = 1-smooth
	weights config.BandWeights
	noiseFloor float64
	peakAttack float64
	peakRelease float64

	peak     []float64 // slow-moving per-band peak for normalization
	smoothed []float64 // previous tick's smoothed output, for decay-on-timeout

	// latest is the single-writer (analyzerLoop)/multi-reader (Effect Engine,
	// Control Plane) "latest snapshot" slot, published via one atomic pointer
	// swap per Process/Decay call instead of a mutex. Each call allocates a
	// fresh Snapshot rather than reusing preallocated buffers, so a snapshot
	// a reader holds is never overwritten.
	latest pixel.Swap[Snapshot]
	tick   uint64

	fftInput []complex128
	hann     []float64
	freqPerBin float64

	binScratch []float64 // reused per-band squared-magnitude scratch for gonum.stat.Mean
}

// NewAnalyzer builds an Analyzer from the given config.
func NewAnalyzer(cfg config.AnalyzerConfig) *Analyzer {
	a := &Analyzer{
		gain:        cfg.Gain,
		smooth:      cfg.Smoothing,
		weights:     cfg.BandWeights,
		noiseFloor:  cfg.NoiseFloor,
		peakAttack:  cfg.PeakAttack,
		peakRelease: cfg.PeakRelease,
		peak:        make([]float64, NumBands),
		smoothed:    make([]float64, NumBands),
		fftInput:    make([]complex128, audio.WindowSize),
		hann:        make([]float64, audio.WindowSize),
		freqPerBin:  float64(audio.SampleRate) / float64(audio.WindowSize),
		binScratch:  make([]float64, audio.WindowSize/2),
	}
	for i := range a.peak {
		a.peak[i] = 0.01
	}
	for i := range a.hann {
		a.hann[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(audio.WindowSize-1)))
	}
	a.latest.Store(newSnapshot())
	return a
}

// SetGain updates the analyzer's linear input gain (set_gain operation).
func (a *Analyzer) SetGain(g float64) error {
	if g < 0.1 || g > 5.0 {
		return apperr.New(apperr.InvalidParameter, "spectrum.SetGain", nil)
	}
	a.mu.Lock()
	a.gain = g
	a.mu.Unlock()
	return nil
}

// SetSmoothing updates the exponential-smoothing factor (set_smoothing).
func (a *Analyzer) SetSmoothing(s float64) error {
	if s < 0 || s > 1 {
		return apperr.New(apperr.InvalidParameter, "spectrum.SetSmoothing", nil)
	}
	a.mu.Lock()
	a.smooth = s
	a.mu.Unlock()
	return nil
}

// SetBandWeights updates the bass/mid/high perceptual tilt multipliers
// (set_band_weights).
func (a *Analyzer) SetBandWeights(w config.BandWeights) {
	a.mu.Lock()
	a.weights = w
	a.mu.Unlock()
}

// Process computes one Snapshot from a raw window and publishes it as the
// new latest snapshot, returning it for direct use by a caller that does
// not want to wait on Latest().
func (a *Analyzer) Process(win *audio.Window) *Snapshot {
	a.mu.Lock()
	gain, smooth, weights := a.gain, a.smooth, a.weights
	noiseFloor, attack, release := a.noiseFloor, a.peakAttack, a.peakRelease
	a.mu.Unlock()

	for i, s := range win.Data {
		a.fftInput[i] = complex(float64(s)*gain*a.hann[i], 0)
	}
	out := fft.FFT(a.fftInput)

	half := audio.WindowSize / 2
	mags := make([]float64, half)
	for i := 0; i < half; i++ {
		mags[i] = cmplx.Abs(out[i]) / float64(audio.WindowSize)
	}
	mags[0] = 0

	snap := newSnapshot()
	for b := 0; b < NumBands; b++ {
		ratio0 := float64(b) / float64(NumBands)
		ratio1 := float64(b+1) / float64(NumBands)
		freqStart := minFreqHz * math.Pow(maxFreqHz/minFreqHz, ratio0)
		freqEnd := minFreqHz * math.Pow(maxFreqHz/minFreqHz, ratio1)

		binStart := clampBin(int(freqStart/a.freqPerBin), half)
		binEnd := clampBin(int(freqEnd/a.freqPerBin), half)
		if binEnd < binStart {
			binEnd = binStart
		}

		count := binEnd - binStart + 1
		scratch := a.binScratch[:count]
		for j := 0; j < count; j++ {
			m := mags[binStart+j]
			scratch[j] = m * m
		}
		rms := 0.0
		if count > 0 {
			rms = math.Sqrt(stat.Mean(scratch, nil))
		}

		rms *= bandTilt(freqStart, freqEnd, weights)

		rms -= noiseFloor
		if rms < 0 {
			rms = 0
		}

		if rms > a.peak[b] {
			a.peak[b] += (rms - a.peak[b]) * attack
		} else {
			a.peak[b] -= a.peak[b] * release
		}
		if a.peak[b] < 0.0001 {
			a.peak[b] = 0.0001
		}

		normalized := rms / a.peak[b]
		if normalized > 1 {
			normalized = 1
		}

		alpha := 1 - smooth
		a.smoothed[b] = alpha*normalized + (1-alpha)*a.smoothed[b]
		snap.Bands[b] = a.smoothed[b]
	}

	a.tick++
	snap.Tick = a.tick
	a.latest.Store(snap)
	return snap
}

// Latest returns the most recently published snapshot (never nil).
func (a *Analyzer) Latest() *Snapshot {
	return a.latest.Load()
}

// Decay produces a snapshot equal to the last one decayed toward zero,
// used when the 4ms window wait of spec.md §4.2 times out: "re-emit the
// last spectrum decayed toward zero" rather than stalling downstream
// consumers.
func (a *Analyzer) Decay(decayPerTick float64) *Snapshot {
	snap := newSnapshot()
	for i, v := range a.smoothed {
		a.smoothed[i] = v * (1 - decayPerTick)
		snap.Bands[i] = a.smoothed[i]
	}
	a.tick++
	snap.Tick = a.tick
	a.latest.Store(snap)
	return snap
}

// bandTilt returns the perceptual multiplier for a band spanning
// [freqStart,freqEnd), matching spec.md §4.2's bass<250Hz / mid 250-4000Hz
// / high>4000Hz tilt table. Bands straddling a boundary use the midpoint.
func bandTilt(freqStart, freqEnd float64, w config.BandWeights) float64 {
	mid := (freqStart + freqEnd) / 2
	switch {
	case mid < 250:
		return w.Bass
	case mid < 4000:
		return w.Mid
	default:
		return w.High
	}
}

func clampBin(b, half int) int {
	if b < 0 {
		return 0
	}
	if b >= half {
		return half - 1
	}
	return b
}

// RunTimeout is the blocking-wait-with-timeout duration of spec.md §4.2.
const RunTimeout = 4 * time.Millisecond
