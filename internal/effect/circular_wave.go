package effect

import (
	"math"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDCircularWave, func() Effect { return &circularWave{} })
}

// ring is one emitted concentric wavefront.
type ring struct {
	radius   float64
	velocity float64
	amp      float64
}

// circularWave is effect id 1: concentric rings emitted from center, radial
// velocity/amplitude driven by the low-band mean, decaying with radius
// (spec.md §4.3 table row 1).
type circularWave struct {
	w, h      int
	rings     []ring
	lastLow   float64
	elapsed   float64
}

const lowBandCount = 8 // bands 0..7 cover roughly the bass range at 40Hz-16kHz log spacing

func (e *circularWave) Init(w, h int) {
	e.w, e.h = w, h
	e.rings = nil
	e.elapsed = 0
}

func (e *circularWave) Reset() {
	e.rings = nil
	e.elapsed = 0
}

func (e *circularWave) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	dst.Clear()
	e.elapsed += dt

	low := lowBandMean(snap)

	// Emit a new ring on a rising edge of bass energy.
	if low > e.lastLow+0.08 && low > 0.15 {
		e.rings = append(e.rings, ring{radius: 0, velocity: 10 + low*40, amp: low})
	}
	e.lastLow = low

	maxRadius := math.Hypot(float64(e.w)/2, float64(e.h)/2)
	live := e.rings[:0]
	for i := range e.rings {
		r := &e.rings[i]
		r.radius += r.velocity * dt
		if r.radius > maxRadius {
			continue
		}
		live = append(live, *r)
	}
	e.rings = live

	cx, cy := float64(e.w)/2, float64(e.h)/2
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			intensity := 0.0
			for _, r := range e.rings {
				d := math.Abs(dist - r.radius)
				if d < 1.5 {
					decay := 1.0 - r.radius/maxRadius
					v := r.amp * decay * (1.0 - d/1.5)
					if v > intensity {
						intensity = v
					}
				}
			}
			if intensity <= 0 {
				continue
			}
			rr, gg, bb := palette.Eval(palette.Params{Mode: mode, Intensity: clamp01(intensity), X: x, W: e.w, TimeSeconds: e.elapsed, Custom: custom})
			dst.Set(x, y, rr, gg, bb)
		}
	}
}

func lowBandMean(snap *spectrum.Snapshot) float64 {
	n := lowBandCount
	if n > len(snap.Bands) {
		n = len(snap.Bands)
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += snap.Bands[i]
	}
	return sum / float64(n)
}
