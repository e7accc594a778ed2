package effect

import (
	"math"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDHeartbeat, func() Effect { return &heartbeat{} })
}

// heartbeat is effect id 3: a single radial pulse whose amplitude envelope
// tracks a low-pass of the low bands, switching to a two-beat strong-weak
// pattern once overall energy exceeds a threshold (spec.md §4.3 table row 3).
type heartbeat struct {
	w, h       int
	lowLP      float64
	phase      float64
	energyHigh bool
}

const heartbeatEnergyThreshold = 0.35

func (e *heartbeat) Init(w, h int) { e.w, e.h = w, h }

func (e *heartbeat) Reset() {
	e.lowLP = 0
	e.phase = 0
	e.energyHigh = false
}

func (e *heartbeat) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	dst.Clear()

	low := lowBandMean(snap)
	const lpAlpha = 0.15
	e.lowLP += (low - e.lowLP) * lpAlpha

	overall := meanBand(snap)
	e.energyHigh = overall > heartbeatEnergyThreshold

	beatHz := 1.0 + e.lowLP*2
	e.phase += beatHz * dt
	if e.phase > 1 {
		e.phase -= math.Floor(e.phase)
	}

	var envelope float64
	if e.energyHigh {
		// Two-beat strong-weak pattern: two pulses per cycle of unequal
		// amplitude.
		p1 := pulseEnvelope(math.Mod(e.phase*2, 1), 0.2)
		strongWeak := 1.0
		if int(e.phase*2)%2 == 1 {
			strongWeak = 0.55
		}
		envelope = p1 * strongWeak
	} else {
		envelope = pulseEnvelope(e.phase, 0.25)
	}

	radius := envelope * math.Hypot(float64(e.w)/2, float64(e.h)/2)
	cx, cy := float64(e.w)/2, float64(e.h)/2
	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			d := math.Abs(dist - radius)
			if d > 1.5 {
				continue
			}
			intensity := clamp01(envelope * (1 - d/1.5))
			r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: intensity, X: x, W: e.w, Custom: custom})
			dst.Set(x, y, r, g, b)
		}
	}
}

// pulseEnvelope produces a sharp-attack, exponential-decay pulse over one
// phase cycle [0,1), peaking at phase=0 with the given decay width.
func pulseEnvelope(phase, width float64) float64 {
	return math.Exp(-phase / width)
}

func meanBand(snap *spectrum.Snapshot) float64 {
	if len(snap.Bands) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range snap.Bands {
		sum += v
	}
	return sum / float64(len(snap.Bands))
}
