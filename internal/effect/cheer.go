package effect

import (
	"math/rand"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDCheer, func() Effect { return &cheer{} })
}

type spark struct {
	x, y float64
	life float64
}

// cheer is effect id 7: horizontal bar chart mirrored from the bottom, with
// spark bursts on transients detected by a frame-to-frame magnitude
// increase above a threshold (spec.md §4.3 table row 7).
type cheer struct {
	w, h     int
	prevMags []float64
	sparks   []spark
	rng      *rand.Rand
}

const cheerTransientThreshold = 0.15

func (e *cheer) Init(w, h int) {
	e.w, e.h = w, h
	e.prevMags = make([]float64, NumBandsFor(w))
	e.rng = rand.New(rand.NewSource(5))
}

// NumBandsFor returns the usable band count for an effect's horizontal
// resolution (one column per band, capped by matrix width).
func NumBandsFor(w int) int {
	const spectrumBands = 64
	if w < spectrumBands {
		return w
	}
	return spectrumBands
}

func (e *cheer) Reset() {
	for i := range e.prevMags {
		e.prevMags[i] = 0
	}
	e.sparks = nil
}

func (e *cheer) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	dst.Clear()

	n := len(e.prevMags)
	if n > len(snap.Bands) {
		n = len(snap.Bands)
	}

	for col := 0; col < e.w; col++ {
		bandIdx := col * n / e.w
		if bandIdx >= n {
			continue
		}
		mag := clamp01(snap.Bands[bandIdx])
		filled := int(mag * float64(e.h))
		for y := 0; y < filled; y++ {
			row := e.h - 1 - y
			r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: mag, X: col, W: e.w, Custom: custom})
			dst.Set(col, row, r, g, b)
		}

		if mag-e.prevMags[bandIdx] > cheerTransientThreshold {
			for i := 0; i < 3; i++ {
				e.sparks = append(e.sparks, spark{x: float64(col), y: float64(e.h - 1 - filled), life: 0.4})
			}
		}
	}
	copy(e.prevMags, snap.Bands[:n])

	live := e.sparks[:0]
	for i := range e.sparks {
		s := &e.sparks[i]
		s.y -= 20 * dt
		s.life -= dt
		if s.life <= 0 || s.y < 0 {
			continue
		}
		r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: clamp01(s.life / 0.4), X: int(s.x), W: e.w, Custom: custom})
		dst.Set(int(s.x), int(s.y), r, g, b)
		live = append(live, *s)
	}
	e.sparks = live
}
