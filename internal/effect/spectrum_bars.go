package effect

import (
	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDSpectrumBars, func() Effect { return &spectrumBars{} })
}

// spectrumBars is effect id 0: 64 vertical columns, one per band, filled
// height proportional to magnitude, column color from the palette at that
// band's index (spec.md §4.3 table row 0).
type spectrumBars struct {
	w, h int
}

func (e *spectrumBars) Init(w, h int) { e.w, e.h = w, h }

func (e *spectrumBars) Reset() {}

func (e *spectrumBars) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	dst.Clear()
	n := len(snap.Bands)
	if n == 0 {
		return
	}
	for x := 0; x < e.w; x++ {
		bandIdx := x * n / e.w
		mag := clamp01(snap.Bands[bandIdx])
		filled := int(mag * float64(e.h))
		for y := 0; y < filled; y++ {
			row := e.h - 1 - y
			r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: mag, X: x, W: e.w, TimeSeconds: float64(tickIndex) * dt, Custom: custom})
			dst.Set(x, row, r, g, b)
		}
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
