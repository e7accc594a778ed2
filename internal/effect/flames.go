package effect

import (
	"math/rand"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDFlames, func() Effect { return &flames{} })
}

// flames is effect id 6: bottom-up heat diffusion grid, new heat injected
// proportional to bass energy, palette forced to Fire regardless of the
// global color_mode — the one documented exception in spec.md §4.3 table
// row 6 ("palette forced to Fire regardless of global color_mode").
type flames struct {
	w, h int
	heat []float64 // w*h grid, row-major, bottom row is index (h-1)*w
	next []float64 // scratch buffer for the diffusion pass, reused every tick
	rng  *rand.Rand
}

func (e *flames) Init(w, h int) {
	e.w, e.h = w, h
	e.heat = make([]float64, w*h)
	e.next = make([]float64, w*h)
	e.rng = rand.New(rand.NewSource(4))
}

func (e *flames) Reset() {
	for i := range e.heat {
		e.heat[i] = 0
	}
}

func (e *flames) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	bass := lowBandMean(snap)

	// Inject heat along the bottom row proportional to bass energy. Bottom
	// cells not injected this tick are cleared, so with no bass the bottom
	// row goes dark and the rows above cool away via the pass below.
	bottom := (e.h - 1) * e.w
	for x := 0; x < e.w; x++ {
		if bass > 0 && e.rng.Float64() < bass {
			e.heat[bottom+x] = clamp01(bass*1.5 + e.rng.Float64()*0.2)
		} else {
			e.heat[bottom+x] = 0
		}
	}

	// Diffuse upward: each cell above the bottom row averages the (up to)
	// three cells below it, then cools slightly.
	copy(e.next[bottom:], e.heat[bottom:])
	for y := 0; y < e.h-1; y++ {
		for x := 0; x < e.w; x++ {
			below := (y+1)*e.w + x
			belowL := below - 1
			belowR := below + 1
			sum := e.heat[below]
			count := 1.0
			if x > 0 {
				sum += e.heat[belowL]
				count++
			}
			if x < e.w-1 {
				sum += e.heat[belowR]
				count++
			}
			avg := sum / count
			cooled := avg * 0.97
			e.next[y*e.w+x] = cooled
		}
	}
	e.heat, e.next = e.next, e.heat

	for y := 0; y < e.h; y++ {
		for x := 0; x < e.w; x++ {
			h := clamp01(e.heat[y*e.w+x])
			r, g, b := palette.Eval(palette.Params{Mode: palette.Fire, Intensity: h, X: x, W: e.w, Custom: custom})
			dst.Set(x, y, r, g, b)
		}
	}
}
