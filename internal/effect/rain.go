package effect

import (
	"math/rand"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDRain, func() Effect { return &rain{} })
}

type streak struct {
	x, y   float64
	length float64
}

// rain is effect id 5: vertical streaks whose density and brightness scale
// with overall energy (spec.md §4.3 table row 5).
type rain struct {
	w, h     int
	streaks  []streak
	rng      *rand.Rand
	spawnAcc float64
}

const rainMaxStreaks = 300

func (e *rain) Init(w, h int) {
	e.w, e.h = w, h
	e.streaks = nil
	e.rng = rand.New(rand.NewSource(3))
}

func (e *rain) Reset() {
	e.streaks = nil
}

func (e *rain) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	dst.Clear()

	energy := meanBand(snap)

	e.spawnAcc += (5 + energy*80) * dt
	for e.spawnAcc >= 1 && len(e.streaks) < rainMaxStreaks {
		e.spawnAcc--
		e.streaks = append(e.streaks, streak{
			x:      e.rng.Float64() * float64(e.w),
			y:      0,
			length: 3 + energy*6,
		})
	}

	speed := 30 + energy*60
	live := e.streaks[:0]
	for i := range e.streaks {
		s := &e.streaks[i]
		s.y += speed * dt
		if s.y-s.length >= float64(e.h) {
			continue
		}
		live = append(live, *s)
	}
	e.streaks = live

	intensity := clamp01(0.3 + energy*0.7)
	for _, s := range e.streaks {
		for i := 0; i < int(s.length); i++ {
			y := int(s.y) - i
			if y < 0 || y >= e.h {
				continue
			}
			fall := 1.0 - float64(i)/s.length
			r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: intensity * fall, X: int(s.x), W: e.w, Custom: custom})
			dst.Set(int(s.x), y, r, g, b)
		}
	}
}
