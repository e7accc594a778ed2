package effect

import (
	"math/rand"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDStarfall, func() Effect { return &starfall{} })
}

type star struct {
	x, y float64
	vy   float64
}

// starfall is effect id 4: random stars at top falling with velocity
// modulated by mid-band energy, trails rendered by fading the prior frame
// (spec.md §4.3 table row 4).
type starfall struct {
	w, h    int
	stars   []star
	rng     *rand.Rand
	spawnAcc float64
}

const starfallMaxStars = 200
const starfallTrailDecay = 0.85

func (e *starfall) Init(w, h int) {
	e.w, e.h = w, h
	e.stars = nil
	e.rng = rand.New(rand.NewSource(2))
}

func (e *starfall) Reset() {
	e.stars = nil
}

func (e *starfall) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	// Fade the previous frame instead of clearing, to leave trails.
	pixel.ScaleBrightness(dst, dst, starfallTrailDecay)

	mid := midBandMean(snap)

	e.spawnAcc += (1 + mid*20) * dt
	for e.spawnAcc >= 1 && len(e.stars) < starfallMaxStars {
		e.spawnAcc--
		e.stars = append(e.stars, star{
			x:  e.rng.Float64() * float64(e.w),
			y:  0,
			vy: 10 + mid*60 + e.rng.Float64()*10,
		})
	}

	live := e.stars[:0]
	for i := range e.stars {
		s := &e.stars[i]
		s.y += s.vy * dt
		if s.y >= float64(e.h) {
			continue
		}
		live = append(live, *s)
	}
	e.stars = live

	for _, s := range e.stars {
		intensity := clamp01(0.6 + mid)
		r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: intensity, X: int(s.x), W: e.w, Custom: custom})
		dst.Set(int(s.x), int(s.y), r, g, b)
	}
}

func midBandMean(snap *spectrum.Snapshot) float64 {
	n := len(snap.Bands)
	if n == 0 {
		return 0
	}
	lo, hi := n/6, n/2
	if hi <= lo {
		return 0
	}
	sum := 0.0
	for i := lo; i < hi; i++ {
		sum += snap.Bands[i]
	}
	return sum / float64(hi-lo)
}
