package effect

import (
	"math"
	"math/rand"

	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

func init() {
	Register(IDParticleSystem, func() Effect { return &particleSystem{} })
}

// particleSystem is effect id 2: up to particle_limit particles advected by
// a slowly rotating vector field, with bass transients spawning bursts.
// Dead particles are recycled via particleFreeList (spec.md §4.3/§9).
type particleSystem struct {
	w, h    int
	pf      *particleFreeList
	lastLow float64
	elapsed float64
	rng     *rand.Rand
}

// ParticleLimit is the default cap of spec.md §4.3 ("up to particle_limit
// (default 2500) particles").
const ParticleLimit = 2500

func (e *particleSystem) Init(w, h int) {
	e.w, e.h = w, h
	e.pf = newParticleFreeList(ParticleLimit)
	e.rng = rand.New(rand.NewSource(1))
	e.elapsed = 0
}

func (e *particleSystem) Reset() {
	e.pf.reset()
	e.elapsed = 0
}

func (e *particleSystem) Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, mode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64) {
	dst.Clear()
	e.elapsed += dt

	low := lowBandMean(snap)
	if low > e.lastLow+0.1 && low > 0.2 {
		burst := int(10 + low*40)
		for i := 0; i < burst; i++ {
			angle := e.rng.Float64() * 2 * math.Pi
			speed := 5 + low*20
			e.pf.spawn(particle{
				x: float64(e.w) / 2, y: float64(e.h) / 2,
				vx: math.Cos(angle) * speed, vy: math.Sin(angle) * speed,
				life: 1.5 + e.rng.Float64(),
				hue:  e.rng.Float64(),
			})
		}
	}
	e.lastLow = low

	fieldAngle := e.elapsed * 0.3

	e.pf.each(func(idx int, p *particle) {
		fx := math.Cos(fieldAngle+p.y*0.05) * 3
		fy := math.Sin(fieldAngle+p.x*0.05) * 3
		p.vx += fx * dt
		p.vy += fy * dt
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.life -= dt

		if p.life <= 0 || p.x < 0 || p.x >= float64(e.w) || p.y < 0 || p.y >= float64(e.h) {
			e.pf.kill(idx)
			return
		}

		intensity := clamp01(p.life)
		r, g, b := palette.Eval(palette.Params{Mode: mode, Intensity: intensity, X: int(p.x), W: e.w, TimeSeconds: e.elapsed, Custom: custom})
		dst.Set(int(p.x), int(p.y), r, g, b)
	})
}
