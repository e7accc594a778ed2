// Package effect implements the Effect Engine component of spec.md §4.3:
// a closed set of procedural effects rendering onto a pixel matrix from a
// spectrum snapshot, composed through a cross-fade state machine when the
// active effect is switched. Grounded in the teacher's widget registry
// (internal/widget/factory.go's Register/CreateWidget tag-dispatch) for the
// effect registry, and internal/shared/anim/transition.go's
// TransitionManager for the cross-fade state machine, simplified from
// wall-clock image-wipe transitions to a render-tick-driven linear blend.
package effect

import (
	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

// Effect is the closed sum-of-variants contract spec.md §4.3 names: init,
// per-tick render, and reset (called by Engine.Reset on the active and
// pending effects).
type Effect interface {
	// Init (re)configures the effect for a W×H matrix.
	Init(w, h int)

	// Tick renders one frame into dst given the current spectrum, color
	// mode parameters, render tick index, and delta-time in seconds.
	Tick(dst *pixel.Matrix, snap *spectrum.Snapshot, colorMode palette.Mode, custom palette.CustomColor, tickIndex uint64, dt float64)

	// Reset clears any internal state (particle lists, phase accumulators).
	Reset()
}

// Factory constructs a fresh Effect instance.
type Factory func() Effect

// Fixed effect ids, spec.md §3's closed set.
const (
	IDSpectrumBars   = 0
	IDCircularWave   = 1
	IDParticleSystem = 2
	IDHeartbeat      = 3
	IDStarfall       = 4
	IDRain           = 5
	IDFlames         = 6
	IDCheer          = 7
)

var registry = make(map[int]Factory)

// Register adds an effect factory under a fixed id. Called from each
// effect file's init(), mirroring the teacher's widget self-registration
// idiom.
func Register(id int, f Factory) {
	registry[id] = f
}

// Create instantiates the effect registered under id, or (nil,false) if
// id is not in the closed set — the InvalidEffect condition of spec.md §7.
func Create(id int) (Effect, bool) {
	f, ok := registry[id]
	if !ok {
		return nil, false
	}
	return f(), true
}

// RegisteredIDs returns every registered effect id, ascending.
func RegisteredIDs() []int {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}
