package effect

import (
	"sync"

	"github.com/ledviz/core/internal/apperr"
	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

// DefaultCrossfadeTicksAt60FPS is the 500ms default blend duration of spec.md §9,
// expressed in render ticks at 60fps (the engine blends over render ticks,
// not wall-clock time, per the REDESIGN FLAGS determinism requirement).
const DefaultCrossfadeTicksAt60FPS = 30

// Engine owns the active effect, an optional pending effect mid-cross-fade,
// and composes their output via pixel.Blend. Mirrors the shape of the
// teacher's TransitionManager (active+old state, a progress counter, Start/
// Update/Apply) but drives progress from render-tick counts instead of
// time.Since, and blends two *rendered effect outputs* rather than wiping
// between two static frames.
type Engine struct {
	// mu guards every field below. SetEffect/SetColorMode/SetBrightness run
	// on the Control Plane's per-connection goroutine while Tick runs on the
	// render thread (spec.md §5); the Analyzer guards the same kind of
	// cross-thread hand-off with a mutex, so the Engine does too.
	mu sync.Mutex

	w, h int

	activeID int
	active   Effect

	pendingID     int
	pending       Effect
	pendingActive bool
	blendTicks    int
	blendElapsed  int

	colorMode   palette.Mode
	customColor palette.CustomColor
	brightness  float64

	activeBuf  *pixel.Matrix
	pendingBuf *pixel.Matrix
	outBuf     *pixel.Matrix
}

// NewEngine constructs an Engine for a W×H matrix with SpectrumBars active
// and full brightness, matching config.CreateDefault's effect defaults.
func NewEngine(w, h int) *Engine {
	e := &Engine{
		w: w, h: h,
		colorMode:  palette.Rainbow,
		brightness: 1.0,
		activeBuf:  pixel.New(w, h),
		pendingBuf: pixel.New(w, h),
		outBuf:     pixel.New(w, h),
	}
	eff, _ := Create(IDSpectrumBars)
	eff.Init(w, h)
	e.activeID = IDSpectrumBars
	e.active = eff
	return e
}

// SetEffect begins a cross-fade to the given effect id, or retargets an
// in-progress cross-fade if one is already active (spec.md §9: "If a second
// switch arrives mid-fade... cancel the in-progress blend and begin a new
// one from the current blended frame"). blendTicks is the render-tick
// duration of the new blend (0 disables cross-fading and switches
// immediately).
func (e *Engine) SetEffect(id int, blendTicks int) error {
	factory, ok := registry[id]
	if !ok {
		return apperr.New(apperr.InvalidEffect, "effect.SetEffect", nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if id == e.activeID && !e.pendingActive {
		return nil
	}

	if blendTicks <= 0 {
		eff := factory()
		eff.Init(e.w, e.h)
		e.active = eff
		e.activeID = id
		e.pendingActive = false
		return nil
	}

	if e.pendingActive {
		// Re-target: the current blended frame becomes the new "active"
		// starting point, cancelling the old pending effect.
		e.activeBuf.CopyFrom(e.outBuf)
	}

	eff := factory()
	eff.Init(e.w, e.h)
	e.pending = eff
	e.pendingID = id
	e.pendingActive = true
	e.blendTicks = blendTicks
	e.blendElapsed = 0
	return nil
}

// SetColorMode updates the palette mode applied to all effect output.
// Active and pending effects keep running unchanged per spec.md §4.3 step
// 2's "changing color mode does not change the underlying effect logic" —
// only the color each effect renders through shifts.
func (e *Engine) SetColorMode(mode palette.Mode, custom palette.CustomColor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.colorMode = mode
	e.customColor = custom
}

// SetBrightness updates the post-blend brightness multiplier. Values outside
// [0,1] are rejected with InvalidParameter.
func (e *Engine) SetBrightness(b float64) error {
	if b < 0 || b > 1 {
		return apperr.New(apperr.InvalidParameter, "effect.SetBrightness", nil)
	}
	e.mu.Lock()
	e.brightness = b
	e.mu.Unlock()
	return nil
}

// ActiveID returns the currently active (or mid-blend target) effect id.
func (e *Engine) ActiveID() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingActive {
		return e.pendingID
	}
	return e.activeID
}

// Tick renders one frame: the active effect (and pending effect, if a
// cross-fade is underway) into their own buffers, blends by progress, then
// applies brightness, returning the final matrix (owned by the Engine; the
// caller must not retain it past the next Tick).
func (e *Engine) Tick(snap *spectrum.Snapshot, tickIndex uint64, dt float64) *pixel.Matrix {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.active.Tick(e.activeBuf, snap, e.colorMode, e.customColor, tickIndex, dt)

	blended := e.activeBuf
	if e.pendingActive {
		e.pending.Tick(e.pendingBuf, snap, e.colorMode, e.customColor, tickIndex, dt)
		e.blendElapsed++
		progress := float64(e.blendElapsed) / float64(e.blendTicks)
		if progress >= 1 {
			progress = 1
		}
		pixel.Blend(e.outBuf, e.activeBuf, e.pendingBuf, progress)
		blended = e.outBuf

		if progress >= 1 {
			e.active = e.pending
			e.activeID = e.pendingID
			e.pending = nil
			e.pendingActive = false
		}
	}

	pixel.ScaleBrightness(e.outBuf, blended, e.brightness)
	return e.outBuf
}

// Reset clears the active (and pending, if any) effect's internal state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active.Reset()
	if e.pending != nil {
		e.pending.Reset()
	}
}
