package artnet

import (
	"math"

	"github.com/ledviz/core/internal/apperr"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pixel"
)

// Mode selects whether the Dispatcher actually transmits UDP (Production)
// or only publishes frames for the Control Plane to observe (Simulator),
// per spec.md §4.4's start(mode) operation. This is the straight-swap
// analogue of the teacher's Driver interface, which itself only ever has
// one real implementation (HIDDriver) — Simulator mode is this repository's
// second implementation, exercising the same interface without hardware.
type Mode int

const (
	Production Mode = iota
	Simulator
)

// Dispatcher is the LED Output component's interface, grounded in the
// teacher's internal/driver.Driver (Open/Close/SendFrame/IsConnected) and
// internal/gamesense.API (fire-and-forget send, per-call non-fatal error).
type Dispatcher interface {
	Start(mode Mode) error
	Stop() error
	SendFrame(frame *pixel.Matrix) error
	TestConnectivity() map[string]bool
	ClearDisplay() error
	Stats() DispatchStats
}

// DispatchStats mirrors the `stats` event payload of spec.md §6.
type DispatchStats struct {
	FPS            float64
	DroppedWindows uint64
	LateFrames     uint64
	Controllers    []ControllerStatus
}

// ControllerStatus is one entry of the stats event's controllers array.
type ControllerStatus struct {
	ID string
	OK bool
}

// UDPDispatcher is the real Dispatcher: one Controller per configured
// ArtNet receiver, each independently dialed and sent to.
type UDPDispatcher struct {
	controllers []*Controller
	mode        Mode
	running     bool
	lateFrames  uint64
}

// NewUDPDispatcher builds a Dispatcher from the validated controller list.
// Returns NoControllersConfigured if the list is empty, per spec.md §4.4.
func NewUDPDispatcher(cfgs []config.ControllerConfig) (*UDPDispatcher, error) {
	if len(cfgs) == 0 {
		return nil, apperr.New(apperr.NoControllersConfigured, "artnet.NewUDPDispatcher", nil)
	}
	d := &UDPDispatcher{}
	for _, cfg := range cfgs {
		d.controllers = append(d.controllers, NewController(cfg))
	}
	return d, nil
}

func (d *UDPDispatcher) Start(mode Mode) error {
	d.mode = mode
	if mode == Simulator {
		d.running = true
		return nil
	}
	for _, c := range d.controllers {
		if err := c.Open(); err != nil {
			return err
		}
	}
	d.running = true
	return nil
}

func (d *UDPDispatcher) Stop() error {
	d.running = false
	if d.mode == Simulator {
		return nil
	}
	for _, c := range d.controllers {
		_ = c.Close()
	}
	return nil
}

// SendFrame transmits the frame to every controller. In Simulator mode no
// UDP is sent (spec.md §4.4: "Simulator mode skips UDP and only publishes
// frames to the Control Plane"); the caller is expected to have already
// published frame to the Control Plane's latest-frame slot regardless of
// mode, since that publication lives in the pipeline, not here.
func (d *UDPDispatcher) SendFrame(frame *pixel.Matrix) error {
	if !d.running {
		return apperr.New(apperr.SendFailed, "artnet.SendFrame", nil)
	}
	if d.mode == Simulator {
		return nil
	}
	var firstErr error
	for _, c := range d.controllers {
		if err := c.SendFrame(frame); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *UDPDispatcher) TestConnectivity() map[string]bool {
	result := make(map[string]bool, len(d.controllers))
	for _, c := range d.controllers {
		result[c.Cfg.ID] = c.conn != nil
	}
	return result
}

// ClearDisplay transmits an all-zero frame to every controller's region.
func (d *UDPDispatcher) ClearDisplay() error {
	if len(d.controllers) == 0 {
		return nil
	}
	maxW, maxH := 0, 0
	for _, c := range d.controllers {
		r := c.Cfg.Region
		if r.X+r.W > maxW {
			maxW = r.X + r.W
		}
		if r.Y+r.H > maxH {
			maxH = r.Y + r.H
		}
	}
	blank := pixel.New(maxW, maxH)
	return d.SendFrame(blank)
}

func (d *UDPDispatcher) Stats() DispatchStats {
	stats := DispatchStats{LateFrames: d.lateFrames}
	for _, c := range d.controllers {
		_, errs := c.Stats()
		stats.Controllers = append(stats.Controllers, ControllerStatus{ID: c.Cfg.ID, OK: errs == 0})
	}
	return stats
}

// RecordLateFrame increments the FrameLateness counter of spec.md §4.4's
// absolute-deadline pacing loop.
func (d *UDPDispatcher) RecordLateFrame() {
	d.lateFrames++
}

// TestPattern generates one of the send_test_pattern kinds of spec.md §6
// directly into a pixel matrix (solid, gradient, or checker), for use by
// the Control Plane's test_pattern command.
func TestPattern(kind string, w, h int) *pixel.Matrix {
	m := pixel.New(w, h)
	switch kind {
	case "solid":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				m.Set(x, y, 255, 255, 255)
			}
		}
	case "gradient":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := uint8(float64(x) / math.Max(1, float64(w-1)) * 255)
				m.Set(x, y, v, v, v)
			}
		}
	case "checker":
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if (x/8+y/8)%2 == 0 {
					m.Set(x, y, 255, 255, 255)
				}
			}
		}
	}
	return m
}

// FakeDispatcher is an in-memory Dispatcher for tests: records every frame
// it's sent and never touches the network, superseding the teacher's
// internal/testutil mock-device harness.
type FakeDispatcher struct {
	Frames  []*pixel.Matrix
	running bool
}

func (f *FakeDispatcher) Start(mode Mode) error { f.running = true; return nil }
func (f *FakeDispatcher) Stop() error           { f.running = false; return nil }
func (f *FakeDispatcher) SendFrame(frame *pixel.Matrix) error {
	cp := pixel.New(frame.W, frame.H)
	cp.CopyFrom(frame)
	f.Frames = append(f.Frames, cp)
	return nil
}
func (f *FakeDispatcher) TestConnectivity() map[string]bool { return map[string]bool{"fake": true} }
func (f *FakeDispatcher) ClearDisplay() error                { return nil }
func (f *FakeDispatcher) Stats() DispatchStats                { return DispatchStats{} }
