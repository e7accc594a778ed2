// Package pipeline wires the Audio Source, Spectrum Analyzer, Effect
// Engine, and LED Output into the three-thread concurrency model of
// spec.md §5, plus the Control Plane's periodic broadcast loops. Grounded
// in the teacher's internal/compositor.Compositor: the same stopChan +
// sync.WaitGroup + logPanic lifecycle, generalized from one render loop and
// N widget-update loops to analyzer and render+output loops plus a
// broadcast loop (capture runs inside the audio.Source itself).
package pipeline

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/control"
	"github.com/ledviz/core/internal/effect"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

// Pipeline owns every long-lived component and the goroutines driving them.
type Pipeline struct {
	cfg config.Config

	Source     audio.Source
	Analyzer   *spectrum.Analyzer
	Engine     *effect.Engine
	Dispatcher artnet.Dispatcher
	Server     *control.Server

	framePool  pixel.Swap[pixel.Matrix]
	publishBuf [2]*pixel.Matrix // alternating buffers for framePool.Store, avoids a per-tick allocation
	publishIdx int

	stopChan chan struct{}
	wg       sync.WaitGroup

	droppedWindows uint64
	lateFrames     uint64
}

// New constructs a Pipeline from configuration around the given audio
// source and dispatcher; cmd/ledviz chooses the synthetic or platform
// capture source. The source is not opened here.
func New(cfg config.Config, source audio.Source, dispatcher artnet.Dispatcher) (*Pipeline, error) {
	analyzer := spectrum.NewAnalyzer(cfg.Analyzer)
	engine := effect.NewEngine(cfg.Matrix.Width, cfg.Matrix.Height)

	p := &Pipeline{
		cfg:        cfg,
		Source:     source,
		Analyzer:   analyzer,
		Engine:     engine,
		Dispatcher: dispatcher,
		stopChan:   make(chan struct{}),
		publishBuf: [2]*pixel.Matrix{
			pixel.New(cfg.Matrix.Width, cfg.Matrix.Height),
			pixel.New(cfg.Matrix.Width, cfg.Matrix.Height),
		},
	}

	state := &control.State{
		Source:     source,
		Analyzer:   analyzer,
		Engine:     engine,
		Dispatcher: dispatcher,
		FPSTarget:  cfg.FPSTarget,
		MatrixW:    cfg.Matrix.Width,
		MatrixH:    cfg.Matrix.Height,
	}
	p.Server = control.NewServer(cfg.ControlPlane, state)
	return p, nil
}

// Start launches the analyzer loop, render+output loop, broadcast loops,
// and the control-plane server.
func (p *Pipeline) Start() error {
	if err := p.Server.Start(); err != nil {
		return err
	}

	p.wg.Add(1)
	go p.analyzerLoop()

	p.wg.Add(1)
	go p.renderLoop()

	p.wg.Add(1)
	go p.broadcastLoop()

	log.Println("pipeline started")
	return nil
}

// Stop signals every loop to exit and waits for them, then stops the
// control-plane server.
func (p *Pipeline) Stop() {
	close(p.stopChan)
	p.wg.Wait()
	_ = p.Server.Stop()
	log.Println("pipeline stopped")
}

// logPanic mirrors the teacher's compositor.logPanic: recover a panicking
// goroutine, append context and a stack trace to panic.log, and keep the
// process alive (one dead loop should never take the whole visualizer down).
func logPanic(context string) {
	if r := recover(); r != nil {
		logFile, err := os.OpenFile("panic.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("failed to open panic.log: %v", err)
			return
		}
		defer logFile.Close()

		msg := fmt.Sprintf("\n=== PANIC at %s ===\nContext: %s\nError: %v\n\nStack trace:\n%s\n",
			time.Now().Format("2006-01-02 15:04:05"), context, r, debug.Stack())
		_, _ = logFile.WriteString(msg)
		log.Print(msg)
	}
}

// analyzerLoop is the Analyzer thread of spec.md §5: consumes windows from
// the source's ring, publishes spectrum snapshots, sleeping between work
// via the ring's blocking-wait-with-timeout.
func (p *Pipeline) analyzerLoop() {
	defer p.wg.Done()
	defer logPanic("analyzerLoop")

	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		ring := p.Source.Ring()
		if ring == nil {
			time.Sleep(spectrum.RunTimeout)
			continue
		}

		frame, ok := ring.PopTimeout(spectrum.RunTimeout)
		if !ok {
			p.Analyzer.Decay(p.cfg.Analyzer.PeakRelease)
			continue
		}
		p.Analyzer.Process(frame.Win)
	}
}

// renderLoop is the Render+Output thread of spec.md §5: paced by an
// absolute-deadline loop, consumes the latest spectrum snapshot, renders
// one frame via the Effect Engine, and dispatches it over ArtNet.
func (p *Pipeline) renderLoop() {
	defer p.wg.Done()
	defer logPanic("renderLoop")

	fps := p.cfg.FPSTarget
	if fps <= 0 {
		fps = 60
	}
	period := time.Second / time.Duration(fps)
	start := time.Now()
	var tick uint64

	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		next := start.Add(period * time.Duration(tick+1))
		now := time.Now()
		if now.Before(next) {
			time.Sleep(next.Sub(now))
		} else if now.Sub(next) > period {
			p.lateFrames++
		}

		snap := p.Analyzer.Latest()
		frame := p.Engine.Tick(snap, tick, period.Seconds())

		if err := p.Dispatcher.SendFrame(frame); err != nil {
			log.Printf("artnet send error: %v", err)
		}

		published := p.publishBuf[p.publishIdx]
		published.CopyFrom(frame)
		p.framePool.Store(published)
		p.publishIdx = (p.publishIdx + 1) % len(p.publishBuf)

		tick++
	}
}

// broadcastLoop fans spectrum/frame/stats events out to the Control Plane
// at the throttled rates of spec.md §4.5 (≤30Hz/≤15Hz/1Hz).
func (p *Pipeline) broadcastLoop() {
	defer p.wg.Done()
	defer logPanic("broadcastLoop")

	specHz := p.cfg.ControlPlane.SpectrumHz
	if specHz <= 0 {
		specHz = 30
	}
	frameHz := p.cfg.ControlPlane.FrameHz
	if frameHz <= 0 {
		frameHz = 15
	}
	statsHz := p.cfg.ControlPlane.StatsHz
	if statsHz <= 0 {
		statsHz = 1
	}

	specTicker := time.NewTicker(time.Duration(float64(time.Second) / specHz))
	frameTicker := time.NewTicker(time.Duration(float64(time.Second) / frameHz))
	statsTicker := time.NewTicker(time.Duration(float64(time.Second) / statsHz))
	defer specTicker.Stop()
	defer frameTicker.Stop()
	defer statsTicker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-specTicker.C:
			p.Server.BroadcastSpectrum(p.Analyzer.Latest())
		case <-frameTicker.C:
			if f := p.framePool.Load(); f != nil {
				p.Server.BroadcastFrame(f)
			}
		case <-statsTicker.C:
			stats := p.Dispatcher.Stats()
			var controllers []control.ControllerStatusEvent
			for _, c := range stats.Controllers {
				controllers = append(controllers, control.ControllerStatusEvent{ID: c.ID, OK: c.OK})
			}
			p.Server.BroadcastStats(control.StatsEvent{
				FPS:            float32(p.cfg.FPSTarget),
				DroppedWindows: p.Source.DroppedCount(),
				LateFrames:     p.lateFrames,
				Controllers:    controllers,
			})
		}
	}
}
