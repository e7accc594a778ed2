package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/pixel"
	"github.com/ledviz/core/internal/spectrum"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscriber is one connected WebSocket client with its own outbound queue.
// A full queue means the subscriber is slow; new events for it are dropped
// until its queue drains, per spec.md §4.5's "if a subscriber is
// slow, drop events for that subscriber" throttling rule.
type subscriber struct {
	id     uuid.UUID
	conn   *websocket.Conn
	sendCh chan Event
}

// Server is the WebSocket transport for the Control Plane, grounded in the
// teacher's internal/webeditor.Server lifecycle (net.Listen, http.Server
// with Read/Write/IdleTimeout, graceful Shutdown via context), with
// gorilla/websocket framing instead of REST handlers.
type Server struct {
	cfg   config.ControlPlaneConfig
	state *State

	httpServer *http.Server
	listener   net.Listener

	mu          sync.Mutex
	running     bool
	subscribers map[*subscriber]struct{}
}

// NewServer builds a control-plane server bound to state and configured
// per cfg.
func NewServer(cfg config.ControlPlaneConfig, state *State) *Server {
	return &Server{
		cfg:         cfg,
		state:       state,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Start begins listening per the teacher's Start lifecycle: bind, register
// handlers, serve in a background goroutine.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("control plane listen on %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	s.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutMs) * time.Millisecond,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutMs) * time.Millisecond,
	}
	s.running = true

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("control plane server error: %v", err)
		}
	}()

	log.Printf("control plane listening on %s", s.cfg.ListenAddr)
	return nil
}

// Stop gracefully shuts the server down, matching the teacher's 5-second
// shutdown-context budget.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	s.running = false
	return err
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("control plane upgrade failed: %v", err)
		return
	}

	sub := &subscriber{id: uuid.New(), conn: conn, sendCh: make(chan Event, 8)}
	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()
	log.Printf("control plane: subscriber %s connected from %s", sub.id, r.RemoteAddr)

	go sub.writeLoop()

	defer func() {
		s.mu.Lock()
		delete(s.subscribers, sub)
		s.mu.Unlock()
		close(sub.sendCh)
		_ = conn.Close()
		log.Printf("control plane: subscriber %s disconnected", sub.id)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			_ = conn.WriteJSON(Response{OK: false, Error: "BadRequest"})
			continue
		}
		resp := Handle(s.state, cmd)
		_ = conn.WriteJSON(resp)
	}
}

func (sub *subscriber) writeLoop() {
	for ev := range sub.sendCh {
		if err := sub.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

// publish enqueues ev for every subscriber, dropping it for any subscriber
// whose queue is full instead of blocking — the hot loops calling Broadcast*
// must never be back-pressured by a slow client.
func (s *Server) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subscribers {
		select {
		case sub.sendCh <- ev:
		default:
		}
	}
}

// BroadcastSpectrum pushes a spectrum event, throttled by the caller to
// SpectrumHz.
func (s *Server) BroadcastSpectrum(snap *spectrum.Snapshot) {
	bands := make([]float32, len(snap.Bands))
	for i, v := range snap.Bands {
		bands[i] = float32(v)
	}
	s.publish(Event{Type: "spectrum", Payload: SpectrumEvent{Bands: bands}})
}

// BroadcastFrame pushes a frame event, throttled by the caller to FrameHz.
func (s *Server) BroadcastFrame(frame *pixel.Matrix) {
	rgb := make([]byte, len(frame.Pix))
	copy(rgb, frame.Pix)
	s.publish(Event{Type: "frame", Payload: FrameEvent{W: frame.W, H: frame.H, RGB: rgb}})
}

// BroadcastStats pushes a stats event, throttled by the caller to StatsHz.
// It enriches the pipeline's own counters with host CPU usage and this
// process's resident memory via gopsutil, matching the teacher's
// internal/metrics.GopsutilCPU provider.
func (s *Server) BroadcastStats(ev StatsEvent) {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		ev.HostCPUPercent = percents[0]
		if percents[0] > 90 {
			log.Printf("control plane: host CPU at %.1f%%", percents[0])
		}
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			ev.HostRSSBytes = mem.RSS
		}
	}
	s.publish(Event{Type: "stats", Payload: ev})
}

// BroadcastStatus pushes a status event on state change.
func (s *Server) BroadcastStatus(ev StatusEvent) {
	s.publish(Event{Type: "status", Payload: ev})
}
