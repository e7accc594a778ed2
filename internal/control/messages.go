// Package control implements the Control Plane component of spec.md §4.5: a
// JSON-over-WebSocket command/event surface dispatching into the Spectrum
// Analyzer, Effect Engine, and LED Output, with throttled per-subscriber
// event fan-out. Grounded in the teacher's internal/webeditor package (an
// embedded net/http server with the same Start/Stop/timeout lifecycle),
// generalized from a REST config-editor to a framed WebSocket channel since
// the spec needs server-initiated push (spectrum/frame/stats events) that
// request/response HTTP cannot express.
package control

import "encoding/json"

// Command is one inbound message of spec.md §6's command table.
type Command struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Response is the envelope every command produces, per spec.md §6.
type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Event is one outbound push message.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Payload types, one per command in spec.md §6's table.

type StartCapturePayload struct {
	Device string `json:"device,omitempty"`
}

type SetGainPayload struct {
	Value float64 `json:"value"`
}

type SetEffectPayload struct {
	ID int `json:"id"`
}

type SetColorModePayload struct {
	Mode string `json:"mode"`
}

type SetCustomColorPayload struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

type SetBrightnessPayload struct {
	Value float64 `json:"value"`
}

type StartOutputPayload struct {
	Mode string `json:"mode"`
}

type TestPatternPayload struct {
	Kind       string `json:"kind"`
	DurationMs int    `json:"duration_ms"`
}

// Event payloads.

type SpectrumEvent struct {
	Bands []float32 `json:"bands"`
}

type FrameEvent struct {
	W   int    `json:"w"`
	H   int    `json:"h"`
	RGB []byte `json:"rgb"`
}

type ControllerStatusEvent struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

type StatsEvent struct {
	FPS            float32                 `json:"fps"`
	DroppedWindows uint64                  `json:"dropped_windows"`
	LateFrames     uint64                  `json:"late_frames"`
	Controllers    []ControllerStatusEvent `json:"controllers"`
	HostCPUPercent float64                 `json:"host_cpu_percent"`
	HostRSSBytes   uint64                  `json:"host_rss_bytes"`
}

type StatusEvent struct {
	Capturing     bool    `json:"capturing"`
	OutputRunning bool    `json:"output_running"`
	EffectID      int     `json:"effect_id"`
	ColorMode     string  `json:"color_mode"`
	Gain          float64 `json:"gain"`
	Brightness    float64 `json:"brightness"`
}
