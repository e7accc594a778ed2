package control

import (
	"encoding/json"

	"github.com/ledviz/core/internal/apperr"
	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/effect"
	"github.com/ledviz/core/internal/palette"
	"github.com/ledviz/core/internal/spectrum"
)

// State bundles references to every owning component the Control Plane
// dispatches into. Handle treats State as the "state" spec.md §4.5
// describes being threaded through command handling — the components
// themselves hold the actual mutable state (gain, effect, brightness); this
// struct is just the fixed set of handles Handle needs to reach them, so
// Handle itself remains a pure dispatch function with no package-level
// mutable state of its own.
type State struct {
	Source     audio.Source
	Analyzer   *spectrum.Analyzer
	Engine     *effect.Engine
	Dispatcher artnet.Dispatcher
	FPSTarget  int
	MatrixW    int
	MatrixH    int
}

// Handle processes one inbound Command against state, returning the
// response envelope. It never panics and never returns a Go error itself;
// failures are carried in the Response per spec.md §4.5 ("The pipeline is
// never disturbed by control errors").
func Handle(state *State, cmd Command) Response {
	switch cmd.Type {
	case "start_capture":
		var p StartCapturePayload
		_ = json.Unmarshal(cmd.Payload, &p)
		if err := state.Source.Open(p.Device); err != nil {
			return errResponse(err)
		}
		return Response{OK: true, Data: map[string]string{"device": p.Device}}

	case "stop_capture":
		if err := state.Source.Close(); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "set_gain":
		var p SetGainPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return badRequest()
		}
		if err := state.Analyzer.SetGain(p.Value); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "set_effect":
		var p SetEffectPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return badRequest()
		}
		if err := state.Engine.SetEffect(p.ID, effect.DefaultCrossfadeTicksAt60FPS); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "set_color_mode":
		var p SetColorModePayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return badRequest()
		}
		mode, ok := palette.ParseMode(p.Mode)
		if !ok {
			return Response{OK: false, Error: "InvalidParameter"}
		}
		state.Engine.SetColorMode(mode, palette.CustomColor{})
		return Response{OK: true}

	case "set_custom_color":
		var p SetCustomColorPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return badRequest()
		}
		if !in01(p.R) || !in01(p.G) || !in01(p.B) {
			return Response{OK: false, Error: "InvalidParameter"}
		}
		state.Engine.SetColorMode(palette.Custom, palette.CustomColor{R: p.R, G: p.G, B: p.B})
		return Response{OK: true}

	case "set_brightness":
		var p SetBrightnessPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return badRequest()
		}
		if err := state.Engine.SetBrightness(p.Value); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "start_output":
		var p StartOutputPayload
		_ = json.Unmarshal(cmd.Payload, &p)
		mode := artnet.Production
		if p.Mode == "simulator" {
			mode = artnet.Simulator
		}
		if err := state.Dispatcher.Start(mode); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "stop_output":
		if err := state.Dispatcher.Stop(); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	case "get_status":
		return Response{OK: true, Data: buildStatus(state)}

	case "test_pattern":
		var p TestPatternPayload
		if err := json.Unmarshal(cmd.Payload, &p); err != nil {
			return badRequest()
		}
		if p.Kind != "solid" && p.Kind != "gradient" && p.Kind != "checker" {
			return Response{OK: false, Error: "InvalidParameter"}
		}
		pattern := artnet.TestPattern(p.Kind, state.MatrixW, state.MatrixH)
		if err := state.Dispatcher.SendFrame(pattern); err != nil {
			return errResponse(err)
		}
		return Response{OK: true}

	default:
		return Response{OK: false, Error: "UnknownCommand"}
	}
}

func buildStatus(state *State) StatusEvent {
	return StatusEvent{
		Capturing:     state.Source.IsCapturing(),
		OutputRunning: true,
		EffectID:      state.Engine.ActiveID(),
	}
}

func badRequest() Response {
	return Response{OK: false, Error: "BadRequest"}
}

func errResponse(err error) Response {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return Response{OK: false, Error: "BadRequest", Message: err.Error()}
	}
	return Response{OK: false, Error: kind.String(), Message: err.Error()}
}

func in01(v float64) bool {
	return v >= 0 && v <= 1
}
