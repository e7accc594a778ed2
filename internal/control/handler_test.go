package control

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/config"
	"github.com/ledviz/core/internal/effect"
	"github.com/ledviz/core/internal/spectrum"
)

func newTestState() *State {
	return &State{
		Source:     audio.NewSynthetic(audio.RingCapacity*2, audio.Tone{FreqHz: 440, Amp: 0.5}),
		Analyzer:   spectrum.NewAnalyzer(config.AnalyzerConfig{Gain: 1, Smoothing: 0.5, PeakAttack: 0.5, PeakRelease: 0.02}),
		Engine:     effect.NewEngine(8, 8),
		Dispatcher: &artnet.FakeDispatcher{},
		FPSTarget:  60,
		MatrixW:    8,
		MatrixH:    8,
	}
}

func cmd(t *testing.T, typ string, payload any) Command {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Command{Type: typ, Payload: raw}
}

func TestHandleUnknownCommand(t *testing.T) {
	resp := Handle(newTestState(), Command{Type: "does_not_exist"})
	require.False(t, resp.OK)
	require.Equal(t, "UnknownCommand", resp.Error)
}

func TestHandleSetGainValid(t *testing.T) {
	resp := Handle(newTestState(), cmd(t, "set_gain", SetGainPayload{Value: 2.0}))
	require.True(t, resp.OK)
}

func TestHandleSetGainOutOfRange(t *testing.T) {
	resp := Handle(newTestState(), cmd(t, "set_gain", SetGainPayload{Value: 99}))
	require.False(t, resp.OK)
	require.Equal(t, "InvalidParameter", resp.Error)
}

func TestHandleSetEffectUnknownID(t *testing.T) {
	resp := Handle(newTestState(), cmd(t, "set_effect", SetEffectPayload{ID: 42}))
	require.False(t, resp.OK)
	require.Equal(t, "InvalidEffect", resp.Error)
}

func TestHandleSetColorModeInvalid(t *testing.T) {
	resp := Handle(newTestState(), cmd(t, "set_color_mode", SetColorModePayload{Mode: "plaid"}))
	require.False(t, resp.OK)
}

func TestHandleSetCustomColorOutOfRange(t *testing.T) {
	resp := Handle(newTestState(), cmd(t, "set_custom_color", SetCustomColorPayload{R: 1.5, G: 0, B: 0}))
	require.False(t, resp.OK)
}

func TestHandleTestPatternRejectsUnknownKind(t *testing.T) {
	resp := Handle(newTestState(), cmd(t, "test_pattern", TestPatternPayload{Kind: "sparkle"}))
	require.False(t, resp.OK)
}

func TestHandleTestPatternSendsFrame(t *testing.T) {
	state := newTestState()
	fake := state.Dispatcher.(*artnet.FakeDispatcher)
	require.NoError(t, fake.Start(artnet.Simulator))

	resp := Handle(state, cmd(t, "test_pattern", TestPatternPayload{Kind: "solid"}))
	require.True(t, resp.OK)
	require.Len(t, fake.Frames, 1)
}

func TestHandleStartStopCapture(t *testing.T) {
	state := newTestState()
	resp := Handle(state, cmd(t, "start_capture", StartCapturePayload{}))
	require.True(t, resp.OK)
	require.True(t, state.Source.IsCapturing())

	resp = Handle(state, Command{Type: "stop_capture"})
	require.True(t, resp.OK)
	require.False(t, state.Source.IsCapturing())
}

func TestHandleGetStatusReportsEffectID(t *testing.T) {
	state := newTestState()
	resp := Handle(state, Command{Type: "get_status"})
	require.True(t, resp.OK)
	status, ok := resp.Data.(StatusEvent)
	require.True(t, ok)
	require.Equal(t, effect.IDSpectrumBars, status.EffectID)
}
