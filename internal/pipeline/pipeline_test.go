package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledviz/core/internal/artnet"
	"github.com/ledviz/core/internal/audio"
	"github.com/ledviz/core/internal/config"
)

func testConfig() config.Config {
	cfg := *config.CreateDefault()
	cfg.Matrix = config.MatrixConfig{Width: 4, Height: 4}
	cfg.FPSTarget = 30
	cfg.ControlPlane.ListenAddr = "127.0.0.1:0"
	return cfg
}

func TestPipelineStartStopIsClean(t *testing.T) {
	source := audio.NewSynthetic(audio.RingCapacity*2, audio.Tone{FreqHz: 440, Amp: 0.5})
	dispatcher := &artnet.FakeDispatcher{}

	pl, err := New(testConfig(), source, dispatcher)
	require.NoError(t, err)

	require.NoError(t, pl.Start())
	require.NoError(t, source.Open(""))
	require.True(t, source.IsCapturing())
	time.Sleep(50 * time.Millisecond)
	pl.Stop()
	require.NoError(t, source.Close())
	require.False(t, source.IsCapturing())
}

func TestPipelineRendersFramesThroughDispatcher(t *testing.T) {
	source := audio.NewSynthetic(audio.RingCapacity*2, audio.Tone{FreqHz: 440, Amp: 0.5})
	dispatcher := &artnet.FakeDispatcher{}
	require.NoError(t, dispatcher.Start(artnet.Simulator))

	cfg := testConfig()
	pl, err := New(cfg, source, dispatcher)
	require.NoError(t, err)

	require.NoError(t, pl.Start())
	defer pl.Stop()

	require.Eventually(t, func() bool {
		return len(dispatcher.Frames) > 0
	}, 2*time.Second, 10*time.Millisecond)
}
