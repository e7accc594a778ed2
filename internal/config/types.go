// Package config defines the on-disk schema for the visualizer's controller
// map, analyzer/effect defaults, and control-plane transport, and validates
// it. It follows the teacher's internal/config layout (types.go, loader.go,
// validator.go, profiles.go, constants.go) and its encoding/json idiom
// (internal/config/loader.go, internal/config/types.go) rather than a YAML
// or TOML loader the example pack does not otherwise favor for this teacher.
package config

// Config is the complete on-disk configuration for one venue/rig.
type Config struct {
	SampleRate   int                `json:"sample_rate"`
	FPSTarget    int                `json:"fps_target"`
	Matrix       MatrixConfig       `json:"matrix"`
	Analyzer     AnalyzerConfig     `json:"analyzer"`
	Effect       EffectConfig       `json:"effect"`
	Controllers  []ControllerConfig `json:"controllers"`
	ControlPlane ControlPlaneConfig `json:"control_plane"`
}

// MatrixConfig is the pixel matrix's canonical size.
type MatrixConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BandWeights are the perceptual-tilt multipliers of spec.md §4.2 step 5.
type BandWeights struct {
	Bass float64 `json:"bass"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// AnalyzerConfig seeds the Spectrum Analyzer's tunable parameters.
type AnalyzerConfig struct {
	Gain         float64     `json:"gain"`
	Smoothing    float64     `json:"smoothing"`
	BandWeights  BandWeights `json:"band_weights"`
	NoiseFloor   float64     `json:"noise_floor"`
	PeakAttack   float64     `json:"peak_attack"`
	PeakRelease  float64     `json:"peak_release"`
}

// CustomColor is the Custom(r,g,b) color mode's fixed color, components in [0,1].
type CustomColor struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// EffectConfig holds the Effect Engine settings. They are defaulted and
// validated here but not applied by pipeline.New: the Engine starts with
// SpectrumBars, rainbow and full brightness, set_effect cross-fades over
// effect.DefaultCrossfadeTicksAt60FPS ticks, and the particle system is
// capped at effect.ParticleLimit.
type EffectConfig struct {
	ActiveID      int         `json:"active_id"`
	ColorMode     string      `json:"color_mode"`
	CustomColor   CustomColor `json:"custom_color"`
	Brightness    float64     `json:"brightness"`
	CrossfadeMs   int         `json:"crossfade_ms"`
	ParticleLimit int         `json:"particle_limit"`
}

// Region is an axis-aligned rectangle of the pixel matrix, in pixels.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ControllerConfig is one ArtNet controller: its network address, the
// universe its region's first DMX universe starts at, and the matrix region
// it is responsible for. Mirrors spec.md §3's controller descriptor tuple.
type ControllerConfig struct {
	ID           string `json:"id"`
	IP           string `json:"ip"`
	Port         int    `json:"port"`
	UniverseBase int    `json:"universe_base"`
	Region       Region `json:"region"`
}

// ControlPlaneConfig configures the WebSocket command/telemetry server.
type ControlPlaneConfig struct {
	ListenAddr      string `json:"listen_addr"`
	ReadTimeoutMs   int    `json:"read_timeout_ms"`
	WriteTimeoutMs  int    `json:"write_timeout_ms"`
	IdleTimeoutMs   int    `json:"idle_timeout_ms"`
	SpectrumHz      float64 `json:"spectrum_hz"`
	FrameHz         float64 `json:"frame_hz"`
	StatsHz         float64 `json:"stats_hz"`
}
