package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledviz/core/internal/apperr"
)

// Load reads and parses a configuration file, applying defaults for
// missing fields and validating the result. If the file doesn't exist, a
// default configuration is returned, mirroring the teacher's Load
// (internal/config/loader.go): read-or-default, then apply defaults, then
// validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := CreateDefault()
			return cfg, nil
		}
		return nil, apperr.New(apperr.ConfigInvalid, "config.Load", fmt.Errorf("read %s: %w", path, err))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, apperr.New(apperr.ConfigInvalid, "config.Load", fmt.Errorf("parse %s: %w", path, err))
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, apperr.New(apperr.ConfigInvalid, "config.Load", err)
	}

	return &cfg, nil
}

// CreateDefault creates a configuration with sensible defaults: a 128x128
// matrix, SpectrumBars active, simulator-safe (no controllers configured —
// callers must add at least one before starting Production output).
func CreateDefault() *Config {
	cfg := &Config{
		SampleRate: 48000,
		FPSTarget:  60,
		Matrix:     MatrixConfig{Width: 128, Height: 128},
		Analyzer: AnalyzerConfig{
			Gain:        1.0,
			Smoothing:   0.5,
			BandWeights: BandWeights{Bass: 2.5, Mid: 2.0, High: 1.5},
			NoiseFloor:  0.02,
			PeakAttack:  0.5,
			PeakRelease: 0.02,
		},
		Effect: EffectConfig{
			ActiveID:      0,
			ColorMode:     "rainbow",
			Brightness:    1.0,
			CrossfadeMs:   500,
			ParticleLimit: 2500,
		},
		ControlPlane: ControlPlaneConfig{
			ListenAddr:     ":7890",
			ReadTimeoutMs:  10_000,
			WriteTimeoutMs: 5_000,
			IdleTimeoutMs:  60_000,
			SpectrumHz:     30,
			FrameHz:        15,
			StatsHz:        1,
		},
	}
	return cfg
}

// SaveDefault writes a default configuration file to path, creating parent
// directories as needed.
func SaveDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(CreateDefault(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyDefaults fills in zero-valued optional fields, mirroring the
// teacher's applyDefaults/applyDisplayDefaults split.
func applyDefaults(cfg *Config) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 48000
	}
	if cfg.FPSTarget == 0 {
		cfg.FPSTarget = 60
	}
	if cfg.Matrix.Width == 0 {
		cfg.Matrix.Width = 128
	}
	if cfg.Matrix.Height == 0 {
		cfg.Matrix.Height = 128
	}
	if cfg.Analyzer.Gain == 0 {
		cfg.Analyzer.Gain = 1.0
	}
	if cfg.Analyzer.BandWeights == (BandWeights{}) {
		cfg.Analyzer.BandWeights = BandWeights{Bass: 2.5, Mid: 2.0, High: 1.5}
	}
	if cfg.Effect.ColorMode == "" {
		cfg.Effect.ColorMode = "rainbow"
	}
	if cfg.Effect.CrossfadeMs == 0 {
		cfg.Effect.CrossfadeMs = 500
	}
	if cfg.Effect.ParticleLimit == 0 {
		cfg.Effect.ParticleLimit = 2500
	}
	if cfg.Effect.Brightness == 0 {
		cfg.Effect.Brightness = 1.0
	}
	if cfg.ControlPlane.ListenAddr == "" {
		cfg.ControlPlane.ListenAddr = ":7890"
	}
	if cfg.ControlPlane.SpectrumHz == 0 {
		cfg.ControlPlane.SpectrumHz = 30
	}
	if cfg.ControlPlane.FrameHz == 0 {
		cfg.ControlPlane.FrameHz = 15
	}
	if cfg.ControlPlane.StatsHz == 0 {
		cfg.ControlPlane.StatsHz = 1
	}
	for i := range cfg.Controllers {
		if cfg.Controllers[i].Port == 0 {
			cfg.Controllers[i].Port = 6454
		}
	}
}
