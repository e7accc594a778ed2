package config

import (
	"fmt"
	"net"
	"sort"
)

// ValidColorModes mirrors the fixed color-mode set of spec.md §3.
var ValidColorModes = map[string]bool{
	"rainbow": true, "fire": true, "ocean": true, "sunset": true, "matrix": true, "custom": true,
}

// Validate checks that the configuration is internally consistent,
// following the teacher's validateConfig/validateWidgets layering
// (internal/config/validator.go): global settings, then matrix, then the
// controller partition invariant from spec.md §3/§6.
func Validate(cfg *Config) error {
	if err := validateGlobal(cfg); err != nil {
		return err
	}
	if err := validateMatrix(cfg); err != nil {
		return err
	}
	if err := validateEffect(cfg); err != nil {
		return err
	}
	if len(cfg.Controllers) > 0 {
		if err := ValidatePartition(cfg.Matrix.Width, cfg.Matrix.Height, cfg.Controllers); err != nil {
			return err
		}
	}
	return nil
}

func validateGlobal(cfg *Config) error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive (got %d)", cfg.SampleRate)
	}
	if cfg.FPSTarget <= 0 {
		return fmt.Errorf("fps_target must be positive (got %d)", cfg.FPSTarget)
	}
	if cfg.Analyzer.Gain < 0.1 || cfg.Analyzer.Gain > 5.0 {
		return fmt.Errorf("analyzer.gain must be in [0.1, 5.0] (got %f)", cfg.Analyzer.Gain)
	}
	if cfg.Analyzer.Smoothing < 0 || cfg.Analyzer.Smoothing > 1 {
		return fmt.Errorf("analyzer.smoothing must be in [0, 1] (got %f)", cfg.Analyzer.Smoothing)
	}
	return nil
}

func validateMatrix(cfg *Config) error {
	if cfg.Matrix.Width <= 0 {
		return fmt.Errorf("matrix width must be positive (got %d)", cfg.Matrix.Width)
	}
	if cfg.Matrix.Height <= 0 {
		return fmt.Errorf("matrix height must be positive (got %d)", cfg.Matrix.Height)
	}
	return nil
}

func validateEffect(cfg *Config) error {
	if cfg.Effect.ActiveID < 0 || cfg.Effect.ActiveID > 7 {
		return fmt.Errorf("effect.active_id must be in [0, 7] (got %d)", cfg.Effect.ActiveID)
	}
	if !ValidColorModes[cfg.Effect.ColorMode] {
		return fmt.Errorf("effect.color_mode invalid: %q", cfg.Effect.ColorMode)
	}
	if cfg.Effect.Brightness < 0 || cfg.Effect.Brightness > 1 {
		return fmt.Errorf("effect.brightness must be in [0, 1] (got %f)", cfg.Effect.Brightness)
	}
	if cfg.Effect.ParticleLimit <= 0 {
		return fmt.Errorf("effect.particle_limit must be positive (got %d)", cfg.Effect.ParticleLimit)
	}
	return nil
}

// ValidatePartition checks the controller-region invariant of spec.md §3/§6:
// regions partition the W×H matrix (no overlap, full coverage) and
// universe_base ranges are disjoint. Exhaustively unit-tested per spec.md §8.
func ValidatePartition(w, h int, controllers []ControllerConfig) error {
	if len(controllers) == 0 {
		return fmt.Errorf("no controllers configured")
	}

	covered := make([]bool, w*h)
	for _, c := range controllers {
		if c.IP == "" {
			return fmt.Errorf("controller %q: ip is required", c.ID)
		}
		if net.ParseIP(c.IP) == nil {
			return fmt.Errorf("controller %q: invalid ip %q", c.ID, c.IP)
		}
		r := c.Region
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("controller %q: region w/h must be positive", c.ID)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > w || r.Y+r.H > h {
			return fmt.Errorf("controller %q: region %+v out of matrix bounds %dx%d", c.ID, r, w, h)
		}
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				idx := y*w + x
				if covered[idx] {
					return fmt.Errorf("controller %q: region %+v overlaps another controller's region at (%d,%d)", c.ID, r, x, y)
				}
				covered[idx] = true
			}
		}
	}
	for i, c := range covered {
		if !c {
			return fmt.Errorf("pixel (%d,%d) is not covered by any controller region", i%w, i/w)
		}
	}

	type span struct {
		id          string
		base, count int
	}
	spans := make([]span, 0, len(controllers))
	for _, c := range controllers {
		spans = append(spans, span{id: c.ID, base: c.UniverseBase, count: UniversesPerController(c)})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].base < spans[j].base })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if cur.base < prev.base+prev.count {
			return fmt.Errorf("controller %q universes [%d,%d) overlap controller %q's [%d,%d)",
				cur.id, cur.base, cur.base+cur.count, prev.id, prev.base, prev.base+prev.count)
		}
	}

	return nil
}

// PixelBytesPerUniverse is the per-universe DMX payload capacity used for
// pixel packing: 170 pixels * 3 bytes, per spec.md §4.4 ("one universe
// covers 170 pixels"). This is less than the protocol's 512-byte packet
// ceiling (artnet.MaxUniverseBytes) so a pixel's channels never split
// across a universe boundary.
const PixelBytesPerUniverse = 510

// UniversesPerController returns how many DMX universes controller c's
// region spans at 3 bytes/pixel, 170 pixels/universe (spec.md §4.4).
func UniversesPerController(c ControllerConfig) int {
	bytes := c.Region.W * c.Region.H * 3
	universes := bytes / PixelBytesPerUniverse
	if bytes%PixelBytesPerUniverse != 0 {
		universes++
	}
	return universes
}
