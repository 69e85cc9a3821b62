package scratchcard

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by LoadConfig.
const EnvPrefix = "SCRATCHCARD_"

// Config holds the tunable knobs of the engine. Distances are logical pixels.
//
// A Config is loaded from YAML (see LoadConfig) with environment overrides:
//
//	brush_radius: 60
//	reveal_threshold: 52
//	fade_duration: 280ms
//
// or SCRATCHCARD_REVEAL_THRESHOLD=45.
type Config struct {
	// BrushRadius is the erosion radius when the viewport is at least
	// MobileBreakpoint wide.
	BrushRadius float64 `yaml:"brush_radius" env:"BRUSH_RADIUS"`

	// MobileBrushRadius is used below MobileBreakpoint so the share of the
	// card erased per gesture stays comparable on small screens.
	MobileBrushRadius float64 `yaml:"mobile_brush_radius" env:"MOBILE_BRUSH_RADIUS"`

	// MobileBreakpoint is the viewport width separating mobile from desktop.
	MobileBreakpoint float64 `yaml:"mobile_breakpoint" env:"MOBILE_BREAKPOINT"`

	// RevealThreshold is the inclusive coverage percentage that starts the reveal.
	RevealThreshold float64 `yaml:"reveal_threshold" env:"REVEAL_THRESHOLD"`

	// FadeDuration is the length of the mask fade-out.
	FadeDuration time.Duration `yaml:"fade_duration" env:"FADE_DURATION"`

	// ParticlesPerStroke is the number of particles spawned per erosion.
	ParticlesPerStroke int `yaml:"particles_per_stroke" env:"PARTICLES_PER_STROKE"`

	// ParticleCap bounds the live particle set; the oldest are dropped first.
	ParticleCap int `yaml:"particle_cap" env:"PARTICLE_CAP"`

	// ParticleGravity is added to each particle's vertical velocity per tick.
	ParticleGravity float64 `yaml:"particle_gravity" env:"PARTICLE_GRAVITY"`

	// ResetCooldown is how long Reset is ignored after a reset.
	ResetCooldown time.Duration `yaml:"reset_cooldown" env:"RESET_COOLDOWN"`

	// BaseOpacity is the opacity the mask is composited at before fading.
	BaseOpacity float64 `yaml:"base_opacity" env:"BASE_OPACITY"`

	// ShimmerPeriod is the time for the shimmer band to sweep the card once.
	ShimmerPeriod time.Duration `yaml:"shimmer_period" env:"SHIMMER_PERIOD"`

	// SampleStride is the pixel stride used by coverage sampling.
	SampleStride int `yaml:"sample_stride" env:"SAMPLE_STRIDE"`

	// StrokeWidthFactor scales the brush diameter to get the width of the
	// segment joining consecutive pointer positions.
	StrokeWidthFactor float64 `yaml:"stroke_width_factor" env:"STROKE_WIDTH_FACTOR"`

	// NoiseAmplitude is the peak-to-peak jitter added to mask color channels.
	NoiseAmplitude float64 `yaml:"noise_amplitude" env:"NOISE_AMPLITUDE"`

	// Label is drawn centered on the mask. Empty disables it.
	Label string `yaml:"label" env:"LABEL"`

	// LabelSize is the label font size in logical pixels.
	LabelSize float64 `yaml:"label_size" env:"LABEL_SIZE"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		BrushRadius:        60,
		MobileBrushRadius:  40,
		MobileBreakpoint:   768,
		RevealThreshold:    52,
		FadeDuration:       280 * time.Millisecond,
		ParticlesPerStroke: 2,
		ParticleCap:        80,
		ParticleGravity:    0.2,
		ResetCooldown:      8 * time.Second,
		BaseOpacity:        0.78,
		ShimmerPeriod:      6 * time.Second,
		SampleStride:       16,
		StrokeWidthFactor:  1.2,
		NoiseAmplitude:     15,
		Label:              "Raspe aqui",
		LabelSize:          22,
	}
}

// Validate reports the first field holding an unusable value.
// The returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case !positive(c.BrushRadius):
		return &ConfigError{Field: "brush_radius", Reason: "must be positive and finite"}
	case !positive(c.MobileBrushRadius):
		return &ConfigError{Field: "mobile_brush_radius", Reason: "must be positive and finite"}
	case !(c.MobileBreakpoint >= 0) || math.IsInf(c.MobileBreakpoint, 1):
		return &ConfigError{Field: "mobile_breakpoint", Reason: "must be finite and not negative"}
	case !(c.RevealThreshold > 0) || c.RevealThreshold > 100:
		return &ConfigError{Field: "reveal_threshold", Reason: "must be in (0, 100]"}
	case c.FadeDuration < 0:
		return &ConfigError{Field: "fade_duration", Reason: "must not be negative"}
	case c.ParticlesPerStroke < 0:
		return &ConfigError{Field: "particles_per_stroke", Reason: "must not be negative"}
	case c.ParticleCap < 0:
		return &ConfigError{Field: "particle_cap", Reason: "must not be negative"}
	case math.IsNaN(c.ParticleGravity) || math.IsInf(c.ParticleGravity, 0):
		return &ConfigError{Field: "particle_gravity", Reason: "must be finite"}
	case c.ResetCooldown < 0:
		return &ConfigError{Field: "reset_cooldown", Reason: "must not be negative"}
	case !(c.BaseOpacity > 0) || c.BaseOpacity > 1:
		return &ConfigError{Field: "base_opacity", Reason: "must be in (0, 1]"}
	case c.ShimmerPeriod <= 0:
		return &ConfigError{Field: "shimmer_period", Reason: "must be positive"}
	case c.SampleStride < 1:
		return &ConfigError{Field: "sample_stride", Reason: "must be at least 1"}
	case !positive(c.StrokeWidthFactor):
		return &ConfigError{Field: "stroke_width_factor", Reason: "must be positive and finite"}
	case !(c.NoiseAmplitude >= 0) || c.NoiseAmplitude > 255:
		return &ConfigError{Field: "noise_amplitude", Reason: "must be in [0, 255]"}
	case c.Label != "" && !positive(c.LabelSize):
		return &ConfigError{Field: "label_size", Reason: "must be positive when a label is set"}
	}
	return nil
}

// positive reports whether v is a finite number above zero. NaN fails.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ParseConfig decodes YAML over DefaultConfig. Keys absent from data keep
// their default values.
func ParseConfig(data []byte) (Config, error) {
	return parseOver(DefaultConfig(), data)
}

func parseOver(cfg Config, data []byte) (Config, error) {
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scratchcard: parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads the YAML file at path (skipped when path is empty), applies
// SCRATCHCARD_* environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	return LoadConfigOver(DefaultConfig(), path)
}

// LoadConfigOver is LoadConfig starting from base instead of DefaultConfig.
// Hosts with their own scale, such as a terminal, pass their defaults here.
func LoadConfigOver(base Config, path string) (Config, error) {
	cfg := base
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return Config{}, fmt.Errorf("scratchcard: read config: %w", err)
		}
		if cfg, err = parseOver(base, data); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("scratchcard: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
