package scratchcard

import "errors"

// Sentinel errors for scratchcard.
var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("scratchcard: invalid config")

	// ErrEmptyPalette is returned when a controller is created without icons.
	ErrEmptyPalette = errors.New("scratchcard: icon palette cannot be empty")

	// ErrUnknownIcon is reported to a load callback when an AssetLoader has no
	// asset registered for the requested IconRef.
	ErrUnknownIcon = errors.New("scratchcard: unknown icon")
)

// ConfigError describes which Config field failed validation.
// It wraps ErrInvalidConfig.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "scratchcard: invalid config: " + e.Field + " " + e.Reason
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
