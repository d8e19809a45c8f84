package panel

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by New for unusable settings.
var ErrInvalidConfig = errors.New("invalid panel config")

// Config tunes a Controller.
type Config struct {
	Policy

	// VelocityWindow bounds how old a sample may be and still feed the
	// release velocity.
	VelocityWindow time.Duration
	// MaxSamples bounds the number of samples kept in the window.
	MaxSamples int

	// SettleDuration is the time a settle across the full range takes.
	// Shorter distances take proportionally less.
	SettleDuration time.Duration
	// MinSettleDuration is the floor for any non-zero settle.
	MinSettleDuration time.Duration
	// SnapTolerance ends a settle early once it is this close to its target.
	SnapTolerance float64
	// Easing shapes the settle. Nil means EaseOutCubic.
	Easing Easing

	// TouchSlop is the displacement a pointer must exceed before a drag starts.
	TouchSlop float64
}

// DefaultConfig returns settings suited to offsets measured in terminal cells.
func DefaultConfig() Config {
	return Config{
		Policy:            DefaultPolicy(),
		VelocityWindow:    100 * time.Millisecond,
		MaxSamples:        20,
		SettleDuration:    300 * time.Millisecond,
		MinSettleDuration: 50 * time.Millisecond,
		SnapTolerance:     1e-3,
		Easing:            EaseOutCubic,
	}
}

// Validate checks the config and wraps ErrInvalidConfig on failure.
func (c Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if c.VelocityWindow <= 0 {
		return fmt.Errorf("%w: velocity window %v must be positive", ErrInvalidConfig, c.VelocityWindow)
	}
	if c.MaxSamples < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidConfig, c.MaxSamples)
	}
	if c.SettleDuration < 0 || c.MinSettleDuration < 0 {
		return fmt.Errorf("%w: settle durations must not be negative", ErrInvalidConfig)
	}
	if c.SnapTolerance < 0 || c.TouchSlop < 0 {
		return fmt.Errorf("%w: snap tolerance and touch slop must not be negative", ErrInvalidConfig)
	}
	return nil
}
