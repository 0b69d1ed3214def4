package rsvp

import (
	"fmt"
	"time"
)

// Config holds reader settings supplied by the settings store.
type Config struct {
	// Reading speed in words per minute, clamped to [MinWPM, MaxWPM]
	WPM int `yaml:"wpm" mapstructure:"wpm"`
	// Lengthen words by length and trailing punctuation
	SmartPauses bool `yaml:"smart_pauses" mapstructure:"smart_pauses"`

	// Speed change per up/down key press
	SpeedStep int `yaml:"speed_step" mapstructure:"speed_step"`
	// Words skipped per shift+left/right key press
	JumpStep int `yaml:"jump_step" mapstructure:"jump_step"`

	// Start playing as soon as text is loaded
	AutoPlay bool `yaml:"auto_play" mapstructure:"auto_play"`
	// Pause before auto-play so the reader can find the focal point
	StartDelay time.Duration `yaml:"start_delay" mapstructure:"start_delay"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WPM:         DefaultWPM,
		SmartPauses: true,
		SpeedStep:   25,
		JumpStep:    10,
		AutoPlay:    true,
		StartDelay:  500 * time.Millisecond,
	}
}

// Validate checks the configuration. The speed is clamped rather than
// rejected.
func (c *Config) Validate() error {
	c.WPM = ClampWPM(c.WPM)

	if c.SpeedStep < 1 || c.SpeedStep > 200 {
		return fmt.Errorf("speed_step must be between 1 and 200, got %d", c.SpeedStep)
	}

	if c.JumpStep < 1 || c.JumpStep > 1000 {
		return fmt.Errorf("jump_step must be between 1 and 1000, got %d", c.JumpStep)
	}

	if c.StartDelay < 0 || c.StartDelay > 10*time.Second {
		return fmt.Errorf("start_delay must be between 0s and 10s, got %v", c.StartDelay)
	}

	return nil
}
