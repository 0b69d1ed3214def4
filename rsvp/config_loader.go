package rsvp

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFromViper reads reader settings from the global Viper instance,
// keeping defaults for anything unset.
func LoadConfigFromViper() (Config, error) {
	return LoadConfig(viper.GetViper())
}

// LoadConfig reads reader settings from v.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	if v.IsSet("wpm") {
		cfg.WPM = v.GetInt("wpm")
	}
	if v.IsSet("smart_pauses") {
		cfg.SmartPauses = v.GetBool("smart_pauses")
	}
	if v.IsSet("speed_step") {
		cfg.SpeedStep = v.GetInt("speed_step")
	}
	if v.IsSet("jump_step") {
		cfg.JumpStep = v.GetInt("jump_step")
	}
	if v.IsSet("auto_play") {
		cfg.AutoPlay = v.GetBool("auto_play")
	}
	if v.IsSet("start_delay") {
		cfg.StartDelay = v.GetDuration("start_delay")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid reader configuration: %w", err)
	}

	return cfg, nil
}
