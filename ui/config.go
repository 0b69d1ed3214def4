package ui

import "github.com/dgnsrekt/skim/rsvp"

// Config contains TUI-specific configuration.
type Config struct {
	// Reader settings, filled in from the config file and flags
	Reader rsvp.Config

	EnableMouse bool
	HomeDir     string `env:"HOME"`

	// Reload the source file when it changes on disk
	WatchFiles bool `env:"SKIM_WATCH" envDefault:"true"`
	// Colour of the fixation character and progress bar
	Accent string `env:"SKIM_ACCENT" envDefault:"#FF5F87"`

	// For debugging the UI
	AltScreen bool `env:"SKIM_ALT_SCREEN" envDefault:"true"`
}
