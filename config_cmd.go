package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/charmbracelet/x/editor"
	"github.com/dgnsrekt/skim/rsvp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# reading speed in words per minute (100-800)
wpm: 300
# linger on long words and punctuation
smart_pauses: true
# words per minute added or removed by up/down
speed_step: 25
# words skipped by shift+left/right
jump_step: 10
# start reading as soon as text is loaded
auto_play: true
# pause before auto-play starts
start_delay: "500ms"
# mouse support: click to play/pause, wheel to change speed
mouse: false
# write debug logs to the cache directory
debug: false

# documents fetched from URLs
cache:
  enabled: true
  # refetch documents older than this
  ttl: "24h"
  # disk space for cached documents, in MB
  max_size: 128
`

var printConfig bool

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the skim config file",
	Long:    paragraph(fmt.Sprintf("\n%s the skim config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("skim config\nskim config --config path/to/config.yml\nskim config --print"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if printConfig {
			return writeEffectiveConfig(cmd.OutOrStdout())
		}

		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("skim", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&printConfig, "print", false, "print the effective configuration instead of editing it")
}

// fileConfig mirrors the layout of skim.yml.
type fileConfig struct {
	rsvp.Config `yaml:",inline"`

	Mouse bool        `yaml:"mouse"`
	Debug bool        `yaml:"debug"`
	Cache cacheConfig `yaml:"cache"`
}

type cacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	MaxSize int64         `yaml:"max_size"`
}

// effectiveConfig merges defaults, the config file, the environment and
// flags the way the reader sees them.
func effectiveConfig(v *viper.Viper) (fileConfig, error) {
	reader, err := rsvp.LoadConfig(v)
	if err != nil {
		return fileConfig{}, err
	}

	return fileConfig{
		Config: reader,
		Mouse:  v.GetBool("mouse"),
		Debug:  v.GetBool("debug"),
		Cache: cacheConfig{
			Enabled: v.GetBool("cache.enabled"),
			TTL:     v.GetDuration("cache.ttl"),
			MaxSize: v.GetInt64("cache.max_size"),
		},
	}, nil
}

func writeEffectiveConfig(w io.Writer) error {
	cfg, err := effectiveConfig(viper.GetViper())
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("unable to encode config: %w", err)
	}
	return enc.Close()
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
