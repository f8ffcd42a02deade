package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

// Defaults for a music block
const (
	DefaultMaxWidth        = 21
	DefaultMarqueeInterval = 10 * time.Second
	DefaultMarqueeSpeed    = 500 * time.Millisecond
)

// Duration wraps time.Duration so it can be written as "10s" in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the root configuration structure
type Config struct {
	Blocks []BlockConfig `toml:"block"`
	Log    LogConfig     `toml:"log"`
}

// BlockConfig configures one music block
type BlockConfig struct {
	// Player is the name the player is registered with on the
	// MediaPlayer2 interface (e.g. "spotify"). Required.
	Player string `toml:"player"`

	// MaxWidth is the max width of the block in characters, not
	// including the buttons
	MaxWidth int `toml:"max_width"`

	// Marquee selects scrolling presentation when title + artist is
	// longer than max_width. Defaults to true.
	Marquee *bool `toml:"marquee"`

	// MarqueeInterval is the delay between each full rotation
	MarqueeInterval Duration `toml:"marquee_interval"`

	// MarqueeSpeed is the scrolling time used per character
	MarqueeSpeed Duration `toml:"marquee_speed"`

	// Buttons lists the control buttons to display. Options are prev,
	// play and next; order in this list does not matter.
	Buttons []string `toml:"buttons"`
}

// MarqueeEnabled reports whether this block scrolls, applying the default
func (b *BlockConfig) MarqueeEnabled() bool {
	if b.Marquee == nil {
		return true
	}
	return *b.Marquee
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
}

// Load reads configuration from the given path, or from standard
// locations when path is empty, and applies defaults and environment
// overrides. Search order: $XDG_CONFIG_HOME/musebar/config.toml,
// ~/.config/musebar/config.toml.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown configuration key %q in %s", undecoded[0].String(), path)
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields with their documented defaults
func (c *Config) ApplyDefaults() {
	for i := range c.Blocks {
		b := &c.Blocks[i]
		if b.MaxWidth == 0 {
			b.MaxWidth = DefaultMaxWidth
		}
		if b.MarqueeInterval.Duration == 0 {
			b.MarqueeInterval.Duration = DefaultMarqueeInterval
		}
		if b.MarqueeSpeed.Duration == 0 {
			b.MarqueeSpeed.Duration = DefaultMarqueeSpeed
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for errors, reporting all of them
func (c *Config) Validate() error {
	var errs error
	for i, b := range c.Blocks {
		if b.Player == "" {
			errs = multierr.Append(errs, fmt.Errorf("block %d: player name is required", i))
		}
		if b.MaxWidth < 1 {
			errs = multierr.Append(errs, fmt.Errorf("block %d: max_width must be at least 1", i))
		}
	}
	return errs
}

// findConfigFile returns the first existing config file path
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	path := filepath.Join(xdgConfig, "musebar", "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MUSEBAR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MUSEBAR_PLAYER"); v != "" {
		// Convenience override for single-block setups
		if len(cfg.Blocks) == 0 {
			cfg.Blocks = append(cfg.Blocks, BlockConfig{})
			cfg.ApplyDefaults()
		}
		cfg.Blocks[0].Player = v
	}
}
