package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[[block]]
player = "spotify"
max_width = 30
marquee = false
buttons = ["prev", "play", "next"]

[[block]]
player = "vlc"
marquee_interval = "3s"
marquee_speed = "250ms"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Blocks, 2)

	first := cfg.Blocks[0]
	assert.Equal(t, "spotify", first.Player)
	assert.Equal(t, 30, first.MaxWidth)
	assert.False(t, first.MarqueeEnabled())
	assert.Equal(t, []string{"prev", "play", "next"}, first.Buttons)
	assert.Equal(t, DefaultMarqueeInterval, first.MarqueeInterval.Duration)
	assert.Equal(t, DefaultMarqueeSpeed, first.MarqueeSpeed.Duration)

	second := cfg.Blocks[1]
	assert.Equal(t, "vlc", second.Player)
	assert.Equal(t, DefaultMaxWidth, second.MaxWidth)
	assert.True(t, second.MarqueeEnabled(), "marquee defaults to enabled")
	assert.Equal(t, 3*time.Second, second.MarqueeInterval.Duration)
	assert.Equal(t, 250*time.Millisecond, second.MarqueeSpeed.Duration)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := writeConfig(t, `
[[block]]
player = "spotify"
bogus_knob = 1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus_knob")
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
[[block]]
player = "spotify"
marquee_interval = "not a duration"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing player",
			mutate:  func(c *Config) { c.Blocks[0].Player = "" },
			wantErr: "player name is required",
		},
		{
			name:    "bad max width",
			mutate:  func(c *Config) { c.Blocks[0].MaxWidth = -2 },
			wantErr: "max_width",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Blocks: []BlockConfig{{Player: "spotify"}}}
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := &Config{Blocks: []BlockConfig{
		{Player: "", MaxWidth: 21},
		{Player: "vlc", MaxWidth: 0},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block 0")
	assert.Contains(t, err.Error(), "block 1")
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[[block]]
player = "spotify"
`)

	t.Setenv("MUSEBAR_LOG_LEVEL", "warn")
	t.Setenv("MUSEBAR_PLAYER", "mpd")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "mpd", cfg.Blocks[0].Player)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	// A path that does not exist is not searched; empty path with no
	// config present yields an empty but valid configuration
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Blocks)
	assert.Equal(t, "info", cfg.Log.Level)
}
