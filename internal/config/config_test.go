package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/ulala/internal/asset"
	"github.com/jmylchreest/ulala/internal/playback"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ulala.wav", cfg.Asset.Name)
	assert.True(t, cfg.Device.Enabled)
	assert.Equal(t, []string{"/dev/dsp", "/dev/audio"}, cfg.Device.Paths)
	assert.True(t, cfg.Device.Pulse)
	assert.True(t, cfg.Player.Enabled)
	assert.Equal(t, "afplay", cfg.Player.Command)
	assert.Empty(t, cfg.Player.Args)
	assert.False(t, cfg.Player.StrictExitStatus)
	assert.True(t, cfg.Library.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.Library.Buffer.Duration())
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfig_MatchesComponentDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, asset.DefaultName, cfg.Asset.Name)
	assert.Equal(t, playback.DefaultPlayerCommand, cfg.Player.Command)
	assert.Equal(t, playback.DefaultSpeakerBuffer, cfg.Library.Buffer.Duration())
}

func TestDefaultConfig_DevicePathsNotShared(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device.Paths[0] = "/dev/null"

	assert.Equal(t, "/dev/dsp", DefaultDevicePaths[0])
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[asset]
name = "sounds/chime.ogg"

[device]
enabled = false
paths = ["/dev/dsp1"]
pulse = false

[player]
command = "paplay"
args = ["--volume", "32768"]
strict_exit_status = true

[library]
buffer = "250ms"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sounds/chime.ogg", cfg.Asset.Name)
	assert.False(t, cfg.Device.Enabled)
	assert.Equal(t, []string{"/dev/dsp1"}, cfg.Device.Paths)
	assert.False(t, cfg.Device.Pulse)
	assert.True(t, cfg.Player.Enabled)
	assert.Equal(t, "paplay", cfg.Player.Command)
	assert.Equal(t, []string{"--volume", "32768"}, cfg.Player.Args)
	assert.True(t, cfg.Player.StrictExitStatus)
	assert.True(t, cfg.Library.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.Library.Buffer.Duration())
}

func TestLoadConfig_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[player]
command = "aplay"
`
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Changed field
	assert.Equal(t, "aplay", cfg.Player.Command)

	// Unchanged fields should have defaults
	assert.Equal(t, "ulala.wav", cfg.Asset.Name)
	assert.True(t, cfg.Device.Enabled)
	assert.Equal(t, DefaultSpeakerBuffer, cfg.Library.Buffer)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	err := os.WriteFile(path, []byte(`this is not valid toml [`), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty asset", "[asset]\nname = \"\"\n"},
		{"empty command", "[player]\ncommand = \"\"\n"},
		{"bad duration", "[library]\nbuffer = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EmptyCommandAllowedWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[player]\nenabled = false\ncommand = \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Player.Enabled)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"250", 250 * time.Millisecond},
		{"100ms", 100 * time.Millisecond},
		{"1s", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalText([]byte(tt.input)))
			assert.Equal(t, tt.expected, d.Duration())
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "config.toml")

	cfg := DefaultConfig()
	cfg.Player.Command = "paplay"
	cfg.Library.Buffer = Duration(50 * time.Millisecond)

	err := cfg.Save(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "paplay", loaded.Player.Command)
	assert.Equal(t, 50*time.Millisecond, loaded.Library.Buffer.Duration())
}

func TestConfig_Strategies(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{StrategyDevice, StrategyCommand, StrategyLibrary}, cfg.Strategies())

	cfg.Player.Enabled = false
	assert.Equal(t, []string{"device", "library"}, cfg.Strategies())

	cfg.Device.Enabled = false
	cfg.Library.Enabled = false
	assert.Empty(t, cfg.Strategies())
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/ulala/config.toml", ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	path := ConfigPath()
	assert.Contains(t, path, filepath.Join("ulala", "config.toml"))
}
