// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/ulala/internal/asset"
	"github.com/jmylchreest/ulala/internal/playback"
)

// Default configuration values.
const (
	DefaultAssetName     = asset.DefaultName
	DefaultPlayerCommand = playback.DefaultPlayerCommand
	DefaultSpeakerBuffer = Duration(playback.DefaultSpeakerBuffer)
)

// Strategy names, in attempt order.
const (
	StrategyDevice  = "device"
	StrategyCommand = "command"
	StrategyLibrary = "library"
)

// DefaultDevicePaths are the OSS device nodes tried by the device strategy.
var DefaultDevicePaths = []string{"/dev/dsp", "/dev/audio"}

// Config represents the ulala configuration.
type Config struct {
	Asset   AssetConfig   `toml:"asset"`
	Device  DeviceConfig  `toml:"device"`
	Player  PlayerConfig  `toml:"player"`
	Library LibraryConfig `toml:"library"`
}

// AssetConfig selects the sound file.
type AssetConfig struct {
	Name string `toml:"name"` // Relative to the program directory unless absolute
}

// DeviceConfig holds native audio device settings.
type DeviceConfig struct {
	Enabled bool     `toml:"enabled"`
	Paths   []string `toml:"paths"` // OSS device nodes, tried in order
	Pulse   bool     `toml:"pulse"` // Fall back to a PulseAudio stream (Linux)
}

// PlayerConfig holds external player command settings.
type PlayerConfig struct {
	Enabled          bool     `toml:"enabled"`
	Command          string   `toml:"command"`
	Args             []string `toml:"args"` // Passed before the file path
	StrictExitStatus bool     `toml:"strict_exit_status"`
}

// LibraryConfig holds playback library settings.
type LibraryConfig struct {
	Enabled bool     `toml:"enabled"`
	Buffer  Duration `toml:"buffer"` // Speaker buffer length
}

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "100ms", "1s", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '100ms', '1s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Asset: AssetConfig{
			Name: DefaultAssetName,
		},
		Device: DeviceConfig{
			Enabled: true,
			Paths:   append([]string(nil), DefaultDevicePaths...),
			Pulse:   true,
		},
		Player: PlayerConfig{
			Enabled: true,
			Command: DefaultPlayerCommand,
		},
		Library: LibraryConfig{
			Enabled: true,
			Buffer:  DefaultSpeakerBuffer,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "ulala", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail at playback time.
func (c *Config) Validate() error {
	if c.Asset.Name == "" {
		return errors.New("asset.name must not be empty")
	}
	if c.Player.Enabled && c.Player.Command == "" {
		return errors.New("player.command must not be empty when the player is enabled")
	}
	if c.Library.Buffer < 0 {
		return errors.New("library.buffer must not be negative")
	}
	return nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Strategies returns the names of the enabled strategies in attempt order.
func (c *Config) Strategies() []string {
	var names []string
	if c.Device.Enabled {
		names = append(names, StrategyDevice)
	}
	if c.Player.Enabled {
		names = append(names, StrategyCommand)
	}
	if c.Library.Enabled {
		names = append(names, StrategyLibrary)
	}
	return names
}
