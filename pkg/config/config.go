package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/snapline/pkg/align"
	"github.com/matzehuels/snapline/pkg/assist"
	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/learning"
	"github.com/matzehuels/snapline/pkg/magnet"
	"github.com/matzehuels/snapline/pkg/profile"
	"github.com/matzehuels/snapline/pkg/spacing"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "SNAPLINE_CONFIG"

// Config holds all snapline configuration.
type Config struct {
	Alignment align.Config    `toml:"alignment" json:"alignment"`
	Magnetism magnet.Config   `toml:"magnetism" json:"magnetism"`
	Spacing   spacing.Config  `toml:"spacing" json:"spacing"`
	Learning  learning.Config `toml:"learning" json:"learning"`
	Adaptive  bool            `toml:"adaptive" json:"adaptive"`

	Store  profile.Config `toml:"store" json:"store"`
	Server ServerConfig   `toml:"server" json:"server"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Bind    string `toml:"bind" json:"bind"`
	Port    int    `toml:"port" json:"port"`
	Profile string `toml:"profile" json:"profile"` // learning profile served
}

// Default returns a Config with sensible defaults.
func Default() Config {
	engine := assist.DefaultConfig()
	return Config{
		Alignment: engine.Alignment,
		Magnetism: engine.Magnetism,
		Spacing:   engine.Spacing,
		Learning:  engine.Learning,
		Adaptive:  engine.Adaptive,
		Store:     profile.DefaultConfig(),
		Server: ServerConfig{
			Bind:    "127.0.0.1",
			Port:    7411,
			Profile: profile.DefaultName,
		},
	}
}

// Engine returns the engine part of the configuration.
func (c Config) Engine() assist.Config {
	return assist.Config{
		Alignment: c.Alignment,
		Magnetism: c.Magnetism,
		Spacing:   c.Spacing,
		Learning:  c.Learning,
		Adaptive:  c.Adaptive,
	}
}

// ListenAddr returns the bind:port address string.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve loads the configuration for an explicit path, falling back to
// the environment variable and then the default location. Only a missing
// file at the default location yields the defaults without error.
func Resolve(explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}

	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/snapline/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "snapline", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "snapline", "config.toml"), nil
}

// Validate rejects values the managers cannot sanitize into something
// meaningful.
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{positive(c.Alignment.Threshold), "alignment.threshold must be a positive number"},
		{nonNegative(c.Alignment.MergeThreshold), "alignment.merge_threshold must not be negative"},
		{nonNegative(c.Alignment.GridSize), "alignment.grid_size must not be negative"},
		{positive(c.Magnetism.Radius), "magnetism.radius must be a positive number"},
		{inRange(c.Magnetism.Strength, 0, 2), "magnetism.strength must be within [0, 2]"},
		{nonNegative(c.Magnetism.GridSize), "magnetism.grid_size must not be negative"},
		{nonNegative(c.Spacing.Tolerance), "spacing.tolerance must not be negative"},
		{positive(c.Spacing.MaxGap), "spacing.max_gap must be a positive number"},
		{validLadder(c.Spacing.Ladder), "spacing.ladder values must be positive numbers"},
		{c.Learning.Capacity >= 1, "learning.capacity must be at least 1"},
		{inRange(c.Learning.LearningRate, 0, 1) && c.Learning.LearningRate > 0, "learning.learning_rate must be within (0, 1]"},
		{inRange(c.Learning.Decay, 0, 1) && c.Learning.Decay > 0, "learning.decay must be within (0, 1]"},
		{c.Learning.MinActivations >= 0, "learning.min_activations must not be negative"},
		{c.Server.Port > 0 && c.Server.Port < 65536, "server.port must be within [1, 65535]"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return errors.New(errors.ErrCodeInvalidConfig, "%s", ch.msg)
		}
	}
	if err := errors.ValidateProfileName(c.Server.Profile); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.profile")
	}
	return c.Store.Validate()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func positive(v float64) bool { return finite(v) && v > 0 }

func nonNegative(v float64) bool { return finite(v) && v >= 0 }

func inRange(v, lo, hi float64) bool { return finite(v) && v >= lo && v <= hi }

func validLadder(ladder []float64) bool {
	for _, v := range ladder {
		if !positive(v) {
			return false
		}
	}
	return true
}
