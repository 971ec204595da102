package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends for the local key-value state.
const (
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Config represents the global ~/.parley/config.toml.
type Config struct {
	DefaultProfile string   `toml:"default_profile"`
	Server         Server   `toml:"server"`
	Storage        Storage  `toml:"storage"`
	Features       Features `toml:"features"`
	Log            Log      `toml:"log"`
	Metrics        Metrics  `toml:"metrics"`
}

// Server configures the remote chat service.
type Server struct {
	BaseURL     string   `toml:"base_url"`
	Timeout     Duration `toml:"timeout"`
	AskTimeout  Duration `toml:"ask_timeout"`
	SaveTimeout Duration `toml:"save_timeout"`
}

// Storage selects where the token and preferences are kept.
type Storage struct {
	Backend string `toml:"backend"`
}

// Features toggles optional parts of the client.
type Features struct {
	Conversations bool `toml:"conversations"`
	ThemeSwitch   bool `toml:"theme_switch"`
}

// Log configures the file logger.
type Log struct {
	Level string `toml:"level"`
}

// Metrics configures the optional Prometheus endpoint.
type Metrics struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("15s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultProfile: "main",
		Server: Server{
			BaseURL:     "http://localhost:5000",
			Timeout:     Duration{15 * time.Second},
			AskTimeout:  Duration{30 * time.Second},
			SaveTimeout: Duration{5 * time.Second},
		},
		Storage:  Storage{Backend: BackendSQLite},
		Features: Features{Conversations: true, ThemeSwitch: true},
		Log:      Log{Level: "info"},
	}
}

// Load reads config from the given path. Returns nil config and error if file missing.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// LoadOrDefault reads config from path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.DefaultProfile == "" {
		c.DefaultProfile = def.DefaultProfile
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.Timeout.Duration <= 0 {
		c.Server.Timeout = def.Server.Timeout
	}
	if c.Server.AskTimeout.Duration <= 0 {
		c.Server.AskTimeout = def.Server.AskTimeout
	}
	if c.Server.SaveTimeout.Duration <= 0 {
		c.Server.SaveTimeout = def.Server.SaveTimeout
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate reports configuration values the client cannot run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendPebble:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url is required")
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
