// Package config loads the finweb configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"
)

// Config holds all finweb configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Store   StoreConfig   `toml:"store"`
	Session SessionConfig `toml:"session"`
	Guard   GuardConfig   `toml:"guard"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig locates the finance API.
type APIConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// StoreConfig locates the token database.
type StoreConfig struct {
	Path string `toml:"path"`
}

type SessionConfig struct {
	// ExpiryCheck discards a stored token whose exp claim has passed.
	ExpiryCheck bool `toml:"expiry_check"`
}

// GuardConfig sets where the route guards redirect to.
type GuardConfig struct {
	Destination string `toml:"destination"`
	Fallback    string `toml:"fallback"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`

	// LoginAttempts is the number of sign in attempts allowed per client
	// per minute.
	LoginAttempts int `toml:"login_attempts"`

	// Proxied takes client addresses from X-Forwarded-For; only for a
	// server behind a reverse proxy.
	Proxied bool `toml:"proxied"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as "30s" in the config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Environment variables overriding the file.
const (
	EnvAPIURL   = "FINWEB_API_URL"
	EnvLogLevel = "FINWEB_LOG_LEVEL"
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration{30 * time.Second},
		},
		Store: StoreConfig{
			Path: filepath.Join(StateDir(), "tokens.db"),
		},
		Guard: GuardConfig{
			Destination: "/dashboard",
			Fallback:    "/login",
		},
		Server: ServerConfig{
			Listen:        "127.0.0.1:7070",
			LoginAttempts: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finweb")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "finweb")
}

// StateDir returns the XDG-compliant state directory, home of the token
// database.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "finweb")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "finweb")
}

// Path returns the full path to the default config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path, returning defaults if it doesn't
// exist. Environment variables take precedence over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.API.BaseURL = url
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.API.BaseURL == "":
		return fmt.Errorf("config: api.base_url is empty")
	case c.API.Timeout.Duration <= 0:
		return fmt.Errorf("config: api.timeout must be positive")
	case !strings.HasPrefix(c.Guard.Fallback, "/"):
		return fmt.Errorf("config: guard.fallback must be a path, got %q", c.Guard.Fallback)
	case !strings.HasPrefix(c.Guard.Destination, "/"):
		return fmt.Errorf("config: guard.destination must be a path, got %q", c.Guard.Destination)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Write(f, cfg)
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Logger creates the root logger at the configured level.
func (c Config) Logger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "finweb",
		Level:  hclog.LevelFromString(c.Log.Level),
		Output: os.Stderr,
	})
}
