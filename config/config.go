// ABOUTME: Runtime configuration stored at an XDG path with environment overrides
// ABOUTME: Selects the storage backend, data directory, log level, and service options
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harperreed/nexus/kv"
)

const (
	// AppName names the XDG data directory.
	AppName = "nexus"

	// ConfigFileName is the config file inside the data directory.
	ConfigFileName = "config.json"
)

// Config holds local settings.
type Config struct {
	// DataDir is where the selected backend keeps its files.
	DataDir string `json:"data_dir,omitempty"`

	// Backend is "badger" or "sqlite".
	Backend string `json:"backend,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// SimulateLatency delays each service call the way a remote backend would.
	SimulateLatency bool `json:"simulate_latency"`

	// PersistLeads keeps leads in the store instead of process memory.
	PersistLeads bool `json:"persist_leads"`
}

// Dir returns the XDG data directory for nexus.
func Dir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		DataDir:  Dir(),
		Backend:  kv.BackendBadger,
		LogLevel: "info",
	}
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads config from path, falling back to defaults when the file
// does not exist. A .env file in the working directory is loaded first, then
// environment variables override file values:
// - NEXUS_DATA_DIR
// - NEXUS_BACKEND
// - NEXUS_LOG_LEVEL
// - NEXUS_SIMULATE_LATENCY
// - NEXUS_PERSIST_LEADS.
func LoadFrom(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if dir := os.Getenv("NEXUS_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if backend := os.Getenv("NEXUS_BACKEND"); backend != "" {
		cfg.Backend = backend
	}
	if level := os.Getenv("NEXUS_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if v := os.Getenv("NEXUS_SIMULATE_LATENCY"); v != "" {
		cfg.SimulateLatency = truthy(v)
	}
	if v := os.Getenv("NEXUS_PERSIST_LEADS"); v != "" {
		cfg.PersistLeads = truthy(v)
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (c *Config) fillDefaults() {
	if c.DataDir == "" {
		c.DataDir = Dir()
	}
	if c.Backend == "" {
		c.Backend = kv.BackendBadger
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the backend name and log level.
func (c *Config) Validate() error {
	switch c.Backend {
	case kv.BackendBadger, kv.BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, kv.BackendBadger, kv.BackendSQLite)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// SaveTo writes the config as indented JSON with owner-only permissions.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}
