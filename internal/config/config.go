// Package config loads imsdash configuration. Values start from defaults,
// are overlaid by an optional YAML file, and finally by IMSDASH_-prefixed
// environment variables; environment always wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all imsdash settings.
type Config struct {
	API  APIConfig  `yaml:"api" envPrefix:"API_"`
	View ViewConfig `yaml:"view" envPrefix:"VIEW_"`

	// StateDir is where the session file lives. Empty means
	// os.UserConfigDir()/imsdash.
	StateDir string `yaml:"state_dir" env:"STATE_DIR"`

	Theme    string `yaml:"theme" env:"THEME"` // auto, light, dark
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// APIConfig configures the upstream mock REST API client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// ViewConfig configures the candidate data view.
type ViewConfig struct {
	PageSize       int           `yaml:"page_size" env:"PAGE_SIZE"`
	DebounceWindow time.Duration `yaml:"debounce_window" env:"DEBOUNCE_WINDOW"`
}

// FileName is the optional config file looked up in the current directory and
// the state dir.
const FileName = "imsdash.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://dummyjson.com",
			Timeout: 15 * time.Second,
		},
		View: ViewConfig{
			PageSize:       10,
			DebounceWindow: 250 * time.Millisecond,
		},
		Theme:    "auto",
		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, then the YAML file if present,
// then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path, ok := findFile(); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "IMSDASH_"}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base URL must not be empty")
	}
	if c.View.PageSize < 1 {
		return fmt.Errorf("page size must be >= 1, got %d", c.View.PageSize)
	}
	if c.View.DebounceWindow < 0 {
		return fmt.Errorf("debounce window must not be negative, got %s", c.View.DebounceWindow)
	}
	switch c.Theme {
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	return nil
}

// ResolveStateDir returns the directory for persisted state, creating it if
// needed.
func (c *Config) ResolveStateDir() (string, error) {
	dir := c.StateDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, "imsdash")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return dir, nil
}

func findFile() (string, bool) {
	candidates := []string{FileName}
	if base, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(base, "imsdash", FileName))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
