package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

const appDirName = ".mtg-playgroup"

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Import   ImportConfig   `toml:"import"`
	Scryfall ScryfallConfig `toml:"scryfall"`
	Storage  StorageConfig  `toml:"storage"`
	App      AppConfig      `toml:"app"`
}

// ServerConfig contains REST server settings.
type ServerConfig struct {
	Port           int      `toml:"port" env:"PLAYGROUP_PORT"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "60s"
}

// ImportConfig contains deck provider settings.
type ImportConfig struct {
	Timeout            string   `toml:"timeout" env:"PLAYGROUP_IMPORT_TIMEOUT"` // per-import deadline
	UserAgent          string   `toml:"user_agent"`
	MoxfieldEndpoints  []string `toml:"moxfield_endpoints"`  // tried in order, %s is the deck id
	ArchidektEndpoints []string `toml:"archidekt_endpoints"` // tried in order, %s is the deck id
}

// ScryfallConfig contains card catalog settings.
type ScryfallConfig struct {
	BaseURL          string `toml:"base_url" env:"PLAYGROUP_SCRYFALL_URL"`
	RateLimit        string `toml:"rate_limit"`      // minimum delay between requests
	RequestTimeout   string `toml:"request_timeout"` // per HTTP request
	BatchConcurrency int    `toml:"batch_concurrency" env:"PLAYGROUP_BATCH_CONCURRENCY"`
}

// StorageConfig contains database settings.
type StorageConfig struct {
	Path string `toml:"path" env:"PLAYGROUP_DB_PATH"` // empty = ~/.mtg-playgroup/decks.db
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode" env:"PLAYGROUP_DEBUG"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			RequestTimeout: "60s",
		},
		Import: ImportConfig{
			Timeout:   "45s",
			UserAgent: "MTG-Playgroup/1.0",
			MoxfieldEndpoints: []string{
				"https://api2.moxfield.com/v3/decks/all/%s",
				"https://api.moxfield.com/v2/decks/all/%s",
				"https://api2.moxfield.com/v2/decks/all/%s",
			},
			ArchidektEndpoints: []string{
				"https://archidekt.com/api/decks/%s/?format=json",
				"https://archidekt.com/api/decks/%s/small/",
			},
		},
		Scryfall: ScryfallConfig{
			BaseURL:          "https://api.scryfall.com",
			RateLimit:        "100ms",
			RequestTimeout:   "30s",
			BatchConcurrency: 1,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// Dir returns the application directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return dir, nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path. An empty path means DefaultPath.
// Returns the default config if the file doesn't exist. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides fields from PLAYGROUP_* environment variables.
// Unset variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	durations := map[string]string{
		"server request timeout":   c.Server.RequestTimeout,
		"import timeout":           c.Import.Timeout,
		"scryfall rate limit":      c.Scryfall.RateLimit,
		"scryfall request timeout": c.Scryfall.RequestTimeout,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
		if d < 0 {
			return fmt.Errorf("%s cannot be negative: %s", name, value)
		}
	}

	if c.Scryfall.BatchConcurrency < 1 {
		return fmt.Errorf("scryfall batch concurrency must be at least 1: %d", c.Scryfall.BatchConcurrency)
	}

	if c.Scryfall.BaseURL == "" {
		return fmt.Errorf("scryfall base url cannot be empty")
	}

	if len(c.Import.MoxfieldEndpoints) == 0 || len(c.Import.ArchidektEndpoints) == 0 {
		return fmt.Errorf("import endpoints cannot be empty")
	}

	return nil
}

// GetImportTimeout returns the per-import deadline.
func (c *Config) GetImportTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Import.Timeout)
}

// GetRequestTimeout returns the HTTP server request timeout.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetScryfallRateLimit returns the minimum delay between catalog requests.
func (c *Config) GetScryfallRateLimit() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RateLimit)
}

// GetScryfallTimeout returns the per-request catalog timeout.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.RequestTimeout)
}

// DatabasePath returns the configured database path or the default one.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "decks.db"), nil
}
