// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the local development address of the collection service.
const DefaultBaseURL = "http://localhost:5000"

// Config holds all stringlist configuration.
type Config struct {
	API API `yaml:"api"`
	UI  UI  `yaml:"ui"`
	Log Log `yaml:"log"`
}

// API holds collection service settings.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 leaves the transport default
	Token   string        `yaml:"token"`
}

// UI holds presentation settings.
type UI struct {
	Theme   string `yaml:"theme"` // "classic" | "neon" | "mono"
	NoColor bool   `yaml:"no_color"`
}

// Log holds diagnostic output settings.
type Log struct {
	File string `yaml:"file"` // empty discards diagnostics in interactive mode
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{BaseURL: DefaultBaseURL},
		UI:  UI{Theme: "classic"},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("config: api.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must be non-negative, got %v", c.API.Timeout)
	}
	switch c.UI.Theme {
	case "", "classic", "neon", "mono":
		// valid
	default:
		return fmt.Errorf("config: ui.theme must be \"classic\", \"neon\" or \"mono\", got %q", c.UI.Theme)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: STRINGLIST_API_URL, STRINGLIST_TIMEOUT, STRINGLIST_TOKEN, NO_COLOR.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("STRINGLIST_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("STRINGLIST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid STRINGLIST_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("STRINGLIST_TOKEN"); v != "" {
		c.API.Token = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API *rawAPI `yaml:"api"`
	UI  *rawUI  `yaml:"ui"`
	Log *rawLog `yaml:"log"`
}

type rawAPI struct {
	BaseURL *string        `yaml:"base_url"`
	Timeout *time.Duration `yaml:"timeout"`
	Token   *string        `yaml:"token"`
}

type rawUI struct {
	Theme   *string `yaml:"theme"`
	NoColor *bool   `yaml:"no_color"`
}

type rawLog struct {
	File *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		if layer.API.BaseURL != nil {
			c.API.BaseURL = *layer.API.BaseURL
		}
		if layer.API.Timeout != nil {
			c.API.Timeout = *layer.API.Timeout
		}
		if layer.API.Token != nil {
			c.API.Token = *layer.API.Token
		}
	}
	if layer.UI != nil {
		if layer.UI.Theme != nil {
			c.UI.Theme = *layer.UI.Theme
		}
		if layer.UI.NoColor != nil {
			c.UI.NoColor = *layer.UI.NoColor
		}
	}
	if layer.Log != nil && layer.Log.File != nil {
		c.Log.File = *layer.Log.File
	}
}
