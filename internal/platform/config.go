package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/inkwell/pkg/api"
)

// Environment variables layered over the config files.
const (
	EnvMode     = "INKWELL_MODE"
	EnvAPIURL   = "INKWELL_API_URL"
	EnvStateDir = "INKWELL_STATE_DIR"
)

// Config is the complete client configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	State StateConfig `yaml:"state"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig selects the backend.
type APIConfig struct {
	// Mode is "development" or "production". Empty means detect from the binary.
	Mode string `yaml:"mode,omitempty"`
	// DevelopmentURL is used in development mode.
	DevelopmentURL string `yaml:"development_url"`
	// ProductionURL is used in production mode and is required there.
	ProductionURL string `yaml:"production_url,omitempty"`
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// StateConfig locates the persisted session.
type StateConfig struct {
	// Dir holds the token and user files. Empty means the user config dir.
	Dir string `yaml:"dir,omitempty"`
}

// LogConfig configures the CLI log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with the local development backend.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			DevelopmentURL: api.DevelopmentURL,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	mode, err := c.Mode()
	if err != nil {
		return err
	}
	if mode == api.ModeProduction && c.API.ProductionURL == "" {
		return fmt.Errorf("api.production_url is required in production mode")
	}
	if mode == api.ModeDevelopment && c.API.DevelopmentURL == "" {
		return fmt.Errorf("api.development_url is required in development mode")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Mode resolves the configured mode, falling back to api.DefaultMode.
func (c *Config) Mode() (api.Mode, error) {
	if c.API.Mode == "" {
		return api.DefaultMode(), nil
	}
	return api.ParseMode(c.API.Mode)
}

// BaseURL returns the backend URL for the resolved mode.
func (c *Config) BaseURL() (string, error) {
	mode, err := c.Mode()
	if err != nil {
		return "", err
	}
	if mode == api.ModeProduction {
		if c.API.ProductionURL == "" {
			return "", fmt.Errorf("no production URL configured")
		}
		return c.API.ProductionURL, nil
	}
	return c.API.DevelopmentURL, nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one. Non-zero values in other win.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.API.Mode != "" {
		c.API.Mode = other.API.Mode
	}
	if other.API.DevelopmentURL != "" {
		c.API.DevelopmentURL = other.API.DevelopmentURL
	}
	if other.API.ProductionURL != "" {
		c.API.ProductionURL = other.API.ProductionURL
	}
	if other.API.Timeout != 0 {
		c.API.Timeout = other.API.Timeout
	}

	if other.State.Dir != "" {
		c.State.Dir = other.State.Dir
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

// ApplyEnv overlays the INKWELL_* environment variables.
// INKWELL_API_URL sets the URL of whichever mode ends up selected.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvMode)); v != "" {
		c.API.Mode = v
	}
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		if mode, err := c.Mode(); err == nil && mode == api.ModeProduction {
			c.API.ProductionURL = v
		} else {
			c.API.DevelopmentURL = v
		}
	}
	if v := strings.TrimSpace(getenv(EnvStateDir)); v != "" {
		c.State.Dir = v
	}
}
