package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable holding an explicit config path.
const ConfigEnv = "GALA_CONFIG"

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// Path returns the config file Load reads, or "" if none was found.
	Path() string
}

// loader implements the Loader interface.
type loader struct {
	configPath string
	explicit   bool
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, the file named by $GALA_CONFIG is used, then
// ./gala.yaml, then DefaultConfigPath(). A missing file in those fallback
// locations is not an error; a missing explicit file is.
func NewLoader(configPath string) Loader {
	if configPath == "" {
		configPath = os.Getenv(ConfigEnv)
	}
	if configPath != "" {
		return &loader{configPath: configPath, explicit: true}
	}
	return &loader{configPath: findConfigFile()}
}

// Path implements Loader.Path.
func (l *loader) Path() string {
	return l.configPath
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	if l.configPath != "" {
		err := mergeFile(cfg, l.configPath)
		switch {
		case err == nil:
		case errors.Is(err, ErrConfigNotFound) && !l.explicit:
			// Fallback location vanished since lookup; keep defaults.
		default:
			return nil, fmt.Errorf("failed to load config from %s: %w", l.configPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// mergeFile decodes the YAML file at path over cfg.
//
// Keys absent from the file keep the values already in cfg.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
//
// Returns empty string if no config file is found.
func findConfigFile() string {
	candidates := []string{
		"./gala.yaml",
		DefaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Load is a convenience function that creates a loader and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile loads configuration from path, which must exist.
//
// Environment overrides still apply on top of the file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
