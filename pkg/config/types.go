// Package config provides configuration management for gala.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Configuration file
// 4. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Saves live under: %s\n", cfg.Storage.BaseDir)
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/0xmhha/gala/pkg/logger"
	"github.com/0xmhha/gala/pkg/schema"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Storage.BaseDir must not be empty
// - Store.MaxConnections and Store.BusyTimeout must be > 0
// - Store.Variant must name GameBoard or MatchResults
// - Catalog.ProbeWorkers must be > 0
// - Watch.DebounceInterval must be > 0.
type Config struct {
	// Where saves and the bookmark file live
	Storage StorageConfig `yaml:"storage"`

	// Active save pool settings
	Store StoreConfig `yaml:"store"`

	// Save listing settings
	Catalog CatalogConfig `yaml:"catalog"`

	// Output settings
	Display DisplayConfig `yaml:"display"`

	// Saves directory watch settings
	Watch WatchConfig `yaml:"watch"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig contains filesystem locations.
type StorageConfig struct {
	// Application directory; saves go in its "saves" subdirectory
	BaseDir string `yaml:"base_dir" env:"GALA_BASE_DIR"`

	// Path to the BoltDB bookmark file; empty means <base_dir>/state.db
	StateDB string `yaml:"state_db,omitempty" env:"GALA_STATE_DB"`
}

// StoreConfig contains settings for the active save.
type StoreConfig struct {
	// Connection pool size
	MaxConnections int `yaml:"max_connections"`

	// How long a connection waits on a locked save
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// State table for new saves (GameBoard, MatchResults)
	Variant string `yaml:"variant" env:"GALA_VARIANT"`
}

// CatalogConfig contains save listing settings.
type CatalogConfig struct {
	// Saves probed at once; 1 is strictly sequential
	ProbeWorkers int `yaml:"probe_workers" env:"GALA_PROBE_WORKERS"`
}

// DisplayConfig contains output settings.
type DisplayConfig struct {
	// Default output format (table, json, simple)
	DefaultFormat string `yaml:"default_format"`
}

// WatchConfig contains saves directory watch settings.
type WatchConfig struct {
	// Quiet period before a burst of file events is reported
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" env:"GALA_LOG_LEVEL"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// StateDBPath returns the bookmark file path, derived from BaseDir when
// StateDB is unset.
func (c *Config) StateDBPath() string {
	if c.Storage.StateDB != "" {
		return c.Storage.StateDB
	}
	return filepath.Join(c.Storage.BaseDir, stateDBName)
}

// StoreVariant returns the parsed Store.Variant.
// Call Validate first; an invalid value yields schema.VariantGameBoard.
func (c *Config) StoreVariant() schema.Variant {
	v, err := schema.ParseVariant(c.Store.Variant)
	if err != nil {
		return schema.VariantGameBoard
	}
	return v
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Output: c.Logging.Output,
		Format: c.Logging.Format,
	}
}

// Validate checks if the configuration satisfies all invariants.
//
// Returns the first violated invariant as one of the package's sentinel
// errors.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.BaseDir) == "" {
		return ErrNoBaseDir
	}

	if c.Store.MaxConnections <= 0 {
		return ErrInvalidMaxConnections
	}
	if c.Store.BusyTimeout <= 0 {
		return ErrInvalidBusyTimeout
	}
	if _, err := schema.ParseVariant(c.Store.Variant); err != nil {
		return ErrInvalidVariant
	}

	if c.Catalog.ProbeWorkers <= 0 {
		return ErrInvalidProbeWorkers
	}

	switch c.Display.DefaultFormat {
	case "table", "json", "simple":
	default:
		return ErrInvalidDisplayFormat
	}

	if c.Watch.DebounceInterval <= 0 {
		return ErrInvalidDebounce
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil || c.Logging.Level == "" {
		return ErrInvalidLogLevel
	}
	switch c.Logging.Format {
	case logger.FormatText, logger.FormatJSON:
	default:
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			BaseDir: defaultBaseDir(),
		},
		Store: StoreConfig{
			MaxConnections: 5,
			BusyTimeout:    5 * time.Second,
			Variant:        string(schema.VariantGameBoard),
		},
		Catalog: CatalogConfig{
			ProbeWorkers: 1,
		},
		Display: DisplayConfig{
			DefaultFormat: "table",
		},
		Watch: WatchConfig{
			DebounceInterval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: logger.FormatText,
		},
	}
}
