package config

import (
	"path/filepath"

	"github.com/0xmhha/gala/pkg/savedir"
)

const (
	stateDBName    = "state.db"
	configFileName = "config.yaml"
)

// defaultBaseDir returns the platform config directory for gala.
//
// Returns: <os.UserConfigDir()>/gala, or ./gala when that is unavailable.
func defaultBaseDir() string {
	return savedir.DefaultBase()
}

// DefaultConfigPath returns where the configuration file is looked up and
// written by default.
//
// Returns: <base_dir>/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(defaultBaseDir(), configFileName)
}
