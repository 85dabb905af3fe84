package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/gala/pkg/schema"
)

// isolate points every default location at a fresh temp dir and clears the
// GALA_* overrides.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	for _, key := range []string{
		ConfigEnv, "GALA_BASE_DIR", "GALA_STATE_DB", "GALA_LOG_LEVEL",
		"GALA_VARIANT", "GALA_PROBE_WORKERS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Storage.BaseDir)
	assert.Equal(t, 5, cfg.Store.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.Store.BusyTimeout)
	assert.Equal(t, schema.VariantGameBoard, cfg.StoreVariant())
	assert.Equal(t, 1, cfg.Catalog.ProbeWorkers)
	assert.Equal(t, "table", cfg.Display.DefaultFormat)
	assert.Equal(t, filepath.Join(cfg.Storage.BaseDir, "state.db"), cfg.StateDBPath())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"valid default", func(c *Config) {}, nil},
		{"empty base dir", func(c *Config) { c.Storage.BaseDir = " " }, ErrNoBaseDir},
		{"zero connections", func(c *Config) { c.Store.MaxConnections = 0 }, ErrInvalidMaxConnections},
		{"zero busy timeout", func(c *Config) { c.Store.BusyTimeout = 0 }, ErrInvalidBusyTimeout},
		{"unknown variant", func(c *Config) { c.Store.Variant = "Bracket" }, ErrInvalidVariant},
		{"short variant", func(c *Config) { c.Store.Variant = "results" }, nil},
		{"zero probe workers", func(c *Config) { c.Catalog.ProbeWorkers = 0 }, ErrInvalidProbeWorkers},
		{"unknown format", func(c *Config) { c.Display.DefaultFormat = "live" }, ErrInvalidDisplayFormat},
		{"zero debounce", func(c *Config) { c.Watch.DebounceInterval = 0 }, ErrInvalidDebounce},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, ErrInvalidLogLevel},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := write("partial.yaml", `
storage:
  base_dir: /srv/gala
store:
  busy_timeout: 750ms
  variant: MatchResults
catalog:
  probe_workers: 4
logging:
  level: debug
  format: json
`)
		cfg, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, "/srv/gala", cfg.Storage.BaseDir)
		assert.Equal(t, 750*time.Millisecond, cfg.Store.BusyTimeout)
		assert.Equal(t, 5, cfg.Store.MaxConnections)
		assert.Equal(t, schema.VariantMatchResults, cfg.StoreVariant())
		assert.Equal(t, 4, cfg.Catalog.ProbeWorkers)
		assert.Equal(t, "table", cfg.Display.DefaultFormat)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "/srv/gala/state.db", cfg.StateDBPath())
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := LoadFromFile(write("empty.yaml", ""))
		require.NoError(t, err)
		assert.Equal(t, Default().Store, cfg.Store)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadFromFile(write("bad.yaml", `store: [`))
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadFromFile(write("typo.yaml", "store:\n  max_conns: 3\n"))
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := LoadFromFile(write("zero.yaml", "catalog:\n  probe_workers: -1\n"))
		assert.ErrorIs(t, err, ErrInvalidProbeWorkers)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(dir, "nope.yaml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)

	loader := NewLoader("")
	assert.Empty(t, loader.Path())

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Store, cfg.Store)
}

func TestLoadFindsDefaultConfigPath(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Display.DefaultFormat = "simple"
	require.NoError(t, Save(cfg, DefaultConfigPath()))

	loader := NewLoader("")
	assert.Equal(t, DefaultConfigPath(), loader.Path())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "simple", loaded.Display.DefaultFormat)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "gala.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  base_dir: /from/file
catalog:
  probe_workers: 2
logging:
  level: warn
`), 0600))

	t.Setenv(ConfigEnv, path)
	t.Setenv("GALA_BASE_DIR", "/from/env")
	t.Setenv("GALA_STATE_DB", "/from/env/bookmark.db")
	t.Setenv("GALA_PROBE_WORKERS", "6")
	t.Setenv("GALA_VARIANT", "MatchResults")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Storage.BaseDir)
	assert.Equal(t, "/from/env/bookmark.db", cfg.StateDBPath())
	assert.Equal(t, 6, cfg.Catalog.ProbeWorkers)
	assert.Equal(t, schema.VariantMatchResults, cfg.StoreVariant())
	// Not overridden: the file value stands.
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvBadValue(t *testing.T) {
	isolate(t)
	t.Setenv("GALA_PROBE_WORKERS", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Watch.DebounceInterval = 250 * time.Millisecond
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Store.MaxConnections = 0

	err := Save(cfg, filepath.Join(t.TempDir(), "config.yaml"))
	assert.True(t, errors.Is(err, ErrInvalidMaxConnections))
}

func BenchmarkValidate(b *testing.B) {
	cfg := Default()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := cfg.Validate(); err != nil {
			b.Fatal(err)
		}
	}
}
