package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/gala/pkg/catalog"
	"github.com/0xmhha/gala/pkg/logger"
	"github.com/0xmhha/gala/pkg/saveerr"
	"github.com/0xmhha/gala/pkg/savedir"
	"github.com/0xmhha/gala/pkg/schema"
	"github.com/0xmhha/gala/pkg/sqlitedb"
)

// maxClaimAttempts bounds how often CreateNew retries after losing a name
// to another creator.
const maxClaimAttempts = 16

// Manager holds the active save.
//
// A Manager is safe for concurrent use. It is created once by the
// application and passed to whatever needs the active save.
type Manager struct {
	mu     sync.RWMutex
	active *handle

	catalog catalog.Catalog
	logger  logger.Logger
	config  Config
	now     func() time.Time
}

// New creates a Manager with no active save.
//
// Parameters:
//   - cfg: Store configuration
//   - cat: Catalog used to list and search saves
//   - log: Logger instance
//
// Returns a configured Manager.
func New(cfg Config, cat catalog.Catalog, log logger.Logger) *Manager {
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 5
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Variant == "" {
		cfg.Variant = schema.VariantGameBoard
	}

	return &Manager{
		catalog: cat,
		logger:  log,
		config:  cfg,
		now:     time.Now,
	}
}

// CreateNew creates, provisions and activates a new save.
//
// Parameters:
//   - dir: Saves directory
//   - requestedName: Desired file name; ".db" is appended if missing and
//     "_copyN" is inserted if the name is taken
//   - gameName: Game name stored in the save's Config table
//
// Returns:
//   - Info for the new active save
//   - InvalidName, IoFailure or DbFailure from the failing step
//
// On failure the previously active save stays active and a partially
// created file is removed.
func (m *Manager) CreateNew(ctx context.Context, dir, requestedName, gameName string) (Info, error) {
	name, err := savedir.NormalizeName(requestedName)
	if err != nil {
		return Info{}, err
	}

	name, path, err := m.claim(dir, name)
	if err != nil {
		return Info{}, err
	}

	db, err := sqlitedb.Open(ctx, path, sqlitedb.Options{
		Mode:           sqlitedb.ModeReadWrite,
		MaxConnections: m.config.MaxConnections,
		BusyTimeout:    m.config.BusyTimeout,
	})
	if err != nil {
		m.removeClaimed(name, path)
		return Info{}, saveerr.DBFile("Failed to create", name, err)
	}

	// discard undoes the creation after a later step fails. The file is
	// ours: claim created it.
	discard := func() {
		if closeErr := db.Close(); closeErr != nil {
			m.logger.Warn("failed to close discarded save", "file", name, "error", closeErr)
		}
		m.removeClaimed(name, path)
	}

	if err := schema.Provision(ctx, db, m.config.Variant); err != nil {
		discard()
		return Info{}, err
	}

	// One timestamp for both fields.
	now := m.now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO Config (key, value) VALUES (?, ?), (?, ?), (?, ?)`,
		schema.KeyGameName, gameName,
		schema.KeyCreateTime, stamp,
		schema.KeyLastUpdateTime, stamp,
	); err != nil {
		discard()
		return Info{}, saveerr.DB("failed to write save metadata", err)
	}

	info := Info{
		FileName: name,
		Path:     absPath(path),
		Variant:  m.config.Variant,
		OpenedAt: now,
	}
	m.install(newHandle(db, info, m.logger))

	m.logger.Info("save created",
		"file", name,
		"game", gameName,
		"variant", m.config.Variant)

	return info, nil
}

// claim picks a free name for name in dir and creates it as an empty file.
//
// O_EXCL makes the claim atomic: a concurrent creator or a symlink already
// holding the name makes the attempt fail, and the next free name is tried.
func (m *Manager) claim(dir, name string) (string, string, error) {
	var taken []string

	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		existing, err := m.catalog.ListSaveFiles(dir)
		if err != nil {
			return "", "", err
		}
		candidate := savedir.Dedupe(append(existing, taken...), name)
		path := savedir.Path(dir, candidate)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600) // nolint:gosec
		if err == nil {
			if closeErr := f.Close(); closeErr != nil {
				m.removeClaimed(candidate, path)
				return "", "", saveerr.IO("failed to create save file", closeErr)
			}
			return candidate, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", saveerr.IO("failed to create save file", err)
		}

		m.logger.Debug("save name taken, retrying", "file", candidate)
		taken = append(taken, candidate)
	}

	return "", "", saveerr.IO("failed to create save file",
		fmt.Errorf("no free name for %s after %d attempts", name, maxClaimAttempts))
}

// removeClaimed deletes a file created by claim.
func (m *Manager) removeClaimed(name, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("failed to remove discarded save", "file", name, "error", err)
	}
}

// OpenExisting activates an existing save.
//
// Parameters:
//   - dir: Saves directory
//   - selector: An exact save file name, or else a game name matched
//     exactly against each save's gameName in catalog order
//
// Returns:
//   - Info for the new active save
//   - NotFound if nothing matches or the path is not a regular file
//   - DbFailure if the save cannot be opened
//
// The save is opened without create permission.
func (m *Manager) OpenExisting(ctx context.Context, dir, selector string) (Info, error) {
	name, err := m.resolveSelector(ctx, dir, selector)
	if err != nil {
		return Info{}, err
	}
	return m.open(ctx, dir, name, selector)
}

// OpenFile activates the save named fileName in dir.
//
// Unlike OpenExisting, fileName is never matched against game names, so a
// missing file is NotFound even when another save's gameName equals it.
func (m *Manager) OpenFile(ctx context.Context, dir, fileName string) (Info, error) {
	if fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return Info{}, saveerr.NotFound("Save not found: %s", fileName)
	}
	return m.open(ctx, dir, fileName, fileName)
}

// open activates the save file name in dir.
func (m *Manager) open(ctx context.Context, dir, name, selector string) (Info, error) {
	path := savedir.Path(dir, name)
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return Info{}, saveerr.NotFound("Save not found: %s", name)
	}

	db, err := sqlitedb.Open(ctx, path, sqlitedb.Options{
		Mode:           sqlitedb.ModeReadWrite,
		MaxConnections: m.config.MaxConnections,
		BusyTimeout:    m.config.BusyTimeout,
	})
	if err != nil {
		return Info{}, saveerr.DBFile("Failed to open", name, err)
	}

	variant, err := schema.DetectVariant(ctx, db)
	if err != nil {
		m.logger.Warn("save has no state table",
			"file", name,
			"error", err)
		variant = m.config.Variant
	}

	info := Info{
		FileName: name,
		Path:     absPath(path),
		Variant:  variant,
		OpenedAt: m.now().UTC(),
	}
	m.install(newHandle(db, info, m.logger))

	m.logger.Info("save opened",
		"file", name,
		"selector", selector,
		"variant", variant)

	return info, nil
}

// resolveSelector maps a file name or game name to a bare file name.
func (m *Manager) resolveSelector(ctx context.Context, dir, selector string) (string, error) {
	if selector == "" {
		return "", saveerr.NotFound("No save found for game: %s", selector)
	}

	files, err := m.catalog.ListSaveFiles(dir)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f == selector {
			return f, nil
		}
	}

	return m.catalog.FindByGameName(ctx, dir, selector)
}

// Active reports the active save, if any.
func (m *Manager) Active() (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == nil {
		return Info{}, false
	}
	return m.active.info, true
}

// Close retires the active save.
//
// Operations already running finish against it; later operations fail with
// NoActiveSave.
func (m *Manager) Close() error {
	m.mu.Lock()
	old := m.active
	m.active = nil
	m.mu.Unlock()

	if old != nil {
		old.retire()
	}
	return nil
}

// install makes h the active save and retires the previous one.
func (m *Manager) install(h *handle) {
	m.mu.Lock()
	old := m.active
	m.active = h
	m.mu.Unlock()

	if old != nil {
		m.logger.Debug("save superseded",
			"old", old.info.FileName,
			"new", h.info.FileName)
		old.retire()
	}
}

// acquire returns a referenced handle to the active save.
// The caller must release it.
func (m *Manager) acquire() (*handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == nil {
		return nil, saveerr.NoActive()
	}
	m.active.acquire()
	return m.active, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
