package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0xmhha/gala/pkg/catalog"
	"github.com/0xmhha/gala/pkg/config"
	"github.com/0xmhha/gala/pkg/display"
	"github.com/0xmhha/gala/pkg/logger"
	"github.com/0xmhha/gala/pkg/recent"
	"github.com/0xmhha/gala/pkg/saveerr"
	"github.com/0xmhha/gala/pkg/savedir"
	"github.com/0xmhha/gala/pkg/store"
)

// app holds the components shared by the save commands.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	savesDir string
	catalog  catalog.Catalog
	store    *store.Manager
	out      io.Writer

	bookmarks recent.Bookmarks
}

// newApp loads configuration and wires the save layer.
//
// The saves directory is created if it does not exist yet.
func newApp(configPath string, out io.Writer) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logger())

	savesDir, err := savedir.ResolveSavesDir(cfg.Storage.BaseDir)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(catalog.Config{
		ProbeWorkers: cfg.Catalog.ProbeWorkers,
		BusyTimeout:  cfg.Store.BusyTimeout,
	}, log)

	mgr := store.New(store.Config{
		MaxConnections: cfg.Store.MaxConnections,
		BusyTimeout:    cfg.Store.BusyTimeout,
		Variant:        cfg.StoreVariant(),
	}, cat, log)

	return &app{
		cfg:      cfg,
		log:      log,
		savesDir: savesDir,
		catalog:  cat,
		store:    mgr,
		out:      out,
	}, nil
}

// openBookmarks opens the bookmark file on first use.
func (a *app) openBookmarks() (recent.Bookmarks, error) {
	if a.bookmarks != nil {
		return a.bookmarks, nil
	}

	bm, err := recent.New(recent.Config{DBPath: a.cfg.StateDBPath()}, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmarks: %w", err)
	}
	a.bookmarks = bm
	return bm, nil
}

// bookmark records info as the active save.
func (a *app) bookmark(ctx context.Context, info store.Info) error {
	bm, err := a.openBookmarks()
	if err != nil {
		return err
	}

	entry := recent.Entry{
		Dir:      a.savesDir,
		FileName: info.FileName,
		OpenedAt: info.OpenedAt,
	}
	if meta, err := a.store.GameInfo(ctx); err == nil {
		entry.GameName = meta.GameName
	}

	return bm.SetActive(entry)
}

// restoreActive reopens the bookmarked save in this process.
//
// Returns NoActiveSave when nothing is bookmarked. The bookmark is resolved by
// file name only; a bookmark whose file has gone is forgotten and reported as
// NotFound.
func (a *app) restoreActive(ctx context.Context) (store.Info, error) {
	if info, ok := a.store.Active(); ok {
		return info, nil
	}

	bm, err := a.openBookmarks()
	if err != nil {
		return store.Info{}, err
	}

	entry, err := bm.Active()
	if errors.Is(err, recent.ErrNoActive) {
		return store.Info{}, saveerr.NoActive()
	}
	if err != nil {
		return store.Info{}, err
	}

	dir := entry.Dir
	if dir == "" {
		dir = a.savesDir
	}

	info, err := a.store.OpenFile(ctx, dir, entry.FileName)
	if errors.Is(err, saveerr.ErrNotFound) {
		a.log.Warn("bookmarked save is gone",
			"file", entry.FileName,
			"dir", dir)
		if ferr := bm.Forget(entry.FileName); ferr != nil {
			a.log.Error("failed to forget bookmark", "error", ferr)
		}
	}
	return info, err
}

// formatter returns a formatter for the given -format and -compact values.
//
// An empty format selects the configured default.
func (a *app) formatter(format string, compact bool) (display.Formatter, error) {
	if format == "" {
		format = a.cfg.Display.DefaultFormat
	}
	f, ok := display.ParseFormat(format)
	if !ok {
		return nil, fmt.Errorf("invalid format %q: must be table, json or simple", format)
	}

	cfg := display.Config{Format: f, Compact: compact}
	if out, ok := a.out.(*os.File); ok {
		cfg = display.ForTerminal(cfg, out)
	}
	return display.New(cfg), nil
}

// close releases the active save and the bookmark file.
func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close save", "error", err)
	}
	if a.bookmarks != nil {
		if err := a.bookmarks.Close(); err != nil {
			a.log.Error("failed to close bookmarks", "error", err)
		}
	}
}
