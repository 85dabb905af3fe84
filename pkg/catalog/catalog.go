package catalog

import (
	"context"
	"database/sql"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xmhha/gala/pkg/logger"
	"github.com/0xmhha/gala/pkg/saveerr"
	"github.com/0xmhha/gala/pkg/savedir"
	"github.com/0xmhha/gala/pkg/schema"
	"github.com/0xmhha/gala/pkg/sqlitedb"
)

// metadataQuery reads the first value of each well-known key.
// Duplicate keys resolve to the lowest rowid.
const metadataQuery = `
SELECT
    (SELECT value FROM Config WHERE key = 'gameName'       ORDER BY rowid LIMIT 1),
    (SELECT value FROM Config WHERE key = 'CreateTime'     ORDER BY rowid LIMIT 1),
    (SELECT value FROM Config WHERE key = 'LastUpdateTime' ORDER BY rowid LIMIT 1)
`

// Catalog lists save files and their metadata.
type Catalog interface {
	// ListSaveFiles returns the bare names of all save files in dir.
	//
	// Returns:
	//   - File names (empty if none exist), in filesystem order
	//   - IoFailure if dir cannot be read
	ListSaveFiles(dir string) ([]string, error)

	// ListSaveGames probes every save in dir and returns one record per file.
	//
	// Returns:
	//   - Metadata in ListSaveFiles order
	//   - DbFailure naming the first file that cannot be opened or queried;
	//     no partial results are returned
	ListSaveGames(ctx context.Context, dir string) ([]GameMetadata, error)

	// FindByGameName returns the first save, in ListSaveFiles order, whose
	// gameName equals gameName exactly.
	//
	// Returns:
	//   - The bare file name
	//   - NotFound if no save matches
	//   - DbFailure if a candidate cannot be opened
	FindByGameName(ctx context.Context, dir, gameName string) (string, error)
}

// catalog implements the Catalog interface.
type catalog struct {
	logger logger.Logger
	config Config
}

// New creates a new Catalog.
//
// Parameters:
//   - cfg: Catalog configuration
//   - log: Logger instance
//
// Returns a configured Catalog.
func New(cfg Config, log logger.Logger) Catalog {
	if cfg.ProbeWorkers <= 0 {
		cfg.ProbeWorkers = 1
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	return &catalog{
		logger: log,
		config: cfg,
	}
}

// ListSaveFiles implements Catalog.ListSaveFiles.
func (c *catalog) ListSaveFiles(dir string) ([]string, error) {
	return ListSaveFiles(dir)
}

// ListSaveFiles scans dir non-recursively for regular files ending in .db.
func ListSaveFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, saveerr.IO("failed to read saves directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !savedir.HasExtension(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

// ListSaveGames implements Catalog.ListSaveGames.
func (c *catalog) ListSaveGames(ctx context.Context, dir string) ([]GameMetadata, error) {
	files, err := ListSaveFiles(dir)
	if err != nil {
		return nil, err
	}

	games := make([]GameMetadata, len(files))

	if c.config.ProbeWorkers <= 1 || len(files) <= 1 {
		for i, name := range files {
			meta, _, probeErr := c.probe(ctx, dir, name)
			if probeErr != nil {
				return nil, probeErr
			}
			games[i] = meta
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.config.ProbeWorkers)

		for i, name := range files {
			g.Go(func() error {
				meta, _, probeErr := c.probe(gctx, dir, name)
				if probeErr != nil {
					return probeErr
				}
				games[i] = meta
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("catalog listed",
		"dir", dir,
		"saves", len(games),
		"workers", c.config.ProbeWorkers)

	return games, nil
}

// FindByGameName implements Catalog.FindByGameName.
func (c *catalog) FindByGameName(ctx context.Context, dir, gameName string) (string, error) {
	files, err := ListSaveFiles(dir)
	if err != nil {
		return "", err
	}

	for _, name := range files {
		meta, named, probeErr := c.probe(ctx, dir, name)
		if probeErr != nil {
			return "", probeErr
		}
		if named && meta.GameName == gameName {
			return name, nil
		}
	}

	return "", saveerr.NotFound("No save found for game: %s", gameName)
}

// probe opens one save read-only and extracts its metadata.
// named is false when the save has no gameName row.
func (c *catalog) probe(ctx context.Context, dir, name string) (meta GameMetadata, named bool, err error) {
	db, err := sqlitedb.Open(ctx, savedir.Path(dir, name), sqlitedb.Options{
		Mode:           sqlitedb.ModeReadOnly,
		MaxConnections: 1,
		BusyTimeout:    c.config.BusyTimeout,
	})
	if err != nil {
		c.logger.Warn("failed to open save", "file", name, "error", err)
		return GameMetadata{}, false, saveerr.DBFile("Failed to open", name, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			c.logger.Warn("failed to close probe", "file", name, "error", closeErr)
		}
	}()

	// Reading the schema forces SQLite to validate the file header.
	var tables int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master`).Scan(&tables); err != nil {
		c.logger.Warn("failed to open save", "file", name, "error", err)
		return GameMetadata{}, false, saveerr.DBFile("Failed to open", name, err)
	}

	meta, named, err = readMetadata(ctx, db)
	if err != nil {
		c.logger.Warn("failed to query save", "file", name, "error", err)
		return GameMetadata{}, false, saveerr.DBFile("Failed to query", name, err)
	}
	meta.FileName = name

	return meta, named, nil
}

// ReadMetadata reads the gameName, CreateTime and LastUpdateTime values
// from an open save. FileName is left empty.
//
// Missing rows, or a missing Config table, yield UnknownGameName and empty
// timestamps rather than an error.
func ReadMetadata(ctx context.Context, db *sql.DB) (GameMetadata, error) {
	meta, _, err := readMetadata(ctx, db)
	return meta, err
}

func readMetadata(ctx context.Context, db *sql.DB) (GameMetadata, bool, error) {
	var gameName, createTime, lastUpdate sql.NullString

	err := db.QueryRowContext(ctx, metadataQuery).Scan(&gameName, &createTime, &lastUpdate)
	if err != nil {
		if schema.IsMissingTable(err) {
			return GameMetadata{GameName: UnknownGameName}, false, nil
		}
		return GameMetadata{}, false, err
	}

	meta := GameMetadata{
		GameName:       UnknownGameName,
		CreateTime:     createTime.String,
		LastUpdateTime: lastUpdate.String,
	}
	if gameName.Valid {
		meta.GameName = gameName.String
	}
	return meta, gameName.Valid, nil
}
