package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xmhha/gala/pkg/catalog"
	"github.com/0xmhha/gala/pkg/saveerr"
	"github.com/0xmhha/gala/pkg/schema"
	"github.com/0xmhha/gala/pkg/sqlitedb"
)

// Board returns every GameBoard row of the active save, ordered by id.
//
// Returns:
//   - Tiles in ascending id order (normally 150)
//   - NoActiveSave if nothing is open
//   - DbFailure if the query fails
func (m *Manager) Board(ctx context.Context) ([]Tile, error) {
	return m.tiles(ctx, schema.VariantGameBoard)
}

// MatchResults returns every MatchResults row of the active save, ordered by id.
func (m *Manager) MatchResults(ctx context.Context) ([]Tile, error) {
	return m.tiles(ctx, schema.VariantMatchResults)
}

// UpdateTile overwrites the four flags of GameBoard row id.
//
// An id with no row is not an error; nothing changes.
func (m *Manager) UpdateTile(ctx context.Context, id int, eliminatedInWinners, eliminatedInLosers, winnerInWinners, winnerInLosers bool) error {
	return m.update(ctx, schema.VariantGameBoard, Tile{
		ID:                  id,
		EliminatedInWinners: eliminatedInWinners,
		EliminatedInLosers:  eliminatedInLosers,
		WinnerInWinners:     winnerInWinners,
		WinnerInLosers:      winnerInLosers,
	})
}

// UpdateMatchResult overwrites the four flags of MatchResults row id.
func (m *Manager) UpdateMatchResult(ctx context.Context, id int, eliminatedInWinners, eliminatedInLosers, winnerInWinners, winnerInLosers bool) error {
	return m.update(ctx, schema.VariantMatchResults, Tile{
		ID:                  id,
		EliminatedInWinners: eliminatedInWinners,
		EliminatedInLosers:  eliminatedInLosers,
		WinnerInWinners:     winnerInWinners,
		WinnerInLosers:      winnerInLosers,
	})
}

// GameInfo returns the Config metadata of the active save.
func (m *Manager) GameInfo(ctx context.Context) (catalog.GameMetadata, error) {
	h, err := m.acquire()
	if err != nil {
		return catalog.GameMetadata{}, err
	}
	defer h.release()

	meta, err := catalog.ReadMetadata(ctx, h.db)
	if err != nil {
		return catalog.GameMetadata{}, saveerr.DBFile("Failed to query", h.info.FileName, err)
	}
	meta.FileName = h.info.FileName
	return meta, nil
}

func (m *Manager) tiles(ctx context.Context, v schema.Variant) ([]Tile, error) {
	h, err := m.acquire()
	if err != nil {
		return nil, err
	}
	defer h.release()

	query := fmt.Sprintf(`SELECT id, %s FROM %s ORDER BY id ASC`,
		strings.Join(schema.FlagColumns, ", "), v.Table())

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, saveerr.DB(fmt.Sprintf("failed to read %s", v.Table()), err)
	}
	defer rows.Close()

	tiles := make([]Tile, 0, schema.TileCount)
	for rows.Next() {
		var t Tile
		if err := rows.Scan(
			&t.ID,
			&t.EliminatedInWinners,
			&t.EliminatedInLosers,
			&t.WinnerInWinners,
			&t.WinnerInLosers,
		); err != nil {
			return nil, saveerr.DB(fmt.Sprintf("failed to scan %s row", v.Table()), err)
		}
		tiles = append(tiles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, saveerr.DB(fmt.Sprintf("failed to read %s", v.Table()), err)
	}

	return tiles, nil
}

func (m *Manager) update(ctx context.Context, v schema.Variant, t Tile) error {
	h, err := m.acquire()
	if err != nil {
		return err
	}
	defer h.release()

	sets := make([]string, len(schema.FlagColumns))
	for i, col := range schema.FlagColumns {
		sets[i] = col + " = ?"
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, v.Table(), strings.Join(sets, ", "))

	res, err := h.db.ExecContext(ctx, query,
		sqlitedb.BoolToInt(t.EliminatedInWinners),
		sqlitedb.BoolToInt(t.EliminatedInLosers),
		sqlitedb.BoolToInt(t.WinnerInWinners),
		sqlitedb.BoolToInt(t.WinnerInLosers),
		t.ID,
	)
	if err != nil {
		return saveerr.DB(fmt.Sprintf("failed to update %s row %d", v.Table(), t.ID), err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		m.logger.Debug("update matched no row", "table", v.Table(), "id", t.ID)
	}
	return nil
}
