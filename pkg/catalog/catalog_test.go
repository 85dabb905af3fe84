package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/gala/pkg/logger"
	"github.com/0xmhha/gala/pkg/saveerr"
	"github.com/0xmhha/gala/pkg/schema"
	"github.com/0xmhha/gala/pkg/sqlitedb"
)

// writeSave provisions a save in dir with the given config rows.
func writeSave(t *testing.T, dir, name string, config ...[2]string) {
	t.Helper()

	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, filepath.Join(dir, name), sqlitedb.Options{Mode: sqlitedb.ModeCreate})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, schema.Provision(ctx, db, schema.VariantGameBoard))
	for _, kv := range config {
		_, err := db.ExecContext(ctx, `INSERT INTO Config (key, value) VALUES (?, ?)`, kv[0], kv[1])
		require.NoError(t, err)
	}
}

func game(name, created string) [][2]string {
	return [][2]string{
		{schema.KeyGameName, name},
		{schema.KeyCreateTime, created},
		{schema.KeyLastUpdateTime, created},
	}
}

func TestListSaveFilesEmptyDir(t *testing.T) {
	dir := t.TempDir()

	files, err := ListSaveFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, files)

	games, err := New(Config{}, logger.Noop()).ListSaveGames(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestListSaveFilesFilters(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"a.db", "B.DB", "c.Db", "notes.txt", "db", "x.db.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.db"), 0700))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.db"), nil, 0600))

	files, err := ListSaveFiles(dir)
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{"B.DB", "a.db", "c.Db"}, files)
}

func TestListSaveFilesMissingDir(t *testing.T) {
	_, err := ListSaveFiles(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, saveerr.ErrIO))
}

func TestListSaveGames(t *testing.T) {
	dir := t.TempDir()
	writeSave(t, dir, "alice.db", game("Alice", "2025-01-01T00:00:00Z")...)
	writeSave(t, dir, "bare.db")

	games, err := New(Config{}, logger.Noop()).ListSaveGames(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, games, 2)

	byFile := map[string]GameMetadata{}
	for _, g := range games {
		byFile[g.FileName] = g
	}

	assert.Equal(t, GameMetadata{
		FileName:       "alice.db",
		GameName:       "Alice",
		CreateTime:     "2025-01-01T00:00:00Z",
		LastUpdateTime: "2025-01-01T00:00:00Z",
	}, byFile["alice.db"])

	assert.Equal(t, GameMetadata{
		FileName: "bare.db",
		GameName: UnknownGameName,
	}, byFile["bare.db"])
}

func TestListSaveGamesToleratesMissingConfigTable(t *testing.T) {
	dir := t.TempDir()
	// An empty file is a valid, empty SQLite database.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.db"), nil, 0600))

	games, err := New(Config{}, logger.Noop()).ListSaveGames(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, UnknownGameName, games[0].GameName)
	assert.Empty(t, games[0].CreateTime)
}

func TestListSaveGamesFirstDuplicateWins(t *testing.T) {
	dir := t.TempDir()
	writeSave(t, dir, "dup.db",
		[2]string{schema.KeyGameName, "first"},
		[2]string{schema.KeyGameName, "second"})

	games, err := New(Config{}, logger.Noop()).ListSaveGames(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "first", games[0].GameName)
}

func TestListSaveGamesAbortsOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeSave(t, dir, "good.db", game("Good", "t")...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.db"),
		[]byte(strings.Repeat("not a sqlite database. ", 40)), 0600))

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			games, err := New(Config{ProbeWorkers: workers}, logger.Noop()).
				ListSaveGames(context.Background(), dir)

			require.Error(t, err)
			assert.Nil(t, games)
			assert.True(t, errors.Is(err, saveerr.ErrDB))

			var se *saveerr.Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, "broken.db", se.File)
			assert.Contains(t, err.Error(), "broken.db")
		})
	}
}

func TestListSaveGamesParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 8; i++ {
		writeSave(t, dir, fmt.Sprintf("save%d.db", i), game(fmt.Sprintf("Game %d", i), "t")...)
	}

	ctx := context.Background()
	sequential, err := New(Config{ProbeWorkers: 1}, logger.Noop()).ListSaveGames(ctx, dir)
	require.NoError(t, err)

	parallel, err := New(Config{ProbeWorkers: 3}, logger.Noop()).ListSaveGames(ctx, dir)
	require.NoError(t, err)

	assert.Len(t, parallel, 8)
	assert.Equal(t, sequential, parallel)
}

func TestFindByGameName(t *testing.T) {
	dir := t.TempDir()
	writeSave(t, dir, "one.db", game("Spring Open", "t")...)
	writeSave(t, dir, "two.db", game("Fall Classic", "t")...)
	writeSave(t, dir, "nameless.db")

	c := New(Config{}, logger.Noop())
	ctx := context.Background()

	name, err := c.FindByGameName(ctx, dir, "Fall Classic")
	require.NoError(t, err)
	assert.Equal(t, "two.db", name)

	_, err = c.FindByGameName(ctx, dir, "fall classic")
	assert.True(t, errors.Is(err, saveerr.ErrNotFound))

	// A save without a gameName row never matches the placeholder.
	_, err = c.FindByGameName(ctx, dir, UnknownGameName)
	assert.True(t, errors.Is(err, saveerr.ErrNotFound))
}
