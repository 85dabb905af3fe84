package saveerr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound("No save found for game: %s", "Alice")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDB))
	assert.Equal(t, "No save found for game: Alice", err.Error())
}

func TestWrappedChainKeepsKindAndCause(t *testing.T) {
	cause := os.ErrPermission
	err := fmt.Errorf("resolve saves dir: %w", IO("failed to create saves directory", cause))

	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Equal(t, KindIO, KindOf(err))
}

func TestDBFileNamesFile(t *testing.T) {
	err := DBFile("Failed to open", "broken.db", errors.New("file is not a database"))

	assert.Equal(t, "broken.db", err.File)
	assert.Equal(t, "Failed to open broken.db: file is not a database", err.Error())
	assert.Equal(t, KindDB, KindOf(err))
}

func TestNoActive(t *testing.T) {
	err := NoActive()

	assert.True(t, errors.Is(err, ErrNoActiveSave))
	assert.Equal(t, "No DB open", err.Error())
}

func TestKindOfUntagged(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
