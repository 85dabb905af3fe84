package savedir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/gala/pkg/saveerr"
)

func TestResolveSavesDirCreatesAndIsIdempotent(t *testing.T) {
	base := filepath.Join(t.TempDir(), "gala")

	dir, err := ResolveSavesDir(base)
	require.NoError(t, err)
	assert.Equal(t, "saves", filepath.Base(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	again, err := ResolveSavesDir(base)
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}

func TestResolveSavesDirBlockedByFile(t *testing.T) {
	base := t.TempDir()
	// A regular file where the saves directory should go.
	require.NoError(t, os.WriteFile(filepath.Join(base, "saves"), []byte("x"), 0600))

	_, err := ResolveSavesDir(base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, saveerr.ErrIO))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"bracket", "bracket.db"},
		{"bracket.db", "bracket.db"},
		{"Bracket.DB", "Bracket.DB"},
		{"finals.Db", "finals.Db"},
		{"spring.2024", "spring.2024.db"},
		{"my save", "my save.db"},
		{".db", ".db"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeName(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeNameAppendsExactlyOnce(t *testing.T) {
	for _, raw := range []string{"a", "a.d", "a.dbx", "a_db", "adb"} {
		got, err := NormalizeName(raw)
		require.NoError(t, err)
		assert.Equal(t, raw+".db", got)
	}
}

func TestNormalizeNameRejectsSeparators(t *testing.T) {
	for _, raw := range []string{"a/b", `a\b`, "/abs.db", `..\up`, "dir/"} {
		_, err := NormalizeName(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, saveerr.ErrInvalidName), raw)
	}
}

func TestNormalizeNameRejectsBlank(t *testing.T) {
	_, err := NormalizeName("   ")
	assert.True(t, errors.Is(err, saveerr.ErrInvalidName))
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		candidate string
		want      string
	}{
		{"free", []string{"other.db"}, "bracket.db", "bracket.db"},
		{"empty set", nil, "bracket.db", "bracket.db"},
		{"first copy", []string{"bracket.db"}, "bracket.db", "bracket_copy1.db"},
		{"second copy", []string{"bracket.db", "bracket_copy1.db"}, "bracket.db", "bracket_copy2.db"},
		{"gap", []string{"bracket.db", "bracket_copy2.db"}, "bracket.db", "bracket_copy1.db"},
		{"last dot", []string{"a.b.db"}, "a.b.db", "a.b_copy1.db"},
		{"no dot", []string{"plain"}, "plain", "plain_copy1"},
		{"case sensitive", []string{"Bracket.db"}, "bracket.db", "bracket.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedupe(tt.existing, tt.candidate))
		})
	}
}

func TestDedupeNeverReturnsExisting(t *testing.T) {
	existing := []string{"x.db"}
	for i := 1; i <= 25; i++ {
		existing = append(existing, fmt.Sprintf("x_copy%d.db", i))
	}

	got := Dedupe(existing, "x.db")
	assert.Equal(t, "x_copy26.db", got)
	assert.NotContains(t, existing, got)
}

func TestDedupeOrderIndependent(t *testing.T) {
	a := []string{"s.db", "s_copy1.db", "s_copy3.db"}
	b := []string{"s_copy3.db", "s.db", "s_copy1.db"}

	assert.Equal(t, Dedupe(a, "s.db"), Dedupe(b, "s.db"))
}

func TestPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dir", "a.db"), Path("dir", "a.db"))
}
