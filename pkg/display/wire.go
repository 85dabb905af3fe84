package display

import (
	"time"

	"github.com/0xmhha/gala/pkg/catalog"
	"github.com/0xmhha/gala/pkg/recent"
	"github.com/0xmhha/gala/pkg/store"
)

// SaveGame is the external form of one catalog record.
type SaveGame struct {
	FileName       string `json:"fileName"`
	GameName       string `json:"gameName"`
	CreateTime     string `json:"createTime"`
	LastUpdateTime string `json:"lastUpdateTime"`
}

// BoardTile is the external form of one GameBoard or MatchResults row.
type BoardTile struct {
	ID                    int  `json:"id"`
	IsEliminatedInWinners bool `json:"isEliminatedInWinners"`
	IsEliminatedInLosers  bool `json:"isEliminatedInLosers"`
	IsWinnerInWinners     bool `json:"isWinnerInWinners"`
	IsWinnerInLosers      bool `json:"isWinnerInLosers"`
}

// ActiveSave is the external form of the active save.
type ActiveSave struct {
	FileName string `json:"fileName"`
	GameName string `json:"gameName,omitempty"`
	Path     string `json:"path,omitempty"`
	Variant  string `json:"variant,omitempty"`
	OpenedAt string `json:"openedAt,omitempty"`
}

// Status is the output of the status command.
type Status struct {
	Active  *ActiveSave  `json:"active"`
	History []ActiveSave `json:"history"`
}

// FromGames converts catalog records to their external form.
func FromGames(games []catalog.GameMetadata) []SaveGame {
	out := make([]SaveGame, len(games))
	for i, g := range games {
		out[i] = SaveGame{
			FileName:       g.FileName,
			GameName:       g.GameName,
			CreateTime:     g.CreateTime,
			LastUpdateTime: g.LastUpdateTime,
		}
	}
	return out
}

// FromTiles converts state rows to their external form.
func FromTiles(tiles []store.Tile) []BoardTile {
	out := make([]BoardTile, len(tiles))
	for i, t := range tiles {
		out[i] = BoardTile{
			ID:                    t.ID,
			IsEliminatedInWinners: t.EliminatedInWinners,
			IsEliminatedInLosers:  t.EliminatedInLosers,
			IsWinnerInWinners:     t.WinnerInWinners,
			IsWinnerInLosers:      t.WinnerInLosers,
		}
	}
	return out
}

// FromInfo converts the manager's view of the active save.
func FromInfo(info store.Info, gameName string) ActiveSave {
	return ActiveSave{
		FileName: info.FileName,
		GameName: gameName,
		Path:     info.Path,
		Variant:  string(info.Variant),
		OpenedAt: formatTime(info.OpenedAt),
	}
}

// FromEntries converts bookmark history entries.
func FromEntries(entries []recent.Entry) []ActiveSave {
	out := make([]ActiveSave, len(entries))
	for i, e := range entries {
		out[i] = ActiveSave{
			FileName: e.FileName,
			GameName: e.GameName,
			OpenedAt: formatTime(e.OpenedAt),
		}
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
