// Package recent remembers which save the command line treats as active.
//
// Each gala invocation is its own process, so the in-memory active save of
// store.Manager does not survive between commands. The bookmark records the
// last created or opened save in a small BoltDB file, together with a history
// of previously used saves.
//
// Example usage:
//
//	bm, err := recent.New(recent.Config{DBPath: cfg.StateDBPath()}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bm.Close()
//
//	if err := bm.SetActive(recent.Entry{Dir: dir, FileName: "bracket.db"}); err != nil {
//	    log.Fatal(err)
//	}
package recent

import "time"

// Entry is one bookmarked save.
type Entry struct {
	// Dir is the saves directory the file lives in.
	Dir string `json:"dir"`

	// FileName is the bare save file name.
	FileName string `json:"file_name"`

	// GameName is the game name read when the save was opened.
	GameName string `json:"game_name,omitempty"`

	// OpenedAt is when the save was last made active.
	OpenedAt time.Time `json:"opened_at"`
}

// Bookmarks stores the active save and the history of used saves.
type Bookmarks interface {
	// SetActive records entry as the active save and moves it to the top of
	// the history. A zero OpenedAt is set to the current time.
	//
	// Returns ErrEmptyFileName if entry.FileName is empty.
	SetActive(entry Entry) error

	// Active returns the active save.
	//
	// Returns:
	//   - The bookmarked entry
	//   - ErrNoActive if nothing is bookmarked
	Active() (Entry, error)

	// History returns every remembered save, most recently opened first.
	History() ([]Entry, error)

	// Forget drops fileName from the history and clears the active bookmark
	// if it points at fileName. Forgetting an unknown name is not an error.
	Forget(fileName string) error

	// Close closes the database and releases the file lock.
	Close() error
}

// Config contains bookmark store configuration.
type Config struct {
	// DBPath is the BoltDB file path.
	DBPath string

	// Timeout bounds how long New waits for the file lock (default: 1 second).
	Timeout time.Duration

	// MaxHistory caps the number of history entries kept (default: 20).
	MaxHistory int
}
