package recent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xmhha/gala/pkg/logger"
)

// Bucket names.
var (
	bucketActive  = []byte("active")  // keyCurrent -> file name
	bucketHistory = []byte("history") // file name -> Entry JSON
)

var keyCurrent = []byte("current")

// store implements the Bookmarks interface using BoltDB.
type store struct {
	db     *bolt.DB
	logger logger.Logger
	config Config
	now    func() time.Time
}

// New opens (creating if needed) the bookmark file.
//
// Parameters:
//   - cfg: Bookmark configuration
//   - log: Logger instance
//
// Returns:
//   - Configured Bookmarks
//   - Error if the database cannot be opened or initialized
func New(cfg Config, log logger.Logger) (Bookmarks, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 20
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create bookmark directory: %w", err)
	}

	db, err := bolt.Open(cfg.DBPath, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketActive, bucketHistory} {
			if _, createErr := tx.CreateBucketIfNotExists(name); createErr != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, createErr)
			}
		}
		return nil
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close bookmark database after initialization error",
				"error", closeErr)
		}
		return nil, err
	}

	log.Debug("bookmarks opened", "db_path", cfg.DBPath)

	return &store{
		db:     db,
		logger: log,
		config: cfg,
		now:    time.Now,
	}, nil
}

// SetActive implements Bookmarks.SetActive.
func (s *store) SetActive(entry Entry) error {
	if entry.FileName == "" {
		return ErrEmptyFileName
	}
	if entry.OpenedAt.IsZero() {
		entry.OpenedAt = s.now()
	}
	entry.OpenedAt = entry.OpenedAt.UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		history := tx.Bucket(bucketHistory)
		if err := history.Put([]byte(entry.FileName), data); err != nil {
			return fmt.Errorf("failed to store history entry: %w", err)
		}
		if err := tx.Bucket(bucketActive).Put(keyCurrent, []byte(entry.FileName)); err != nil {
			return fmt.Errorf("failed to store active bookmark: %w", err)
		}

		if err := s.prune(history); err != nil {
			return err
		}

		s.logger.Debug("active save bookmarked", "file", entry.FileName)
		return nil
	})
}

// Active implements Bookmarks.Active.
func (s *store) Active() (Entry, error) {
	var entry Entry

	err := s.db.View(func(tx *bolt.Tx) error {
		name := tx.Bucket(bucketActive).Get(keyCurrent)
		if name == nil {
			return ErrNoActive
		}

		data := tx.Bucket(bucketHistory).Get(name)
		if data == nil {
			// History was pruned underneath the bookmark; the name is enough.
			entry = Entry{FileName: string(name)}
			return nil
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return fmt.Errorf("failed to unmarshal bookmark: %w", err)
		}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// History implements Bookmarks.History.
func (s *store) History() ([]Entry, error) {
	entries := make([]Entry, 0, s.config.MaxHistory)

	err := s.db.View(func(tx *bolt.Tx) error {
		entries = s.readHistory(tx.Bucket(bucketHistory))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, nil
}

// Forget implements Bookmarks.Forget.
func (s *store) Forget(fileName string) error {
	if fileName == "" {
		return ErrEmptyFileName
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketHistory).Delete([]byte(fileName)); err != nil {
			return fmt.Errorf("failed to delete history entry: %w", err)
		}

		active := tx.Bucket(bucketActive)
		if string(active.Get(keyCurrent)) == fileName {
			if err := active.Delete(keyCurrent); err != nil {
				return fmt.Errorf("failed to clear active bookmark: %w", err)
			}
		}

		s.logger.Debug("bookmark forgotten", "file", fileName)
		return nil
	})
}

// Close implements Bookmarks.Close.
func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close bookmark database: %w", err)
	}
	return nil
}

// readHistory decodes the history bucket, newest first.
// Undecodable entries are logged and skipped.
func (s *store) readHistory(b *bolt.Bucket) []Entry {
	var entries []Entry

	_ = b.ForEach(func(k, v []byte) error {
		var e Entry
		if err := json.Unmarshal(v, &e); err != nil {
			s.logger.Warn("failed to unmarshal bookmark",
				"file", string(k),
				"error", err)
			return nil
		}
		entries = append(entries, e)
		return nil
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OpenedAt.After(entries[j].OpenedAt)
	})
	return entries
}

// prune drops the oldest history entries beyond MaxHistory.
func (s *store) prune(b *bolt.Bucket) error {
	entries := s.readHistory(b)
	for _, e := range entries[min(len(entries), s.config.MaxHistory):] {
		if err := b.Delete([]byte(e.FileName)); err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}
	return nil
}
