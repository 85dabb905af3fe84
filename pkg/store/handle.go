package store

import (
	"database/sql"
	"sync"
	"sync/atomic"

	"github.com/0xmhha/gala/pkg/logger"
)

// handle is a reference-counted pool.
//
// The Manager's own ownership is not counted; once retired, the pool is
// closed as soon as refs drops to zero.
type handle struct {
	db   *sql.DB
	info Info

	refs      atomic.Int64
	retired   atomic.Bool
	closeOnce sync.Once
	logger    logger.Logger
}

func newHandle(db *sql.DB, info Info, log logger.Logger) *handle {
	return &handle{
		db:     db,
		info:   info,
		logger: log,
	}
}

// acquire takes a reference. Callers must hold the Manager's read lock.
func (h *handle) acquire() {
	h.refs.Add(1)
}

// release drops a reference and closes a retired pool on the last one.
func (h *handle) release() {
	if h.refs.Add(-1) == 0 && h.retired.Load() {
		h.close()
	}
}

// retire ends the Manager's ownership.
func (h *handle) retire() {
	h.retired.Store(true)
	if h.refs.Load() == 0 {
		h.close()
	}
}

func (h *handle) close() {
	h.closeOnce.Do(func() {
		if err := h.db.Close(); err != nil {
			h.logger.Error("failed to close save", "file", h.info.FileName, "error", err)
			return
		}
		h.logger.Info("save closed", "file", h.info.FileName)
	})
}
