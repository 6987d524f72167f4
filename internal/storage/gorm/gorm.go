// Package gormstorage implements storage.Backend on any GORM dialect.
// Match and unit rows are inserted synchronously because callers need their
// IDs; actions and eliminations are queued and written in batches by a
// background goroutine.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/OCAP2/skirmish/internal/model"
	"github.com/OCAP2/skirmish/internal/model/convert"
	"github.com/OCAP2/skirmish/internal/queue"
	"github.com/OCAP2/skirmish/pkg/core"
	"gorm.io/gorm"
)

const defaultFlushInterval = 2 * time.Second

var errNoMatch = errors.New("no match started")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps Dependencies

	actions      *queue.Queue[model.ActionEvent]
	eliminations *queue.Queue[model.Elimination]

	matchID  atomic.Uint64
	flushMu  sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	return &Backend{
		deps:         deps,
		actions:      queue.New[model.ActionEvent](),
		eliminations: queue.New[model.Elimination](),
	}
}

// DB exposes the underlying connection, mainly for tests and dumps.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init starts the background writer. The schema must already be migrated.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend: no database")
	}
	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer and flushes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		<-b.done
		b.stopChan = nil
	}
	if b.deps.DB == nil {
		return nil
	}
	if n := b.Pending(); n > 0 {
		b.deps.Logger.Info("flushing queued rows before close", "count", n)
	}
	return b.Flush()
}

func (b *Backend) currentMatch() (uint, error) {
	id := uint(b.matchID.Load())
	if id == 0 {
		return 0, errNoMatch
	}
	return id, nil
}

// StartMatch inserts the match row and stores its ID on m.
func (b *Backend) StartMatch(m *core.Match) error {
	row := convert.CoreToMatch(*m)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	m.ID = row.ID
	b.matchID.Store(uint64(row.ID))
	b.deps.Logger.Debug("match row created", "match_id", row.ID, "uuid", m.UUID)
	return nil
}

// EndMatch flushes pending events and writes the result row.
func (b *Backend) EndMatch(result *core.MatchResult) error {
	matchID, err := b.currentMatch()
	if err != nil {
		return err
	}
	if err := b.Flush(); err != nil {
		return err
	}
	row := convert.CoreToMatchResult(*result, matchID)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

// AddUnit inserts the unit synchronously so its ID is known to the caller.
func (b *Backend) AddUnit(u *core.UnitRecord) error {
	matchID, err := b.currentMatch()
	if err != nil {
		return err
	}
	row := convert.CoreToMatchUnit(*u, matchID)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	u.ID = row.ID
	return nil
}

// RecordAction converts and queues an action event.
func (b *Backend) RecordAction(e *core.ActionEvent) error {
	matchID, err := b.currentMatch()
	if err != nil {
		return err
	}
	b.actions.Push(convert.CoreToActionEvent(*e, matchID))
	return nil
}

// RecordElimination converts and queues an elimination.
func (b *Backend) RecordElimination(e *core.EliminationEvent) error {
	matchID, err := b.currentMatch()
	if err != nil {
		return err
	}
	b.eliminations.Push(convert.CoreToElimination(*e, matchID))
	return nil
}

// Pending reports how many rows are waiting for the writer.
func (b *Backend) Pending() int {
	return b.actions.Len() + b.eliminations.Len()
}

// Flush writes every queued row now.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	return errors.Join(
		writeQueue(b.deps.DB, b.actions, "action events", b.deps.Logger),
		writeQueue(b.deps.DB, b.eliminations, "eliminations", b.deps.Logger),
	)
}

// writeQueue writes all items from a queue in one transaction. On failure the
// batch goes back to the head of the queue for the next attempt.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) error {
	if q.Empty() {
		return nil
	}

	items := q.Drain()
	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&items).Error
	})
	if err != nil {
		log.Error("error writing batch", "table", name, "count", len(items), "error", err)
		q.Requeue(items...)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	log.Debug("batch written", "table", name, "count", len(items))
	return nil
}

func (b *Backend) writeLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			// errors are logged by writeQueue and retried next tick
			_ = b.Flush()
		}
	}
}
