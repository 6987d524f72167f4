// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"

	"github.com/OCAP2/skirmish/internal/config"
	"github.com/OCAP2/skirmish/pkg/core"
)

var errNoMatch = errors.New("no match started")

// Backend keeps the journal of the current match in memory and exports it
// to JSON when the match ends.
type Backend struct {
	cfg    config.MemoryConfig
	match  *core.Match
	result *core.MatchResult

	units        []core.UnitRecord
	actions      []core.ActionEvent
	eliminations []core.EliminationEvent

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

func (b *Backend) Init() error {
	return nil
}

func (b *Backend) Close() error {
	return nil
}

// StartMatch begins a new journal, discarding the previous one.
func (b *Backend) StartMatch(m *core.Match) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter = 1
	m.ID = b.idCounter
	b.match = m
	b.result = nil
	b.units = nil
	b.actions = nil
	b.eliminations = nil
	return nil
}

// EndMatch stores the result and exports the journal.
func (b *Backend) EndMatch(result *core.MatchResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return errNoMatch
	}
	b.result = result
	return b.exportJSON()
}

func (b *Backend) AddUnit(u *core.UnitRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return errNoMatch
	}
	b.idCounter++
	u.ID = b.idCounter
	b.units = append(b.units, *u)
	return nil
}

func (b *Backend) RecordAction(e *core.ActionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return errNoMatch
	}
	b.idCounter++
	e.ID = b.idCounter
	b.actions = append(b.actions, *e)
	return nil
}

func (b *Backend) RecordElimination(e *core.EliminationEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.match == nil {
		return errNoMatch
	}
	b.idCounter++
	e.ID = b.idCounter
	b.eliminations = append(b.eliminations, *e)
	return nil
}

// Units returns a copy of the registered units.
func (b *Backend) Units() []core.UnitRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.UnitRecord(nil), b.units...)
}

// Actions returns a copy of the recorded actions.
func (b *Backend) Actions() []core.ActionEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.ActionEvent(nil), b.actions...)
}

// Eliminations returns a copy of the recorded eliminations.
func (b *Backend) Eliminations() []core.EliminationEvent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.EliminationEvent(nil), b.eliminations...)
}

// ExportedFilePath returns the path written by the last EndMatch.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
