// internal/storage/storage.go
package storage

import "github.com/OCAP2/skirmish/pkg/core"

// Backend is the interface all action journal implementations must satisfy.
// Journals are write-only: the engine never reads its state back from them.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Match management (StartMatch assigns m.ID)
	StartMatch(m *core.Match) error
	EndMatch(result *core.MatchResult) error

	// Unit registration (assigns ID to the passed pointer)
	AddUnit(u *core.UnitRecord) error

	// Event recording
	RecordAction(e *core.ActionEvent) error
	RecordElimination(e *core.EliminationEvent) error
}

// Exportable is an optional interface for backends that write the match to
// a file when it ends.
type Exportable interface {
	ExportedFilePath() string
}
