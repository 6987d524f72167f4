// pkg/core/match.go
package core

import "time"

// Match describes one engine instance being journaled.
type Match struct {
	ID        uint
	UUID      string
	Rows      int
	Cols      int
	StartTime time.Time
	Tag       string
}

// UnitRecord is the journal view of a unit at the moment it was placed.
// ID is assigned by the storage backend.
type UnitRecord struct {
	ID        uint
	Kind      Kind
	Team      Team
	Health    int
	Ammo      int
	Range     int
	Power     int
	Position  GridPoint
	PlacedAt  time.Time
	ActionSeq uint
}

// MatchResult is written once when a match ends or the session closes.
type MatchResult struct {
	Time     time.Time
	Over     bool
	Winner   Team // zero when no winner was declared
	Actions  uint
	Survivor int // units left on the board
}
