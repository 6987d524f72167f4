// pkg/core/events.go
package core

import "time"

// Action names used in the journal and by the command front end.
const (
	ActionPlace  = "place"
	ActionMove   = "move"
	ActionAttack = "attack"
	ActionReload = "reload"
)

// ActionEvent records one engine action, successful or not.
// ActorID is the journal ID of the acting unit, nil when no unit was found.
type ActionEvent struct {
	ID      uint
	Seq     uint
	Time    time.Time
	Action  string
	ActorID *uint
	Source  GridPoint
	Target  GridPoint
	OK      bool
	Error   string
	Details map[string]any
}

// EliminationEvent records a unit removed from the roster after an attack.
type EliminationEvent struct {
	ID       uint
	Seq      uint
	Time     time.Time
	VictimID uint
	KillerID *uint
	Team     Team
	Position GridPoint
	Health   int
}
