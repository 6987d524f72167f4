package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Match{},
	&MatchUnit{},
	&ActionEvent{},
	&Elimination{},
	&MatchResult{},
}

// Match is one journaled engine instance.
type Match struct {
	gorm.Model
	UUID      string    `json:"uuid" gorm:"size:36;uniqueIndex:idx_match_uuid"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	StartTime time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_match_start"`
	Tag       string    `json:"tag" gorm:"size:127"`

	Units        []MatchUnit
	ActionEvents []ActionEvent
	Eliminations []Elimination
}

func (*Match) TableName() string {
	return "matches"
}

// MatchUnit is a unit as it was when placed on the board.
type MatchUnit struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	MatchID   uint      `json:"matchId" gorm:"index:idx_matchunit_match_id"`
	Match     Match     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	PlacedAt  time.Time `json:"placedAt" gorm:"type:timestamptz;"`
	ActionSeq uint      `json:"actionSeq"` // journal sequence of the placing action
	Kind      string    `json:"kind" gorm:"size:16"`
	Team      string    `json:"team" gorm:"size:8"`
	Health    int       `json:"health"`
	Ammo      int       `json:"ammo"`
	Range     int       `json:"range"`
	Power     int       `json:"power"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
}

func (*MatchUnit) TableName() string {
	return "match_units"
}

// ActionEvent is one place, move, attack or reload, successful or not.
type ActionEvent struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time      `json:"time" gorm:"type:timestamptz;"`
	MatchID   uint           `json:"matchId" gorm:"index:idx_actionevent_match_id"`
	Match     Match          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Seq       uint           `json:"seq" gorm:"index:idx_actionevent_seq;"`
	Action    string         `json:"action" gorm:"size:16"`
	ActorID   sql.NullInt64  `json:"actorId" gorm:"index:idx_actionevent_actor;default:NULL"` // MatchUnit ID, NULL when no unit was found
	SourceRow int            `json:"sourceRow"`
	SourceCol int            `json:"sourceCol"`
	TargetRow int            `json:"targetRow"`
	TargetCol int            `json:"targetCol"`
	OK        bool           `json:"ok"`
	Error     string         `json:"error" gorm:"size:255"`
	Details   datatypes.JSON `json:"details" gorm:"type:jsonb;default:'{}'"`
}

func (*ActionEvent) TableName() string {
	return "action_events"
}

// Elimination records a unit removed from the board.
type Elimination struct {
	ID       uint          `json:"id" gorm:"primarykey;autoIncrement;"`
	Time     time.Time     `json:"time" gorm:"type:timestamptz;"`
	MatchID  uint          `json:"matchId" gorm:"index:idx_elimination_match_id"`
	Match    Match         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Seq      uint          `json:"seq"`
	VictimID uint          `json:"victimId" gorm:"index:idx_elimination_victim"`
	KillerID sql.NullInt64 `json:"killerId" gorm:"default:NULL"`
	Team     string        `json:"team" gorm:"size:8"`
	Row      int           `json:"row"`
	Col      int           `json:"col"`
	Health   int           `json:"health"` // hit points at removal, zero or below
}

func (*Elimination) TableName() string {
	return "eliminations"
}

// MatchResult is written once per match.
type MatchResult struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;"`
	MatchID   uint      `json:"matchId" gorm:"uniqueIndex:idx_matchresult_match_id"`
	Match     Match     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:MatchID;"`
	Over      bool      `json:"over"`
	Winner    string    `json:"winner" gorm:"size:8"`
	Actions   uint      `json:"actions"`
	Survivors int       `json:"survivors"`
}

func (*MatchResult) TableName() string {
	return "match_results"
}
