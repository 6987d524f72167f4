// Package convert maps pkg/core journal records onto GORM models.
package convert

import (
	"database/sql"
	"encoding/json"

	"github.com/OCAP2/skirmish/internal/model"
	"github.com/OCAP2/skirmish/pkg/core"
	"gorm.io/datatypes"
)

func nullID(id *uint) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

// detailsToJSON encodes action details; nil or unencodable maps become {}.
func detailsToJSON(details map[string]any) datatypes.JSON {
	if len(details) == 0 {
		return datatypes.JSON("{}")
	}
	data, err := json.Marshal(details)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

func teamName(t core.Team) string {
	if !t.Valid() {
		return ""
	}
	return t.String()
}

// CoreToMatch converts a core.Match. The GORM ID is left for the database.
func CoreToMatch(m core.Match) model.Match {
	return model.Match{
		UUID:      m.UUID,
		Rows:      m.Rows,
		Cols:      m.Cols,
		StartTime: m.StartTime,
		Tag:       m.Tag,
	}
}

func CoreToMatchUnit(u core.UnitRecord, matchID uint) model.MatchUnit {
	return model.MatchUnit{
		MatchID:   matchID,
		PlacedAt:  u.PlacedAt,
		ActionSeq: u.ActionSeq,
		Kind:      u.Kind.String(),
		Team:      teamName(u.Team),
		Health:    u.Health,
		Ammo:      u.Ammo,
		Range:     u.Range,
		Power:     u.Power,
		Row:       u.Position.Row,
		Col:       u.Position.Col,
	}
}

func CoreToActionEvent(e core.ActionEvent, matchID uint) model.ActionEvent {
	return model.ActionEvent{
		Time:      e.Time,
		MatchID:   matchID,
		Seq:       e.Seq,
		Action:    e.Action,
		ActorID:   nullID(e.ActorID),
		SourceRow: e.Source.Row,
		SourceCol: e.Source.Col,
		TargetRow: e.Target.Row,
		TargetCol: e.Target.Col,
		OK:        e.OK,
		Error:     e.Error,
		Details:   detailsToJSON(e.Details),
	}
}

func CoreToElimination(e core.EliminationEvent, matchID uint) model.Elimination {
	return model.Elimination{
		Time:     e.Time,
		MatchID:  matchID,
		Seq:      e.Seq,
		VictimID: e.VictimID,
		KillerID: nullID(e.KillerID),
		Team:     teamName(e.Team),
		Row:      e.Position.Row,
		Col:      e.Position.Col,
		Health:   e.Health,
	}
}

func CoreToMatchResult(r core.MatchResult, matchID uint) model.MatchResult {
	return model.MatchResult{
		Time:      r.Time,
		MatchID:   matchID,
		Over:      r.Over,
		Winner:    teamName(r.Winner),
		Actions:   r.Actions,
		Survivors: r.Survivor,
	}
}
