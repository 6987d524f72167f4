// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OCAP2/skirmish/pkg/core"
)

// MatchExport is the root JSON structure of an exported match.
type MatchExport struct {
	UUID         string            `json:"uuid"`
	Tag          string            `json:"tag"`
	Rows         int               `json:"rows"`
	Cols         int               `json:"cols"`
	StartTime    time.Time         `json:"startTime"`
	Units        []UnitJSON        `json:"units"`
	Actions      []ActionJSON      `json:"actions"`
	Eliminations []EliminationJSON `json:"eliminations"`
	Result       *ResultJSON       `json:"result,omitempty"`
}

type UnitJSON struct {
	ID       uint           `json:"id"`
	Kind     string         `json:"kind"`
	Team     string         `json:"team"`
	Health   int            `json:"health"`
	Ammo     int            `json:"ammo"`
	Range    int            `json:"range"`
	Power    int            `json:"power"`
	Position core.GridPoint `json:"position"`
	Seq      uint           `json:"seq"`
}

type ActionJSON struct {
	Seq     uint           `json:"seq"`
	Time    time.Time      `json:"time"`
	Action  string         `json:"action"`
	ActorID *uint          `json:"actorId"`
	Source  core.GridPoint `json:"source"`
	Target  core.GridPoint `json:"target"`
	OK      bool           `json:"ok"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type EliminationJSON struct {
	Seq      uint           `json:"seq"`
	VictimID uint           `json:"victimId"`
	KillerID *uint          `json:"killerId"`
	Team     string         `json:"team"`
	Position core.GridPoint `json:"position"`
	Health   int            `json:"health"`
}

type ResultJSON struct {
	Time     time.Time `json:"time"`
	Over     bool      `json:"over"`
	Winner   string    `json:"winner,omitempty"`
	Actions  uint      `json:"actions"`
	Survivor int       `json:"survivors"`
}

// exportJSON writes the journal to a JSON file, gzipped when configured.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	tag := strings.NewReplacer(" ", "_", ":", "_", "/", "_").Replace(b.match.Tag)
	if tag == "" {
		tag = "match"
	}
	id := b.match.UUID
	if len(id) > 8 {
		id = id[:8]
	}
	timestamp := b.match.StartTime.Format("20060102_150405")

	filename := fmt.Sprintf("%s_%s_%s.json", tag, timestamp, id)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() MatchExport {
	export := MatchExport{
		UUID:         b.match.UUID,
		Tag:          b.match.Tag,
		Rows:         b.match.Rows,
		Cols:         b.match.Cols,
		StartTime:    b.match.StartTime,
		Units:        make([]UnitJSON, 0, len(b.units)),
		Actions:      make([]ActionJSON, 0, len(b.actions)),
		Eliminations: make([]EliminationJSON, 0, len(b.eliminations)),
	}

	for _, u := range b.units {
		export.Units = append(export.Units, UnitJSON{
			ID:       u.ID,
			Kind:     u.Kind.String(),
			Team:     u.Team.String(),
			Health:   u.Health,
			Ammo:     u.Ammo,
			Range:    u.Range,
			Power:    u.Power,
			Position: u.Position,
			Seq:      u.ActionSeq,
		})
	}

	for _, a := range b.actions {
		export.Actions = append(export.Actions, ActionJSON{
			Seq:     a.Seq,
			Time:    a.Time,
			Action:  a.Action,
			ActorID: a.ActorID,
			Source:  a.Source,
			Target:  a.Target,
			OK:      a.OK,
			Error:   a.Error,
			Details: a.Details,
		})
	}

	for _, e := range b.eliminations {
		export.Eliminations = append(export.Eliminations, EliminationJSON{
			Seq:      e.Seq,
			VictimID: e.VictimID,
			KillerID: e.KillerID,
			Team:     e.Team.String(),
			Position: e.Position,
			Health:   e.Health,
		})
	}

	if b.result != nil {
		r := &ResultJSON{
			Time:     b.result.Time,
			Over:     b.result.Over,
			Actions:  b.result.Actions,
			Survivor: b.result.Survivor,
		}
		if b.result.Winner.Valid() {
			r.Winner = b.result.Winner.String()
		}
		export.Result = r
	}

	return export
}

func writeJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := json.NewEncoder(gz).Encode(data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}
