// Package scenario loads opening positions from YAML files.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
)

// Placement is one unit in a scenario file.
type Placement struct {
	Kind       string `yaml:"kind"`
	Team       string `yaml:"team"`
	Row        int    `yaml:"row"`
	Col        int    `yaml:"col"`
	unit.Stats `yaml:",inline"`
}

// Scenario is a board size plus the units placed at the start.
type Scenario struct {
	Name  string      `yaml:"name"`
	Rows  int         `yaml:"rows"`
	Cols  int         `yaml:"cols"`
	Units []Placement `yaml:"units"`
}

// Placer is the subset of match.Session a scenario needs.
type Placer interface {
	Place(kind core.Kind, team core.Team, stats unit.Stats, p core.GridPoint) error
}

// Load reads and decodes a scenario file. Unknown keys are rejected.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Scenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	if s.Rows < 0 || s.Cols < 0 {
		return nil, fmt.Errorf("%w: scenario board size %dx%d", core.ErrInvalidArgument, s.Rows, s.Cols)
	}
	return &s, nil
}

// Apply places every unit in file order and stops at the first failure.
func (s *Scenario) Apply(p Placer) error {
	for i, u := range s.Units {
		kind, err := core.ParseKind(u.Kind)
		if err != nil {
			return fmt.Errorf("unit %d: %w", i, err)
		}
		team, err := core.ParseTeam(u.Team)
		if err != nil {
			return fmt.Errorf("unit %d: %w", i, err)
		}
		if err := p.Place(kind, team, u.Stats, core.Pt(u.Row, u.Col)); err != nil {
			return fmt.Errorf("unit %d: %w", i, err)
		}
	}
	return nil
}
