package unit

import (
	"fmt"

	"github.com/OCAP2/skirmish/pkg/core"
)

// New validates the construction parameters and builds the requested variant.
// All failures wrap core.ErrInvalidArgument.
func New(kind core.Kind, team core.Team, s Stats, rules Rules) (Unit, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !team.Valid() {
		return nil, fmt.Errorf("%w: invalid team %s", core.ErrInvalidArgument, team)
	}

	switch kind {
	case core.KindSoldier:
		return NewSoldier(team, s, rules.Soldier), nil
	case core.KindMedic:
		return NewMedic(team, s, rules.Medic), nil
	case core.KindSniper:
		return NewSniper(team, s, rules.Sniper), nil
	default:
		return nil, fmt.Errorf("%w: unknown unit kind %s", core.ErrInvalidArgument, kind)
	}
}
