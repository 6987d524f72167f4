// pkg/core/team.go
package core

import (
	"fmt"
	"strings"
)

// Team is one of the two opposing sides of a match.
// The zero value is not a valid team.
type Team int

const (
	TeamWest Team = iota + 1
	TeamEast
)

// Valid reports whether t is one of the two playable teams.
func (t Team) Valid() bool {
	return t == TeamWest || t == TeamEast
}

// Opponent returns the opposing team.
func (t Team) Opponent() Team {
	switch t {
	case TeamWest:
		return TeamEast
	case TeamEast:
		return TeamWest
	default:
		return t
	}
}

func (t Team) String() string {
	switch t {
	case TeamWest:
		return "WEST"
	case TeamEast:
		return "EAST"
	default:
		return fmt.Sprintf("Team(%d)", int(t))
	}
}

// ParseTeam converts a side name to a Team. Matching is case-insensitive.
func ParseTeam(s string) (Team, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WEST":
		return TeamWest, nil
	case "EAST":
		return TeamEast, nil
	default:
		return 0, fmt.Errorf("%w: unknown team %q", ErrInvalidArgument, s)
	}
}

// Kind identifies a unit variant.
type Kind int

const (
	KindSoldier Kind = iota + 1
	KindMedic
	KindSniper
)

func (k Kind) String() string {
	switch k {
	case KindSoldier:
		return "soldier"
	case KindMedic:
		return "medic"
	case KindSniper:
		return "sniper"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a variant name to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "soldier":
		return KindSoldier, nil
	case "medic":
		return KindMedic, nil
	case "sniper":
		return KindSniper, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit kind %q", ErrInvalidArgument, s)
	}
}
