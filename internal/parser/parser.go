// Package parser turns text commands into typed arguments for the match session.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OCAP2/skirmish/internal/dispatcher"
	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
)

// Place holds the arguments of a place command.
type Place struct {
	Kind  core.Kind
	Team  core.Team
	Point core.GridPoint
	Stats unit.Stats
}

// ParseLine splits a command line into an event. Blank lines and lines
// starting with '#' yield ok == false.
func ParseLine(line string, now time.Time) (dispatcher.Event, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return dispatcher.Event{}, false
	}
	return dispatcher.Event{
		Command:   strings.ToLower(fields[0]),
		Args:      fields[1:],
		Timestamp: now,
	}, true
}

// parseInt accepts "3" as well as "3.0"; anything with a fractional part is rejected.
func parseInt(name, s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", core.ErrInvalidArgument, name, s)
	}
	return int(f), nil
}

func expectArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d arguments (%s), got %d", core.ErrInvalidArgument, n, usage, len(args))
	}
	return nil
}

// ParsePoint reads a row and a column.
func ParsePoint(row, col string) (core.GridPoint, error) {
	r, err := parseInt("row", row)
	if err != nil {
		return core.GridPoint{}, err
	}
	c, err := parseInt("col", col)
	if err != nil {
		return core.GridPoint{}, err
	}
	return core.Pt(r, c), nil
}

// ParseKind reads a unit kind name.
func ParseKind(s string) (core.Kind, error) {
	return core.ParseKind(s)
}

// ParseTeam reads a team name.
func ParseTeam(s string) (core.Team, error) {
	return core.ParseTeam(s)
}

// ParseStats reads health, ammo, range and power, in that order.
func ParseStats(args []string) (unit.Stats, error) {
	if err := expectArgs(args, 4, "health ammo range power"); err != nil {
		return unit.Stats{}, err
	}
	var vals [4]int
	names := [4]string{"health", "ammo", "range", "power"}
	for i, a := range args {
		v, err := parseInt(names[i], a)
		if err != nil {
			return unit.Stats{}, err
		}
		vals[i] = v
	}
	s := unit.Stats{Health: vals[0], Ammo: vals[1], Range: vals[2], Power: vals[3]}
	if err := s.Validate(); err != nil {
		return unit.Stats{}, err
	}
	return s, nil
}

// ParsePlace reads "kind team row col health ammo range power".
func ParsePlace(args []string) (Place, error) {
	if err := expectArgs(args, 8, "kind team row col health ammo range power"); err != nil {
		return Place{}, err
	}
	kind, err := ParseKind(args[0])
	if err != nil {
		return Place{}, err
	}
	team, err := ParseTeam(args[1])
	if err != nil {
		return Place{}, err
	}
	p, err := ParsePoint(args[2], args[3])
	if err != nil {
		return Place{}, err
	}
	stats, err := ParseStats(args[4:])
	if err != nil {
		return Place{}, err
	}
	return Place{Kind: kind, Team: team, Point: p, Stats: stats}, nil
}

// ParseSourceTarget reads "row col row col" for move and attack.
func ParseSourceTarget(args []string) (src, dst core.GridPoint, err error) {
	if err = expectArgs(args, 4, "srcRow srcCol dstRow dstCol"); err != nil {
		return
	}
	if src, err = ParsePoint(args[0], args[1]); err != nil {
		return
	}
	dst, err = ParsePoint(args[2], args[3])
	return
}

// ParseSingle reads "row col" for reload.
func ParseSingle(args []string) (core.GridPoint, error) {
	if err := expectArgs(args, 2, "row col"); err != nil {
		return core.GridPoint{}, err
	}
	return ParsePoint(args[0], args[1])
}
