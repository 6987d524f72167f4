// Package game is the match engine: it owns the roster and the board index,
// routes place/move/attack/reload actions to the addressed unit and sweeps the
// roster after every attack to apply area effects and remove the dead.
//
// A Game is not safe for concurrent use. Actions run one at a time and either
// complete or fail without mutating anything.
package game

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/skirmish/internal/board"
	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
)

// Option configures a Game.
type Option func(*Game)

// WithRules overrides the per-variant constants used by MakeUnit.
func WithRules(r unit.Rules) Option {
	return func(g *Game) {
		g.rules = r
	}
}

// WithLogger sets the logger used for action tracing.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// Game is a single match.
type Game struct {
	board board.Board
	units []unit.Unit
	rules unit.Rules
	log   *slog.Logger
}

// New creates an empty rows x cols match.
func New(rows, cols int, opts ...Option) (*Game, error) {
	b, err := board.New(rows, cols)
	if err != nil {
		return nil, err
	}

	g := &Game{
		board: b,
		rules: unit.DefaultRules(),
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.rules.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) Rows() int         { return g.board.Rows() }
func (g *Game) Cols() int         { return g.board.Cols() }
func (g *Game) Rules() unit.Rules { return g.rules }

// Units returns the roster in insertion order. The slice is a copy; the units
// are not, so callers must treat them as read-only.
func (g *Game) Units() []unit.Unit {
	out := make([]unit.Unit, len(g.units))
	copy(out, g.units)
	return out
}

// UnitAt returns the unit standing on p, or nil.
func (g *Game) UnitAt(p core.GridPoint) unit.Unit {
	return g.board.OccupantAt(p, g.units)
}

// MakeUnit validates the parameters and builds a unit with this match's rules.
// It does not place the unit.
func (g *Game) MakeUnit(kind core.Kind, team core.Team, health, ammo, rng, power int) (unit.Unit, error) {
	return unit.New(kind, team, unit.Stats{Health: health, Ammo: ammo, Range: rng, Power: power}, g.rules)
}

// AddUnit places u on p and appends it to the roster. A unit can be placed
// only once.
func (g *Game) AddUnit(p core.GridPoint, u unit.Unit) error {
	if u == nil {
		return fmt.Errorf("%w: nil unit", core.ErrInvalidArgument)
	}
	for _, placed := range g.units {
		if placed == u {
			return fmt.Errorf("%w: unit already placed at %s", core.ErrInvalidArgument, u.Position())
		}
	}
	if err := g.board.EnsureAvailableOnBoard(p, g.units); err != nil {
		return err
	}

	u.SetPosition(p)
	g.units = append(g.units, u)
	g.log.Debug("unit placed", "kind", u.Kind(), "team", u.Team(), "pos", p)
	return nil
}

// Move relocates the unit on src to dst. Checks run in a fixed order so an
// illegal request always reports the same error: bounds, source occupant,
// movement allowance, destination availability.
func (g *Game) Move(src, dst core.GridPoint) error {
	if err := g.ensureOnBoard(src, dst); err != nil {
		return err
	}

	u, err := g.board.UnitAt(src, g.units)
	if err != nil {
		return err
	}
	if err := u.EnsureInMovementRange(dst); err != nil {
		return err
	}
	if err := g.board.EnsureAvailable(dst, g.units); err != nil {
		return err
	}

	if err := u.Move(dst); err != nil {
		return err
	}
	g.log.Debug("unit moved", "kind", u.Kind(), "team", u.Team(), "from", src, "to", dst)
	return nil
}

// Attack makes the unit on src act on dst, then sweeps every unit on the
// roster through the attacker's DealDamage and removes the dead. The sweep
// runs for heals as well as strikes; it is the only place health changes.
// The removed units are returned in roster order.
func (g *Game) Attack(src, dst core.GridPoint) ([]unit.Unit, error) {
	if err := g.ensureOnBoard(src, dst); err != nil {
		return nil, err
	}

	attacker, err := g.board.UnitAt(src, g.units)
	if err != nil {
		return nil, err
	}
	if err := attacker.Attack(dst, g.board.OccupantAt(dst, g.units)); err != nil {
		return nil, err
	}

	for _, u := range g.units {
		attacker.DealDamage(u, dst)
	}

	casualties := g.prune()
	g.log.Debug("attack resolved", "kind", attacker.Kind(), "team", attacker.Team(), "from", src, "to", dst, "casualties", len(casualties))
	for _, u := range casualties {
		g.log.Info("unit eliminated", "kind", u.Kind(), "team", u.Team(), "pos", u.Position(), "health", u.Health())
	}
	return casualties, nil
}

// Reload refills the magazine of the unit on p.
func (g *Game) Reload(p core.GridPoint) error {
	if err := g.board.EnsureOnBoard(p); err != nil {
		return err
	}
	u, err := g.board.UnitAt(p, g.units)
	if err != nil {
		return err
	}
	u.Reload()
	g.log.Debug("unit reloaded", "kind", u.Kind(), "team", u.Team(), "pos", p, "ammo", u.Ammo())
	return nil
}

// IsOver reports whether only one team is left standing and which one. An
// empty roster is not a finished game.
func (g *Game) IsOver() (core.Team, bool) {
	if len(g.units) == 0 {
		return 0, false
	}

	seen := map[core.Team]bool{}
	for _, u := range g.units {
		seen[u.Team()] = true
		if seen[core.TeamWest] && seen[core.TeamEast] {
			return 0, false
		}
	}
	if seen[core.TeamWest] {
		return core.TeamWest, true
	}
	return core.TeamEast, true
}

// Clone returns an independent copy of the match; every unit is cloned.
func (g *Game) Clone() *Game {
	c := &Game{
		board: g.board,
		rules: g.rules,
		log:   g.log,
		units: make([]unit.Unit, 0, len(g.units)),
	}
	for _, u := range g.units {
		c.units = append(c.units, u.Clone())
	}
	return c
}

// String renders the board.
func (g *Game) String() string {
	return g.board.Render(g.units)
}

func (g *Game) ensureOnBoard(points ...core.GridPoint) error {
	for _, p := range points {
		if err := g.board.EnsureOnBoard(p); err != nil {
			return err
		}
	}
	return nil
}

// prune drops dead units in place, keeping roster order, and returns them.
func (g *Game) prune() []unit.Unit {
	var dead []unit.Unit
	alive := make([]unit.Unit, 0, len(g.units))
	for _, u := range g.units {
		if u.IsDead() {
			dead = append(dead, u)
			continue
		}
		alive = append(alive, u)
	}
	g.units = alive
	return dead
}
