// Package unit implements the combat units placed on a skirmish board: the
// shared Unit contract and the soldier, medic and sniper variants.
package unit

import (
	"fmt"
	"unicode"

	"github.com/OCAP2/skirmish/pkg/core"
)

// Unit is the capability set the match engine dispatches to.
//
// Attack only validates the action and pays its ammo cost. The health changes
// it causes are applied afterwards by DealDamage, which the engine invokes once
// for every unit on the roster with the impacted point.
type Unit interface {
	Kind() core.Kind
	Team() core.Team
	Health() int
	Ammo() int
	Range() int
	Power() int
	Position() core.GridPoint
	SetPosition(p core.GridPoint)

	MovementRange() int
	EnsureInMovementRange(dst core.GridPoint) error
	Move(dst core.GridPoint) error

	Attack(target core.GridPoint, occupant Unit) error
	DealDamage(other Unit, target core.GridPoint)
	Reload()

	DecreaseHitPoints(amount int)
	Heal(amount int)
	IsDead() bool

	Symbol() byte
	Clone() Unit
}

// Stats are the construction parameters shared by every variant.
type Stats struct {
	Health int `json:"health" yaml:"health"`
	Ammo   int `json:"ammo" yaml:"ammo"`
	Range  int `json:"range" yaml:"range"`
	Power  int `json:"power" yaml:"power"`
}

// Validate checks the construction invariants: health > 0 and no negative
// ammo, range or power.
func (s Stats) Validate() error {
	switch {
	case s.Health <= 0:
		return fmt.Errorf("%w: health must be positive, got %d", core.ErrInvalidArgument, s.Health)
	case s.Ammo < 0:
		return fmt.Errorf("%w: ammo must not be negative, got %d", core.ErrInvalidArgument, s.Ammo)
	case s.Range < 0:
		return fmt.Errorf("%w: range must not be negative, got %d", core.ErrInvalidArgument, s.Range)
	case s.Power < 0:
		return fmt.Errorf("%w: power must not be negative, got %d", core.ErrInvalidArgument, s.Power)
	}
	return nil
}

// character holds the state common to all variants.
type character struct {
	health int
	ammo   int
	rng    int
	power  int
	team   core.Team
	pos    core.GridPoint
}

func newCharacter(team core.Team, s Stats) character {
	return character{
		health: s.Health,
		ammo:   s.Ammo,
		rng:    s.Range,
		power:  s.Power,
		team:   team,
	}
}

func (c *character) Team() core.Team              { return c.team }
func (c *character) Health() int                  { return c.health }
func (c *character) Ammo() int                    { return c.ammo }
func (c *character) Range() int                   { return c.rng }
func (c *character) Power() int                   { return c.power }
func (c *character) Position() core.GridPoint     { return c.pos }
func (c *character) SetPosition(p core.GridPoint) { c.pos = p }

// IsDead reports whether health has dropped to zero or below.
func (c *character) IsDead() bool {
	return c.health <= 0
}

// DecreaseHitPoints lowers health by amount. Health may go negative.
func (c *character) DecreaseHitPoints(amount int) {
	c.health -= amount
}

// Heal raises health by amount. Dead units stay dead.
func (c *character) Heal(amount int) {
	if c.IsDead() {
		return
	}
	c.health += amount
}

// consumeAmmo spends one round or fails without touching the magazine.
func (c *character) consumeAmmo() error {
	if c.ammo <= 0 {
		return core.ErrOutOfAmmo
	}
	c.ammo--
	return nil
}

func (c *character) ensureWithin(dst core.GridPoint, movement int) error {
	if d := core.Distance(c.pos, dst); d > movement {
		return fmt.Errorf("%w: %s to %s is %d, allowance %d", core.ErrMoveTooFar, c.pos, dst, d, movement)
	}
	return nil
}

func (c *character) moveWithin(dst core.GridPoint, movement int) error {
	if err := c.ensureWithin(dst, movement); err != nil {
		return err
	}
	c.pos = dst
	return nil
}

func (c *character) isEnemy(u Unit) bool {
	return u.Team() != c.team
}

// symbolFor renders the variant letter upper-case for the west team and
// lower-case for the east team.
func symbolFor(team core.Team, letter rune) byte {
	if team == core.TeamEast {
		return byte(unicode.ToLower(letter))
	}
	return byte(unicode.ToUpper(letter))
}
