package unit

import (
	"fmt"

	"github.com/OCAP2/skirmish/pkg/core"
)

// Sniper strikes a single enemy inside a distance band and lands a critical
// hit on every ComboForBonus-th consecutive hit.
type Sniper struct {
	character
	rules SniperRules
	combo int
	shot  shotState
	crit  bool
}

// shotState tracks the combo step of the current attack so that every unit on
// the target square takes the same hit.
type shotState int

const (
	shotNone shotState = iota
	shotArmed
	shotLanded
)

// NewSniper builds a sniper without validating stats; use New for that.
func NewSniper(team core.Team, s Stats, rules SniperRules) *Sniper {
	return &Sniper{character: newCharacter(team, s), rules: rules}
}

func (s *Sniper) Kind() core.Kind    { return core.KindSniper }
func (s *Sniper) MovementRange() int { return s.rules.Movement }
func (s *Sniper) Symbol() byte       { return symbolFor(s.team, 'N') }

// Combo is the number of consecutive hits since the last critical.
func (s *Sniper) Combo() int { return s.combo }

// MinRange is the closest distance the sniper can shoot at:
// ceil(range / MinRangeDivisor) in integer arithmetic.
func (s *Sniper) MinRange() int {
	return core.CeilDiv(s.rng, s.rules.MinRangeDivisor)
}

func (s *Sniper) EnsureInMovementRange(dst core.GridPoint) error {
	return s.ensureWithin(dst, s.rules.Movement)
}

func (s *Sniper) Move(dst core.GridPoint) error {
	return s.moveWithin(dst, s.rules.Movement)
}

func (s *Sniper) Attack(target core.GridPoint, occupant Unit) error {
	if occupant == nil {
		return fmt.Errorf("%w: %s", core.ErrCellEmpty, target)
	}

	d := core.Distance(s.pos, target)
	if d < s.MinRange() || d > s.rng {
		return fmt.Errorf("%w: distance %d outside [%d,%d]", core.ErrOutOfRange, d, s.MinRange(), s.rng)
	}

	if occupant.Position() != target || !s.isEnemy(occupant) {
		return fmt.Errorf("%w: sniper must target an enemy", core.ErrIllegalTarget)
	}

	if err := s.consumeAmmo(); err != nil {
		return err
	}
	s.shot = shotArmed
	return nil
}

// DealDamage hits a unit standing on target. The combo counter advances once
// per attack: after Attack the first hit decides whether the shot is critical
// and any further unit on the same square takes that same hit. Without a
// preceding Attack each call counts as its own shot.
func (s *Sniper) DealDamage(other Unit, target core.GridPoint) {
	if other.Position() != target {
		return
	}

	switch s.shot {
	case shotLanded:
	case shotArmed:
		s.advanceCombo()
		s.shot = shotLanded
	default:
		s.advanceCombo()
	}

	if s.crit {
		other.DecreaseHitPoints(s.power * s.rules.CritMultiplier)
		return
	}
	other.DecreaseHitPoints(s.power)
}

func (s *Sniper) advanceCombo() {
	s.crit = s.combo == s.rules.ComboForBonus-1
	if s.crit {
		s.combo = 0
		return
	}
	s.combo++
}

func (s *Sniper) Reload() {
	s.ammo = s.rules.Magazine
}

func (s *Sniper) Clone() Unit {
	c := *s
	return &c
}
