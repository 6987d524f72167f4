package unit

import (
	"fmt"

	"github.com/OCAP2/skirmish/pkg/core"
)

// Soldier fires along its row or column. The shot lands on a square rather
// than a unit: enemies on that square take full power and enemies within the
// splash radius take a reduced share. Allies are never hurt.
type Soldier struct {
	character
	rules SoldierRules
}

// NewSoldier builds a soldier without validating stats; use New for that.
func NewSoldier(team core.Team, s Stats, rules SoldierRules) *Soldier {
	return &Soldier{character: newCharacter(team, s), rules: rules}
}

func (s *Soldier) Kind() core.Kind    { return core.KindSoldier }
func (s *Soldier) MovementRange() int { return s.rules.Movement }
func (s *Soldier) Symbol() byte       { return symbolFor(s.team, 'S') }

// SplashRadius is ceil(range / SplashRadiusDivisor).
func (s *Soldier) SplashRadius() int {
	return core.CeilDiv(s.rng, s.rules.SplashRadiusDivisor)
}

// SplashDamage is ceil(power / SplashDamageDivisor).
func (s *Soldier) SplashDamage() int {
	return core.CeilDiv(s.power, s.rules.SplashDamageDivisor)
}

func (s *Soldier) EnsureInMovementRange(dst core.GridPoint) error {
	return s.ensureWithin(dst, s.rules.Movement)
}

func (s *Soldier) Move(dst core.GridPoint) error {
	return s.moveWithin(dst, s.rules.Movement)
}

// Attack accepts empty squares. The occupant is not consulted.
func (s *Soldier) Attack(target core.GridPoint, _ Unit) error {
	d := core.Distance(s.pos, target)
	if d > s.rng {
		return fmt.Errorf("%w: distance %d exceeds range %d", core.ErrOutOfRange, d, s.rng)
	}
	if s.ammo <= 0 {
		return core.ErrOutOfAmmo
	}
	if d == 0 {
		return fmt.Errorf("%w: soldier cannot target itself", core.ErrIllegalTarget)
	}
	if !s.pos.SameLine(target) {
		return fmt.Errorf("%w: %s is not on the soldier's row or column", core.ErrIllegalTarget, target)
	}
	return s.consumeAmmo()
}

func (s *Soldier) DealDamage(other Unit, target core.GridPoint) {
	if !s.isEnemy(other) {
		return
	}
	d := core.Distance(other.Position(), target)
	switch {
	case d == 0:
		other.DecreaseHitPoints(s.power)
	case d <= s.SplashRadius():
		other.DecreaseHitPoints(s.SplashDamage())
	}
}

func (s *Soldier) Reload() {
	s.ammo = s.rules.Magazine
}

func (s *Soldier) Clone() Unit {
	c := *s
	return &c
}
