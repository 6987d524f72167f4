package unit

import (
	"fmt"

	"github.com/OCAP2/skirmish/pkg/core"
)

// Medic heals allies and damages enemies standing on the impacted square.
// Support actions on allies are free; hitting an enemy costs one round.
type Medic struct {
	character
	rules MedicRules
}

// NewMedic builds a medic without validating stats; use New for that.
func NewMedic(team core.Team, s Stats, rules MedicRules) *Medic {
	return &Medic{character: newCharacter(team, s), rules: rules}
}

func (m *Medic) Kind() core.Kind    { return core.KindMedic }
func (m *Medic) MovementRange() int { return m.rules.Movement }
func (m *Medic) Symbol() byte       { return symbolFor(m.team, 'M') }

func (m *Medic) EnsureInMovementRange(dst core.GridPoint) error {
	return m.ensureWithin(dst, m.rules.Movement)
}

func (m *Medic) Move(dst core.GridPoint) error {
	return m.moveWithin(dst, m.rules.Movement)
}

// Attack validates a heal or strike on target. The medic can never target its
// own square, and an empty square is never a legal target.
func (m *Medic) Attack(target core.GridPoint, occupant Unit) error {
	d := core.Distance(m.pos, target)
	if d == 0 {
		return fmt.Errorf("%w: medic cannot target itself", core.ErrIllegalTarget)
	}
	if d > m.rng {
		return fmt.Errorf("%w: distance %d exceeds range %d", core.ErrOutOfRange, d, m.rng)
	}

	if occupant == nil {
		if m.ammo <= 0 {
			return core.ErrOutOfAmmo
		}
		return fmt.Errorf("%w: %s is empty", core.ErrIllegalTarget, target)
	}

	if m.isEnemy(occupant) {
		return m.consumeAmmo()
	}
	return nil
}

// DealDamage heals allies and damages enemies standing on target.
func (m *Medic) DealDamage(other Unit, target core.GridPoint) {
	if other.Position() != target {
		return
	}
	if m.isEnemy(other) {
		other.DecreaseHitPoints(m.power)
		return
	}
	other.Heal(m.power)
}

// Reload refills the magazine.
func (m *Medic) Reload() {
	m.ammo = m.rules.Magazine
}

func (m *Medic) Clone() Unit {
	c := *m
	return &c
}
