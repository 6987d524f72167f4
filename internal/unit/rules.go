package unit

import (
	"fmt"

	"github.com/OCAP2/skirmish/pkg/core"
)

// Rules carries the per-variant constants. DefaultRules matches the classic
// game; config.GetRules lets a deployment override any of them.
type Rules struct {
	Soldier SoldierRules `json:"soldier" mapstructure:"soldier"`
	Medic   MedicRules   `json:"medic" mapstructure:"medic"`
	Sniper  SniperRules  `json:"sniper" mapstructure:"sniper"`
}

// SoldierRules configure the area-damage variant.
type SoldierRules struct {
	Movement            int `json:"movement" mapstructure:"movement"`
	Magazine            int `json:"magazine" mapstructure:"magazine"`
	SplashRadiusDivisor int `json:"splashRadiusDivisor" mapstructure:"splashRadiusDivisor"`
	SplashDamageDivisor int `json:"splashDamageDivisor" mapstructure:"splashDamageDivisor"`
}

// MedicRules configure the support variant.
type MedicRules struct {
	Movement int `json:"movement" mapstructure:"movement"`
	Magazine int `json:"magazine" mapstructure:"magazine"`
}

// SniperRules configure the precision variant.
type SniperRules struct {
	Movement        int `json:"movement" mapstructure:"movement"`
	Magazine        int `json:"magazine" mapstructure:"magazine"`
	MinRangeDivisor int `json:"minRangeDivisor" mapstructure:"minRangeDivisor"`
	ComboForBonus   int `json:"comboForBonus" mapstructure:"comboForBonus"`
	CritMultiplier  int `json:"critMultiplier" mapstructure:"critMultiplier"`
}

// DefaultRules returns the standard constants.
func DefaultRules() Rules {
	return Rules{
		Soldier: SoldierRules{
			Movement:            3,
			Magazine:            3,
			SplashRadiusDivisor: 3,
			SplashDamageDivisor: 2,
		},
		Medic: MedicRules{
			Movement: 5,
			Magazine: 5,
		},
		Sniper: SniperRules{
			Movement:        4,
			Magazine:        2,
			MinRangeDivisor: 2,
			ComboForBonus:   3,
			CritMultiplier:  2,
		},
	}
}

// Validate rejects rule sets that would break the unit invariants.
func (r Rules) Validate() error {
	checks := []struct {
		name string
		v    int
		min  int
	}{
		{"soldier.movement", r.Soldier.Movement, 0},
		{"soldier.magazine", r.Soldier.Magazine, 0},
		{"soldier.splashRadiusDivisor", r.Soldier.SplashRadiusDivisor, 1},
		{"soldier.splashDamageDivisor", r.Soldier.SplashDamageDivisor, 1},
		{"medic.movement", r.Medic.Movement, 0},
		{"medic.magazine", r.Medic.Magazine, 0},
		{"sniper.movement", r.Sniper.Movement, 0},
		{"sniper.magazine", r.Sniper.Magazine, 0},
		{"sniper.minRangeDivisor", r.Sniper.MinRangeDivisor, 1},
		{"sniper.comboForBonus", r.Sniper.ComboForBonus, 1},
		{"sniper.critMultiplier", r.Sniper.CritMultiplier, 0},
	}
	for _, c := range checks {
		if c.v < c.min {
			return fmt.Errorf("%w: rule %s must be at least %d, got %d", core.ErrInvalidArgument, c.name, c.min, c.v)
		}
	}
	return nil
}
