package unit

import (
	"testing"

	"github.com/OCAP2/skirmish/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoldier_Attack(t *testing.T) {
	stats := Stats{Health: 10, Ammo: 1, Range: 4, Power: 5}

	t.Run("empty square on the same row", func(t *testing.T) {
		s := place(t, core.KindSoldier, core.TeamWest, stats, core.Pt(2, 0))
		require.NoError(t, s.Attack(core.Pt(2, 4), nil))
		assert.Equal(t, 0, s.Ammo())
	})

	t.Run("same column", func(t *testing.T) {
		s := place(t, core.KindSoldier, core.TeamWest, stats, core.Pt(0, 1))
		require.NoError(t, s.Attack(core.Pt(3, 1), nil))
	})

	t.Run("diagonal is illegal", func(t *testing.T) {
		s := place(t, core.KindSoldier, core.TeamWest, stats, core.Pt(0, 0))
		err := s.Attack(core.Pt(1, 1), nil)
		require.ErrorIs(t, err, core.ErrIllegalTarget)
		assert.Equal(t, 1, s.Ammo())
	})

	t.Run("own square is illegal", func(t *testing.T) {
		s := place(t, core.KindSoldier, core.TeamWest, stats, core.Pt(0, 0))
		err := s.Attack(core.Pt(0, 0), s)
		require.ErrorIs(t, err, core.ErrIllegalTarget)
		assert.Equal(t, 1, s.Ammo())
	})

	t.Run("out of range", func(t *testing.T) {
		s := place(t, core.KindSoldier, core.TeamWest, stats, core.Pt(0, 0))
		err := s.Attack(core.Pt(0, 5), nil)
		require.ErrorIs(t, err, core.ErrOutOfRange)
	})

	t.Run("out of ammo", func(t *testing.T) {
		s := place(t, core.KindSoldier, core.TeamWest, Stats{Health: 10, Range: 4, Power: 5}, core.Pt(0, 0))
		err := s.Attack(core.Pt(0, 2), nil)
		require.ErrorIs(t, err, core.ErrOutOfAmmo)
	})
}

func TestSoldier_DealDamageSplash(t *testing.T) {
	// range 6 -> splash radius 2, power 5 -> splash damage 3
	s := place(t, core.KindSoldier, core.TeamWest, Stats{Health: 10, Ammo: 3, Range: 6, Power: 5}, core.Pt(0, 0))
	target := core.Pt(0, 4)

	atTarget := place(t, core.KindMedic, core.TeamEast, Stats{Health: 10}, target)
	adjacent := place(t, core.KindMedic, core.TeamEast, Stats{Health: 10}, core.Pt(1, 4))
	edge := place(t, core.KindMedic, core.TeamEast, Stats{Health: 10}, core.Pt(1, 5))
	outside := place(t, core.KindMedic, core.TeamEast, Stats{Health: 10}, core.Pt(3, 4))
	ally := place(t, core.KindMedic, core.TeamWest, Stats{Health: 10}, core.Pt(0, 3))

	for _, u := range []Unit{s, atTarget, adjacent, edge, outside, ally} {
		s.DealDamage(u, target)
	}

	assert.Equal(t, 5, atTarget.Health())
	assert.Equal(t, 7, adjacent.Health())
	assert.Equal(t, 7, edge.Health())
	assert.Equal(t, 10, outside.Health())
	assert.Equal(t, 10, ally.Health())
	assert.Equal(t, 10, s.Health())
}

func TestSoldier_SplashRounding(t *testing.T) {
	s := NewSoldier(core.TeamWest, Stats{Health: 1, Range: 4, Power: 3}, DefaultRules().Soldier)
	assert.Equal(t, 2, s.SplashRadius())
	assert.Equal(t, 2, s.SplashDamage())

	s = NewSoldier(core.TeamWest, Stats{Health: 1, Range: 0, Power: 0}, DefaultRules().Soldier)
	assert.Equal(t, 0, s.SplashRadius())
	assert.Equal(t, 0, s.SplashDamage())
}

func TestSoldier_Reload(t *testing.T) {
	s := place(t, core.KindSoldier, core.TeamWest, Stats{Health: 10, Ammo: 1}, core.Pt(0, 0))
	s.Reload()
	assert.Equal(t, 3, s.Ammo())
}
