package unit

import (
	"testing"

	"github.com/OCAP2/skirmish/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, kind core.Kind, team core.Team, s Stats, at core.GridPoint) Unit {
	t.Helper()
	u, err := New(kind, team, s, DefaultRules())
	require.NoError(t, err)
	u.SetPosition(at)
	return u
}

func TestNew_Variants(t *testing.T) {
	s := Stats{Health: 10, Ammo: 2, Range: 3, Power: 4}

	tests := []struct {
		kind     core.Kind
		team     core.Team
		symbol   byte
		movement int
	}{
		{core.KindSoldier, core.TeamWest, 'S', 3},
		{core.KindSoldier, core.TeamEast, 's', 3},
		{core.KindMedic, core.TeamWest, 'M', 5},
		{core.KindMedic, core.TeamEast, 'm', 5},
		{core.KindSniper, core.TeamWest, 'N', 4},
		{core.KindSniper, core.TeamEast, 'n', 4},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.team.String(), func(t *testing.T) {
			u, err := New(tt.kind, tt.team, s, DefaultRules())
			require.NoError(t, err)

			assert.Equal(t, tt.kind, u.Kind())
			assert.Equal(t, tt.team, u.Team())
			assert.Equal(t, tt.symbol, u.Symbol())
			assert.Equal(t, tt.movement, u.MovementRange())
			assert.Equal(t, 10, u.Health())
			assert.Equal(t, 2, u.Ammo())
			assert.Equal(t, 3, u.Range())
			assert.Equal(t, 4, u.Power())
		})
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	valid := Stats{Health: 10, Ammo: 2, Range: 3, Power: 4}

	tests := []struct {
		name  string
		kind  core.Kind
		team  core.Team
		stats Stats
	}{
		{"zero health", core.KindSoldier, core.TeamWest, Stats{Health: 0, Ammo: 1, Range: 1, Power: 1}},
		{"negative health", core.KindSoldier, core.TeamWest, Stats{Health: -3, Ammo: 1, Range: 1, Power: 1}},
		{"negative ammo", core.KindMedic, core.TeamWest, Stats{Health: 1, Ammo: -1, Range: 1, Power: 1}},
		{"negative range", core.KindSniper, core.TeamEast, Stats{Health: 1, Ammo: 1, Range: -1, Power: 1}},
		{"negative power", core.KindSniper, core.TeamEast, Stats{Health: 1, Ammo: 1, Range: 1, Power: -1}},
		{"zero team", core.KindSoldier, core.Team(0), valid},
		{"unknown team", core.KindSoldier, core.Team(7), valid},
		{"unknown kind", core.Kind(0), core.TeamWest, valid},
		{"out of range kind", core.Kind(42), core.TeamEast, valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := New(tt.kind, tt.team, tt.stats, DefaultRules())
			require.ErrorIs(t, err, core.ErrInvalidArgument)
			assert.Nil(t, u)
		})
	}
}

func TestNew_ZeroValuesAllowed(t *testing.T) {
	u, err := New(core.KindSniper, core.TeamWest, Stats{Health: 1}, DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, 0, u.Ammo())
	assert.Equal(t, 0, u.Range())
	assert.Equal(t, 0, u.Power())
}

func TestHeal_DeadUnitStaysDead(t *testing.T) {
	u := place(t, core.KindSoldier, core.TeamWest, Stats{Health: 5}, core.Pt(0, 0))

	u.DecreaseHitPoints(7)
	require.True(t, u.IsDead())
	assert.Equal(t, -2, u.Health())

	u.Heal(10)
	assert.Equal(t, -2, u.Health())
	assert.True(t, u.IsDead())
}

func TestMove(t *testing.T) {
	tests := []struct {
		kind     core.Kind
		movement int
	}{
		{core.KindSoldier, 3},
		{core.KindMedic, 5},
		{core.KindSniper, 4},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			u := place(t, tt.kind, core.TeamWest, Stats{Health: 5}, core.Pt(0, 0))

			far := core.Pt(tt.movement, 1)
			err := u.Move(far)
			require.ErrorIs(t, err, core.ErrMoveTooFar)
			assert.Equal(t, core.Pt(0, 0), u.Position())

			edge := core.Pt(tt.movement-1, 1)
			require.NoError(t, u.Move(edge))
			assert.Equal(t, edge, u.Position())
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	orig := place(t, core.KindMedic, core.TeamWest, Stats{Health: 10, Ammo: 3, Range: 2, Power: 1}, core.Pt(1, 1))

	c := orig.Clone()
	require.NotSame(t, orig, c)

	c.DecreaseHitPoints(4)
	c.SetPosition(core.Pt(2, 2))
	c.Reload()

	assert.Equal(t, 10, orig.Health())
	assert.Equal(t, 3, orig.Ammo())
	assert.Equal(t, core.Pt(1, 1), orig.Position())
	assert.Equal(t, 6, c.Health())
	assert.Equal(t, 5, c.Ammo())
}

func TestRules_Validate(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())

	r := DefaultRules()
	r.Sniper.MinRangeDivisor = 0
	assert.ErrorIs(t, r.Validate(), core.ErrInvalidArgument)

	r = DefaultRules()
	r.Soldier.Magazine = -1
	assert.ErrorIs(t, r.Validate(), core.ErrInvalidArgument)

	r = DefaultRules()
	r.Sniper.ComboForBonus = 0
	assert.ErrorIs(t, r.Validate(), core.ErrInvalidArgument)
}
