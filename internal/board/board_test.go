package board

import (
	"testing"

	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnit(t *testing.T, kind core.Kind, team core.Team, at core.GridPoint) unit.Unit {
	t.Helper()
	u, err := unit.New(kind, team, unit.Stats{Health: 5, Ammo: 1, Range: 2, Power: 1}, unit.DefaultRules())
	require.NoError(t, err)
	u.SetPosition(at)
	return u
}

func TestNew_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 2}} {
		_, err := New(dims[0], dims[1])
		assert.ErrorIs(t, err, core.ErrInvalidArgument, "dims %v", dims)
	}
}

func TestEnsureOnBoard(t *testing.T) {
	b, err := New(3, 4)
	require.NoError(t, err)

	tests := []struct {
		p  core.GridPoint
		ok bool
	}{
		{core.Pt(0, 0), true},
		{core.Pt(2, 3), true},
		{core.Pt(3, 0), false},
		{core.Pt(0, 4), false},
		{core.Pt(-1, 0), false},
		{core.Pt(0, -1), false},
	}

	for _, tt := range tests {
		err := b.EnsureOnBoard(tt.p)
		if tt.ok {
			assert.NoError(t, err, "%s", tt.p)
		} else {
			assert.ErrorIs(t, err, core.ErrOutOfBounds, "%s", tt.p)
		}
	}
}

func TestOccupancy(t *testing.T) {
	b, err := New(3, 3)
	require.NoError(t, err)

	west := newUnit(t, core.KindSoldier, core.TeamWest, core.Pt(0, 0))
	dead := newUnit(t, core.KindMedic, core.TeamEast, core.Pt(1, 1))
	dead.DecreaseHitPoints(10)
	roster := []unit.Unit{west, dead}

	assert.Same(t, west, b.OccupantAt(core.Pt(0, 0), roster))
	assert.Nil(t, b.OccupantAt(core.Pt(1, 1), roster), "dead units do not occupy cells")
	assert.Nil(t, b.OccupantAt(core.Pt(2, 2), roster))

	require.ErrorIs(t, b.EnsureAvailable(core.Pt(0, 0), roster), core.ErrCellOccupied)
	require.NoError(t, b.EnsureAvailable(core.Pt(1, 1), roster))

	_, err = b.UnitAt(core.Pt(2, 2), roster)
	require.ErrorIs(t, err, core.ErrCellEmpty)

	u, err := b.UnitAt(core.Pt(0, 0), roster)
	require.NoError(t, err)
	assert.Same(t, west, u)
}

func TestRender(t *testing.T) {
	b, err := New(2, 3)
	require.NoError(t, err)

	roster := []unit.Unit{
		newUnit(t, core.KindSoldier, core.TeamWest, core.Pt(0, 0)),
		newUnit(t, core.KindMedic, core.TeamEast, core.Pt(0, 2)),
		newUnit(t, core.KindSniper, core.TeamEast, core.Pt(1, 1)),
	}

	want := "" +
		"*******\n" +
		"|S| |m|\n" +
		"| |n| |\n" +
		"*******\n"
	assert.Equal(t, want, b.Render(roster))
}

func TestRender_Empty(t *testing.T) {
	b, err := New(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "***\n| |\n***\n", b.Render(nil))
}
