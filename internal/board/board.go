// Package board validates coordinates and answers occupancy queries over a
// roster of units. It owns no cells: occupancy is derived from the positions
// of the units it is handed.
package board

import (
	"fmt"
	"strings"

	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/OCAP2/skirmish/pkg/core"
)

const (
	borderChar = '*'
	columnSep  = '|'
	emptyCell  = ' '
)

// Board holds the grid dimensions.
type Board struct {
	rows int
	cols int
}

// New creates a rows x cols board.
func New(rows, cols int) (Board, error) {
	if rows <= 0 || cols <= 0 {
		return Board{}, fmt.Errorf("%w: board dimensions must be positive, got %dx%d", core.ErrInvalidArgument, rows, cols)
	}
	return Board{rows: rows, cols: cols}, nil
}

func (b Board) Rows() int { return b.rows }
func (b Board) Cols() int { return b.cols }

// Contains reports whether p lies inside [0,rows) x [0,cols).
func (b Board) Contains(p core.GridPoint) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// EnsureOnBoard fails with core.ErrOutOfBounds when p is off the grid.
func (b Board) EnsureOnBoard(p core.GridPoint) error {
	if !b.Contains(p) {
		return fmt.Errorf("%w: %s on %dx%d board", core.ErrOutOfBounds, p, b.rows, b.cols)
	}
	return nil
}

// EnsureAvailable fails with core.ErrCellOccupied when a living unit stands on p.
func (b Board) EnsureAvailable(p core.GridPoint, roster []unit.Unit) error {
	if u := b.OccupantAt(p, roster); u != nil {
		return fmt.Errorf("%w: %s holds %c", core.ErrCellOccupied, p, u.Symbol())
	}
	return nil
}

// OccupantAt returns the living unit on p, or nil.
func (b Board) OccupantAt(p core.GridPoint, roster []unit.Unit) unit.Unit {
	for _, u := range roster {
		if u.Position() == p && !u.IsDead() {
			return u
		}
	}
	return nil
}

// UnitAt is OccupantAt that fails with core.ErrCellEmpty instead of returning nil.
func (b Board) UnitAt(p core.GridPoint, roster []unit.Unit) (unit.Unit, error) {
	u := b.OccupantAt(p, roster)
	if u == nil {
		return nil, fmt.Errorf("%w: no unit at %s", core.ErrCellEmpty, p)
	}
	return u, nil
}

// Cells returns the row-major symbol grid, emptyCell where nobody stands.
func (b Board) Cells(roster []unit.Unit) [][]byte {
	cells := make([][]byte, b.rows)
	for r := range cells {
		cells[r] = []byte(strings.Repeat(string(emptyCell), b.cols))
	}
	for _, u := range roster {
		p := u.Position()
		if u.IsDead() || !b.Contains(p) {
			continue
		}
		cells[p.Row][p.Col] = u.Symbol()
	}
	return cells
}

// Render draws the board framed by a border line:
//
//	***********
//	|S| | | |m|
//	***********
func (b Board) Render(roster []unit.Unit) string {
	border := strings.Repeat(string(borderChar), 2*b.cols+1)

	var sb strings.Builder
	sb.WriteString(border)
	sb.WriteByte('\n')
	for _, row := range b.Cells(roster) {
		sb.WriteByte(columnSep)
		for _, c := range row {
			sb.WriteByte(c)
			sb.WriteByte(columnSep)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(border)
	sb.WriteByte('\n')
	return sb.String()
}

// EnsureAvailableOnBoard runs EnsureOnBoard then EnsureAvailable.
func (b Board) EnsureAvailableOnBoard(p core.GridPoint, roster []unit.Unit) error {
	if err := b.EnsureOnBoard(p); err != nil {
		return err
	}
	return b.EnsureAvailable(p, roster)
}
