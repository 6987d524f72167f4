// pkg/core/point.go
package core

import "fmt"

// GridPoint is a board-relative integer coordinate.
type GridPoint struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Pt is shorthand for GridPoint{Row: row, Col: col}.
func Pt(row, col int) GridPoint {
	return GridPoint{Row: row, Col: col}
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// SameLine reports whether p and q share a row or a column.
func (p GridPoint) SameLine(q GridPoint) bool {
	return p.Row == q.Row || p.Col == q.Col
}

// Distance is the Manhattan distance between two points. Movement allowance,
// attack range and splash radius are all measured with it.
func Distance(p, q GridPoint) int {
	return abs(p.Row-q.Row) + abs(p.Col-q.Col)
}

// CeilDiv returns ceil(n/d) for n >= 0 and d > 0.
func CeilDiv(n, d int) int {
	return (n + d - 1) / d
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
