// pkg/grid/cell.go
package grid

import (
	"fmt"

	"go-tower-defense-sim/pkg/utils"
)

// Cell is a board coordinate (row, column).
type Cell struct {
	Row, Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Add returns the sum of two cells.
func (c Cell) Add(o Cell) Cell {
	return Cell{Row: c.Row + o.Row, Col: c.Col + o.Col}
}

// Subtract returns the difference of two cells.
func (c Cell) Subtract(o Cell) Cell {
	return Cell{Row: c.Row - o.Row, Col: c.Col - o.Col}
}

// Manhattan is the 4-neighbour distance.
func (c Cell) Manhattan(o Cell) int {
	return utils.Abs(c.Row-o.Row) + utils.Abs(c.Col-o.Col)
}

// Chebyshev is the 8-neighbour distance.
func (c Cell) Chebyshev(o Cell) int {
	return max(utils.Abs(c.Row-o.Row), utils.Abs(c.Col-o.Col))
}

// IsAdjacent reports whether o is one step from c under mode.
func (c Cell) IsAdjacent(o Cell, mode Mode) bool {
	dr, dc := utils.Abs(c.Row-o.Row), utils.Abs(c.Col-o.Col)
	if mode == Cardinal {
		return dr+dc == 1
	}
	return max(dr, dc) == 1
}

// Center returns the pixel centre of the cell.
func (c Cell) Center(cellSize float64) (x, y float64) {
	return (float64(c.Col) + 0.5) * cellSize, (float64(c.Row) + 0.5) * cellSize
}

// CellAt maps a pixel position onto the cell containing it.
func CellAt(x, y, cellSize float64) Cell {
	return Cell{Row: floorDiv(y, cellSize), Col: floorDiv(x, cellSize)}
}

func floorDiv(v, size float64) int {
	i := int(v / size)
	if v < 0 && float64(i)*size != v {
		i--
	}
	return i
}

// CardinalDirections in the order the path finder expands them: N, E, S, W.
var CardinalDirections = []Cell{
	{Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 0, Col: -1},
}

// DiagonalDirections in expansion order: NE, SE, SW, NW.
var DiagonalDirections = []Cell{
	{Row: -1, Col: 1}, {Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: -1},
}
