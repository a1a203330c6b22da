// pkg/grid/grid.go
package grid

// Cell codes. Zero is empty, negative values count mobs on the cell and
// positive values below CodeWall are tower ids.
const (
	CodeEmpty  = 0
	CodeWall   = 1 << 30
	CodeStart  = CodeWall + 1
	CodeTarget = CodeWall + 2
)

// Grid is the authoritative occupancy matrix of a board.
type Grid struct {
	Rows, Cols int
	cells      []int
	starts     []Cell
	targets    []Cell
}

// New creates an open rows×cols grid with every cell empty.
func New(rows, cols int) *Grid {
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		cells: make([]int, rows*cols),
	}
}

func (g *Grid) idx(r, c int) int { return r*g.Cols + c }

// Index returns the flat index of an in-bounds cell.
func (g *Grid) Index(r, c int) int { return g.idx(r, c) }

// InBounds reports whether (r, c) lies on the board.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.Rows && c >= 0 && c < g.Cols
}

// IsBorder reports whether (r, c) is on the outermost ring.
func (g *Grid) IsBorder(r, c int) bool {
	if !g.InBounds(r, c) {
		return false
	}
	return r == 0 || c == 0 || r == g.Rows-1 || c == g.Cols-1
}

// Code returns the raw cell code. Out of bounds reads as a wall.
func (g *Grid) Code(r, c int) int {
	if !g.InBounds(r, c) {
		return CodeWall
	}
	return g.cells[g.idx(r, c)]
}

// IsWalkable reports whether ground agents can step on (r, c).
func (g *Grid) IsWalkable(r, c int) bool {
	code := g.Code(r, c)
	return code <= CodeEmpty || code == CodeStart || code == CodeTarget
}

// IsWall reports whether (r, c) is wall-coded (or off the board).
func (g *Grid) IsWall(r, c int) bool {
	return g.Code(r, c) == CodeWall
}

// TowerAt returns the tower id standing on (r, c), or 0.
func (g *Grid) TowerAt(r, c int) int {
	code := g.Code(r, c)
	if code > CodeEmpty && code < CodeWall {
		return code
	}
	return 0
}

// MobCount returns how many ground mobs stand on (r, c).
func (g *Grid) MobCount(r, c int) int {
	code := g.Code(r, c)
	if code < CodeEmpty {
		return -code
	}
	return 0
}

// Occupy writes a tower id onto an empty cell. Start/target markers are never overwritten.
func (g *Grid) Occupy(r, c, id int) bool {
	if id <= CodeEmpty || id >= CodeWall || !g.InBounds(r, c) {
		return false
	}
	i := g.idx(r, c)
	if g.cells[i] != CodeEmpty {
		return false
	}
	g.cells[i] = id
	return true
}

// Vacate clears a tower from (r, c). Other codes are left alone.
func (g *Grid) Vacate(r, c int) bool {
	if g.TowerAt(r, c) == 0 {
		return false
	}
	g.cells[g.idx(r, c)] = CodeEmpty
	return true
}

// IncMobCount records a ground mob entering (r, c).
// Marker and tower cells keep their code; the mob is simply not counted there.
func (g *Grid) IncMobCount(r, c int) {
	if !g.InBounds(r, c) {
		return
	}
	i := g.idx(r, c)
	if g.cells[i] <= CodeEmpty {
		g.cells[i]--
	}
}

// DecMobCount records a ground mob leaving (r, c). The count never goes past zero.
func (g *Grid) DecMobCount(r, c int) {
	if !g.InBounds(r, c) {
		return
	}
	i := g.idx(r, c)
	if g.cells[i] < CodeEmpty {
		g.cells[i]++
	}
}

// CanPlace reports whether a size×size footprint anchored at (r, c) is entirely
// in bounds, off the border and empty.
func (g *Grid) CanPlace(r, c, size int) bool {
	if size <= 0 {
		return false
	}
	for dr := 0; dr < size; dr++ {
		for dc := 0; dc < size; dc++ {
			rr, cc := r+dr, c+dc
			if !g.InBounds(rr, cc) || g.Code(rr, cc) != CodeEmpty {
				return false
			}
		}
	}
	return true
}

// Footprint lists the cells of a size×size block anchored at (r, c).
func Footprint(r, c, size int) []Cell {
	cells := make([]Cell, 0, size*size)
	for dr := 0; dr < size; dr++ {
		for dc := 0; dc < size; dc++ {
			cells = append(cells, Cell{Row: r + dr, Col: c + dc})
		}
	}
	return cells
}

// SetWall marks (r, c) as impassable.
func (g *Grid) SetWall(r, c int) {
	if g.InBounds(r, c) {
		g.cells[g.idx(r, c)] = CodeWall
	}
}

// AddStart marks a spawn cell.
func (g *Grid) AddStart(r, c int) {
	if g.InBounds(r, c) {
		g.cells[g.idx(r, c)] = CodeStart
		g.starts = append(g.starts, Cell{Row: r, Col: c})
	}
}

// AddTarget marks an exit cell.
func (g *Grid) AddTarget(r, c int) {
	if g.InBounds(r, c) {
		g.cells[g.idx(r, c)] = CodeTarget
		g.targets = append(g.targets, Cell{Row: r, Col: c})
	}
}

// SealBorder wall-codes the outer ring, keeping start and target markers.
func (g *Grid) SealBorder() {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if !g.IsBorder(r, c) {
				continue
			}
			code := g.cells[g.idx(r, c)]
			if code != CodeStart && code != CodeTarget {
				g.cells[g.idx(r, c)] = CodeWall
			}
		}
	}
}

// Starts returns the spawn cells in layout order.
func (g *Grid) Starts() []Cell { return g.starts }

// Targets returns the exit cells in layout order.
func (g *Grid) Targets() []Cell { return g.targets }

// IsTarget reports whether c is one of the exit cells.
func (g *Grid) IsTarget(c Cell) bool {
	return g.Code(c.Row, c.Col) == CodeTarget
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cp := &Grid{
		Rows:    g.Rows,
		Cols:    g.Cols,
		cells:   append([]int(nil), g.cells...),
		starts:  append([]Cell(nil), g.starts...),
		targets: append([]Cell(nil), g.targets...),
	}
	return cp
}

// Equal compares two grids cell by cell.
func (g *Grid) Equal(o *Grid) bool {
	if g.Rows != o.Rows || g.Cols != o.Cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
