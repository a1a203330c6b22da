// component/movement.go
package component

import "go-tower-defense-sim/pkg/grid"

// Position — компонент позиции (пиксели)
type Position struct {
	X, Y float64
}

// Velocity — компонент скорости
type Velocity struct {
	Base  float64 // скорость без эффектов, px/s
	Speed float64 // текущая скорость с учётом замедления/оглушения
	DirX  float64
	DirY  float64
}

// PathKey identifies a cached path: the cell it was computed from and the mode.
type PathKey struct {
	Origin grid.Cell
	Mode   grid.Mode
}

// Path — компонент пути
type Path struct {
	Key          PathKey
	Cells        grid.Path
	CurrentIndex int // индекс клетки, к центру которой идёт моб
	Version      int // версия кэша путей, из которой взят маршрут
}

// Next returns the cell the mob is heading to.
func (p *Path) Next() (grid.Cell, bool) {
	if p.CurrentIndex < 0 || p.CurrentIndex >= len(p.Cells) {
		return grid.Cell{}, false
	}
	return p.Cells[p.CurrentIndex], true
}
