// component/tower.go
package component

import (
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"
)

type Tower struct {
	DefID    string                // ID из библиотеки башен
	Def      *defs.TowerDefinition // статические таблицы
	Anchor   grid.Cell             // левая верхняя клетка
	Size     int
	Level    int
	Invested int // всё золото, потраченное на постройку и улучшения

	// RangeCells are the flat cell indices the tower is registered in.
	RangeCells []int
	InReduced  bool

	// Boosts lists the towers a boost tower currently feeds, in link order.
	Boosts []types.EntityID
	// BoostSources maps a boost tower id to the percent it contributes here.
	BoostSources map[types.EntityID]float64

	Combat       Combat
	Cooling      bool
	Upgrading    bool
	UpgradeTimer float64
	Selling      bool
	SaleTimer    float64

	Locked    bool
	LockAngle float64 // градусы

	Turret TurretComponent
}

// Stats returns the table row for the current level.
func (t *Tower) Stats() defs.TowerLevel {
	return t.Def.Level(t.Level)
}

// BoostPercent is the summed bonus from every linked boost tower.
func (t *Tower) BoostPercent() float64 {
	total := 0.0
	for _, p := range t.BoostSources {
		total += p
	}
	return total
}

// Damage is the per-hit damage at the current level including boosts.
func (t *Tower) Damage() int {
	base := t.Stats().Damage
	return int(float64(base) * (1 + t.BoostPercent()/100))
}

// Range is the real range in cells.
func (t *Tower) Range() float64 { return t.Stats().Range }

// Speed is the attack speed.
func (t *Tower) Speed() float64 { return t.Stats().Speed }

// IsBoost reports a boost archetype.
func (t *Tower) IsBoost() bool { return t.Def.Boost }

// IsSingleFire reports a tower that only shoots on explicit fire orders.
func (t *Tower) IsSingleFire() bool { return t.Def.SingleFire }

// Busy reports whether the tower is mid-upgrade or mid-sale.
func (t *Tower) Busy() bool { return t.Upgrading || t.Selling }

// Center returns the pixel centre of the footprint.
func (t *Tower) Center(cellSize float64) (x, y float64) {
	half := float64(t.Size) / 2
	return (float64(t.Anchor.Col) + half) * cellSize, (float64(t.Anchor.Row) + half) * cellSize
}

// Cells lists the footprint cells.
func (t *Tower) Cells() []grid.Cell {
	return grid.Footprint(t.Anchor.Row, t.Anchor.Col, t.Size)
}
