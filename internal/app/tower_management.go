// internal/app/tower_management.go
package app

import (
	"fmt"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/event"
	"go-tower-defense-sim/internal/system"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"

	"github.com/sirupsen/logrus"
)

// BuildTower places a level-1 tower with its top-left footprint cell at (r, c).
// A build that would cut a start from every target, or trap a mob, is rolled
// back and leaves grid, range index, gold, path cache and mob routes untouched.
func (g *Game) BuildTower(kind string, r, c int) (types.EntityID, system.Result) {
	if g.Over() {
		return types.None, system.Fail(system.ReasonGameOver)
	}
	def, ok := g.Library.Tower(kind)
	if !ok {
		return types.None, system.Fail(system.ReasonUnknownTower)
	}
	size := def.FootprintSize(config.TowerSize)
	if !g.Grid.CanPlace(r, c, size) {
		return types.None, system.Fail(system.ReasonInvalidCell)
	}
	cost := def.Level(1).Cost
	if g.Economy.Gold() < cost {
		return types.None, system.Fail(system.ReasonInsufficientGold)
	}

	// id берём только при успехе
	id := g.ECS.NextID
	g.occupy(id, r, c, size)
	plan, ok := g.Paths.Plan()
	if !ok {
		g.vacate(r, c, size)
		g.log.WithFields(logrus.Fields{"kind": kind, "row": r, "col": c}).Debug("Build rejected: path blocked")
		return types.None, system.Fail(system.ReasonBlocked)
	}
	// план ещё не применён: при отказе кэш путей и мобы не тронуты
	if !g.Economy.SpendGold(cost) {
		g.vacate(r, c, size)
		return types.None, system.Fail(system.ReasonInsufficientGold)
	}
	g.Paths.Commit(plan)

	g.ECS.NewEntity()
	g.addTower(id, def, grid.Cell{Row: r, Col: c}, size, 1, cost)
	g.EventDispatcher.Dispatch(event.Event{Type: event.TowerPlaced, Data: event.TowerData{ID: id, Kind: kind}})
	g.log.WithFields(logrus.Fields{"tower": id, "kind": kind, "row": r, "col": c, "cost": cost}).Info("Tower built")
	return id, system.Ok()
}

// UpgradeTower pays for the next level and starts the upgrade delay.
func (g *Game) UpgradeTower(id types.EntityID) system.Result {
	if g.Over() {
		return system.Fail(system.ReasonGameOver)
	}
	return g.TowerSystem.StartUpgrade(id)
}

// SellTower starts the sale delay; the refund is paid when it ends.
func (g *Game) SellTower(id types.EntityID) system.Result {
	if g.Over() {
		return system.Fail(system.ReasonGameOver)
	}
	return g.TowerSystem.StartSale(id)
}

// LockTower toggles the fixed firing angle of a lockable tower.
func (g *Game) LockTower(id types.EntityID) system.Result {
	if g.Over() {
		return system.Fail(system.ReasonGameOver)
	}
	return g.TowerSystem.ToggleLock(id)
}

// FireTower orders a single-fire tower to shoot now.
func (g *Game) FireTower(id types.EntityID) system.Result {
	if g.Over() {
		return system.Fail(system.ReasonGameOver)
	}
	return g.CombatSystem.Fire(id)
}

// CallNextWave starts the next wave early for a bonus.
func (g *Game) CallNextWave() system.Result {
	return g.WaveSystem.CallNextWave()
}

// placeInitialTower puts a level tower on the board for free.
func (g *Game) placeInitialTower(it defs.InitialTower) error {
	def, ok := g.Library.Tower(it.Kind)
	if !ok {
		return fmt.Errorf("initial tower: unknown kind %q", it.Kind)
	}
	size := def.FootprintSize(config.TowerSize)
	if !g.Grid.CanPlace(it.Row, it.Col, size) {
		return fmt.Errorf("initial tower %s at (%d,%d): cell not free", it.Kind, it.Row, it.Col)
	}
	level := it.Level
	if level < 1 {
		level = 1
	}
	if level > def.MaxLevel() {
		level = def.MaxLevel()
	}

	id := g.ECS.NextID
	g.occupy(id, it.Row, it.Col, size)
	if !g.Paths.Revalidate() {
		g.vacate(it.Row, it.Col, size)
		return fmt.Errorf("initial tower %s at (%d,%d): blocks the path", it.Kind, it.Row, it.Col)
	}
	g.ECS.NewEntity()
	g.addTower(id, def, grid.Cell{Row: it.Row, Col: it.Col}, size, level, 0)
	return nil
}

func (g *Game) occupy(id types.EntityID, r, c, size int) {
	for _, cell := range grid.Footprint(r, c, size) {
		g.Grid.Occupy(cell.Row, cell.Col, int(id))
	}
}

func (g *Game) vacate(r, c, size int) {
	for _, cell := range grid.Footprint(r, c, size) {
		g.Grid.Vacate(cell.Row, cell.Col)
	}
}

// addTower creates the tower component on an already occupied footprint and
// registers it in the range index.
func (g *Game) addTower(id types.EntityID, def *defs.TowerDefinition, anchor grid.Cell, size, level, invested int) *component.Tower {
	t := &component.Tower{
		DefID:    def.ID,
		Def:      def,
		Anchor:   anchor,
		Size:     size,
		Level:    level,
		Invested: invested,
		Turret:   component.TurretComponent{TurnSpeed: config.TurretTurnSpeed},
	}
	g.ECS.AddTower(id, t)
	g.RangeIndex.Register(id)
	g.Presenter.OnTowerBuilt(system.ViewTower(id, t))
	return t
}
