// internal/system/spawn.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MobFactory creates mobs for waves and offspring.
type MobFactory struct {
	ecs       *entity.ECS
	grid      *grid.Grid
	lib       *defs.Library
	presenter interfaces.Presenter
	cellSize  float64
	log       *logrus.Entry
}

func NewMobFactory(ecs *entity.ECS, g *grid.Grid, lib *defs.Library, presenter interfaces.Presenter) *MobFactory {
	return &MobFactory{
		ecs:       ecs,
		grid:      g,
		lib:       lib,
		presenter: presenter,
		cellSize:  config.CellSize,
		log:       logger.Component("spawn"),
	}
}

// Scale returns max life and reward of a mob definition at a wave level.
func Scale(def *defs.MobDefinition, level int) (life, reward int) {
	if level < 1 {
		level = 1
	}
	k := float64(level - 1)
	life = int(float64(def.Health) * (1 + config.MobLevelFactor*k))
	reward = int(float64(def.Reward) * (1 + config.MobRewardFactor*k))
	if life < 1 {
		life = 1
	}
	return life, reward
}

// Build makes a mob in the given state on cell without adding it to the arena.
func (f *MobFactory) Build(defID string, wave, level int, cell grid.Cell, state component.MobState) (*component.Mob, bool) {
	def, ok := f.lib.Mob(defID)
	if !ok {
		f.log.WithField("mob", defID).Warn("Unknown mob definition")
		return nil, false
	}
	life, reward := Scale(def, level)
	x, y := cell.Center(f.cellSize)
	m := &component.Mob{
		DefID:    defID,
		Def:      def,
		Level:    level,
		Wave:     wave,
		State:    state,
		Position: component.Position{X: x, Y: y},
		Velocity: component.Velocity{Base: def.Speed, Speed: def.Speed},
		Health:   component.Health{Value: life, Max: life, Pool: life},
		Cell:     cell,
		Defense:  def.Defense,
		Reward:   reward,
		Mode:     ModeFor(def.MovementMode()),
		Flying:   def.Flying,
		Immune:   def.Immune,
	}
	return m, true
}

// Add puts a built mob into the arena, records ground occupancy and notifies the presenter.
func (f *MobFactory) Add(m *component.Mob) types.EntityID {
	id := f.ecs.NewEntity()
	f.Insert(id, m)
	return id
}

// Insert adds a mob under a known id (restores use the saved ids).
func (f *MobFactory) Insert(id types.EntityID, m *component.Mob) {
	f.ecs.AddMob(id, m)
	if !m.Flying {
		f.grid.IncMobCount(m.Cell.Row, m.Cell.Col)
	}
	f.presenter.OnMobCreated(ViewMob(f.ecs, id, m))
	f.log.WithFields(logrus.Fields{"mob": id, "kind": m.DefID, "wave": m.Wave, "state": m.State}).Debug("Mob created")
}

// SpawnAtStart creates a wave mob waiting on a start cell.
func (f *MobFactory) SpawnAtStart(defID string, wave int, start grid.Cell, delay float64) (types.EntityID, bool) {
	m, ok := f.Build(defID, wave, wave, start, component.MobCreating)
	if !ok {
		return types.None, false
	}
	m.Timer = delay
	return f.Add(m), true
}

// SpawnOffspring creates a child that walks out of its dead parent.
func (f *MobFactory) SpawnOffspring(parentID types.EntityID, parent *component.Mob, defID string) (types.EntityID, bool) {
	m, ok := f.Build(defID, parent.Wave, parent.Level, parent.Cell, component.MobSpawning)
	if !ok {
		return types.None, false
	}
	m.Parent = parentID
	m.SpawnFrom = parent.Position
	m.Position = parent.Position
	m.Timer = config.SpawnDuration
	return f.Add(m), true
}
