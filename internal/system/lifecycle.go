// internal/system/lifecycle.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/logger"
	"go-tower-defense-sim/pkg/utils"

	"github.com/sirupsen/logrus"
)

// LifecycleSystem moves mobs out of the creating and spawning queues.
type LifecycleSystem struct {
	ecs   *entity.ECS
	paths *PathService
	buf   []types.EntityID
	log   *logrus.Entry
}

func NewLifecycleSystem(ecs *entity.ECS, paths *PathService) *LifecycleSystem {
	return &LifecycleSystem{ecs: ecs, paths: paths, log: logger.Component("lifecycle")}
}

func (s *LifecycleSystem) Update(deltaTime float64) {
	s.buf = s.ecs.Creating.Snapshot(s.buf)
	for _, id := range s.buf {
		m, ok := s.ecs.Mobs[id]
		if !ok || !m.Alive() {
			continue
		}
		m.Timer -= deltaTime
		if m.Timer <= 0 {
			s.startMoving(id, m)
		}
	}

	s.buf = s.ecs.Spawning.Snapshot(s.buf)
	for _, id := range s.buf {
		m, ok := s.ecs.Mobs[id]
		if !ok || !m.Alive() {
			continue
		}
		m.Timer -= deltaTime
		// потомок выходит из точки смерти родителя к центру своей клетки
		x, y := m.Cell.Center(config.CellSize)
		t := utils.Clamp(1-m.Timer/config.SpawnDuration, 0, 1)
		m.Position.X = m.SpawnFrom.X + (x-m.SpawnFrom.X)*t
		m.Position.Y = m.SpawnFrom.Y + (y-m.SpawnFrom.Y)*t
		if m.Timer <= 0 {
			m.Position = component.Position{X: x, Y: y}
			s.startMoving(id, m)
		}
	}
}

func (s *LifecycleSystem) startMoving(id types.EntityID, m *component.Mob) {
	m.Timer = 0
	s.ecs.SetMobState(id, component.MobMoving)
	if !s.paths.Route(m) {
		m.Idle = true
		s.log.WithFields(logrus.Fields{"mob": id, "cell": m.Cell}).Warn("No path to any target, mob idles")
		return
	}
	s.log.WithFields(logrus.Fields{"mob": id, "kind": m.DefID, "steps": m.Path.Cells.Steps()}).Debug("Mob started moving")
}
