// internal/system/movement.go
package system

import (
	"math"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// maxLegsPerTick bounds how many cell centres one mob may pass in a single tick.
const maxLegsPerTick = 4

// MovementSystem обновляет позиции мобов вдоль маршрутов.
type MovementSystem struct {
	ecs       *entity.ECS
	grid      *grid.Grid
	paths     *PathService
	deaths    *DeathSystem
	presenter interfaces.Presenter
	cellSize  float64
	buf       []types.EntityID
	log       *logrus.Entry
}

func NewMovementSystem(ecs *entity.ECS, g *grid.Grid, paths *PathService, deaths *DeathSystem, presenter interfaces.Presenter) *MovementSystem {
	return &MovementSystem{
		ecs:       ecs,
		grid:      g,
		paths:     paths,
		deaths:    deaths,
		presenter: presenter,
		cellSize:  config.CellSize,
		log:       logger.Component("movement"),
	}
}

func (s *MovementSystem) Update(deltaTime float64) {
	s.buf = s.ecs.Moving.Snapshot(s.buf)
	for _, id := range s.buf {
		m, ok := s.ecs.Mobs[id]
		if !ok || !m.Alive() {
			continue
		}
		s.move(id, m, deltaTime)
	}
}

func (s *MovementSystem) move(id types.EntityID, m *component.Mob, deltaTime float64) {
	if m.Idle {
		// ждём, пока изменится топология
		if m.Path.Version == s.paths.Version() || !s.reroute(id, m) {
			return
		}
	}

	budget := m.Velocity.Speed * deltaTime
	for leg := 0; leg < maxLegsPerTick && budget > 0; leg++ {
		next, ok := m.Path.Next()
		if !ok {
			if !s.reroute(id, m) {
				return
			}
			if next, ok = m.Path.Next(); !ok {
				return
			}
		}

		tx, ty := next.Center(s.cellSize)
		dx := tx - m.Position.X
		dy := ty - m.Position.Y
		dist := math.Hypot(dx, dy)

		if dist > budget {
			m.Position.X += dx / dist * budget
			m.Position.Y += dy / dist * budget
			m.Velocity.DirX, m.Velocity.DirY = dx/dist, dy/dist
			if grid.CellAt(m.Position.X, m.Position.Y, s.cellSize) == next {
				s.enterCell(id, m, next)
			}
			return
		}

		budget -= dist
		m.Position = component.Position{X: tx, Y: ty}
		s.enterCell(id, m, next)
		if s.grid.IsTarget(next) {
			s.deaths.Leak(id)
			return
		}
		m.Path.CurrentIndex++

		if m.Path.Version != s.paths.Version() {
			// топология изменилась, маршрут строится заново из центра клетки
			if !s.reroute(id, m) {
				return
			}
		}
	}
}

// enterCell moves ground occupancy from the mob's old cell to c.
func (s *MovementSystem) enterCell(id types.EntityID, m *component.Mob, c grid.Cell) {
	if m.Cell == c {
		return
	}
	if !m.Flying {
		s.grid.DecMobCount(m.Cell.Row, m.Cell.Col)
		s.grid.IncMobCount(c.Row, c.Col)
	}
	m.Cell = c
	s.presenter.OnMobMoved(ViewMob(s.ecs, id, m))
}

// reroute asks the path service for a fresh route from the mob's cell. A mob
// without a route idles until the next topology change.
func (s *MovementSystem) reroute(id types.EntityID, m *component.Mob) bool {
	if s.paths.Route(m) && m.Path.CurrentIndex < len(m.Path.Cells) {
		if m.Idle {
			s.log.WithField("mob", id).Info("Idle mob found a path")
		}
		m.Idle = false
		return true
	}
	if !m.Idle {
		s.log.WithFields(logrus.Fields{"mob": id, "cell": m.Cell, "mode": m.Mode}).Warn("No path to any target, mob idles")
	}
	m.Idle = true
	m.Path.Version = s.paths.Version()
	return false
}
