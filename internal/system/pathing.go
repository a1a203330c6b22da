// internal/system/pathing.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ModeFor maps a mob movement rule onto a path finder mode.
func ModeFor(m defs.Movement) grid.Mode {
	switch m {
	case defs.MoveDiagonal:
		return grid.Diagonal
	case defs.MoveDiagonalFree:
		return grid.DiagonalFree
	}
	return grid.Cardinal
}

// PathService owns the path cache. Paths are keyed by (origin cell, mode) and
// stamped with a version that bumps on every accepted topology change.
type PathService struct {
	grid    *grid.Grid
	ecs     *entity.ECS
	cache   map[component.PathKey]grid.Path
	version int
	log     *logrus.Entry
}

func NewPathService(g *grid.Grid, ecs *entity.ECS) *PathService {
	return &PathService{
		grid:    g,
		ecs:     ecs,
		cache:   make(map[component.PathKey]grid.Path),
		version: 1,
		log:     logger.Component("paths"),
	}
}

func (ps *PathService) Version() int { return ps.version }

// Get returns the cached path from origin to the nearest target, computing it on a miss.
func (ps *PathService) Get(origin grid.Cell, mode grid.Mode) grid.Path {
	key := component.PathKey{Origin: origin, Mode: mode}
	if p, ok := ps.cache[key]; ok {
		return p
	}
	p := grid.AStarAny(origin, ps.grid.Targets(), ps.grid, mode)
	ps.cache[key] = p
	return p
}

// Route points a mob at a fresh path from its current cell. The first cell of
// the path is the mob's own cell, so traversal starts at index 1.
func (ps *PathService) Route(m *component.Mob) bool {
	p := ps.Get(m.Cell, m.Mode)
	m.Path = component.Path{
		Key:          component.PathKey{Origin: m.Cell, Mode: m.Mode},
		Cells:        p,
		CurrentIndex: 1,
		Version:      ps.version,
	}
	if len(p) == 1 {
		// уже на выходе
		m.Path.CurrentIndex = 0
	}
	return len(p) > 0
}

// Restore rebuilds a mob path from a saved key and pointer.
func (ps *PathService) Restore(m *component.Mob, key component.PathKey, index int) {
	p := ps.Get(key.Origin, key.Mode)
	if index > len(p) {
		index = len(p)
	}
	m.Path = component.Path{Key: key, Cells: p, CurrentIndex: index, Version: ps.version}
}

// PathPlan is a path cache computed against a grid that has not been
// committed yet.
type PathPlan struct {
	cache map[component.PathKey]grid.Path
}

// Plan recomputes every required path against the current grid into a fresh
// cache. Required paths are every start→target pair in Cardinal mode and every
// live mob's route from its cell in its own mode, flyers included. If any of
// them is empty, false is returned and nothing changes; the caller rolls the
// grid back. Plan never touches the live cache or any mob.
func (ps *PathService) Plan() (*PathPlan, bool) {
	targets := ps.grid.Targets()
	fresh := make(map[component.PathKey]grid.Path)
	route := func(origin grid.Cell, mode grid.Mode) grid.Path {
		key := component.PathKey{Origin: origin, Mode: mode}
		if p, ok := fresh[key]; ok {
			return p
		}
		p := grid.AStarAny(origin, targets, ps.grid, mode)
		fresh[key] = p
		return p
	}

	for _, s := range ps.grid.Starts() {
		for _, t := range targets {
			if len(grid.AStar(s, t, ps.grid, grid.Cardinal)) == 0 {
				ps.log.WithFields(logrus.Fields{"start": s, "target": t}).Debug("Start cut off from target")
				return nil, false
			}
		}
		route(s, grid.Cardinal)
	}

	for id, m := range ps.ecs.Mobs {
		if !m.Alive() {
			continue
		}
		if len(route(m.Cell, m.Mode)) == 0 {
			ps.log.WithFields(logrus.Fields{"mob": id, "cell": m.Cell, "flying": m.Flying}).Debug("Mob would be trapped")
			return nil, false
		}
	}
	return &PathPlan{cache: fresh}, true
}

// Commit swaps in a planned cache, bumps the version and sends mobs whose next
// step became illegal back to their own cell centre.
func (ps *PathService) Commit(plan *PathPlan) {
	ps.cache = plan.cache
	ps.version++
	ps.redirectBlocked()
	ps.log.WithField("version", ps.version).Debug("Path cache rebuilt")
}

// Revalidate plans and, on success, commits in one go.
func (ps *PathService) Revalidate() bool {
	plan, ok := ps.Plan()
	if !ok {
		return false
	}
	ps.Commit(plan)
	return true
}

// Invalidate drops the cache after a change that can only open paths (a sale).
func (ps *PathService) Invalidate() {
	ps.cache = make(map[component.PathKey]grid.Path)
	ps.version++
}

// redirectBlocked turns around mobs whose next step is no longer a legal move
// from their cell: the cell became a tower, or a diagonal now cuts its corner.
func (ps *PathService) redirectBlocked() {
	for _, m := range ps.ecs.Mobs {
		if m.State != component.MobMoving {
			continue
		}
		next, ok := m.Path.Next()
		if !ok || next == m.Cell || ps.grid.CanStep(m.Cell, next, m.Mode) {
			continue
		}
		m.Path = component.Path{
			Key:          component.PathKey{Origin: m.Cell, Mode: m.Mode},
			Cells:        grid.Path{m.Cell},
			CurrentIndex: 0,
			Version:      0, // устаревшая версия: в центре клетки моб перестроит маршрут
		}
	}
}
