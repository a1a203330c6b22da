// internal/system/selectors.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/utils"
)

// selector picks the full target set of one shot. primary is a valid mob the
// tower covers; the result may or may not contain it.
type selector func(s *CombatSystem, t *component.Tower, primaryID types.EntityID, primary *component.Mob) []types.EntityID

var selectors = map[defs.Targeting]selector{
	defs.TargetSingle:        selectSingle,
	defs.TargetCloseCluster:  selectCloseCluster,
	defs.TargetRadius:        selectRadius,
	defs.TargetLineal:        selectLineal,
	defs.TargetCappedCluster: selectCappedCluster,
}

func selectorFor(t defs.Targeting) selector {
	if sel, ok := selectors[t]; ok {
		return sel
	}
	return selectSingle
}

func selectSingle(_ *CombatSystem, _ *component.Tower, primaryID types.EntityID, _ *component.Mob) []types.EntityID {
	return []types.EntityID{primaryID}
}

// selectCloseCluster берёт цель и всех подходящих мобов в фиксированном радиусе вокруг неё.
func selectCloseCluster(s *CombatSystem, t *component.Tower, primaryID types.EntityID, primary *component.Mob) []types.EntityID {
	return s.cluster(t, primaryID, primary, 0)
}

func selectCappedCluster(s *CombatSystem, t *component.Tower, primaryID types.EntityID, primary *component.Mob) []types.EntityID {
	limit := t.Def.Cap
	if limit <= 0 {
		limit = config.CappedClusterCap
	}
	return s.cluster(t, primaryID, primary, limit)
}

// selectRadius hits every valid mob within range × multiplier of the tower centre.
func selectRadius(s *CombatSystem, t *component.Tower, _ types.EntityID, _ *component.Mob) []types.EntityID {
	mult := t.Def.RadiusMultiplier
	if mult <= 0 {
		mult = 1
	}
	cx, cy := t.Center(s.cellSize)
	radius := t.Range() * mult * s.cellSize
	var out []types.EntityID
	for _, id := range s.mobs {
		m, ok := s.ecs.Mobs[id]
		if !ok || !s.valid(t, m) {
			continue
		}
		if utils.Dist(cx, cy, m.Position.X, m.Position.Y) <= radius {
			out = append(out, id)
		}
	}
	return out
}

// selectLineal hits every valid mob in range whose bearing from the tower lies
// within LinealTolerance degrees of the firing angle.
func selectLineal(s *CombatSystem, t *component.Tower, _ types.EntityID, primary *component.Mob) []types.EntityID {
	cx, cy := t.Center(s.cellSize)
	angle := utils.Degrees(cx, cy, primary.Position.X, primary.Position.Y)
	if t.Locked {
		angle = t.LockAngle
	}
	reach := t.Range() * s.cellSize
	var out []types.EntityID
	for _, id := range s.mobs {
		m, ok := s.ecs.Mobs[id]
		if !ok || !s.valid(t, m) {
			continue
		}
		if utils.Dist(cx, cy, m.Position.X, m.Position.Y) > reach {
			continue
		}
		if utils.AngleDelta(utils.Degrees(cx, cy, m.Position.X, m.Position.Y), angle) <= config.LinealTolerance {
			out = append(out, id)
		}
	}
	return out
}

// cluster returns primary followed by valid mobs within ClusterRadius pixels of
// it, at most limit in total when limit > 0.
func (s *CombatSystem) cluster(t *component.Tower, primaryID types.EntityID, primary *component.Mob, limit int) []types.EntityID {
	out := []types.EntityID{primaryID}
	for _, id := range s.mobs {
		if limit > 0 && len(out) >= limit {
			break
		}
		if id == primaryID {
			continue
		}
		m, ok := s.ecs.Mobs[id]
		if !ok || !s.valid(t, m) {
			continue
		}
		if distance(primary.Position, m.Position) <= config.ClusterRadius {
			out = append(out, id)
		}
	}
	return out
}
