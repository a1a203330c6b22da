// internal/system/combat.go
package system

import (
	"math"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/logger"
	"go-tower-defense-sim/pkg/utils"

	"github.com/sirupsen/logrus"
)

// CombatSystem управляет атакой башен. For every moving mob it asks the range
// index which towers may fire at the mob's cell and lets each of them shoot.
type CombatSystem struct {
	ecs       *entity.ECS
	index     *RangeIndex
	presenter interfaces.Presenter
	cellSize  float64
	mobs      []types.EntityID
	towers    []types.EntityID
	log       *logrus.Entry
}

func NewCombatSystem(ecs *entity.ECS, index *RangeIndex, presenter interfaces.Presenter) *CombatSystem {
	return &CombatSystem{
		ecs:       ecs,
		index:     index,
		presenter: presenter,
		cellSize:  config.CellSize,
		log:       logger.Component("combat"),
	}
}

func (s *CombatSystem) Update() {
	s.mobs = s.ecs.Moving.Snapshot(s.mobs)
	for _, mid := range s.mobs {
		m, ok := s.ecs.Mobs[mid]
		if !ok || !m.Targetable() {
			continue
		}
		s.towers = s.index.Query(m.Cell.Row, m.Cell.Col, s.towers)
		for _, tid := range s.towers {
			if !m.Targetable() {
				break // весь запас жизни уже зарезервирован
			}
			t, ok := s.ecs.Towers[tid]
			if !ok || t.Cooling || t.Busy() || !s.valid(t, m) {
				continue
			}
			targets := selectorFor(t.Def.Targeting)(s, t, mid, m)
			if len(targets) == 0 {
				continue
			}
			s.fire(tid, t, mid, targets)
		}
	}
}

// Fire shoots a single-fire tower on demand at whatever it covers.
func (s *CombatSystem) Fire(tid types.EntityID) Result {
	t, ok := s.ecs.Towers[tid]
	if !ok {
		return Fail(ReasonUnknownTower)
	}
	if !t.IsSingleFire() {
		return Fail(ReasonNotCapable)
	}
	if t.Busy() {
		return Fail(ReasonBusy)
	}
	if t.Cooling {
		return Fail(ReasonNotReady)
	}

	s.mobs = s.ecs.Moving.Snapshot(s.mobs)
	for _, mid := range s.mobs {
		m, ok := s.ecs.Mobs[mid]
		if !ok || !s.valid(t, m) || !s.index.Covers(tid, m.Cell.Row, m.Cell.Col) {
			continue
		}
		targets := selectorFor(t.Def.Targeting)(s, t, mid, m)
		if len(targets) == 0 {
			continue
		}
		s.fire(tid, t, mid, targets)
		return Ok()
	}
	return Fail(ReasonNoTarget)
}

// valid is the per-pair filter every selector applies.
func (s *CombatSystem) valid(t *component.Tower, m *component.Mob) bool {
	if !m.Targetable() || !t.Def.CanTarget(m.Flying) {
		return false
	}
	if EffectiveDamage(t.Damage(), m.Defense) <= 0 {
		return false
	}
	if t.Locked {
		cx, cy := t.Center(s.cellSize)
		if utils.AngleDelta(utils.Degrees(cx, cy, m.Position.X, m.Position.Y), t.LockAngle) > config.LockConeHalf {
			return false
		}
	}
	return true
}

func (s *CombatSystem) fire(tid types.EntityID, t *component.Tower, primaryID types.EntityID, targets []types.EntityID) {
	cx, cy := t.Center(s.cellSize)
	primary := s.ecs.Mobs[primaryID]
	angle := utils.Degrees(cx, cy, primary.Position.X, primary.Position.Y)
	if t.Locked {
		angle = t.LockAngle
	}

	t.Combat.Cooldown = config.ShootTime / t.Speed()
	t.Combat.Angle = angle
	t.Combat.Shots++
	t.Cooling = true
	s.ecs.Cooldown.Add(tid)
	s.index.Suspend(tid)

	t.Turret.TargetAngle = angle
	t.Turret.TargetID = primaryID

	hits := make([]component.Hit, 0, len(targets))
	for _, id := range targets {
		m := s.ecs.Mobs[id]
		dmg := EffectiveDamage(t.Damage(), m.Defense)
		m.Health.Reserve(dmg)
		hits = append(hits, component.Hit{MobID: id, Damage: dmg})
	}

	s.presenter.OnTowerShot(interfaces.ShotView{TowerID: tid, Targets: targets, Angle: angle})
	s.log.WithFields(logrus.Fields{"tower": tid, "kind": t.DefID, "targets": len(targets), "angle": angle}).Debug("Tower fired")

	from := component.Position{X: cx, Y: cy}
	if t.Def.Targeting == defs.TargetCappedCluster {
		// по снаряду на каждую цель
		for _, h := range hits {
			s.spawnProjectile(tid, t, from, []component.Hit{h}, s.ecs.Mobs[h.MobID])
		}
		return
	}
	s.spawnProjectile(tid, t, from, hits, primary)
}

func (s *CombatSystem) spawnProjectile(tid types.EntityID, t *component.Tower, from component.Position, hits []component.Hit, aim *component.Mob) {
	stats := t.Stats()
	p := &component.Projectile{
		SourceID:     tid,
		TowerDefID:   t.DefID,
		Hits:         hits,
		Motion:       t.Def.Motion,
		Effect:       t.Def.Effect,
		EffectChance: stats.EffectChance,
		EffectPower:  stats.EffectPower,
		From:         from,
		To:           aim.Position,
		Fresh:        true,
	}
	switch t.Def.Motion {
	case defs.MotionInstant:
		p.Total = 0
	case defs.MotionArea:
		p.Total = config.AreaFlightTime
	default:
		p.To = predictMobPosition(aim, from, config.ProjectileSpeed, s.cellSize)
		p.Total = distance(from, p.To) / config.ProjectileSpeed
	}

	id := s.ecs.NewEntity()
	s.ecs.AddProjectile(id, p)
	s.presenter.OnProjectileSpawned(ViewProjectile(id, p))
}

// predictMobPosition finds where a mob will be when a projectile fired from
// `from` reaches it, by walking the mob forward along its path.
func predictMobPosition(m *component.Mob, from component.Position, projSpeed, cellSize float64) component.Position {
	if m.Velocity.Speed <= 0 || m.Path.CurrentIndex >= len(m.Path.Cells) {
		return m.Position
	}

	const maxIterations = 5
	timeToHit := 0.0
	for iter := 0; iter < maxIterations; iter++ {
		predicted := simulateMobMovement(m, timeToHit, cellSize)
		newTimeToHit := distance(from, predicted) / projSpeed
		if math.Abs(newTimeToHit-timeToHit) < 0.01 {
			return predicted
		}
		timeToHit = newTimeToHit
	}
	return simulateMobMovement(m, timeToHit, cellSize)
}

func simulateMobMovement(m *component.Mob, duration, cellSize float64) component.Position {
	current := m.Position
	remaining := duration
	index := m.Path.CurrentIndex

	for index < len(m.Path.Cells) && remaining > 0 {
		tx, ty := m.Path.Cells[index].Center(cellSize)
		dx := tx - current.X
		dy := ty - current.Y
		distToNext := math.Hypot(dx, dy)
		if distToNext < 0.01 {
			index++
			continue
		}

		timeToNext := distToNext / m.Velocity.Speed
		if timeToNext >= remaining {
			fraction := remaining / timeToNext
			current.X += dx * fraction
			current.Y += dy * fraction
			break
		}
		current = component.Position{X: tx, Y: ty}
		index++
		remaining -= timeToNext
	}
	return current
}
