// internal/system/status_effect.go
package system

import (
	"math"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// StatusEffectSystem управляет жизненным циклом эффектов: замедление, оглушение, кровотечение.
type StatusEffectSystem struct {
	ecs    *entity.ECS
	deaths *DeathSystem
	buf    []types.EntityID
	log    *logrus.Entry
}

func NewStatusEffectSystem(ecs *entity.ECS, deaths *DeathSystem) *StatusEffectSystem {
	return &StatusEffectSystem{ecs: ecs, deaths: deaths, log: logger.Component("effects")}
}

// ApplySlow refreshes the slow on a mob. Immune mobs ignore it.
func (s *StatusEffectSystem) ApplySlow(id types.EntityID) {
	m, ok := s.ecs.Mobs[id]
	if !ok || m.Immune || !m.Alive() {
		return
	}
	s.ecs.SlowEffects[id] = &component.SlowEffect{Timer: config.SlowDuration, SlowFactor: config.SlowFactor}
	s.ecs.Slowed.Add(id)
	s.refreshSpeed(id, m)
}

// ApplyStun stops a mob and starts it shaking. Immune mobs ignore it.
func (s *StatusEffectSystem) ApplyStun(id types.EntityID) {
	m, ok := s.ecs.Mobs[id]
	if !ok || m.Immune || !m.Alive() {
		return
	}
	if stun, ok := s.ecs.StunEffects[id]; ok {
		stun.Timer = config.StunDuration
	} else {
		s.ecs.StunEffects[id] = &component.StunEffect{Timer: config.StunDuration}
	}
	s.ecs.Stunned.Add(id)
	s.refreshSpeed(id, m)
}

// ApplyBleed stacks a new bleed instance.
func (s *StatusEffectSystem) ApplyBleed(id, source types.EntityID, damage int) {
	m, ok := s.ecs.Mobs[id]
	if !ok || !m.Alive() || damage <= 0 {
		return
	}
	b, ok := s.ecs.BleedEffects[id]
	if !ok {
		b = &component.BleedEffect{}
		s.ecs.BleedEffects[id] = b
	}
	b.Instances = append(b.Instances, component.BleedInstance{
		Source:   source,
		Timer:    config.BleedDuration,
		TickLeft: config.BleedTickSeconds,
		Damage:   damage,
	})
	s.ecs.Bleeding.Add(id)
}

// Restore puts saved effect timers back on a mob. Zero timers mean no effect.
func (s *StatusEffectSystem) Restore(id types.EntityID, slow, stun, stunPhase float64, bleeds []component.BleedInstance) {
	m, ok := s.ecs.Mobs[id]
	if !ok {
		return
	}
	if slow > 0 {
		s.ecs.SlowEffects[id] = &component.SlowEffect{Timer: slow, SlowFactor: config.SlowFactor}
		s.ecs.Slowed.Add(id)
	}
	if stun > 0 {
		s.ecs.StunEffects[id] = &component.StunEffect{Timer: stun, Phase: stunPhase}
		s.ecs.Stunned.Add(id)
	}
	if len(bleeds) > 0 {
		s.ecs.BleedEffects[id] = &component.BleedEffect{Instances: append([]component.BleedInstance(nil), bleeds...)}
		s.ecs.Bleeding.Add(id)
	}
	s.refreshSpeed(id, m)
}

// Update обрабатывает все активные эффекты.
func (s *StatusEffectSystem) Update(deltaTime float64) {
	s.buf = s.ecs.Slowed.Snapshot(s.buf)
	for _, id := range s.buf {
		effect, ok := s.ecs.SlowEffects[id]
		if !ok {
			s.ecs.Slowed.Remove(id)
			continue
		}
		effect.Timer -= deltaTime
		if effect.Timer <= 0 {
			delete(s.ecs.SlowEffects, id)
			s.ecs.Slowed.Remove(id)
			if m, ok := s.ecs.Mobs[id]; ok {
				s.refreshSpeed(id, m)
			}
		}
	}

	s.buf = s.ecs.Stunned.Snapshot(s.buf)
	for _, id := range s.buf {
		stun, ok := s.ecs.StunEffects[id]
		if !ok {
			s.ecs.Stunned.Remove(id)
			continue
		}
		stun.Timer -= deltaTime
		stun.Phase = math.Mod(stun.Phase+deltaTime*config.StunFrequency*2*math.Pi, 2*math.Pi)
		if stun.Timer <= 0 {
			delete(s.ecs.StunEffects, id)
			s.ecs.Stunned.Remove(id)
			if m, ok := s.ecs.Mobs[id]; ok {
				s.refreshSpeed(id, m)
			}
		}
	}

	s.buf = s.ecs.Bleeding.Snapshot(s.buf)
	for _, id := range s.buf {
		s.updateBleed(id, deltaTime)
	}
}

// updateBleed advances every stacked instance on one mob. Once the mob dies no
// further instance deals damage this tick.
func (s *StatusEffectSystem) updateBleed(id types.EntityID, deltaTime float64) {
	b, ok := s.ecs.BleedEffects[id]
	m, alive := s.ecs.Mobs[id]
	if !ok || !alive || !m.Alive() {
		s.ecs.Bleeding.Remove(id)
		delete(s.ecs.BleedEffects, id)
		return
	}

	kept := b.Instances[:0]
	for _, inst := range b.Instances {
		if m.Alive() {
			inst.TickLeft -= deltaTime
			for inst.TickLeft <= 0 && inst.Timer > 0 && m.Alive() {
				if ApplyUnreservedDamage(m, inst.Damage) {
					s.deaths.Kill(id)
					s.log.WithFields(logrus.Fields{"mob": id, "source": inst.Source}).Debug("Mob bled out")
				}
				inst.TickLeft += config.BleedTickSeconds
			}
		}
		inst.Timer -= deltaTime
		if inst.Timer > 0 {
			kept = append(kept, inst)
		}
	}
	b.Instances = kept

	if len(kept) == 0 || !m.Alive() {
		delete(s.ecs.BleedEffects, id)
		s.ecs.Bleeding.Remove(id)
	}
}

// refreshSpeed recomputes current speed from base speed and active effects.
func (s *StatusEffectSystem) refreshSpeed(id types.EntityID, m *component.Mob) {
	speed := m.Velocity.Base
	if slow, ok := s.ecs.SlowEffects[id]; ok {
		speed *= slow.SlowFactor
	}
	if _, ok := s.ecs.StunEffects[id]; ok {
		speed = 0
	}
	m.Velocity.Speed = speed
}
