// internal/system/projectile.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/internal/utils"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ProjectileSystem управляет полётом снарядов и нанесением урона
type ProjectileSystem struct {
	ecs       *entity.ECS
	effects   *StatusEffectSystem
	deaths    *DeathSystem
	presenter interfaces.Presenter
	rng       *utils.PRNGService
	buf       []types.EntityID
	log       *logrus.Entry
}

func NewProjectileSystem(ecs *entity.ECS, effects *StatusEffectSystem, deaths *DeathSystem,
	presenter interfaces.Presenter, rng *utils.PRNGService) *ProjectileSystem {
	return &ProjectileSystem{
		ecs:       ecs,
		effects:   effects,
		deaths:    deaths,
		presenter: presenter,
		rng:       rng,
		log:       logger.Component("projectiles"),
	}
}

// Update advances flights in creation order and resolves the ones that land.
// A projectile created this tick does not advance; an instant one still lands.
func (s *ProjectileSystem) Update(deltaTime float64) {
	s.buf = s.ecs.InFlight.Snapshot(s.buf)
	for _, id := range s.buf {
		p, ok := s.ecs.Projectiles[id]
		if !ok {
			continue
		}
		if p.Fresh {
			p.Fresh = false
		} else {
			p.Elapsed += deltaTime
		}
		if p.Landed() {
			s.resolve(id, p)
		}
	}
}

func (s *ProjectileSystem) resolve(id types.EntityID, p *component.Projectile) {
	for _, h := range p.Hits {
		m, ok := s.ecs.Mobs[h.MobID]
		if !ok || !m.Alive() {
			// цель уже умерла или ушла: урон просто пропадает
			continue
		}
		if ApplyDamage(m, h.Damage) {
			s.deaths.Kill(h.MobID)
			continue
		}
		s.applyEffect(h.MobID, p)
	}
	s.presenter.OnProjectileResolved(ViewProjectile(id, p))
	s.log.WithFields(logrus.Fields{"projectile": id, "tower": p.SourceID, "hits": len(p.Hits)}).Debug("Projectile landed")
	s.ecs.RemoveProjectile(id)
}

func (s *ProjectileSystem) applyEffect(mobID types.EntityID, p *component.Projectile) {
	if p.Effect == defs.EffectNone || !s.rng.Chance(p.EffectChance) {
		return
	}
	switch p.Effect {
	case defs.EffectSlow:
		s.effects.ApplySlow(mobID)
	case defs.EffectStun:
		s.effects.ApplyStun(mobID)
	case defs.EffectBleed:
		s.effects.ApplyBleed(mobID, p.SourceID, int(p.EffectPower))
	}
}
