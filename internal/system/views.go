package system

import (
	"math"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
)

// ViewMob builds the presentation payload of a mob. Stunned mobs shake around
// their position.
func ViewMob(ecs *entity.ECS, id types.EntityID, m *component.Mob) interfaces.MobView {
	x, y := m.Position.X, m.Position.Y
	if stun, ok := ecs.StunEffects[id]; ok {
		x += config.StunAmplitude * math.Sin(stun.Phase)
	}
	return interfaces.MobView{
		ID:      id,
		Kind:    m.DefID,
		X:       x,
		Y:       y,
		Row:     m.Cell.Row,
		Col:     m.Cell.Col,
		Life:    m.Health.Value,
		MaxLife: m.Health.Max,
		Flying:  m.Flying,
		Leaked:  m.Leaked,
	}
}

// ViewTower builds the presentation payload of a tower.
func ViewTower(id types.EntityID, t *component.Tower) interfaces.TowerView {
	return interfaces.TowerView{
		ID:        id,
		Kind:      t.DefID,
		Row:       t.Anchor.Row,
		Col:       t.Anchor.Col,
		Size:      t.Size,
		Level:     t.Level,
		Locked:    t.Locked,
		LockAngle: t.LockAngle,
		Angle:     t.Turret.CurrentAngle,
	}
}

// ViewProjectile builds the presentation payload of a projectile.
func ViewProjectile(id types.EntityID, p *component.Projectile) interfaces.ProjectileView {
	cur := p.Current()
	return interfaces.ProjectileView{
		ID:      id,
		TowerID: p.SourceID,
		FromX:   p.From.X,
		FromY:   p.From.Y,
		ToX:     p.To.X,
		ToY:     p.To.Y,
		X:       cur.X,
		Y:       cur.Y,
		Flight:  p.Total,
		Motion:  string(p.Motion),
	}
}
