// internal/component/projectile.go
package component

import (
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/types"
)

// Hit is damage reserved on one mob by a projectile.
type Hit struct {
	MobID  types.EntityID
	Damage int
}

// Projectile представляет летящий снаряд.
type Projectile struct {
	SourceID   types.EntityID
	TowerDefID string
	Hits       []Hit
	Motion     defs.Motion
	Elapsed    float64
	Total      float64

	Effect       defs.EffectKind
	EffectChance float64
	EffectPower  float64

	From, To Position
	// Fresh is set on the tick the projectile is created; it does not advance that tick.
	Fresh bool
}

// Progress is the flight fraction in [0, 1].
func (p *Projectile) Progress() float64 {
	if p.Total <= 0 {
		return 1
	}
	f := p.Elapsed / p.Total
	if f > 1 {
		return 1
	}
	return f
}

// Current interpolates the projectile position for rendering.
func (p *Projectile) Current() Position {
	f := p.Progress()
	return Position{
		X: p.From.X + (p.To.X-p.From.X)*f,
		Y: p.From.Y + (p.To.Y-p.From.Y)*f,
	}
}

// Landed reports whether the flight is over.
func (p *Projectile) Landed() bool {
	return p.Elapsed >= p.Total
}
