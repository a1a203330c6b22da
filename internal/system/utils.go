// internal/system/utils.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/pkg/utils"
)

// EffectiveDamage is what a hit of damage does to a mob with defense.
// Towers only fire when it is positive.
func EffectiveDamage(damage, defense int) int {
	d := damage - defense
	if d < 0 {
		return 0
	}
	return d
}

// ApplyDamage снимает жизнь с моба при попадании. Резерв уже снят при выборе цели.
// Reports whether the hit was lethal.
func ApplyDamage(m *component.Mob, dmg int) bool {
	m.Health.Value -= dmg
	if m.Health.Pool > m.Health.Value {
		m.Health.Pool = m.Health.Value
	}
	return m.Health.Value <= 0
}

// ApplyUnreservedDamage is for damage nobody reserved (bleed): both counters drop.
func ApplyUnreservedDamage(m *component.Mob, dmg int) bool {
	m.Health.Pool -= dmg
	return ApplyDamage(m, dmg)
}

func distance(a, b component.Position) float64 {
	return utils.Dist(a.X, a.Y, b.X, b.Y)
}
