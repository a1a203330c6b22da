// internal/component/status_effect.go
package component

import "go-tower-defense-sim/internal/types"

// SlowEffect indicates that an entity is slowed.
type SlowEffect struct {
	Timer      float64 // How much time is left for the effect.
	SlowFactor float64 // Multiplier for speed (e.g., 0.5 for 50% slow).
}

// StunEffect freezes a mob in place while it shakes around its position.
type StunEffect struct {
	Timer float64
	Phase float64 // фаза колебания, радианы
}

// BleedInstance is one stacked damage-over-time application.
type BleedInstance struct {
	Source   types.EntityID
	Timer    float64 // remaining duration
	TickLeft float64 // time until the next damage tick
	Damage   int     // урон за такт
}

// BleedEffect groups every stacked bleed on one mob. Instances expire independently.
type BleedEffect struct {
	Instances []BleedInstance
}
