// internal/component/turret.go
package component

import "go-tower-defense-sim/internal/types"

// TurretComponent поворачивает "голову" башни к последней цели. Углы в градусах,
// ось y вниз.
type TurretComponent struct {
	CurrentAngle float64
	TargetAngle  float64
	TurnSpeed    float64 // доля оставшейся дуги за секунду
	TargetID     types.EntityID
}
