// internal/defs/types.go
package defs

import "image/color"

// Targeting is the target-set rule of a tower archetype.
type Targeting string

const (
	TargetSingle        Targeting = "SINGLE"
	TargetCloseCluster  Targeting = "CLOSE_CLUSTER"
	TargetRadius        Targeting = "RADIUS"
	TargetLineal        Targeting = "LINEAL"
	TargetCappedCluster Targeting = "CAPPED_CLUSTER"
)

// Motion is how a projectile travels to its targets.
type Motion string

const (
	MotionLinear  Motion = "LINEAR"  // летит в точку перехвата
	MotionInstant Motion = "INSTANT" // срабатывает в тот же тик
	MotionArea    Motion = "AREA"    // фиксированное время полёта
)

// EffectKind is the secondary effect a projectile applies on impact.
type EffectKind string

const (
	EffectNone  EffectKind = ""
	EffectSlow  EffectKind = "SLOW"
	EffectStun  EffectKind = "STUN"
	EffectBleed EffectKind = "BLEED"
)

// Movement is the adjacency rule a mob walks by.
type Movement string

const (
	MoveCardinal     Movement = "CARDINAL"
	MoveDiagonal     Movement = "DIAGONAL"
	MoveDiagonalFree Movement = "DIAGONAL_FREE"
)

// Visuals contains parameters for rendering.
type Visuals struct {
	Color        color.RGBA `json:"color"`
	RadiusFactor float64    `json:"radius_factor"`
}
