// internal/component/mob.go
package component

import (
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"
)

// MobState is the lifecycle stage of a mob. A mob is in exactly one of them.
type MobState int

const (
	MobCreating MobState = iota // стоит на старте, ждёт CreateDelay
	MobSpawning                 // потомок выходит из родителя к центру клетки
	MobMoving
)

func (s MobState) String() string {
	switch s {
	case MobCreating:
		return "creating"
	case MobSpawning:
		return "spawning"
	case MobMoving:
		return "moving"
	}
	return "unknown"
}

// Mob представляет моба на поле.
type Mob struct {
	DefID string
	Def   *defs.MobDefinition
	Level int // номер волны, масштабирует жизнь и награду
	Wave  int
	State MobState

	Position Position
	Velocity Velocity
	Path     Path
	Health   Health

	Cell    grid.Cell // клетка, в которой моб учтён на сетке
	Defense int
	Reward  int
	Mode    grid.Mode
	Flying  bool
	Immune  bool

	Timer     float64  // остаток CreateDelay / SpawnDuration
	SpawnFrom Position // откуда выходит потомок

	Idle   bool
	Dead   bool
	Leaked bool
	Parent types.EntityID
}

// Alive reports whether the mob still takes part in the simulation.
func (m *Mob) Alive() bool {
	return !m.Dead && !m.Leaked
}

// Targetable reports whether towers may pick this mob.
func (m *Mob) Targetable() bool {
	return m.State == MobMoving && m.Alive() && m.Health.Pool > 0
}
