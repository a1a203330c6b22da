// internal/entity/ecs.go
package entity

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/types"
)

// ECS is the entity arena of one game: components keyed by id plus the timed
// queues systems walk every tick.
type ECS struct {
	GameTime float64
	NextID   types.EntityID

	Mobs         map[types.EntityID]*component.Mob
	Towers       map[types.EntityID]*component.Tower
	Projectiles  map[types.EntityID]*component.Projectile
	SlowEffects  map[types.EntityID]*component.SlowEffect
	StunEffects  map[types.EntityID]*component.StunEffect
	BleedEffects map[types.EntityID]*component.BleedEffect

	// Очереди. Каждая хранит id в порядке добавления.
	Creating   *Queue
	Spawning   *Queue
	Moving     *Queue
	Slowed     *Queue
	Stunned    *Queue
	Bleeding   *Queue
	Upgrading  *Queue
	Selling    *Queue
	Cooldown   *Queue
	TowerOrder *Queue
	Flying     *Queue
	InFlight   *Queue

	Waves     []*component.Wave
	GameState component.GameState
}

func NewECS() *ECS {
	return &ECS{
		NextID:       1,
		Mobs:         make(map[types.EntityID]*component.Mob),
		Towers:       make(map[types.EntityID]*component.Tower),
		Projectiles:  make(map[types.EntityID]*component.Projectile),
		SlowEffects:  make(map[types.EntityID]*component.SlowEffect),
		StunEffects:  make(map[types.EntityID]*component.StunEffect),
		BleedEffects: make(map[types.EntityID]*component.BleedEffect),
		Creating:     NewQueue(),
		Spawning:     NewQueue(),
		Moving:       NewQueue(),
		Slowed:       NewQueue(),
		Stunned:      NewQueue(),
		Bleeding:     NewQueue(),
		Upgrading:    NewQueue(),
		Selling:      NewQueue(),
		Cooldown:     NewQueue(),
		TowerOrder:   NewQueue(),
		Flying:       NewQueue(),
		InFlight:     NewQueue(),
		GameState:    component.BuildState,
	}
}

func (ecs *ECS) NewEntity() types.EntityID {
	id := ecs.NextID
	ecs.NextID++
	return id
}

// AddMob stores a mob and queues it by state.
func (ecs *ECS) AddMob(id types.EntityID, m *component.Mob) {
	ecs.Mobs[id] = m
	ecs.queueFor(m.State).Add(id)
	if m.Flying {
		ecs.Flying.Add(id)
	}
}

// SetMobState moves a mob between the lifecycle queues.
func (ecs *ECS) SetMobState(id types.EntityID, state component.MobState) {
	m, ok := ecs.Mobs[id]
	if !ok {
		return
	}
	ecs.queueFor(m.State).Remove(id)
	m.State = state
	ecs.queueFor(state).Add(id)
}

func (ecs *ECS) queueFor(state component.MobState) *Queue {
	switch state {
	case component.MobCreating:
		return ecs.Creating
	case component.MobSpawning:
		return ecs.Spawning
	default:
		return ecs.Moving
	}
}

// RemoveMob drops a mob from every queue and component map.
// Reports false if the mob was already gone.
func (ecs *ECS) RemoveMob(id types.EntityID) bool {
	if _, ok := ecs.Mobs[id]; !ok {
		return false
	}
	for _, q := range []*Queue{ecs.Creating, ecs.Spawning, ecs.Moving, ecs.Slowed, ecs.Stunned, ecs.Bleeding, ecs.Flying} {
		q.Remove(id)
	}
	delete(ecs.Mobs, id)
	delete(ecs.SlowEffects, id)
	delete(ecs.StunEffects, id)
	delete(ecs.BleedEffects, id)
	return true
}

// AddTower stores a tower in build order.
func (ecs *ECS) AddTower(id types.EntityID, t *component.Tower) {
	ecs.Towers[id] = t
	ecs.TowerOrder.Add(id)
}

// RemoveTower drops a tower from every queue and the component map.
func (ecs *ECS) RemoveTower(id types.EntityID) bool {
	if _, ok := ecs.Towers[id]; !ok {
		return false
	}
	for _, q := range []*Queue{ecs.Upgrading, ecs.Selling, ecs.Cooldown, ecs.TowerOrder} {
		q.Remove(id)
	}
	delete(ecs.Towers, id)
	return true
}

// AddProjectile stores a projectile in creation order.
func (ecs *ECS) AddProjectile(id types.EntityID, p *component.Projectile) {
	ecs.Projectiles[id] = p
	ecs.InFlight.Add(id)
}

func (ecs *ECS) RemoveProjectile(id types.EntityID) {
	delete(ecs.Projectiles, id)
	ecs.InFlight.Remove(id)
}

// MobQueues reports, for tests and invariant checks, how many lifecycle
// queues hold id.
func (ecs *ECS) MobQueues(id types.EntityID) int {
	n := 0
	for _, q := range []*Queue{ecs.Creating, ecs.Spawning, ecs.Moving} {
		if q.Has(id) {
			n++
		}
	}
	return n
}

// ActiveWave returns the wave with the given number.
func (ecs *ECS) ActiveWave(number int) *component.Wave {
	for _, w := range ecs.Waves {
		if w.Number == number {
			return w
		}
	}
	return nil
}
