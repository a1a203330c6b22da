// internal/system/death.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/event"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/internal/utils"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

type pendingDeath struct {
	id     types.EntityID
	leaked bool
}

// DeathSystem collects kills and leaks during a phase and settles them in
// Flush: gold, offspring, presenter, events and removal from everything.
type DeathSystem struct {
	ecs       *entity.ECS
	grid      *grid.Grid
	economy   interfaces.Economy
	presenter interfaces.Presenter
	events    *event.Dispatcher
	factory   *MobFactory
	rng       *utils.PRNGService
	queue     []pendingDeath
	log       *logrus.Entry
}

func NewDeathSystem(ecs *entity.ECS, g *grid.Grid, economy interfaces.Economy, presenter interfaces.Presenter,
	events *event.Dispatcher, factory *MobFactory, rng *utils.PRNGService) *DeathSystem {
	return &DeathSystem{
		ecs:       ecs,
		grid:      g,
		economy:   economy,
		presenter: presenter,
		events:    events,
		factory:   factory,
		rng:       rng,
		log:       logger.Component("death"),
	}
}

// Kill marks a mob dead. The first call wins; later calls report false.
func (s *DeathSystem) Kill(id types.EntityID) bool {
	m, ok := s.ecs.Mobs[id]
	if !ok || !m.Alive() {
		return false
	}
	m.Dead = true
	s.queue = append(s.queue, pendingDeath{id: id})
	return true
}

// Leak marks a mob as having reached a target.
func (s *DeathSystem) Leak(id types.EntityID) bool {
	m, ok := s.ecs.Mobs[id]
	if !ok || !m.Alive() {
		return false
	}
	m.Leaked = true
	s.queue = append(s.queue, pendingDeath{id: id, leaked: true})
	return true
}

// Pending reports how many deaths wait for Flush.
func (s *DeathSystem) Pending() int { return len(s.queue) }

// Flush settles every queued death in order.
func (s *DeathSystem) Flush() {
	for len(s.queue) > 0 {
		batch := s.queue
		s.queue = nil
		for _, d := range batch {
			if d.leaked {
				s.settleLeak(d.id)
			} else {
				s.settleKill(d.id)
			}
		}
	}
}

func (s *DeathSystem) settleKill(id types.EntityID) {
	m, ok := s.ecs.Mobs[id]
	if !ok {
		return
	}
	s.economy.GrantGold(m.Reward)

	if m.Def != nil && m.Def.Offspring != nil {
		for i := 0; i < m.Def.Offspring.Count; i++ {
			kind := s.rng.ChooseWeighted(m.Def.Offspring.Entries)
			child, ok := s.factory.SpawnOffspring(id, m, kind)
			if !ok {
				continue
			}
			s.events.Dispatch(event.Event{Type: event.OffspringSpawned, Data: event.MobData{ID: child, Wave: m.Wave, Parent: id}})
		}
	}

	s.presenter.OnMobDied(ViewMob(s.ecs, id, m))
	s.remove(id, m)
	s.log.WithFields(logrus.Fields{"mob": id, "kind": m.DefID, "reward": m.Reward}).Debug("Mob killed")
	s.events.Dispatch(event.Event{Type: event.MobKilled, Data: event.MobData{ID: id, Wave: m.Wave, Reward: m.Reward}})
}

func (s *DeathSystem) settleLeak(id types.EntityID) {
	m, ok := s.ecs.Mobs[id]
	if !ok {
		return
	}
	s.economy.LoseLife()
	s.presenter.OnMobDied(ViewMob(s.ecs, id, m))
	s.remove(id, m)
	s.log.WithFields(logrus.Fields{"mob": id, "kind": m.DefID, "lives": s.economy.Lives()}).Info("Mob reached the exit")

	// поражение фиксируется до события, чтобы последняя волна не засчитала победу
	if s.economy.Lives() <= 0 && s.ecs.GameState != component.LostState {
		s.ecs.GameState = component.LostState
		s.economy.GameOver(false)
	}
	s.events.Dispatch(event.Event{Type: event.MobLeaked, Data: event.MobData{ID: id, Wave: m.Wave}})
}

func (s *DeathSystem) remove(id types.EntityID, m *component.Mob) {
	if !m.Flying {
		s.grid.DecMobCount(m.Cell.Row, m.Cell.Col)
	}
	s.ecs.RemoveMob(id)
}
