// internal/system/wave.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/event"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// WaveSystem runs the wave cadence: countdown, pack spawning round-robin over
// the start cells, alive bookkeeping and the win check.
type WaveSystem struct {
	ecs       *entity.ECS
	grid      *grid.Grid
	lib       *defs.Library
	factory   *MobFactory
	economy   interfaces.Economy
	presenter interfaces.Presenter
	events    *event.Dispatcher
	countdown float64
	next      int // индекс следующей волны в lib.Waves
	log       *logrus.Entry
}

func NewWaveSystem(ecs *entity.ECS, g *grid.Grid, lib *defs.Library, factory *MobFactory,
	economy interfaces.Economy, presenter interfaces.Presenter, events *event.Dispatcher) *WaveSystem {
	ws := &WaveSystem{
		ecs:       ecs,
		grid:      g,
		lib:       lib,
		factory:   factory,
		economy:   economy,
		presenter: presenter,
		events:    events,
		countdown: config.FirstWaveDelay,
		log:       logger.Component("waves"),
	}
	events.Subscribe(event.MobKilled, ws)
	events.Subscribe(event.MobLeaked, ws)
	events.Subscribe(event.OffspringSpawned, ws)
	return ws
}

// Countdown is the time left before the next wave starts on its own.
func (s *WaveSystem) Countdown() float64 { return s.countdown }

// Next is the number of waves already started.
func (s *WaveSystem) Next() int { return s.next }

// Total is the length of the wave sequence.
func (s *WaveSystem) Total() int { return len(s.lib.Waves) }

// SetProgress restores the cadence after a load.
func (s *WaveSystem) SetProgress(next int, countdown float64) {
	s.next = next
	s.countdown = countdown
}

func (s *WaveSystem) Update(deltaTime float64) {
	if s.over() {
		return
	}
	if s.next < len(s.lib.Waves) {
		s.countdown -= deltaTime
		if s.countdown <= 0 {
			s.StartWave()
		}
	}

	for _, w := range s.ecs.Waves {
		if w.ToSpawn == 0 {
			continue
		}
		w.SpawnTimer -= deltaTime
		for w.ToSpawn > 0 && w.SpawnTimer <= 0 {
			s.spawnPack(w)
			w.ToSpawn--
			w.SpawnTimer += w.SpawnInterval
		}
	}
}

// StartWave releases the next wave of the sequence now.
func (s *WaveSystem) StartWave() bool {
	if s.over() || s.next >= len(s.lib.Waves) {
		return false
	}
	def := s.lib.Waves[s.next]
	s.next++
	w := &component.Wave{
		Number:        s.next,
		MobID:         def.MobID,
		ToSpawn:       def.Count,
		SpawnInterval: def.SpawnInterval.Seconds(),
	}
	s.ecs.Waves = append(s.ecs.Waves, w)
	s.ecs.GameState = component.WaveState
	s.countdown = config.WaveInterval

	s.presenter.OnWaveStarted(w.Number)
	s.log.WithFields(logrus.Fields{"wave": w.Number, "mob": w.MobID, "count": w.ToSpawn}).Info("Wave started")
	s.events.Dispatch(event.Event{Type: event.WaveStarted, Data: event.WaveData{Number: w.Number}})
	if w.ToSpawn == 0 {
		s.checkCleared(w)
	}
	return true
}

// CallNextWave starts the next wave early and pays a bonus for the time saved.
func (s *WaveSystem) CallNextWave() Result {
	if s.over() {
		return Fail(ReasonGameOver)
	}
	if s.next >= len(s.lib.Waves) {
		return Fail(ReasonNotReady)
	}
	bonus := int(s.countdown * config.EarlyCallBonusRate)
	if bonus > 0 {
		s.economy.GrantGold(bonus)
	}
	s.StartWave()
	s.log.WithField("bonus", bonus).Info("Next wave called early")
	return Ok()
}

func (s *WaveSystem) spawnPack(w *component.Wave) {
	starts := s.grid.Starts()
	if len(starts) == 0 {
		s.log.Warn("Map has no start cells")
		return
	}
	size := 1
	if def, ok := s.lib.Mob(w.MobID); ok && def.GroupSize > 1 {
		size = def.GroupSize
	}
	start := starts[w.NextStart%len(starts)]
	w.NextStart++
	for i := 0; i < size; i++ {
		delay := config.CreateDelay + float64(i)*config.GroupSpacing
		if _, ok := s.factory.SpawnAtStart(w.MobID, w.Number, start, delay); ok {
			w.Alive++
		}
	}
}

// OnEvent keeps the alive counters of the waves in step with deaths and offspring.
func (s *WaveSystem) OnEvent(e event.Event) {
	data, ok := e.Data.(event.MobData)
	if !ok {
		return
	}
	w := s.ecs.ActiveWave(data.Wave)
	if w == nil {
		return
	}
	switch e.Type {
	case event.OffspringSpawned:
		w.Alive++
	case event.MobKilled, event.MobLeaked:
		w.Alive--
		if w.Alive < 0 {
			invariantViolated("wave alive counter below zero", logrus.Fields{"wave": w.Number})
			w.Alive = 0
		}
		s.checkCleared(w)
	}
}

func (s *WaveSystem) checkCleared(w *component.Wave) {
	if !w.Cleared() {
		return
	}
	for i, active := range s.ecs.Waves {
		if active == w {
			s.ecs.Waves = append(s.ecs.Waves[:i], s.ecs.Waves[i+1:]...)
			break
		}
	}
	s.presenter.OnWaveCleared(w.Number)
	s.log.WithField("wave", w.Number).Info("Wave cleared")
	s.events.Dispatch(event.Event{Type: event.WaveCleared, Data: event.WaveData{Number: w.Number}})

	if len(s.ecs.Waves) > 0 || s.over() {
		return
	}
	if s.next >= len(s.lib.Waves) {
		s.ecs.GameState = component.WonState
		s.economy.GameOver(true)
		s.log.Info("All waves cleared")
		return
	}
	s.ecs.GameState = component.BuildState
}

func (s *WaveSystem) over() bool {
	return s.ecs.GameState == component.WonState || s.ecs.GameState == component.LostState
}
