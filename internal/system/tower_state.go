// internal/system/tower_state.go
package system

import (
	"math"

	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/event"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/internal/utils"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TowerSystem runs the tower timers: shot cooldown, upgrade and sale.
type TowerSystem struct {
	ecs       *entity.ECS
	grid      *grid.Grid
	index     *RangeIndex
	paths     *PathService
	economy   interfaces.Economy
	presenter interfaces.Presenter
	events    *event.Dispatcher
	buf       []types.EntityID
	log       *logrus.Entry
}

func NewTowerSystem(ecs *entity.ECS, g *grid.Grid, index *RangeIndex, paths *PathService,
	economy interfaces.Economy, presenter interfaces.Presenter, events *event.Dispatcher) *TowerSystem {
	return &TowerSystem{
		ecs:       ecs,
		grid:      g,
		index:     index,
		paths:     paths,
		economy:   economy,
		presenter: presenter,
		events:    events,
		log:       logger.Component("towers"),
	}
}

// StartUpgrade pays for the next level and puts the tower into the upgrade queue.
func (s *TowerSystem) StartUpgrade(id types.EntityID) Result {
	t, ok := s.ecs.Towers[id]
	if !ok {
		return Fail(ReasonUnknownTower)
	}
	if t.Busy() {
		return Fail(ReasonBusy)
	}
	if t.Level >= t.Def.MaxLevel() {
		return Fail(ReasonMaxLevel)
	}
	cost := t.Def.Level(t.Level + 1).Cost
	if !s.economy.SpendGold(cost) {
		return Fail(ReasonInsufficientGold)
	}
	t.Invested += cost
	t.Upgrading = true
	t.UpgradeTimer = config.UpgradeDelayPerLevel * float64(t.Level+1)
	s.ecs.Upgrading.Add(id)
	s.index.Suspend(id)
	s.log.WithFields(logrus.Fields{"tower": id, "to_level": t.Level + 1, "cost": cost}).Info("Upgrade started")
	return Ok()
}

// StartSale puts the tower into the sale queue. It stops firing at once.
func (s *TowerSystem) StartSale(id types.EntityID) Result {
	t, ok := s.ecs.Towers[id]
	if !ok {
		return Fail(ReasonUnknownTower)
	}
	if t.Busy() {
		return Fail(ReasonBusy)
	}
	t.Selling = true
	t.SaleTimer = config.SaleDelay
	s.ecs.Selling.Add(id)
	s.index.Suspend(id)
	s.log.WithField("tower", id).Info("Sale started")
	return Ok()
}

// ToggleLock fixes a lockable tower's firing angle, or frees it again.
func (s *TowerSystem) ToggleLock(id types.EntityID) Result {
	t, ok := s.ecs.Towers[id]
	if !ok {
		return Fail(ReasonUnknownTower)
	}
	if !t.Def.Lockable {
		return Fail(ReasonNotCapable)
	}
	t.Locked = !t.Locked
	if t.Locked {
		t.LockAngle = t.Combat.Angle
	}
	s.presenter.OnTowerUpgraded(ViewTower(id, t))
	s.log.WithFields(logrus.Fields{"tower": id, "locked": t.Locked, "angle": t.LockAngle}).Debug("Lock toggled")
	return Ok()
}

func (s *TowerSystem) Update(deltaTime float64) {
	s.buf = s.ecs.Cooldown.Snapshot(s.buf)
	for _, id := range s.buf {
		t, ok := s.ecs.Towers[id]
		if !ok {
			s.ecs.Cooldown.Remove(id)
			continue
		}
		t.Combat.Cooldown -= deltaTime
		if t.Combat.Cooldown > 0 {
			continue
		}
		t.Combat.Cooldown = 0
		t.Cooling = false
		s.ecs.Cooldown.Remove(id)
		if !t.Busy() {
			s.index.Resume(id)
		}
	}

	s.buf = s.ecs.Upgrading.Snapshot(s.buf)
	for _, id := range s.buf {
		t, ok := s.ecs.Towers[id]
		if !ok {
			s.ecs.Upgrading.Remove(id)
			continue
		}
		t.UpgradeTimer -= deltaTime
		if t.UpgradeTimer <= 0 {
			s.finishUpgrade(id)
		}
	}

	s.buf = s.ecs.Selling.Snapshot(s.buf)
	for _, id := range s.buf {
		t, ok := s.ecs.Towers[id]
		if !ok {
			s.ecs.Selling.Remove(id)
			continue
		}
		t.SaleTimer -= deltaTime
		if t.SaleTimer <= 0 {
			s.finishSale(id)
		}
	}

	s.buf = s.ecs.TowerOrder.Snapshot(s.buf)
	for _, id := range s.buf {
		if t, ok := s.ecs.Towers[id]; ok && t.Turret.TurnSpeed > 0 {
			step := math.Min(1, t.Turret.TurnSpeed*deltaTime)
			t.Turret.CurrentAngle = utils.LerpDegrees(t.Turret.CurrentAngle, t.Turret.TargetAngle, step)
		}
	}
}

func (s *TowerSystem) finishUpgrade(id types.EntityID) {
	t := s.ecs.Towers[id]
	oldRadius := math.Floor(t.Range())
	t.Level++
	t.Upgrading = false
	t.UpgradeTimer = 0
	s.ecs.Upgrading.Remove(id)

	if math.Floor(t.Range()) != oldRadius {
		s.index.Deregister(id)
		s.index.Register(id)
	} else if t.IsBoost() {
		s.index.RefreshBoost(id)
	}
	if t.Cooling {
		s.index.Suspend(id)
	} else {
		s.index.Resume(id)
	}

	s.presenter.OnTowerUpgraded(ViewTower(id, t))
	s.log.WithFields(logrus.Fields{"tower": id, "kind": t.DefID, "level": t.Level}).Info("Upgrade finished")
}

func (s *TowerSystem) finishSale(id types.EntityID) {
	t := s.ecs.Towers[id]
	s.index.Deregister(id)
	for _, c := range t.Cells() {
		s.grid.Vacate(c.Row, c.Col)
	}
	refund := int(float64(t.Invested) * config.RefundRate)
	s.economy.GrantGold(refund)
	s.ecs.RemoveTower(id)
	s.paths.Invalidate()

	view := ViewTower(id, t)
	view.Refund = refund
	s.presenter.OnTowerSold(view)
	s.log.WithFields(logrus.Fields{"tower": id, "kind": t.DefID, "refund": refund}).Info("Tower sold")
	s.events.Dispatch(event.Event{Type: event.TowerRemoved, Data: event.TowerData{ID: id, Kind: t.DefID}})
}
