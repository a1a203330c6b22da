// internal/interfaces/presenter.go
package interfaces

import "go-tower-defense-sim/internal/types"

// MobView is the plain data handed to presentation hooks about a mob.
type MobView struct {
	ID      types.EntityID `json:"id" msgpack:"id"`
	Kind    string         `json:"kind" msgpack:"kind"`
	X       float64        `json:"x" msgpack:"x"`
	Y       float64        `json:"y" msgpack:"y"`
	Row     int            `json:"row" msgpack:"row"`
	Col     int            `json:"col" msgpack:"col"`
	Life    int            `json:"life" msgpack:"life"`
	MaxLife int            `json:"max_life" msgpack:"max_life"`
	Flying  bool           `json:"flying" msgpack:"flying"`
	Leaked  bool           `json:"leaked,omitempty" msgpack:"leaked"`
}

// TowerView describes a tower.
type TowerView struct {
	ID        types.EntityID `json:"id" msgpack:"id"`
	Kind      string         `json:"kind" msgpack:"kind"`
	Row       int            `json:"row" msgpack:"row"`
	Col       int            `json:"col" msgpack:"col"`
	Size      int            `json:"size" msgpack:"size"`
	Level     int            `json:"level" msgpack:"level"`
	Locked    bool           `json:"locked" msgpack:"locked"`
	LockAngle float64        `json:"lock_angle" msgpack:"lock_angle"`
	Angle     float64        `json:"angle" msgpack:"angle"`
	Refund    int            `json:"refund,omitempty" msgpack:"refund"`
}

// ShotView describes one firing decision.
type ShotView struct {
	TowerID types.EntityID   `json:"tower_id" msgpack:"tower_id"`
	Targets []types.EntityID `json:"targets" msgpack:"targets"`
	Angle   float64          `json:"angle" msgpack:"angle"`
}

// ProjectileView describes a projectile at spawn or impact.
type ProjectileView struct {
	ID      types.EntityID `json:"id" msgpack:"id"`
	TowerID types.EntityID `json:"tower_id" msgpack:"tower_id"`
	FromX   float64        `json:"from_x" msgpack:"from_x"`
	FromY   float64        `json:"from_y" msgpack:"from_y"`
	ToX     float64        `json:"to_x" msgpack:"to_x"`
	ToY     float64        `json:"to_y" msgpack:"to_y"`
	X       float64        `json:"x" msgpack:"x"`
	Y       float64        `json:"y" msgpack:"y"`
	Flight  float64        `json:"flight" msgpack:"flight"`
	Motion  string         `json:"motion" msgpack:"motion"`
}

// Presenter receives notifications from the simulation. It never gets asked
// anything back.
type Presenter interface {
	OnMobCreated(m MobView)
	OnMobMoved(m MobView)
	OnMobDied(m MobView)
	OnTowerBuilt(t TowerView)
	OnTowerUpgraded(t TowerView)
	OnTowerSold(t TowerView)
	OnTowerShot(s ShotView)
	OnProjectileSpawned(p ProjectileView)
	OnProjectileResolved(p ProjectileView)
	OnWaveStarted(number int)
	OnWaveCleared(number int)
}

// NopPresenter ignores every hook.
type NopPresenter struct{}

func (NopPresenter) OnMobCreated(MobView)                {}
func (NopPresenter) OnMobMoved(MobView)                  {}
func (NopPresenter) OnMobDied(MobView)                   {}
func (NopPresenter) OnTowerBuilt(TowerView)              {}
func (NopPresenter) OnTowerUpgraded(TowerView)           {}
func (NopPresenter) OnTowerSold(TowerView)               {}
func (NopPresenter) OnTowerShot(ShotView)                {}
func (NopPresenter) OnProjectileSpawned(ProjectileView)  {}
func (NopPresenter) OnProjectileResolved(ProjectileView) {}
func (NopPresenter) OnWaveStarted(int)                   {}
func (NopPresenter) OnWaveCleared(int)                   {}
