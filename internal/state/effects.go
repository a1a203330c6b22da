// internal/state/effects.go
package state

import (
	"fmt"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
)

const (
	laserDuration  = 0.12
	flashDuration  = 0.15
	impactDuration = 0.25
	bannerDuration = 2.5
)

type impact struct {
	X, Y   float64
	Radius float64
	component.DamageFlash
}

// Effects turns simulation hooks into short-lived visuals. It only records;
// GameState ages and draws them.
type Effects struct {
	interfaces.NopPresenter

	lookup  func(types.EntityID) (interfaces.MobView, bool)
	towers  func(types.EntityID) (interfaces.TowerView, bool)
	library *defs.Library

	Lasers  []component.Laser
	Flashes map[types.EntityID]*component.DamageFlash
	Impacts []impact

	Banner      string
	bannerTimer float64
}

func NewEffects(lib *defs.Library) *Effects {
	return &Effects{
		library: lib,
		Flashes: make(map[types.EntityID]*component.DamageFlash),
	}
}

// Bind attaches the lookups once the game exists.
func (e *Effects) Bind(mobs func(types.EntityID) (interfaces.MobView, bool), towers func(types.EntityID) (interfaces.TowerView, bool)) {
	e.lookup = mobs
	e.towers = towers
}

func (e *Effects) OnTowerShot(s interfaces.ShotView) {
	if e.towers == nil || e.lookup == nil {
		return
	}
	t, ok := e.towers(s.TowerID)
	if !ok {
		return
	}
	def, ok := e.library.Tower(t.Kind)
	if !ok || def.Motion != defs.MotionInstant {
		return
	}
	fx, fy := towerCenter(t)
	for _, id := range s.Targets {
		m, ok := e.lookup(id)
		if !ok {
			continue
		}
		e.Lasers = append(e.Lasers, component.Laser{
			FromX: fx, FromY: fy, ToX: m.X, ToY: m.Y,
			Color:       def.Visuals.Color,
			DamageFlash: component.DamageFlash{Duration: laserDuration},
		})
		e.Flashes[id] = &component.DamageFlash{Duration: flashDuration}
	}
}

func (e *Effects) OnProjectileResolved(p interfaces.ProjectileView) {
	radius := config.ProjectileRadius * 2
	if p.Motion == string(defs.MotionArea) {
		radius = config.ClusterRadius
	}
	e.Impacts = append(e.Impacts, impact{
		X: p.ToX, Y: p.ToY, Radius: radius,
		DamageFlash: component.DamageFlash{Duration: impactDuration},
	})
}

func (e *Effects) OnMobDied(m interfaces.MobView) {
	delete(e.Flashes, m.ID)
}

func (e *Effects) OnWaveStarted(n int) {
	e.banner(fmt.Sprintf("Wave %d", n))
}

func (e *Effects) OnWaveCleared(n int) {
	e.banner(fmt.Sprintf("Wave %d cleared", n))
}

func (e *Effects) banner(s string) {
	e.Banner = s
	e.bannerTimer = bannerDuration
}

// Update ages every effect and drops the finished ones.
func (e *Effects) Update(dt float64) {
	lasers := e.Lasers[:0]
	for _, l := range e.Lasers {
		l.Timer += dt
		if l.Timer < l.Duration {
			lasers = append(lasers, l)
		}
	}
	e.Lasers = lasers

	for id, f := range e.Flashes {
		f.Timer += dt
		if f.Timer >= f.Duration {
			delete(e.Flashes, id)
		}
	}

	impacts := e.Impacts[:0]
	for _, im := range e.Impacts {
		im.Timer += dt
		if im.Timer < im.Duration {
			impacts = append(impacts, im)
		}
	}
	e.Impacts = impacts

	if e.bannerTimer > 0 {
		e.bannerTimer -= dt
		if e.bannerTimer <= 0 {
			e.Banner = ""
		}
	}
}

func towerCenter(t interfaces.TowerView) (float64, float64) {
	half := float64(t.Size) / 2
	return (float64(t.Col) + half) * config.CellSize, (float64(t.Row) + half) * config.CellSize
}
