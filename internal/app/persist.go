// internal/app/persist.go
package app

import (
	"fmt"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"

	"github.com/sirupsen/logrus"
)

// SnapshotVersion is bumped whenever the saved layout changes.
const SnapshotVersion = 1

// Snapshot is the saved state of a game between two ticks. Projectiles in
// flight are not saved: restored mobs get their whole life back as pool.
type Snapshot struct {
	Version   int     `json:"version" msgpack:"version"`
	Level     string  `json:"level" msgpack:"level"`
	Seed      int64   `json:"seed" msgpack:"seed"`
	GameTime  float64 `json:"game_time" msgpack:"game_time"`
	State     int     `json:"state" msgpack:"state"`
	NextID    int     `json:"next_id" msgpack:"next_id"`
	Gold      int     `json:"gold" msgpack:"gold"`
	Lives     int     `json:"lives" msgpack:"lives"`
	NextWave  int     `json:"next_wave" msgpack:"next_wave"`
	Countdown float64 `json:"countdown" msgpack:"countdown"`
	Speed     int     `json:"speed" msgpack:"speed"`

	Towers []TowerSave `json:"towers" msgpack:"towers"`
	Mobs   []MobSave   `json:"mobs" msgpack:"mobs"`
	Waves  []WaveSave  `json:"waves" msgpack:"waves"`
}

type TowerSave struct {
	ID        int     `json:"id" msgpack:"id"`
	Kind      string  `json:"kind" msgpack:"kind"`
	Row       int     `json:"row" msgpack:"row"`
	Col       int     `json:"col" msgpack:"col"`
	Level     int     `json:"level" msgpack:"level"`
	Invested  int     `json:"invested" msgpack:"invested"`
	Cooldown  float64 `json:"cooldown,omitempty" msgpack:"cooldown"`
	Upgrade   float64 `json:"upgrade,omitempty" msgpack:"upgrade"` // остаток задержки улучшения
	Sale      float64 `json:"sale,omitempty" msgpack:"sale"`
	Locked    bool    `json:"locked,omitempty" msgpack:"locked"`
	LockAngle float64 `json:"lock_angle,omitempty" msgpack:"lock_angle"`
	Angle     float64 `json:"angle,omitempty" msgpack:"angle"`
}

type BleedSave struct {
	Source   int     `json:"source" msgpack:"source"`
	Timer    float64 `json:"timer" msgpack:"timer"`
	TickLeft float64 `json:"tick_left" msgpack:"tick_left"`
	Damage   int     `json:"damage" msgpack:"damage"`
}

// MobSave holds a mob with its path key and pointer instead of the path itself.
type MobSave struct {
	ID         int         `json:"id" msgpack:"id"`
	Kind       string      `json:"kind" msgpack:"kind"`
	Wave       int         `json:"wave" msgpack:"wave"`
	Level      int         `json:"level" msgpack:"level"`
	State      int         `json:"state" msgpack:"state"`
	X          float64     `json:"x" msgpack:"x"`
	Y          float64     `json:"y" msgpack:"y"`
	Row        int         `json:"row" msgpack:"row"`
	Col        int         `json:"col" msgpack:"col"`
	Life       int         `json:"life" msgpack:"life"`
	Timer      float64     `json:"timer,omitempty" msgpack:"timer"`
	SpawnFromX float64     `json:"spawn_from_x,omitempty" msgpack:"spawn_from_x"`
	SpawnFromY float64     `json:"spawn_from_y,omitempty" msgpack:"spawn_from_y"`
	PathRow    int         `json:"path_row" msgpack:"path_row"`
	PathCol    int         `json:"path_col" msgpack:"path_col"`
	PathMode   int         `json:"path_mode" msgpack:"path_mode"`
	PathIndex  int         `json:"path_index" msgpack:"path_index"`
	Idle       bool        `json:"idle,omitempty" msgpack:"idle"`
	Parent     int         `json:"parent,omitempty" msgpack:"parent"`
	Slow       float64     `json:"slow,omitempty" msgpack:"slow"`
	Stun       float64     `json:"stun,omitempty" msgpack:"stun"`
	StunPhase  float64     `json:"stun_phase,omitempty" msgpack:"stun_phase"`
	Bleeds     []BleedSave `json:"bleeds,omitempty" msgpack:"bleeds"`
}

type WaveSave struct {
	Number        int     `json:"number" msgpack:"number"`
	MobID         string  `json:"mob_id" msgpack:"mob_id"`
	ToSpawn       int     `json:"to_spawn" msgpack:"to_spawn"`
	SpawnTimer    float64 `json:"spawn_timer" msgpack:"spawn_timer"`
	SpawnInterval float64 `json:"spawn_interval" msgpack:"spawn_interval"`
	Alive         int     `json:"alive" msgpack:"alive"`
	NextStart     int     `json:"next_start" msgpack:"next_start"`
}

// Snapshot captures the game. Call it between ticks.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		Version:   SnapshotVersion,
		Level:     g.Level.Name(),
		Seed:      g.Rng.Seed(),
		GameTime:  g.gameTime,
		State:     int(g.ECS.GameState),
		NextID:    int(g.ECS.NextID),
		Gold:      g.Economy.Gold(),
		Lives:     g.Economy.Lives(),
		NextWave:  g.WaveSystem.Next(),
		Countdown: g.WaveSystem.Countdown(),
		Speed:     g.speedIndex,
	}

	for _, id := range g.ECS.TowerOrder.IDs() {
		t, ok := g.ECS.Towers[id]
		if !ok {
			continue
		}
		ts := TowerSave{
			ID:        int(id),
			Kind:      t.DefID,
			Row:       t.Anchor.Row,
			Col:       t.Anchor.Col,
			Level:     t.Level,
			Invested:  t.Invested,
			Locked:    t.Locked,
			LockAngle: t.LockAngle,
			Angle:     t.Combat.Angle,
		}
		if t.Cooling {
			ts.Cooldown = t.Combat.Cooldown
		}
		if t.Upgrading {
			ts.Upgrade = t.UpgradeTimer
		}
		if t.Selling {
			ts.Sale = t.SaleTimer
		}
		s.Towers = append(s.Towers, ts)
	}

	for _, id := range sortedIDs(g.ECS.Mobs) {
		m := g.ECS.Mobs[id]
		if !m.Alive() {
			continue
		}
		ms := MobSave{
			ID:         int(id),
			Kind:       m.DefID,
			Wave:       m.Wave,
			Level:      m.Level,
			State:      int(m.State),
			X:          m.Position.X,
			Y:          m.Position.Y,
			Row:        m.Cell.Row,
			Col:        m.Cell.Col,
			Life:       m.Health.Value,
			Timer:      m.Timer,
			SpawnFromX: m.SpawnFrom.X,
			SpawnFromY: m.SpawnFrom.Y,
			PathRow:    m.Path.Key.Origin.Row,
			PathCol:    m.Path.Key.Origin.Col,
			PathMode:   int(m.Path.Key.Mode),
			PathIndex:  m.Path.CurrentIndex,
			Idle:       m.Idle,
			Parent:     int(m.Parent),
		}
		if e, ok := g.ECS.SlowEffects[id]; ok {
			ms.Slow = e.Timer
		}
		if e, ok := g.ECS.StunEffects[id]; ok {
			ms.Stun = e.Timer
			ms.StunPhase = e.Phase
		}
		if e, ok := g.ECS.BleedEffects[id]; ok {
			for _, b := range e.Instances {
				ms.Bleeds = append(ms.Bleeds, BleedSave{Source: int(b.Source), Timer: b.Timer, TickLeft: b.TickLeft, Damage: b.Damage})
			}
		}
		s.Mobs = append(s.Mobs, ms)
	}

	for _, w := range g.ECS.Waves {
		s.Waves = append(s.Waves, WaveSave{
			Number:        w.Number,
			MobID:         w.MobID,
			ToSpawn:       w.ToSpawn,
			SpawnTimer:    w.SpawnTimer,
			SpawnInterval: w.SpawnInterval,
			Alive:         w.Alive,
			NextStart:     w.NextStart,
		})
	}
	return s
}

// ledgerSetter is implemented by economies that can be overwritten on load.
type ledgerSetter interface {
	Set(gold, lives int)
}

// Restore rebuilds a game from a snapshot on the same level. Saved ids are kept.
func Restore(level interfaces.LevelProvider, snap *Snapshot, opts Options) (*Game, error) {
	if snap == nil {
		return nil, fmt.Errorf("restore: nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("restore: unsupported snapshot version %d", snap.Version)
	}
	if level != nil && snap.Level != level.Name() {
		return nil, fmt.Errorf("restore: snapshot is for level %q, got %q", snap.Level, level.Name())
	}
	if opts.Seed == 0 {
		opts.Seed = snap.Seed
	}
	g, err := newGame(level, opts, false)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	maxID := 0
	for _, ts := range snap.Towers {
		if err := g.restoreTower(ts); err != nil {
			return nil, fmt.Errorf("restore: %w", err)
		}
		maxID = max(maxID, ts.ID)
	}

	for _, ms := range snap.Mobs {
		m, ok := g.MobFactory.Build(ms.Kind, ms.Wave, ms.Level, grid.Cell{Row: ms.Row, Col: ms.Col}, component.MobState(ms.State))
		if !ok {
			return nil, fmt.Errorf("restore: mob %d: unknown kind %q", ms.ID, ms.Kind)
		}
		if !g.Grid.InBounds(ms.Row, ms.Col) || g.Grid.IsWall(ms.Row, ms.Col) || g.Grid.TowerAt(ms.Row, ms.Col) != 0 {
			return nil, fmt.Errorf("restore: mob %d stands on a blocked cell (%d,%d)", ms.ID, ms.Row, ms.Col)
		}
		life := min(max(ms.Life, 1), m.Health.Max)
		m.Health.Value = life
		m.Health.Pool = life
		m.Position = component.Position{X: ms.X, Y: ms.Y}
		m.Timer = ms.Timer
		m.SpawnFrom = component.Position{X: ms.SpawnFromX, Y: ms.SpawnFromY}
		m.Idle = ms.Idle
		m.Parent = types.EntityID(ms.Parent)
		g.MobFactory.Insert(types.EntityID(ms.ID), m)
		maxID = max(maxID, ms.ID)
	}

	if !g.Paths.Revalidate() {
		return nil, fmt.Errorf("restore: saved board has no route for every start and mob")
	}

	for _, ms := range snap.Mobs {
		id := types.EntityID(ms.ID)
		m := g.ECS.Mobs[id]
		if m.State == component.MobMoving {
			key := component.PathKey{Origin: grid.Cell{Row: ms.PathRow, Col: ms.PathCol}, Mode: grid.Mode(ms.PathMode)}
			g.Paths.Restore(m, key, ms.PathIndex)
		}
		var bleeds []component.BleedInstance
		for _, b := range ms.Bleeds {
			bleeds = append(bleeds, component.BleedInstance{Source: types.EntityID(b.Source), Timer: b.Timer, TickLeft: b.TickLeft, Damage: b.Damage})
		}
		g.StatusEffectSystem.Restore(id, ms.Slow, ms.Stun, ms.StunPhase, bleeds)
	}

	for _, ws := range snap.Waves {
		g.ECS.Waves = append(g.ECS.Waves, &component.Wave{
			Number:        ws.Number,
			MobID:         ws.MobID,
			ToSpawn:       ws.ToSpawn,
			SpawnTimer:    ws.SpawnTimer,
			SpawnInterval: ws.SpawnInterval,
			Alive:         ws.Alive,
			NextStart:     ws.NextStart,
		})
	}
	g.WaveSystem.SetProgress(snap.NextWave, snap.Countdown)

	if setter, ok := g.Economy.(ledgerSetter); ok {
		setter.Set(snap.Gold, snap.Lives)
	} else {
		g.log.Warn("Economy cannot be restored, keeping its current gold and lives")
	}

	g.ECS.GameState = component.GameState(snap.State)
	g.ECS.NextID = types.EntityID(max(snap.NextID, maxID+1))
	g.gameTime = snap.GameTime
	g.ECS.GameTime = snap.GameTime
	g.SetSpeedIndex(snap.Speed)

	g.log.WithFields(logrus.Fields{
		"level":  snap.Level,
		"towers": len(snap.Towers),
		"mobs":   len(snap.Mobs),
		"wave":   snap.NextWave,
	}).Info("Game restored")
	return g, nil
}

func (g *Game) restoreTower(ts TowerSave) error {
	def, ok := g.Library.Tower(ts.Kind)
	if !ok {
		return fmt.Errorf("tower %d: unknown kind %q", ts.ID, ts.Kind)
	}
	if ts.ID <= 0 {
		return fmt.Errorf("tower %d: invalid id", ts.ID)
	}
	size := def.FootprintSize(config.TowerSize)
	if !g.Grid.CanPlace(ts.Row, ts.Col, size) {
		return fmt.Errorf("tower %d at (%d,%d): cell not free", ts.ID, ts.Row, ts.Col)
	}
	level := min(max(ts.Level, 1), def.MaxLevel())

	id := types.EntityID(ts.ID)
	g.occupy(id, ts.Row, ts.Col, size)
	t := g.addTower(id, def, grid.Cell{Row: ts.Row, Col: ts.Col}, size, level, ts.Invested)
	t.Locked = ts.Locked
	t.LockAngle = ts.LockAngle
	t.Combat.Angle = ts.Angle
	t.Turret.CurrentAngle = ts.Angle
	t.Turret.TargetAngle = ts.Angle

	if ts.Cooldown > 0 {
		t.Combat.Cooldown = ts.Cooldown
		t.Cooling = true
		g.ECS.Cooldown.Add(id)
		g.RangeIndex.Suspend(id)
	}
	if ts.Upgrade > 0 {
		t.Upgrading = true
		t.UpgradeTimer = ts.Upgrade
		g.ECS.Upgrading.Add(id)
		g.RangeIndex.Suspend(id)
	}
	if ts.Sale > 0 {
		t.Selling = true
		t.SaleTimer = ts.Sale
		g.ECS.Selling.Add(id)
		g.RangeIndex.Suspend(id)
	}
	return nil
}
