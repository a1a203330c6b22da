// internal/app/game.go
package app

import (
	"errors"
	"fmt"
	"sort"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/event"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/score"
	"go-tower-defense-sim/internal/system"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/internal/utils"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Options configure a new game. Zero values fall back to the built-in library,
// a default ledger and a presenter that ignores everything.
type Options struct {
	Library   *defs.Library
	Economy   interfaces.Economy
	Presenter interfaces.Presenter
	Seed      int64
}

// Game holds one simulation: the board, the arena and every system.
// It is not safe for concurrent use; callers serialize Update and mutators.
type Game struct {
	Level           interfaces.LevelProvider
	Grid            *grid.Grid
	ECS             *entity.ECS
	Library         *defs.Library
	Economy         interfaces.Economy
	Presenter       interfaces.Presenter
	EventDispatcher *event.Dispatcher
	Rng             *utils.PRNGService

	Paths              *system.PathService
	RangeIndex         *system.RangeIndex
	MobFactory         *system.MobFactory
	DeathSystem        *system.DeathSystem
	StatusEffectSystem *system.StatusEffectSystem
	LifecycleSystem    *system.LifecycleSystem
	MovementSystem     *system.MovementSystem
	TowerSystem        *system.TowerSystem
	CombatSystem       *system.CombatSystem
	ProjectileSystem   *system.ProjectileSystem
	WaveSystem         *system.WaveSystem
	InvariantSystem    *system.InvariantSystem

	SpeedMultiplier float64
	speedIndex      int
	gameTime        float64
	isPaused        bool
	log             *logrus.Entry
}

// NewGame builds a game for a level and places the level's initial towers.
func NewGame(level interfaces.LevelProvider, opts Options) (*Game, error) {
	return newGame(level, opts, true)
}

func newGame(level interfaces.LevelProvider, opts Options, placeInitial bool) (*Game, error) {
	if level == nil {
		return nil, errors.New("level cannot be nil")
	}
	if opts.Library == nil {
		opts.Library = defs.DefaultLibrary()
	}
	if err := opts.Library.Validate(); err != nil {
		return nil, fmt.Errorf("invalid library: %w", err)
	}
	if opts.Economy == nil {
		opts.Economy = score.NewLedger(config.DefaultStartGold, config.DefaultStartLives)
	}
	if opts.Presenter == nil {
		opts.Presenter = interfaces.NopPresenter{}
	}

	rows, cols := level.Size()
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("level %q has empty size %dx%d", level.Name(), rows, cols)
	}
	g := grid.New(rows, cols)
	for _, c := range level.Walls() {
		g.SetWall(c.Row, c.Col)
	}
	for _, c := range level.Starts() {
		g.AddStart(c.Row, c.Col)
	}
	for _, c := range level.Targets() {
		g.AddTarget(c.Row, c.Col)
	}
	if len(g.Starts()) == 0 || len(g.Targets()) == 0 {
		return nil, fmt.Errorf("level %q needs at least one start and one target", level.Name())
	}
	// внешний ряд всегда стена, даже если провайдер уровня его не задал
	g.SealBorder()

	ecs := entity.NewECS()
	eventDispatcher := event.NewDispatcher()
	rng := utils.NewPRNGService(opts.Seed)
	game := &Game{
		Level:           level,
		Grid:            g,
		ECS:             ecs,
		Library:         opts.Library,
		Economy:         opts.Economy,
		Presenter:       opts.Presenter,
		EventDispatcher: eventDispatcher,
		Rng:             rng,
		SpeedMultiplier: config.SpeedMultipliers[0],
		log:             logger.Component("game"),
	}
	game.Paths = system.NewPathService(g, ecs)
	game.RangeIndex = system.NewRangeIndex(g, ecs)
	game.MobFactory = system.NewMobFactory(ecs, g, opts.Library, opts.Presenter)
	game.DeathSystem = system.NewDeathSystem(ecs, g, opts.Economy, opts.Presenter, eventDispatcher, game.MobFactory, rng)
	game.StatusEffectSystem = system.NewStatusEffectSystem(ecs, game.DeathSystem)
	game.LifecycleSystem = system.NewLifecycleSystem(ecs, game.Paths)
	game.MovementSystem = system.NewMovementSystem(ecs, g, game.Paths, game.DeathSystem, opts.Presenter)
	game.TowerSystem = system.NewTowerSystem(ecs, g, game.RangeIndex, game.Paths, opts.Economy, opts.Presenter, eventDispatcher)
	game.CombatSystem = system.NewCombatSystem(ecs, game.RangeIndex, opts.Presenter)
	game.ProjectileSystem = system.NewProjectileSystem(ecs, game.StatusEffectSystem, game.DeathSystem, opts.Presenter, rng)
	game.WaveSystem = system.NewWaveSystem(ecs, g, opts.Library, game.MobFactory, opts.Economy, opts.Presenter, eventDispatcher)
	game.InvariantSystem = system.NewInvariantSystem(ecs, game.RangeIndex)

	if !game.Paths.Revalidate() {
		return nil, fmt.Errorf("level %q: a start cannot reach a target", level.Name())
	}

	if placeInitial {
		for _, it := range level.InitialTowers() {
			if err := game.placeInitialTower(it); err != nil {
				return nil, fmt.Errorf("level %q: %w", level.Name(), err)
			}
		}
	}

	game.log.WithFields(logrus.Fields{
		"level":  level.Name(),
		"rows":   rows,
		"cols":   cols,
		"starts": len(g.Starts()),
		"waves":  len(opts.Library.Waves),
		"seed":   opts.Seed,
	}).Info("Game created")
	return game, nil
}

// Update advances the game by a frame. The frame is clamped, scaled by the
// speed multiplier and split into ticks no longer than MaxDeltaTime.
func (g *Game) Update(deltaTime float64) {
	if g.isPaused || g.Over() || deltaTime <= 0 {
		return
	}
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	dt := deltaTime * g.SpeedMultiplier
	for dt > 1e-9 && !g.Over() {
		step := dt
		if step > config.MaxDeltaTime {
			step = config.MaxDeltaTime
		}
		g.Tick(step)
		dt -= step
	}
}

// Tick runs one pass of the simulation pipeline.
func (g *Game) Tick(dt float64) {
	if g.Over() {
		return
	}
	g.gameTime += dt
	g.ECS.GameTime = g.gameTime

	g.WaveSystem.Update(dt)
	g.LifecycleSystem.Update(dt)
	g.StatusEffectSystem.Update(dt)
	g.TowerSystem.Update(dt)
	g.MovementSystem.Update(dt)
	g.DeathSystem.Flush()
	g.CombatSystem.Update()
	g.ProjectileSystem.Update(dt)
	g.DeathSystem.Flush()
	g.InvariantSystem.Check()
}

func (g *Game) GameTime() float64 { return g.gameTime }

// Countdown is the time left before the next wave starts on its own.
func (g *Game) Countdown() float64 { return g.WaveSystem.Countdown() }

func (g *Game) Paused() bool { return g.isPaused }

func (g *Game) SetPaused(paused bool) {
	if g.isPaused == paused {
		return
	}
	g.isPaused = paused
	g.log.WithField("paused", paused).Info("Pause toggled")
}

func (g *Game) TogglePause() { g.SetPaused(!g.isPaused) }

// CycleSpeed переключает множитель скорости по кругу.
func (g *Game) CycleSpeed() float64 {
	g.SetSpeedIndex((g.speedIndex + 1) % len(config.SpeedMultipliers))
	return g.SpeedMultiplier
}

// SetSpeedIndex selects one of config.SpeedMultipliers. Out of range indices are ignored.
func (g *Game) SetSpeedIndex(i int) {
	if i < 0 || i >= len(config.SpeedMultipliers) {
		return
	}
	g.speedIndex = i
	g.SpeedMultiplier = config.SpeedMultipliers[i]
}

func (g *Game) SpeedIndex() int { return g.speedIndex }

func (g *Game) State() component.GameState { return g.ECS.GameState }

// Over reports a won or lost game. A finished game ignores updates and mutators.
func (g *Game) Over() bool {
	return g.ECS.GameState == component.WonState || g.ECS.GameState == component.LostState
}

func (g *Game) Won() bool { return g.ECS.GameState == component.WonState }

func (g *Game) Gold() int  { return g.Economy.Gold() }
func (g *Game) Lives() int { return g.Economy.Lives() }

// WaveNumber is the number of waves already started.
func (g *Game) WaveNumber() int { return g.WaveSystem.Next() }

func (g *Game) TotalWaves() int { return g.WaveSystem.Total() }

// Tower returns the view of a tower by id.
func (g *Game) Tower(id types.EntityID) (interfaces.TowerView, bool) {
	t, ok := g.ECS.Towers[id]
	if !ok {
		return interfaces.TowerView{}, false
	}
	return system.ViewTower(id, t), true
}

// TowerAt returns the id of the tower standing on (r, c).
func (g *Game) TowerAt(r, c int) (types.EntityID, bool) {
	id := types.EntityID(g.Grid.TowerAt(r, c))
	return id, id != types.None
}

// Mob returns the view of a live mob by id.
func (g *Game) Mob(id types.EntityID) (interfaces.MobView, bool) {
	m, ok := g.ECS.Mobs[id]
	if !ok {
		return interfaces.MobView{}, false
	}
	return system.ViewMob(g.ECS, id, m), true
}

// Mobs lists every mob sorted by id.
func (g *Game) Mobs() []interfaces.MobView {
	ids := sortedIDs(g.ECS.Mobs)
	out := make([]interfaces.MobView, 0, len(ids))
	for _, id := range ids {
		out = append(out, system.ViewMob(g.ECS, id, g.ECS.Mobs[id]))
	}
	return out
}

// Towers lists every tower in build order.
func (g *Game) Towers() []interfaces.TowerView {
	out := make([]interfaces.TowerView, 0, len(g.ECS.Towers))
	for _, id := range g.ECS.TowerOrder.IDs() {
		if t, ok := g.ECS.Towers[id]; ok {
			out = append(out, system.ViewTower(id, t))
		}
	}
	return out
}

// Projectiles lists projectiles in flight in creation order.
func (g *Game) Projectiles() []interfaces.ProjectileView {
	out := make([]interfaces.ProjectileView, 0, len(g.ECS.Projectiles))
	for _, id := range g.ECS.InFlight.IDs() {
		if p, ok := g.ECS.Projectiles[id]; ok {
			out = append(out, system.ViewProjectile(id, p))
		}
	}
	return out
}

func sortedIDs[T any](m map[types.EntityID]T) []types.EntityID {
	ids := make([]types.EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
