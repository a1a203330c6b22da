package system

import (
	"math"
	"os"
	"testing"

	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/event"
	"go-tower-defense-sim/internal/interfaces"
	"go-tower-defense-sim/internal/score"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/internal/utils"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"
	putils "go-tower-defense-sim/pkg/utils"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

const tick = 1.0 / 60

// world wires every system over a 7×12 open board with a single corridor
// start (3,0) → target (3,11).
type world struct {
	g       *grid.Grid
	ecs     *entity.ECS
	lib     *defs.Library
	ledger  *score.Ledger
	events  *event.Dispatcher
	factory *MobFactory
	deaths  *DeathSystem
	paths   *PathService
	index   *RangeIndex
	effects *StatusEffectSystem
	life    *LifecycleSystem
	moves   *MovementSystem
	towers  *TowerSystem
	combat  *CombatSystem
	shots   *ProjectileSystem
	waves   *WaveSystem
	inv     *InvariantSystem
}

func newWorld(t *testing.T) *world {
	t.Helper()
	lib := defs.DefaultLibrary()
	lib.Towers["TEST_25"] = defs.TowerDefinition{
		ID: "TEST_25", Targeting: defs.TargetSingle, Motion: defs.MotionInstant, HitsGround: true,
		Levels: []defs.TowerLevel{{Cost: 10, Damage: 25, Range: 4, Speed: 1}},
	}
	lib.Towers["TEST_50"] = defs.TowerDefinition{
		ID: "TEST_50", Targeting: defs.TargetSingle, Motion: defs.MotionInstant, HitsGround: true,
		Levels: []defs.TowerLevel{{Cost: 10, Damage: 50, Range: 4, Speed: 1}},
	}
	lib.Mobs["TEST_40"] = defs.MobDefinition{ID: "TEST_40", Health: 40, Reward: 7}
	lib.Mobs["TEST_ARMORED"] = defs.MobDefinition{ID: "TEST_ARMORED", Health: 100, Defense: 60, Reward: 1}
	lib.Mobs["TEST_FRAIL"] = defs.MobDefinition{ID: "TEST_FRAIL", Health: 8, Reward: 1}

	g := grid.New(7, 12)
	g.AddStart(3, 0)
	g.AddTarget(3, 11)

	w := &world{g: g, ecs: entity.NewECS(), lib: lib, ledger: score.NewLedger(1000, 20), events: event.NewDispatcher()}
	var presenter interfaces.Presenter = interfaces.NopPresenter{}
	rng := utils.NewPRNGService(42)

	w.paths = NewPathService(g, w.ecs)
	w.index = NewRangeIndex(g, w.ecs)
	w.factory = NewMobFactory(w.ecs, g, lib, presenter)
	w.deaths = NewDeathSystem(w.ecs, g, w.ledger, presenter, w.events, w.factory, rng)
	w.effects = NewStatusEffectSystem(w.ecs, w.deaths)
	w.life = NewLifecycleSystem(w.ecs, w.paths)
	w.moves = NewMovementSystem(w.ecs, g, w.paths, w.deaths, presenter)
	w.towers = NewTowerSystem(w.ecs, g, w.index, w.paths, w.ledger, presenter, w.events)
	w.combat = NewCombatSystem(w.ecs, w.index, presenter)
	w.shots = NewProjectileSystem(w.ecs, w.effects, w.deaths, presenter, rng)
	w.waves = NewWaveSystem(w.ecs, g, lib, w.factory, w.ledger, presenter, w.events)
	w.inv = NewInvariantSystem(w.ecs, w.index)
	return w
}

func (w *world) placeTower(t *testing.T, kind string, r, c int) types.EntityID {
	t.Helper()
	def, ok := w.lib.Tower(kind)
	if !ok {
		t.Fatalf("unknown tower %s", kind)
	}
	size := def.FootprintSize(config.TowerSize)
	if !w.g.CanPlace(r, c, size) {
		t.Fatalf("cannot place %s at (%d,%d)", kind, r, c)
	}
	id := w.ecs.NewEntity()
	for _, cell := range grid.Footprint(r, c, size) {
		w.g.Occupy(cell.Row, cell.Col, int(id))
	}
	w.ecs.AddTower(id, &component.Tower{
		DefID: kind, Def: def, Anchor: grid.Cell{Row: r, Col: c}, Size: size, Level: 1, Invested: def.Level(1).Cost,
	})
	w.index.Register(id)
	return id
}

func (w *world) addMob(t *testing.T, kind string, cell grid.Cell) (types.EntityID, *component.Mob) {
	t.Helper()
	m, ok := w.factory.Build(kind, 0, 1, cell, component.MobMoving)
	if !ok {
		t.Fatalf("unknown mob %s", kind)
	}
	id := w.factory.Add(m)
	w.paths.Route(m)
	return id, m
}

// step runs the tick pipeline in production order.
func (w *world) step(dt float64) {
	w.waves.Update(dt)
	w.life.Update(dt)
	w.effects.Update(dt)
	w.towers.Update(dt)
	w.moves.Update(dt)
	w.deaths.Flush()
	w.combat.Update()
	w.shots.Update(dt)
	w.deaths.Flush()
	w.inv.Check()
}

func angleTo(x, y float64, p component.Position) float64 {
	return putils.Degrees(x, y, p.X, p.Y)
}

func contains(ids []types.EntityID, id types.EntityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestRangeIndex_RegisterDeregisterIdempotent(t *testing.T) {
	w := newWorld(t)
	id := w.placeTower(t, "TOWER_SHOOT", 0, 5)

	first := append([]int(nil), w.ecs.Towers[id].RangeCells...)
	second := w.index.Register(id)
	if len(first) == 0 || len(second) != len(first) {
		t.Fatalf("Expected %d handles after second register, got %d", len(first), len(second))
	}
	if got := w.index.Complete(3, 5); len(got) != 1 || got[0] != id {
		t.Errorf("Expected cell (3,5) covered once by %d, got %v", id, got)
	}
	if !contains(w.index.Reduced(3, 5), id) {
		t.Error("fresh tower must be eligible in reduced")
	}

	w.index.Deregister(id)
	w.index.Deregister(id)
	if got := w.index.Complete(3, 5); len(got) != 0 {
		t.Errorf("Expected no towers after deregister, got %v", got)
	}
	if w.index.Covers(id, 3, 5) || len(w.ecs.Towers[id].RangeCells) != 0 {
		t.Error("deregistered tower still holds handles")
	}

	again := w.index.Register(id)
	if len(again) != len(first) {
		t.Errorf("Expected %d handles on re-register, got %d", len(first), len(again))
	}
}

func TestRangeIndex_BoostTowersOverlapCountOnce(t *testing.T) {
	w := newWorld(t)
	boostA := w.placeTower(t, "TOWER_BOOST", 0, 5)
	shooter := w.placeTower(t, "TOWER_SHOOT", 2, 5)
	boostB := w.placeTower(t, "TOWER_BOOST", 4, 5)
	s := w.ecs.Towers[shooter]

	// each boost covers two of the shooter's cells but counts once
	if got := s.BoostPercent(); got != 40 {
		t.Fatalf("Expected 40%% boost, got %v", got)
	}
	if got := s.Damage(); got != 14 {
		t.Errorf("Expected boosted damage 14, got %d", got)
	}
	if len(w.ecs.Towers[boostA].Boosts) != 1 || len(w.ecs.Towers[boostB].Boosts) != 1 {
		t.Errorf("Expected one link per boost, got %v and %v", w.ecs.Towers[boostA].Boosts, w.ecs.Towers[boostB].Boosts)
	}
	if contains(w.index.Reduced(1, 5), boostA) {
		t.Error("boost towers never enter reduced")
	}

	w.index.Deregister(boostA)
	if got := s.BoostPercent(); got != 20 {
		t.Errorf("Expected 20%% after removing one boost, got %v", got)
	}
	w.index.Deregister(shooter)
	if len(w.ecs.Towers[boostB].Boosts) != 0 {
		t.Errorf("Expected boost links unwound, got %v", w.ecs.Towers[boostB].Boosts)
	}
}

func TestPathService_RevalidateRejectsCut(t *testing.T) {
	w := newWorld(t)
	before := w.paths.Version()
	for r := 0; r < w.g.Rows; r++ {
		w.g.Occupy(r, 6, 99)
	}
	if w.paths.Revalidate() {
		t.Fatal("Expected a wall across the board to be rejected")
	}
	if w.paths.Version() != before {
		t.Errorf("Expected version %d after rejection, got %d", before, w.paths.Version())
	}

	w.g.Vacate(3, 6)
	if !w.paths.Revalidate() {
		t.Fatal("Expected a gap to be accepted")
	}
	if w.paths.Version() != before+1 {
		t.Errorf("Expected version bump, got %d", w.paths.Version())
	}
	p := w.paths.Get(grid.Cell{Row: 3, Col: 0}, grid.Cardinal)
	for i := 1; i < len(p); i++ {
		if !p[i-1].IsAdjacent(p[i], grid.Cardinal) || !w.g.IsWalkable(p[i].Row, p[i].Col) {
			t.Fatalf("bad step %v -> %v", p[i-1], p[i])
		}
	}
}

func TestPathService_TrappedMobBlocksPlacement(t *testing.T) {
	w := newWorld(t)
	w.addMob(t, "MOB_NORMAL", grid.Cell{Row: 0, Col: 0})
	w.g.Occupy(0, 1, 99)
	w.g.Occupy(1, 0, 99)
	if w.paths.Revalidate() {
		t.Error("Expected placement that traps a ground mob to be rejected")
	}
}

func TestPathService_TrappedFlyerBlocksPlacement(t *testing.T) {
	w := newWorld(t)
	before := w.paths.Version()
	w.addMob(t, "MOB_FLYING", grid.Cell{Row: 0, Col: 0})
	for _, c := range []grid.Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}} {
		w.g.Occupy(c.Row, c.Col, 99)
	}
	if w.paths.Revalidate() {
		t.Fatal("Expected placement that seals a flyer in to be rejected")
	}
	if w.paths.Version() != before {
		t.Errorf("Expected version %d after rejection, got %d", before, w.paths.Version())
	}

	// диагональ свободна для летающих
	w.g.Vacate(1, 1)
	if !w.paths.Revalidate() {
		t.Error("Expected a diagonal gap to be enough for a flyer")
	}
}

func TestPathService_FlyerTurnsBackFromNewTower(t *testing.T) {
	w := newWorld(t)
	w.lib.Waves = nil
	id, m := w.addMob(t, "MOB_FLYING", grid.Cell{Row: 3, Col: 2})
	blocked, ok := m.Path.Next()
	if !ok {
		t.Fatal("Expected the flyer to have a route")
	}
	w.g.Occupy(blocked.Row, blocked.Col, 99)
	if !w.paths.Revalidate() {
		t.Fatal("Expected the flyer to have another way round")
	}
	if next, _ := m.Path.Next(); next != m.Cell {
		t.Errorf("Expected flyer sent back to %v, got next %v", m.Cell, next)
	}

	lives := w.ledger.Lives()
	for i := 0; i < 3000; i++ {
		w.step(tick)
		fm, alive := w.ecs.Mobs[id]
		if !alive {
			break
		}
		if fm.Cell == blocked {
			t.Fatalf("flyer entered tower cell %v at tick %d", blocked, i)
		}
	}
	if _, alive := w.ecs.Mobs[id]; alive {
		t.Fatal("Expected the flyer to reach the target")
	}
	if w.ledger.Lives() != lives-1 {
		t.Errorf("Expected %d lives after the leak, got %d", lives-1, w.ledger.Lives())
	}
}

func TestPathService_DiagonalMobStopsCuttingNewCorner(t *testing.T) {
	w := newWorld(t)
	_, m := w.addMob(t, "MOB_FAST", grid.Cell{Row: 1, Col: 1})
	if m.Mode != grid.Diagonal {
		t.Fatalf("Expected Diagonal mode, got %s", m.Mode)
	}
	m.Path = component.Path{
		Key:          component.PathKey{Origin: m.Cell, Mode: m.Mode},
		Cells:        grid.Path{{Row: 1, Col: 1}, {Row: 2, Col: 2}},
		CurrentIndex: 1,
		Version:      w.paths.Version(),
	}

	// (2,2) остаётся свободной, но угол (1,2) теперь занят
	w.g.Occupy(1, 2, 99)
	if !w.paths.Revalidate() {
		t.Fatal("Expected placement to be accepted")
	}
	if next, _ := m.Path.Next(); next != m.Cell {
		t.Errorf("Expected mob sent back to %v, got next %v", m.Cell, next)
	}
}

func TestPathService_PlanLeavesCacheAndMobsAlone(t *testing.T) {
	w := newWorld(t)
	_, m := w.addMob(t, "MOB_NORMAL", grid.Cell{Row: 3, Col: 2})
	route := m.Path
	next, _ := m.Path.Next()
	before := w.paths.Version()

	w.g.Occupy(next.Row, next.Col, 99)
	plan, ok := w.paths.Plan()
	if !ok {
		t.Fatal("Expected a plan")
	}
	if w.paths.Version() != before {
		t.Errorf("Expected version %d before commit, got %d", before, w.paths.Version())
	}
	if got, _ := m.Path.Next(); got != next || m.Path.Version != route.Version {
		t.Errorf("Expected route untouched before commit, got next %v version %d", got, m.Path.Version)
	}

	w.paths.Commit(plan)
	if w.paths.Version() != before+1 {
		t.Errorf("Expected version %d after commit, got %d", before+1, w.paths.Version())
	}
	if got, _ := m.Path.Next(); got != m.Cell {
		t.Errorf("Expected mob sent back to %v after commit, got %v", m.Cell, got)
	}
}

// selectorWorld places one tower of a test kind at (0,5), so its centre is
// (192, 32), and returns it with the world.
func selectorWorld(t *testing.T, def defs.TowerDefinition) (*world, types.EntityID, *component.Tower) {
	t.Helper()
	w := newWorld(t)
	def.HitsGround = true
	def.Levels = []defs.TowerLevel{{Cost: 10, Damage: 10, Range: 4, Speed: 1}}
	w.lib.Towers[def.ID] = def
	tid := w.placeTower(t, def.ID, 0, 5)
	return w, tid, w.ecs.Towers[tid]
}

// mobAt adds a standing mob at an exact pixel position.
func (w *world) mobAt(t *testing.T, x, y float64) types.EntityID {
	t.Helper()
	id, m := w.addMob(t, "TEST_40", grid.CellAt(x, y, config.CellSize))
	m.Position = component.Position{X: x, Y: y}
	m.Velocity.Base, m.Velocity.Speed = 0, 0
	return id
}

func polar(cx, cy, deg, dist float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + dist*math.Cos(rad), cy + dist*math.Sin(rad)
}

type selectorCase struct {
	name string
	x, y float64
	want bool
}

func checkSelection(t *testing.T, got []types.EntityID, ids []types.EntityID, cases []selectorCase) {
	t.Helper()
	for i, tc := range cases {
		if contains(got, ids[i]) != tc.want {
			t.Errorf("%s at (%.1f,%.1f): Expected selected=%v, got %v", tc.name, tc.x, tc.y, tc.want, !tc.want)
		}
	}
}

func TestSelectors_CloseClusterRadius(t *testing.T) {
	w, _, tower := selectorWorld(t, defs.TowerDefinition{ID: "TEST_CLUSTER", Targeting: defs.TargetCloseCluster, Motion: defs.MotionInstant})
	px, py := 192.0, 120.0
	primary := w.mobAt(t, px, py)

	cases := []selectorCase{
		{"just inside east", px + config.ClusterRadius - 1, py, true},
		{"just outside east", px + config.ClusterRadius + 1, py, false},
		{"just inside north", px, py - config.ClusterRadius + 0.5, true},
		{"diagonal outside", px + config.ClusterRadius*0.75, py + config.ClusterRadius*0.75, false},
	}
	var ids []types.EntityID
	for _, tc := range cases {
		ids = append(ids, w.mobAt(t, tc.x, tc.y))
	}

	w.combat.mobs = w.ecs.Moving.Snapshot(nil)
	got := selectCloseCluster(w.combat, tower, primary, w.ecs.Mobs[primary])
	if len(got) == 0 || got[0] != primary {
		t.Fatalf("Expected primary %d first, got %v", primary, got)
	}
	checkSelection(t, got, ids, cases)
}

func TestSelectors_RadiusUsesMultiplier(t *testing.T) {
	w, _, tower := selectorWorld(t, defs.TowerDefinition{ID: "TEST_QUAKE", Targeting: defs.TargetRadius, Motion: defs.MotionInstant, RadiusMultiplier: 0.5})
	cx, cy := tower.Center(config.CellSize)
	radius := tower.Range() * 0.5 * config.CellSize

	cases := []selectorCase{
		{"just inside below", cx, cy + radius - 1, true},
		{"just outside below", cx, cy + radius + 1, false},
		{"just inside west", cx - radius + 1, cy, true},
		{"in range but past multiplier", cx, cy + tower.Range()*config.CellSize - 1, false},
	}
	var ids []types.EntityID
	for _, tc := range cases {
		ids = append(ids, w.mobAt(t, tc.x, tc.y))
	}

	w.combat.mobs = w.ecs.Moving.Snapshot(nil)
	got := selectRadius(w.combat, tower, ids[0], w.ecs.Mobs[ids[0]])
	checkSelection(t, got, ids, cases)
}

func TestSelectors_LinealToleranceAndReach(t *testing.T) {
	w, _, tower := selectorWorld(t, defs.TowerDefinition{ID: "TEST_LINE", Targeting: defs.TargetLineal, Motion: defs.MotionInstant})
	cx, cy := tower.Center(config.CellSize)
	reach := tower.Range() * config.CellSize
	const bearing = 90.0

	px, py := polar(cx, cy, bearing, 100)
	primary := w.mobAt(t, px, py)

	type spot struct {
		name      string
		deg, dist float64
		want      bool
	}
	spots := []spot{
		{"inside tolerance clockwise", bearing + config.LinealTolerance - 1, 100, true},
		{"outside tolerance clockwise", bearing + config.LinealTolerance + 1, 100, false},
		{"inside tolerance counter-clockwise", bearing - config.LinealTolerance + 1, 100, true},
		{"on the line just inside reach", bearing, reach - 1, true},
		{"on the line just past reach", bearing, reach + 1, false},
	}
	var cases []selectorCase
	var ids []types.EntityID
	for _, sp := range spots {
		x, y := polar(cx, cy, sp.deg, sp.dist)
		cases = append(cases, selectorCase{sp.name, x, y, sp.want})
		ids = append(ids, w.mobAt(t, x, y))
	}

	w.combat.mobs = w.ecs.Moving.Snapshot(nil)
	got := selectLineal(w.combat, tower, primary, w.ecs.Mobs[primary])
	if !contains(got, primary) {
		t.Errorf("Expected primary %d on its own line, got %v", primary, got)
	}
	checkSelection(t, got, ids, cases)
}

func TestCombat_DefenseAboveDamageNeverFires(t *testing.T) {
	w := newWorld(t)
	tid := w.placeTower(t, "TEST_50", 0, 5)
	_, m := w.addMob(t, "TEST_ARMORED", grid.Cell{Row: 3, Col: 5})
	m.Velocity.Base, m.Velocity.Speed = 0, 0

	for i := 0; i < 100; i++ {
		w.step(tick)
	}
	if m.Health.Value != 100 || m.Health.Pool != 100 {
		t.Errorf("Expected untouched mob, got life %d pool %d", m.Health.Value, m.Health.Pool)
	}
	if shots := w.ecs.Towers[tid].Combat.Shots; shots != 0 {
		t.Errorf("Expected no shots, got %d", shots)
	}
	if len(w.ecs.Projectiles) != 0 {
		t.Errorf("Expected no projectiles, got %d", len(w.ecs.Projectiles))
	}
}

func TestCombat_TwoHitsSameTickKillOnce(t *testing.T) {
	w := newWorld(t)
	t1 := w.placeTower(t, "TEST_25", 0, 5)
	t2 := w.placeTower(t, "TEST_25", 5, 5)
	t3 := w.placeTower(t, "TEST_25", 5, 2)
	id, m := w.addMob(t, "TEST_40", grid.Cell{Row: 3, Col: 5})
	gold := w.ledger.Gold()

	w.combat.Update()
	if m.Health.Pool != -10 {
		t.Fatalf("Expected pool -10 after two reservations, got %d", m.Health.Pool)
	}
	if w.ecs.Towers[t1].Combat.Shots != 1 || w.ecs.Towers[t2].Combat.Shots != 1 {
		t.Fatal("Expected both towers to fire")
	}
	if w.ecs.Towers[t3].Combat.Shots != 0 {
		t.Error("third tower must skip a mob with no pool left")
	}

	w.shots.Update(tick)
	w.deaths.Flush()
	if _, alive := w.ecs.Mobs[id]; alive {
		t.Fatal("Expected mob removed")
	}
	if got := w.events.Count(event.MobKilled); got != 1 {
		t.Errorf("Expected one death, got %d", got)
	}
	if got := w.ledger.Gold() - gold; got != 7 {
		t.Errorf("Expected reward 7 granted once, got %d", got)
	}
	if w.g.MobCount(3, 5) != 0 {
		t.Errorf("Expected cell count cleared, got %d", w.g.MobCount(3, 5))
	}
}

func TestCombat_SuspendUntilCooldownEnds(t *testing.T) {
	w := newWorld(t)
	tid := w.placeTower(t, "TOWER_SHOOT", 0, 5)
	_, m := w.addMob(t, "MOB_BOSS", grid.Cell{Row: 3, Col: 5})
	m.Velocity.Base, m.Velocity.Speed = 0, 0

	w.combat.Update()
	if contains(w.index.Reduced(3, 5), tid) {
		t.Fatal("firing tower must leave reduced")
	}
	if !contains(w.index.Complete(3, 5), tid) {
		t.Fatal("firing tower must stay in complete")
	}
	if w.index.CheckReducedSubset() != 0 {
		t.Error("reduced must stay a subset of complete")
	}

	w.towers.Update(config.ShootTime/w.ecs.Towers[tid].Speed() + 0.01)
	if !contains(w.index.Reduced(3, 5), tid) {
		t.Error("tower must resume after cooldown")
	}
}

func TestCombat_LockCone(t *testing.T) {
	w := newWorld(t)
	tid := w.placeTower(t, "TOWER_LASER", 0, 5)
	_, m := w.addMob(t, "MOB_BOSS", grid.Cell{Row: 3, Col: 5})
	m.Velocity.Base, m.Velocity.Speed = 0, 0

	if r := w.towers.ToggleLock(tid); !r.OK {
		t.Fatalf("Expected lock ok, got %v", r)
	}
	tower := w.ecs.Towers[tid]
	tower.LockAngle = 0 // вправо, моб внизу
	w.combat.Update()
	if tower.Combat.Shots != 0 {
		t.Error("mob outside the lock cone must be skipped")
	}

	cx, cy := tower.Center(config.CellSize)
	tower.LockAngle = angleTo(cx, cy, m.Position)
	w.combat.Update()
	if tower.Combat.Shots != 1 {
		t.Errorf("Expected a shot inside the cone, got %d", tower.Combat.Shots)
	}

	shooter := w.placeTower(t, "TOWER_SHOOT", 5, 1)
	if r := w.towers.ToggleLock(shooter); r.Reason != ReasonNotCapable {
		t.Errorf("Expected NotCapable, got %v", r)
	}
}

func TestCombat_SingleFireOnlyOnOrder(t *testing.T) {
	w := newWorld(t)
	if r := w.combat.Fire(12345); r.Reason != ReasonUnknownTower {
		t.Errorf("Expected UnknownTower, got %v", r)
	}
	mortar := w.placeTower(t, "TOWER_MORTAR", 0, 5)
	if r := w.combat.Fire(mortar); r.Reason != ReasonNoTarget {
		t.Errorf("Expected NoTarget, got %v", r)
	}

	_, m := w.addMob(t, "MOB_NORMAL", grid.Cell{Row: 3, Col: 5})
	m.Velocity.Base, m.Velocity.Speed = 0, 0
	w.combat.Update()
	if w.ecs.Towers[mortar].Combat.Shots != 0 {
		t.Fatal("single-fire tower must not fire on its own")
	}

	if r := w.combat.Fire(mortar); !r.OK {
		t.Fatalf("Expected fire ok, got %v", r)
	}
	if r := w.combat.Fire(mortar); r.Reason != ReasonNotReady {
		t.Errorf("Expected NotReady while cooling, got %v", r)
	}
	if len(w.ecs.Projectiles) != 1 {
		t.Fatalf("Expected one projectile, got %d", len(w.ecs.Projectiles))
	}

	shooter := w.placeTower(t, "TOWER_SHOOT", 5, 1)
	if r := w.combat.Fire(shooter); r.Reason != ReasonNotCapable {
		t.Errorf("Expected NotCapable, got %v", r)
	}

	// area shell lands after its flight time
	for i := 0; i < int(config.AreaFlightTime/tick)+3; i++ {
		w.shots.Update(tick)
	}
	w.deaths.Flush()
	if got := w.events.Count(event.MobKilled); got != 1 {
		t.Errorf("Expected the shell to kill, got %d deaths", got)
	}
}

func TestCombat_CappedClusterOneProjectilePerTarget(t *testing.T) {
	w := newWorld(t)
	w.placeTower(t, "TOWER_ANTIAIR", 0, 5)
	for i := 0; i < 6; i++ {
		_, m := w.addMob(t, "MOB_FLYING", grid.Cell{Row: 3, Col: 5})
		m.Velocity.Base, m.Velocity.Speed = 0, 0
	}
	w.combat.Update()
	if len(w.ecs.Projectiles) != config.CappedClusterCap {
		t.Errorf("Expected %d projectiles, got %d", config.CappedClusterCap, len(w.ecs.Projectiles))
	}
	for _, p := range w.ecs.Projectiles {
		if len(p.Hits) != 1 {
			t.Errorf("Expected one hit per projectile, got %d", len(p.Hits))
		}
	}
}

func TestInvariant_PoolLifeMaxEveryTick(t *testing.T) {
	w := newWorld(t)
	w.lib.Waves = nil
	w.placeTower(t, "TOWER_SHOOT", 0, 2)
	w.placeTower(t, "TOWER_FROST", 5, 3)
	w.placeTower(t, "TOWER_BLOOD", 0, 6)
	w.placeTower(t, "TOWER_EARTHQUAKE", 5, 7)
	w.placeTower(t, "TOWER_MISSILE", 0, 9)
	for i := 0; i < 10; i++ {
		w.factory.SpawnAtStart("MOB_NORMAL", 0, grid.Cell{Row: 3, Col: 0}, float64(i)*0.4)
	}
	w.factory.SpawnAtStart("MOB_SPAWNER", 0, grid.Cell{Row: 3, Col: 0}, 1)

	for i := 0; i < 60*30; i++ {
		w.step(tick)
		ground := 0
		for id, m := range w.ecs.Mobs {
			h := m.Health
			if h.Pool > h.Value || h.Value > h.Max {
				t.Fatalf("tick %d mob %d: pool %d life %d max %d", i, id, h.Pool, h.Value, h.Max)
			}
			if !m.Flying {
				ground++
			}
		}
		counted := 0
		for r := 0; r < w.g.Rows; r++ {
			for c := 0; c < w.g.Cols; c++ {
				counted += w.g.MobCount(r, c)
			}
		}
		// клетки старта/выхода не считают мобов
		if counted > ground {
			t.Fatalf("tick %d: grid counts %d mobs, %d alive", i, counted, ground)
		}
	}
	if n := w.inv.Check(); n != 0 {
		t.Errorf("Expected no invariant violations, got %d", n)
	}
	if len(w.ecs.Mobs) != 0 {
		t.Errorf("Expected every mob killed or leaked, %d left", len(w.ecs.Mobs))
	}
}

func TestEffects_SlowStunImmune(t *testing.T) {
	w := newWorld(t)
	id, m := w.addMob(t, "MOB_NORMAL", grid.Cell{Row: 3, Col: 2})
	immuneID, immune := w.addMob(t, "MOB_IMMUNE", grid.Cell{Row: 3, Col: 3})

	w.effects.ApplySlow(id)
	w.effects.ApplySlow(immuneID)
	if m.Velocity.Speed != m.Velocity.Base*config.SlowFactor {
		t.Errorf("Expected slowed speed %v, got %v", m.Velocity.Base*config.SlowFactor, m.Velocity.Speed)
	}
	if immune.Velocity.Speed != immune.Velocity.Base {
		t.Error("immune mob must ignore slow")
	}

	w.effects.ApplyStun(id)
	if m.Velocity.Speed != 0 {
		t.Errorf("Expected stunned speed 0, got %v", m.Velocity.Speed)
	}
	w.effects.Update(config.StunDuration + 0.01)
	if m.Velocity.Speed != m.Velocity.Base*config.SlowFactor {
		t.Errorf("Expected slow to outlast stun, got %v", m.Velocity.Speed)
	}
	w.effects.Update(config.SlowDuration)
	if m.Velocity.Speed != m.Velocity.Base {
		t.Errorf("Expected full speed, got %v", m.Velocity.Speed)
	}
	if w.ecs.Slowed.Len() != 0 || w.ecs.Stunned.Len() != 0 {
		t.Error("expired effects must leave their queues")
	}
}

func TestEffects_BleedStopsOnKill(t *testing.T) {
	w := newWorld(t)
	id, m := w.addMob(t, "TEST_FRAIL", grid.Cell{Row: 3, Col: 2})
	for i := 0; i < 3; i++ {
		w.effects.ApplyBleed(id, 1, 4)
	}
	if got := len(w.ecs.BleedEffects[id].Instances); got != 3 {
		t.Fatalf("Expected 3 stacked instances, got %d", got)
	}

	w.effects.Update(config.BleedTickSeconds)
	if m.Health.Value != 0 {
		t.Errorf("Expected the third instance to skip a dead mob, life %d", m.Health.Value)
	}
	if w.deaths.Pending() != 1 {
		t.Errorf("Expected one pending death, got %d", w.deaths.Pending())
	}
	if w.ecs.Bleeding.Has(id) {
		t.Error("dead mob must leave the bleed queue")
	}
	w.deaths.Flush()
	if got := w.events.Count(event.MobKilled); got != 1 {
		t.Errorf("Expected one kill, got %d", got)
	}
}

func TestMovement_LeakCostsLife(t *testing.T) {
	w := newWorld(t)
	id, _ := w.addMob(t, "MOB_FAST", grid.Cell{Row: 3, Col: 8})
	lives := w.ledger.Lives()

	for i := 0; i < 60*3 && w.events.Count(event.MobLeaked) == 0; i++ {
		w.step(tick)
	}
	if _, ok := w.ecs.Mobs[id]; ok {
		t.Fatal("Expected mob to leak")
	}
	if w.ledger.Lives() != lives-1 {
		t.Errorf("Expected %d lives, got %d", lives-1, w.ledger.Lives())
	}
	for c := 0; c < w.g.Cols; c++ {
		if w.g.MobCount(3, c) != 0 {
			t.Errorf("stale mob count at (3,%d)", c)
		}
	}
}

func TestMovement_IdleUntilTopologyChanges(t *testing.T) {
	w := newWorld(t)
	w.g.Occupy(0, 1, 99)
	w.g.Occupy(1, 0, 99)
	_, m := w.addMob(t, "MOB_NORMAL", grid.Cell{Row: 0, Col: 0})

	w.moves.Update(tick)
	w.moves.Update(tick)
	if !m.Idle {
		t.Fatal("Expected boxed-in mob to idle")
	}

	w.g.Vacate(0, 1)
	w.paths.Invalidate()
	w.moves.Update(tick)
	if m.Idle {
		t.Error("Expected mob to leave idle once a path opens")
	}
}

func TestDeath_OffspringJoinWave(t *testing.T) {
	w := newWorld(t)
	w.lib.Waves = []defs.WaveDefinition{{MobID: "MOB_SPAWNER", Count: 1}}
	w.waves.StartWave()
	w.waves.Update(0)
	wave := w.ecs.ActiveWave(1)
	if wave == nil || wave.Alive != 1 {
		t.Fatalf("Expected one alive mob in wave 1, got %+v", wave)
	}

	var parent types.EntityID
	for id := range w.ecs.Mobs {
		parent = id
	}
	w.deaths.Kill(parent)
	w.deaths.Flush()
	if got := w.events.Count(event.OffspringSpawned); got != 3 {
		t.Fatalf("Expected 3 offspring, got %d", got)
	}
	if wave.Alive != 3 {
		t.Errorf("Expected offspring counted in wave, got %d", wave.Alive)
	}
	for _, m := range w.ecs.Mobs {
		if m.Parent != parent || m.State != component.MobSpawning {
			t.Errorf("Expected spawning child of %d, got parent %d state %v", parent, m.Parent, m.State)
		}
	}

	w.life.Update(config.SpawnDuration + 0.01)
	if w.ecs.Moving.Len() != 3 {
		t.Errorf("Expected children moving, got %d", w.ecs.Moving.Len())
	}
}

func TestWave_ClearLastWaveWins(t *testing.T) {
	w := newWorld(t)
	w.lib.Waves = []defs.WaveDefinition{{MobID: "MOB_GROUP", Count: 1}}

	if r := w.waves.CallNextWave(); !r.OK {
		t.Fatalf("Expected early call ok, got %v", r)
	}
	if w.ecs.GameState != component.WaveState {
		t.Errorf("Expected wave state, got %v", w.ecs.GameState)
	}
	w.waves.Update(0)
	if w.ecs.Creating.Len() != 5 {
		t.Fatalf("Expected a pack of 5, got %d", w.ecs.Creating.Len())
	}
	if r := w.waves.CallNextWave(); r.Reason != ReasonNotReady {
		t.Errorf("Expected NotReady after the last wave, got %v", r)
	}

	for id := range w.ecs.Mobs {
		w.deaths.Kill(id)
	}
	w.deaths.Flush()
	if w.ecs.GameState != component.WonState {
		t.Errorf("Expected won, got %v", w.ecs.GameState)
	}
	if over, won := w.ledger.Over(); !over || !won {
		t.Errorf("Expected ledger to record a win, got over=%v won=%v", over, won)
	}
	if got := w.events.Count(event.WaveCleared); got != 1 {
		t.Errorf("Expected one WaveCleared, got %d", got)
	}
}

func TestTower_UpgradeAndSale(t *testing.T) {
	w := newWorld(t)
	id := w.placeTower(t, "TOWER_SHOOT", 0, 5)
	tower := w.ecs.Towers[id]
	gold := w.ledger.Gold()

	if r := w.towers.StartUpgrade(id); !r.OK {
		t.Fatalf("Expected upgrade ok, got %v", r)
	}
	if w.ledger.Gold() != gold-20 {
		t.Errorf("Expected upgrade to cost 20, gold %d", w.ledger.Gold())
	}
	if r := w.towers.StartSale(id); r.Reason != ReasonBusy {
		t.Errorf("Expected Busy during upgrade, got %v", r)
	}
	if contains(w.index.Reduced(3, 5), id) {
		t.Error("upgrading tower must not be eligible")
	}
	w.towers.Update(config.UpgradeDelayPerLevel*2 + 0.01)
	if tower.Level != 2 || tower.Upgrading {
		t.Fatalf("Expected level 2, got %d (upgrading %v)", tower.Level, tower.Upgrading)
	}
	if !contains(w.index.Reduced(3, 5), id) {
		t.Error("upgraded tower must resume")
	}

	w.towers.StartUpgrade(id)
	w.towers.Update(config.UpgradeDelayPerLevel*3 + 0.01)
	if tower.Level != 3 {
		t.Fatalf("Expected level 3, got %d", tower.Level)
	}
	if !w.index.Covers(id, 4, 5) {
		t.Error("Expected the wider range registered after the radius grew")
	}
	if r := w.towers.StartUpgrade(id); r.Reason != ReasonMaxLevel {
		t.Errorf("Expected MaxLevel, got %v", r)
	}

	gold = w.ledger.Gold()
	if r := w.towers.StartSale(id); !r.OK {
		t.Fatalf("Expected sale ok, got %v", r)
	}
	w.towers.Update(config.SaleDelay + 0.01)
	if _, ok := w.ecs.Towers[id]; ok {
		t.Fatal("Expected tower removed after sale")
	}
	if got := w.ledger.Gold() - gold; got != 52 {
		t.Errorf("Expected refund 52, got %d", got)
	}
	if w.g.TowerAt(0, 5) != 0 || len(w.index.Complete(3, 5)) != 0 {
		t.Error("sold tower left cells behind")
	}
	if w.events.Count(event.TowerRemoved) != 1 {
		t.Error("Expected TowerRemoved event")
	}
}

func TestResult_ErrMapsReasons(t *testing.T) {
	if Ok().Err() != nil {
		t.Error("Ok must have no error")
	}
	if Fail(ReasonBlocked).Err() != ErrBlocked {
		t.Error("Expected ErrBlocked")
	}
	if got := Fail(ReasonInsufficientGold).String(); got != "insufficient gold" {
		t.Errorf("Expected reason text, got %q", got)
	}
}
