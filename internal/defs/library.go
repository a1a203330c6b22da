// internal/defs/library.go
package defs

import (
	"fmt"
	"image/color"
	"sort"
)

// Library bundles every static table a game needs.
type Library struct {
	Towers map[string]TowerDefinition
	Mobs   map[string]MobDefinition
	Waves  []WaveDefinition
}

// DefaultLibrary returns the built-in archetype catalogue.
func DefaultLibrary() *Library {
	lib := &Library{
		Towers: make(map[string]TowerDefinition),
		Mobs:   make(map[string]MobDefinition),
		Waves:  append([]WaveDefinition(nil), DefaultWaves...),
	}
	for _, d := range defaultTowers() {
		lib.Towers[d.ID] = d
	}
	for _, d := range defaultMobs() {
		lib.Mobs[d.ID] = d
	}
	return lib
}

// Tower looks up a tower archetype.
func (l *Library) Tower(id string) (*TowerDefinition, bool) {
	d, ok := l.Towers[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

// Mob looks up a mob archetype.
func (l *Library) Mob(id string) (*MobDefinition, bool) {
	d, ok := l.Mobs[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

// TowerIDs returns tower ids sorted, for menus and stable iteration.
func (l *Library) TowerIDs() []string {
	ids := make([]string, 0, len(l.Towers))
	for id := range l.Towers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks cross references: waves and offspring must name known mobs,
// every tower needs at least one level.
func (l *Library) Validate() error {
	for id, t := range l.Towers {
		if len(t.Levels) == 0 {
			return fmt.Errorf("tower %s has no levels", id)
		}
		if !t.Boost && !t.HitsGround && !t.HitsAir {
			return fmt.Errorf("tower %s can hit neither ground nor air", id)
		}
	}
	for id, m := range l.Mobs {
		if m.Health <= 0 {
			return fmt.Errorf("mob %s has non-positive health", id)
		}
		if m.Offspring == nil {
			continue
		}
		for _, e := range m.Offspring.Entries {
			if _, ok := l.Mobs[e.MobID]; !ok {
				return fmt.Errorf("mob %s offspring references unknown mob %s", id, e.MobID)
			}
		}
	}
	for i, w := range l.Waves {
		if _, ok := l.Mobs[w.MobID]; !ok {
			return fmt.Errorf("wave %d references unknown mob %s", i+1, w.MobID)
		}
	}
	return nil
}

func defaultTowers() []TowerDefinition {
	return []TowerDefinition{
		{
			ID: "TOWER_SHOOT", Name: "Shoot", Targeting: TargetSingle, Motion: MotionLinear,
			HitsGround: true, HitsAir: true,
			Levels: []TowerLevel{
				{Cost: 15, Damage: 10, Range: 3, Speed: 1.0},
				{Cost: 20, Damage: 18, Range: 3.5, Speed: 1.1},
				{Cost: 35, Damage: 30, Range: 4, Speed: 1.2},
			},
			Visuals: Visuals{Color: color.RGBA{255, 50, 50, 255}, RadiusFactor: 0.4},
		},
		{
			ID: "TOWER_FAST", Name: "Fast", Targeting: TargetSingle, Motion: MotionLinear,
			HitsGround: true, HitsAir: true,
			Levels: []TowerLevel{
				{Cost: 25, Damage: 6, Range: 3, Speed: 3.0},
				{Cost: 30, Damage: 10, Range: 3, Speed: 3.5},
				{Cost: 45, Damage: 16, Range: 3.5, Speed: 4.0},
			},
			Visuals: Visuals{Color: color.RGBA{255, 140, 0, 255}, RadiusFactor: 0.35},
		},
		{
			ID: "TOWER_MISSILE", Name: "Missile", Targeting: TargetCloseCluster, Motion: MotionLinear,
			HitsGround: true,
			Levels: []TowerLevel{
				{Cost: 40, Damage: 20, Range: 4, Speed: 0.6},
				{Cost: 50, Damage: 35, Range: 4.5, Speed: 0.65},
				{Cost: 70, Damage: 55, Range: 5, Speed: 0.7},
			},
			Visuals: Visuals{Color: color.RGBA{50, 100, 255, 255}, RadiusFactor: 0.45},
		},
		{
			ID: "TOWER_ANTIAIR", Name: "Anti-air", Targeting: TargetCappedCluster, Motion: MotionLinear,
			HitsAir: true, Cap: 4,
			Levels: []TowerLevel{
				{Cost: 30, Damage: 25, Range: 4.5, Speed: 1.0},
				{Cost: 40, Damage: 40, Range: 5, Speed: 1.1},
				{Cost: 55, Damage: 60, Range: 5.5, Speed: 1.2},
			},
			Visuals: Visuals{Color: color.RGBA{120, 200, 255, 255}, RadiusFactor: 0.4},
		},
		{
			ID: "TOWER_EARTHQUAKE", Name: "Earthquake", Targeting: TargetRadius, Motion: MotionInstant,
			HitsGround: true, Effect: EffectStun, RadiusMultiplier: 1.0,
			Levels: []TowerLevel{
				{Cost: 60, Damage: 12, Range: 2.5, Speed: 0.5, EffectChance: 0.2},
				{Cost: 70, Damage: 20, Range: 2.5, Speed: 0.55, EffectChance: 0.25},
				{Cost: 90, Damage: 30, Range: 3, Speed: 0.6, EffectChance: 0.3},
			},
			Visuals: Visuals{Color: color.RGBA{139, 90, 43, 255}, RadiusFactor: 0.45},
		},
		{
			ID: "TOWER_FROST", Name: "Frost", Targeting: TargetCloseCluster, Motion: MotionLinear,
			HitsGround: true, Effect: EffectSlow,
			Levels: []TowerLevel{
				{Cost: 35, Damage: 4, Range: 3, Speed: 0.8},
				{Cost: 40, Damage: 8, Range: 3.5, Speed: 0.9},
				{Cost: 55, Damage: 12, Range: 4, Speed: 1.0},
			},
			Visuals: Visuals{Color: color.RGBA{180, 240, 255, 255}, RadiusFactor: 0.4},
		},
		{
			ID: "TOWER_SNAP", Name: "Snap", Targeting: TargetSingle, Motion: MotionLinear,
			HitsGround: true, HitsAir: true, Effect: EffectStun,
			Levels: []TowerLevel{
				{Cost: 45, Damage: 15, Range: 3, Speed: 0.7, EffectChance: 0.35},
				{Cost: 55, Damage: 25, Range: 3.5, Speed: 0.75, EffectChance: 0.4},
				{Cost: 70, Damage: 40, Range: 4, Speed: 0.8, EffectChance: 0.45},
			},
			Visuals: Visuals{Color: color.RGBA{255, 255, 120, 255}, RadiusFactor: 0.35},
		},
		{
			ID: "TOWER_LASER", Name: "Laser", Targeting: TargetLineal, Motion: MotionInstant,
			HitsGround: true, HitsAir: true, Lockable: true,
			Levels: []TowerLevel{
				{Cost: 55, Damage: 30, Range: 5, Speed: 0.5},
				{Cost: 65, Damage: 50, Range: 5.5, Speed: 0.55},
				{Cost: 85, Damage: 80, Range: 6, Speed: 0.6},
			},
			Visuals: Visuals{Color: color.RGBA{180, 50, 230, 255}, RadiusFactor: 0.4},
		},
		{
			ID: "TOWER_BLOOD", Name: "Blood", Targeting: TargetSingle, Motion: MotionLinear,
			HitsGround: true, Effect: EffectBleed,
			Levels: []TowerLevel{
				{Cost: 40, Damage: 8, Range: 3, Speed: 1.0, EffectPower: 3},
				{Cost: 50, Damage: 12, Range: 3.5, Speed: 1.1, EffectPower: 5},
				{Cost: 65, Damage: 18, Range: 4, Speed: 1.2, EffectPower: 8},
			},
			Visuals: Visuals{Color: color.RGBA{140, 0, 20, 255}, RadiusFactor: 0.4},
		},
		{
			ID: "TOWER_BOOST", Name: "Boost", Boost: true,
			Levels: []TowerLevel{
				{Cost: 60, Range: 2.5, Boost: 20},
				{Cost: 80, Range: 3, Boost: 35},
				{Cost: 110, Range: 3.5, Boost: 50},
			},
			Visuals: Visuals{Color: color.RGBA{255, 215, 0, 255}, RadiusFactor: 0.45},
		},
		{
			ID: "TOWER_MORTAR", Name: "Mortar", Targeting: TargetRadius, Motion: MotionArea,
			HitsGround: true, SingleFire: true, RadiusMultiplier: 0.5,
			Levels: []TowerLevel{
				{Cost: 70, Damage: 60, Range: 6, Speed: 0.25},
				{Cost: 80, Damage: 100, Range: 6.5, Speed: 0.3},
				{Cost: 100, Damage: 160, Range: 7, Speed: 0.35},
			},
			Visuals: Visuals{Color: color.RGBA{90, 90, 90, 255}, RadiusFactor: 0.45},
		},
	}
}

func defaultMobs() []MobDefinition {
	return []MobDefinition{
		{ID: "MOB_NORMAL", Name: "Normal", Health: 60, Speed: 48, Reward: 2, Movement: MoveCardinal,
			Visuals: Visuals{Color: color.RGBA{0, 0, 0, 255}, RadiusFactor: 0.3}},
		{ID: "MOB_FAST", Name: "Fast", Health: 40, Speed: 90, Reward: 2, Movement: MoveDiagonal,
			Visuals: Visuals{Color: color.RGBA{255, 120, 0, 255}, RadiusFactor: 0.25}},
		{ID: "MOB_GROUP", Name: "Group", Health: 30, Speed: 56, Reward: 1, Movement: MoveCardinal, GroupSize: 5,
			Visuals: Visuals{Color: color.RGBA{60, 60, 60, 255}, RadiusFactor: 0.2}},
		{ID: "MOB_IMMUNE", Name: "Immune", Health: 80, Speed: 48, Reward: 3, Movement: MoveCardinal, Immune: true,
			Visuals: Visuals{Color: color.RGBA{200, 200, 255, 255}, RadiusFactor: 0.3}},
		{ID: "MOB_DARK", Name: "Dark", Health: 90, Defense: 12, Speed: 44, Reward: 4, Movement: MoveCardinal,
			Visuals: Visuals{Color: color.RGBA{40, 0, 60, 255}, RadiusFactor: 0.3}},
		{ID: "MOB_FLYING", Name: "Flying", Health: 50, Speed: 60, Reward: 3, Flying: true,
			Visuals: Visuals{Color: color.RGBA{120, 120, 200, 255}, RadiusFactor: 0.3}},
		{ID: "MOB_SPAWNER", Name: "Spawner", Health: 120, Speed: 40, Reward: 5, Movement: MoveCardinal,
			Offspring: &OffspringTable{Count: 3, Entries: []OffspringEntry{
				{MobID: "MOB_NORMAL", Weight: 3},
				{MobID: "MOB_FAST", Weight: 1},
			}},
			Visuals: Visuals{Color: color.RGBA{0, 120, 0, 255}, RadiusFactor: 0.35}},
		{ID: "MOB_BOSS", Name: "Boss", Health: 1500, Defense: 8, Speed: 32, Reward: 50, Movement: MoveCardinal,
			Visuals: Visuals{Color: color.RGBA{200, 0, 0, 255}, RadiusFactor: 0.45}},
	}
}
