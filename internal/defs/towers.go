// internal/defs/towers.go
package defs

// TowerLevel is one row of a tower's per-level stat table.
type TowerLevel struct {
	Cost   int     `json:"cost"`
	Damage int     `json:"damage"`
	Range  float64 `json:"range"` // в клетках, от центра башни
	Speed  float64 `json:"speed"` // скорость атаки; кулдаун = ShootTime / Speed
	// Boost is the damage bonus in percent granted by boost towers.
	Boost        float64 `json:"boost,omitempty"`
	EffectChance float64 `json:"effect_chance,omitempty"` // 0 = всегда
	EffectPower  float64 `json:"effect_power,omitempty"`  // урон кровотечения за такт
}

// TowerDefinition holds all the static data for a specific type of tower.
type TowerDefinition struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Size             int          `json:"size"`
	Targeting        Targeting    `json:"targeting"`
	Motion           Motion       `json:"motion"`
	HitsGround       bool         `json:"hits_ground"`
	HitsAir          bool         `json:"hits_air"`
	Effect           EffectKind   `json:"effect,omitempty"`
	RadiusMultiplier float64      `json:"radius_multiplier,omitempty"`
	Cap              int          `json:"cap,omitempty"`
	Lockable         bool         `json:"lockable,omitempty"`
	SingleFire       bool         `json:"single_fire,omitempty"`
	Boost            bool         `json:"boost,omitempty"`
	Levels           []TowerLevel `json:"levels"`
	Visuals          Visuals      `json:"visuals"`
}

// MaxLevel is the highest reachable level.
func (d *TowerDefinition) MaxLevel() int { return len(d.Levels) }

// Level returns the stats of level n (1-based), clamped to the table.
func (d *TowerDefinition) Level(n int) TowerLevel {
	if len(d.Levels) == 0 {
		return TowerLevel{}
	}
	if n < 1 {
		n = 1
	}
	if n > len(d.Levels) {
		n = len(d.Levels)
	}
	return d.Levels[n-1]
}

// FootprintSize returns the square side the tower occupies.
func (d *TowerDefinition) FootprintSize(fallback int) int {
	if d.Size > 0 {
		return d.Size
	}
	return fallback
}

// CanTarget reports whether the archetype may shoot ground or air mobs.
func (d *TowerDefinition) CanTarget(flying bool) bool {
	if flying {
		return d.HitsAir
	}
	return d.HitsGround
}
