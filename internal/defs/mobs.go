// internal/defs/mobs.go
package defs

// MobDefinition holds all the static data for a specific type of mob.
type MobDefinition struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Health    int      `json:"health"`
	Defense   int      `json:"defense"`
	Speed     float64  `json:"speed"` // pixels per second
	Reward    int      `json:"reward"`
	Movement  Movement `json:"movement"`
	Flying    bool     `json:"flying,omitempty"`
	Immune    bool     `json:"immune,omitempty"` // игнорирует замедление и оглушение
	GroupSize int      `json:"group_size,omitempty"`
	// Offspring is spawned where the mob dies.
	Offspring *OffspringTable `json:"offspring,omitempty"`
	Visuals   Visuals         `json:"visuals"`
}

// MovementMode returns the walking rule, forcing flyers onto DiagonalFree.
func (d *MobDefinition) MovementMode() Movement {
	if d.Flying {
		return MoveDiagonalFree
	}
	if d.Movement == "" {
		return MoveCardinal
	}
	return d.Movement
}
