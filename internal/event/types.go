// internal/event/types.go
package event

import "go-tower-defense-sim/internal/types"

const (
	MobKilled        EventType = "MobKilled"        // моб убит башнями
	MobLeaked        EventType = "MobLeaked"        // моб дошёл до выхода
	OffspringSpawned EventType = "OffspringSpawned" // потомок вышел из убитого моба
	TowerPlaced      EventType = "TowerPlaced"      // Башня построена
	TowerRemoved     EventType = "TowerRemoved"     // продажа завершена
	WaveStarted      EventType = "WaveStarted"
	WaveCleared      EventType = "WaveCleared"
)

// MobData is the payload of mob events.
type MobData struct {
	ID     types.EntityID
	Wave   int
	Reward int
	Parent types.EntityID
}

// TowerData is the payload of tower events.
type TowerData struct {
	ID   types.EntityID
	Kind string
}

// WaveData is the payload of wave events.
type WaveData struct {
	Number int
}
