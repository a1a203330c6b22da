package defs

import "time"

// WaveDefinition описывает параметры для одной волны мобов.
type WaveDefinition struct {
	MobID         string        `json:"mob_id"`         // Идентификатор моба из библиотеки
	Count         int           `json:"count"`          // Количество мобов (стай для групповых)
	SpawnInterval time.Duration `json:"spawn_interval"` // Интервал между появлением мобов
}

// DefaultWaves is the built-in wave sequence, in play order.
var DefaultWaves = []WaveDefinition{
	{MobID: "MOB_NORMAL", Count: 8, SpawnInterval: time.Millisecond * 900},
	{MobID: "MOB_NORMAL", Count: 12, SpawnInterval: time.Millisecond * 800},
	{MobID: "MOB_FAST", Count: 10, SpawnInterval: time.Millisecond * 600},
	{MobID: "MOB_GROUP", Count: 4, SpawnInterval: time.Second * 2},
	{MobID: "MOB_IMMUNE", Count: 10, SpawnInterval: time.Millisecond * 800},
	{MobID: "MOB_FLYING", Count: 10, SpawnInterval: time.Millisecond * 700},
	{MobID: "MOB_DARK", Count: 10, SpawnInterval: time.Millisecond * 800},
	{MobID: "MOB_SPAWNER", Count: 6, SpawnInterval: time.Millisecond * 1200},
	{MobID: "MOB_FAST", Count: 20, SpawnInterval: time.Millisecond * 400},
	{MobID: "MOB_BOSS", Count: 1, SpawnInterval: time.Second},
}
