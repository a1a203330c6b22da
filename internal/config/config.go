// internal/config/config.go
package config

import "image/color"

const (
	ScreenWidth  = 1024
	ScreenHeight = 768
	CellSize     = 32.0 // pixels per board cell
	TowerSize    = 2    // башни занимают квадрат 2x2
	MaxDeltaTime = 0.06
	TickRate     = 60

	DefaultStartGold  = 250
	DefaultStartLives = 20
	DefaultAddr       = ":8080"
	DefaultMap        = "classic"
)

// Combat
const (
	ShootTime        = 1.0   // базовая длительность цикла выстрела, делится на скорость атаки
	ClusterRadius    = 48.0  // px вокруг цели для close-cluster
	LinealTolerance  = 6.0   // градусы
	CappedClusterCap = 4     // максимум целей для capped-cluster
	LockConeHalf     = 30.0  // половина конуса фиксированной башни, градусы
	ProjectileSpeed  = 320.0 // pixels per second
	AreaFlightTime   = 0.45  // seconds
	ProjectileRadius = 4.0   // pixels, только для отрисовки
	TurretTurnSpeed  = 8.0   // доля пути к целевому углу в секунду
)

// Effects
const (
	SlowDuration     = 2.0
	SlowFactor       = 0.5
	StunDuration     = 0.8
	StunFrequency    = 18.0 // колебания оглушённого моба, Гц
	StunAmplitude    = 2.0  // pixels
	BleedDuration    = 3.0
	BleedTickSeconds = 0.5
)

// Lifecycle and economy
const (
	CreateDelay          = 0.6
	SpawnDuration        = 0.35
	WaveInterval         = 25.0 // отсчёт до следующей волны
	FirstWaveDelay       = 10.0
	GroupSpacing         = 0.15 // задержка между мобами одной стаи
	UpgradeDelayPerLevel = 0.75
	SaleDelay            = 1.0
	RefundRate           = 0.75
	EarlyCallBonusRate   = 1.0 // золото за каждую оставшуюся секунду отсчёта
	MobLevelFactor       = 0.15
	MobRewardFactor      = 0.1
)

var SpeedMultipliers = []float64{1, 2, 4}

var (
	BackgroundColor  = color.RGBA{20, 20, 30, 255}
	PassableColor    = color.RGBA{70, 100, 120, 220}
	ImpassableColor  = color.RGBA{150, 70, 70, 220}
	GridLineColor    = color.RGBA{40, 50, 60, 255}
	EntryColor       = color.RGBA{0, 255, 0, 255}
	ExitColor        = color.RGBA{255, 0, 0, 255}
	TextLightColor   = color.RGBA{240, 240, 240, 255}
	TextDarkColor    = color.RGBA{20, 20, 30, 255}
	BuildStateColor  = color.RGBA{70, 130, 180, 220}
	WaveStateColor   = color.RGBA{220, 60, 60, 220}
	IndicatorStroke  = color.RGBA{240, 240, 240, 255}
	MobColor         = color.RGBA{0, 0, 0, 255}
	FlyerColor       = color.RGBA{120, 120, 200, 255}
	HealthBarColor   = color.RGBA{50, 205, 50, 255}
	TowerStrokeColor = color.RGBA{255, 255, 255, 255}
	ProjectileColor  = color.RGBA{255, 255, 0, 255}
	RangeColor       = color.RGBA{255, 255, 0, 40}
	StrokeWidth      = 2.0

	SpeedButtonColors = []color.Color{
		color.RGBA{70, 130, 180, 220},  // x1
		color.RGBA{220, 60, 60, 220},   // x2
		color.RGBA{194, 178, 128, 255}, // x4, песочно-жёлтый
	}
)
