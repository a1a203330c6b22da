package interfaces

import (
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/pkg/grid"
)

// Economy owns gold and lives. The simulation only calls into it.
type Economy interface {
	Gold() int
	GrantGold(amount int)
	// SpendGold deducts amount if affordable and reports whether it did.
	SpendGold(amount int) bool
	LoseLife()
	Lives() int
	GameOver(won bool)
}

// LevelProvider supplies a static board. Read only.
type LevelProvider interface {
	Name() string
	Size() (rows, cols int)
	Walls() []grid.Cell
	Starts() []grid.Cell
	Targets() []grid.Cell
	InitialTowers() []defs.InitialTower
}
