// internal/ui/player_health_indicator.go
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	HealthSegments   = 7
	HealthBarHeight  = 10.0
	HealthBarSpacing = 2.0
	HealthTotalWidth = 120.0
)

var (
	healthEmptyColor    = color.RGBA{60, 60, 60, 255}
	healthDepletedColor = color.RGBA{30, 30, 30, 255}
	healthColors        = []color.RGBA{
		{220, 60, 60, 255},  // критично
		{230, 180, 60, 255}, // половина
		{50, 205, 50, 255},  // почти полное
	}
)

// PlayerHealthIndicator отображает оставшиеся жизни в виде сегментированного бара.
type PlayerHealthIndicator struct {
	X, Y float32
}

// NewPlayerHealthIndicator создает новый индикатор здоровья.
func NewPlayerHealthIndicator(x, y float32) *PlayerHealthIndicator {
	return &PlayerHealthIndicator{X: x, Y: y}
}

// Draw рисует индикатор; сегменты пустеют справа налево.
func (i *PlayerHealthIndicator) Draw(screen *ebiten.Image, lives, maxLives int) {
	if maxLives <= 0 {
		return
	}
	percentage := float32(lives) / float32(maxLives)
	if lives < 0 {
		percentage = 0
	}

	segmentWidth := (HealthTotalWidth - float32(HealthSegments-1)*HealthBarSpacing) / float32(HealthSegments)
	active, activeColor := healthState(percentage)
	x := i.X
	for j := 0; j < HealthSegments; j++ {
		var fill color.Color = activeColor
		if j >= active {
			fill = healthEmptyColor
		}
		if lives <= 0 {
			fill = healthDepletedColor
		}
		vector.DrawFilledRect(screen, x, i.Y, segmentWidth, HealthBarHeight, fill, false)
		vector.StrokeRect(screen, x, i.Y, segmentWidth, HealthBarHeight, 2, color.White, false)
		x += segmentWidth + HealthBarSpacing
	}
}

// healthState returns how many segments are lit and their colour.
func healthState(percentage float32) (int, color.RGBA) {
	active := 0
	for k := 0; k < HealthSegments; k++ {
		if percentage > float32(k)/float32(HealthSegments) {
			active++
		}
	}
	switch {
	case percentage <= 0.3:
		return active, healthColors[0]
	case percentage <= 0.6:
		return active, healthColors[1]
	default:
		return active, healthColors[2]
	}
}
