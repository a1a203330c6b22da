// internal/ui/speed_button.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SpeedButton cycles the simulation speed; two triangles, coloured per state.
type SpeedButton struct {
	X, Y          float32
	Size          float32
	LastClickTime time.Time
	StateColors   []color.Color
	CurrentState  int
}

func NewSpeedButton(x, y, size float32, stateColors []color.Color) *SpeedButton {
	return &SpeedButton{
		X:           x,
		Y:           y,
		Size:        size,
		StateColors: stateColors,
	}
}

func (b *SpeedButton) Draw(screen *ebiten.Image) {
	elapsed := time.Since(b.LastClickTime).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	triangleSize := b.Size * float32(scale)

	clr := b.StateColors[b.CurrentState]

	// Параметры треугольников
	height := triangleSize * 1.2
	width := triangleSize
	offset := width * 0.8

	fillPolygon(screen, [][2]float32{
		{b.X - width, b.Y - height/2},
		{b.X, b.Y},
		{b.X - width, b.Y + height/2},
	}, clr, color.White, 2)
	fillPolygon(screen, [][2]float32{
		{b.X - width + offset, b.Y - height/2},
		{b.X + offset, b.Y},
		{b.X - width + offset, b.Y + height/2},
	}, clr, color.White, 2)
}

// IsClicked uses a circle for hit testing, the shape is irregular.
func (b *SpeedButton) IsClicked() bool {
	x, y, ok := clicked()
	return ok && inCircle(x, y, b.X, b.Y, b.Size*1.5)
}

// SetState syncs the button with a speed index chosen elsewhere.
func (b *SpeedButton) SetState(i int) {
	if i >= 0 && i < len(b.StateColors) {
		b.CurrentState = i
	}
}

func (b *SpeedButton) ToggleState() {
	b.CurrentState = (b.CurrentState + 1) % len(b.StateColors)
	b.LastClickTime = time.Now()
}
