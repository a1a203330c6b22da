// internal/ui/pause_button.go
package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

type PauseButton struct {
	X, Y          float32
	Size          float32
	LastClickTime time.Time
	IsPaused      bool
	PauseColor    color.Color
	PlayColor     color.Color
}

func NewPauseButton(x, y, size float32, pauseColor, playColor color.Color) *PauseButton {
	return &PauseButton{
		X:          x,
		Y:          y,
		Size:       size,
		PauseColor: pauseColor,
		PlayColor:  playColor,
	}
}

func (b *PauseButton) Draw(screen *ebiten.Image) {
	elapsed := time.Since(b.LastClickTime).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	s := b.Size * float32(scale)

	if b.IsPaused {
		// Треугольник (play)
		fillPolygon(screen, [][2]float32{
			{b.X - s, b.Y - s*1.2},
			{b.X + s, b.Y},
			{b.X - s, b.Y + s*1.2},
		}, b.PlayColor, color.White, 2)
		return
	}
	// Два прямоугольника (pause)
	width := s * 0.6
	height := s * 2.0
	spacing := s * 0.4
	for _, x := range []float32{b.X - width - spacing/2, b.X + spacing/2} {
		vector.DrawFilledRect(screen, x, b.Y-height/2, width, height, b.PauseColor, false)
		vector.StrokeRect(screen, x, b.Y-height/2, width, height, 2, color.White, false)
	}
}

func (b *PauseButton) IsClicked() bool {
	x, y, ok := clicked()
	return ok && inCircle(x, y, b.X, b.Y, b.Size*1.5)
}

// SetPaused обновляет вид кнопки; анимация клика запускается только при смене.
func (b *PauseButton) SetPaused(paused bool) {
	if b.IsPaused != paused {
		b.LastClickTime = time.Now()
	}
	b.IsPaused = paused
}
