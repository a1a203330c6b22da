// internal/ui/indicator.go
package ui

import (
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// StateIndicator is a pulsing circle; the game colours it by phase and
// clicking it calls the next wave.
type StateIndicator struct {
	X, Y          float32
	Radius        float32
	LastClickTime time.Time
}

func NewStateIndicator(x, y, radius float32) *StateIndicator {
	return &StateIndicator{X: x, Y: y, Radius: radius}
}

// Draw отрисовывает индикатор
func (i *StateIndicator) Draw(screen *ebiten.Image, stateColor color.Color, countdown float64) {
	elapsed := time.Since(i.LastClickTime).Seconds()
	scale := 1.0 + 0.3*math.Exp(-elapsed*8)
	r := i.Radius * float32(scale)

	vector.DrawFilledCircle(screen, i.X, i.Y, r, stateColor, true)
	vector.StrokeCircle(screen, i.X, i.Y, r, 2, color.White, true)
	if countdown > 0 {
		drawCentered(screen, formatSeconds(countdown), DefaultFace, int(i.X), int(i.Y), color.White)
	}
}

func (i *StateIndicator) IsClicked() bool {
	x, y, ok := clicked()
	return ok && inCircle(x, y, i.X, i.Y, i.Radius)
}

func (i *StateIndicator) HandleClick() {
	i.LastClickTime = time.Now()
}

func formatSeconds(s float64) string {
	return strconv.Itoa(int(math.Ceil(s)))
}
