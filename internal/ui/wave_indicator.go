// internal/ui/wave_indicator.go
package ui

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
)

// WaveIndicator отображает номер текущей волны римскими цифрами.
type WaveIndicator struct {
	X, Y             int
	Color            color.Color
	FinalColor       color.Color
	OutlineColor     color.Color
	OutlineThickness int
}

// NewWaveIndicator создает новый индикатор волны.
func NewWaveIndicator(x, y int) *WaveIndicator {
	return &WaveIndicator{
		X:                x,
		Y:                y,
		Color:            color.RGBA{70, 130, 180, 255},
		FinalColor:       color.RGBA{220, 60, 60, 255},
		OutlineColor:     color.White,
		OutlineThickness: 1,
	}
}

// toRoman конвертирует целое число в римское.
func toRoman(num int) string {
	if num <= 0 {
		return ""
	}
	val := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	syb := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}

	var roman strings.Builder
	for i := 0; i < len(val); i++ {
		for num >= val[i] {
			roman.WriteString(syb[i])
			num -= val[i]
		}
	}
	return roman.String()
}

// Draw отрисовывает индикатор, центрируя текст по X. Последняя волна красная.
func (i *WaveIndicator) Draw(screen *ebiten.Image, waveNumber, total int) {
	if waveNumber <= 0 {
		return
	}
	s := toRoman(waveNumber)
	if total > 0 {
		s += " / " + toRoman(total)
	}
	clr := i.Color
	if waveNumber == total {
		clr = i.FinalColor
	}
	b := text.BoundString(DefaultFace, s)
	drawOutlined(screen, s, DefaultFace, i.X-b.Dx()/2, i.Y, i.OutlineThickness, clr, i.OutlineColor)
}
