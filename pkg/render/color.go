// pkg/render/color.go
package render

import "image/color"

// MapColors holds all the color definitions needed to render the static board.
type MapColors struct {
	BackgroundColor color.RGBA
	PassableColor   color.RGBA
	ImpassableColor color.RGBA
	EntryColor      color.RGBA
	ExitColor       color.RGBA
	GridLineColor   color.RGBA
	StrokeWidth     float32
}

// TowerOutlineColors holds the colors for dynamic tower outlines.
type TowerOutlineColors struct {
	Normal   color.Color
	Selected color.Color
	Locked   color.Color
	Busy     color.Color // апгрейд или продажа
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// HealthColor blends from red to green by the remaining life fraction.
func HealthColor(frac float64) color.RGBA {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return color.RGBA{
		R: uint8(220 * (1 - frac)),
		G: uint8(60 + 145*frac),
		B: 50,
		A: 255,
	}
}
