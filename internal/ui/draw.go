// internal/ui/draw.go
package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	// DefaultFace is the bitmap face every widget falls back to.
	DefaultFace font.Face = basicfont.Face7x13
)

func init() {
	whiteImage.Fill(color.White)
}

// fillPolygon заливает выпуклый многоугольник и обводит его.
func fillPolygon(dst *ebiten.Image, pts [][2]float32, fill, stroke color.Color, strokeWidth float32) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	path.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		path.LineTo(p[0], p[1])
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := fill.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vs, is, whiteSubImage, op)

	if stroke == nil {
		return
	}
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		vector.StrokeLine(dst, p[0], p[1], q[0], q[1], strokeWidth, stroke, true)
	}
}

// drawCentered пишет строку с центром в (cx, cy).
func drawCentered(dst *ebiten.Image, s string, face font.Face, cx, cy int, clr color.Color) {
	b := text.BoundString(face, s)
	text.Draw(dst, s, face, cx-(b.Min.X+b.Max.X)/2, cy-(b.Min.Y+b.Max.Y)/2, clr)
}

// drawOutlined пишет строку с обводкой толщиной thickness пикселей.
func drawOutlined(dst *ebiten.Image, s string, face font.Face, x, y, thickness int, fill, outline color.Color) {
	for dy := -thickness; dy <= thickness; dy++ {
		for dx := -thickness; dx <= thickness; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			text.Draw(dst, s, face, x+dx, y+dy, outline)
		}
	}
	text.Draw(dst, s, face, x, y, fill)
}

func inCircle(px, py int, cx, cy, r float32) bool {
	dx, dy := float32(px)-cx, float32(py)-cy
	return dx*dx+dy*dy <= r*r
}

// clicked reports a fresh left click and where it happened.
func clicked() (int, int, bool) {
	x, y := ebiten.CursorPosition()
	return x, y, inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}
