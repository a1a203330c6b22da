// pkg/render/grid_renderer.go
package render

import (
	"image/color"
	"math"

	"go-tower-defense-sim/pkg/grid"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GridRenderer draws a square board and whatever stands on it. World
// coordinates are pixels of the board, the renderer shifts them by Offset.
type GridRenderer struct {
	grid     *grid.Grid
	cellSize float64
	offsetX  float64
	offsetY  float64
	colors   MapColors
	mapImage *ebiten.Image // предрендеренный фон
}

func NewGridRenderer(g *grid.Grid, cellSize, offsetX, offsetY float64, colors MapColors) *GridRenderer {
	r := &GridRenderer{
		grid:     g,
		cellSize: cellSize,
		offsetX:  offsetX,
		offsetY:  offsetY,
		colors:   colors,
		mapImage: ebiten.NewImage(int(float64(g.Cols)*cellSize)+1, int(float64(g.Rows)*cellSize)+1),
	}
	r.RenderMapImage()
	return r
}

// RenderMapImage redraws the static part of the board: floor, walls, starts
// and targets. Towers change the grid too, but they are drawn per frame.
func (r *GridRenderer) RenderMapImage() {
	r.mapImage.Clear()
	cs := float32(r.cellSize)
	for row := 0; row < r.grid.Rows; row++ {
		for col := 0; col < r.grid.Cols; col++ {
			fill := r.colors.PassableColor
			if r.grid.IsWall(row, col) {
				fill = r.colors.ImpassableColor
			}
			x, y := float32(col)*cs, float32(row)*cs
			vector.DrawFilledRect(r.mapImage, x, y, cs, cs, fill, false)
			vector.StrokeRect(r.mapImage, x, y, cs, cs, 1, r.colors.GridLineColor, false)
		}
	}
	for _, c := range r.grid.Starts() {
		r.markCell(r.mapImage, c, r.colors.EntryColor)
	}
	for _, c := range r.grid.Targets() {
		r.markCell(r.mapImage, c, r.colors.ExitColor)
	}
}

func (r *GridRenderer) markCell(dst *ebiten.Image, c grid.Cell, clr color.RGBA) {
	cs := float32(r.cellSize)
	x, y := float32(c.Col)*cs, float32(c.Row)*cs
	vector.DrawFilledRect(dst, x+3, y+3, cs-6, cs-6, WithAlpha(clr, 120), false)
	vector.StrokeRect(dst, x+2, y+2, cs-4, cs-4, r.colors.StrokeWidth, clr, true)
}

// Draw puts the pre-rendered board on screen.
func (r *GridRenderer) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(r.offsetX, r.offsetY)
	screen.DrawImage(r.mapImage, op)
}

// ToScreen maps world pixels to screen pixels.
func (r *GridRenderer) ToScreen(x, y float64) (float32, float32) {
	return float32(x + r.offsetX), float32(y + r.offsetY)
}

// CellAt returns the board cell under a screen position.
func (r *GridRenderer) CellAt(sx, sy int) (grid.Cell, bool) {
	c := grid.CellAt(float64(sx)-r.offsetX, float64(sy)-r.offsetY, r.cellSize)
	return c, r.grid.InBounds(c.Row, c.Col)
}

// DrawFootprint fills a size x size square anchored at (row, col).
func (r *GridRenderer) DrawFootprint(screen *ebiten.Image, row, col, size int, fill color.Color) {
	x, y := r.ToScreen(float64(col)*r.cellSize, float64(row)*r.cellSize)
	side := float32(float64(size) * r.cellSize)
	vector.DrawFilledRect(screen, x+1, y+1, side-2, side-2, fill, false)
}

// DrawTower draws a tower body with a barrel pointing at angle (degrees, y down).
func (r *GridRenderer) DrawTower(screen *ebiten.Image, row, col, size int, fill, outline color.Color, angle float64, level int) {
	x, y := r.ToScreen(float64(col)*r.cellSize, float64(row)*r.cellSize)
	side := float32(float64(size) * r.cellSize)
	vector.DrawFilledRect(screen, x+2, y+2, side-4, side-4, fill, true)
	vector.StrokeRect(screen, x+2, y+2, side-4, side-4, r.colors.StrokeWidth, outline, true)

	cx, cy := x+side/2, y+side/2
	rad := angle * math.Pi / 180
	barrel := side * 0.45
	vector.StrokeLine(screen, cx, cy, cx+barrel*float32(math.Cos(rad)), cy+barrel*float32(math.Sin(rad)), 3, outline, true)

	// уровень точками вдоль нижнего края
	for i := 0; i < level; i++ {
		vector.DrawFilledCircle(screen, x+6+float32(i)*6, y+side-6, 2, outline, true)
	}
}

// DrawMob draws a mob as a circle with a life bar above it.
func (r *GridRenderer) DrawMob(screen *ebiten.Image, x, y, radius float64, fill, outline color.Color, lifeFrac float64) {
	sx, sy := r.ToScreen(x, y)
	rad := float32(radius)
	vector.DrawFilledCircle(screen, sx, sy, rad, fill, true)
	vector.StrokeCircle(screen, sx, sy, rad, 1, outline, true)

	if lifeFrac >= 1 {
		return
	}
	w := rad * 2
	vector.DrawFilledRect(screen, sx-rad, sy-rad-6, w, 3, DarkenColor(HealthColor(0)), false)
	vector.DrawFilledRect(screen, sx-rad, sy-rad-6, w*float32(math.Max(lifeFrac, 0)), 3, HealthColor(lifeFrac), false)
}

// DrawProjectile draws a projectile at its current world position.
func (r *GridRenderer) DrawProjectile(screen *ebiten.Image, x, y, radius float64, clr color.Color) {
	sx, sy := r.ToScreen(x, y)
	vector.DrawFilledCircle(screen, sx, sy, float32(radius), clr, true)
}

// DrawRange outlines the reach of a tower centred at (x, y).
func (r *GridRenderer) DrawRange(screen *ebiten.Image, x, y, radius float64, clr color.Color) {
	sx, sy := r.ToScreen(x, y)
	vector.DrawFilledCircle(screen, sx, sy, float32(radius), clr, true)
	vector.StrokeCircle(screen, sx, sy, float32(radius), 1, clr, true)
}

// DrawLine draws a segment between two world points.
func (r *GridRenderer) DrawLine(screen *ebiten.Image, x0, y0, x1, y1, width float64, clr color.Color) {
	sx0, sy0 := r.ToScreen(x0, y0)
	sx1, sy1 := r.ToScreen(x1, y1)
	vector.StrokeLine(screen, sx0, sy0, sx1, sy1, float32(width), clr, true)
}

// DrawRing draws an expanding circle outline, used for impacts.
func (r *GridRenderer) DrawRing(screen *ebiten.Image, x, y, radius float64, clr color.Color) {
	sx, sy := r.ToScreen(x, y)
	vector.StrokeCircle(screen, sx, sy, float32(radius), 2, clr, true)
}
