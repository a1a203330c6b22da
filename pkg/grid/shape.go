// pkg/grid/shape.go
package grid

import "math"

// Shape is a boolean footprint of the cells a tower reaches, relative to the
// tower's anchor cell. Offsets may be negative.
type Shape struct {
	Radius  int
	Size    int
	Offsets []Cell
}

type shapeKey struct {
	radius, size int
}

// ShapeCache memoizes range shapes by (⌊range⌋, tower size).
type ShapeCache struct {
	shapes map[shapeKey]*Shape
}

func NewShapeCache() *ShapeCache {
	return &ShapeCache{shapes: make(map[shapeKey]*Shape)}
}

// Get returns the shape for a range radius (in cells) and a square tower of
// the given size. The radius is floored before lookup.
func (sc *ShapeCache) Get(rangeCells float64, size int) *Shape {
	key := shapeKey{radius: int(math.Floor(rangeCells)), size: size}
	if s, ok := sc.shapes[key]; ok {
		return s
	}
	s := buildShape(key.radius, size)
	sc.shapes[key] = s
	return s
}

// Len reports how many shapes are cached.
func (sc *ShapeCache) Len() int { return len(sc.shapes) }

// A cell belongs to the shape if its centre lies within radius of the tower centre.
func buildShape(radius, size int) *Shape {
	s := &Shape{Radius: radius, Size: size}
	half := float64(size) / 2
	r := float64(radius)
	for dr := -radius; dr < size+radius; dr++ {
		for dc := -radius; dc < size+radius; dc++ {
			dy := float64(dr) + 0.5 - half
			dx := float64(dc) + 0.5 - half
			if math.Hypot(dx, dy) <= r {
				s.Offsets = append(s.Offsets, Cell{Row: dr, Col: dc})
			}
		}
	}
	return s
}

// Cells projects the shape onto g from anchor, dropping out-of-bounds cells.
func (s *Shape) Cells(g *Grid, anchor Cell) []Cell {
	out := make([]Cell, 0, len(s.Offsets))
	for _, off := range s.Offsets {
		c := anchor.Add(off)
		if g.InBounds(c.Row, c.Col) {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether cell c lies in the shape anchored at anchor.
func (s *Shape) Contains(anchor, c Cell) bool {
	d := c.Subtract(anchor)
	for _, off := range s.Offsets {
		if off == d {
			return true
		}
	}
	return false
}
