package grid

import "testing"

func TestShapeCache_KeyedByFlooredRadius(t *testing.T) {
	sc := NewShapeCache()
	a := sc.Get(1.2, 1)
	b := sc.Get(1.9, 1)
	if a != b {
		t.Error("1.2 and 1.9 must share the radius-1 shape")
	}
	if sc.Len() != 1 {
		t.Errorf("Expected 1 cached shape, got %d", sc.Len())
	}
	if sc.Get(1, 2) == a {
		t.Error("size must be part of the key")
	}
}

func TestShape_RadiusOneSingleCell(t *testing.T) {
	s := NewShapeCache().Get(1, 1)
	// крест из 5 клеток: углы на расстоянии sqrt(2)
	if len(s.Offsets) != 5 {
		t.Fatalf("Expected 5 offsets, got %d: %v", len(s.Offsets), s.Offsets)
	}
	if s.Contains(Cell{5, 5}, Cell{4, 4}) {
		t.Error("corner must be outside radius 1")
	}
	if !s.Contains(Cell{5, 5}, Cell{4, 5}) {
		t.Error("north neighbour must be inside radius 1")
	}
}

func TestShape_CellsClippedToBoard(t *testing.T) {
	g := New(4, 4)
	s := NewShapeCache().Get(2, 2)
	for _, c := range s.Cells(g, Cell{0, 0}) {
		if !g.InBounds(c.Row, c.Col) {
			t.Errorf("out of bounds cell %v", c)
		}
	}
	if len(s.Cells(g, Cell{0, 0})) >= len(s.Offsets) {
		t.Error("corner anchor should clip part of the shape")
	}
}
