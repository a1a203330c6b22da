package grid

import "testing"

func assertValidPath(t *testing.T, g *Grid, p Path, from, to Cell, mode Mode) {
	t.Helper()
	if len(p) == 0 {
		t.Fatalf("Expected a path %v -> %v, got none", from, to)
	}
	if p[0] != from {
		t.Errorf("path starts at %v, want %v", p[0], from)
	}
	if last, _ := p.Last(); last != to {
		t.Errorf("path ends at %v, want %v", last, to)
	}
	for i, c := range p {
		if !g.IsWalkable(c.Row, c.Col) {
			t.Errorf("cell %d %v is not walkable", i, c)
		}
		if i > 0 && !p[i-1].IsAdjacent(c, mode) {
			t.Errorf("cells %v and %v are not adjacent under %s", p[i-1], c, mode)
		}
	}
}

func TestAStar_OpenGridCardinal(t *testing.T) {
	g := New(10, 10)
	from, to := Cell{0, 0}, Cell{9, 9}

	p := AStar(from, to, g, Cardinal)
	assertValidPath(t, g, p, from, to, Cardinal)
	if len(p) != 19 {
		t.Errorf("Expected 19 cells, got %d", len(p))
	}
	if p.Steps() != 18 {
		t.Errorf("Expected 18 steps, got %d", p.Steps())
	}
}

func TestAStar_OpenGridDiagonal(t *testing.T) {
	g := New(10, 10)
	from, to := Cell{0, 0}, Cell{9, 9}

	p := AStar(from, to, g, Diagonal)
	assertValidPath(t, g, p, from, to, Diagonal)
	if p.Steps() != 9 {
		t.Errorf("Expected 9 steps, got %d", p.Steps())
	}
}

func TestAStar_DiagonalRespectsCorners(t *testing.T) {
	// . #
	// # .
	g := New(2, 2)
	g.SetWall(0, 1)
	g.SetWall(1, 0)

	if p := AStar(Cell{0, 0}, Cell{1, 1}, g, Diagonal); len(p) != 0 {
		t.Errorf("Diagonal must not cut a wall corner, got %v", p)
	}
	p := AStar(Cell{0, 0}, Cell{1, 1}, g, DiagonalFree)
	if p.Steps() != 1 {
		t.Errorf("DiagonalFree should step across the corner, got %v", p)
	}
}

func TestAStar_BlockedReturnsEmpty(t *testing.T) {
	g := New(5, 5)
	for c := 0; c < 5; c++ {
		g.SetWall(2, c)
	}
	for _, mode := range []Mode{Cardinal, Diagonal, DiagonalFree} {
		if p := AStar(Cell{0, 0}, Cell{4, 4}, g, mode); len(p) != 0 {
			t.Errorf("%s: expected empty path through a full wall, got %v", mode, p)
		}
	}
}

func TestAStar_Deterministic(t *testing.T) {
	g := New(6, 6)
	g.SetWall(2, 2)
	g.SetWall(3, 3)

	first := AStar(Cell{0, 0}, Cell{5, 5}, g, Cardinal)
	for i := 0; i < 20; i++ {
		again := AStar(Cell{0, 0}, Cell{5, 5}, g, Cardinal)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed %d -> %d", i, len(first), len(again))
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: path differs at %d: %v vs %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestAStar_TieBreakByInsertionOrder(t *testing.T) {
	// открытое поле 3x3: все кратчайшие пути равны по f, выигрывает
	// сосед, вставленный раньше (E раньше S)
	g := New(3, 3)
	want := Path{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}
	for i := 0; i < 50; i++ {
		got := AStar(Cell{0, 0}, Cell{2, 2}, g, Cardinal)
		if len(got) != len(want) {
			t.Fatalf("run %d: Expected %v, got %v", i, want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("run %d: Expected %v, got %v", i, want, got)
			}
		}
	}
}

func TestGrid_CanStep(t *testing.T) {
	// . #
	// . .
	g := New(2, 2)
	g.Occupy(0, 1, 5)

	cases := []struct {
		name     string
		from, to Cell
		mode     Mode
		want     bool
	}{
		{"cardinal open", Cell{0, 0}, Cell{1, 0}, Cardinal, true},
		{"into tower", Cell{0, 0}, Cell{0, 1}, DiagonalFree, false},
		{"diagonal in cardinal mode", Cell{1, 0}, Cell{0, 1}, Cardinal, false},
		{"diagonal past tower corner", Cell{0, 0}, Cell{1, 1}, Diagonal, false},
		{"flyer past tower corner", Cell{0, 0}, Cell{1, 1}, DiagonalFree, true},
		{"not adjacent", Cell{0, 0}, Cell{0, 0}, Cardinal, false},
	}
	for _, tc := range cases {
		if got := g.CanStep(tc.from, tc.to, tc.mode); got != tc.want {
			t.Errorf("%s: Expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestAStarAny_PicksNearestGoal(t *testing.T) {
	g := New(7, 7)
	near, far := Cell{0, 3}, Cell{6, 6}
	p := AStarAny(Cell{0, 0}, []Cell{far, near}, g, Cardinal)
	if last, _ := p.Last(); last != near {
		t.Errorf("Expected nearest goal %v, got %v", near, last)
	}
}

func TestAStar_SameCell(t *testing.T) {
	g := New(3, 3)
	p := AStar(Cell{1, 1}, Cell{1, 1}, g, Cardinal)
	if len(p) != 1 || p.Steps() != 0 {
		t.Errorf("Expected single-cell path, got %v", p)
	}
}
