package grid

import "testing"

func TestGrid_CodesAndOccupancy(t *testing.T) {
	g := New(4, 4)

	if !g.IsWalkable(1, 1) {
		t.Fatal("empty cell must be walkable")
	}
	if g.IsWalkable(-1, 0) || g.IsWalkable(4, 0) {
		t.Error("out of bounds must not be walkable")
	}
	if g.Code(10, 10) != CodeWall {
		t.Errorf("Expected out-of-bounds code %d, got %d", CodeWall, g.Code(10, 10))
	}

	if !g.Occupy(1, 1, 7) {
		t.Fatal("occupy on empty cell failed")
	}
	if g.IsWalkable(1, 1) {
		t.Error("tower cell must not be walkable")
	}
	if g.TowerAt(1, 1) != 7 {
		t.Errorf("Expected tower 7, got %d", g.TowerAt(1, 1))
	}
	if g.Occupy(1, 1, 8) {
		t.Error("occupy must fail on an occupied cell")
	}
	if !g.Vacate(1, 1) || g.Code(1, 1) != CodeEmpty {
		t.Error("vacate did not clear the tower")
	}
	if g.Vacate(1, 1) {
		t.Error("second vacate must report false")
	}
}

func TestGrid_MobCountClamped(t *testing.T) {
	g := New(3, 3)

	g.IncMobCount(1, 1)
	g.IncMobCount(1, 1)
	if g.MobCount(1, 1) != 2 {
		t.Errorf("Expected 2 mobs, got %d", g.MobCount(1, 1))
	}
	g.DecMobCount(1, 1)
	g.DecMobCount(1, 1)
	g.DecMobCount(1, 1)
	if g.Code(1, 1) != CodeEmpty {
		t.Errorf("Expected count clamped at empty, got code %d", g.Code(1, 1))
	}

	// маркеры не превращаются в счётчики
	g.AddStart(0, 0)
	g.IncMobCount(0, 0)
	g.DecMobCount(0, 0)
	if g.Code(0, 0) != CodeStart {
		t.Errorf("start marker was overwritten: %d", g.Code(0, 0))
	}

	// out of bounds is a no-op
	g.IncMobCount(-1, 5)
	g.DecMobCount(9, 9)
}

func TestGrid_CanPlace(t *testing.T) {
	g := New(5, 5)
	g.AddStart(0, 0)

	if !g.CanPlace(1, 1, 2) {
		t.Error("2x2 on empty interior should be placeable")
	}
	if g.CanPlace(0, 0, 2) {
		t.Error("footprint over start marker must be rejected")
	}
	if g.CanPlace(4, 4, 2) {
		t.Error("footprint leaving the board must be rejected")
	}
	g.IncMobCount(2, 2)
	if g.CanPlace(1, 1, 2) {
		t.Error("footprint over a mob must be rejected")
	}
}

func TestGrid_SealBorderKeepsMarkers(t *testing.T) {
	g := New(4, 5)
	g.AddStart(0, 2)
	g.AddTarget(3, 2)
	g.SealBorder()

	if !g.IsWall(0, 0) || !g.IsWall(3, 4) {
		t.Error("border must be wall-coded")
	}
	if g.Code(0, 2) != CodeStart || g.Code(3, 2) != CodeTarget {
		t.Error("start/target must survive SealBorder")
	}
	if !g.IsBorder(0, 2) || g.IsBorder(1, 1) {
		t.Error("IsBorder mismatch")
	}
}

func TestGrid_CloneIsDeep(t *testing.T) {
	g := New(3, 3)
	cp := g.Clone()
	cp.Occupy(1, 1, 3)
	if g.Equal(cp) {
		t.Error("clone shares storage with the original")
	}
}

func TestCellAt_NegativeFloors(t *testing.T) {
	c := CellAt(-1, 31, 32)
	if c.Col != -1 || c.Row != 0 {
		t.Errorf("Expected (0,-1), got %v", c)
	}
	x, y := Cell{Row: 2, Col: 3}.Center(32)
	if x != 112 || y != 80 {
		t.Errorf("Expected centre (112,80), got (%v,%v)", x, y)
	}
}
