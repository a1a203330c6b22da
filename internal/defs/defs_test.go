package defs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go-tower-defense-sim/pkg/grid"
)

func TestDefaultLibrary_Valid(t *testing.T) {
	lib := DefaultLibrary()
	if err := lib.Validate(); err != nil {
		t.Fatalf("built-in library invalid: %v", err)
	}
	for _, id := range []string{"TOWER_SHOOT", "TOWER_BOOST", "TOWER_MORTAR", "TOWER_LASER"} {
		if _, ok := lib.Tower(id); !ok {
			t.Errorf("missing tower %s", id)
		}
	}
	if len(lib.TowerIDs()) != len(lib.Towers) {
		t.Error("TowerIDs length mismatch")
	}
}

func TestTowerDefinition_LevelClamped(t *testing.T) {
	d := TowerDefinition{Levels: []TowerLevel{{Damage: 1}, {Damage: 2}}}
	if d.Level(0).Damage != 1 || d.Level(5).Damage != 2 {
		t.Error("Level must clamp to the table")
	}
	if d.MaxLevel() != 2 {
		t.Errorf("Expected max level 2, got %d", d.MaxLevel())
	}
}

func TestMobDefinition_FlyersUseDiagonalFree(t *testing.T) {
	d := MobDefinition{Flying: true, Movement: MoveCardinal}
	if d.MovementMode() != MoveDiagonalFree {
		t.Errorf("Expected DIAGONAL_FREE, got %s", d.MovementMode())
	}
	if (&MobDefinition{}).MovementMode() != MoveCardinal {
		t.Error("empty movement should default to CARDINAL")
	}
}

func TestParseMap_BorderAndMarkers(t *testing.T) {
	l, err := ParseMap(MapDefinition{Name: "tiny", Rows: []string{
		"#....",
		"S...T",
		"#####",
	}})
	if err != nil {
		t.Fatalf("ParseMap failed: %v", err)
	}
	rows, cols := l.Size()
	if rows != 3 || cols != 5 {
		t.Errorf("Expected 3x5, got %dx%d", rows, cols)
	}
	if len(l.Starts()) != 1 || l.Starts()[0] != (grid.Cell{Row: 1, Col: 0}) {
		t.Errorf("unexpected starts %v", l.Starts())
	}
	// '.' на границе становится стеной
	border := map[grid.Cell]bool{}
	for _, w := range l.Walls() {
		border[w] = true
	}
	if !border[grid.Cell{Row: 0, Col: 2}] {
		t.Error("border floor must be wall-coded")
	}
	if border[grid.Cell{Row: 1, Col: 2}] {
		t.Error("interior floor must stay open")
	}
}

func TestParseMap_Errors(t *testing.T) {
	cases := map[string][]string{
		"ragged":    {"S..", "..T."},
		"no target": {"S..", "..."},
		"bad tile":  {"S.x", "..T"},
	}
	for name, rows := range cases {
		if _, err := ParseMap(MapDefinition{Name: name, Rows: rows}); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestBuiltinMaps_Parse(t *testing.T) {
	for _, name := range MapNames() {
		if _, err := LoadBuiltinMap(name); err != nil {
			t.Errorf("map %s: %v", name, err)
		}
	}
	if _, err := LoadBuiltinMap("nope"); err == nil {
		t.Error("Expected error for unknown map")
	}
}

func TestLoadLibrary_FromFiles(t *testing.T) {
	dir := t.TempDir()
	towers := []TowerDefinition{{
		ID: "TOWER_X", Targeting: TargetSingle, Motion: MotionInstant, HitsGround: true,
		Levels: []TowerLevel{{Cost: 1, Damage: 5, Range: 2, Speed: 1}},
	}}
	data, _ := json.Marshal(towers)
	path := filepath.Join(dir, "towers.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := LoadLibrary(path, "")
	if err != nil {
		t.Fatalf("LoadLibrary failed: %v", err)
	}
	if len(lib.Towers) != 1 {
		t.Errorf("Expected 1 tower, got %d", len(lib.Towers))
	}
	if len(lib.Mobs) == 0 {
		t.Error("mob table should fall back to built-ins")
	}

	if _, err := LoadLibrary(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestLoadLibrary_RejectsDanglingWave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mobs.json")
	if err := os.WriteFile(path, []byte(`[{"id":"MOB_ONLY","health":10}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	// волны по умолчанию ссылаются на MOB_NORMAL и др.
	if _, err := LoadLibrary("", path); err == nil {
		t.Error("Expected validation error for waves naming unknown mobs")
	}
}
