// internal/defs/maps.go
package defs

import (
	"fmt"
	"sort"

	"go-tower-defense-sim/pkg/grid"
)

// Map legend.
const (
	TileWall   = '#'
	TileFloor  = '.'
	TileStart  = 'S'
	TileTarget = 'T'
)

// InitialTower is a tower the level places before the first wave.
type InitialTower struct {
	Kind  string `json:"kind"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Level int    `json:"level"`
}

// MapDefinition is a text layout plus optional pre-placed towers.
type MapDefinition struct {
	Name   string         `json:"name"`
	Rows   []string       `json:"rows"`
	Towers []InitialTower `json:"towers,omitempty"`
}

// Layout is a parsed map. It satisfies the level provider contract.
type Layout struct {
	name    string
	rows    int
	cols    int
	walls   []grid.Cell
	starts  []grid.Cell
	targets []grid.Cell
	towers  []InitialTower
}

// ParseMap turns a text layout into a Layout. Border cells other than starts
// and targets are always walls.
func ParseMap(def MapDefinition) (*Layout, error) {
	if len(def.Rows) == 0 {
		return nil, fmt.Errorf("map %q: no rows", def.Name)
	}
	l := &Layout{
		name:   def.Name,
		rows:   len(def.Rows),
		cols:   len(def.Rows[0]),
		towers: append([]InitialTower(nil), def.Towers...),
	}
	for r, line := range def.Rows {
		if len(line) != l.cols {
			return nil, fmt.Errorf("map %q: row %d has %d columns, want %d", def.Name, r, len(line), l.cols)
		}
		for c := 0; c < len(line); c++ {
			cell := grid.Cell{Row: r, Col: c}
			border := r == 0 || c == 0 || r == l.rows-1 || c == l.cols-1
			switch line[c] {
			case TileWall:
				l.walls = append(l.walls, cell)
			case TileFloor:
				if border {
					l.walls = append(l.walls, cell)
				}
			case TileStart:
				l.starts = append(l.starts, cell)
			case TileTarget:
				l.targets = append(l.targets, cell)
			default:
				return nil, fmt.Errorf("map %q: unknown tile %q at %v", def.Name, line[c], cell)
			}
		}
	}
	if len(l.starts) == 0 || len(l.targets) == 0 {
		return nil, fmt.Errorf("map %q: needs at least one start and one target", def.Name)
	}
	return l, nil
}

func (l *Layout) Name() string                  { return l.name }
func (l *Layout) Size() (rows, cols int)        { return l.rows, l.cols }
func (l *Layout) Walls() []grid.Cell            { return l.walls }
func (l *Layout) Starts() []grid.Cell           { return l.starts }
func (l *Layout) Targets() []grid.Cell          { return l.targets }
func (l *Layout) InitialTowers() []InitialTower { return l.towers }

// BuiltinMaps is the shipped map set.
var BuiltinMaps = map[string]MapDefinition{
	"classic": {
		Name: "classic",
		Rows: []string{
			"######################",
			"#....................#",
			"#....................#",
			"#....................#",
			"#....................#",
			"#....................#",
			"S....................#",
			"#....................T",
			"#....................#",
			"#....................#",
			"#....................#",
			"#....................#",
			"#....................#",
			"######################",
		},
		Towers: []InitialTower{{Kind: "TOWER_SHOOT", Row: 3, Col: 10, Level: 1}},
	},
	"twin": {
		Name: "twin",
		Rows: []string{
			"########################",
			"#...........#..........#",
			"#...........#..........#",
			"#...........#..........#",
			"S...........#..........T",
			"#...........#..........#",
			"#...........#..........#",
			"#......................#",
			"#......................#",
			"#...........#..........#",
			"#...........#..........#",
			"S...........#..........T",
			"#...........#..........#",
			"#...........#..........#",
			"#...........#..........#",
			"########################",
		},
	},
	"corridor": {
		Name: "corridor",
		Rows: []string{
			"####################",
			"######........######",
			"######........######",
			"S..................#",
			"#..................T",
			"######........######",
			"######........######",
			"####################",
		},
	},
}

// MapNames lists built-in map names in sorted order.
func MapNames() []string {
	names := make([]string, 0, len(BuiltinMaps))
	for n := range BuiltinMaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadBuiltinMap parses one of BuiltinMaps by name.
func LoadBuiltinMap(name string) (*Layout, error) {
	def, ok := BuiltinMaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown map %q", name)
	}
	return ParseMap(def)
}
