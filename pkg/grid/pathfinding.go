// pkg/grid/pathfinding.go
package grid

import (
	"container/heap"
)

// Mode selects the adjacency rule used by the path finder.
type Mode int

const (
	// Cardinal: только N/E/S/W, эвристика Манхэттена.
	Cardinal Mode = iota
	// Diagonal: 8 направлений, диагональ запрещена если срезает угол стены/башни.
	Diagonal
	// DiagonalFree: 8 направлений без проверки углов (летающие).
	DiagonalFree
)

func (m Mode) String() string {
	switch m {
	case Cardinal:
		return "cardinal"
	case Diagonal:
		return "diagonal"
	case DiagonalFree:
		return "diagonal-free"
	}
	return "unknown"
}

// Path is an ordered cell list from origin to goal, both inclusive.
// An empty path means the goal is unreachable.
type Path []Cell

// Steps is the number of moves along the path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Last returns the goal cell of the path.
func (p Path) Last() (Cell, bool) {
	if len(p) == 0 {
		return Cell{}, false
	}
	return p[len(p)-1], true
}

// Neighbors returns the cells reachable in one move from c, in N, E, S, W, NE, SE, SW, NW order.
func (g *Grid) Neighbors(c Cell, mode Mode) []Cell {
	out := make([]Cell, 0, 8)
	for _, d := range CardinalDirections {
		if n := c.Add(d); g.CanStep(c, n, mode) {
			out = append(out, n)
		}
	}
	if mode == Cardinal {
		return out
	}
	for _, d := range DiagonalDirections {
		if n := c.Add(d); g.CanStep(c, n, mode) {
			out = append(out, n)
		}
	}
	return out
}

// CanStep reports whether a single move from -> to is legal under mode:
// to is walkable, the cells are adjacent, and in Diagonal mode the move does
// not cut the corner of a wall or tower.
func (g *Grid) CanStep(from, to Cell, mode Mode) bool {
	if !g.IsWalkable(to.Row, to.Col) {
		return false
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if dr < -1 || dr > 1 || dc < -1 || dc > 1 || (dr == 0 && dc == 0) {
		return false
	}
	if dr == 0 || dc == 0 {
		return true
	}
	switch mode {
	case Cardinal:
		return false
	case Diagonal:
		// оба ортогональных соседа должны быть проходимы
		return g.IsWalkable(from.Row+dr, from.Col) && g.IsWalkable(from.Row, from.Col+dc)
	}
	return true
}

func heuristic(c Cell, goals []Cell, mode Mode) int {
	best := -1
	for _, goal := range goals {
		var h int
		if mode == Cardinal {
			h = c.Manhattan(goal)
		} else {
			h = c.Chebyshev(goal)
		}
		if best < 0 || h < best {
			best = h
		}
	}
	return best
}

// AStar находит кратчайший путь от start до goal.
func AStar(start, goal Cell, g *Grid, mode Mode) Path {
	return AStarAny(start, []Cell{goal}, g, mode)
}

// AStarAny finds the shortest path from start to whichever goal is closest.
// Every move costs 1. Nodes with equal priority pop in insertion order, so
// results are deterministic.
func AStarAny(start Cell, goals []Cell, g *Grid, mode Mode) Path {
	if len(goals) == 0 || !g.InBounds(start.Row, start.Col) {
		return nil
	}
	isGoal := make(map[Cell]bool, len(goals))
	for _, goal := range goals {
		if g.InBounds(goal.Row, goal.Col) {
			isGoal[goal] = true
		}
	}
	if len(isGoal) == 0 {
		return nil
	}

	pq := &PriorityQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &Node{Cell: start, Priority: heuristic(start, goals, mode), Seq: seq})
	costSoFar := map[Cell]int{start: 0}
	closed := make(map[Cell]bool)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*Node)
		if closed[current.Cell] {
			continue
		}
		closed[current.Cell] = true
		if isGoal[current.Cell] {
			return reconstructPath(current)
		}
		for _, neighbor := range g.Neighbors(current.Cell, mode) {
			if closed[neighbor] {
				continue
			}
			newCost := costSoFar[current.Cell] + 1
			if old, exists := costSoFar[neighbor]; !exists || newCost < old {
				costSoFar[neighbor] = newCost
				seq++
				heap.Push(pq, &Node{
					Cell:     neighbor,
					Cost:     newCost,
					Priority: newCost + heuristic(neighbor, goals, mode),
					Seq:      seq,
					Parent:   current,
				})
			}
		}
	}
	return nil // Нет пути
}

// PriorityQueue для A*
type PriorityQueue []*Node

type Node struct {
	Cell     Cell
	Cost     int
	Priority int
	Seq      int
	Parent   *Node
}

func (pq PriorityQueue) Len() int { return len(pq) }
func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].Seq < pq[j].Seq
}
func (pq PriorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *PriorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*Node))
}
func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}

func reconstructPath(node *Node) Path {
	n := 0
	for it := node; it != nil; it = it.Parent {
		n++
	}
	path := make(Path, n)
	for it := node; it != nil; it = it.Parent {
		n--
		path[n] = it.Cell
	}
	return path
}
