// internal/system/rangeindex.go
package system

import (
	"go-tower-defense-sim/internal/component"
	"go-tower-defense-sim/internal/entity"
	"go-tower-defense-sim/internal/types"
	"go-tower-defense-sim/pkg/grid"
	"go-tower-defense-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RangeIndex maps every cell to the towers whose range covers it.
//
// complete holds every registered tower, reduced only the towers that may pick
// a new target right now, boost the boost towers. Cell lists are allocated on
// first use.
type RangeIndex struct {
	grid     *grid.Grid
	ecs      *entity.ECS
	shapes   *grid.ShapeCache
	complete []*entity.Queue
	reduced  []*entity.Queue
	boost    []*entity.Queue
	log      *logrus.Entry
}

func NewRangeIndex(g *grid.Grid, ecs *entity.ECS) *RangeIndex {
	n := g.Rows * g.Cols
	return &RangeIndex{
		grid:     g,
		ecs:      ecs,
		shapes:   grid.NewShapeCache(),
		complete: make([]*entity.Queue, n),
		reduced:  make([]*entity.Queue, n),
		boost:    make([]*entity.Queue, n),
		log:      logger.Component("range_index"),
	}
}

func cellQueue(lists []*entity.Queue, i int) *entity.Queue {
	if lists[i] == nil {
		lists[i] = entity.NewQueue()
	}
	return lists[i]
}

// Shape returns the range footprint of a tower at its current level.
func (ri *RangeIndex) Shape(t *component.Tower) *grid.Shape {
	return ri.shapes.Get(t.Range(), t.Size)
}

// Register inserts the tower into every covered cell and links boost
// relationships. The tower must already stand on the grid. The returned cell
// indices are also kept on the tower as its handles.
func (ri *RangeIndex) Register(id types.EntityID) []int {
	t, ok := ri.ecs.Towers[id]
	if !ok {
		return nil
	}
	if len(t.RangeCells) > 0 {
		// уже зарегистрирована
		return t.RangeCells
	}

	cells := ri.Shape(t).Cells(ri.grid, t.Anchor)
	handles := make([]int, 0, len(cells))
	eligible := !t.IsBoost() && !t.IsSingleFire()
	for _, c := range cells {
		i := ri.grid.Index(c.Row, c.Col)
		handles = append(handles, i)
		cellQueue(ri.complete, i).Add(id)
		if eligible {
			cellQueue(ri.reduced, i).Add(id)
		}
		if t.IsBoost() {
			cellQueue(ri.boost, i).Add(id)
		}
	}
	t.RangeCells = handles
	t.InReduced = eligible

	if t.IsBoost() {
		ri.linkBoostTargets(id, t, cells)
	} else {
		ri.linkBoostSources(id, t)
	}

	ri.log.WithFields(logrus.Fields{"tower": id, "cells": len(handles), "boost": t.IsBoost()}).Debug("Registered tower")
	return handles
}

// linkBoostTargets attaches every normal tower standing in the boost footprint.
func (ri *RangeIndex) linkBoostTargets(boostID types.EntityID, b *component.Tower, cells []grid.Cell) {
	for _, c := range cells {
		tid := types.EntityID(ri.grid.TowerAt(c.Row, c.Col))
		if tid == types.None || tid == boostID {
			continue
		}
		ri.link(boostID, b, tid)
	}
}

// linkBoostSources attaches a freshly registered tower to every boost tower
// whose footprint covers one of its cells.
func (ri *RangeIndex) linkBoostSources(id types.EntityID, t *component.Tower) {
	for _, c := range t.Cells() {
		if !ri.grid.InBounds(c.Row, c.Col) {
			continue
		}
		q := ri.boost[ri.grid.Index(c.Row, c.Col)]
		if q == nil {
			continue
		}
		for _, bid := range q.IDs() {
			if b, ok := ri.ecs.Towers[bid]; ok {
				ri.link(bid, b, id)
			}
		}
	}
}

// link records one (boost, target) pair. A pair is counted once no matter how
// many target cells the boost footprint covers.
func (ri *RangeIndex) link(boostID types.EntityID, b *component.Tower, targetID types.EntityID) {
	t, ok := ri.ecs.Towers[targetID]
	if !ok || t.IsBoost() {
		return
	}
	if t.BoostSources == nil {
		t.BoostSources = make(map[types.EntityID]float64)
	}
	if _, linked := t.BoostSources[boostID]; linked {
		return
	}
	t.BoostSources[boostID] = b.Stats().Boost
	b.Boosts = append(b.Boosts, targetID)
}

// Deregister removes the tower from every cell it holds and unwinds boost links.
// Calling it twice is harmless.
func (ri *RangeIndex) Deregister(id types.EntityID) {
	t, ok := ri.ecs.Towers[id]
	if !ok {
		return
	}
	for _, i := range t.RangeCells {
		for _, lists := range [][]*entity.Queue{ri.complete, ri.reduced, ri.boost} {
			if q := lists[i]; q != nil {
				q.Remove(id)
			}
		}
	}
	t.RangeCells = nil
	t.InReduced = false

	if t.IsBoost() {
		for _, tid := range t.Boosts {
			if target, ok := ri.ecs.Towers[tid]; ok {
				delete(target.BoostSources, id)
			}
		}
		t.Boosts = nil
	} else {
		for bid := range t.BoostSources {
			if b, ok := ri.ecs.Towers[bid]; ok {
				b.Boosts = removeID(b.Boosts, id)
			}
		}
		t.BoostSources = nil
	}
	ri.log.WithField("tower", id).Debug("Deregistered tower")
}

// RefreshBoost rewrites the contribution of a boost tower after a level change.
func (ri *RangeIndex) RefreshBoost(id types.EntityID) {
	b, ok := ri.ecs.Towers[id]
	if !ok || !b.IsBoost() {
		return
	}
	for _, tid := range b.Boosts {
		if t, ok := ri.ecs.Towers[tid]; ok {
			t.BoostSources[id] = b.Stats().Boost
		}
	}
}

// Suspend takes the tower out of the reduced lists for a shot cycle.
// The complete lists are left alone.
func (ri *RangeIndex) Suspend(id types.EntityID) {
	t, ok := ri.ecs.Towers[id]
	if !ok || !t.InReduced {
		return
	}
	for _, i := range t.RangeCells {
		if q := ri.reduced[i]; q != nil {
			q.Remove(id)
		}
	}
	t.InReduced = false
}

// Resume puts a suspended tower back into the reduced lists.
func (ri *RangeIndex) Resume(id types.EntityID) {
	t, ok := ri.ecs.Towers[id]
	if !ok || t.InReduced || t.IsBoost() || t.IsSingleFire() || len(t.RangeCells) == 0 {
		return
	}
	for _, i := range t.RangeCells {
		cellQueue(ri.reduced, i).Add(id)
	}
	t.InReduced = true
}

// Query appends the towers able to fire at cell (r, c) to buf[:0].
func (ri *RangeIndex) Query(r, c int, buf []types.EntityID) []types.EntityID {
	if !ri.grid.InBounds(r, c) {
		return buf[:0]
	}
	q := ri.reduced[ri.grid.Index(r, c)]
	if q == nil {
		return buf[:0]
	}
	return q.Snapshot(buf)
}

// Complete returns every tower covering (r, c).
func (ri *RangeIndex) Complete(r, c int) []types.EntityID {
	if !ri.grid.InBounds(r, c) {
		return nil
	}
	if q := ri.complete[ri.grid.Index(r, c)]; q != nil {
		return q.IDs()
	}
	return nil
}

// Reduced returns the eligible towers covering (r, c).
func (ri *RangeIndex) Reduced(r, c int) []types.EntityID {
	return ri.Query(r, c, nil)
}

// Covers reports whether tower id's range includes cell (r, c).
func (ri *RangeIndex) Covers(id types.EntityID, r, c int) bool {
	if !ri.grid.InBounds(r, c) {
		return false
	}
	q := ri.complete[ri.grid.Index(r, c)]
	return q != nil && q.Has(id)
}

// CheckReducedSubset verifies reduced ⊆ complete on every cell. Offending
// entries are dropped from reduced. Returns the number of violations.
func (ri *RangeIndex) CheckReducedSubset() int {
	bad := 0
	for i, q := range ri.reduced {
		if q == nil || q.Len() == 0 {
			continue
		}
		for _, id := range q.IDs() {
			if c := ri.complete[i]; c != nil && c.Has(id) {
				continue
			}
			bad++
			invariantViolated("tower in reduced but not in complete", logrus.Fields{"tower": id, "cell": i})
			q.Remove(id)
		}
	}
	return bad
}

func removeID(ids []types.EntityID, id types.EntityID) []types.EntityID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
