// internal/entity/queue.go
package entity

import (
	"container/list"

	"go-tower-defense-sim/internal/types"
)

// Queue is an insertion-ordered id set with O(1) add, remove and lookup.
// Iterate it through Snapshot so that removals during a pass are safe.
type Queue struct {
	order *list.List
	index map[types.EntityID]*list.Element
}

func NewQueue() *Queue {
	return &Queue{
		order: list.New(),
		index: make(map[types.EntityID]*list.Element),
	}
}

// Add appends id if absent. Returns false when it was already queued.
func (q *Queue) Add(id types.EntityID) bool {
	if _, ok := q.index[id]; ok {
		return false
	}
	q.index[id] = q.order.PushBack(id)
	return true
}

// Remove drops id if present.
func (q *Queue) Remove(id types.EntityID) bool {
	el, ok := q.index[id]
	if !ok {
		return false
	}
	q.order.Remove(el)
	delete(q.index, id)
	return true
}

func (q *Queue) Has(id types.EntityID) bool {
	_, ok := q.index[id]
	return ok
}

func (q *Queue) Len() int { return len(q.index) }

// Snapshot appends the ids in order to buf[:0] and returns it.
func (q *Queue) Snapshot(buf []types.EntityID) []types.EntityID {
	buf = buf[:0]
	for el := q.order.Front(); el != nil; el = el.Next() {
		buf = append(buf, el.Value.(types.EntityID))
	}
	return buf
}

// IDs returns a fresh ordered copy.
func (q *Queue) IDs() []types.EntityID {
	return q.Snapshot(make([]types.EntityID, 0, q.Len()))
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.order.Init()
	q.index = make(map[types.EntityID]*list.Element)
}
