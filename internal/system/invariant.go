// internal/system/invariant.go
package system

import (
	"go-tower-defense-sim/internal/entity"

	"github.com/sirupsen/logrus"
)

// InvariantSystem checks the end-of-tick invariants. In release builds broken
// values are clamped and logged.
type InvariantSystem struct {
	ecs   *entity.ECS
	index *RangeIndex
}

func NewInvariantSystem(ecs *entity.ECS, index *RangeIndex) *InvariantSystem {
	return &InvariantSystem{ecs: ecs, index: index}
}

// Check returns the number of violations found.
func (s *InvariantSystem) Check() int {
	bad := 0
	for id, m := range s.ecs.Mobs {
		h := &m.Health
		if h.Value > h.Max {
			bad++
			invariantViolated("life above max", logrus.Fields{"mob": id, "life": h.Value, "max": h.Max})
			h.Value = h.Max
		}
		if h.Pool > h.Value {
			bad++
			invariantViolated("pool above life", logrus.Fields{"mob": id, "pool": h.Pool, "life": h.Value})
			h.Pool = h.Value
		}
		if n := s.ecs.MobQueues(id); n != 1 {
			bad++
			invariantViolated("mob not in exactly one lifecycle queue", logrus.Fields{"mob": id, "queues": n})
		}
	}
	bad += s.index.CheckReducedSubset()
	return bad
}
