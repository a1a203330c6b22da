// internal/types/types.go
package types

// EntityID identifies mobs, towers and projectiles in the arena.
// Tower ids are also written into grid cells, so they stay small positive ints.
type EntityID int

// None is the zero id; no entity ever gets it.
const None EntityID = 0
