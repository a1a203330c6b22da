// internal/defs/offspring.go
package defs

// OffspringEntry представляет одну запись в таблице потомства.
// MobID - это ID моба, а Weight - его относительный шанс.
type OffspringEntry struct {
	MobID  string `json:"mob_id"`
	Weight int    `json:"weight"`
}

// OffspringTable describes what a spawner mob leaves behind when killed.
type OffspringTable struct {
	Count   int              `json:"count"`
	Entries []OffspringEntry `json:"entries"`
}
