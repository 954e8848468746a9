// Package simworld holds the entity data model: persons, factions,
// settlements, regions, armies, buildings, items, knowledge, religions,
// cultures, and diseases, plus the World container that wires them to the
// core pipeline (clock, id generator, entity map, relationship graph,
// event log, RNG pool).
package simworld

// Base carries the fields every entity shares: a stable sim id, a human
// name, an origin timestamp, and an end timestamp (nil while alive).
// Liveness is exactly end == nil.
type Base struct {
	SimID  uint64  `json:"sim_id"`
	Name   string  `json:"name"`
	Origin uint64  `json:"origin"` // simclock minute of creation
	End    *uint64 `json:"end,omitempty"`
}

// Alive reports whether the entity is still alive (end is unset).
func (b Base) Alive() bool {
	return b.End == nil
}
