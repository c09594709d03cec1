package scene

// EntityID encodes both the slot generation (upper 32 bits) and the arena index (lower 32 bits).
// Generations start at 1, so no live entity ever has the zero ID.
type EntityID uint64

// NoEntity is the sentinel for "no entity": raycast misses, unset parents,
// absent cameras. It never resolves to a live entity.
const NoEntity EntityID = 0

// NewEntityID creates an EntityID from an arena index and slot generation
func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index extracts the arena index from the entity ID
func (e EntityID) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityID) Generation() uint32 {
	return uint32(e >> 32)
}
