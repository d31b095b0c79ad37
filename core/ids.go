// Package core defines the identifier types shared by all graphbuf packages.
package core

// WorldID is the caller-supplied, externally meaningful node identifier.
// It is a signed 64-bit integer and must be unique among active nodes.
type WorldID int64

// BufferPos is a dense, internal node position in [0, node count).
// It is assigned at ingestion time and is stable until the next full
// re-ingestion. Used for all hot-path structures (adjacency heads, slots).
type BufferPos int64

// SlotIndex addresses one fixed-width edge slot inside the slot arena.
// Slots are never moved, only relinked, so a SlotIndex stays valid until
// the slot is released back to the free list.
type SlotIndex int64

// EmptyIdx terminates every intrusive list (free list and adjacency lists)
// and marks "no head" in adjacency head arrays.
const EmptyIdx SlotIndex = -1

// Edge is one caller-level (logical) edge in world-id space.
type Edge struct {
	Src WorldID
	Tgt WorldID
}
