// Package slab implements the flat edge-slot arena that backs graph
// adjacency storage.
//
// The arena is a single []int64 divided into fixed-width slots. Each slot
// stores one directed occurrence of an edge plus one or two intrusive link
// fields. Unallocated slots are threaded into a singly-linked free list
// through the primary link field, so allocation and release are O(1) and
// the arena performs no per-edge heap allocations.
//
// Slots are never relocated: growth appends fresh slots and splices them
// onto the free list, leaving every live SlotIndex and slot content intact.
//
// # Concurrency Model
//
// The arena is single-writer. Allocate, Release, Grow and the Set* accessors
// require exclusive access; read accessors are safe to call concurrently as
// long as no mutation is in flight.
package slab

import (
	"errors"
	"fmt"

	"github.com/spatialkit/graphbuf/core"
)

var (
	// ErrBufferFull is returned by Allocate when the free list is exhausted.
	ErrBufferFull = errors.New("slab: no free edge slots")

	// ErrInvalidGrowth is returned by Grow when the requested capacity does
	// not exceed the current capacity. The arena never shrinks.
	ErrInvalidGrowth = errors.New("slab: new capacity must exceed current capacity")
)

// ErrInvalidIndex indicates a corrupt or out-of-range slot pointer found
// while following an intrusive list. It signals an internal consistency
// violation, not a recoverable condition.
type ErrInvalidIndex struct {
	Index core.SlotIndex
}

func (e *ErrInvalidIndex) Error() string {
	return fmt.Sprintf("slab: corrupt slot pointer %d", e.Index)
}

// Field positions shared by every slot layout.
const (
	// FieldSrc holds the buffer position the slot is stored under.
	FieldSrc = 0
	// FieldTgt holds the buffer position of the opposite endpoint.
	FieldTgt = 1
)

// Layout describes the fixed slot geometry for one edge kind.
type Layout struct {
	// Width is the number of int64 fields per slot.
	Width int
	// LinkPos is the position of the primary link field. The free list and
	// the (source-side) adjacency lists are threaded through it.
	LinkPos int
	// TgtLinkPos is the position of the secondary link field used by the
	// target-side adjacency lists of directed slots, or -1 when unused.
	TgtLinkPos int
	// Duplication is the number of slots one logical edge occupies.
	Duplication int
}

// Slot layouts for the two graph kinds. An undirected logical edge is stored
// twice, once per endpoint list; a directed edge is stored once but carries
// two link fields and participates in two lists.
var (
	Undirected = Layout{Width: 3, LinkPos: 2, TgtLinkPos: -1, Duplication: 2}
	Directed   = Layout{Width: 4, LinkPos: 2, TgtLinkPos: 3, Duplication: 1}
)

// Arena is the flat slot buffer plus its intrusive free list.
type Arena struct {
	layout   Layout
	buf      []int64
	freeHead core.SlotIndex
	free     int // slots currently on the free list
}

// New creates an arena with capacity for the given number of logical edges.
// A zero capacity is valid; the first Grow call provisions the buffer.
func New(layout Layout, capacity int) *Arena {
	a := &Arena{layout: layout, freeHead: core.EmptyIdx}
	if capacity > 0 {
		// Cannot fail: capacity is strictly positive.
		_ = a.Grow(capacity)
	}
	return a
}

// Layout returns the slot geometry the arena was created with.
func (a *Arena) Layout() Layout { return a.layout }

// SlotCount returns the total number of slots, free or live.
func (a *Arena) SlotCount() int { return len(a.buf) / a.layout.Width }

// Capacity returns the number of logical edges the arena can hold.
func (a *Arena) Capacity() int { return a.SlotCount() / a.layout.Duplication }

// FreeSlots returns the number of slots on the free list.
func (a *Arena) FreeSlots() int { return a.free }

// Allocate pops a slot off the free list. It returns ErrBufferFull when the
// free list is exhausted and *ErrInvalidIndex when the free head has been
// corrupted; EmptyIdx is never a valid slot for the caller.
func (a *Arena) Allocate() (core.SlotIndex, error) {
	s := a.freeHead
	if s == core.EmptyIdx {
		return core.EmptyIdx, ErrBufferFull
	}
	if s < 0 || int(s) >= a.SlotCount() {
		return core.EmptyIdx, &ErrInvalidIndex{Index: s}
	}
	a.freeHead = a.Link(s, a.layout.LinkPos)
	a.free--
	return s, nil
}

// Release pushes a slot back onto the free list. Reuse is LIFO: the most
// recently released slot is handed out first.
func (a *Arena) Release(s core.SlotIndex) {
	a.SetLink(s, a.layout.LinkPos, a.freeHead)
	a.freeHead = s
	a.free++
}

// Grow appends capacity for additional logical edges. The fresh slots are
// threaded into a sub-chain that is concatenated onto the current free list.
// Existing slot indices and contents are never relocated.
func (a *Arena) Grow(additional int) error {
	if additional <= 0 {
		return ErrInvalidGrowth
	}
	oldSlots := a.SlotCount()
	newSlots := oldSlots + additional*a.layout.Duplication

	grown := make([]int64, newSlots*a.layout.Width)
	copy(grown, a.buf)
	for i := oldSlots * a.layout.Width; i < len(grown); i++ {
		grown[i] = int64(core.EmptyIdx)
	}
	a.buf = grown

	for s := oldSlots; s < newSlots-1; s++ {
		a.buf[s*a.layout.Width+a.layout.LinkPos] = int64(s + 1)
	}
	a.buf[(newSlots-1)*a.layout.Width+a.layout.LinkPos] = int64(a.freeHead)
	a.freeHead = core.SlotIndex(oldSlots)
	a.free += newSlots - oldSlots
	return nil
}

// Reset returns every slot to the free list and clears slot contents.
// Capacity is retained.
func (a *Arena) Reset() {
	for i := range a.buf {
		a.buf[i] = int64(core.EmptyIdx)
	}
	n := a.SlotCount()
	if n == 0 {
		a.freeHead = core.EmptyIdx
		a.free = 0
		return
	}
	for s := 0; s < n-1; s++ {
		a.buf[s*a.layout.Width+a.layout.LinkPos] = int64(s + 1)
	}
	a.freeHead = 0
	a.free = n
}

// Src returns the stored-under endpoint of a slot.
func (a *Arena) Src(s core.SlotIndex) core.BufferPos {
	return core.BufferPos(a.buf[int(s)*a.layout.Width+FieldSrc])
}

// Tgt returns the opposite endpoint of a slot.
func (a *Arena) Tgt(s core.SlotIndex) core.BufferPos {
	return core.BufferPos(a.buf[int(s)*a.layout.Width+FieldTgt])
}

// Endpoint returns the slot field at the given endpoint position
// (FieldSrc or FieldTgt).
func (a *Arena) Endpoint(s core.SlotIndex, pos int) core.BufferPos {
	return core.BufferPos(a.buf[int(s)*a.layout.Width+pos])
}

// SetEndpoints writes both endpoints of a slot.
func (a *Arena) SetEndpoints(s core.SlotIndex, src, tgt core.BufferPos) {
	base := int(s) * a.layout.Width
	a.buf[base+FieldSrc] = int64(src)
	a.buf[base+FieldTgt] = int64(tgt)
}

// Link returns the link field of a slot at the given position.
func (a *Arena) Link(s core.SlotIndex, pos int) core.SlotIndex {
	return core.SlotIndex(a.buf[int(s)*a.layout.Width+pos])
}

// SetLink writes the link field of a slot at the given position.
func (a *Arena) SetLink(s core.SlotIndex, pos int, next core.SlotIndex) {
	a.buf[int(s)*a.layout.Width+pos] = int64(next)
}
