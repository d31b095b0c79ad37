// Package edgelist implements the insertion, removal and iteration
// algorithms for intrusive adjacency lists threaded through a slab arena.
//
// Every function operates purely on buffer positions and slot indices; the
// world-id remapping happens in the facades. New slots are always pushed at
// the list head, so iteration yields neighbors most-recently-inserted-first.
package edgelist

import (
	"fmt"

	"github.com/spatialkit/graphbuf/core"
	"github.com/spatialkit/graphbuf/internal/slab"
)

// ErrEdgeNotFound indicates a removal target absent from the adjacency list
// it was searched in. Endpoints are reported in buffer-position space.
type ErrEdgeNotFound struct {
	Src core.BufferPos
	Tgt core.BufferPos
}

func (e *ErrEdgeNotFound) Error() string {
	return fmt.Sprintf("edgelist: edge (%d, %d) not found", e.Src, e.Tgt)
}

// InsertUndirected stores one logical undirected edge as two slots, one
// pushed onto the head of each endpoint's list.
func InsertUndirected(a *slab.Arena, heads []core.SlotIndex, src, tgt core.BufferPos) error {
	s, err := a.Allocate()
	if err != nil {
		return err
	}
	link := a.Layout().LinkPos
	a.SetEndpoints(s, src, tgt)
	a.SetLink(s, link, heads[src])
	heads[src] = s

	t, err := a.Allocate()
	if err != nil {
		// Undo the half-inserted direction so a logical edge is all or nothing.
		heads[src] = a.Link(s, link)
		a.Release(s)
		return err
	}
	a.SetEndpoints(t, tgt, src)
	a.SetLink(t, link, heads[tgt])
	heads[tgt] = t
	return nil
}

// InsertDirected stores one logical directed edge as a single slot that is
// pushed onto the head of the source list of src and, through its second
// link field, onto the head of the target list of tgt.
func InsertDirected(a *slab.Arena, srcHeads, tgtHeads []core.SlotIndex, src, tgt core.BufferPos) error {
	s, err := a.Allocate()
	if err != nil {
		return err
	}
	lay := a.Layout()
	a.SetEndpoints(s, src, tgt)
	a.SetLink(s, lay.LinkPos, srcHeads[src])
	a.SetLink(s, lay.TgtLinkPos, tgtHeads[tgt])
	srcHeads[src] = s
	tgtHeads[tgt] = s
	return nil
}

// splice unlinks the first slot in owner's list whose endpoint field at
// matchPos equals needle, relinking the predecessor (or the head itself)
// past it. The slot is detached from this list only, not released.
func splice(a *slab.Arena, heads []core.SlotIndex, owner core.BufferPos, linkPos, matchPos int, needle core.BufferPos) (core.SlotIndex, error) {
	idx := heads[owner]
	prev := core.EmptyIdx
	for idx != core.EmptyIdx {
		if idx < 0 || int(idx) >= a.SlotCount() {
			return core.EmptyIdx, &slab.ErrInvalidIndex{Index: idx}
		}
		next := a.Link(idx, linkPos)
		if a.Endpoint(idx, matchPos) == needle {
			if prev == core.EmptyIdx {
				heads[owner] = next
			} else {
				a.SetLink(prev, linkPos, next)
			}
			return idx, nil
		}
		prev = idx
		idx = next
	}
	return core.EmptyIdx, &ErrEdgeNotFound{Src: owner, Tgt: needle}
}

// RemoveUndirected splices out both stored directions of an undirected edge
// and releases their slots independently. A miss on the first side
// propagates immediately; the second side is never silently skipped.
func RemoveUndirected(a *slab.Arena, heads []core.SlotIndex, src, tgt core.BufferPos) error {
	link := a.Layout().LinkPos

	// The (tgt, src, ...) slot lives in tgt's list.
	s, err := splice(a, heads, tgt, link, slab.FieldTgt, src)
	if err != nil {
		if nf, ok := err.(*ErrEdgeNotFound); ok {
			nf.Src, nf.Tgt = src, tgt
		}
		return err
	}
	a.Release(s)

	t, err := splice(a, heads, src, link, slab.FieldTgt, tgt)
	if err != nil {
		return err
	}
	a.Release(t)
	return nil
}

// RemoveDirected splices the edge's single slot out of the target list of
// tgt and the source list of src; both splices act on the same slot, which
// is released exactly once after both succeed.
func RemoveDirected(a *slab.Arena, srcHeads, tgtHeads []core.SlotIndex, src, tgt core.BufferPos) error {
	lay := a.Layout()

	s, err := splice(a, tgtHeads, tgt, lay.TgtLinkPos, slab.FieldSrc, src)
	if err != nil {
		if nf, ok := err.(*ErrEdgeNotFound); ok {
			nf.Src, nf.Tgt = src, tgt
		}
		return err
	}
	t, err := splice(a, srcHeads, src, lay.LinkPos, slab.FieldTgt, tgt)
	if err != nil {
		return err
	}
	if s != t {
		// Dual-membership invariant broken: the two lists disagree on which
		// slot stores this edge.
		return &slab.ErrInvalidIndex{Index: t}
	}
	a.Release(s)
	return nil
}

// Collect walks the adjacency list of each queried node from its head to
// the terminator, gathering endpoint pairs most-recent-first as a flat
// (src, tgt, src, tgt, ...) sequence. An empty list yields an empty
// sequence, never an error. Re-walking the same heads reproduces the same
// order as long as no mutation intervened.
func Collect(a *slab.Arena, heads []core.SlotIndex, linkPos int, nodes []core.BufferPos) ([][]core.BufferPos, error) {
	out := make([][]core.BufferPos, len(nodes))
	for i, n := range nodes {
		pairs, err := CollectOne(a, heads[n], linkPos)
		if err != nil {
			return nil, err
		}
		out[i] = pairs
	}
	return out, nil
}

// CollectOne walks a single adjacency list starting at head.
func CollectOne(a *slab.Arena, head core.SlotIndex, linkPos int) ([]core.BufferPos, error) {
	var pairs []core.BufferPos
	for idx := head; idx != core.EmptyIdx; idx = a.Link(idx, linkPos) {
		if idx < 0 || int(idx) >= a.SlotCount() {
			return nil, &slab.ErrInvalidIndex{Index: idx}
		}
		pairs = append(pairs, a.Src(idx), a.Tgt(idx))
	}
	return pairs, nil
}
