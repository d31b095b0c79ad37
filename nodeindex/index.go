// Package nodeindex maintains the bidirectional mapping between external
// world ids and dense buffer positions.
//
// The index is rebuilt wholesale on each node ingestion: buffer position
// equals sequence position in the ingested id slice. For every indexed
// world id w, Reverse(Lookup([w])) round-trips to [w].
//
// The index is immutable after Build, so all read operations are safe for
// concurrent use.
package nodeindex

import (
	"fmt"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"golang.org/x/sync/errgroup"

	"github.com/spatialkit/graphbuf/core"
)

// parallelThreshold is the batch size above which Lookup shards the work
// across goroutines. Lookups are element-wise independent map reads.
const parallelThreshold = 4096

// ErrKeyNotFound indicates a world id absent from the index.
type ErrKeyNotFound struct {
	ID core.WorldID
}

func (e *ErrKeyNotFound) Error() string {
	return fmt.Sprintf("nodeindex: world id %d not found", e.ID)
}

// ErrDuplicateID indicates a world id that appears more than once in the
// ingested sequence.
type ErrDuplicateID struct {
	ID core.WorldID
}

func (e *ErrDuplicateID) Error() string {
	return fmt.Sprintf("nodeindex: duplicate world id %d", e.ID)
}

// Index maps world ids to buffer positions and back.
type Index struct {
	worldToBuffer map[core.WorldID]core.BufferPos
	bufferToWorld []core.WorldID
	members       *roaring64.Bitmap
}

// Build creates an index assigning buffer position = sequence position.
// Duplicate ids fail with *ErrDuplicateID before any caller-visible state
// exists.
func Build(ids []core.WorldID) (*Index, error) {
	ix := &Index{
		worldToBuffer: make(map[core.WorldID]core.BufferPos, len(ids)),
		bufferToWorld: make([]core.WorldID, len(ids)),
		members:       roaring64.New(),
	}
	for i, id := range ids {
		// The uint64 cast is a bijection, so negative ids are fine.
		if ix.members.Contains(uint64(id)) {
			return nil, &ErrDuplicateID{ID: id}
		}
		ix.members.Add(uint64(id))
		ix.worldToBuffer[id] = core.BufferPos(i)
		ix.bufferToWorld[i] = id
	}
	return ix, nil
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int { return len(ix.bufferToWorld) }

// Contains reports whether the world id is indexed.
func (ix *Index) Contains(id core.WorldID) bool {
	return ix.members.Contains(uint64(id))
}

// WorldIDs returns the indexed world ids in buffer-position order.
// The returned slice is shared; callers must not modify it.
func (ix *Index) WorldIDs() []core.WorldID { return ix.bufferToWorld }

// Lookup maps a batch of world ids to buffer positions. Any absent id fails
// the whole batch with *ErrKeyNotFound. Large batches are sharded across
// goroutines; results are written to disjoint ranges so no synchronization
// beyond the errgroup join is needed.
func (ix *Index) Lookup(ids []core.WorldID) ([]core.BufferPos, error) {
	out := make([]core.BufferPos, len(ids))
	if len(ids) >= parallelThreshold {
		if err := ix.lookupParallel(ids, out); err != nil {
			return nil, err
		}
		return out, nil
	}
	for i, id := range ids {
		pos, ok := ix.worldToBuffer[id]
		if !ok {
			return nil, &ErrKeyNotFound{ID: id}
		}
		out[i] = pos
	}
	return out, nil
}

func (ix *Index) lookupParallel(ids []core.WorldID, out []core.BufferPos) error {
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(ids) + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < len(ids); start += chunk {
		start := start
		end := min(start+chunk, len(ids))
		g.Go(func() error {
			for i := start; i < end; i++ {
				pos, ok := ix.worldToBuffer[ids[i]]
				if !ok {
					return &ErrKeyNotFound{ID: ids[i]}
				}
				out[i] = pos
			}
			return nil
		})
	}
	return g.Wait()
}

// Reverse maps buffer positions back to world ids by direct indexing.
// Positions must be in range; there is no failure mode for valid input.
func (ix *Index) Reverse(positions []core.BufferPos) []core.WorldID {
	out := make([]core.WorldID, len(positions))
	for i, p := range positions {
		out[i] = ix.bufferToWorld[p]
	}
	return out
}
