package graphbuf

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/spatialkit/graphbuf/core"
	"github.com/spatialkit/graphbuf/internal/edgelist"
	"github.com/spatialkit/graphbuf/internal/slab"
	"github.com/spatialkit/graphbuf/nodeindex"
	"github.com/spatialkit/graphbuf/nodestore"
)

// queryParallelThreshold is the query batch size above which adjacency
// collection fans out across goroutines. Collection is a read-only walk per
// node, so disjoint query elements are independent.
const queryParallelThreshold = 256

// graph carries the state and orchestration shared by the undirected and
// directed facades: the node index, the coordinate store, the slot arena
// and the adjacency head arrays.
type graph struct {
	opts   Options
	logger *Logger

	arena *slab.Arena
	index *nodeindex.Index
	store *nodestore.Store

	srcHeads []core.SlotIndex
	tgtHeads []core.SlotIndex // directed graphs only

	directed bool

	// storedDirections preserves the historical counting behavior: one
	// increment per stored slot, i.e. two per undirected logical edge.
	// logicalEdges counts each caller-level edge once.
	storedDirections int64
	logicalEdges     int64
}

func newGraph(layout slab.Layout, directed bool, optFns ...func(o *Options)) graph {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = NoopLogger()
	}

	// Build of an empty id set cannot fail.
	ix, _ := nodeindex.Build(nil)

	g := graph{
		opts:     opts,
		logger:   logger,
		arena:    slab.New(layout, opts.EdgeCountHint),
		index:    ix,
		store:    nodestore.New(opts.DimensionHint, opts.NodeCountHint),
		directed: directed,
	}
	return g
}

// IngestNodes replaces the node set. The node index, adjacency heads and
// coordinate store are rebuilt wholesale (head arrays are reused when their
// capacity suffices); the edge arena keeps its capacity but all slots return
// to the free list. Validation failures leave the graph untouched.
//
// coords must have one row per id with a consistent width, or be nil for
// graphs that carry no coordinates. Ingestion adapts the store dimension to
// the incoming rows.
func (g *graph) IngestNodes(ids []core.WorldID, coords [][]float32) error {
	if coords != nil && len(coords) != len(ids) {
		return fmt.Errorf("%w: %d coordinate rows for %d nodes", ErrValidation, len(coords), len(ids))
	}

	ix, err := nodeindex.Build(ids)
	if err != nil {
		return translateError(err)
	}

	store := g.store
	if len(coords) > 0 && len(coords[0]) != store.Dimension() {
		store = nodestore.New(len(coords[0]), len(coords))
	}
	if err := store.Reset(coords); err != nil {
		return translateError(err)
	}

	// Validation passed; commit.
	g.index = ix
	g.store = store
	g.srcHeads = resetHeads(g.srcHeads, len(ids))
	if g.directed {
		g.tgtHeads = resetHeads(g.tgtHeads, len(ids))
	}
	g.arena.Reset()
	g.storedDirections = 0
	g.logicalEdges = 0

	g.logger.WithNodes(len(ids)).Debug("ingested nodes", "dimension", g.store.Dimension())
	return nil
}

// resetHeads returns a head array of length n with every entry empty,
// reusing the backing array when it is large enough.
func resetHeads(heads []core.SlotIndex, n int) []core.SlotIndex {
	if cap(heads) < n {
		heads = make([]core.SlotIndex, n)
	} else {
		heads = heads[:n]
	}
	for i := range heads {
		heads[i] = core.EmptyIdx
	}
	return heads
}

// addEdges looks the whole batch up front (no mutation on unknown ids),
// pre-grows the arena so allocation failure stays a defensive path, then
// inserts in input order. The batch is non-atomic: on failure it reports
// the number of logical edges already committed.
func (g *graph) addEdges(edges []core.Edge, insert func(src, tgt core.BufferPos) error, perEdge int64) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}
	pos, err := g.lookupPairs(edges)
	if err != nil {
		return 0, err
	}

	dup := g.arena.Layout().Duplication
	if need := len(edges) - g.arena.FreeSlots()/dup; need > 0 {
		g.logger.WithEdges(g.logicalEdges).Debug("growing edge buffer",
			"capacity", g.arena.Capacity(), "additional", need)
		if err := g.arena.Grow(need); err != nil {
			return 0, err
		}
	}

	inserted := 0
	for i := range edges {
		if err := insert(pos[2*i], pos[2*i+1]); err != nil {
			return inserted, translateError(err)
		}
		inserted++
		g.storedDirections += perEdge
		g.logicalEdges++
	}
	return inserted, nil
}

// removeEdges applies the single-edge removal algorithm per input pair.
// Default policy is fail-fast: the first missing edge stops the batch and
// the count of edges already removed is reported. With SkipMissingEdges the
// pair is skipped and the batch continues.
func (g *graph) removeEdges(edges []core.Edge, remove func(src, tgt core.BufferPos) error, perEdge int64) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}
	pos, err := g.lookupPairs(edges)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range edges {
		if err := remove(pos[2*i], pos[2*i+1]); err != nil {
			var nf *edgelist.ErrEdgeNotFound
			if errors.As(err, &nf) {
				if g.opts.SkipMissingEdges {
					continue
				}
				return removed, fmt.Errorf("%w: (%d, %d)", ErrEdgeNotFound, edges[i].Src, edges[i].Tgt)
			}
			return removed, translateError(err)
		}
		removed++
		g.storedDirections -= perEdge
		g.logicalEdges--
	}
	return removed, nil
}

// lookupPairs maps an edge batch to buffer positions, flattened as
// (src, tgt, src, tgt, ...).
func (g *graph) lookupPairs(edges []core.Edge) ([]core.BufferPos, error) {
	flat := make([]core.WorldID, 0, len(edges)*2)
	for _, e := range edges {
		flat = append(flat, e.Src, e.Tgt)
	}
	pos, err := g.index.Lookup(flat)
	if err != nil {
		return nil, translateError(err)
	}
	return pos, nil
}

// edgesFromFlat validates and reshapes a flat (src, tgt, src, tgt, ...)
// sequence into edge pairs.
func edgesFromFlat(flat []core.WorldID) ([]core.Edge, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("%w: edge list length %d is not a sequence of pairs", ErrValidation, len(flat))
	}
	edges := make([]core.Edge, len(flat)/2)
	for i := range edges {
		edges[i] = core.Edge{Src: flat[2*i], Tgt: flat[2*i+1]}
	}
	return edges, nil
}

// collectEdges walks the adjacency lists of the queried world ids and
// remaps the results back to world-id space. Large query batches fan out
// across goroutines writing to disjoint result ranges.
func (g *graph) collectEdges(ids []core.WorldID, heads []core.SlotIndex, linkPos int) ([][]core.Edge, error) {
	nodes, err := g.index.Lookup(ids)
	if err != nil {
		return nil, translateError(err)
	}

	out := make([][]core.Edge, len(nodes))
	if len(nodes) < queryParallelThreshold {
		if err := g.collectRange(nodes, out, heads, linkPos); err != nil {
			return nil, err
		}
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(nodes) + workers - 1) / workers
	var eg errgroup.Group
	for start := 0; start < len(nodes); start += chunk {
		start := start
		end := min(start+chunk, len(nodes))
		eg.Go(func() error {
			return g.collectRange(nodes[start:end], out[start:end], heads, linkPos)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *graph) collectRange(nodes []core.BufferPos, out [][]core.Edge, heads []core.SlotIndex, linkPos int) error {
	for i, n := range nodes {
		flat, err := edgelist.CollectOne(g.arena, heads[n], linkPos)
		if err != nil {
			return translateError(err)
		}
		world := g.index.Reverse(flat)
		pairs := make([]core.Edge, len(world)/2)
		for j := range pairs {
			pairs[j] = core.Edge{Src: world[2*j], Tgt: world[2*j+1]}
		}
		out[i] = pairs
	}
	return nil
}

// NodeCount returns the number of nodes in the current node set.
func (g *graph) NodeCount() int { return g.index.Len() }

// HasNode reports whether the world id is part of the current node set.
func (g *graph) HasNode(id core.WorldID) bool { return g.index.Contains(id) }

// WorldIDs returns the active world ids in buffer-position order.
// The returned slice is shared; callers must not modify it.
func (g *graph) WorldIDs() []core.WorldID { return g.index.WorldIDs() }

// AllocatedEdges returns the logical-edge capacity of the slot arena.
func (g *graph) AllocatedEdges() int { return g.arena.Capacity() }

// FreeSlots returns the number of unallocated edge slots.
func (g *graph) FreeSlots() int { return g.arena.FreeSlots() }

// EdgeCount counts stored edge directions: an undirected logical edge
// contributes two, a directed one. Kept for compatibility with callers of
// the historical counter; see LogicalEdgeCount for per-edge counting.
func (g *graph) EdgeCount() int64 { return g.storedDirections }

// LogicalEdgeCount counts each caller-level edge exactly once.
func (g *graph) LogicalEdgeCount() int64 { return g.logicalEdges }

// CoordinatesOf returns the coordinate rows of the queried world ids.
// The rows alias internal memory; do not modify. Querying a node set that
// was ingested without coordinates fails with ErrValidation.
func (g *graph) CoordinatesOf(ids []core.WorldID) ([][]float32, error) {
	nodes, err := g.index.Lookup(ids)
	if err != nil {
		return nil, translateError(err)
	}
	if len(nodes) > 0 && g.store.Count() == 0 {
		return nil, fmt.Errorf("%w: node set carries no coordinates", ErrValidation)
	}
	rows := make([][]float32, len(nodes))
	for i, n := range nodes {
		rows[i] = g.store.Row(int(n))
	}
	return rows, nil
}

// SetFeature attaches an opaque per-node feature column, indexed by buffer
// position, to the current node set. Columns are dropped on re-ingestion.
func (g *graph) SetFeature(name string, column []float64) error {
	return translateError(g.store.SetFeature(name, column))
}

// Feature returns the feature column with the given name.
func (g *graph) Feature(name string) ([]float64, bool) {
	return g.store.Feature(name)
}

// Stats is a point-in-time snapshot of graph storage counters.
type Stats struct {
	Nodes            int
	LogicalEdges     int64
	StoredDirections int64
	AllocatedEdges   int
	FreeSlots        int
	Dimension        int
}

// Stats returns a snapshot of the storage counters.
func (g *graph) Stats() Stats {
	return Stats{
		Nodes:            g.index.Len(),
		LogicalEdges:     g.logicalEdges,
		StoredDirections: g.storedDirections,
		AllocatedEdges:   g.arena.Capacity(),
		FreeSlots:        g.arena.FreeSlots(),
		Dimension:        g.store.Dimension(),
	}
}
