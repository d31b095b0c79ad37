package graphbuf

import (
	"github.com/spatialkit/graphbuf/core"
	"github.com/spatialkit/graphbuf/internal/edgelist"
	"github.com/spatialkit/graphbuf/internal/slab"
)

// Undirected is a graph whose edges have no orientation. Each logical edge
// occupies two slots, one in the adjacency list of either endpoint.
type Undirected struct {
	graph
}

// NewUndirected creates an empty undirected graph.
func NewUndirected(optFns ...func(o *Options)) *Undirected {
	return &Undirected{graph: newGraph(slab.Undirected, false, optFns...)}
}

// AddEdges inserts a batch of logical edges in input order, growing the
// slot arena beforehand if needed. It returns the number of logical edges
// committed; on error the graph holds exactly those edges (non-atomic
// batch contract).
func (u *Undirected) AddEdges(edges []core.Edge) (int, error) {
	return u.addEdges(edges, func(src, tgt core.BufferPos) error {
		return edgelist.InsertUndirected(u.arena, u.srcHeads, src, tgt)
	}, 2)
}

// AddEdgeList is AddEdges over a flat (src, tgt, src, tgt, ...) sequence.
// An odd-length sequence fails with ErrValidation before any mutation.
func (u *Undirected) AddEdgeList(flat []core.WorldID) (int, error) {
	edges, err := edgesFromFlat(flat)
	if err != nil {
		return 0, err
	}
	return u.AddEdges(edges)
}

// RemoveEdges removes a batch of logical edges, releasing two slots per
// edge. Orientation of the input pairs is irrelevant. It returns the number
// of edges removed; see Options.SkipMissingEdges for the missing-edge
// policy.
func (u *Undirected) RemoveEdges(edges []core.Edge) (int, error) {
	return u.removeEdges(edges, func(src, tgt core.BufferPos) error {
		return edgelist.RemoveUndirected(u.arena, u.srcHeads, src, tgt)
	}, 2)
}

// RemoveEdgeList is RemoveEdges over a flat (src, tgt, ...) sequence.
func (u *Undirected) RemoveEdgeList(flat []core.WorldID) (int, error) {
	edges, err := edgesFromFlat(flat)
	if err != nil {
		return 0, err
	}
	return u.RemoveEdges(edges)
}

// Edges returns, for each queried world id, its incident edges as
// (id, neighbor) pairs in most-recently-inserted-first order. Nodes without
// edges yield an empty sequence.
func (u *Undirected) Edges(ids []core.WorldID) ([][]core.Edge, error) {
	return u.collectEdges(ids, u.srcHeads, u.arena.Layout().LinkPos)
}
