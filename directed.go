package graphbuf

import (
	"github.com/spatialkit/graphbuf/core"
	"github.com/spatialkit/graphbuf/internal/edgelist"
	"github.com/spatialkit/graphbuf/internal/slab"
)

// Directed is a graph whose edges are oriented. Each logical edge occupies
// a single slot carrying two link fields: one threads the slot into the
// outgoing list of its source, the other into the incoming list of its
// target.
type Directed struct {
	graph
}

// NewDirected creates an empty directed graph.
func NewDirected(optFns ...func(o *Options)) *Directed {
	return &Directed{graph: newGraph(slab.Directed, true, optFns...)}
}

// AddEdges inserts a batch of logical edges in input order, growing the
// slot arena beforehand if needed. It returns the number of logical edges
// committed; on error the graph holds exactly those edges (non-atomic
// batch contract).
func (d *Directed) AddEdges(edges []core.Edge) (int, error) {
	return d.addEdges(edges, func(src, tgt core.BufferPos) error {
		return edgelist.InsertDirected(d.arena, d.srcHeads, d.tgtHeads, src, tgt)
	}, 1)
}

// AddEdgeList is AddEdges over a flat (src, tgt, src, tgt, ...) sequence.
// An odd-length sequence fails with ErrValidation before any mutation.
func (d *Directed) AddEdgeList(flat []core.WorldID) (int, error) {
	edges, err := edgesFromFlat(flat)
	if err != nil {
		return 0, err
	}
	return d.AddEdges(edges)
}

// RemoveEdges removes a batch of logical edges, releasing one slot per
// edge. Pairs are matched with their orientation: removing (u, v) does not
// touch a separately inserted (v, u). It returns the number of edges
// removed; see Options.SkipMissingEdges for the missing-edge policy.
func (d *Directed) RemoveEdges(edges []core.Edge) (int, error) {
	return d.removeEdges(edges, func(src, tgt core.BufferPos) error {
		return edgelist.RemoveDirected(d.arena, d.srcHeads, d.tgtHeads, src, tgt)
	}, 1)
}

// RemoveEdgeList is RemoveEdges over a flat (src, tgt, ...) sequence.
func (d *Directed) RemoveEdgeList(flat []core.WorldID) (int, error) {
	edges, err := edgesFromFlat(flat)
	if err != nil {
		return 0, err
	}
	return d.RemoveEdges(edges)
}

// SourceEdges returns, for each queried world id, the edges leaving it as
// (id, target) pairs in most-recently-inserted-first order.
func (d *Directed) SourceEdges(ids []core.WorldID) ([][]core.Edge, error) {
	return d.collectEdges(ids, d.srcHeads, d.arena.Layout().LinkPos)
}

// TargetEdges returns, for each queried world id, the edges entering it as
// (source, id) pairs in most-recently-inserted-first order.
func (d *Directed) TargetEdges(ids []core.WorldID) ([][]core.Edge, error) {
	return d.collectEdges(ids, d.tgtHeads, d.arena.Layout().TgtLinkPos)
}
