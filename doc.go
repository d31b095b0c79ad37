// Package graphbuf provides an in-memory graph storage engine optimized for
// large, dynamically mutated node/edge sets with bounded-time insertion,
// removal and one-hop adjacency traversal.
//
// Nodes carry an external ("world") int64 identity and are ingested as a
// batch together with optional coordinate rows. Edges live in a flat slot
// buffer threaded with intrusive linked lists, so edge mutation never
// allocates per edge and adjacency queries touch contiguous memory.
//
// # Quick Start
//
//	g := graphbuf.NewUndirected(func(o *graphbuf.Options) {
//	    o.DimensionHint = 2
//	    o.EdgeCountHint = 1024
//	})
//
//	_ = g.IngestNodes(
//	    []core.WorldID{10, 20, 30},
//	    [][]float32{{0, 0}, {1, 0}, {1, 1}},
//	)
//
//	n, _ := g.AddEdges([]core.Edge{{Src: 10, Tgt: 20}, {Src: 20, Tgt: 30}})
//	_ = n // logical edges committed
//
//	neighbors, _ := g.Edges([]core.WorldID{20})
//	// neighbors[0] == [{20 30} {20 10}]  (most recently inserted first)
//
// Directed graphs expose SourceEdges and TargetEdges instead of Edges; a
// directed edge occupies a single slot that participates in both lists.
//
// # Concurrency Model
//
// Mutating operations (IngestNodes, AddEdges, RemoveEdges) assume exclusive
// access and are not internally synchronized. Read-only batch queries have
// no side effects and may run concurrently with each other; large batches
// are sharded across goroutines internally.
package graphbuf
