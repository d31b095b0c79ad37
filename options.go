package graphbuf

// Options configures a graph at construction time.
//
// The hints size initial allocations only; every structure grows on demand,
// so an undersized hint costs reallocation, never correctness.
type Options struct {
	// NodeCountHint pre-sizes node-indexed storage (coordinate rows,
	// adjacency heads).
	NodeCountHint int

	// DimensionHint is the expected coordinate dimensionality. Ingestion
	// adapts the store when the actual rows differ.
	DimensionHint int

	// EdgeCountHint pre-sizes the edge slot arena in logical edges.
	EdgeCountHint int

	// SkipMissingEdges switches batch removal from fail-fast (default:
	// stop at the first edge absent from the graph) to skip-and-continue.
	SkipMissingEdges bool

	// Logger receives structured growth/ingestion events. Nil disables
	// logging.
	Logger *Logger
}

// DefaultOptions are the zero-configuration defaults. The edge arena starts
// small but nonzero so the first inserts do not immediately grow the buffer.
var DefaultOptions = Options{
	EdgeCountHint: 64,
}
