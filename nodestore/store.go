// Package nodestore holds per-node coordinate and feature columns.
//
// The graph core never interprets this data; it is opaque passthrough state
// keyed by buffer position and rebuilt together with the node index on each
// ingestion.
package nodestore

import "fmt"

// ErrDimensionMismatch indicates a coordinate row whose width disagrees
// with the store's dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("nodestore: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Store is a columnar coordinate store.
//
// Coordinates live contiguously in a single []float32 slice, so row access
// is O(1) and sequential scans are cache-friendly. Feature columns are
// opaque float64 slices indexed by buffer position.
type Store struct {
	dim   int
	data  []float32 // row i = data[i*dim : (i+1)*dim]
	count int
	feats map[string][]float64
}

// New creates a store for dim-dimensional coordinates with room for
// capacity nodes pre-allocated.
func New(dim, capacity int) *Store {
	if dim < 0 {
		dim = 0
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		dim:   dim,
		data:  make([]float32, 0, capacity*dim),
		feats: make(map[string][]float64),
	}
}

// Dimension returns the coordinate dimensionality.
func (s *Store) Dimension() int { return s.dim }

// Count returns the number of stored rows.
func (s *Store) Count() int { return s.count }

// Reset replaces the store contents with the given coordinate rows, one per
// buffer position. The backing array is reused when capacity suffices. All
// feature columns are dropped: they are only meaningful for the node set
// they were ingested with.
//
// Resetting with no rows clears the dimension as well: a store without rows
// has no dimensionality, regardless of how it was sized at construction.
func (s *Store) Reset(coords [][]float32) error {
	need := 0
	for _, row := range coords {
		if len(row) != s.dim {
			return &ErrDimensionMismatch{Expected: s.dim, Actual: len(row)}
		}
		need += len(row)
	}
	if len(coords) == 0 {
		s.dim = 0
	}

	if cap(s.data) < need {
		s.data = make([]float32, 0, need)
	} else {
		s.data = s.data[:0]
	}
	for _, row := range coords {
		s.data = append(s.data, row...)
	}
	s.count = len(coords)
	s.feats = make(map[string][]float64)
	return nil
}

// Row returns the coordinate row at the given buffer position, or nil when
// the position is outside the stored rows.
// The returned slice aliases internal memory; do not modify.
func (s *Store) Row(pos int) []float32 {
	if pos < 0 || pos >= s.count {
		return nil
	}
	start := pos * s.dim
	return s.data[start : start+s.dim]
}

// SetFeature stores an opaque feature column indexed by buffer position.
// The column length must match the stored row count.
func (s *Store) SetFeature(name string, column []float64) error {
	if len(column) != s.count {
		return &ErrDimensionMismatch{Expected: s.count, Actual: len(column)}
	}
	s.feats[name] = column
	return nil
}

// Feature returns the feature column with the given name.
func (s *Store) Feature(name string) ([]float64, bool) {
	col, ok := s.feats[name]
	return col, ok
}

// FeatureNames returns the names of all stored feature columns.
func (s *Store) FeatureNames() []string {
	names := make([]string, 0, len(s.feats))
	for name := range s.feats {
		names = append(names, name)
	}
	return names
}
