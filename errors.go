package graphbuf

import (
	"errors"
	"fmt"

	"github.com/spatialkit/graphbuf/internal/slab"
	"github.com/spatialkit/graphbuf/nodeindex"
	"github.com/spatialkit/graphbuf/nodestore"
)

var (
	// ErrNotFound is returned when a queried world id is not part of the
	// current node set.
	ErrNotFound = errors.New("graphbuf: node not found")

	// ErrEdgeNotFound is returned when a removal target is absent from the
	// relevant adjacency list.
	ErrEdgeNotFound = errors.New("graphbuf: edge not found")

	// ErrValidation is returned for malformed input before any state is
	// mutated.
	ErrValidation = errors.New("graphbuf: invalid input")

	// ErrBufferFull is returned when the slot arena is exhausted mid-batch.
	// The facades pre-grow the arena, so through the public surface this is
	// a defensive path, not an expected outcome.
	ErrBufferFull = errors.New("graphbuf: edge buffer full")

	// ErrCorruptIndex indicates an out-of-range slot pointer encountered
	// during list traversal: an internal consistency violation, not a
	// user-recoverable condition.
	ErrCorruptIndex = errors.New("graphbuf: corrupt slot index")
)

// translateError unifies component errors under the package sentinels.
//
// The original underlying error can be accessed via errors.Unwrap / As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var knf *nodeindex.ErrKeyNotFound
	if errors.As(err, &knf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var dup *nodeindex.ErrDuplicateID
	if errors.As(err, &dup) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	var dm *nodestore.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if errors.Is(err, slab.ErrBufferFull) {
		return fmt.Errorf("%w: %w", ErrBufferFull, err)
	}
	var inv *slab.ErrInvalidIndex
	if errors.As(err, &inv) {
		return fmt.Errorf("%w: %w", ErrCorruptIndex, err)
	}

	return err
}
