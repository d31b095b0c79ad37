package edgelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatialkit/graphbuf/core"
	"github.com/spatialkit/graphbuf/internal/slab"
)

func newHeads(n int) []core.SlotIndex {
	heads := make([]core.SlotIndex, n)
	for i := range heads {
		heads[i] = core.EmptyIdx
	}
	return heads
}

func TestInsertUndirected(t *testing.T) {
	t.Run("StoresBothDirections", func(t *testing.T) {
		a := slab.New(slab.Undirected, 4)
		heads := newHeads(3)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))

		fromSrc, err := CollectOne(a, heads[0], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{0, 1}, fromSrc)

		fromTgt, err := CollectOne(a, heads[1], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{1, 0}, fromTgt)
	})

	t.Run("HeadPushYieldsLIFOOrder", func(t *testing.T) {
		a := slab.New(slab.Undirected, 4)
		heads := newHeads(3)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))
		require.NoError(t, InsertUndirected(a, heads, 1, 2))

		pairs, err := CollectOne(a, heads[1], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{1, 2, 1, 0}, pairs)
	})

	t.Run("ExhaustedArenaFailsWholeLogicalEdge", func(t *testing.T) {
		a := slab.New(slab.Undirected, 1)
		heads := newHeads(2)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))
		require.ErrorIs(t, InsertUndirected(a, heads, 1, 0), slab.ErrBufferFull)

		// The failed edge left no half-inserted direction behind.
		pairs, err := CollectOne(a, heads[1], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{1, 0}, pairs)
	})
}

func TestInsertDirected(t *testing.T) {
	t.Run("OneSlotJoinsBothLists", func(t *testing.T) {
		a := slab.New(slab.Directed, 4)
		src := newHeads(3)
		tgt := newHeads(3)

		require.NoError(t, InsertDirected(a, src, tgt, 0, 1))

		assert.Equal(t, src[0], tgt[1])
		assert.Equal(t, 3, a.FreeSlots())

		out, err := CollectOne(a, src[0], slab.Directed.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{0, 1}, out)

		in, err := CollectOne(a, tgt[1], slab.Directed.TgtLinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{0, 1}, in)
	})

	t.Run("ListsStayIndependent", func(t *testing.T) {
		a := slab.New(slab.Directed, 4)
		src := newHeads(3)
		tgt := newHeads(3)

		require.NoError(t, InsertDirected(a, src, tgt, 0, 1))
		require.NoError(t, InsertDirected(a, src, tgt, 2, 1))
		require.NoError(t, InsertDirected(a, src, tgt, 0, 2))

		out, err := CollectOne(a, src[0], slab.Directed.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{0, 2, 0, 1}, out)

		in, err := CollectOne(a, tgt[1], slab.Directed.TgtLinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{2, 1, 0, 1}, in)
	})
}

func TestRemoveUndirected(t *testing.T) {
	t.Run("ReleasesBothSlots", func(t *testing.T) {
		a := slab.New(slab.Undirected, 2)
		heads := newHeads(2)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))
		require.Equal(t, 2, a.FreeSlots())

		require.NoError(t, RemoveUndirected(a, heads, 0, 1))
		assert.Equal(t, 4, a.FreeSlots())
		assert.Equal(t, core.EmptyIdx, heads[0])
		assert.Equal(t, core.EmptyIdx, heads[1])
	})

	t.Run("SplicesMidList", func(t *testing.T) {
		a := slab.New(slab.Undirected, 4)
		heads := newHeads(4)

		require.NoError(t, InsertUndirected(a, heads, 1, 0))
		require.NoError(t, InsertUndirected(a, heads, 1, 2))
		require.NoError(t, InsertUndirected(a, heads, 1, 3))

		// (1,2) sits in the middle of node 1's list.
		require.NoError(t, RemoveUndirected(a, heads, 1, 2))

		pairs, err := CollectOne(a, heads[1], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{1, 3, 1, 0}, pairs)

		empty, err := CollectOne(a, heads[2], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("MissingEdgeFailsWithoutMutation", func(t *testing.T) {
		a := slab.New(slab.Undirected, 2)
		heads := newHeads(3)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))

		err := RemoveUndirected(a, heads, 0, 2)
		var nf *ErrEdgeNotFound
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, core.BufferPos(0), nf.Src)
		assert.Equal(t, core.BufferPos(2), nf.Tgt)
		assert.Equal(t, 2, a.FreeSlots())
	})
}

func TestRemoveDirected(t *testing.T) {
	t.Run("ReleasesSlotExactlyOnce", func(t *testing.T) {
		a := slab.New(slab.Directed, 2)
		src := newHeads(2)
		tgt := newHeads(2)

		require.NoError(t, InsertDirected(a, src, tgt, 0, 1))
		require.Equal(t, 1, a.FreeSlots())

		require.NoError(t, RemoveDirected(a, src, tgt, 0, 1))
		assert.Equal(t, 2, a.FreeSlots())
		assert.Equal(t, core.EmptyIdx, src[0])
		assert.Equal(t, core.EmptyIdx, tgt[1])
	})

	t.Run("UpdatesOnlyTheMatchingLinkField", func(t *testing.T) {
		a := slab.New(slab.Directed, 4)
		src := newHeads(3)
		tgt := newHeads(3)

		require.NoError(t, InsertDirected(a, src, tgt, 0, 1))
		require.NoError(t, InsertDirected(a, src, tgt, 2, 1))
		require.NoError(t, InsertDirected(a, src, tgt, 0, 2))

		require.NoError(t, RemoveDirected(a, src, tgt, 0, 1))

		out, err := CollectOne(a, src[0], slab.Directed.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{0, 2}, out)

		in, err := CollectOne(a, tgt[1], slab.Directed.TgtLinkPos)
		require.NoError(t, err)
		assert.Equal(t, []core.BufferPos{2, 1}, in)
	})

	t.Run("OrientationMatters", func(t *testing.T) {
		a := slab.New(slab.Directed, 2)
		src := newHeads(2)
		tgt := newHeads(2)

		require.NoError(t, InsertDirected(a, src, tgt, 0, 1))

		err := RemoveDirected(a, src, tgt, 1, 0)
		var nf *ErrEdgeNotFound
		require.ErrorAs(t, err, &nf)
	})
}

func TestCollect(t *testing.T) {
	t.Run("EmptyListYieldsEmptySequence", func(t *testing.T) {
		a := slab.New(slab.Undirected, 1)
		heads := newHeads(2)

		out, err := Collect(a, heads, slab.Undirected.LinkPos, []core.BufferPos{0, 1})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Empty(t, out[0])
		assert.Empty(t, out[1])
	})

	t.Run("RewalkReproducesOrder", func(t *testing.T) {
		a := slab.New(slab.Undirected, 4)
		heads := newHeads(3)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))
		require.NoError(t, InsertUndirected(a, heads, 0, 2))

		first, err := CollectOne(a, heads[0], slab.Undirected.LinkPos)
		require.NoError(t, err)
		second, err := CollectOne(a, heads[0], slab.Undirected.LinkPos)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("CorruptLinkIsFatal", func(t *testing.T) {
		a := slab.New(slab.Undirected, 1)
		heads := newHeads(2)

		require.NoError(t, InsertUndirected(a, heads, 0, 1))
		a.SetLink(heads[0], slab.Undirected.LinkPos, core.SlotIndex(99))

		_, err := CollectOne(a, heads[0], slab.Undirected.LinkPos)
		var inv *slab.ErrInvalidIndex
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, core.SlotIndex(99), inv.Index)
	})
}
