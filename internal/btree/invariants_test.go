package btree

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gokv/bptreedb/internal/page"
)

// assertAllLeavesSameDepth walks every root-to-leaf path and checks they
// are all the same length (property #1, "Balance").
func assertAllLeavesSameDepth(t *testing.T, tr *Tree) {
	t.Helper()
	h, err := tr.header()
	require.NoError(t, err)
	if h.RootPageNo() == page.Nil {
		return
	}

	var depth func(no page.No) (int, error)
	depth = func(no page.No) (int, error) {
		raw, err := tr.readNode(no)
		if err != nil {
			return 0, err
		}
		if raw.IsLeaf() {
			return 0, nil
		}
		n := page.NewInternal(raw)
		d := -1
		for _, c := range n.Children() {
			cd, err := depth(c)
			if err != nil {
				return 0, err
			}
			if d == -1 {
				d = cd
			} else {
				require.Equal(t, d, cd, "leaves must all be at the same depth")
			}
		}
		return d + 1, nil
	}
	_, err = depth(h.RootPageNo())
	require.NoError(t, err)
}

// assertParentage checks property #3: every non-root page's parent_page_no
// names a page whose children actually include it.
func assertParentage(t *testing.T, tr *Tree) {
	t.Helper()
	h, err := tr.header()
	require.NoError(t, err)
	if h.RootPageNo() == page.Nil {
		return
	}

	var walk func(no page.No)
	walk = func(no page.No) {
		raw, err := tr.readNode(no)
		require.NoError(t, err)
		if raw.IsLeaf() {
			return
		}
		n := page.NewInternal(raw)
		for _, c := range n.Children() {
			childRaw, err := tr.readNode(c)
			require.NoError(t, err)
			require.Equal(t, no, childRaw.Parent(), "child %d must point back at parent %d", c, no)
			walk(c)
		}
	}
	walk(h.RootPageNo())
}

// assertBounds checks property #4: 0 <= key_count <= capacity everywhere.
func assertBounds(t *testing.T, tr *Tree) {
	t.Helper()
	h, err := tr.header()
	require.NoError(t, err)
	if h.RootPageNo() == page.Nil {
		return
	}
	var walk func(no page.No)
	walk = func(no page.No) {
		raw, err := tr.readNode(no)
		require.NoError(t, err)
		kc := raw.KeyCount()
		require.GreaterOrEqual(t, kc, 0)
		if raw.IsLeaf() {
			require.LessOrEqual(t, kc, tr.LeafMax)
			return
		}
		require.LessOrEqual(t, kc, tr.InternalMax)
		for _, c := range page.NewInternal(raw).Children() {
			walk(c)
		}
	}
	walk(h.RootPageNo())
}

// TestPropertyInsertFindDeleteRoundTrip exercises properties #2, #6, #7:
// order, round-trip, and idempotent insert, across many keys and a split-
// provoking capacity.
func TestPropertyInsertFindDeleteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	tr, err := CreateWithCapacity(path, 3, 3)
	require.NoError(t, err)
	defer tr.Close()

	const n = 200
	for i := 0; i < n; i++ {
		k := int64((i * 37) % 997) // scatter insertion order
		require.NoError(t, tr.Insert(k, page.Value(fmt.Sprintf("v%d", k))))
		// idempotent insert: re-inserting must not change the stored value
		require.NoError(t, tr.Insert(k, page.Value("SHOULD_NOT_STICK")))
		v, err := tr.Find(k)
		require.NoError(t, err)
		require.Equal(t, page.Value(fmt.Sprintf("v%d", k)), v)
	}

	assertAllLeavesSameDepth(t, tr)
	assertParentage(t, tr)
	assertBounds(t, tr)

	// order: concatenating leaves in sibling order is strictly ascending
	// and covers every inserted key exactly once.
	recs, err := tr.RangeScan(-1, 10000)
	require.NoError(t, err)
	seen := map[int64]bool{}
	for idx, r := range recs {
		require.False(t, seen[r.Key], "duplicate key %d in scan", r.Key)
		seen[r.Key] = true
		if idx > 0 {
			require.Less(t, recs[idx-1].Key, r.Key)
		}
	}

	// delete every inserted key back out again.
	for i := 0; i < n; i++ {
		k := int64((i * 37) % 997)
		if !seen[k] {
			continue
		}
		require.NoError(t, tr.Delete(k))
		_, err := tr.Find(k)
		require.ErrorIs(t, err, ErrNotFound)
		delete(seen, k)
	}

	remaining, err := tr.RangeScan(-1, 10000)
	require.NoError(t, err)
	require.Empty(t, remaining)

	h, err := tr.header()
	require.NoError(t, err)
	require.Equal(t, page.Nil, h.RootPageNo())
}

// TestFreeListDisjointFromTree checks property #5: no page reachable from
// the root is ever simultaneously sitting on the free list.
func TestFreeListDisjointFromTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	tr, err := CreateWithCapacity(path, 3, 3)
	require.NoError(t, err)
	defer tr.Close()

	for _, k := range []int64{10, 20, 30, 25, 40, 50, 60} {
		require.NoError(t, tr.Insert(k, "x"))
	}
	for _, k := range []int64{25, 30, 40} {
		require.NoError(t, tr.Delete(k))
	}

	reachable := map[page.No]bool{}
	h, err := tr.header()
	require.NoError(t, err)
	if h.RootPageNo() != page.Nil {
		var walk func(no page.No)
		walk = func(no page.No) {
			reachable[no] = true
			raw, err := tr.readNode(no)
			require.NoError(t, err)
			if !raw.IsLeaf() {
				for _, c := range page.NewInternal(raw).Children() {
					walk(c)
				}
			}
		}
		walk(h.RootPageNo())
	}

	free := h.FreePageNo()
	for free != page.Nil {
		require.False(t, reachable[free], "page %d is both reachable and free", free)
		raw, err := tr.readNode(free)
		require.NoError(t, err)
		free = page.NewFree(raw).NextFreePageNo()
	}
}
