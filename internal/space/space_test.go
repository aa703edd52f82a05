package space

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gokv/bptreedb/internal/page"
	"github.com/gokv/bptreedb/internal/pager"
)

func openBootstrapped(t *testing.T) (*pager.Pager, *Manager) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.db")
	pg, err := pager.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })

	sm, err := Bootstrap(pg)
	require.NoError(t, err)
	return pg, sm
}

// allocAndWrite allocates a page and immediately materializes it on disk
// as an empty leaf, mirroring how btree.Tree always initializes a freshly
// allocated page before it could ever be freed (Alloc's content is
// undefined until the caller writes it).
func allocAndWrite(t *testing.T, pg *pager.Pager, sm *Manager) page.No {
	t.Helper()
	no, err := sm.Alloc()
	require.NoError(t, err)
	var buf page.Page
	page.InitLeaf(&buf, page.Nil)
	require.NoError(t, pg.Write(no, &buf))
	return no
}

func TestAllocExtendsFileWhenFreeListEmpty(t *testing.T) {
	_, sm := openBootstrapped(t)

	n1, err := sm.Alloc()
	require.NoError(t, err)
	require.Equal(t, page.No(1), n1)

	n2, err := sm.Alloc()
	require.NoError(t, err)
	require.Equal(t, page.No(2), n2)

	h, err := sm.Header()
	require.NoError(t, err)
	require.Equal(t, uint64(3), h.PageCount())
}

func TestFreeThenAllocReusesPage(t *testing.T) {
	pg, sm := openBootstrapped(t)

	n1 := allocAndWrite(t, pg, sm)
	n2 := allocAndWrite(t, pg, sm)

	require.NoError(t, sm.Free(n1))

	h, err := sm.Header()
	require.NoError(t, err)
	require.Equal(t, n1, h.FreePageNo())

	reused, err := sm.Alloc()
	require.NoError(t, err)
	require.Equal(t, n1, reused)

	h, err = sm.Header()
	require.NoError(t, err)
	require.Equal(t, page.Nil, h.FreePageNo())
	require.Equal(t, uint64(3), h.PageCount()) // n1 reused, not a new page

	_ = n2
}

func TestFreeListIsLIFO(t *testing.T) {
	pg, sm := openBootstrapped(t)

	n1 := allocAndWrite(t, pg, sm)
	n2 := allocAndWrite(t, pg, sm)
	n3 := allocAndWrite(t, pg, sm)

	require.NoError(t, sm.Free(n1))
	require.NoError(t, sm.Free(n2))
	require.NoError(t, sm.Free(n3))

	first, err := sm.Alloc()
	require.NoError(t, err)
	require.Equal(t, n3, first)

	second, err := sm.Alloc()
	require.NoError(t, err)
	require.Equal(t, n2, second)

	third, err := sm.Alloc()
	require.NoError(t, err)
	require.Equal(t, n1, third)
}
