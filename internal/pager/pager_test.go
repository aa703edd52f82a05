package pager

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gokv/bptreedb/internal/page"
)

func TestCreateReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")

	p, err := Create(path)
	require.NoError(t, err)
	defer p.Close()

	var buf page.Page
	h := page.InitHeader(&buf)
	h.SetPageCount(1)
	require.NoError(t, p.Write(0, &buf))

	count, err := p.PageCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	got, err := p.Read(0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), page.NewHeader(got).PageCount())
}

func TestWriteExtendsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	p, err := Create(path)
	require.NoError(t, err)
	defer p.Close()

	var buf page.Page
	page.InitLeaf(&buf, 0)
	require.NoError(t, p.Write(3, &buf))

	count, err := p.PageCount()
	require.NoError(t, err)
	require.Equal(t, uint64(4), count)
}

func TestOperationsFailAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	p, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Read(0)
	require.ErrorIs(t, err, ErrClosed)

	var buf page.Page
	require.ErrorIs(t, p.Write(0, &buf), ErrClosed)
}

func TestReopenExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	p, err := Create(path)
	require.NoError(t, err)

	var buf page.Page
	page.InitHeader(&buf)
	require.NoError(t, p.Write(0, &buf))
	require.NoError(t, p.Close())

	p2, err := Open(path)
	require.NoError(t, err)
	defer p2.Close()

	got, err := p2.Read(0)
	require.NoError(t, err)
	require.Equal(t, page.Nil, page.NewHeader(got).RootPageNo())
}
