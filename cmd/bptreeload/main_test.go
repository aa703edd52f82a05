package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gokv/bptreedb/internal/btree"
)

func TestLoadInsertsAndSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "pairs.txt")
	contents := "10 alpha\n20 beta\nmalformed\n30\n40 delta\n"
	require.NoError(t, os.WriteFile(srcPath, []byte(contents), 0o644))

	dbPath := filepath.Join(dir, "table.db")
	tr, err := btree.Create(dbPath)
	require.NoError(t, err)
	defer tr.Close()

	inserted, skipped, err := load(tr, srcPath)
	require.NoError(t, err)
	require.Equal(t, 3, inserted)
	require.Equal(t, 2, skipped)

	v, err := tr.Find(10)
	require.NoError(t, err)
	require.EqualValues(t, "alpha", v)

	v, err = tr.Find(40)
	require.NoError(t, err)
	require.EqualValues(t, "delta", v)

	_, err = tr.Find(30)
	require.ErrorIs(t, err, btree.ErrNotFound)
}
