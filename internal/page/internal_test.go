package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalInitAndRoundTrip(t *testing.T) {
	var p Page
	n := InitInternal(&p, 3, 100)

	assert.False(t, p.IsLeaf())
	assert.Equal(t, No(3), n.Parent())
	assert.Equal(t, No(100), n.LeftSibling())
	assert.Equal(t, 0, n.KeyCount())

	recs := []InternalRecord{
		{Key: 25, Child: 101},
		{Key: 50, Child: 102},
	}
	require.NoError(t, n.SetRecords(recs))

	assert.Equal(t, recs, n.Records())
	assert.Equal(t, []No{100, 101, 102}, n.Children())
}

func TestInternalRecordCountCannotExceedCapacity(t *testing.T) {
	var p Page
	n := InitInternal(&p, 0, 0)
	recs := make([]InternalRecord, InternalCap+1)
	assert.Error(t, n.SetRecords(recs))
}
