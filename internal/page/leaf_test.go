package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafInitAndRoundTrip(t *testing.T) {
	var p Page
	l := InitLeaf(&p, 7)

	assert.True(t, p.IsLeaf())
	assert.Equal(t, No(7), l.Parent())
	assert.Equal(t, 0, l.KeyCount())
	assert.Equal(t, Nil, l.RightSibling())

	recs := []LeafRecord{
		{Key: 10, Value: "a"},
		{Key: 20, Value: "b"},
		{Key: 30, Value: "c"},
	}
	require.NoError(t, l.SetRecords(recs))
	l.SetRightSibling(99)

	got := l.Records()
	assert.Equal(t, recs, got)
	assert.Equal(t, 3, l.KeyCount())
	assert.Equal(t, No(99), l.RightSibling())
}

func TestLeafValueEncodingRejectsOversize(t *testing.T) {
	var p Page
	l := InitLeaf(&p, 0)
	big := make([]byte, MaxValueLen+1)
	err := l.SetRecords([]LeafRecord{{Key: 1, Value: Value(big)}})
	assert.Error(t, err)
}

func TestLeafRecordCountCannotExceedCapacity(t *testing.T) {
	var p Page
	l := InitLeaf(&p, 0)
	recs := make([]LeafRecord, LeafCap+1)
	for i := range recs {
		recs[i] = LeafRecord{Key: int64(i), Value: "x"}
	}
	assert.Error(t, l.SetRecords(recs))
}

func TestDecodeValueTrimsNulPadding(t *testing.T) {
	buf := make([]byte, MaxValueLen)
	copy(buf, "hello")
	assert.Equal(t, Value("hello"), DecodeValue(buf))
}
