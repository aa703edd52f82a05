package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLittleEndianAt(t *testing.T) {
	buf := make([]byte, 24)

	PutU16At(buf, 0, 0x0A0B)
	PutU64At(buf, 2, 0x0102030405060708)
	PutI64At(buf, 10, -1234567890)

	assert.Equal(t, uint16(0x0A0B), U16At(buf, 0))
	assert.Equal(t, uint64(0x0102030405060708), U64At(buf, 2))
	assert.Equal(t, int64(-1234567890), I64At(buf, 10))
}
