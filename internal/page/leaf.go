package page

import "fmt"

// LeafCap is the number of (key, value) record slots a leaf page has room
// for. It is a property of the physical 4096-byte layout, not a tunable:
// 128 bytes of header plus 31*128 = 3968 bytes of records is exactly 4096.
const LeafCap = 31

// leafRecordSize is the on-disk size of one leaf record: an 8-byte key
// followed by a 120-byte value.
const leafRecordSize = 8 + MaxValueLen

// MaxValueLen is the fixed width of a stored value, mirroring the source's
// char[120].
const MaxValueLen = 120

// Value is a fixed-width value. Values are stored NUL-padded on disk;
// DecodeValue strips the padding, Encode validates the length and zero-pads.
type Value string

// Encode writes v into dst, which must be exactly MaxValueLen bytes. It
// returns an error if v does not fit.
func (v Value) Encode(dst []byte) error {
	if len(dst) != MaxValueLen {
		return fmt.Errorf("page: value buffer must be %d bytes, got %d", MaxValueLen, len(dst))
	}
	if len(v) > MaxValueLen {
		return fmt.Errorf("page: value %q exceeds max length %d", string(v), MaxValueLen)
	}
	clear(dst)
	copy(dst, v)
	return nil
}

// DecodeValue reads a NUL-padded fixed-width value from src, which must be
// exactly MaxValueLen bytes.
func DecodeValue(src []byte) Value {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return Value(src[:n])
}

// LeafRecord is one (key, value) pair stored in a leaf page.
type LeafRecord struct {
	Key   int64
	Value Value
}

func leafRecordOffset(i int) int { return offRecords + i*leafRecordSize }

// Leaf is a typed view over a leaf node page.
type Leaf struct {
	raw *Page
}

// NewLeaf wraps p as a Leaf view. p must already have been initialized with
// InitLeaf or read back from disk as a leaf page.
func NewLeaf(p *Page) Leaf { return Leaf{raw: p} }

// InitLeaf resets p into an empty leaf with the given parent.
func InitLeaf(p *Page, parent No) Leaf {
	*p = Page{}
	l := Leaf{raw: p}
	l.SetParent(parent)
	p[offIsLeaf] = leafFlagValue
	l.setKeyCount(0)
	l.SetRightSibling(Nil)
	return l
}

// Raw returns the underlying page, for handing to a Pager.Write.
func (l Leaf) Raw() *Page { return l.raw }

func (l Leaf) Parent() No         { return l.raw.Parent() }
func (l Leaf) SetParent(n No)     { l.raw.SetParent(n) }
func (l Leaf) KeyCount() int      { return l.raw.KeyCount() }
func (l Leaf) setKeyCount(n int)  { l.raw.setKeyCount(n) }

func (l Leaf) RightSibling() No { return No(U64At(l.raw[:], offSiblingPtr)) }
func (l Leaf) SetRightSibling(n No) {
	PutU64At(l.raw[:], offSiblingPtr, uint64(n))
}

// Records returns the live records [0, KeyCount()), sorted ascending by key.
func (l Leaf) Records() []LeafRecord {
	n := l.KeyCount()
	out := make([]LeafRecord, n)
	for i := 0; i < n; i++ {
		off := leafRecordOffset(i)
		out[i] = LeafRecord{
			Key:   I64At(l.raw[:], off),
			Value: DecodeValue(l.raw[off+8 : off+8+MaxValueLen]),
		}
	}
	return out
}

// SetRecords overwrites the page's records with recs, which must already be
// sorted ascending by key and must not exceed LeafCap entries. It updates
// KeyCount accordingly. Slots beyond len(recs) are left as-is; only
// KeyCount()-bounded reads ever observe them.
func (l Leaf) SetRecords(recs []LeafRecord) error {
	if len(recs) > LeafCap {
		return fmt.Errorf("page: leaf record count %d exceeds capacity %d", len(recs), LeafCap)
	}
	for i, r := range recs {
		off := leafRecordOffset(i)
		PutI64At(l.raw[:], off, r.Key)
		if err := r.Value.Encode(l.raw[off+8 : off+8+MaxValueLen]); err != nil {
			return err
		}
	}
	l.setKeyCount(len(recs))
	return nil
}
