package page

import "fmt"

// InternalCap is the number of (key, child) record slots an internal page
// has room for: 128 bytes of header plus 248*16 = 3968 bytes of records is
// exactly 4096.
const InternalCap = 248

// internalRecordSize is the on-disk size of one internal record: an 8-byte
// key followed by an 8-byte child page number.
const internalRecordSize = 8 + 8

// InternalRecord is one (separator key, child page) pair. For record i,
// every key reachable in the subtree rooted at Child is >= Key. A split
// sets Key to that subtree's smallest key; deletions do not update it, so
// it can later be below every key left in the subtree.
type InternalRecord struct {
	Key   int64
	Child No
}

func internalRecordOffset(i int) int { return offRecords + i*internalRecordSize }

// Internal is a typed view over an internal node page.
type Internal struct {
	raw *Page
}

// NewInternal wraps p as an Internal view.
func NewInternal(p *Page) Internal { return Internal{raw: p} }

// InitInternal resets p into an empty internal node with the given parent
// and leftmost child.
func InitInternal(p *Page, parent No, leftChild No) Internal {
	*p = Page{}
	n := Internal{raw: p}
	n.SetParent(parent)
	p[offIsLeaf] = internalFlagVal
	n.setKeyCount(0)
	n.SetLeftSibling(leftChild)
	return n
}

// Raw returns the underlying page, for handing to a Pager.Write.
func (n Internal) Raw() *Page { return n.raw }

func (n Internal) Parent() No        { return n.raw.Parent() }
func (n Internal) SetParent(p No)    { n.raw.SetParent(p) }
func (n Internal) KeyCount() int     { return n.raw.KeyCount() }
func (n Internal) setKeyCount(c int) { n.raw.setKeyCount(c) }

func (n Internal) LeftSibling() No { return No(U64At(n.raw[:], offSiblingPtr)) }
func (n Internal) SetLeftSibling(c No) {
	PutU64At(n.raw[:], offSiblingPtr, uint64(c))
}

// Records returns the live records [0, KeyCount()), sorted ascending by key.
func (n Internal) Records() []InternalRecord {
	k := n.KeyCount()
	out := make([]InternalRecord, k)
	for i := 0; i < k; i++ {
		off := internalRecordOffset(i)
		out[i] = InternalRecord{
			Key:   I64At(n.raw[:], off),
			Child: No(U64At(n.raw[:], off+8)),
		}
	}
	return out
}

// SetRecords overwrites the page's records with recs, which must already be
// sorted ascending by key and must not exceed InternalCap entries.
func (n Internal) SetRecords(recs []InternalRecord) error {
	if len(recs) > InternalCap {
		return fmt.Errorf("page: internal record count %d exceeds capacity %d", len(recs), InternalCap)
	}
	for i, r := range recs {
		off := internalRecordOffset(i)
		PutI64At(n.raw[:], off, r.Key)
		PutU64At(n.raw[:], off+8, uint64(r.Child))
	}
	n.setKeyCount(len(recs))
	return nil
}

// Children returns every child page number in left-to-right order:
// LeftSibling() followed by each record's Child.
func (n Internal) Children() []No {
	recs := n.Records()
	out := make([]No, 0, len(recs)+1)
	out = append(out, n.LeftSibling())
	for _, r := range recs {
		out = append(out, r.Child)
	}
	return out
}
