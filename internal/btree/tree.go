// Package btree implements the on-disk B+ tree engine: search, insertion
// with split propagation, deletion with delayed-merge underflow handling,
// and sibling-chain range scans, all built on the page and space packages.
package btree

import (
	"fmt"
	"log/slog"

	"github.com/gokv/bptreedb/internal/page"
	"github.com/gokv/bptreedb/internal/pager"
	"github.com/gokv/bptreedb/internal/space"
)

// Tree is a handle to one B+ tree table file. It owns the pager and space
// manager beneath it; there is no global state, and a caller may open as
// many Trees as it has file descriptors for.
type Tree struct {
	pg *pager.Pager
	sm *space.Manager

	// LeafMax and InternalMax bound how many records a leaf/internal page
	// is allowed to hold before it must split. They default to the
	// physical page capacities (page.LeafCap, page.InternalCap) but may be
	// set lower, which is how the property tests exercise splitting
	// without shrinking the on-disk layout itself.
	LeafMax     int
	InternalMax int

	closed bool
}

// Create bootstraps a brand-new, empty table file at path.
func Create(path string) (*Tree, error) {
	return CreateWithCapacity(path, page.LeafCap, page.InternalCap)
}

// CreateWithCapacity is Create with explicit, possibly-reduced node
// capacities, used by tests that need to provoke splits with only a
// handful of keys.
func CreateWithCapacity(path string, leafMax, internalMax int) (*Tree, error) {
	if leafMax <= 0 || leafMax > page.LeafCap || internalMax <= 0 || internalMax > page.InternalCap {
		return nil, ErrInvalidCapacity
	}
	pg, err := pager.Create(path)
	if err != nil {
		return nil, err
	}
	sm, err := space.Bootstrap(pg)
	if err != nil {
		pg.Close()
		return nil, err
	}
	return &Tree{pg: pg, sm: sm, LeafMax: leafMax, InternalMax: internalMax}, nil
}

// Open opens an existing table file written by Create.
func Open(path string) (*Tree, error) {
	return OpenWithCapacity(path, page.LeafCap, page.InternalCap)
}

// OpenWithCapacity is Open with explicit node capacities; the capacities
// must match whatever the file was created with, since they are not
// themselves persisted (the physical layout is the only contract the file
// carries, per spec).
func OpenWithCapacity(path string, leafMax, internalMax int) (*Tree, error) {
	if leafMax <= 0 || leafMax > page.LeafCap || internalMax <= 0 || internalMax > page.InternalCap {
		return nil, ErrInvalidCapacity
	}
	pg, err := pager.Open(path)
	if err != nil {
		return nil, err
	}
	return &Tree{pg: pg, sm: space.New(pg), LeafMax: leafMax, InternalMax: internalMax}, nil
}

// Close closes the underlying file. The collaborator that opened the
// table is responsible for calling this; the core never closes a file on
// the caller's behalf.
func (t *Tree) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	return t.pg.Close()
}

func (t *Tree) header() (page.Header, error) {
	if t.closed {
		return page.Header{}, ErrClosed
	}
	buf, err := t.pg.Read(0)
	if err != nil {
		return page.Header{}, fmt.Errorf("btree: read header: %w", err)
	}
	return page.NewHeader(buf), nil
}

func (t *Tree) writeHeader(h page.Header) error {
	return t.pg.Write(0, h.Raw())
}

func (t *Tree) readLeaf(no page.No) (page.Leaf, error) {
	buf, err := t.pg.Read(no)
	if err != nil {
		return page.Leaf{}, fmt.Errorf("btree: read leaf %d: %w", no, err)
	}
	return page.NewLeaf(buf), nil
}

func (t *Tree) readInternal(no page.No) (page.Internal, error) {
	buf, err := t.pg.Read(no)
	if err != nil {
		return page.Internal{}, fmt.Errorf("btree: read internal %d: %w", no, err)
	}
	return page.NewInternal(buf), nil
}

func (t *Tree) readNode(no page.No) (*page.Page, error) {
	return t.pg.Read(no)
}

func (t *Tree) writeLeaf(no page.No, l page.Leaf) error {
	return t.pg.Write(no, l.Raw())
}

func (t *Tree) writeInternal(no page.No, n page.Internal) error {
	return t.pg.Write(no, n.Raw())
}

func (t *Tree) allocLeaf(parent page.No) (page.No, page.Leaf, error) {
	no, err := t.sm.Alloc()
	if err != nil {
		return 0, page.Leaf{}, fmt.Errorf("btree: alloc leaf: %w", err)
	}
	var buf page.Page
	l := page.InitLeaf(&buf, parent)
	return no, l, nil
}

func (t *Tree) allocInternal(parent, leftChild page.No) (page.No, page.Internal, error) {
	no, err := t.sm.Alloc()
	if err != nil {
		return 0, page.Internal{}, fmt.Errorf("btree: alloc internal: %w", err)
	}
	var buf page.Page
	n := page.InitInternal(&buf, parent, leftChild)
	return no, n, nil
}

func (t *Tree) free(no page.No) error {
	if err := t.sm.Free(no); err != nil {
		return fmt.Errorf("btree: free %d: %w", no, err)
	}
	slog.Debug("btree.free", "page", no)
	return nil
}

// leafSplitPivot is ceil((LEAF_MAX+1)/2), the number of records that stay
// in the original leaf after a split.
func (t *Tree) leafSplitPivot() int {
	return ceilDiv(t.LeafMax+1, 2)
}

// internalSplitPivot is ceil((INTL_MAX+1)/2); the promoted key sits at
// index pivot-1 of the working array and is not retained by either child.
func (t *Tree) internalSplitPivot() int {
	return ceilDiv(t.InternalMax+1, 2)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
