package btree

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gokv/bptreedb/internal/page"
)

// Insert adds (key, value). Per the engine's contract, a duplicate key is
// a silent no-op: the first write wins and Insert still reports success.
func (t *Tree) Insert(key int64, value page.Value) error {
	if t.closed {
		return ErrClosed
	}
	_, err := t.Find(key)
	switch {
	case err == nil:
		return nil // duplicate: no-op success
	case errors.Is(err, ErrNotFound):
		// fall through to actual insert
	default:
		return err
	}

	h, err := t.header()
	if err != nil {
		return err
	}

	if h.RootPageNo() == page.Nil {
		leafNo, l, err := t.allocLeaf(page.Nil)
		if err != nil {
			return err
		}
		if err := l.SetRecords([]page.LeafRecord{{Key: key, Value: value}}); err != nil {
			return err
		}
		if err := t.writeLeaf(leafNo, l); err != nil {
			return err
		}
		// Alloc rewrote the header (page count / free list); re-read it so
		// the root update does not write back a stale copy.
		h, err = t.header()
		if err != nil {
			return err
		}
		h.SetRootPageNo(leafNo)
		slog.Debug("btree.insert.new_root", "page", leafNo, "key", key)
		return t.writeHeader(h)
	}

	leafNo, err := t.findLeaf(key)
	if err != nil {
		return err
	}
	l, err := t.readLeaf(leafNo)
	if err != nil {
		return err
	}

	if l.KeyCount() < t.LeafMax {
		recs := insertLeafRecordSorted(l.Records(), page.LeafRecord{Key: key, Value: value})
		if err := l.SetRecords(recs); err != nil {
			return err
		}
		return t.writeLeaf(leafNo, l)
	}

	return t.splitLeaf(leafNo, l, key, value)
}

// splitLeaf implements leaf split: the LeafMax+1 working records are
// divided at leafSplitPivot(), the new leaf is wired into the sibling
// chain, and the new leaf's first key is promoted into the parent.
func (t *Tree) splitLeaf(leafNo page.No, l page.Leaf, key int64, value page.Value) error {
	working := insertLeafRecordSorted(l.Records(), page.LeafRecord{Key: key, Value: value})
	split := t.leafSplitPivot()
	leftRecs, rightRecs := working[:split], working[split:]

	rNo, r, err := t.allocLeaf(l.Parent())
	if err != nil {
		return err
	}
	r.SetRightSibling(l.RightSibling())
	if err := r.SetRecords(rightRecs); err != nil {
		return err
	}

	l.SetRightSibling(rNo)
	if err := l.SetRecords(leftRecs); err != nil {
		return err
	}

	if err := t.writeLeaf(leafNo, l); err != nil {
		return err
	}
	if err := t.writeLeaf(rNo, r); err != nil {
		return err
	}

	slog.Debug("btree.insert.leaf_split", "left", leafNo, "right", rNo, "pivot", rightRecs[0].Key)
	return t.insertIntoParent(leafNo, l.Parent(), rightRecs[0].Key, rNo)
}

// insertIntoParent wires a newly-split right sibling into its parent,
// promoting key as the separator between left and right. If left has no
// parent, a new root is created above both.
func (t *Tree) insertIntoParent(left page.No, parent page.No, key int64, right page.No) error {
	if parent == page.Nil {
		return t.newRoot(left, key, right)
	}

	p, err := t.readInternal(parent)
	if err != nil {
		return err
	}
	children := p.Children()
	idx := indexOfChild(children, left)
	if idx < 0 {
		return fmt.Errorf("btree: insertIntoParent: child %d not found under parent %d", left, parent)
	}

	keys := insertAt(internalKeys(p.Records()), idx, key)
	newChildren := insertAt(children, idx+1, right)

	if len(keys) <= t.InternalMax {
		p.SetLeftSibling(newChildren[0])
		if err := p.SetRecords(zipInternal(keys, newChildren[1:])); err != nil {
			return err
		}
		return t.writeInternal(parent, p)
	}

	return t.splitInternal(parent, p, keys, newChildren)
}

func (t *Tree) newRoot(left page.No, key int64, right page.No) error {
	rootNo, root, err := t.allocInternal(page.Nil, left)
	if err != nil {
		return err
	}
	if err := root.SetRecords([]page.InternalRecord{{Key: key, Child: right}}); err != nil {
		return err
	}
	if err := t.writeInternal(rootNo, root); err != nil {
		return err
	}
	if err := t.setNodeParent(left, rootNo); err != nil {
		return err
	}
	if err := t.setNodeParent(right, rootNo); err != nil {
		return err
	}

	h, err := t.header()
	if err != nil {
		return err
	}
	h.SetRootPageNo(rootNo)
	slog.Debug("btree.insert.new_internal_root", "page", rootNo, "key", key)
	return t.writeHeader(h)
}

// splitInternal implements internal split: the working keys/children
// (InternalMax+1 keys, InternalMax+2 children) are divided at
// internalSplitPivot(); the key at that boundary is promoted to the
// parent and retained by neither child.
func (t *Tree) splitInternal(no page.No, node page.Internal, keys []int64, children []page.No) error {
	pivotIdx := t.internalSplitPivot() - 1
	pivotKey := keys[pivotIdx]

	leftKeys, leftChildren := keys[:pivotIdx], children[:pivotIdx+1]
	rightKeys, rightChildren := keys[pivotIdx+1:], children[pivotIdx+1:]

	rNo, r, err := t.allocInternal(node.Parent(), rightChildren[0])
	if err != nil {
		return err
	}
	if err := r.SetRecords(zipInternal(rightKeys, rightChildren[1:])); err != nil {
		return err
	}

	node.SetLeftSibling(leftChildren[0])
	if err := node.SetRecords(zipInternal(leftKeys, leftChildren[1:])); err != nil {
		return err
	}

	if err := t.writeInternal(no, node); err != nil {
		return err
	}
	if err := t.writeInternal(rNo, r); err != nil {
		return err
	}

	for _, c := range rightChildren {
		if err := t.setNodeParent(c, rNo); err != nil {
			return err
		}
	}

	slog.Debug("btree.insert.internal_split", "left", no, "right", rNo, "pivot", pivotKey)
	return t.insertIntoParent(no, node.Parent(), pivotKey, rNo)
}

// setNodeParent updates the parent_page_no field shared by leaf and
// internal pages, regardless of which kind no is.
func (t *Tree) setNodeParent(no page.No, parent page.No) error {
	raw, err := t.readNode(no)
	if err != nil {
		return err
	}
	raw.SetParent(parent)
	return t.pg.Write(no, raw)
}
