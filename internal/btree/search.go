package btree

import "github.com/gokv/bptreedb/internal/page"

// findLeaf descends from the root to the leaf that would contain key. It
// returns page.Nil if the tree is empty.
func (t *Tree) findLeaf(key int64) (page.No, error) {
	h, err := t.header()
	if err != nil {
		return 0, err
	}
	cur := h.RootPageNo()
	if cur == page.Nil {
		return page.Nil, nil
	}

	for {
		raw, err := t.readNode(cur)
		if err != nil {
			return 0, err
		}
		if raw.IsLeaf() {
			return cur, nil
		}
		n := page.NewInternal(raw)
		cur = descendChild(n, key)
	}
}

// descendChild picks the child of an internal node that covers key: the
// left sibling if key is smaller than every separator, else the child of
// the last record whose key is <= key.
func descendChild(n page.Internal, key int64) page.No {
	recs := n.Records()
	if len(recs) == 0 || key < recs[0].Key {
		return n.LeftSibling()
	}
	child := n.LeftSibling()
	for _, r := range recs {
		if r.Key <= key {
			child = r.Child
		} else {
			break
		}
	}
	return child
}

// Find looks up key and returns its value, or ErrNotFound.
func (t *Tree) Find(key int64) (page.Value, error) {
	if t.closed {
		return "", ErrClosed
	}
	leafNo, err := t.findLeaf(key)
	if err != nil {
		return "", err
	}
	if leafNo == page.Nil {
		return "", ErrNotFound
	}
	l, err := t.readLeaf(leafNo)
	if err != nil {
		return "", err
	}
	for _, r := range l.Records() {
		if r.Key == key {
			return r.Value, nil
		}
	}
	return "", ErrNotFound
}
