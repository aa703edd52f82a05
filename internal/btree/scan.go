package btree

import "github.com/gokv/bptreedb/internal/page"

// RangeScan returns every (key, value) pair with lo <= key <= hi, in
// ascending key order, by walking the leaf sibling chain starting from the
// leaf that would contain lo.
func (t *Tree) RangeScan(lo, hi int64) ([]page.LeafRecord, error) {
	if t.closed {
		return nil, ErrClosed
	}
	leafNo, err := t.findLeaf(lo)
	if err != nil {
		return nil, err
	}
	if leafNo == page.Nil {
		return nil, nil
	}

	var out []page.LeafRecord
	for leafNo != page.Nil {
		l, err := t.readLeaf(leafNo)
		if err != nil {
			return nil, err
		}
		exceeded := false
		for _, r := range l.Records() {
			if r.Key < lo {
				continue
			}
			if r.Key > hi {
				exceeded = true
				break
			}
			out = append(out, r)
		}
		if exceeded {
			break
		}
		leafNo = l.RightSibling()
	}
	return out, nil
}
