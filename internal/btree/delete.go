package btree

import (
	"fmt"
	"log/slog"

	"github.com/gokv/bptreedb/internal/page"
)

// Delete removes key. It implements the engine's delayed-merge underflow
// policy: a node only triggers coalesce/redistribute once it becomes
// completely empty, not at the classic B+ tree minimum-occupancy bound.
func (t *Tree) Delete(key int64) error {
	if t.closed {
		return ErrClosed
	}
	leafNo, err := t.findLeaf(key)
	if err != nil {
		return err
	}
	if leafNo == page.Nil {
		return ErrNotFound
	}
	l, err := t.readLeaf(leafNo)
	if err != nil {
		return err
	}
	recs := l.Records()
	idx := indexOfKey(recs, key)
	if idx < 0 {
		return ErrNotFound
	}
	if err := l.SetRecords(removeAt(recs, idx)); err != nil {
		return err
	}
	if err := t.writeLeaf(leafNo, l); err != nil {
		return err
	}
	slog.Debug("btree.delete", "leaf", leafNo, "key", key)

	if l.Parent() == page.Nil {
		return t.adjustRoot(leafNo)
	}
	if l.KeyCount() > 0 {
		return nil
	}
	return t.handleUnderflow(leafNo)
}

// adjustRoot handles a root node after a deletion. A root leaf that still
// has keys is left in place; an empty root leaf is freed and the tree
// becomes empty. A root internal node with zero keys collapses: its sole
// remaining child is promoted to be the new root.
func (t *Tree) adjustRoot(no page.No) error {
	raw, err := t.readNode(no)
	if err != nil {
		return err
	}

	if raw.IsLeaf() {
		if raw.KeyCount() > 0 {
			return nil
		}
		h, err := t.header()
		if err != nil {
			return err
		}
		h.SetRootPageNo(page.Nil)
		if err := t.writeHeader(h); err != nil {
			return err
		}
		slog.Debug("btree.adjust_root.tree_empty", "page", no)
		return t.free(no)
	}

	n := page.NewInternal(raw)
	if n.KeyCount() > 0 {
		return nil
	}

	onlyChild := n.LeftSibling()
	if err := t.setNodeParent(onlyChild, page.Nil); err != nil {
		return err
	}
	h, err := t.header()
	if err != nil {
		return err
	}
	h.SetRootPageNo(onlyChild)
	if err := t.writeHeader(h); err != nil {
		return err
	}
	slog.Debug("btree.adjust_root.promote", "new_root", onlyChild, "old_root", no)
	return t.free(no)
}

// handleUnderflow resolves a non-root node that has become completely
// empty: it picks a neighbor (preferring the left sibling), and coalesces
// into it when the two nodes' combined key count is below the node
// capacity, otherwise redistributes one entry from it.
func (t *Tree) handleUnderflow(no page.No) error {
	raw, err := t.readNode(no)
	if err != nil {
		return err
	}
	parentNo := raw.Parent()
	p, err := t.readInternal(parentNo)
	if err != nil {
		return err
	}
	children := p.Children()
	idx := indexOfChild(children, no)
	if idx < 0 {
		return fmt.Errorf("btree: handleUnderflow: child %d not found under parent %d", no, parentNo)
	}

	var neighborNo page.No
	var kPrimeIndex int
	onLeft := idx > 0
	if onLeft {
		neighborNo = children[idx-1]
		kPrimeIndex = idx - 1
	} else {
		neighborNo = children[idx+1]
		kPrimeIndex = idx
	}

	neighborRaw, err := t.readNode(neighborNo)
	if err != nil {
		return err
	}

	var capacity, combined int
	if raw.IsLeaf() {
		capacity = t.LeafMax
		combined = raw.KeyCount() + page.NewLeaf(neighborRaw).KeyCount()
	} else {
		capacity = t.InternalMax
		combined = raw.KeyCount() + page.NewInternal(neighborRaw).KeyCount()
	}

	if combined < capacity {
		return t.coalesce(no, neighborNo, onLeft, parentNo)
	}
	return t.redistribute(no, neighborNo, onLeft, parentNo, kPrimeIndex)
}

// coalesce merges no and neighborNo into one surviving page. The survivor
// is always whichever of the two is physically to the left; the other is
// freed and its separator entry is recursively removed from the parent.
func (t *Tree) coalesce(no, neighborNo page.No, onLeft bool, parentNo page.No) error {
	leftNo, rightNo := no, neighborNo
	if onLeft {
		leftNo, rightNo = neighborNo, no
	}

	leftRaw, err := t.readNode(leftNo)
	if err != nil {
		return err
	}
	rightRaw, err := t.readNode(rightNo)
	if err != nil {
		return err
	}

	p, err := t.readInternal(parentNo)
	if err != nil {
		return err
	}
	kPrimeIndex := indexOfChild(p.Children(), rightNo) - 1
	kPrime := internalKeys(p.Records())[kPrimeIndex]

	if leftRaw.IsLeaf() {
		left := page.NewLeaf(leftRaw)
		right := page.NewLeaf(rightRaw)
		merged := append(append([]page.LeafRecord{}, left.Records()...), right.Records()...)
		if err := left.SetRecords(merged); err != nil {
			return err
		}
		left.SetRightSibling(right.RightSibling())
		if err := t.writeLeaf(leftNo, left); err != nil {
			return err
		}
	} else {
		left := page.NewInternal(leftRaw)
		right := page.NewInternal(rightRaw)
		mergedKeys := append(append(append([]int64{}, internalKeys(left.Records())...), kPrime), internalKeys(right.Records())...)
		mergedChildren := append(append([]page.No{}, left.Children()...), right.Children()...)
		if err := left.SetRecords(zipInternal(mergedKeys, mergedChildren[1:])); err != nil {
			return err
		}
		if err := t.writeInternal(leftNo, left); err != nil {
			return err
		}
		for _, c := range right.Children() {
			if err := t.setNodeParent(c, leftNo); err != nil {
				return err
			}
		}
	}

	slog.Debug("btree.coalesce", "survivor", leftNo, "freed", rightNo, "parent", parentNo)
	if err := t.deleteInternalEntry(parentNo, rightNo); err != nil {
		return err
	}
	return t.free(rightNo)
}

// deleteInternalEntry removes the separator/child pair pointing at childNo
// from the parent, then checks the parent itself for root-adjustment or
// further underflow, matching the delayed-merge policy recursively.
func (t *Tree) deleteInternalEntry(parentNo, childNo page.No) error {
	p, err := t.readInternal(parentNo)
	if err != nil {
		return err
	}
	children := p.Children()
	keys := internalKeys(p.Records())
	idx := indexOfChild(children, childNo)
	if idx < 0 {
		return fmt.Errorf("btree: deleteInternalEntry: child %d not found under parent %d", childNo, parentNo)
	}

	var newKeys []int64
	var newChildren []page.No
	if idx == 0 {
		newChildren = children[1:]
		newKeys = keys[1:]
	} else {
		newChildren = removeAt(children, idx)
		newKeys = removeAt(keys, idx-1)
	}

	p.SetLeftSibling(newChildren[0])
	if err := p.SetRecords(zipInternal(newKeys, newChildren[1:])); err != nil {
		return err
	}
	if err := t.writeInternal(parentNo, p); err != nil {
		return err
	}

	if p.Parent() == page.Nil {
		return t.adjustRoot(parentNo)
	}
	if p.KeyCount() > 0 {
		return nil
	}
	return t.handleUnderflow(parentNo)
}

// redistribute moves one entry from neighborNo to no so that no becomes
// non-empty without merging, and updates the parent's separator key.
func (t *Tree) redistribute(no, neighborNo page.No, onLeft bool, parentNo page.No, kPrimeIndex int) error {
	raw, err := t.readNode(no)
	if err != nil {
		return err
	}
	neighborRaw, err := t.readNode(neighborNo)
	if err != nil {
		return err
	}
	p, err := t.readInternal(parentNo)
	if err != nil {
		return err
	}
	kPrime := internalKeys(p.Records())[kPrimeIndex]

	var newSeparator int64

	if raw.IsLeaf() {
		n := page.NewLeaf(raw)
		neighbor := page.NewLeaf(neighborRaw)
		nRecs := n.Records()
		neighRecs := neighbor.Records()

		if onLeft {
			last := neighRecs[len(neighRecs)-1]
			neighRecs = neighRecs[:len(neighRecs)-1]
			nRecs = insertAt(nRecs, 0, last)
			newSeparator = last.Key
		} else {
			first := neighRecs[0]
			neighRecs = neighRecs[1:]
			nRecs = append(nRecs, first)
			newSeparator = neighRecs[0].Key
		}

		if err := n.SetRecords(nRecs); err != nil {
			return err
		}
		if err := neighbor.SetRecords(neighRecs); err != nil {
			return err
		}
		if err := t.writeLeaf(no, n); err != nil {
			return err
		}
		if err := t.writeLeaf(neighborNo, neighbor); err != nil {
			return err
		}
	} else {
		n := page.NewInternal(raw)
		neighbor := page.NewInternal(neighborRaw)
		nChildren := n.Children()
		nKeys := internalKeys(n.Records())
		neighChildren := neighbor.Children()
		neighKeys := internalKeys(neighbor.Records())

		var movedChild page.No
		if onLeft {
			movedChild = neighChildren[len(neighChildren)-1]
			newSeparator = neighKeys[len(neighKeys)-1]
			neighChildren = neighChildren[:len(neighChildren)-1]
			neighKeys = neighKeys[:len(neighKeys)-1]

			nChildren = insertAt(nChildren, 0, movedChild)
			nKeys = insertAt(nKeys, 0, kPrime)
		} else {
			movedChild = neighChildren[0]
			newSeparator = neighKeys[0]
			neighChildren = neighChildren[1:]
			neighKeys = neighKeys[1:]

			nChildren = append(nChildren, movedChild)
			nKeys = append(nKeys, kPrime)
		}

		n.SetLeftSibling(nChildren[0])
		if err := n.SetRecords(zipInternal(nKeys, nChildren[1:])); err != nil {
			return err
		}
		neighbor.SetLeftSibling(neighChildren[0])
		if err := neighbor.SetRecords(zipInternal(neighKeys, neighChildren[1:])); err != nil {
			return err
		}
		if err := t.writeInternal(no, n); err != nil {
			return err
		}
		if err := t.writeInternal(neighborNo, neighbor); err != nil {
			return err
		}
		if err := t.setNodeParent(movedChild, no); err != nil {
			return err
		}
	}

	keys := internalKeys(p.Records())
	keys[kPrimeIndex] = newSeparator
	children := p.Children()
	p.SetLeftSibling(children[0])
	if err := p.SetRecords(zipInternal(keys, children[1:])); err != nil {
		return err
	}
	slog.Debug("btree.redistribute", "node", no, "neighbor", neighborNo, "new_separator", newSeparator)
	return t.writeInternal(parentNo, p)
}
