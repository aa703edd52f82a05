package btree

import (
	"fmt"
	"strings"

	"github.com/gokv/bptreedb/internal/page"
)

// DebugLeaves renders the keys of every leaf, in sibling-chain order,
// separated by "| ". It is a read-only diagnostic with no effect on the
// persisted tree, used by the CLI's print-leaves command.
func (t *Tree) DebugLeaves() (string, error) {
	h, err := t.header()
	if err != nil {
		return "", err
	}
	if h.RootPageNo() == page.Nil {
		return "(empty)", nil
	}

	cur := h.RootPageNo()
	for {
		raw, err := t.readNode(cur)
		if err != nil {
			return "", err
		}
		if raw.IsLeaf() {
			break
		}
		cur = page.NewInternal(raw).LeftSibling()
	}

	var sb strings.Builder
	for cur != page.Nil {
		l, err := t.readLeaf(cur)
		if err != nil {
			return "", err
		}
		for _, r := range l.Records() {
			fmt.Fprintf(&sb, "%d ", r.Key)
		}
		sb.WriteString("| ")
		cur = l.RightSibling()
	}
	return strings.TrimSpace(sb.String()), nil
}

// DebugString renders the tree level by level, root first, each level's
// node keys separated by "| ". It is the Go analogue of the reference
// program's print_tree diagnostic.
func (t *Tree) DebugString() (string, error) {
	h, err := t.header()
	if err != nil {
		return "", err
	}
	if h.RootPageNo() == page.Nil {
		return "(empty)", nil
	}

	var sb strings.Builder
	level := []page.No{h.RootPageNo()}
	for len(level) > 0 {
		var next []page.No
		for _, no := range level {
			raw, err := t.readNode(no)
			if err != nil {
				return "", err
			}
			if raw.IsLeaf() {
				for _, r := range page.NewLeaf(raw).Records() {
					fmt.Fprintf(&sb, "%d ", r.Key)
				}
			} else {
				n := page.NewInternal(raw)
				for _, r := range n.Records() {
					fmt.Fprintf(&sb, "%d ", r.Key)
				}
				next = append(next, n.Children()...)
			}
			sb.WriteString("| ")
		}
		sb.WriteString("\n")
		level = next
	}
	return strings.TrimSpace(sb.String()), nil
}
