package btree

import "github.com/gokv/bptreedb/internal/page"

// insertAt returns a copy of s with v inserted at idx, shifting the tail
// right. Used throughout insert/delete to build "working arrays" one
// element larger (or smaller) than a node's current capacity.
func insertAt[T any](s []T, idx int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:idx]...)
	out = append(out, v)
	out = append(out, s[idx:]...)
	return out
}

// removeAt returns a copy of s with the element at idx removed.
func removeAt[T any](s []T, idx int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:idx]...)
	out = append(out, s[idx+1:]...)
	return out
}

func indexOfKey(recs []page.LeafRecord, key int64) int {
	for i, r := range recs {
		if r.Key == key {
			return i
		}
	}
	return -1
}

func indexOfChild(children []page.No, v page.No) int {
	for i, c := range children {
		if c == v {
			return i
		}
	}
	return -1
}

func insertLeafRecordSorted(recs []page.LeafRecord, rec page.LeafRecord) []page.LeafRecord {
	idx := 0
	for idx < len(recs) && recs[idx].Key < rec.Key {
		idx++
	}
	return insertAt(recs, idx, rec)
}

func zipInternal(keys []int64, children []page.No) []page.InternalRecord {
	recs := make([]page.InternalRecord, len(keys))
	for i := range keys {
		recs[i] = page.InternalRecord{Key: keys[i], Child: children[i]}
	}
	return recs
}

func internalKeys(recs []page.InternalRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.Key
	}
	return out
}
