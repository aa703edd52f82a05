package btree

import "errors"

// ErrNotFound is returned by Find and Delete when the key is absent.
var ErrNotFound = errors.New("btree: key not found")

// ErrClosed is returned by any operation on a Tree after Close.
var ErrClosed = errors.New("btree: tree is closed")

// ErrInvalidCapacity is returned when a caller asks for a leaf or internal
// capacity that does not fit the physical page layout.
var ErrInvalidCapacity = errors.New("btree: capacity exceeds physical page layout")
