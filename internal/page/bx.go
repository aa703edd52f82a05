// Package page implements the fixed 4096-byte on-disk page layouts for the
// B+ tree storage engine: the header page, free-list pages, internal pages
// and leaf pages. All multi-byte integers are little-endian.
package page

import "encoding/binary"

var le = binary.LittleEndian

// --- LE: read ---
func u16(b []byte) uint16 { return le.Uint16(b) }
func u64(b []byte) uint64 { return le.Uint64(b) }
func i64(b []byte) int64  { return int64(u64(b)) }

// --- LE: write ---
func putU16(b []byte, v uint16) { le.PutUint16(b, v) }
func putU64(b []byte, v uint64) { le.PutUint64(b, v) }
func putI64(b []byte, v int64)  { putU64(b, uint64(v)) }

// --- LE: At (offset) ---
func U16At(b []byte, off int) uint16       { return u16(b[off:]) }
func U64At(b []byte, off int) uint64       { return u64(b[off:]) }
func I64At(b []byte, off int) int64        { return i64(b[off:]) }
func PutU16At(b []byte, off int, v uint16) { putU16(b[off:], v) }
func PutU64At(b []byte, off int, v uint64) { putU64(b[off:], v) }
func PutI64At(b []byte, off int, v int64)  { putI64(b[off:], v) }
