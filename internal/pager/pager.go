// Package pager implements the Disk Space Manager's page-at-a-time I/O: a
// thin wrapper around one open os.File that reads and writes fixed
// page.Size byte pages by page number.
package pager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gokv/bptreedb/internal/page"
)

// ErrClosed is returned by any operation on a Pager after Close.
var ErrClosed = errors.New("pager: closed")

// Pager owns one open database file and serves whole-page reads and writes
// against it. There is no caching here and no page-level locking: the
// engine is single-threaded, and durability is provided by fsync-on-write.
type Pager struct {
	file   *os.File
	closed bool
}

// Open opens an existing database file for reading and writing pages.
// It never creates a file: a brand-new file is created with Create and
// given its header page by internal/space.Bootstrap, matching the minimal
// "open an existing file" contract.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pager: open %s: %w", path, err)
	}
	return &Pager{file: f}, nil
}

// Create opens path for reading and writing, creating it if it does not
// already exist. This is the entry point used to bootstrap a brand-new
// table file.
func Create(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pager: create %s: %w", path, err)
	}
	return &Pager{file: f}, nil
}

// PageCount reports how many page.Size-sized pages currently fit in the
// file, based on its current size on disk.
func (p *Pager) PageCount() (uint64, error) {
	if p.closed {
		return 0, ErrClosed
	}
	fi, err := p.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("pager: stat: %w", err)
	}
	return uint64(fi.Size()) / page.Size, nil
}

// Read reads exactly one page at pageNo. The page must already exist in
// the file (be within the current file size); reading beyond it is a bug
// in the caller, not a recoverable condition.
func (p *Pager) Read(pageNo page.No) (*page.Page, error) {
	if p.closed {
		return nil, ErrClosed
	}
	var buf page.Page
	off := int64(pageNo) * page.Size
	n, err := p.file.ReadAt(buf[:], off)
	if err != nil && !(err == io.EOF && n == page.Size) {
		return nil, fmt.Errorf("pager: read page %d: %w", pageNo, err)
	}
	if n != page.Size {
		return nil, fmt.Errorf("pager: short read of page %d: got %d bytes", pageNo, n)
	}
	return &buf, nil
}

// Write writes one page at pageNo and flushes it to the OS before
// returning. The flush is the engine's entire durability contract: once
// Write returns nil, the bytes have left user space.
func (p *Pager) Write(pageNo page.No, buf *page.Page) error {
	if p.closed {
		return ErrClosed
	}
	off := int64(pageNo) * page.Size
	n, err := p.file.WriteAt(buf[:], off)
	if err != nil {
		return fmt.Errorf("pager: write page %d: %w", pageNo, err)
	}
	if n != page.Size {
		return fmt.Errorf("pager: short write of page %d: wrote %d bytes", pageNo, n)
	}
	if err := p.file.Sync(); err != nil {
		return fmt.Errorf("pager: fsync after writing page %d: %w", pageNo, err)
	}
	slog.Debug("pager.write", "page", pageNo)
	return nil
}

// Close closes the underlying file. Further operations return ErrClosed.
func (p *Pager) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.file.Close(); err != nil {
		return fmt.Errorf("pager: close: %w", err)
	}
	return nil
}
