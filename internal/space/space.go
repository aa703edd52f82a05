// Package space implements the Space Manager: allocation and release of
// pages using an intrusive free list rooted in the header page.
package space

import (
	"fmt"
	"log/slog"

	"github.com/gokv/bptreedb/internal/page"
	"github.com/gokv/bptreedb/internal/pager"
)

// Manager allocates and frees pages against one table file. Every
// operation reads and rewrites the header page, matching the reference
// algorithm's "read header, maybe follow free list, write header" shape.
type Manager struct {
	pg *pager.Pager
}

// New wraps an already-open pager.
func New(pg *pager.Pager) *Manager {
	return &Manager{pg: pg}
}

// Bootstrap creates a fresh, empty database: a single header page with no
// free pages and no root.
func Bootstrap(pg *pager.Pager) (*Manager, error) {
	var buf page.Page
	page.InitHeader(&buf)
	if err := pg.Write(0, &buf); err != nil {
		return nil, fmt.Errorf("space: bootstrap header: %w", err)
	}
	return &Manager{pg: pg}, nil
}

// Header reads and returns a typed view of the current header page.
func (m *Manager) Header() (page.Header, error) {
	buf, err := m.pg.Read(0)
	if err != nil {
		return page.Header{}, fmt.Errorf("space: read header: %w", err)
	}
	return page.NewHeader(buf), nil
}

// Alloc returns a fresh page number: either the head of the free list, or
// a brand-new page extending the file. The caller must initialize the
// returned page's contents (via page.InitLeaf/InitInternal) before relying
// on its layout; Alloc does not zero it.
func (m *Manager) Alloc() (page.No, error) {
	hbuf, err := m.pg.Read(0)
	if err != nil {
		return 0, fmt.Errorf("space: alloc: read header: %w", err)
	}
	h := page.NewHeader(hbuf)

	if free := h.FreePageNo(); free != page.Nil {
		freeBuf, err := m.pg.Read(free)
		if err != nil {
			return 0, fmt.Errorf("space: alloc: read free page %d: %w", free, err)
		}
		next := page.NewFree(freeBuf).NextFreePageNo()
		h.SetFreePageNo(next)
		if err := m.pg.Write(0, hbuf); err != nil {
			return 0, fmt.Errorf("space: alloc: write header: %w", err)
		}
		slog.Debug("space.alloc", "page", free, "source", "freelist")
		return free, nil
	}

	newNo := page.No(h.PageCount())
	h.SetPageCount(h.PageCount() + 1)
	if err := m.pg.Write(0, hbuf); err != nil {
		return 0, fmt.Errorf("space: alloc: write header: %w", err)
	}
	slog.Debug("space.alloc", "page", newNo, "source", "extend")
	return newNo, nil
}

// Free prepends pageNo to the free list.
func (m *Manager) Free(pageNo page.No) error {
	hbuf, err := m.pg.Read(0)
	if err != nil {
		return fmt.Errorf("space: free: read header: %w", err)
	}
	h := page.NewHeader(hbuf)

	// Per spec 3.7, freeing a page only overwrites its next-pointer; the
	// rest of its prior content is left as undefined garbage rather than
	// zeroed.
	freeBuf, err := m.pg.Read(pageNo)
	if err != nil {
		return fmt.Errorf("space: free: read page %d: %w", pageNo, err)
	}
	f := page.NewFree(freeBuf)
	f.SetNextFreePageNo(h.FreePageNo())
	if err := m.pg.Write(pageNo, freeBuf); err != nil {
		return fmt.Errorf("space: free: write free page %d: %w", pageNo, err)
	}

	h.SetFreePageNo(pageNo)
	if err := m.pg.Write(0, hbuf); err != nil {
		return fmt.Errorf("space: free: write header: %w", err)
	}
	slog.Debug("space.free", "page", pageNo)
	return nil
}
