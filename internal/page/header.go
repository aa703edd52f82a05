package page

const (
	offFreePageNo = 0
	offRootPageNo = 8
	offPageCount  = 16
)

// Header is a typed view over page 0: the free-list head, the tree root,
// and the total page count.
type Header struct {
	raw *Page
}

// NewHeader wraps p as a Header view.
func NewHeader(p *Page) Header { return Header{raw: p} }

// Raw returns the underlying page, for handing to a Pager.Write.
func (h Header) Raw() *Page { return h.raw }

// InitHeader resets p to a freshly-created, empty-database header: no free
// pages, no root, and a single page (the header itself) present in the file.
func InitHeader(p *Page) Header {
	*p = Page{}
	h := Header{raw: p}
	h.SetFreePageNo(Nil)
	h.SetRootPageNo(Nil)
	h.SetPageCount(1)
	return h
}

func (h Header) FreePageNo() No { return No(U64At(h.raw[:], offFreePageNo)) }
func (h Header) SetFreePageNo(n No) {
	PutU64At(h.raw[:], offFreePageNo, uint64(n))
}

func (h Header) RootPageNo() No { return No(U64At(h.raw[:], offRootPageNo)) }
func (h Header) SetRootPageNo(n No) {
	PutU64At(h.raw[:], offRootPageNo, uint64(n))
}

func (h Header) PageCount() uint64 { return U64At(h.raw[:], offPageCount) }
func (h Header) SetPageCount(n uint64) {
	PutU64At(h.raw[:], offPageCount, n)
}
