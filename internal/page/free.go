package page

const offNextFreePageNo = 0

// Free is a typed view over a page currently sitting on the free list. Only
// its first 8 bytes are meaningful; the rest is leftover garbage from
// whatever the page held before it was freed.
type Free struct {
	raw *Page
}

// NewFree wraps p as a Free view.
func NewFree(p *Page) Free { return Free{raw: p} }

// Raw returns the underlying page, for handing to a Pager.Write.
func (f Free) Raw() *Page { return f.raw }

func (f Free) NextFreePageNo() No { return No(U64At(f.raw[:], offNextFreePageNo)) }
func (f Free) SetNextFreePageNo(n No) {
	PutU64At(f.raw[:], offNextFreePageNo, uint64(n))
}
