package bingo

import (
	"os"
	"unsafe"
)

// pageSize is the number of slot entries in one sparse page: one host memory
// page worth of uint32 slots.
var pageSize = uint32(os.Getpagesize()) / uint32(unsafe.Sizeof(uint32(0)))

// pagedIndex maps entity ids to dense slot indices. The id space is split into
// fixed-size pages that are allocated on first assignment, so an id far above
// every other one costs a single page, not a table sized to the id.
//
// Slot 0 means absent. A zero-filled page therefore maps every id it covers
// to "absent" without initialisation.
type pagedIndex struct {
	pages [][]uint32
}

// lookup returns the slot stored for id, or 0. It never allocates.
func (p *pagedIndex) lookup(id uint32) uint32 {
	page := id / pageSize
	if page >= uint32(len(p.pages)) {
		return 0
	}
	buf := p.pages[page]
	if buf == nil {
		return 0
	}
	return buf[id%pageSize]
}

// assign stores slot for id, growing the page table by page count and
// allocating the target page if needed. It reports whether the page table
// itself had to grow.
func (p *pagedIndex) assign(id, slot uint32) bool {
	page := id / pageSize
	grew := false
	if page >= uint32(len(p.pages)) {
		p.pages = grow(p.pages, int(page)+1)
		grew = true
	}
	buf := p.pages[page]
	if buf == nil {
		buf = make([]uint32, pageSize)
		p.pages[page] = buf
	}
	buf[id%pageSize] = slot
	return grew
}

// clear resets the mapping for id to absent. Unlike assign it never allocates:
// an id whose page does not exist is already absent.
func (p *pagedIndex) clear(id uint32) {
	page := id / pageSize
	if page >= uint32(len(p.pages)) || p.pages[page] == nil {
		return
	}
	p.pages[page][id%pageSize] = 0
}

// pageCount returns the length of the page table.
func (p *pagedIndex) pageCount() int {
	return len(p.pages)
}

// allocatedPages returns how many pages hold backing memory.
func (p *pagedIndex) allocatedPages() int {
	n := 0
	for _, buf := range p.pages {
		if buf != nil {
			n++
		}
	}
	return n
}
