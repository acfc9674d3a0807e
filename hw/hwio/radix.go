package hwio

import "fmt"

// radixTree maps 16-bit addresses to bus devices. It is a two-level table
// indexed by the high then low address byte; pages are allocated on first
// use.
type radixTree struct {
	pages [256]*[256]any
}

func (r *radixTree) InsertRange(begin, end uint16, io any) error {
	if end < begin {
		return fmt.Errorf("invalid range %04x-%04x", begin, end)
	}
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		if cur := r.Search(uint16(addr)); cur != nil {
			return fmt.Errorf("address %04x already mapped (range %04x-%04x)", addr, begin, end)
		}
	}
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		page := r.pages[addr>>8]
		if page == nil {
			page = new([256]any)
			r.pages[addr>>8] = page
		}
		page[addr&0xFF] = io
	}
	return nil
}

func (r *radixTree) RemoveRange(begin, end uint16) {
	for addr := uint32(begin); addr <= uint32(end); addr++ {
		if page := r.pages[addr>>8]; page != nil {
			page[addr&0xFF] = nil
		}
	}
}

func (r *radixTree) Search(addr uint16) any {
	page := r.pages[addr>>8]
	if page == nil {
		return nil
	}
	return page[addr&0xFF]
}
