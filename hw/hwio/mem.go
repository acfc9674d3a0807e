package hwio

import (
	"unsafe"

	"exsound/emu/log"
)

// mem is the main structure used for linear memory access.
//
// We use this structure by pointer rather than by value because it is stored as
// BankIO8 interface within Table, and checking if a concrete pointer type is
// behind the interface is faster than checking a non-pointer type.
type mem struct {
	name string
	ptr  unsafe.Pointer
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func newMem(name string, buf []byte, wcb func(uint16, uint8), roflag MemFlags) *mem {
	if len(buf) == 0 || len(buf)&(len(buf)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		name: name,
		ptr:  unsafe.Pointer(&buf[0]),
		mask: uint16(len(buf) - 1),
		wcb:  wcb,
		ro:   roflag,
	}
}

func (m *mem) Read8(addr uint16, _ bool) uint8 {
	off := uintptr(addr & m.mask)
	return *(*uint8)(unsafe.Pointer(uintptr(m.ptr) + off))
}

// Write8CheckRO writes val and reports whether the memory accepted it.
func (m *mem) Write8CheckRO(addr uint16, val uint8) bool {
	off := uintptr(addr & m.mask)
	if m.ro == MemFlagReadWrite {
		*(*uint8)(unsafe.Pointer(uintptr(m.ptr) + off)) = val
		if m.wcb != nil {
			m.wcb(addr, val)
		}
		return true
	}
	return m.ro&MemFlagNoROLog != 0 // fake success if we're in silent mode
}

func (m *mem) Write8(addr uint16, val uint8) {
	if !m.Write8CheckRO(addr, val) {
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			String("name", m.name).
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	}
}

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Linear memory area that can be mapped into a Table.
//
// NOTE: this structure does not directly implement the BankIO8 interface for
// performance reasons. Clients call BankIO8 to create an adaptor implementing
// memory access for the configured flags.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the memory (can differ from physical size)
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint16, uint8) // optional callback, called after each successful write
}

func (m *Mem) BankIO8() BankIO8 {
	return newMem(m.Name, m.Data, m.WriteCb, m.Flags)
}
