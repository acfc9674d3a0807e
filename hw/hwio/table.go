package hwio

import (
	"fmt"

	"exsound/emu/log"
)

// log unmapped accesses (useful for debugging but verbose since the bus
// dispatcher probes every chip in turn)
const logUnmapped = false

type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

// devices that can be mapped but never read back.
type writeOnlyIO interface {
	writeOnly() bool
}

type Table struct {
	Name string

	table8 radixTree
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

func (t *Table) Reset() {
	t.table8 = radixTree{}
}

// MapBank maps a register bank (that is, a structure containing multiple
// Reg8, Mem or Device fields). For this function to work, registers must have
// a struct tag "hwio", containing the following fields:
//
//	offset=0x12     Byte-offset within the register bank at which this
//	                register is mapped. There is no default value: if this
//	                option is missing, the register is assumed not to be
//	                part of the bank, and is ignored by this call.
//
//	bank=NN         Ordinal bank number (if not specified, default to zero).
//	                This option allows for a structure to expose multiple
//	                banks, as regs can be grouped by bank by specified the
//	                bank number.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) UnmapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.VSize)-1)
		case *Reg8:
			t.Unmap(addr+reg.offset, addr+reg.offset)
		case *Device:
			t.Unmap(addr+reg.offset, addr+reg.offset+uint16(r.Size)-1)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus8(addr, size uint16, io BankIO8) {
	if err := t.table8.InsertRange(addr, addr+size-1, io); err != nil {
		panic(fmt.Errorf("%s: %w", t.Name, err))
	}
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, 1, io)
}

func (t *Table) MapDevice(addr uint16, io *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex16("addr", addr).
		Hex16("size", uint16(io.Size)).
		String("dev", io.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, uint16(io.Size), io)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, uint16(mem.VSize), mem.BankIO8())
}

func (t *Table) Unmap(begin, end uint16) {
	t.table8.RemoveRange(begin, end)
}

// Mapped reports whether any device is mapped at addr.
func (t *Table) Mapped(addr uint16) bool {
	return t.table8.Search(addr) != nil
}

// Read8 searches in the table for the device mapped at the given address and
// forward the read to it. Unmapped addresses read as zero.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	val, _ := t.read8(addr, peek)
	return val
}

// ReadMapped is like Read8 but also reports whether a readable device answered
// at addr. Write-only registers and devices are reported as unmapped.
func (t *Table) ReadMapped(addr uint16) (uint8, bool) {
	return t.read8(addr, false)
}

func (t *Table) read8(addr uint16, peek bool) (uint8, bool) {
	io := t.table8.Search(addr)
	if io == nil {
		if logUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("name", t.Name).
				Hex16("addr", addr).
				End()
		}
		return 0, false
	}
	if wo, ok := io.(writeOnlyIO); ok && wo.writeOnly() {
		return 0, false
	}
	return io.(BankIO8).Read8(addr, peek), true
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.table8.Search(addr)
	if io == nil {
		if logUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	if mem, ok := io.(*mem); ok {
		// NOTE: we use the CheckRO format so that the success codepath
		// (that is, when the memory is read-write) is fully inlined and
		// requires no function call.
		ok := mem.Write8CheckRO(addr, val)
		if !ok {
			log.ModHwIo.ErrorZ("Write8 to read-only address").
				String("name", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	io.(BankIO8).Write8(addr, val)
}
