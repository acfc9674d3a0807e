package emu

import (
	"exsound/emu/log"
	"exsound/hw/extaudio"
)

// Bus dispatches CPU bus accesses to a set of expansion chips. Every chip
// sees every write and decodes its own addresses.
type Bus struct {
	chips []extaudio.Chip
}

func NewBus(chips ...extaudio.Chip) *Bus {
	return &Bus{chips: chips}
}

func (b *Bus) Write(addr uint16, val uint8) {
	for _, c := range b.chips {
		c.Write(addr, val)
	}
}

// Read returns the value of the first chip mapping addr. If none does, the
// read is an open bus read and mapped is false.
func (b *Bus) Read(addr uint16) (val uint8, mapped bool) {
	for _, c := range b.chips {
		if val, mapped = c.Read(addr); mapped {
			return val, true
		}
	}
	log.ModEmu.DebugZ("open bus read").Hex16("addr", addr).End()
	return 0, false
}

func (b *Bus) Reset() {
	for _, c := range b.chips {
		c.Reset()
	}
}
