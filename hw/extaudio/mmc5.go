package extaudio

import (
	"exsound/hw/hwio"
	"exsound/hw/snapshot"
)

// MMC5Base is the CPU address of the first MMC5 register.
const MMC5Base = 0x5000

// ExRAMSize is the size of the MMC5 expansion RAM.
const ExRAMSize = 0x400

// MMC5 is the Nintendo MMC5 sound hardware: two pulse channels, the 8x8
// multiplier and the 1KB expansion RAM.
//
//	$5000-$5002  pulse 1
//	$5004-$5006  pulse 2
//	$5205        multiplier operand A (write), product low byte (read)
//	$5206        multiplier operand B (write), product high byte (read)
//	$5C00-$5FF5  expansion RAM
type MMC5 struct {
	bus *hwio.Table

	pulse1 Pulse
	pulse2 Pulse
	mul    Multiplier

	PULSE1 hwio.Device `hwio:"offset=0x000,size=3,writeonly,wcb"`
	PULSE2 hwio.Device `hwio:"offset=0x004,size=3,writeonly,wcb"`
	MULLO  hwio.Reg8   `hwio:"offset=0x205,rcb,wcb"`
	MULHI  hwio.Reg8   `hwio:"offset=0x206,rcb,wcb"`
	EXRAM  hwio.Mem    `hwio:"offset=0xC00,size=0x400,vsize=0x3F6"`
}

func NewMMC5(sink Sink) *MMC5 {
	c := &MMC5{bus: hwio.NewTable("mmc5")}
	c.pulse1.init(MMC5Pulse1, sink)
	c.pulse2.init(MMC5Pulse2, sink)

	hwio.MustInitRegs(c)
	c.bus.MapBank(MMC5Base, c, 0)
	return c
}

func (c *MMC5) WritePULSE1(addr uint16, val uint8) { c.pulse1.Write(addr&3, val) }
func (c *MMC5) WritePULSE2(addr uint16, val uint8) { c.pulse2.Write(addr&3, val) }

func (c *MMC5) WriteMULLO(_, val uint8) { c.mul.SetA(val) }
func (c *MMC5) WriteMULHI(_, val uint8) { c.mul.SetB(val) }
func (c *MMC5) ReadMULLO(_ uint8) uint8 { return c.mul.Low() }
func (c *MMC5) ReadMULHI(_ uint8) uint8 { return c.mul.High() }

func (c *MMC5) Reset() {
	c.pulse1.Reset()
	c.pulse2.Reset()
	c.mul.Reset()
	c.MULLO.Value = 0
	c.MULHI.Value = 0
	clear(c.EXRAM.Data)
}

func (c *MMC5) Write(addr uint16, val uint8) {
	c.bus.Write8(addr, val)
}

func (c *MMC5) Read(addr uint16) (uint8, bool) {
	return c.bus.ReadMapped(addr)
}

// EndFrame only concerns the pulse channels, the multiplier and the
// expansion RAM have no notion of time.
func (c *MMC5) EndFrame() {
	c.pulse1.EndFrame()
	c.pulse2.EndFrame()
}

func (c *MMC5) Process(cycles uint32) {
	c.pulse1.Process(cycles)
	c.pulse2.Process(cycles)
}

func (c *MMC5) Pulse1() *Pulse          { return &c.pulse1 }
func (c *MMC5) Pulse2() *Pulse          { return &c.pulse2 }
func (c *MMC5) Multiplier() *Multiplier { return &c.mul }

// ExRAM returns the expansion RAM contents, shared with the PPU side of the
// mapper (extended attributes, split screen).
func (c *MMC5) ExRAM() []byte { return c.EXRAM.Data }

func (c *MMC5) State() *snapshot.MMC5 {
	var state snapshot.MMC5
	c.pulse1.saveState(&state.Pulse1)
	c.pulse2.saveState(&state.Pulse2)
	state.MulA = c.mul.a
	state.MulB = c.mul.b
	copy(state.ExRAM[:], c.EXRAM.Data)
	return &state
}

func (c *MMC5) SetState(state *snapshot.MMC5) {
	c.pulse1.setState(&state.Pulse1)
	c.pulse2.setState(&state.Pulse2)
	c.mul.a = state.MulA
	c.mul.b = state.MulB
	c.MULLO.Value = state.MulA
	c.MULHI.Value = state.MulB
	copy(c.EXRAM.Data, state.ExRAM[:])
}
