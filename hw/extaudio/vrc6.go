package extaudio

import (
	"exsound/hw/hwio"
	"exsound/hw/snapshot"
)

// VRC6Base is the CPU address of the first VRC6 sound register.
const VRC6Base = 0x9000

// VRC6 is the Konami VRC6 sound chip: two pulse channels and a sawtooth
// channel.
//
//	$9000-$9002  pulse 1
//	$A000-$A002  pulse 2
//	$B000-$B002  sawtooth
//
// None of its registers can be read back.
type VRC6 struct {
	bus *hwio.Table

	pulse1   Pulse
	pulse2   Pulse
	sawtooth Sawtooth

	PULSE1 hwio.Device `hwio:"offset=0x0000,size=3,writeonly,wcb"`
	PULSE2 hwio.Device `hwio:"offset=0x1000,size=3,writeonly,wcb"`
	SAW    hwio.Device `hwio:"offset=0x2000,size=3,writeonly,wcb"`
}

func NewVRC6(sink Sink) *VRC6 {
	c := &VRC6{bus: hwio.NewTable("vrc6")}
	c.pulse1.init(VRC6Pulse1, sink)
	c.pulse2.init(VRC6Pulse2, sink)
	c.sawtooth.init(VRC6Sawtooth, sink)

	hwio.MustInitRegs(c)
	c.bus.MapBank(VRC6Base, c, 0)
	return c
}

func (c *VRC6) WritePULSE1(addr uint16, val uint8) { c.pulse1.Write(addr&3, val) }
func (c *VRC6) WritePULSE2(addr uint16, val uint8) { c.pulse2.Write(addr&3, val) }
func (c *VRC6) WriteSAW(addr uint16, val uint8)    { c.sawtooth.Write(addr&3, val) }

func (c *VRC6) Reset() {
	c.pulse1.Reset()
	c.pulse2.Reset()
	c.sawtooth.Reset()
}

func (c *VRC6) Write(addr uint16, val uint8) {
	c.bus.Write8(addr, val)
}

func (c *VRC6) Read(addr uint16) (uint8, bool) {
	return c.bus.ReadMapped(addr)
}

func (c *VRC6) EndFrame() {
	c.pulse1.EndFrame()
	c.pulse2.EndFrame()
	c.sawtooth.EndFrame()
}

func (c *VRC6) Process(cycles uint32) {
	c.pulse1.Process(cycles)
	c.pulse2.Process(cycles)
	c.sawtooth.Process(cycles)
}

func (c *VRC6) Pulse1() *Pulse      { return &c.pulse1 }
func (c *VRC6) Pulse2() *Pulse      { return &c.pulse2 }
func (c *VRC6) Sawtooth() *Sawtooth { return &c.sawtooth }

func (c *VRC6) State() *snapshot.VRC6 {
	var state snapshot.VRC6
	c.pulse1.saveState(&state.Pulse1)
	c.pulse2.saveState(&state.Pulse2)
	c.sawtooth.saveState(&state.Sawtooth)
	return &state
}

func (c *VRC6) SetState(state *snapshot.VRC6) {
	c.pulse1.setState(&state.Pulse1)
	c.pulse2.setState(&state.Pulse2)
	c.sawtooth.setState(&state.Sawtooth)
}
