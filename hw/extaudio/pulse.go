package extaudio

import (
	"exsound/emu/log"
	"exsound/hw/snapshot"
)

// Pulse is the VRC6-style pulse channel, also used for the MMC5 pulses. It
// has 3 registers:
//
//	0: GDDD VVVV  gate, duty (0-7), volume
//	1: FFFF FFFF  frequency, low 8 bits
//	2: E... FFFF  enable, frequency high 4 bits
//
// The 12-bit timer clocks a 16-step duty sequencer. The channel outputs its
// volume when the gate is set or when the sequencer position is at or past
// the duty value (duty field+1), 0 otherwise.
//
//	+---------+    +---------+    +---------+
//	|  Timer  |--->|Sequencer|--->|  Gate   |---> level
//	+---------+    +---------+    +---------+
type Pulse struct {
	timer timer

	duty    uint8 // 1-8
	dutyPos uint8 // 0-15
	volume  uint8
	gate    bool
	enabled bool

	freqLo    uint8
	freqHi    uint8
	frequency uint16
}

func NewPulse(channel Channel, sink Sink) *Pulse {
	p := new(Pulse)
	p.init(channel, sink)
	return p
}

func (p *Pulse) init(channel Channel, sink Sink) {
	p.timer = newTimer(channel, sink)
	p.Reset()
}

func (p *Pulse) Reset() {
	p.timer.reset()

	p.duty = 1 // control register at 0
	p.dutyPos = 0
	p.volume = 0
	p.gate = false
	p.enabled = false
	p.freqLo = 0
	p.freqHi = 0
	p.frequency = 0
}

// Write writes val into the channel register reg (0-2). Other register
// indexes are ignored.
func (p *Pulse) Write(reg uint16, val uint8) {
	switch reg {
	case 0:
		p.gate = val&0x80 != 0
		p.duty = ((val >> 4) & 0x07) + 1
		p.volume = val & 0x0F

		// The gate forces the output, without waiting for the next step.
		if p.gate {
			p.timer.addOutput(int16(p.volume))
		}

		log.ModSound.InfoZ("write pulse control").
			Stringer("ch", p.timer.channel).
			Hex8("reg", val).
			Bool("gate", p.gate).
			Uint8("duty", p.duty).
			Uint8("vol", p.volume).
			End()
	case 1:
		p.freqLo = val
		p.updateFrequency()
	case 2:
		p.enabled = val&0x80 != 0
		p.freqHi = val & 0x0F
		p.updateFrequency()

		log.ModSound.InfoZ("write pulse freq high").
			Stringer("ch", p.timer.channel).
			Hex8("reg", val).
			Bool("enabled", p.enabled).
			Uint16("freq", p.frequency).
			End()
	}
}

func (p *Pulse) updateFrequency() {
	p.frequency = uint16(p.freqLo) | uint16(p.freqHi)<<8
}

func (p *Pulse) level() int16 {
	if p.gate || p.dutyPos >= p.duty {
		return int16(p.volume)
	}
	return 0
}

// Process runs the channel for the given number of master clock cycles.
func (p *Pulse) Process(cycles uint32) {
	if !p.enabled || p.frequency == 0 {
		p.timer.advance(cycles)
		return
	}

	for p.timer.run(&cycles, p.frequency) {
		p.dutyPos = (p.dutyPos + 1) & 0x0F
		p.timer.addOutput(p.level())
	}
}

func (p *Pulse) EndFrame() {
	p.timer.endFrame()
}

// ElapsedTime returns the number of cycles the channel has been run for since
// it was created or reset.
func (p *Pulse) ElapsedTime() uint64 { return p.timer.elapsed }

// Output returns the last level emitted by the channel.
func (p *Pulse) Output() int16 { return p.timer.lastOutput }

// Frequency returns the 12-bit frequency register.
func (p *Pulse) Frequency() uint16 { return p.frequency }

func (p *Pulse) saveState(state *snapshot.Pulse) {
	p.timer.saveState(&state.Timer)
	state.Duty = p.duty
	state.DutyPos = p.dutyPos
	state.Volume = p.volume
	state.Gate = p.gate
	state.Enabled = p.enabled
	state.FreqLo = p.freqLo
	state.FreqHi = p.freqHi
}

func (p *Pulse) setState(state *snapshot.Pulse) {
	p.timer.setState(&state.Timer)
	p.duty = ((state.Duty - 1) & 0x07) + 1
	p.dutyPos = state.DutyPos & 0x0F
	p.volume = state.Volume & 0x0F
	p.gate = state.Gate
	p.enabled = state.Enabled
	p.freqLo = state.FreqLo
	p.freqHi = state.FreqHi & 0x0F
	p.updateFrequency()
}
