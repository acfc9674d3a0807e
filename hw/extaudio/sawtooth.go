package extaudio

import (
	"exsound/emu/log"
	"exsound/hw/snapshot"
)

// Sawtooth is the VRC6 sawtooth channel. It has 3 registers:
//
//	0: ..AA AAAA  accumulator rate
//	1: FFFF FFFF  frequency, low 8 bits
//	2: E... FFFF  enable, frequency high 4 bits
//
// The timer clocks a 14-step sequence. On odd steps the rate is added to an
// 8-bit accumulator, on the 14th step the accumulator is cleared. The 5 high
// bits of the accumulator are the channel output.
type Sawtooth struct {
	timer timer

	acc     uint8
	rate    uint8 // 0-63
	step    uint8 // 0-13
	enabled bool

	freqLo    uint8
	freqHi    uint8
	frequency uint16
}

const sawtoothSteps = 14

func NewSawtooth(channel Channel, sink Sink) *Sawtooth {
	s := new(Sawtooth)
	s.init(channel, sink)
	return s
}

func (s *Sawtooth) init(channel Channel, sink Sink) {
	s.timer = newTimer(channel, sink)
	s.Reset()
}

func (s *Sawtooth) Reset() {
	s.timer.reset()

	s.acc = 0
	s.rate = 0
	s.step = 0
	s.enabled = false
	s.freqLo = 0
	s.freqHi = 0
	s.frequency = 0
}

// Write writes val into the channel register reg (0-2). Other register
// indexes are ignored.
func (s *Sawtooth) Write(reg uint16, val uint8) {
	switch reg {
	case 0:
		s.rate = val & 0x3F

		log.ModSound.InfoZ("write sawtooth rate").
			Hex8("reg", val).
			Uint8("rate", s.rate).
			End()
	case 1:
		s.freqLo = val
		s.updateFrequency()
	case 2:
		s.enabled = val&0x80 != 0
		s.freqHi = val & 0x0F
		s.updateFrequency()

		log.ModSound.InfoZ("write sawtooth freq high").
			Hex8("reg", val).
			Bool("enabled", s.enabled).
			Uint16("freq", s.frequency).
			End()
	}
}

func (s *Sawtooth) updateFrequency() {
	s.frequency = uint16(s.freqLo) | uint16(s.freqHi)<<8
}

// Process runs the channel for the given number of master clock cycles.
func (s *Sawtooth) Process(cycles uint32) {
	if !s.enabled || s.frequency == 0 {
		s.timer.advance(cycles)
		return
	}

	for s.timer.run(&cycles, s.frequency) {
		if s.step&1 != 0 {
			s.acc += s.rate
		}

		s.step++
		if s.step == sawtoothSteps {
			s.acc = 0
			s.step = 0
		}

		s.timer.addOutput(int16(s.acc >> 3))
	}
}

func (s *Sawtooth) EndFrame() {
	s.timer.endFrame()
}

// ElapsedTime returns the number of cycles the channel has been run for since
// it was created or reset.
func (s *Sawtooth) ElapsedTime() uint64 { return s.timer.elapsed }

// Output returns the last level emitted by the channel.
func (s *Sawtooth) Output() int16 { return s.timer.lastOutput }

// Accumulator returns the 8-bit phase accumulator.
func (s *Sawtooth) Accumulator() uint8 { return s.acc }

// Frequency returns the 12-bit frequency register.
func (s *Sawtooth) Frequency() uint16 { return s.frequency }

func (s *Sawtooth) saveState(state *snapshot.Sawtooth) {
	s.timer.saveState(&state.Timer)
	state.Accumulator = s.acc
	state.Rate = s.rate
	state.Step = s.step
	state.Enabled = s.enabled
	state.FreqLo = s.freqLo
	state.FreqHi = s.freqHi
}

func (s *Sawtooth) setState(state *snapshot.Sawtooth) {
	s.timer.setState(&state.Timer)
	s.acc = state.Accumulator
	s.rate = state.Rate & 0x3F
	s.step = state.Step % sawtoothSteps
	s.enabled = state.Enabled
	s.freqLo = state.FreqLo
	s.freqHi = state.FreqHi & 0x0F
	s.updateFrequency()
}
