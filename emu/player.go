package emu

import (
	"fmt"

	"exsound/emu/log"
	"exsound/hw/extaudio"
	"exsound/hw/mixer"
)

// Output consumes the PCM samples rendered at the end of each frame.
type Output interface {
	WriteSamples(samples []int16) error
}

// Player drives a set of expansion chips in master clock time. It splits
// time into frames, ends the frame of every chip and of the mixer at each
// boundary, and hands the mixed samples to its output.
type Player struct {
	cfg   Config
	names []string
	chips []extaudio.Chip
	bus   *Bus
	mixer *mixer.Mixer
	out   Output

	frameTime uint32 // cycles into the current frame
	cycles    uint64 // cycles since creation
	frames    uint64

	buf     []int16
	samples []int16
	err     error
}

// NewPlayer creates the chips listed in cfg. Samples are written to out, or
// accumulated and returned by Samples if out is nil. Level events are also
// forwarded to sinks.
func NewPlayer(cfg Config, out Output, sinks ...extaudio.Sink) (*Player, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	mcfg, err := cfg.MixerConfig()
	if err != nil {
		return nil, err
	}

	p := &Player{
		cfg:   cfg,
		mixer: mixer.New(mcfg),
		out:   out,
	}

	sink := extaudio.Sink(p.mixer)
	if len(sinks) > 0 {
		sink = extaudio.Tee(append([]extaudio.Sink{p.mixer}, sinks...)...)
	}

	for _, name := range cfg.Player.Chips {
		chip, err := extaudio.New(name, sink)
		if err != nil {
			return nil, err
		}
		p.names = append(p.names, name)
		p.chips = append(p.chips, chip)
	}
	p.bus = NewBus(p.chips...)

	log.ModEmu.InfoZ("player ready").
		String("chips", fmt.Sprint(p.names)).
		Uint32("frame", cfg.Audio.FrameCycles).
		Uint32("rate", cfg.Audio.SampleRate).
		End()
	return p, nil
}

// Wait lets cycles master clock cycles elapse.
func (p *Player) Wait(cycles uint32) {
	for cycles > 0 {
		n := min(cycles, p.cfg.Audio.FrameCycles-p.frameTime)
		for _, c := range p.chips {
			c.Process(n)
		}
		p.frameTime += n
		p.cycles += uint64(n)
		cycles -= n

		if p.frameTime == p.cfg.Audio.FrameCycles {
			p.endFrame()
		}
	}
}

func (p *Player) Write(addr uint16, val uint8) {
	p.bus.Write(addr, val)
}

func (p *Player) Read(addr uint16) (uint8, bool) {
	return p.bus.Read(addr)
}

func (p *Player) endFrame() {
	for _, c := range p.chips {
		c.EndFrame()
	}
	p.mixer.EndFrame(p.frameTime)
	p.frameTime = 0
	p.frames++

	if p.out == nil {
		n := len(p.samples)
		p.samples = append(p.samples, make([]int16, p.mixer.Buffered())...)
		p.mixer.ReadSamples(p.samples[n:])
		return
	}

	p.buf = append(p.buf[:0], make([]int16, p.mixer.Buffered())...)
	p.mixer.ReadSamples(p.buf)
	if p.err != nil {
		return
	}
	if err := p.out.WriteSamples(p.buf); err != nil {
		p.err = fmt.Errorf("audio output: %w", err)
		log.ModEmu.ErrorZ("failed to write samples").Error("err", err).End()
	}
}

// Flush ends the current partial frame, if any, and returns the first
// error reported by the output.
func (p *Player) Flush() error {
	if p.frameTime > 0 {
		p.endFrame()
	}
	return p.err
}

// Reset resets every chip and silences the mixer. The frame position is
// kept.
func (p *Player) Reset() {
	p.bus.Reset()
	p.mixer.Reset()
}

// Samples returns and forgets the samples accumulated so far. Always empty
// when the player has an output.
func (p *Player) Samples() []int16 {
	s := p.samples
	p.samples = nil
	return s
}

// Channels returns the number of interleaved audio channels in the output.
func (p *Player) Channels() int { return p.mixer.Channels() }

// SampleRate returns the output sample rate.
func (p *Player) SampleRate() uint32 { return p.cfg.Audio.SampleRate }

// Cycles returns the number of master cycles elapsed since creation.
func (p *Player) Cycles() uint64 { return p.cycles }

// Frames returns the number of frames completed so far.
func (p *Player) Frames() uint64 { return p.frames }

// Chip returns the chip created for name, or nil.
func (p *Player) Chip(name string) extaudio.Chip {
	for i, n := range p.names {
		if n == name {
			return p.chips[i]
		}
	}
	return nil
}

// ChipNames returns the names of the chips, in bus order.
func (p *Player) ChipNames() []string { return p.names }

// Mixer returns the mixer receiving the chips level events.
func (p *Player) Mixer() *mixer.Mixer { return p.mixer }
