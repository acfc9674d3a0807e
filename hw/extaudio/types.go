package extaudio

//go:generate go tool stringer -type=Channel

// Channel identifies an expansion sound channel.
type Channel uint8

const (
	VRC6Pulse1 Channel = iota
	VRC6Pulse2
	VRC6Sawtooth
	MMC5Pulse1
	MMC5Pulse2

	NumChannels = 5
)

// Sink receives channel levels. time is counted in master clock cycles since
// the channel's last EndFrame. Levels are emitted each time a channel output
// is computed, even when unchanged.
type Sink interface {
	SetLevel(ch Channel, time uint32, level int16)
}

// Chip is an expansion sound chip attached to the CPU bus.
type Chip interface {
	// Reset puts all channels back to their power-up state.
	Reset()
	// Write handles a CPU write. Unmapped addresses are ignored.
	Write(addr uint16, val uint8)
	// Read handles a CPU read. mapped is false when the chip doesn't own
	// addr, in which case val is 0.
	Read(addr uint16) (val uint8, mapped bool)
	// EndFrame marks the end of the current audio frame; event times restart
	// from 0.
	EndFrame()
	// Process runs all channels for the given number of master clock cycles.
	Process(cycles uint32)
}
