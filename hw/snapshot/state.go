package snapshot

// Version of the snapshot format.
const Version = 1

type Timer struct {
	Counter    uint16
	Time       uint32
	Elapsed    uint64
	LastOutput int16
}

type Pulse struct {
	Timer   Timer
	Duty    uint8
	DutyPos uint8
	Volume  uint8
	Gate    bool
	Enabled bool
	FreqLo  uint8
	FreqHi  uint8
}

type Sawtooth struct {
	Timer       Timer
	Accumulator uint8
	Rate        uint8
	Step        uint8
	Enabled     bool
	FreqLo      uint8
	FreqHi      uint8
}

type VRC6 struct {
	Pulse1   Pulse
	Pulse2   Pulse
	Sawtooth Sawtooth
}

type MMC5 struct {
	Pulse1 Pulse
	Pulse2 Pulse
	MulA   uint8
	MulB   uint8
	ExRAM  [0x400]uint8
}
