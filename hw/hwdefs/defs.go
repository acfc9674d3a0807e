package hwdefs

// Master clock rates, in cycles per second.
const (
	NTSCClockRate uint32 = 1789773
	PALClockRate  uint32 = 1662607
)

// Cycles per video frame at 60Hz (NTSC) and 50Hz (PAL).
const (
	NTSCFrameCycles uint32 = 29781
	PALFrameCycles  uint32 = 33248
)
