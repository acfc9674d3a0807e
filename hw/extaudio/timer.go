package extaudio

import "exsound/hw/snapshot"

// timer is the 12-bit frequency divider driving every expansion channel. It
// counts master clock cycles down to the next sequencer step, and keeps the
// time at which the channel emits its levels.
type timer struct {
	channel Channel
	sink    Sink

	counter    uint16 // cycles left before the next step
	time       uint32 // cycles since the last EndFrame
	elapsed    uint64 // cycles since reset
	lastOutput int16
}

func newTimer(channel Channel, sink Sink) timer {
	return timer{
		channel: channel,
		sink:    sink,
	}
}

func (t *timer) reset() {
	t.counter = 0
	t.elapsed = 0
	t.lastOutput = 0
}

func (t *timer) addOutput(level int16) {
	t.lastOutput = level
	t.sink.SetLevel(t.channel, t.time, level)
}

func (t *timer) advance(cycles uint32) {
	t.time += cycles
	t.elapsed += uint64(cycles)
}

// run consumes cycles from *remaining, up to the next divider expiry. It
// returns true when the divider expired, the caller then steps its sequencer,
// emits its level and calls run again. When run returns false, all remaining
// cycles have been consumed.
//
// period is the channel frequency register: the divider reloads with
// period+1. A zero divider (after reset) is loaded on the first run that
// consumes cycles, so zero-length runs leave it untouched.
func (t *timer) run(remaining *uint32, period uint16) bool {
	if *remaining == 0 {
		return false
	}
	if t.counter == 0 {
		t.counter = period + 1
	}

	if *remaining >= uint32(t.counter) {
		*remaining -= uint32(t.counter)
		t.advance(uint32(t.counter))
		t.counter = period + 1
		return true
	}

	t.counter -= uint16(*remaining)
	t.advance(*remaining)
	*remaining = 0
	return false
}

func (t *timer) endFrame() {
	t.time = 0
}

func (t *timer) saveState(state *snapshot.Timer) {
	state.Counter = t.counter
	state.Time = t.time
	state.Elapsed = t.elapsed
	state.LastOutput = t.lastOutput
}

func (t *timer) setState(state *snapshot.Timer) {
	t.counter = state.Counter
	t.time = state.Time
	t.elapsed = state.Elapsed
	t.lastOutput = state.LastOutput
}
