package mixer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/arl/blip"

	"exsound/emu/log"
	"exsound/hw/extaudio"
	"exsound/hw/hwdefs"
)

const MaxSampleRate = 96000
const maxSamplesPerFrame = blip.MaxFrame

// Output amplitude of a single level step at unit volume and gain. The
// loudest combination (both VRC6 pulses, the sawtooth and both MMC5 pulses at
// full level) stays below the int16 range.
const levelScale = 256

// Config holds the mixer settings.
type Config struct {
	ClockRate  uint32
	SampleRate uint32
	Gain       float64
	Volumes    [extaudio.NumChannels]float64
	Stereo     bool
}

// DefaultConfig returns an NTSC clocked, 44.1kHz mono configuration with
// every channel at full volume.
func DefaultConfig() Config {
	cfg := Config{
		ClockRate:  hwdefs.NTSCClockRate,
		SampleRate: 44100,
		Gain:       1.0,
	}
	for i := range cfg.Volumes {
		cfg.Volumes[i] = 1.0
	}
	return cfg
}

// Check reports whether a frame of frameCycles master cycles fits into the
// resampling buffer with this configuration.
func (cfg Config) Check(frameCycles uint32) error {
	switch {
	case cfg.SampleRate == 0 || cfg.SampleRate > MaxSampleRate:
		return fmt.Errorf("sample rate %d out of range (1-%d)", cfg.SampleRate, MaxSampleRate)
	case cfg.ClockRate == 0 || uint64(cfg.ClockRate) > uint64(cfg.SampleRate)*blip.MaxRatio:
		return fmt.Errorf("clock rate %d out of range for sample rate %d", cfg.ClockRate, cfg.SampleRate)
	case frameCycles == 0:
		return fmt.Errorf("frame length must be positive")
	}
	if n := uint64(frameCycles)*uint64(cfg.SampleRate)/uint64(cfg.ClockRate) + 1; n > maxSamplesPerFrame {
		return fmt.Errorf("frame of %d cycles produces %d samples (max %d)", frameCycles, n, maxSamplesPerFrame)
	}
	return nil
}

type levelDelta struct {
	time  uint32
	ch    extaudio.Channel
	delta int16
}

// Mixer is an extaudio.Sink turning per-channel level events into PCM
// samples through a band-limited synthesis buffer.
type Mixer struct {
	buf    *blip.Buffer
	outbuf []int16

	prevOut int32

	cfg Config

	deltas    []levelDelta
	levels    [extaudio.NumChannels]int16
	curOutput [extaudio.NumChannels]int16
}

func New(cfg Config) *Mixer {
	m := &Mixer{
		buf: blip.NewBuffer(maxSamplesPerFrame),
		cfg: cfg,
	}
	m.Reset()
	return m
}

func (m *Mixer) Reset() {
	m.prevOut = 0
	m.buf.Clear()
	m.outbuf = m.outbuf[:0]
	m.deltas = m.deltas[:0]
	clear(m.levels[:])
	clear(m.curOutput[:])
	m.updateRates()
}

// Config returns the current mixer configuration.
func (m *Mixer) Config() Config { return m.cfg }

// SetVolume changes the volume of a single channel, effective from the next
// level change.
func (m *Mixer) SetVolume(ch extaudio.Channel, vol float64) {
	m.cfg.Volumes[ch] = vol
}

func (m *Mixer) updateRates() {
	m.buf.SetRates(float64(m.cfg.ClockRate), float64(m.cfg.SampleRate))
	log.ModMixer.DebugZ("rates updated").
		Uint32("clock", m.cfg.ClockRate).
		Uint32("rate", m.cfg.SampleRate).
		Bool("stereo", m.cfg.Stereo).
		End()
}

// SetLevel records the level of a channel at a frame-relative time.
// Repeated levels are dropped.
func (m *Mixer) SetLevel(ch extaudio.Channel, time uint32, level int16) {
	d := level - m.levels[ch]
	if d == 0 {
		return
	}
	m.levels[ch] = level
	m.deltas = append(m.deltas, levelDelta{time: time, ch: ch, delta: d})
}

func (m *Mixer) outputVolume() int32 {
	var sum float64
	for ch := range m.curOutput {
		sum += float64(m.curOutput[ch]) * m.cfg.Volumes[ch]
	}
	return int32(sum * m.cfg.Gain * levelScale)
}

// EndFrame mixes the level changes received during the last frame, which
// lasted the given number of master cycles, and makes the resulting samples
// available through ReadSamples.
func (m *Mixer) EndFrame(time uint32) {
	// Events are ordered per channel, not across channels.
	slices.SortStableFunc(m.deltas, func(a, b levelDelta) int {
		return cmp.Compare(a.time, b.time)
	})

	for i := 0; i < len(m.deltas); {
		stamp := m.deltas[i].time
		for ; i < len(m.deltas) && m.deltas[i].time == stamp; i++ {
			m.curOutput[m.deltas[i].ch] += m.deltas[i].delta
		}

		out := m.outputVolume()
		m.buf.AddDelta(uint64(stamp), out-m.prevOut)
		m.prevOut = out
	}

	m.buf.EndFrame(int(time))
	m.deltas = m.deltas[:0]
	m.drain()
}

func (m *Mixer) drain() {
	navail := m.buf.SamplesAvailable()
	nch := m.Channels()
	start := len(m.outbuf)
	m.outbuf = slices.Grow(m.outbuf, navail*nch)[:start+navail*nch]
	out := m.outbuf[start:]

	if !m.cfg.Stereo {
		m.buf.ReadSamples(out, navail, blip.Mono)
		return
	}

	n := m.buf.ReadSamples(out, navail, blip.Stereo)
	for i := 0; i < n*2; i += 2 {
		out[i+1] = out[i]
	}
}

// Channels returns the number of interleaved output channels.
func (m *Mixer) Channels() int {
	if m.cfg.Stereo {
		return 2
	}
	return 1
}

// Buffered returns the number of int16 values waiting to be read.
func (m *Mixer) Buffered() int { return len(m.outbuf) }

// ReadSamples moves at most len(out) buffered int16 values into out, and
// returns how many were written. Stereo output is interleaved left/right.
func (m *Mixer) ReadSamples(out []int16) int {
	n := copy(out, m.outbuf)
	m.outbuf = m.outbuf[:copy(m.outbuf, m.outbuf[n:])]
	return n
}
