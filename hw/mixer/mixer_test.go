package mixer

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"exsound/hw/extaudio"
	"exsound/hw/hwdefs"
)

const frameCycles = hwdefs.NTSCFrameCycles

func readAll(m *Mixer) []int16 {
	out := make([]int16, m.Buffered())
	m.ReadSamples(out)
	return out
}

func TestSilence(t *testing.T) {
	m := New(DefaultConfig())
	m.EndFrame(frameCycles)

	out := readAll(m)
	if len(out) == 0 {
		t.Fatalf("no samples produced")
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0", i, s)
		}
	}
}

func TestSampleCount(t *testing.T) {
	m := New(DefaultConfig())

	total := 0
	for range 60 {
		m.EndFrame(frameCycles)
		total += len(readAll(m))
	}

	// 60 NTSC frames at 44.1kHz.
	const want = int(60 * uint64(frameCycles) * 44100 / uint64(hwdefs.NTSCClockRate))
	if total < want-1 || total > want+1 {
		t.Errorf("got %d samples, want %d±1", total, want)
	}
}

func TestStep(t *testing.T) {
	m := New(DefaultConfig())
	m.SetLevel(extaudio.VRC6Pulse1, 0, 15)
	m.EndFrame(frameCycles)

	var peak int16
	for _, s := range readAll(m) {
		peak = max(peak, s)
	}
	if want := int16(15 * levelScale); peak < want*3/4 || peak > want*5/4 {
		t.Errorf("peak = %d, want about %d", peak, want)
	}
}

func TestRepeatedLevelsDropped(t *testing.T) {
	m := New(DefaultConfig())
	m.SetLevel(extaudio.MMC5Pulse1, 0, 8)
	m.SetLevel(extaudio.MMC5Pulse1, 10, 8)
	m.SetLevel(extaudio.MMC5Pulse1, 20, 8)
	m.SetLevel(extaudio.MMC5Pulse1, 30, 0)

	want := []levelDelta{
		{time: 0, ch: extaudio.MMC5Pulse1, delta: 8},
		{time: 30, ch: extaudio.MMC5Pulse1, delta: -8},
	}
	if diff := cmp.Diff(want, m.deltas, cmp.AllowUnexported(levelDelta{})); diff != "" {
		t.Errorf("deltas mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossChannelOrder(t *testing.T) {
	inorder := New(DefaultConfig())
	inorder.SetLevel(extaudio.VRC6Pulse1, 50, 5)
	inorder.SetLevel(extaudio.VRC6Pulse2, 100, 7)
	inorder.SetLevel(extaudio.VRC6Sawtooth, 100, 3)
	inorder.EndFrame(frameCycles)

	// Sinks receive events grouped by channel.
	grouped := New(DefaultConfig())
	grouped.SetLevel(extaudio.VRC6Sawtooth, 100, 3)
	grouped.SetLevel(extaudio.VRC6Pulse2, 100, 7)
	grouped.SetLevel(extaudio.VRC6Pulse1, 50, 5)
	grouped.EndFrame(frameCycles)

	if diff := cmp.Diff(readAll(inorder), readAll(grouped)); diff != "" {
		t.Errorf("output depends on event order (-want +got):\n%s", diff)
	}
	if want := [extaudio.NumChannels]int16{5, 7, 3, 0, 0}; grouped.curOutput != want {
		t.Errorf("curOutput = %v, want %v", grouped.curOutput, want)
	}
}

func TestVolume(t *testing.T) {
	m := New(DefaultConfig())
	m.SetVolume(extaudio.VRC6Sawtooth, 0)
	for i := range uint32(30) {
		m.SetLevel(extaudio.VRC6Sawtooth, i*100, int16(i))
	}
	m.EndFrame(frameCycles)

	for i, s := range readAll(m) {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0 for a muted channel", i, s)
		}
	}
}

func TestStereo(t *testing.T) {
	cfg := DefaultConfig()
	mono := New(cfg)
	cfg.Stereo = true
	stereo := New(cfg)

	for _, m := range []*Mixer{mono, stereo} {
		m.SetLevel(extaudio.MMC5Pulse2, 1000, 12)
		m.SetLevel(extaudio.MMC5Pulse2, 9000, 0)
		m.EndFrame(frameCycles)
	}

	if stereo.Channels() != 2 || mono.Channels() != 1 {
		t.Fatalf("Channels() = %d/%d, want 2/1", stereo.Channels(), mono.Channels())
	}

	ms, ss := readAll(mono), readAll(stereo)
	if len(ss) != 2*len(ms) {
		t.Fatalf("stereo has %d values, want %d", len(ss), 2*len(ms))
	}
	for i := range ms {
		if ss[2*i] != ms[i] || ss[2*i+1] != ms[i] {
			t.Fatalf("frame %d = (%d,%d), want (%d,%d)", i, ss[2*i], ss[2*i+1], ms[i], ms[i])
		}
	}
}

func TestPartialRead(t *testing.T) {
	m := New(DefaultConfig())
	m.SetLevel(extaudio.VRC6Pulse1, 0, 15)
	m.EndFrame(frameCycles)

	all := slices.Clone(m.outbuf)

	first := make([]int16, 10)
	if n := m.ReadSamples(first); n != 10 {
		t.Fatalf("ReadSamples = %d, want 10", n)
	}
	rest := readAll(m)

	if diff := cmp.Diff(all, append(first, rest...)); diff != "" {
		t.Errorf("split reads mismatch (-want +got):\n%s", diff)
	}
	if m.Buffered() != 0 {
		t.Errorf("Buffered() = %d after draining", m.Buffered())
	}
}

func TestReset(t *testing.T) {
	m := New(DefaultConfig())
	m.SetLevel(extaudio.VRC6Pulse1, 0, 15)
	m.EndFrame(frameCycles)
	m.SetLevel(extaudio.VRC6Pulse2, 0, 15)
	m.Reset()

	if m.Buffered() != 0 || len(m.deltas) != 0 {
		t.Fatalf("Reset left %d samples and %d deltas", m.Buffered(), len(m.deltas))
	}
	m.EndFrame(frameCycles)
	for i, s := range readAll(m) {
		if s != 0 {
			t.Fatalf("sample %d = %d after reset, want 0", i, s)
		}
	}
}

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		frame   uint32
		wantErr bool
	}{
		{name: "default", edit: func(*Config) {}, frame: frameCycles},
		{name: "pal", edit: func(c *Config) { c.ClockRate = hwdefs.PALClockRate }, frame: hwdefs.PALFrameCycles},
		{name: "max rate", edit: func(c *Config) { c.SampleRate = MaxSampleRate }, frame: frameCycles},
		{name: "zero rate", edit: func(c *Config) { c.SampleRate = 0 }, frame: frameCycles, wantErr: true},
		{name: "rate too high", edit: func(c *Config) { c.SampleRate = 192000 }, frame: frameCycles, wantErr: true},
		{name: "zero clock", edit: func(c *Config) { c.ClockRate = 0 }, frame: frameCycles, wantErr: true},
		{name: "zero frame", edit: func(*Config) {}, frame: 0, wantErr: true},
		{name: "frame too long", edit: func(*Config) {}, frame: 10 * frameCycles, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Check(tt.frame)
			if (err != nil) != tt.wantErr {
				t.Errorf("Check(%d) error = %v, wantErr %t", tt.frame, err, tt.wantErr)
			}
		})
	}
}
