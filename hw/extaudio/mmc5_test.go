package extaudio

import (
	"testing"

	"exsound/hw/snapshot"
)

func wantRead(t *testing.T, c Chip, addr uint16, want uint8) {
	t.Helper()
	val, mapped := c.Read(addr)
	if !mapped || val != want {
		t.Errorf("Read(%04X) = (%02X, %t), want (%02X, true)", addr, val, mapped, want)
	}
}

func TestMMC5Multiplier(t *testing.T) {
	tests := []struct {
		a, b   uint8
		lo, hi uint8
	}{
		{0, 0, 0x00, 0x00},
		{1, 1, 0x01, 0x00},
		{200, 100, 0x20, 0x4E},
		{0xFF, 0xFF, 0x01, 0xFE},
		{0x10, 0x10, 0x00, 0x01},
	}

	c := NewMMC5(&EventLog{})
	for _, tt := range tests {
		c.Write(0x5205, tt.a)
		c.Write(0x5206, tt.b)
		wantRead(t, c, 0x5205, tt.lo)
		wantRead(t, c, 0x5206, tt.hi)
	}
}

func TestMMC5MultiplierReadTiming(t *testing.T) {
	c := NewMMC5(&EventLog{})

	// Never written: 0*0.
	wantRead(t, c, 0x5205, 0)

	// Operand order doesn't matter, and the product is available without any
	// time passing.
	c.Write(0x5206, 4)
	c.Write(0x5205, 3)
	wantRead(t, c, 0x5205, 12)

	// Changing one operand is immediately visible in the product, whether or
	// not the previous product was read.
	c.Write(0x5206, 5)
	wantRead(t, c, 0x5205, 15)
	c.Write(0x5205, 0x80)
	c.Write(0x5206, 0x80)
	c.Write(0x5205, 0x40)
	wantRead(t, c, 0x5206, 0x20)
	wantRead(t, c, 0x5205, 0x00)

	// Reads don't change the operands.
	wantRead(t, c, 0x5206, 0x20)

	c.Reset()
	wantRead(t, c, 0x5205, 0)
	wantRead(t, c, 0x5206, 0)
}

func TestMMC5ExRAM(t *testing.T) {
	c := NewMMC5(&EventLog{})

	c.Write(0x5C00, 0x11)
	c.Write(0x5D23, 0x22)
	c.Write(0x5FF5, 0x33)
	c.Write(0x5FF6, 0x44) // outside of the mapped range

	wantRead(t, c, 0x5C00, 0x11)
	wantRead(t, c, 0x5D23, 0x22)
	wantRead(t, c, 0x5FF5, 0x33)
	wantRead(t, c, 0x5C01, 0x00)

	for _, addr := range []uint16{0x5BFF, 0x5FF6, 0x5FFF, 0x6000} {
		checkUnmapped(t, c, addr)
	}

	ram := c.ExRAM()
	if len(ram) != ExRAMSize {
		t.Fatalf("len(ExRAM()) = %d, want %d", len(ram), ExRAMSize)
	}
	if ram[0x000] != 0x11 || ram[0x123] != 0x22 || ram[0x3F5] != 0x33 || ram[0x3F6] != 0 {
		t.Errorf("ExRAM content = %02x %02x %02x %02x", ram[0x000], ram[0x123], ram[0x3F5], ram[0x3F6])
	}

	// Storage only: the pulses are unaffected.
	if c.Pulse1().Frequency() != 0 || c.Pulse2().Frequency() != 0 {
		t.Errorf("ExRAM writes reached the pulse channels")
	}

	c.Reset()
	wantRead(t, c, 0x5C00, 0x00)
}

func TestMMC5Pulses(t *testing.T) {
	var log EventLog
	c := NewMMC5(&log)

	c.Write(0x5000, 0x9F)
	c.Write(0x5004, 0x85)
	c.Write(0x5003, 0xFF) // unused register
	c.Write(0x5007, 0xFF)

	wantEvents(t, &log, []Event{
		ev(MMC5Pulse1, 0, 15),
		ev(MMC5Pulse2, 0, 5),
	})

	c.Write(0x5001, 0x0F)
	c.Write(0x5002, 0x80)
	c.Write(0x5005, 0x1F)
	c.Write(0x5006, 0x80)
	log.Reset()

	c.Process(40)
	wantEvents(t, &log, []Event{
		ev(MMC5Pulse1, 16, 15),
		ev(MMC5Pulse1, 32, 15),
		ev(MMC5Pulse2, 32, 5),
	})
	if c.Pulse1().ElapsedTime() != 40 || c.Pulse2().ElapsedTime() != 40 {
		t.Errorf("elapsed = %d/%d, want 40", c.Pulse1().ElapsedTime(), c.Pulse2().ElapsedTime())
	}

	for _, addr := range []uint16{0x5000, 0x5001, 0x5002, 0x5003, 0x5004, 0x5006, 0x5015, 0x5204, 0x5207, 0x9000} {
		checkUnmapped(t, c, addr)
	}
}

func TestMMC5EndFrame(t *testing.T) {
	var log EventLog
	c := NewMMC5(&log)
	c.Write(0x5205, 7)
	c.Write(0x5C10, 0xAA)
	c.Process(1000)
	c.EndFrame()

	c.Write(0x5000, 0x81)
	wantEvents(t, &log, []Event{ev(MMC5Pulse1, 0, 1)})

	c.Write(0x5206, 3)
	wantRead(t, c, 0x5205, 21)
	wantRead(t, c, 0x5C10, 0xAA)
}

func TestMMC5StateRestore(t *testing.T) {
	var log1 EventLog
	c1 := NewMMC5(&log1)
	c1.Write(0x5000, 0x2C)
	c1.Write(0x5001, 0x40)
	c1.Write(0x5002, 0x81)
	c1.Write(0x5004, 0x6A)
	c1.Write(0x5005, 0x99)
	c1.Write(0x5006, 0x80)
	c1.Write(0x5205, 0x12)
	c1.Write(0x5206, 0x34)
	for i := range uint16(0x3F6) {
		c1.Write(0x5C00+i, uint8(i^0x5A))
	}
	c1.Process(3333)

	var st snapshot.MMC5
	if err := snapshot.Unmarshal(snapshot.Marshal(c1.State()), &st); err != nil {
		t.Fatal(err)
	}

	var log2 EventLog
	c2 := NewMMC5(&log2)
	c2.SetState(&st)

	log1.Reset()
	c1.Process(20000)
	c2.Process(20000)
	wantEvents(t, &log2, log1.Events)

	for _, addr := range []uint16{0x5205, 0x5206, 0x5C00, 0x5E00, 0x5FF5} {
		v1, _ := c1.Read(addr)
		wantRead(t, c2, addr, v1)
	}
}
