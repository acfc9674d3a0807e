package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

// Encode writes the timer as a JSON object.
func (t *Timer) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("counter", func(e *jx.Encoder) { e.UInt16(t.Counter) })
		e.Field("time", func(e *jx.Encoder) { e.UInt32(t.Time) })
		e.Field("elapsed", func(e *jx.Encoder) { e.UInt64(t.Elapsed) })
		e.Field("last_output", func(e *jx.Encoder) { e.Int16(t.LastOutput) })
	})
}

func (t *Timer) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "counter":
			t.Counter, err = d.UInt16()
		case "time":
			t.Time, err = d.UInt32()
		case "elapsed":
			t.Elapsed, err = d.UInt64()
		case "last_output":
			t.LastOutput, err = d.Int16()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (p *Pulse) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("timer", p.Timer.Encode)
		e.Field("duty", func(e *jx.Encoder) { e.UInt8(p.Duty) })
		e.Field("duty_pos", func(e *jx.Encoder) { e.UInt8(p.DutyPos) })
		e.Field("volume", func(e *jx.Encoder) { e.UInt8(p.Volume) })
		e.Field("gate", func(e *jx.Encoder) { e.Bool(p.Gate) })
		e.Field("enabled", func(e *jx.Encoder) { e.Bool(p.Enabled) })
		e.Field("freq_lo", func(e *jx.Encoder) { e.UInt8(p.FreqLo) })
		e.Field("freq_hi", func(e *jx.Encoder) { e.UInt8(p.FreqHi) })
	})
}

func (p *Pulse) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "timer":
			err = p.Timer.Decode(d)
		case "duty":
			p.Duty, err = d.UInt8()
		case "duty_pos":
			p.DutyPos, err = d.UInt8()
		case "volume":
			p.Volume, err = d.UInt8()
		case "gate":
			p.Gate, err = d.Bool()
		case "enabled":
			p.Enabled, err = d.Bool()
		case "freq_lo":
			p.FreqLo, err = d.UInt8()
		case "freq_hi":
			p.FreqHi, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func (s *Sawtooth) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("timer", s.Timer.Encode)
		e.Field("accumulator", func(e *jx.Encoder) { e.UInt8(s.Accumulator) })
		e.Field("rate", func(e *jx.Encoder) { e.UInt8(s.Rate) })
		e.Field("step", func(e *jx.Encoder) { e.UInt8(s.Step) })
		e.Field("enabled", func(e *jx.Encoder) { e.Bool(s.Enabled) })
		e.Field("freq_lo", func(e *jx.Encoder) { e.UInt8(s.FreqLo) })
		e.Field("freq_hi", func(e *jx.Encoder) { e.UInt8(s.FreqHi) })
	})
}

func (s *Sawtooth) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "timer":
			err = s.Timer.Decode(d)
		case "accumulator":
			s.Accumulator, err = d.UInt8()
		case "rate":
			s.Rate, err = d.UInt8()
		case "step":
			s.Step, err = d.UInt8()
		case "enabled":
			s.Enabled, err = d.Bool()
		case "freq_lo":
			s.FreqLo, err = d.UInt8()
		case "freq_hi":
			s.FreqHi, err = d.UInt8()
		default:
			err = d.Skip()
		}
		return err
	})
}

func encodeVersion(e *jx.Encoder, chip string) {
	e.Field("version", func(e *jx.Encoder) { e.Int(Version) })
	e.Field("chip", func(e *jx.Encoder) { e.Str(chip) })
}

func decodeVersion(d *jx.Decoder) error {
	v, err := d.Int()
	if err != nil {
		return err
	}
	if v != Version {
		return fmt.Errorf("unsupported snapshot version %d", v)
	}
	return nil
}

func checkChip(d *jx.Decoder, want string) error {
	chip, err := d.Str()
	if err != nil {
		return err
	}
	if chip != want {
		return fmt.Errorf("snapshot is for chip %q, not %q", chip, want)
	}
	return nil
}

func (s *VRC6) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		encodeVersion(e, "vrc6")
		e.Field("pulse1", s.Pulse1.Encode)
		e.Field("pulse2", s.Pulse2.Encode)
		e.Field("sawtooth", s.Sawtooth.Encode)
	})
}

func (s *VRC6) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "version":
			return decodeVersion(d)
		case "chip":
			return checkChip(d, "vrc6")
		case "pulse1":
			return s.Pulse1.Decode(d)
		case "pulse2":
			return s.Pulse2.Decode(d)
		case "sawtooth":
			return s.Sawtooth.Decode(d)
		}
		return d.Skip()
	})
}

func (s *MMC5) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		encodeVersion(e, "mmc5")
		e.Field("pulse1", s.Pulse1.Encode)
		e.Field("pulse2", s.Pulse2.Encode)
		e.Field("mul_a", func(e *jx.Encoder) { e.UInt8(s.MulA) })
		e.Field("mul_b", func(e *jx.Encoder) { e.UInt8(s.MulB) })
		e.Field("exram", func(e *jx.Encoder) { e.Base64(s.ExRAM[:]) })
	})
}

func (s *MMC5) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			err = decodeVersion(d)
		case "chip":
			err = checkChip(d, "mmc5")
		case "pulse1":
			err = s.Pulse1.Decode(d)
		case "pulse2":
			err = s.Pulse2.Decode(d)
		case "mul_a":
			s.MulA, err = d.UInt8()
		case "mul_b":
			s.MulB, err = d.UInt8()
		case "exram":
			var buf []byte
			if buf, err = d.Base64(); err == nil {
				if len(buf) != len(s.ExRAM) {
					return fmt.Errorf("exram: got %d bytes, want %d", len(buf), len(s.ExRAM))
				}
				copy(s.ExRAM[:], buf)
			}
		default:
			err = d.Skip()
		}
		return err
	})
}

// Marshal returns the JSON encoding of a chip snapshot.
func Marshal(s interface{ Encode(*jx.Encoder) }) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	s.Encode(&e)
	return e.Bytes()
}

// Unmarshal decodes a chip snapshot from its JSON encoding.
func Unmarshal(buf []byte, s interface{ Decode(*jx.Decoder) error }) error {
	if err := s.Decode(jx.DecodeBytes(buf)); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
