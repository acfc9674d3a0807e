package extaudio

// Multiplier is the MMC5 8x8->16 unsigned multiplier. Operands are latched on
// write; the product is computed when read, so it always reflects the latest
// pair of operands.
type Multiplier struct {
	a, b uint8
}

func (m *Multiplier) Reset() {
	m.a = 0
	m.b = 0
}

func (m *Multiplier) SetA(val uint8) { m.a = val }
func (m *Multiplier) SetB(val uint8) { m.b = val }

func (m *Multiplier) Product() uint16 {
	return uint16(m.a) * uint16(m.b)
}

func (m *Multiplier) Low() uint8  { return uint8(m.Product()) }
func (m *Multiplier) High() uint8 { return uint8(m.Product() >> 8) }
