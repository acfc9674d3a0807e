package extaudio

import (
	"fmt"
	"sort"
)

var (
	_ Chip = (*VRC6)(nil)
	_ Chip = (*MMC5)(nil)
)

var chips = map[string]func(Sink) Chip{
	"vrc6": func(s Sink) Chip { return NewVRC6(s) },
	"mmc5": func(s Sink) Chip { return NewMMC5(s) },
}

// New creates the chip with the given name, bound to sink.
func New(name string, sink Sink) (Chip, error) {
	ctor, ok := chips[name]
	if !ok {
		return nil, fmt.Errorf("unknown expansion chip %q", name)
	}
	return ctor(sink), nil
}

// Names returns the sorted list of chip names accepted by New.
func Names() []string {
	names := make([]string, 0, len(chips))
	for name := range chips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
