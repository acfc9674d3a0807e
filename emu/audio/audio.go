// Package audio plays rendered samples on the host audio device.
package audio

import (
	"fmt"
	"unsafe"

	"exsound/emu/log"
)

// Device is an audio output accepting interleaved 16-bit samples.
type Device interface {
	WriteSamples(samples []int16) error
	// Close waits for queued samples to be played then releases the device.
	Close() error
}

// Open opens the default audio device of the given backend ("sdl" or "oto").
func Open(backend string, sampleRate uint32, channels int) (Device, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("audio: unsupported channel count %d", channels)
	}

	var (
		dev Device
		err error
	)
	switch backend {
	case "sdl":
		dev, err = openSDL(sampleRate, channels)
	case "oto":
		dev, err = openOto(sampleRate, channels)
	default:
		return nil, fmt.Errorf("audio: unknown backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("audio: %s: %w", backend, err)
	}

	log.ModEmu.InfoZ("audio device opened").
		String("backend", backend).
		Uint32("rate", sampleRate).
		Int("channels", channels).
		End()
	return dev, nil
}

// asBytes returns the little-endian byte view of samples.
func asBytes(samples []int16) []byte {
	if len(samples) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
}
