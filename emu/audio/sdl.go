package audio

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sdlFormat     = sdl.AUDIO_S16LSB
	sdlBufferSize = 4096

	// Queue at most that many seconds of audio ahead of the device.
	maxQueuedSeconds = 0.25
)

type sdlDevice struct {
	id        sdl.AudioDeviceID
	maxQueued uint32
}

func openSDL(sampleRate uint32, channels int) (*sdlDevice, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	want := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdlFormat,
		Channels: uint8(channels),
		Samples:  sdlBufferSize,
	}
	var have sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, &want, &have, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, err
	}
	sdl.PauseAudioDevice(id, false)

	bytesPerSecond := float64(sampleRate) * float64(channels) * 2
	return &sdlDevice{
		id:        id,
		maxQueued: uint32(bytesPerSecond * maxQueuedSeconds),
	}, nil
}

func (d *sdlDevice) WriteSamples(samples []int16) error {
	for sdl.GetQueuedAudioSize(d.id) > d.maxQueued {
		time.Sleep(time.Millisecond)
	}
	// SDL copies the buffer.
	return sdl.QueueAudio(d.id, asBytes(samples))
}

func (d *sdlDevice) Close() error {
	for sdl.GetQueuedAudioSize(d.id) > 0 {
		time.Sleep(5 * time.Millisecond)
	}
	sdl.CloseAudioDevice(d.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
