package audio

import (
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoDevice streams samples to an oto player through a pipe, so that writes
// block while the device is busy.
type otoDevice struct {
	ctx    *oto.Context
	player *oto.Player
	w      *io.PipeWriter
}

func openOto(sampleRate uint32, channels int) (*otoDevice, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	r, w := io.Pipe()
	player := ctx.NewPlayer(r)
	player.Play()

	return &otoDevice{ctx: ctx, player: player, w: w}, nil
}

func (d *otoDevice) WriteSamples(samples []int16) error {
	_, err := d.w.Write(asBytes(samples))
	return err
}

func (d *otoDevice) Close() error {
	d.w.Close()
	for d.player.IsPlaying() {
		time.Sleep(5 * time.Millisecond)
	}
	return d.player.Close()
}
