package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"

	"exsound/emu"
	"exsound/emu/audio"
	"exsound/emu/log"
	"exsound/emu/regscript"
	"exsound/hw/extaudio"
)

// loadConfig loads the configuration file at path, or the default one, and
// applies command line overrides.
func loadConfig(path string, chips []string) emu.Config {
	var cfg emu.Config
	if path != "" {
		var err error
		cfg, err = emu.LoadConfig(path)
		checkf(err, "failed to load configuration")
	} else {
		cfg = emu.LoadConfigOrDefault()
	}

	if len(chips) > 0 {
		cfg.Player.Chips = chips
	}
	checkf(cfg.Check(), "invalid configuration")
	return cfg
}

// runScript loads the script at path and runs it on p.
func runScript(ctx context.Context, path string, p *emu.Player) error {
	script, err := regscript.Load(path)
	if err != nil {
		return err
	}
	if err := script.Run(ctx, p); err != nil {
		return err
	}
	if err := p.Flush(); err != nil {
		return err
	}

	log.ModEmu.InfoZ("script done").
		String("script", path).
		Uint64("cycles", p.Cycles()).
		Uint64("frames", p.Frames()).
		End()
	return nil
}

func wavPath(script string) string {
	return strings.TrimSuffix(script, filepath.Ext(script)) + ".wav"
}

// render renders each script into its own WAV file, concurrently.
func render(cfg emu.Config, args Render) error {
	if args.Output != "" && len(args.Scripts) > 1 {
		return errors.New("--output requires a single script")
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(args.Jobs, 1))

	for _, script := range args.Scripts {
		out := args.Output
		if out == "" {
			out = wavPath(script)
		}
		g.Go(func() error {
			if err := renderFile(ctx, cfg, script, out); err != nil {
				return fmt.Errorf("%s: %w", script, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func renderFile(ctx context.Context, cfg emu.Config, script, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	channels := 1
	if cfg.Audio.Stereo {
		channels = 2
	}
	w, err := newWAVWriter(f, cfg.Audio.SampleRate, channels)
	if err != nil {
		return err
	}
	p, err := emu.NewPlayer(cfg, w)
	if err != nil {
		return err
	}
	if err := runScript(ctx, script, p); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func events(cfg emu.Config, args Events) error {
	format := args.Format
	if format == "auto" {
		format = "json"
		if args.Output.isTerminal() {
			format = "text"
		}
	}

	ew := newEventWriter(args.Output, format == "json")
	p, err := emu.NewPlayer(cfg, discard{}, ew)
	if err != nil {
		return err
	}
	ew.frame = p.Frames
	if err := runScript(context.Background(), args.Script, p); err != nil {
		return err
	}
	return ew.Flush()
}

func play(cfg emu.Config, script string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	channels := 1
	if cfg.Audio.Stereo {
		channels = 2
	}
	dev, err := audio.Open(cfg.Player.Backend, cfg.Audio.SampleRate, channels)
	if err != nil {
		return err
	}

	p, err := emu.NewPlayer(cfg, dev)
	if err != nil {
		return errors.Join(err, dev.Close())
	}
	err = runScript(ctx, script, p)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(err, dev.Close())
}

// state prints the snapshots of the chips at the end of the script.
func state(cfg emu.Config, script string, w io.Writer) error {
	p, err := emu.NewPlayer(cfg, discard{})
	if err != nil {
		return err
	}
	if err := runScript(context.Background(), script, p); err != nil {
		return err
	}

	var e jx.Encoder
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		for _, name := range p.ChipNames() {
			switch c := p.Chip(name).(type) {
			case *extaudio.VRC6:
				e.Field(name, c.State().Encode)
			case *extaudio.MMC5:
				e.Field(name, c.State().Encode)
			}
		}
	})
	_, err = w.Write(append(e.Bytes(), '\n'))
	return err
}

// showConfig prints cfg as TOML, or writes it at path when save is set.
func showConfig(cfg emu.Config, path string, save bool, w io.Writer) error {
	if !save {
		return toml.NewEncoder(w).Encode(cfg)
	}
	if err := emu.SaveConfig(cfg, path); err != nil {
		return err
	}
	log.ModConfig.InfoZ("configuration saved").String("path", path).End()
	return nil
}

// discard drops rendered samples.
type discard struct{}

func (discard) WriteSamples([]int16) error { return nil }
