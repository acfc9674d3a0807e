package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"exsound/emu"
)

func main() {
	cli := parseArgs(os.Args[1:])

	if cli.mode == versionMode {
		fmt.Println("exsound", version())
		return
	}

	cfg := loadConfig(cli.Config, cli.Chip)

	switch cli.mode {
	case renderMode:
		checkf(render(cfg, cli.Render), "render failed")
	case eventsMode:
		defer cli.Events.Output.Close()
		checkf(events(cfg, cli.Events), "events failed")
	case playMode:
		if cli.Play.Backend != "" {
			cfg.Player.Backend = cli.Play.Backend
		}
		checkf(play(cfg, cli.Play.Script), "play failed")
	case stateMode:
		checkf(state(cfg, cli.State.Script, os.Stdout), "state failed")
	case configMode:
		path := cli.Config
		if path == "" {
			path = emu.DefaultConfigPath()
		}
		checkf(showConfig(cfg, path, cli.Cfg.Save, os.Stdout), "config failed")
	}
}

func version() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}
