package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"exsound/emu/log"
)

type mode byte

const (
	renderMode  mode = iota // Render scripts to WAV files
	eventsMode              // Dump level events
	playMode                // Play a script on the audio device
	stateMode               // Print chip snapshots
	configMode              // Print or save the configuration
	versionMode             // Show exsound version
)

type (
	CLI struct {
		Render  Render  `cmd:"" help:"Render register scripts to WAV files."`
		Events  Events  `cmd:"" help:"Print the level events produced by a register script."`
		Play    Play    `cmd:"" help:"Play a register script on the audio device."`
		State   State   `cmd:"" help:"Print the chip states at the end of a register script."`
		Cfg     Cfg     `cmd:"" name:"config" help:"Print the effective configuration, or save it."`
		Version Version `cmd:"" help:"Show exsound version."`

		Config string     `name:"config" help:"${config_help}" type:"existingfile" placeholder:"FILE"`
		Chip   []string   `name:"chip" help:"${chip_help}" sep:","`
		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Render struct {
		Scripts []string `arg:"" name:"script" help:"${script_help}" type:"existingfile"`
		Output  string   `name:"output" short:"o" help:"${output_help}" type:"path"`
		Jobs    int      `name:"jobs" short:"j" help:"Number of scripts rendered concurrently." default:"4"`
	}

	Events struct {
		Script string   `arg:"" name:"script" help:"${script_help}" type:"existingfile"`
		Output *outfile `name:"output" short:"o" help:"Write events to file." default:"stdout" placeholder:"FILE|stdout|stderr"`
		Format string   `name:"format" help:"${format_help}" enum:"auto,json,text" default:"auto"`
	}

	Play struct {
		Script  string `arg:"" name:"script" help:"${script_help}" type:"existingfile"`
		Backend string `name:"backend" help:"Audio backend (sdl|oto), overrides the configuration."`
	}

	State struct {
		Script string `arg:"" name:"script" help:"${script_help}" type:"existingfile"`
	}

	Cfg struct {
		Save bool `name:"save" help:"${save_help}"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help": "Configuration file. Defaults to config.toml in the user config directory.",
	"chip_help":   "Comma-separated list of chips on the bus (vrc6,mmc5), overrides the configuration.",
	"log_help":    "Enable logging for specified modules.",
	"script_help": "Register script (.txt, .json or .lua).",
	"output_help": "Output WAV file, only with a single script. Defaults to the script path with a .wav extension.",
	"save_help":   "Write the configuration file (--config, or the default one) instead of printing it.",
	"format_help": "Events format. auto prints a table on terminals, JSON lines otherwise.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("exsound"),
		kong.Description("NES expansion audio (VRC6, MMC5) player and renderer."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cmd, _, _ := strings.Cut(ctx.Command(), " ")
	switch cmd {
	case "render":
		cfg.mode = renderMode
	case "events":
		cfg.mode = eventsMode
	case "play":
		cfg.mode = playMode
	case "state":
		cfg.mode = stateMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	default:
		fatalf("unexpected command %q", ctx.Command())
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if ctx.Command() == "" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

// isTerminal reports whether f writes to a terminal.
func (f *outfile) isTerminal() bool {
	fd, ok := f.w.(*os.File)
	return ok && term.IsTerminal(int(fd.Fd()))
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
