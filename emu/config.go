package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/BurntSushi/toml"

	"exsound/emu/log"
	"exsound/hw/extaudio"
	"exsound/hw/hwdefs"
	"exsound/hw/mixer"
)

type Config struct {
	Audio  AudioConfig  `toml:"audio"`
	Mixer  MixerConfig  `toml:"mixer"`
	Player PlayerConfig `toml:"player"`
}

type AudioConfig struct {
	SampleRate  uint32  `toml:"sample_rate"`
	ClockRate   uint32  `toml:"clock_rate"`
	FrameCycles uint32  `toml:"frame_cycles"`
	Gain        float64 `toml:"gain"`
	Stereo      bool    `toml:"stereo"`
}

// MixerConfig holds per-channel volumes, keyed by channel name (VRC6Pulse1,
// MMC5Pulse2...). Missing channels play at full volume.
type MixerConfig struct {
	Volumes map[string]float64 `toml:"volumes"`
}

type PlayerConfig struct {
	Chips   []string `toml:"chips"`
	Backend string   `toml:"backend"`
}

var Backends = []string{"sdl", "oto"}

func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate:  44100,
			ClockRate:   hwdefs.NTSCClockRate,
			FrameCycles: hwdefs.NTSCFrameCycles,
			Gain:        1.0,
		},
		Player: PlayerConfig{
			Chips:   []string{"vrc6"},
			Backend: "sdl",
		},
	}
}

// Check fixes the invalid settings that have a sensible fallback, and reports
// an error for the others.
func (cfg *Config) Check() error {
	def := DefaultConfig()
	if cfg.Audio.ClockRate == 0 {
		cfg.Audio.ClockRate = def.Audio.ClockRate
	}
	if cfg.Audio.FrameCycles == 0 {
		cfg.Audio.FrameCycles = def.Audio.FrameCycles
	}
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = def.Audio.SampleRate
	}
	if cfg.Audio.Gain <= 0 {
		log.ModConfig.Warnf("Invalid gain %v, fallback to %v", cfg.Audio.Gain, def.Audio.Gain)
		cfg.Audio.Gain = def.Audio.Gain
	}
	if !slices.Contains(Backends, cfg.Player.Backend) {
		log.ModConfig.Warnf("Invalid audio backend %q, fallback to %q", cfg.Player.Backend, def.Player.Backend)
		cfg.Player.Backend = def.Player.Backend
	}

	if len(cfg.Player.Chips) == 0 {
		return errors.New("no chip selected")
	}
	for _, name := range cfg.Player.Chips {
		if !slices.Contains(extaudio.Names(), name) {
			return fmt.Errorf("unknown chip %q (want one of %v)", name, extaudio.Names())
		}
	}

	mcfg, err := cfg.MixerConfig()
	if err != nil {
		return err
	}
	return mcfg.Check(cfg.Audio.FrameCycles)
}

// MixerConfig converts the audio and mixer sections into a mixer
// configuration.
func (cfg *Config) MixerConfig() (mixer.Config, error) {
	mcfg := mixer.DefaultConfig()
	mcfg.ClockRate = cfg.Audio.ClockRate
	mcfg.SampleRate = cfg.Audio.SampleRate
	mcfg.Gain = cfg.Audio.Gain
	mcfg.Stereo = cfg.Audio.Stereo

	for name, vol := range cfg.Mixer.Volumes {
		ch, ok := channelByName(name)
		if !ok {
			return mixer.Config{}, fmt.Errorf("mixer: unknown channel %q", name)
		}
		if vol < 0 {
			return mixer.Config{}, fmt.Errorf("mixer: negative volume %v for %s", vol, name)
		}
		mcfg.Volumes[ch] = vol
	}
	return mcfg, nil
}

func channelByName(name string) (extaudio.Channel, bool) {
	for ch := range extaudio.Channel(extaudio.NumChannels) {
		if ch.String() == name {
			return ch, true
		}
	}
	return 0, false
}

var ConfigDir = sync.OnceValue(func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.ModConfig.Fatalf("failed to locate user config directory: %v", err)
	}
	dir = filepath.Join(dir, "exsound")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.ModConfig.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfig reads the configuration file at path. Settings absent from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	for _, key := range md.Undecoded() {
		log.ModConfig.WarnZ("unknown config key").String("key", key.String()).String("file", path).End()
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the exsound config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(DefaultConfigPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ModConfig.Warnf("ignoring config file: %v", err)
		}
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig writes cfg at path.
func SaveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// DefaultConfigPath returns the path of the configuration file in the exsound
// config directory.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), cfgFilename)
}
