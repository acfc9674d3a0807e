package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"exsound/hw/extaudio"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, `
[audio]
sample_rate = 48000
stereo = true

[mixer.volumes]
VRC6Sawtooth = 0.5

[player]
chips = ["vrc6", "mmc5"]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Audio.SampleRate = 48000
	want.Audio.Stereo = true
	want.Mixer.Volumes = map[string]float64{"VRC6Sawtooth": 0.5}
	want.Player.Chips = []string{"vrc6", "mmc5"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	mcfg, err := cfg.MixerConfig()
	if err != nil {
		t.Fatal(err)
	}
	if mcfg.Volumes[extaudio.VRC6Sawtooth] != 0.5 || mcfg.Volumes[extaudio.VRC6Pulse1] != 1.0 {
		t.Errorf("volumes = %v", mcfg.Volumes)
	}
	if mcfg.SampleRate != 48000 || !mcfg.Stereo {
		t.Errorf("mixer config = %+v", mcfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("missing file: want error")
	}
	if _, err := LoadConfig(writeFile(t, "[audio\nsample_rate = 1")); err == nil {
		t.Errorf("malformed file: want error")
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Player.Chips = []string{"mmc5"}
	cfg.Player.Backend = "oto"
	cfg.Mixer.Volumes = map[string]float64{"MMC5Pulse1": 0.25}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigCheck(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr bool
		check   func(*testing.T, Config)
	}{
		{
			name: "default",
			edit: func(*Config) {},
		},
		{
			name: "fallbacks",
			edit: func(c *Config) {
				c.Audio = AudioConfig{}
				c.Player.Backend = "alsa"
			},
			check: func(t *testing.T, c Config) {
				if diff := cmp.Diff(DefaultConfig().Audio, c.Audio); diff != "" {
					t.Errorf("audio mismatch (-want +got):\n%s", diff)
				}
				if c.Player.Backend != "sdl" {
					t.Errorf("backend = %q, want sdl", c.Player.Backend)
				}
			},
		},
		{
			name:    "no chips",
			edit:    func(c *Config) { c.Player.Chips = nil },
			wantErr: true,
		},
		{
			name:    "unknown chip",
			edit:    func(c *Config) { c.Player.Chips = []string{"vrc7"} },
			wantErr: true,
		},
		{
			name:    "unknown channel",
			edit:    func(c *Config) { c.Mixer.Volumes = map[string]float64{"Square1": 1} },
			wantErr: true,
		},
		{
			name:    "negative volume",
			edit:    func(c *Config) { c.Mixer.Volumes = map[string]float64{"VRC6Pulse1": -1} },
			wantErr: true,
		},
		{
			name:    "frame too long",
			edit:    func(c *Config) { c.Audio.FrameCycles = 1 << 20 },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Check()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %t", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
