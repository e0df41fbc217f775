package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.TargetSeconds() != 3600 {
		t.Errorf("TargetSeconds() = %d, want 3600", cfg.TargetSeconds())
	}
	if cfg.Normalize() {
		t.Error("default output mode should be copy")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"bad duration", func(c *Config) { c.Duration.Target = "1:99:00" }, ErrInvalidDuration},
		{"zero jobs", func(c *Config) { c.Output.Jobs = 0 }, ErrInvalidJobs},
		{"too many jobs", func(c *Config) { c.Output.Jobs = MaxJobs + 1 }, ErrInvalidJobs},
		{"bad output mode", func(c *Config) { c.Output.Mode = "remux" }, ErrInvalidOption},
		{"bad order mode", func(c *Config) { c.Order.Mode = "random" }, ErrInvalidOption},
		{"negative block size", func(c *Config) { c.Order.BlockSize = -1 }, ErrInvalidBlockSize},
		{"zero repeat", func(c *Config) { c.Order.Repeat = 0 }, ErrInvalidRepeat},
		{"zero duplicate clip", func(c *Config) { c.Order.Duplicate = []int{0} }, ErrInvalidRepeat},
		{"zero duplicate times", func(c *Config) { c.Order.Duplicate = []int{1}; c.Order.DuplicateTimes = 0 }, ErrInvalidRepeat},
		{"bad resolution", func(c *Config) { c.Video.Resolution = "800x600" }, ErrInvalidOption},
		{"bad fps", func(c *Config) { c.Video.FPS = "29.97" }, ErrInvalidOption},
		{"bad encoder", func(c *Config) { c.Video.Encoder = "vp9" }, ErrInvalidOption},
		{"crf too high", func(c *Config) { c.Video.CRF = 52 }, ErrInvalidCRF},
		{"bad bitrate", func(c *Config) { c.Audio.Bitrate = "loud" }, ErrInvalidBitrate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingDefaultUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvFFmpeg, "")
	t.Setenv(EnvFFprobe, "")

	cfg, resolved, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasSuffix(resolved, filepath.Join(".config", "drymix", "config.toml")) {
		t.Errorf("resolved = %s", resolved)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Output.Jobs != 1 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadExplicitMissingPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Load() = %v, want ErrNotExist", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drymix.toml")
	content := `
[output]
jobs = 3
mode = "normalize"

[order]
mode = "block"
block_size = 4

[duration]
target = "00:10:00"

[video]
resolution = "1920x1080"
fps = "30"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvFFmpeg, "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv(EnvFFprobe, "")

	cfg, resolved, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %s, want %s", resolved, path)
	}
	if cfg.Output.Jobs != 3 || !cfg.Normalize() {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.ShuffleMode() != "block" || cfg.Order.BlockSize != 4 {
		t.Errorf("order = %+v", cfg.Order)
	}
	if cfg.TargetSeconds() != 600 {
		t.Errorf("TargetSeconds() = %d, want 600", cfg.TargetSeconds())
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Errorf("tools = %+v", cfg.Tools)
	}
	if cfg.Video.CRF != DefaultCRF {
		t.Errorf("unset crf should keep default, got %d", cfg.Video.CRF)
	}

	plan := cfg.PlanOptions()
	if plan.Resolution.Width() != 1920 || plan.FrameRate != "30" {
		t.Errorf("PlanOptions() = %+v", plan)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[video]\ncrf = 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); !errors.Is(err, ErrInvalidCRF) {
		t.Fatalf("Load() = %v, want ErrInvalidCRF", err)
	}
}

func TestResolutionShortNames(t *testing.T) {
	cfg := Default()
	cfg.Video.Resolution = "720p"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if w := cfg.PlanOptions().Resolution.Width(); w != 1280 {
		t.Errorf("width = %d, want 1280", w)
	}
}

func TestTargetSecondsEmpty(t *testing.T) {
	for _, target := range []string{"", "  ", "0", "00:00:00", "0:00"} {
		cfg := Default()
		cfg.Duration.Target = target
		if got := cfg.TargetSeconds(); got != DefaultTargetSeconds {
			t.Errorf("TargetSeconds(%q) = %d, want %d", target, got, DefaultTargetSeconds)
		}
	}

	cfg := Default()
	cfg.Duration.Target = "00:00:01"
	if got := cfg.TargetSeconds(); got != 1 {
		t.Errorf("TargetSeconds(00:00:01) = %d, want 1", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample does not validate: %v", err)
	}
	if Sample() != string(contents) {
		t.Error("Sample() differs from written file")
	}
}
