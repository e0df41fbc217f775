// Package config provides configuration types and defaults for drymix.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Default constants
const (
	// DefaultTarget is the default mix length.
	DefaultTarget = "01:00:00"

	// DefaultTargetSeconds is used when the target is left empty.
	DefaultTargetSeconds = 3600

	// DefaultCRF is the x264 constant rate factor.
	DefaultCRF = 18

	// MaxCRF is the maximum valid x264 CRF value.
	MaxCRF = 51

	// DefaultAudioBitrate is the AAC bitrate for every output.
	DefaultAudioBitrate = "160k"

	// DefaultJobs is the number of mixes built per batch.
	DefaultJobs = 1

	// MaxJobs is the largest batch accepted.
	MaxJobs = 100

	// DefaultOutputName is the output file used when no path is given.
	DefaultOutputName = "mix.mp4"

	// DefaultLogDir is where run logs are written.
	DefaultLogDir = "~/.local/state/drymix/logs"

	// defaultConfigPath is the config file read when no path is given.
	defaultConfigPath = "~/.config/drymix/config.toml"

	// EnvFFmpeg and EnvFFprobe override the tool paths.
	EnvFFmpeg  = "DRYMIX_FFMPEG"
	EnvFFprobe = "DRYMIX_FFPROBE"
)

// Tools holds external binary locations.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Output controls where and how mixes are written.
type Output struct {
	Path        string `toml:"path"`
	Jobs        int    `toml:"jobs"`
	Mode        string `toml:"mode"`
	KeepWorkDir bool   `toml:"keep_work_dir"`
}

// Order controls clip ordering.
type Order struct {
	Mode           string `toml:"mode"`
	BlockSize      int    `toml:"block_size"`
	ShuffleEachJob bool   `toml:"shuffle_each_job"`
	Repeat         int    `toml:"repeat"`
	// Duplicate lists 1-based clip numbers that appear DuplicateTimes times in total.
	Duplicate      []int `toml:"duplicate"`
	DuplicateTimes int   `toml:"duplicate_times"`
}

// Duration controls mix length.
type Duration struct {
	Target   string `toml:"target"`
	Fixed    bool   `toml:"fixed"`
	Autofill bool   `toml:"autofill"`
}

// Video controls the video encode.
type Video struct {
	Resolution string `toml:"resolution"`
	FPS        string `toml:"fps"`
	Uniform    bool   `toml:"uniform"`
	Encoder    string `toml:"encoder"`
	CRF        int    `toml:"crf"`
	QuickCopy  bool   `toml:"quick_copy"`
}

// Audio controls the optional external audio track.
type Audio struct {
	Track       string `toml:"track"`
	Bitrate     string `toml:"bitrate"`
	TrimToTrack bool   `toml:"trim_to_track"`
}

// Logging controls the run log file.
type Logging struct {
	Level    string `toml:"level"`
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// Config holds all configuration for building mixes.
type Config struct {
	Tools    Tools    `toml:"tools"`
	Output   Output   `toml:"output"`
	Order    Order    `toml:"order"`
	Duration Duration `toml:"duration"`
	Video    Video    `toml:"video"`
	Audio    Audio    `toml:"audio"`
	Logging  Logging  `toml:"logging"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		Tools: Tools{FFmpeg: "ffmpeg", FFprobe: "ffprobe"},
		Output: Output{
			Path: DefaultOutputName,
			Jobs: DefaultJobs,
			Mode: "copy",
		},
		Order: Order{
			Mode:           "full",
			ShuffleEachJob: true,
			Repeat:         1,
			DuplicateTimes: 2,
		},
		Duration: Duration{
			Target:   DefaultTarget,
			Fixed:    true,
			Autofill: true,
		},
		Video: Video{
			Resolution: "original",
			FPS:        "original",
			Encoder:    "x264",
			CRF:        DefaultCRF,
		},
		Audio:   Audio{Bitrate: DefaultAudioBitrate},
		Logging: Logging{Level: "info", Dir: DefaultLogDir},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads defaults, then the config file, then environment overrides, and
// validates the result. An empty path reads the default location when it
// exists; an explicit path must exist.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}
	if path != "" && !exists {
		return nil, "", fmt.Errorf("config file %s: %w", resolved, fs.ErrNotExist)
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ApplyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, resolved, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// ApplyEnv overrides tool paths from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvFFmpeg)); v != "" {
		c.Tools.FFmpeg = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFFprobe)); v != "" {
		c.Tools.FFprobe = v
	}
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = "ffmpeg"
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = "ffprobe"
	}
	if strings.TrimSpace(c.Audio.Bitrate) == "" {
		c.Audio.Bitrate = DefaultAudioBitrate
	}
	if c.Order.Repeat == 0 {
		c.Order.Repeat = 1
	}
	if c.Order.DuplicateTimes == 0 {
		c.Order.DuplicateTimes = 2
	}

	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	if c.Audio.Track, err = expandPath(c.Audio.Track); err != nil {
		return fmt.Errorf("audio.track: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Sample returns the embedded sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
