package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/five82/drymix/internal/ffmpeg"
	"github.com/five82/drymix/internal/ordering"
	"github.com/five82/drymix/internal/util"
)

var bitratePattern = regexp.MustCompile(`^[0-9]+[kKmM]?$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := util.ParseClock(c.Duration.Target); err != nil {
		return fmt.Errorf("%w: duration.target: %v", ErrInvalidDuration, err)
	}

	if c.Output.Jobs < 1 || c.Output.Jobs > MaxJobs {
		return fmt.Errorf("%w: output.jobs must be 1-%d, got %d", ErrInvalidJobs, MaxJobs, c.Output.Jobs)
	}

	switch strings.ToLower(c.Output.Mode) {
	case "copy", "normalize":
	default:
		return fmt.Errorf("%w: output.mode %q, valid options: copy, normalize", ErrInvalidOption, c.Output.Mode)
	}

	if _, err := ordering.ParseMode(c.Order.Mode); err != nil {
		return fmt.Errorf("%w: order.mode: %v", ErrInvalidOption, err)
	}
	if c.Order.BlockSize < 0 {
		return fmt.Errorf("%w: order.block_size must be >= 0, got %d", ErrInvalidBlockSize, c.Order.BlockSize)
	}
	if c.Order.Repeat < 1 {
		return fmt.Errorf("%w: order.repeat must be >= 1, got %d", ErrInvalidRepeat, c.Order.Repeat)
	}
	if len(c.Order.Duplicate) > 0 && c.Order.DuplicateTimes < 1 {
		return fmt.Errorf("%w: order.duplicate_times must be >= 1, got %d", ErrInvalidRepeat, c.Order.DuplicateTimes)
	}
	for _, n := range c.Order.Duplicate {
		if n < 1 {
			return fmt.Errorf("%w: order.duplicate clip numbers start at 1, got %d", ErrInvalidRepeat, n)
		}
	}

	if _, err := ffmpeg.ParseResolution(c.Video.Resolution); err != nil {
		return fmt.Errorf("%w: video.resolution: %v", ErrInvalidOption, err)
	}
	if _, err := ffmpeg.ParseFrameRate(c.Video.FPS); err != nil {
		return fmt.Errorf("%w: video.fps: %v", ErrInvalidOption, err)
	}
	if _, err := ffmpeg.ParseEncoder(c.Video.Encoder); err != nil {
		return fmt.Errorf("%w: video.encoder: %v", ErrInvalidOption, err)
	}
	if c.Video.CRF < 0 || c.Video.CRF > MaxCRF {
		return fmt.Errorf("%w: video.crf must be 0-%d, got %d", ErrInvalidCRF, MaxCRF, c.Video.CRF)
	}

	if !bitratePattern.MatchString(c.Audio.Bitrate) {
		return fmt.Errorf("%w: audio.bitrate %q", ErrInvalidBitrate, c.Audio.Bitrate)
	}
	return nil
}

// TargetSeconds returns the parsed target duration. An empty, unparsable or
// zero target means the default.
func (c *Config) TargetSeconds() int {
	secs, err := util.ParseClock(c.Duration.Target)
	if err != nil || secs <= 0 {
		return DefaultTargetSeconds
	}
	return secs
}

// PlanOptions converts the video section into encode plan options.
// Call Validate first; unparsable names fall back to their defaults.
func (c *Config) PlanOptions() ffmpeg.PlanOptions {
	res, _ := ffmpeg.ParseResolution(c.Video.Resolution)
	fps, _ := ffmpeg.ParseFrameRate(c.Video.FPS)
	enc, _ := ffmpeg.ParseEncoder(c.Video.Encoder)
	return ffmpeg.PlanOptions{
		Resolution: res,
		FrameRate:  fps,
		Uniform:    c.Video.Uniform,
		Encoder:    enc,
		CRF:        c.Video.CRF,
		QuickCopy:  c.Video.QuickCopy,
	}
}

// ShuffleMode returns the parsed ordering mode.
func (c *Config) ShuffleMode() ordering.Mode {
	m, err := ordering.ParseMode(c.Order.Mode)
	if err != nil {
		return ordering.ModeFull
	}
	return m
}

// Normalize reports whether clips are re-encoded before joining.
func (c *Config) Normalize() bool {
	return strings.EqualFold(c.Output.Mode, "normalize")
}
