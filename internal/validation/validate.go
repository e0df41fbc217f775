package validation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/five82/drymix/internal/ffprobe"
)

// durationToleranceSecs is the maximum allowed difference between the
// expected and actual mix length. Stream copies cut on packet boundaries.
const durationToleranceSecs = 1.0

// Options describes what a job expects of its output. Zero values skip the
// corresponding check.
type Options struct {
	// ExpectedDuration is the trim length. When AllowShorter is set the mix
	// may end early because the clips ran out.
	ExpectedDuration *float64
	AllowShorter     bool
	// ExpectedWidth is the scaled width; height follows the aspect ratio.
	ExpectedWidth     int
	ExpectedFrameRate string
	// ExpectAudio requires an audio stream, as when a track was attached.
	ExpectAudio bool
}

// ValidateOutput checks outputPath against opts. Failed checks are recorded
// in the result; only ctx cancellation is returned as an error.
func ValidateOutput(ctx context.Context, analyzer MediaAnalyzer, outputPath string, opts Options) (*Result, error) {
	result := &Result{
		IsDurationCorrect:   true,
		IsResolutionCorrect: true,
		IsFrameRateCorrect:  true,
		IsAudioCorrect:      true,
	}

	info, err := os.Stat(outputPath)
	if err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		result.Exists = true
		result.SizeBytes = info.Size()
	}
	if !result.Exists {
		result.DurationMessage = "Duration validation skipped"
		return result, nil
	}

	sig, err := analyzer.Signature(ctx, outputPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		result.ResolutionMessage = "Resolution validation skipped"
		result.FrameRateMessage = "Frame rate validation skipped"
		result.AudioMessage = "Audio validation skipped"
	} else {
		result.HasVideo = sig.VideoCodec != ""
		result.CodecName = sig.VideoCodec
		result.ActualWidth = sig.Width
		result.IsResolutionCorrect, result.ResolutionMessage = validateResolution(sig, opts.ExpectedWidth)
		result.IsFrameRateCorrect, result.FrameRateMessage = validateFrameRate(sig.FrameRate, opts.ExpectedFrameRate)
		result.AudioCodec = sig.AudioCodec
		result.IsAudioCorrect, result.AudioMessage = validateAudio(sig.AudioCodec, opts.ExpectAudio)
	}

	if opts.ExpectedDuration != nil {
		actual, err := analyzer.Duration(ctx, outputPath)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.IsDurationCorrect = false
			result.DurationMessage = "Failed to read duration"
		} else {
			result.ActualDuration = &actual
			result.ExpectedDuration = opts.ExpectedDuration
			result.IsDurationCorrect, result.DurationMessage = validateDuration(actual, *opts.ExpectedDuration, opts.AllowShorter)
		}
	} else {
		result.DurationMessage = "Duration validation skipped"
	}

	return result, nil
}

// validateDuration checks that duration is within acceptable tolerance.
func validateDuration(actual, expected float64, allowShorter bool) (bool, string) {
	diff := actual - expected
	if math.Abs(diff) <= durationToleranceSecs || (allowShorter && diff < 0) {
		return true, fmt.Sprintf("Duration %.1fs (target %.1fs)", actual, expected)
	}
	return false, fmt.Sprintf("Duration mismatch: got %.1fs, expected %.1fs (diff: %.1fs)",
		actual, expected, math.Abs(diff))
}

func validateResolution(sig ffprobe.Signature, expectedWidth int) (bool, string) {
	if expectedWidth <= 0 {
		return true, "Output is " + sig.Resolution()
	}
	if sig.Width == expectedWidth {
		return true, fmt.Sprintf("Width matches: %s", sig.Resolution())
	}
	return false, fmt.Sprintf("Width mismatch: got %d, expected %d", sig.Width, expectedWidth)
}

func validateFrameRate(actual ffprobe.FrameRate, expected string) (bool, string) {
	if expected == "" {
		return true, "Output is " + actual.String() + " fps"
	}
	want := ffprobe.ParseFrameRate(expected)
	if actual.Equal(want) {
		return true, "Frame rate matches: " + actual.String()
	}
	return false, fmt.Sprintf("Frame rate mismatch: got %s, expected %s", actual.String(), want.String())
}

func validateAudio(codec string, expected bool) (bool, string) {
	switch {
	case codec != "":
		return true, "Audio track is " + codec
	case expected:
		return false, "No audio track (expected the attached track)"
	default:
		return true, "No audio tracks"
	}
}
