package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	audioSampleRate = "48000"
	audioChannels   = "2"
)

// BaseArgs returns the leading arguments of every invocation.
func BaseArgs() []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "warning",
		"-fflags", "+genpts", "-avoid_negative_ts", "make_zero",
	}
}

// AudioArgs returns the fixed AAC stereo re-encode arguments.
func AudioArgs(bitrate string) []string {
	return []string{"-c:a", "aac", "-b:a", bitrate, "-ar", audioSampleRate, "-ac", audioChannels}
}

// NormalizedClipPath returns the normalized output for the 1-based clip index.
func NormalizedClipPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("clip_%03d.mp4", index))
}

// PartialPath returns the in-progress path for a normalized clip.
func PartialPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".partial" + filepath.Ext(path)
}

// NormalizeArgs builds the invocation that re-encodes src to dst using plan.
func NormalizeArgs(src, dst string, plan EncodePlan, audioBitrate string) []string {
	args := BaseArgs()
	args = append(args, "-i", src)
	if plan.FilterChain != "" {
		args = append(args, "-vf", plan.FilterChain)
	}
	args = append(args, plan.FrameRateArgs...)
	args = append(args, plan.CodecArgs...)
	args = append(args, AudioArgs(audioBitrate)...)
	args = append(args, "-movflags", "+faststart", dst)
	return args
}

// FinalInput describes the invocation that joins a manifest into an output file.
type FinalInput struct {
	Manifest     string
	Output       string
	Plan         EncodePlan
	AudioPath    string
	AudioBitrate string
	Timing       Timing
}

// FinalArgs builds the concat invocation. An external audio track adds a second
// input and explicit stream mapping.
func FinalArgs(in FinalInput) []string {
	args := BaseArgs()
	args = append(args, "-f", "concat", "-safe", "0", "-i", in.Manifest)
	if in.AudioPath != "" {
		args = append(args, "-i", in.AudioPath)
	}
	if in.Plan.FilterChain != "" {
		args = append(args, "-vf", in.Plan.FilterChain)
	}
	args = append(args, in.Plan.FrameRateArgs...)
	if in.AudioPath != "" {
		args = append(args, "-map", "0:v:0?", "-map", "1:a:0?")
	}
	args = append(args, in.Plan.CodecArgs...)
	args = append(args, AudioArgs(in.AudioBitrate)...)
	args = append(args, "-movflags", "+faststart")
	args = append(args, in.Timing.Args()...)
	args = append(args, in.Output)
	return args
}

// StripStreamMapping removes every -map option and its value.
func StripStreamMapping(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "-map" {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}

// FormatCommand renders a command line for logs, quoting arguments with spaces.
func FormatCommand(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{path}, args...) {
		if a == "" || strings.ContainsAny(a, " \t'\"") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
