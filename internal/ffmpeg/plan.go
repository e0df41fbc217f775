package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// Original keeps a clip's own resolution or frame rate.
const Original = "original"

// Resolution is an output resolution preset.
type Resolution string

var resolutionWidths = map[Resolution]int{
	"1280x720":  1280,
	"1920x1080": 1920,
	"2560x1440": 2560,
	"3840x2160": 3840,
}

// resolutionAliases maps the short names onto presets.
var resolutionAliases = map[string]Resolution{
	"720p":  "1280x720",
	"1080p": "1920x1080",
	"1440p": "2560x1440",
	"2160p": "3840x2160",
	"4k":    "3840x2160",
}

// ParseResolution parses a resolution preset or its short name (720p).
// Empty means original.
func ParseResolution(s string) (Resolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == Original {
		return Original, nil
	}
	r := Resolution(s)
	if alias, ok := resolutionAliases[s]; ok {
		r = alias
	}
	if _, ok := resolutionWidths[r]; !ok {
		return "", fmt.Errorf("unknown resolution %q, valid options: original, 1280x720, 1920x1080, 2560x1440, 3840x2160", s)
	}
	return r, nil
}

// Width returns the target width, or 0 for original.
func (r Resolution) Width() int {
	return resolutionWidths[r]
}

// FrameRate is an output frame rate preset.
type FrameRate string

var frameRates = map[FrameRate]bool{"24": true, "25": true, "30": true, "50": true, "60": true}

// ParseFrameRate parses a frame rate preset. Empty means original.
func ParseFrameRate(s string) (FrameRate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == Original {
		return Original, nil
	}
	f := FrameRate(s)
	if !frameRates[f] {
		return "", fmt.Errorf("unknown frame rate %q, valid options: original, 24, 25, 30, 50, 60", s)
	}
	return f, nil
}

// Encoder names a video encoder template.
type Encoder string

const (
	EncoderX264  Encoder = "x264"
	EncoderCopy  Encoder = "copy"
	EncoderNVENC Encoder = "nvenc"
	EncoderQSV   Encoder = "qsv"
	EncoderAMF   Encoder = "amf"
)

// ParseEncoder parses an encoder name.
func ParseEncoder(s string) (Encoder, error) {
	switch e := Encoder(strings.ToLower(strings.TrimSpace(s))); e {
	case EncoderX264, EncoderCopy, EncoderNVENC, EncoderQSV, EncoderAMF:
		return e, nil
	case "":
		return EncoderX264, nil
	default:
		return "", fmt.Errorf("unknown encoder %q, valid options: x264, copy, nvenc, qsv, amf", s)
	}
}

// PlanOptions is the video configuration a plan is derived from.
type PlanOptions struct {
	Resolution Resolution
	FrameRate  FrameRate
	// Uniform means the clips already match, so no filter or rate change is applied.
	Uniform   bool
	Encoder   Encoder
	CRF       int
	QuickCopy bool
}

// EncodePlan holds the video arguments shared by normalize and final invocations.
type EncodePlan struct {
	FilterChain   string
	FrameRateArgs []string
	CodecArgs     []string
	Passthrough   bool
	Advisories    []string
}

// Transforms reports whether the plan changes resolution or frame rate.
func (p EncodePlan) Transforms() bool {
	return p.FilterChain != "" || len(p.FrameRateArgs) > 0
}

// BuildPlan derives filter, rate and codec arguments from opts. Stream copy is
// only chosen when nothing is transformed; a copy request that conflicts with a
// transform is re-encoded and noted in Advisories.
func BuildPlan(opts PlanOptions) EncodePlan {
	var plan EncodePlan

	if !opts.Uniform {
		chain := NewVideoFilterChain().AddScale(opts.Resolution.Width())
		if opts.FrameRate != "" && opts.FrameRate != Original {
			fps := string(opts.FrameRate)
			chain.AddFPS(fps)
			plan.FrameRateArgs = []string{"-r", fps, "-vsync", "cfr"}
		}
		plan.FilterChain = chain.Build()
	}

	if opts.Encoder == "" {
		opts.Encoder = EncoderX264
	}
	wantCopy := opts.QuickCopy || opts.Encoder == EncoderCopy
	args, known := encoderArgs(opts.Encoder, opts.CRF)

	switch {
	case !plan.Transforms() && (wantCopy || !known):
		plan.CodecArgs = copyArgs()
		plan.Passthrough = true
	case wantCopy:
		plan.Advisories = append(plan.Advisories, "stream copy is not possible while resolution or frame rate changes; re-encoding")
		if !known || opts.Encoder == EncoderCopy {
			args, _ = encoderArgs(EncoderX264, opts.CRF)
		}
		plan.CodecArgs = args
	case !known:
		plan.Advisories = append(plan.Advisories, fmt.Sprintf("unknown encoder %q; using x264", opts.Encoder))
		plan.CodecArgs, _ = encoderArgs(EncoderX264, opts.CRF)
	default:
		plan.CodecArgs = args
	}
	return plan
}

func copyArgs() []string {
	return []string{"-c:v", "copy"}
}

// encoderArgs returns the codec template for e. Copy and unknown names report false.
func encoderArgs(e Encoder, crf int) ([]string, bool) {
	switch e {
	case EncoderX264:
		return []string{"-c:v", "libx264", "-preset", "veryfast", "-crf", strconv.Itoa(crf),
			"-g", "60", "-sc_threshold", "0", "-pix_fmt", "yuv420p"}, true
	case EncoderNVENC:
		return []string{"-c:v", "h264_nvenc", "-preset", "fast", "-b:v", "5M", "-g", "60", "-pix_fmt", "yuv420p"}, true
	case EncoderQSV:
		return []string{"-c:v", "h264_qsv", "-preset", "fast", "-b:v", "5M", "-g", "60", "-pix_fmt", "yuv420p"}, true
	case EncoderAMF:
		return []string{"-c:v", "h264_amf", "-quality", "speed", "-b:v", "5M", "-g", "60", "-pix_fmt", "yuv420p"}, true
	default:
		return nil, false
	}
}
