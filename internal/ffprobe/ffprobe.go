// Package ffprobe queries clip durations and stream signatures using ffprobe.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	derrors "github.com/five82/drymix/internal/errors"
)

// DefaultPath is the ffprobe binary looked up on PATH.
const DefaultPath = "ffprobe"

// Prober runs ffprobe.
type Prober struct {
	Path string
}

// NewProber returns a Prober for the given binary, or DefaultPath when empty.
func NewProber(path string) *Prober {
	if path == "" {
		path = DefaultPath
	}
	return &Prober{Path: path}
}

// DurationArgs returns the ffprobe arguments that print a file's duration.
func DurationArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=nokey=1:noprint_wrappers=1",
		path,
	}
}

// SignatureArgs returns the ffprobe arguments that print stream fields as JSON.
func SignatureArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "stream=codec_type,codec_name,width,height,pix_fmt,avg_frame_rate,r_frame_rate,channels,sample_rate",
		"-of", "json",
		path,
	}
}

func (p *Prober) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, p.Path, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, derrors.WrapExecError(p.Path, err, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// Duration returns the container duration of path in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	output, err := p.run(ctx, DurationArgs(path))
	if err != nil {
		return 0, derrors.NewProbeError(path, err)
	}
	d, err := parseDurationOutput(output)
	if err != nil {
		return 0, derrors.NewProbeError(path, err)
	}
	return d, nil
}

// Signature returns the stream signature of path's first video and audio streams.
func (p *Prober) Signature(ctx context.Context, path string) (Signature, error) {
	output, err := p.run(ctx, SignatureArgs(path))
	if err != nil {
		return Signature{}, derrors.NewProbeError(path, err)
	}
	sig, err := parseSignatureOutput(output)
	if err != nil {
		return Signature{}, derrors.NewProbeError(path, err)
	}
	return sig, nil
}

func parseDurationOutput(data []byte) (float64, error) {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	d, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", text, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	Channels     int    `json:"channels"`
	SampleRate   string `json:"sample_rate"`
}

func parseFFprobeOutput(data []byte) (*ffprobeOutput, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &result, nil
}

func parseSignatureOutput(data []byte) (Signature, error) {
	probe, err := parseFFprobeOutput(data)
	if err != nil {
		return Signature{}, err
	}
	return extractSignature(probe)
}

func extractSignature(probe *ffprobeOutput) (Signature, error) {
	var sig Signature
	var haveVideo, haveAudio bool

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if haveVideo {
				continue
			}
			haveVideo = true
			sig.VideoCodec = stream.CodecName
			sig.Width = stream.Width
			sig.Height = stream.Height
			sig.PixelFormat = stream.PixFmt
			sig.FrameRate = ParseFrameRate(stream.AvgFrameRate)
			if !sig.FrameRate.Valid() && stream.RFrameRate != "" {
				if r := ParseFrameRate(stream.RFrameRate); r.Valid() {
					sig.FrameRate = r
				}
			}
		case "audio":
			if haveAudio {
				continue
			}
			haveAudio = true
			sig.AudioCodec = stream.CodecName
			sig.Channels = stream.Channels
			if stream.SampleRate != "" {
				sr, err := strconv.Atoi(stream.SampleRate)
				if err != nil {
					return Signature{}, fmt.Errorf("invalid sample rate %q", stream.SampleRate)
				}
				sig.SampleRate = sr
			}
		}
	}

	if !haveVideo {
		return Signature{}, fmt.Errorf("no video stream found")
	}
	return sig, nil
}
