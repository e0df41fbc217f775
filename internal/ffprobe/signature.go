package ffprobe

import (
	"fmt"
	"strconv"
)

// Signature holds the stream properties that must match for clips to be joined
// without re-encoding. Audio fields are zero when a clip has no audio stream.
type Signature struct {
	VideoCodec  string
	Width       int
	Height      int
	PixelFormat string
	FrameRate   FrameRate
	AudioCodec  string
	Channels    int
	SampleRate  int
}

// FieldDiff names one differing field between two signatures.
type FieldDiff struct {
	Field    string
	Got      string
	Baseline string
}

func (d FieldDiff) String() string {
	return fmt.Sprintf("%s: %s != %s", d.Field, d.Got, d.Baseline)
}

// Diff compares s against baseline field by field, in a fixed order.
func (s Signature) Diff(baseline Signature) []FieldDiff {
	var diffs []FieldDiff
	add := func(field, got, want string) {
		if got != want {
			diffs = append(diffs, FieldDiff{Field: field, Got: got, Baseline: want})
		}
	}

	add("vcodec", s.VideoCodec, baseline.VideoCodec)
	add("width", strconv.Itoa(s.Width), strconv.Itoa(baseline.Width))
	add("height", strconv.Itoa(s.Height), strconv.Itoa(baseline.Height))
	add("pix_fmt", s.PixelFormat, baseline.PixelFormat)
	if !s.FrameRate.Equal(baseline.FrameRate) {
		diffs = append(diffs, FieldDiff{Field: "fps", Got: s.FrameRate.String(), Baseline: baseline.FrameRate.String()})
	}
	add("acodec", s.AudioCodec, baseline.AudioCodec)
	add("channels", strconv.Itoa(s.Channels), strconv.Itoa(baseline.Channels))
	add("sample_rate", strconv.Itoa(s.SampleRate), strconv.Itoa(baseline.SampleRate))
	return diffs
}

// Resolution returns "WxH".
func (s Signature) Resolution() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
