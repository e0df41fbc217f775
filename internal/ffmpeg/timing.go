package ffmpeg

import "strconv"

// TimingInput describes the requested output length.
type TimingInput struct {
	TargetSeconds int
	Fixed         bool
	TrimToAudio   bool
	HasAudio      bool
	AudioSeconds  float64
}

// Timing is the resolved output length policy.
type Timing struct {
	// TrimSeconds is passed as -t when positive.
	TrimSeconds int
	Shortest    bool
	// FillSeconds is the duration autofill expands the clip list to.
	FillSeconds int
	Advisory    string
}

// ResolveTiming decides trim and shortest flags. Trimming to the audio track
// wins over a fixed length unless the fixed target is shorter.
func ResolveTiming(in TimingInput) Timing {
	audio := 0
	if in.HasAudio && in.AudioSeconds > 0 {
		audio = int(in.AudioSeconds)
	}
	trimToAudio := in.TrimToAudio && audio > 0

	var t Timing
	switch {
	case trimToAudio && !in.Fixed:
		t.TrimSeconds = audio
	case trimToAudio && in.Fixed:
		t.TrimSeconds = min(in.TargetSeconds, audio)
	case in.Fixed:
		t.TrimSeconds = in.TargetSeconds
	}
	t.Shortest = trimToAudio

	if in.HasAudio && in.TrimToAudio && audio == 0 {
		t.Advisory = "audio track is empty or unreadable; ignoring trim to audio"
	}

	t.FillSeconds = in.TargetSeconds
	if t.TrimSeconds > 0 {
		t.FillSeconds = t.TrimSeconds
	}
	return t
}

// Args returns the -t and -shortest arguments.
func (t Timing) Args() []string {
	var args []string
	if t.TrimSeconds > 0 {
		args = append(args, "-t", strconv.Itoa(t.TrimSeconds))
	}
	if t.Shortest {
		args = append(args, "-shortest")
	}
	return args
}
