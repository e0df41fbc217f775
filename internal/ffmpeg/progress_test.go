package ffmpeg

import "testing"

func TestParseProgressLine(t *testing.T) {
	line := "frame=  240 fps= 60 q=28.0 size=    1024kB time=00:00:08.00 bitrate=1048.6kbits/s speed=2.05x"
	p, ok := ParseProgressLine(line, 16)
	if !ok {
		t.Fatal("expected a progress line")
	}
	if p.Frame != 240 {
		t.Errorf("Frame = %d, want 240", p.Frame)
	}
	if p.ElapsedSecs != 8 {
		t.Errorf("ElapsedSecs = %v, want 8", p.ElapsedSecs)
	}
	if p.Speed < 2.04 || p.Speed > 2.06 {
		t.Errorf("Speed = %v, want 2.05", p.Speed)
	}
	if p.Percent != 50 {
		t.Errorf("Percent = %v, want 50", p.Percent)
	}
}

func TestParseProgressLineClampsAndUnknown(t *testing.T) {
	p, ok := ParseProgressLine("size=N/A time=00:02:00.00 bitrate=N/A speed=N/A", 60)
	if !ok {
		t.Fatal("expected a progress line")
	}
	if p.Percent != 100 {
		t.Errorf("Percent = %v, want clamp to 100", p.Percent)
	}
	if p.Speed != 0 || p.Frame != 0 {
		t.Errorf("unexpected parsed fields %+v", p)
	}

	p, _ = ParseProgressLine("time=00:00:01.00", 0)
	if p.Percent != 0 {
		t.Errorf("Percent without expected duration = %v, want 0", p.Percent)
	}
}

func TestParseProgressLineRejectsOtherOutput(t *testing.T) {
	for _, line := range []string{
		"[mp4 @ 0x55] Non-monotonous DTS in output stream 0:1",
		"Press [q] to stop",
		"",
	} {
		if _, ok := ParseProgressLine(line, 10); ok {
			t.Errorf("ParseProgressLine(%q) reported progress", line)
		}
	}
}
