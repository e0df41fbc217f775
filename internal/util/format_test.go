package util

import (
	"math"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3599, "00:59:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{86400, "24:00:00"},
		{-1, "??:??:??"},
		{math.NaN(), "??:??:??"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"45", 45, false},
		{"90", 90, false},
		{"02:30", 150, false},
		{"01:00:00", 3600, false},
		{"1:02:03", 3723, false},
		{" 00:10:00 ", 600, false},
		{"10:75", 0, true},
		{"1:90", 0, true},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"01::00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClockRoundTrip(t *testing.T) {
	for _, secs := range []int64{0, 1, 59, 61, 3599, 3600, 7322} {
		got, err := ParseClock(FormatDurationFromSecs(secs))
		if err != nil {
			t.Fatalf("ParseClock(FormatDurationFromSecs(%d)) error = %v", secs, err)
		}
		if int64(got) != secs {
			t.Errorf("round trip of %d = %d", secs, got)
		}
	}
}

func TestParseFFmpegTime(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"00:00:00.00", 0, true},
		{"00:01:30.50", 90.5, true},
		{"01:00:00", 3600, true},
		{"1:30", 0, false},
		{"aa:bb:cc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFFmpegTime(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseFFmpegTime(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
