package validation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/drymix/internal/ffprobe"
)

// mockAnalyzer implements MediaAnalyzer for testing.
type mockAnalyzer struct {
	duration    float64
	durationErr error
	sig         ffprobe.Signature
	sigErr      error
}

func (m *mockAnalyzer) Duration(context.Context, string) (float64, error) {
	return m.duration, m.durationErr
}

func (m *mockAnalyzer) Signature(context.Context, string) (ffprobe.Signature, error) {
	return m.sig, m.sigErr
}

func writeOutput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mix.mp4")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func ptr(f float64) *float64 { return &f }

func goodSignature() ffprobe.Signature {
	return ffprobe.Signature{
		VideoCodec: "h264",
		Width:      1920,
		Height:     1080,
		FrameRate:  ffprobe.ParseFrameRate("30/1"),
		AudioCodec: "aac",
	}
}

func TestValidateOutput_Valid(t *testing.T) {
	mock := &mockAnalyzer{duration: 3600.4, sig: goodSignature()}

	result, err := ValidateOutput(context.Background(), mock, writeOutput(t), Options{
		ExpectedDuration:  ptr(3600),
		ExpectedWidth:     1920,
		ExpectedFrameRate: "30",
		ExpectAudio:       true,
	})
	if err != nil {
		t.Fatalf("ValidateOutput() error = %v", err)
	}
	if !result.IsValid() {
		t.Errorf("IsValid() = false, want true. Failures: %v", result.GetFailures())
	}
	if result.SizeBytes != 4 {
		t.Errorf("SizeBytes = %d, want 4", result.SizeBytes)
	}
}

func TestValidateOutput_MissingFile(t *testing.T) {
	mock := &mockAnalyzer{sig: goodSignature()}

	result, err := ValidateOutput(context.Background(), mock, filepath.Join(t.TempDir(), "absent.mp4"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Exists || result.IsValid() {
		t.Error("missing output should not validate")
	}
	failures := result.GetFailures()
	if len(failures) == 0 || !strings.HasPrefix(failures[0], "Output file") {
		t.Errorf("failures = %v", failures)
	}
}

func TestValidateOutput_Mismatches(t *testing.T) {
	tests := []struct {
		name    string
		mock    *mockAnalyzer
		opts    Options
		failing string
	}{
		{
			name:    "duration too long",
			mock:    &mockAnalyzer{duration: 3610, sig: goodSignature()},
			opts:    Options{ExpectedDuration: ptr(3600)},
			failing: "Duration",
		},
		{
			name:    "duration short without allowance",
			mock:    &mockAnalyzer{duration: 1200, sig: goodSignature()},
			opts:    Options{ExpectedDuration: ptr(3600)},
			failing: "Duration",
		},
		{
			name:    "duration unreadable",
			mock:    &mockAnalyzer{durationErr: errors.New("boom"), sig: goodSignature()},
			opts:    Options{ExpectedDuration: ptr(60)},
			failing: "Duration",
		},
		{
			name:    "width",
			mock:    &mockAnalyzer{sig: goodSignature()},
			opts:    Options{ExpectedWidth: 1280},
			failing: "Resolution",
		},
		{
			name:    "frame rate",
			mock:    &mockAnalyzer{sig: goodSignature()},
			opts:    Options{ExpectedFrameRate: "25"},
			failing: "Frame rate",
		},
		{
			name: "audio missing",
			mock: &mockAnalyzer{sig: ffprobe.Signature{
				VideoCodec: "h264", Width: 1920, Height: 1080, FrameRate: ffprobe.ParseFrameRate("30"),
			}},
			opts:    Options{ExpectAudio: true},
			failing: "Audio",
		},
		{
			name:    "no video stream",
			mock:    &mockAnalyzer{sigErr: errors.New("no video stream")},
			opts:    Options{},
			failing: "Video stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateOutput(context.Background(), tt.mock, writeOutput(t), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if result.IsValid() {
				t.Fatal("IsValid() = true, want false")
			}
			failures := result.GetFailures()
			if len(failures) != 1 || !strings.HasPrefix(failures[0], tt.failing) {
				t.Errorf("failures = %v, want one %q failure", failures, tt.failing)
			}
		})
	}
}

func TestValidateOutput_AllowShorter(t *testing.T) {
	mock := &mockAnalyzer{duration: 900, sig: goodSignature()}
	result, err := ValidateOutput(context.Background(), mock, writeOutput(t), Options{
		ExpectedDuration: ptr(3600),
		AllowShorter:     true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsDurationCorrect {
		t.Errorf("short mix rejected: %s", result.DurationMessage)
	}
}

func TestValidateOutput_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := &mockAnalyzer{sigErr: context.Canceled}
	if _, err := ValidateOutput(ctx, mock, writeOutput(t), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		actual, expected float64
		allowShorter     bool
		want             bool
	}{
		{60, 60, false, true},
		{60.9, 60, false, true},
		{58.9, 60, false, false},
		{58.9, 60, true, true},
		{62, 60, true, false},
	}
	for _, tt := range tests {
		if got, msg := validateDuration(tt.actual, tt.expected, tt.allowShorter); got != tt.want {
			t.Errorf("validateDuration(%v, %v, %v) = %v (%s), want %v",
				tt.actual, tt.expected, tt.allowShorter, got, msg, tt.want)
		}
	}
}
