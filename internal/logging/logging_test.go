package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "INFO", false},
		{"debug", "DEBUG", false},
		{"WARN", "WARN", false},
		{"warning", "WARN", false},
		{"error", "ERROR", false},
		{"loud", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Enabled: true})
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSetupWritesRunLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := Setup(dir, LevelDebug, false)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	l.Debug("probe", "clip", "a.mp4")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(l.FilePath()), "drymix_run_") {
		t.Errorf("FilePath = %s", l.FilePath())
	}
	data, err := os.ReadFile(l.FilePath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "clip=a.mp4") {
		t.Errorf("log file missing record: %q", data)
	}
}

func TestSetupDisabled(t *testing.T) {
	l, err := Setup(t.TempDir(), LevelInfo, true)
	if err != nil || l != nil {
		t.Fatalf("Setup(noLog) = %v, %v", l, err)
	}
	if l.FilePath() != "" || l.Close() != nil {
		t.Error("nil FileLog methods should be no-ops")
	}
}
