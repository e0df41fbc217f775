package errors

import (
	"errors"
	"os/exec"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindIO, "I/O error"},
		{KindEnvironmentMissing, "Environment missing"},
		{KindProbe, "Probe failure"},
		{KindIncompatible, "Incompatible inputs"},
		{KindProcess, "Process failure"},
		{KindFilesystem, "Filesystem failure"},
		{KindConfig, "Configuration error"},
		{KindNoFilesFound, "No files found"},
		{KindCancelled, "Operation cancelled"},
		{ErrorKind(99), "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCoreErrorError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &CoreError{
		Kind:       KindIO,
		Message:    "test message",
		Underlying: underlying,
	}

	got := err.Error()
	expected := "I/O error: test message: underlying error"
	if got != expected {
		t.Errorf("CoreError.Error() = %v, want %v", got, expected)
	}

	err2 := &CoreError{
		Kind:    KindConfig,
		Message: "config issue",
	}

	got2 := err2.Error()
	expected2 := "Configuration error: config issue"
	if got2 != expected2 {
		t.Errorf("CoreError.Error() = %v, want %v", got2, expected2)
	}
}

func TestCoreErrorUnwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewFilesystemError("mkdir", underlying)

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find the underlying error")
	}
}

func TestCoreErrorIs(t *testing.T) {
	err1 := &CoreError{Kind: KindProbe, Message: "test1"}
	err2 := &CoreError{Kind: KindProbe, Message: "test2"}
	err3 := &CoreError{Kind: KindConfig, Message: "test3"}

	if !errors.Is(err1, err2) {
		t.Error("Same kind errors should match")
	}

	if errors.Is(err1, err3) {
		t.Error("Different kind errors should not match")
	}
}

func TestCommandError(t *testing.T) {
	startErr := &CommandError{
		Command:    "ffmpeg",
		Kind:       CommandStart,
		Underlying: errors.New("not found"),
	}
	if got := startErr.Error(); got != "failed to execute ffmpeg: not found" {
		t.Errorf("CommandStart error = %v", got)
	}

	failedErr := &CommandError{
		Command:  "ffprobe",
		Kind:     CommandFailed,
		ExitCode: 1,
		Stderr:   "file not found",
	}
	expected := "command ffprobe failed with exit code 1: file not found"
	if got := failedErr.Error(); got != expected {
		t.Errorf("CommandFailed error = %v, want %v", got, expected)
	}

	bare := &CommandError{Command: "ffmpeg", Kind: CommandFailed, ExitCode: 2}
	if got := bare.Error(); got != "command ffmpeg failed with exit code 2" {
		t.Errorf("CommandFailed error = %v", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *CoreError
		kind ErrorKind
	}{
		{"NewIOError", NewIOError("disk full", errors.New("no space")), KindIO},
		{"NewEnvironmentMissingError", NewEnvironmentMissingError("ffmpeg", nil), KindEnvironmentMissing},
		{"NewProbeError", NewProbeError("a.mp4", errors.New("bad")), KindProbe},
		{"NewIncompatibleError", NewIncompatibleError("fps differs"), KindIncompatible},
		{"NewProcessFailedError", NewProcessFailedError("ffmpeg", 1, "boom"), KindProcess},
		{"NewProcessStartError", NewProcessStartError("ffmpeg", errors.New("enoent")), KindProcess},
		{"NewFilesystemError", NewFilesystemError("mkdir", nil), KindFilesystem},
		{"NewConfigError", NewConfigError("invalid crf", nil), KindConfig},
		{"NewNoFilesFoundError", NewNoFilesFoundError("/test/dir"), KindNoFilesFound},
		{"NewCancelledError", NewCancelledError(), KindCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
		})
	}
}

func TestProcessFailedCarriesCommandError(t *testing.T) {
	err := NewProcessFailedError("ffmpeg", 3, "tail")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected CommandError in chain")
	}
	if cmdErr.ExitCode != 3 || cmdErr.Stderr != "tail" {
		t.Errorf("CommandError = %+v", cmdErr)
	}
}

func TestWrapExecError(t *testing.T) {
	err := WrapExecError("nope", exec.ErrNotFound, "")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("expected CommandError in chain")
	}
	if cmdErr.Kind != CommandStart {
		t.Errorf("Kind = %v, want CommandStart", cmdErr.Kind)
	}
}

func TestIsKind(t *testing.T) {
	err := NewConfigError("test", nil)

	if !IsKind(err, KindConfig) {
		t.Error("IsKind should return true for matching kind")
	}

	if IsKind(err, KindIO) {
		t.Error("IsKind should return false for non-matching kind")
	}

	if IsKind(errors.New("plain error"), KindConfig) {
		t.Error("IsKind should return false for non-CoreError")
	}
}

func TestIsCancelled(t *testing.T) {
	if !IsCancelled(NewCancelledError()) {
		t.Error("IsCancelled should return true for cancelled error")
	}

	if IsCancelled(NewConfigError("test", nil)) {
		t.Error("IsCancelled should return false for non-cancelled error")
	}
}

func TestIsNoFilesFound(t *testing.T) {
	if !IsNoFilesFound(NewNoFilesFoundError("/test")) {
		t.Error("IsNoFilesFound should return true for no-files-found error")
	}

	if IsNoFilesFound(NewConfigError("test", nil)) {
		t.Error("IsNoFilesFound should return false for other errors")
	}
}
