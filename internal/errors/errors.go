// Package errors provides structured error types for drymix operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindEnvironmentMissing represents required external tools being unreachable.
	KindEnvironmentMissing
	// KindProbe represents a failed metadata query for a clip.
	KindProbe
	// KindIncompatible represents clips whose stream signatures differ.
	KindIncompatible
	// KindProcess represents an external invocation that exited non-zero.
	KindProcess
	// KindFilesystem represents output or work directory failures.
	KindFilesystem
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindNoFilesFound represents no suitable clips found.
	KindNoFilesFound
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindEnvironmentMissing:
		return "Environment missing"
	case KindProbe:
		return "Probe failure"
	case KindIncompatible:
		return "Incompatible inputs"
	case KindProcess:
		return "Process failure"
	case KindFilesystem:
		return "Filesystem failure"
	case KindConfig:
		return "Configuration error"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for drymix operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewEnvironmentMissingError creates an error for a required tool that cannot be run.
func NewEnvironmentMissingError(tool string, underlying error) *CoreError {
	return &CoreError{Kind: KindEnvironmentMissing, Message: fmt.Sprintf("%s is not available", tool), Underlying: underlying}
}

// NewProbeError creates an error for a failed metadata query.
func NewProbeError(path string, underlying error) *CoreError {
	return &CoreError{Kind: KindProbe, Message: fmt.Sprintf("could not probe %s", path), Underlying: underlying}
}

// NewIncompatibleError creates an advisory error for mismatched clip signatures.
func NewIncompatibleError(message string) *CoreError {
	return &CoreError{Kind: KindIncompatible, Message: message}
}

// NewProcessFailedError creates an error for an external command that exited non-zero.
func NewProcessFailedError(cmd string, exitCode int, output string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   output,
	}
	return &CoreError{Kind: KindProcess, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewProcessStartError creates an error for an external command that could not start.
func NewProcessStartError(cmd string, err error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       CommandStart,
		Underlying: err,
	}
	return &CoreError{Kind: KindProcess, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewFilesystemError creates an error for a directory or file that could not be prepared.
func NewFilesystemError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindFilesystem, Message: message, Underlying: underlying}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message, Underlying: underlying}
}

// NewNoFilesFoundError creates an error for when no clips are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsNoFilesFound checks if the error is a no-files-found error.
func IsNoFilesFound(err error) bool {
	return IsKind(err, KindNoFilesFound)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, output string) *CoreError {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return NewProcessFailedError(cmd, exitErr.ExitCode(), output)
	}
	return NewProcessStartError(cmd, err)
}
