package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	derrors "github.com/five82/drymix/internal/errors"
)

const (
	// DefaultPath is the ffmpeg binary looked up on PATH.
	DefaultPath = "ffmpeg"

	// DefaultGracePeriod is how long a terminated process may take to exit
	// before it is killed.
	DefaultGracePeriod = 5 * time.Second

	// tailLines is how many trailing output lines a Result keeps.
	tailLines = 20

	maxLineBytes = 1 << 20
)

// LineSink receives process output one line at a time, in order.
type LineSink func(line string)

// Result contains the outcome of one process run.
type Result struct {
	ExitCode  int
	Err       error
	Cancelled bool
	// Tail holds the last output lines for diagnostics.
	Tail []string
}

// Success reports whether the process exited cleanly without cancellation.
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0 && !r.Cancelled
}

// Runner starts external processes with combined, line-split output.
type Runner struct {
	Path        string
	GracePeriod time.Duration
}

// NewRunner returns a Runner for the given binary, or DefaultPath when empty.
func NewRunner(path string) *Runner {
	if path == "" {
		path = DefaultPath
	}
	return &Runner{Path: path, GracePeriod: DefaultGracePeriod}
}

// Run starts one process and forwards its output lines to sink until it exits.
// Cancelling rc sends the process group SIGTERM, then SIGKILL once the grace
// period passes; output after cancellation is discarded. Run returns only after
// the process has exited.
func (r *Runner) Run(rc *RunContext, args []string, sink LineSink) Result {
	if rc.Cancelled() {
		return Result{ExitCode: -1, Cancelled: true, Err: context.Canceled}
	}

	cmd := exec.CommandContext(rc.Context(), r.Path, args...)
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return terminateProcess(cmd) }
	cmd.WaitDelay = r.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := rc.attach(cmd); err != nil {
		return Result{ExitCode: -1, Err: err}
	}
	defer rc.detach(cmd)

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return Result{ExitCode: -1, Err: derrors.WrapExecError(r.Path, err, "")}
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		waitErr <- err
	}()

	tail := make([]string, 0, tailLines)
	readLines(pr, func(line string) {
		if rc.Cancelled() {
			return
		}
		if len(tail) == tailLines {
			tail = tail[1:]
		}
		tail = append(tail, line)
		if sink != nil {
			sink(line)
		}
	})

	err := <-waitErr
	if rc.Cancelled() {
		killProcessGroup(cmd)
		return Result{ExitCode: exitCode(cmd, err), Cancelled: true, Err: context.Canceled, Tail: tail}
	}

	// Helpers that outlive ffmpeg can hold the pipe open past WaitDelay.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		err = nil
	}

	res := Result{ExitCode: exitCode(cmd, err), Tail: tail}
	if err != nil || res.ExitCode != 0 {
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			res.Err = derrors.WrapExecError(r.Path, err, strings.Join(tail, "\n"))
		} else {
			res.Err = derrors.NewProcessFailedError(r.Path, res.ExitCode, lastLine(tail))
		}
	}
	return res
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func lastLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// readLines splits r on \n and \r, skipping empty lines, and always reads r to
// EOF so the writer never blocks.
func readLines(r io.Reader, fn func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanOutputLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line != "" {
			fn(line)
		}
	}
	_, _ = io.Copy(io.Discard, r)
}

// scanOutputLines is a bufio.SplitFunc that treats \r as a line end, since
// ffmpeg redraws its stats line with carriage returns.
func scanOutputLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
