// Package deps checks that the external tools and directories a batch needs
// are usable before any work starts.
package deps

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	derrors "github.com/five82/drymix/internal/errors"
)

// versionTimeout bounds each `-version` call.
const versionTimeout = 10 * time.Second

// Requirement defines an external dependency drymix relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// ToolRequirements returns the ffmpeg and ffprobe requirements for the given paths.
func ToolRequirements(ffmpegPath, ffprobePath string) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegPath, Description: "joins and encodes clips"},
		{Name: "FFprobe", Command: ffprobePath, Description: "reads clip durations and stream info"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
// A binary counts as available when it is found and `-version` exits cleanly.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		version, err := readVersion(ctx, resolved)
		if err != nil {
			status.Detail = fmt.Sprintf("%s -version failed: %v", cmd, err)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Version = version
		results = append(results, status)
	}
	return results
}

// Require returns an environment error for the first unavailable required tool.
func Require(statuses []Status) error {
	for _, s := range statuses {
		if s.Available || s.Optional {
			continue
		}
		return derrors.NewEnvironmentMissingError(s.Name, errors.New(s.Detail))
	}
	return nil
}

func readVersion(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-version")
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", nil
}

// Result is the outcome of a directory check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}
