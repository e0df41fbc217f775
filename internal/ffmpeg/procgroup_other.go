//go:build !unix

package ffmpeg

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

func terminateProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Signal(os.Interrupt)
}

func killProcessGroup(*exec.Cmd) {}
