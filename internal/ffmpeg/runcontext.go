package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"sync"
)

// ErrProcessActive is returned when a second process is attached to a RunContext.
var ErrProcessActive = errors.New("another process is already running")

// RunContext is the cancellation token shared by a batch and the process it is
// currently running. Cancel is safe to call from any goroutine.
type RunContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	active *exec.Cmd
}

// NewRunContext derives a cancellable RunContext from parent.
func NewRunContext(parent context.Context) *RunContext {
	ctx, cancel := context.WithCancel(parent)
	return &RunContext{ctx: ctx, cancel: cancel}
}

// Context returns the context that processes started under rc are bound to.
func (rc *RunContext) Context() context.Context {
	return rc.ctx
}

// Cancel requests cooperative cancellation and terminates the active process.
func (rc *RunContext) Cancel() {
	rc.cancel()
}

// Cancelled reports whether cancellation was requested.
func (rc *RunContext) Cancelled() bool {
	return rc.ctx.Err() != nil
}

// Active reports whether a process is currently attached.
func (rc *RunContext) Active() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.active != nil
}

func (rc *RunContext) attach(cmd *exec.Cmd) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.active != nil {
		return ErrProcessActive
	}
	rc.active = cmd
	return nil
}

func (rc *RunContext) detach(cmd *exec.Cmd) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.active == cmd {
		rc.active = nil
	}
}
