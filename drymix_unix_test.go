//go:build unix

package drymix

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestStopDuringToolCheckCancels(t *testing.T) {
	slowTool := filepath.Join(t.TempDir(), "slow-ffmpeg")
	if err := os.WriteFile(slowTool, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755); err != nil {
		t.Fatalf("write tool: %v", err)
	}

	m := newTestMixer(newStubRunner(false))
	m.ffmpegPath = slowTool
	m.ffprobePath = slowTool
	m.checkTools = true

	var log eventLog
	if !m.Start(context.Background(), testRequest(t, 2), log.handle) {
		t.Fatal("Start returned false")
	}
	time.Sleep(300 * time.Millisecond)
	m.Stop()

	var (
		result *Result
		err    error
	)
	finished := make(chan struct{})
	go func() {
		result, err = m.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(4 * time.Second):
		t.Fatal("batch did not stop during tool check")
	}

	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if result == nil || !result.Cancelled || result.CompletedJobs != 0 {
		t.Fatalf("result = %+v, want cancelled with no outputs", result)
	}
	types := log.types()
	if slices.Contains(types, EventTypeBatchFailed) {
		t.Errorf("events = %v, want no batch_failed", types)
	}
	if len(types) == 0 || types[len(types)-1] != EventTypeBatchCancelled {
		t.Errorf("events = %v, want trailing batch_cancelled", types)
	}
}

func TestStartWithCancelledContextCancels(t *testing.T) {
	m := newTestMixer(newStubRunner(false))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var log eventLog
	m.Start(ctx, testRequest(t, 2), log.handle)
	result, err := m.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !result.Cancelled {
		t.Errorf("result = %+v, want cancelled", result)
	}
	if types := log.types(); len(types) != 1 || types[0] != EventTypeBatchCancelled {
		t.Errorf("events = %v, want single batch_cancelled", types)
	}
}
