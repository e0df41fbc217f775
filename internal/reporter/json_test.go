package reporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var events []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var ev map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("invalid JSON line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	return events
}

func TestJSONReporterEventTypes(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)

	r.BatchStarted(BatchStartInfo{RunID: "abc", TotalJobs: 2, ClipCount: 5})
	r.JobStarted(JobStartInfo{RunID: "abc", Index: 1, TotalJobs: 2})
	r.StateChanged(StateChange{Job: 1, State: "joining"})
	r.LogLine(LogLine{Job: 1, Line: "hello"})
	r.Warning("careful")
	r.BatchComplete(BatchSummary{RunID: "abc", CompletedJobs: 2, TotalJobs: 2})

	events := decodeLines(t, &buf)
	want := []string{"batch_started", "job_started", "state_changed", "log_line", "warning", "batch_complete"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev["type"] != want[i] {
			t.Errorf("event %d type = %v, want %s", i, ev["type"], want[i])
		}
		if _, ok := ev["timestamp"]; !ok {
			t.Errorf("event %d missing timestamp", i)
		}
	}
	if events[3]["line"] != "hello" {
		t.Errorf("log_line line = %v", events[3]["line"])
	}
	if paths, ok := events[5]["output_paths"].([]any); !ok || len(paths) != 0 {
		t.Errorf("output_paths = %v, want empty array", events[5]["output_paths"])
	}
}

func TestJSONReporterThrottlesProgress(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)
	r.JobStarted(JobStartInfo{Index: 1, TotalJobs: 1})

	r.EncodingProgress(ProgressSnapshot{Job: 1, Percent: 10})
	r.EncodingProgress(ProgressSnapshot{Job: 1, Percent: 10.2})
	r.EncodingProgress(ProgressSnapshot{Job: 1, Percent: 10.7})
	r.EncodingProgress(ProgressSnapshot{Job: 1, Percent: 11})
	r.EncodingProgress(ProgressSnapshot{Job: 1, Percent: 99.5})

	count := 0
	for _, ev := range decodeLines(t, &buf) {
		if ev["type"] == "encoding_progress" {
			count++
		}
	}
	if count != 3 {
		t.Errorf("emitted %d progress events, want 3", count)
	}
}

func TestJobStartedResetsProgressThrottle(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporterWithWriter(&buf)

	r.JobStarted(JobStartInfo{Index: 1})
	r.EncodingProgress(ProgressSnapshot{Job: 1, Percent: 50})
	r.JobStarted(JobStartInfo{Index: 2})
	r.EncodingProgress(ProgressSnapshot{Job: 2, Percent: 5})

	count := 0
	for _, ev := range decodeLines(t, &buf) {
		if ev["type"] == "encoding_progress" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("emitted %d progress events, want 2", count)
	}
}

type countingReporter struct {
	NullReporter
	warnings int
}

func (c *countingReporter) Warning(string) { c.warnings++ }

func TestCompositeReporterFansOut(t *testing.T) {
	a, b := &countingReporter{}, &countingReporter{}
	c := NewCompositeReporter(a, nil, b)
	c.Warning("x")
	c.Warning("y")
	if a.warnings != 2 || b.warnings != 2 {
		t.Errorf("warnings = %d, %d; want 2, 2", a.warnings, b.warnings)
	}
}
