// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	RunID         string
	TotalJobs     int
	ClipCount     int
	OutputPath    string
	ShuffleMode   string
	OutputMode    string
	TargetSeconds int
}

// JobStartInfo describes a job about to run.
type JobStartInfo struct {
	RunID      string
	Index      int
	TotalJobs  int
	ClipCount  int
	OutputPath string
}

// StateChange reports a job moving to a new state.
type StateChange struct {
	Job   int
	State string
}

// LogLine is one line of external tool output, or a command echo.
type LogLine struct {
	Job  int
	Line string
}

// NormalizeProgress reports the clip being normalized.
type NormalizeProgress struct {
	Job     int
	Current int
	Total   int
	Clip    string
	Cached  bool
}

// ProgressSnapshot contains final pass progress information.
type ProgressSnapshot struct {
	Job         int
	Percent     float32
	ElapsedSecs float64
	Speed       float32
}

// JobOutcome contains the result of a finished job.
type JobOutcome struct {
	Index      int
	OutputPath string
	ClipCount  int
	Retried    bool
	Elapsed    time.Duration
}

// CompatibilitySummary contains the result of a compatibility check.
type CompatibilitySummary struct {
	Pass        bool
	Checked     int
	Baseline    string
	Recommended string
	Summary     string
	Diagnostics []string
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	RunID         string
	CompletedJobs int
	TotalJobs     int
	OutputPaths   []string
	TotalDuration time.Duration
}
