package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]any{
		"type":           "batch_started",
		"run_id":         info.RunID,
		"total_jobs":     info.TotalJobs,
		"clip_count":     info.ClipCount,
		"output_path":    info.OutputPath,
		"shuffle_mode":   info.ShuffleMode,
		"output_mode":    info.OutputMode,
		"target_seconds": info.TargetSeconds,
		"timestamp":      r.timestamp(),
	})
}

func (r *JSONReporter) JobStarted(info JobStartInfo) {
	r.mu.Lock()
	r.lastProgressBucket = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]any{
		"type":        "job_started",
		"run_id":      info.RunID,
		"job":         info.Index,
		"total_jobs":  info.TotalJobs,
		"clip_count":  info.ClipCount,
		"output_path": info.OutputPath,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) StateChanged(change StateChange) {
	r.write(map[string]any{
		"type":      "state_changed",
		"job":       change.Job,
		"state":     change.State,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) LogLine(line LogLine) {
	r.write(map[string]any{
		"type":      "log_line",
		"job":       line.Job,
		"line":      line.Line,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) NormalizeProgress(progress NormalizeProgress) {
	r.write(map[string]any{
		"type":      "normalize_progress",
		"job":       progress.Job,
		"current":   progress.Current,
		"total":     progress.Total,
		"clip":      progress.Clip,
		"cached":    progress.Cached,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) EncodingProgress(progress ProgressSnapshot) {
	const progressBucketSize = 1
	const minInterval = 5 * time.Second

	bucket := int(progress.Percent) / progressBucketSize
	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || progress.Percent >= 99.0

	if !shouldEmit {
		r.mu.Unlock()
		return
	}

	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]any{
		"type":            "encoding_progress",
		"job":             progress.Job,
		"percent":         progress.Percent,
		"elapsed_seconds": progress.ElapsedSecs,
		"speed":           progress.Speed,
		"timestamp":       r.timestamp(),
	})
}

func (r *JSONReporter) JobComplete(outcome JobOutcome) {
	r.write(map[string]any{
		"type":             "job_complete",
		"job":              outcome.Index,
		"output_path":      outcome.OutputPath,
		"clip_count":       outcome.ClipCount,
		"retried":          outcome.Retried,
		"duration_seconds": int64(outcome.Elapsed.Seconds()),
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) Compatibility(summary CompatibilitySummary) {
	diagnostics := summary.Diagnostics
	if diagnostics == nil {
		diagnostics = []string{}
	}
	r.write(map[string]any{
		"type":        "compatibility",
		"pass":        summary.Pass,
		"checked":     summary.Checked,
		"baseline":    summary.Baseline,
		"recommended": summary.Recommended,
		"summary":     summary.Summary,
		"diagnostics": diagnostics,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.writeSummary("batch_complete", summary)
}

func (r *JSONReporter) BatchCancelled(summary BatchSummary) {
	r.writeSummary("batch_cancelled", summary)
}

func (r *JSONReporter) writeSummary(kind string, summary BatchSummary) {
	paths := summary.OutputPaths
	if paths == nil {
		paths = []string{}
	}
	r.write(map[string]any{
		"type":                   kind,
		"run_id":                 summary.RunID,
		"completed_jobs":         summary.CompletedJobs,
		"total_jobs":             summary.TotalJobs,
		"output_paths":           paths,
		"total_duration_seconds": int64(summary.TotalDuration.Seconds()),
		"timestamp":              r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]any{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
