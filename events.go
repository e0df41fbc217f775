package drymix

import "time"

// EventType identifies an event.
type EventType string

const (
	EventTypeLogLine        EventType = "log_line"
	EventTypeStatusChange   EventType = "status_change"
	EventTypeJobStarted     EventType = "job_started"
	EventTypeJobComplete    EventType = "job_complete"
	EventTypeProgress       EventType = "progress"
	EventTypeWarning        EventType = "warning"
	EventTypeBatchComplete  EventType = "batch_complete"
	EventTypeBatchFailed    EventType = "batch_failed"
	EventTypeBatchCancelled EventType = "batch_cancelled"
)

// Event is delivered to an EventHandler in the order it was produced.
type Event interface {
	Type() EventType
	Timestamp() int64
}

// EventHandler receives events. It runs on a single dispatcher goroutine, so
// a slow handler delays later events but never reorders them.
type EventHandler func(Event) error

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      int64     `json:"timestamp"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType { return e.EventType }

// Timestamp returns the Unix time the event was created.
func (e BaseEvent) Timestamp() int64 { return e.Time }

// NewTimestamp returns the current Unix time.
func NewTimestamp() int64 {
	return time.Now().Unix()
}

func newBase(t EventType) BaseEvent {
	return BaseEvent{EventType: t, Time: NewTimestamp()}
}

// LogLineEvent is one line of ffmpeg output or a command echo.
type LogLineEvent struct {
	BaseEvent
	Job  int    `json:"job"`
	Line string `json:"line"`
}

// StatusChangeEvent reports a job state transition.
type StatusChangeEvent struct {
	BaseEvent
	Job   int    `json:"job"`
	State string `json:"state"`
}

// JobStartedEvent is sent when a job begins.
type JobStartedEvent struct {
	BaseEvent
	Job        int    `json:"job"`
	TotalJobs  int    `json:"total_jobs"`
	OutputPath string `json:"output_path"`
}

// JobCompleteEvent is sent when a job's output has been written.
type JobCompleteEvent struct {
	BaseEvent
	Job             int    `json:"job"`
	OutputPath      string `json:"output_path"`
	Clips           int    `json:"clips"`
	Retried         bool   `json:"retried"`
	DurationSeconds int64  `json:"duration_seconds"`
}

// ProgressEvent reports progress of the final join.
type ProgressEvent struct {
	BaseEvent
	Job            int     `json:"job"`
	Percent        float32 `json:"percent"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Speed          float32 `json:"speed"`
}

// WarningEvent carries an advisory that does not stop the batch.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// BatchCompleteEvent is the terminal event of a successful batch.
type BatchCompleteEvent struct {
	BaseEvent
	OutputPaths []string `json:"output_paths"`
}

// BatchFailedEvent is the terminal event of a failed batch.
type BatchFailedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// BatchCancelledEvent is the terminal event of a stopped batch.
type BatchCancelledEvent struct {
	BaseEvent
	CompletedJobs int      `json:"completed_jobs"`
	OutputPaths   []string `json:"output_paths"`
}
