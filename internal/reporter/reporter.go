package reporter

// Reporter defines the interface for batch progress reporting.
type Reporter interface {
	BatchStarted(info BatchStartInfo)
	JobStarted(info JobStartInfo)
	StateChanged(change StateChange)
	LogLine(line LogLine)
	NormalizeProgress(progress NormalizeProgress)
	EncodingProgress(progress ProgressSnapshot)
	JobComplete(outcome JobOutcome)
	Compatibility(summary CompatibilitySummary)
	Warning(message string)
	Error(err ReporterError)
	BatchComplete(summary BatchSummary)
	BatchCancelled(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) BatchStarted(BatchStartInfo)         {}
func (NullReporter) JobStarted(JobStartInfo)             {}
func (NullReporter) StateChanged(StateChange)            {}
func (NullReporter) LogLine(LogLine)                     {}
func (NullReporter) NormalizeProgress(NormalizeProgress) {}
func (NullReporter) EncodingProgress(ProgressSnapshot)   {}
func (NullReporter) JobComplete(JobOutcome)              {}
func (NullReporter) Compatibility(CompatibilitySummary)  {}
func (NullReporter) Warning(string)                      {}
func (NullReporter) Error(ReporterError)                 {}
func (NullReporter) BatchComplete(BatchSummary)          {}
func (NullReporter) BatchCancelled(BatchSummary)         {}
func (NullReporter) Verbose(string)                      {}
