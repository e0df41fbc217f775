package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter. Nil reporters are skipped.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	c := &CompositeReporter{}
	for _, r := range reporters {
		if r != nil {
			c.reporters = append(c.reporters, r)
		}
	}
	return c
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) JobStarted(info JobStartInfo) {
	for _, r := range c.reporters {
		r.JobStarted(info)
	}
}

func (c *CompositeReporter) StateChanged(change StateChange) {
	for _, r := range c.reporters {
		r.StateChanged(change)
	}
}

func (c *CompositeReporter) LogLine(line LogLine) {
	for _, r := range c.reporters {
		r.LogLine(line)
	}
}

func (c *CompositeReporter) NormalizeProgress(progress NormalizeProgress) {
	for _, r := range c.reporters {
		r.NormalizeProgress(progress)
	}
}

func (c *CompositeReporter) EncodingProgress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.EncodingProgress(progress)
	}
}

func (c *CompositeReporter) JobComplete(outcome JobOutcome) {
	for _, r := range c.reporters {
		r.JobComplete(outcome)
	}
}

func (c *CompositeReporter) Compatibility(summary CompatibilitySummary) {
	for _, r := range c.reporters {
		r.Compatibility(summary)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}

func (c *CompositeReporter) BatchCancelled(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchCancelled(summary)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
