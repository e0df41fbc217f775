// Package drymix builds randomized, duration-targeted mixes of video clips
// with ffmpeg.
//
// A Mixer runs one batch at a time on a background goroutine and reports
// progress through an EventHandler:
//
//	m := drymix.New()
//	cfg := drymix.DefaultConfig()
//	cfg.Output.Path = "out/mix.mp4"
//	m.Start(ctx, drymix.Request{Clips: clips, Config: cfg}, func(ev drymix.Event) error {
//	    fmt.Println(ev.Type())
//	    return nil
//	})
//	result, err := m.Wait()
package drymix

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/drymix/internal/autofill"
	"github.com/five82/drymix/internal/batch"
	"github.com/five82/drymix/internal/compat"
	"github.com/five82/drymix/internal/config"
	"github.com/five82/drymix/internal/deps"
	derrors "github.com/five82/drymix/internal/errors"
	"github.com/five82/drymix/internal/ffmpeg"
	"github.com/five82/drymix/internal/ffprobe"
	"github.com/five82/drymix/internal/ordering"
	"github.com/five82/drymix/internal/reporter"
	"github.com/five82/drymix/internal/validation"
)

// defaultEventBuffer bounds the queue between the worker and the handler.
const defaultEventBuffer = 256

// Re-exported types.
type (
	Config              = config.Config
	Reporter            = reporter.Reporter
	CompatibilityReport = compat.Report
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a TOML config file. An empty path reads the default location if present.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := config.Load(path)
	return cfg, err
}

// Request is one batch to build.
type Request struct {
	Clips  []string
	Config Config
}

// Result is the outcome of a finished batch.
type Result struct {
	RunID         string
	OutputPaths   []string
	CompletedJobs int
	TotalJobs     int
	Cancelled     bool
	Elapsed       time.Duration
}

// mediaProber is what the Mixer needs from ffprobe.
type mediaProber interface {
	autofill.DurationProber
	compat.SignatureProber
	validation.MediaAnalyzer
}

// Mixer runs batches. At most one batch runs at a time.
type Mixer struct {
	ffmpegPath  string
	ffprobePath string
	reporter    reporter.Reporter
	logger      *slog.Logger
	bufferSize  int
	seed        *uint64
	runner      batch.ProcessRunner
	prober      mediaProber
	checkTools  bool

	mu      sync.Mutex
	running bool
	rc      *ffmpeg.RunContext
	done    chan struct{}
	result  *Result
	err     error
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithFFmpegPath sets the ffmpeg binary.
func WithFFmpegPath(path string) Option {
	return func(m *Mixer) { m.ffmpegPath = path }
}

// WithFFprobePath sets the ffprobe binary.
func WithFFprobePath(path string) Option {
	return func(m *Mixer) { m.ffprobePath = path }
}

// WithReporter adds a Reporter that receives every update directly on the
// worker goroutine, alongside the EventHandler.
func WithReporter(rep Reporter) Option {
	return func(m *Mixer) { m.reporter = rep }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mixer) { m.logger = logger }
}

// WithEventBuffer sets how many events may queue before the worker waits.
func WithEventBuffer(n int) Option {
	return func(m *Mixer) {
		if n > 0 {
			m.bufferSize = n
		}
	}
}

// WithSeed makes shuffles deterministic.
func WithSeed(seed uint64) Option {
	return func(m *Mixer) { m.seed = &seed }
}

// New creates a Mixer with the given options.
func New(opts ...Option) *Mixer {
	m := &Mixer{
		ffmpegPath:  ffmpeg.DefaultPath,
		ffprobePath: ffprobe.DefaultPath,
		logger:      slog.Default(),
		bufferSize:  defaultEventBuffer,
		checkTools:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runner == nil {
		m.runner = ffmpeg.NewRunner(m.ffmpegPath)
	}
	if m.prober == nil {
		m.prober = ffprobe.NewProber(m.ffprobePath)
	}
	return m
}

// Start begins building req in the background and returns true. If a batch
// is already running it does nothing and returns false. Events are delivered
// to handler in order; the last one is always BatchComplete, BatchFailed or
// BatchCancelled.
func (m *Mixer) Start(ctx context.Context, req Request, handler EventHandler) bool {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logger.Info("batch already running; ignoring start")
		return false
	}
	m.running = true
	m.rc = ffmpeg.NewRunContext(ctx)
	m.done = make(chan struct{})
	m.result, m.err = nil, nil
	rc, done := m.rc, m.done
	m.mu.Unlock()

	events := make(chan Event, m.bufferSize)
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for ev := range events {
			if handler == nil {
				continue
			}
			if err := handler(ev); err != nil {
				m.logger.Debug("event handler error", "type", ev.Type(), "error", err)
			}
		}
	}()

	emit := func(ev Event) { events <- ev }

	go func() {
		var (
			result *Result
			err    error
		)
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("internal error: %v", p)
				m.logger.Error("batch panicked", "panic", p)
				emit(BatchFailedEvent{BaseEvent: newBase(EventTypeBatchFailed), Reason: err.Error()})
			}
			close(events)
			<-dispatched

			m.mu.Lock()
			m.running = false
			m.result, m.err = result, err
			m.mu.Unlock()
			rc.Cancel()
			close(done)
		}()
		result, err = m.run(rc, req, emit)
	}()
	return true
}

func (m *Mixer) run(rc *ffmpeg.RunContext, req Request, emit func(Event)) (*Result, error) {
	rep := reporter.NewCompositeReporter(m.reporter, newEventReporter(emit))

	opts, err := buildOptions(req)
	if err != nil {
		reportFailure(rep, "Invalid request", err)
		return nil, err
	}

	if rc.Cancelled() {
		return cancelledBeforeStart(rep, opts), nil
	}

	if m.checkTools {
		statuses := deps.CheckBinaries(rc.Context(), deps.ToolRequirements(m.ffmpegPath, m.ffprobePath))
		// A killed -version call is a stop request, not a missing tool.
		if rc.Cancelled() {
			return cancelledBeforeStart(rep, opts), nil
		}
		if err := deps.Require(statuses); err != nil {
			reportFailure(rep, "Missing tools", err)
			return nil, err
		}
	}

	orch := batch.New(m.runner, m.prober,
		batch.WithReporter(rep),
		batch.WithLogger(m.logger),
		batch.WithShuffler(m.newShuffler()),
		batch.WithToolName(m.ffmpegPath),
		batch.WithValidator(m.prober),
	)
	summary, err := orch.Run(rc, opts)
	if summary == nil {
		return nil, err
	}
	return &Result{
		RunID:         summary.RunID,
		OutputPaths:   summary.Outputs,
		CompletedJobs: summary.Completed,
		TotalJobs:     summary.Total,
		Cancelled:     summary.Cancelled,
		Elapsed:       summary.Elapsed,
	}, err
}

// cancelledBeforeStart reports a batch stopped before any job ran.
func cancelledBeforeStart(rep reporter.Reporter, opts batch.Options) *Result {
	total := max(opts.Jobs, 1)
	rep.BatchCancelled(reporter.BatchSummary{TotalJobs: total})
	return &Result{TotalJobs: total, Cancelled: true}
}

func reportFailure(rep reporter.Reporter, title string, err error) {
	rep.Error(reporter.ReporterError{Title: title, Message: err.Error()})
}

// Stop requests cancellation of the running batch. The active ffmpeg process
// is terminated; Stop does not wait for it.
func (m *Mixer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rc != nil && m.running {
		m.rc.Cancel()
	}
}

// Wait blocks until the current batch finishes and returns its outcome. It
// returns immediately when no batch was started.
func (m *Mixer) Wait() (*Result, error) {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done == nil {
		return nil, nil
	}
	<-done

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.err
}

// Running reports whether a batch is in progress.
func (m *Mixer) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// CheckCompatibility probes clips and reports whether they can be joined
// without re-encoding.
func (m *Mixer) CheckCompatibility(ctx context.Context, clips []string) (*CompatibilityReport, error) {
	return compat.Evaluate(ctx, clips, m.prober)
}

// Preview returns the clip order the first job of req would use, without
// running anything.
func (m *Mixer) Preview(req Request) ([]string, error) {
	opts, err := buildOptions(req)
	if err != nil {
		return nil, err
	}
	if !opts.ShuffleEachJob {
		return opts.Clips, nil
	}
	return m.newShuffler().Shuffle(opts.Clips, opts.ShuffleMode, opts.BlockSize), nil
}

func (m *Mixer) newShuffler() *ordering.Shuffler {
	if m.seed != nil {
		return ordering.NewSeededShuffler(*m.seed)
	}
	return ordering.NewShuffler()
}

// buildOptions validates req and converts it into batch options. Duplicated
// clips are appended first. A repeat count above one then repeats the list
// and, unless a block size is set, uses the pre-repeat length as the block size.
func buildOptions(req Request) (batch.Options, error) {
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return batch.Options{}, derrors.NewConfigError("invalid configuration", err)
	}
	if len(req.Clips) == 0 {
		return batch.Options{}, derrors.NewNoFilesFoundError("the request")
	}

	clips := req.Clips
	if len(cfg.Order.Duplicate) > 0 {
		indices := make([]int, 0, len(cfg.Order.Duplicate))
		for _, n := range cfg.Order.Duplicate {
			if n > len(clips) {
				return batch.Options{}, derrors.NewConfigError(
					fmt.Sprintf("duplicate clip %d is out of range (1-%d)", n, len(clips)), nil)
			}
			indices = append(indices, n-1)
		}
		clips = ordering.RepeatSelected(clips, indices, cfg.Order.DuplicateTimes)
	}

	blockSize := cfg.Order.BlockSize
	if cfg.Order.Repeat > 1 {
		base := len(clips)
		clips = ordering.Repeat(clips, cfg.Order.Repeat)
		if blockSize == 0 {
			blockSize = base
		}
	}

	return batch.Options{
		Clips:          clips,
		OutputPath:     cfg.Output.Path,
		Jobs:           cfg.Output.Jobs,
		ShuffleEachJob: cfg.Order.ShuffleEachJob,
		ShuffleMode:    cfg.ShuffleMode(),
		BlockSize:      blockSize,
		TargetSeconds:  cfg.TargetSeconds(),
		Fixed:          cfg.Duration.Fixed,
		Autofill:       cfg.Duration.Autofill,
		Normalize:      cfg.Normalize(),
		Plan:           cfg.PlanOptions(),
		AudioPath:      cfg.Audio.Track,
		AudioBitrate:   cfg.Audio.Bitrate,
		TrimToAudio:    cfg.Audio.TrimToTrack,
		KeepWorkDir:    cfg.Output.KeepWorkDir,
	}, nil
}

// eventReporter adapts EventHandler delivery to the Reporter interface.
type eventReporter struct {
	emit func(Event)
}

func newEventReporter(emit func(Event)) *eventReporter {
	return &eventReporter{emit: emit}
}

func (r *eventReporter) BatchStarted(reporter.BatchStartInfo)        {}
func (r *eventReporter) Compatibility(reporter.CompatibilitySummary) {}
func (r *eventReporter) Verbose(string)                              {}

func (r *eventReporter) JobStarted(info reporter.JobStartInfo) {
	r.emit(JobStartedEvent{
		BaseEvent:  newBase(EventTypeJobStarted),
		Job:        info.Index,
		TotalJobs:  info.TotalJobs,
		OutputPath: info.OutputPath,
	})
}

func (r *eventReporter) StateChanged(c reporter.StateChange) {
	r.emit(StatusChangeEvent{BaseEvent: newBase(EventTypeStatusChange), Job: c.Job, State: c.State})
}

func (r *eventReporter) LogLine(l reporter.LogLine) {
	r.emit(LogLineEvent{BaseEvent: newBase(EventTypeLogLine), Job: l.Job, Line: l.Line})
}

func (r *eventReporter) NormalizeProgress(p reporter.NormalizeProgress) {
	line := fmt.Sprintf("normalizing %d/%d %s", p.Current, p.Total, p.Clip)
	if p.Cached {
		line += " (cached)"
	}
	r.emit(LogLineEvent{BaseEvent: newBase(EventTypeLogLine), Job: p.Job, Line: line})
}

func (r *eventReporter) EncodingProgress(p reporter.ProgressSnapshot) {
	r.emit(ProgressEvent{
		BaseEvent:      newBase(EventTypeProgress),
		Job:            p.Job,
		Percent:        p.Percent,
		ElapsedSeconds: p.ElapsedSecs,
		Speed:          p.Speed,
	})
}

func (r *eventReporter) JobComplete(o reporter.JobOutcome) {
	r.emit(JobCompleteEvent{
		BaseEvent:       newBase(EventTypeJobComplete),
		Job:             o.Index,
		OutputPath:      o.OutputPath,
		Clips:           o.ClipCount,
		Retried:         o.Retried,
		DurationSeconds: int64(o.Elapsed.Seconds()),
	})
}

func (r *eventReporter) Warning(message string) {
	r.emit(WarningEvent{BaseEvent: newBase(EventTypeWarning), Message: message})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	r.emit(BatchFailedEvent{BaseEvent: newBase(EventTypeBatchFailed), Reason: e.Message})
}

func (r *eventReporter) BatchComplete(s reporter.BatchSummary) {
	r.emit(BatchCompleteEvent{BaseEvent: newBase(EventTypeBatchComplete), OutputPaths: s.OutputPaths})
}

func (r *eventReporter) BatchCancelled(s reporter.BatchSummary) {
	r.emit(BatchCancelledEvent{
		BaseEvent:     newBase(EventTypeBatchCancelled),
		CompletedJobs: s.CompletedJobs,
		OutputPaths:   s.OutputPaths,
	})
}
