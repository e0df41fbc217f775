package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/five82/drymix/internal/autofill"
	derrors "github.com/five82/drymix/internal/errors"
	"github.com/five82/drymix/internal/ffmpeg"
	"github.com/five82/drymix/internal/ordering"
	"github.com/five82/drymix/internal/reporter"
	"github.com/five82/drymix/internal/util"
	"github.com/five82/drymix/internal/validation"
)

// LockFileName is created in the output directory while a batch runs.
const LockFileName = ".drymix.lock"

// ProcessRunner runs one external invocation to completion.
type ProcessRunner interface {
	Run(rc *ffmpeg.RunContext, args []string, sink ffmpeg.LineSink) ffmpeg.Result
}

// Orchestrator sequences jobs through shuffle, autofill, normalize, manifest
// and final join.
type Orchestrator struct {
	runner    ProcessRunner
	prober    autofill.DurationProber
	shuffler  *ordering.Shuffler
	reporter  reporter.Reporter
	logger    *slog.Logger
	toolName  string
	validator validation.MediaAnalyzer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the progress reporter.
func WithReporter(rep reporter.Reporter) Option {
	return func(o *Orchestrator) {
		if rep != nil {
			o.reporter = rep
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithShuffler sets the random source used for ordering.
func WithShuffler(s *ordering.Shuffler) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.shuffler = s
		}
	}
}

// WithToolName sets the program name echoed with each command line.
func WithToolName(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.toolName = name
		}
	}
}

// WithValidator checks each finished output with analyzer. Failed checks are
// reported as warnings.
func WithValidator(analyzer validation.MediaAnalyzer) Option {
	return func(o *Orchestrator) { o.validator = analyzer }
}

// New creates an Orchestrator.
func New(runner ProcessRunner, prober autofill.DurationProber, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:   runner,
		prober:   prober,
		shuffler: ordering.NewShuffler(),
		reporter: reporter.NullReporter{},
		logger:   slog.Default(),
		toolName: ffmpeg.DefaultPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run holds state shared by the jobs of one batch.
type run struct {
	id      string
	opts    Options
	outDir  string
	plan    ffmpeg.EncodePlan
	timing  ffmpeg.Timing
	audio   string
	total   int
	logger  *slog.Logger
	rc      *ffmpeg.RunContext
	started time.Time
	outputs []string
}

// Run executes every job of the batch in order. Cancellation through rc ends
// the batch with Summary.Cancelled set and a nil error. A process or
// filesystem failure aborts the batch and is returned.
func (o *Orchestrator) Run(rc *ffmpeg.RunContext, opts Options) (*Summary, error) {
	r := &run{
		id:      uuid.NewString(),
		opts:    opts,
		total:   max(opts.Jobs, 1),
		rc:      rc,
		started: time.Now(),
	}
	r.logger = o.logger.With("run_id", r.id)

	if err := o.prepare(r); err != nil {
		o.fail(r, err)
		return r.summary(false), err
	}

	lockPath := filepath.Join(r.outDir, LockFileName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil || !locked {
		if err == nil {
			err = errors.New("lock held by another process")
		}
		err = derrors.NewFilesystemError(fmt.Sprintf("another batch is writing to %s", r.outDir), err)
		o.fail(r, err)
		return r.summary(false), err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock", "error", err)
			return
		}
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to remove output lock", "path", lockPath, "error", err)
		}
	}()

	o.reporter.BatchStarted(reporter.BatchStartInfo{
		RunID:         r.id,
		TotalJobs:     r.total,
		ClipCount:     len(opts.Clips),
		OutputPath:    opts.OutputPath,
		ShuffleMode:   opts.ShuffleMode.String(),
		OutputMode:    r.outputMode(),
		TargetSeconds: opts.TargetSeconds,
	})
	r.logger.Info("batch started", "jobs", r.total, "clips", len(opts.Clips), "output", opts.OutputPath)

	for i := 1; i <= r.total; i++ {
		if rc.Cancelled() {
			return o.cancelled(r), nil
		}

		job := &Job{
			Index:      i,
			OutputPath: util.NumberedOutputPath(opts.OutputPath, i, r.total),
			WorkDir:    util.JobWorkDir(r.outDir, i),
			State:      StatePending,
		}
		state, err := o.runJob(r, job)
		switch state {
		case StateDone:
			r.outputs = append(r.outputs, job.OutputPath)
		case StateCancelled:
			return o.cancelled(r), nil
		default:
			o.fail(r, err)
			return r.summary(false), err
		}
	}

	summary := r.summary(false)
	o.reporter.BatchComplete(r.reporterSummary(summary))
	r.logger.Info("batch complete", "outputs", len(r.outputs), "elapsed", summary.Elapsed)
	return summary, nil
}

// prepare validates inputs and resolves everything shared across jobs.
func (o *Orchestrator) prepare(r *run) error {
	if len(r.opts.Clips) == 0 {
		return derrors.NewNoFilesFoundError("the clip list")
	}
	if r.opts.OutputPath == "" {
		return derrors.NewConfigError("output path is empty", nil)
	}
	if r.opts.AudioBitrate == "" {
		r.opts.AudioBitrate = "160k"
	}

	out, err := filepath.Abs(r.opts.OutputPath)
	if err != nil {
		return derrors.NewFilesystemError("resolve output path", err)
	}
	r.opts.OutputPath = out
	r.outDir = filepath.Dir(out)
	if !util.DirectoryExists(r.outDir) {
		r.logger.Info("creating output directory", "path", r.outDir)
		if err := util.EnsureDirectory(r.outDir); err != nil {
			return derrors.NewFilesystemError(fmt.Sprintf("create output directory %s", r.outDir), err)
		}
	}
	if err := util.EnsureDirectoryWritable(r.outDir); err != nil {
		return derrors.NewFilesystemError(fmt.Sprintf("output directory %s", r.outDir), err)
	}

	r.plan = ffmpeg.BuildPlan(r.opts.Plan)
	for _, advisory := range r.plan.Advisories {
		o.reporter.Warning(advisory)
		r.logger.Warn("encode plan", "advisory", advisory)
	}

	audioSeconds := 0.0
	if r.opts.AudioPath != "" {
		if util.FileExists(r.opts.AudioPath) {
			r.audio = r.opts.AudioPath
			if !util.IsAudioFile(r.audio) && !util.IsVideoFile(r.audio) {
				o.reporter.Warning(fmt.Sprintf("audio track %s has an unrecognized extension", util.GetFilename(r.audio)))
			}
			audioSeconds, err = o.prober.Duration(r.rc.Context(), r.audio)
			if err != nil {
				r.logger.Warn("audio duration unavailable", "path", r.audio, "error", err)
				audioSeconds = 0
			}
		} else {
			o.reporter.Warning(fmt.Sprintf("audio track %s not found; building without it", r.opts.AudioPath))
		}
	}

	r.timing = ffmpeg.ResolveTiming(ffmpeg.TimingInput{
		TargetSeconds: r.opts.TargetSeconds,
		Fixed:         r.opts.Fixed,
		TrimToAudio:   r.opts.TrimToAudio,
		HasAudio:      r.audio != "",
		AudioSeconds:  audioSeconds,
	})
	if r.timing.Advisory != "" {
		o.reporter.Warning(r.timing.Advisory)
		r.logger.Warn("timing", "advisory", r.timing.Advisory)
	}
	return nil
}

// runJob drives one job to a terminal state.
func (o *Orchestrator) runJob(r *run, job *Job) (State, error) {
	started := time.Now()
	logger := r.logger.With("job", job.Index)
	o.reporter.JobStarted(reporter.JobStartInfo{
		RunID:      r.id,
		Index:      job.Index,
		TotalJobs:  r.total,
		ClipCount:  len(r.opts.Clips),
		OutputPath: job.OutputPath,
	})
	o.setState(job, StatePending)

	if err := util.PrepareWorkDir(job.WorkDir); err != nil {
		o.setState(job, StateFailed)
		return StateFailed, derrors.NewFilesystemError(fmt.Sprintf("create work directory %s", job.WorkDir), err)
	}

	state, retried, err := o.buildJob(r, job, logger)
	o.setState(job, state)
	o.cleanup(r, job, logger)

	if state == StateDone {
		o.validate(r, job, logger)
		elapsed := time.Since(started)
		o.reporter.JobComplete(reporter.JobOutcome{
			Index:      job.Index,
			OutputPath: job.OutputPath,
			ClipCount:  len(job.Clips),
			Retried:    retried,
			Elapsed:    elapsed,
		})
		logger.Info("job complete", "output", job.OutputPath, "clips", len(job.Clips), "elapsed", elapsed)
	}
	return state, err
}

func (o *Orchestrator) buildJob(r *run, job *Job, logger *slog.Logger) (State, bool, error) {
	clips := r.opts.Clips
	if r.opts.ShuffleEachJob {
		clips = o.shuffler.Shuffle(clips, r.opts.ShuffleMode, r.opts.BlockSize)
		o.setState(job, StateShuffled)
	}

	if r.opts.Autofill {
		expanded, err := autofill.Expand(r.rc.Context(), clips, float64(r.timing.FillSeconds), o.prober)
		if err != nil {
			return StateCancelled, false, nil
		}
		logger.Debug("autofill", "before", len(clips), "after", len(expanded), "seconds", r.timing.FillSeconds)
		clips = expanded
		o.setState(job, StateExpanded)
	}
	job.Clips = clips

	if r.rc.Cancelled() {
		return StateCancelled, false, nil
	}

	manifestClips := clips
	if r.opts.Normalize && !r.plan.Passthrough {
		o.setState(job, StateNormalizing)
		normalized, state, err := o.normalize(r, job, logger)
		if state != StateNormalizing {
			return state, false, err
		}
		manifestClips = normalized
	}

	manifest := filepath.Join(job.WorkDir, "concat.txt")
	if err := ffmpeg.WriteConcatManifest(manifestClips, manifest); err != nil {
		return StateFailed, false, derrors.NewIOError("write concat manifest", err)
	}
	o.setState(job, StateManifestBuilt)

	if r.rc.Cancelled() {
		return StateCancelled, false, nil
	}
	o.setState(job, StateFinalizing)
	return o.finalize(r, job, manifest, logger)
}

// normalize re-encodes each distinct source once, in order of first use, and
// returns the clip list rewritten to the normalized files. A normalized file
// that already exists is reused.
func (o *Orchestrator) normalize(r *run, job *Job, logger *slog.Logger) ([]string, State, error) {
	dir := filepath.Join(job.WorkDir, "norm")
	if err := util.EnsureDirectory(dir); err != nil {
		return nil, StateFailed, derrors.NewFilesystemError("create normalize directory", err)
	}

	var sources []string
	mapped := make(map[string]string)
	for _, clip := range job.Clips {
		if _, ok := mapped[clip]; !ok {
			sources = append(sources, clip)
			mapped[clip] = ffmpeg.NormalizedClipPath(dir, len(sources))
		}
	}

	for i, src := range sources {
		if r.rc.Cancelled() {
			return nil, StateCancelled, nil
		}
		dst := mapped[src]
		cached := util.FileExists(dst)
		o.reporter.NormalizeProgress(reporter.NormalizeProgress{
			Job:     job.Index,
			Current: i + 1,
			Total:   len(sources),
			Clip:    util.GetFilename(src),
			Cached:  cached,
		})
		if cached {
			continue
		}

		partial := ffmpeg.PartialPath(dst)
		args := ffmpeg.NormalizeArgs(src, partial, r.plan, r.opts.AudioBitrate)
		res := o.exec(r, job, args, 0)
		if res.Cancelled || r.rc.Cancelled() {
			_ = os.Remove(partial)
			return nil, StateCancelled, nil
		}
		if !res.Success() {
			_ = os.Remove(partial)
			logger.Error("normalize failed", "clip", src, "error", res.Err)
			return nil, StateFailed, fmt.Errorf("normalize %s: %w", util.GetFilename(src), res.Err)
		}
		if err := os.Rename(partial, dst); err != nil {
			return nil, StateFailed, derrors.NewFilesystemError("finish normalized clip", err)
		}
	}

	out := make([]string, len(job.Clips))
	for i, clip := range job.Clips {
		out[i] = mapped[clip]
	}
	return out, StateNormalizing, nil
}

// finalize runs the join, retrying once without stream mapping when an
// external audio track is attached.
func (o *Orchestrator) finalize(r *run, job *Job, manifest string, logger *slog.Logger) (State, bool, error) {
	args := ffmpeg.FinalArgs(ffmpeg.FinalInput{
		Manifest:     manifest,
		Output:       job.OutputPath,
		Plan:         r.plan,
		AudioPath:    r.audio,
		AudioBitrate: r.opts.AudioBitrate,
		Timing:       r.timing,
	})
	expected := o.expectedSeconds(r, job)

	res := o.exec(r, job, args, expected)
	retried := false
	if !res.Success() && !res.Cancelled && r.audio != "" && !r.rc.Cancelled() {
		first := res
		o.reporter.Warning("final join failed; retrying without explicit stream mapping")
		logger.Warn("retrying without stream mapping", "error", first.Err)
		res = o.exec(r, job, ffmpeg.StripStreamMapping(args), expected)
		retried = true
		if !res.Success() && !res.Cancelled {
			res.Err = errors.Join(first.Err, res.Err)
		}
	}

	if res.Cancelled || r.rc.Cancelled() {
		return StateCancelled, retried, nil
	}
	if !res.Success() {
		logger.Error("final join failed", "output", job.OutputPath, "error", res.Err)
		return StateFailed, retried, fmt.Errorf("join %s: %w", util.GetFilename(job.OutputPath), res.Err)
	}
	return StateDone, retried, nil
}

// expectedSeconds is the output length used for progress percentages.
func (o *Orchestrator) expectedSeconds(r *run, job *Job) float64 {
	switch {
	case r.timing.TrimSeconds > 0:
		return float64(r.timing.TrimSeconds)
	case r.opts.Autofill:
		return float64(r.timing.FillSeconds)
	default:
		return autofill.TotalSeconds(r.rc.Context(), job.Clips, o.prober)
	}
}

// exec echoes and runs one invocation, forwarding output lines to the reporter.
func (o *Orchestrator) exec(r *run, job *Job, args []string, expectedSecs float64) ffmpeg.Result {
	cmdline := ffmpeg.FormatCommand(o.toolName, args)
	o.reporter.LogLine(reporter.LogLine{Job: job.Index, Line: "$ " + cmdline})
	r.logger.Debug("running", "job", job.Index, "command", cmdline)

	return o.runner.Run(r.rc, args, func(line string) {
		if p, ok := ffmpeg.ParseProgressLine(line, expectedSecs); ok {
			o.reporter.EncodingProgress(reporter.ProgressSnapshot{
				Job:         job.Index,
				Percent:     p.Percent,
				ElapsedSecs: p.ElapsedSecs,
				Speed:       p.Speed,
			})
			return
		}
		o.reporter.LogLine(reporter.LogLine{Job: job.Index, Line: line})
	})
}

// validate compares a finished output with what the job asked for.
func (o *Orchestrator) validate(r *run, job *Job, logger *slog.Logger) {
	if o.validator == nil {
		return
	}
	opts := validation.Options{
		AllowShorter: !r.opts.Autofill || r.timing.Shortest,
		ExpectAudio:  r.audio != "",
	}
	if r.timing.TrimSeconds > 0 {
		secs := float64(r.timing.TrimSeconds)
		opts.ExpectedDuration = &secs
	}
	if r.plan.FilterChain != "" {
		opts.ExpectedWidth = r.opts.Plan.Resolution.Width()
	}
	if len(r.plan.FrameRateArgs) > 0 {
		opts.ExpectedFrameRate = string(r.opts.Plan.FrameRate)
	}

	result, err := validation.ValidateOutput(r.rc.Context(), o.validator, job.OutputPath, opts)
	if err != nil {
		logger.Debug("output validation interrupted", "error", err)
		return
	}
	for _, failure := range result.GetFailures() {
		o.reporter.Warning(fmt.Sprintf("%s: %s", util.GetFilename(job.OutputPath), failure))
		logger.Warn("output validation failed", "output", job.OutputPath, "check", failure)
	}
}

// cleanup removes the job work directory unless a failed job asked to keep it.
func (o *Orchestrator) cleanup(r *run, job *Job, logger *slog.Logger) {
	if job.State == StateFailed && r.opts.KeepWorkDir {
		logger.Info("keeping work directory", "path", job.WorkDir)
		o.reporter.Verbose(fmt.Sprintf("work directory kept at %s", job.WorkDir))
		return
	}
	if err := util.RemoveWorkDir(job.WorkDir); err != nil {
		logger.Warn("failed to remove work directory", "path", job.WorkDir, "error", err)
		o.reporter.Warning(fmt.Sprintf("could not remove %s: %v", job.WorkDir, err))
	}
}

func (o *Orchestrator) setState(job *Job, state State) {
	job.State = state
	o.reporter.StateChanged(reporter.StateChange{Job: job.Index, State: state.String()})
}

func (o *Orchestrator) cancelled(r *run) *Summary {
	summary := r.summary(true)
	o.reporter.BatchCancelled(r.reporterSummary(summary))
	r.logger.Info("batch cancelled", "completed", summary.Completed, "total", summary.Total)
	return summary
}

func (o *Orchestrator) fail(r *run, err error) {
	title := "Batch failed"
	suggestion := ""
	switch {
	case derrors.IsKind(err, derrors.KindFilesystem), derrors.IsKind(err, derrors.KindIO):
		title = "Filesystem error"
		suggestion = "Check that the output directory exists and is writable"
	case derrors.IsKind(err, derrors.KindProcess):
		title = "FFmpeg failed"
		suggestion = "Run with --verbose to see the full ffmpeg output"
	case derrors.IsNoFilesFound(err):
		title = "No clips"
		suggestion = "Add video files or directories to the input list"
	}
	o.reporter.Error(reporter.ReporterError{
		Title:      title,
		Message:    err.Error(),
		Context:    fmt.Sprintf("Run: %s", r.id),
		Suggestion: suggestion,
	})
	r.logger.Error("batch failed", "error", err)
}

func (r *run) outputMode() string {
	if r.opts.Normalize && !r.plan.Passthrough {
		return "normalize"
	}
	return "copy"
}

func (r *run) summary(cancelled bool) *Summary {
	return &Summary{
		RunID:     r.id,
		Outputs:   append([]string(nil), r.outputs...),
		Completed: len(r.outputs),
		Total:     r.total,
		Cancelled: cancelled,
		Elapsed:   time.Since(r.started),
	}
}

func (r *run) reporterSummary(s *Summary) reporter.BatchSummary {
	return reporter.BatchSummary{
		RunID:         s.RunID,
		CompletedJobs: s.Completed,
		TotalJobs:     s.Total,
		OutputPaths:   s.Outputs,
		TotalDuration: s.Elapsed,
	}
}
