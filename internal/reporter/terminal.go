package reporter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/five82/drymix/internal/util"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	out        io.Writer
	verbose    bool
	progress   *progressbar.ProgressBar
	maxPercent float32
	cyan       *color.Color
	green      *color.Color
	greenBold  *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
	faint      *color.Color
}

// NewTerminalReporter creates a new terminal reporter. When verbose is set,
// tool output lines and debug messages are echoed.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return NewTerminalReporterWithWriter(os.Stdout, verbose)
}

// NewTerminalReporterWithWriter creates a terminal reporter writing to w.
func NewTerminalReporterWithWriter(w io.Writer, verbose bool) *TerminalReporter {
	return &TerminalReporter{
		out:       w,
		verbose:   verbose,
		cyan:      color.New(color.FgCyan, color.Bold),
		green:     color.New(color.FgGreen),
		greenBold: color.New(color.FgGreen, color.Bold),
		yellow:    color.New(color.FgYellow, color.Bold),
		red:       color.New(color.FgRed, color.Bold),
		magenta:   color.New(color.FgMagenta),
		bold:      color.New(color.Bold),
		faint:     color.New(color.Faint),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "MIX")
	const w = 9
	r.printLabel(w, "Clips:", fmt.Sprintf("%d", info.ClipCount))
	r.printLabel(w, "Jobs:", fmt.Sprintf("%d", info.TotalJobs))
	r.printLabel(w, "Target:", util.FormatDurationFromSecs(int64(info.TargetSeconds)))
	r.printLabel(w, "Shuffle:", info.ShuffleMode)
	r.printLabel(w, "Mode:", info.OutputMode)
	r.printLabel(w, "Output:", info.OutputPath)
}

func (r *TerminalReporter) JobStarted(info JobStartInfo) {
	r.finishProgress()
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintf(r.out, "JOB %d/%d\n", info.Index, info.TotalJobs)
	r.printLabel(7, "Clips:", fmt.Sprintf("%d", info.ClipCount))
	r.printLabel(7, "Output:", info.OutputPath)
}

func (r *TerminalReporter) StateChanged(change StateChange) {
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.magenta.Sprint("›"), change.State)
}

func (r *TerminalReporter) LogLine(line LogLine) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	active := r.progress != nil
	r.mu.Unlock()
	if active {
		_, _ = fmt.Fprintln(os.Stderr)
	}
	_, _ = r.faint.Fprintf(r.out, "    %s\n", line.Line)
}

func (r *TerminalReporter) NormalizeProgress(progress NormalizeProgress) {
	status := ""
	if progress.Cached {
		status = r.faint.Sprint(" (cached)")
	}
	_, _ = fmt.Fprintf(r.out, "  %s normalizing %d/%d %s%s\n",
		r.magenta.Sprint("›"), progress.Current, progress.Total, progress.Clip, status)
}

func (r *TerminalReporter) EncodingProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		r.progress = progressbar.NewOptions64(
			100,
			progressbar.OptionSetDescription(""),
			progressbar.OptionSetWidth(40),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "Joining [",
				BarEnd:        "]",
			}),
		)
	}

	clamped := min(max(progress.Percent, 0), 100)
	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	desc := fmt.Sprintf("speed %.1fx, elapsed %s",
		progress.Speed, util.FormatDuration(progress.ElapsedSecs))
	r.progress.Describe(desc)
}

func (r *TerminalReporter) JobComplete(outcome JobOutcome) {
	r.finishProgress()
	note := ""
	if outcome.Retried {
		note = r.faint.Sprint(" (without stream mapping)")
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s in %s%s\n",
		r.greenBold.Sprint("✓"),
		r.bold.Sprint(outcome.OutputPath),
		util.FormatDuration(outcome.Elapsed.Seconds()),
		note)
}

func (r *TerminalReporter) Compatibility(summary CompatibilitySummary) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "COMPATIBILITY")

	if summary.Pass {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.greenBold.Sprint(summary.Summary))
	} else {
		_, _ = fmt.Fprintf(r.out, "  %s\n", r.yellow.Sprint(summary.Summary))
	}
	if summary.Baseline != "" {
		r.printLabel(12, "Baseline:", summary.Baseline)
	}
	r.printLabel(12, "Recommended:", summary.Recommended)
	for _, d := range summary.Diagnostics {
		_, _ = fmt.Fprintf(r.out, "  - %s %s\n", r.red.Sprint("✗"), d)
	}
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.finishProgress()
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d mixes written", summary.CompletedJobs, summary.TotalJobs))
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", util.FormatDurationFromSecs(int64(summary.TotalDuration.Seconds())))
	for _, p := range summary.OutputPaths {
		_, _ = fmt.Fprintf(r.out, "  - %s\n", r.green.Sprint(p))
	}
}

func (r *TerminalReporter) BatchCancelled(summary BatchSummary) {
	r.finishProgress()
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "Stopped after %d of %d mixes\n", summary.CompletedJobs, summary.TotalJobs)
}

func (r *TerminalReporter) Verbose(message string) {
	if r.verbose {
		_, _ = r.faint.Fprintf(r.out, "  %s\n", message)
	}
}
