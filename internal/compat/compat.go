// Package compat decides whether a clip list can be joined without re-encoding.
package compat

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/five82/drymix/internal/ffprobe"
)

// SignatureProber returns the stream signature of a clip.
type SignatureProber interface {
	Signature(ctx context.Context, path string) (ffprobe.Signature, error)
}

// OutputMode is how a mix is assembled from its clips.
type OutputMode string

const (
	// ModeCopy joins clips as they are.
	ModeCopy OutputMode = "copy"
	// ModeNormalize re-encodes every clip to a common format before joining.
	ModeNormalize OutputMode = "normalize"
)

// Diagnostic records why a clip does not match the baseline.
type Diagnostic struct {
	Clip   string
	Fields []ffprobe.FieldDiff
	Err    error
}

func (d Diagnostic) String() string {
	name := filepath.Base(d.Clip)
	if d.Err != nil {
		return fmt.Sprintf("%s: could not read stream info", name)
	}
	parts := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", name, strings.Join(parts, "; "))
}

// Report is the outcome of a compatibility evaluation.
type Report struct {
	Pass        bool
	Baseline    *ffprobe.Signature
	BaselineFor string
	Checked     int
	Diagnostics []Diagnostic
}

// RecommendedMode returns the output mode suggested by the report.
func (r *Report) RecommendedMode() OutputMode {
	if r.Pass {
		return ModeCopy
	}
	return ModeNormalize
}

// Summary returns a one-line description of the result.
func (r *Report) Summary() string {
	switch {
	case r.Pass:
		return fmt.Sprintf("all %d clips share the same stream format", r.Checked)
	case r.Baseline == nil:
		return "no clip could be probed"
	default:
		return fmt.Sprintf("%d of %d clips differ from %s", len(r.Diagnostics), r.Checked, filepath.Base(r.BaselineFor))
	}
}

// Evaluate probes each distinct clip and compares it with the first clip that
// probed successfully. The report passes when a baseline exists and nothing
// differs. Only ctx cancellation is returned as an error.
func Evaluate(ctx context.Context, clips []string, prober SignatureProber) (*Report, error) {
	report := &Report{}
	seen := make(map[string]struct{}, len(clips))

	for _, clip := range clips {
		if _, ok := seen[clip]; ok {
			continue
		}
		seen[clip] = struct{}{}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Checked++

		sig, err := prober.Signature(ctx, clip)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("Could not probe clip", "clip", clip, "error", err)
			report.Diagnostics = append(report.Diagnostics, Diagnostic{Clip: clip, Err: err})
			continue
		}

		if report.Baseline == nil {
			report.Baseline = &sig
			report.BaselineFor = clip
			continue
		}
		if diffs := sig.Diff(*report.Baseline); len(diffs) > 0 {
			report.Diagnostics = append(report.Diagnostics, Diagnostic{Clip: clip, Fields: diffs})
		}
	}

	report.Pass = report.Baseline != nil && len(report.Diagnostics) == 0
	return report, nil
}
