package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/five82/drymix"
	"github.com/five82/drymix/internal/compat"
	"github.com/five82/drymix/internal/deps"
	derrors "github.com/five82/drymix/internal/errors"
	"github.com/five82/drymix/internal/reporter"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var f inputFlags

	cmd := &cobra.Command{
		Use:   "check [clips...]",
		Short: "Check whether clips can be joined without re-encoding",
		Long: `Check probes every clip and compares its streams with the first readable
clip. It exits non-zero when the clips differ, since joining them in copy mode
is then likely to fail; use --output-mode normalize for such inputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			clips, err := f.clips(args, ctx.logger())
			if err != nil {
				return err
			}

			probe := deps.CheckBinaries(cmd.Context(), []deps.Requirement{
				{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "reads stream info"},
			})
			if err := deps.Require(probe); err != nil {
				return err
			}

			m := drymix.New(drymix.WithFFprobePath(cfg.Tools.FFprobe))
			report, err := m.CheckCompatibility(cmd.Context(), clips)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			summary := compatibilitySummary(report)
			if f.jsonMode {
				reporter.NewJSONReporterWithWriter(out).Compatibility(summary)
				return compatibilityError(report)
			}

			fmt.Fprintln(out, renderTable(
				[]string{"#", "Clip", "Status", "Details"},
				compatibilityRows(clips, report),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			summary.Diagnostics = nil
			reporter.NewTerminalReporterWithWriter(out, false).Compatibility(summary)
			return compatibilityError(report)
		},
	}
	f.register(cmd)
	return cmd
}

// compatibilityError returns an incompatible-inputs error when report failed.
func compatibilityError(report *compat.Report) error {
	if report.Pass {
		return nil
	}
	return derrors.NewIncompatibleError(report.Summary())
}

func compatibilitySummary(report *compat.Report) reporter.CompatibilitySummary {
	summary := reporter.CompatibilitySummary{
		Pass:        report.Pass,
		Checked:     report.Checked,
		Recommended: string(report.RecommendedMode()),
		Summary:     report.Summary(),
	}
	if report.Baseline != nil {
		summary.Baseline = fmt.Sprintf("%s (%s %s)", filepath.Base(report.BaselineFor),
			report.Baseline.VideoCodec, report.Baseline.Resolution())
	}
	for _, d := range report.Diagnostics {
		summary.Diagnostics = append(summary.Diagnostics, d.String())
	}
	return summary
}

// compatibilityRows lists each distinct clip once with its verdict.
func compatibilityRows(clips []string, report *compat.Report) [][]string {
	byClip := make(map[string]compat.Diagnostic, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		byClip[d.Clip] = d
	}

	seen := make(map[string]struct{}, len(clips))
	var rows [][]string
	for _, clip := range clips {
		if _, ok := seen[clip]; ok {
			continue
		}
		seen[clip] = struct{}{}

		status, details := "ok", ""
		if d, ok := byClip[clip]; ok {
			status = "differs"
			if d.Err != nil {
				status = "unreadable"
			}
			details = d.String()
		} else if clip == report.BaselineFor {
			status = "baseline"
		}
		rows = append(rows, []string{fmt.Sprint(len(rows) + 1), filepath.Base(clip), status, details})
	}
	return rows
}
